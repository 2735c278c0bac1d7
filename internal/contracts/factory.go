// Package contracts is the factory entry point for contract-generation
// adapters, mirroring the wallet factory's validate-construct-wrap flow.
package contracts

import (
	"context"

	"github.com/cobaltstack/chainforge/internal/environment"
	"github.com/cobaltstack/chainforge/internal/factory"
	"github.com/cobaltstack/chainforge/internal/intercept"
	"github.com/cobaltstack/chainforge/internal/registry"
	"github.com/cobaltstack/chainforge/internal/validate"
	"github.com/cobaltstack/chainforge/pkg/types"
)

// ModuleName is the smart-contract module's registry name.
const ModuleName = "contracts"

// ModuleVersion is the smart-contract module's current version.
const ModuleVersion = "1.0.0"

// Options selects and configures a contract adapter.
type Options struct {
	Name              string
	Version           string
	Options           map[string]any
	ExpectedInterface string
}

// New validates, constructs, and wraps a contract adapter from reg.
func New(ctx context.Context, reg *registry.Registry, opts Options) (types.ContractAdapter, error) {
	Register(reg)

	meta, err := factory.ResolveMetadata(reg, ModuleName, opts.Name, opts.Version)
	if err != nil {
		return nil, err
	}

	if err := environment.Validate(meta.Name, meta.Environment); err != nil {
		return nil, err
	}

	if err := validate.Validate(validate.Input{
		Name:      meta.Name,
		Version:   meta.Version,
		Params:    factory.ValidationParams(opts.Options, opts.ExpectedInterface),
		Meta:      &meta,
		Registry:  reg,
		Operation: "contracts.New",
	}); err != nil {
		return nil, err
	}

	guard := intercept.NewGuard(meta.Name, meta.CapabilitySet(), meta.ErrorMap, meta.DefaultErrorCode)
	instance, err := meta.Constructor(ctx, types.CreateOptions{
		Name:    meta.Name,
		Version: meta.Version,
		Options: opts.Options,
	})
	if err != nil {
		return nil, guard.Normalize("Create", err)
	}

	c, ok := instance.(types.ContractAdapter)
	if !ok {
		return nil, types.Errorf(types.ErrCodeRegistryMisconfigured,
			"adapter %s@%s constructor did not return a contract adapter", meta.Name, meta.Version).
			WithAdapter(meta.Name)
	}
	return &guardedContract{inner: c, guard: guard}, nil
}

// NewFromDefault is New against the process-wide default registry.
func NewFromDefault(ctx context.Context, opts Options) (types.ContractAdapter, error) {
	return New(ctx, registry.Default(), opts)
}

// guardedContract forwards every gated call through gate → invoke →
// normalize; plumbing methods pass straight through.
type guardedContract struct {
	inner types.ContractAdapter
	guard *intercept.Guard
}

var _ types.ContractAdapter = (*guardedContract)(nil)

func (c *guardedContract) Name() string            { return c.inner.Name() }
func (c *guardedContract) Version() string         { return c.inner.Version() }
func (c *guardedContract) ListTemplates() []string { return c.inner.ListTemplates() }
func (c *guardedContract) Close() error            { return c.inner.Close() }

func (c *guardedContract) GenerateContract(ctx context.Context, spec *types.ContractSpec) (*types.ContractSource, error) {
	return intercept.Call(ctx, c.guard, "GenerateContract", func(ctx context.Context) (*types.ContractSource, error) {
		return c.inner.GenerateContract(ctx, spec)
	})
}

func (c *guardedContract) CompileContract(ctx context.Context, src *types.ContractSource) (*types.CompiledContract, error) {
	return intercept.Call(ctx, c.guard, "CompileContract", func(ctx context.Context) (*types.CompiledContract, error) {
		return c.inner.CompileContract(ctx, src)
	})
}
