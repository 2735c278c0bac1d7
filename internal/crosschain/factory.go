// Package crosschain is the factory entry point for cross-chain execution
// adapters, mirroring the wallet factory's validate-construct-wrap flow.
package crosschain

import (
	"context"

	"github.com/cobaltstack/chainforge/internal/environment"
	"github.com/cobaltstack/chainforge/internal/factory"
	"github.com/cobaltstack/chainforge/internal/intercept"
	"github.com/cobaltstack/chainforge/internal/registry"
	"github.com/cobaltstack/chainforge/internal/validate"
	"github.com/cobaltstack/chainforge/pkg/types"
)

// ModuleName is the cross-chain module's registry name.
const ModuleName = "crosschain"

// ModuleVersion is the cross-chain module's current version.
const ModuleVersion = "1.0.0"

// Options selects and configures a cross-chain adapter.
type Options struct {
	Name              string
	Version           string
	Options           map[string]any
	ExpectedInterface string
}

// New validates, constructs, and wraps a cross-chain adapter from reg.
func New(ctx context.Context, reg *registry.Registry, opts Options) (types.CrossChainAdapter, error) {
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
		Operation: "crosschain.New",
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

	cc, ok := instance.(types.CrossChainAdapter)
	if !ok {
		return nil, types.Errorf(types.ErrCodeRegistryMisconfigured,
			"adapter %s@%s constructor did not return a cross-chain adapter", meta.Name, meta.Version).
			WithAdapter(meta.Name)
	}
	return &guardedCrossChain{inner: cc, guard: guard}, nil
}

// NewFromDefault is New against the process-wide default registry.
func NewFromDefault(ctx context.Context, opts Options) (types.CrossChainAdapter, error) {
	return New(ctx, registry.Default(), opts)
}

// guardedCrossChain forwards every gated call through gate → invoke →
// normalize; plumbing methods pass straight through.
type guardedCrossChain struct {
	inner types.CrossChainAdapter
	guard *intercept.Guard
}

var _ types.CrossChainAdapter = (*guardedCrossChain)(nil)

func (c *guardedCrossChain) Name() string              { return c.inner.Name() }
func (c *guardedCrossChain) Version() string           { return c.inner.Version() }
func (c *guardedCrossChain) SupportedChains() []string { return c.inner.SupportedChains() }
func (c *guardedCrossChain) Close() error              { return c.inner.Close() }

func (c *guardedCrossChain) Quote(ctx context.Context, req *types.RouteRequest) (*types.RouteQuote, error) {
	return intercept.Call(ctx, c.guard, "Quote", func(ctx context.Context) (*types.RouteQuote, error) {
		return c.inner.Quote(ctx, req)
	})
}

func (c *guardedCrossChain) Execute(ctx context.Context, quote *types.RouteQuote) (*types.Transfer, error) {
	return intercept.Call(ctx, c.guard, "Execute", func(ctx context.Context) (*types.Transfer, error) {
		return c.inner.Execute(ctx, quote)
	})
}

func (c *guardedCrossChain) Status(ctx context.Context, transferID string) (*types.TransferStatus, error) {
	return intercept.Call(ctx, c.guard, "Status", func(ctx context.Context) (*types.TransferStatus, error) {
		return c.inner.Status(ctx, transferID)
	})
}
