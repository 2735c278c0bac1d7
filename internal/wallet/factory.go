// Package wallet is the factory entry point for wallet adapters. It
// orchestrates environment validation, requirement/interface-shape
// validation, adapter construction, and the capability-gating,
// error-normalizing decorator every returned instance is wrapped in.
package wallet

import (
	"context"

	"github.com/cobaltstack/chainforge/internal/environment"
	"github.com/cobaltstack/chainforge/internal/factory"
	"github.com/cobaltstack/chainforge/internal/intercept"
	"github.com/cobaltstack/chainforge/internal/registry"
	"github.com/cobaltstack/chainforge/internal/validate"
	"github.com/cobaltstack/chainforge/pkg/types"
)

// ModuleName is the wallet module's registry name.
const ModuleName = "wallet"

// ModuleVersion is the wallet module's current version.
const ModuleVersion = "1.0.0"

// Options selects and configures a wallet adapter.
type Options struct {
	// Name is the adapter name. Required.
	Name string

	// Version pins an exact adapter version; empty selects the latest
	// registered version by semver precedence.
	Version string

	// Options are the adapter's construction parameters, validated against
	// its declared requirements before construction.
	Options map[string]any

	// ExpectedInterface optionally names an interface shape the adapter's
	// declared capabilities must satisfy.
	ExpectedInterface string
}

// New validates, constructs, and wraps a wallet adapter from reg.
// Registration units for the built-in adapters are applied to reg first
// (idempotent), so a fresh registry works out of the box.
func New(ctx context.Context, reg *registry.Registry, opts Options) (types.WalletAdapter, error) {
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
		Operation: "wallet.New",
	}); err != nil {
		return nil, err
	}

	guard := guardFor(&meta)
	instance, err := meta.Constructor(ctx, types.CreateOptions{
		Name:    meta.Name,
		Version: meta.Version,
		Options: opts.Options,
	})
	if err != nil {
		return nil, guard.Normalize("Create", err)
	}

	w, ok := instance.(types.WalletAdapter)
	if !ok {
		return nil, types.Errorf(types.ErrCodeRegistryMisconfigured,
			"adapter %s@%s constructor did not return a wallet adapter", meta.Name, meta.Version).
			WithAdapter(meta.Name)
	}
	return &guardedWallet{inner: w, guard: guard}, nil
}

// NewFromDefault is New against the process-wide default registry.
func NewFromDefault(ctx context.Context, opts Options) (types.WalletAdapter, error) {
	return New(ctx, registry.Default(), opts)
}

// Wrap applies the capability-gating, error-normalizing decorator to an
// already constructed wallet instance using its registered metadata.
func Wrap(w types.WalletAdapter, meta *registry.AdapterMetadata) types.WalletAdapter {
	return &guardedWallet{inner: w, guard: guardFor(meta)}
}

func guardFor(meta *registry.AdapterMetadata) *intercept.Guard {
	return intercept.NewGuard(meta.Name, meta.CapabilitySet(), meta.ErrorMap, meta.DefaultErrorCode)
}
