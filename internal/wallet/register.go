package wallet

import (
	"github.com/cobaltstack/chainforge/internal/capability"
	"github.com/cobaltstack/chainforge/internal/environment"
	"github.com/cobaltstack/chainforge/internal/registry"
	"github.com/cobaltstack/chainforge/internal/schema"
	"github.com/cobaltstack/chainforge/pkg/types"
)

// Interface shapes callers can request from the wallet module.
const (
	ShapeEVMWallet  = "IEVMWallet"
	ShapeCoreWallet = "ICoreWallet"
)

// localsignerSchema declares the localsigner construction options. Compiled
// once at registration into the flat requirement list the validator reads.
var localsignerSchema = map[string]schema.Field{
	"options": {
		Fields: map[string]schema.Field{
			"privateKey": {
				Type:    schema.TypeString,
				Message: "options.privateKey is required (0x-prefixed hex seed)",
			},
			"chainId": {
				Type:     schema.TypeNumber,
				Optional: true,
				Message:  "options.chainId must be a number",
			},
		},
	},
}

// Register installs the wallet module, its interface shapes, and the
// built-in adapters into reg. Registration is an idempotent upsert, so
// factories call it unconditionally.
func Register(reg *registry.Registry) {
	reg.RegisterModule(ModuleName, ModuleVersion)

	reg.RegisterInterfaceShape(ShapeEVMWallet, []capability.Capability{
		capability.CoreWallet,
		capability.TransactionHandler,
		capability.TypedDataSigner,
		capability.GasEstimator,
	})
	reg.RegisterInterfaceShape(ShapeCoreWallet, []capability.Capability{
		capability.CoreWallet,
	})

	reg.RegisterAdapter(ModuleName, registry.AdapterMetadata{
		Name:        "localsigner",
		Version:     "1.0.0",
		Kind:        types.KindLocalWallet,
		Constructor: NewLocalSigner,
		Capabilities: []capability.Capability{
			capability.CoreWallet,
			capability.TransactionHandler,
			capability.GasEstimator,
		},
		Requirements: schema.CompileOrFallback(localsignerSchema, "localsigner"),
		Environment: &environment.Requirements{
			Supported:   []environment.Environment{environment.Server},
			Limitations: []string{"requires access to local key material"},
			SecurityNotes: []string{
				"private key material is held unencrypted in process memory; development use only",
			},
		},
		ErrorMap: map[string]string{
			"invalid private key": "WALLET_INVALID_KEY",
			"insufficient funds":  "INSUFFICIENT_FUNDS",
			"no recipient":        "MISSING_RECIPIENT",
		},
	})
}
