package contracts

import (
	"github.com/cobaltstack/chainforge/internal/capability"
	"github.com/cobaltstack/chainforge/internal/registry"
	"github.com/cobaltstack/chainforge/internal/schema"
	"github.com/cobaltstack/chainforge/pkg/types"
)

// ShapeContractWizard is the shape callers request for template-driven
// source generation.
const ShapeContractWizard = "IContractWizard"

var soltemplateSchema = map[string]schema.Field{
	"options": {
		Optional: true,
		Fields: map[string]schema.Field{
			"defaultLicense": {
				Type:     schema.TypeString,
				Optional: true,
				Message:  "options.defaultLicense must be a string SPDX identifier",
			},
			"pragma": {
				Type:     schema.TypeString,
				Optional: true,
				Message:  "options.pragma must be a string pragma constraint",
			},
		},
	},
}

// Register installs the contracts module, its interface shapes, the built-in
// soltemplate adapter, and its compatibility matrix into reg. Idempotent.
func Register(reg *registry.Registry) {
	reg.RegisterModule(ModuleName, ModuleVersion)

	reg.RegisterInterfaceShape(ShapeContractWizard, []capability.Capability{
		capability.ContractGenerator,
	})

	reg.RegisterAdapter(ModuleName, registry.AdapterMetadata{
		Name:        "soltemplate",
		Version:     "1.0.0",
		Kind:        types.KindGenerator,
		Constructor: NewSolTemplate,
		Capabilities: []capability.Capability{
			capability.ContractGenerator,
			capability.ContractCompiler,
		},
		Requirements: schema.CompileOrFallback(soltemplateSchema, "soltemplate"),
		ErrorMap: map[string]string{
			"compiler unavailable": "COMPILER_UNAVAILABLE",
			"unknown template":     "TEMPLATE_NOT_FOUND",
		},
		DefaultErrorCode: "CONTRACT_ERROR",
	})

	// Generated contracts are deployed through a wallet; any counterpart
	// only needs basic signing identity.
	reg.RegisterCompatibilityMatrix(ModuleName, registry.CompatibilityMatrix{
		Adapter: "soltemplate",
		Version: "1.0.0",
		Requires: map[string][]capability.Capability{
			"wallet": {capability.CoreWallet},
		},
	})
}
