package crosschain

import (
	"github.com/cobaltstack/chainforge/internal/capability"
	"github.com/cobaltstack/chainforge/internal/environment"
	"github.com/cobaltstack/chainforge/internal/registry"
	"github.com/cobaltstack/chainforge/internal/schema"
	"github.com/cobaltstack/chainforge/pkg/types"
)

// ShapeBridgeExecutor is the shape callers request for full
// quote-execute-track routing.
const ShapeBridgeExecutor = "IBridgeExecutor"

var staticrouterSchema = map[string]schema.Field{
	"options": {
		Optional: true,
		Fields: map[string]schema.Field{
			"routes": {
				Type:     schema.TypeObject,
				Optional: true,
				Message:  "options.routes must be an object of chain to chain list",
			},
		},
	},
}

// Register installs the crosschain module, its interface shapes, the
// built-in staticrouter adapter, and its compatibility matrix into reg.
// Idempotent.
func Register(reg *registry.Registry) {
	reg.RegisterModule(ModuleName, ModuleVersion)

	reg.RegisterInterfaceShape(ShapeBridgeExecutor, []capability.Capability{
		capability.QuoteProvider,
		capability.ExecutionHandler,
		capability.StatusTracker,
	})

	reg.RegisterAdapter(ModuleName, registry.AdapterMetadata{
		Name:        "staticrouter",
		Version:     "1.0.0",
		Kind:        types.KindStaticRouter,
		Constructor: NewStaticRouter,
		Capabilities: []capability.Capability{
			capability.QuoteProvider,
			capability.ExecutionHandler,
			capability.StatusTracker,
		},
		Requirements: schema.CompileOrFallback(staticrouterSchema, "staticrouter"),
		Environment: &environment.Requirements{
			Supported: []environment.Environment{environment.Server, environment.Browser},
		},
		ErrorMap: map[string]string{
			"unsupported route": "ROUTE_NOT_FOUND",
			"invalid amount":    "INVALID_AMOUNT",
			"unknown transfer":  "TRANSFER_NOT_FOUND",
		},
		DefaultErrorCode: "BRIDGE_ERROR",
	})

	// Executing a routed transfer requires a wallet counterpart that can
	// sign and submit transactions.
	reg.RegisterCompatibilityMatrix(ModuleName, registry.CompatibilityMatrix{
		Adapter: "staticrouter",
		Version: "1.0.0",
		Requires: map[string][]capability.Capability{
			"wallet": {capability.CoreWallet, capability.TransactionHandler},
		},
	})
}
