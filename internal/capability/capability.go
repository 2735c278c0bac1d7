// Package capability defines the closed set of adapter capabilities and the
// fixed mapping from externally callable method names to the capability that
// grants them. The interception layer consults this mapping on every call;
// methods absent from the map are plumbing and never capability-gated.
package capability

// Capability is an atomic, named unit of behavior an adapter may claim.
// Capabilities are never combined or subtyped: an adapter either claims one
// or it does not, and the claim is fixed at registration time.
type Capability string

const (
	// Wallet module
	CoreWallet         Capability = "core_wallet"         // basic account identity and message signing
	TransactionHandler Capability = "transaction_handler" // sign and submit transactions
	TypedDataSigner    Capability = "typed_data_signer"   // EIP-712 structured signing
	EventEmitter       Capability = "event_emitter"       // contract event subscriptions
	GasEstimator       Capability = "gas_estimator"       // gas estimation

	// Smart-contract module
	ContractGenerator Capability = "contract_generator" // source generation from templates
	ContractCompiler  Capability = "contract_compiler"  // compilation via external toolchain

	// Cross-chain module
	QuoteProvider    Capability = "quote_provider"    // route quoting
	ExecutionHandler Capability = "execution_handler" // route execution
	StatusTracker    Capability = "status_tracker"    // transfer status reporting
)

// All lists every known capability, in declaration order.
var All = []Capability{
	CoreWallet,
	TransactionHandler,
	TypedDataSigner,
	EventEmitter,
	GasEstimator,
	ContractGenerator,
	ContractCompiler,
	QuoteProvider,
	ExecutionHandler,
	StatusTracker,
}

// MethodCapabilities maps an externally callable method name to the
// capability required to invoke it. Lifecycle and introspection methods
// (Name, Version, Address, Close, ListTemplates, SupportedChains) are
// intentionally absent: every adapter must have them, so they pass ungated.
var MethodCapabilities = map[string]Capability{
	// WalletAdapter
	"SignMessage":     CoreWallet,
	"SignTransaction": TransactionHandler,
	"SendTransaction": TransactionHandler,
	"SignTypedData":   TypedDataSigner,
	"EstimateGas":     GasEstimator,
	"WatchEvents":     EventEmitter,

	// ContractAdapter
	"GenerateContract": ContractGenerator,
	"CompileContract":  ContractCompiler,

	// CrossChainAdapter
	"Quote":   QuoteProvider,
	"Execute": ExecutionHandler,
	"Status":  StatusTracker,
}

// ForMethod returns the capability gating a method, if any.
func ForMethod(method string) (Capability, bool) {
	c, ok := MethodCapabilities[method]
	return c, ok
}

// Known reports whether c is part of the closed capability set.
func Known(c Capability) bool {
	for _, k := range All {
		if k == c {
			return true
		}
	}
	return false
}
