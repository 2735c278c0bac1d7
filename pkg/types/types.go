// Package types defines the shared contracts consumed across all chainforge modules:
// the adapter interfaces each module hands back to callers, the construction options
// every adapter constructor accepts, and the normalized error shape produced at the
// adapter call boundary.
package types

import "context"

// ═══════════════════════════════════════════════════════════════════════════════
// ADAPTER CONTRACT
// ═══════════════════════════════════════════════════════════════════════════════

// AdapterKind tags a registered adapter with its module-specific flavor.
type AdapterKind string

const (
	KindEVMWallet    AdapterKind = "evm_wallet"    // EVM-compatible wallet backend
	KindLocalWallet  AdapterKind = "local_wallet"  // In-process development wallet
	KindGenerator    AdapterKind = "generator"     // Contract source generator
	KindCompilerShim AdapterKind = "compiler_shim" // External-toolchain compiler bridge
	KindAggregator   AdapterKind = "aggregator"    // Cross-chain routing aggregator
	KindStaticRouter AdapterKind = "static_router" // Fixed-table cross-chain router
)

// CreateOptions is the single argument every adapter constructor accepts.
// Options carries the caller-supplied construction parameters that the
// validator has already checked against the adapter's declared requirements.
type CreateOptions struct {
	Name    string
	Version string
	Options map[string]any
}

// Constructor builds a concrete adapter instance. The returned value must
// satisfy the module interface of the module the adapter is registered under
// (WalletAdapter, ContractAdapter, or CrossChainAdapter).
type Constructor func(ctx context.Context, opts CreateOptions) (any, error)

// ═══════════════════════════════════════════════════════════════════════════════
// WALLET MODULE
// ═══════════════════════════════════════════════════════════════════════════════

// TransactionRequest describes a transaction to sign, send, or estimate.
type TransactionRequest struct {
	To       string `json:"to"`
	Value    string `json:"value,omitempty"` // decimal string in base units
	Data     []byte `json:"data,omitempty"`
	GasLimit uint64 `json:"gas_limit,omitempty"`
	Nonce    uint64 `json:"nonce,omitempty"`
	ChainID  int64  `json:"chain_id,omitempty"`
}

// TransactionReceipt echoes a submitted transaction.
type TransactionReceipt struct {
	Hash    string `json:"hash"`
	From    string `json:"from"`
	To      string `json:"to"`
	Nonce   uint64 `json:"nonce"`
	ChainID int64  `json:"chain_id,omitempty"`
}

// TypedData is an EIP-712 style structured signing payload.
type TypedData struct {
	Domain      map[string]any   `json:"domain"`
	Types       map[string][]any `json:"types"`
	PrimaryType string           `json:"primary_type"`
	Message     map[string]any   `json:"message"`
}

// EventFilter selects which contract events a watcher receives.
type EventFilter struct {
	Address string   `json:"address,omitempty"`
	Topics  []string `json:"topics,omitempty"`
}

// Event is one observed contract event.
type Event struct {
	Address     string   `json:"address"`
	Topics      []string `json:"topics"`
	Data        []byte   `json:"data,omitempty"`
	BlockNumber uint64   `json:"block_number,omitempty"`
}

// WalletAdapter is the contract every wallet backend exposes. Callers obtain
// instances through the wallet factory, which returns them wrapped in a
// capability-gating, error-normalizing decorator — methods the adapter did not
// declare a capability for fail with ErrCodeMethodNotSupported before the
// underlying implementation is ever invoked.
type WalletAdapter interface {
	// Name returns the adapter identifier.
	Name() string

	// Version returns the adapter's registered version.
	Version() string

	// Address returns the wallet's primary account address.
	Address() string

	// SignMessage signs an arbitrary message. Gated by CoreWallet.
	SignMessage(ctx context.Context, msg []byte) (string, error)

	// SignTransaction signs a transaction without submitting it.
	// Gated by TransactionHandler.
	SignTransaction(ctx context.Context, tx *TransactionRequest) (string, error)

	// SendTransaction signs and submits a transaction. Gated by TransactionHandler.
	SendTransaction(ctx context.Context, tx *TransactionRequest) (*TransactionReceipt, error)

	// SignTypedData signs an EIP-712 payload. Gated by TypedDataSigner.
	SignTypedData(ctx context.Context, data *TypedData) (string, error)

	// EstimateGas estimates the gas cost of a transaction. Gated by GasEstimator.
	EstimateGas(ctx context.Context, tx *TransactionRequest) (uint64, error)

	// WatchEvents streams matching events into sink until ctx is done.
	// Gated by EventEmitter.
	WatchEvents(ctx context.Context, filter *EventFilter, sink chan<- Event) error

	// Close releases any resources held by the adapter.
	Close() error
}

// ═══════════════════════════════════════════════════════════════════════════════
// SMART-CONTRACT MODULE
// ═══════════════════════════════════════════════════════════════════════════════

// ContractSpec describes the contract a generator should produce.
type ContractSpec struct {
	Template string         `json:"template"` // e.g. "erc20", "erc721", "custom"
	Name     string         `json:"name"`
	Symbol   string         `json:"symbol,omitempty"`
	License  string         `json:"license,omitempty"`
	Pragma   string         `json:"pragma,omitempty"`
	Fields   map[string]any `json:"fields,omitempty"`
}

// ContractSource is generated contract source code.
type ContractSource struct {
	Name     string `json:"name"`
	Language string `json:"language"` // "solidity"
	Source   string `json:"source"`
}

// CompiledContract is the output of a compilation backend.
type CompiledContract struct {
	Name     string `json:"name"`
	ABI      string `json:"abi"`
	Bytecode string `json:"bytecode"`
}

// ContractAdapter is the contract-generation backend contract.
type ContractAdapter interface {
	Name() string
	Version() string

	// ListTemplates returns the template identifiers this generator understands.
	ListTemplates() []string

	// GenerateContract renders contract source from a spec. Gated by ContractGenerator.
	GenerateContract(ctx context.Context, spec *ContractSpec) (*ContractSource, error)

	// CompileContract compiles generated source. Gated by ContractCompiler.
	CompileContract(ctx context.Context, src *ContractSource) (*CompiledContract, error)

	Close() error
}

// ═══════════════════════════════════════════════════════════════════════════════
// CROSS-CHAIN MODULE
// ═══════════════════════════════════════════════════════════════════════════════

// RouteRequest asks for a path moving value between two chains.
type RouteRequest struct {
	FromChain string `json:"from_chain"`
	ToChain   string `json:"to_chain"`
	Token     string `json:"token"`
	Amount    string `json:"amount"` // decimal string in base units
}

// RouteQuote is a priced route returned by a quoting backend.
type RouteQuote struct {
	ID          string `json:"id"`
	FromChain   string `json:"from_chain"`
	ToChain     string `json:"to_chain"`
	Token       string `json:"token"`
	AmountIn    string `json:"amount_in"`
	AmountOut   string `json:"amount_out"`
	FeeEstimate string `json:"fee_estimate"`
}

// Transfer is an accepted cross-chain execution.
type Transfer struct {
	ID      string `json:"id"`
	QuoteID string `json:"quote_id"`
}

// TransferState enumerates the lifecycle of a transfer.
type TransferState string

const (
	TransferPending   TransferState = "pending"
	TransferCompleted TransferState = "completed"
	TransferFailed    TransferState = "failed"
)

// TransferStatus reports the current state of a transfer.
type TransferStatus struct {
	ID    string        `json:"id"`
	State TransferState `json:"state"`
	Error string        `json:"error,omitempty"`
}

// CrossChainAdapter is the cross-chain execution backend contract.
type CrossChainAdapter interface {
	Name() string
	Version() string

	// SupportedChains returns the chain identifiers this backend can route between.
	SupportedChains() []string

	// Quote prices a route. Gated by QuoteProvider.
	Quote(ctx context.Context, req *RouteRequest) (*RouteQuote, error)

	// Execute runs a previously obtained quote. Gated by ExecutionHandler.
	Execute(ctx context.Context, quote *RouteQuote) (*Transfer, error)

	// Status reports a transfer's progress. Gated by StatusTracker.
	Status(ctx context.Context, transferID string) (*TransferStatus, error)

	Close() error
}
