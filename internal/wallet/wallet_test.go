package wallet

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cobaltstack/chainforge/internal/capability"
	"github.com/cobaltstack/chainforge/internal/config"
	"github.com/cobaltstack/chainforge/internal/environment"
	"github.com/cobaltstack/chainforge/internal/factory"
	"github.com/cobaltstack/chainforge/internal/registry"
	"github.com/cobaltstack/chainforge/pkg/types"
)

// testSeed is a deterministic 32-byte hex seed for the localsigner.
const testSeed = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func forceServer(t *testing.T) {
	t.Helper()
	environment.SetOverride([]environment.Environment{environment.Server})
	t.Cleanup(environment.ClearOverride)
}

func newLocalSigner(t *testing.T, reg *registry.Registry) types.WalletAdapter {
	t.Helper()
	w, err := New(context.Background(), reg, Options{
		Name:    "localsigner",
		Options: map[string]any{"privateKey": testSeed},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestNewLocalSigner(t *testing.T) {
	forceServer(t)
	w := newLocalSigner(t, registry.New())

	assert.Equal(t, "localsigner", w.Name())
	assert.Equal(t, "1.0.0", w.Version())
	assert.True(t, strings.HasPrefix(w.Address(), "0x"))
	assert.Len(t, w.Address(), 42)
}

func TestSignMessageDeterministic(t *testing.T) {
	forceServer(t)
	w := newLocalSigner(t, registry.New())

	ctx := context.Background()
	first, err := w.SignMessage(ctx, []byte("hello"))
	require.NoError(t, err)
	second, err := w.SignMessage(ctx, []byte("hello"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, "0x"))
}

func TestSendTransaction(t *testing.T) {
	forceServer(t)
	w := newLocalSigner(t, registry.New())
	ctx := context.Background()

	tx := &types.TransactionRequest{To: "0x00000000000000000000000000000000deadbeef", Value: "1000", ChainID: 1}
	first, err := w.SendTransaction(ctx, tx)
	require.NoError(t, err)
	assert.Equal(t, w.Address(), first.From)
	assert.Equal(t, tx.To, first.To)
	assert.Equal(t, uint64(0), first.Nonce)

	second, err := w.SendTransaction(ctx, tx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), second.Nonce)
}

func TestSendTransactionNoRecipient(t *testing.T) {
	forceServer(t)
	w := newLocalSigner(t, registry.New())

	_, err := w.SendTransaction(context.Background(), &types.TransactionRequest{})
	require.Error(t, err)
	// The raw "transaction has no recipient" failure maps through the
	// adapter's declared substring table.
	assert.True(t, types.IsCode(err, types.ErrorCode("MISSING_RECIPIENT")))

	ae, _ := types.AsAdapterError(err)
	assert.Equal(t, "localsigner", ae.Adapter)
	assert.Equal(t, "SendTransaction", ae.Method)
}

func TestEstimateGas(t *testing.T) {
	forceServer(t)
	w := newLocalSigner(t, registry.New())

	gas, err := w.EstimateGas(context.Background(), &types.TransactionRequest{
		To:   "0x00000000000000000000000000000000deadbeef",
		Data: []byte{1, 2, 3, 4},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(21000+68*4), gas)
}

func TestUndeclaredCapabilitiesBlocked(t *testing.T) {
	forceServer(t)
	w := newLocalSigner(t, registry.New())
	ctx := context.Background()

	_, err := w.SignTypedData(ctx, &types.TypedData{PrimaryType: "Mail"})
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrCodeMethodNotSupported))

	err = w.WatchEvents(ctx, &types.EventFilter{}, make(chan types.Event))
	assert.True(t, types.IsCode(err, types.ErrCodeMethodNotSupported))
}

func TestMissingPrivateKey(t *testing.T) {
	forceServer(t)
	_, err := New(context.Background(), registry.New(), Options{
		Name:    "localsigner",
		Options: map[string]any{},
	})
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrCodeMissingRequirement))

	ae, _ := types.AsAdapterError(err)
	assert.Equal(t, "options.privateKey", ae.Details["path"])
}

func TestMistypedPrivateKey(t *testing.T) {
	forceServer(t)
	_, err := New(context.Background(), registry.New(), Options{
		Name:    "localsigner",
		Options: map[string]any{"privateKey": 12345},
	})
	assert.True(t, types.IsCode(err, types.ErrCodeInvalidRequirementType))
}

func TestMalformedPrivateKeyNormalized(t *testing.T) {
	forceServer(t)
	_, err := New(context.Background(), registry.New(), Options{
		Name:    "localsigner",
		Options: map[string]any{"privateKey": "0xnothex"},
	})
	require.Error(t, err)
	// Construction fails inside the adapter and comes back mapped.
	assert.True(t, types.IsCode(err, types.ErrorCode("WALLET_INVALID_KEY")))

	ae, _ := types.AsAdapterError(err)
	assert.Equal(t, "Create", ae.Method)
}

func TestUnknownAdapter(t *testing.T) {
	forceServer(t)
	_, err := New(context.Background(), registry.New(), Options{Name: "phantomwallet"})
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrCodeMissingAdapter))
}

func TestEmptyAdapterName(t *testing.T) {
	forceServer(t)
	_, err := New(context.Background(), registry.New(), Options{})
	assert.True(t, types.IsCode(err, types.ErrCodeMissingAdapter))
}

func TestConfiguredDefaultAdapter(t *testing.T) {
	forceServer(t)
	t.Cleanup(func() { factory.SetDefaults(nil) })
	config.Default().Apply()

	// The default config names localsigner for the wallet module, so an
	// unnamed request resolves to it.
	w, err := New(context.Background(), registry.New(), Options{
		Options: map[string]any{"privateKey": testSeed},
	})
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, "localsigner", w.Name())
}

func TestExpectedInterfaceCoreWallet(t *testing.T) {
	forceServer(t)
	w, err := New(context.Background(), registry.New(), Options{
		Name:              "localsigner",
		Options:           map[string]any{"privateKey": testSeed},
		ExpectedInterface: ShapeCoreWallet,
	})
	require.NoError(t, err)
	_ = w.Close()
}

func TestExpectedInterfaceEVMWalletRejected(t *testing.T) {
	forceServer(t)
	// localsigner does not claim TypedDataSigner, which IEVMWallet demands.
	_, err := New(context.Background(), registry.New(), Options{
		Name:              "localsigner",
		Options:           map[string]any{"privateKey": testSeed},
		ExpectedInterface: ShapeEVMWallet,
	})
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrCodeIncompatibleAdapter))

	ae, _ := types.AsAdapterError(err)
	assert.Equal(t, string(capability.TypedDataSigner), ae.Details["missing_capability"])
}

func TestEnvironmentGate(t *testing.T) {
	environment.SetOverride([]environment.Environment{environment.Browser})
	t.Cleanup(environment.ClearOverride)

	_, err := New(context.Background(), registry.New(), Options{
		Name:    "localsigner",
		Options: map[string]any{"privateKey": testSeed},
	})
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrCodeEnvironmentMismatch))
}

// stubWallet is a registrable wallet backend used to exercise version
// selection and gating against an adapter the package does not ship.
type stubWallet struct {
	name    string
	version string
}

func (s *stubWallet) Name() string    { return s.name }
func (s *stubWallet) Version() string { return s.version }
func (s *stubWallet) Address() string { return "0x0000000000000000000000000000000000000001" }
func (s *stubWallet) Close() error    { return nil }

func (s *stubWallet) SignMessage(context.Context, []byte) (string, error) { return "0xstub", nil }

func (s *stubWallet) SignTransaction(context.Context, *types.TransactionRequest) (string, error) {
	return "0xstubtx", nil
}

func (s *stubWallet) SendTransaction(context.Context, *types.TransactionRequest) (*types.TransactionReceipt, error) {
	return &types.TransactionReceipt{Hash: "0xstubhash"}, nil
}

func (s *stubWallet) SignTypedData(context.Context, *types.TypedData) (string, error) {
	return "", errors.New("should be gated before reaching here")
}

func (s *stubWallet) EstimateGas(context.Context, *types.TransactionRequest) (uint64, error) {
	return 21000, nil
}

func (s *stubWallet) WatchEvents(context.Context, *types.EventFilter, chan<- types.Event) error {
	return nil
}

func registerStub(reg *registry.Registry, version string) {
	reg.RegisterAdapter(ModuleName, registry.AdapterMetadata{
		Name:    "ethers",
		Version: version,
		Kind:    types.KindEVMWallet,
		Constructor: func(_ context.Context, opts types.CreateOptions) (any, error) {
			return &stubWallet{name: opts.Name, version: opts.Version}, nil
		},
		Capabilities: []capability.Capability{
			capability.CoreWallet,
			capability.TransactionHandler,
		},
	})
}

func TestEmptyVersionSelectsLatest(t *testing.T) {
	forceServer(t)
	reg := registry.New()
	registerStub(reg, "1.0.0")
	registerStub(reg, "2.1.0")

	w, err := New(context.Background(), reg, Options{Name: "ethers"})
	require.NoError(t, err)
	assert.Equal(t, "2.1.0", w.Version())

	pinned, err := New(context.Background(), reg, Options{Name: "ethers", Version: "1.0.0"})
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", pinned.Version())
}

func TestStubGatingMatchesDeclarations(t *testing.T) {
	forceServer(t)
	reg := registry.New()
	registerStub(reg, "1.0.0")

	w, err := New(context.Background(), reg, Options{Name: "ethers"})
	require.NoError(t, err)
	ctx := context.Background()

	receipt, err := w.SendTransaction(ctx, &types.TransactionRequest{To: "0x01"})
	require.NoError(t, err)
	assert.Equal(t, "0xstubhash", receipt.Hash)

	// Declared capabilities omit TypedDataSigner; the stub's own method is
	// never reached.
	_, err = w.SignTypedData(ctx, &types.TypedData{})
	assert.True(t, types.IsCode(err, types.ErrCodeMethodNotSupported))
}

func TestConstructorWrongShape(t *testing.T) {
	forceServer(t)
	reg := registry.New()
	reg.RegisterAdapter(ModuleName, registry.AdapterMetadata{
		Name:    "broken",
		Version: "1.0.0",
		Constructor: func(context.Context, types.CreateOptions) (any, error) {
			return "not a wallet", nil
		},
	})

	_, err := New(context.Background(), reg, Options{Name: "broken"})
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrCodeRegistryMisconfigured))
}
