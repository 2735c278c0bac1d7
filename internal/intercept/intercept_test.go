package intercept

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cobaltstack/chainforge/internal/capability"
	"github.com/cobaltstack/chainforge/pkg/types"
)

func fullGuard() *Guard {
	return NewGuard("testadapter", capability.NewSet(capability.All...), nil, "")
}

func TestGateUndeclaredCapability(t *testing.T) {
	g := NewGuard("testadapter", capability.NewSet(capability.CoreWallet), nil, "")

	invoked := false
	err := Do(context.Background(), g, "SignTypedData", func(ctx context.Context) error {
		invoked = true
		return nil
	})

	require.Error(t, err)
	assert.False(t, invoked, "gated method must not reach the implementation")
	assert.True(t, types.IsCode(err, types.ErrCodeMethodNotSupported))

	ae, _ := types.AsAdapterError(err)
	assert.Equal(t, "testadapter", ae.Adapter)
	assert.Equal(t, "SignTypedData", ae.Method)
	assert.Equal(t, string(capability.TypedDataSigner), ae.Details["missing_capability"])
}

func TestGateUngatedMethod(t *testing.T) {
	// Address carries no capability requirement even on an empty set.
	g := NewGuard("testadapter", capability.NewSet(), nil, "")
	assert.NoError(t, g.Gate("Address"))
}

func TestCallSuccess(t *testing.T) {
	out, err := Call(context.Background(), fullGuard(), "SignMessage", func(ctx context.Context) (string, error) {
		return "0xsigned", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "0xsigned", out)
}

func TestCallNormalizesFailure(t *testing.T) {
	out, err := Call(context.Background(), fullGuard(), "SignMessage", func(ctx context.Context) (string, error) {
		return "", errors.New("keystore locked")
	})
	assert.Empty(t, out)
	require.Error(t, err)

	ae, ok := types.AsAdapterError(err)
	require.True(t, ok)
	assert.Equal(t, types.ErrCodeAdapterInternal, ae.Code)
	assert.Equal(t, "SignMessage", ae.Method)
	assert.Contains(t, ae.Message, "keystore locked")
	assert.NotEmpty(t, ae.ID)
}

func TestNormalizePassesThroughAdapterError(t *testing.T) {
	g := fullGuard()
	inner := types.Errorf(types.ErrCodeMissingAdapter, "already normalized")

	err := g.Normalize("SendTransaction", inner)
	ae, ok := types.AsAdapterError(err)
	require.True(t, ok)
	assert.Same(t, inner, ae)
}

func TestErrorMapSubstring(t *testing.T) {
	g := NewGuard("testadapter", capability.NewSet(capability.All...), map[string]string{
		"insufficient funds": "INSUFFICIENT_FUNDS",
		"nonce too low":      "NONCE_TOO_LOW",
	}, "")

	err := g.Normalize("SendTransaction", errors.New("rpc: Insufficient Funds for gas"))
	assert.True(t, types.IsCode(err, types.ErrorCode("INSUFFICIENT_FUNDS")))
}

func TestErrorMapDefaultCode(t *testing.T) {
	g := NewGuard("testadapter", capability.NewSet(capability.All...), map[string]string{
		"insufficient funds": "INSUFFICIENT_FUNDS",
	}, "WALLET_ERROR")

	err := g.Normalize("SendTransaction", errors.New("something unexpected"))
	assert.True(t, types.IsCode(err, types.ErrorCode("WALLET_ERROR")))
}

type revertErr struct{ msg string }

func (e *revertErr) Error() string      { return e.msg }
func (e *revertErr) RevertData() string { return "0x08c379a0" }

type rpcErr struct{ cause error }

func (e *rpcErr) Error() string { return fmt.Sprintf("rpc failed: %v", e.cause) }
func (e *rpcErr) Unwrap() error { return e.cause }
func (e *rpcErr) RPCBody() (string, string) {
	return `{"method":"eth_sendRawTransaction"}`, `{"error":"execution reverted"}`
}

func TestNormalizeExtractsCarrierDetails(t *testing.T) {
	g := fullGuard()
	err := g.Normalize("SendTransaction", &rpcErr{cause: &revertErr{msg: "execution reverted"}})

	ae, ok := types.AsAdapterError(err)
	require.True(t, ok)
	assert.Equal(t, `{"method":"eth_sendRawTransaction"}`, ae.Details["rpc_request"])
	assert.Equal(t, `{"error":"execution reverted"}`, ae.Details["rpc_response"])
	assert.Equal(t, "0x08c379a0", ae.Details["revert"])
}

type detailErr struct{ revert string }

func (e *detailErr) Error() string                { return "wrapped detail" }
func (e *detailErr) ErrorDetails() map[string]any { return map[string]any{"revert": e.revert} }

func TestCarrierDetailsOuterWins(t *testing.T) {
	g := fullGuard()
	outer := &rpcErr{cause: &detailErr{revert: "inner"}}

	err := g.Normalize("SendTransaction", outer)
	ae, _ := types.AsAdapterError(err)
	// The outer rpc body is recorded; the inner detail bag fills revert since
	// nothing outer claimed it.
	assert.Equal(t, "inner", ae.Details["revert"])
}

func TestNormalizeKeepsCauseChain(t *testing.T) {
	g := fullGuard()
	sentinel := errors.New("dial tcp: connection refused")

	err := g.Normalize("SendTransaction", sentinel)
	assert.True(t, errors.Is(err, sentinel))
}
