package crosschain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cobaltstack/chainforge/internal/compat"
	"github.com/cobaltstack/chainforge/internal/environment"
	"github.com/cobaltstack/chainforge/internal/registry"
	"github.com/cobaltstack/chainforge/internal/wallet"
	"github.com/cobaltstack/chainforge/pkg/types"
)

func newStaticRouter(t *testing.T, opts map[string]any) types.CrossChainAdapter {
	t.Helper()
	c, err := New(context.Background(), registry.New(), Options{Name: "staticrouter", Options: opts})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestQuote(t *testing.T) {
	c := newStaticRouter(t, nil)

	quote, err := c.Quote(context.Background(), &types.RouteRequest{
		FromChain: "ethereum",
		ToChain:   "polygon",
		Token:     "USDC",
		Amount:    "1000000",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, quote.ID)
	assert.Equal(t, "1000000", quote.AmountIn)
	// 30 bps of 1000000 is 3000.
	assert.Equal(t, "3000", quote.FeeEstimate)
	assert.Equal(t, "997000", quote.AmountOut)
}

func TestQuoteUnsupportedRoute(t *testing.T) {
	c := newStaticRouter(t, nil)

	_, err := c.Quote(context.Background(), &types.RouteRequest{
		FromChain: "ethereum",
		ToChain:   "solana",
		Amount:    "100",
	})
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrorCode("ROUTE_NOT_FOUND")))
}

func TestQuoteInvalidAmount(t *testing.T) {
	c := newStaticRouter(t, nil)
	ctx := context.Background()

	for _, amount := range []string{"", "abc", "-5", "0"} {
		_, err := c.Quote(ctx, &types.RouteRequest{
			FromChain: "ethereum",
			ToChain:   "polygon",
			Amount:    amount,
		})
		assert.True(t, types.IsCode(err, types.ErrorCode("INVALID_AMOUNT")), "amount %q", amount)
	}
}

func TestExecuteAndStatus(t *testing.T) {
	c := newStaticRouter(t, nil)
	ctx := context.Background()

	quote, err := c.Quote(ctx, &types.RouteRequest{
		FromChain: "arbitrum",
		ToChain:   "optimism",
		Token:     "ETH",
		Amount:    "5000",
	})
	require.NoError(t, err)

	transfer, err := c.Execute(ctx, quote)
	require.NoError(t, err)
	assert.Equal(t, quote.ID, transfer.QuoteID)

	status, err := c.Status(ctx, transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, transfer.ID, status.ID)
	assert.Equal(t, types.TransferCompleted, status.State)
}

func TestStatusUnknownTransfer(t *testing.T) {
	c := newStaticRouter(t, nil)

	_, err := c.Status(context.Background(), "no-such-transfer")
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrorCode("TRANSFER_NOT_FOUND")))
}

func TestCustomRoutes(t *testing.T) {
	c := newStaticRouter(t, map[string]any{
		"routes": map[string]any{
			"devnet-a": []any{"devnet-b"},
		},
	})

	assert.Equal(t, []string{"devnet-a", "devnet-b"}, c.SupportedChains())

	_, err := c.Quote(context.Background(), &types.RouteRequest{
		FromChain: "ethereum",
		ToChain:   "polygon",
		Amount:    "100",
	})
	assert.True(t, types.IsCode(err, types.ErrorCode("ROUTE_NOT_FOUND")))
}

func TestMalformedRoutesRejected(t *testing.T) {
	// A non-object routes value fails requirement validation in the factory.
	_, err := New(context.Background(), registry.New(), Options{
		Name:    "staticrouter",
		Options: map[string]any{"routes": "ethereum,polygon"},
	})
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrCodeInvalidRequirementType))

	// An object with non-list targets passes validation but fails in the
	// constructor and comes back normalized.
	_, err = New(context.Background(), registry.New(), Options{
		Name:    "staticrouter",
		Options: map[string]any{"routes": map[string]any{"ethereum": "polygon"}},
	})
	require.Error(t, err)
	ae, ok := types.AsAdapterError(err)
	require.True(t, ok)
	assert.Equal(t, "Create", ae.Method)
	assert.Equal(t, types.ErrorCode("BRIDGE_ERROR"), ae.Code)
}

func TestBridgeExecutorShape(t *testing.T) {
	c, err := New(context.Background(), registry.New(), Options{
		Name:              "staticrouter",
		ExpectedInterface: ShapeBridgeExecutor,
	})
	require.NoError(t, err)
	_ = c.Close()
}

func TestWalletCompatibility(t *testing.T) {
	environment.SetOverride([]environment.Environment{environment.Server})
	t.Cleanup(environment.ClearOverride)

	reg := registry.New()
	Register(reg)
	wallet.Register(reg)

	res := compat.Check(reg,
		compat.Ref{Module: ModuleName, Adapter: "staticrouter", Version: "1.0.0"},
		compat.Ref{Module: wallet.ModuleName, Adapter: "localsigner", Version: "1.0.0"})
	assert.True(t, res.Compatible)
	assert.Equal(t, compat.ReasonCompatible, res.Reason)
}
