package wallet

import (
	"context"

	"github.com/cobaltstack/chainforge/internal/intercept"
	"github.com/cobaltstack/chainforge/pkg/types"
)

// guardedWallet is the structural decorator returned by the factory: same
// method surface as the wrapped adapter, with every gated call routed
// through gate → invoke → normalize. Plumbing methods pass straight through.
type guardedWallet struct {
	inner types.WalletAdapter
	guard *intercept.Guard
}

var _ types.WalletAdapter = (*guardedWallet)(nil)

func (w *guardedWallet) Name() string    { return w.inner.Name() }
func (w *guardedWallet) Version() string { return w.inner.Version() }
func (w *guardedWallet) Address() string { return w.inner.Address() }
func (w *guardedWallet) Close() error    { return w.inner.Close() }

func (w *guardedWallet) SignMessage(ctx context.Context, msg []byte) (string, error) {
	return intercept.Call(ctx, w.guard, "SignMessage", func(ctx context.Context) (string, error) {
		return w.inner.SignMessage(ctx, msg)
	})
}

func (w *guardedWallet) SignTransaction(ctx context.Context, tx *types.TransactionRequest) (string, error) {
	return intercept.Call(ctx, w.guard, "SignTransaction", func(ctx context.Context) (string, error) {
		return w.inner.SignTransaction(ctx, tx)
	})
}

func (w *guardedWallet) SendTransaction(ctx context.Context, tx *types.TransactionRequest) (*types.TransactionReceipt, error) {
	return intercept.Call(ctx, w.guard, "SendTransaction", func(ctx context.Context) (*types.TransactionReceipt, error) {
		return w.inner.SendTransaction(ctx, tx)
	})
}

func (w *guardedWallet) SignTypedData(ctx context.Context, data *types.TypedData) (string, error) {
	return intercept.Call(ctx, w.guard, "SignTypedData", func(ctx context.Context) (string, error) {
		return w.inner.SignTypedData(ctx, data)
	})
}

func (w *guardedWallet) EstimateGas(ctx context.Context, tx *types.TransactionRequest) (uint64, error) {
	return intercept.Call(ctx, w.guard, "EstimateGas", func(ctx context.Context) (uint64, error) {
		return w.inner.EstimateGas(ctx, tx)
	})
}

func (w *guardedWallet) WatchEvents(ctx context.Context, filter *types.EventFilter, sink chan<- types.Event) error {
	return intercept.Do(ctx, w.guard, "WatchEvents", func(ctx context.Context) error {
		return w.inner.WatchEvents(ctx, filter, sink)
	})
}
