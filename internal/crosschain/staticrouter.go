package crosschain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/cobaltstack/chainforge/pkg/types"
)

// feeBasisPoints is the flat routing fee the static router charges.
const feeBasisPoints = 30

// defaultRoutes fully connects the development chain set. Callers can
// replace the table through options.routes.
var defaultRoutes = map[string][]string{
	"ethereum": {"polygon", "arbitrum", "optimism", "base"},
	"polygon":  {"ethereum", "arbitrum", "base"},
	"arbitrum": {"ethereum", "polygon", "optimism"},
	"optimism": {"ethereum", "arbitrum", "base"},
	"base":     {"ethereum", "polygon", "optimism"},
}

// StaticRouter is the in-process cross-chain backend: quotes come from a
// fixed route table, execution is recorded in memory, and no network is ever
// touched. It exists so the factory, guard, and compatibility paths have a
// complete backend to exercise.
type StaticRouter struct {
	name    string
	version string
	routes  map[string][]string

	mu        sync.Mutex
	transfers map[string]*types.TransferStatus
}

// NewStaticRouter is the staticrouter construction handle registered with
// the crosschain module. options.routes, when present, must be an object of
// chain → list-of-chains and replaces the default table.
func NewStaticRouter(_ context.Context, opts types.CreateOptions) (any, error) {
	routes := defaultRoutes
	if raw, ok := opts.Options["routes"]; ok && raw != nil {
		parsed, err := parseRoutes(raw)
		if err != nil {
			return nil, err
		}
		routes = parsed
	}
	return &StaticRouter{
		name:      opts.Name,
		version:   opts.Version,
		routes:    routes,
		transfers: make(map[string]*types.TransferStatus),
	}, nil
}

func parseRoutes(raw any) (map[string][]string, error) {
	table, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("routes must be an object of chain to chain list, got %T", raw)
	}
	routes := make(map[string][]string, len(table))
	for from, rawTargets := range table {
		targets, ok := rawTargets.([]any)
		if !ok {
			return nil, fmt.Errorf("routes.%s must be a list of chains", from)
		}
		for _, t := range targets {
			chain, ok := t.(string)
			if !ok {
				return nil, fmt.Errorf("routes.%s contains a non-string chain", from)
			}
			routes[from] = append(routes[from], chain)
		}
	}
	return routes, nil
}

func (r *StaticRouter) Name() string    { return r.name }
func (r *StaticRouter) Version() string { return r.version }
func (r *StaticRouter) Close() error    { return nil }

func (r *StaticRouter) SupportedChains() []string {
	seen := map[string]struct{}{}
	for from, targets := range r.routes {
		seen[from] = struct{}{}
		for _, t := range targets {
			seen[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for chain := range seen {
		out = append(out, chain)
	}
	sort.Strings(out)
	return out
}

func (r *StaticRouter) Quote(_ context.Context, req *types.RouteRequest) (*types.RouteQuote, error) {
	if req == nil {
		return nil, errors.New("nil route request")
	}
	if !r.hasRoute(req.FromChain, req.ToChain) {
		return nil, fmt.Errorf("unsupported route %s -> %s", req.FromChain, req.ToChain)
	}

	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		return nil, fmt.Errorf("invalid amount %q", req.Amount)
	}

	fee := new(big.Int).Mul(amount, big.NewInt(feeBasisPoints))
	fee.Div(fee, big.NewInt(10000))
	out := new(big.Int).Sub(amount, fee)

	return &types.RouteQuote{
		ID:          uuid.NewString(),
		FromChain:   req.FromChain,
		ToChain:     req.ToChain,
		Token:       req.Token,
		AmountIn:    amount.String(),
		AmountOut:   out.String(),
		FeeEstimate: fee.String(),
	}, nil
}

func (r *StaticRouter) Execute(_ context.Context, quote *types.RouteQuote) (*types.Transfer, error) {
	if quote == nil || quote.ID == "" {
		return nil, errors.New("nil or unidentified quote")
	}
	if !r.hasRoute(quote.FromChain, quote.ToChain) {
		return nil, fmt.Errorf("unsupported route %s -> %s", quote.FromChain, quote.ToChain)
	}

	transfer := &types.Transfer{ID: uuid.NewString(), QuoteID: quote.ID}
	r.mu.Lock()
	r.transfers[transfer.ID] = &types.TransferStatus{
		ID:    transfer.ID,
		State: types.TransferCompleted,
	}
	r.mu.Unlock()
	return transfer, nil
}

func (r *StaticRouter) Status(_ context.Context, transferID string) (*types.TransferStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	status, ok := r.transfers[transferID]
	if !ok {
		return nil, fmt.Errorf("unknown transfer %q", transferID)
	}
	copied := *status
	return &copied, nil
}

func (r *StaticRouter) hasRoute(from, to string) bool {
	for _, t := range r.routes[from] {
		if t == to {
			return true
		}
	}
	return false
}
