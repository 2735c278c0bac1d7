// Package intercept implements the error-normalizing call boundary wrapped
// around every constructed adapter. The per-module decorators in the wallet,
// contracts, and crosschain packages forward each method through a Guard:
// gate the call on the adapter's declared capabilities, invoke the underlying
// implementation, and rewrite any failure into the single normalized error
// shape. The guard holds no state beyond the adapter's identity, capability
// set, and error-code map.
package intercept

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/cobaltstack/chainforge/internal/capability"
	"github.com/cobaltstack/chainforge/pkg/types"
)

// Guard gates and normalizes calls for one wrapped adapter instance.
type Guard struct {
	// Adapter is the wrapped adapter's name, used in error context.
	Adapter string

	// Capabilities is the adapter's declared capability set.
	Capabilities capability.Set

	// ErrorMap maps message substrings to adapter-specific error codes.
	// The first match in sorted-substring order wins.
	ErrorMap map[string]string

	// DefaultCode is adopted when no ErrorMap entry matches; empty keeps
	// the generic internal code.
	DefaultCode string
}

// NewGuard builds a guard for one adapter instance.
func NewGuard(adapter string, caps capability.Set, errorMap map[string]string, defaultCode string) *Guard {
	return &Guard{
		Adapter:      adapter,
		Capabilities: caps,
		ErrorMap:     errorMap,
		DefaultCode:  defaultCode,
	}
}

// Gate returns a method-not-supported error when method is capability-gated
// and the adapter's declared set lacks the capability. The decision is
// synchronous and made before the underlying implementation is touched;
// ungated methods always pass.
func (g *Guard) Gate(method string) error {
	required, gated := capability.ForMethod(method)
	if !gated || g.Capabilities.Has(required) {
		return nil
	}
	return types.Errorf(types.ErrCodeMethodNotSupported,
		"adapter %s does not support %s: capability %q not declared",
		g.Adapter, method, required).
		WithAdapter(g.Adapter).
		WithMethod(method).
		WithDetail("missing_capability", string(required))
}

// Do runs fn for a method with no return value besides error.
func Do(ctx context.Context, g *Guard, method string, fn func(ctx context.Context) error) error {
	if err := g.Gate(method); err != nil {
		return err
	}
	if err := fn(ctx); err != nil {
		return g.Normalize(method, err)
	}
	return nil
}

// Call runs fn for a method returning one value. The zero value accompanies
// every error.
func Call[T any](ctx context.Context, g *Guard, method string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if err := g.Gate(method); err != nil {
		return zero, err
	}
	out, err := fn(ctx)
	if err != nil {
		return zero, g.Normalize(method, err)
	}
	return out, nil
}

// Normalize rewrites a raw adapter failure into an AdapterError. A failure
// that already is one passes through unchanged so inner layers are never
// double-wrapped.
func (g *Guard) Normalize(method string, err error) error {
	if ae, ok := types.AsAdapterError(err); ok {
		return ae
	}

	code := types.ErrCodeAdapterInternal
	if mapped := g.mapCode(err.Error()); mapped != "" {
		code = types.ErrorCode(mapped)
	}

	ae := types.Errorf(code, "adapter %s: %s failed: %v", g.Adapter, method, err).
		WithAdapter(g.Adapter).
		WithMethod(method).
		WithCause(err).
		WithDetails(extractDetails(err))

	log.Debug().
		Str("adapter", g.Adapter).
		Str("method", method).
		Str("code", string(code)).
		Str("error_id", ae.ID).
		Msg("normalized adapter failure")
	return ae
}

// mapCode scans the failure message against the adapter's declared substring
// map. Iteration is over sorted substrings so repeated failures map to the
// same code.
func (g *Guard) mapCode(message string) string {
	if len(g.ErrorMap) > 0 {
		subs := make([]string, 0, len(g.ErrorMap))
		for sub := range g.ErrorMap {
			subs = append(subs, sub)
		}
		sort.Strings(subs)
		lower := strings.ToLower(message)
		for _, sub := range subs {
			if strings.Contains(lower, strings.ToLower(sub)) {
				return g.ErrorMap[sub]
			}
		}
	}
	return g.DefaultCode
}

// Optional interfaces raw errors can implement to surface structured
// diagnostics into the normalized error's detail bag.
type (
	revertCarrier interface{ RevertData() string }
	rpcCarrier    interface{ RPCBody() (request, response string) }
	txCarrier     interface{ Transaction() map[string]any }
	detailCarrier interface{ ErrorDetails() map[string]any }
)

// extractDetails walks err's unwrap chain collecting diagnostic hints.
// Outer values win when the same key appears at several depths.
func extractDetails(err error) map[string]any {
	details := make(map[string]any)
	for e := err; e != nil; e = errors.Unwrap(e) {
		if c, ok := e.(revertCarrier); ok {
			setIfAbsent(details, "revert", c.RevertData())
		}
		if c, ok := e.(rpcCarrier); ok {
			req, resp := c.RPCBody()
			setIfAbsent(details, "rpc_request", req)
			setIfAbsent(details, "rpc_response", resp)
		}
		if c, ok := e.(txCarrier); ok {
			setIfAbsent(details, "transaction", c.Transaction())
		}
		if c, ok := e.(detailCarrier); ok {
			for k, v := range c.ErrorDetails() {
				setIfAbsent(details, k, v)
			}
		}
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

func setIfAbsent(details map[string]any, key string, value any) {
	if _, ok := details[key]; !ok {
		details[key] = value
	}
}
