// Package compat resolves cross-module compatibility: a statically authored
// matrix declares what a counterpart adapter must be able to do, and two live
// checks (environment, capability) confirm the declaration against the
// counterpart actually registered. A matrix authored against an old adapter
// version therefore cannot silently pass once the adapter's real declarations
// drift.
package compat

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/cobaltstack/chainforge/internal/capability"
	"github.com/cobaltstack/chainforge/internal/environment"
	"github.com/cobaltstack/chainforge/internal/registry"
)

// Ref identifies one adapter version within a module.
type Ref struct {
	Module  string
	Adapter string
	Version string
}

func (r Ref) String() string {
	return fmt.Sprintf("%s/%s@%s", r.Module, r.Adapter, r.Version)
}

// Reason codes explain a negative result without parsing prose.
const (
	ReasonNoMatrix            = "no_compatibility_matrix"
	ReasonNoRuleForModule     = "no_rule_for_target_module"
	ReasonSourceNotRegistered = "source_not_registered"
	ReasonTargetNotRegistered = "target_not_registered"
	ReasonSourceEnvironment   = "source_environment_mismatch"
	ReasonTargetEnvironment   = "target_environment_mismatch"
	ReasonMissingCapabilities = "target_missing_capabilities"
	ReasonCompatible          = "compatible"
)

// Result reports a compatibility decision.
type Result struct {
	Compatible bool
	Reason     string

	// Missing lists the required capabilities the target does not claim,
	// set only when Reason is ReasonMissingCapabilities.
	Missing []capability.Capability
}

// Check determines whether dst is usable together with src. The source's
// compatibility matrix supplies the static expectation; both adapters' live
// metadata and the active environment supply the live checks. A matrix
// registered for a source adapter that is not itself registered fails the
// check — declarations alone cannot vouch for an adapter the registry has
// never seen. Only the full chain passing yields Compatible.
func Check(reg *registry.Registry, src, dst Ref) Result {
	matrix, ok := reg.CompatibilityMatrix(src.Module, src.Adapter, src.Version)
	if !ok {
		return incompatible(src, dst, ReasonNoMatrix)
	}

	source, ok := reg.Adapter(src.Module, src.Adapter, src.Version)
	if !ok {
		return incompatible(src, dst, ReasonSourceNotRegistered)
	}

	required, ok := matrix.Requires[dst.Module]
	if !ok {
		return incompatible(src, dst, ReasonNoRuleForModule)
	}

	target, ok := reg.Adapter(dst.Module, dst.Adapter, dst.Version)
	if !ok {
		return incompatible(src, dst, ReasonTargetNotRegistered)
	}

	// Both sides must run in the active environment; a declared match means
	// nothing if either adapter cannot execute here.
	if err := environment.Validate(source.Name, source.Environment); err != nil {
		return incompatible(src, dst, ReasonSourceEnvironment)
	}
	if err := environment.Validate(target.Name, target.Environment); err != nil {
		return incompatible(src, dst, ReasonTargetEnvironment)
	}

	if missing := target.CapabilitySet().Missing(required); len(missing) > 0 {
		res := incompatible(src, dst, ReasonMissingCapabilities)
		res.Missing = missing
		return res
	}

	return Result{Compatible: true, Reason: ReasonCompatible}
}

func incompatible(src, dst Ref, reason string) Result {
	log.Debug().
		Str("source", src.String()).
		Str("target", dst.String()).
		Str("reason", reason).
		Msg("cross-module compatibility check failed")
	return Result{Reason: reason}
}
