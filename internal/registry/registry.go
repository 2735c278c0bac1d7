// Package registry holds the versioned adapter table at the heart of
// chainforge: modules, adapter metadata keyed by name@version, named
// interface shapes, and cross-module compatibility matrices.
//
// Lookups return (value, ok) rather than errors; producing actionable
// failures is the job of the validator and factory layers, which have the
// caller's context. Writes are expected during module load, before readers
// exist, but the table is mutex-guarded anyway.
package registry

import (
	"sort"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog/log"

	"github.com/cobaltstack/chainforge/internal/capability"
	"github.com/cobaltstack/chainforge/internal/environment"
	"github.com/cobaltstack/chainforge/internal/schema"
	"github.com/cobaltstack/chainforge/pkg/types"
)

// Module is a named subsystem (e.g. "wallet") with its current version.
type Module struct {
	Name    string
	Version string
}

// AdapterMetadata is one record per (module, adapter name, version) triple.
// It is immutable after registration; re-registering the same key overwrites
// the whole record.
type AdapterMetadata struct {
	Name    string
	Version string
	Module  string
	Kind    types.AdapterKind

	// Constructor is the opaque construction handle invoked by factories
	// after validation has passed.
	Constructor types.Constructor

	// Capabilities is the set the adapter claims to implement. The claim is
	// trusted at validation time and enforced per call by the interception
	// layer; it is never inferred from the adapter's actual method set.
	Capabilities []capability.Capability

	// Requirements are the compiled construction-parameter constraints.
	Requirements []schema.Requirement

	// Environment declares supported execution environments; nil means any.
	Environment *environment.Requirements

	// ErrorMap maps message substrings to adapter-specific error codes.
	ErrorMap map[string]string

	// DefaultErrorCode is adopted when no ErrorMap entry matches; empty
	// leaves normalized internal failures with the generic internal code.
	DefaultErrorCode string
}

// Key returns the adapter's name@version registry key.
func (m *AdapterMetadata) Key() string {
	return m.Name + "@" + m.Version
}

// CapabilitySet returns the claimed capabilities as a Set.
func (m *AdapterMetadata) CapabilitySet() capability.Set {
	return capability.NewSet(m.Capabilities...)
}

// InterfaceShape is a named bundle of capabilities callers can request by
// name instead of enumerating them ("promise and verify").
type InterfaceShape struct {
	Name         string
	Capabilities []capability.Capability
}

// CompatibilityMatrix declares, per target module, which capabilities a
// counterpart adapter must hold to interoperate with the declaring adapter.
// Matrices are statically authored, never inferred, and directional: A→B
// being declared says nothing about B→A.
type CompatibilityMatrix struct {
	Module  string
	Adapter string
	Version string

	// Requires maps a target module name to the capability list a
	// counterpart adapter in that module must claim.
	Requires map[string][]capability.Capability
}

func (m *CompatibilityMatrix) key() string {
	return m.Adapter + "@" + m.Version
}

// Registry is the versioned registration table. Each independently built
// package owns its own instance at load time; Merge lets a consumer absorb a
// dependency's registrations without a shared global.
type Registry struct {
	mu       sync.RWMutex
	modules  map[string]Module
	adapters map[string]map[string]AdapterMetadata // module → name@version → metadata
	shapes   map[string]InterfaceShape
	matrices map[string]map[string]CompatibilityMatrix // module → name@version → matrix
}

// New returns an empty registry.
func New() *Registry {
	r := &Registry{}
	r.init()
	return r
}

func (r *Registry) init() {
	r.modules = make(map[string]Module)
	r.adapters = make(map[string]map[string]AdapterMetadata)
	r.shapes = make(map[string]InterfaceShape)
	r.matrices = make(map[string]map[string]CompatibilityMatrix)
}

// RegisterModule upserts a module record and lazily creates its adapter
// table. Idempotent.
func (r *Registry) RegisterModule(name, version string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registerModuleLocked(name, version)
}

func (r *Registry) registerModuleLocked(name, version string) {
	r.modules[name] = Module{Name: name, Version: version}
	if r.adapters[name] == nil {
		r.adapters[name] = make(map[string]AdapterMetadata)
	}
}

// Module returns a registered module record.
func (r *Registry) Module(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[name]
	return m, ok
}

// Modules returns all registered modules sorted by name.
func (r *Registry) Modules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Module, 0, len(r.modules))
	for _, m := range r.modules {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RegisterAdapter upserts one metadata record keyed by name@version. If the
// owning module is unregistered it is auto-registered using the adapter's
// version as a fallback module version.
func (r *Registry) RegisterAdapter(moduleName string, meta AdapterMetadata) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.modules[moduleName]; !ok {
		r.registerModuleLocked(moduleName, meta.Version)
	}
	meta.Module = moduleName
	r.adapters[moduleName][meta.Key()] = meta

	log.Debug().
		Str("module", moduleName).
		Str("adapter", meta.Key()).
		Int("capabilities", len(meta.Capabilities)).
		Int("requirements", len(meta.Requirements)).
		Msg("registered adapter")
}

// Adapter returns the metadata registered under (module, name, version).
func (r *Registry) Adapter(moduleName, name, version string) (AdapterMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.adapters[moduleName][name+"@"+version]
	return meta, ok
}

// LatestAdapter scans every registered version of name within the module and
// returns the one with the highest version under strict semver precedence:
// major, minor, patch, then pre-release segments, with a pre-release sorting
// below its own release but above any lower release.
func (r *Registry) LatestAdapter(moduleName, name string) (AdapterMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		best    AdapterMetadata
		bestVer *semver.Version
	)
	for _, meta := range r.adapters[moduleName] {
		if meta.Name != name {
			continue
		}
		v, err := semver.NewVersion(meta.Version)
		if err != nil {
			log.Warn().
				Str("module", moduleName).
				Str("adapter", meta.Key()).
				Msg("skipping adapter with unparsable version")
			continue
		}
		if bestVer == nil || v.GreaterThan(bestVer) {
			best, bestVer = meta, v
		}
	}
	return best, bestVer != nil
}

// AdapterVersions returns all registered versions of name within the module
// in descending semver order. Unparsable versions sort last.
func (r *Registry) AdapterVersions(moduleName, name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var versions []string
	for _, meta := range r.adapters[moduleName] {
		if meta.Name == name {
			versions = append(versions, meta.Version)
		}
	}
	sort.Slice(versions, func(i, j int) bool {
		vi, ei := semver.NewVersion(versions[i])
		vj, ej := semver.NewVersion(versions[j])
		if ei != nil || ej != nil {
			if ei == nil {
				return true
			}
			if ej == nil {
				return false
			}
			return versions[i] > versions[j]
		}
		return vi.GreaterThan(vj)
	})
	return versions
}

// Adapters returns every metadata record in the module, sorted by key.
func (r *Registry) Adapters(moduleName string) []AdapterMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]AdapterMetadata, 0, len(r.adapters[moduleName]))
	for _, meta := range r.adapters[moduleName] {
		out = append(out, meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// RegisterInterfaceShape stores a named capability bundle.
func (r *Registry) RegisterInterfaceShape(name string, caps []capability.Capability) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shapes[name] = InterfaceShape{
		Name:         name,
		Capabilities: append([]capability.Capability(nil), caps...),
	}
}

// InterfaceShape returns a registered shape.
func (r *Registry) InterfaceShape(name string) (InterfaceShape, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.shapes[name]
	return s, ok
}

// RegisterCompatibilityMatrix stores an adapter's matrix under its module.
func (r *Registry) RegisterCompatibilityMatrix(moduleName string, matrix CompatibilityMatrix) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matrix.Module = moduleName
	if r.matrices[moduleName] == nil {
		r.matrices[moduleName] = make(map[string]CompatibilityMatrix)
	}
	r.matrices[moduleName][matrix.key()] = matrix
}

// CompatibilityMatrix returns the matrix declared by (module, name, version).
func (r *Registry) CompatibilityMatrix(moduleName, name, version string) (CompatibilityMatrix, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.matrices[moduleName][name+"@"+version]
	return m, ok
}

// Merge copies every module, adapter, interface shape, and compatibility
// matrix from other into r, skipping any key that already exists in r
// (first-writer-wins). Calling Merge twice with the same source is a no-op
// the second time.
func (r *Registry) Merge(other *Registry) {
	if other == nil || other == r {
		return
	}

	other.mu.RLock()
	defer other.mu.RUnlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, m := range other.modules {
		if _, ok := r.modules[name]; !ok {
			r.modules[name] = m
		}
		if r.adapters[name] == nil {
			r.adapters[name] = make(map[string]AdapterMetadata)
		}
	}
	for moduleName, table := range other.adapters {
		if r.adapters[moduleName] == nil {
			r.adapters[moduleName] = make(map[string]AdapterMetadata)
		}
		for key, meta := range table {
			if _, ok := r.adapters[moduleName][key]; !ok {
				r.adapters[moduleName][key] = meta
			}
		}
	}
	for name, shape := range other.shapes {
		if _, ok := r.shapes[name]; !ok {
			r.shapes[name] = shape
		}
	}
	for moduleName, table := range other.matrices {
		if r.matrices[moduleName] == nil {
			r.matrices[moduleName] = make(map[string]CompatibilityMatrix)
		}
		for key, matrix := range table {
			if _, ok := r.matrices[moduleName][key]; !ok {
				r.matrices[moduleName][key] = matrix
			}
		}
	}
}

// Reset clears every table. Intended only to restore a clean slate between
// isolated test runs, never for production use while readers exist.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.init()
}
