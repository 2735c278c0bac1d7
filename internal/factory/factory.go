// Package factory holds the resolution helpers shared by the per-module
// factory entry points (wallet, contracts, crosschain).
package factory

import (
	"strings"
	"sync"

	"github.com/cobaltstack/chainforge/internal/registry"
	"github.com/cobaltstack/chainforge/internal/validate"
	"github.com/cobaltstack/chainforge/pkg/types"
)

// Defaults is the adapter selection a module falls back to when a caller
// omits a name or version.
type Defaults struct {
	Adapter string
	Version string
}

var (
	defaultsMu sync.RWMutex
	defaults   map[string]Defaults
)

// SetDefaults installs per-module adapter defaults, usually pushed from
// loaded configuration. A nil or empty map clears them.
func SetDefaults(d map[string]Defaults) {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	if len(d) == 0 {
		defaults = nil
		return
	}
	defaults = make(map[string]Defaults, len(d))
	for module, def := range d {
		defaults[module] = def
	}
}

func defaultsFor(module string) Defaults {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	return defaults[module]
}

// ResolveMetadata looks an adapter up by exact version when one is pinned,
// or by latest semver precedence otherwise. An omitted name falls back to
// the module's configured default adapter; an omitted version falls back to
// the configured default version when the default adapter is the one being
// resolved. A miss produces a missing-adapter error listing the versions
// that are registered.
func ResolveMetadata(reg *registry.Registry, module, name, version string) (registry.AdapterMetadata, error) {
	def := defaultsFor(module)
	if name == "" {
		name = def.Adapter
	}
	if name == "" {
		return registry.AdapterMetadata{}, types.Errorf(types.ErrCodeMissingAdapter,
			"%s: no adapter name given and no default configured", module)
	}
	if version == "" && name == def.Adapter {
		version = def.Version
	}

	var (
		meta registry.AdapterMetadata
		ok   bool
	)
	if version == "" {
		meta, ok = reg.LatestAdapter(module, name)
	} else {
		meta, ok = reg.Adapter(module, name, version)
	}
	if ok {
		return meta, nil
	}

	known := reg.AdapterVersions(module, name)
	msg := module + " adapter " + name
	if version != "" {
		msg += "@" + version
	}
	msg += " is not registered"
	if len(known) > 0 {
		msg += " (known versions: " + strings.Join(known, ", ") + ")"
	}
	return registry.AdapterMetadata{}, types.NewAdapterError(types.ErrCodeMissingAdapter, msg).
		WithAdapter(name).
		WithDetail("module", module).
		WithDetail("known_versions", known)
}

// ValidationParams builds the object requirements resolve against: the
// caller's options nested under "options", plus the requested interface
// shape when one was asked for.
func ValidationParams(options map[string]any, expectedInterface string) map[string]any {
	opts := options
	if opts == nil {
		opts = map[string]any{}
	}
	params := map[string]any{"options": opts}
	if expectedInterface != "" {
		params[validate.ExpectedInterfaceKey] = expectedInterface
	}
	return params
}
