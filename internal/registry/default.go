package registry

import "sync"

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry instance. Module registration
// units register into it at load time; application code that does not manage
// its own registry reads from it. Code that needs isolation (tests, embedded
// use) should construct its own via New and pass it explicitly.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = New()
	})
	return defaultRegistry
}
