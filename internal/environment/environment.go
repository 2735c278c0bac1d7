// Package environment detects which named runtime environments the current
// process satisfies and validates adapters' declared environment support
// against that set before construction is allowed to proceed.
package environment

import (
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/cobaltstack/chainforge/pkg/types"
)

// Environment is one of a small closed set of named runtime contexts.
type Environment string

const (
	Server  Environment = "server"  // native server/desktop process
	Browser Environment = "browser" // wasm running inside a browser
	Mobile  Environment = "mobile"  // android/ios build target
)

// Requirements is an adapter's declared environment support. A nil
// Requirements (or empty Supported list) means the adapter runs anywhere.
type Requirements struct {
	// Supported lists the environments the adapter declares it works in.
	Supported []Environment `yaml:"supported,omitempty"`

	// Limitations are human-readable caveats included in mismatch errors.
	Limitations []string `yaml:"limitations,omitempty"`

	// SecurityNotes are surfaced as warnings when validation passes.
	SecurityNotes []string `yaml:"security_notes,omitempty"`
}

var (
	detectOnce sync.Once
	detected   []Environment

	overrideMu sync.RWMutex
	override   []Environment
)

// Detect returns the set of environments the current process satisfies.
// Detection runs once and is cached for the process lifetime; a process may
// satisfy more than one environment, though exactly one is typical.
func Detect() []Environment {
	overrideMu.RLock()
	if override != nil {
		out := append([]Environment(nil), override...)
		overrideMu.RUnlock()
		return out
	}
	overrideMu.RUnlock()

	detectOnce.Do(func() {
		detected = detect()
		log.Debug().
			Str("environments", join(detected)).
			Str("goos", runtime.GOOS).
			Str("goarch", runtime.GOARCH).
			Msg("detected runtime environments")
	})
	return append([]Environment(nil), detected...)
}

func detect() []Environment {
	switch {
	case runtime.GOOS == "js" && runtime.GOARCH == "wasm":
		return []Environment{Browser}
	case runtime.GOOS == "android" || runtime.GOOS == "ios":
		return []Environment{Mobile}
	default:
		return []Environment{Server}
	}
}

// SetOverride forces the active environment set, bypassing detection.
// Used by tests and by the config-level environment override.
func SetOverride(envs []Environment) {
	overrideMu.Lock()
	defer overrideMu.Unlock()
	if len(envs) == 0 {
		override = nil
		return
	}
	override = append([]Environment(nil), envs...)
}

// ClearOverride restores real detection.
func ClearOverride() {
	SetOverride(nil)
}

// Validate checks an adapter's declared environment support against the
// currently active set. An empty intersection fails with an
// environment-mismatch error enumerating both sets and any declared
// limitations; a non-empty intersection logs declared security notes as
// warnings and succeeds.
func Validate(adapterName string, req *Requirements) error {
	if req == nil || len(req.Supported) == 0 {
		return nil
	}

	active := Detect()
	if intersects(req.Supported, active) {
		for _, note := range req.SecurityNotes {
			log.Warn().
				Str("adapter", adapterName).
				Str("note", note).
				Msg("adapter security note")
		}
		return nil
	}

	msg := adapterName + " supports environments [" + join(req.Supported) +
		"] but the active environments are [" + join(active) + "]"
	if len(req.Limitations) > 0 {
		msg += "; limitations: " + strings.Join(req.Limitations, "; ")
	}
	return types.NewAdapterError(types.ErrCodeEnvironmentMismatch, msg).
		WithAdapter(adapterName).
		WithDetail("supported", toStrings(req.Supported)).
		WithDetail("active", toStrings(active))
}

func intersects(a, b []Environment) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func join(envs []Environment) string {
	ss := toStrings(envs)
	sort.Strings(ss)
	return strings.Join(ss, ", ")
}

func toStrings(envs []Environment) []string {
	out := make([]string, len(envs))
	for i, e := range envs {
		out[i] = string(e)
	}
	return out
}
