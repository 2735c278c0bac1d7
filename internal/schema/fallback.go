package schema

import "github.com/rs/zerolog/log"

// fallbackRequirements is a hand-maintained table of the minimal requirement
// sets for known adapters. It backs CompileOrFallback when a schema is
// missing or malformed: a degraded but non-empty requirement list beats
// registering an adapter with no validation at all.
var fallbackRequirements = map[string][]Requirement{
	"localsigner": {
		{Path: "options.privateKey", Type: TypeString, Message: "options.privateKey is required (0x-prefixed hex seed)"},
	},
	"soltemplate": {
		{Path: "options.defaultLicense", Type: TypeString, Message: "options.defaultLicense is required", AllowUndefined: true},
	},
	"staticrouter": {
		{Path: "options.routes", Type: TypeObject, Message: "options.routes is required", AllowUndefined: true},
	},
}

// CompileOrFallback compiles the schema, falling back to the hand-maintained
// table for adapterName when compilation fails. Adapters unknown to the table
// fall back to an empty requirement list, which is logged since it disables
// construction-parameter validation entirely.
func CompileOrFallback(root map[string]Field, adapterName string) []Requirement {
	reqs, err := Compile(root, adapterName)
	if err == nil {
		return reqs
	}

	log.Warn().
		Err(err).
		Str("adapter", adapterName).
		Msg("schema compilation failed, using fallback requirements")

	if fb, ok := fallbackRequirements[adapterName]; ok {
		out := make([]Requirement, len(fb))
		copy(out, fb)
		return out
	}
	return nil
}
