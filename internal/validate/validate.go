// Package validate proves, before an adapter is constructed, that (a) the
// adapter's declared capability set satisfies any interface shape the caller
// requested, and (b) the caller-supplied construction parameters satisfy the
// adapter's compiled requirements. It never inspects the adapter's actual
// runtime methods — declarations are the promise, this is the verify.
package validate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/cobaltstack/chainforge/internal/registry"
	"github.com/cobaltstack/chainforge/internal/schema"
	"github.com/cobaltstack/chainforge/pkg/types"
)

// ExpectedInterfaceKey is where callers place a requested interface shape
// name inside the validation parameters.
const ExpectedInterfaceKey = "expectedInterface"

// Input carries everything Validate needs.
type Input struct {
	Name    string
	Version string

	// Params is the construction-parameter object requirements resolve
	// against. Params[ExpectedInterfaceKey], when present, names the
	// interface shape to verify.
	Params map[string]any

	Meta     *registry.AdapterMetadata
	Registry *registry.Registry

	// Operation names the calling factory operation for error context.
	Operation string
}

// Validate runs the interface-shape check followed by the requirement checks
// and returns nil when the adapter may be constructed. The first failure
// short-circuits.
func Validate(in Input) error {
	if in.Meta == nil {
		return types.Errorf(types.ErrCodeRegistryMisconfigured,
			"%s: validation invoked without adapter metadata", in.Operation)
	}

	if err := checkInterfaceShape(in); err != nil {
		return err
	}
	return checkRequirements(in)
}

func checkInterfaceShape(in Input) error {
	raw, present := in.Params[ExpectedInterfaceKey]
	if !present || raw == nil {
		return nil
	}
	shapeName, ok := raw.(string)
	if !ok || shapeName == "" {
		return nil
	}

	if in.Registry == nil {
		return types.Errorf(types.ErrCodeRegistryMisconfigured,
			"%s: interface shape %q requested without a registry", in.Operation, shapeName).
			WithAdapter(in.Name)
	}

	shape, found := in.Registry.InterfaceShape(shapeName)
	if !found {
		// A caller asking for a shape the registry never learned about is a
		// wiring bug, not bad user input.
		return types.Errorf(types.ErrCodeRegistryMisconfigured,
			"%s: requested interface shape %q is not registered", in.Operation, shapeName).
			WithAdapter(in.Name)
	}

	claimed := in.Meta.CapabilitySet()
	for _, c := range shape.Capabilities {
		if !claimed.Has(c) {
			return types.Errorf(types.ErrCodeIncompatibleAdapter,
				"adapter %s@%s does not satisfy interface %s: missing capability %q",
				in.Name, in.Version, shapeName, c).
				WithAdapter(in.Name).
				WithDetail("interface", shapeName).
				WithDetail("missing_capability", string(c))
		}
	}
	return nil
}

func checkRequirements(in Input) error {
	for _, req := range in.Meta.Requirements {
		value, found := resolvePath(in.Params, req.Path)

		if !found || value == nil {
			if req.AllowUndefined {
				continue
			}
			return types.Errorf(types.ErrCodeMissingRequirement,
				"adapter %s@%s: %s", in.Name, in.Version, req.Message).
				WithAdapter(in.Name).
				WithDetail("path", req.Path)
		}

		if req.Type == "" || req.Type == schema.TypeAny {
			continue
		}
		actual := runtimeTypeName(value)
		if actual != string(req.Type) {
			return types.Errorf(types.ErrCodeInvalidRequirementType,
				"adapter %s@%s: %s (expected %s at %s, got %s)",
				in.Name, in.Version, req.Message, req.Type, req.Path, actual).
				WithAdapter(in.Name).
				WithDetail("path", req.Path).
				WithDetail("expected_type", string(req.Type)).
				WithDetail("actual_type", actual)
		}
	}
	return nil
}

// resolvePath walks a dot-separated path through nested map[string]any
// values. Arrays and primitive leaves terminate resolution: a remaining path
// segment below them reports the value as absent.
func resolvePath(params map[string]any, path string) (any, bool) {
	segments := strings.Split(path, ".")
	var current any = params
	for i, seg := range segments {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		value, present := node[seg]
		if !present {
			return nil, false
		}
		if i == len(segments)-1 {
			return value, true
		}
		current = value
	}
	return nil, false
}

// runtimeTypeName maps a Go value onto the schema's primitive type names,
// treating all numeric kinds as "number" and slices/arrays as "array" rather
// than generic objects.
func runtimeTypeName(v any) string {
	switch v.(type) {
	case string:
		return string(schema.TypeString)
	case bool:
		return string(schema.TypeBoolean)
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return string(schema.TypeNumber)
	case map[string]any:
		return string(schema.TypeObject)
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return string(schema.TypeArray)
	case reflect.Func:
		return string(schema.TypeFunction)
	case reflect.Map:
		return string(schema.TypeObject)
	default:
		return fmt.Sprintf("%T", v)
	}
}
