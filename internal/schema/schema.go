// Package schema compiles declarative options schemas into flat, path-based
// requirement lists. Compilation happens once per adapter registration; the
// validator only ever reads the compiled requirements, never the schema.
package schema

import (
	"fmt"
	"sort"
)

// FieldType enumerates the primitive types a requirement can expect.
type FieldType string

const (
	TypeString   FieldType = "string"
	TypeNumber   FieldType = "number"
	TypeBoolean  FieldType = "boolean"
	TypeObject   FieldType = "object"
	TypeArray    FieldType = "array"
	TypeFunction FieldType = "function"
	TypeAny      FieldType = "any"
)

// Field is one node of a declarative options schema: either a typed leaf or a
// nested object carrying child fields. A field declaring both a non-object
// leaf type and children is malformed.
type Field struct {
	// Type is the expected primitive type. Empty means TypeAny for leaves
	// and TypeObject for nodes with children.
	Type FieldType

	// Optional marks the field as not required.
	Optional bool

	// HasDefault marks the field as defaulted, which also makes it optional.
	HasDefault bool

	// Message is the human-readable text reported when the field is missing
	// or mistyped. Defaults to a generated description of the path.
	Message string

	// Fields holds child fields for nested objects.
	Fields map[string]Field
}

// Requirement is a single compiled constraint on construction parameters.
type Requirement struct {
	// Path is the dot-separated location inside the parameters object.
	Path string `yaml:"path"`

	// Type is the expected primitive type; TypeAny skips the type check.
	Type FieldType `yaml:"type"`

	// Message is shown to the caller when the requirement is violated.
	Message string `yaml:"message"`

	// AllowUndefined permits the path to be absent or present-but-nil.
	AllowUndefined bool `yaml:"allow_undefined,omitempty"`
}

// Compile walks a schema rooted at the top-level option fields and returns
// the flattened requirement list in deterministic (sorted-path) order.
// It fails on malformed schemas; callers wanting the degraded fallback set
// use CompileOrFallback.
func Compile(root map[string]Field, adapterName string) ([]Requirement, error) {
	if len(root) == 0 {
		return nil, fmt.Errorf("adapter %s: empty schema", adapterName)
	}
	var reqs []Requirement
	if err := walk("", root, &reqs); err != nil {
		return nil, fmt.Errorf("adapter %s: %w", adapterName, err)
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].Path < reqs[j].Path })
	return reqs, nil
}

func walk(prefix string, fields map[string]Field, out *[]Requirement) error {
	// Deterministic traversal keeps compiled output stable across runs.
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		f := fields[name]
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}

		if len(f.Fields) > 0 {
			if f.Type != "" && f.Type != TypeObject {
				return fmt.Errorf("field %s: declares type %q but has nested fields", path, f.Type)
			}
			// A required parent object gets its own requirement so a missing
			// subtree reports the parent path, not just the first child.
			if !f.Optional && !f.HasDefault {
				*out = append(*out, Requirement{
					Path:    path,
					Type:    TypeObject,
					Message: messageFor(f, path),
				})
			}
			if err := walk(path, f.Fields, out); err != nil {
				return err
			}
			continue
		}

		ft := f.Type
		if ft == "" {
			ft = TypeAny
		}
		*out = append(*out, Requirement{
			Path:           path,
			Type:           ft,
			Message:        messageFor(f, path),
			AllowUndefined: f.Optional || f.HasDefault,
		})
	}
	return nil
}

func messageFor(f Field, path string) string {
	if f.Message != "" {
		return f.Message
	}
	return fmt.Sprintf("%s is required", path)
}
