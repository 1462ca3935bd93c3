package voluptuous_test

import (
	"testing"

	v "github.com/alecthomas/voluptuous"
)

func TestLazySelfReference(t *testing.T) {
	// A tree of nested string-keyed nodes, each with a name and children.
	var spec map[any]any
	spec = map[any]any{
		v.Required("name"): v.Type[string](),
		"children":         []any{v.Lazy(func() any { return spec })},
	}
	s := v.MustCompile(spec)

	tree := map[string]any{
		"name": "root",
		"children": []any{
			map[string]any{"name": "left"},
			map[string]any{
				"name":     "right",
				"children": []any{map[string]any{"name": "leaf"}},
			},
		},
	}
	if _, err := s.Validate(tree); err != nil {
		t.Fatalf("valid tree rejected: %v", err)
	}

	bad := map[string]any{
		"name": "root",
		"children": []any{
			map[string]any{"name": "left", "children": []any{map[string]any{}}},
		},
	}
	_, err := s.Validate(bad)
	e := firstError(t, err)
	if e.Code != v.CodeRequiredKeyMissing {
		t.Fatalf("unexpected code %q", e.Code)
	}
	want := v.Path{"children", 0, "children", 0, "name"}
	if e.Path.String() != want.String() {
		t.Fatalf("unexpected path %v", e.Path)
	}
}

func TestValueCycleTerminates(t *testing.T) {
	// A spec map that contains itself compiles via memoization rather than
	// recursing forever.
	spec := map[any]any{"name": v.Type[string]()}
	spec["next"] = spec
	s, err := v.Compile(spec)
	if err != nil {
		t.Fatalf("cyclic spec failed to compile: %v", err)
	}
	data := map[string]any{
		"name": "a",
		"next": map[string]any{"name": "b"},
	}
	if _, err := s.Validate(data); err != nil {
		t.Fatalf("valid data rejected: %v", err)
	}
}

func TestLazyBadSpecSurfacesSchemaError(t *testing.T) {
	s := v.MustCompile(v.Lazy(func() any { return v.Extra }))
	_, err := s.Validate("anything")
	if _, ok := err.(*v.SchemaError); !ok {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}
