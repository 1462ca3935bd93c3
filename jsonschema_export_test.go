package voluptuous_test

import (
	"testing"

	v "github.com/alecthomas/voluptuous"
)

func TestJSONSchemaObject(t *testing.T) {
	s := v.MustCompile(map[any]any{
		v.Required("name"):                  v.Type[string](),
		v.Optional("port", v.Default(8080)): v.Type[int](),
	})
	js, err := s.JSONSchema()
	if err != nil {
		t.Fatal(err)
	}
	if js.Type != "object" {
		t.Fatalf("expected object, got %q", js.Type)
	}
	if js.Properties["name"].Type != "string" {
		t.Fatalf("name: %+v", js.Properties["name"])
	}
	if js.Properties["port"].Default != 8080 {
		t.Fatalf("port default: %+v", js.Properties["port"])
	}
	if len(js.Required) != 1 || js.Required[0] != "name" {
		t.Fatalf("required: %v", js.Required)
	}
	if js.AdditionalProperties != false {
		t.Fatalf("additionalProperties: %v", js.AdditionalProperties)
	}
}

func TestJSONSchemaAllowExtraOpensObject(t *testing.T) {
	s := v.MustCompileWithOptions(map[any]any{"a": 1}, v.Options{Extra: v.AllowExtra})
	js, err := s.JSONSchema()
	if err != nil {
		t.Fatal(err)
	}
	if js.AdditionalProperties != true {
		t.Fatalf("additionalProperties: %v", js.AdditionalProperties)
	}
}

func TestJSONSchemaListAndCombinators(t *testing.T) {
	s := v.MustCompile([]any{v.Type[string](), v.Type[int]()})
	js, err := s.JSONSchema()
	if err != nil {
		t.Fatal(err)
	}
	if js.Type != "array" || js.Items == nil || len(js.Items.OneOf) != 2 {
		t.Fatalf("unexpected projection %+v", js)
	}

	s = v.MustCompile(v.Any("a", "b"))
	js, err = s.JSONSchema()
	if err != nil {
		t.Fatal(err)
	}
	if len(js.OneOf) != 2 || js.OneOf[0].Const != "a" {
		t.Fatalf("unexpected projection %+v", js)
	}
}

func TestJSONSchemaLiteral(t *testing.T) {
	js, err := v.MustCompile(42).JSONSchema()
	if err != nil {
		t.Fatal(err)
	}
	if js.Type != "integer" || js.Const != 42 {
		t.Fatalf("unexpected projection %+v", js)
	}
}

func TestJSONSchemaCycleIsBounded(t *testing.T) {
	spec := map[any]any{"name": v.Type[string]()}
	spec["next"] = spec
	s := v.MustCompile(spec)
	js, err := s.JSONSchema()
	if err != nil {
		t.Fatal(err)
	}
	// The self-reference exports as the empty accept-anything schema.
	next := js.Properties["next"]
	if next == nil || next.Type != "" {
		t.Fatalf("unexpected cycle projection %+v", next)
	}
}
