package voluptuous

import (
	"reflect"
	"sort"

	js "github.com/alecthomas/voluptuous/jsonschema"
)

// JSONSchema projects the compiled tree into a JSON Schema representation.
// The projection is best-effort: callables and lazy references export as the
// empty (accept-anything) schema, since nothing about them is declarative.
func (s *Schema) JSONSchema() (*js.Schema, error) {
	return exportNode(s.root, map[*refNode]bool{})
}

func exportNode(n node, seen map[*refNode]bool) (*js.Schema, error) {
	switch t := n.(type) {
	case *refNode:
		// Value cycles always pass through a memoized ref; a
		// self-referential schema has no finite expansion here.
		if seen[t] {
			return &js.Schema{}, nil
		}
		seen[t] = true
		defer delete(seen, t)
		return exportNode(t.target, seen)
	case literalNode:
		return &js.Schema{Type: jsonTypeOf(t.v), Const: t.v}, nil
	case typeNode:
		return &js.Schema{Type: jsonTypeName(t.t)}, nil
	case msgNode:
		return exportNode(t.inner, seen)
	case anyNode:
		out := &js.Schema{OneOf: make([]*js.Schema, 0, len(t.alts))}
		for _, alt := range t.alts {
			as, err := exportNode(alt, seen)
			if err != nil {
				return nil, err
			}
			out.OneOf = append(out.OneOf, as)
		}
		return out, nil
	case allNode:
		out := &js.Schema{AllOf: make([]*js.Schema, 0, len(t.steps))}
		for _, step := range t.steps {
			ss, err := exportNode(step, seen)
			if err != nil {
				return nil, err
			}
			out.AllOf = append(out.AllOf, ss)
		}
		return out, nil
	case *altNode:
		out := &js.Schema{Type: "array"}
		switch len(t.alts) {
		case 0:
			zero := 0
			out.MaxItems = &zero
		case 1:
			is, err := exportNode(t.alts[0], seen)
			if err != nil {
				return nil, err
			}
			out.Items = is
		default:
			items := &js.Schema{OneOf: make([]*js.Schema, 0, len(t.alts))}
			for _, alt := range t.alts {
				as, err := exportNode(alt, seen)
				if err != nil {
					return nil, err
				}
				items.OneOf = append(items.OneOf, as)
			}
			out.Items = items
		}
		return out, nil
	case *seqNode:
		n := len(t.nodes)
		return &js.Schema{Type: "array", MinItems: &n, MaxItems: &n}, nil
	case *mapNode:
		return exportMap(t, seen)
	}
	return &js.Schema{}, nil
}

func exportMap(n *mapNode, seen map[*refNode]bool) (*js.Schema, error) {
	props := make(map[string]*js.Schema, len(n.exact))
	var required []string
	for key, e := range n.exact {
		name, ok := key.(string)
		if !ok {
			continue
		}
		ps, err := exportNode(e.valNode, seen)
		if err != nil {
			return nil, err
		}
		if e.hasDefault {
			ps.Default = e.defaultFn()
		}
		if e.description != "" {
			ps.Description = e.description
		}
		props[name] = ps
		if e.required {
			required = append(required, name)
		}
	}
	sort.Strings(required)
	var additional any
	switch {
	case len(n.patterns) > 0, n.policy == AllowExtra, n.policy == RemoveExtra:
		// Keys beyond the named ones are accepted at runtime (pattern keys,
		// passthrough, or strip), so JSON Schema must not forbid them.
		additional = true
	default:
		additional = false
	}
	return &js.Schema{Type: "object", Properties: props, Required: required, AdditionalProperties: additional}, nil
}

func jsonTypeOf(v any) string {
	if v == nil {
		return "null"
	}
	return jsonTypeName(reflect.TypeOf(v))
}

func jsonTypeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map:
		return "object"
	}
	return ""
}
