package voluptuous

// Package voluptuous provides:
//
// - Validation and normalization of nested Go data against declarative schemas (Compile/Validate)
// - Schemas built from ordinary values: literals, reflect.Types, validator funcs, slices and maps
// - A stable error model via Invalid/MultipleInvalid (data path, code, message)
// - Key markers (Required/Optional/Exclusive/Remove), defaults, and extra-key policies
// - JSON Schema projection via (*Schema).JSONSchema
//
// Design policy:
// - Keep only public APIs in the root package; decode front ends live under source/.
// - Compiled schemas are immutable and safe for concurrent Validate calls.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	schema := voluptuous.MustCompile(map[any]any{
//		voluptuous.Required("name"): voluptuous.Type[string](),
//		"retries":                   voluptuous.All(voluptuous.Coerce[int](), voluptuous.Range[int](0, 10)),
//	})
//	out, err := schema.Validate(data)
