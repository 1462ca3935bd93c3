// Package bind decodes validated, normalized data into typed Go structs.
// It is a thin front end over mapstructure keyed on json tags, so the same
// field names serve wire decoding, validation and binding.
package bind

import (
	"github.com/mitchellh/mapstructure"

	"github.com/alecthomas/voluptuous"
)

// To decodes v into a value of type T. v is expected to be the output of a
// schema Validate call; decoding failures are therefore defects (schema and
// struct disagree), reported as plain errors.
func To[T any](v any) (T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(v); err != nil {
		return out, err
	}
	return out, nil
}

// Validate matches v against s and decodes the normalized result into T.
func Validate[T any](s *voluptuous.Schema, v any) (T, error) {
	out, err := s.Validate(v)
	if err != nil {
		var zero T
		return zero, err
	}
	return To[T](out)
}
