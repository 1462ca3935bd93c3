// Package json decodes JSON input and validates it against a compiled schema
// in one call. Numbers decode as json.Number so schemas can distinguish and
// coerce numeric shapes without float64 precision loss.
package json

import (
	"bytes"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/alecthomas/voluptuous"
)

// Validate decodes data and matches it against s, returning the normalized
// value. Malformed JSON reports a single *Invalid with code parse_error;
// validation failures report the schema's usual aggregated error.
func Validate(s *voluptuous.Schema, data []byte) (any, error) {
	return ValidateReader(s, bytes.NewReader(data))
}

// ValidateReader is Validate over a stream.
func ValidateReader(s *voluptuous.Schema, r io.Reader) (any, error) {
	v, err := decode(r)
	if err != nil {
		return nil, err
	}
	return s.Validate(v)
}

// Decode decodes JSON into the generic value shape the matcher consumes
// (map[string]any, []any, json.Number, string, bool, nil) without
// validating it.
func Decode(data []byte) (any, error) {
	return decode(bytes.NewReader(data))
}

func decode(r io.Reader) (any, error) {
	dec := gojson.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &voluptuous.Invalid{Code: voluptuous.CodeParseError, Message: err.Error(), Err: err}
	}
	// Trailing garbage after the first document is still malformed input.
	if err := dec.Decode(new(any)); err != io.EOF {
		return nil, &voluptuous.Invalid{Code: voluptuous.CodeParseError, Message: "unexpected trailing data"}
	}
	return v, nil
}
