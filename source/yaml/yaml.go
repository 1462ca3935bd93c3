// Package yaml decodes YAML documents (typically configuration trees) and
// validates them against a compiled schema in one call.
package yaml

import (
	"io"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/alecthomas/voluptuous"
)

// Validate decodes data and matches it against s, returning the normalized
// value. Malformed YAML reports a single *Invalid with code parse_error.
func Validate(s *voluptuous.Schema, data []byte) (any, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return s.Validate(v)
}

// ValidateReader is Validate over a stream.
func ValidateReader(s *voluptuous.Schema, r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Validate(s, data)
}

// Decode decodes one YAML document into the generic value shape the matcher
// consumes (map[string]any, []any, scalars) without validating it.
func Decode(data []byte) (any, error) {
	var v any
	if err := yamlv3.Unmarshal(data, &v); err != nil {
		return nil, &voluptuous.Invalid{Code: voluptuous.CodeParseError, Message: err.Error(), Err: err}
	}
	return v, nil
}
