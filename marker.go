package voluptuous

// Marker wraps a mapping key with matching metadata: whether the key is
// required, a default for when it is missing, an exclusivity group, and
// whether matched keys should be dropped from the output. Markers are
// created while the schema is authored and never mutated afterwards; the
// compiled tree owns them. A Marker is interchangeable with its bare key for
// lookup purposes, so {Required("q"): 1} and {"q": 1} index identically.
type Marker struct {
	// Key is the wrapped key specification: a literal, a reflect.Type, or a
	// composable validator.
	Key any

	required    bool
	removable   bool
	group       string
	description string
	message     string
	hasDefault  bool
	defaultFn   func() any
}

// MarkerOption customizes a Marker at construction time.
type MarkerOption func(*Marker)

// Default supplies a value synthesized for the key when the data omits it.
// The default is re-validated through the key's value schema, so a default
// that violates the schema surfaces as a validation failure.
func Default(v any) MarkerOption {
	return func(m *Marker) {
		m.hasDefault = true
		m.defaultFn = func() any { return v }
	}
}

// DefaultFunc is Default with a thunk, evaluated once per validation call.
func DefaultFunc(fn func() any) MarkerOption {
	return func(m *Marker) {
		m.hasDefault = true
		m.defaultFn = fn
	}
}

// Description attaches human-readable documentation to the key. It is carried
// into the JSON Schema projection and otherwise ignored by the matcher.
func Description(s string) MarkerOption {
	return func(m *Marker) { m.description = s }
}

// WithMessage overrides the error message reported for this key, for example
// when a required key is missing.
func WithMessage(s string) MarkerOption {
	return func(m *Marker) { m.message = s }
}

// Required marks a key that must be present in the data.
func Required(key any, opts ...MarkerOption) *Marker {
	return newMarker(key, true, opts)
}

// Optional marks a key that may be omitted. Under
// Options.RequiredByDefault=true this is the explicit opt-out.
func Optional(key any, opts ...MarkerOption) *Marker {
	return newMarker(key, false, opts)
}

// Exclusive marks an optional key belonging to an exclusivity group: at most
// one key of any given group may appear in the data.
func Exclusive(key any, group string, opts ...MarkerOption) *Marker {
	m := newMarker(key, false, opts)
	m.group = group
	return m
}

// Remove marks a key whose matched entries are validated and then dropped
// from the output.
func Remove(key any) *Marker {
	m := newMarker(key, false, nil)
	m.removable = true
	return m
}

func newMarker(key any, required bool, opts []MarkerOption) *Marker {
	m := &Marker{Key: key, required: required}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type extraToken struct{}

// Extra is the catch-all mapping key: its presence in a mapping schema allows
// keys not otherwise named, validating their values against the schema Extra
// maps to. It overrides the compiled Options.Extra policy for that mapping.
var Extra extraToken
