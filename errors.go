package voluptuous

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeTypeMismatch           = "type_mismatch"
	CodeLiteralMismatch        = "literal_mismatch"
	CodeRequiredKeyMissing     = "required_key_missing"
	CodeExtraKeyNotAllowed     = "extra_key_not_allowed"
	CodeExclusiveGroupConflict = "exclusive_group_conflict"
	CodeInvalidListValue       = "invalid_list_value"
	CodeSequenceLengthMismatch = "sequence_length_mismatch"
	CodeCallableRejected       = "callable_rejected"
	// Composition and source-level codes (outside the matcher core)
	CodeNoValidValue = "no_valid_value"
	CodeParseError   = "parse_error"
)

// Path locates an error in the source data as an ordered sequence of map keys
// and sequence indices, root first.
type Path []any

// String renders the path in data-subscript form, e.g. data['set']['retries']
// or data[0][2]. An empty path renders as "data".
func (p Path) String() string {
	b := &strings.Builder{}
	b.WriteString("data")
	for _, seg := range p {
		switch s := seg.(type) {
		case string:
			fmt.Fprintf(b, "['%s']", s)
		default:
			fmt.Fprintf(b, "[%v]", s)
		}
	}
	return b.String()
}

// Invalid reports that a value failed validation.
//
// Code is one of the constants above, Path locates the offending value in the
// input, and Err optionally carries the original cause (for example the error
// returned by a rejected validator).
type Invalid struct {
	Code    string
	Message string
	Path    Path
	Err     error
}

// NewInvalid builds the rejection signal validator callables use to reject a
// value. The matcher recognizes it, attaches the data path, and converts it
// into a validation failure; any other error returned by a callable is
// treated as a defect and propagates untouched.
func NewInvalid(message string) *Invalid {
	return &Invalid{Message: message}
}

func (e *Invalid) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code
	}
	if len(e.Path) == 0 {
		return msg
	}
	return msg + " @ " + e.Path.String()
}

func (e *Invalid) Unwrap() error { return e.Err }

// MultipleInvalid aggregates all independent sibling errors found while
// matching one container. Errors preserves the order in which the offending
// keys and indices were scanned.
type MultipleInvalid struct {
	Errors []*Invalid
}

// Error summarizes the first few contained errors.
func (m *MultipleInvalid) Error() string {
	n := len(m.Errors)
	if n == 0 {
		return ""
	}
	const maxShown = 3
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	b := &strings.Builder{}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(m.Errors[i].Error())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the contained errors to errors.Is and errors.As.
func (m *MultipleInvalid) Unwrap() []error {
	errs := make([]error, len(m.Errors))
	for i, e := range m.Errors {
		errs[i] = e
	}
	return errs
}

// AsInvalid extracts an *Invalid from an error using errors.As internally.
func AsInvalid(err error) (*Invalid, bool) {
	if err == nil {
		return nil, false
	}
	var inv *Invalid
	if errors.As(err, &inv) {
		return inv, true
	}
	return nil, false
}

// AsMultipleInvalid extracts a *MultipleInvalid from an error.
func AsMultipleInvalid(err error) (*MultipleInvalid, bool) {
	if err == nil {
		return nil, false
	}
	var m *MultipleInvalid
	if errors.As(err, &m) {
		return m, true
	}
	return nil, false
}

// SchemaError reports a malformed schema specification. It is a programmer
// error raised at compile time, never a data error.
type SchemaError struct {
	msg string
}

func (e *SchemaError) Error() string { return "voluptuous: " + e.msg }

func schemaErrorf(format string, args ...any) *SchemaError {
	return &SchemaError{msg: fmt.Sprintf(format, args...)}
}

// errorPath returns the data path of a validation error, or ok=false when the
// error is not part of the validation taxonomy (a defect).
func errorPath(err error) (Path, bool) {
	switch e := err.(type) {
	case *Invalid:
		return e.Path, true
	case *MultipleInvalid:
		if len(e.Errors) > 0 {
			return e.Errors[0].Path, true
		}
		return nil, true
	}
	return nil, false
}

// flattenInvalid expands an error into its contained *Invalid values.
// It returns nil for defects.
func flattenInvalid(err error) []*Invalid {
	switch e := err.(type) {
	case *Invalid:
		return []*Invalid{e}
	case *MultipleInvalid:
		return e.Errors
	}
	return nil
}

// extend returns a fresh path with segs appended. Child paths must never
// share backing arrays with their siblings.
func extend(p Path, segs ...any) Path {
	np := make(Path, 0, len(p)+len(segs))
	np = append(np, p...)
	return append(np, segs...)
}
