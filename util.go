package voluptuous

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
)

// String transforms. Each renders non-string input with fmt.Sprint first, so
// they compose with Coerce-free schemas over loosely typed data.

// Lower transforms a string to lower case.
func Lower(v any) (any, error) { return strings.ToLower(stringify(v)), nil }

// Upper transforms a string to upper case.
func Upper(v any) (any, error) { return strings.ToUpper(stringify(v)), nil }

// Capitalize upper-cases the first rune and lower-cases the rest.
func Capitalize(v any) (any, error) {
	s := strings.ToLower(stringify(v))
	return upperFirst(s), nil
}

// Title upper-cases the first rune of every space-separated word.
func Title(v any) (any, error) {
	words := strings.Fields(stringify(v))
	for i, w := range words {
		words[i] = upperFirst(strings.ToLower(w))
	}
	return strings.Join(words, " "), nil
}

// Strip trims surrounding whitespace.
func Strip(v any) (any, error) { return strings.TrimSpace(stringify(v)), nil }

func stringify(v any) string {
	if s, ok := stringValue(v); ok {
		return s
	}
	return fmt.Sprint(v)
}

func upperFirst(s string) string {
	for i, r := range s {
		return string(unicode.ToUpper(r)) + s[i+len(string(r)):]
	}
	return s
}

// DefaultTo substitutes def when the value is nil.
func DefaultTo(def any) Validator {
	return func(v any) (any, error) {
		if v == nil {
			return def, nil
		}
		return v, nil
	}
}

// SetTo replaces any value with val.
func SetTo(val any) Validator {
	return func(v any) (any, error) { return val, nil }
}

// Literal compares the whole value for deep equality with lit, including
// container values that the compiler would otherwise treat structurally.
func Literal(lit any, msg ...string) Validator {
	reject := pick(msg, fmt.Sprintf("expected %v", lit))
	return func(v any) (any, error) {
		if !reflect.DeepEqual(lit, v) && !equalValues(lit, v) {
			return nil, NewInvalid(reject)
		}
		return v, nil
	}
}
