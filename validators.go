package voluptuous

import (
	"cmp"
	"fmt"
	"net/url"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// This file is the convenience validator library. Everything here reaches the
// matcher exclusively through the Validator contract: reject with *Invalid,
// optionally transform the value.

func pick(msg []string, def string) string {
	if len(msg) > 0 && msg[0] != "" {
		return msg[0]
	}
	return def
}

// Truth builds a Validator from a predicate.
func Truth(pred func(v any) bool, msg string) Validator {
	return func(v any) (any, error) {
		if pred(v) {
			return v, nil
		}
		return nil, NewInvalid(msg)
	}
}

// Coerce converts the value to T: numeric kinds convert across each other,
// strings parse into numbers and bools, and everything renders into strings.
// A value that cannot be coerced is rejected.
func Coerce[T any](msg ...string) Validator {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	reject := pick(msg, "expected "+rt.String())
	return func(v any) (any, error) {
		if out, ok := coerceTo(rt, v); ok {
			return out, nil
		}
		return nil, NewInvalid(reject)
	}
}

func coerceTo(rt reflect.Type, v any) (any, bool) {
	if rt.Kind() == reflect.String {
		rv := reflect.New(rt).Elem()
		rv.SetString(fmt.Sprint(v))
		return rv.Interface(), true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(rt) {
		return v, true
	}
	if numericKind(rt.Kind()) {
		if f, ok := asFloat(v); ok {
			out := reflect.ValueOf(f).Convert(rt)
			return out.Interface(), true
		}
		if s, ok := stringValue(v); ok {
			if rt.Kind() == reflect.Float32 || rt.Kind() == reflect.Float64 {
				f, err := strconv.ParseFloat(s, 64)
				if err != nil {
					return nil, false
				}
				return reflect.ValueOf(f).Convert(rt).Interface(), true
			}
			i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return nil, false
			}
			return reflect.ValueOf(i).Convert(rt).Interface(), true
		}
		return nil, false
	}
	if rt.Kind() == reflect.Bool {
		if b, ok := v.(bool); ok {
			return b, true
		}
		if s, ok := stringValue(v); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(s))
			if err != nil {
				return nil, false
			}
			return b, true
		}
		return nil, false
	}
	if rv.Type().ConvertibleTo(rt) && rv.Kind() == rt.Kind() {
		return rv.Convert(rt).Interface(), true
	}
	return nil, false
}

func numericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func stringValue(v any) (string, bool) {
	rv := reflect.ValueOf(v)
	if rv.IsValid() && rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

// truthy reports Python-style truthiness: nil, false, zero numbers, empty
// strings and empty containers are false.
func truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.Len() > 0
	case reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len() > 0
	}
	if f, ok := asFloat(v); ok {
		return f != 0
	}
	return true
}

// IsTrue asserts that a value is truthy. Usable directly in a schema.
func IsTrue(v any) (any, error) {
	if truthy(v) {
		return v, nil
	}
	return nil, NewInvalid("value was not true")
}

// IsFalse asserts that a value is falsy.
func IsFalse(v any) (any, error) {
	if !truthy(v) {
		return v, nil
	}
	return nil, NewInvalid("value was not false")
}

// Boolean converts human-readable boolean values to a bool. Accepted strings
// are 1, true, yes, on, enable and their negatives; other values are reduced
// to their truthiness.
func Boolean(msg ...string) Validator {
	reject := pick(msg, "expected boolean")
	return func(v any) (any, error) {
		if b, ok := v.(bool); ok {
			return b, nil
		}
		if s, ok := stringValue(v); ok {
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "1", "true", "yes", "on", "enable":
				return true, nil
			case "0", "false", "no", "off", "disable":
				return false, nil
			}
			return nil, NewInvalid(reject)
		}
		return truthy(v), nil
	}
}

// Match requires a string matching the regular expression pattern. The
// pattern must compile; a bad pattern is a programmer error, as with
// regexp.MustCompile.
func Match(pattern string, msg ...string) Validator {
	return MatchRegexp(regexp.MustCompile(pattern), msg...)
}

// MatchRegexp is Match with a prebuilt regular expression.
func MatchRegexp(re *regexp.Regexp, msg ...string) Validator {
	reject := pick(msg, "does not match regular expression")
	return func(v any) (any, error) {
		s, ok := stringValue(v)
		if !ok {
			return nil, NewInvalid(reject)
		}
		if !re.MatchString(s) {
			return nil, NewInvalid(reject)
		}
		return v, nil
	}
}

// Replace substitutes every match of pattern with substitution.
func Replace(pattern, substitution string, msg ...string) Validator {
	re := regexp.MustCompile(pattern)
	reject := pick(msg, "expected a string")
	return func(v any) (any, error) {
		s, ok := stringValue(v)
		if !ok {
			return nil, NewInvalid(reject)
		}
		return re.ReplaceAllString(s, substitution), nil
	}
}

var emailRE = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Email verifies that the value looks like an e-mail address.
func Email(v any) (any, error) {
	s, ok := stringValue(v)
	if !ok || !emailRE.MatchString(s) {
		return nil, NewInvalid("expected an email address")
	}
	return v, nil
}

// URL verifies that the value parses as an absolute URL.
func URL(v any) (any, error) {
	u, ok := parseURL(v)
	if !ok || u.Scheme == "" || u.Host == "" {
		return nil, NewInvalid("expected a URL")
	}
	return v, nil
}

// FqdnURL verifies that the value is a URL with a fully qualified host name.
func FqdnURL(v any) (any, error) {
	u, ok := parseURL(v)
	if !ok || u.Scheme == "" || len(strings.Split(u.Hostname(), ".")) < 2 {
		return nil, NewInvalid("expected a fully qualified domain name URL")
	}
	return v, nil
}

func parseURL(v any) (*url.URL, bool) {
	s, ok := stringValue(v)
	if !ok {
		return nil, false
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, false
	}
	return u, true
}

// IsFile verifies that the value names an existing regular file.
func IsFile(v any) (any, error) {
	s, ok := stringValue(v)
	if ok {
		if fi, err := os.Stat(s); err == nil && fi.Mode().IsRegular() {
			return v, nil
		}
	}
	return nil, NewInvalid("not a file")
}

// IsDir verifies that the value names an existing directory.
func IsDir(v any) (any, error) {
	s, ok := stringValue(v)
	if ok {
		if fi, err := os.Stat(s); err == nil && fi.IsDir() {
			return v, nil
		}
	}
	return nil, NewInvalid("not a directory")
}

// PathExists verifies that the value names an existing path of any kind.
func PathExists(v any) (any, error) {
	s, ok := stringValue(v)
	if ok {
		if _, err := os.Stat(s); err == nil {
			return v, nil
		}
	}
	return nil, NewInvalid("path does not exist")
}

func orderedValue[T cmp.Ordered](v any) (T, bool) {
	var zero T
	rt := reflect.TypeOf(zero)
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return zero, false
	}
	if rv.Type().AssignableTo(rt) {
		return rv.Convert(rt).Interface().(T), true
	}
	if numericKind(rt.Kind()) {
		if f, ok := asFloat(v); ok {
			return reflect.ValueOf(f).Convert(rt).Interface().(T), true
		}
		return zero, false
	}
	if rv.Kind() == rt.Kind() && rv.Type().ConvertibleTo(rt) {
		return rv.Convert(rt).Interface().(T), true
	}
	return zero, false
}

// Range limits a value to [lo, hi] inclusive.
func Range[T cmp.Ordered](lo, hi T, msg ...string) Validator {
	return func(v any) (any, error) {
		n, ok := orderedValue[T](v)
		if !ok {
			return nil, NewInvalid(pick(msg, fmt.Sprintf("value must be between %v and %v", lo, hi)))
		}
		if n < lo {
			return nil, NewInvalid(pick(msg, fmt.Sprintf("value must be at least %v", lo)))
		}
		if n > hi {
			return nil, NewInvalid(pick(msg, fmt.Sprintf("value must be at most %v", hi)))
		}
		return v, nil
	}
}

// Min demands a value of at least lo.
func Min[T cmp.Ordered](lo T, msg ...string) Validator {
	return func(v any) (any, error) {
		n, ok := orderedValue[T](v)
		if !ok || n < lo {
			return nil, NewInvalid(pick(msg, fmt.Sprintf("value must be at least %v", lo)))
		}
		return v, nil
	}
}

// Max demands a value of at most hi.
func Max[T cmp.Ordered](hi T, msg ...string) Validator {
	return func(v any) (any, error) {
		n, ok := orderedValue[T](v)
		if !ok || n > hi {
			return nil, NewInvalid(pick(msg, fmt.Sprintf("value must be at most %v", hi)))
		}
		return v, nil
	}
}

// Clamp transforms the value into [lo, hi], replacing out-of-range values
// with the nearest bound.
func Clamp[T cmp.Ordered](lo, hi T, msg ...string) Validator {
	return func(v any) (any, error) {
		n, ok := orderedValue[T](v)
		if !ok {
			return nil, NewInvalid(pick(msg, "expected a comparable value"))
		}
		if n < lo {
			n = lo
		}
		if n > hi {
			n = hi
		}
		return n, nil
	}
}

// Length bounds the length of a string, slice, array or map. A negative max
// leaves the upper bound open.
func Length(min, max int, msg ...string) Validator {
	return func(v any) (any, error) {
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		default:
			return nil, NewInvalid(pick(msg, "expected a value with a length"))
		}
		if rv.Len() < min {
			return nil, NewInvalid(pick(msg, fmt.Sprintf("length of value must be at least %d", min)))
		}
		if max >= 0 && rv.Len() > max {
			return nil, NewInvalid(pick(msg, fmt.Sprintf("length of value must be at most %d", max)))
		}
		return v, nil
	}
}

// Datetime verifies that the value is a timestamp in the given layout
// (time.RFC3339 when layout is empty). The string passes through unchanged.
func Datetime(layout string, msg ...string) Validator {
	if layout == "" {
		layout = time.RFC3339
	}
	reject := pick(msg, "value does not match expected format "+layout)
	return func(v any) (any, error) {
		s, ok := stringValue(v)
		if !ok {
			return nil, NewInvalid(reject)
		}
		if _, err := time.Parse(layout, s); err != nil {
			return nil, NewInvalid(reject)
		}
		return v, nil
	}
}

// In limits the value to a fixed set of choices.
func In(choices ...any) Validator {
	return func(v any) (any, error) {
		for _, c := range choices {
			if equalValues(c, v) {
				return v, nil
			}
		}
		return nil, NewInvalid("value is not allowed")
	}
}

// NotIn rejects values from a fixed set.
func NotIn(choices ...any) Validator {
	return func(v any) (any, error) {
		for _, c := range choices {
			if equalValues(c, v) {
				return nil, NewInvalid("value is not allowed")
			}
		}
		return v, nil
	}
}

// Unique verifies that no two elements of a sequence are equal.
func Unique(v any) (any, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, NewInvalid("expected a list")
	}
	for i := 0; i < rv.Len(); i++ {
		for j := i + 1; j < rv.Len(); j++ {
			if equalValues(rv.Index(i).Interface(), rv.Index(j).Interface()) {
				return nil, NewInvalid(fmt.Sprintf("contains duplicate items: %v", rv.Index(j).Interface()))
			}
		}
	}
	return v, nil
}
