package voluptuous_test

import (
	"os"
	"path/filepath"
	"testing"

	v "github.com/alecthomas/voluptuous"
)

func check(t *testing.T, spec, in any) any {
	t.Helper()
	out, err := v.Validate(spec, in)
	if err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	return out
}

func TestCoerce(t *testing.T) {
	if got := check(t, v.Coerce[int](), "42"); got != int(42) {
		t.Fatalf("got %v (%T)", got, got)
	}
	if got := check(t, v.Coerce[int](), 42.0); got != int(42) {
		t.Fatalf("got %v (%T)", got, got)
	}
	if got := check(t, v.Coerce[string](), 42); got != "42" {
		t.Fatalf("got %v (%T)", got, got)
	}
	if got := check(t, v.Coerce[float64](), "3.5"); got != 3.5 {
		t.Fatalf("got %v (%T)", got, got)
	}
	if got := check(t, v.Coerce[bool](), "true"); got != true {
		t.Fatalf("got %v (%T)", got, got)
	}
	_, err := v.Validate(v.Coerce[int](), "foo")
	e := firstError(t, err)
	if e.Message != "expected int" {
		t.Fatalf("unexpected message %q", e.Message)
	}
	_, err = v.Validate(v.Coerce[int]("moo"), "foo")
	if firstError(t, err).Message != "moo" {
		t.Fatalf("custom message not used")
	}
}

func TestBoolean(t *testing.T) {
	for _, s := range []string{"1", "true", "Yes", " on ", "enable"} {
		if got := check(t, v.Boolean(), s); got != true {
			t.Fatalf("%q: got %v", s, got)
		}
	}
	for _, s := range []string{"0", "false", "no", "off", "disable"} {
		if got := check(t, v.Boolean(), s); got != false {
			t.Fatalf("%q: got %v", s, got)
		}
	}
	if _, err := v.Validate(v.Boolean(), "moo"); err == nil {
		t.Fatalf("expected rejection")
	}
	if got := check(t, v.Boolean(), 0); got != false {
		t.Fatalf("numeric truthiness not applied")
	}
}

func TestIsTrueIsFalse(t *testing.T) {
	for _, val := range []any{1, "x", true, []any{1}} {
		if _, err := v.Validate(v.Validator(v.IsTrue), val); err != nil {
			t.Fatalf("IsTrue(%v): %v", val, err)
		}
	}
	for _, val := range []any{0, "", false, nil, []any{}} {
		if _, err := v.Validate(v.Validator(v.IsFalse), val); err != nil {
			t.Fatalf("IsFalse(%v): %v", val, err)
		}
	}
	if _, err := v.Validate(v.Validator(v.IsTrue), 0); err == nil {
		t.Fatalf("expected rejection")
	}
}

func TestMatchAndReplace(t *testing.T) {
	check(t, v.Match(`^[a-z]+$`), "abc")
	if _, err := v.Validate(v.Match(`^[a-z]+$`), "ABC"); err == nil {
		t.Fatalf("expected rejection")
	}
	if _, err := v.Validate(v.Match(`^[a-z]+$`), 123); err == nil {
		t.Fatalf("expected rejection for non-string")
	}
	if got := check(t, v.Replace(`\s+`, " "), "a   b"); got != "a b" {
		t.Fatalf("got %q", got)
	}
}

func TestEmailAndURL(t *testing.T) {
	check(t, v.Validator(v.Email), "a@example.com")
	for _, bad := range []any{"a@b", "not an email", 7} {
		if _, err := v.Validate(v.Validator(v.Email), bad); err == nil {
			t.Fatalf("Email accepted %v", bad)
		}
	}
	check(t, v.Validator(v.URL), "http://example.com/path")
	if _, err := v.Validate(v.Validator(v.URL), "example.com"); err == nil {
		t.Fatalf("URL accepted a relative reference")
	}
	check(t, v.Validator(v.FqdnURL), "http://www.example.com/")
	if _, err := v.Validate(v.Validator(v.FqdnURL), "http://localhost/"); err == nil {
		t.Fatalf("FqdnURL accepted a bare host")
	}
}

func TestFilesystemChecks(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	check(t, v.Validator(v.IsFile), file)
	check(t, v.Validator(v.IsDir), dir)
	check(t, v.Validator(v.PathExists), file)
	if _, err := v.Validate(v.Validator(v.IsFile), dir); err == nil {
		t.Fatalf("IsFile accepted a directory")
	}
	if _, err := v.Validate(v.Validator(v.PathExists), filepath.Join(dir, "missing")); err == nil {
		t.Fatalf("PathExists accepted a missing path")
	}
}

func TestRangeMinMaxClamp(t *testing.T) {
	check(t, v.Range(1, 10), 5)
	check(t, v.Range(1, 10), 5.0)
	for _, bad := range []any{0, 11, "x"} {
		if _, err := v.Validate(v.Range(1, 10), bad); err == nil {
			t.Fatalf("Range accepted %v", bad)
		}
	}
	check(t, v.Min(3), 3)
	if _, err := v.Validate(v.Min(3), 2); err == nil {
		t.Fatalf("Min accepted 2")
	}
	check(t, v.Max(3), 3)
	if _, err := v.Validate(v.Max(3), 4); err == nil {
		t.Fatalf("Max accepted 4")
	}
	if got := check(t, v.Clamp(1, 10), 0); got != 1 {
		t.Fatalf("Clamp low: got %v", got)
	}
	if got := check(t, v.Clamp(1, 10), 99); got != 10 {
		t.Fatalf("Clamp high: got %v", got)
	}
	if got := check(t, v.Clamp(1, 10), 5); got != 5 {
		t.Fatalf("Clamp mid: got %v", got)
	}
}

func TestLength(t *testing.T) {
	check(t, v.Length(2, 4), "abc")
	check(t, v.Length(2, -1), []any{1, 2, 3, 4, 5})
	for _, bad := range []any{"a", "abcde", 7} {
		if _, err := v.Validate(v.Length(2, 4), bad); err == nil {
			t.Fatalf("Length accepted %v", bad)
		}
	}
}

func TestDatetime(t *testing.T) {
	check(t, v.Datetime(""), "2026-08-30T12:00:00Z")
	if _, err := v.Validate(v.Datetime(""), "30/08/2026"); err == nil {
		t.Fatalf("expected rejection")
	}
	check(t, v.Datetime("2006-01-02"), "2026-08-30")
}

func TestInNotIn(t *testing.T) {
	check(t, v.In("red", "green", "blue"), "green")
	// Numeric equivalence applies to choice sets as to literals.
	check(t, v.In(1, 2, 3), 2.0)
	if _, err := v.Validate(v.In("red"), "mauve"); err == nil {
		t.Fatalf("In accepted a non-member")
	}
	check(t, v.NotIn("red"), "mauve")
	if _, err := v.Validate(v.NotIn("red"), "red"); err == nil {
		t.Fatalf("NotIn accepted a member")
	}
}

func TestUnique(t *testing.T) {
	check(t, v.Validator(v.Unique), []any{1, 2, 3})
	if _, err := v.Validate(v.Validator(v.Unique), []any{1, 2, 1}); err == nil {
		t.Fatalf("expected rejection")
	}
	if _, err := v.Validate(v.Validator(v.Unique), "abc"); err == nil {
		t.Fatalf("expected rejection for non-sequence")
	}
}

func TestTruth(t *testing.T) {
	even := v.Truth(func(val any) bool {
		n, ok := val.(int)
		return ok && n%2 == 0
	}, "expected an even number")
	check(t, even, 4)
	_, err := v.Validate(even, 3)
	if firstError(t, err).Message != "expected an even number" {
		t.Fatalf("unexpected error %v", err)
	}
}
