package voluptuous_test

import (
	"errors"
	"strings"
	"testing"

	v "github.com/alecthomas/voluptuous"
)

func TestPathRendering(t *testing.T) {
	p := v.Path{"set", "targets", 0, "retries"}
	if got := p.String(); got != "data['set']['targets'][0]['retries']" {
		t.Fatalf("unexpected rendering %q", got)
	}
	if got := (v.Path{}).String(); got != "data" {
		t.Fatalf("unexpected empty rendering %q", got)
	}
}

func TestInvalidRendering(t *testing.T) {
	e := &v.Invalid{Code: v.CodeExtraKeyNotAllowed, Message: "extra keys not allowed", Path: v.Path{"two"}}
	if e.Error() != "extra keys not allowed @ data['two']" {
		t.Fatalf("unexpected rendering %q", e.Error())
	}
}

func TestMultipleInvalidSummary(t *testing.T) {
	m := &v.MultipleInvalid{Errors: []*v.Invalid{
		{Message: "a", Path: v.Path{"a"}},
		{Message: "b", Path: v.Path{"b"}},
		{Message: "c", Path: v.Path{"c"}},
		{Message: "d", Path: v.Path{"d"}},
	}}
	s := m.Error()
	if !strings.Contains(s, "total 4") {
		t.Fatalf("expected truncation note, got %q", s)
	}
	if strings.Contains(s, "data['d']") {
		t.Fatalf("expected only the first few errors shown, got %q", s)
	}
}

func TestHumanize(t *testing.T) {
	s := v.MustCompile(map[any]any{"one": 1, "two": 2})
	_, err := s.Validate(map[string]any{"one": 2, "two": 3, "three": 4})
	h := v.Humanize(err)
	if len(strings.Split(h, "\n")) != 3 {
		t.Fatalf("expected one line per error, got %q", h)
	}
	if !strings.Contains(h, "extra keys not allowed @ data['three']") {
		t.Fatalf("missing extra key line in %q", h)
	}
}

func TestAsInvalidUnwrapsCause(t *testing.T) {
	cause := errors.New("boom")
	reject := func(val any) (any, error) {
		return nil, &v.Invalid{Message: "no", Err: cause}
	}
	_, err := v.Validate(v.Validator(reject), "anything")
	inv, ok := v.AsInvalid(err)
	if !ok {
		t.Fatalf("expected Invalid, got %v", err)
	}
	if !errors.Is(inv, cause) {
		t.Fatalf("expected original cause preserved")
	}
}

func TestCallableDefectPropagates(t *testing.T) {
	defect := errors.New("nil pointer dereference, basically")
	bad := func(val any) (any, error) { return nil, defect }
	_, err := v.Validate(v.Validator(bad), "anything")
	if !errors.Is(err, defect) {
		t.Fatalf("expected the defect untouched, got %v", err)
	}
	if _, ok := v.AsMultipleInvalid(err); ok {
		t.Fatalf("defects must not be dressed up as validation errors")
	}
}

func TestCallableRejectionGetsGenericMessage(t *testing.T) {
	reject := func(val any) (any, error) { return nil, v.NewInvalid("") }
	_, err := v.Validate(v.Validator(reject), "anything")
	e := firstError(t, err)
	if e.Code != v.CodeCallableRejected || e.Message != "not a valid value" {
		t.Fatalf("expected generic rejection, got %v", e)
	}
}
