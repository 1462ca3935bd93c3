package voluptuous

import (
	"encoding/json"
	"reflect"
	"strconv"
	"sync"

	"github.com/alecthomas/voluptuous/i18n"
)

// ExtraPolicy controls how mapping keys absent from the schema are handled.
type ExtraPolicy int

const (
	PreventExtra ExtraPolicy = iota // Reject extra keys with an error.
	AllowExtra                      // Pass extra keys through unchanged.
	RemoveExtra                     // Drop extra keys silently.
)

// Options configure compilation. The zero value rejects extra keys and treats
// bare mapping keys as optional.
type Options struct {
	Extra             ExtraPolicy
	RequiredByDefault bool
}

// Validator is the callable contract: a function from value to value that
// rejects by returning an *Invalid (or *MultipleInvalid). Validators may
// transform the value, not merely check it. Any other returned error is a
// defect in the validator and propagates out of validation untouched.
type Validator func(v any) (any, error)

// Type returns the reflect.Type used in schema specifications to demand a
// value of type T. Values whose concrete type has the same kind and is
// convertible to T also match, so named map/slice/string subtypes validate
// against their underlying type. Type[[]any]() and Type[map[string]any]()
// additionally act as generic sequence and mapping checks.
func Type[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Schema is a compiled validator tree. It is immutable after compilation and
// safe for concurrent use; each Validate call allocates its own output.
type Schema struct {
	root node
	opt  Options
}

// node is the compiled, executable unit of one schema fragment. match returns
// the (possibly transformed) value, or an *Invalid/*MultipleInvalid located
// at path, or a defect error which every caller must propagate untouched.
type node interface {
	match(path Path, v any) (any, error)
}

// Compile turns a schema specification into an executable validator tree.
// Specifications are ordinary Go values: literals compare for equality,
// reflect.Types check the value's type, Validator funcs are invoked, slices
// enumerate acceptable element schemas, and maps match dictionaries key by
// key. An unsupported shape fails with a *SchemaError.
func Compile(spec any) (*Schema, error) {
	return CompileWithOptions(spec, Options{})
}

// CompileWithOptions is Compile with explicit extra-key and required-key
// policies.
func CompileWithOptions(spec any, opt Options) (*Schema, error) {
	c := &compiler{opt: opt, memo: map[memoKey]*refNode{}}
	root, err := c.compile(spec)
	if err != nil {
		return nil, err
	}
	return &Schema{root: root, opt: opt}, nil
}

// MustCompile is Compile but panics on a malformed specification, for
// package-level schema variables.
func MustCompile(spec any) *Schema {
	s, err := Compile(spec)
	if err != nil {
		panic(err)
	}
	return s
}

// MustCompileWithOptions is CompileWithOptions but panics on error.
func MustCompileWithOptions(spec any, opt Options) *Schema {
	s, err := CompileWithOptions(spec, opt)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate matches v against the schema and returns the normalized copy.
// Validation failures are reported as a *MultipleInvalid aggregating every
// independent error found; any error anywhere discards the whole result.
func (s *Schema) Validate(v any) (any, error) {
	out, err := s.root.match(nil, v)
	if err == nil {
		return out, nil
	}
	switch e := err.(type) {
	case *MultipleInvalid:
		return nil, e
	case *Invalid:
		return nil, &MultipleInvalid{Errors: []*Invalid{e}}
	}
	return nil, err
}

// Validate compiles spec and validates v in one call. Prefer compiling once
// and reusing the Schema when validating repeatedly.
func Validate(spec, v any) (any, error) {
	s, err := Compile(spec)
	if err != nil {
		return nil, err
	}
	return s.Validate(v)
}

// ---- compiler ----

// memoKey identifies a map or slice spec node for compile-time memoization,
// so shared sub-schemas compile once and value cycles terminate.
type memoKey struct {
	ptr  uintptr
	kind reflect.Kind
}

type compiler struct {
	opt  Options
	memo map[memoKey]*refNode
}

// refNode is the indirection used for memoized sub-schemas: its target is
// filled in after the sub-schema body has compiled, which is what lets a
// schema reference itself.
type refNode struct {
	target node
}

func (n *refNode) match(path Path, v any) (any, error) { return n.target.match(path, v) }

func (c *compiler) compile(spec any) (node, error) {
	switch s := spec.(type) {
	case nil:
		return literalNode{}, nil
	case *Schema:
		return s.root, nil
	case *Marker:
		return c.compile(s.Key)
	case Validator:
		return callableNode{fn: s}, nil
	case func(any) (any, error):
		return callableNode{fn: s}, nil
	case *AnySchema:
		return c.compileAny(s)
	case *AllSchema:
		return c.compileAll(s)
	case *MsgSchema:
		inner, err := c.compile(s.spec)
		if err != nil {
			return nil, err
		}
		return msgNode{inner: inner, message: s.message}, nil
	case *SequenceSchema:
		return c.compileSequence(s)
	case *LazySchema:
		return &lazyNode{fn: s.fn, opt: c.opt}, nil
	case reflect.Type:
		return typeNode{t: s}, nil
	case extraToken:
		return nil, schemaErrorf("Extra is only valid as a mapping key")
	}

	rv := reflect.ValueOf(spec)
	switch rv.Kind() {
	case reflect.Map:
		key := memoKey{ptr: rv.Pointer(), kind: reflect.Map}
		if ref, ok := c.memo[key]; ok {
			return ref, nil
		}
		ref := &refNode{}
		c.memo[key] = ref
		mn, err := c.compileMap(rv)
		if err != nil {
			return nil, err
		}
		ref.target = mn
		return ref, nil
	case reflect.Slice:
		key := memoKey{ptr: rv.Pointer(), kind: reflect.Slice}
		if ref, ok := c.memo[key]; ok {
			return ref, nil
		}
		ref := &refNode{}
		c.memo[key] = ref
		an, err := c.compileAlternatives(rv)
		if err != nil {
			return nil, err
		}
		ref.target = an
		return ref, nil
	case reflect.Array:
		return c.compileAlternatives(rv)
	case reflect.Func:
		return nil, schemaErrorf("unsupported callable %T: validators must be func(any) (any, error)", spec)
	}
	return literalNode{v: spec}, nil
}

func (c *compiler) compileAlternatives(rv reflect.Value) (node, error) {
	alts := make([]node, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		n, err := c.compile(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		alts = append(alts, n)
	}
	return &altNode{alts: alts}, nil
}

func (c *compiler) compileAny(s *AnySchema) (node, error) {
	alts := make([]node, 0, len(s.specs))
	for _, sp := range s.specs {
		n, err := c.compile(sp)
		if err != nil {
			return nil, err
		}
		alts = append(alts, n)
	}
	return anyNode{alts: alts}, nil
}

func (c *compiler) compileAll(s *AllSchema) (node, error) {
	steps := make([]node, 0, len(s.specs))
	for _, sp := range s.specs {
		n, err := c.compile(sp)
		if err != nil {
			return nil, err
		}
		steps = append(steps, n)
	}
	return allNode{steps: steps}, nil
}

// ---- scalar nodes ----

type literalNode struct {
	v any
}

func (n literalNode) match(path Path, v any) (any, error) {
	if !equalValues(n.v, v) {
		return nil, &Invalid{Code: CodeLiteralMismatch, Message: i18n.T(CodeLiteralMismatch, nil), Path: path}
	}
	return v, nil
}

type typeNode struct {
	t reflect.Type
}

var (
	anySliceType = reflect.TypeOf([]any{})
	anyMapType   = reflect.TypeOf(map[string]any{})
	anyAnyMap    = reflect.TypeOf(map[any]any{})
)

func (n typeNode) match(path Path, v any) (any, error) {
	if typeMatches(n.t, v) {
		return v, nil
	}
	return nil, &Invalid{
		Code:    CodeTypeMismatch,
		Message: i18n.T(CodeTypeMismatch, map[string]string{"expected": n.t.String()}),
		Path:    path,
	}
}

func typeMatches(t reflect.Type, v any) bool {
	vt := reflect.TypeOf(v)
	if vt == nil {
		return false
	}
	if vt == t || vt.AssignableTo(t) {
		return true
	}
	// Named subtypes of built-in shapes validate against their underlying
	// type; the matcher keeps the original concrete value.
	if vt.Kind() == t.Kind() && vt.ConvertibleTo(t) {
		return true
	}
	// Type[[]any] and Type[map[string]any] act as generic container checks.
	if t == anySliceType && (vt.Kind() == reflect.Slice || vt.Kind() == reflect.Array) {
		return true
	}
	if (t == anyMapType || t == anyAnyMap) && vt.Kind() == reflect.Map {
		return true
	}
	return false
}

type callableNode struct {
	fn Validator
}

func (n callableNode) match(path Path, v any) (any, error) {
	out, err := n.fn(v)
	if err == nil {
		return out, nil
	}
	switch e := err.(type) {
	case *Invalid:
		return nil, rebase(e, path)
	case *MultipleInvalid:
		errs := make([]*Invalid, 0, len(e.Errors))
		for _, inv := range e.Errors {
			errs = append(errs, rebase(inv, path))
		}
		return nil, &MultipleInvalid{Errors: errs}
	}
	// Not the recognized rejection signal: a defect in the validator.
	return nil, err
}

// rebase prefixes a validator-produced error with the matcher's current path.
func rebase(e *Invalid, path Path) *Invalid {
	code := e.Code
	if code == "" {
		code = CodeCallableRejected
	}
	msg := e.Message
	if msg == "" {
		msg = i18n.T(CodeCallableRejected, nil)
	}
	return &Invalid{Code: code, Message: msg, Path: extend(path, e.Path...), Err: e.Err}
}

// anythingNode accepts every value unchanged. It backs the Extra catch-all.
type anythingNode struct{}

func (anythingNode) match(path Path, v any) (any, error) { return v, nil }

// ---- combinators ----

// AnySchema matches if any of its alternatives matches, first success wins.
// Build with Any.
type AnySchema struct {
	specs []any
}

// Any composes alternatives over a single value: each is tried in order and
// the first successful result is returned. A failure deeper than the value
// itself is reported immediately rather than masked by later alternatives.
func Any(specs ...any) *AnySchema { return &AnySchema{specs: specs} }

type anyNode struct {
	alts []node
}

func (n anyNode) match(path Path, v any) (any, error) {
	for _, alt := range n.alts {
		out, err := alt.match(path, v)
		if err == nil {
			return out, nil
		}
		p, ok := errorPath(err)
		if !ok {
			return nil, err
		}
		if len(p) > len(path) {
			return nil, err
		}
	}
	return nil, &Invalid{Code: CodeNoValidValue, Message: i18n.T(CodeNoValidValue, nil), Path: path}
}

// AllSchema threads a value through every step in order, each step receiving
// the previous step's output. Build with All.
type AllSchema struct {
	specs []any
}

// All composes a validation pipeline: the value must pass every schema, and
// each schema's (possibly transformed) output feeds the next.
func All(specs ...any) *AllSchema { return &AllSchema{specs: specs} }

type allNode struct {
	steps []node
}

func (n allNode) match(path Path, v any) (any, error) {
	var err error
	for _, step := range n.steps {
		v, err = step.match(path, v)
		if err != nil {
			return nil, err
		}
	}
	return v, nil
}

// MsgSchema replaces direct validation failures of the wrapped schema with a
// friendlier message. Build with Msg.
type MsgSchema struct {
	spec    any
	message string
}

// Msg wraps a schema so that failures of the schema itself (or of its
// immediate children) report message instead of the mechanical default.
// Failures nested more than one level down keep their own message and path.
func Msg(spec any, message string) *MsgSchema {
	return &MsgSchema{spec: spec, message: message}
}

type msgNode struct {
	inner   node
	message string
}

func (n msgNode) match(path Path, v any) (any, error) {
	out, err := n.inner.match(path, v)
	if err == nil {
		return out, nil
	}
	p, ok := errorPath(err)
	if !ok {
		return nil, err
	}
	if len(p) > len(path)+1 {
		return nil, err
	}
	code := CodeCallableRejected
	if errs := flattenInvalid(err); len(errs) > 0 && errs[0].Code != "" {
		code = errs[0].Code
	}
	return nil, &Invalid{Code: code, Message: n.message, Path: path}
}

// LazySchema defers resolution of a self-referential schema until first use.
// Build with Lazy.
type LazySchema struct {
	fn func() any
}

// Lazy breaks definition cycles: fn is invoked and compiled on first match,
// so a schema variable may reference itself through it.
func Lazy(fn func() any) *LazySchema { return &LazySchema{fn: fn} }

type lazyNode struct {
	fn   func() any
	opt  Options
	once sync.Once

	target node
	err    error
}

func (n *lazyNode) match(path Path, v any) (any, error) {
	n.once.Do(func() {
		c := &compiler{opt: n.opt, memo: map[memoKey]*refNode{}}
		n.target, n.err = c.compile(n.fn())
	})
	if n.err != nil {
		return nil, n.err
	}
	return n.target.match(path, v)
}

// ---- value equality ----

// equalValues is literal equality with numeric equivalence across kinds, so
// schema literal 3 accepts float64(3) and json.Number("3") from decoded
// wire data.
func equalValues(a, b any) bool {
	if af, ok := asFloat(a); ok {
		if bf, ok := asFloat(b); ok {
			return af == bf
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(n.String(), 64)
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
