package voluptuous

import (
	"reflect"

	"github.com/alecthomas/voluptuous/i18n"
)

// altNode matches sequences against a set of acceptable element schemas: for
// each element the alternatives are tried in schema order and the first
// success wins. It is not positional; see seqNode for that.
type altNode struct {
	alts []node
}

func (n *altNode) match(path Path, v any) (any, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, &Invalid{
			Code:    CodeTypeMismatch,
			Message: i18n.T(CodeTypeMismatch, map[string]string{"expected": "a list"}),
			Path:    path,
		}
	}

	// An empty schema list matches only an empty sequence.
	if len(n.alts) == 0 {
		if rv.Len() != 0 {
			return nil, &Invalid{Code: CodeInvalidListValue, Message: i18n.T(CodeInvalidListValue, nil), Path: path}
		}
		return v, nil
	}

	out, err := newSequenceLike(rv)
	if err != nil {
		return nil, err
	}
	var errs []*Invalid
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		ipath := extend(path, i)
		matched := false
		for _, alt := range n.alts {
			res, aerr := alt.match(ipath, elem)
			if aerr == nil {
				if err := out.set(i, res); err != nil {
					return nil, err
				}
				matched = true
				break
			}
			p, ok := errorPath(aerr)
			if !ok {
				return nil, aerr
			}
			if len(p) > len(ipath) {
				// The alternative was structurally selected and failed
				// inside a nested container: report that failure now rather
				// than masking it with a same-level alternative.
				return nil, aerr
			}
		}
		if !matched {
			errs = append(errs, &Invalid{Code: CodeInvalidListValue, Message: i18n.T(CodeInvalidListValue, nil), Path: ipath})
		}
	}
	if len(errs) > 0 {
		return nil, &MultipleInvalid{Errors: errs}
	}
	return out.value(), nil
}

// SequenceSchema matches a fixed positional sequence: position i of the data
// against schema i, lengths equal. Build with ExactSequence.
type SequenceSchema struct {
	specs []any
}

// ExactSequence demands a sequence of exactly len(specs) elements where each
// position validates against its own schema.
func ExactSequence(specs ...any) *SequenceSchema { return &SequenceSchema{specs: specs} }

func (c *compiler) compileSequence(s *SequenceSchema) (node, error) {
	nodes := make([]node, 0, len(s.specs))
	for _, sp := range s.specs {
		n, err := c.compile(sp)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return &seqNode{nodes: nodes}, nil
}

type seqNode struct {
	nodes []node
}

func (n *seqNode) match(path Path, v any) (any, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, &Invalid{
			Code:    CodeTypeMismatch,
			Message: i18n.T(CodeTypeMismatch, map[string]string{"expected": "a sequence"}),
			Path:    path,
		}
	}
	if rv.Len() != len(n.nodes) {
		return nil, &Invalid{
			Code:    CodeSequenceLengthMismatch,
			Message: i18n.T(CodeSequenceLengthMismatch, nil),
			Path:    path,
		}
	}

	out, err := newSequenceLike(rv)
	if err != nil {
		return nil, err
	}
	var errs []*Invalid
	for i, pos := range n.nodes {
		res, merr := pos.match(extend(path, i), rv.Index(i).Interface())
		if merr != nil {
			child := flattenInvalid(merr)
			if child == nil {
				return nil, merr
			}
			errs = append(errs, child...)
			continue
		}
		if err := out.set(i, res); err != nil {
			return nil, err
		}
	}
	if len(errs) > 0 {
		return nil, &MultipleInvalid{Errors: errs}
	}
	return out.value(), nil
}

// sequenceLike builds the output sequence with the input's concrete type, so
// named slice types and arrays survive validation.
type sequenceLike struct {
	rv reflect.Value
}

func newSequenceLike(in reflect.Value) (sequenceLike, error) {
	if in.Kind() == reflect.Array {
		return sequenceLike{rv: reflect.New(in.Type()).Elem()}, nil
	}
	return sequenceLike{rv: reflect.MakeSlice(in.Type(), in.Len(), in.Len())}, nil
}

func (s sequenceLike) set(i int, v any) error {
	ev, err := toValue(s.rv.Type().Elem(), v)
	if err != nil {
		return err
	}
	s.rv.Index(i).Set(ev)
	return nil
}

func (s sequenceLike) value() any { return s.rv.Interface() }
