package voluptuous

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/alecthomas/voluptuous/i18n"
)

// mapEntry is one compiled mapping rule: a key node, a value node, and the
// marker metadata of the authored key.
type mapEntry struct {
	keyNode     node
	valNode     node
	keyLabel    any // authored key, used for paths and synthesized defaults
	required    bool
	removable   bool
	group       string
	message     string
	description string
	hasDefault  bool
	defaultFn   func() any
}

// mapNode matches dictionary values. Entries partition at compile time into
// an exact-key index for comparable literal keys and an ordered pattern list
// for everything else; every data key is resolved against the index first,
// which keeps matching linear in the size of the data.
type mapNode struct {
	exact    map[any]*mapEntry
	patterns []*mapEntry
	order    []*mapEntry // all entries, deterministic order, for required/default processing
	policy   ExtraPolicy
}

func (c *compiler) compileMap(rv reflect.Value) (node, error) {
	n := &mapNode{exact: map[any]*mapEntry{}, policy: c.opt.Extra}

	type labeled struct {
		label string
		entry *mapEntry
	}
	var exactOrder, patterns []labeled
	var catchAll *mapEntry

	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key().Interface()
		v := iter.Value().Interface()

		if _, ok := k.(extraToken); ok {
			valNode, err := c.compile(v)
			if err != nil {
				return nil, err
			}
			n.policy = AllowExtra
			catchAll = &mapEntry{keyNode: anythingNode{}, valNode: valNode, keyLabel: "..."}
			continue
		}

		e := &mapEntry{keyLabel: k, required: c.opt.RequiredByDefault}
		if m, ok := k.(*Marker); ok {
			e.keyLabel = m.Key
			e.required = m.required
			e.removable = m.removable
			e.group = m.group
			e.message = m.message
			e.description = m.description
			e.hasDefault = m.hasDefault
			e.defaultFn = m.defaultFn
			if m.removable {
				e.required = false
			}
		}

		keyNode, err := c.compile(e.keyLabel)
		if err != nil {
			return nil, err
		}
		valNode, err := c.compile(v)
		if err != nil {
			return nil, err
		}
		e.keyNode = keyNode
		e.valNode = valNode

		if _, literal := keyNode.(literalNode); literal && comparableValue(e.keyLabel) {
			if _, dup := n.exact[e.keyLabel]; dup {
				return nil, schemaErrorf("duplicate mapping key %v", e.keyLabel)
			}
			n.exact[e.keyLabel] = e
			exactOrder = append(exactOrder, labeled{label: renderKey(e.keyLabel), entry: e})
		} else {
			patterns = append(patterns, labeled{label: renderKey(e.keyLabel), entry: e})
		}
	}

	// Go maps carry no authoring order, so both the pattern scan order and
	// the required/default processing order are fixed by sorting on the
	// rendered key. The Extra catch-all always scans last.
	sort.Slice(exactOrder, func(i, j int) bool { return exactOrder[i].label < exactOrder[j].label })
	sort.Slice(patterns, func(i, j int) bool { return patterns[i].label < patterns[j].label })
	for _, l := range exactOrder {
		n.order = append(n.order, l.entry)
	}
	for _, l := range patterns {
		n.patterns = append(n.patterns, l.entry)
		n.order = append(n.order, l.entry)
	}
	if catchAll != nil {
		n.patterns = append(n.patterns, catchAll)
	}
	return n, nil
}

func (n *mapNode) match(path Path, v any) (any, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Map {
		return nil, &Invalid{
			Code:    CodeTypeMismatch,
			Message: i18n.T(CodeTypeMismatch, map[string]string{"expected": "a dictionary"}),
			Path:    path,
		}
	}

	// Output is a fresh mapping of the input's concrete type, so named map
	// subtypes survive validation.
	out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
	var errs []*Invalid

	pending := make(map[*mapEntry]bool, len(n.order))
	for _, e := range n.order {
		if e.required || e.hasDefault {
			pending[e] = true
		}
	}
	var groupSeen map[string][]any

	for _, dk := range sortedKeys(rv) {
		key := dk.Interface()
		dval := rv.MapIndex(dk).Interface()
		kpath := extend(path, key)

		if e, ok := n.exact[key]; ok {
			// The key is consumed by this entry whether or not its value
			// validates: no default is synthesized and no missing-key error
			// is stacked on top of a value error.
			delete(pending, e)
			if e.group != "" {
				if groupSeen == nil {
					groupSeen = map[string][]any{}
				}
				groupSeen[e.group] = append(groupSeen[e.group], key)
			}
			res, err := e.valNode.match(kpath, dval)
			if err != nil {
				child := flattenInvalid(err)
				if child == nil {
					return nil, err
				}
				errs = append(errs, annotateValueErrors(child, kpath)...)
				continue
			}
			if e.removable {
				continue
			}
			if err := setMapEntry(out, key, res); err != nil {
				return nil, err
			}
			continue
		}

		matched := false
		for _, e := range n.patterns {
			newKey, kerr := e.keyNode.match(kpath, key)
			if kerr != nil {
				p, ok := errorPath(kerr)
				if !ok {
					return nil, kerr
				}
				if len(p) > len(kpath) {
					// The key itself matched structurally but failed inside;
					// no later pattern may mask that.
					return nil, kerr
				}
				continue
			}
			matched = true
			delete(pending, e)
			if e.group != "" {
				if groupSeen == nil {
					groupSeen = map[string][]any{}
				}
				groupSeen[e.group] = append(groupSeen[e.group], key)
			}
			// Backtracking stops once a key node accepts: a value failure is
			// reported here, never retried against later patterns.
			res, verr := e.valNode.match(kpath, dval)
			if verr != nil {
				child := flattenInvalid(verr)
				if child == nil {
					return nil, verr
				}
				errs = append(errs, annotateValueErrors(child, kpath)...)
				break
			}
			if e.removable {
				break
			}
			if err := setMapEntry(out, newKey, res); err != nil {
				return nil, err
			}
			break
		}
		if matched {
			continue
		}

		switch n.policy {
		case AllowExtra:
			if err := setMapEntry(out, key, dval); err != nil {
				return nil, err
			}
		case RemoveExtra:
			// drop
		default:
			errs = append(errs, &Invalid{
				Code:    CodeExtraKeyNotAllowed,
				Message: i18n.T(CodeExtraKeyNotAllowed, nil),
				Path:    kpath,
			})
		}
	}

	for _, group := range sortedGroups(groupSeen) {
		keys := groupSeen[group]
		if len(keys) > 1 {
			errs = append(errs, &Invalid{
				Code:    CodeExclusiveGroupConflict,
				Message: i18n.T(CodeExclusiveGroupConflict, map[string]string{"group": group}),
				Path:    path,
			})
		}
	}

	for _, e := range n.order {
		if !pending[e] {
			continue
		}
		kpath := extend(path, e.keyLabel)
		if e.hasDefault {
			// Defaults pass back through the value node: one that violates
			// the schema surfaces like any other validation failure.
			res, err := e.valNode.match(kpath, e.defaultFn())
			if err != nil {
				child := flattenInvalid(err)
				if child == nil {
					return nil, err
				}
				errs = append(errs, child...)
				continue
			}
			if err := setMapEntry(out, e.keyLabel, res); err != nil {
				return nil, err
			}
			continue
		}
		msg := e.message
		if msg == "" {
			msg = i18n.T(CodeRequiredKeyMissing, nil)
		}
		errs = append(errs, &Invalid{Code: CodeRequiredKeyMissing, Message: msg, Path: kpath})
	}

	if len(errs) > 0 {
		return nil, &MultipleInvalid{Errors: errs}
	}
	return out.Interface(), nil
}

// annotateValueErrors marks same-depth value failures as dictionary-value
// mismatches; deeper failures keep their own message and path.
func annotateValueErrors(errs []*Invalid, kpath Path) []*Invalid {
	out := make([]*Invalid, 0, len(errs))
	for _, e := range errs {
		if len(e.Path) > len(kpath) {
			out = append(out, e)
			continue
		}
		out = append(out, &Invalid{
			Code:    e.Code,
			Message: e.Message + " for dictionary value",
			Path:    e.Path,
			Err:     e.Err,
		})
	}
	return out
}

// sortedKeys fixes a deterministic scan order over an unordered Go map.
func sortedKeys(rv reflect.Value) []reflect.Value {
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return renderKey(keys[i].Interface()) < renderKey(keys[j].Interface())
	})
	return keys
}

func sortedGroups(m map[string][]any) []string {
	if len(m) == 0 {
		return nil
	}
	groups := make([]string, 0, len(m))
	for g := range m {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

func renderKey(k any) string { return fmt.Sprint(k) }

func comparableValue(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}

// setMapEntry writes key/val into out, converting when the map's key or
// element type demands it. A value that cannot be represented is a defect.
func setMapEntry(out reflect.Value, key, val any) error {
	kv, err := toValue(out.Type().Key(), key)
	if err != nil {
		return err
	}
	vv, err := toValue(out.Type().Elem(), val)
	if err != nil {
		return err
	}
	out.SetMapIndex(kv, vv)
	return nil
}

func toValue(rt reflect.Type, v any) (reflect.Value, error) {
	if v == nil {
		switch rt.Kind() {
		case reflect.Interface, reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			return reflect.Zero(rt), nil
		}
		return reflect.Value{}, fmt.Errorf("voluptuous: cannot use nil as %s", rt)
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(rt) {
		return rv, nil
	}
	if rv.Type().ConvertibleTo(rt) {
		return rv.Convert(rt), nil
	}
	return reflect.Value{}, fmt.Errorf("voluptuous: cannot use %T as %s", v, rt)
}
