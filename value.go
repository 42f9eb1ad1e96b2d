package peggrove

import "strings"

// Value is the semantic value produced by matching an Expr or by a host
// action: a string, a []Value, an int64, a float64, a bool, nil, or a
// map[string]Value. It is intentionally just interface{} under the hood —
// PEG actions are free to return any concrete Go type; Value only names
// the shape that the example grammars (calculator, JSON) need, per the
// design note in SPEC_FULL.md §3.
type Value = interface{}

// noMatch is a value distinct from every legitimate Value, including the
// empty string and the empty list. evaluate does not return it: a failed
// evaluate returns a nil Value with ok=false, and callers check ok rather
// than the returned value.
type noMatchType struct{}

var noMatch = noMatchType{}

// Flatten joins a Sequence's or repetition's list-shaped Value into a
// single string, recursively concatenating nested lists. Strings are
// returned unchanged. This is the Go equivalent of fastidious's p_flatten
// action helper (parser_base.py): the engine does not apply it
// automatically to Sequence results (those stay ordered lists, per
// spec.md §3/§4.1), but actions that want a flat string call it
// explicitly, exactly as fastidious grammars do with "{p_flatten}".
func Flatten(v Value) string {
	switch t := v.(type) {
	case string:
		return t
	case []Value:
		var b strings.Builder
		for _, e := range t {
			b.WriteString(Flatten(e))
		}
		return b.String()
	case nil:
		return ""
	default:
		return ""
	}
}
