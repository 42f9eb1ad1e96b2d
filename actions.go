// Copyright 2017 The Peggy Authors
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd.

package peggrove

// This file holds the host functions wired directly into the bootstrap
// grammar built in bootstrap.go: the actions that turn a parse of PEG
// grammar text into this package's own Grammar/Rule/Expr values. They
// are ordinary Methods (spec.md §4.5), the same shape a host grammar like
// a calculator or a JSON reader would supply via an Actions map — the
// only difference is that the bootstrap wires them in directly as
// resolved MethodActions rather than through Build's host lookup, since
// the bootstrap grammar is fixed and never needs a separate host.
//
// Each function's name mirrors the fastidious on_<rulename> convention
// (parser_base.py's _FastidiousParserMixin) this package's meta-grammar
// handling is ported from.

func frameLoc(frame map[string]Value) Loc {
	loc, _ := frame["$loc"].(Loc)
	return loc
}

// onIdentifier joins an identifier_start match and the identifier_part*
// match into the full identifier text.
func onIdentifier(raw Value, _ map[string]Value) (Value, error) {
	return Flatten(raw), nil
}

// onSecond returns the second element of a two-element Sequence value,
// the shared shape of double_string_char, single_string_char, and
// class_char: either "(not the terminator) any char" or "backslash
// escape", both of which carry the decoded character in position 1.
func onSecond(raw Value, _ map[string]Value) (Value, error) {
	vals, _ := raw.([]Value)
	if len(vals) != 2 {
		return "", nil
	}
	return vals[1], nil
}

// onCommonEscape decodes a one-letter escape sequence shared by string
// and character-class literals. Escapes this package doesn't special-case
// (\\, ', ", ], -) stand for themselves.
func onCommonEscape(raw Value, _ map[string]Value) (Value, error) {
	s, _ := raw.(string)
	switch s {
	case "a":
		return "\a", nil
	case "b":
		return "\b", nil
	case "f":
		return "\f", nil
	case "n":
		return "\n", nil
	case "r":
		return "\r", nil
	case "t":
		return "\t", nil
	case "v":
		return "\v", nil
	default:
		return s, nil
	}
}

// onStringLiteral assembles a quoted string literal's decoded characters
// into the literal's actual text.
func onStringLiteral(_ Value, frame map[string]Value) (Value, error) {
	return Flatten(frame["chars"]), nil
}

// onLitExpr builds a Literal node from a string_literal and an optional
// trailing case-fold marker.
func onLitExpr(_ Value, frame map[string]Value) (Value, error) {
	text, _ := frame["lit"].(string)
	ic, _ := frame["ic"].(string)
	return NewLiteral(frameLoc(frame), text, ic == "i"), nil
}

// onClassCharRange builds one rune span of a character class: either a
// lo-hi range or a single character repeated as both ends.
func onClassCharRange(_ Value, frame map[string]Value) (Value, error) {
	// A failed lo-hi attempt can leave "lo" bound before the single
	// character alternative matches; "hi", bound last, tells them apart.
	if hi, ok := frame["hi"].(string); ok {
		loR := []rune(frame["lo"].(string))[0]
		hiR := []rune(hi)[0]
		return [2]rune{loR, hiR}, nil
	}
	c := []rune(frame["c"].(string))[0]
	return [2]rune{c, c}, nil
}

// onCharRangeExpr builds a CharRange node from its collected spans and an
// optional trailing case-fold marker.
func onCharRangeExpr(_ Value, frame map[string]Value) (Value, error) {
	rawRanges, _ := frame["ranges"].([]Value)
	spans := make([][2]rune, 0, len(rawRanges))
	for _, rv := range rawRanges {
		spans = append(spans, rv.([2]rune))
	}
	ic, _ := frame["ic"].(string)
	return NewCharRange(frameLoc(frame), spans, ic == "i"), nil
}

// onRegexpExpr builds a Regex node from "~" string_literal flags.
func onRegexpExpr(_ Value, frame map[string]Value) (Value, error) {
	pat, _ := frame["pat"].(string)
	flags, _ := frame["flags"].(string)
	return NewRegex(frameLoc(frame), pat, flags)
}

// onAnyCharExpr builds an AnyChar node from a matched ".".
func onAnyCharExpr(_ Value, frame map[string]Value) (Value, error) {
	return NewAnyChar(frameLoc(frame)), nil
}

// onRuleExpr builds a RuleRef node from an identifier used as an
// expression, one not followed by the "<-" that starts the next rule.
func onRuleExpr(_ Value, frame map[string]Value) (Value, error) {
	name, _ := frame["name"].(string)
	return NewRuleRef(frameLoc(frame), name), nil
}

// onSubExpr unwraps a parenthesized expression; the parens are pure
// grouping and leave no trace in the tree.
func onSubExpr(_ Value, frame map[string]Value) (Value, error) {
	return frame["e"], nil
}

// onSuffixedExpr applies an optional trailing ?, *, or + to a primary
// expression.
func onSuffixedExpr(_ Value, frame map[string]Value) (Value, error) {
	e := frame["e"].(Expr)
	suf, _ := frame["s"].(string)
	switch suf {
	case "?":
		return NewOptional(e.Pos(), e), nil
	case "*":
		return NewZeroOrMore(e.Pos(), e), nil
	case "+":
		return NewOneOrMore(e.Pos(), e), nil
	default:
		return e, nil
	}
}

// onPrefixedExpr applies an optional leading & or ! to a suffixed
// expression.
func onPrefixedExpr(_ Value, frame map[string]Value) (Value, error) {
	e := frame["e"].(Expr)
	pre, _ := frame["p"].(string)
	switch pre {
	case "!":
		return NewNot(e.Pos(), e), nil
	case "&":
		return NewLookAhead(e.Pos(), e), nil
	default:
		return e, nil
	}
}

// onLabeledExpr attaches an optional leading "name:" label to a prefixed
// expression, producing a Labeled node only when a label was actually
// written.
func onLabeledExpr(_ Value, frame map[string]Value) (Value, error) {
	e := frame["e"].(Expr)
	if pair, ok := frame["lbl"].([]Value); ok {
		name, _ := pair[0].(string)
		return NewLabeled(e.Pos(), name, e), nil
	}
	return e, nil
}

// onSeqExpr folds a labeled_expr followed by zero or more (skip
// labeled_expr) pairs into a single Sequence, or returns the lone
// expression unwrapped when there was only one.
func onSeqExpr(_ Value, frame map[string]Value) (Value, error) {
	first := frame["first"].(Expr)
	rest, _ := frame["rest"].([]Value)
	if len(rest) == 0 {
		return first, nil
	}
	exprs := make([]Expr, 0, len(rest)+1)
	exprs = append(exprs, first)
	for _, rv := range rest {
		pair := rv.([]Value)
		exprs = append(exprs, pair[1].(Expr))
	}
	return NewSequence(first.Pos(), exprs...), nil
}

// onChoiceExpr folds a seq_expr followed by zero or more ("/" seq_expr)
// alternatives into a single Choice, or returns the lone alternative
// unwrapped when there was only one.
func onChoiceExpr(_ Value, frame map[string]Value) (Value, error) {
	first := frame["first"].(Expr)
	rest, _ := frame["rest"].([]Value)
	if len(rest) == 0 {
		return first, nil
	}
	exprs := make([]Expr, 0, len(rest)+1)
	exprs = append(exprs, first)
	for _, rv := range rest {
		tuple := rv.([]Value)
		exprs = append(exprs, tuple[3].(Expr))
	}
	return NewChoice(first.Pos(), exprs...), nil
}

// onAction builds the ActionSpec for "@label" or "{ident}" action text.
func onAction(_ Value, frame map[string]Value) (Value, error) {
	if lbl, ok := frame["lbl"]; ok {
		return CaptureAction{Label: lbl.(string)}, nil
	}
	return unresolvedMethod{Name: frame["name"].(string)}, nil
}

// onRule builds a *Rule from a rule definition: its optional leading
// terminal marker, name, optional quoted alias, defining expression, and
// optional action.
func onRule(_ Value, frame map[string]Value) (Value, error) {
	name, _ := frame["name"].(string)
	alias, _ := frame["alias"].(string)
	term, _ := frame["term"].(string)
	terminal := term == "`"
	e := frame["e"].(Expr)
	var act ActionSpec
	if av, ok := frame["act"].([]Value); ok && len(av) == 2 {
		act, _ = av[1].(ActionSpec)
	}
	return &Rule{Name: name, Loc: frameLoc(frame), Expr: e, Action: act, Alias: alias, Terminal: terminal}, nil
}

// onGrammar collects every parsed rule into a *Grammar.
func onGrammar(_ Value, frame map[string]Value) (Value, error) {
	rawRules, _ := frame["rules"].([]Value)
	rules := make([]*Rule, 0, len(rawRules))
	for _, rv := range rawRules {
		pair := rv.([]Value)
		rules = append(rules, pair[0].(*Rule))
	}
	return &Grammar{Rules: rules}, nil
}
