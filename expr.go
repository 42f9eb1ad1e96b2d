// Copyright 2017 The Peggy Authors
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd.

package peggrove

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Expr is the closed set of PEG operators (spec.md §3). Every node exposes
// one real operation, evaluate, plus the bookkeeping needed by the
// validator, the action binder, and the canonical grammar-surface printer
// in string.go. Nodes are immutable after construction except for the id
// assigned by assignIDs and the silent flag set by disableErrors when a
// node is wrapped in ZeroOrMore or Optional.
type Expr interface {
	Located
	id() int
	setID(int)
	children() []Expr
	silence()
	isSilent() bool
	String() string
	evaluate(s *State) (Value, bool)
}

type base struct {
	loc    Loc
	eid    int
	silent bool
}

func (b *base) Pos() Loc       { return b.loc }
func (b *base) id() int        { return b.eid }
func (b *base) setID(n int)    { b.eid = n }
func (b *base) silence()       { b.silent = true }
func (b *base) isSilent() bool { return b.silent }

// disableErrors silences e and its entire subtree, so that a NoMatch
// anywhere beneath it never contributes to the farthest-failure trail.
// It is called once, at construction time, for the child of every
// ZeroOrMore and Optional, per spec.md §4.6's "silent expression" rule and
// the Optional resolution of the Open Question in SPEC_FULL.md §11.
func disableErrors(e Expr) {
	e.silence()
	for _, c := range e.children() {
		disableErrors(c)
	}
}

// isCharLevel reports whether e's match value is always a single matched
// rune's text, as opposed to a structured Value. ZeroOrMore/OneOrMore
// concatenate the results of a character-level child into a string rather
// than returning a list of one-character strings (spec.md §4.1).
func isCharLevel(e Expr) bool {
	switch e.(type) {
	case *CharRange, *AnyChar:
		return true
	default:
		return false
	}
}

// Literal matches an exact string, optionally case-folded.
type Literal struct {
	base
	Text       string
	IgnoreCase bool
}

// NewLiteral constructs a Literal expression.
func NewLiteral(loc Loc, text string, ignoreCase bool) *Literal {
	return &Literal{base: base{loc: loc}, Text: text, IgnoreCase: ignoreCase}
}

func (e *Literal) children() []Expr { return nil }

func (e *Literal) evaluate(s *State) (Value, bool) {
	if e.Text == "" {
		return "", true
	}
	end := s.Pos + len(e.Text)
	if end > len(s.Input) {
		s.noMatch(e)
		return nil, false
	}
	cand := s.Input[s.Pos:end]
	matched := cand == e.Text
	if !matched && e.IgnoreCase {
		matched = strings.EqualFold(cand, e.Text)
	}
	if !matched {
		s.noMatch(e)
		return nil, false
	}
	s.Pos = end
	return cand, true
}

// AnyChar matches any single rune.
type AnyChar struct{ base }

// NewAnyChar constructs an AnyChar expression.
func NewAnyChar(loc Loc) *AnyChar { return &AnyChar{base{loc: loc}} }

func (e *AnyChar) children() []Expr { return nil }

func (e *AnyChar) evaluate(s *State) (Value, bool) {
	if s.Pos >= len(s.Input) {
		s.noMatch(e)
		return nil, false
	}
	_, w := utf8.DecodeRuneInString(s.Input[s.Pos:])
	matched := s.Input[s.Pos : s.Pos+w]
	s.Pos += w
	return matched, true
}

// CharRange matches a single rune that is a member of a set of rune spans,
// as written in the grammar (e.g. [a-zA-Z0-9]). IgnoreCase folds ASCII
// letters only, per the Open Question decision in SPEC_FULL.md §11.
type CharRange struct {
	base
	Spans      [][2]rune
	IgnoreCase bool
}

// NewCharRange constructs a CharRange expression.
func NewCharRange(loc Loc, spans [][2]rune, ignoreCase bool) *CharRange {
	return &CharRange{base: base{loc: loc}, Spans: spans, IgnoreCase: ignoreCase}
}

func (e *CharRange) children() []Expr { return nil }

func (e *CharRange) member(r rune) bool {
	for _, sp := range e.Spans {
		if r >= sp[0] && r <= sp[1] {
			return true
		}
		if e.IgnoreCase {
			if f, ok := asciiSwapCase(r); ok && f >= sp[0] && f <= sp[1] {
				return true
			}
		}
	}
	return false
}

func asciiSwapCase(r rune) (rune, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return r - ('a' - 'A'), true
	case r >= 'A' && r <= 'Z':
		return r + ('a' - 'A'), true
	default:
		return r, false
	}
}

func (e *CharRange) evaluate(s *State) (Value, bool) {
	if s.Pos >= len(s.Input) {
		s.noMatch(e)
		return nil, false
	}
	r, w := utf8.DecodeRuneInString(s.Input[s.Pos:])
	if !e.member(r) {
		s.noMatch(e)
		return nil, false
	}
	matched := s.Input[s.Pos : s.Pos+w]
	s.Pos += w
	return matched, true
}

// Regex matches a compiled regular expression anchored at the cursor. The
// dialect is Go's regexp package (RE2); of the fastidious flag set
// (iLmsux) only i, m, and s map onto RE2 inline flags, per spec.md §9's
// instruction to record the chosen dialect; RE2's own U (ungreedy) flag is
// passed through as well. Other flag letters are accepted (for
// grammar-source compatibility) and ignored.
type Regex struct {
	base
	Pattern string
	Flags   string
	re      *regexp.Regexp
}

// NewRegex compiles pattern with flags and constructs a Regex expression.
func NewRegex(loc Loc, pattern, flags string) (*Regex, error) {
	var goFlags string
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's', 'U':
			goFlags += string(f)
		}
	}
	full := `\A(?:` + pattern + `)`
	if goFlags != "" {
		full = `\A(?` + goFlags + `:` + pattern + `)`
	}
	re, err := regexp.Compile(full)
	if err != nil {
		return nil, err
	}
	return &Regex{base: base{loc: loc}, Pattern: pattern, Flags: flags, re: re}, nil
}

func (e *Regex) children() []Expr { return nil }

func (e *Regex) evaluate(s *State) (Value, bool) {
	loc := e.re.FindStringIndex(s.Input[s.Pos:])
	if loc == nil {
		s.noMatch(e)
		return nil, false
	}
	matched := s.Input[s.Pos : s.Pos+loc[1]]
	s.Pos += loc[1]
	return matched, true
}

// RuleRef invokes the rule named Name. The referenced *Rule is resolved by
// the validator; evaluating an unresolved RuleRef is an InternalError
// (spec.md §7), since validation should always catch the dangling
// reference first.
type RuleRef struct {
	base
	Name string
	rule *Rule
}

// NewRuleRef constructs a RuleRef expression.
func NewRuleRef(loc Loc, name string) *RuleRef {
	return &RuleRef{base: base{loc: loc}, Name: name}
}

func (e *RuleRef) children() []Expr { return nil }

func (e *RuleRef) evaluate(s *State) (Value, bool) {
	if e.rule == nil {
		panic(internalError{"rule " + strconvQuote(e.Name) + " was not resolved by validation"})
	}
	if !s.Memoize {
		return e.rule.evaluate(s)
	}
	key := memoKey{ruleID: e.rule.eid, pos: s.Pos}
	if ent, ok := s.memo[key]; ok {
		s.Pos = ent.endPos
		return ent.value, ent.ok
	}
	v, ok := e.rule.evaluate(s)
	s.memo[key] = memoEntry{value: v, ok: ok, endPos: s.Pos}
	return v, ok
}

// Sequence matches every child expression in order; its value is the
// ordered list of child values.
type Sequence struct {
	base
	Exprs []Expr
}

// NewSequence constructs a Sequence expression.
func NewSequence(loc Loc, exprs ...Expr) *Sequence {
	return &Sequence{base: base{loc: loc}, Exprs: exprs}
}

func (e *Sequence) children() []Expr { return e.Exprs }

func (e *Sequence) evaluate(s *State) (Value, bool) {
	s.save()
	vals := make([]Value, 0, len(e.Exprs))
	for _, c := range e.Exprs {
		v, ok := c.evaluate(s)
		if !ok {
			s.restore()
			s.noMatch(e)
			return nil, false
		}
		vals = append(vals, v)
	}
	s.discard()
	return vals, true
}

// Choice matches the first child that succeeds; ordering is significant.
type Choice struct {
	base
	Exprs []Expr
}

// NewChoice constructs a Choice expression.
func NewChoice(loc Loc, exprs ...Expr) *Choice {
	return &Choice{base: base{loc: loc}, Exprs: exprs}
}

func (e *Choice) children() []Expr { return e.Exprs }

func (e *Choice) evaluate(s *State) (Value, bool) {
	s.save()
	for _, c := range e.Exprs {
		v, ok := c.evaluate(s)
		if ok {
			s.discard()
			return v, true
		}
	}
	s.restore()
	s.noMatch(e)
	return nil, false
}

// Optional matches its child, or the empty string if the child fails; it
// never itself fails. A failure from its child is silenced at
// construction (see NewOptional), per the Open Question decision in
// SPEC_FULL.md §11.
type Optional struct {
	base
	Expr Expr
}

// NewOptional constructs an Optional expression, silencing the failures
// of expr since Optional can never itself fail.
func NewOptional(loc Loc, expr Expr) *Optional {
	disableErrors(expr)
	return &Optional{base: base{loc: loc}, Expr: expr}
}

func (e *Optional) children() []Expr { return []Expr{e.Expr} }

func (e *Optional) evaluate(s *State) (Value, bool) {
	v, ok := e.Expr.evaluate(s)
	if !ok {
		return "", true
	}
	return v, true
}

// ZeroOrMore greedily matches its child zero or more times and always
// succeeds.
type ZeroOrMore struct {
	base
	Expr Expr
}

// NewZeroOrMore constructs a ZeroOrMore expression, silencing the
// failures of expr, since the final failed attempt is always expected.
func NewZeroOrMore(loc Loc, expr Expr) *ZeroOrMore {
	disableErrors(expr)
	return &ZeroOrMore{base: base{loc: loc}, Expr: expr}
}

func (e *ZeroOrMore) children() []Expr { return []Expr{e.Expr} }

func (e *ZeroOrMore) evaluate(s *State) (Value, bool) {
	var vals []Value
	for {
		v, ok := e.Expr.evaluate(s)
		if !ok {
			break
		}
		vals = append(vals, v)
	}
	if isCharLevel(e.Expr) {
		return Flatten(vals), true
	}
	if vals == nil {
		vals = []Value{}
	}
	return vals, true
}

// OneOrMore greedily matches its child one or more times; it fails if the
// child never matches.
type OneOrMore struct {
	base
	Expr Expr
}

// NewOneOrMore constructs a OneOrMore expression.
func NewOneOrMore(loc Loc, expr Expr) *OneOrMore {
	return &OneOrMore{base: base{loc: loc}, Expr: expr}
}

func (e *OneOrMore) children() []Expr { return []Expr{e.Expr} }

func (e *OneOrMore) evaluate(s *State) (Value, bool) {
	s.save()
	var vals []Value
	for {
		v, ok := e.Expr.evaluate(s)
		if !ok {
			break
		}
		vals = append(vals, v)
	}
	if len(vals) == 0 {
		s.restore()
		s.noMatch(e)
		return nil, false
	}
	s.discard()
	if isCharLevel(e.Expr) {
		return Flatten(vals), true
	}
	return vals, true
}

// Not succeeds, consuming no input, iff its child fails.
type Not struct {
	base
	Expr Expr
}

// NewNot constructs a Not expression.
func NewNot(loc Loc, expr Expr) *Not { return &Not{base: base{loc: loc}, Expr: expr} }

func (e *Not) children() []Expr { return []Expr{e.Expr} }

func (e *Not) evaluate(s *State) (Value, bool) {
	s.save()
	_, ok := e.Expr.evaluate(s)
	s.restore()
	if ok {
		s.noMatch(e)
		return nil, false
	}
	return "", true
}

// LookAhead succeeds, consuming no input, iff its child succeeds.
type LookAhead struct {
	base
	Expr Expr
}

// NewLookAhead constructs a LookAhead expression.
func NewLookAhead(loc Loc, expr Expr) *LookAhead {
	return &LookAhead{base: base{loc: loc}, Expr: expr}
}

func (e *LookAhead) children() []Expr { return []Expr{e.Expr} }

func (e *LookAhead) evaluate(s *State) (Value, bool) {
	s.save()
	_, ok := e.Expr.evaluate(s)
	s.restore()
	if !ok {
		s.noMatch(e)
		return nil, false
	}
	return "", true
}

// Labeled evaluates its child and binds the result to Label in the
// current frame of OwningRule, the rule the label lexically belongs to.
// OwningRule is backfilled by the action binder (bind.go).
type Labeled struct {
	base
	Label      string
	Expr       Expr
	OwningRule string
}

// NewLabeled constructs a Labeled expression. OwningRule is filled in
// later, by the binder, once the enclosing Rule is known.
func NewLabeled(loc Loc, label string, expr Expr) *Labeled {
	return &Labeled{base: base{loc: loc}, Label: label, Expr: expr}
}

func (e *Labeled) children() []Expr { return []Expr{e.Expr} }

func (e *Labeled) evaluate(s *State) (Value, bool) {
	v, ok := e.Expr.evaluate(s)
	s.bind(e.OwningRule, e.Label, v)
	return v, ok
}

// strconvQuote avoids importing strconv solely for one call site in a
// panic message; kept tiny and local to this file.
func strconvQuote(s string) string { return `"` + s + `"` }
