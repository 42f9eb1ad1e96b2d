// Copyright 2017 The Peggy Authors
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd.

package peggrove

import "github.com/hashicorp/go-hclog"

// State is the mutable evaluation context threaded through every evaluate
// call for a single top-level Parse: the input text, the cursor, the
// savepoint stack used for backtracking, the packrat memo table, one
// binding frame stack per rule name, and the farthest-failure trail used
// to build a diagnostic when a parse fails. A State is used for exactly
// one parse and then discarded, per spec.md §5's "cache lifetime is one
// parse" resource model.
type State struct {
	Input string
	Pos   int

	// Memoize turns packrat memoisation on (the default). It exists
	// mainly so eval_test.go can compare memoised and unmemoised runs on
	// pathological grammars without writing two evaluators.
	Memoize bool

	savepoints []int
	memo       map[memoKey]memoEntry

	frames map[string][]map[string]Value

	failPos   int
	failTrail []failEntry

	logger hclog.Logger
}

type memoKey struct {
	ruleID int
	pos    int
}

type memoEntry struct {
	value  Value
	ok     bool
	endPos int
}

// failEntry is one (position, failing node) pair in the farthest-failure
// trail. src is either an Expr or a *Rule; diagnose.go type-switches on
// the concrete type to pick a display name.
type failEntry struct {
	pos int
	src Located
}

// NewState creates an evaluation context over input, ready to evaluate
// any rule of a built Grammar.
func NewState(input string) *State {
	return &State{
		Input:   input,
		Memoize: true,
		memo:    make(map[memoKey]memoEntry),
		frames:  make(map[string][]map[string]Value),
		logger:  logger,
	}
}

func (s *State) save()    { s.savepoints = append(s.savepoints, s.Pos) }
func (s *State) discard() { s.savepoints = s.savepoints[:len(s.savepoints)-1] }
func (s *State) restore() {
	n := len(s.savepoints) - 1
	s.Pos = s.savepoints[n]
	s.savepoints = s.savepoints[:n]
}

// pushFrame opens a new binding frame for a rule invocation, pre-seeded
// with the start position under the reserved key "$loc" (no grammar
// label can ever be named "$loc", since labels are identifiers). The
// metagrammar's own actions read it to attach a Loc to the Expr/Rule
// nodes they build; ordinary host actions are free to ignore it.
func (s *State) pushFrame(rule string) {
	loc := Location(s.Input, s.Pos)
	s.frames[rule] = append(s.frames[rule], map[string]Value{"$loc": loc})
}

func (s *State) popFrame(rule string) map[string]Value {
	stk := s.frames[rule]
	top := stk[len(stk)-1]
	s.frames[rule] = stk[:len(stk)-1]
	return top
}

// bind records the value matched by a Labeled node in the current frame
// of its owning rule. A Labeled expression evaluated with no enclosing
// rule frame (only possible by calling evaluate directly on a bare
// expression in tests) has nothing to bind into and is a no-op.
func (s *State) bind(owningRule, label string, v Value) {
	stk := s.frames[owningRule]
	if len(stk) == 0 {
		return
	}
	stk[len(stk)-1][label] = v
}

// noMatch records a failed Expr at the current position, unless e was
// silenced (the child of a ZeroOrMore or Optional).
func (s *State) noMatch(e Expr) {
	if e.isSilent() {
		return
	}
	s.recordFail(s.Pos, e)
}

// noMatchRule records a failed Rule invocation at pos. Rule.evaluate
// calls it for a failed opaque rule (see Rule.opaque) with the rule's
// entry position, so the rule stands in for whichever leaf expression
// inside it actually failed, and for a CaptureAction whose label is
// unbound.
func (s *State) noMatchRule(r *Rule, pos int) {
	s.recordFail(pos, r)
}

func (s *State) recordFail(pos int, src Located) {
	switch {
	case pos > s.failPos:
		s.failPos = pos
		s.failTrail = append(s.failTrail[:0], failEntry{pos: pos, src: src})
	case pos == s.failPos:
		s.failTrail = append(s.failTrail, failEntry{pos: pos, src: src})
	}
}

// Evaluate runs rule (by name) over s starting at s.Pos, returning its
// value. It is the entry point used by Parser.Parse and by tests that
// want to exercise a single rule in isolation.
func (g *Grammar) Evaluate(s *State, ruleName string) (Value, bool) {
	r := g.Rule(ruleName)
	if r == nil {
		panic(internalError{"no such rule " + strconvQuote(ruleName)})
	}
	return r.evaluate(s)
}
