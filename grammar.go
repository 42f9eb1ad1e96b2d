// Copyright 2017 The Peggy Authors
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd.

package peggrove

// ActionSpec is the action bound to a Rule: nil (raw passthrough), a
// capture of a label's frame binding, or a host method closure. The
// grammar parser produces a CaptureAction or an unresolvedMethod that
// holds only a method identifier; bind.go replaces the latter with a
// MethodAction carrying the resolved Method closure, so eval.go never
// needs to consult the ActionHost again at evaluation time.
type ActionSpec interface {
	isActionSpec()
}

// CaptureAction returns the value bound to Label in the rule's own frame.
type CaptureAction struct {
	Label string
}

func (CaptureAction) isActionSpec() {}

// MethodAction invokes a resolved host Method with the rule's raw match
// value and its frame of captured bindings.
type MethodAction struct {
	Name string
	Fn   Method
}

func (MethodAction) isActionSpec() {}

// Rule is one named production of a Grammar: a name, the expression that
// defines it, and the action (if any) applied to a successful match.
type Rule struct {
	Name   string
	Loc    Loc
	Expr   Expr
	Action ActionSpec

	// Alias is an optional human-readable name given in the grammar
	// source (rule name "Alias" <- expr) for use in diagnostics, in
	// place of the bare rule name.
	Alias string

	// Terminal marks the rule (via a leading '`' in the grammar source)
	// as a syntactic terminal: its internals are opaque in diagnostics,
	// so a failure anywhere inside it is reported as the rule itself
	// failing to match rather than whichever leaf expression inside it
	// happened to fail. An Alias implies Terminal.
	Terminal bool

	eid int // packrat memoisation key, assigned by assignIDs
}

// opaque reports whether r's internals should be hidden from
// diagnostics in favour of the rule's own name or alias.
func (r *Rule) opaque() bool { return r.Terminal || r.Alias != "" }

// Pos implements Located.
func (r *Rule) Pos() Loc { return r.Loc }

func (r *Rule) evaluate(s *State) (Value, bool) {
	s.logger.Trace("enter rule", "rule", r.Name, "pos", s.Pos)
	s.pushFrame(r.Name)
	v, ok := r.Expr.evaluate(s)
	frame := s.popFrame(r.Name)
	s.logger.Trace("exit rule", "rule", r.Name, "ok", ok, "pos", s.Pos)
	if !ok {
		if r.opaque() {
			// The rule's own subtree is silenced (see bind.go), so
			// s.Pos here is exactly the rule's entry position: a
			// terminal/aliased rule's internals stay hidden and the
			// rule itself stands in for "expected ..." at the point
			// it was attempted, not wherever inside it broke.
			s.noMatchRule(r, s.Pos)
		}
		return nil, false
	}
	switch a := r.Action.(type) {
	case nil:
		return v, true
	case CaptureAction:
		fv, present := frame[a.Label]
		if !present {
			s.noMatchRule(r, s.Pos)
			return nil, false
		}
		return fv, true
	case MethodAction:
		rv, err := a.Fn(v, frame)
		if err != nil {
			panic(internalError{"action " + strconvQuote(a.Name) + ": " + err.Error()})
		}
		return rv, true
	default:
		panic(internalError{"rule " + strconvQuote(r.Name) + " has an unrecognised action spec"})
	}
}

// Grammar is a parsed, validated, and bound set of rules, ready to drive
// an evaluation. Rules preserves declaration order, which matters for
// diagnostics (spec.md §6) and for the canonical String form.
type Grammar struct {
	Rules []*Rule

	byName map[string]*Rule
}

// Rule looks up a rule by name.
func (g *Grammar) Rule(name string) *Rule {
	if g.byName == nil {
		g.index()
	}
	return g.byName[name]
}

func (g *Grammar) index() {
	g.byName = make(map[string]*Rule, len(g.Rules))
	for _, r := range g.Rules {
		g.byName[r.Name] = r
	}
}

// assignIDs gives every Rule and every Expr node beneath it a unique,
// stable integer id. Rule ids are the packrat memoisation key; the
// farthest-failure trail records the failing node itself, not its id.
func (g *Grammar) assignIDs() {
	next := 0
	var walk func(e Expr)
	walk = func(e Expr) {
		e.setID(next)
		next++
		for _, c := range e.children() {
			walk(c)
		}
	}
	for _, r := range g.Rules {
		r.eid = next
		next++
		walk(r.Expr)
	}
}
