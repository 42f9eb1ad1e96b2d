// Copyright 2017 The Peggy Authors
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd.

package peggrove

// Method is a host-provided action function, called with a rule's raw
// match value (the Value its own expression produced) and the frame of
// values captured by that rule's labelled sub-expressions.
type Method func(raw Value, bindings map[string]Value) (Value, error)

// ActionHost resolves the action identifiers a grammar's rules name in
// `{ident}` action text, or implicitly via the on_<rulename> convention,
// to concrete Method closures. Actions implements ActionHost over a
// plain map, which covers the common case of a fixed, fully-known set of
// host functions.
type ActionHost interface {
	Lookup(name string) (Method, bool)
}

// Actions is an ActionHost backed by a map, the usual way to supply a
// grammar's action functions to Build.
type Actions map[string]Method

// Lookup implements ActionHost.
func (a Actions) Lookup(name string) (Method, bool) {
	fn, ok := a[name]
	return fn, ok
}

// unresolvedMethod is the placeholder ActionSpec the metagrammar's
// on_rule action installs for a rule written with an explicit `{ident}`
// action; bind replaces it with a MethodAction once ident is resolved
// against the host, or records an ActionError if it can't be.
type unresolvedMethod struct{ Name string }

func (unresolvedMethod) isActionSpec() {}

// bind resolves every rule's action against host: an explicit `{ident}`
// action must name a function the host exposes; an explicit `@label`
// action must name a label actually bound somewhere in the rule's
// expression; a rule with no explicit action falls back to a host
// function named on_<rulename>, if one exists, and otherwise passes its
// raw match value through unchanged (spec.md §4.5). It also backfills
// OwningRule on every Labeled node, since the grammar parser that builds
// the Expr tree has no notion of "current rule" to stamp there itself.
func bind(g *Grammar, host ActionHost) error {
	errs := &Errors{}
	for _, r := range g.Rules {
		backfillOwner(r.Expr, r.Name)
		if r.opaque() {
			// A terminal/aliased rule's internals are opaque in
			// diagnostics (spec.md §4.6): silence its whole subtree so
			// no descendant's failure reaches the trail, and the rule
			// itself stands in for "expected ..." instead.
			disableErrors(r.Expr)
		}
	}
	for _, r := range g.Rules {
		resolveAction(r, host, errs)
	}
	return errs.ret()
}

func backfillOwner(e Expr, owner string) {
	if lab, ok := e.(*Labeled); ok {
		lab.OwningRule = owner
	}
	for _, c := range e.children() {
		backfillOwner(c, owner)
	}
}

func resolveAction(r *Rule, host ActionHost, errs *Errors) {
	switch a := r.Action.(type) {
	case nil:
		if host == nil {
			return
		}
		if fn, ok := host.Lookup("on_" + r.Name); ok {
			r.Action = MethodAction{Name: "on_" + r.Name, Fn: fn}
		}
	case unresolvedMethod:
		if host == nil {
			errs.add(r.Loc, ActionErrorKind, "rule %q: action %q needs a host, none was given", r.Name, a.Name)
			return
		}
		fn, ok := host.Lookup(a.Name)
		if !ok {
			errs.add(r.Loc, ActionErrorKind, "rule %q: host has no action %q", r.Name, a.Name)
			return
		}
		r.Action = MethodAction{Name: a.Name, Fn: fn}
	case CaptureAction:
		if !labelExists(r.Expr, a.Label) {
			errs.add(r.Loc, ActionErrorKind, "rule %q: action @%s names a label that is never bound", r.Name, a.Label)
		}
	}
}

func labelExists(e Expr, label string) bool {
	if lab, ok := e.(*Labeled); ok && lab.Label == label {
		return true
	}
	for _, c := range e.children() {
		if labelExists(c, label) {
			return true
		}
	}
	return false
}
