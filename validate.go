// Copyright 2017 The Peggy Authors
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd.

package peggrove

// validate runs the two build-time checks spec.md §4.4 requires before a
// Grammar may be evaluated: every RuleRef names a rule that exists
// (resolving ref.rule as a side effect), and no rule is left-recursive.
// Duplicate rule names are caught earlier, while the Grammar is being
// assembled from the parse tree (see dedupeRules).
func validate(file string, g *Grammar) error {
	errs := &Errors{File: file}

	for _, r := range g.Rules {
		resolveRefs(r.Expr, g, errs)
	}
	if err := errs.ret(); err != nil {
		return err
	}

	checkLeftRecursion(g, errs)
	return errs.ret()
}

// dedupeRules drops later rules that redefine an earlier rule's name,
// recording a DuplicateRule error for each, and indexes the survivors.
func dedupeRules(file string, g *Grammar) error {
	errs := &Errors{File: file}
	seen := make(map[string]*Rule, len(g.Rules))
	kept := g.Rules[:0]
	for _, r := range g.Rules {
		if prev, ok := seen[r.Name]; ok {
			errs.add(r.Loc, DuplicateRuleKind, "rule %q redefined (first defined at %d.%d)", r.Name, prev.Loc.Line, prev.Loc.Column)
			continue
		}
		seen[r.Name] = r
		kept = append(kept, r)
	}
	g.Rules = kept
	g.index()
	return errs.ret()
}

func resolveRefs(e Expr, g *Grammar, errs *Errors) {
	if ref, ok := e.(*RuleRef); ok {
		target := g.Rule(ref.Name)
		if target == nil {
			errs.add(ref.loc, UnknownRuleKind, "undefined rule %q", ref.Name)
			return
		}
		ref.rule = target
	}
	for _, c := range e.children() {
		resolveRefs(c, g, errs)
	}
}

// checkLeftRecursion rejects any rule reachable from itself through a
// chain of leftmost positions (invariant 5 of spec.md §3): a Sequence's
// first child, every child of a Choice, a Labeled's child, and rule
// references followed transitively. The children of Optional, ZeroOrMore,
// OneOrMore, Not, and LookAhead are not followed, so recursion that
// passes only through one of them is not reported.
func checkLeftRecursion(g *Grammar, errs *Errors) {
	direct := make(map[string]map[string]bool, len(g.Rules))
	for _, r := range g.Rules {
		set := make(map[string]bool)
		leftmostRuleRefs(r.Expr, set)
		direct[r.Name] = set
	}
	for _, r := range g.Rules {
		if reaches(direct, r.Name, r.Name, make(map[string]bool)) {
			errs.add(r.Loc, LeftRecursionKind, "rule %q is left-recursive", r.Name)
		}
	}
}

func leftmostRuleRefs(e Expr, out map[string]bool) {
	switch n := e.(type) {
	case *RuleRef:
		out[n.Name] = true
	case *Sequence:
		if len(n.Exprs) > 0 {
			leftmostRuleRefs(n.Exprs[0], out)
		}
	case *Choice:
		for _, c := range n.Exprs {
			leftmostRuleRefs(c, out)
		}
	case *Labeled:
		leftmostRuleRefs(n.Expr, out)
	}
}

// reaches reports whether target is reachable from start by following one
// or more edges of direct, i.e. whether start's leftmost-reference chain
// eventually loops back to target.
func reaches(direct map[string]map[string]bool, start, target string, visited map[string]bool) bool {
	for next := range direct[start] {
		if next == target {
			return true
		}
		if visited[next] {
			continue
		}
		visited[next] = true
		if reaches(direct, next, target, visited) {
			return true
		}
	}
	return false
}
