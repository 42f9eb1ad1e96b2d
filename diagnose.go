// Copyright 2017 The Peggy Authors
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd.

package peggrove

import (
	"fmt"
	"strings"
)

// SyntaxDiagnostic is the "expected one of ..." error Parse returns when a
// grammar's entry rule fails to match, built from the farthest-failure
// trail the evaluator accumulated (spec.md §4.6/§6). Its Error text is the
// stable, user-facing format of spec.md §6: a "Syntax error at line L, col
// C:" header, the offending source line with a caret under the failure
// column, and a "Got `...` expected ..." summary, mirroring fastidious's
// p_syntax_error/p_pretty_pos.
type SyntaxDiagnostic struct {
	FilePath string
	Pos      Loc
	Expected []string
	Line     string
	Caret    string
	Got      string
}

func (d *SyntaxDiagnostic) Error() string {
	var b strings.Builder
	if d.FilePath != "" {
		fmt.Fprintf(&b, "%s: ", d.FilePath)
	}
	fmt.Fprintf(&b, "Syntax error at line %d, col %d:\n\n", d.Pos.Line, d.Pos.Column)
	b.WriteString(d.Line)
	b.WriteByte('\n')
	b.WriteString(d.Caret)
	b.WriteString("\n\n")
	expected := "nothing"
	if len(d.Expected) > 0 {
		expected = strings.Join(d.Expected, " or ")
	}
	fmt.Fprintf(&b, "Got `%s` expected %s", d.Got, expected)
	return b.String()
}

// diagnose turns the farthest-failure trail accumulated by s into a
// SyntaxDiagnostic. It runs a two-pass selection over the trail, exactly
// the shape peg/fail.go's LeafFails/DedupFails use: first it looks for
// named expressions (a rule or a reference to one, which read far better
// in a diagnostic than the terminal that happened to fail inside them);
// only if none of the farthest failures carry a name does it fall back to
// the terminal expressions themselves (literals, character classes,
// regexes, any-char), skipping the compound Sequence/Choice nodes that
// also get recorded on the way down but never make a useful diagnostic on
// their own.
func diagnose(file, input string, s *State) *SyntaxDiagnostic {
	loc := Location(input, s.failPos)
	expected := collect(s.failTrail, displayName)
	if len(expected) == 0 {
		expected = collect(s.failTrail, displayLeaf)
	}
	line, caret := LineAndCaret(input, loc)
	got := GotText(input, loc, 10)
	return &SyntaxDiagnostic{
		FilePath: file,
		Pos:      loc,
		Expected: expected,
		Line:     line,
		Caret:    caret,
		Got:      got,
	}
}

func collect(trail []failEntry, display func(Located) (string, bool)) []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range trail {
		name, ok := display(f.src)
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// displayName reports a failing node's name, if it has one worth
// preferring in a diagnostic: a rule, or a reference to one.
func displayName(src Located) (string, bool) {
	switch t := src.(type) {
	case *Rule:
		if t.Alias != "" {
			return t.Alias, true
		}
		return t.Name, true
	case *RuleRef:
		if t.rule != nil && t.rule.Alias != "" {
			return t.rule.Alias, true
		}
		return t.Name, true
	default:
		return "", false
	}
}

// displayLeaf reports a failing terminal's own surface text, for when no
// named alternative is available.
func displayLeaf(src Located) (string, bool) {
	switch t := src.(type) {
	case *Literal:
		return t.String(), true
	case *AnyChar:
		return "any character", true
	case *CharRange:
		return t.String(), true
	case *Regex:
		return t.String(), true
	case *RuleRef:
		return t.Name, true
	case *Rule:
		return t.Name, true
	default:
		return "", false
	}
}
