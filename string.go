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

// String renders e in the grammar's own surface syntax. It is the
// canonical form used by the round-trip test in expr_test.go and by
// cmd/peggrove's -print flag; reparsing the output of String is expected
// to reconstruct an equivalent tree (spec.md §8's round-trip property).

func (e *Literal) String() string {
	s := quoteLiteral(e.Text)
	if e.IgnoreCase {
		s += "i"
	}
	return s
}

func (e *AnyChar) String() string { return "." }

func (e *CharRange) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for _, sp := range e.Spans {
		if sp[0] == sp[1] {
			b.WriteString(quoteClassChar(sp[0]))
		} else {
			b.WriteString(quoteClassChar(sp[0]))
			b.WriteByte('-')
			b.WriteString(quoteClassChar(sp[1]))
		}
	}
	b.WriteByte(']')
	if e.IgnoreCase {
		b.WriteByte('i')
	}
	return b.String()
}

func (e *Regex) String() string {
	return "~" + quoteLiteral(e.Pattern) + e.Flags
}

func (e *RuleRef) String() string { return e.Name }

func (e *Sequence) String() string {
	parts := make([]string, len(e.Exprs))
	for i, c := range e.Exprs {
		parts[i] = wrapInSequence(c)
	}
	return strings.Join(parts, " ")
}

func (e *Choice) String() string {
	parts := make([]string, len(e.Exprs))
	for i, c := range e.Exprs {
		parts[i] = wrapChoiceAlt(c)
	}
	return strings.Join(parts, " / ")
}

func (e *Optional) String() string { return wrapOperand(e.Expr) + "?" }

func (e *ZeroOrMore) String() string { return wrapOperand(e.Expr) + "*" }

func (e *OneOrMore) String() string { return wrapOperand(e.Expr) + "+" }

func (e *Not) String() string { return "!" + wrapOperand(e.Expr) }

func (e *LookAhead) String() string { return "&" + wrapOperand(e.Expr) }

func (e *Labeled) String() string { return e.Label + ":" + wrapOperand(e.Expr) }

// wrapInSequence parenthesizes a Sequence child that would otherwise be
// read as spanning past the end of the sequence: only a Choice binds
// looser than juxtaposition.
func wrapInSequence(e Expr) string {
	if _, ok := e.(*Choice); ok {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// wrapChoiceAlt parenthesizes a Choice alternative that is itself a
// Choice, preserving an explicitly-grouped nested alternation rather than
// flattening it into the outer one.
func wrapChoiceAlt(e Expr) string {
	if _, ok := e.(*Choice); ok {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// wrapOperand parenthesizes the operand of a prefix (!, &) or suffix (?,
// *, +) operator, or the right side of a label, whenever that operand is
// not already a single primary expression.
func wrapOperand(e Expr) string {
	switch e.(type) {
	case *Choice, *Sequence, *Labeled:
		return "(" + e.String() + ")"
	default:
		return e.String()
	}
}

func quoteLiteral(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\v':
			b.WriteString(`\v`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func quoteClassChar(r rune) string {
	switch r {
	case ']':
		return `\]`
	case '\\':
		return `\\`
	case '-':
		return `\-`
	case '\a':
		return `\a`
	case '\b':
		return `\b`
	case '\f':
		return `\f`
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	case '\v':
		return `\v`
	default:
		return string(r)
	}
}

// String renders r as "name <- expr", followed by its action text, if any,
// preceded by its terminal marker and alias when set.
func (r *Rule) String() string {
	s := ""
	if r.Terminal {
		s += "`"
	}
	s += r.Name
	if r.Alias != "" {
		s += " " + quoteLiteral(r.Alias)
	}
	s += " <- " + r.Expr.String()
	switch a := r.Action.(type) {
	case CaptureAction:
		s += " @" + a.Label
	case unresolvedMethod:
		s += " {" + a.Name + "}"
	case MethodAction:
		s += " {" + a.Name + "}"
	}
	return s
}

// String renders every rule of g, in declaration order, one per line
// pair.
func (g *Grammar) String() string {
	var b strings.Builder
	for i, r := range g.Rules {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprint(&b, r.String())
	}
	return b.String()
}
