// Copyright 2017 The Peggy Authors
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd.

package peggrove

import "sync"

// This file hand-builds, via this package's own Expr/Rule constructors,
// the PEG expression tree for the PEG meta-grammar itself — the grammar
// that describes grammar source text. This is the required self-hosting
// property of spec.md §1/§8: the engine's own grammar parser is not a
// separately generated parser bolted on the side, it is one more
// evaluation run of exactly the same Expr/Rule/evaluate machinery every
// other grammar built with Build uses. It is ported from fastidious's
// hand-built bootstrap (bootstrap.py's __rules__), with parser.py's later
// addition of a regexp_expr primary folded in, and simplified where
// fastidious's version carries concerns (rule templates, indentation
// tracking inside the grammar itself) this package's grammar syntax does
// not have.

func seq(exprs ...Expr) *Sequence   { return NewSequence(Loc{}, exprs...) }
func choice(exprs ...Expr) *Choice  { return NewChoice(Loc{}, exprs...) }
func lit(s string) *Literal         { return NewLiteral(Loc{}, s, false) }
func ref(name string) *RuleRef      { return NewRuleRef(Loc{}, name) }
func label(name string, e Expr) *Labeled { return NewLabeled(Loc{}, name, e) }
func opt(e Expr) *Optional          { return NewOptional(Loc{}, e) }
func star(e Expr) *ZeroOrMore       { return NewZeroOrMore(Loc{}, e) }
func plus(e Expr) *OneOrMore        { return NewOneOrMore(Loc{}, e) }
func not(e Expr) *Not               { return NewNot(Loc{}, e) }
func anyChar() *AnyChar             { return NewAnyChar(Loc{}) }
func charRange(spans ...[2]rune) *CharRange { return NewCharRange(Loc{}, spans, false) }

func span(lo, hi rune) [2]rune { return [2]rune{lo, hi} }

func withAction(name string, fn Method) ActionSpec { return MethodAction{Name: name, Fn: fn} }

var (
	bootstrapOnce sync.Once
	bootstrap     *Grammar
)

// bootstrapGrammar returns the built, validated, memoisation-ready
// meta-grammar, computed once and reused by every call to
// ParseGrammarText.
func bootstrapGrammar() *Grammar {
	bootstrapOnce.Do(func() {
		g := &Grammar{Rules: bootstrapRules()}
		for _, r := range g.Rules {
			backfillOwner(r.Expr, r.Name)
		}
		if err := validate("<bootstrap>", g); err != nil {
			panic(internalError{"bootstrap grammar failed to validate: " + err.Error()})
		}
		g.assignIDs()
		bootstrap = g
	})
	return bootstrap
}

func bootstrapRules() []*Rule {
	whitespace := charRange(span(' ', ' '), span('\t', '\t'), span('\n', '\n'), span('\r', '\r'))

	return []*Rule{
		{Name: "grammar", Expr: seq(
			ref("_"),
			label("rules", plus(seq(ref("rule"), ref("_")))),
		), Action: withAction("onGrammar", onGrammar)},

		{Name: "rule", Expr: seq(
			label("term", opt(lit("`"))),
			label("name", ref("identifier")), ref("_"),
			label("alias", opt(ref("string_literal"))), ref("_"),
			lit("<-"), ref("_"),
			label("e", ref("expression")),
			label("act", opt(seq(ref("_"), ref("action")))),
		), Action: withAction("onRule", onRule)},

		{Name: "action", Expr: choice(
			seq(lit("@"), label("lbl", ref("identifier"))),
			seq(lit("{"), ref("_"), label("name", ref("identifier")), ref("_"), lit("}")),
		), Action: withAction("onAction", onAction)},

		{Name: "expression", Expr: ref("choice_expr")},

		{Name: "choice_expr", Expr: seq(
			label("first", ref("seq_expr")),
			label("rest", star(seq(ref("_"), lit("/"), ref("_"), ref("seq_expr")))),
		), Action: withAction("onChoiceExpr", onChoiceExpr)},

		{Name: "seq_expr", Expr: seq(
			label("first", ref("labeled_expr")),
			label("rest", star(seq(ref("_"), ref("labeled_expr")))),
		), Action: withAction("onSeqExpr", onSeqExpr)},

		{Name: "labeled_expr", Expr: seq(
			label("lbl", opt(seq(ref("identifier"), lit(":")))),
			label("e", ref("prefixed_expr")),
		), Action: withAction("onLabeledExpr", onLabeledExpr)},

		{Name: "prefix", Expr: choice(lit("&"), lit("!"))},

		{Name: "prefixed_expr", Expr: seq(
			label("p", opt(ref("prefix"))),
			label("e", ref("suffixed_expr")),
		), Action: withAction("onPrefixedExpr", onPrefixedExpr)},

		{Name: "suffix", Expr: choice(lit("?"), lit("*"), lit("+"))},

		{Name: "suffixed_expr", Expr: seq(
			label("e", ref("primary_expr")),
			label("s", opt(ref("suffix"))),
		), Action: withAction("onSuffixedExpr", onSuffixedExpr)},

		{Name: "primary_expr", Expr: choice(
			ref("lit_expr"),
			ref("char_range_expr"),
			ref("regexp_expr"),
			ref("any_char_expr"),
			ref("sub_expr"),
			ref("rule_expr"),
		)},

		{Name: "rule_expr", Expr: seq(
			label("name", ref("identifier")),
			not(seq(ref("_"), opt(seq(ref("string_literal"), ref("_"))), lit("<-"))),
		), Action: withAction("onRuleExpr", onRuleExpr)},

		{Name: "sub_expr", Expr: seq(
			lit("("), ref("_"), label("e", ref("expression")), ref("_"), lit(")"),
		), Action: withAction("onSubExpr", onSubExpr)},

		{Name: "any_char_expr", Expr: lit("."), Action: withAction("onAnyCharExpr", onAnyCharExpr)},

		{Name: "regexp_expr", Expr: seq(
			lit("~"),
			label("pat", ref("string_literal")),
			label("flags", star(charRange(span('a', 'z'), span('A', 'Z')))),
		), Action: withAction("onRegexpExpr", onRegexpExpr)},

		{Name: "char_range_expr", Expr: seq(
			lit("["),
			label("ranges", star(ref("class_char_range"))),
			lit("]"),
			label("ic", opt(lit("i"))),
		), Action: withAction("onCharRangeExpr", onCharRangeExpr)},

		{Name: "class_char_range", Expr: choice(
			seq(label("lo", ref("class_char")), lit("-"), label("hi", ref("class_char"))),
			label("c", ref("class_char")),
		), Action: withAction("onClassCharRange", onClassCharRange)},

		{Name: "class_char", Expr: choice(
			seq(not(choice(lit("]"), lit("\\"))), anyChar()),
			seq(lit("\\"), ref("char_class_escape")),
		), Action: withAction("onSecond", onSecond)},

		{Name: "char_class_escape", Expr: choice(
			lit("]"), lit("\\"), lit("-"),
			lit("a"), lit("b"), lit("f"), lit("n"), lit("r"), lit("t"), lit("v"),
		), Action: withAction("onCommonEscape", onCommonEscape)},

		{Name: "lit_expr", Expr: seq(
			label("lit", ref("string_literal")),
			label("ic", opt(lit("i"))),
		), Action: withAction("onLitExpr", onLitExpr)},

		{Name: "string_literal", Expr: choice(
			seq(lit(`"`), label("chars", star(ref("double_string_char"))), lit(`"`)),
			seq(lit("'"), label("chars", star(ref("single_string_char"))), lit("'")),
		), Action: withAction("onStringLiteral", onStringLiteral)},

		{Name: "double_string_char", Expr: choice(
			seq(not(choice(lit(`"`), lit("\\"))), anyChar()),
			seq(lit("\\"), ref("common_escape")),
		), Action: withAction("onSecond", onSecond)},

		{Name: "single_string_char", Expr: choice(
			seq(not(choice(lit("'"), lit("\\"))), anyChar()),
			seq(lit("\\"), ref("common_escape")),
		), Action: withAction("onSecond", onSecond)},

		{Name: "common_escape", Expr: choice(
			lit("\\"), lit("'"), lit(`"`),
			lit("a"), lit("b"), lit("f"), lit("n"), lit("r"), lit("t"), lit("v"),
		), Action: withAction("onCommonEscape", onCommonEscape)},

		{Name: "identifier", Expr: seq(
			ref("identifier_start"), star(ref("identifier_part")),
		), Action: withAction("onIdentifier", onIdentifier)},

		{Name: "identifier_start", Expr: charRange(span('a', 'z'), span('A', 'Z'), span('_', '_'))},

		{Name: "identifier_part", Expr: charRange(span('a', 'z'), span('A', 'Z'), span('0', '9'), span('_', '_'))},

		{Name: "comment", Expr: seq(
			lit("#"), star(seq(not(ref("EOL")), anyChar())), opt(ref("EOL")),
		)},

		{Name: "EOL", Expr: choice(lit("\r\n"), lit("\n"), lit("\r"))},

		{Name: "_", Expr: star(choice(whitespace, ref("comment")))},
	}
}
