package peggrove

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDedupeRulesRecordsDuplicate(t *testing.T) {
	g, err := ParseGrammarText("", `
		a <- "x"
		a <- "y"
	`)
	require.NoError(t, err)
	require.Len(t, g.Rules, 2)

	err = dedupeRules("g", g)
	require.Error(t, err)
	errs := err.(*Errors)
	require.True(t, errs.Has(DuplicateRuleKind))
	require.Len(t, g.Rules, 1, "only the first definition survives")
	require.Equal(t, `"x"`, g.Rules[0].Expr.String())
}

func TestValidateCatchesUnknownRule(t *testing.T) {
	g, err := ParseGrammarText("", `a <- b`)
	require.NoError(t, err)
	require.NoError(t, dedupeRules("g", g))

	err = validate("g", g)
	require.Error(t, err)
	require.True(t, err.(*Errors).Has(UnknownRuleKind))
}

func TestValidateAcceptsOrdinaryRecursion(t *testing.T) {
	// "list" refers to itself, but not in leftmost position: the
	// reference follows a consumed literal, so it isn't left-recursive.
	g, err := ParseGrammarText("", `list <- "x" list / "x"`)
	require.NoError(t, err)
	require.NoError(t, dedupeRules("g", g))
	require.NoError(t, validate("g", g))
}

func TestValidateRejectsDirectLeftRecursion(t *testing.T) {
	g, err := ParseGrammarText("", `a <- a "x" / "x"`)
	require.NoError(t, err)
	require.NoError(t, dedupeRules("g", g))

	err = validate("g", g)
	require.Error(t, err)
	require.True(t, err.(*Errors).Has(LeftRecursionKind))
}

func TestValidateRejectsIndirectLeftRecursion(t *testing.T) {
	g, err := ParseGrammarText("", `
		a <- b "x"
		b <- a "y"
	`)
	require.NoError(t, err)
	require.NoError(t, dedupeRules("g", g))

	err = validate("g", g)
	require.Error(t, err)
	require.True(t, err.(*Errors).Has(LeftRecursionKind))
}

func TestValidateRejectsLeftRecursionThroughLabelAndChoice(t *testing.T) {
	g, err := ParseGrammarText("", `a <- n:(a / "x")`)
	require.NoError(t, err)
	require.NoError(t, dedupeRules("g", g))

	err = validate("g", g)
	require.Error(t, err)
	require.True(t, err.(*Errors).Has(LeftRecursionKind))
}

func TestValidateDoesNotFlagRecursionThroughOptionalOrStar(t *testing.T) {
	// a references itself only as the child of ZeroOrMore/Optional, which
	// invariant 5 explicitly excludes from the leftmost-position check.
	g, err := ParseGrammarText("", `a <- a* "x"`)
	require.NoError(t, err)
	require.NoError(t, dedupeRules("g", g))
	require.NoError(t, validate("g", g))
}
