package peggrove

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildCountingGrammar builds a grammar whose "digit" rule action counts
// its calls, so tests can tell a memo hit from a fresh evaluation.
func buildCountingGrammar(t *testing.T) (*Grammar, *int) {
	t.Helper()
	calls := 0
	g := &Grammar{Rules: []*Rule{
		{Name: "digit", Expr: NewCharRange(Loc{}, [][2]rune{{'0', '9'}}, false),
			Action: MethodAction{Name: "count", Fn: func(raw Value, _ map[string]Value) (Value, error) {
				calls++
				return raw, nil
			}}},
		{Name: "two", Expr: NewSequence(Loc{}, NewRuleRef(Loc{}, "digit"), NewRuleRef(Loc{}, "digit"))},
	}}
	require.NoError(t, validate("g", g))
	g.assignIDs()
	return g, &calls
}

func TestMemoizationAvoidsReevaluation(t *testing.T) {
	g, calls := buildCountingGrammar(t)

	// Force two attempts to evaluate "digit" at the same position: wrap
	// "two" inside a Choice whose first alternative fails after consuming
	// one digit, so the engine backtracks and retries from position 0.
	retry := &Grammar{Rules: append(append([]*Rule{}, g.Rules...), &Rule{
		Name: "retry",
		Expr: NewChoice(Loc{},
			NewSequence(Loc{}, NewRuleRef(Loc{}, "digit"), NewLiteral(Loc{}, "zzz", false)),
			NewRuleRef(Loc{}, "two"),
		),
	})}
	require.NoError(t, validate("g", retry))
	retry.assignIDs()

	s := NewState("12")
	_, ok := retry.Evaluate(s, "retry")
	require.True(t, ok)
	require.Equal(t, 2, *calls, "digit must be memoised at position 0 across the backtrack")
}

func TestMemoizeFalseReevaluatesEveryTime(t *testing.T) {
	g, calls := buildCountingGrammar(t)
	retry := &Grammar{Rules: append(append([]*Rule{}, g.Rules...), &Rule{
		Name: "retry",
		Expr: NewChoice(Loc{},
			NewSequence(Loc{}, NewRuleRef(Loc{}, "digit"), NewLiteral(Loc{}, "zzz", false)),
			NewRuleRef(Loc{}, "two"),
		),
	})}
	require.NoError(t, validate("g", retry))
	retry.assignIDs()

	s := NewState("12")
	s.Memoize = false
	_, ok := retry.Evaluate(s, "retry")
	require.True(t, ok)
	require.Equal(t, 3, *calls, "without memoisation, digit at position 0 runs once per attempt")
}

func TestSavepointsUnwindOnFailedChoice(t *testing.T) {
	c := NewChoice(Loc{},
		NewSequence(Loc{}, NewLiteral(Loc{}, "a", false), NewLiteral(Loc{}, "zzz", false)),
		NewLiteral(Loc{}, "ab", false),
	)
	s := NewState("ab")
	v, ok := c.evaluate(s)
	require.True(t, ok)
	require.Equal(t, "ab", v)
	require.Equal(t, 0, len(s.savepoints), "every save must be matched by a discard or restore")
}

func TestFarthestFailureTrailKeepsOnlyTheDeepestPosition(t *testing.T) {
	c := NewChoice(Loc{},
		NewSequence(Loc{}, NewLiteral(Loc{}, "a", false), NewLiteral(Loc{}, "b", false), NewLiteral(Loc{}, "c", false)),
		NewSequence(Loc{}, NewLiteral(Loc{}, "a", false), NewLiteral(Loc{}, "x", false)),
	)
	s := NewState("aby")
	_, ok := c.evaluate(s)
	require.False(t, ok)
	require.Equal(t, 2, s.failPos, `the "c" branch gets furthest (consumes "ab") before failing`)
	for _, f := range s.failTrail {
		require.Equal(t, 2, f.pos)
	}
}

func TestBindingFramesAreStackedPerRule(t *testing.T) {
	s := NewState("xy")
	s.pushFrame("r")
	s.bind("r", "a", "1")
	s.pushFrame("r")
	s.bind("r", "a", "2")

	inner := s.popFrame("r")
	require.Equal(t, Value("2"), inner["a"])
	outer := s.popFrame("r")
	require.Equal(t, Value("1"), outer["a"])
}

func TestEvaluateUnknownRulePanicsInternalError(t *testing.T) {
	g := &Grammar{Rules: []*Rule{{Name: "a", Expr: NewLiteral(Loc{}, "x", false)}}}
	g.assignIDs()

	defer func() {
		r := recover()
		require.NotNil(t, r)
		_, ok := r.(internalError)
		require.True(t, ok)
	}()
	g.Evaluate(NewState(""), "nope")
}
