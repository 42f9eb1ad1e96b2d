package peggrove_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/peggrove/peggrove"
)

func TestParseInt(t *testing.T) {
	host := peggrove.Actions{
		"toInt": func(raw peggrove.Value, _ map[string]peggrove.Value) (peggrove.Value, error) {
			return strconv.Atoi(raw.(string))
		},
	}
	p, err := peggrove.Build(`expr <- n:[0-9]+ {toInt}`, host)
	require.NoError(t, err)

	v, err := p.Parse("42", "expr")
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func calculatorHost() peggrove.Actions {
	sum := func(_ peggrove.Value, frame map[string]peggrove.Value) (peggrove.Value, error) {
		total := frame["first"].(int)
		rest, _ := frame["rest"].([]peggrove.Value)
		for _, rv := range rest {
			tuple := rv.([]peggrove.Value)
			op := tuple[1].(string)
			n := tuple[3].(int)
			if op == "+" {
				total += n
			} else {
				total -= n
			}
		}
		return total, nil
	}
	prod := func(_ peggrove.Value, frame map[string]peggrove.Value) (peggrove.Value, error) {
		total := frame["first"].(int)
		rest, _ := frame["rest"].([]peggrove.Value)
		for _, rv := range rest {
			tuple := rv.([]peggrove.Value)
			op := tuple[1].(string)
			n := tuple[3].(int)
			if op == "*" {
				total *= n
			} else {
				total /= n
			}
		}
		return total, nil
	}
	return peggrove.Actions{
		"sum": sum,
		"prod": prod,
		"unwrap": func(_ peggrove.Value, frame map[string]peggrove.Value) (peggrove.Value, error) {
			return frame["e"], nil
		},
		"toInt": func(raw peggrove.Value, _ map[string]peggrove.Value) (peggrove.Value, error) {
			return strconv.Atoi(raw.(string))
		},
	}
}

const calculatorGrammar = `
	expr <- first:term rest:(_ op:[+\-] _ term)* {sum}
	term <- first:factor rest:(_ op:[*/] _ factor)* {prod}
	factor <- paren_factor / digit_factor
	paren_factor <- "(" _ e:expr _ ")" {unwrap}
	digit_factor <- n:[0-9]+ {toInt}
	_ <- [ \t]*
`

func TestParseCalculatorOperatorPrecedence(t *testing.T) {
	p, err := peggrove.Build(calculatorGrammar, calculatorHost())
	require.NoError(t, err)

	v, err := p.Parse("2+3*4", "expr")
	require.NoError(t, err)
	require.Equal(t, 14, v)
}

func TestParseCalculatorParentheses(t *testing.T) {
	p, err := peggrove.Build(calculatorGrammar, calculatorHost())
	require.NoError(t, err)

	v, err := p.Parse("(1+2)*3", "expr")
	require.NoError(t, err)
	require.Equal(t, 9, v)
}

const jsonArrayGrammar = `
	array_val <- "[" _ first:value rest:(_ "," _ value)* _ "]" {makeArray}
	value <- array_val / string_val / true_val / false_val / null_val
	string_val <- "\"" chars:str_char* "\"" {makeString}
	str_char <- !("\"" / "\\") . / "\\" . {secondChar}
	true_val <- "true" {makeTrue}
	false_val <- "false" {makeFalse}
	null_val <- "null" {makeNull}
	_ <- [ \t\n\r]*
`

func jsonArrayHost() peggrove.Actions {
	return peggrove.Actions{
		"makeArray": func(_ peggrove.Value, frame map[string]peggrove.Value) (peggrove.Value, error) {
			items := []interface{}{frame["first"]}
			rest, _ := frame["rest"].([]peggrove.Value)
			for _, rv := range rest {
				tuple := rv.([]peggrove.Value)
				items = append(items, tuple[3])
			}
			return items, nil
		},
		"makeString": func(_ peggrove.Value, frame map[string]peggrove.Value) (peggrove.Value, error) {
			return peggrove.Flatten(frame["chars"]), nil
		},
		"secondChar": func(raw peggrove.Value, _ map[string]peggrove.Value) (peggrove.Value, error) {
			vals := raw.([]peggrove.Value)
			return vals[1], nil
		},
		"makeTrue":  func(peggrove.Value, map[string]peggrove.Value) (peggrove.Value, error) { return true, nil },
		"makeFalse": func(peggrove.Value, map[string]peggrove.Value) (peggrove.Value, error) { return false, nil },
		"makeNull":  func(peggrove.Value, map[string]peggrove.Value) (peggrove.Value, error) { return nil, nil },
	}
}

func TestParseJSONArray(t *testing.T) {
	p, err := peggrove.Build(jsonArrayGrammar, jsonArrayHost())
	require.NoError(t, err)

	v, err := p.Parse(`["hello", true, null]`, "array_val")
	require.NoError(t, err)
	require.Equal(t, []interface{}{"hello", true, nil}, v)
}

func TestParseReportsFarthestFailureDiagnostic(t *testing.T) {
	p, err := peggrove.Build(`a <- "hi" "!"`, nil)
	require.NoError(t, err)

	_, err = p.Parse("hi?", "a")
	require.Error(t, err)
	diag, ok := err.(*peggrove.SyntaxDiagnostic)
	require.True(t, ok)
	require.Equal(t, 1, diag.Pos.Line)
	require.Equal(t, 3, diag.Pos.Column)
	require.Contains(t, diag.Expected, `"!"`)
}

func TestSyntaxDiagnosticErrorFormatsSourceLineAndCaret(t *testing.T) {
	p, err := peggrove.Build(`a <- "hi" "!"`, nil)
	require.NoError(t, err)

	_, err = p.Parse("hi?", "a")
	require.Error(t, err)

	want := "Syntax error at line 1, col 3:\n\n" +
		"hi?\n" +
		"--^\n\n" +
		"Got `?` expected \"!\""
	require.Equal(t, want, err.Error())
}

func TestParseTerminalRuleHidesInternalFailure(t *testing.T) {
	grammar := "a <- b\n`b <- \"hi\" \"!\"\n"
	p, err := peggrove.Build(grammar, nil)
	require.NoError(t, err)

	_, err = p.Parse("hi?", "a")
	require.Error(t, err)
	diag, ok := err.(*peggrove.SyntaxDiagnostic)
	require.True(t, ok)
	require.Equal(t, 1, diag.Pos.Line)
	require.Equal(t, 1, diag.Pos.Column)
	require.Equal(t, []string{"b"}, diag.Expected)
}

func TestParseAliasedRuleReportsAliasInsteadOfInternals(t *testing.T) {
	p, err := peggrove.Build(`greeting "Greeting" <- "hi" "!"`, nil)
	require.NoError(t, err)

	_, err = p.Parse("hi?", "greeting")
	require.Error(t, err)
	diag, ok := err.(*peggrove.SyntaxDiagnostic)
	require.True(t, ok)
	require.Equal(t, 1, diag.Pos.Column)
	require.Equal(t, []string{"Greeting"}, diag.Expected)
}

func TestBuildRejectsLeftRecursiveGrammar(t *testing.T) {
	_, err := peggrove.Build(`a <- a "x" / "x"`, nil)
	require.Error(t, err)
	errs, ok := err.(*peggrove.Errors)
	require.True(t, ok)
	require.True(t, errs.Has(peggrove.LeftRecursionKind))
}
