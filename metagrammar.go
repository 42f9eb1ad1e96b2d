// Copyright 2017 The Peggy Authors
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd.

package peggrove

import "strings"

// ParseGrammarText parses src as PEG grammar source, using the engine's
// own self-hosted meta-grammar (bootstrap.go), and returns the resulting
// Grammar. file is attached to any diagnostic ParseGrammarText itself
// produces; Build attaches it to the later validate/bind errors too.
//
// Before parsing, src has its common leading indentation stripped, the
// same convenience fastidious's ParserMeta.parse_grammar offers for
// grammars written as an indented Go string literal embedded in a larger
// program.
func ParseGrammarText(file, src string) (g *Grammar, err error) {
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(internalError)
			if !ok {
				panic(r)
			}
			errs := &Errors{File: file}
			errs.add(Loc{Line: 1, Column: 1}, GrammarSyntaxErrorKind, "%s", ie.msg)
			err = errs.ret()
		}
	}()

	text := stripCommonIndent(src)
	boot := bootstrapGrammar()
	s := NewState(text)
	v, ok := boot.Evaluate(s, "grammar")
	if !ok {
		return nil, diagnose(file, text, s)
	}
	if s.Pos < len(text) {
		if s.failPos <= s.Pos {
			s.failPos = s.Pos
			s.failTrail = nil
		}
		d := diagnose(file, text, s)
		if len(d.Expected) == 0 {
			d.Expected = []string{"end of input"}
		}
		return nil, d
	}

	result, ok := v.(*Grammar)
	if !ok {
		return nil, &Errors{File: file, Errs: []*Error{
			newError(file, Loc{Line: 1, Column: 1}, GrammarSyntaxErrorKind, "grammar rule produced no grammar"),
		}}
	}
	return result, nil
}

// stripCommonIndent removes the longest run of leading spaces/tabs common
// to every non-blank line of src, so a grammar written as an indented Go
// raw string literal parses as if it started in column one.
func stripCommonIndent(src string) string {
	lines := strings.Split(src, "\n")
	common := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if common == -1 || n < common {
			common = n
		}
	}
	if common <= 0 {
		return src
	}
	for i, l := range lines {
		if len(l) >= common {
			lines[i] = l[common:]
		} else {
			lines[i] = strings.TrimLeft(l, " \t")
		}
	}
	return strings.Join(lines, "\n")
}
