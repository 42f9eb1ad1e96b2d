// Copyright 2017 The Peggy Authors
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd.

package peggrove

// Parser is a grammar that has been parsed, deduplicated, validated, and
// bound to a set of host actions: the external interface spec.md §6
// describes as Build/Parse. Build does all the work that can fail ahead
// of time, so Parse itself fails only with a SyntaxDiagnostic (the input
// didn't match) or an *InternalError (an entry rule the grammar does not
// define, a host action that returned an error, or a condition validation
// should already have ruled out).
type Parser struct {
	file    string
	grammar *Grammar
}

// Build compiles grammarText (PEG meta-grammar source) into a Parser,
// binding its rules' actions against host. host may be nil for grammars
// whose rules have no actions at all.
func Build(grammarText string, host ActionHost) (*Parser, error) {
	return BuildFile("", grammarText, host)
}

// BuildFile is Build, attaching file to every diagnostic it can produce,
// so that multi-grammar tools can tell their sources apart.
func BuildFile(file, grammarText string, host ActionHost) (*Parser, error) {
	g, err := ParseGrammarText(file, grammarText)
	if err != nil {
		return nil, err
	}
	if err := dedupeRules(file, g); err != nil {
		return nil, err
	}
	if err := validate(file, g); err != nil {
		return nil, err
	}
	if err := bind(g, host); err != nil {
		if errs, ok := err.(*Errors); ok {
			errs.File = file
			for _, e := range errs.Errs {
				e.FilePath = file
			}
		}
		return nil, err
	}
	g.assignIDs()
	return &Parser{file: file, grammar: g}, nil
}

// Grammar returns the built, validated grammar, mainly so a CLI driver
// can print it back out in canonical form.
func (p *Parser) Grammar() *Grammar { return p.grammar }

// Parse runs entry over input to completion. By default the whole of
// input must be consumed (spec.md §9's parse_all, always on; see the
// Open Question decision in SPEC_FULL.md §11) or Parse reports a
// SyntaxDiagnostic pointing at the first byte left over, or at the
// farthest recorded failure if that lies beyond it.
func (p *Parser) Parse(input, entry string) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(internalError)
			if !ok {
				panic(r)
			}
			err = &InternalError{Msg: ie.msg}
		}
	}()

	s := NewState(input)
	v, ok := p.grammar.Evaluate(s, entry)
	if !ok {
		return nil, diagnose(p.file, input, s)
	}
	if s.Pos >= len(input) {
		return v, nil
	}

	if s.failPos <= s.Pos {
		s.failPos = s.Pos
		s.failTrail = nil
	}
	d := diagnose(p.file, input, s)
	if len(d.Expected) == 0 {
		d.Expected = []string{"end of input"}
	}
	return nil, d
}
