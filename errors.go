// Copyright 2017 The Peggy Authors
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd.

package peggrove

import (
	"fmt"
	"sort"
)

// Located is anything with a position in a grammar's input text.
type Located interface {
	Pos() Loc
}

// ErrorKind distinguishes the build-time error taxonomy of spec.md §7.
type ErrorKind int

const (
	// GrammarSyntaxErrorKind indicates the meta-grammar text itself failed to parse.
	GrammarSyntaxErrorKind ErrorKind = iota
	// DuplicateRuleKind indicates two rules share a name.
	DuplicateRuleKind
	// UnknownRuleKind indicates a rule reference has no matching definition.
	UnknownRuleKind
	// LeftRecursionKind indicates the validator's closure found self-reachability.
	LeftRecursionKind
	// ActionErrorKind indicates an action spec references a missing label or host function.
	ActionErrorKind
)

func (k ErrorKind) String() string {
	switch k {
	case GrammarSyntaxErrorKind:
		return "GrammarSyntaxError"
	case DuplicateRuleKind:
		return "DuplicateRule"
	case UnknownRuleKind:
		return "UnknownRule"
	case LeftRecursionKind:
		return "LeftRecursion"
	case ActionErrorKind:
		return "ActionError"
	default:
		return "Error"
	}
}

// Error is a single build-time error tied to a location in a grammar's source.
type Error struct {
	FilePath string
	Loc      Loc
	Kind     ErrorKind
	Msg      string
}

func (e *Error) Error() string {
	if e.FilePath == "" {
		return fmt.Sprintf("%d.%d: %s", e.Loc.Line, e.Loc.Column, e.Msg)
	}
	return fmt.Sprintf("%s:%d.%d: %s", e.FilePath, e.Loc.Line, e.Loc.Column, e.Msg)
}

func newError(file string, loc Loc, kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{FilePath: file, Loc: loc, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Errors aggregates the Errors found while checking or parsing one grammar.
type Errors struct {
	File string
	Errs []*Error
}

func (e *Errors) add(loc Loc, kind ErrorKind, format string, args ...interface{}) {
	e.Errs = append(e.Errs, newError(e.File, loc, kind, format, args...))
}

// ret returns nil if no errors were collected, else the aggregate, sorted
// by position so the earliest error in the source is reported first.
func (e *Errors) ret() error {
	if len(e.Errs) == 0 {
		return nil
	}
	sort.Slice(e.Errs, func(i, j int) bool { return e.Errs[i].Loc.Less(e.Errs[j].Loc) })
	return e
}

// Error implements error, one Error per line.
func (e *Errors) Error() string {
	var s string
	for i, er := range e.Errs {
		if i > 0 {
			s += "\n"
		}
		s += er.Error()
	}
	return s
}

// Has reports whether any collected error is of the given kind.
func (e *Errors) Has(kind ErrorKind) bool {
	for _, er := range e.Errs {
		if er.Kind == kind {
			return true
		}
	}
	return false
}

// InternalError is returned by Parse when evaluation cannot go on: an
// entry rule name the grammar does not define, a host action that
// returned an error, or a condition that validation should already have
// ruled out (an unresolved rule reference, an unrecognised action spec).
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string { return "internal error: " + e.Msg }

// internalError is the panic payload evaluate methods raise for the same
// conditions; Parse recovers it and converts it to an *InternalError.
type internalError struct {
	msg string
}

func (e internalError) Error() string { return e.msg }
