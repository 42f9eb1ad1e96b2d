// Copyright 2017 The Peggy Authors
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd.

package peggrove

import (
	"strings"
	"unicode/utf8"
)

// A Loc is a location in an input text, tracked redundantly in bytes,
// runes, and line/column so that diagnostics can be formatted without
// rescanning the input.
type Loc struct {
	Byte   int
	Rune   int
	Line   int
	Column int
}

// Location returns the Loc of the given byte offset into text.
func Location(text string, byteOffset int) Loc {
	loc := Loc{Line: 1, Column: 1}
	for byteOffset > loc.Byte {
		r, w := utf8.DecodeRuneInString(text[loc.Byte:])
		loc.Byte += w
		loc.Rune++
		loc.Column++
		if r == '\n' {
			loc.Line++
			loc.Column = 1
		}
	}
	return loc
}

// Less reports whether l is earlier in the input than o.
func (l Loc) Less(o Loc) bool { return l.Byte < o.Byte }

// LineAndCaret returns the full source line containing loc within text, and
// a second line of dashes with a caret under loc's column, the "pretty
// pos" shape a diagnostic prints under its header line.
func LineAndCaret(text string, loc Loc) (line, caret string) {
	start := strings.LastIndexByte(text[:loc.Byte], '\n') + 1
	end := len(text)
	if i := strings.IndexByte(text[loc.Byte:], '\n'); i >= 0 {
		end = loc.Byte + i
	}
	line = text[start:end]
	caret = strings.Repeat("-", loc.Column-1) + "^"
	return line, caret
}

// GotText returns up to n runes of text starting at loc, with embedded
// newlines escaped so the result stays on one line, or "EOF" if loc is at
// the end of text.
func GotText(text string, loc Loc, n int) string {
	rest := text[loc.Byte:]
	if rest == "" {
		return "EOF"
	}
	runes := []rune(rest)
	if len(runes) > n {
		runes = runes[:n]
	}
	return strings.ReplaceAll(string(runes), "\n", `\n`)
}
