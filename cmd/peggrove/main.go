// Copyright 2017 The Peggy Authors
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd.

// Command peggrove builds a PEG grammar and runs it over an input file.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/eaburns/pretty"

	"github.com/peggrove/peggrove"
)

var (
	grammarPath = flag.String("grammar", "", "path to a PEG grammar file (required)")
	entry       = flag.String("rule", "", "entry rule name (defaults to the grammar's first rule)")
	inputPath   = flag.String("input", "", "path to the input file to parse (defaults to stdin)")
	printOnly   = flag.Bool("print", false, "print the built grammar in canonical form and exit")
	trace       = flag.Bool("trace", false, "log rule entry/exit to stderr")
)

func main() {
	flag.Parse()
	if *grammarPath == "" {
		fmt.Fprintln(os.Stderr, "peggrove: -grammar is required")
		os.Exit(1)
	}
	if *trace {
		peggrove.SetLogger(peggrove.DefaultLogger("peggrove"))
	}

	grammarText, err := os.ReadFile(*grammarPath)
	if err != nil {
		fail(err)
	}
	p, err := peggrove.BuildFile(*grammarPath, string(grammarText), nil)
	if err != nil {
		fail(err)
	}

	if *printOnly {
		fmt.Println(p.Grammar().String())
		return
	}

	ruleName := *entry
	if ruleName == "" {
		rules := p.Grammar().Rules
		if len(rules) == 0 {
			fail(fmt.Errorf("grammar %s has no rules", *grammarPath))
		}
		ruleName = rules[0].Name
	}

	input, err := readInput()
	if err != nil {
		fail(err)
	}

	result, err := p.Parse(string(input), ruleName)
	if err != nil {
		fail(err)
	}
	fmt.Println(pretty.String(result))
}

func readInput() ([]byte, error) {
	if *inputPath == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(*inputPath)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "peggrove:", err)
	os.Exit(1)
}
