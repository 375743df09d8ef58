// Copyright 2025 The pyshrink Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chunkedfile reads golden-file fixtures that hold several
// test cases in one file.
//
// A chunked file consists of cases separated by "===" lines. Each case
// is an input text and the output expected for it, separated by a
// "---" line:
//
//	<input>
//	---
//	<expected output>
//	===
//	<input>
//	---
//	<expected output>
//
// A client test feeds each case's input into the program under test
// and compares the result against Want. Malformed fixtures are
// reported through the client's reporter, typically a testing.T.
package chunkedfile

import (
	"os"
	"strings"
)

// A Case is one input/expected-output pair of a chunked file.
type Case struct {
	Filename string
	Line     int // line number of the case's first input line
	Input    string
	Want     string
}

// Reporter is implemented by *testing.T.
type Reporter interface {
	Errorf(format string, args ...interface{})
}

// Read parses a chunked file and returns its cases.
// It reports failures using the reporter.
// Input and Want always end in exactly one newline.
func Read(filename string, report Reporter) (cases []Case) {
	data, err := os.ReadFile(filename)
	if err != nil {
		report.Errorf("%s", err)
		return
	}

	line := 1
	for _, chunk := range strings.Split(string(data), "\n===\n") {
		input, want, ok := strings.Cut(chunk, "\n---\n")
		if !ok {
			report.Errorf("%s:%d: case has no --- separator", filename, line)
		} else {
			cases = append(cases, Case{
				Filename: filename,
				Line:     line,
				Input:    ensureNewline(input),
				Want:     ensureNewline(want),
			})
		}
		line += strings.Count(chunk, "\n") + 2 // the chunk plus its === line
	}
	return cases
}

func ensureNewline(s string) string {
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s
}
