// Copyright 2025 The pyshrink Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pydump obtains Python syntax trees from a host CPython
// interpreter.
//
// pyshrink does not parse Python itself: it runs an embedded script
// under the interpreter whose dialect is being analyzed, reads the
// JSON tree dump the script writes, and decodes it with
// syntax.DecodeModule. Parsing therefore always agrees with the
// interpreter that will run the minified output.
package pydump

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/pyshrink/pyshrink/syntax"
)

//go:embed dump.py
var dumpScript string

// DefaultInterpreter is used when the caller does not name one.
const DefaultInterpreter = "python3"

// Parse feeds src to the interpreter's parser and decodes the
// resulting tree. filename is used in positions and diagnostics only.
// An empty interpreter selects DefaultInterpreter.
func Parse(ctx context.Context, interpreter, filename string, src []byte) (*syntax.Module, error) {
	if interpreter == "" {
		interpreter = DefaultInterpreter
	}
	cmd := exec.CommandContext(ctx, interpreter, "-c", dumpScript, filename)
	cmd.Stdin = bytes.NewReader(src)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := lastLine(stderr.String()); msg != "" {
			// Usually a SyntaxError; CPython puts the summary last.
			return nil, fmt.Errorf("%s: %s", interpreter, msg)
		}
		return nil, fmt.Errorf("%s: %w", interpreter, err)
	}
	return syntax.DecodeModule(stdout.Bytes(), filename)
}

// ParseFile reads and parses the file at path.
func ParseFile(ctx context.Context, interpreter, path string) (*syntax.Module, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(ctx, interpreter, path, src)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
