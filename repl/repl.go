// Copyright 2025 The pyshrink Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package repl provides a read/analyze/print loop for pyshrink.
//
// It supports readline-style command editing, and interrupts through
// Control-C. The REPL reads lines until a blank line, parses the
// accumulated input through the external front end, resolves its
// names, and prints the resulting scope tree — the quickest way to
// see how a snippet's names will resolve before minifying.
package repl

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pyshrink/pyshrink/internal/pydump"
	"github.com/pyshrink/pyshrink/resolve"
)

var interrupted = make(chan os.Signal, 1)

// REPL executes a read, analyze, print loop.
//
// Each block of input is parsed by the given interpreter (the pydump
// default if empty) and resolved under the given options. Parsing of
// a block may be cancelled by a SIGINT (Control-C).
func REPL(interpreter string, opts resolve.Options) {
	signal.Notify(interrupted, os.Interrupt)
	defer signal.Stop(interrupted)

	rl, err := readline.New(">>> ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	defer rl.Close()
	for {
		if err := rap(rl, interpreter, opts); err != nil {
			if err == readline.ErrInterrupt {
				fmt.Println(err)
				continue
			}
			break
		}
	}
	fmt.Println()
}

// rap reads, analyzes, and prints one block.
//
// It returns an error (possibly readline.ErrInterrupt) only if
// readline failed. Parse errors are printed.
func rap(rl *readline.Instance, interpreter string, opts resolve.Options) error {
	// Each block gets its own context, cancelled by a SIGINT.
	//
	// Note: during Readline calls, Control-C causes Readline to return
	// ErrInterrupt but does not generate a SIGINT.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-interrupted:
			cancel()
		case <-ctx.Done():
		}
	}()

	// readline returns EOF, ErrInterrupt, or a line.
	rl.SetPrompt(">>> ")
	var lines []string
	for {
		line, err := rl.Readline()
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, line)
		rl.SetPrompt("... ")
	}
	if len(lines) == 0 {
		return nil
	}

	mod, err := pydump.Parse(ctx, interpreter, "<stdin>", []byte(strings.Join(lines, "\n")+"\n"))
	if err != nil {
		if ctx.Err() != nil {
			return readline.ErrInterrupt
		}
		fmt.Fprintln(os.Stderr, err)
		return nil
	}

	top := resolve.Module(mod, nil)
	resolve.ApplyOptions(top, opts)
	resolve.WriteScope(os.Stdout, top)
	return nil
}
