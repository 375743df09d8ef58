// Copyright 2025 The pyshrink Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The pyshrink command resolves the names of a Python source file and
// prints its scope tree: every scope, its bindings, their reference
// counts, and whether each binding is still a candidate for renaming.
// With no arguments and a terminal on stdin, it starts a
// read-analyze-print loop (REPL); otherwise it reads source from
// stdin.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/pyshrink/pyshrink/internal/pydump"
	"github.com/pyshrink/pyshrink/repl"
	"github.com/pyshrink/pyshrink/resolve"
	"github.com/pyshrink/pyshrink/syntax"
)

// flags
var (
	cpuprofile  = flag.String("cpuprofile", "", "gather Go CPU profile in this file")
	memprofile  = flag.String("memprofile", "", "gather Go memory profile in this file")
	execprog    = flag.String("c", "", "analyze program `prog`")
	configFile  = flag.String("config", "", "load rename options from this YAML `file`")
	interpreter = flag.String("python", "", "parse with this Python `interpreter` (default "+pydump.DefaultInterpreter+")")

	renameGlobals = flag.Bool("rename-globals", true, "allow renaming of module-scope names")
	renameLocals  = flag.Bool("rename-locals", true, "allow renaming of non-module names")
)

func main() {
	os.Exit(doMain())
}

func doMain() int {
	log.SetPrefix("pyshrink: ")
	log.SetFlags(0)
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		check(err)
		err = pprof.StartCPUProfile(f)
		check(err)
		defer func() {
			pprof.StopCPUProfile()
			err := f.Close()
			check(err)
		}()
	}
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		check(err)
		defer func() {
			runtime.GC()
			err := pprof.Lookup("heap").WriteTo(f, 0)
			check(err)
			err = f.Close()
			check(err)
		}()
	}

	opts := resolve.DefaultOptions()
	if *configFile != "" {
		var err error
		opts, err = loadConfig(*configFile)
		check(err)
	}
	opts.RenameGlobals = opts.RenameGlobals && *renameGlobals
	opts.RenameLocals = opts.RenameLocals && *renameLocals

	ctx := context.Background()

	switch {
	case *execprog != "":
		if flag.NArg() > 0 {
			log.Print("cannot combine -c with file names")
			return 1
		}
		mod, err := pydump.Parse(ctx, *interpreter, "cmdline", []byte(*execprog))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		analyze(mod, opts)
	case flag.NArg() > 0:
		for _, path := range flag.Args() {
			mod, err := pydump.ParseFile(ctx, *interpreter, path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			analyze(mod, opts)
		}
	case term.IsTerminal(int(os.Stdin.Fd())):
		fmt.Println("Welcome to pyshrink")
		repl.REPL(*interpreter, opts)
	default:
		src, err := io.ReadAll(os.Stdin)
		check(err)
		mod, err := pydump.Parse(ctx, *interpreter, "<stdin>", src)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		analyze(mod, opts)
	}

	return 0
}

func analyze(mod *syntax.Module, opts resolve.Options) {
	top := resolve.Module(mod, nil)
	resolve.ApplyOptions(top, opts)
	resolve.WriteScope(os.Stdout, top)
}

// loadConfig reads rename options from a YAML file:
//
//	rename_globals: true
//	rename_locals: true
//	preserve_globals: [main, Config]
//	preserve_locals: [kwargs]
//
// Omitted booleans keep their defaults.
func loadConfig(path string) (resolve.Options, error) {
	opts := resolve.DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}
	var cfg struct {
		RenameGlobals   *bool    `yaml:"rename_globals"`
		RenameLocals    *bool    `yaml:"rename_locals"`
		PreserveGlobals []string `yaml:"preserve_globals"`
		PreserveLocals  []string `yaml:"preserve_locals"`
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return opts, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.RenameGlobals != nil {
		opts.RenameGlobals = *cfg.RenameGlobals
	}
	if cfg.RenameLocals != nil {
		opts.RenameLocals = *cfg.RenameLocals
	}
	opts.PreserveGlobals = cfg.PreserveGlobals
	opts.PreserveLocals = cfg.PreserveLocals
	return opts, nil
}

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
