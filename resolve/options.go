// Copyright 2025 The pyshrink Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import "github.com/pyshrink/pyshrink/syntax"

// Options configures which resolved bindings remain candidates for
// renaming. The zero value disallows everything; use DefaultOptions
// as the starting point.
type Options struct {
	// RenameGlobals permits renaming of module-scope bindings.
	RenameGlobals bool

	// RenameLocals permits renaming of bindings in every other scope.
	RenameLocals bool

	// PreserveGlobals lists module-scope names that keep their text
	// even when RenameGlobals is set. Names exported through a
	// module-level __all__ list are preserved automatically.
	PreserveGlobals []string

	// PreserveLocals lists names that keep their text in every
	// non-module scope.
	PreserveLocals []string
}

// DefaultOptions returns the standard policy: rename everything that
// resolution has not already ruled out.
func DefaultOptions() Options {
	return Options{RenameGlobals: true, RenameLocals: true}
}

// ApplyOptions marks bindings that the options exclude from renaming.
// It never re-allows a binding: resolution's own restrictions (dotted
// imports, placeholders, lambda parameters) stay in force.
//
// A tainted scope has all its bindings excluded: once names can be
// reached by string, no rename in that scope is provably safe.
func ApplyOptions(top *syntax.Scope, opts Options) {
	preserveGlobal := make(map[string]bool)
	for _, name := range opts.PreserveGlobals {
		preserveGlobal[name] = true
	}
	if mod, ok := top.Node.(*syntax.Module); ok {
		for _, name := range exportedNames(mod) {
			preserveGlobal[name] = true
		}
	}
	preserveLocal := make(map[string]bool)
	for _, name := range opts.PreserveLocals {
		preserveLocal[name] = true
	}

	var apply func(s *syntax.Scope)
	apply = func(s *syntax.Scope) {
		rename, preserve := opts.RenameLocals, preserveLocal
		if s.Kind == syntax.ModuleScope {
			rename, preserve = opts.RenameGlobals, preserveGlobal
		}
		for _, b := range s.Bindings {
			if !rename || s.Tainted() || preserve[b.Name] {
				b.DisallowRename()
			}
		}
		for _, child := range s.Children() {
			apply(child)
		}
	}
	apply(top)
}

// exportedNames collects the string elements of every module-level
// assignment, annotated assignment, or augmented assignment to
// __all__. Those names are the module's public interface and must
// survive renaming.
func exportedNames(mod *syntax.Module) []string {
	var names []string
	collect := func(x syntax.Expr) {
		var elems []syntax.Expr
		switch x := x.(type) {
		case *syntax.ListExpr:
			elems = x.Elems
		case *syntax.TupleExpr:
			elems = x.Elems
		default:
			return
		}
		for _, e := range elems {
			if lit, ok := e.(*syntax.Literal); ok {
				if s, ok := lit.Value.(string); ok {
					names = append(names, s)
				}
			}
		}
	}
	isAll := func(x syntax.Expr) bool {
		id, ok := x.(*syntax.Ident)
		return ok && id.Name == "__all__"
	}
	for _, stmt := range mod.Body {
		switch stmt := stmt.(type) {
		case *syntax.AssignStmt:
			for _, t := range stmt.Targets {
				if isAll(t) {
					collect(stmt.Value)
					break
				}
			}
		case *syntax.AnnAssignStmt:
			if isAll(stmt.Target) && stmt.Value != nil {
				collect(stmt.Value)
			}
		case *syntax.AugAssignStmt:
			if isAll(stmt.Target) {
				collect(stmt.Value)
			}
		}
	}
	return names
}
