// Copyright 2025 The pyshrink Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolve performs name resolution over a Python syntax tree.
//
// Resolution is what makes renaming safe: an identifier may be
// shortened only if every occurrence of the variable it denotes is
// known. The pipeline runs four strictly ordered passes over one tree,
// each mutating annotations in place:
//
//	syntax.SetParents   parent links
//	CreateScopes        scope tree + per-node owning scope
//	BindNames           local definitions become bindings
//	ResolveNames        every remaining occurrence linked to a binding
//
// Within each pass, references accumulate in pre-order source order,
// so a binding's reference list holds its defining occurrences first,
// then its other occurrences, each group in source order.
//
// Resolution never fails on well-formed trees: a name that resolves
// nowhere gets a placeholder binding with renaming permanently
// disallowed, so the original text survives. An unknown node kind is
// an internal error and panics.
package resolve

import (
	"github.com/pyshrink/pyshrink/syntax"
)

// Module resolves all names in a module and returns the root of its
// scope tree. isBuiltin tells the resolver which names fall back to
// builtin bindings when unresolved at module scope; nil means
// DefaultBuiltins. The tree is annotated in place.
func Module(mod *syntax.Module, isBuiltin func(string) bool) *syntax.Scope {
	syntax.SetParents(mod)
	top := CreateScopes(mod)
	BindNames(mod)
	ResolveNames(mod, isBuiltin)
	return top
}

// ResolveNames links every non-defining name occurrence to a binding:
// plain reads; any occurrence of a name declared nonlocal in its scope
// (including defining ones the binder skipped); each name listed in a
// nonlocal statement; and captures, aliases, and type parameters whose
// names are declared nonlocal. Unresolved names at module scope fall
// back to a builtin binding when isBuiltin admits them, else to a
// placeholder.
//
// Use of a scope-introspecting builtin (eval, exec, locals, globals,
// vars), or a legacy exec statement, taints the module scope: names
// may be reached by string there, and the renamer decides how much
// that constrains it.
//
// Requires BindNames to have run.
func ResolveNames(mod *syntax.Module, isBuiltin func(string) bool) {
	if isBuiltin == nil {
		isBuiltin = DefaultBuiltins
	}
	r := &resolver{module: mod.Scope(), isBuiltin: isBuiltin}
	syntax.Walk(mod, func(n syntax.Node) bool {
		if n == nil {
			return true
		}
		switch n := n.(type) {
		case *syntax.Ident:
			if n.Ctx == syntax.Load || n.Scope().NonlocalNames[n.Name] {
				n.Binding = r.use(n.Scope(), n.Name, n)
			}
		case *syntax.DefStmt:
			if n.Scope().NonlocalNames[n.Name] {
				r.use(n.Scope(), n.Name, n)
			}
		case *syntax.ClassDefStmt:
			if n.Scope().NonlocalNames[n.Name] {
				r.use(n.Scope(), n.Name, n)
			}
		case *syntax.NonlocalStmt:
			// Each declared name is itself an occurrence, resolved in
			// the scope the declaration redirects to.
			for _, name := range n.Names {
				r.use(n.Scope(), name, n)
			}
		case *syntax.Param:
			if n.Scope().NonlocalNames[n.Name] {
				r.use(n.Scope(), n.Name, n)
			}
		case *syntax.Alias:
			r.resolveAlias(n)
		case *syntax.ExceptHandler:
			if n.Name != "" && n.Scope().NonlocalNames[n.Name] {
				r.use(n.Scope(), n.Name, n)
			}
		case *syntax.MatchAs:
			if n.Name != "" && n.Scope().NonlocalNames[n.Name] {
				r.use(n.Scope(), n.Name, n)
			}
		case *syntax.MatchStar:
			if n.Name != "" && n.Scope().NonlocalNames[n.Name] {
				r.use(n.Scope(), n.Name, n)
			}
		case *syntax.MatchMapping:
			if n.Rest != "" && n.Scope().NonlocalNames[n.Rest] {
				r.use(n.Scope(), n.Rest, n)
			}
		case *syntax.TypeVar:
			if n.Scope().NonlocalNames[n.Name] {
				r.use(n.Scope(), n.Name, n)
			}
		case *syntax.TypeVarTuple:
			if n.Scope().NonlocalNames[n.Name] {
				r.use(n.Scope(), n.Name, n)
			}
		case *syntax.ParamSpec:
			if n.Scope().NonlocalNames[n.Name] {
				r.use(n.Scope(), n.Name, n)
			}
		case *syntax.ExecStmt:
			// exec can read and write any name in the program.
			r.module.Taint()
		}
		return true
	})
}

type resolver struct {
	module    *syntax.Scope
	isBuiltin func(string) bool
}

// use resolves one occurrence and appends it to the binding found.
func (r *resolver) use(scope *syntax.Scope, name string, ref syntax.Node) *syntax.Binding {
	b := r.lookup(scope, name)
	b.AddReference(ref)
	return b
}

// lookup finds the binding a name denotes in a scope:
//
//  1. Declared global: resolve in the module scope.
//  2. Declared nonlocal: resolve in the nearest enclosing non-class
//     scope. Class scopes are transparent to lexical lookup.
//  3. A local binding by that name: found.
//  4. Otherwise, resolve in the nearest enclosing non-class scope.
//  5. Unresolved at module scope: synthesize a builtin binding if the
//     name is a known builtin (tainting the module scope when the
//     builtin introspects names), else a placeholder binding.
func (r *resolver) lookup(scope *syntax.Scope, name string) *syntax.Binding {
	if scope != r.module {
		if scope.GlobalNames[name] {
			return r.lookup(r.module, name)
		}
		if scope.NonlocalNames[name] {
			return r.lookup(enclosingNonClass(scope), name)
		}
	}
	if b := scope.Lookup(name); b != nil {
		return b
	}
	if scope != r.module {
		return r.lookup(enclosingNonClass(scope), name)
	}

	kind := syntax.PlaceholderBinding
	if r.isBuiltin(name) {
		kind = syntax.BuiltinBinding
		if introspecting[name] {
			r.module.Taint()
		}
	}
	b := syntax.NewBinding(name, kind)
	r.module.Bindings = append(r.module.Bindings, b)
	return b
}

// resolveAlias handles an import alias whose bound name is declared
// nonlocal in the importing scope; the binder skipped it. The dotted
// no-as-clause restriction applies to the resolved binding just the
// same.
func (r *resolver) resolveAlias(a *syntax.Alias) {
	name, dotted := aliasBoundName(a)
	if name == "" || !a.Scope().NonlocalNames[name] {
		return
	}
	b := r.use(a.Scope(), name, a)
	if dotted {
		b.DisallowRename()
	}
}
