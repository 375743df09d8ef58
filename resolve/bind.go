// Copyright 2025 The pyshrink Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"strings"

	"github.com/pyshrink/pyshrink/syntax"
)

// BindNames populates each scope with bindings for the names it
// locally defines: assignment and deletion targets, def and class
// names, parameters, import aliases, exception captures, structural
// match captures, and type parameters. The first occurrence of a name
// in a scope creates its binding; later occurrences append references.
// Binding creation order is the scope's binding list order.
//
// Names in a scope's declared-nonlocal set are not bound here at all:
// every occurrence of such a name, defining or not, refers elsewhere
// and is the resolver's job. Names in the declared-global set bind
// directly into the module scope.
//
// Requires CreateScopes to have run.
func BindNames(mod *syntax.Module) {
	b := &binder{module: mod.Scope()}
	syntax.Walk(mod, func(n syntax.Node) bool {
		if n == nil {
			return true
		}
		switch n := n.(type) {
		case *syntax.Ident:
			if n.Ctx == syntax.Store || n.Ctx == syntax.Del {
				if bnd := b.bind(n.Scope(), n.Name, n); bnd != nil {
					n.Binding = bnd
				}
			}
		case *syntax.DefStmt:
			b.bind(n.Scope(), n.Name, n)
		case *syntax.ClassDefStmt:
			b.bind(n.Scope(), n.Name, n)
		case *syntax.GlobalStmt:
			// The declaration itself counts as a reference: the name
			// text appears in source and must follow any rename.
			for _, name := range n.Names {
				b.bind(b.module, name, n)
			}
		case *syntax.Param:
			b.bindParam(n)
		case *syntax.Alias:
			b.bindAlias(n)
		case *syntax.ExceptHandler:
			if n.Name != "" {
				b.bind(n.Scope(), n.Name, n)
			}
		case *syntax.MatchAs:
			if n.Name != "" {
				b.bind(n.Scope(), n.Name, n)
			}
		case *syntax.MatchStar:
			if n.Name != "" {
				b.bind(n.Scope(), n.Name, n)
			}
		case *syntax.MatchMapping:
			if n.Rest != "" {
				b.bind(n.Scope(), n.Rest, n)
			}
		case *syntax.TypeVar:
			b.bind(n.Scope(), n.Name, n)
		case *syntax.TypeVarTuple:
			b.bind(n.Scope(), n.Name, n)
		case *syntax.ParamSpec:
			b.bind(n.Scope(), n.Name, n)
		}
		return true
	})
}

type binder struct {
	module *syntax.Scope
}

// bind records a defining occurrence of name in scope, creating the
// binding on first sight. It returns nil without binding when the name
// is declared nonlocal in the scope. A name declared global binds into
// the module scope instead.
func (b *binder) bind(scope *syntax.Scope, name string, ref syntax.Node) *syntax.Binding {
	if scope.NonlocalNames[name] {
		return nil
	}
	if scope.GlobalNames[name] {
		scope = b.module
	}
	bnd := scope.Lookup(name)
	if bnd == nil {
		bnd = syntax.NewBinding(name, syntax.NameBinding)
		scope.Bindings = append(scope.Bindings, bnd)
	}
	bnd.AddReference(ref)
	return bnd
}

// bindParam binds a parameter name into its function scope. A lambda
// parameter that is not renameable in place is excluded from renaming
// immediately: unlike a def body, a lambda body cannot receive the
// aliasing assignment the renamer would otherwise insert.
func (b *binder) bindParam(p *syntax.Param) {
	bnd := b.bind(p.Scope(), p.Name, p)
	if bnd == nil || RenameInPlace(p) {
		return
	}
	if args, ok := p.Parent().(*syntax.Arguments); ok {
		if _, ok := args.Parent().(*syntax.LambdaExpr); ok {
			bnd.DisallowRename()
		}
	}
}

// bindAlias binds the local name an import introduces: the as-name if
// present, otherwise the first segment of the module path. An unaliased
// dotted import may not be renamed: the bound name and the path used
// for attribute access must stay textually identical.
func (b *binder) bindAlias(a *syntax.Alias) {
	name, dotted := aliasBoundName(a)
	if name == "" {
		return // from m import *
	}
	bnd := b.bind(a.Scope(), name, a)
	if bnd != nil && dotted {
		bnd.DisallowRename()
	}
}

// aliasBoundName returns the name an import alias binds, and whether
// that binding must keep its source text (unaliased dotted path).
// The name is empty for a star import, which binds nothing nameable.
func aliasBoundName(a *syntax.Alias) (name string, keep bool) {
	if a.AsName != "" {
		return a.AsName, false
	}
	if a.Name == "*" {
		return "", false
	}
	if i := strings.IndexByte(a.Name, '.'); i >= 0 {
		return a.Name[:i], true
	}
	return a.Name, false
}
