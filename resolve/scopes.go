// Copyright 2025 The pyshrink Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"log"

	"github.com/pyshrink/pyshrink/syntax"
)

// CreateScopes builds the scope tree for a module and annotates every
// node with its owning scope. It returns the module scope, the root of
// the tree.
//
// The traversal threads a "current scope" value: a node's owning scope
// is its parent's unless the node introduces a scope of its own. The
// placement rules follow the dialect:
//
//   - A def or lambda introduces a function scope. Decorators and
//     parameter defaults are evaluated in the enclosing scope, before
//     the function exists. Parameter and return annotations are
//     evaluated in the enclosing scope too, unless a type-parameter
//     list interposes an annotation scope, in which case the
//     annotations see the type parameters. Parameter names and the
//     body belong to the function scope.
//   - A class introduces a class scope for its body only; bases,
//     keywords, and decorators stay in the enclosing scope.
//   - A comprehension introduces a function scope. The iterable of
//     the first clause is evaluated in the enclosing scope — it runs
//     before the comprehension's frame exists — while everything
//     else, including iterables of later clauses, runs inside.
//   - global and nonlocal statements add their names to the current
//     scope's declared-name sets. So does the class free-name rule: a
//     plain read, or the target of a compound update, directly in
//     class context defers to the enclosing scope.
//
// CreateScopes requires parent links (syntax.SetParents) to have been
// established: the compound-update test inspects the parent of a name.
func CreateScopes(mod *syntax.Module) *syntax.Scope {
	top := syntax.NewScope(syntax.ModuleScope, "module", mod)
	mod.SetScope(top)
	for _, stmt := range mod.Body {
		walkScope(stmt, top)
	}
	return top
}

func walkScope(n syntax.Node, scope *syntax.Scope) {
	switch n := n.(type) {
	case *syntax.DefStmt:
		n.SetScope(scope)
		for _, d := range n.Decorators {
			walkScope(d, scope)
		}
		ann := typeParamScope(n, n.Name, n.TypeParams, scope)
		outer := scope
		if ann != nil {
			outer = ann
		}
		fn := syntax.NewScope(syntax.FunctionScope, n.Name, n)
		outer.AddChild(fn)
		walkParams(n.Args, scope, outer, fn)
		if n.Returns != nil {
			walkScope(n.Returns, outer)
		}
		for _, stmt := range n.Body {
			walkScope(stmt, fn)
		}

	case *syntax.LambdaExpr:
		n.SetScope(scope)
		fn := syntax.NewScope(syntax.FunctionScope, "lambda", n)
		scope.AddChild(fn)
		walkParams(n.Args, scope, scope, fn)
		walkScope(n.Body, fn)

	case *syntax.ClassDefStmt:
		n.SetScope(scope)
		for _, d := range n.Decorators {
			walkScope(d, scope)
		}
		ann := typeParamScope(n, n.Name, n.TypeParams, scope)
		outer := scope
		if ann != nil {
			outer = ann
		}
		for _, base := range n.Bases {
			walkScope(base, scope)
		}
		for _, kw := range n.Keywords {
			walkScope(kw, scope)
		}
		cls := syntax.NewScope(syntax.ClassScope, n.Name, n)
		outer.AddChild(cls)
		for _, stmt := range n.Body {
			walkScope(stmt, cls)
		}

	case *syntax.Comprehension:
		n.SetScope(scope)
		comp := syntax.NewScope(syntax.FunctionScope, n.Kind.String(), n)
		scope.AddChild(comp)
		for i, clause := range n.Clauses {
			clause.SetScope(comp)
			if i == 0 {
				walkScope(clause.Iter, scope)
			} else {
				walkScope(clause.Iter, comp)
			}
			walkScope(clause.Target, comp)
			for _, cond := range clause.Ifs {
				walkScope(cond, comp)
			}
		}
		if n.Body != nil {
			walkScope(n.Body, comp)
		}
		if n.Key != nil {
			walkScope(n.Key, comp)
		}
		if n.Value != nil {
			walkScope(n.Value, comp)
		}

	case *syntax.GlobalStmt:
		n.SetScope(scope)
		for _, name := range n.Names {
			scope.GlobalNames[name] = true
		}

	case *syntax.NonlocalStmt:
		n.SetScope(scope)
		for _, name := range n.Names {
			scope.NonlocalNames[name] = true
		}

	case *syntax.Ident:
		n.SetScope(scope)
		if scope.Kind == syntax.ClassScope {
			switch n.Ctx {
			case syntax.Load:
				scope.NonlocalNames[n.Name] = true
			case syntax.Store:
				if _, ok := n.Parent().(*syntax.AugAssignStmt); ok {
					scope.NonlocalNames[n.Name] = true
				}
			}
		}

	default:
		n.SetScope(scope)
		syntax.EachChild(n, func(child syntax.Node) { walkScope(child, scope) })
	}
}

// typeParamScope interposes an annotation scope when a definition
// carries type parameters, and returns it (nil otherwise). The type
// parameters themselves live in the new scope.
func typeParamScope(n syntax.Node, name string, params []syntax.TypeParam, scope *syntax.Scope) *syntax.Scope {
	if len(params) == 0 {
		return nil
	}
	ann := syntax.NewScope(syntax.AnnotationScope, name, n)
	scope.AddChild(ann)
	for _, tp := range params {
		walkScope(tp, ann)
	}
	return ann
}

// walkParams distributes the parts of a parameter list over three
// scopes: defaults are evaluated in the enclosing scope, annotations in
// annScope (the annotation scope when one exists, else the enclosing
// scope), and the parameter names belong to the function scope.
func walkParams(args *syntax.Arguments, enclosing, annScope, fn *syntax.Scope) {
	if args == nil {
		return
	}
	args.SetScope(fn)
	param := func(p *syntax.Param) {
		if p == nil {
			return
		}
		p.SetScope(fn)
		if p.Annotation != nil {
			walkScope(p.Annotation, annScope)
		}
	}
	for _, p := range args.PosOnly {
		param(p)
	}
	for _, p := range args.Args {
		param(p)
	}
	for _, x := range args.Defaults {
		walkScope(x, enclosing)
	}
	param(args.Vararg)
	for _, p := range args.KwOnly {
		param(p)
	}
	for _, x := range args.KwDefaults {
		if x != nil {
			walkScope(x, enclosing)
		}
	}
	param(args.Kwarg)
}

// enclosingNonClass returns the nearest enclosing scope of s that is
// not a class scope. Class scopes are transparent to lexical lookup
// from nested scopes.
func enclosingNonClass(s *syntax.Scope) *syntax.Scope {
	p := s.Parent()
	for p != nil && p.Kind == syntax.ClassScope {
		p = p.Parent()
	}
	if p == nil {
		log.Panicf("no enclosing scope for %s %s", s.Kind, s.Name)
	}
	return p
}
