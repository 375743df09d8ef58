// Copyright 2025 The pyshrink Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import "log"

// EachChild calls f for each immediate child of node n, in source
// (field declaration) order. Optional children that are absent are
// skipped. Downstream passes rely on this order: it determines the
// order of bindings and references.
//
// A node kind missing from the dispatch is an internal error and
// panics with the node's kind and position; silently skipping a kind
// could mis-resolve names.
func EachChild(n Node, f func(Node)) {
	expr := func(x Expr) {
		if x != nil {
			f(x)
		}
	}
	exprs := func(list []Expr) {
		for _, x := range list {
			if x != nil {
				f(x)
			}
		}
	}
	stmts := func(list []Stmt) {
		for _, s := range list {
			f(s)
		}
	}
	patterns := func(list []Pattern) {
		for _, p := range list {
			f(p)
		}
	}
	typeParams := func(list []TypeParam) {
		for _, tp := range list {
			f(tp)
		}
	}
	keywords := func(list []*KeywordArg) {
		for _, kw := range list {
			f(kw)
		}
	}
	params := func(list []*Param) {
		for _, p := range list {
			f(p)
		}
	}

	switch n := n.(type) {
	case *Module:
		stmts(n.Body)

	// statements
	case *AssignStmt:
		exprs(n.Targets)
		expr(n.Value)
	case *AugAssignStmt:
		expr(n.Target)
		expr(n.Value)
	case *AnnAssignStmt:
		expr(n.Target)
		expr(n.Annotation)
		expr(n.Value)
	case *DefStmt:
		exprs(n.Decorators)
		typeParams(n.TypeParams)
		if n.Args != nil {
			f(n.Args)
		}
		expr(n.Returns)
		stmts(n.Body)
	case *ClassDefStmt:
		exprs(n.Decorators)
		typeParams(n.TypeParams)
		exprs(n.Bases)
		keywords(n.Keywords)
		stmts(n.Body)
	case *ReturnStmt:
		expr(n.Value)
	case *DeleteStmt:
		exprs(n.Targets)
	case *ImportStmt:
		for _, a := range n.Names {
			f(a)
		}
	case *ImportFromStmt:
		for _, a := range n.Names {
			f(a)
		}
	case *GlobalStmt, *NonlocalStmt, *BranchStmt:
		// no children
	case *ExprStmt:
		expr(n.X)
	case *IfStmt:
		expr(n.Cond)
		stmts(n.Body)
		stmts(n.Else)
	case *ForStmt:
		expr(n.Target)
		expr(n.Iter)
		stmts(n.Body)
		stmts(n.Else)
	case *WhileStmt:
		expr(n.Cond)
		stmts(n.Body)
		stmts(n.Else)
	case *WithStmt:
		for _, item := range n.Items {
			f(item)
		}
		stmts(n.Body)
	case *RaiseStmt:
		expr(n.Exc)
		expr(n.Cause)
	case *TryStmt:
		stmts(n.Body)
		for _, h := range n.Handlers {
			f(h)
		}
		stmts(n.Else)
		stmts(n.Final)
	case *AssertStmt:
		expr(n.Cond)
		expr(n.Msg)
	case *MatchStmt:
		expr(n.Subject)
		for _, c := range n.Cases {
			f(c)
		}
	case *ExecStmt:
		expr(n.Code)
		expr(n.Globals)
		expr(n.Locals)

	// expressions
	case *Ident, *Literal:
		// no children
	case *DotExpr:
		expr(n.X)
	case *IndexExpr:
		expr(n.X)
		expr(n.Index)
	case *SliceExpr:
		expr(n.Lo)
		expr(n.Hi)
		expr(n.Step)
	case *CallExpr:
		expr(n.Fn)
		exprs(n.Args)
		keywords(n.Keywords)
	case *LambdaExpr:
		if n.Args != nil {
			f(n.Args)
		}
		expr(n.Body)
	case *CondExpr:
		expr(n.Cond)
		expr(n.True)
		expr(n.False)
	case *DictExpr:
		for i := range n.Values {
			if i < len(n.Keys) && n.Keys[i] != nil {
				f(n.Keys[i])
			}
			expr(n.Values[i])
		}
	case *SetExpr:
		exprs(n.Elems)
	case *ListExpr:
		exprs(n.Elems)
	case *TupleExpr:
		exprs(n.Elems)
	case *Comprehension:
		expr(n.Body)
		expr(n.Key)
		expr(n.Value)
		for _, clause := range n.Clauses {
			f(clause)
		}
	case *CompClause:
		expr(n.Target)
		expr(n.Iter)
		exprs(n.Ifs)
	case *BinaryExpr:
		expr(n.X)
		expr(n.Y)
	case *UnaryExpr:
		expr(n.X)
	case *CompareExpr:
		expr(n.X)
		exprs(n.Ys)
	case *BoolExpr:
		exprs(n.Values)
	case *StarExpr:
		expr(n.X)
	case *NamedExpr:
		f(n.Target)
		expr(n.Value)
	case *FStringExpr:
		exprs(n.Values)
	case *FormattedValue:
		expr(n.Value)
		expr(n.FormatSpec)
	case *AwaitExpr:
		expr(n.X)
	case *YieldExpr:
		expr(n.Value)

	// auxiliary nodes
	case *Arguments:
		params(n.PosOnly)
		params(n.Args)
		exprs(n.Defaults)
		if n.Vararg != nil {
			f(n.Vararg)
		}
		params(n.KwOnly)
		exprs(n.KwDefaults)
		if n.Kwarg != nil {
			f(n.Kwarg)
		}
	case *Param:
		expr(n.Annotation)
	case *Alias:
		// no children
	case *KeywordArg:
		expr(n.Value)
	case *WithItem:
		expr(n.Context)
		expr(n.Vars)
	case *ExceptHandler:
		expr(n.Type)
		stmts(n.Body)
	case *MatchCase:
		f(n.Pattern)
		expr(n.Guard)
		stmts(n.Body)

	// patterns
	case *MatchValue:
		expr(n.X)
	case *MatchSingleton, *MatchStar:
		// no children
	case *MatchSequence:
		patterns(n.Patterns)
	case *MatchMapping:
		exprs(n.Keys)
		patterns(n.Patterns)
	case *MatchClass:
		expr(n.Cls)
		patterns(n.Patterns)
		patterns(n.KwdPatterns)
	case *MatchAs:
		if n.Pattern != nil {
			f(n.Pattern)
		}
	case *MatchOr:
		patterns(n.Patterns)

	// type parameters
	case *TypeVar:
		expr(n.Bound)
	case *TypeVarTuple, *ParamSpec:
		// no children

	default:
		log.Panicf("%s: unknown node kind %T", Start(n), n)
	}
}

// Walk traverses a syntax tree in depth-first order.
// It calls f(n) for each node n before it visits the children of n;
// if f returns false, the children are skipped.
// Walk then calls f(nil) to signal that the traversal of n is done.
func Walk(n Node, f func(Node) bool) {
	if !f(n) {
		return
	}
	EachChild(n, func(child Node) { Walk(child, f) })
	f(nil)
}
