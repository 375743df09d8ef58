// Copyright 2025 The pyshrink Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// Decoding of tree dumps produced by the external CPython front end.
//
// pyshrink reuses the host interpreter's parser (internal/pydump runs
// an embedded script against python3) so that parse behavior always
// matches the dialect version being minified. The script serializes
// the ast module's tree generically: every node becomes an object with
// a "_type" discriminator, position attributes, and the node's fields;
// field names and shapes are CPython's own.
//
// Malformed input and unknown node kinds are input errors, reported
// with the nearest source position, never panics: the front end is an
// input source, not an internal invariant.

import (
	"encoding/json"
	"fmt"
)

// DecodeModule converts a JSON tree dump into a syntax tree.
// path names the source file for positions and diagnostics.
func DecodeModule(data []byte, path string) (mod *Module, err error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: decoding tree dump: %w", path, err)
	}

	d := &decoder{file: &path}
	defer func() {
		if e := recover(); e != nil {
			de, ok := e.(decodeError)
			if !ok {
				panic(e)
			}
			mod, err = nil, de.err
		}
	}()

	root := d.object(raw)
	if t := d.nodeType(root); t != "Module" {
		d.fail("root node is %q, want Module", t)
	}
	mod = &Module{Path: path, Body: d.stmts(root, "body")}
	mod.setSpan(d.spanOf(root))
	return mod, nil
}

// decodeError carries an Error out of the recursive decode.
type decodeError struct{ err Error }

type decoder struct {
	file *string
	pos  Position // position of the nearest enclosing positioned node
}

func (d *decoder) fail(format string, args ...interface{}) {
	panic(decodeError{Error{Pos: d.pos, Msg: fmt.Sprintf(format, args...)}})
}

func (d *decoder) object(v interface{}) map[string]interface{} {
	m, ok := v.(map[string]interface{})
	if !ok {
		d.fail("want JSON object, got %T", v)
	}
	return m
}

func (d *decoder) nodeType(m map[string]interface{}) string {
	t, ok := m["_type"].(string)
	if !ok {
		d.fail("node object has no _type")
	}
	return t
}

// spanOf reads a node's position attributes, if present, and advances
// the decoder's error anchor. CPython lines are 1-based and columns
// 0-based; Position columns are 1-based.
func (d *decoder) spanOf(m map[string]interface{}) (start, end Position) {
	num := func(field string) (int32, bool) {
		f, ok := m[field].(float64)
		return int32(f), ok
	}
	start, end = d.pos, d.pos
	if line, ok := num("lineno"); ok {
		col, _ := num("col_offset")
		start = MakePosition(d.file, line, col+1)
		end = start
		d.pos = start
	}
	if line, ok := num("end_lineno"); ok {
		col, _ := num("end_col_offset")
		end = MakePosition(d.file, line, col+1)
	}
	return start, end
}

func (d *decoder) list(m map[string]interface{}, field string) []interface{} {
	v, ok := m[field]
	if !ok || v == nil {
		return nil
	}
	l, ok := v.([]interface{})
	if !ok {
		d.fail("field %q: want JSON array, got %T", field, v)
	}
	return l
}

func (d *decoder) str(m map[string]interface{}, field string) string {
	v, ok := m[field]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		d.fail("field %q: want string, got %T", field, v)
	}
	return s
}

func (d *decoder) int(m map[string]interface{}, field string) int {
	v, ok := m[field]
	if !ok || v == nil {
		return 0
	}
	f, ok := v.(float64)
	if !ok {
		d.fail("field %q: want number, got %T", field, v)
	}
	return int(f)
}

func (d *decoder) strings(m map[string]interface{}, field string) []string {
	var names []string
	for _, v := range d.list(m, field) {
		s, ok := v.(string)
		if !ok {
			d.fail("field %q: want string element, got %T", field, v)
		}
		names = append(names, s)
	}
	return names
}

// op reads an operator or context node ({"_type": "Add"}) as its name.
func (d *decoder) op(v interface{}) string {
	return d.nodeType(d.object(v))
}

func (d *decoder) ctx(m map[string]interface{}) Context {
	v, ok := m["ctx"]
	if !ok || v == nil {
		return Load
	}
	switch t := d.op(v); t {
	case "Load":
		return Load
	case "Store":
		return Store
	case "Del":
		return Del
	default:
		d.fail("unknown expression context %q", t)
		panic("unreachable")
	}
}

func (d *decoder) stmts(m map[string]interface{}, field string) []Stmt {
	var list []Stmt
	for _, v := range d.list(m, field) {
		list = append(list, d.stmt(v))
	}
	return list
}

func (d *decoder) exprs(m map[string]interface{}, field string) []Expr {
	var list []Expr
	for _, v := range d.list(m, field) {
		list = append(list, d.expr(v))
	}
	return list
}

// exprsOrNil is like exprs but keeps nil entries (dict unpacking keys,
// absent keyword-only defaults).
func (d *decoder) exprsOrNil(m map[string]interface{}, field string) []Expr {
	var list []Expr
	for _, v := range d.list(m, field) {
		if v == nil {
			list = append(list, nil)
		} else {
			list = append(list, d.expr(v))
		}
	}
	return list
}

func (d *decoder) optExpr(m map[string]interface{}, field string) Expr {
	v, ok := m[field]
	if !ok || v == nil {
		return nil
	}
	return d.expr(v)
}

func (d *decoder) stmt(v interface{}) Stmt {
	m := d.object(v)
	saved := d.pos
	defer func() { d.pos = saved }()
	start, end := d.spanOf(m)

	var s Stmt
	switch t := d.nodeType(m); t {
	case "Assign":
		s = &AssignStmt{Targets: d.exprs(m, "targets"), Value: d.expr(m["value"])}
	case "AugAssign":
		s = &AugAssignStmt{Target: d.expr(m["target"]), Op: d.op(m["op"]), Value: d.expr(m["value"])}
	case "AnnAssign":
		s = &AnnAssignStmt{Target: d.expr(m["target"]), Annotation: d.expr(m["annotation"]), Value: d.optExpr(m, "value")}
	case "FunctionDef", "AsyncFunctionDef":
		s = &DefStmt{
			Name:       d.str(m, "name"),
			Decorators: d.exprs(m, "decorator_list"),
			TypeParams: d.typeParams(m),
			Args:       d.arguments(m["args"]),
			Returns:    d.optExpr(m, "returns"),
			Body:       d.stmts(m, "body"),
			IsAsync:    t == "AsyncFunctionDef",
		}
	case "ClassDef":
		s = &ClassDefStmt{
			Name:       d.str(m, "name"),
			Decorators: d.exprs(m, "decorator_list"),
			TypeParams: d.typeParams(m),
			Bases:      d.exprs(m, "bases"),
			Keywords:   d.keywords(m),
			Body:       d.stmts(m, "body"),
		}
	case "Return":
		s = &ReturnStmt{Value: d.optExpr(m, "value")}
	case "Delete":
		s = &DeleteStmt{Targets: d.exprs(m, "targets")}
	case "Import":
		s = &ImportStmt{Names: d.aliases(m)}
	case "ImportFrom":
		s = &ImportFromStmt{Module: d.str(m, "module"), Names: d.aliases(m), Level: d.int(m, "level")}
	case "Global":
		s = &GlobalStmt{Names: d.strings(m, "names")}
	case "Nonlocal":
		s = &NonlocalStmt{Names: d.strings(m, "names")}
	case "Expr":
		s = &ExprStmt{X: d.expr(m["value"])}
	case "Pass", "Break", "Continue":
		keywords := map[string]string{"Pass": "pass", "Break": "break", "Continue": "continue"}
		s = &BranchStmt{Keyword: keywords[t]}
	case "If":
		s = &IfStmt{Cond: d.expr(m["test"]), Body: d.stmts(m, "body"), Else: d.stmts(m, "orelse")}
	case "For", "AsyncFor":
		s = &ForStmt{
			Target:  d.expr(m["target"]),
			Iter:    d.expr(m["iter"]),
			Body:    d.stmts(m, "body"),
			Else:    d.stmts(m, "orelse"),
			IsAsync: t == "AsyncFor",
		}
	case "While":
		s = &WhileStmt{Cond: d.expr(m["test"]), Body: d.stmts(m, "body"), Else: d.stmts(m, "orelse")}
	case "With", "AsyncWith":
		var items []*WithItem
		for _, v := range d.list(m, "items") {
			items = append(items, d.withItem(v))
		}
		s = &WithStmt{Items: items, Body: d.stmts(m, "body"), IsAsync: t == "AsyncWith"}
	case "Raise":
		s = &RaiseStmt{Exc: d.optExpr(m, "exc"), Cause: d.optExpr(m, "cause")}
	case "Try", "TryStar":
		var handlers []*ExceptHandler
		for _, v := range d.list(m, "handlers") {
			handlers = append(handlers, d.exceptHandler(v))
		}
		s = &TryStmt{Body: d.stmts(m, "body"), Handlers: handlers, Else: d.stmts(m, "orelse"), Final: d.stmts(m, "finalbody")}
	case "Assert":
		s = &AssertStmt{Cond: d.expr(m["test"]), Msg: d.optExpr(m, "msg")}
	case "Match":
		var cases []*MatchCase
		for _, v := range d.list(m, "cases") {
			cases = append(cases, d.matchCase(v))
		}
		s = &MatchStmt{Subject: d.expr(m["subject"]), Cases: cases}
	case "Exec":
		s = &ExecStmt{Code: d.expr(m["body"]), Globals: d.optExpr(m, "globals"), Locals: d.optExpr(m, "locals")}
	default:
		d.fail("unknown statement kind %q", t)
	}
	setSpan(s, start, end)
	return s
}

func (d *decoder) expr(v interface{}) Expr {
	if v == nil {
		d.fail("missing expression")
	}
	m := d.object(v)
	saved := d.pos
	defer func() { d.pos = saved }()
	start, end := d.spanOf(m)

	var x Expr
	switch t := d.nodeType(m); t {
	case "Name":
		x = &Ident{Name: d.str(m, "id"), Ctx: d.ctx(m)}
	case "Attribute":
		x = &DotExpr{X: d.expr(m["value"]), Name: d.str(m, "attr"), Ctx: d.ctx(m)}
	case "Subscript":
		x = &IndexExpr{X: d.expr(m["value"]), Index: d.expr(m["slice"]), Ctx: d.ctx(m)}
	case "Slice":
		x = &SliceExpr{Lo: d.optExpr(m, "lower"), Hi: d.optExpr(m, "upper"), Step: d.optExpr(m, "step")}
	case "Call":
		x = &CallExpr{Fn: d.expr(m["func"]), Args: d.exprs(m, "args"), Keywords: d.keywords(m)}
	case "Lambda":
		x = &LambdaExpr{Args: d.arguments(m["args"]), Body: d.expr(m["body"])}
	case "IfExp":
		x = &CondExpr{Cond: d.expr(m["test"]), True: d.expr(m["body"]), False: d.expr(m["orelse"])}
	case "Dict":
		x = &DictExpr{Keys: d.exprsOrNil(m, "keys"), Values: d.exprs(m, "values")}
	case "Set":
		x = &SetExpr{Elems: d.exprs(m, "elts")}
	case "List":
		x = &ListExpr{Elems: d.exprs(m, "elts"), Ctx: d.ctx(m)}
	case "Tuple":
		x = &TupleExpr{Elems: d.exprs(m, "elts"), Ctx: d.ctx(m)}
	case "ListComp":
		x = &Comprehension{Kind: ListComp, Body: d.expr(m["elt"]), Clauses: d.compClauses(m)}
	case "SetComp":
		x = &Comprehension{Kind: SetComp, Body: d.expr(m["elt"]), Clauses: d.compClauses(m)}
	case "GeneratorExp":
		x = &Comprehension{Kind: GeneratorExp, Body: d.expr(m["elt"]), Clauses: d.compClauses(m)}
	case "DictComp":
		x = &Comprehension{Kind: DictComp, Key: d.expr(m["key"]), Value: d.expr(m["value"]), Clauses: d.compClauses(m)}
	case "BinOp":
		x = &BinaryExpr{X: d.expr(m["left"]), Op: d.op(m["op"]), Y: d.expr(m["right"])}
	case "UnaryOp":
		x = &UnaryExpr{Op: d.op(m["op"]), X: d.expr(m["operand"])}
	case "Compare":
		var ops []string
		for _, v := range d.list(m, "ops") {
			ops = append(ops, d.op(v))
		}
		x = &CompareExpr{X: d.expr(m["left"]), Ops: ops, Ys: d.exprs(m, "comparators")}
	case "BoolOp":
		x = &BoolExpr{Op: d.op(m["op"]), Values: d.exprs(m, "values")}
	case "Constant":
		x = &Literal{Value: m["value"]}
	case "Num":
		x = &Literal{Value: m["n"]} // legacy pre-3.8 form
	case "Str", "Bytes":
		x = &Literal{Value: m["s"]}
	case "NameConstant":
		x = &Literal{Value: m["value"]}
	case "Ellipsis":
		x = &Literal{Value: "..."}
	case "Starred":
		x = &StarExpr{X: d.expr(m["value"]), Ctx: d.ctx(m)}
	case "NamedExpr":
		target, ok := d.expr(m["target"]).(*Ident)
		if !ok {
			d.fail("NamedExpr target is not a Name")
		}
		x = &NamedExpr{Target: target, Value: d.expr(m["value"])}
	case "JoinedStr":
		x = &FStringExpr{Values: d.exprs(m, "values")}
	case "FormattedValue":
		x = &FormattedValue{Value: d.expr(m["value"]), FormatSpec: d.optExpr(m, "format_spec")}
	case "Await":
		x = &AwaitExpr{X: d.expr(m["value"])}
	case "Yield":
		x = &YieldExpr{Value: d.optExpr(m, "value")}
	case "YieldFrom":
		x = &YieldExpr{Value: d.expr(m["value"]), IsFrom: true}
	default:
		d.fail("unknown expression kind %q", t)
	}
	setSpan(x, start, end)
	return x
}

func (d *decoder) arguments(v interface{}) *Arguments {
	if v == nil {
		return &Arguments{}
	}
	m := d.object(v)
	args := &Arguments{
		PosOnly:    d.params(m, "posonlyargs"),
		Args:       d.params(m, "args"),
		Defaults:   d.exprs(m, "defaults"),
		KwOnly:     d.params(m, "kwonlyargs"),
		KwDefaults: d.exprsOrNil(m, "kw_defaults"),
	}
	if w := m["vararg"]; w != nil {
		args.Vararg = d.param(w)
	}
	if w := m["kwarg"]; w != nil {
		args.Kwarg = d.param(w)
	}
	args.setSpan(d.pos, d.pos)
	return args
}

func (d *decoder) params(m map[string]interface{}, field string) []*Param {
	var list []*Param
	for _, v := range d.list(m, field) {
		list = append(list, d.param(v))
	}
	return list
}

func (d *decoder) param(v interface{}) *Param {
	m := d.object(v)
	saved := d.pos
	defer func() { d.pos = saved }()
	start, end := d.spanOf(m)
	p := &Param{Name: d.str(m, "arg"), Annotation: d.optExpr(m, "annotation")}
	p.setSpan(start, end)
	return p
}

func (d *decoder) aliases(m map[string]interface{}) []*Alias {
	var list []*Alias
	for _, v := range d.list(m, "names") {
		am := d.object(v)
		start, end := d.spanOf(am)
		a := &Alias{Name: d.str(am, "name"), AsName: d.str(am, "asname")}
		a.setSpan(start, end)
		list = append(list, a)
	}
	return list
}

func (d *decoder) keywords(m map[string]interface{}) []*KeywordArg {
	var list []*KeywordArg
	for _, v := range d.list(m, "keywords") {
		km := d.object(v)
		start, end := d.spanOf(km)
		kw := &KeywordArg{Name: d.str(km, "arg"), Value: d.expr(km["value"])}
		kw.setSpan(start, end)
		list = append(list, kw)
	}
	return list
}

func (d *decoder) withItem(v interface{}) *WithItem {
	m := d.object(v)
	item := &WithItem{Context: d.expr(m["context_expr"]), Vars: d.optExpr(m, "optional_vars")}
	item.setSpan(d.pos, d.pos)
	return item
}

func (d *decoder) exceptHandler(v interface{}) *ExceptHandler {
	m := d.object(v)
	saved := d.pos
	defer func() { d.pos = saved }()
	start, end := d.spanOf(m)
	h := &ExceptHandler{Type: d.optExpr(m, "type"), Name: d.str(m, "name"), Body: d.stmts(m, "body")}
	h.setSpan(start, end)
	return h
}

func (d *decoder) matchCase(v interface{}) *MatchCase {
	m := d.object(v)
	c := &MatchCase{Pattern: d.pattern(m["pattern"]), Guard: d.optExpr(m, "guard"), Body: d.stmts(m, "body")}
	c.setSpan(d.pos, d.pos)
	return c
}

func (d *decoder) patterns(m map[string]interface{}, field string) []Pattern {
	var list []Pattern
	for _, v := range d.list(m, field) {
		list = append(list, d.pattern(v))
	}
	return list
}

func (d *decoder) pattern(v interface{}) Pattern {
	m := d.object(v)
	saved := d.pos
	defer func() { d.pos = saved }()
	start, end := d.spanOf(m)

	var p Pattern
	switch t := d.nodeType(m); t {
	case "MatchValue":
		p = &MatchValue{X: d.expr(m["value"])}
	case "MatchSingleton":
		p = &MatchSingleton{Value: m["value"]}
	case "MatchSequence":
		p = &MatchSequence{Patterns: d.patterns(m, "patterns")}
	case "MatchMapping":
		p = &MatchMapping{Keys: d.exprs(m, "keys"), Patterns: d.patterns(m, "patterns"), Rest: d.str(m, "rest")}
	case "MatchClass":
		p = &MatchClass{
			Cls:         d.expr(m["cls"]),
			Patterns:    d.patterns(m, "patterns"),
			KwdNames:    d.strings(m, "kwd_attrs"),
			KwdPatterns: d.patterns(m, "kwd_patterns"),
		}
	case "MatchStar":
		p = &MatchStar{Name: d.str(m, "name")}
	case "MatchAs":
		var sub Pattern
		if m["pattern"] != nil {
			sub = d.pattern(m["pattern"])
		}
		p = &MatchAs{Pattern: sub, Name: d.str(m, "name")}
	case "MatchOr":
		p = &MatchOr{Patterns: d.patterns(m, "patterns")}
	default:
		d.fail("unknown pattern kind %q", t)
	}
	setSpan(p, start, end)
	return p
}

func (d *decoder) typeParams(m map[string]interface{}) []TypeParam {
	var list []TypeParam
	for _, v := range d.list(m, "type_params") {
		tm := d.object(v)
		saved := d.pos
		start, end := d.spanOf(tm)

		var tp TypeParam
		switch t := d.nodeType(tm); t {
		case "TypeVar":
			tp = &TypeVar{Name: d.str(tm, "name"), Bound: d.optExpr(tm, "bound")}
		case "TypeVarTuple":
			tp = &TypeVarTuple{Name: d.str(tm, "name")}
		case "ParamSpec":
			tp = &ParamSpec{Name: d.str(tm, "name")}
		default:
			d.fail("unknown type parameter kind %q", t)
		}
		setSpan(tp, start, end)
		list = append(list, tp)
		d.pos = saved
	}
	return list
}

func (d *decoder) compClauses(m map[string]interface{}) []*CompClause {
	var list []*CompClause
	for _, v := range d.list(m, "generators") {
		cm := d.object(v)
		clause := &CompClause{
			Target:  d.expr(cm["target"]),
			Iter:    d.expr(cm["iter"]),
			Ifs:     d.exprs(cm, "ifs"),
			IsAsync: d.int(cm, "is_async") != 0,
		}
		clause.setSpan(d.pos, d.pos)
		list = append(list, clause)
	}
	return list
}

// setSpan sets the span through the Node interface; the embedded
// node's setSpan is not promoted across interface values.
func setSpan(n Node, start, end Position) {
	type spanner interface{ setSpan(start, end Position) }
	n.(spanner).setSpan(start, end)
}
