// Copyright 2025 The pyshrink Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pyshrink/pyshrink/internal/chunkedfile"
	"github.com/pyshrink/pyshrink/resolve"
	"github.com/pyshrink/pyshrink/syntax"
)

// Tree construction helpers. Tests build syntax trees directly: the
// parser is an external collaborator and resolution only looks at
// structure, never at positions or source text.

func module(stmts ...syntax.Stmt) *syntax.Module {
	return &syntax.Module{Path: "test.py", Body: stmts}
}

func load(name string) *syntax.Ident  { return &syntax.Ident{Name: name, Ctx: syntax.Load} }
func store(name string) *syntax.Ident { return &syntax.Ident{Name: name, Ctx: syntax.Store} }
func lit(v interface{}) *syntax.Literal {
	return &syntax.Literal{Value: v}
}

func assign(name string, value syntax.Expr) *syntax.AssignStmt {
	return &syntax.AssignStmt{Targets: []syntax.Expr{store(name)}, Value: value}
}

func exprStmt(x syntax.Expr) *syntax.ExprStmt { return &syntax.ExprStmt{X: x} }

func call(fn syntax.Expr, args ...syntax.Expr) *syntax.CallExpr {
	return &syntax.CallExpr{Fn: fn, Args: args}
}

func add(x, y syntax.Expr) *syntax.BinaryExpr {
	return &syntax.BinaryExpr{X: x, Op: "Add", Y: y}
}

func def(name string, args *syntax.Arguments, body ...syntax.Stmt) *syntax.DefStmt {
	if args == nil {
		args = &syntax.Arguments{}
	}
	if len(body) == 0 {
		body = []syntax.Stmt{pass()}
	}
	return &syntax.DefStmt{Name: name, Args: args, Body: body}
}

func class(name string, body ...syntax.Stmt) *syntax.ClassDefStmt {
	return &syntax.ClassDefStmt{Name: name, Body: body}
}

func params(names ...string) *syntax.Arguments {
	args := &syntax.Arguments{}
	for _, name := range names {
		args.Args = append(args.Args, &syntax.Param{Name: name})
	}
	return args
}

func pass() *syntax.BranchStmt { return &syntax.BranchStmt{Keyword: "pass"} }

func globalStmt(names ...string) *syntax.GlobalStmt {
	return &syntax.GlobalStmt{Names: names}
}

func nonlocalStmt(names ...string) *syntax.NonlocalStmt {
	return &syntax.NonlocalStmt{Names: names}
}

func TestResolveScenarios(t *testing.T) {
	for _, test := range []struct {
		name string
		mod  func() *syntax.Module
		want string
	}{
		{
			// A = 'x'; A = 'y'; print(A + A)
			name: "redefined global",
			mod: func() *syntax.Module {
				return module(
					assign("A", lit("x")),
					assign("A", lit("y")),
					exprStmt(call(load("print"), add(load("A"), load("A")))),
				)
			},
			want: `module
  A name refs=4
  print builtin refs=1
`,
		},
		{
			// def A():
			//     global A, B
			//     def n():
			//         nonlocal A
			//         global B
			//     def c():
			//         global c
			name: "global and nonlocal declarations",
			mod: func() *syntax.Module {
				return module(
					def("A", nil,
						globalStmt("A", "B"),
						def("n", nil, nonlocalStmt("A"), globalStmt("B")),
						def("c", nil, globalStmt("c")),
					),
				)
			},
			want: `module
  A name refs=3
  B name refs=2
  c name refs=1
  function A
    global A B
    n name refs=1
    c name refs=1
    function n
      global B
      nonlocal A
    function c
      global c
`,
		},
		{
			// A = 1
			// class C:
			//     A = A + 1
			name: "class free variable",
			mod: func() *syntax.Module {
				return module(
					assign("A", lit(1)),
					class("C", assign("A", add(load("A"), lit(1)))),
				)
			},
			want: `module
  A name refs=3
  C name refs=1
  class C
    nonlocal A
`,
		},
		{
			// class C:
			//     A = 1
			//     A += 1
			name: "class compound update",
			mod: func() *syntax.Module {
				return module(
					class("C",
						assign("A", lit(1)),
						&syntax.AugAssignStmt{Target: store("A"), Op: "Add", Value: lit(1)},
					),
				)
			},
			want: `module
  C name refs=1
  A placeholder refs=2 norename
  class C
    nonlocal A
`,
		},
		{
			// CONST = 1
			// def f[T](x: T = CONST) -> T: pass
			name: "type parameters",
			mod: func() *syntax.Module {
				return module(
					assign("CONST", lit(1)),
					&syntax.DefStmt{
						Name:       "f",
						TypeParams: []syntax.TypeParam{&syntax.TypeVar{Name: "T"}},
						Args: &syntax.Arguments{
							Args:     []*syntax.Param{{Name: "x", Annotation: load("T")}},
							Defaults: []syntax.Expr{load("CONST")},
						},
						Returns: load("T"),
						Body:    []syntax.Stmt{pass()},
					},
				)
			},
			want: `module
  CONST name refs=2
  f name refs=1
  annotation f
    T name refs=3
    function f
      x name refs=1
`,
		},
		{
			// import a.b.c
			name: "dotted import",
			mod: func() *syntax.Module {
				return module(
					&syntax.ImportStmt{Names: []*syntax.Alias{{Name: "a.b.c"}}},
				)
			},
			want: `module
  a name refs=1 norename
`,
		},
		{
			// import a.b.c as m
			// from d import e as f, g
			name: "aliased imports",
			mod: func() *syntax.Module {
				return module(
					&syntax.ImportStmt{Names: []*syntax.Alias{{Name: "a.b.c", AsName: "m"}}},
					&syntax.ImportFromStmt{Module: "d", Names: []*syntax.Alias{
						{Name: "e", AsName: "f"},
						{Name: "g"},
					}},
				)
			},
			want: `module
  m name refs=1
  f name refs=1
  g name refs=1
`,
		},
		{
			// eval("A"); missing
			name: "builtin fallback and placeholder",
			mod: func() *syntax.Module {
				return module(
					exprStmt(call(load("eval"), lit("A"))),
					exprStmt(load("missing")),
				)
			},
			want: `module tainted
  eval builtin refs=1
  missing placeholder refs=1 norename
`,
		},
		{
			// x = 1
			// def outer():
			//     x = 2
			//     def inner():
			//         global x
			//         x = 3
			name: "global shadows intermediate scopes",
			mod: func() *syntax.Module {
				return module(
					assign("x", lit(1)),
					def("outer", nil,
						assign("x", lit(2)),
						def("inner", nil, globalStmt("x"), assign("x", lit(3))),
					),
				)
			},
			want: `module
  x name refs=3
  outer name refs=1
  function outer
    x name refs=1
    inner name refs=1
    function inner
      global x
`,
		},
		{
			// def f():
			//     x = 1
			//     class C:
			//         x = 2
			//         def m(self):
			//             nonlocal x
			//             x = 3
			name: "nonlocal skips class scopes",
			mod: func() *syntax.Module {
				return module(
					def("f", nil,
						assign("x", lit(1)),
						class("C",
							assign("x", lit(2)),
							def("m", params("self"), nonlocalStmt("x"), assign("x", lit(3))),
						),
					),
				)
			},
			want: `module
  f name refs=1
  function f
    x name refs=3
    C name refs=1
    class C
      x name refs=1
      m name refs=1
      function m
        nonlocal x
        self name refs=1
`,
		},
		{
			// xs = [1]
			// r = [y for y in xs if y]
			name: "comprehension first iterable",
			mod: func() *syntax.Module {
				return module(
					assign("xs", &syntax.ListExpr{Elems: []syntax.Expr{lit(1)}}),
					assign("r", &syntax.Comprehension{
						Kind: syntax.ListComp,
						Body: load("y"),
						Clauses: []*syntax.CompClause{{
							Target: store("y"),
							Iter:   load("xs"),
							Ifs:    []syntax.Expr{load("y")},
						}},
					}),
				)
			},
			want: `module
  xs name refs=2
  r name refs=1
  function ListComp
    y name refs=3
`,
		},
		{
			// f = lambda a, *rest: a
			name: "lambda parameters",
			mod: func() *syntax.Module {
				return module(
					assign("f", &syntax.LambdaExpr{
						Args: &syntax.Arguments{
							Args:   []*syntax.Param{{Name: "a"}},
							Vararg: &syntax.Param{Name: "rest"},
						},
						Body: load("a"),
					}),
				)
			},
			want: `module
  f name refs=1
  function lambda
    a name refs=2 norename
    rest name refs=1
`,
		},
		{
			// v = 1
			// try: pass
			// except Exception as err: err
			// match v:
			//     case w: w
			name: "capture names",
			mod: func() *syntax.Module {
				return module(
					assign("v", lit(1)),
					&syntax.TryStmt{
						Body: []syntax.Stmt{pass()},
						Handlers: []*syntax.ExceptHandler{{
							Type: load("Exception"),
							Name: "err",
							Body: []syntax.Stmt{exprStmt(load("err"))},
						}},
					},
					&syntax.MatchStmt{
						Subject: load("v"),
						Cases: []*syntax.MatchCase{{
							Pattern: &syntax.MatchAs{Name: "w"},
							Body:    []syntax.Stmt{exprStmt(load("w"))},
						}},
					},
				)
			},
			want: `module
  v name refs=2
  err name refs=2
  w name refs=2
  Exception builtin refs=1
`,
		},
		{
			// (n := 1); n
			name: "assignment expression",
			mod: func() *syntax.Module {
				return module(
					exprStmt(&syntax.NamedExpr{Target: store("n"), Value: lit(1)}),
					exprStmt(load("n")),
				)
			},
			want: `module
  n name refs=2
`,
		},
		{
			// exec "x"  (legacy)
			name: "exec statement taints module",
			mod: func() *syntax.Module {
				return module(&syntax.ExecStmt{Code: lit("x")})
			},
			want: `module tainted
`,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			top := resolve.Module(test.mod(), nil)
			got := resolve.FormatScope(top)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("scope dump mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// Every occurrence of a variable must share one binding, with
// references in pass order: defining occurrences first, then reads,
// each group in source order.
func TestBindingIdentity(t *testing.T) {
	w1, w2, read := store("A"), store("A"), load("A")
	mod := module(
		&syntax.AssignStmt{Targets: []syntax.Expr{w1}, Value: lit(1)},
		&syntax.AssignStmt{Targets: []syntax.Expr{w2}, Value: lit(2)},
		exprStmt(read),
	)
	top := resolve.Module(mod, nil)

	b := top.Lookup("A")
	if b == nil {
		t.Fatal("no module binding for A")
	}
	for i, id := range []*syntax.Ident{w1, w2, read} {
		if id.Binding != b {
			t.Errorf("occurrence %d: binding %p, want %p", i, id.Binding, b)
		}
	}
	want := []syntax.Node{w1, w2, read}
	if len(b.References) != len(want) {
		t.Fatalf("got %d references, want %d", len(b.References), len(want))
	}
	for i := range want {
		if b.References[i] != want[i] {
			t.Errorf("reference %d: got %T, want occurrence %d", i, b.References[i], i)
		}
	}
}

// The owning scope of a binding must be an ancestor-or-self of each
// reference's owning scope under the class-skipping walk.
func TestBindingScopeIsAncestor(t *testing.T) {
	mod := module(
		assign("x", lit(1)),
		def("f", nil,
			class("C",
				def("m", params("self"), exprStmt(load("x"))),
			),
		),
	)
	top := resolve.Module(mod, nil)

	b := top.Lookup("x")
	if b == nil {
		t.Fatal("no module binding for x")
	}
	for _, ref := range b.References {
		for s := ref.Scope(); ; s = s.Parent() {
			if s == top {
				break
			}
			if s == nil {
				t.Errorf("reference at %T: module scope is not an ancestor", ref)
				break
			}
		}
	}
}

// Parameter defaults are evaluated in the enclosing scope, and
// annotations in the annotation scope when type parameters interpose.
func TestParameterPartScopes(t *testing.T) {
	deflt := load("CONST")
	annot := load("T")
	mod := module(
		assign("CONST", lit(1)),
		&syntax.DefStmt{
			Name:       "f",
			TypeParams: []syntax.TypeParam{&syntax.TypeVar{Name: "T"}},
			Args: &syntax.Arguments{
				Args:     []*syntax.Param{{Name: "x", Annotation: annot}},
				Defaults: []syntax.Expr{deflt},
			},
			Body: []syntax.Stmt{pass()},
		},
	)
	top := resolve.Module(mod, nil)

	if deflt.Scope() != top {
		t.Errorf("default expression scope = %s %s, want module",
			deflt.Scope().Kind, deflt.Scope().Name)
	}
	if annot.Scope().Kind != syntax.AnnotationScope {
		t.Errorf("annotation scope kind = %s, want annotation", annot.Scope().Kind)
	}
	if annot.Binding == nil || annot.Binding.Kind != syntax.NameBinding {
		t.Errorf("type parameter reference did not resolve to its binding")
	}
}

// The builtin table is injected; resolution must not assume any
// particular environment.
func TestInjectedBuiltins(t *testing.T) {
	frob, print := load("frob"), load("print")
	mod := module(exprStmt(call(frob)), exprStmt(call(print)))
	resolve.Module(mod, func(name string) bool { return name == "frob" })

	if frob.Binding.Kind != syntax.BuiltinBinding {
		t.Errorf("frob resolved to %s binding, want builtin", frob.Binding.Kind)
	}
	if print.Binding.Kind != syntax.PlaceholderBinding {
		t.Errorf("print resolved to %s binding, want placeholder", print.Binding.Kind)
	}
	if print.Binding.RenameAllowed() {
		t.Error("placeholder binding must not be renameable")
	}
}

func TestDeterminism(t *testing.T) {
	build := func() *syntax.Module {
		return module(
			assign("x", lit(1)),
			def("f", params("a", "b"),
				exprStmt(call(load("print"), load("x"), load("a"))),
				class("C", assign("y", load("b"))),
			),
		)
	}
	first := resolve.FormatScope(resolve.Module(build(), nil))
	for i := 0; i < 3; i++ {
		got := resolve.FormatScope(resolve.Module(build(), nil))
		if got != first {
			t.Fatalf("run %d produced a different scope dump:\n%s\nfirst run:\n%s", i+2, got, first)
		}
	}
}

// TestScopeGoldens decodes front-end tree dumps and compares the
// resolved scope tree against golden output.
func TestScopeGoldens(t *testing.T) {
	for i, c := range chunkedfile.Read("testdata/scopes.txt", t) {
		mod, err := syntax.DecodeModule([]byte(c.Input), "golden.py")
		if err != nil {
			t.Errorf("%s:%d: decode: %v", c.Filename, c.Line, err)
			continue
		}
		got := resolve.FormatScope(resolve.Module(mod, nil))
		if diff := cmp.Diff(c.Want, got); diff != "" {
			t.Errorf("%s:%d: case %d mismatch (-want +got):\n%s", c.Filename, c.Line, i+1, diff)
		}
	}
}
