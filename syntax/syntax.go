// Copyright 2025 The pyshrink Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax defines the Python syntax tree analyzed by pyshrink.
//
// The tree is produced by an external front end (see internal/pydump)
// and decoded by DecodeModule; pyshrink does not parse Python source
// itself. Node positions therefore come from the front end rather than
// from an in-process scanner.
//
// Every node carries three annotation slots filled in by later passes:
// the parent link (SetParents), the owning scope (resolve.CreateScopes),
// and, for identifiers, the resolved binding (resolve.ResolveNames).
package syntax

// A Node is a node in a Python syntax tree.
type Node interface {
	// Span returns the start and end position of the node.
	Span() (start, end Position)

	// Parent returns the node's immediate syntactic parent.
	// It is nil until SetParents has run, and always nil for the root.
	Parent() Node

	// Scope returns the innermost lexical scope containing the node.
	// It is nil until the scope pass has run.
	Scope() *Scope

	// SetParent and SetScope attach analysis annotations.
	// They are called by SetParents and by the resolver's scope pass.
	SetParent(Node)
	SetScope(*Scope)
}

// node provides the span and annotation slots shared by all nodes.
type node struct {
	start, end Position
	parent     Node
	scope      *Scope
}

func (n *node) Span() (start, end Position) { return n.start, n.end }
func (n *node) Parent() Node                { return n.parent }
func (n *node) Scope() *Scope               { return n.scope }
func (n *node) SetParent(p Node)            { n.parent = p }
func (n *node) SetScope(s *Scope)           { n.scope = s }

func (n *node) setSpan(start, end Position) { n.start, n.end = start, end }

// Start returns the start position of the node.
func Start(n Node) Position {
	start, _ := n.Span()
	return start
}

// End returns the end position of the node.
func End(n Node) Position {
	_, end := n.Span()
	return end
}

// A Context records how an identifier (or other assignable expression)
// is used: read, written, or deleted.
type Context uint8

const (
	Load Context = iota
	Store
	Del
)

var contextNames = [...]string{
	Load:  "load",
	Store: "store",
	Del:   "del",
}

func (ctx Context) String() string { return contextNames[ctx] }

// A Module is the root of a syntax tree for one source file.
type Module struct {
	node
	Path string
	Body []Stmt
}

// A Stmt is a Python statement.
type Stmt interface {
	Node
	stmt()
}

func (*AssignStmt) stmt()     {}
func (*AugAssignStmt) stmt()  {}
func (*AnnAssignStmt) stmt()  {}
func (*DefStmt) stmt()        {}
func (*ClassDefStmt) stmt()   {}
func (*ReturnStmt) stmt()     {}
func (*DeleteStmt) stmt()     {}
func (*ImportStmt) stmt()     {}
func (*ImportFromStmt) stmt() {}
func (*GlobalStmt) stmt()     {}
func (*NonlocalStmt) stmt()   {}
func (*ExprStmt) stmt()       {}
func (*BranchStmt) stmt()     {}
func (*IfStmt) stmt()         {}
func (*ForStmt) stmt()        {}
func (*WhileStmt) stmt()      {}
func (*WithStmt) stmt()       {}
func (*RaiseStmt) stmt()      {}
func (*TryStmt) stmt()        {}
func (*AssertStmt) stmt()     {}
func (*MatchStmt) stmt()      {}
func (*ExecStmt) stmt()       {}

// An AssignStmt is an assignment: x = y, or x = y = z.
type AssignStmt struct {
	node
	Targets []Expr
	Value   Expr
}

// An AugAssignStmt is a compound update: x += y.
// Op names the operator as the front end reports it ("Add", "Sub", ...).
type AugAssignStmt struct {
	node
	Target Expr
	Op     string
	Value  Expr
}

// An AnnAssignStmt is an annotated assignment: x: T = y.
// Value may be nil.
type AnnAssignStmt struct {
	node
	Target     Expr
	Annotation Expr
	Value      Expr
}

// A DefStmt is a function definition, synchronous or async.
type DefStmt struct {
	node
	Name       string
	Decorators []Expr
	TypeParams []TypeParam
	Args       *Arguments
	Returns    Expr // return annotation, may be nil
	Body       []Stmt
	IsAsync    bool
}

// A ClassDefStmt is a class definition.
type ClassDefStmt struct {
	node
	Name       string
	Decorators []Expr
	TypeParams []TypeParam
	Bases      []Expr
	Keywords   []*KeywordArg
	Body       []Stmt
}

// A ReturnStmt returns from a function. Value may be nil.
type ReturnStmt struct {
	node
	Value Expr
}

// A DeleteStmt unbinds its targets: del x, y[0].
type DeleteStmt struct {
	node
	Targets []Expr
}

// An ImportStmt binds modules: import a.b, c as d.
type ImportStmt struct {
	node
	Names []*Alias
}

// An ImportFromStmt binds names from a module: from a import b as c.
// Level counts the leading dots of a relative import.
type ImportFromStmt struct {
	node
	Module string
	Names  []*Alias
	Level  int
}

// A GlobalStmt declares names as module-scope: global x, y.
type GlobalStmt struct {
	node
	Names []string
}

// A NonlocalStmt declares names as enclosing-scope: nonlocal x, y.
type NonlocalStmt struct {
	node
	Names []string
}

// An ExprStmt is an expression evaluated for effect (or a docstring).
type ExprStmt struct {
	node
	X Expr
}

// A BranchStmt is pass, break, or continue.
type BranchStmt struct {
	node
	Keyword string
}

// An IfStmt is a conditional. elif chains arrive desugared by the
// front end as nested IfStmts in Else.
type IfStmt struct {
	node
	Cond Expr
	Body []Stmt
	Else []Stmt // optional
}

// A ForStmt is a for (or async for) loop.
type ForStmt struct {
	node
	Target  Expr
	Iter    Expr
	Body    []Stmt
	Else    []Stmt // optional
	IsAsync bool
}

// A WhileStmt is a while loop.
type WhileStmt struct {
	node
	Cond Expr
	Body []Stmt
	Else []Stmt // optional
}

// A WithStmt is a with (or async with) block.
type WithStmt struct {
	node
	Items   []*WithItem
	Body    []Stmt
	IsAsync bool
}

// A RaiseStmt raises an exception. Exc and Cause may be nil.
type RaiseStmt struct {
	node
	Exc   Expr
	Cause Expr
}

// A TryStmt is a try/except/else/finally block.
type TryStmt struct {
	node
	Body     []Stmt
	Handlers []*ExceptHandler
	Else     []Stmt // optional
	Final    []Stmt // optional
}

// An AssertStmt is an assertion. Msg may be nil.
type AssertStmt struct {
	node
	Cond Expr
	Msg  Expr
}

// A MatchStmt is a structural match statement.
type MatchStmt struct {
	node
	Subject Expr
	Cases   []*MatchCase
}

// An ExecStmt is the legacy Python 2 exec statement.
// Globals and Locals may be nil.
type ExecStmt struct {
	node
	Code    Expr
	Globals Expr
	Locals  Expr
}

// An Expr is a Python expression.
type Expr interface {
	Node
	expr()
}

func (*Ident) expr()          {}
func (*DotExpr) expr()        {}
func (*IndexExpr) expr()      {}
func (*SliceExpr) expr()      {}
func (*CallExpr) expr()       {}
func (*LambdaExpr) expr()     {}
func (*CondExpr) expr()       {}
func (*DictExpr) expr()       {}
func (*SetExpr) expr()        {}
func (*ListExpr) expr()       {}
func (*TupleExpr) expr()      {}
func (*Comprehension) expr()  {}
func (*BinaryExpr) expr()     {}
func (*UnaryExpr) expr()      {}
func (*CompareExpr) expr()    {}
func (*BoolExpr) expr()       {}
func (*Literal) expr()        {}
func (*StarExpr) expr()       {}
func (*NamedExpr) expr()      {}
func (*FStringExpr) expr()    {}
func (*FormattedValue) expr() {}
func (*AwaitExpr) expr()      {}
func (*YieldExpr) expr()      {}

// An Ident is a use of a name.
type Ident struct {
	node
	Name string
	Ctx  Context

	// set by resolver:
	Binding *Binding // the binding this occurrence refers to
}

// A DotExpr is an attribute access: X.Name.
// Name is attribute text, not a scoped identifier.
type DotExpr struct {
	node
	X    Expr
	Name string
	Ctx  Context
}

// An IndexExpr is a subscript: X[Index].
type IndexExpr struct {
	node
	X     Expr
	Index Expr
	Ctx   Context
}

// A SliceExpr is a slice within a subscript: Lo:Hi:Step.
// All three parts are optional.
type SliceExpr struct {
	node
	Lo, Hi, Step Expr
}

// A CallExpr is a call: Fn(Args, Keywords).
type CallExpr struct {
	node
	Fn       Expr
	Args     []Expr
	Keywords []*KeywordArg
}

// A LambdaExpr is an anonymous function: lambda Args: Body.
type LambdaExpr struct {
	node
	Args *Arguments
	Body Expr
}

// A CondExpr is a conditional expression: True if Cond else False.
type CondExpr struct {
	node
	Cond  Expr
	True  Expr
	False Expr
}

// A DictExpr is a dict literal. A nil key marks a **mapping unpacking.
type DictExpr struct {
	node
	Keys   []Expr
	Values []Expr
}

// A SetExpr is a set literal.
type SetExpr struct {
	node
	Elems []Expr
}

// A ListExpr is a list literal or list target.
type ListExpr struct {
	node
	Elems []Expr
	Ctx   Context
}

// A TupleExpr is a tuple literal or tuple target.
type TupleExpr struct {
	node
	Elems []Expr
	Ctx   Context
}

// A CompKind identifies one of the four comprehension forms.
type CompKind uint8

const (
	ListComp CompKind = iota
	SetComp
	DictComp
	GeneratorExp
)

var compKindNames = [...]string{
	ListComp:     "ListComp",
	SetComp:      "SetComp",
	DictComp:     "DictComp",
	GeneratorExp: "GeneratorExp",
}

func (k CompKind) String() string { return compKindNames[k] }

// A Comprehension is a list, set, or dict comprehension or a generator
// expression. Body is the element expression of the list/set/generator
// forms; Key and Value are used by the dict form instead.
type Comprehension struct {
	node
	Kind    CompKind
	Body    Expr // nil for dict comprehensions
	Key     Expr // dict comprehensions only
	Value   Expr // dict comprehensions only
	Clauses []*CompClause
}

// A CompClause is one "for Target in Iter [if ...]*" clause of a
// comprehension, with the if conditions that follow it.
type CompClause struct {
	node
	Target  Expr
	Iter    Expr
	Ifs     []Expr
	IsAsync bool
}

// A BinaryExpr is a binary operation: X Op Y.
type BinaryExpr struct {
	node
	X  Expr
	Op string
	Y  Expr
}

// A UnaryExpr is a unary operation: Op X.
type UnaryExpr struct {
	node
	Op string
	X  Expr
}

// A CompareExpr is a chained comparison: X Ops[0] Ys[0] Ops[1] Ys[1] ...
type CompareExpr struct {
	node
	X   Expr
	Ops []string
	Ys  []Expr
}

// A BoolExpr is a short-circuit operation: Values[0] Op Values[1] ...
type BoolExpr struct {
	node
	Op     string // "And" or "Or"
	Values []Expr
}

// A Literal is a constant: string, number, bool, None, or Ellipsis.
// Value holds whatever the front end dumped for it.
type Literal struct {
	node
	Value interface{}
}

// A StarExpr is a starred expression: *X.
type StarExpr struct {
	node
	X   Expr
	Ctx Context
}

// A NamedExpr is an assignment expression: Target := Value.
type NamedExpr struct {
	node
	Target *Ident
	Value  Expr
}

// An FStringExpr is a formatted string literal; Values interleaves
// Literal and FormattedValue parts.
type FStringExpr struct {
	node
	Values []Expr
}

// A FormattedValue is one {...} replacement field of an f-string.
// FormatSpec may be nil.
type FormattedValue struct {
	node
	Value      Expr
	FormatSpec Expr
}

// An AwaitExpr is await X.
type AwaitExpr struct {
	node
	X Expr
}

// A YieldExpr is yield X or yield from X. Value may be nil.
type YieldExpr struct {
	node
	Value  Expr
	IsFrom bool
}

// Arguments is the parameter list of a function definition or lambda.
type Arguments struct {
	node
	PosOnly    []*Param // before the / marker
	Args       []*Param
	Defaults   []Expr // defaults for the trailing entries of PosOnly+Args
	Vararg     *Param // *args, may be nil
	KwOnly     []*Param
	KwDefaults []Expr // aligned with KwOnly; entries may be nil
	Kwarg      *Param // **kwargs, may be nil
}

// A Param is a single parameter name with an optional annotation.
type Param struct {
	node
	Name       string
	Annotation Expr // may be nil
}

// An Alias is one name bound by an import statement.
// AsName is empty when no "as" clause is present.
type Alias struct {
	node
	Name   string // possibly dotted for plain imports
	AsName string
}

// A KeywordArg is a keyword argument in a call or class definition.
// An empty Name marks a **mapping unpacking.
type KeywordArg struct {
	node
	Name  string
	Value Expr
}

// A WithItem is one "Context [as Vars]" item of a with statement.
type WithItem struct {
	node
	Context Expr
	Vars    Expr // may be nil
}

// An ExceptHandler is one except clause. Type may be nil (bare except)
// and Name may be empty (no "as" capture).
type ExceptHandler struct {
	node
	Type Expr
	Name string
	Body []Stmt
}

// A MatchCase is one case clause of a match statement.
type MatchCase struct {
	node
	Pattern Pattern
	Guard   Expr // may be nil
	Body    []Stmt
}

// A Pattern is a structural pattern in a match case.
type Pattern interface {
	Node
	pattern()
}

func (*MatchValue) pattern()     {}
func (*MatchSingleton) pattern() {}
func (*MatchSequence) pattern()  {}
func (*MatchMapping) pattern()   {}
func (*MatchClass) pattern()     {}
func (*MatchStar) pattern()      {}
func (*MatchAs) pattern()        {}
func (*MatchOr) pattern()        {}

// A MatchValue matches by equality with an expression.
type MatchValue struct {
	node
	X Expr
}

// A MatchSingleton matches None, True, or False by identity.
type MatchSingleton struct {
	node
	Value interface{}
}

// A MatchSequence matches a sequence of subpatterns.
type MatchSequence struct {
	node
	Patterns []Pattern
}

// A MatchMapping matches mapping keys; Rest captures the remainder
// when non-empty.
type MatchMapping struct {
	node
	Keys     []Expr
	Patterns []Pattern
	Rest     string
}

// A MatchClass matches a class pattern: Cls(Patterns, Kwd=...).
type MatchClass struct {
	node
	Cls         Expr
	Patterns    []Pattern
	KwdNames    []string
	KwdPatterns []Pattern
}

// A MatchStar captures the rest of a sequence; Name may be empty (a
// bare * wildcard).
type MatchStar struct {
	node
	Name string
}

// A MatchAs captures a value: Pattern as Name. Pattern may be nil
// (a bare capture or _ wildcard) and Name may be empty (_ wildcard).
type MatchAs struct {
	node
	Pattern Pattern
	Name    string
}

// A MatchOr matches any of its alternatives.
type MatchOr struct {
	node
	Patterns []Pattern
}

// A TypeParam is one entry of a generic type-parameter list.
type TypeParam interface {
	Node
	typeParam()
}

func (*TypeVar) typeParam()      {}
func (*TypeVarTuple) typeParam() {}
func (*ParamSpec) typeParam()    {}

// A TypeVar is a plain type parameter, optionally bounded: T or T: bound.
type TypeVar struct {
	node
	Name  string
	Bound Expr // may be nil
}

// A TypeVarTuple is a variadic type parameter: *Ts.
type TypeVarTuple struct {
	node
	Name string
}

// A ParamSpec is a parameter-specification type parameter: **P.
type ParamSpec struct {
	node
	Name string
}
