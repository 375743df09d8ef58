// Copyright 2025 The pyshrink Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// This file defines resolver data types referenced by the syntax tree.
// We cannot guarantee API stability for these types
// as they are closely tied to the implementation.

// A ScopeKind indicates what kind of construct introduced a scope.
type ScopeKind uint8

const (
	ModuleScope     ScopeKind = iota // the root scope of a source file
	FunctionScope                    // def, lambda, or comprehension
	ClassScope                       // class body
	AnnotationScope                  // generic type-parameter list
)

var scopeKindNames = [...]string{
	ModuleScope:     "module",
	FunctionScope:   "function",
	ClassScope:      "class",
	AnnotationScope: "annotation",
}

func (kind ScopeKind) String() string { return scopeKindNames[kind] }

// A Scope is a lexical scope: the place where names are defined.
//
// Each module has exactly one module scope at the root; every other
// scope has exactly one parent and is reachable from the root. A scope
// owns its bindings but not the node that introduced it.
//
// GlobalNames and NonlocalNames hold names that are declared in this
// scope but defined elsewhere: by an explicit global or nonlocal
// statement, or — for class scopes — by the free-name rule, under
// which a plain read or compound update in class context defers to the
// enclosing scope even though simple writes are class-local.
type Scope struct {
	Kind ScopeKind
	Name string // descriptive label: def/class name, "Lambda", comprehension kind
	Node Node   // the node that introduced this scope (shared, not owned)

	parent   *Scope
	children []*Scope

	Bindings      []*Binding // local bindings, in first-occurrence order
	GlobalNames   map[string]bool
	NonlocalNames map[string]bool

	tainted bool
}

// NewScope returns an empty scope for the given introducing node.
func NewScope(kind ScopeKind, name string, node Node) *Scope {
	return &Scope{
		Kind:          kind,
		Name:          name,
		Node:          node,
		GlobalNames:   make(map[string]bool),
		NonlocalNames: make(map[string]bool),
	}
}

// Parent returns the enclosing scope, or nil for the module scope.
func (s *Scope) Parent() *Scope { return s.parent }

// Children returns the nested scopes, in creation order.
// The caller must not mutate the result.
func (s *Scope) Children() []*Scope { return s.children }

// AddChild links child under s. A scope is linked exactly once and
// never re-parented.
func (s *Scope) AddChild(child *Scope) {
	child.parent = s
	s.children = append(s.children, child)
}

// Lookup returns the local binding for name, or nil.
// A linear scan suffices: scopes rarely hold more than a few dozen
// bindings, and the list is the source of creation order.
func (s *Scope) Lookup(name string) *Binding {
	for _, b := range s.Bindings {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// Taint records that untraceable, string-keyed use of names is
// possible in this scope (eval, exec, vars and friends).
// The flag is advisory: the renamer decides how conservative to be.
func (s *Scope) Taint() { s.tainted = true }

// Tainted reports whether Taint has been called on this scope.
func (s *Scope) Tainted() bool { return s.tainted }

// A BindingKind indicates how a binding came to exist.
type BindingKind uint8

const (
	// NameBinding is an ordinary binding for a locally defined name.
	NameBinding BindingKind = iota

	// BuiltinBinding is synthesized for a name that is unresolved at
	// module scope but matches a known builtin.
	BuiltinBinding

	// PlaceholderBinding is synthesized for a name that resolves
	// nowhere and is not a builtin. Renaming is permanently disallowed
	// so the (probably broken) input text survives unchanged.
	PlaceholderBinding
)

var bindingKindNames = [...]string{
	NameBinding:        "name",
	BuiltinBinding:     "builtin",
	PlaceholderBinding: "placeholder",
}

func (kind BindingKind) String() string { return bindingKindNames[kind] }

// A Binding is the identity of one name local to, or synthesized into,
// a scope. It ties together every occurrence of the name that denotes
// the same variable.
//
// References are non-owning links back to syntax nodes, in pre-order
// source order; downstream consumers rely on that order.
type Binding struct {
	Name       string
	Kind       BindingKind
	References []Node

	allowRename bool
}

// NewBinding returns a binding of the given kind.
// Placeholder bindings start with renaming disallowed; everything else
// starts renameable.
func NewBinding(name string, kind BindingKind) *Binding {
	return &Binding{
		Name:        name,
		Kind:        kind,
		allowRename: kind != PlaceholderBinding,
	}
}

// AddReference appends an occurrence of the binding's name.
func (b *Binding) AddReference(n Node) {
	b.References = append(b.References, n)
}

// DisallowRename permanently excludes the binding from renaming.
// There is no way back: once any pass has found a reason the name must
// survive, no later pass may overrule it.
func (b *Binding) DisallowRename() { b.allowRename = false }

// RenameAllowed reports whether the binding may still be renamed.
func (b *Binding) RenameAllowed() bool { return b.allowRename }
