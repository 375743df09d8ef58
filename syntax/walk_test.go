// Copyright 2025 The pyshrink Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/pyshrink/pyshrink/syntax"
)

// testTree builds the tree for:
//
//	x = 1
//	def f(a):
//	    return x
func testTree() *syntax.Module {
	return &syntax.Module{
		Path: "test.py",
		Body: []syntax.Stmt{
			&syntax.AssignStmt{
				Targets: []syntax.Expr{&syntax.Ident{Name: "x", Ctx: syntax.Store}},
				Value:   &syntax.Literal{Value: 1},
			},
			&syntax.DefStmt{
				Name: "f",
				Args: &syntax.Arguments{Args: []*syntax.Param{{Name: "a"}}},
				Body: []syntax.Stmt{
					&syntax.ReturnStmt{Value: &syntax.Ident{Name: "x", Ctx: syntax.Load}},
				},
			},
		},
	}
}

func TestWalkOrder(t *testing.T) {
	var got []string
	syntax.Walk(testTree(), func(n syntax.Node) bool {
		if n != nil {
			got = append(got, fmt.Sprintf("%T", n)[len("*syntax."):])
		}
		return true
	})
	want := []string{
		"Module",
		"AssignStmt", "Ident", "Literal",
		"DefStmt", "Arguments", "Param",
		"ReturnStmt", "Ident",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("pre-order visit sequence:\ngot  %v\nwant %v", got, want)
	}
}

func TestWalkExit(t *testing.T) {
	// Walk reports the end of each node's subtree by calling f(nil);
	// entries and exits must balance.
	depth, maxDepth, enters, exits := 0, 0, 0, 0
	syntax.Walk(testTree(), func(n syntax.Node) bool {
		if n != nil {
			enters++
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		} else {
			exits++
			depth--
		}
		return true
	})
	if enters != exits {
		t.Errorf("got %d entries but %d exits", enters, exits)
	}
	if depth != 0 {
		t.Errorf("unbalanced traversal: final depth %d", depth)
	}
	if maxDepth != 4 { // Module > DefStmt > ReturnStmt > Ident
		t.Errorf("max depth %d, want 4", maxDepth)
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	var visited []string
	syntax.Walk(testTree(), func(n syntax.Node) bool {
		if n == nil {
			return true
		}
		visited = append(visited, fmt.Sprintf("%T", n)[len("*syntax."):])
		_, isDef := n.(*syntax.DefStmt)
		return !isDef
	})
	want := []string{"Module", "AssignStmt", "Ident", "Literal", "DefStmt"}
	if !reflect.DeepEqual(visited, want) {
		t.Errorf("visit sequence with def pruned:\ngot  %v\nwant %v", visited, want)
	}
}

func TestSetParents(t *testing.T) {
	mod := testTree()
	syntax.SetParents(mod)

	if mod.Parent() != nil {
		t.Errorf("root parent = %T, want nil", mod.Parent())
	}
	var check func(n syntax.Node)
	check = func(n syntax.Node) {
		syntax.EachChild(n, func(child syntax.Node) {
			if child.Parent() != n {
				t.Errorf("%T: parent = %T, want %T", child, child.Parent(), n)
			}
			check(child)
		})
	}
	check(mod)
}
