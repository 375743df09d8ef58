// Copyright 2025 The pyshrink Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import "github.com/pyshrink/pyshrink/syntax"

// RenameInPlace reports whether the name introduced by n can be given
// a new name at its introduction site without breaking any call-site
// contract. When it cannot, the renamer must either leave the name
// alone or insert an aliasing assignment at the top of the body.
//
// Only parameters are constrained: a caller may address an ordinary
// named parameter by keyword, so its name is part of the function's
// interface. The exceptions, all invisible to callers:
//
//   - variadic positional and keyword parameters
//   - position-only parameters
//   - the receiver parameter of a method, provided the decorator list
//     cannot have changed the calling convention: no decorators, or
//     exactly one bare classmethod
//
// Names introduced by anything else — assignment targets,
// comprehension loop targets, captures — are always local matters and
// rename in place.
func RenameInPlace(n syntax.Node) bool {
	p, ok := n.(*syntax.Param)
	if !ok {
		return true
	}
	args, ok := p.Parent().(*syntax.Arguments)
	if !ok {
		return true
	}
	if p == args.Vararg || p == args.Kwarg {
		return true
	}
	for _, q := range args.PosOnly {
		if q == p {
			return true
		}
	}
	def, ok := args.Parent().(*syntax.DefStmt)
	if !ok {
		return false // lambda parameters are keyword-addressable
	}
	if len(args.PosOnly) > 0 || len(args.Args) == 0 || args.Args[0] != p {
		return false
	}
	if scope := def.Scope(); scope == nil || scope.Kind != syntax.ClassScope {
		return false
	}
	switch len(def.Decorators) {
	case 0:
		return true
	case 1:
		if id, ok := def.Decorators[0].(*syntax.Ident); ok && id.Name == "classmethod" {
			return true
		}
	}
	return false
}
