// Copyright 2025 The pyshrink Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// SetParents annotates every node in the tree rooted at n with a
// back-reference to its immediate syntactic parent. The root's parent
// stays nil. Later passes use the link for context-sensitive decisions,
// such as whether a store is part of a compound update.
//
// SetParents is purely structural and idempotent, but is normally run
// exactly once, before the scope pass.
func SetParents(n Node) {
	setParents(n, nil)
}

func setParents(n, parent Node) {
	if parent != nil {
		n.SetParent(parent)
	}
	EachChild(n, func(child Node) { setParents(child, n) })
}
