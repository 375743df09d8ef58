// Copyright 2025 The pyshrink Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pyshrink/pyshrink/syntax"
)

// WriteScope writes a human-readable description of a scope tree.
// The output is deterministic for a given tree: bindings appear in
// creation order, declared-name sets sorted, children in creation
// order. Golden tests and the REPL use it.
func WriteScope(w io.Writer, s *syntax.Scope) {
	writeScope(w, s, 0)
}

// FormatScope is WriteScope into a string.
func FormatScope(s *syntax.Scope) string {
	var buf bytes.Buffer
	WriteScope(&buf, s)
	return buf.String()
}

func writeScope(w io.Writer, s *syntax.Scope, depth int) {
	indent := strings.Repeat("  ", depth)

	if s.Kind == syntax.ModuleScope {
		fmt.Fprintf(w, "%smodule", indent)
	} else {
		fmt.Fprintf(w, "%s%s %s", indent, s.Kind, s.Name)
	}
	if s.Tainted() {
		io.WriteString(w, " tainted")
	}
	io.WriteString(w, "\n")

	if names := sortedNames(s.GlobalNames); len(names) > 0 {
		fmt.Fprintf(w, "%s  global %s\n", indent, strings.Join(names, " "))
	}
	if names := sortedNames(s.NonlocalNames); len(names) > 0 {
		fmt.Fprintf(w, "%s  nonlocal %s\n", indent, strings.Join(names, " "))
	}
	for _, b := range s.Bindings {
		fmt.Fprintf(w, "%s  %s %s refs=%d", indent, b.Name, b.Kind, len(b.References))
		if !b.RenameAllowed() {
			io.WriteString(w, " norename")
		}
		io.WriteString(w, "\n")
	}
	for _, child := range s.Children() {
		writeScope(w, child, depth+1)
	}
}

func sortedNames(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
