// Copyright 2017 The Cockroach Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

// Package treeprinter prints a tree of strings in a visually appealing way.
// The root node returned by New has no text and is not printed; its
// children are printed at the top level, like this:
//
//	 ├── child-1
//	 │     ├── grandchild-1
//	 │     └── grandchild-2
//	 └── child-2
package treeprinter

import (
	"bytes"
	"fmt"
)

// Node is a handle associated with a specific depth in a tree. Calling a
// Child method adds a new node as a child of this node and returns a handle
// to the new node.
type Node struct {
	tree  *treePrinter
	idx   int
}

// treePrinter is the underlying accumulator for a tree of lines.
type treePrinter struct {
	nodes []line
}

// line is a single entry in the tree: its text, and the index of its parent
// (or -1 for the root).
type line struct {
	text   string
	parent int
}

// New creates a new tree printer and returns the root node. Call String (or
// Build) on the returned root once the tree is complete.
func New() Node {
	t := &treePrinter{}
	t.nodes = append(t.nodes, line{parent: -1})
	return Node{tree: t, idx: 0}
}

// Child adds a child node with the given text.
func (n Node) Child(text string) Node {
	n.tree.nodes = append(n.tree.nodes, line{text: text, parent: n.idx})
	return Node{tree: n.tree, idx: len(n.tree.nodes) - 1}
}

// Childf is like Child but the text is formatted with fmt.Sprintf.
func (n Node) Childf(format string, args ...interface{}) Node {
	return n.Child(fmt.Sprintf(format, args...))
}

// children returns the list of child indexes of the given node, in order.
func (t *treePrinter) children(idx int) []int {
	var children []int
	for i, l := range t.nodes {
		if l.parent == idx {
			children = append(children, i)
		}
	}
	return children
}

// String formats the tree rooted at n as a multi-line string.
func (n Node) String() string {
	var buf bytes.Buffer
	n.tree.write(&buf, n.idx, "", "")
	return buf.String()
}

// Build is an alias for String, for readability at call sites that build
// trees iteratively and then render them.
func (n Node) Build() string {
	return n.String()
}

func (t *treePrinter) write(buf *bytes.Buffer, idx int, prefix, childPrefix string) {
	if idx == 0 {
		if t.nodes[0].text != "" {
			buf.WriteString(t.nodes[0].text)
			buf.WriteByte('\n')
		}
	} else {
		buf.WriteString(prefix)
		buf.WriteString(t.nodes[idx].text)
		buf.WriteByte('\n')
	}
	children := t.children(idx)
	for i, c := range children {
		last := i == len(children)-1
		var nextPrefix, nextChildPrefix string
		if last {
			nextPrefix = childPrefix + " └── "
			nextChildPrefix = childPrefix + "      "
		} else {
			nextPrefix = childPrefix + " ├── "
			nextChildPrefix = childPrefix + " │    "
		}
		t.write(buf, c, nextPrefix, nextChildPrefix)
	}
}
