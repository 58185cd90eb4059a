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

package opt

import (
	"fmt"
	"strings"

	"github.com/mtunique/peloton/pkg/util/treeprinter"
)

// GroupID identifies a group of logically equivalent expressions inside a
// Memo. GroupID 0 is never a valid group (it is reserved the same way a nil
// pointer is), matching the teacher's opt.GroupID convention.
type GroupID uint32

// Expr is an operator-expression: an operator tag plus its children and an
// operator-specific private payload. It is the single representation used
// for two related but distinct trees in this package:
//
//   - An AnnotatedExpression produced by a rule's Transform function, whose
//     leaves are either freshly-built sub-expressions or LeafOp nodes that
//     refer back to an existing Memo group (via the GroupID stored in the
//     LeafOp's private payload) rather than re-expanding it.
//   - A Pattern-bound expression read out of the Memo during rule matching,
//     constructed the same way so the same formatting/fingerprint code
//     applies to both directions.
//
// Expr intentionally does not carry logical or physical properties -- those
// live on the memo.Group that the expression is (or will be) inserted into,
// the same separation of concerns spec.md draws between GroupExpression and
// Group.
type Expr struct {
	op       Operator
	children []*Expr
	private  interface{}
}

// NewExpr builds a new Expr with the given operator, children, and private
// payload. Most callers use the operator-specific constructors in private.go
// instead (e.g. NewGetExpr), which also set the private payload's static
// type.
func NewExpr(op Operator, private interface{}, children ...*Expr) *Expr {
	return &Expr{op: op, children: children, private: private}
}

// NewLeaf builds a LeafOp expression that refers to an existing Memo group
// without re-expanding it. Rules use this to reference a child they are not
// rewriting.
func NewLeaf(group GroupID) *Expr {
	return &Expr{op: LeafOp, private: group}
}

// Op returns the expression's operator.
func (e *Expr) Op() Operator { return e.op }

// ChildCount returns the number of children of the expression.
func (e *Expr) ChildCount() int { return len(e.children) }

// Child returns the i-th child of the expression.
func (e *Expr) Child(i int) *Expr { return e.children[i] }

// Children returns the expression's children slice directly. Callers must
// not mutate the result.
func (e *Expr) Children() []*Expr { return e.children }

// Private returns the expression's operator-specific private payload, or nil
// if the operator has none (see private.go for the concrete type each
// operator uses).
func (e *Expr) Private() interface{} { return e.private }

// GroupID returns the referenced group for a LeafOp expression. It panics if
// called on any other operator.
func (e *Expr) GroupID() GroupID {
	if e.op != LeafOp {
		panic(fmt.Sprintf("GroupID called on non-leaf operator %s", e.op))
	}
	return e.private.(GroupID)
}

// Fingerprint returns a string that uniquely identifies this expression's
// shape for the purposes of hash-consing inside a Memo: two expressions with
// the same operator, same child GroupIDs (recursively fingerprinted for
// non-leaf children that are not yet in the Memo), and same private payload
// produce the same fingerprint. This mirrors the
// petermattis-opttoy memoExpr.fingerprint() approach to structural dedup.
func (e *Expr) Fingerprint() string {
	var b strings.Builder
	e.writeFingerprint(&b)
	return b.String()
}

func (e *Expr) writeFingerprint(b *strings.Builder) {
	fmt.Fprintf(b, "(%s", e.op)
	if e.op == LeafOp {
		fmt.Fprintf(b, " g%d", e.private.(GroupID))
	} else if e.private != nil {
		fmt.Fprintf(b, " %v", e.private)
	}
	for _, c := range e.children {
		b.WriteByte(' ')
		c.writeFingerprint(b)
	}
	b.WriteByte(')')
}

// String formats the expression as an indented tree, following the
// teacher's treeprinter-based Expr/Memo formatting style.
func (e *Expr) String() string {
	tp := treeprinter.New()
	e.format(tp)
	return tp.String()
}

func (e *Expr) format(tp treeprinter.Node) {
	child := tp.Childf("%s%s", e.op, e.formatPrivate())
	for _, c := range e.children {
		if c.op == LeafOp {
			child.Childf("leaf: g%d", c.private.(GroupID))
			continue
		}
		c.format(child)
	}
}

// formatPrivate renders the private payload, if any, as a short suffix like
// " [table=orders]" for use in tree-formatted output.
func (e *Expr) formatPrivate() string {
	if e.private == nil || e.op == LeafOp {
		return ""
	}
	return fmt.Sprintf(" %v", e.private)
}
