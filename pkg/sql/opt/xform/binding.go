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

package xform

import (
	"github.com/mtunique/peloton/pkg/sql/opt"
	"github.com/mtunique/peloton/pkg/sql/opt/memo"
)

// Bindings enumerates every way to bind pat against root, per spec.md
// §4.3: "Leaves bind to the child group as an opaque handle (no descent).
// Concrete-operator pattern nodes require expr.operator.type ==
// pattern.type; recursion proceeds in child order and fails fast on
// mismatch. Iteration is depth-first; it reports each binding exactly
// once." Each returned *opt.Expr has root's operator and private payload,
// with LeafOp nodes standing in for pattern-Any children.
func Bindings(m *memo.Memo, root *memo.GroupExpr, pat *opt.Pattern) []*opt.Expr {
	if pat.Any {
		return []*opt.Expr{opt.NewLeaf(root.Group)}
	}
	if pat.Op != root.Op {
		return nil
	}
	if pat.AnyChildren {
		return []*opt.Expr{exprFromLeaves(root)}
	}
	if len(pat.Children) != len(root.Children) {
		return nil
	}

	// Collect, for each child position, every binding of that child's
	// pattern against every logical expression in the child's group (a
	// concrete pattern may recurse into several equivalent expressions of
	// that group; a leaf pattern contributes exactly one binding, the
	// group handle itself).
	perChild := make([][]*opt.Expr, len(root.Children))
	for i, childPat := range pat.Children {
		if childPat.Any {
			perChild[i] = []*opt.Expr{opt.NewLeaf(root.Children[i])}
			continue
		}
		childGroup := m.GetGroupByID(root.Children[i])
		var options []*opt.Expr
		for _, childExpr := range childGroup.LogicalExprs() {
			options = append(options, Bindings(m, childExpr, childPat)...)
		}
		if len(options) == 0 {
			return nil
		}
		perChild[i] = options
	}

	return cartesianProduct(root.Op, root.Private, perChild)
}

// exprFromLeaves builds an *opt.Expr mirroring root's shape exactly, with
// every child represented as a LeafOp reference to its group (used for
// AnyChildren patterns, whose rules inspect children themselves rather than
// needing the binder to descend).
func exprFromLeaves(root *memo.GroupExpr) *opt.Expr {
	children := make([]*opt.Expr, len(root.Children))
	for i, c := range root.Children {
		children[i] = opt.NewLeaf(c)
	}
	return opt.NewExpr(root.Op, root.Private, children...)
}

// cartesianProduct builds one *opt.Expr per combination of child bindings,
// depth-first and in child order, matching spec.md §4.3's iteration order
// guarantee.
func cartesianProduct(op opt.Operator, private interface{}, perChild [][]*opt.Expr) []*opt.Expr {
	if len(perChild) == 0 {
		return []*opt.Expr{opt.NewExpr(op, private)}
	}
	var results []*opt.Expr
	var rec func(i int, chosen []*opt.Expr)
	rec = func(i int, chosen []*opt.Expr) {
		if i == len(perChild) {
			combo := make([]*opt.Expr, len(chosen))
			copy(combo, chosen)
			results = append(results, opt.NewExpr(op, private, combo...))
			return
		}
		for _, bound := range perChild[i] {
			rec(i+1, append(chosen, bound))
		}
	}
	rec(0, nil)
	return results
}
