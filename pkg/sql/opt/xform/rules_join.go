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

import "github.com/mtunique/peloton/pkg/sql/opt"

// InnerJoinCommutativityRule swaps the children of an inner join, grounded
// on rule_impls.cpp's InnerJoinCommutativity::Transform.
var InnerJoinCommutativityRule = &Rule{
	Name:    "InnerJoinCommutativity",
	Class:   Transformation,
	Pattern: opt.Match(opt.InnerJoinOp, opt.Leaf(), opt.Leaf()),
	Check:   func(e *opt.Expr, ctx *RuleContext) bool { return true },
	Transform: func(e *opt.Expr, ctx *RuleContext) []*opt.Expr {
		priv := e.Private().(*opt.JoinPrivate)
		return []*opt.Expr{
			opt.NewExpr(opt.InnerJoinOp, priv, e.Child(1), e.Child(0)),
		}
	},
}

// InnerJoinAssociativityRule converts (A join1 B) join2 C to A join1' (B
// join2' C), redistributing predicates by minimal-superset alias
// assignment, per spec.md §4.2. Grounded on spec.md's own description (this
// specific rule was not present in the retrieved rule_impls.cpp excerpt);
// the predicate-redistribution algorithm mirrors PushFilterThroughJoin's
// column-subset classification in rules_rewrite.go.
var InnerJoinAssociativityRule = &Rule{
	Name:    "InnerJoinAssociativity",
	Class:   Transformation,
	Pattern: opt.Match(opt.InnerJoinOp, opt.Match(opt.InnerJoinOp, opt.Leaf(), opt.Leaf()), opt.Leaf()),
	Check: func(e *opt.Expr, ctx *RuleContext) bool {
		return e.Child(0).Op() == opt.InnerJoinOp
	},
	Transform: func(e *opt.Expr, ctx *RuleContext) []*opt.Expr {
		outer := e.Private().(*opt.JoinPrivate)
		left := e.Child(0)
		inner := left.Private().(*opt.JoinPrivate)

		a := left.Child(0) // leaf referencing group A
		b := left.Child(1) // leaf referencing group B
		c := e.Child(1)    // leaf referencing group C

		aCols := ctx.Memo.GetGroupByID(a.GroupID()).OutputCols()
		bCols := ctx.Memo.GetGroupByID(b.GroupID()).OutputCols()
		cCols := ctx.Memo.GetGroupByID(c.GroupID()).OutputCols()
		bcCols := bCols.Union(cCols)

		all := append(opt.FlattenConjuncts(inner.Predicate), opt.FlattenConjuncts(outer.Predicate)...)

		var outerPreds, innerPreds []*opt.Expr
		for _, pred := range all {
			refs := opt.ReferencedColumns(pred)
			switch {
			case refs.SubsetOf(bcCols):
				// Belongs entirely to B/C: minimal superset is the inner
				// join (B join C).
				innerPreds = append(innerPreds, pred)
			case refs.SubsetOf(aCols.Union(bcCols)):
				// References aliases from both sides (or from A alone):
				// stays at the outer join, per spec.md's "if a predicate
				// references aliases from both sides, it stays at the
				// outer join".
				outerPreds = append(outerPreds, pred)
			default:
				outerPreds = append(outerPreds, pred)
			}
		}

		newInner := opt.NewExpr(opt.InnerJoinOp, &opt.JoinPrivate{Predicate: opt.Conjunction(innerPreds)}, b, c)
		newOuter := opt.NewExpr(opt.InnerJoinOp, &opt.JoinPrivate{Predicate: opt.Conjunction(outerPreds)}, a, newInner)
		return []*opt.Expr{newOuter}
	},
}

// InnerJoinToInnerNLJoinRule is always applicable, per spec.md §4.2.
var InnerJoinToInnerNLJoinRule = &Rule{
	Name:    "InnerJoinToInnerNLJoin",
	Class:   Implementation,
	Pattern: opt.Match(opt.InnerJoinOp, opt.Leaf(), opt.Leaf()),
	Check:   func(e *opt.Expr, ctx *RuleContext) bool { return true },
	Transform: func(e *opt.Expr, ctx *RuleContext) []*opt.Expr {
		priv := e.Private().(*opt.JoinPrivate)
		return []*opt.Expr{
			opt.NewExpr(opt.InnerNLJoinOp, &opt.NLJoinPrivate{JoinPrivate: *priv}, e.Child(0), e.Child(1)),
		}
	},
}

// InnerJoinToInnerHashJoinRule applies only if at least one join predicate
// is an equality with one side referencing only the left child's columns
// and the other only the right's, grounded on rule_impls.cpp's
// InnerJoinToInnerHashJoin::Check (which walks each side's origin group to
// classify the equi-join operands).
var InnerJoinToInnerHashJoinRule = &Rule{
	Name:    "InnerJoinToInnerHashJoin",
	Class:   Implementation,
	Pattern: opt.Match(opt.InnerJoinOp, opt.Leaf(), opt.Leaf()),
	Check: func(e *opt.Expr, ctx *RuleContext) bool {
		leftKeys, _ := hashJoinKeys(e, ctx)
		return len(leftKeys) > 0
	},
	Transform: func(e *opt.Expr, ctx *RuleContext) []*opt.Expr {
		priv := e.Private().(*opt.JoinPrivate)
		leftKeys, rightKeys := hashJoinKeys(e, ctx)
		return []*opt.Expr{
			opt.NewExpr(opt.InnerHashJoinOp, &opt.HashJoinPrivate{
				JoinPrivate: *priv,
				LeftKeys:    leftKeys,
				RightKeys:   rightKeys,
			}, e.Child(0), e.Child(1)),
		}
	},
}

// hashJoinKeys scans the join's predicate conjuncts for equalities whose
// two sides each reference only one child's columns, returning the
// column-pair lists a hash join would build/probe on.
func hashJoinKeys(e *opt.Expr, ctx *RuleContext) (leftKeys, rightKeys []opt.ColumnID) {
	priv := e.Private().(*opt.JoinPrivate)
	leftCols := ctx.Memo.GetGroupByID(e.Child(0).GroupID()).OutputCols()
	rightCols := ctx.Memo.GetGroupByID(e.Child(1).GroupID()).OutputCols()

	for _, pred := range opt.FlattenConjuncts(priv.Predicate) {
		if pred.Op() != opt.EqOp {
			continue
		}
		lhs, rhs := pred.Child(0), pred.Child(1)
		if lhs.Op() != opt.VariableOp || rhs.Op() != opt.VariableOp {
			continue
		}
		lCol := lhs.Private().(*opt.VariablePrivate).Col
		rCol := rhs.Private().(*opt.VariablePrivate).Col
		switch {
		case leftCols.Contains(lCol) && rightCols.Contains(rCol):
			leftKeys = append(leftKeys, lCol)
			rightKeys = append(rightKeys, rCol)
		case leftCols.Contains(rCol) && rightCols.Contains(lCol):
			leftKeys = append(leftKeys, rCol)
			rightKeys = append(rightKeys, lCol)
		}
	}
	return leftKeys, rightKeys
}
