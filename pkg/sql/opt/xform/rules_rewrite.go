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

// PushFilterThroughJoinRule pushes each conjunct of a Select sitting above
// an InnerJoin down to whichever side (or sides) its columns belong to,
// leaving only join-spanning conjuncts at the join itself -- grounded on
// rule_impls.cpp's PredicatePushDown logic and spec.md §3's description of
// the rewrite phase. When every conjunct pushes all the way down (none
// spans both sides), the join's own predicate and JoinPrivate instance are
// left untouched rather than rebuilt, per spec.md §7's note that the
// rewrite must not manufacture a distinct join identity when nothing about
// the join actually changed.
var PushFilterThroughJoinRule = &Rule{
	Name:    "PushFilterThroughJoin",
	Class:   Rewrite,
	Pattern: opt.Match(opt.SelectOp, opt.Match(opt.InnerJoinOp, opt.Leaf(), opt.Leaf())),
	Check: func(e *opt.Expr, ctx *RuleContext) bool {
		return e.Private().(*opt.SelectPrivate).Predicate != nil
	},
	Transform: func(e *opt.Expr, ctx *RuleContext) []*opt.Expr {
		join := e.Child(0)
		joinPriv := join.Private().(*opt.JoinPrivate)
		leftLeaf, rightLeaf := join.Child(0), join.Child(1)
		leftCols := ctx.Memo.GetGroupByID(leftLeaf.GroupID()).OutputCols()
		rightCols := ctx.Memo.GetGroupByID(rightLeaf.GroupID()).OutputCols()

		conjuncts := opt.FlattenConjuncts(e.Private().(*opt.SelectPrivate).Predicate)

		var leftPreds, rightPreds, spanningPreds []*opt.Expr
		for _, pred := range conjuncts {
			refs := opt.ReferencedColumns(pred)
			switch {
			case refs.SubsetOf(leftCols):
				leftPreds = append(leftPreds, pred)
			case refs.SubsetOf(rightCols):
				rightPreds = append(rightPreds, pred)
			default:
				spanningPreds = append(spanningPreds, pred)
			}
		}

		newLeft := leftLeaf
		if len(leftPreds) > 0 {
			newLeft = opt.NewExpr(opt.SelectOp, &opt.SelectPrivate{Predicate: opt.Conjunction(leftPreds)}, leftLeaf)
		}
		newRight := rightLeaf
		if len(rightPreds) > 0 {
			newRight = opt.NewExpr(opt.SelectOp, &opt.SelectPrivate{Predicate: opt.Conjunction(rightPreds)}, rightLeaf)
		}

		newJoinPriv := joinPriv
		if len(spanningPreds) > 0 {
			combined := append(opt.FlattenConjuncts(joinPriv.Predicate), spanningPreds...)
			newJoinPriv = &opt.JoinPrivate{Predicate: opt.Conjunction(combined)}
		}

		return []*opt.Expr{opt.NewExpr(opt.InnerJoinOp, newJoinPriv, newLeft, newRight)}
	},
}

// CombineConsecutiveFilterRule merges two directly-nested Selects into one,
// ANDing their predicates together -- grounded on rule_impls.cpp's
// CombineConsecutiveFilter::Transform. The inner Select's pattern child uses
// MatchAnyChildren since this rule only needs the inner Select's own
// predicate and input, not to descend further.
var CombineConsecutiveFilterRule = &Rule{
	Name:    "CombineConsecutiveFilter",
	Class:   Rewrite,
	Pattern: opt.Match(opt.SelectOp, opt.MatchAnyChildren(opt.SelectOp)),
	Check:   func(e *opt.Expr, ctx *RuleContext) bool { return true },
	Transform: func(e *opt.Expr, ctx *RuleContext) []*opt.Expr {
		outerPred := e.Private().(*opt.SelectPrivate).Predicate
		inner := e.Child(0)
		innerPred := inner.Private().(*opt.SelectPrivate).Predicate
		combined := append(opt.FlattenConjuncts(innerPred), opt.FlattenConjuncts(outerPred)...)
		return []*opt.Expr{
			opt.NewExpr(opt.SelectOp, &opt.SelectPrivate{Predicate: opt.Conjunction(combined)}, inner.Child(0)),
		}
	},
}

// EmbedFilterIntoGetRule folds a Select's predicate directly into the Get
// beneath it, so later implementation rules (GetToSeqScan, GetToIndexScan
// in rules_scan.go) can apply the filter during the scan itself rather than
// as a separate operator -- grounded on rule_impls.cpp's
// EmbedFilterIntoGet::Transform.
var EmbedFilterIntoGetRule = &Rule{
	Name:    "EmbedFilterIntoGet",
	Class:   Rewrite,
	Pattern: opt.Match(opt.SelectOp, opt.Match(opt.GetOp)),
	Check:   func(e *opt.Expr, ctx *RuleContext) bool { return true },
	Transform: func(e *opt.Expr, ctx *RuleContext) []*opt.Expr {
		get := e.Child(0)
		getPriv := get.Private().(*opt.GetPrivate)
		selectPred := e.Private().(*opt.SelectPrivate).Predicate

		combined := append(opt.FlattenConjuncts(getPriv.Predicate), opt.FlattenConjuncts(selectPred)...)
		newPriv := &opt.GetPrivate{
			Table:     getPriv.Table,
			Alias:     getPriv.Alias,
			Cols:      getPriv.Cols,
			Predicate: opt.Conjunction(combined),
		}
		return []*opt.Expr{opt.NewExpr(opt.GetOp, newPriv)}
	},
}
