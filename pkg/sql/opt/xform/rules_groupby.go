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

// LogicalGroupByToHashGroupByRule implements a logical GroupBy that has at
// least one grouping column as a hash-based group-by, per spec.md §4.2.
// Grounded on rule_impls.cpp's LogicalGroupByToHashGroupBy::Check/Transform.
var LogicalGroupByToHashGroupByRule = &Rule{
	Name:    "LogicalGroupByToHashGroupBy",
	Class:   Implementation,
	Pattern: opt.Match(opt.GroupByOp, opt.Leaf()),
	Check: func(e *opt.Expr, ctx *RuleContext) bool {
		priv := e.Private().(*opt.GroupByPrivate)
		return priv.GroupingCols.Len() > 0
	},
	Transform: func(e *opt.Expr, ctx *RuleContext) []*opt.Expr {
		return []*opt.Expr{
			opt.NewExpr(opt.HashGroupByOp, e.Private(), e.Child(0)),
		}
	},
}

// LogicalAggregateToPhysicalRule implements a logical GroupBy with no
// grouping columns -- a plain whole-input aggregate, e.g. SELECT count(*)
// FROM t with no GROUP BY -- as the same physical hash group-by operator
// run over a single implicit group. Grounded on rule_impls.cpp's
// LogicalAggregateToPhysical::Transform, which in Peloton produces a
// distinct physical aggregate node; this module reuses HashGroupByOp for
// both cases since a grouping-less aggregate is simply HashGroupBy with an
// empty grouping key (one group, the whole input).
var LogicalAggregateToPhysicalRule = &Rule{
	Name:    "LogicalAggregateToPhysical",
	Class:   Implementation,
	Pattern: opt.Match(opt.GroupByOp, opt.Leaf()),
	Check: func(e *opt.Expr, ctx *RuleContext) bool {
		priv := e.Private().(*opt.GroupByPrivate)
		return priv.GroupingCols.Len() == 0
	},
	Transform: func(e *opt.Expr, ctx *RuleContext) []*opt.Expr {
		return []*opt.Expr{
			opt.NewExpr(opt.HashGroupByOp, e.Private(), e.Child(0)),
		}
	},
}
