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

// ImplementDistinctRule always applies, turning a logical Distinct into an
// EnforcedDistinct operator, which provides Distinct on its distinct
// columns and places no requirement on its input -- grounded on rule_impls.cpp's
// ImplementDistinct::Transform.
var ImplementDistinctRule = &Rule{
	Name:    "ImplementDistinct",
	Class:   Implementation,
	Pattern: opt.Match(opt.DistinctOp, opt.Leaf()),
	Check:   func(e *opt.Expr, ctx *RuleContext) bool { return true },
	Transform: func(e *opt.Expr, ctx *RuleContext) []*opt.Expr {
		return []*opt.Expr{
			opt.NewExpr(opt.EnforcedDistinctOp, e.Private(), e.Child(0)),
		}
	},
}

// ImplementLimitRule always applies, turning a logical Limit into its
// physical implementation -- grounded on rule_impls.cpp's
// ImplementLimit::Transform.
var ImplementLimitRule = &Rule{
	Name:    "ImplementLimit",
	Class:   Implementation,
	Pattern: opt.Match(opt.LimitOp, opt.Leaf()),
	Check:   func(e *opt.Expr, ctx *RuleContext) bool { return true },
	Transform: func(e *opt.Expr, ctx *RuleContext) []*opt.Expr {
		return []*opt.Expr{
			opt.NewExpr(opt.PhysicalLimitOp, e.Private(), e.Child(0)),
		}
	},
}
