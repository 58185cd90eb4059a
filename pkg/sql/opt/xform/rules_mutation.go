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

// The mutation and derived-get implementation rules are all one-to-one:
// the logical operator has exactly one physical implementation, always
// applicable, carrying the same private payload and children across --
// grounded on rule_impls.cpp's LogicalInsert/Update/Delete/QueryDerivedGet
// "ToPhysical" rule family, which likewise never fails Check.

// LogicalQueryDerivedGetToPhysicalRule implements a Get over a derived
// table (subquery in the FROM clause) as a physical scan over its already-
// planned input.
var LogicalQueryDerivedGetToPhysicalRule = &Rule{
	Name:    "LogicalQueryDerivedGetToPhysical",
	Class:   Implementation,
	Pattern: opt.MatchAnyChildren(opt.QueryDerivedGetOp),
	Check:   func(e *opt.Expr, ctx *RuleContext) bool { return true },
	Transform: func(e *opt.Expr, ctx *RuleContext) []*opt.Expr {
		return []*opt.Expr{
			opt.NewExpr(opt.PhysicalQueryDerivedScanOp, e.Private(), e.Children()...),
		}
	},
}

// LogicalDeleteToPhysicalRule implements a logical Delete as a physical
// Delete over its already-planned input rows.
var LogicalDeleteToPhysicalRule = &Rule{
	Name:    "LogicalDeleteToPhysical",
	Class:   Implementation,
	Pattern: opt.MatchAnyChildren(opt.DeleteOp),
	Check:   func(e *opt.Expr, ctx *RuleContext) bool { return true },
	Transform: func(e *opt.Expr, ctx *RuleContext) []*opt.Expr {
		return []*opt.Expr{
			opt.NewExpr(opt.PhysicalDeleteOp, e.Private(), e.Children()...),
		}
	},
}

// LogicalUpdateToPhysicalRule implements a logical Update as a physical
// Update over its already-planned input rows.
var LogicalUpdateToPhysicalRule = &Rule{
	Name:    "LogicalUpdateToPhysical",
	Class:   Implementation,
	Pattern: opt.MatchAnyChildren(opt.UpdateOp),
	Check:   func(e *opt.Expr, ctx *RuleContext) bool { return true },
	Transform: func(e *opt.Expr, ctx *RuleContext) []*opt.Expr {
		return []*opt.Expr{
			opt.NewExpr(opt.PhysicalUpdateOp, e.Private(), e.Children()...),
		}
	},
}

// LogicalInsertToPhysicalRule implements a logical Insert (of literal rows,
// no child plan) as a physical Insert.
var LogicalInsertToPhysicalRule = &Rule{
	Name:    "LogicalInsertToPhysical",
	Class:   Implementation,
	Pattern: opt.MatchAnyChildren(opt.InsertOp),
	Check:   func(e *opt.Expr, ctx *RuleContext) bool { return true },
	Transform: func(e *opt.Expr, ctx *RuleContext) []*opt.Expr {
		return []*opt.Expr{
			opt.NewExpr(opt.PhysicalInsertOp, e.Private(), e.Children()...),
		}
	},
}

// LogicalInsertSelectToPhysicalRule implements a logical Insert-Select
// (rows sourced from a planned query) as a physical Insert-Select.
var LogicalInsertSelectToPhysicalRule = &Rule{
	Name:    "LogicalInsertSelectToPhysical",
	Class:   Implementation,
	Pattern: opt.MatchAnyChildren(opt.InsertSelectOp),
	Check:   func(e *opt.Expr, ctx *RuleContext) bool { return true },
	Transform: func(e *opt.Expr, ctx *RuleContext) []*opt.Expr {
		return []*opt.Expr{
			opt.NewExpr(opt.PhysicalInsertSelectOp, e.Private(), e.Children()...),
		}
	},
}
