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

// Package xform implements the rule catalog, pattern-binding iterator, cost
// model, child-property deriver, property enforcer, task-stack scheduler,
// and Optimizer facade -- everything in spec.md §4.2 through §4.8. Its
// design is grounded on Peloton's src/optimizer/{rule_impls,
// optimizer_task}.cpp (the original_source this module's spec was distilled
// from) for exact rule and scheduler semantics, and on the teacher's
// pkg/sql/opt/xform package (memo_group.go, general_funcs.go) for Go
// idiom -- though the teacher's actual modern search loop is a different,
// larger design (state.go's alternate-plan heap) not used here; spec.md
// §4.7's task-stack design is authoritative for the algorithm.
package xform

import (
	"github.com/mtunique/peloton/pkg/sql/opt"
	"github.com/mtunique/peloton/pkg/sql/opt/cat"
	"github.com/mtunique/peloton/pkg/sql/opt/memo"
	"github.com/mtunique/peloton/pkg/sql/opt/stats"
)

// RuleClass classifies a rule's role, per spec.md §4.2.
type RuleClass int

const (
	// Transformation rules rewrite a logical expression into another
	// logical expression (e.g. InnerJoinCommutativity).
	Transformation RuleClass = iota
	// Implementation rules rewrite a logical expression into a physical
	// expression (e.g. GetToSeqScan).
	Implementation
	// Rewrite rules are applied exhaustively to fixed point in a pre-search
	// phase, not during cost-based search (e.g. PushFilterThroughJoin).
	Rewrite
)

func (c RuleClass) String() string {
	switch c {
	case Transformation:
		return "transformation"
	case Implementation:
		return "implementation"
	case Rewrite:
		return "rewrite"
	default:
		return "unknown-rule-class"
	}
}

// Promise values implement spec.md §9's "simple two-tier schema
// (physical=2, transformation=1, skipped=0)".
const (
	PromiseSkip           = 0
	PromiseTransformation = 1
	PromisePhysical       = 2
)

// RuleContext is the `ctx` spec.md's rule signatures (promise/check/
// transform) thread through: read-only access to the memo (for inspecting
// child group aliases/output columns) and the external collaborators
// (catalog, statistics) a rule like GetToIndexScan needs.
type RuleContext struct {
	Memo    *memo.Memo
	Catalog cat.Catalog
	Stats   stats.Provider
}

// Rule is one entry in the rule catalog: a pattern plus the four functions
// spec.md §4.2 requires. Rules are represented as data (function-valued
// struct fields) rather than one Go type per rule, the same function-table
// idiom the teacher's operatorTab/operatorInfo.normalizeFn uses for
// per-operator behavior.
type Rule struct {
	// Name identifies the rule (used in logs and tests; promise ties are
	// broken by catalog index, not by name).
	Name string
	// Class is the rule's RuleClass.
	Class RuleClass
	// Pattern is the shape of expression this rule matches.
	Pattern *opt.Pattern
	// Promise returns this rule's non-negative promise for a specific
	// binding; 0 means "do not apply". If nil, basePromise (below) is used
	// unconditionally.
	Promise func(e *opt.Expr, ctx *RuleContext) int
	// Check returns whether the rule actually applies to this binding,
	// beyond what the Pattern alone can express.
	Check func(e *opt.Expr, ctx *RuleContext) bool
	// Transform produces the replacement expression(s).
	Transform func(e *opt.Expr, ctx *RuleContext) []*opt.Expr
}

// basePromise is the rule's default promise, used when Promise is nil.
func (r *Rule) basePromise() int {
	switch r.Class {
	case Implementation:
		return PromisePhysical
	case Transformation:
		return PromiseTransformation
	default:
		return PromiseSkip
	}
}

// promiseFor returns the rule's promise for this binding under the given
// task kind. explore disables Implementation rules entirely, per spec.md
// §4.2's promise policy ("during ExploreExpression, physical rules are
// skipped entirely").
func (r *Rule) promiseFor(e *opt.Expr, ctx *RuleContext, explore bool) int {
	if explore && r.Class == Implementation {
		return PromiseSkip
	}
	if r.Promise != nil {
		return r.Promise(e, ctx)
	}
	return r.basePromise()
}

// RuleSet is an ordered, indexed rule catalog. Order is significant: it is
// the tie-break key for equal-promise rules (spec.md §7's "ties keep
// rule-catalog registration order"), and rule indexes are used as the keys
// in GroupExpr.appliedRules.
type RuleSet struct {
	rules []*Rule
}

// NewRuleSet builds a RuleSet from the given rules, in order.
func NewRuleSet(rules ...*Rule) *RuleSet {
	return &RuleSet{rules: rules}
}

// Len returns the number of rules in the set.
func (rs *RuleSet) Len() int { return len(rs.rules) }

// Rule returns the rule at catalog index i.
func (rs *RuleSet) Rule(i int) *Rule { return rs.rules[i] }

// ForEach calls fn with the index and rule for every rule in the set, in
// catalog order.
func (rs *RuleSet) ForEach(fn func(idx int, r *Rule)) {
	for i, r := range rs.rules {
		fn(i, r)
	}
}
