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

// Package memo implements the central hash-consed store of groups and group
// expressions -- spec.md §3's Memo, Group, and GroupExpression.
package memo

import (
	"fmt"
	"strings"

	"github.com/mtunique/peloton/pkg/sql/opt"
)

// Cost is an accumulated, additive plan cost. Lower is better.
type Cost float64

// ExprOrdinal is the position of a GroupExpr within its owning Group's
// logical, physical, or enforced list (which list is determined by the
// expression's operator classification, per spec.md's Group invariant that
// "logical and physical lists are disjoint").
type ExprOrdinal int

// GroupExpr is one operator + ordered child GroupIDs -- spec.md §3's
// GroupExpression.
type GroupExpr struct {
	// Group is the id of the owning group (the "parent GroupID" of spec.md
	// §3).
	Group opt.GroupID

	// Op is the expression's operator.
	Op opt.Operator

	// Children are the GroupIDs of the expression's children.
	Children []opt.GroupID

	// Private is the operator-specific payload (see pkg/sql/opt/private.go).
	Private interface{}

	// appliedRules records which rules (by catalog index) have already been
	// applied to this expression, so ApplyRule can enforce spec.md §3's
	// "any (expr, rule) pair is applied at most once".
	appliedRules map[int]bool

	// derived caches cost/input-property decisions already computed for a
	// given required PropertySet fingerprint, keyed by that fingerprint --
	// spec.md §3's "per-(output PropertySet) cached (cost, chosen input
	// PropertySets)".
	derived map[string]*DerivedCost
}

// DerivedCost records, for one required PropertySet, the cost this
// GroupExpr was able to achieve and the input PropertySets it required of
// each child to achieve it.
type DerivedCost struct {
	OutputFingerprint string
	InputProps        []string // fingerprint per child, same order as Children
	Cost              Cost
}

// RuleApplied returns true if ruleIdx has already been applied to e.
func (e *GroupExpr) RuleApplied(ruleIdx int) bool {
	return e.appliedRules[ruleIdx]
}

// MarkRuleApplied records that ruleIdx has been applied to e.
func (e *GroupExpr) MarkRuleApplied(ruleIdx int) {
	if e.appliedRules == nil {
		e.appliedRules = make(map[int]bool)
	}
	e.appliedRules[ruleIdx] = true
}

// Derived returns the cached DerivedCost for the given required-properties
// fingerprint, if any.
func (e *GroupExpr) Derived(fingerprint string) (*DerivedCost, bool) {
	d, ok := e.derived[fingerprint]
	return d, ok
}

// SetDerived caches a DerivedCost for the given required-properties
// fingerprint.
func (e *GroupExpr) SetDerived(fingerprint string, d *DerivedCost) {
	if e.derived == nil {
		e.derived = make(map[string]*DerivedCost)
	}
	e.derived[fingerprint] = d
}

// fingerprint returns a string that is equal for two GroupExprs iff they are
// structurally equal (same operator, same child GroupIDs, same private
// payload) -- the hash-consing key spec.md §3 requires: "two group-
// expressions with equal hash/equality MUST collapse to the same memo
// entry".
func (e *GroupExpr) fingerprint() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(", e.Op)
	for i, c := range e.Children {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "g%d", c)
	}
	b.WriteByte(')')
	if e.Private != nil {
		fmt.Fprintf(&b, "|%v", e.Private)
	}
	return b.String()
}

func (e *GroupExpr) String() string {
	children := make([]string, len(e.Children))
	for i, c := range e.Children {
		children[i] = fmt.Sprintf("g%d", c)
	}
	if e.Private != nil {
		return fmt.Sprintf("(%s %s %v)", e.Op, strings.Join(children, " "), e.Private)
	}
	return fmt.Sprintf("(%s %s)", e.Op, strings.Join(children, " "))
}
