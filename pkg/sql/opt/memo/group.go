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

package memo

import (
	"math"

	"github.com/mtunique/peloton/pkg/sql/opt"
	"github.com/mtunique/peloton/pkg/sql/opt/props"
)

// Winner records the lowest-cost GroupExpr known so far for one required
// PropertySet -- spec.md §3's Group map "PropertySet -> (cost, winning
// GroupExpression)".
type Winner struct {
	Required *props.PropertySet
	Expr     *GroupExpr
	Cost     Cost
	// InputProps are the PropertySets Winner.Expr required of each of its
	// children to achieve Cost, in child order.
	InputProps []*props.PropertySet
}

// Group is a set of logically equivalent expressions -- spec.md §3's Group.
type Group struct {
	id opt.GroupID

	// logical holds logical (not-yet-implemented) expressions.
	logical []*GroupExpr
	// physical holds physical (implementation-rule output) expressions.
	physical []*GroupExpr
	// enforced holds enforcer-introduced expressions (e.g. Sort), which are
	// excluded from rule exploration per spec.md §9 ("excluded from
	// transformation rule matching to avoid infinite enforcement loops").
	enforced []*GroupExpr

	// winners maps a required PropertySet's Fingerprint to the best Winner
	// found for it so far.
	winners map[string]*Winner

	// explored is set once every logical expression in the group has had
	// every applicable exploration rule considered -- spec.md §3's
	// has_explored flag.
	explored bool

	// costLowerBound is a lower bound on any plan this group can produce,
	// used by OptimizeGroup to prune before even considering expressions.
	costLowerBound Cost

	// aliases is the set of table aliases this group's rows originate from,
	// used by join rules (PushFilterThroughJoin,
	// InnerJoinToInnerHashJoin) to classify predicates without re-walking
	// the subtree.
	aliases opt.AliasSet

	// outputCols is the set of columns this group's expressions produce.
	outputCols opt.ColSet
}

// ID returns the group's GroupID.
func (g *Group) ID() opt.GroupID { return g.id }

// Aliases returns the set of table aliases this group represents.
func (g *Group) Aliases() opt.AliasSet { return g.aliases }

// OutputCols returns the set of columns this group's expressions produce.
func (g *Group) OutputCols() opt.ColSet { return g.outputCols }

// Explored returns whether the group's has_explored flag is set.
func (g *Group) Explored() bool { return g.explored }

// SetExplored marks the group as fully explored.
func (g *Group) SetExplored() { g.explored = true }

// CostLowerBound returns the group's cost lower bound.
func (g *Group) CostLowerBound() Cost { return g.costLowerBound }

// SetCostLowerBound updates the group's cost lower bound, keeping the
// tightest (highest) bound seen so far.
func (g *Group) SetCostLowerBound(c Cost) {
	if c > g.costLowerBound {
		g.costLowerBound = c
	}
}

// LogicalExprs returns the group's logical expressions.
func (g *Group) LogicalExprs() []*GroupExpr { return g.logical }

// SetLogicalExprs replaces the group's logical expression list -- used by
// the rewrite phase's EraseLogicalExpression step (spec.md §4.8) to drop a
// superseded logical expression before inserting its replacement.
func (g *Group) SetLogicalExprs(exprs []*GroupExpr) { g.logical = exprs }

// PhysicalExprs returns the group's physical expressions.
func (g *Group) PhysicalExprs() []*GroupExpr { return g.physical }

// EnforcedExprs returns the group's enforcer-introduced expressions.
func (g *Group) EnforcedExprs() []*GroupExpr { return g.enforced }

// AllExprs returns every expression in the group (logical, physical, and
// enforced), for iteration contexts (e.g. fingerprint lookup) that don't
// care about classification.
func (g *Group) AllExprs() []*GroupExpr {
	all := make([]*GroupExpr, 0, len(g.logical)+len(g.physical)+len(g.enforced))
	all = append(all, g.logical...)
	all = append(all, g.physical...)
	all = append(all, g.enforced...)
	return all
}

// Winner returns the best Winner recorded for the given required
// PropertySet, if any.
func (g *Group) Winner(required *props.PropertySet) (*Winner, bool) {
	if g.winners == nil {
		return nil, false
	}
	w, ok := g.winners[required.Fingerprint()]
	return w, ok
}

// UpdateWinner records candidate as the group's Winner for its Required
// PropertySet if it is cheaper than (or there is no) existing winner --
// spec.md §4.1's MergeGroup contract ("preserve lowest-cost winners: keep
// the lower cost per PropertySet") applies equally to plain winner updates.
// It returns true if candidate became the winner; a candidate whose cost is
// not strictly lower than the existing winner's leaves it in place and
// returns false.
func (g *Group) UpdateWinner(candidate *Winner) bool {
	if g.winners == nil {
		g.winners = make(map[string]*Winner)
	}
	key := candidate.Required.Fingerprint()
	existing, ok := g.winners[key]
	if !ok || candidate.Cost < existing.Cost {
		g.winners[key] = candidate
		return true
	}
	return false
}

// newGroup constructs an empty Group with a cost lower bound of 0 -- lower
// bounds start permissive (0) and only tighten upward,
// matching a branch-and-bound lower bound's monotonic-increase discipline.
func newGroup(id opt.GroupID) *Group {
	return &Group{id: id, costLowerBound: 0}
}

// infiniteCost is the upper bound passed to the root OptimizeGroup call,
// per spec.md §4.8 ("cost_upper_bound = +inf").
const infiniteCost = Cost(math.MaxFloat64)

// InfiniteCost is infiniteCost, exported for callers outside this package
// (the Optimizer facade) that need to seed a search with no cost budget.
const InfiniteCost = infiniteCost
