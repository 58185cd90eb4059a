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
	"fmt"
	"sort"

	"github.com/mtunique/peloton/pkg/sql/opt"
	"github.com/mtunique/peloton/pkg/sql/opt/memo"
	"github.com/mtunique/peloton/pkg/sql/opt/props"
)

// Task is one unit of work on the Scheduler's LIFO stack -- spec.md §4.7's
// "task stack & scheduler". Each concrete Task type owns exactly the resume
// state it needs (spec.md §9), and a Task that cannot finish in one Run call
// suspends by re-pushing itself before pushing whatever it is waiting on.
type Task interface {
	Run(s *Scheduler)
}

// Scheduler drives the task stack: it owns the memo and collaborators
// (via RuleContext), the active RuleSet, and an optional rule-application
// log hook -- spec.md §5's "SetRuleLog" callback.
type Scheduler struct {
	ctx     RuleContext
	rules   *RuleSet
	stack   []Task
	ruleLog func(ruleName string, group opt.GroupID)

	// stats caches the output Stats computed for a (group, required-
	// properties) pair the last time OptimizeInputs recorded a winner for
	// it -- the cost model bookkeeping spec.md §3 describes living on Group
	// as a "lazy per-column statistics map", kept here instead to keep
	// pkg/sql/opt/memo free of cost-model concerns (see cost.go's doc
	// comment on Stats).
	stats map[string]*Stats
}

// newScheduler builds a Scheduler for one Optimize call.
func newScheduler(ctx RuleContext, rules *RuleSet, ruleLog func(string, opt.GroupID)) *Scheduler {
	return &Scheduler{ctx: ctx, rules: rules, ruleLog: ruleLog, stats: make(map[string]*Stats)}
}

func (s *Scheduler) push(t Task) { s.stack = append(s.stack, t) }

func (s *Scheduler) pop() (Task, bool) {
	if len(s.stack) == 0 {
		return nil, false
	}
	t := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return t, true
}

// Drain pops and runs tasks until the stack is empty -- spec.md §4.8 step 4.
func (s *Scheduler) Drain() {
	for {
		t, ok := s.pop()
		if !ok {
			return
		}
		t.Run(s)
	}
}

func statsKey(group opt.GroupID, required *props.PropertySet) string {
	return fmt.Sprintf("%d:%s", group, required.Fingerprint())
}

func (s *Scheduler) setStats(group opt.GroupID, required *props.PropertySet, st *Stats) {
	s.stats[statsKey(group, required)] = st
}

func (s *Scheduler) statsFor(group opt.GroupID, required *props.PropertySet) *Stats {
	if st, ok := s.stats[statsKey(group, required)]; ok {
		return st
	}
	// Not yet computed (e.g. the deriver proposed a pair whose child
	// winner was recorded by a different code path). Fall back to an
	// empty-but-valid Stats rather than nil, so cost formulas never have to
	// nil-check their inputs.
	return &Stats{Cardinality: map[opt.ColumnID]int64{}, PrimaryIndexCols: opt.ColSet{}}
}

// logRule invokes the Scheduler's rule-log hook, if any.
func (s *Scheduler) logRule(name string, group opt.GroupID) {
	if s.ruleLog != nil {
		s.ruleLog(name, group)
	}
}

// ---- OptimizeGroup --------------------------------------------------------

// optimizeGroupTask implements spec.md §4.7's OptimizeGroup row: it prunes
// against the group's cost lower bound and any existing winner, otherwise
// seeds OptimizeExpression for each logical expression (only if the group
// has not yet been explored) and OptimizeInputs for each physical
// expression.
type optimizeGroupTask struct {
	Group      opt.GroupID
	Required   *props.PropertySet
	UpperBound memo.Cost
}

func (t *optimizeGroupTask) Run(s *Scheduler) {
	g := s.ctx.Memo.GetGroupByID(t.Group)
	if g.CostLowerBound() > t.UpperBound {
		return
	}
	if _, ok := g.Winner(t.Required); ok {
		return
	}
	if !g.Explored() {
		for _, e := range g.LogicalExprs() {
			s.push(&optimizeExpressionTask{Expr: e, Required: t.Required, UpperBound: t.UpperBound})
		}
	}
	for _, e := range g.PhysicalExprs() {
		s.push(&optimizeInputsTask{Expr: e, Required: t.Required, UpperBound: t.UpperBound})
	}
	g.SetExplored()
}

// ---- ExploreGroup ----------------------------------------------------------

// exploreGroupTask implements spec.md §4.7's ExploreGroup row: push
// ExploreExpression for each logical expression, once, then mark explored.
type exploreGroupTask struct {
	Group opt.GroupID
}

func (t *exploreGroupTask) Run(s *Scheduler) {
	g := s.ctx.Memo.GetGroupByID(t.Group)
	if g.Explored() {
		return
	}
	for _, e := range g.LogicalExprs() {
		s.push(&exploreExpressionTask{Expr: e})
	}
	g.SetExplored()
}

// ---- OptimizeExpression / ExploreExpression -------------------------------

// optimizeExpressionTask implements spec.md §4.7's OptimizeExpression row.
type optimizeExpressionTask struct {
	Expr       *memo.GroupExpr
	Required   *props.PropertySet
	UpperBound memo.Cost
}

func (t *optimizeExpressionTask) Run(s *Scheduler) {
	pushExpressionWork(s, t.Expr, t.Required, t.UpperBound, false /* explore */)
}

// exploreExpressionTask implements spec.md §4.7's ExploreExpression row:
// identical to OptimizeExpression except physical (Implementation-class)
// rules are skipped.
type exploreExpressionTask struct {
	Expr *memo.GroupExpr
}

func (t *exploreExpressionTask) Run(s *Scheduler) {
	pushExpressionWork(s, t.Expr, nil, 0, true /* explore */)
}

// ruleCandidate is one rule whose pattern root matches ge's operator and
// whose promise is positive for the current task kind.
type ruleCandidate struct {
	idx     int
	rule    *Rule
	promise int
}

// pushExpressionWork collects every rule applicable to ge (root operator
// match, positive promise under the explore/optimize distinction), sorts
// them promise-descending (stable, so catalog order breaks ties -- spec.md
// §7's note on RuleWithPromise's sort stability), and for each rule, in
// that order, pushes ExploreGroup for every non-leaf child pattern's
// corresponding child group followed by ApplyRule -- spec.md §4.7's
// OptimizeExpression/ExploreExpression row.
func pushExpressionWork(
	s *Scheduler, ge *memo.GroupExpr, required *props.PropertySet, upperBound memo.Cost, explore bool,
) {
	var candidates []ruleCandidate
	s.rules.ForEach(func(idx int, r *Rule) {
		if r.Pattern.Op != ge.Op {
			return
		}
		if ge.RuleApplied(idx) {
			return
		}
		bound := exprFromLeaves(ge)
		p := r.promiseFor(bound, &s.ctx, explore)
		if p > 0 {
			candidates = append(candidates, ruleCandidate{idx: idx, rule: r, promise: p})
		}
	})
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].promise > candidates[j].promise })

	// Push in reverse candidate order, so the highest-promise rule's work
	// ends up nearest the top of the (LIFO) stack and therefore runs first.
	for i := len(candidates) - 1; i >= 0; i-- {
		c := candidates[i]
		s.push(&applyRuleTask{
			Expr: ge, RuleIdx: c.idx, Required: required, UpperBound: upperBound, FromExplore: explore,
		})
		children := ge.Children
		for j := len(children) - 1; j >= 0; j-- {
			if j < len(c.rule.Pattern.Children) && c.rule.Pattern.Children[j].Any {
				continue // Leaf child pattern: nothing to explore further.
			}
			s.push(&exploreGroupTask{Group: children[j]})
		}
	}
}

// ---- ApplyRule --------------------------------------------------------------

// applyRuleTask implements spec.md §4.7's ApplyRule row.
type applyRuleTask struct {
	Expr        *memo.GroupExpr
	RuleIdx     int
	Required    *props.PropertySet
	UpperBound  memo.Cost
	FromExplore bool
}

func (t *applyRuleTask) Run(s *Scheduler) {
	if t.Expr.RuleApplied(t.RuleIdx) {
		return
	}
	rule := s.rules.Rule(t.RuleIdx)

	for _, bound := range Bindings(s.ctx.Memo, t.Expr, rule.Pattern) {
		if !rule.Check(bound, &s.ctx) {
			continue
		}
		for _, result := range rule.Transform(bound, &s.ctx) {
			newExpr, newGroup, isNew := s.ctx.Memo.InsertExpression(result, t.Expr.Group, false)
			s.logRule(rule.Name, newGroup)
			if !isNew || newExpr == nil {
				continue
			}
			if newExpr.Op.IsPhysical() {
				s.push(&optimizeInputsTask{Expr: newExpr, Required: t.Required, UpperBound: t.UpperBound})
			} else if t.FromExplore {
				s.push(&exploreExpressionTask{Expr: newExpr})
			} else {
				s.push(&optimizeExpressionTask{Expr: newExpr, Required: t.Required, UpperBound: t.UpperBound})
			}
		}
	}
	t.Expr.MarkRuleApplied(t.RuleIdx)
}

// ---- OptimizeInputs ---------------------------------------------------------

// optimizeInputsTask implements spec.md §4.7's OptimizeInputs row: a state
// machine over the deriver's (output_prop, input_props[]) pairs, iterating
// children left-to-right and suspending (re-pushing itself, then pushing
// OptimizeGroup on the unsatisfied child) whenever a child lacks a winner
// for its required input property. If the child still lacks that winner
// when the task resumes, the pair is abandoned.
//
// childIdx/preChildIdx/totalCost/pairIdx are exactly the resumption fields
// spec.md §9 and SPEC_FULL.md §7 name (cur_child_idx_, pre_child_idx_,
// cur_total_cost_, cur_prop_pair_idx_). The loop terminates on
// childIdx == len(children) -- spec.md §9's documented bug fix, not on the
// length of the derivation's input-properties slice (those are always the
// same length as children by construction here, but the comparison target
// matters for the fix to be meaningful against the original).
type optimizeInputsTask struct {
	Expr       *memo.GroupExpr
	Required   *props.PropertySet
	UpperBound memo.Cost

	initialized bool
	derivations []Derivation

	pairIdx     int
	childIdx    int
	preChildIdx int
	totalCost   memo.Cost
}

func (t *optimizeInputsTask) Run(s *Scheduler) {
	if !t.initialized {
		t.derivations = DeriveChildProperties(s.ctx.Memo, t.Expr, t.Required, &s.ctx)
		t.preChildIdx = -1
		t.initialized = true
	}

	children := t.Expr.Children
	for t.pairIdx < len(t.derivations) {
		deriv := t.derivations[t.pairIdx]

		for t.childIdx < len(children) {
			reqForChild := deriv.Input[t.childIdx]
			childGroup := s.ctx.Memo.GetGroupByID(children[t.childIdx])
			winner, ok := childGroup.Winner(reqForChild)
			if !ok {
				if t.preChildIdx == t.childIdx {
					// This child's OptimizeGroup already ran for this pair
					// and found no plan under reqForChild: abandon the pair.
					break
				}
				remaining := t.UpperBound - t.totalCost
				t.preChildIdx = t.childIdx
				s.push(t) // resume here once the child has been optimized
				s.push(&optimizeGroupTask{Group: children[t.childIdx], Required: reqForChild, UpperBound: remaining})
				return
			}
			t.totalCost += winner.Cost
			if t.totalCost > t.UpperBound {
				break // this pair can't beat the budget; abandon it
			}
			t.preChildIdx = t.childIdx
			t.childIdx++
		}

		if t.childIdx == len(children) {
			t.recordWinner(s, deriv)
		}

		t.pairIdx++
		t.childIdx = 0
		t.preChildIdx = -1
		t.totalCost = 0
	}
}

// recordWinner costs ge's own contribution on top of the already-summed
// child costs, and if within budget, updates the group's winner for
// deriv.Output and -- directly or through a Sort enforcer -- for
// t.Required.
func (t *optimizeInputsTask) recordWinner(s *Scheduler, deriv Derivation) {
	children := t.Expr.Children
	childStats := make([]*Stats, len(children))
	for i, cg := range children {
		childStats[i] = s.statsFor(cg, deriv.Input[i])
	}

	ownCost, outStats := computeOwnCost(t.Expr.Op, t.Expr.Private, childStats, &s.ctx)
	total := t.totalCost + ownCost
	if total > t.UpperBound {
		return
	}

	grp := s.ctx.Memo.GetGroupByID(t.Expr.Group)
	grp.UpdateWinner(&memo.Winner{Required: deriv.Output, Expr: t.Expr, Cost: total, InputProps: deriv.Input})
	s.setStats(t.Expr.Group, deriv.Output, outStats)

	if deriv.Output.Dominates(t.Required) {
		grp.UpdateWinner(&memo.Winner{Required: t.Required, Expr: t.Expr, Cost: total, InputProps: deriv.Input})
		s.setStats(t.Expr.Group, t.Required, outStats)
		return
	}

	enfExpr, enfGroup, needed := EnforceMissing(s.ctx.Memo, t.Expr.Group, deriv.Output, t.Required)
	if !needed {
		return
	}
	// EnforceMissing only ever closes a Sort gap -- it has no notion of
	// Distinct/Limit. Before trusting the enforced expression as a winner
	// for the *entire* t.Required, check that deriv.Output plus the Sort
	// the enforcer now guarantees actually dominates every property in
	// t.Required, not just Sort. A required Distinct/Limit that deriv.Output
	// never offered stays unmet, and the enforced plan must not be recorded
	// as satisfying it.
	sortReq, _ := t.Required.Get(props.SortKind)
	enforcedOutput := withSortProperty(deriv.Output, sortReq)
	if !enforcedOutput.Dominates(t.Required) {
		return
	}
	enfCost := total + enforcerCost(enfExpr, outStats)
	if enfCost > t.UpperBound {
		return
	}
	enfGrp := s.ctx.Memo.GetGroupByID(enfGroup)
	enfGrp.UpdateWinner(&memo.Winner{
		Required: t.Required, Expr: enfExpr, Cost: enfCost, InputProps: []*props.PropertySet{deriv.Output},
	})
	s.setStats(enfGroup, t.Required, outStats)
}

// withSortProperty returns a PropertySet with base's properties, but with
// the Sort property (if any) replaced by sort -- used to reason about what
// a Sort-enforced expression's output actually guarantees, without mutating
// base itself.
func withSortProperty(base *props.PropertySet, sort props.Property) *props.PropertySet {
	kept := make([]props.Property, 0, len(base.Properties())+1)
	for _, p := range base.Properties() {
		if p.Kind != props.SortKind {
			kept = append(kept, p)
		}
	}
	kept = append(kept, sort)
	return props.NewPropertySet(kept...)
}
