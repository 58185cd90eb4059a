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
	"github.com/cockroachdb/errors"

	"github.com/mtunique/peloton/pkg/sql/opt"
	"github.com/mtunique/peloton/pkg/sql/opt/cat"
	"github.com/mtunique/peloton/pkg/sql/opt/memo"
	"github.com/mtunique/peloton/pkg/sql/opt/props"
	"github.com/mtunique/peloton/pkg/sql/opt/stats"
)

// ErrNoPlanFound is returned by Optimize when the task-stack search
// exhausts every candidate without finding a physical plan that satisfies
// the requested properties within budget -- spec.md §7's sole user-visible
// optimizer failure.
var ErrNoPlanFound = errors.New("no physical plan satisfies the required properties")

// Optimizer is the facade spec.md §4.8 describes: given a logical plan
// (expressed as an *opt.Expr tree) and a required PropertySet, it drives the
// memo through the rewrite phase and cost-based search and returns the
// winning physical plan.
type Optimizer struct {
	catalog      cat.Catalog
	stats        stats.Provider
	rules        *RuleSet
	rewriteRules *RuleSet

	ruleLog func(ruleName string, group opt.GroupID)
}

// Option configures an Optimizer at construction time.
type Option func(*Optimizer)

// WithRules overrides the default cost-based search rule set (DefaultRules)
// with an explicit RuleSet -- e.g. for a test that wants to isolate one
// rule family, grounded on the teacher's OptTesterFlags bit-flag idiom for
// selectively enabling rules.
func WithRules(rules *RuleSet) Option {
	return func(o *Optimizer) { o.rules = rules }
}

// WithRewriteRules overrides the default pre-search rewrite rule set
// (DefaultRewriteRules).
func WithRewriteRules(rules *RuleSet) Option {
	return func(o *Optimizer) { o.rewriteRules = rules }
}

// NewOptimizer builds an Optimizer over the given catalog and statistics
// provider, using DefaultRules for cost-based search and
// DefaultRewriteRules for the pre-search rewrite phase unless overridden by
// WithRules/WithRewriteRules.
func NewOptimizer(catalog cat.Catalog, statsProvider stats.Provider, opts ...Option) *Optimizer {
	o := &Optimizer{
		catalog:      catalog,
		stats:        statsProvider,
		rules:        DefaultRules,
		rewriteRules: DefaultRewriteRules,
	}
	for _, apply := range opts {
		apply(o)
	}
	return o
}

// SetRuleLog installs a callback invoked once per expression a rule's
// Transform produces during cost-based search (rule name, group the
// expression was inserted into) -- spec.md §5's optional tracing hook, exposed instead of
// a logging library per SPEC_FULL.md §5.
func (o *Optimizer) SetRuleLog(fn func(ruleName string, group opt.GroupID)) {
	o.ruleLog = fn
}

// Optimize builds a memo from plan, rewrites it to a fixed point, searches
// for the lowest-cost physical plan satisfying required, and reconstructs
// that plan as an *opt.Expr tree -- spec.md §4.8's five-step Optimize
// algorithm:
//  1. Insert the logical plan into a fresh Memo (bottom-up, via
//     InsertExpression).
//  2. Run the rewrite phase to a fixed point.
//  3. Push the root OptimizeGroup task with cost_upper_bound = +inf.
//  4. Drain the task stack.
//  5. Reconstruct the physical plan from the root group's winner.
func (o *Optimizer) Optimize(plan *opt.Expr, required *props.PropertySet) (*opt.Expr, error) {
	m := memo.New()
	_, rootGroup, _ := m.InsertExpression(plan, 0, false)
	m.SetRoot(rootGroup)

	ctx := RuleContext{Memo: m, Catalog: o.catalog, Stats: o.stats}

	rewriteToFixedPoint(&ctx, o.rewriteRules)

	root := m.RootGroup()
	sched := newScheduler(ctx, o.rules, o.ruleLog)
	sched.push(&optimizeGroupTask{Group: root, Required: required, UpperBound: memo.InfiniteCost})
	sched.Drain()

	g := m.GetGroupByID(root)
	winner, ok := g.Winner(required)
	if !ok {
		return nil, errors.Wrapf(ErrNoPlanFound, "group %d, required %s", root, required)
	}
	return reconstructPlan(m, g, winner), nil
}

// reconstructPlan walks the recorded Winner chain from the root group down,
// rebuilding the physical plan as an *opt.Expr tree -- spec.md §4.8 step 5.
func reconstructPlan(m *memo.Memo, g *memo.Group, winner *memo.Winner) *opt.Expr {
	children := make([]*opt.Expr, len(winner.Expr.Children))
	for i, childGroupID := range winner.Expr.Children {
		childGroup := m.GetGroupByID(childGroupID)
		childReq := winner.InputProps[i]
		childWinner, ok := childGroup.Winner(childReq)
		if !ok {
			// The recorded winner chain is internally consistent by
			// construction (OptimizeInputs only records a parent winner
			// after confirming every child winner it depends on exists);
			// reaching here means the memo was mutated after search
			// finished.
			panic(errors.AssertionFailedf("no winner for group %d under required %s", childGroup.ID(), childReq))
		}
		children[i] = reconstructPlan(m, childGroup, childWinner)
	}
	return opt.NewExpr(winner.Expr.Op, winner.Expr.Private, children...)
}
