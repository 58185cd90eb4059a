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
	"testing"

	"github.com/mtunique/peloton/pkg/sql/opt"
	"github.com/mtunique/peloton/pkg/sql/opt/props"
	"github.com/mtunique/peloton/pkg/sql/opt/testutils/testcat"
)

// TestOptimizeSingleGetChoosesAPhysicalScan covers spec.md §8's simplest
// scenario: a lone Get over a base table must come out the other end as
// some physical scan (SeqScan or IndexScan), never left as an
// unimplemented logical Get.
func TestOptimizeSingleGetChoosesAPhysicalScan(t *testing.T) {
	cat := testcat.New()
	tabID := cat.AddTable(testcat.TableDef{Name: "t", Columns: []string{"a", "b"}, RowCount: 1000})
	aCol := cat.ColumnID("t", "a")

	plan := opt.NewExpr(opt.GetOp, &opt.GetPrivate{Table: tabID, Cols: opt.NewColSet(aCol)})

	opt2 := NewOptimizer(cat, cat)
	result, err := opt2.Optimize(plan, props.NewPropertySet())
	if err != nil {
		t.Fatalf("unexpected error optimizing a single Get: %v", err)
	}
	if !result.Op().IsPhysical() {
		t.Errorf("expected the winning plan's root to be a physical operator, got %s", result.Op())
	}
}

// TestOptimizeIndexSelectionForRequiredSort covers spec.md §8's
// index-selection-on-sort scenario: with a secondary index covering the
// required ordering, the winning plan should be an IndexScan on it rather
// than a SeqScan plus a Sort enforcer.
func TestOptimizeIndexSelectionForRequiredSort(t *testing.T) {
	cat := testcat.New()
	tabID := cat.AddTable(testcat.TableDef{
		Name:             "t",
		Columns:          []string{"a", "b"},
		SecondaryIndexes: [][]string{{"b"}},
		RowCount:         10000,
	})
	aCol := cat.ColumnID("t", "a")
	bCol := cat.ColumnID("t", "b")

	plan := opt.NewExpr(opt.GetOp, &opt.GetPrivate{Table: tabID, Cols: opt.NewColSet(aCol, bCol)})
	required := props.NewPropertySet(props.NewSort(props.OrderingColumn{Col: bCol}))

	opt2 := NewOptimizer(cat, cat)
	result, err := opt2.Optimize(plan, required)
	if err != nil {
		t.Fatalf("unexpected error optimizing a Get with a required sort: %v", err)
	}
	if result.Op() != opt.IndexScanOp {
		t.Errorf("expected the secondary index on b to win over a SeqScan+Sort, got %s", result.Op())
	}
}

// TestOptimizeJoinPicksAPhysicalJoinOperator covers spec.md §8's
// join-method-selection scenario: an InnerJoin of two Gets must resolve to
// one of the two physical join implementations.
func TestOptimizeJoinPicksAPhysicalJoinOperator(t *testing.T) {
	cat := testcat.New()
	tabA := cat.AddTable(testcat.TableDef{Name: "a", Columns: []string{"x"}, RowCount: 100})
	tabB := cat.AddTable(testcat.TableDef{Name: "b", Columns: []string{"y"}, RowCount: 100})
	xCol := cat.ColumnID("a", "x")
	yCol := cat.ColumnID("b", "y")

	left := opt.NewExpr(opt.GetOp, &opt.GetPrivate{Table: tabA, Cols: opt.NewColSet(xCol)})
	right := opt.NewExpr(opt.GetOp, &opt.GetPrivate{Table: tabB, Cols: opt.NewColSet(yCol)})
	pred := opt.NewExpr(opt.EqOp, nil,
		opt.NewExpr(opt.VariableOp, &opt.VariablePrivate{Col: xCol}),
		opt.NewExpr(opt.VariableOp, &opt.VariablePrivate{Col: yCol}),
	)
	plan := opt.NewExpr(opt.InnerJoinOp, &opt.JoinPrivate{Predicate: pred}, left, right)

	opt2 := NewOptimizer(cat, cat)
	result, err := opt2.Optimize(plan, props.NewPropertySet())
	if err != nil {
		t.Fatalf("unexpected error optimizing a join: %v", err)
	}
	if result.Op() != opt.InnerNLJoinOp && result.Op() != opt.InnerHashJoinOp {
		t.Errorf("expected a physical join implementation (NLJoin or HashJoin), got %s", result.Op())
	}
}

// TestOptimizeReturnsErrNoPlanFoundWhenUnreachable covers spec.md §5's
// ErrNoPlanFound contract: requiring a Limit property (which nothing in
// the default rule catalog can ever produce for a bare Get) must fail
// cleanly rather than return a plan that silently ignores the requirement.
func TestOptimizeReturnsErrNoPlanFoundWhenUnreachable(t *testing.T) {
	cat := testcat.New()
	tabID := cat.AddTable(testcat.TableDef{Name: "t", Columns: []string{"a"}, RowCount: 10})
	aCol := cat.ColumnID("t", "a")

	plan := opt.NewExpr(opt.GetOp, &opt.GetPrivate{Table: tabID, Cols: opt.NewColSet(aCol)})
	required := props.NewPropertySet(props.NewLimit(0, 5))

	opt2 := NewOptimizer(cat, cat)
	_, err := opt2.Optimize(plan, required)
	if err == nil {
		t.Fatalf("expected ErrNoPlanFound when no rule can satisfy a required Limit without a LimitOp in the plan")
	}
}

// TestOptimizeWithRulesOverrideRestrictsToNLJoin covers WithRules: a rule
// set excluding the hash-join implementation rule must never produce a
// HashJoin winner.
func TestOptimizeWithRulesOverrideRestrictsToNLJoin(t *testing.T) {
	cat := testcat.New()
	tabA := cat.AddTable(testcat.TableDef{Name: "a", Columns: []string{"x"}, RowCount: 100})
	tabB := cat.AddTable(testcat.TableDef{Name: "b", Columns: []string{"y"}, RowCount: 100})
	xCol := cat.ColumnID("a", "x")
	yCol := cat.ColumnID("b", "y")

	left := opt.NewExpr(opt.GetOp, &opt.GetPrivate{Table: tabA, Cols: opt.NewColSet(xCol)})
	right := opt.NewExpr(opt.GetOp, &opt.GetPrivate{Table: tabB, Cols: opt.NewColSet(yCol)})
	pred := opt.NewExpr(opt.EqOp, nil,
		opt.NewExpr(opt.VariableOp, &opt.VariablePrivate{Col: xCol}),
		opt.NewExpr(opt.VariableOp, &opt.VariablePrivate{Col: yCol}),
	)
	plan := opt.NewExpr(opt.InnerJoinOp, &opt.JoinPrivate{Predicate: pred}, left, right)

	restricted := NewRuleSet(GetToSeqScanRule, InnerJoinToInnerNLJoinRule)
	opt2 := NewOptimizer(cat, cat, WithRules(restricted))
	result, err := opt2.Optimize(plan, props.NewPropertySet())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Op() != opt.InnerNLJoinOp {
		t.Errorf("expected WithRules to restrict the winner to InnerNLJoin, got %s", result.Op())
	}
}
