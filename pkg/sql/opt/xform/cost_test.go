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
)

func eqPredicate(left, right opt.ColumnID) *opt.Expr {
	return opt.NewExpr(opt.EqOp, nil,
		opt.NewExpr(opt.VariableOp, &opt.VariablePrivate{Col: left}),
		opt.NewExpr(opt.VariableOp, &opt.VariablePrivate{Col: right}),
	)
}

func TestJoinOutputRowsPrimaryKeyCollapsesToMin(t *testing.T) {
	left := &Stats{RowCount: 1000, PrimaryIndexCols: opt.NewColSet(1)}
	right := &Stats{RowCount: 50, Cardinality: map[opt.ColumnID]int64{}}

	rows := joinOutputRows(eqPredicate(1, 2), left, right)
	if rows != 50 {
		t.Errorf("expected a primary-index equi-join to collapse to min(1000,50)=50, got %d", rows)
	}
}

func TestJoinOutputRowsNonKeyUsesCardinalityEstimate(t *testing.T) {
	left := &Stats{RowCount: 100, Cardinality: map[opt.ColumnID]int64{1: 10}}
	right := &Stats{RowCount: 100, Cardinality: map[opt.ColumnID]int64{2: 10}}

	rows := joinOutputRows(eqPredicate(1, 2), left, right)
	// 100*100 / sqrt(10*10) = 10000/10 = 1000
	if rows != 1000 {
		t.Errorf("expected L.rows*R.rows/sqrt(cardL*cardR) = 1000, got %d", rows)
	}
}

func TestJoinOutputRowsFallsBackToCartesian(t *testing.T) {
	left := &Stats{RowCount: 10}
	right := &Stats{RowCount: 20}

	rows := joinOutputRows(nil, left, right)
	if rows != 200 {
		t.Errorf("expected a cross join (no predicate) to estimate a cartesian product, got %d", rows)
	}
}

func TestJoinOutputRowsPrimaryKeyMatchIsOrientationIndependent(t *testing.T) {
	// joinOutputRows doesn't know which side of the tree a predicate operand
	// came from, so it checks a key match in both orientations -- a
	// predicate written rCol=lCol collapses just as one written lCol=rCol
	// does, as long as one operand is some side's primary key.
	left := &Stats{RowCount: 1000, Cardinality: map[opt.ColumnID]int64{}}
	right := &Stats{RowCount: 50, PrimaryIndexCols: opt.NewColSet(2)}

	forward := joinOutputRows(eqPredicate(1, 2), left, right)
	backward := joinOutputRows(eqPredicate(2, 1), left, right)
	if forward != 50 || backward != 50 {
		t.Errorf("expected both predicate orientations to collapse to min(1000,50)=50, got forward=%d backward=%d", forward, backward)
	}
}

func TestLimitCostUsesMinNotMax(t *testing.T) {
	_, out := limitCost(&opt.LimitPrivate{Limit: 100}, &Stats{RowCount: 10})
	if out.RowCount != 10 {
		t.Errorf("expected limitCost to use min(inputRows, limit) = 10, got %d", out.RowCount)
	}

	_, out2 := limitCost(&opt.LimitPrivate{Limit: 5}, &Stats{RowCount: 1000})
	if out2.RowCount != 5 {
		t.Errorf("expected limitCost to use min(inputRows, limit) = 5, got %d", out2.RowCount)
	}
}

func TestSortCostCollapsesOnPrimaryIndexPrefix(t *testing.T) {
	sorted := &Stats{RowCount: 1000, PrimaryIndexCols: opt.NewColSet(1)}
	cost := sortCost(1, false, sorted)
	if cost != OperatorCost {
		t.Errorf("expected a sort already satisfied by the primary index to cost OperatorCost, got %v", cost)
	}

	unsorted := &Stats{RowCount: 1000}
	cost2 := sortCost(1, false, unsorted)
	if cost2 <= OperatorCost {
		t.Errorf("expected sorting an unsorted input to cost more than the trivial OperatorCost, got %v", cost2)
	}
}

func TestHashGroupByMissingCardinalityUsesOneNotZero(t *testing.T) {
	input := &Stats{RowCount: 100, Cardinality: map[opt.ColumnID]int64{1: 5}}
	_, out := hashGroupByCost(&opt.GroupByPrivate{GroupingCols: opt.NewColSet(1, 2)}, input)
	// col 2 has no stats; if the product's neutral element were 0 (stats'
	// DefaultCardinality), outRows would be forced to 0 regardless of col 1.
	if out.RowCount == 0 {
		t.Errorf("expected a missing-stats grouping column to use 1 as the product's neutral element, not force output rows to 0")
	}
}
