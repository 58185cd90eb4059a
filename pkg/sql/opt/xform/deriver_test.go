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
	"github.com/mtunique/peloton/pkg/sql/opt/memo"
	"github.com/mtunique/peloton/pkg/sql/opt/props"
	"github.com/mtunique/peloton/pkg/sql/opt/testutils/testcat"
)

func newTestMemo(expr *opt.Expr) (*memo.Memo, *memo.GroupExpr, opt.GroupID) {
	m := memo.New()
	_, g, _ := m.InsertExpression(expr, 0, false)
	return m, m.GetGroupByID(g).AllExprs()[0], g
}

func TestDeriveChildPropertiesSeqScanOffersNoSort(t *testing.T) {
	expr := opt.NewExpr(opt.SeqScanOp, &opt.SeqScanPrivate{Table: 1, Cols: opt.NewColSet(1)})
	m, ge, _ := newTestMemo(expr)

	derivs := DeriveChildProperties(m, ge, props.NewPropertySet(), &RuleContext{Memo: m})
	if len(derivs) != 1 {
		t.Fatalf("expected SeqScan to offer exactly one derivation, got %d", len(derivs))
	}
	if _, ok := derivs[0].Output.Get(props.SortKind); ok {
		t.Errorf("expected a SeqScan's output to never carry a Sort property")
	}
}

func TestDeriveChildPropertiesIndexScanSatisfiesPrefixSort(t *testing.T) {
	cat := testcat.New()
	tabID := cat.AddTable(testcat.TableDef{
		Name:    "t",
		Columns: []string{"a", "b"},
	})
	aCol := cat.ColumnID("t", "a")

	expr := opt.NewExpr(opt.IndexScanOp, &opt.IndexScanPrivate{Table: tabID, Index: 0, Cols: opt.NewColSet(aCol)})
	m, ge, _ := newTestMemo(expr)

	required := props.NewPropertySet(props.NewSort(props.OrderingColumn{Col: aCol}))
	ctx := &RuleContext{Memo: m, Catalog: cat}
	derivs := DeriveChildProperties(m, ge, required, ctx)

	if len(derivs) != 1 {
		t.Fatalf("expected exactly one derivation, got %d", len(derivs))
	}
	sortProp, ok := derivs[0].Output.Get(props.SortKind)
	if !ok {
		t.Fatalf("expected an IndexScan over the primary key to satisfy a required sort on that key")
	}
	reqSort, _ := required.Get(props.SortKind)
	if !sortProp.Dominates(reqSort) {
		t.Errorf("expected the offered Sort to dominate what was required")
	}
}

func TestDeriveChildPropertiesHashJoinOffersUnsortedAndSortedPair(t *testing.T) {
	priv := &opt.HashJoinPrivate{LeftKeys: []opt.ColumnID{1}, RightKeys: []opt.ColumnID{2}}
	left := opt.NewExpr(opt.SeqScanOp, &opt.SeqScanPrivate{Table: 1, Cols: opt.NewColSet(1)})
	right := opt.NewExpr(opt.SeqScanOp, &opt.SeqScanPrivate{Table: 2, Cols: opt.NewColSet(2)})
	expr := opt.NewExpr(opt.InnerHashJoinOp, priv, left, right)
	m, ge, _ := newTestMemo(expr)

	derivs := DeriveChildProperties(m, ge, props.NewPropertySet(), &RuleContext{Memo: m})
	if len(derivs) != 2 {
		t.Fatalf("expected a HashJoin with both join keys to offer 2 derivations (unsorted, sorted-on-keys), got %d", len(derivs))
	}
	if _, ok := derivs[0].Input[0].Get(props.SortKind); ok {
		t.Errorf("expected the first derivation's children to require no Sort")
	}
	sortReq, ok := derivs[1].Input[0].Get(props.SortKind)
	if !ok || len(sortReq.Ordering) != 1 || sortReq.Ordering[0].Col != 1 {
		t.Errorf("expected the second derivation to require the left child sorted on its hash key")
	}
}

func TestDeriveChildPropertiesPhysicalLimitPassesRequiredSortToChild(t *testing.T) {
	input := opt.NewExpr(opt.SeqScanOp, &opt.SeqScanPrivate{Table: 1, Cols: opt.NewColSet(1)})
	expr := opt.NewExpr(opt.PhysicalLimitOp, &opt.LimitPrivate{Limit: 10}, input)
	m, ge, _ := newTestMemo(expr)

	required := props.NewPropertySet(props.NewSort(props.OrderingColumn{Col: 1}))
	derivs := DeriveChildProperties(m, ge, required, &RuleContext{Memo: m})

	if len(derivs) != 1 {
		t.Fatalf("expected exactly one derivation, got %d", len(derivs))
	}
	childSort, ok := derivs[0].Input[0].Get(props.SortKind)
	if !ok {
		t.Fatalf("expected PhysicalLimit to pass the required Sort down to its child")
	}
	if childSort.Ordering[0].Col != 1 {
		t.Errorf("expected the passed-down Sort to match what was required of the Limit")
	}
}

func TestDeriveChildPropertiesMutationRequiresNothingOfChildren(t *testing.T) {
	input := opt.NewExpr(opt.SeqScanOp, &opt.SeqScanPrivate{Table: 1, Cols: opt.NewColSet(1)})
	expr := opt.NewExpr(opt.PhysicalInsertOp, &opt.MutationPrivate{Table: 1}, input)
	m, ge, _ := newTestMemo(expr)

	derivs := DeriveChildProperties(m, ge, props.NewPropertySet(), &RuleContext{Memo: m})
	if len(derivs) != 1 || len(derivs[0].Input) != 1 {
		t.Fatalf("expected exactly one derivation with one (unconstrained) child requirement")
	}
	if !derivs[0].Input[0].Empty() {
		t.Errorf("expected a mutation to place no requirement on its input")
	}
}
