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
)

func TestEnforceMissingSkipsWhenNoSortRequired(t *testing.T) {
	m := memo.New()
	_, g, _ := m.InsertExpression(opt.NewExpr(opt.SeqScanOp, &opt.SeqScanPrivate{Table: 1, Cols: opt.NewColSet(1)}), 0, false)

	_, _, enforced := EnforceMissing(m, g, props.NewPropertySet(), props.NewPropertySet())
	if enforced {
		t.Errorf("expected no enforcer when required has no Sort property")
	}
}

func TestEnforceMissingSkipsWhenActualAlreadyDominates(t *testing.T) {
	m := memo.New()
	_, g, _ := m.InsertExpression(opt.NewExpr(opt.SeqScanOp, &opt.SeqScanPrivate{Table: 1, Cols: opt.NewColSet(1)}), 0, false)

	actual := props.NewPropertySet(props.NewSort(props.OrderingColumn{Col: 1}, props.OrderingColumn{Col: 2}))
	required := props.NewPropertySet(props.NewSort(props.OrderingColumn{Col: 1}))

	_, _, enforced := EnforceMissing(m, g, actual, required)
	if enforced {
		t.Errorf("expected no enforcer when actual's Sort already dominates required's")
	}
}

func TestEnforceMissingInsertsSortWhenActualFallsShort(t *testing.T) {
	m := memo.New()
	_, g, _ := m.InsertExpression(opt.NewExpr(opt.SeqScanOp, &opt.SeqScanPrivate{Table: 1, Cols: opt.NewColSet(1)}), 0, false)

	required := props.NewPropertySet(props.NewSort(props.OrderingColumn{Col: 1}))
	ge, enfGroup, enforced := EnforceMissing(m, g, props.NewPropertySet(), required)
	if !enforced {
		t.Fatalf("expected an enforcer to be built when actual offers no Sort at all")
	}
	if ge.Op != opt.SortOp {
		t.Errorf("expected the enforcer to be a SortOp, got %s", ge.Op)
	}
	enfGrp := m.GetGroupByID(enfGroup)
	found := false
	for _, e := range enfGrp.EnforcedExprs() {
		if e == ge {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the Sort enforcer to live in the group's enforced list, not logical/physical")
	}
}
