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
	"github.com/mtunique/peloton/pkg/sql/opt"
	"github.com/mtunique/peloton/pkg/sql/opt/memo"
	"github.com/mtunique/peloton/pkg/sql/opt/props"
)

// EnforceMissing builds and inserts a Sort enforcer for group if required
// asks for a Sort that actual does not already dominate -- spec.md §4.5's
// property enforcer, which "currently only" knows how to enforce Sort.
// Columns, Distinct, and Limit are never enforced: Columns is guaranteed by
// construction (every operator derives Output from its own OutputCols),
// and a gap in Distinct or Limit means no rule in the catalog can satisfy
// the requirement, which is a legitimate planning failure, not something
// to paper over with a synthetic operator.
//
// It returns the inserted (or unchanged) GroupExpr and group, and whether
// an enforcer was actually built.
func EnforceMissing(
	m *memo.Memo, group opt.GroupID, actual, required *props.PropertySet,
) (ge *memo.GroupExpr, outGroup opt.GroupID, enforced bool) {
	sortReq, ok := required.Get(props.SortKind)
	if !ok {
		return nil, group, false
	}
	if actualSort, ok2 := actual.Get(props.SortKind); ok2 && actualSort.Dominates(sortReq) {
		return nil, group, false
	}

	ordering := make([]opt.OrderingColumn, len(sortReq.Ordering))
	for i, oc := range sortReq.Ordering {
		ordering[i] = opt.OrderingColumn{Col: oc.Col, Desc: oc.Desc}
	}
	expr := opt.NewExpr(opt.SortOp, &opt.SortPrivate{Ordering: ordering}, opt.NewLeaf(group))
	newGe, newGroup, _ := m.InsertExpression(expr, group, true)
	return newGe, newGroup, true
}

// enforcerCost costs a Sort enforcer GroupExpr built by EnforceMissing,
// given its input's Stats.
func enforcerCost(ge *memo.GroupExpr, inputStats *Stats) memo.Cost {
	priv := ge.Private.(*opt.SortPrivate)
	var col opt.ColumnID
	var desc bool
	if len(priv.Ordering) > 0 {
		col, desc = priv.Ordering[0].Col, priv.Ordering[0].Desc
	}
	return sortCost(col, desc, inputStats)
}
