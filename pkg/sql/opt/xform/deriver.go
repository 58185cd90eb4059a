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

// Derivation is one (output_properties, input_properties_per_child) tuple,
// per spec.md §4.4.
type Derivation struct {
	Output *props.PropertySet
	Input  []*props.PropertySet
}

// DeriveChildProperties emits every (output, input-per-child) tuple a
// physical GroupExpr can offer given the properties currently required of
// it -- spec.md §4.4's child-property deriver.
func DeriveChildProperties(
	m *memo.Memo, ge *memo.GroupExpr, required *props.PropertySet, ctx *RuleContext,
) []Derivation {
	cols := outputColumnsProperty(m, ge)
	noReq := props.NewPropertySet()

	switch ge.Op {
	case opt.SeqScanOp, opt.DummyScanOp:
		return []Derivation{{Output: scanOutput(cols, required, nil), Input: nil}}

	case opt.IndexScanOp:
		priv := ge.Private.(*opt.IndexScanPrivate)
		var keyCols []opt.ColumnID
		if ctx.Catalog != nil {
			tab := ctx.Catalog.Table(priv.Table)
			if tab != nil {
				keyCols = tab.Index(priv.Index).KeyColumns()
			}
		}
		return []Derivation{{Output: scanOutput(cols, required, keyCols), Input: nil}}

	case opt.InnerNLJoinOp:
		return []Derivation{{Output: props.NewPropertySet(cols), Input: []*props.PropertySet{noReq, noReq}}}

	case opt.InnerHashJoinOp:
		priv := ge.Private.(*opt.HashJoinPrivate)
		out := []Derivation{{Output: props.NewPropertySet(cols), Input: []*props.PropertySet{noReq, noReq}}}
		if len(priv.LeftKeys) > 0 && len(priv.RightKeys) > 0 {
			leftSort := props.NewPropertySet(cols, props.NewSort(ascendingOrdering(priv.LeftKeys)...))
			rightSort := props.NewPropertySet(cols, props.NewSort(ascendingOrdering(priv.RightKeys)...))
			out = append(out, Derivation{Output: props.NewPropertySet(cols), Input: []*props.PropertySet{leftSort, rightSort}})
		}
		return out

	case opt.HashGroupByOp:
		priv := ge.Private.(*opt.GroupByPrivate)
		out := props.NewPropertySet(cols, props.NewDistinct(priv.GroupingCols))
		return []Derivation{{Output: out, Input: []*props.PropertySet{noReq}}}

	case opt.SortOp:
		priv := ge.Private.(*opt.SortPrivate)
		ordering := make([]props.OrderingColumn, len(priv.Ordering))
		for i, oc := range priv.Ordering {
			ordering[i] = props.OrderingColumn{Col: oc.Col, Desc: oc.Desc}
		}
		out := props.NewPropertySet(cols, props.NewSort(ordering...))
		return []Derivation{{Output: out, Input: []*props.PropertySet{noReq}}}

	case opt.EnforcedDistinctOp:
		priv := ge.Private.(*opt.DistinctPrivate)
		out := props.NewPropertySet(cols, props.NewDistinct(priv.Cols))
		return []Derivation{{Output: out, Input: []*props.PropertySet{noReq}}}

	case opt.PhysicalLimitOp:
		priv := ge.Private.(*opt.LimitPrivate)
		out := props.NewPropertySet(cols, props.NewLimit(priv.Offset, priv.Limit))
		// A Limit's correctness depends on its input already being in the
		// order the caller asked for -- pass the required Sort straight
		// down rather than leaving it unconstrained.
		childReq := noReq
		if sortReq, ok := required.Get(props.SortKind); ok {
			childReq = props.NewPropertySet(sortReq)
		}
		return []Derivation{{Output: out, Input: []*props.PropertySet{childReq}}}

	default:
		// Mutation and derived-scan physical operators (PhysicalInsert,
		// PhysicalInsertSelect, PhysicalUpdate, PhysicalDelete,
		// PhysicalQueryDerivedScan): no Sort/Distinct/Limit guarantee of
		// their own, and no requirement placed on their children beyond
		// what they already carry.
		input := make([]*props.PropertySet, len(ge.Children))
		for i := range input {
			input[i] = noReq
		}
		return []Derivation{{Output: props.NewPropertySet(cols), Input: input}}
	}
}

func outputColumnsProperty(m *memo.Memo, ge *memo.GroupExpr) props.Property {
	return props.NewColumns(m.GetGroupByID(ge.Group).OutputCols())
}

// scanOutput builds a scan's output PropertySet: its columns, plus a Sort
// property matching the required Sort if-and-only-if keyCols (the chosen
// index's key columns, nil for a SeqScan) cover that Sort as an ascending
// prefix -- spec.md §4.4's "output can satisfy any Sort whose columns are
// an ascending prefix of the chosen index".
func scanOutput(cols props.Property, required *props.PropertySet, keyCols []opt.ColumnID) *props.PropertySet {
	sortReq, ok := required.Get(props.SortKind)
	if !ok || !sortCoversPrefix(sortReq.Ordering, keyCols) {
		return props.NewPropertySet(cols)
	}
	return props.NewPropertySet(cols, sortReq)
}

// sortCoversPrefix returns true if ordering is an ascending prefix of
// keyCols.
func sortCoversPrefix(ordering []props.OrderingColumn, keyCols []opt.ColumnID) bool {
	if len(ordering) == 0 {
		return true
	}
	if len(ordering) > len(keyCols) {
		return false
	}
	for i, oc := range ordering {
		if oc.Desc || oc.Col != keyCols[i] {
			return false
		}
	}
	return true
}

// ascendingOrdering builds an all-ascending Sort ordering from a column
// list, used to express a HashJoin's optional "request sorted input on its
// hash keys" derivation (spec.md §4.4).
func ascendingOrdering(cols []opt.ColumnID) []props.OrderingColumn {
	out := make([]props.OrderingColumn, len(cols))
	for i, c := range cols {
		out[i] = props.OrderingColumn{Col: c}
	}
	return out
}
