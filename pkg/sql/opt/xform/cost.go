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
	"math"

	"github.com/mtunique/peloton/pkg/sql/opt"
	"github.com/mtunique/peloton/pkg/sql/opt/memo"
	"github.com/mtunique/peloton/pkg/sql/opt/stats"
)

// Per-tuple and per-index-probe cost constants, named and valued the way
// Peloton's src/include/optimizer/cost.h defines them (TUPLE_COST,
// INDEX_TUPLE_COST, OPERATOR_COST) -- spec.md §4.6's formulas reference
// these symbolically.
const (
	TupleCost      = 1.0
	IndexTupleCost = 0.25
	OperatorCost   = 0.1
)

// Stats holds the cost model's notion of a group-expression's output
// statistics: row count, per-column cardinality, and which columns are
// known to come from a primary index -- spec.md §3's "per-column statistics
// map (lazy)" on Group, computed here instead as a byproduct of costing
// rather than stored permanently on the Group (the memo package stays free
// of cost-model concerns, matching the teacher's separation between
// pkg/sql/opt/memo and pkg/sql/opt/xform's statistics_builder.go).
type Stats struct {
	RowCount         int64
	Cardinality      map[opt.ColumnID]int64
	PrimaryIndexCols opt.ColSet
}

// cardinality returns the known cardinality of col, or stats.DefaultCardinality
// if none is recorded.
func (s *Stats) cardinality(col opt.ColumnID) int64 {
	if s == nil || s.Cardinality == nil {
		return stats.DefaultCardinality
	}
	if c, ok := s.Cardinality[col]; ok {
		return c
	}
	return stats.DefaultCardinality
}

// baseStats builds the Stats for a base-table scan (SeqScan/IndexScan),
// reading whatever per-column statistics the provider has for the scan's
// output columns.
func baseStats(ts stats.TableStats, cols opt.ColSet) *Stats {
	s := &Stats{
		RowCount:         ts.NumRows(),
		Cardinality:      make(map[opt.ColumnID]int64, cols.Len()),
		PrimaryIndexCols: opt.ColSet{},
	}
	for _, col := range cols.Ordered() {
		if ts.HasColumnStats(col) {
			s.Cardinality[col] = ts.GetCardinality(col)
		}
		if ts.HasPrimaryIndex(col) {
			s.PrimaryIndexCols.Add(col)
		}
	}
	return s
}

// selectivity estimates the fraction of rows predicate passes, by
// multiplying a per-conjunct estimate across predicate's flattened
// conjuncts (independence assumption). Spec.md §7's conservative default
// applies per-conjunct: "predicate selectivity computed on a column without
// statistics defaults to 1 (no filtering)".
func selectivity(predicate *opt.Expr, s *Stats) float64 {
	sel := 1.0
	for _, pred := range opt.FlattenConjuncts(predicate) {
		sel *= conjunctSelectivity(pred, s)
	}
	return sel
}

func conjunctSelectivity(pred *opt.Expr, s *Stats) float64 {
	if pred.Op() != opt.EqOp {
		return stats.DefaultSelectivity
	}
	var col opt.ColumnID
	switch {
	case pred.Child(0).Op() == opt.VariableOp:
		col = pred.Child(0).Private().(*opt.VariablePrivate).Col
	case pred.Child(1).Op() == opt.VariableOp:
		col = pred.Child(1).Private().(*opt.VariablePrivate).Col
	default:
		return stats.DefaultSelectivity
	}
	card := s.cardinality(col)
	if card <= 0 {
		return stats.DefaultSelectivity
	}
	return 1.0 / float64(card)
}

// scaleRows applies a selectivity factor to a row count, rounding down but
// never below zero.
func scaleRows(rows int64, sel float64) int64 {
	out := int64(float64(rows) * sel)
	if out < 0 {
		return 0
	}
	return out
}

// seqScanCost implements spec.md §4.6's SeqScan formula.
func seqScanCost(ts stats.TableStats, priv *opt.SeqScanPrivate) (memo.Cost, *Stats) {
	base := baseStats(ts, priv.Cols)
	sel := selectivity(priv.Predicate, base)
	cost := memo.Cost(float64(base.RowCount) * TupleCost)
	out := &Stats{
		RowCount:         scaleRows(base.RowCount, sel),
		Cardinality:      base.Cardinality,
		PrimaryIndexCols: base.PrimaryIndexCols,
	}
	return cost, out
}

// indexScanCost implements spec.md §4.6's IndexScan formula:
// log2(rows)*INDEX_TUPLE_COST + selectivity*rows*TUPLE_COST.
func indexScanCost(ts stats.TableStats, priv *opt.IndexScanPrivate) (memo.Cost, *Stats) {
	base := baseStats(ts, priv.Cols)
	sel := selectivity(priv.Predicate, base)
	rows := base.RowCount
	logTerm := 0.0
	if rows > 1 {
		logTerm = math.Log2(float64(rows))
	}
	cost := memo.Cost(logTerm*IndexTupleCost + sel*float64(rows)*TupleCost)
	out := &Stats{
		RowCount:         scaleRows(rows, sel),
		Cardinality:      base.Cardinality,
		PrimaryIndexCols: base.PrimaryIndexCols,
	}
	return cost, out
}

// dummyScanCost costs a DummyScan: it is known to produce zero rows, so its
// cost and output row count are both zero.
func dummyScanCost(priv *opt.DummyScanPrivate) (memo.Cost, *Stats) {
	return 0, &Stats{RowCount: 0, Cardinality: map[opt.ColumnID]int64{}, PrimaryIndexCols: opt.ColSet{}}
}

// joinOutputRows implements spec.md §4.6's join row-count estimation: an
// equality predicate on a primary-index column collapses to
// min(L.rows,R.rows); an equality on a non-key (but stats-bearing) column
// uses L.rows*R.rows/sqrt(cardL*cardR); anything else (no equi-predicate,
// or missing stats) is a cartesian product. The primary-index check keeps a
// strict left/right mapping (spec.md §9's documented bug fix: no
// cross-lookup).
func joinOutputRows(pred *opt.Expr, left, right *Stats) int64 {
	cartesian := left.RowCount * right.RowCount
	for _, conj := range opt.FlattenConjuncts(pred) {
		if conj.Op() != opt.EqOp {
			continue
		}
		lhs, rhs := conj.Child(0), conj.Child(1)
		if lhs.Op() != opt.VariableOp || rhs.Op() != opt.VariableOp {
			continue
		}
		lCol := lhs.Private().(*opt.VariablePrivate).Col
		rCol := rhs.Private().(*opt.VariablePrivate).Col

		// Try both orientations: (lCol from left, rCol from right) or vice
		// versa, but always read PrimaryIndexCols/Cardinality off the Stats
		// that actually owns that side -- never cross left's column against
		// right's PrimaryIndexCols.
		if left.PrimaryIndexCols.Contains(lCol) || right.PrimaryIndexCols.Contains(rCol) {
			return minInt64(left.RowCount, right.RowCount)
		}
		if left.PrimaryIndexCols.Contains(rCol) || right.PrimaryIndexCols.Contains(lCol) {
			return minInt64(left.RowCount, right.RowCount)
		}

		lCard, rCard := left.cardinality(lCol), right.cardinality(rCol)
		if lCard > 0 && rCard > 0 {
			denom := math.Sqrt(float64(lCard) * float64(rCard))
			return int64(float64(cartesian) / denom)
		}
	}
	return cartesian
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// nlJoinCost implements spec.md §4.6's NLJoin family formula:
// L.rows*R.rows*TUPLE_COST.
func nlJoinCost(pred *opt.Expr, left, right *Stats) (memo.Cost, *Stats) {
	cost := memo.Cost(float64(left.RowCount) * float64(right.RowCount) * TupleCost)
	return cost, joinStats(pred, left, right)
}

// hashJoinCost implements spec.md §4.6's HashJoin family formula:
// (L.rows+R.rows)*TUPLE_COST.
func hashJoinCost(pred *opt.Expr, left, right *Stats) (memo.Cost, *Stats) {
	cost := memo.Cost((float64(left.RowCount) + float64(right.RowCount)) * TupleCost)
	return cost, joinStats(pred, left, right)
}

func joinStats(pred *opt.Expr, left, right *Stats) *Stats {
	card := make(map[opt.ColumnID]int64, len(left.Cardinality)+len(right.Cardinality))
	for c, v := range left.Cardinality {
		card[c] = v
	}
	for c, v := range right.Cardinality {
		card[c] = v
	}
	return &Stats{
		RowCount:         joinOutputRows(pred, left, right),
		Cardinality:      card,
		PrimaryIndexCols: left.PrimaryIndexCols.Union(right.PrimaryIndexCols),
	}
}

// hashGroupByCost implements spec.md §4.6's HashGroupBy formula: L.rows *
// TUPLE_COST for the cost, and output rows = the product of each grouping
// column's cardinality, plus half the largest single cardinality (spec.md's
// "∏ card_cols + max_card/2"). Missing per-column statistics use 1 (not
// stats.DefaultCardinality's 0) as the product's neutral element, since a
// column truly contributing zero distinct values would force the whole
// estimate to zero regardless of the other grouping columns.
func hashGroupByCost(priv *opt.GroupByPrivate, input *Stats) (memo.Cost, *Stats) {
	cost := memo.Cost(float64(input.RowCount) * TupleCost)
	product := int64(1)
	var maxCard int64
	for _, col := range priv.GroupingCols.Ordered() {
		card := input.cardinality(col)
		if card <= 0 {
			card = 1
		}
		product *= card
		if card > maxCard {
			maxCard = card
		}
	}
	if priv.GroupingCols.Len() == 0 {
		product = 1 // a grouping-less aggregate produces exactly one row
		maxCard = 0
	}
	outRows := product + maxCard/2
	out := &Stats{RowCount: outRows, Cardinality: input.Cardinality, PrimaryIndexCols: opt.ColSet{}}
	return cost, out
}

// sortCost implements spec.md §4.6's Sort enforcer formula: rows*log2(rows)
// *TUPLE_COST, collapsing to the constant OPERATOR_COST when the input
// already has a primary index on the first sort column in ascending order.
func sortCost(firstCol opt.ColumnID, firstDesc bool, input *Stats) memo.Cost {
	if !firstDesc && input.PrimaryIndexCols.Contains(firstCol) {
		return memo.Cost(OperatorCost)
	}
	rows := input.RowCount
	if rows <= 1 {
		return memo.Cost(OperatorCost)
	}
	return memo.Cost(float64(rows) * math.Log2(float64(rows)) * TupleCost)
}

// limitCost implements spec.md §4.6's Limit formula: limit*TUPLE_COST, with
// output rows = min(input_rows, limit) -- spec.md §9's documented bug fix
// (the original uses max).
func limitCost(priv *opt.LimitPrivate, input *Stats) (memo.Cost, *Stats) {
	cost := memo.Cost(float64(priv.Limit) * TupleCost)
	outRows := priv.Limit
	if input.RowCount < outRows {
		outRows = input.RowCount
	}
	out := &Stats{RowCount: outRows, Cardinality: input.Cardinality, PrimaryIndexCols: input.PrimaryIndexCols}
	return cost, out
}

// distinctCost implements spec.md §4.6's Distinct formula: rows*TUPLE_COST,
// output rows = the cardinality of the distinct-on column set (the same
// product-of-cardinalities estimate hashGroupByCost uses, since
// "distinct on cols" and "group by cols with no aggregates" produce
// identical row-count statistics).
func distinctCost(priv *opt.DistinctPrivate, input *Stats) (memo.Cost, *Stats) {
	cost := memo.Cost(float64(input.RowCount) * TupleCost)
	product := int64(1)
	for _, col := range priv.Cols.Ordered() {
		card := input.cardinality(col)
		if card <= 0 {
			card = 1
		}
		product *= card
	}
	out := &Stats{RowCount: product, Cardinality: input.Cardinality, PrimaryIndexCols: input.PrimaryIndexCols}
	return cost, out
}

// computeOwnCost dispatches to the formula for ge's operator, given the
// already-computed Stats of each of its children (in child order) -- the
// single entry point xform/task.go's OptimizeInputs uses to cost a physical
// GroupExpr once all of its children have winners.
func computeOwnCost(op opt.Operator, private interface{}, childStats []*Stats, ctx *RuleContext) (memo.Cost, *Stats) {
	switch op {
	case opt.SeqScanOp:
		priv := private.(*opt.SeqScanPrivate)
		return seqScanCost(ctx.Stats.TableStats(priv.Table), priv)

	case opt.IndexScanOp:
		priv := private.(*opt.IndexScanPrivate)
		return indexScanCost(ctx.Stats.TableStats(priv.Table), priv)

	case opt.DummyScanOp:
		return dummyScanCost(private.(*opt.DummyScanPrivate))

	case opt.InnerNLJoinOp:
		priv := private.(*opt.NLJoinPrivate)
		return nlJoinCost(priv.Predicate, childStats[0], childStats[1])

	case opt.InnerHashJoinOp:
		priv := private.(*opt.HashJoinPrivate)
		return hashJoinCost(priv.Predicate, childStats[0], childStats[1])

	case opt.HashGroupByOp:
		return hashGroupByCost(private.(*opt.GroupByPrivate), childStats[0])

	case opt.SortOp:
		priv := private.(*opt.SortPrivate)
		var col opt.ColumnID
		var desc bool
		if len(priv.Ordering) > 0 {
			col, desc = priv.Ordering[0].Col, priv.Ordering[0].Desc
		}
		return sortCost(col, desc, childStats[0]), childStats[0]

	case opt.PhysicalLimitOp:
		return limitCost(private.(*opt.LimitPrivate), childStats[0])

	case opt.EnforcedDistinctOp:
		return distinctCost(private.(*opt.DistinctPrivate), childStats[0])

	default:
		// Mutation and derived-scan physical operators have no formula of
		// their own in spec.md §4.6; they cost a flat OPERATOR_COST and
		// pass their (sole) child's statistics through unchanged.
		var in *Stats
		if len(childStats) > 0 {
			in = childStats[0]
		} else {
			in = &Stats{RowCount: 0, Cardinality: map[opt.ColumnID]int64{}, PrimaryIndexCols: opt.ColSet{}}
		}
		return memo.Cost(OperatorCost), in
	}
}
