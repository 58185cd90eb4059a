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

package opt

import (
	"fmt"
	"strings"
)

// TableID identifies a base table within the catalog (see cat.Table).
type TableID int32

// IndexOrdinal identifies an index within its table, by position (0 is
// always the primary index, matching cat.Table.Index(0)).
type IndexOrdinal int

// GetPrivate is the private payload of a logical GetOp: an as-yet-unchosen
// base table scan.
type GetPrivate struct {
	Table TableID
	Alias TableAlias
	Cols  ColSet
	// Predicate is a filter already embedded into this Get by the rewrite
	// phase's EmbedFilterIntoGet rule, or nil if none has been folded in
	// yet.
	Predicate *Expr
}

func (p *GetPrivate) String() string {
	return fmt.Sprintf("[table=%d alias=%s cols=%s]", p.Table, p.Alias, p.Cols)
}

// QueryDerivedGetPrivate is the private payload of a QueryDerivedGetOp, a Get
// over a derived table (e.g. a subquery in the FROM clause) rather than a
// catalog table.
type QueryDerivedGetPrivate struct {
	Alias TableAlias
	Cols  ColSet
}

func (p *QueryDerivedGetPrivate) String() string {
	return fmt.Sprintf("[alias=%s cols=%s]", p.Alias, p.Cols)
}

// SelectPrivate is the private payload of a SelectOp (filter).
type SelectPrivate struct {
	Predicate *Expr
}

func (p *SelectPrivate) String() string {
	if p.Predicate == nil {
		return "[pred=<nil>]"
	}
	return fmt.Sprintf("[pred=%s]", p.Predicate.Fingerprint())
}

// ProjectPrivate is the private payload of a ProjectOp.
type ProjectPrivate struct {
	Cols ColSet
}

func (p *ProjectPrivate) String() string {
	return fmt.Sprintf("[cols=%s]", p.Cols)
}

// DistinctPrivate is the private payload of both the logical DistinctOp and
// its physical/enforcer implementations.
type DistinctPrivate struct {
	Cols ColSet
}

func (p *DistinctPrivate) String() string {
	return fmt.Sprintf("[cols=%s]", p.Cols)
}

// LimitPrivate is the private payload of both the logical LimitOp and its
// physical implementation.
type LimitPrivate struct {
	Offset int64
	Limit  int64
}

func (p *LimitPrivate) String() string {
	return fmt.Sprintf("[offset=%d limit=%d]", p.Offset, p.Limit)
}

// OrderingColumn is one entry in a Sort enforcer's ordering: a column and
// its direction. This duplicates the shape of props.OrderingColumn rather
// than reusing it, since props imports opt and a SortOp's private payload
// lives in opt -- package props cannot be imported back here without a
// cycle.
type OrderingColumn struct {
	Col  ColumnID
	Desc bool
}

func (c OrderingColumn) String() string {
	if c.Desc {
		return fmt.Sprintf("%d-", c.Col)
	}
	return fmt.Sprintf("%d+", c.Col)
}

// SortPrivate is the private payload of SortOp, the property enforcer's
// Sort node (spec.md §4.5 and §9's "Enforcers as first-class group
// members").
type SortPrivate struct {
	Ordering []OrderingColumn
}

func (p *SortPrivate) String() string {
	parts := make([]string, len(p.Ordering))
	for i, oc := range p.Ordering {
		parts[i] = oc.String()
	}
	return fmt.Sprintf("[sort=%s]", strings.Join(parts, ","))
}

// AggFunc identifies an aggregate function kind.
type AggFunc string

// Aggregate function kinds supported by GroupByPrivate.
const (
	AggCount AggFunc = "count"
	AggSum   AggFunc = "sum"
	AggAvg   AggFunc = "avg"
	AggMin   AggFunc = "min"
	AggMax   AggFunc = "max"
)

// AggregateItem is a single aggregate in a GROUP BY's projection list.
type AggregateItem struct {
	Func   AggFunc
	Arg    ColumnID
	Result ColumnID
}

// GroupByPrivate is the private payload of both the logical GroupByOp and its
// physical (hash) implementation.
type GroupByPrivate struct {
	GroupingCols ColSet
	Aggregates   []AggregateItem
}

func (p *GroupByPrivate) String() string {
	return fmt.Sprintf("[grouping=%s aggs=%d]", p.GroupingCols, len(p.Aggregates))
}

// JoinPrivate is the private payload of InnerJoinOp and its physical
// implementations: the join predicate, as a conjunct tree (see
// FlattenConjuncts/Conjunction in predicate.go), or nil for a cross join.
// Which side of the join a predicate belongs to is decided by checking its
// ReferencedColumns against each child group's OutputCols, not by a stored
// alias set.
type JoinPrivate struct {
	Predicate *Expr
}

func (p *JoinPrivate) String() string {
	if p.Predicate == nil {
		return "[pred=<cross>]"
	}
	return fmt.Sprintf("[pred=%s]", p.Predicate.Fingerprint())
}

// MutationPrivate is the private payload shared by Insert/Update/Delete and
// their physical counterparts.
type MutationPrivate struct {
	Table TableID
}

func (p *MutationPrivate) String() string {
	return fmt.Sprintf("[table=%d]", p.Table)
}

// DummyScanPrivate is the private payload of DummyScanOp: a physical scan
// known (from an unsatisfiable predicate) to produce zero rows.
type DummyScanPrivate struct {
	Cols ColSet
}

func (p *DummyScanPrivate) String() string {
	return fmt.Sprintf("[cols=%s]", p.Cols)
}

// SeqScanPrivate is the private payload of SeqScanOp: a full, unindexed scan
// of the base table, optionally still carrying a residual predicate applied
// during the scan (EmbedFilterIntoGet folds a Select's predicate in here).
type SeqScanPrivate struct {
	Table TableID
	Alias TableAlias
	Cols  ColSet
	// Predicate is the embedded filter, or nil if none was folded in.
	Predicate *Expr
}

func (p *SeqScanPrivate) String() string {
	return fmt.Sprintf("[table=%d alias=%s cols=%s]", p.Table, p.Alias, p.Cols)
}

// IndexScanPrivate is the private payload of IndexScanOp.
type IndexScanPrivate struct {
	Table     TableID
	Alias     TableAlias
	Index     IndexOrdinal
	Cols      ColSet
	Predicate *Expr
}

func (p *IndexScanPrivate) String() string {
	return fmt.Sprintf("[table=%d alias=%s index=%d cols=%s]", p.Table, p.Alias, p.Index, p.Cols)
}

// NLJoinPrivate is the private payload of InnerNLJoinOp.
type NLJoinPrivate struct {
	JoinPrivate
}

// HashJoinPrivate is the private payload of InnerHashJoinOp.
type HashJoinPrivate struct {
	JoinPrivate
	// LeftKeys/RightKeys are the equi-join column pairs the hash table is
	// built and probed on.
	LeftKeys  []ColumnID
	RightKeys []ColumnID
}

func (p *HashJoinPrivate) String() string {
	return fmt.Sprintf("[leftKeys=%v rightKeys=%v]", p.LeftKeys, p.RightKeys)
}

// VariablePrivate is the private payload of VariableOp: a reference to a
// single column.
type VariablePrivate struct {
	Col ColumnID
}

func (p *VariablePrivate) String() string {
	return fmt.Sprintf("[col=%d]", p.Col)
}

// ConstPrivate is the private payload of ConstOp: a literal Go value.
type ConstPrivate struct {
	Value interface{}
}

func (p *ConstPrivate) String() string {
	return fmt.Sprintf("[value=%v]", p.Value)
}

// FunctionCallPrivate is the private payload of FunctionCallOp.
type FunctionCallPrivate struct {
	Name string
}

func (p *FunctionCallPrivate) String() string {
	return fmt.Sprintf("[name=%s]", p.Name)
}
