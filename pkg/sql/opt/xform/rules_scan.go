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

import "github.com/mtunique/peloton/pkg/sql/opt"

// GetToDummyScanRule implements a Get with no backing table (TableID 0, the
// reserved "no table" sentinel) as a DummyScan, grounded on rule_impls.cpp's
// GetToDummyScan::Check/Transform.
var GetToDummyScanRule = &Rule{
	Name:    "GetToDummyScan",
	Class:   Implementation,
	Pattern: opt.Match(opt.GetOp),
	Check: func(e *opt.Expr, ctx *RuleContext) bool {
		return e.Private().(*opt.GetPrivate).Table == 0
	},
	Transform: func(e *opt.Expr, ctx *RuleContext) []*opt.Expr {
		priv := e.Private().(*opt.GetPrivate)
		return []*opt.Expr{
			opt.NewExpr(opt.DummyScanOp, &opt.DummyScanPrivate{Cols: priv.Cols}),
		}
	},
}

// GetToSeqScanRule implements a Get over a real table as a full sequential
// scan, carrying along any predicate already embedded into the Get by the
// rewrite phase, per rule_impls.cpp's GetToSeqScan.
var GetToSeqScanRule = &Rule{
	Name:    "GetToSeqScan",
	Class:   Implementation,
	Pattern: opt.Match(opt.GetOp),
	Check: func(e *opt.Expr, ctx *RuleContext) bool {
		return e.Private().(*opt.GetPrivate).Table != 0
	},
	Transform: func(e *opt.Expr, ctx *RuleContext) []*opt.Expr {
		priv := e.Private().(*opt.GetPrivate)
		return []*opt.Expr{
			opt.NewExpr(opt.SeqScanOp, &opt.SeqScanPrivate{
				Table: priv.Table, Alias: priv.Alias, Cols: priv.Cols, Predicate: priv.Predicate,
			}),
		}
	},
}

// GetToIndexScanRule proposes a PhysicalIndexScan for each index that
// either has its leading key column among the Get's output columns (path
// (a), a candidate for covering an ascending prefix sort) or has a key
// column compared against a constant by an equality/range predicate (path
// (b)) -- the two proposal paths of rule_impls.cpp's
// GetToIndexScan::Transform. An index that qualifies on both paths is
// proposed only once.
//
// Because the required output PropertySet is not part of a Rule's Check/
// Transform signature in this catalog (see xform/deriver.go for where
// Sort requirements actually drive planning), path (a) does not look at the
// required Sort; OptimizeInputs's per-required-Sort costing (cost.go) is
// what actually prefers one IndexScan over another for a given required
// Sort.
var GetToIndexScanRule = &Rule{
	Name:    "GetToIndexScan",
	Class:   Implementation,
	Pattern: opt.Match(opt.GetOp),
	Check: func(e *opt.Expr, ctx *RuleContext) bool {
		priv := e.Private().(*opt.GetPrivate)
		return priv.Table != 0 && ctx.Catalog != nil
	},
	Transform: func(e *opt.Expr, ctx *RuleContext) []*opt.Expr {
		priv := e.Private().(*opt.GetPrivate)
		tab := ctx.Catalog.Table(priv.Table)
		if tab == nil {
			return nil
		}

		predCols := opt.ColSet{}
		for _, pred := range opt.FlattenConjuncts(priv.Predicate) {
			if isIndexableComparison(pred) {
				predCols.Add(indexableColumn(pred))
			}
		}

		var out []*opt.Expr
		seen := map[opt.IndexOrdinal]bool{}
		addIndex := func(idx int) {
			ord := opt.IndexOrdinal(idx)
			if seen[ord] {
				return
			}
			seen[ord] = true
			out = append(out, opt.NewExpr(opt.IndexScanOp, &opt.IndexScanPrivate{
				Table: priv.Table, Alias: priv.Alias, Index: ord, Cols: priv.Cols, Predicate: priv.Predicate,
			}))
		}

		for i := 0; i < tab.IndexCount(); i++ {
			idx := tab.Index(opt.IndexOrdinal(i))
			// Path (a): the index's leading key column is a column this
			// Get produces -- it can cover a prefix-ascending sort on that
			// column. Whether it actually covers the *required* sort is
			// decided later, by the child-property deriver; here we only
			// need to know it is a candidate worth costing.
			keyCols := idx.KeyColumns()
			if len(keyCols) > 0 && priv.Cols.Contains(keyCols[0]) {
				addIndex(i)
			}
			// Path (b): the index matches at least one predicate column.
			for _, kc := range keyCols {
				if predCols.Contains(kc) {
					addIndex(i)
					break
				}
			}
		}
		return out
	},
}

// isIndexableComparison returns true if pred is a comparison between a
// column and a constant, the shape GetToIndexScan's predicate-column path
// looks for.
func isIndexableComparison(pred *opt.Expr) bool {
	switch pred.Op() {
	case opt.EqOp, opt.LtOp, opt.GtOp, opt.LeOp, opt.GeOp:
	default:
		return false
	}
	l, r := pred.Child(0), pred.Child(1)
	return (l.Op() == opt.VariableOp && r.Op() == opt.ConstOp) ||
		(l.Op() == opt.ConstOp && r.Op() == opt.VariableOp)
}

// indexableColumn returns the column side of an isIndexableComparison
// predicate.
func indexableColumn(pred *opt.Expr) opt.ColumnID {
	l := pred.Child(0)
	if l.Op() == opt.VariableOp {
		return l.Private().(*opt.VariablePrivate).Col
	}
	return pred.Child(1).Private().(*opt.VariablePrivate).Col
}
