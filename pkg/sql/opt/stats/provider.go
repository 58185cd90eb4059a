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

// Package stats defines the statistics collaborator contract spec.md §6
// requires: TableStats.NumRows, HasColumnStats, GetCardinality,
// HasPrimaryIndex. Statistics collection itself (histogram building,
// sampling) is an out-of-scope external collaborator; this package only
// defines what the cost model consumes and a conservative-default fallback,
// per spec.md §7 ("missing statistics fall back to a conservative default
// cardinality of 0").
package stats

import "github.com/mtunique/peloton/pkg/sql/opt"

// TableStats exposes the per-table, per-column statistics the cost model
// needs.
type TableStats interface {
	// NumRows is the table's estimated row count.
	NumRows() int64
	// HasColumnStats returns true if cardinality information is available
	// for col.
	HasColumnStats(col opt.ColumnID) bool
	// GetCardinality returns the estimated number of distinct values of
	// col. Callers must check HasColumnStats first; if statistics are
	// missing, the cost model uses the conservative default defined by
	// DefaultCardinality.
	GetCardinality(col opt.ColumnID) int64
	// HasPrimaryIndex returns true if col is (a prefix of) the table's
	// primary index.
	HasPrimaryIndex(col opt.ColumnID) bool
}

// DefaultCardinality is the conservative fallback cardinality used by the
// cost model when statistics are missing for a column, per spec.md §7.
const DefaultCardinality = 0

// DefaultSelectivity is the fallback predicate selectivity used when a
// predicate's column has no statistics, per spec.md §7 ("defaults to 1, no
// filtering").
const DefaultSelectivity = 1.0

// Provider resolves a table to its TableStats, mirroring the way Catalog
// resolves a TableID to a Table.
type Provider interface {
	TableStats(table opt.TableID) TableStats
}
