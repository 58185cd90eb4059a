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

// Package cat defines the catalog collaborator contract spec.md §6 requires
// the optimizer core to consume: table and index metadata lookups. The core
// never implements a catalog itself -- it is handed one (see
// testutils/testcat for the in-memory fake used by tests), the same
// separation the teacher draws between pkg/sql/opt and pkg/sql/catalog.
package cat

import "github.com/mtunique/peloton/pkg/sql/opt"

// Column describes one column of a Table.
type Column interface {
	// ColumnID is the column's identity within the optimizer's column
	// numbering.
	ColumnID() opt.ColumnID
	// Name is the column's name, as it would appear in a query.
	Name() string
}

// Index describes one index of a Table -- spec.md §6's
// "Index::KeyColumns() -> [ColumnID]" and "Index::IsPrimary() -> bool".
type Index interface {
	// Ordinal is the index's position within its table; 0 is always the
	// primary index.
	Ordinal() opt.IndexOrdinal
	// KeyColumns returns the index's key columns in key order.
	KeyColumns() []opt.ColumnID
	// IsPrimary returns true if this is the table's primary index.
	IsPrimary() bool
}

// Table describes one base table -- spec.md §6's
// "Catalog: GetTable(oid) -> TableRef; Table::GetIndexes() -> [IndexRef]".
type Table interface {
	// ID is the table's identity within the optimizer's table numbering.
	ID() opt.TableID
	// Name is the table's name, as it would appear in a FROM clause.
	Name() string
	// ColumnCount returns the number of columns in the table.
	ColumnCount() int
	// Column returns the i-th column.
	Column(i int) Column
	// IndexCount returns the number of indexes on the table (including the
	// primary index, at ordinal 0).
	IndexCount() int
	// Index returns the i-th index.
	Index(i opt.IndexOrdinal) Index
}

// Catalog resolves table names/ids to Table descriptors.
type Catalog interface {
	// Table looks up a table by its optimizer TableID.
	Table(id opt.TableID) Table
	// TableByName looks up a table by name, as referenced in a FROM clause.
	// It returns the table and its TableID, or ok=false if no such table is
	// cataloged.
	TableByName(name string) (tab Table, id opt.TableID, ok bool)
}
