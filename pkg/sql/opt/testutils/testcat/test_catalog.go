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

// Package testcat provides an in-memory cat.Catalog + stats.Provider fake
// for tests, grounded on the teacher's
// pkg/sql/opt/testutils/testcat/test_catalog.go -- simplified to a Go-literal
// table/index builder rather than a DDL-string parser, since this module has
// no parser to build DDL from.
package testcat

import (
	"github.com/mtunique/peloton/pkg/sql/opt"
	"github.com/mtunique/peloton/pkg/sql/opt/cat"
	"github.com/mtunique/peloton/pkg/sql/opt/stats"
)

// Column is a cat.Column fake.
type Column struct {
	id   opt.ColumnID
	name string
}

// ColumnID implements cat.Column.
func (c *Column) ColumnID() opt.ColumnID { return c.id }

// Name implements cat.Column.
func (c *Column) Name() string { return c.name }

// Index is a cat.Index fake.
type Index struct {
	ordinal    opt.IndexOrdinal
	keyColumns []opt.ColumnID
	primary    bool
}

// Ordinal implements cat.Index.
func (idx *Index) Ordinal() opt.IndexOrdinal { return idx.ordinal }

// KeyColumns implements cat.Index.
func (idx *Index) KeyColumns() []opt.ColumnID { return idx.keyColumns }

// IsPrimary implements cat.Index.
func (idx *Index) IsPrimary() bool { return idx.primary }

// Table is a cat.Table fake, additionally holding the row count and the
// column-level statistics AddTable copies from its TableDef, which the
// Catalog hands out through its own stats.Provider implementation.
type Table struct {
	id      opt.TableID
	name    string
	columns []*Column
	indexes []*Index

	rowCount int64
	colStats map[opt.ColumnID]int64 // cardinality, only present if set
}

// ID implements cat.Table.
func (t *Table) ID() opt.TableID { return t.id }

// Name implements cat.Table.
func (t *Table) Name() string { return t.name }

// ColumnCount implements cat.Table.
func (t *Table) ColumnCount() int { return len(t.columns) }

// Column implements cat.Table.
func (t *Table) Column(i int) cat.Column { return t.columns[i] }

// IndexCount implements cat.Table.
func (t *Table) IndexCount() int { return len(t.indexes) }

// Index implements cat.Table.
func (t *Table) Index(i opt.IndexOrdinal) cat.Index { return t.indexes[i] }

// Catalog is an in-memory cat.Catalog and stats.Provider fake: tests build
// one with New, add tables with AddTable, and hand it directly to
// xform.NewOptimizer for both its catalog and stats.Provider parameters.
type Catalog struct {
	tables     map[opt.TableID]*Table
	tablesByNm map[string]*Table
	nextID     opt.TableID
	nextCol    opt.ColumnID
}

// New builds an empty Catalog.
func New() *Catalog {
	return &Catalog{
		tables:     make(map[opt.TableID]*Table),
		tablesByNm: make(map[string]*Table),
	}
}

// TableDef describes a table to add to the catalog, as a Go literal rather
// than a parsed CREATE TABLE statement.
type TableDef struct {
	Name string
	// Columns lists column names in table order; column 0 of the primary
	// index is assumed to be Columns[0] unless PrimaryKey overrides it.
	Columns []string
	// PrimaryKey lists the primary index's key columns, by name, in key
	// order. Defaults to Columns[:1] if empty.
	PrimaryKey []string
	// SecondaryIndexes lists additional indexes, each as an ordered list of
	// key column names.
	SecondaryIndexes [][]string
	// RowCount is the statistics provider's NumRows() for this table.
	RowCount int64
	// Cardinality maps a column name to its estimated distinct-value count;
	// columns absent from this map report HasColumnStats() == false.
	Cardinality map[string]int64
}

// AddTable registers def in the catalog and returns its assigned TableID.
func (c *Catalog) AddTable(def TableDef) opt.TableID {
	c.nextID++
	id := c.nextID

	colIDs := make(map[string]opt.ColumnID, len(def.Columns))
	columns := make([]*Column, len(def.Columns))
	for i, name := range def.Columns {
		c.nextCol++
		colIDs[name] = c.nextCol
		columns[i] = &Column{id: c.nextCol, name: name}
	}

	primaryKeyNames := def.PrimaryKey
	if len(primaryKeyNames) == 0 && len(def.Columns) > 0 {
		primaryKeyNames = def.Columns[:1]
	}
	indexes := []*Index{{
		ordinal:    0,
		keyColumns: resolveCols(colIDs, primaryKeyNames),
		primary:    true,
	}}
	for _, secCols := range def.SecondaryIndexes {
		indexes = append(indexes, &Index{
			ordinal:    opt.IndexOrdinal(len(indexes)),
			keyColumns: resolveCols(colIDs, secCols),
		})
	}

	colStats := make(map[opt.ColumnID]int64, len(def.Cardinality))
	for name, card := range def.Cardinality {
		colStats[colIDs[name]] = card
	}

	tab := &Table{
		id:       id,
		name:     def.Name,
		columns:  columns,
		indexes:  indexes,
		rowCount: def.RowCount,
		colStats: colStats,
	}
	c.tables[id] = tab
	c.tablesByNm[def.Name] = tab
	return id
}

// ColumnID returns the ColumnID assigned to the named column of the named
// table, for use building test query trees. It panics if either name is
// unknown.
func (c *Catalog) ColumnID(tableName, columnName string) opt.ColumnID {
	tab, ok := c.tablesByNm[tableName]
	if !ok {
		panic("unknown table: " + tableName)
	}
	for _, col := range tab.columns {
		if col.name == columnName {
			return col.id
		}
	}
	panic("unknown column: " + tableName + "." + columnName)
}

// Table implements cat.Catalog.
func (c *Catalog) Table(id opt.TableID) cat.Table {
	tab, ok := c.tables[id]
	if !ok {
		return nil
	}
	return tab
}

// TableByName implements cat.Catalog.
func (c *Catalog) TableByName(name string) (cat.Table, opt.TableID, bool) {
	tab, ok := c.tablesByNm[name]
	if !ok {
		return nil, 0, false
	}
	return tab, tab.id, true
}

// TableStats implements stats.Provider.
func (c *Catalog) TableStats(table opt.TableID) stats.TableStats {
	tab, ok := c.tables[table]
	if !ok {
		return &tableStats{}
	}
	return &tableStats{tab: tab}
}

// tableStats is the stats.TableStats fake backing a single Table.
type tableStats struct {
	tab *Table
}

func (s *tableStats) NumRows() int64 {
	if s.tab == nil {
		return 0
	}
	return s.tab.rowCount
}

func (s *tableStats) HasColumnStats(col opt.ColumnID) bool {
	if s.tab == nil {
		return false
	}
	_, ok := s.tab.colStats[col]
	return ok
}

func (s *tableStats) GetCardinality(col opt.ColumnID) int64 {
	if s.tab == nil {
		return stats.DefaultCardinality
	}
	if c, ok := s.tab.colStats[col]; ok {
		return c
	}
	return stats.DefaultCardinality
}

func (s *tableStats) HasPrimaryIndex(col opt.ColumnID) bool {
	if s.tab == nil || len(s.tab.indexes) == 0 {
		return false
	}
	for _, c := range s.tab.indexes[0].keyColumns {
		if c == col {
			return true
		}
	}
	return false
}

func resolveCols(ids map[string]opt.ColumnID, names []string) []opt.ColumnID {
	cols := make([]opt.ColumnID, len(names))
	for i, name := range names {
		cols[i] = ids[name]
	}
	return cols
}
