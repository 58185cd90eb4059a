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

// Package props implements the physical property model: Property, a sum
// type over Columns/Sort/Distinct/Limit, and PropertySet, an unordered
// collection of Property values with a dominance order A >= B ("A satisfies
// B"). The dominance definitions are ported directly from Peloton's
// src/optimizer/properties.cpp, which is the original_source this module's
// spec was distilled from.
package props

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mtunique/peloton/pkg/sql/opt"
)

// Kind identifies which Property variant a Property value holds.
type Kind int

// The four Property variants named in spec.md §3.
const (
	ColumnsKind Kind = iota
	SortKind
	DistinctKind
	LimitKind
)

func (k Kind) String() string {
	switch k {
	case ColumnsKind:
		return "columns"
	case SortKind:
		return "sort"
	case DistinctKind:
		return "distinct"
	case LimitKind:
		return "limit"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// OrderingColumn is one entry in a Sort property: a column and its
// direction.
type OrderingColumn struct {
	Col  opt.ColumnID
	Desc bool
}

func (c OrderingColumn) String() string {
	if c.Desc {
		return fmt.Sprintf("%d-", c.Col)
	}
	return fmt.Sprintf("%d+", c.Col)
}

// Property is a single physical property. Exactly one of the fields is
// meaningful, selected by Kind -- the tagged-variant style spec.md §9 calls
// for ("best modeled as tagged variants ... not inheritance").
type Property struct {
	Kind Kind

	// Columns holds the output-schema column set, valid when Kind ==
	// ColumnsKind.
	Columns opt.ColSet

	// Ordering holds the Sort property's ordered column list, valid when
	// Kind == SortKind.
	Ordering []OrderingColumn

	// Distinct holds the distinct-on column set, valid when Kind ==
	// DistinctKind.
	Distinct opt.ColSet

	// Offset/Limit hold the Limit property's values, valid when Kind ==
	// LimitKind.
	Offset int64
	Limit  int64
}

// NewColumns builds a Columns property.
func NewColumns(cols opt.ColSet) Property {
	return Property{Kind: ColumnsKind, Columns: cols}
}

// NewSort builds a Sort property from an ordered column list.
func NewSort(cols ...OrderingColumn) Property {
	return Property{Kind: SortKind, Ordering: cols}
}

// NewDistinct builds a Distinct property.
func NewDistinct(cols opt.ColSet) Property {
	return Property{Kind: DistinctKind, Distinct: cols}
}

// NewLimit builds a Limit property.
func NewLimit(offset, limit int64) Property {
	return Property{Kind: LimitKind, Offset: offset, Limit: limit}
}

// Dominates returns true if p satisfies (is at least as strong as) other --
// the `p >= other` relation from spec.md §3. It returns false if p and other
// have different Kinds, or if the Kind is not a known variant.
//
// Each case below mirrors the corresponding PropertyX::operator>= in
// Peloton's properties.cpp:
func (p Property) Dominates(other Property) bool {
	if p.Kind != other.Kind {
		return false
	}
	switch p.Kind {
	case ColumnsKind:
		// PropertyColumns::operator>=: lhs must have at least as many
		// columns, and every rhs column must be present in lhs.
		return other.Columns.SubsetOf(p.Columns)

	case DistinctKind:
		// PropertyDistinct::operator>=: the *reverse* containment of
		// Columns -- distinct(a) >= distinct(a,b), i.e. fewer distinct
		// columns is a stronger guarantee. The C++ comment calls this out
		// explicitly as "opposite to the condition of PropertyColumns".
		return p.Distinct.SubsetOf(other.Distinct)

	case LimitKind:
		// PropertyLimit::operator>=: exact equality of offset and limit.
		return p.Offset == other.Offset && p.Limit == other.Limit

	case SortKind:
		return sortDominates(p.Ordering, other.Ordering)

	default:
		return false
	}
}

// sortDominates implements PropertySort::operator>=: p's ordering dominates
// other's ordering iff other's ordering is a subsequence of p's ordering
// with matching column and direction at each step -- e.g.
// Sort(a,b,c,d,e) >= Sort(a,c,e).
func sortDominates(p, other []OrderingColumn) bool {
	if len(other) == 0 {
		return true
	}
	if len(p) < len(other) {
		return false
	}
	j := 0
	for i := 0; i < len(p) && j < len(other); i++ {
		if p[i] == other[j] {
			j++
		}
	}
	return j == len(other)
}

func (p Property) String() string {
	switch p.Kind {
	case ColumnsKind:
		return fmt.Sprintf("cols%s", p.Columns)
	case SortKind:
		parts := make([]string, len(p.Ordering))
		for i, c := range p.Ordering {
			parts[i] = c.String()
		}
		return fmt.Sprintf("sort(%s)", strings.Join(parts, ","))
	case DistinctKind:
		return fmt.Sprintf("distinct%s", p.Distinct)
	case LimitKind:
		return fmt.Sprintf("limit(%d,%d)", p.Offset, p.Limit)
	default:
		return "unknown-property"
	}
}

// Fingerprint returns a string uniquely identifying this property's value,
// used to build a PropertySet's order-independent hash.
func (p Property) Fingerprint() string {
	return fmt.Sprintf("%d:%s", p.Kind, p.String())
}

// PropertySet is an unordered collection of Property values -- a multiset,
// per spec.md §3, though in practice a given required-properties set holds
// at most one Property of each Kind.
type PropertySet struct {
	props []Property
}

// NewPropertySet builds a PropertySet from the given properties.
func NewPropertySet(props ...Property) *PropertySet {
	return &PropertySet{props: props}
}

// Empty returns true if the set has no properties (the "no requirements"
// PropertySet passed to unconstrained children).
func (s *PropertySet) Empty() bool {
	return s == nil || len(s.props) == 0
}

// Properties returns the set's members. Callers must not mutate the result.
func (s *PropertySet) Properties() []Property {
	if s == nil {
		return nil
	}
	return s.props
}

// Get returns the property of the given Kind in the set, if present.
func (s *PropertySet) Get(kind Kind) (Property, bool) {
	if s == nil {
		return Property{}, false
	}
	for _, p := range s.props {
		if p.Kind == kind {
			return p, true
		}
	}
	return Property{}, false
}

// Dominates returns true if s satisfies every property in other -- `A >= B`
// from spec.md §3: for every property in other, s has some property of the
// same Kind that dominates it.
func (s *PropertySet) Dominates(other *PropertySet) bool {
	for _, op := range other.Properties() {
		mine, ok := s.Get(op.Kind)
		if !ok || !mine.Dominates(op) {
			return false
		}
	}
	return true
}

// Fingerprint returns an order-independent string uniquely identifying the
// set's contents, used as the map key for per-group winner bookkeeping
// (Memo requires this to be order-independent per spec.md §3's "Hashing is
// order-independent").
func (s *PropertySet) Fingerprint() string {
	if s.Empty() {
		return "{}"
	}
	fps := make([]string, len(s.props))
	for i, p := range s.props {
		fps[i] = p.Fingerprint()
	}
	sort.Strings(fps)
	return "{" + strings.Join(fps, "|") + "}"
}

func (s *PropertySet) String() string {
	return s.Fingerprint()
}
