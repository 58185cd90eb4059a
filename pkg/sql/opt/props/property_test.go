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

package props

import (
	"testing"

	"github.com/mtunique/peloton/pkg/sql/opt"
)

func col(id int) opt.ColumnID { return opt.ColumnID(id) }

func TestColumnsDominates(t *testing.T) {
	wide := NewColumns(opt.NewColSet(col(1), col(2), col(3)))
	narrow := NewColumns(opt.NewColSet(col(1), col(2)))

	if !wide.Dominates(narrow) {
		t.Errorf("expected {1,2,3} to dominate {1,2}")
	}
	if narrow.Dominates(wide) {
		t.Errorf("expected {1,2} to not dominate {1,2,3}")
	}
	if !wide.Dominates(wide) {
		t.Errorf("expected a property to dominate itself")
	}
}

func TestDistinctDominatesIsReversed(t *testing.T) {
	// Distinct's dominance direction is the opposite of Columns': fewer
	// distinct-on columns is the stronger guarantee.
	few := NewDistinct(opt.NewColSet(col(1)))
	many := NewDistinct(opt.NewColSet(col(1), col(2)))

	if !few.Dominates(many) {
		t.Errorf("expected distinct(1) to dominate distinct(1,2)")
	}
	if many.Dominates(few) {
		t.Errorf("expected distinct(1,2) to not dominate distinct(1)")
	}
}

func TestLimitDominatesRequiresExactMatch(t *testing.T) {
	a := NewLimit(0, 10)
	b := NewLimit(0, 10)
	c := NewLimit(5, 10)

	if !a.Dominates(b) {
		t.Errorf("expected identical Limit properties to dominate each other")
	}
	if a.Dominates(c) {
		t.Errorf("expected limit(0,10) to not dominate limit(5,10)")
	}
}

func TestSortDominatesSubsequence(t *testing.T) {
	full := NewSort(
		OrderingColumn{Col: col(1)},
		OrderingColumn{Col: col(2)},
		OrderingColumn{Col: col(3)},
	)
	prefix := NewSort(OrderingColumn{Col: col(1)}, OrderingColumn{Col: col(2)})
	wrongDir := NewSort(OrderingColumn{Col: col(1), Desc: true})
	empty := NewSort()

	if !full.Dominates(prefix) {
		t.Errorf("expected sort(1,2,3) to dominate sort(1,2)")
	}
	if prefix.Dominates(full) {
		t.Errorf("expected sort(1,2) to not dominate sort(1,2,3)")
	}
	if full.Dominates(wrongDir) {
		t.Errorf("expected sort(1+,2,3) to not dominate sort(1-)")
	}
	if !full.Dominates(empty) {
		t.Errorf("expected any sort to dominate an empty sort requirement")
	}
}

func TestSortDominatesNonPrefixSubsequenceFails(t *testing.T) {
	// sortDominates requires the match to start immediately and continue
	// without gaps once started -- spec.md's subsequence definition is
	// prefix-anchored, not a general subsequence test.
	full := NewSort(
		OrderingColumn{Col: col(2)},
		OrderingColumn{Col: col(1)},
		OrderingColumn{Col: col(3)},
	)
	nonPrefix := NewSort(OrderingColumn{Col: col(1)}, OrderingColumn{Col: col(3)})

	if full.Dominates(nonPrefix) {
		t.Errorf("expected sort(2,1,3) to not dominate sort(1,3): 1,3 isn't a prefix-anchored run")
	}
}

func TestPropertySetDominates(t *testing.T) {
	required := NewPropertySet(NewColumns(opt.NewColSet(col(1))))
	offered := NewPropertySet(
		NewColumns(opt.NewColSet(col(1), col(2))),
		NewSort(OrderingColumn{Col: col(1)}),
	)

	if !offered.Dominates(required) {
		t.Errorf("expected a superset of required properties to dominate")
	}

	missingKind := NewPropertySet(NewSort(OrderingColumn{Col: col(1)}))
	if missingKind.Dominates(required) {
		t.Errorf("expected a set missing the Columns kind entirely to not dominate")
	}
}

func TestPropertySetFingerprintOrderIndependent(t *testing.T) {
	a := NewPropertySet(NewColumns(opt.NewColSet(col(1))), NewLimit(0, 5))
	b := NewPropertySet(NewLimit(0, 5), NewColumns(opt.NewColSet(col(1))))

	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("expected fingerprint to be order-independent: %q != %q", a.Fingerprint(), b.Fingerprint())
	}
}

func TestEmptyPropertySetDominatesNothingButIsDominatedByAnything(t *testing.T) {
	empty := NewPropertySet()
	nonEmpty := NewPropertySet(NewLimit(0, 1))

	if !empty.Empty() {
		t.Errorf("expected NewPropertySet() to be Empty")
	}
	if !nonEmpty.Dominates(empty) {
		t.Errorf("expected any set to dominate the empty set")
	}
	if empty.Dominates(nonEmpty) {
		t.Errorf("expected the empty set to not dominate a non-empty requirement")
	}
}
