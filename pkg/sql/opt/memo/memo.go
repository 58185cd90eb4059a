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

package memo

import (
	"github.com/cockroachdb/errors"
	"github.com/mtunique/peloton/pkg/sql/opt"
)

// Memo is the central hash-consed store of groups and group expressions --
// spec.md §3's Memo. Groups are stored in a dense, 1-indexed arena (index 0
// is reserved, the same convention opt.GroupID 0 uses for "no group") so
// that group merging can remap references with a single pass over
// groupOf.
type Memo struct {
	groups []*Group // groups[0] is unused/nil, a sentinel for GroupID 0

	// exprIndex maps a GroupExpr's fingerprint to the group that contains
	// it, the hash-consing index spec.md §3 calls "hash table
	// GroupExpression* -> (GroupID, slot)".
	exprIndex map[string]opt.GroupID

	// groupOf is a redirection table: groupOf[g] is the live group id that
	// g currently refers to. It starts as the identity map; MergeGroup
	// updates groupOf[src] = dst so that any GroupID captured before a
	// merge still resolves to the live group.
	groupOf []opt.GroupID

	root opt.GroupID
}

// New creates an empty Memo.
func New() *Memo {
	return &Memo{
		groups:    []*Group{nil},
		exprIndex: make(map[string]opt.GroupID),
		groupOf:   []opt.GroupID{0},
	}
}

// RootGroup returns the memo's root group, as set by SetRoot (the optimizer
// facade calls it after building the initial plan) and followed through any
// later group merge. InsertExpression does not set it.
func (m *Memo) RootGroup() opt.GroupID { return m.resolve(m.root) }

// SetRoot sets the memo's root group.
func (m *Memo) SetRoot(g opt.GroupID) { m.root = m.resolve(g) }

// GroupCount returns the length of the group arena (for iteration bounds):
// it counts the unused slot 0 and the slots of merged-away groups, so it is
// one more than the highest GroupID allocated, not the number of live groups.
func (m *Memo) GroupCount() int { return len(m.groups) }

// resolve follows groupOf redirections until reaching a live group id.
func (m *Memo) resolve(g opt.GroupID) opt.GroupID {
	for int(g) < len(m.groupOf) && m.groupOf[g] != g {
		g = m.groupOf[g]
	}
	return g
}

// GetGroupByID returns the group currently identified by id, following any
// merge redirection -- spec.md §4.1's GetGroupByID(id) -> &Group.
func (m *Memo) GetGroupByID(id opt.GroupID) *Group {
	id = m.resolve(id)
	if int(id) >= len(m.groups) {
		panic(errors.AssertionFailedf("group %d does not exist", id))
	}
	return m.groups[id]
}

func (m *Memo) newGroupID() opt.GroupID {
	id := opt.GroupID(len(m.groups))
	m.groups = append(m.groups, nil)
	m.groupOf = append(m.groupOf, id)
	return id
}

// InsertExpression inserts an opt.Expr (recursively, bottom-up) into the
// memo, implementing spec.md §4.1's InsertExpression contract:
//
//   - Leaf nodes (op == opt.LeafOp) resolve directly to the referenced
//     group without creating anything new.
//   - For any other node, children are inserted first (recursively), then
//     a GroupExpr is built from (op, childGroupIDs, private) and
//     fingerprinted.
//   - If an expression with the same fingerprint already exists anywhere in
//     the memo, the existing group is reused (and, if targetGroup was
//     given and differs, the two groups are merged via MergeGroup) --
//     spec.md §3's hash-consing contract.
//   - Else, if targetGroup is 0 (not given), a new group is created and the
//     expression added to it. If targetGroup is non-zero, the expression is
//     added to that group instead.
//
// enforced marks the expression as an enforcer-introduced expression
// (placed in the group's enforced list rather than its logical/physical
// list, and excluded from rule exploration).
//
// It returns the resulting GroupExpr, the group it lives in, and whether
// the expression was newly inserted (as opposed to deduplicated against an
// existing one) -- the boolean the task scheduler needs to decide whether
// to push follow-on Optimize/Explore tasks for it.
func (m *Memo) InsertExpression(
	e *opt.Expr, targetGroup opt.GroupID, enforced bool,
) (ge *GroupExpr, group opt.GroupID, isNew bool) {
	if e.Op() == opt.LeafOp {
		g := m.resolve(e.GroupID())
		if targetGroup != 0 && targetGroup != g {
			m.MergeGroup(g, targetGroup)
			g = m.resolve(targetGroup)
		}
		return nil, g, false
	}

	childGroups := make([]opt.GroupID, e.ChildCount())
	for i := 0; i < e.ChildCount(); i++ {
		_, cg, _ := m.InsertExpression(e.Child(i), 0, false)
		childGroups[i] = cg
	}

	candidate := &GroupExpr{Op: e.Op(), Children: childGroups, Private: e.Private()}
	fp := candidate.fingerprint()

	if existingGroup, ok := m.exprIndex[fp]; ok {
		existingGroup = m.resolve(existingGroup)
		if targetGroup != 0 && m.resolve(targetGroup) != existingGroup {
			m.MergeGroup(existingGroup, targetGroup)
			existingGroup = m.resolve(targetGroup)
		}
		return m.findExprInGroup(existingGroup, fp), existingGroup, false
	}

	var g opt.GroupID
	if targetGroup == 0 {
		g = m.newGroupID()
		m.groups[g] = newGroup(g)
	} else {
		g = m.resolve(targetGroup)
	}

	candidate.Group = g
	grp := m.groups[g]
	switch {
	case enforced:
		grp.enforced = append(grp.enforced, candidate)
	case e.Op().IsPhysical():
		grp.physical = append(grp.physical, candidate)
	default:
		grp.logical = append(grp.logical, candidate)
	}
	m.exprIndex[fp] = g
	m.deriveGroupIdentity(grp, candidate)

	return candidate, g, true
}

// findExprInGroup looks up the GroupExpr within g whose fingerprint matches
// fp. It is only called right after confirming fp is present in the memo,
// so it always finds a match.
func (m *Memo) findExprInGroup(g opt.GroupID, fp string) *GroupExpr {
	grp := m.groups[g]
	for _, e := range grp.AllExprs() {
		if e.fingerprint() == fp {
			return e
		}
	}
	panic(errors.AssertionFailedf("fingerprint %s not found in group %d", fp, g))
}

// MergeGroup unions src into dst: every expression in src is reparented into
// dst, every GroupExpr elsewhere in the memo that referenced src is remapped
// to reference dst instead, and dst's winners keep whichever of the two
// groups' winners has lower cost per PropertySet -- spec.md §4.1's
// MergeGroup contract.
func (m *Memo) MergeGroup(src, dst opt.GroupID) {
	src, dst = m.resolve(src), m.resolve(dst)
	if src == dst {
		return
	}

	srcGrp, dstGrp := m.groups[src], m.groups[dst]

	reparent := func(exprs []*GroupExpr, bucket *[]*GroupExpr) {
		for _, e := range exprs {
			e.Group = dst
			*bucket = append(*bucket, e)
			m.exprIndex[e.fingerprint()] = dst
		}
	}
	reparent(srcGrp.logical, &dstGrp.logical)
	reparent(srcGrp.physical, &dstGrp.physical)
	reparent(srcGrp.enforced, &dstGrp.enforced)

	for _, w := range srcGrp.winners {
		dstGrp.UpdateWinner(w)
	}

	dstGrp.aliases = dstGrp.aliases.Union(srcGrp.aliases)
	dstGrp.outputCols = dstGrp.outputCols.Union(srcGrp.outputCols)
	if srcGrp.explored {
		dstGrp.explored = true
	}
	dstGrp.SetCostLowerBound(srcGrp.costLowerBound)

	// Redirect every other group-expr's child references from src to dst.
	for _, grp := range m.groups {
		if grp == nil || grp == dstGrp {
			continue
		}
		for _, e := range grp.AllExprs() {
			for i, c := range e.Children {
				if m.resolve(c) == src {
					e.Children[i] = dst
				}
			}
		}
	}

	m.groupOf[src] = dst
	m.groups[src] = nil
	if m.resolve(m.root) == src {
		m.root = dst
	}
}

// deriveGroupIdentity updates a newly-inserted expression's group with the
// cheap, non-cost identity information (table aliases, output columns) a
// rule needs to classify predicates -- not a statistics computation, just
// bookkeeping over the operator's private payload and its children's
// existing identity.
func (m *Memo) deriveGroupIdentity(g *Group, e *GroupExpr) {
	// ownOutputCols is true for operators whose output columns are fixed by
	// their own private payload rather than inherited from their children
	// (the base-relation scans, which have no children at all, and Project,
	// which narrows its child's columns down to priv.Cols -- unioning the
	// child's full column set back in would undo the narrowing).
	ownOutputCols := false
	switch priv := e.Private.(type) {
	case *opt.GetPrivate:
		g.aliases = g.aliases.Union(opt.NewAliasSet(priv.Alias))
		g.outputCols = g.outputCols.Union(priv.Cols)
		ownOutputCols = true
	case *opt.QueryDerivedGetPrivate:
		g.aliases = g.aliases.Union(opt.NewAliasSet(priv.Alias))
		g.outputCols = g.outputCols.Union(priv.Cols)
		ownOutputCols = true
	case *opt.SeqScanPrivate:
		g.aliases = g.aliases.Union(opt.NewAliasSet(priv.Alias))
		g.outputCols = g.outputCols.Union(priv.Cols)
		ownOutputCols = true
	case *opt.IndexScanPrivate:
		g.aliases = g.aliases.Union(opt.NewAliasSet(priv.Alias))
		g.outputCols = g.outputCols.Union(priv.Cols)
		ownOutputCols = true
	case *opt.DummyScanPrivate:
		g.outputCols = g.outputCols.Union(priv.Cols)
		ownOutputCols = true
	case *opt.ProjectPrivate:
		g.outputCols = g.outputCols.Union(priv.Cols)
		ownOutputCols = true
	}
	// Every other relational op (Select, the Join family, GroupBy/
	// HashGroupBy, Distinct/EnforcedDistinct, Limit/PhysicalLimit, Sort,
	// the mutation ops) inherits its output columns from its children --
	// the union of both sides for a join, a single child's columns passed
	// straight through for everything else. This must be unconditional
	// (not just for SelectOp): xform/rules_join.go's hashJoinKeys and
	// InnerJoinAssociativityRule, and rules_rewrite.go's
	// PushFilterThroughJoinRule, all call OutputCols() on a join's direct
	// child group to classify predicates/keys by side, and a join nested
	// under another join needs its own OutputCols() populated for that to
	// work at any join-tree depth beyond two base relations.
	for _, c := range e.Children {
		child := m.GetGroupByID(c)
		g.aliases = g.aliases.Union(child.aliases)
		if !ownOutputCols {
			g.outputCols = g.outputCols.Union(child.outputCols)
		}
	}
}
