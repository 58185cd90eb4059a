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
)

// rewriteToFixedPoint implements spec.md §4.8 step 2: apply the Rewrite-class
// rules in rules to every group in the memo, repeatedly, until no group
// changes in a full pass. Unlike cost-based search, rewrite rules replace a
// group's logical expression in place (EraseLogicalExpression + insert the
// rewritten one) rather than adding alternatives alongside it -- there is
// exactly one logical expression worth keeping once a rewrite fires, since
// these rules encode strict improvements (predicate pushdown, filter
// combination), not alternatives to cost between.
func rewriteToFixedPoint(ctx *RuleContext, rules *RuleSet) {
	for {
		changed := false
		// Snapshot the group count before the pass: groups created by a
		// rewrite firing within this pass are visited on the *next* pass,
		// not this one, so a still-growing memo can't make this loop's
		// upper bound a moving target.
		groupCount := ctx.Memo.GroupCount()
		for gid := 1; gid < groupCount; gid++ {
			g := ctx.Memo.GetGroupByID(opt.GroupID(gid))
			if g.ID() != opt.GroupID(gid) {
				continue // merged away since the snapshot was taken
			}
			if rewriteGroupOnce(ctx, rules, g) {
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

// rewriteGroupOnce applies the first matching, Check-passing Rewrite rule to
// g's current logical expression (if any), replacing it. Returns whether a
// rewrite fired.
func rewriteGroupOnce(ctx *RuleContext, rules *RuleSet, g *memo.Group) bool {
	logical := g.LogicalExprs()
	if len(logical) == 0 {
		return false
	}
	// A rewritten group always keeps exactly one logical expression, so the
	// first is the only one that can ever exist once the fixed point is
	// reached; before that, treat it the same way.
	ge := logical[0]

	fired := false
	rules.ForEach(func(idx int, r *Rule) {
		if fired || r.Class != Rewrite || r.Pattern.Op != ge.Op {
			return
		}
		for _, bound := range Bindings(ctx.Memo, ge, r.Pattern) {
			if !r.Check(bound, ctx) {
				continue
			}
			results := r.Transform(bound, ctx)
			if len(results) == 0 {
				continue
			}
			eraseLogicalExpression(ctx.Memo, g, ge)
			for _, result := range results {
				ctx.Memo.InsertExpression(result, g.ID(), false)
			}
			fired = true
			return
		}
	})
	return fired
}

// eraseLogicalExpression removes ge from g's logical list, per spec.md
// §4.8's "EraseLogicalExpression" -- the rewrite phase's only mutation that
// removes rather than adds a memo entry, since a rewritten logical
// expression is strictly superseded by its replacement and must not remain
// a candidate for cost-based search.
func eraseLogicalExpression(m *memo.Memo, g *memo.Group, ge *memo.GroupExpr) {
	logical := g.LogicalExprs()
	kept := logical[:0:0]
	for _, e := range logical {
		if e != ge {
			kept = append(kept, e)
		}
	}
	g.SetLogicalExprs(kept)
}
