// Copyright 2018 The Cockroach Authors.
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
	"fmt"

	"github.com/mtunique/peloton/pkg/util/treeprinter"
)

// String renders every live group and its expressions as an indented tree,
// following the teacher's treeprinter-based memo formatting
// (pkg/sql/opt/memo/memo_format.go in the original) but simplified to this
// module's flat Group/GroupExpr model: no best-expr-per-required-props
// topological renumbering, just groups in allocation order, since that's
// all a debugging dump of this memo needs.
func (m *Memo) String() string {
	tp := treeprinter.New()
	root := tp.Childf("memo (root: g%d)", m.RootGroup())

	for id := 1; id < len(m.groups); id++ {
		grp := m.groups[id]
		if grp == nil {
			continue // merged away
		}
		gnode := root.Childf("g%d: aliases=%v cols=%v", id, grp.Aliases(), grp.OutputCols())
		for _, e := range grp.logical {
			gnode.Childf("%s", e)
		}
		for _, e := range grp.physical {
			gnode.Childf("%s", e)
		}
		for _, e := range grp.enforced {
			gnode.Childf("%s (enforced)", e)
		}
		for _, w := range grp.winners {
			gnode.Childf("winner %s: cost=%.2f %s", w.Required, w.Cost, w.Expr)
		}
	}
	return tp.String()
}

func (m *Memo) GoString() string {
	return fmt.Sprintf("Memo{groups: %d}", len(m.groups)-1)
}
