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

// Pattern describes the shape of expressions a Rule matches. A Pattern node
// either matches a specific operator with a fixed number of child patterns,
// or is a leaf pattern ("Any") that matches any group without descending
// into it any further -- the binding iterator (pkg/sql/opt/xform) binds a
// leaf pattern to the group itself (as a LeafOp reference) rather than
// expanding every expression inside it.
//
// This mirrors the Pattern trees used by Peloton's rule_impls.cpp (each rule
// registers a pattern built from Pattern(op).AddChild(...)) and spec.md §4.3.
type Pattern struct {
	// Op is the operator this node matches. It is ignored when Any is true.
	Op Operator
	// Any, when true, makes this node match any group without inspecting its
	// expressions -- the counterpart of Peloton's OpType::LeafOp pattern
	// nodes used for "don't care" children.
	Any bool
	// Children are the child patterns, matched positionally against the
	// candidate expression's children. Ignored when AnyChildren is true.
	Children []*Pattern
	// AnyChildren, when true, makes this node match op regardless of the
	// number or shape of its children.
	AnyChildren bool
}

// Leaf returns a pattern that matches any group.
func Leaf() *Pattern {
	return &Pattern{Any: true}
}

// Match returns a pattern that matches op with exactly the given children
// patterns (which must match the operator's arity).
func Match(op Operator, children ...*Pattern) *Pattern {
	return &Pattern{Op: op, Children: children}
}

// MatchAnyChildren returns a pattern that matches op regardless of the
// number or shape of its children -- used by rules (like
// CombineConsecutiveFilter) whose Check function inspects children itself
// rather than needing the pattern to pin down their shape.
func MatchAnyChildren(op Operator) *Pattern {
	return &Pattern{Op: op, AnyChildren: true}
}
