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

import (
	"fmt"

	"github.com/mtunique/peloton/pkg/util/treeprinter"
)

// Operator identifies the type of an operator expression (an Expr). Values
// lower than numLogicalOperators are logical operators (produced directly
// by a query builder, never by the cost-based search); values from
// numLogicalOperators to numPhysicalOperators are physical implementations of
// a logical operator, introduced by implementation rules; the enforcer
// operators (SortOp, EnforcedDistinctOp) follow, introduced by the property
// enforcer rather than by any rule in the catalog; the scalar operators come
// last. See IsLogical, IsPhysical, IsEnforcer and IsScalar.
type Operator uint8

const (
	UnknownOp Operator = iota

	// -- Logical operators --
	//
	// Leaf/source operators.
	LeafOp       // a reference to an already-built group, used by rules
	GetOp        // base table scan, logical (before access path is chosen)
	QueryDerivedGetOp

	// Single-child logical operators.
	SelectOp   // filter
	ProjectOp
	DistinctOp // logical DISTINCT
	LimitOp    // logical LIMIT/OFFSET
	GroupByOp  // logical GROUP BY with aggregates

	// Multi-child logical operators.
	InnerJoinOp

	// Mutation logical operators.
	InsertOp
	InsertSelectOp
	UpdateOp
	DeleteOp

	// -- Physical operators --

	DummyScanOp       // produces zero rows, used when a predicate is unsatisfiable
	SeqScanOp         // sequential (full table) scan
	IndexScanOp       // scan of a secondary or primary index

	InnerNLJoinOp   // nested loop join
	InnerHashJoinOp // hash join

	HashGroupByOp // hash-based GROUP BY implementation

	PhysicalLimitOp

	PhysicalInsertOp
	PhysicalInsertSelectOp
	PhysicalUpdateOp
	PhysicalDeleteOp
	PhysicalQueryDerivedScanOp

	// -- Enforcer operators --
	//
	// Enforcers are introduced by the property enforcer (not the rule
	// catalog) to provide a physical property the child group does not
	// natively guarantee.
	SortOp          // enforces a Sort property
	EnforcedDistinctOp

	// -- Scalar operators --

	// variableOp is a leaf expression that represents a non-constant value, like a column
	// in a table.
	VariableOp

	// constOp is a leaf expression that has a constant value.
	ConstOp

	// tupleOp is a list of scalar expressions.
	TupleOp

	AndOp
	OrOp
	NotOp

	EqOp
	LtOp
	GtOp
	LeOp
	GeOp
	NeOp
	InOp
	NotInOp
	LikeOp
	NotLikeOp
	ILikeOp
	NotILikeOp
	SimilarToOp
	NotSimilarToOp
	RegMatchOp
	NotRegMatchOp
	RegIMatchOp
	NotRegIMatchOp

	IsDistinctFromOp
	IsNotDistinctFromOp

	// isOp implements the SQL operator IS, as well as its extended
	// version IS NOT DISTINCT FROM.
	IsOp

	// isNotOp implements the SQL operator IS NOT, as well as its extended
	// version IS DISTINCT FROM.
	IsNotOp

	AnyOp
	SomeOp
	AllOp

	BitandOp
	BitorOp
	BitxorOp
	PlusOp
	MinusOp
	MultOp
	DivOp
	FloorDivOp
	ModOp
	PowOp
	ConcatOp
	LShiftOp
	RShiftOp

	UnaryPlusOp
	UnaryMinusOp
	UnaryComplementOp

	FunctionCallOp

	// This should be last.
	numOperators
)

// numLogicalOperators is the exclusive upper bound of the range of logical
// operator values. Operators below this value (other than unknownOp) are
// logical; they describe relational intent but not an access path or
// algorithm.
const numLogicalOperators = DeleteOp + 1

// mutationOpLo/mutationOpHi bound the logical mutation operators, which are
// a subset of the logical operators above but are classified separately
// because the rule catalog never explores them the way it explores query
// operators -- each has exactly one physical implementation rule.
const (
	mutationOpLo = InsertOp
	mutationOpHi = DeleteOp
)

// numPhysicalOperators is the exclusive upper bound of the range of physical
// implementation operator values.
const numPhysicalOperators = PhysicalQueryDerivedScanOp + 1

// enforcerOpLo/enforcerOpHi bound the enforcer operators.
const (
	enforcerOpLo = SortOp
	enforcerOpHi = EnforcedDistinctOp
)

// IsLogical returns true if op is a logical (non-physical, non-enforcer)
// relational operator.
func (op Operator) IsLogical() bool {
	return op > UnknownOp && op < numLogicalOperators
}

// IsPhysical returns true if op is a physical implementation of some logical
// relational operator.
func (op Operator) IsPhysical() bool {
	return op >= DummyScanOp && op < numPhysicalOperators
}

// IsEnforcer returns true if op is an enforcer operator, introduced by the
// property enforcer rather than by a rule in the catalog.
func (op Operator) IsEnforcer() bool {
	return op >= enforcerOpLo && op <= enforcerOpHi
}

// IsRelational returns true if op produces rows (as opposed to a scalar
// value). This includes logical, physical, and enforcer operators, but not
// LeafOp, which is a reference rather than an operator in its own right.
func (op Operator) IsRelational() bool {
	return op != LeafOp && (op.IsLogical() || op.IsPhysical() || op.IsEnforcer())
}

// IsMutation returns true if op is one of the logical mutation operators
// (Insert, InsertSelect, Update, Delete).
func (op Operator) IsMutation() bool {
	return op >= mutationOpLo && op <= mutationOpHi
}

// IsScalar returns true if op produces a scalar value used inside a
// predicate, projection, or other expression context rather than a relation.
func (op Operator) IsScalar() bool {
	return op >= VariableOp && op < numOperators
}

// operatorInfo stores static information about an operator.
type operatorInfo struct {
	// name of the operator, used when printing expressions.
	name string
	// class of the operator (see operatorClass).
	class operatorClass
}

// operatorTab stores static information about all operators.
var operatorTab [numOperators]operatorInfo

func init() {
	operatorTab[UnknownOp] = operatorInfo{name: "unknown"}
}

// registerOperator initializes the operator's entry in operatorTab. There
// must be a call to registerOperator in an init() function for every
// operator (see register.go).
func registerOperator(op Operator, info operatorInfo) {
	operatorTab[op] = info
}

func (op Operator) String() string {
	if op >= numOperators {
		return fmt.Sprintf("operator(%d)", op)
	}
	return operatorTab[op].name
}

// operatorClass implements functionality that is common for a subset of
// operators.
type operatorClass interface {
	// format outputs information about the expr tree to a treePrinter.
	format(e *Expr, tp treeprinter.Node)
}
