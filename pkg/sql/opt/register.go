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

func init() {
	// Logical operators.
	registerOperator(LeafOp, operatorInfo{name: "leaf"})
	registerOperator(GetOp, operatorInfo{name: "get"})
	registerOperator(QueryDerivedGetOp, operatorInfo{name: "query-derived-get"})
	registerOperator(SelectOp, operatorInfo{name: "select"})
	registerOperator(ProjectOp, operatorInfo{name: "project"})
	registerOperator(DistinctOp, operatorInfo{name: "distinct"})
	registerOperator(LimitOp, operatorInfo{name: "limit"})
	registerOperator(GroupByOp, operatorInfo{name: "group-by"})
	registerOperator(InnerJoinOp, operatorInfo{name: "inner-join"})
	registerOperator(InsertOp, operatorInfo{name: "insert"})
	registerOperator(InsertSelectOp, operatorInfo{name: "insert-select"})
	registerOperator(UpdateOp, operatorInfo{name: "update"})
	registerOperator(DeleteOp, operatorInfo{name: "delete"})

	// Physical operators.
	registerOperator(DummyScanOp, operatorInfo{name: "dummy-scan"})
	registerOperator(SeqScanOp, operatorInfo{name: "seq-scan"})
	registerOperator(IndexScanOp, operatorInfo{name: "index-scan"})
	registerOperator(InnerNLJoinOp, operatorInfo{name: "inner-nl-join"})
	registerOperator(InnerHashJoinOp, operatorInfo{name: "inner-hash-join"})
	registerOperator(HashGroupByOp, operatorInfo{name: "hash-group-by"})
	registerOperator(PhysicalLimitOp, operatorInfo{name: "physical-limit"})
	registerOperator(PhysicalInsertOp, operatorInfo{name: "physical-insert"})
	registerOperator(PhysicalInsertSelectOp, operatorInfo{name: "physical-insert-select"})
	registerOperator(PhysicalUpdateOp, operatorInfo{name: "physical-update"})
	registerOperator(PhysicalDeleteOp, operatorInfo{name: "physical-delete"})
	registerOperator(PhysicalQueryDerivedScanOp, operatorInfo{name: "physical-query-derived-scan"})

	// Enforcers.
	registerOperator(SortOp, operatorInfo{name: "sort"})
	registerOperator(EnforcedDistinctOp, operatorInfo{name: "enforced-distinct"})

	// Scalar operators.
	registerOperator(VariableOp, operatorInfo{name: "variable"})
	registerOperator(ConstOp, operatorInfo{name: "const"})
	registerOperator(TupleOp, operatorInfo{name: "tuple"})
	registerOperator(AndOp, operatorInfo{name: "and"})
	registerOperator(OrOp, operatorInfo{name: "or"})
	registerOperator(NotOp, operatorInfo{name: "not"})
	registerOperator(EqOp, operatorInfo{name: "eq"})
	registerOperator(LtOp, operatorInfo{name: "lt"})
	registerOperator(GtOp, operatorInfo{name: "gt"})
	registerOperator(LeOp, operatorInfo{name: "le"})
	registerOperator(GeOp, operatorInfo{name: "ge"})
	registerOperator(NeOp, operatorInfo{name: "ne"})
	registerOperator(InOp, operatorInfo{name: "in"})
	registerOperator(NotInOp, operatorInfo{name: "not-in"})
	registerOperator(LikeOp, operatorInfo{name: "like"})
	registerOperator(NotLikeOp, operatorInfo{name: "not-like"})
	registerOperator(ILikeOp, operatorInfo{name: "ilike"})
	registerOperator(NotILikeOp, operatorInfo{name: "not-ilike"})
	registerOperator(SimilarToOp, operatorInfo{name: "similar-to"})
	registerOperator(NotSimilarToOp, operatorInfo{name: "not-similar-to"})
	registerOperator(RegMatchOp, operatorInfo{name: "reg-match"})
	registerOperator(NotRegMatchOp, operatorInfo{name: "not-reg-match"})
	registerOperator(RegIMatchOp, operatorInfo{name: "reg-imatch"})
	registerOperator(NotRegIMatchOp, operatorInfo{name: "not-reg-imatch"})
	registerOperator(IsDistinctFromOp, operatorInfo{name: "is-distinct-from"})
	registerOperator(IsNotDistinctFromOp, operatorInfo{name: "is-not-distinct-from"})
	registerOperator(IsOp, operatorInfo{name: "is"})
	registerOperator(IsNotOp, operatorInfo{name: "is-not"})
	registerOperator(AnyOp, operatorInfo{name: "any"})
	registerOperator(SomeOp, operatorInfo{name: "some"})
	registerOperator(AllOp, operatorInfo{name: "all"})
	registerOperator(BitandOp, operatorInfo{name: "bitand"})
	registerOperator(BitorOp, operatorInfo{name: "bitor"})
	registerOperator(BitxorOp, operatorInfo{name: "bitxor"})
	registerOperator(PlusOp, operatorInfo{name: "plus"})
	registerOperator(MinusOp, operatorInfo{name: "minus"})
	registerOperator(MultOp, operatorInfo{name: "mult"})
	registerOperator(DivOp, operatorInfo{name: "div"})
	registerOperator(FloorDivOp, operatorInfo{name: "floor-div"})
	registerOperator(ModOp, operatorInfo{name: "mod"})
	registerOperator(PowOp, operatorInfo{name: "pow"})
	registerOperator(ConcatOp, operatorInfo{name: "concat"})
	registerOperator(LShiftOp, operatorInfo{name: "lshift"})
	registerOperator(RShiftOp, operatorInfo{name: "rshift"})
	registerOperator(UnaryPlusOp, operatorInfo{name: "unary-plus"})
	registerOperator(UnaryMinusOp, operatorInfo{name: "unary-minus"})
	registerOperator(UnaryComplementOp, operatorInfo{name: "unary-complement"})
	registerOperator(FunctionCallOp, operatorInfo{name: "function-call"})
}
