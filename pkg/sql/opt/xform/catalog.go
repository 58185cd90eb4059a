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

// DefaultRewriteRules is the pre-search, apply-to-fixed-point rule set, per
// spec.md §4.8 step 2. Order matters only as a tie-break; fixed-point
// iteration means every rule fires as many times as it can regardless of
// position.
var DefaultRewriteRules = NewRuleSet(
	EmbedFilterIntoGetRule,
	CombineConsecutiveFilterRule,
	PushFilterThroughJoinRule,
)

// DefaultRules is the full cost-based search rule set, per spec.md §4.2:
// every Transformation and Implementation rule the optimizer core knows
// about. Rewrite-class rules are deliberately excluded -- they only run
// during the pre-search rewrite phase (see rewrite.go), never during
// OptimizeExpression/ExploreExpression.
var DefaultRules = NewRuleSet(
	// Join transformations.
	InnerJoinCommutativityRule,
	InnerJoinAssociativityRule,
	// Join implementations.
	InnerJoinToInnerNLJoinRule,
	InnerJoinToInnerHashJoinRule,
	// Scan implementations.
	GetToDummyScanRule,
	GetToSeqScanRule,
	GetToIndexScanRule,
	// Mutation and derived-get implementations.
	LogicalQueryDerivedGetToPhysicalRule,
	LogicalDeleteToPhysicalRule,
	LogicalUpdateToPhysicalRule,
	LogicalInsertToPhysicalRule,
	LogicalInsertSelectToPhysicalRule,
	// Group-by implementations.
	LogicalGroupByToHashGroupByRule,
	LogicalAggregateToPhysicalRule,
	// Distinct/limit implementations.
	ImplementDistinctRule,
	ImplementLimitRule,
)
