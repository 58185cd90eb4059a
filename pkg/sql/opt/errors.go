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

import "github.com/cockroachdb/errors"

// ErrUnsupportedOperator is returned (wrapped with the offending operator)
// when a component is asked to handle an Operator it has no case for -- e.g.
// the cost model or the child-property deriver encountering an operator no
// rule ever produces.
var ErrUnsupportedOperator = errors.New("unsupported operator")

// ErrUnsupportedProperty is returned (wrapped with the offending property)
// when the property enforcer or dominance check encounters a Property
// variant it does not know how to enforce or compare.
var ErrUnsupportedProperty = errors.New("unsupported property")

// NewUnsupportedOperatorError wraps ErrUnsupportedOperator with op.
func NewUnsupportedOperatorError(op Operator) error {
	return errors.Wrapf(ErrUnsupportedOperator, "%s", op)
}

// NewUnsupportedPropertyError wraps ErrUnsupportedProperty with a
// description of the offending property.
func NewUnsupportedPropertyError(what string) error {
	return errors.Wrapf(ErrUnsupportedProperty, "%s", what)
}
