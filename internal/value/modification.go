// Copyright 2024 The ReadySet Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package value

// ModKind identifies how an Update operation changes a single column.
type ModKind uint8

const (
	// ModNone leaves the column untouched.
	ModNone ModKind = iota
	// ModSet replaces the column with a literal value.
	ModSet
	// ModAdd applies an arithmetic delta to the column's current value.
	ModAdd
)

// Modification describes how a single column is changed by an Update
// BaseOperation. It is the Go rendering of the arithmetic-delta variant
// mentioned in the column-value section of the write path: a column can
// be left alone, set to a literal, or incremented/decremented in place.
type Modification struct {
	kind  ModKind
	value Value
}

// NoMod is the untouched-column modification.
var NoMod = Modification{kind: ModNone}

// SetTo constructs a modification that replaces a column outright.
func SetTo(v Value) Modification { return Modification{kind: ModSet, value: v} }

// AddDelta constructs a modification that adds v to the column's current
// value. Only numeric Values are meaningful deltas; applying this to a
// text column is a caller error.
func AddDelta(v Value) Modification { return Modification{kind: ModAdd, value: v} }

// Kind reports which variant this Modification holds.
func (m Modification) Kind() ModKind { return m.kind }

// Apply returns the new column value given the row's current value.
func (m Modification) Apply(current Value) Value {
	switch m.kind {
	case ModNone:
		return current
	case ModSet:
		return m.value
	case ModAdd:
		switch current.Kind() {
		case KindInt:
			return Int(current.Int() + m.value.Int())
		case KindFloat:
			return Float(current.Float() + m.value.Float())
		default:
			return current
		}
	default:
		return current
	}
}
