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

package state

import "github.com/readysetio/flowcore/internal/value"

// SingleState is one index over a table: the column positions it is
// keyed by, the hash index itself, and whether the index is partially
// materialized (only ever holds rows that have been explicitly filled
// in by a replay, everything else being a hole rather than "genuinely
// empty").
type SingleState struct {
	keyCols []int
	keyed   keyedState
	partial bool
}

func newSingleState(keyCols []int, partial bool) *SingleState {
	cols := make([]int, len(keyCols))
	copy(cols, keyCols)
	return &SingleState{
		keyCols: cols,
		keyed:   newKeyedState(len(cols)),
		partial: partial,
	}
}

// KeyCols returns the column positions this index is keyed by.
func (s *SingleState) KeyCols() []int { return s.keyCols }

// Partial reports whether this index is partially materialized.
func (s *SingleState) Partial() bool { return s.partial }

func (s *SingleState) keyOf(row value.Row) value.Row {
	key := make(value.Row, len(s.keyCols))
	for i, c := range s.keyCols {
		key[i] = row[c]
	}
	return key
}

// insertInto adds h to the bucket for row's key. It returns false
// without storing anything when the index is partial and the key is
// not already present — a write into a hole is dropped, exactly the
// same way a miss on a not-yet-filled key is dropped, since a partial
// index must never silently materialize a key nothing asked to fill.
func (s *SingleState) insertInto(row value.Row, h handle) bool {
	key := s.keyOf(row)
	if _, existed := s.keyed.Lookup(key); !existed && s.partial {
		return false
	}
	s.keyed.Insert(key, h)
	return true
}

// remove deletes h from the bucket for row's key, reporting whether it
// was found.
func (s *SingleState) remove(row value.Row, h handle) bool {
	return s.keyed.Remove(s.keyOf(row), h)
}

// lookup returns the handles stored under row's key columns and
// whether the key has an entry at all.
func (s *SingleState) lookup(key value.Row) ([]handle, bool) {
	return s.keyed.Lookup(key)
}

func (s *SingleState) markFilled(key value.Row) { s.keyed.MarkFilled(key) }
func (s *SingleState) markHole(key value.Row)   { s.keyed.MarkHole(key) }

func (s *SingleState) isEmpty() bool { return s.keyed.IsEmpty() }
func (s *SingleState) len() int      { return s.keyed.Len() }
func (s *SingleState) clear()        { s.keyed.Clear() }

func (s *SingleState) forEach(fn func(key value.Row, hs []handle)) {
	s.keyed.ForEach(fn)
}
