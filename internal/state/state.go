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

// Package state implements a per-operator table's materialized indices,
// including partial materialization: an index can be marked as holding
// only the rows some upstream replay has explicitly filled in, with
// every other key treated as a hole rather than a genuine miss.
package state

import (
	log "github.com/sirupsen/logrus"

	"github.com/readysetio/flowcore/internal/metrics"
	"github.com/readysetio/flowcore/internal/value"
)

// Tag identifies a partial-replay fill path. A State index registered
// against one or more tags is partial: mark_filled/mark_hole/lookup
// treat an absent key as Missing rather than as a genuinely empty
// result.
type Tag uint32

// LookupResult is the three-way outcome of a keyed Lookup: the key is a
// hole in a partial index (Missing), the key is known empty in a
// fully materialized index (Rows is non-nil and empty), or the key has
// matching rows (Rows is non-nil and non-empty).
type LookupResult struct {
	Missing bool
	Rows    []value.Row
}

// State holds every index registered for one operator's materialized
// table: one or more SingleState instances sharing an arena of rows,
// plus the tag-to-index map used to route partial-replay fills.
type State struct {
	table   string
	indices []*SingleState
	byTag   map[Tag]int
	arena   *arena
	rows    int
}

// New returns an empty State with no indices, for the given table (used
// only to label this table's metrics).
func New(table string) *State {
	return &State{
		table: table,
		byTag: make(map[Tag]int),
		arena: newArena(),
	}
}

// StateFor returns the index of the SingleState keyed by exactly
// columns, if one has been registered.
func (s *State) StateFor(columns []int) (int, bool) {
	for i, idx := range s.indices {
		if intSliceEqual(idx.KeyCols(), columns) {
			return i, true
		}
	}
	return 0, false
}

// AddKey registers a new index over columns, or, if an index over
// exactly those columns already exists, associates partialTags with
// it. A freshly created index that is not itself partial is backfilled
// from the first existing index, so that adding a second full index to
// an already-populated table does not silently start out empty.
func (s *State) AddKey(columns []int, partialTags []Tag) {
	if idx, ok := s.StateFor(columns); ok {
		for _, t := range partialTags {
			s.byTag[t] = idx
		}
		return
	}

	partial := len(partialTags) > 0
	idx := newSingleState(columns, partial)
	s.indices = append(s.indices, idx)
	newIdx := len(s.indices) - 1
	for _, t := range partialTags {
		s.byTag[t] = newIdx
	}

	if newIdx == 0 || partial {
		return
	}
	first := s.indices[0]
	if first.isEmpty() {
		return
	}
	first.forEach(func(_ value.Row, hs []handle) {
		for _, h := range hs {
			idx.insertInto(s.arena.get(h), h)
		}
	})
}

// Insert adds row to every index (the live-write path), or, when
// tagged is true, to only the index registered for tag (the
// partial-replay fill path).
//
// An unknown tag is a silent success: the row is dropped without being
// stored anywhere and without touching rows. This matches the fill
// path's row-count accounting: a tagged insert never increments rows,
// even when it is accepted by its index, since the row already counted
// toward rows the first time an untagged write produced it upstream.
func (s *State) Insert(row value.Row, tagged bool, tag Tag) bool {
	if tagged {
		idx, ok := s.byTag[tag]
		if !ok {
			log.WithField("tag", tag).Trace("state: insert for unknown tag, dropping")
			return true
		}
		h := s.arena.put(row)
		accepted := s.indices[idx].insertInto(row, h)
		if !accepted {
			s.arena.release(h)
		}
		log.WithFields(log.Fields{"tag": tag, "accepted": accepted}).Trace("state: tagged insert")
		return accepted
	}

	h := s.arena.put(row)
	accepted := false
	for _, idx := range s.indices {
		if idx.insertInto(row, h) {
			accepted = true
		}
	}
	if !accepted {
		s.arena.release(h)
	}
	s.rows++
	metrics.StateRows.WithLabelValues(s.table).Set(float64(s.rows))
	return accepted
}

// Remove deletes the first row equal to row from every index it is
// present in, decrementing rows once if it was found in at least one
// index.
func (s *State) Remove(row value.Row) bool {
	h := nilHandle
outer:
	for _, idx := range s.indices {
		key := idx.keyOf(row)
		hs, ok := idx.lookup(key)
		if !ok {
			continue
		}
		for _, cand := range hs {
			if rowsEqual(s.arena.get(cand), row) {
				h = cand
				break outer
			}
		}
	}
	if h == nilHandle {
		return false
	}

	removed := false
	for _, idx := range s.indices {
		if idx.remove(row, h) {
			removed = true
		}
	}
	if removed {
		s.arena.release(h)
		s.rows--
		metrics.StateRows.WithLabelValues(s.table).Set(float64(s.rows))
	}
	return removed
}

// MarkFilled records that key is no longer a hole in the index
// registered for tag. Asking to fill a tag no index was ever registered
// for is a programmer error, not a recoverable condition: it panics, as
// does a fill requested twice for the same key (see
// KeyedState.MarkFilled).
func (s *State) MarkFilled(tag Tag, key value.Row) {
	idx, ok := s.byTag[tag]
	if !ok {
		panic("state: mark_filled for a tag with no registered index")
	}
	s.indices[idx].markFilled(key)
	log.WithField("tag", tag).Trace("state: mark_filled")
}

// MarkHole re-opens key as a hole in the index registered for tag. As
// with MarkFilled, an unregistered tag is a programmer error and panics.
func (s *State) MarkHole(tag Tag, key value.Row) {
	idx, ok := s.byTag[tag]
	if !ok {
		panic("state: mark_hole for a tag with no registered index")
	}
	s.indices[idx].markHole(key)
	log.WithField("tag", tag).Trace("state: mark_hole")
}

// Lookup resolves key against the index registered for exactly columns.
// Looking up a column set no index was ever registered for is a
// programmer error — the caller is expected to have queried Keys/StateFor
// first — and panics rather than returning an error a caller could
// silently swallow.
func (s *State) Lookup(columns []int, key value.Row) LookupResult {
	idx, ok := s.StateFor(columns)
	if !ok {
		panic("state: lookup against columns with no registered index")
	}
	si := s.indices[idx]
	hs, ok := si.lookup(key)
	if !ok {
		if si.Partial() {
			metrics.StateHoles.WithLabelValues(s.table).Inc()
			return LookupResult{Missing: true}
		}
		return LookupResult{Rows: []value.Row{}}
	}
	rows := make([]value.Row, len(hs))
	for i, h := range hs {
		rows[i] = s.arena.get(h)
	}
	return LookupResult{Rows: rows}
}

// Keys returns the key columns of every registered index.
func (s *State) Keys() [][]int {
	out := make([][]int, len(s.indices))
	for i, idx := range s.indices {
		out[i] = idx.KeyCols()
	}
	return out
}

// IsUseful reports whether this table has at least one index.
func (s *State) IsUseful() bool { return len(s.indices) > 0 }

// IsPartial reports whether any registered index is partial.
func (s *State) IsPartial() bool {
	for _, idx := range s.indices {
		if idx.Partial() {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the table currently holds no rows.
func (s *State) IsEmpty() bool { return s.rows == 0 }

// Len reports the number of rows held (see Insert's doc comment for
// the one case, tagged inserts, where this undercounts rows actually
// present in an index).
func (s *State) Len() int { return s.rows }

// NKeys reports the number of distinct keys held in the first registered
// index (matching the original, which always reads key counts off index
// zero), not the number of indices registered.
func (s *State) NKeys() int {
	if len(s.indices) == 0 {
		return 0
	}
	return s.indices[0].len()
}

// ClonedRecords returns a copy of every row in the table, read off the
// first index. This is only well-defined when that index is keyed by a
// single column and is not partial (a partial index's absent keys are
// holes, not an exhaustive key space to scan); any other shape panics,
// matching the narrow case the original supports.
func (s *State) ClonedRecords() []value.Row {
	if len(s.indices) == 0 {
		return nil
	}
	first := s.indices[0]
	if len(first.KeyCols()) != 1 || first.Partial() {
		panic("state: cloned_records is only supported for a single-column, non-partial first index")
	}
	var out []value.Row
	first.forEach(func(_ value.Row, hs []handle) {
		for _, h := range hs {
			out = append(out, s.arena.get(h).Clone())
		}
	})
	return out
}

// Close tears the State down: every index but the last is discarded
// (mirroring the original's unalias-before-drop, which keeps only one
// index's ownership of each row alive right up until the final clear),
// then every remaining index and the row arena are cleared.
func (s *State) Close() {
	if len(s.indices) > 1 {
		s.indices = s.indices[len(s.indices)-1:]
	}
	for _, idx := range s.indices {
		idx.clear()
	}
	s.arena.clear()
	s.rows = 0
	metrics.StateRows.WithLabelValues(s.table).Set(0)
}

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func rowsEqual(a, b value.Row) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
