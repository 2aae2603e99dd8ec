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

// handle is an index into an arena's row slice. A row is shared by every
// index that covers it via its handle, never copied; this stands in for
// the original's Rc<RefCell<Row>> sharing in a language without
// reference counting, per the arena-of-rows design.
type handle int32

const nilHandle handle = -1

// arena owns the rows backing a State's indices. Indices never hold a
// Row directly, only its handle, so a row present in several indices
// (the common case for a table with more than one index) lives once.
type arena struct {
	rows []value.Row
	// free lists handles whose row has been removed from every index,
	// so the slot can be reused instead of growing rows forever.
	free []handle
}

func newArena() *arena {
	return &arena{}
}

// put stores row and returns a handle to it.
func (a *arena) put(row value.Row) handle {
	if n := len(a.free); n > 0 {
		h := a.free[n-1]
		a.free = a.free[:n-1]
		a.rows[h] = row
		return h
	}
	a.rows = append(a.rows, row)
	return handle(len(a.rows) - 1)
}

// get returns the row stored at h.
func (a *arena) get(h handle) value.Row {
	return a.rows[h]
}

// release marks h's slot as reusable. It must only be called once a row
// has been removed from every index that referenced it.
func (a *arena) release(h handle) {
	a.rows[h] = nil
	a.free = append(a.free, h)
}

// clear drops every row and free-list entry.
func (a *arena) clear() {
	a.rows = nil
	a.free = nil
}
