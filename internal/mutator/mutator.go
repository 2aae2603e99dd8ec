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

package mutator

import (
	"github.com/readysetio/flowcore/internal/value"
	"github.com/readysetio/flowcore/internal/wire"
)

// Mutator is the client-side handle a caller uses to apply inserts,
// deletes and updates to one base table. It validates row shape,
// compensates for columns the table schema has dropped since the table
// was created, resolves the destination shard for each operation, and
// blocks until every shard it wrote to has acknowledged the write.
//
// A Mutator holds no internal goroutine: every method call does its own
// blocking I/O on the calling goroutine.
type Mutator struct {
	dih  *DomainInputHandle
	link wire.Link

	tableName string
	columns   []string
	schema    []string

	keyIsPrimary bool
	key          []int

	shardCol    int
	hasShardCol bool

	transactional bool
	dropped       map[int]value.Value
	finalWidth    int
}

// TableName returns the name of the table this Mutator writes to.
func (m *Mutator) TableName() string { return m.tableName }

// Columns returns the table's column names, in order, including any
// columns the schema has since dropped.
func (m *Mutator) Columns() []string { return append([]string(nil), m.columns...) }

// Schema returns the table's column type names, in the same order as
// Columns.
func (m *Mutator) Schema() []string { return append([]string(nil), m.schema...) }

// reducedWidth is the number of columns a caller-supplied row or
// modification list carries: the table's full column count minus
// however many columns have been dropped.
func (m *Mutator) reducedWidth() int { return m.finalWidth - len(m.dropped) }

func (m *Mutator) shardValueForRow(fullRow value.Row) *value.Value {
	if !m.hasShardCol {
		return nil
	}
	v := fullRow[m.shardCol]
	return &v
}

func (m *Mutator) shardValueForKey(key value.Row) *value.Value {
	if !m.hasShardCol {
		return nil
	}
	for i, c := range m.key {
		if c == m.shardCol {
			v := key[i]
			return &v
		}
	}
	return nil
}

func (m *Mutator) sendOne(op wire.BaseOperation, shardValue *value.Value) error {
	bsh := NewBatchSendHandle(m.dih, m.link, m.tableName)
	bsh.Enqueue(op, shardValue)
	if err := bsh.Send(); err != nil {
		return err
	}
	_, err := bsh.Wait()
	return err
}

// Put inserts a single row. row must have exactly reducedWidth()
// columns; it is widened to the table's full column count before being
// sent, with every dropped column's default value reinserted.
func (m *Mutator) Put(row value.Row) error {
	return m.BatchPut([]value.Row{row})
}

// BatchPut inserts every row in rows as a single batch per shard: one
// Input is sent to each shard touched, and BatchPut blocks until every
// touched shard has acknowledged it.
func (m *Mutator) BatchPut(rows []value.Row) error {
	bsh := NewBatchSendHandle(m.dih, m.link, m.tableName)
	for _, row := range rows {
		if len(row) != m.reducedWidth() {
			return ErrWrongColumnCount
		}
		widened, err := injectDroppedCols(row, m.dropped, m.finalWidth)
		if err != nil {
			return err
		}
		bsh.Enqueue(wire.Insert(widened), m.shardValueForRow(widened))
	}
	if err := bsh.Send(); err != nil {
		return err
	}
	_, err := bsh.Wait()
	return err
}

// MultiPut is an alias for BatchPut.
func (m *Mutator) MultiPut(rows []value.Row) error {
	return m.BatchPut(rows)
}

// Delete removes the row identified by key, which must have exactly
// one value per key column.
func (m *Mutator) Delete(key value.Row) error {
	if len(key) != len(m.key) {
		return ErrWrongKeyColumnCount
	}
	return m.sendOne(wire.Delete(key), m.shardValueForKey(key))
}

// Update applies mods to the row identified by key. mods must have one
// entry per column in the table's full (pre-drop) schema; entries for
// untouched columns should be value.NoMod.
//
// Update requires the Mutator's key to be the table's primary key —
// calling it against a non-primary-key Mutator is a programmer error
// (there is no way to resolve which row a partial update applies to)
// and panics rather than returning an error the caller could swallow.
// Update also rejects modifications that touch a dropped column (see
// ErrUnsupportedDroppedColumn): unlike Insert, there is no supplied
// value to fall back on for a column an Update doesn't otherwise
// mention, so reshaping is not attempted.
func (m *Mutator) Update(key value.Row, mods []value.Modification) error {
	if !m.keyIsPrimary {
		panic("mutator: update requires a primary key")
	}
	if len(key) != len(m.key) {
		return ErrWrongKeyColumnCount
	}
	if len(mods) != m.finalWidth {
		return ErrWrongColumnCount
	}
	if touchesDroppedColumn(m.key, m.dropped) || touchesModifiedDroppedColumn(mods, m.dropped) {
		return ErrUnsupportedDroppedColumn
	}
	return m.sendOne(wire.Update(key, mods), m.shardValueForKey(key))
}

// InsertOrUpdate inserts row if no row with row's key currently exists,
// or applies mods to the existing row otherwise. row must have exactly
// reducedWidth() columns and is widened the same way Put widens it;
// mods follows Update's rules, including the dropped-column rejection
// and the panic on a non-primary-key Mutator.
func (m *Mutator) InsertOrUpdate(row value.Row, mods []value.Modification) error {
	if !m.keyIsPrimary {
		panic("mutator: insert-or-update requires a primary key")
	}
	if len(row) != m.reducedWidth() {
		return ErrWrongColumnCount
	}
	if len(mods) != m.finalWidth {
		return ErrWrongColumnCount
	}
	if touchesDroppedColumn(m.key, m.dropped) || touchesModifiedDroppedColumn(mods, m.dropped) {
		return ErrUnsupportedDroppedColumn
	}
	widened, err := injectDroppedCols(row, m.dropped, m.finalWidth)
	if err != nil {
		return err
	}
	return m.sendOne(wire.InsertOrUpdate(widened, mods), m.shardValueForRow(widened))
}

func touchesModifiedDroppedColumn(mods []value.Modification, dropped map[int]value.Value) bool {
	var cols []int
	for i, mod := range mods {
		if mod.Kind() != value.ModNone {
			cols = append(cols, i)
		}
	}
	return touchesDroppedColumn(cols, dropped)
}
