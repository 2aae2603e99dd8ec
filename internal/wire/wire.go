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

// Package wire defines the envelope sent from a Mutator to a dataflow
// domain shard, and the framing used to put it on the wire.
package wire

import "github.com/readysetio/flowcore/internal/value"

// OpKind identifies which BaseOperation variant a wire entry carries.
type OpKind uint8

const (
	OpInsert OpKind = iota
	OpDelete
	OpUpdate
	OpInsertOrUpdate
)

// BaseOperation is a single row mutation inside an Input envelope. Only
// the fields relevant to Kind are populated; the others are left zero.
type BaseOperation struct {
	Kind OpKind

	// Row is the full row for OpInsert and the "insert" half of
	// OpInsertOrUpdate.
	Row value.Row

	// Key identifies the target row for OpDelete and OpUpdate.
	// OpInsertOrUpdate leaves it empty; its target is given by Row.
	Key value.Row

	// Mods carries per-column modifications for OpUpdate and the
	// "update" half of OpInsertOrUpdate. Its length equals the table's
	// column count; entries default to value.NoMod.
	Mods []value.Modification
}

// Insert builds an OpInsert operation.
func Insert(row value.Row) BaseOperation {
	return BaseOperation{Kind: OpInsert, Row: row}
}

// Delete builds an OpDelete operation keyed by key.
func Delete(key value.Row) BaseOperation {
	return BaseOperation{Kind: OpDelete, Key: key}
}

// Update builds an OpUpdate operation keyed by key, applying mods.
func Update(key value.Row, mods []value.Modification) BaseOperation {
	return BaseOperation{Kind: OpUpdate, Key: key, Mods: mods}
}

// InsertOrUpdate builds an OpInsertOrUpdate operation: insert row if no
// row with row's key exists, otherwise apply mods to the existing row.
func InsertOrUpdate(row value.Row, mods []value.Modification) BaseOperation {
	return BaseOperation{Kind: OpInsertOrUpdate, Row: row, Mods: mods}
}

// Link identifies the source and destination dataflow node a batch of
// operations flows between. It is opaque to this package.
type Link struct {
	Src uint64
	Dst uint64
}

// Input is the envelope a Mutator sends to a single shard: an ordered
// batch of row operations carrying an ID (a count of the sending
// BatchSendHandle's Send calls) used to correlate the shard's Ack, and
// an optional replay Tag when the
// batch is being used to fill a hole rather than applied live.
type Input struct {
	ID   int64
	Link Link
	Data []BaseOperation

	// Tag is non-zero when this Input is part of a partial-replay fill
	// rather than a live write; state.Insert treats tagged inserts
	// specially (see internal/state).
	Tag    uint32
	HasTag bool
}

// Ack is the response a shard sends back for an Input it has applied.
// Err reports whether application failed; on failure ID still
// identifies which Input the Ack corresponds to.
type Ack struct {
	ID  int64
	Err bool
}
