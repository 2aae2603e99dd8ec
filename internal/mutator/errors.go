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

// Package mutator implements the client-side write path to a dataflow
// base table: validating, sharding, batching, and sending row
// operations to the table's domain shards, including compensation for
// columns the table schema has since dropped.
package mutator

import "github.com/pkg/errors"

var (
	// ErrWrongColumnCount is returned when a row passed to Put/MultiPut
	// does not have exactly as many columns as the table's current
	// (post-drop) schema expects.
	ErrWrongColumnCount = errors.New("mutator: wrong column count")

	// ErrWrongKeyColumnCount is returned when a key passed to
	// Delete/Update does not have exactly as many values as the table's
	// key.
	ErrWrongKeyColumnCount = errors.New("mutator: wrong key column count")

	// ErrTransactionFailed is returned when a shard acknowledges a
	// batch with its error flag set.
	ErrTransactionFailed = errors.New("mutator: transaction failed")

	// ErrUnsupportedDroppedColumn is returned by Update and
	// InsertOrUpdate when the table has dropped columns that fall
	// within the key or the set of columns being modified. Reshaping a
	// partial update around a dropped column would require guessing at
	// a value that was never supplied; rather than guess, the write is
	// rejected.
	ErrUnsupportedDroppedColumn = errors.New("mutator: update against a row shape with dropped columns in the key or modification list is not supported")

	// ErrCompositeShardKey is returned by MutatorBuilder.Build when the
	// table has more than one sharding address and more than one key
	// column: sharding by a composite key is not implemented, and
	// rather than let that surface as a panic deep inside
	// BatchSendHandle.Enqueue, it is rejected at construction time.
	ErrCompositeShardKey = errors.New("mutator: composite (multi-column) sharding keys are not supported")

	// errNoWork is returned by BatchSendHandle.Wait when called before
	// any batch has been sent.
	errNoWork = errors.New("mutator: wait called with nothing sent")
)
