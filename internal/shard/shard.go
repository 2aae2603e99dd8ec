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

// Package shard implements the stable hash-based partitioning used to
// route a row operation to one of a domain's shards by its sharding
// column value.
package shard

import (
	"github.com/cespare/xxhash/v2"
	"github.com/readysetio/flowcore/internal/value"
)

// By hashes v's canonical byte encoding and reduces it modulo n, the
// shard count. n must be positive; By(v, 1) always returns 0.
func By(v value.Value, n int) int {
	if n <= 1 {
		return 0
	}
	h := xxhash.Sum64(v.Bytes())
	return int(h % uint64(n))
}

// Row hashes the sharding-key columns of a row, identified by their
// column indices, the same way a multi-column MutatorBuilder key would
// be hashed were composite sharding keys supported. Only len(cols) == 1
// is valid at present; composite keys are rejected earlier, at
// MutatorBuilder.Build (see internal/mutator).
func Row(row value.Row, cols []int, n int) int {
	return By(row[cols[0]], n)
}
