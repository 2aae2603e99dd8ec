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
	"context"

	"github.com/readysetio/flowcore/internal/transport"
	"github.com/readysetio/flowcore/internal/value"
	"github.com/readysetio/flowcore/internal/wire"
)

// MutatorBuilder collects everything needed to construct a Mutator for
// one base table: its shard addresses, key and column shape, and the
// columns its schema has dropped since the table was first created.
type MutatorBuilder struct {
	// ShardAddrs is the ordered list of this domain's shard addresses.
	// A single-element list means the table is unsharded.
	ShardAddrs []string

	// Addr is the target operator's local dataflow-graph node address.
	// It is stamped into every Input envelope's Link as both the source
	// and destination node, the way a Mutator's own node stands in for
	// both ends of the client-to-domain hop.
	Addr uint64

	// TableName, Columns and Schema are carried through to the built
	// Mutator's accessors; a schema-change compensator reads them back
	// to decide how to widen a row.
	TableName string
	Columns   []string
	Schema    []string

	// KeyIsPrimary reports whether Key identifies the table's primary
	// key. Update and InsertOrUpdate require this: without a primary
	// key, there is no way to resolve "the" row a partial update
	// applies to.
	KeyIsPrimary bool
	Key          []int

	// ShardCol, when HasShardCol is true, is the absolute column index
	// operations are sharded by. It is always a single column: a
	// composite sharding key is rejected in Build.
	ShardCol    int
	HasShardCol bool

	Transactional bool

	// Dropped maps an absolute column index in the table's original
	// (pre-drop) schema to the default value that index should carry
	// when a row is widened back out to that original width.
	Dropped map[int]value.Value

	// LocalPort optionally fixes the local port every shard connection
	// for this table's domain is dialed from.
	LocalPort int

	// ChaosProb, if positive, wraps every shard connection in
	// transport.WithChaos; it exists for tests exercising failure
	// handling and should be left zero in production configuration.
	ChaosProb float32
}

// Build validates the builder's configuration and returns a Mutator,
// sharing shard connections with any other Mutator built against the
// same ShardAddrs via cache.
func (b *MutatorBuilder) Build(ctx context.Context, cfg transport.Config, cache *RPCCache) (*Mutator, error) {
	if len(b.Key) > 1 && len(b.ShardAddrs) > 1 {
		return nil, ErrCompositeShardKey
	}

	cfg.LocalPort = b.LocalPort
	dih, err := cache.GetOrCreate(ctx, cfg, b.ShardAddrs, b.ChaosProb)
	if err != nil {
		return nil, err
	}

	finalWidth := len(b.Columns)

	return &Mutator{
		dih:           dih,
		tableName:     b.TableName,
		columns:       append([]string(nil), b.Columns...),
		schema:        append([]string(nil), b.Schema...),
		keyIsPrimary:  b.KeyIsPrimary,
		key:           append([]int(nil), b.Key...),
		shardCol:      b.ShardCol,
		hasShardCol:   b.HasShardCol,
		transactional: b.Transactional,
		dropped:       b.Dropped,
		finalWidth:    finalWidth,
		link:          wire.Link{Src: b.Addr, Dst: b.Addr},
	}, nil
}
