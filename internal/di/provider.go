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

// Package di wires together the process-wide dependencies a
// flowcore client needs: the shared shard-connection cache every
// MutatorBuilder in the process should use, and a Factory that builds
// Mutators against it.
package di

import (
	"context"

	"github.com/google/wire"
	"github.com/readysetio/flowcore/internal/mutator"
	"github.com/readysetio/flowcore/internal/transport"
)

// Set is used by Wire.
var Set = wire.NewSet(
	ProvideRPCCache,
	ProvideFactory,
)

// ProvideRPCCache is called by Wire to construct the process-wide
// shard-connection cache. Every MutatorBuilder.Build call in a process
// should share one of these, so that two tables on the same domain
// reuse the same underlying shard connections.
func ProvideRPCCache() *mutator.RPCCache {
	return mutator.NewRPCCache()
}

// Factory builds Mutators against a shared RPCCache and transport
// configuration, so callers don't need to thread either through every
// call site that constructs one.
type Factory struct {
	cfg   transport.Config
	cache *mutator.RPCCache
}

// ProvideFactory is called by Wire.
func ProvideFactory(cfg transport.Config, cache *mutator.RPCCache) *Factory {
	return &Factory{cfg: cfg, cache: cache}
}

// Build constructs a Mutator from b, sharing this Factory's transport
// configuration and shard-connection cache.
func (f *Factory) Build(ctx context.Context, b *mutator.MutatorBuilder) (*mutator.Mutator, error) {
	return b.Build(ctx, f.cfg, f.cache)
}
