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
	"net"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/readysetio/flowcore/internal/transport"
)

// DomainInputHandle owns one framed connection per shard of a domain.
// It is the thing MutatorBuilders for the same domain share, via
// RPCCache, so that two Mutators writing to the same table reuse the
// same set of shard connections instead of each dialing their own.
type DomainInputHandle struct {
	senders   []transport.Sender
	localAddr net.Addr
}

// NewDomainInputHandle dials one connection per address in addrs, in
// order. The first dial picks the local port (or uses cfg.LocalPort if
// set); every subsequent dial reuses whatever port the first connection
// bound to, so a peer can identify every shard connection from this
// handle as coming from the same client address. chaosProb, if
// positive, wraps every connection in transport.WithChaos.
func NewDomainInputHandle(ctx context.Context, cfg transport.Config, addrs []string, chaosProb float32) (*DomainInputHandle, error) {
	if len(addrs) == 0 {
		return nil, errors.New("mutator: domain input handle requires at least one shard address")
	}

	senders := make([]transport.Sender, len(addrs))
	port := cfg.LocalPort
	for i, addr := range addrs {
		s, err := transport.ForMutator(cfg, addr).MaybeOnPort(port).Build(ctx)
		if err != nil {
			for _, opened := range senders[:i] {
				_ = opened.Close()
			}
			return nil, errors.Wrapf(err, "dialing shard %d at %s", i, addr)
		}
		if chaosProb > 0 {
			s = transport.WithChaos(s, chaosProb)
		}
		senders[i] = s
		if port == 0 {
			if tcpAddr, ok := s.LocalAddr().(*net.TCPAddr); ok {
				port = tcpAddr.Port
			}
		}
	}

	return &DomainInputHandle{senders: senders, localAddr: senders[0].LocalAddr()}, nil
}

// newDomainInputHandleWithSenders builds a handle directly from
// already-constructed senders, bypassing dialing. Used by this
// package's tests to exercise Mutator/BatchSendHandle against an
// in-memory fake instead of a real TCP listener.
func newDomainInputHandleWithSenders(senders []transport.Sender) *DomainInputHandle {
	return &DomainInputHandle{senders: senders, localAddr: senders[0].LocalAddr()}
}

// NumShards reports how many shard connections this handle owns.
func (d *DomainInputHandle) NumShards() int { return len(d.senders) }

// LocalAddr returns the address every shard connection shares as its
// local endpoint.
func (d *DomainInputHandle) LocalAddr() net.Addr { return d.localAddr }

// Sender returns the connection for shard i.
func (d *DomainInputHandle) Sender(i int) transport.Sender { return d.senders[i] }

// Close closes every shard connection, returning the first error
// encountered, if any, after attempting to close them all.
func (d *DomainInputHandle) Close() error {
	var first error
	for _, s := range d.senders {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// RPCCache shares DomainInputHandles across MutatorBuilders that target
// the same ordered set of shard addresses, so a process only ever
// holds one connection per shard regardless of how many Mutators write
// to that table.
type RPCCache struct {
	mu      sync.Mutex
	handles map[string]*DomainInputHandle
}

// NewRPCCache returns an empty cache.
func NewRPCCache() *RPCCache {
	return &RPCCache{handles: make(map[string]*DomainInputHandle)}
}

// GetOrCreate returns the cached handle for addrs, dialing a new one
// under the cache's lock if none exists yet.
func (c *RPCCache) GetOrCreate(ctx context.Context, cfg transport.Config, addrs []string, chaosProb float32) (*DomainInputHandle, error) {
	key := strings.Join(addrs, ",")

	c.mu.Lock()
	defer c.mu.Unlock()

	if h, ok := c.handles[key]; ok {
		return h, nil
	}
	h, err := NewDomainInputHandle(ctx, cfg, addrs, chaosProb)
	if err != nil {
		return nil, err
	}
	c.handles[key] = h
	return h, nil
}
