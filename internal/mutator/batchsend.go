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
	log "github.com/sirupsen/logrus"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/readysetio/flowcore/internal/metrics"
	"github.com/readysetio/flowcore/internal/shard"
	"github.com/readysetio/flowcore/internal/value"
	"github.com/readysetio/flowcore/internal/wire"
)

// BatchSendHandle accumulates row operations per shard and ships them
// as a single Input per shard on Send. It holds no internal goroutine
// or background task: Enqueue, Send and Wait all run synchronously on
// the calling goroutine, so a caller fully controls when I/O happens.
type BatchSendHandle struct {
	dih   *DomainInputHandle
	link  wire.Link
	table string

	buf  [][]wire.BaseOperation
	sent []int64
	id   int64
}

// NewBatchSendHandle returns a handle that will fan operations out
// across dih's shards for the given dataflow link. table is used only
// to label metrics.
func NewBatchSendHandle(dih *DomainInputHandle, link wire.Link, table string) *BatchSendHandle {
	n := dih.NumShards()
	sent := make([]int64, n)
	for i := range sent {
		sent[i] = -1
	}
	return &BatchSendHandle{
		dih:   dih,
		link:  link,
		table: table,
		buf:   make([][]wire.BaseOperation, n),
		sent:  sent,
	}
}

// Enqueue buffers op for its destination shard. shardValue selects the
// shard via shard.By; a nil shardValue routes to shard 0, which is
// correct both for an unsharded (single-shard) domain and for any
// operation whose shard key this caller could not resolve (e.g. because
// it does not touch the sharding column).
func (b *BatchSendHandle) Enqueue(op wire.BaseOperation, shardValue *value.Value) {
	idx := 0
	if shardValue != nil {
		idx = shard.By(*shardValue, len(b.buf))
	}
	b.buf[idx] = append(b.buf[idx], op)
	metrics.RowsSent.WithLabelValues(b.table).Inc()
}

// Send flushes every shard's buffered operations as one Input each,
// assigning them all the same batch ID. Shards with nothing buffered
// are skipped entirely. On a send error to any shard, Send returns
// immediately; shards already sent to this call remain recorded as
// sent, so a subsequent Wait still reads back their acks.
func (b *BatchSendHandle) Send() error {
	b.id++
	id := b.id
	sentAny := false
	for shardIdx, ops := range b.buf {
		if len(ops) == 0 {
			continue
		}
		in := wire.Input{ID: id, Link: b.link, Data: ops}
		if err := b.dih.Sender(shardIdx).SendInput(in); err != nil {
			metrics.ShardSendErrors.WithLabelValues(b.table).Inc()
			return errors.Wrapf(err, "sending batch %d to shard %d", id, shardIdx)
		}
		b.sent[shardIdx] = id
		b.buf[shardIdx] = nil
		sentAny = true
	}
	if sentAny {
		log.WithFields(log.Fields{"table": b.table, "id": id}).Trace("mutator: batch sent")
	}
	return nil
}

// Wait blocks until every shard this handle sent a batch to has
// acknowledged it, then returns the ID of the last ack read.
//
// This collapses the result of a multi-shard send down to a single ID:
// if different shards are at different points in their own command
// streams, the ID returned here is only meaningful for whichever shard
// happened to be read last. Callers that need per-shard confirmation
// should not rely on the returned ID for anything beyond "some shard
// finished"; this mirrors a known limitation of the original protocol.
func (b *BatchSendHandle) Wait() (int64, error) {
	timer := prometheus.NewTimer(metrics.WaitDurations.WithLabelValues(b.table))
	defer timer.ObserveDuration()

	last := int64(-1)
	for shardIdx, sentID := range b.sent {
		if sentID < 0 {
			continue
		}
		ack, err := b.dih.Sender(shardIdx).ReadAck()
		if err != nil {
			return 0, errors.Wrapf(err, "reading ack for batch %d from shard %d", sentID, shardIdx)
		}
		metrics.AcksReceived.WithLabelValues(b.table).Inc()
		if ack.Err {
			return 0, errors.Wrapf(ErrTransactionFailed, "shard %d, batch %d", shardIdx, ack.ID)
		}
		last = ack.ID
		b.sent[shardIdx] = -1
	}
	if last < 0 {
		return 0, errNoWork
	}
	return last, nil
}
