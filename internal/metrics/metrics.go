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

// Package metrics declares the Prometheus collectors shared by the
// mutator and state packages.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// TableLabels is the label set every per-table collector below uses.
var TableLabels = []string{"table"}

// LatencyBuckets is shared across every duration histogram in this
// package, so dashboards built against one apply uniformly to all.
var LatencyBuckets = []float64{
	.001, .002, .005, .01, .02, .05, .1, .2, .5, 1, 2, 5, 10, 20, 50,
}

var (
	// RowsSent counts rows handed to BatchSendHandle.Enqueue, labeled by
	// table.
	RowsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mutator_rows_sent_total",
		Help: "the number of rows enqueued for sending to a shard",
	}, TableLabels)

	// AcksReceived counts Ack frames read back by BatchSendHandle.Wait,
	// labeled by table.
	AcksReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mutator_acks_received_total",
		Help: "the number of acknowledgements read back from shards",
	}, TableLabels)

	// ShardSendErrors counts failed writes to a shard connection,
	// labeled by table.
	ShardSendErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mutator_shard_send_errors_total",
		Help: "the number of errors encountered while sending to a shard",
	}, TableLabels)

	// WaitDurations measures how long BatchSendHandle.Wait blocked
	// reading acks back, labeled by table.
	WaitDurations = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mutator_wait_duration_seconds",
		Help:    "the length of time spent waiting for shard acknowledgements",
		Buckets: LatencyBuckets,
	}, TableLabels)

	// StateRows tracks the current row count of a table's materialized
	// state, labeled by table.
	StateRows = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "state_rows",
		Help: "the number of rows currently held in a table's materialized state",
	}, TableLabels)

	// StateHoles counts lookups against a partial index that resolved
	// to a hole, labeled by table.
	StateHoles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "state_holes_total",
		Help: "the number of lookups that resolved to a hole in a partial index",
	}, TableLabels)
)
