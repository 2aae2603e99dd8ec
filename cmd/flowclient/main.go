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

// Command flowclient is a small example of constructing a Mutator and
// writing a row through it, wired together the way a long-lived
// process would: one di.Service for the process, one MutatorBuilder
// per table.
package main

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/readysetio/flowcore/internal/di"
	"github.com/readysetio/flowcore/internal/mutator"
	"github.com/readysetio/flowcore/internal/transport"
	"github.com/readysetio/flowcore/internal/value"
)

func main() {
	var cfg transport.Config
	cfg.Bind(pflag.CommandLine)
	shardAddrs := pflag.StringSlice("shard", nil, "domain shard address (repeatable)")
	tableName := pflag.String("table", "widgets", "table name to write to")
	addr := pflag.Uint64("addr", 0, "this table's dataflow node address")
	pflag.Parse()

	if err := cfg.Preflight(); err != nil {
		log.WithError(err).Fatal("invalid transport configuration")
	}
	if len(*shardAddrs) == 0 {
		log.Fatal("at least one --shard address is required")
	}

	ctx := context.Background()
	svc, err := di.NewService(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to build service")
	}

	builder := &mutator.MutatorBuilder{
		ShardAddrs:   *shardAddrs,
		Addr:         *addr,
		TableName:    *tableName,
		Columns:      []string{"id", "name"},
		Schema:       []string{"int", "text"},
		Key:          []int{0},
		KeyIsPrimary: true,
		ShardCol:     0,
		HasShardCol:  len(*shardAddrs) > 1,
	}

	m, err := svc.Factory.Build(ctx, builder)
	if err != nil {
		log.WithError(err).Fatal("failed to build mutator")
	}

	row := value.Row{value.Int(1), value.Text("example")}
	if err := m.Put(row); err != nil {
		log.WithError(err).Fatal("put failed")
	}

	log.WithFields(log.Fields{
		"table": m.TableName(),
		"row":   row,
	}).Info("wrote row")
	os.Exit(0)
}
