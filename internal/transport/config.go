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

// Package transport opens and frames the TCP connections a Mutator
// uses to talk to a domain's shards.
package transport

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// Config contains the user-visible configuration for dialing domain
// shards.
type Config struct {
	// LocalPort, if non-zero, fixes the local port every outbound shard
	// connection is bound to, rather than letting the kernel pick an
	// ephemeral one. This exists so a domain input handle's address is
	// stable and discoverable, matching the "optional local port"
	// knob the write path exposes.
	LocalPort int

	// DialTimeout bounds how long dialing a single shard may take.
	DialTimeout time.Duration

	// KeepAlive sets the TCP keepalive interval on shard connections;
	// zero disables keepalive probes.
	KeepAlive time.Duration
}

// Bind registers flags.
func (c *Config) Bind(flags *pflag.FlagSet) {
	flags.IntVar(
		&c.LocalPort,
		"mutatorLocalPort",
		0,
		"fix the local port used to dial domain shards; 0 picks an ephemeral port")
	flags.DurationVar(
		&c.DialTimeout,
		"mutatorDialTimeout",
		5*time.Second,
		"how long dialing a single shard connection may take")
	flags.DurationVar(
		&c.KeepAlive,
		"mutatorKeepAlive",
		30*time.Second,
		"TCP keepalive interval for shard connections; 0 disables keepalive")
}

// Preflight validates the configuration.
func (c *Config) Preflight() error {
	if c.LocalPort < 0 || c.LocalPort > 65535 {
		return errors.Errorf("mutatorLocalPort out of range: %d", c.LocalPort)
	}
	if c.DialTimeout <= 0 {
		return errors.New("mutatorDialTimeout must be positive")
	}
	return nil
}
