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

package transport

import (
	"context"
	"net"

	log "github.com/sirupsen/logrus"

	"github.com/pkg/errors"
	"github.com/readysetio/flowcore/internal/wire"
)

// Sender is a framed connection to a single shard: it can send an Input
// envelope and read back the Ack frames the shard writes in response.
// Implementations are not expected to be safe for concurrent use from
// more than one goroutine at a time, matching the synchronous,
// single-threaded model the rest of the write path is built around.
type Sender interface {
	SendInput(in wire.Input) error
	ReadAck() (wire.Ack, error)
	LocalAddr() net.Addr
	Close() error
}

// Conn is a Sender backed by a real TCP connection.
type Conn struct {
	nc net.Conn
	fw *wire.FrameWriter
	fr *wire.FrameReader
}

var _ Sender = (*Conn)(nil)

// SendInput writes in as a single framed message.
func (c *Conn) SendInput(in wire.Input) error {
	if err := c.fw.WriteInput(in); err != nil {
		return errors.Wrapf(err, "sending input to %s", c.nc.RemoteAddr())
	}
	return nil
}

// ReadAck blocks until the shard has written back one Ack frame.
func (c *Conn) ReadAck() (wire.Ack, error) {
	ack, err := c.fr.ReadAck()
	if err != nil {
		return wire.Ack{}, errors.Wrapf(err, "reading ack from %s", c.nc.RemoteAddr())
	}
	return ack, nil
}

// LocalAddr returns the local address this connection is bound to, so
// a DomainInputHandle can advertise a stable return address.
func (c *Conn) LocalAddr() net.Addr { return c.nc.LocalAddr() }

// Close closes the underlying connection.
func (c *Conn) Close() error { return c.nc.Close() }

// DomainConnectionBuilder dials one shard connection at a time,
// optionally fixing the local port so every shard connection for a
// given Mutator shares an advertised return address.
type DomainConnectionBuilder struct {
	cfg  Config
	addr string
	port int
}

// ForMutator starts building a connection to a shard listening at addr.
func ForMutator(cfg Config, addr string) *DomainConnectionBuilder {
	return &DomainConnectionBuilder{cfg: cfg, addr: addr, port: cfg.LocalPort}
}

// MaybeOnPort overrides the local port to dial from, if port is
// non-zero. This mirrors the write path's "optional local port" knob:
// most callers let the kernel choose, but a long-lived Mutator wants a
// stable, reusable local port across shard reconnects.
func (b *DomainConnectionBuilder) MaybeOnPort(port int) *DomainConnectionBuilder {
	if port != 0 {
		b.port = port
	}
	return b
}

// Build dials the shard and returns a framed Sender.
func (b *DomainConnectionBuilder) Build(ctx context.Context) (Sender, error) {
	keepAlive := b.cfg.KeepAlive
	if keepAlive == 0 {
		// net.Dialer treats zero as "use the default interval" and a
		// negative value as "disabled".
		keepAlive = -1
	}
	dialer := &net.Dialer{
		Timeout:   b.cfg.DialTimeout,
		KeepAlive: keepAlive,
	}
	if b.port != 0 {
		dialer.LocalAddr = &net.TCPAddr{Port: b.port}
	}
	nc, err := dialer.DialContext(ctx, "tcp", b.addr)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing shard at %s", b.addr)
	}
	log.WithFields(log.Fields{
		"remote": b.addr,
		"local":  nc.LocalAddr(),
	}).Debug("transport: dialed shard connection")
	return &Conn{
		nc: nc,
		fw: wire.NewFrameWriter(nc),
		fr: wire.NewFrameReader(nc),
	}, nil
}
