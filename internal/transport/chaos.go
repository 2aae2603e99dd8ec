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
	"math/rand"
	"net"

	"github.com/pkg/errors"
	"github.com/readysetio/flowcore/internal/wire"
)

// ErrChaos is the error injected by WithChaos.
var ErrChaos = errors.New("chaos")

// WithChaos returns a Sender that randomly fails with probability prob,
// useful for exercising a Mutator's error-propagation paths
// without a real flaky shard. delegate is returned unwrapped if prob is
// less than or equal to zero.
func WithChaos(delegate Sender, prob float32) Sender {
	if prob <= 0 {
		return delegate
	}
	return &chaosSender{delegate: delegate, prob: prob}
}

// chaosSender does not embed Sender so that adding a method to the
// interface breaks this file's compile instead of silently forwarding.
type chaosSender struct {
	delegate Sender
	prob     float32
}

var _ Sender = (*chaosSender)(nil)

func (c *chaosSender) SendInput(in wire.Input) error {
	if rand.Float32() < c.prob {
		return doChaos("SendInput")
	}
	return c.delegate.SendInput(in)
}

func (c *chaosSender) ReadAck() (wire.Ack, error) {
	if rand.Float32() < c.prob {
		return wire.Ack{}, doChaos("ReadAck")
	}
	return c.delegate.ReadAck()
}

func (c *chaosSender) LocalAddr() net.Addr { return c.delegate.LocalAddr() }

func (c *chaosSender) Close() error {
	if rand.Float32() < c.prob {
		return doChaos("Close")
	}
	return c.delegate.Close()
}

func doChaos(msg string) error {
	return errors.WithMessage(ErrChaos, msg)
}
