package transport_test

import (
	"net"

	"github.com/readysetio/flowcore/internal/wire"
)

// fakeSender is an in-memory Sender used by this package's tests,
// avoiding a real TCP listener.
type fakeSender struct {
	closed  bool
	sent    []wire.Input
	acks    []wire.Ack
	nextAck int
	addr    net.Addr
}

func newFakeSender(acks ...wire.Ack) *fakeSender {
	return &fakeSender{acks: acks, addr: &net.TCPAddr{Port: 9999}}
}

func (f *fakeSender) SendInput(in wire.Input) error {
	f.sent = append(f.sent, in)
	return nil
}

func (f *fakeSender) ReadAck() (wire.Ack, error) {
	if f.nextAck >= len(f.acks) {
		return wire.Ack{}, net.ErrClosed
	}
	ack := f.acks[f.nextAck]
	f.nextAck++
	return ack, nil
}

func (f *fakeSender) LocalAddr() net.Addr { return f.addr }

func (f *fakeSender) Close() error {
	f.closed = true
	return nil
}
