package mutator

import (
	"net"

	"github.com/readysetio/flowcore/internal/wire"
)

// fakeSender is an in-memory transport.Sender: Sent records every Input
// it was handed, and ReadAck replies with a canned Ack matching whatever
// ID was last sent to it, successful unless failAck is set.
type fakeSender struct {
	Sent    []wire.Input
	failAck bool
}

func (f *fakeSender) SendInput(in wire.Input) error {
	f.Sent = append(f.Sent, in)
	return nil
}

func (f *fakeSender) ReadAck() (wire.Ack, error) {
	last := f.Sent[len(f.Sent)-1]
	return wire.Ack{ID: last.ID, Err: f.failAck}, nil
}

func (f *fakeSender) LocalAddr() net.Addr { return &net.TCPAddr{Port: 4242} }

func (f *fakeSender) Close() error { return nil }
