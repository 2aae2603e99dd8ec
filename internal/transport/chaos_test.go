package transport_test

import (
	"testing"

	"github.com/readysetio/flowcore/internal/transport"
	"github.com/readysetio/flowcore/internal/wire"
	"github.com/stretchr/testify/require"
)

func TestWithChaosZeroProbReturnsDelegateUnwrapped(t *testing.T) {
	fs := newFakeSender(wire.Ack{ID: 1})
	require.Same(t, transport.Sender(fs), transport.WithChaos(fs, 0))
}

func TestWithChaosAlwaysFails(t *testing.T) {
	fs := newFakeSender(wire.Ack{ID: 1})
	s := transport.WithChaos(fs, 1)

	err := s.SendInput(wire.Input{ID: 1})
	require.ErrorIs(t, err, transport.ErrChaos)

	_, err = s.ReadAck()
	require.ErrorIs(t, err, transport.ErrChaos)
}

func TestWithChaosZeroProbPassesThrough(t *testing.T) {
	fs := newFakeSender(wire.Ack{ID: 7})
	plain := transport.WithChaos(fs, 0)
	require.NoError(t, plain.SendInput(wire.Input{ID: 1}))
	ack, err := plain.ReadAck()
	require.NoError(t, err)
	require.Equal(t, int64(7), ack.ID)
}
