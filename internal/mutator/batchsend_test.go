package mutator

import (
	"testing"

	"github.com/readysetio/flowcore/internal/transport"
	"github.com/readysetio/flowcore/internal/value"
	"github.com/readysetio/flowcore/internal/wire"
	"github.com/stretchr/testify/require"
)

func newHandleWithFakes(n int) (*DomainInputHandle, []*fakeSender) {
	senders := make([]transport.Sender, n)
	fakes := make([]*fakeSender, n)
	for i := range senders {
		fs := &fakeSender{}
		fakes[i] = fs
		senders[i] = fs
	}
	return newDomainInputHandleWithSenders(senders), fakes
}

func TestEnqueueUnshardedGoesToShardZero(t *testing.T) {
	dih, fakes := newHandleWithFakes(3)
	bsh := NewBatchSendHandle(dih, wire.Link{}, "t")
	bsh.Enqueue(wire.Insert(value.Row{value.Int(1)}), nil)
	require.NoError(t, bsh.Send())

	require.Len(t, fakes[0].Sent, 1)
	require.Empty(t, fakes[1].Sent)
	require.Empty(t, fakes[2].Sent)
}

func TestEnqueueShardedDistributesByValue(t *testing.T) {
	dih, fakes := newHandleWithFakes(4)
	bsh := NewBatchSendHandle(dih, wire.Link{}, "t")
	for i := int64(0); i < 20; i++ {
		v := value.Int(i)
		bsh.Enqueue(wire.Insert(value.Row{v}), &v)
	}
	require.NoError(t, bsh.Send())

	total := 0
	for _, f := range fakes {
		if len(f.Sent) == 0 {
			continue
		}
		total += len(f.Sent[0].Data)
	}
	require.Equal(t, 20, total)
}

func TestWaitWithNothingSentReturnsError(t *testing.T) {
	dih, _ := newHandleWithFakes(1)
	bsh := NewBatchSendHandle(dih, wire.Link{}, "t")
	_, err := bsh.Wait()
	require.ErrorIs(t, err, errNoWork)
}

func TestSendThenWaitReturnsLastAck(t *testing.T) {
	dih, _ := newHandleWithFakes(1)
	bsh := NewBatchSendHandle(dih, wire.Link{}, "t")
	bsh.Enqueue(wire.Insert(value.Row{value.Int(1)}), nil)
	require.NoError(t, bsh.Send())

	id, err := bsh.Wait()
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
}

func TestWaitCollapsesMultiShardAcksToLast(t *testing.T) {
	dih, _ := newHandleWithFakes(2)
	bsh := NewBatchSendHandle(dih, wire.Link{}, "t")
	// Bypass shard.By's hash-dependent routing and place one operation
	// on each shard directly, so this test doesn't depend on which
	// shard a given value happens to hash to.
	bsh.buf[0] = append(bsh.buf[0], wire.Insert(value.Row{value.Int(1)}))
	bsh.buf[1] = append(bsh.buf[1], wire.Insert(value.Row{value.Int(2)}))
	require.NoError(t, bsh.Send())

	// Wait reads shard acks in index order and returns whichever was
	// read last — known, documented ack-collapse behavior, not
	// per-shard confirmation.
	id, err := bsh.Wait()
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
}
