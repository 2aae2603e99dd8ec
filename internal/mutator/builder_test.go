package mutator

import (
	"context"
	"strings"
	"testing"

	"github.com/readysetio/flowcore/internal/transport"
	"github.com/readysetio/flowcore/internal/wire"
	"github.com/stretchr/testify/require"
)

func TestBuildRejectsCompositeShardKey(t *testing.T) {
	b := &MutatorBuilder{
		ShardAddrs: []string{"127.0.0.1:1", "127.0.0.1:2"},
		Key:        []int{0, 1},
		Columns:    []string{"a", "b"},
	}
	_, err := b.Build(context.Background(), transport.Config{}, NewRPCCache())
	require.ErrorIs(t, err, ErrCompositeShardKey)
}

func TestBuildAllowsCompositeKeyOnSingleShard(t *testing.T) {
	b := &MutatorBuilder{
		ShardAddrs: []string{"127.0.0.1:1"},
		Key:        []int{0, 1},
		Columns:    []string{"a", "b"},
	}
	// Dialing a real address would block/fail in this test environment;
	// this only needs to exercise the composite-key guard, which must
	// pass before Build ever tries to dial.
	_, err := b.Build(context.Background(), transport.Config{DialTimeout: 1}, NewRPCCache())
	require.NotErrorIs(t, err, ErrCompositeShardKey)
}

func TestBuildStampsAddrIntoLink(t *testing.T) {
	b := &MutatorBuilder{
		ShardAddrs: []string{"unused"},
		Addr:       77,
		Columns:    []string{"a"},
		Key:        []int{0},
	}
	cache := NewRPCCache()
	cache.handles[strings.Join(b.ShardAddrs, ",")] = newDomainInputHandleWithSenders([]transport.Sender{&fakeSender{}})

	m, err := b.Build(context.Background(), transport.Config{}, cache)
	require.NoError(t, err)
	require.Equal(t, wire.Link{Src: 77, Dst: 77}, m.link)
}
