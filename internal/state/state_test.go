package state

import (
	"testing"

	"github.com/readysetio/flowcore/internal/value"
	"github.com/stretchr/testify/require"
)

func row(vals ...int64) value.Row {
	r := make(value.Row, len(vals))
	for i, v := range vals {
		r[i] = value.Int(v)
	}
	return r
}

func TestAddKeyAndInsertUntagged(t *testing.T) {
	s := New("t")
	s.AddKey([]int{0}, nil)

	require.True(t, s.Insert(row(1, 100), false, 0))
	require.Equal(t, 1, s.Len())

	res := s.Lookup([]int{0}, row(1))
	require.False(t, res.Missing)
	require.Len(t, res.Rows, 1)
	require.Equal(t, row(1, 100), res.Rows[0])
}

func TestLookupUnknownKeyOnFullIndexIsEmptyNotMissing(t *testing.T) {
	s := New("t")
	s.AddKey([]int{0}, nil)
	s.Insert(row(1, 100), false, 0)

	res := s.Lookup([]int{0}, row(2))
	require.False(t, res.Missing)
	require.Empty(t, res.Rows)
}

func TestLookupUnknownKeyOnPartialIndexIsMissing(t *testing.T) {
	s := New("t")
	s.AddKey([]int{0}, []Tag{1})

	res := s.Lookup([]int{0}, row(2))
	require.True(t, res.Missing)
	require.Nil(t, res.Rows)
}

func TestLookupNoSuchIndexPanics(t *testing.T) {
	s := New("t")
	require.Panics(t, func() { s.Lookup([]int{0}, row(1)) })
}

func TestMarkFilledNoSuchIndexPanics(t *testing.T) {
	s := New("t")
	require.Panics(t, func() { s.MarkFilled(1, row(5)) })
}

func TestMarkHoleNoSuchIndexPanics(t *testing.T) {
	s := New("t")
	require.Panics(t, func() { s.MarkHole(1, row(5)) })
}

func TestMarkFilledAllowsLookupToSeeEmptyBucket(t *testing.T) {
	s := New("t")
	s.AddKey([]int{0}, []Tag{1})

	s.MarkFilled(1, row(5))
	res := s.Lookup([]int{0}, row(5))
	require.False(t, res.Missing)
	require.Empty(t, res.Rows)
}

func TestMarkFilledTwicePanics(t *testing.T) {
	s := New("t")
	s.AddKey([]int{0}, []Tag{1})
	s.MarkFilled(1, row(5))
	require.Panics(t, func() { s.MarkFilled(1, row(5)) })
}

func TestMarkHoleReturnsToMissing(t *testing.T) {
	s := New("t")
	s.AddKey([]int{0}, []Tag{1})
	s.MarkFilled(1, row(5))
	s.MarkHole(1, row(5))

	res := s.Lookup([]int{0}, row(5))
	require.True(t, res.Missing)
}

func TestTaggedInsertIntoUnknownTagIsSilentNoOp(t *testing.T) {
	s := New("t")
	s.AddKey([]int{0}, nil)

	ok := s.Insert(row(1, 1), true, 999)
	require.True(t, ok)
	require.Equal(t, 0, s.Len())
}

func TestTaggedInsertDoesNotIncrementRows(t *testing.T) {
	s := New("t")
	s.AddKey([]int{0}, []Tag{1})
	s.MarkFilled(1, row(5))

	ok := s.Insert(row(5, 100), true, 1)
	require.True(t, ok)
	require.Equal(t, 0, s.Len())

	res := s.Lookup([]int{0}, row(5))
	require.Len(t, res.Rows, 1)
}

func TestTaggedInsertIntoHoleIsRejected(t *testing.T) {
	s := New("t")
	s.AddKey([]int{0}, []Tag{1})

	ok := s.Insert(row(5, 100), true, 1)
	require.False(t, ok)

	res := s.Lookup([]int{0}, row(5))
	require.True(t, res.Missing)
}

func TestRemoveDecrementsRowsAndClearsIndex(t *testing.T) {
	s := New("t")
	s.AddKey([]int{0}, nil)
	s.Insert(row(1, 100), false, 0)

	require.True(t, s.Remove(row(1, 100)))
	require.Equal(t, 0, s.Len())

	res := s.Lookup([]int{0}, row(1))
	require.Empty(t, res.Rows)
}

func TestRemoveUnknownRowReturnsFalse(t *testing.T) {
	s := New("t")
	s.AddKey([]int{0}, nil)
	require.False(t, s.Remove(row(1, 100)))
}

func TestAddSecondIndexBackfillsFromFirst(t *testing.T) {
	s := New("t")
	s.AddKey([]int{0}, nil)
	s.Insert(row(1, 100), false, 0)
	s.Insert(row(2, 200), false, 0)

	s.AddKey([]int{1}, nil)

	res := s.Lookup([]int{1}, row(100))
	require.Len(t, res.Rows, 1)
	require.Equal(t, row(1, 100), res.Rows[0])
}

func TestInsertIntoSecondIndexAfterBackfill(t *testing.T) {
	s := New("t")
	s.AddKey([]int{0}, nil)
	s.Insert(row(1, 100), false, 0)
	s.AddKey([]int{1}, nil)

	s.Insert(row(2, 200), false, 0)

	res := s.Lookup([]int{1}, row(200))
	require.Len(t, res.Rows, 1)
}

func TestClonedRecords(t *testing.T) {
	s := New("t")
	s.AddKey([]int{0}, nil)
	s.Insert(row(1, 100), false, 0)
	s.Insert(row(2, 200), false, 0)

	recs := s.ClonedRecords()
	require.Len(t, recs, 2)
}

func TestIsPartialAndIsUseful(t *testing.T) {
	s := New("t")
	require.False(t, s.IsUseful())
	s.AddKey([]int{0}, []Tag{1})
	require.True(t, s.IsUseful())
	require.True(t, s.IsPartial())
}

func TestNKeysCountsFirstIndexKeysNotIndexCount(t *testing.T) {
	s := New("t")
	s.AddKey([]int{0}, nil)
	s.Insert(row(1, 100), false, 0)
	s.Insert(row(2, 200), false, 0)
	s.Insert(row(3, 300), false, 0)
	require.Equal(t, 3, s.NKeys())

	// Registering a second (backfilled) index must not change NKeys,
	// which always reads the first index's key count.
	s.AddKey([]int{1}, nil)
	require.Equal(t, 3, s.NKeys())
}

func TestCloseKeepsOnlyLastIndex(t *testing.T) {
	s := New("t")
	s.AddKey([]int{0}, nil)
	s.AddKey([]int{1}, nil)
	s.Insert(row(1, 100), false, 0)

	s.Close()
	require.Equal(t, [][]int{{1}}, s.Keys())
	require.Equal(t, 0, s.NKeys())
	require.True(t, s.IsEmpty())
}
