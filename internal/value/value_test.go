package value_test

import (
	"bytes"
	"encoding/gob"
	"testing"
	"time"

	"github.com/readysetio/flowcore/internal/value"
	"github.com/stretchr/testify/require"
)

func TestValueEquality(t *testing.T) {
	require.Equal(t, value.Int(42), value.Int(42))
	require.NotEqual(t, value.Int(42), value.Int(43))
	require.NotEqual(t, value.Int(0), value.None)
}

func TestValueAsMapKey(t *testing.T) {
	m := map[value.Value]string{
		value.Int(1):    "one",
		value.Text("x"): "ex",
	}
	require.Equal(t, "one", m[value.Int(1)])
	require.Equal(t, "ex", m[value.Text("x")])
	_, ok := m[value.Int(2)]
	require.False(t, ok)
}

func TestValueString(t *testing.T) {
	require.Equal(t, "NULL", value.None.String())
	require.Equal(t, "42", value.Int(42).String())
	require.Equal(t, "abc", value.Text("abc").String())
}

func TestValueBytesDistinctAcrossKinds(t *testing.T) {
	require.NotEqual(t, value.Int(1).Bytes(), value.Text("1").Bytes())
}

func TestRowClone(t *testing.T) {
	r := value.Row{value.Int(1), value.Text("a")}
	c := r.Clone()
	c[0] = value.Int(99)
	require.Equal(t, value.Int(1), r[0])
	require.Equal(t, value.Int(99), c[0])
}

func TestBytesKind(t *testing.T) {
	v := value.Bytes([]byte{0x01, 0x02, 0xff})
	require.Equal(t, value.KindBytes, v.Kind())
	require.Equal(t, []byte{0x01, 0x02, 0xff}, v.Raw())
	require.Equal(t, "0102ff", v.String())
	require.NotEqual(t, value.Bytes([]byte("1")).Bytes(), value.Text("1").Bytes())
}

func TestTimestampKind(t *testing.T) {
	ts := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	v := value.Timestamp(ts)
	require.Equal(t, value.KindTimestamp, v.Kind())
	require.True(t, ts.Equal(v.AsTime()))
	require.Equal(t, ts.Format(time.RFC3339Nano), v.String())
}

func TestValueGobRoundTrip(t *testing.T) {
	in := []value.Value{
		value.None,
		value.Int(42),
		value.Float(3.5),
		value.Text("hello"),
		value.Bytes([]byte{0, 1, 2}),
		value.Timestamp(time.Unix(100, 200).UTC()),
	}

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(in))

	var out []value.Value
	require.NoError(t, gob.NewDecoder(&buf).Decode(&out))
	require.Equal(t, in, out)
}

func TestRowGobRoundTrip(t *testing.T) {
	in := value.Row{value.Int(7), value.Text("x"), value.Bytes([]byte("y"))}

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(in))

	var out value.Row
	require.NoError(t, gob.NewDecoder(&buf).Decode(&out))
	require.Equal(t, in, out)
}
