package mutator

import (
	"testing"

	"github.com/readysetio/flowcore/internal/value"
	"github.com/stretchr/testify/require"
)

func TestInjectDroppedColsNoDrops(t *testing.T) {
	row := value.Row{value.Int(1), value.Int(2)}
	out, err := injectDroppedCols(row, nil, 2)
	require.NoError(t, err)
	require.Equal(t, row, out)
}

func TestInjectDroppedColsSingleMiddleColumn(t *testing.T) {
	// original schema: [a, b, c]; b was dropped with default 0.
	row := value.Row{value.Int(1), value.Int(3)}
	dropped := map[int]value.Value{1: value.Int(0)}

	out, err := injectDroppedCols(row, dropped, 3)
	require.NoError(t, err)
	require.Equal(t, value.Row{value.Int(1), value.Int(0), value.Int(3)}, out)
}

func TestInjectDroppedColsLeadingAndTrailing(t *testing.T) {
	// original schema: [a, b, c, d]; a and d dropped.
	row := value.Row{value.Int(10), value.Int(20)}
	dropped := map[int]value.Value{0: value.None, 3: value.Text("default")}

	out, err := injectDroppedCols(row, dropped, 4)
	require.NoError(t, err)
	require.Equal(t, value.Row{value.None, value.Int(10), value.Int(20), value.Text("default")}, out)
}

func TestInjectDroppedColsMultipleAdjacent(t *testing.T) {
	row := value.Row{value.Int(1)}
	dropped := map[int]value.Value{1: value.Int(-1), 2: value.Int(-2)}

	out, err := injectDroppedCols(row, dropped, 3)
	require.NoError(t, err)
	require.Equal(t, value.Row{value.Int(1), value.Int(-1), value.Int(-2)}, out)
}

func TestInjectDroppedColsWrongWidth(t *testing.T) {
	row := value.Row{value.Int(1)}
	_, err := injectDroppedCols(row, nil, 3)
	require.ErrorIs(t, err, ErrWrongColumnCount)
}

func TestTouchesDroppedColumn(t *testing.T) {
	dropped := map[int]value.Value{2: value.None}
	require.True(t, touchesDroppedColumn([]int{0, 2}, dropped))
	require.False(t, touchesDroppedColumn([]int{0, 1}, dropped))
}
