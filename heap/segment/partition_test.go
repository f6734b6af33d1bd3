package segment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type span struct {
	start, end int
	fill       bool
}

func spanBounds(s span) (int, int) { return s.start, s.end }
func spanGap(start, end int) span  { return span{start: start, end: end, fill: true} }

func TestPartitionFillsGaps(t *testing.T) {
	items := []span{{start: 12, end: 15}, {start: 15, end: 20}}
	out, overlaps := Partition(items, 10, 30, spanBounds, spanGap)

	require.Empty(t, overlaps)
	require.Equal(t, []span{
		{start: 10, end: 12, fill: true},
		{start: 12, end: 15},
		{start: 15, end: 20},
		{start: 20, end: 30, fill: true},
	}, out)
}

func TestPartitionEmpty(t *testing.T) {
	out, overlaps := Partition[span](nil, 0, 8, spanBounds, spanGap)
	require.Empty(t, overlaps)
	require.Equal(t, []span{{start: 0, end: 8, fill: true}}, out)

	out, _ = Partition[span](nil, 8, 8, spanBounds, spanGap)
	require.Empty(t, out)
}

func TestPartitionOverlapKeepsCursorMonotonic(t *testing.T) {
	items := []span{{start: 0, end: 10}, {start: 4, end: 6}, {start: 8, end: 12}}
	out, overlaps := Partition(items, 0, 14, spanBounds, spanGap)

	require.Equal(t, []Overlap{{Index: 1, Cursor: 10}, {Index: 2, Cursor: 10}}, overlaps)
	require.Equal(t, []span{
		{start: 0, end: 10},
		{start: 4, end: 6},
		{start: 8, end: 12},
		{start: 12, end: 14, fill: true},
	}, out)
}

func TestPartitionZeroLengthItems(t *testing.T) {
	items := []span{{start: 2, end: 2}, {start: 2, end: 4}}
	out, overlaps := Partition(items, 0, 4, spanBounds, spanGap)
	require.Empty(t, overlaps)
	require.Equal(t, []span{
		{start: 0, end: 2, fill: true},
		{start: 2, end: 2},
		{start: 2, end: 4},
	}, out)
}

func TestStream(t *testing.T) {
	var seen []int
	err := Stream([]int{1, 2, 3}, SinkFunc[int](func(v int) error {
		seen = append(seen, v)
		return nil
	}))
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, seen)

	stop := errStop{}
	seen = nil
	err = Stream([]int{1, 2, 3}, SinkFunc[int](func(v int) error {
		seen = append(seen, v)
		if v == 2 {
			return stop
		}
		return nil
	}))
	require.ErrorIs(t, err, stop)
	require.Equal(t, []int{1, 2}, seen)
}

type errStop struct{}

func (errStop) Error() string { return "stop" }
