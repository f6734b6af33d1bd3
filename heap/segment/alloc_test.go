package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/classify"
	"github.com/joshuapare/heapkit/internal/diag"
	"github.com/joshuapare/heapkit/internal/format"
)

type triple struct {
	start, end int
	kind       Kind
}

func triples(segs []Segment) []triple {
	out := make([]triple, len(segs))
	for i, s := range segs {
		out[i] = triple{s.Start, s.End, s.Kind}
	}
	return out
}

func requireTiles(t *testing.T, segs []Segment, from, to int) {
	t.Helper()
	cursor := from
	for i, s := range segs {
		require.Equal(t, cursor, s.Start, "segment %d %v leaves a gap or overlaps", i, s)
		require.LessOrEqual(t, s.Start, s.End)
		cursor = s.End
	}
	require.Equal(t, to, cursor)
}

func TestAllocationsScenario(t *testing.T) {
	l := format.DefaultLayout()
	image := make([]byte, l.DataEnd())
	copy(image[6144:], "hello")

	segs := Allocations([]classify.Class{classify.Alloc(6144, 5, 16)}, l, image, nil)
	require.Equal(t, []triple{
		{6144, 6149, KindAlloc},
		{6149, 6160, KindSlack},
		{6160, 38912, KindUnknown},
	}, triples(segs))

	assert.Equal(t, "hello", string(segs[0].Text))
	assert.Equal(t, 0, segs[0].Slot)
	assert.Equal(t, 0, segs[1].Slot)
	assert.Equal(t, NoSlot, segs[2].Slot)
	assert.Equal(t, "(6144, 6149, alloc)", segs[0].String())
}

func TestAllocationsRoundTrip(t *testing.T) {
	l := format.DefaultLayout()
	image := make([]byte, 8192)

	classes := []classify.Class{
		classify.Alloc(7000, 32, 32),
		classify.Freed(0, 6144, 64),
		classify.Alloc(6400, 3, 8),
		classify.Alloc(6208, 0, 16),
		classify.Freed(0, 8128, 128), // runs past the 8192-byte image
	}

	c := diag.NewCollector()
	segs := Allocations(classes, l, image, c)
	requireTiles(t, segs, l.DataBase(), len(image))

	require.Equal(t, []triple{
		{6144, 6208, KindFreed},
		{6208, 6208, KindAlloc},
		{6208, 6224, KindSlack},
		{6224, 6400, KindUnknown},
		{6400, 6403, KindAlloc},
		{6403, 6408, KindSlack},
		{6408, 7000, KindUnknown},
		{7000, 7032, KindAlloc},
		{7032, 8128, KindUnknown},
		{8128, 8192, KindFreed},
	}, triples(segs))

	last := segs[len(segs)-1]
	assert.True(t, last.Truncated)
	assert.Equal(t, 8256, last.NominalEnd)
	assert.Len(t, last.Text, 64)

	findings := c.Diagnostics()
	require.Len(t, findings, 1)
	assert.Equal(t, diag.CodeFreedPastImageEnd, findings[0].Code)
	assert.Equal(t, diag.SevInfo, findings[0].Severity)
	assert.Equal(t, 4, *findings[0].Context.Slot)
}

func TestAllocationsFreedBeyondImage(t *testing.T) {
	l := format.DefaultLayout()
	image := make([]byte, 6200)

	c := diag.NewCollector()
	segs := Allocations([]classify.Class{classify.Freed(0, 6400, 64)}, l, image, c)
	require.Equal(t, []triple{{6144, 6200, KindUnknown}}, triples(segs))

	findings := c.Diagnostics()
	require.Len(t, findings, 1)
	assert.Equal(t, diag.CodeFreedPastImageEnd, findings[0].Code)
	assert.Contains(t, findings[0].Issue, "dropped")
}

func TestAllocationsOverlapIsReported(t *testing.T) {
	l := format.DefaultLayout()
	image := make([]byte, 6400)

	classes := []classify.Class{
		classify.Alloc(6144, 16, 16),
		classify.Freed(0, 6152, 8),
	}
	c := diag.NewCollector()
	segs := Allocations(classes, l, image, c)

	require.Equal(t, []triple{
		{6144, 6160, KindAlloc},
		{6152, 6160, KindFreed},
		{6160, 6400, KindUnknown},
	}, triples(segs))
	assert.False(t, segs[0].Overlaps)
	assert.True(t, segs[1].Overlaps)

	findings := c.Diagnostics()
	require.Len(t, findings, 1)
	assert.Equal(t, diag.CodeOverlappingAllocations, findings[0].Code)
	assert.Equal(t, diag.SevError, findings[0].Severity)
	assert.Equal(t, 6152, findings[0].Offset)
	assert.Equal(t, 1, *findings[0].Context.Slot)
}

func TestAllocationsNoBlocks(t *testing.T) {
	l := format.DefaultLayout()
	image := make([]byte, l.DataEnd())
	segs := Allocations(nil, l, image, nil)
	require.Equal(t, []triple{{6144, 38912, KindUnknown}}, triples(segs))

	// An image holding only the header region leaves nothing to tile.
	require.Empty(t, Allocations(nil, l, make([]byte, l.RegionSize), nil))
}

func TestKindString(t *testing.T) {
	for k, want := range map[Kind]string{
		KindAlloc: "alloc", KindSlack: "slack", KindFreed: "freed", KindUnknown: "unknown", Kind(7): "Kind(7)",
	} {
		assert.Equal(t, want, k.String())
	}
}
