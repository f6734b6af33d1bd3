package heap_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/classify"
	"github.com/joshuapare/heapkit/heap/correlate"
	"github.com/joshuapare/heapkit/heap/freelist"
	"github.com/joshuapare/heapkit/heap/residual"
	"github.com/joshuapare/heapkit/heap/segment"
	"github.com/joshuapare/heapkit/internal/diag"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/testutil"
)

type triple struct {
	start, end int
	kind       segment.Kind
}

func triples(segs []segment.Segment) []triple {
	out := make([]triple, len(segs))
	for i, s := range segs {
		out[i] = triple{s.Start, s.End, s.Kind}
	}
	return out
}

// sampleImage holds one live block with "hello", one freed block with "ok"
// left behind, and the never-used tail.
func sampleImage() *testutil.ImageBuilder {
	l := format.DefaultLayout()
	b := testutil.NewImage(l, l.DataEnd())
	b.Alloc(0, 6144, 5, 16).Write(6144, []byte("hello"))
	b.Free(1, 6160, 16).Write(6160, []byte("ok"))
	b.Chain(4, 1)
	b.UnusedTail(2)
	return b
}

func TestAnalyzeScenario(t *testing.T) {
	l := format.DefaultLayout()
	b := testutil.NewImage(l, l.DataEnd())
	b.Alloc(0, 6144, 5, 16)
	b.UnusedTail(1)

	a, err := heap.Analyze(context.Background(), b.Bytes(), heap.Options{})
	require.NoError(t, err)

	require.Equal(t, 1, a.Used)
	require.Equal(t, classify.Alloc(6144, 5, 16), a.Classes[0])
	require.Equal(t, []triple{
		{0, 6144, segment.KindUnknown},
		{6144, 6149, segment.KindAlloc},
		{6149, 6160, segment.KindSlack},
		{6160, 38912, segment.KindUnknown},
	}, triples(a.WithHeader()))
	require.Equal(t, 6144, a.Segments[0].Start)
	require.Nil(t, a.Labels)

	require.NotNil(t, a.Report)
	require.False(t, a.Report.HasAnyIssues())
	require.Equal(t, len(b.Bytes()), a.Report.ImageSize)
}

func TestAnalyzeAllZeroImage(t *testing.T) {
	l := format.DefaultLayout()
	image := make([]byte, l.DataEnd())

	_, err := heap.Analyze(context.Background(), image, heap.Options{})
	require.ErrorIs(t, err, classify.ErrCorruptHeaderRegion)
	require.True(t, heap.IsContractViolation(err))

	d := heap.Failure(err, l)
	assert.Equal(t, diag.CodeCorruptHeaderRegion, d.Code)
	assert.Equal(t, diag.SevCritical, d.Severity)
	assert.Equal(t, l.DiscriminantOffset(), d.Offset)

	// Descriptor 0 of that image, read as a live block, is the documented
	// Alloc{6144,5,16} once its fields are filled in; the segmenter alone
	// tiles it exactly as the full pipeline does.
	desc := format.Descriptor{Write: 6149, Read: 6144, Start: 6144, End: 6160}
	c, err := classify.Descriptor(0, desc, false, l, len(image), classify.Options{})
	require.NoError(t, err)
	segs := segment.Allocations([]classify.Class{c}, l, image, nil)
	require.Equal(t, []triple{
		{6144, 6149, segment.KindAlloc},
		{6149, 6160, segment.KindSlack},
		{6160, 38912, segment.KindUnknown},
	}, triples(segs))
}

func TestAnalyzeSegmentsTileImage(t *testing.T) {
	b := sampleImage()
	a, err := heap.Analyze(context.Background(), b.Bytes(), heap.Options{})
	require.NoError(t, err)

	cursor := 0
	for _, s := range a.WithHeader() {
		require.Equal(t, cursor, s.Start)
		cursor = s.End
	}
	require.Equal(t, len(b.Bytes()), cursor)

	require.Equal(t, []triple{
		{6144, 6149, segment.KindAlloc},
		{6149, 6160, segment.KindSlack},
		{6160, 6176, segment.KindFreed},
		{6176, 38912, segment.KindUnknown},
	}, triples(a.Segments))
	assert.Equal(t, "hello", string(a.Segments[0].Text))
}

func TestAnalyzeDuplicateFreeSlot(t *testing.T) {
	l := format.DefaultLayout()
	b := testutil.NewImage(l, l.DataEnd())
	b.Free(3, 6144, 16)
	b.Root(4, uint16(l.SlotOffset(3)))
	b.Link(3, uint16(l.SlotOffset(3)))

	_, err := heap.Analyze(context.Background(), b.Bytes(), heap.Options{})
	require.ErrorIs(t, err, freelist.ErrDuplicateFreeSlot)

	d := heap.Failure(err, l)
	assert.Equal(t, diag.CodeDuplicateFreeSlot, d.Code)
	assert.Equal(t, l.SlotOffset(3), d.Offset)
	require.NotNil(t, d.Context)
	assert.Equal(t, 3, *d.Context.Slot)
	assert.Equal(t, 4, *d.Context.List)
}

func TestAnalyzeEvidence(t *testing.T) {
	b := sampleImage()
	image := b.Bytes()

	a, err := heap.Analyze(context.Background(), image, heap.Options{
		Candidates: [][]byte{[]byte("hello"), []byte("absent")},
		Expectations: []residual.Expectation{
			{Offset: 6160, Text: "ok"},
			{Offset: 6144, Text: "zzzzz"}, // allocated bytes are not compared
			{Offset: 6149, Text: "\x00\x00"},
		},
		Workers: 2,
	})
	require.NoError(t, err)

	cursor := 0
	var strs []correlate.Label
	for _, l := range a.Labels {
		require.LessOrEqual(t, l.Offset, cursor, "labels must not leave gaps")
		cursor = max(cursor, l.End())
		if l.Kind == correlate.KindString {
			strs = append(strs, l)
		}
	}
	require.Equal(t, len(image), cursor)
	require.Len(t, strs, 1)
	assert.Equal(t, 6144, strs[0].Offset)

	notFound := a.Report.ByCode(diag.CodeNotFound)
	require.Len(t, notFound, 1)
	assert.Equal(t, `"absent"`, notFound[0].Context.Candidate)
}

func TestAnalyzeResidualMismatch(t *testing.T) {
	b := sampleImage()
	_, err := heap.Analyze(context.Background(), b.Bytes(), heap.Options{
		Expectations: []residual.Expectation{{Offset: 6160, Text: "on"}},
	})
	var me *residual.MismatchError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, 6160, me.Offset)
	assert.Equal(t, 1, me.Index)

	d := heap.Failure(err, format.DefaultLayout())
	assert.Equal(t, diag.CodeResidualMismatch, d.Code)
	assert.Equal(t, "on", d.Expected)
	assert.Equal(t, "ok", d.Actual)
}

func TestAnalyzeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := heap.Analyze(ctx, sampleImage().Bytes(), heap.Options{})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, heap.IsContractViolation(err))
}

func TestAnalyzeTruncated(t *testing.T) {
	_, err := heap.Analyze(context.Background(), make([]byte, 100), heap.Options{})
	require.ErrorIs(t, err, format.ErrTruncatedImage)
	assert.Equal(t, diag.CodeTruncatedImage, heap.Failure(err, format.DefaultLayout()).Code)
}

func TestLabelsIgnoresDamagedHeader(t *testing.T) {
	image := make([]byte, 300)
	copy(image[100:], "hi")

	labels, report, err := heap.Labels(context.Background(), image, heap.Options{
		Candidates: [][]byte{[]byte("hi")},
	})
	require.NoError(t, err)
	require.Len(t, labels, 3)
	assert.Equal(t, correlate.KindString, labels[1].Kind)
	assert.False(t, report.HasAnyIssues())
}

func TestSummarize(t *testing.T) {
	l := format.DefaultLayout()
	a, err := heap.Analyze(context.Background(), sampleImage().Bytes(), heap.Options{})
	require.NoError(t, err)

	s := a.Summarize()
	assert.Equal(t, 2, s.Used)
	assert.Equal(t, classify.Counts{Alloc: 1, Freed: 1, Unused: l.NumDescriptors() - 2}, s.Counts)
	require.Len(t, s.FreeLists, l.NumRoots())
	assert.Equal(t, 1, s.FreeLists[4].Length)
	assert.Equal(t, 16, s.FreeLists[4].Capacity)
	assert.Equal(t, l.NumDescriptors()-2, s.FreeLists[l.SentinelRoot()].Length)
	assert.Zero(t, s.FreeLists[l.SentinelRoot()].Capacity)
	assert.Equal(t, 5, s.Segments["alloc"])
	assert.Equal(t, 16, s.Segments["freed"])
	assert.Contains(t, s.String(), "2/763 slots used")
}

func TestFailureUnknownError(t *testing.T) {
	d := heap.Failure(errors.New("boom"), format.DefaultLayout())
	assert.Equal(t, diag.CodeInternal, d.Code)
	assert.Equal(t, "boom", d.Issue)
}
