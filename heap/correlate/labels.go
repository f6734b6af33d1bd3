package correlate

import (
	"fmt"
	"sort"

	"github.com/joshuapare/heapkit/heap/segment"
	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/diag"
)

// Segment orders labels and tiles [0, len(image)) with them, filling gaps
// with Unknown labels. Labels sharing an offset are ordered longest first,
// then by Describe. A label that begins inside an earlier one is kept, marked
// Overlaps and reported to sink as OverlappingLabels.
func Segment(labels []Label, image []byte, sink diag.Sink) []Label {
	if sink == nil {
		sink = diag.Discard
	}

	sorted := make([]Label, len(labels))
	copy(sorted, labels)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Offset != b.Offset {
			return a.Offset < b.Offset
		}
		if a.Len != b.Len {
			return a.Len > b.Len
		}
		return a.Describe() < b.Describe()
	})

	bounds := func(l Label) (int, int) { return l.Offset, l.End() }
	gap := func(start, end int) Label {
		return Label{Offset: start, Len: end - start, Kind: KindUnknown, Text: buf.Clip(image, start, end)}
	}
	out, overlaps := segment.Partition(sorted, 0, len(image), bounds, gap)
	for _, o := range overlaps {
		l := &out[o.Index]
		l.Overlaps = true
		sink.Record(diag.Evidence(diag.SevWarning, diag.CodeOverlappingLabels, l.Offset, l.Len, "LABEL",
			fmt.Sprintf("%s overlaps the previous label by %d bytes", l.Describe(), min(o.Cursor, l.End())-l.Offset),
			nil))
	}
	return out
}
