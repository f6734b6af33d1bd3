package segment

import (
	"fmt"
	"sort"

	"github.com/joshuapare/heapkit/heap/classify"
	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/diag"
	"github.com/joshuapare/heapkit/internal/format"
)

// Allocations converts the used descriptor prefix into segments tiling
// [DataBase, len(image)). Soft findings (overlaps, freed blocks past the
// image end) go to sink, which may be nil.
func Allocations(classes []classify.Class, l format.Layout, image []byte, sink diag.Sink) []Segment {
	if sink == nil {
		sink = diag.Discard
	}

	known := Blocks(classes, image, sink)
	sort.SliceStable(known, func(i, j int) bool {
		if known[i].Start != known[j].Start {
			return known[i].Start < known[j].Start
		}
		return known[i].End < known[j].End
	})

	gap := func(start, end int) Segment { return Unknown(image, start, end) }
	out, overlaps := Partition(known, l.DataBase(), len(image), bounds, gap)
	for _, o := range overlaps {
		s := &out[o.Index]
		s.Overlaps = true
		sink.Record(diag.Data(diag.SevError, diag.CodeOverlappingAllocations, s.Start, s.Len(), "SEGMENT",
			fmt.Sprintf("%s segment starts %d bytes before the end of the previous segment", s.Kind, o.Cursor-s.Start),
			diag.SlotContext(s.Slot)))
	}
	return out
}

// Blocks expands each class into its Alloc, Slack and Freed segments in slot
// order, clipping freed blocks to the image.
func Blocks(classes []classify.Class, image []byte, sink diag.Sink) []Segment {
	if sink == nil {
		sink = diag.Discard
	}
	out := make([]Segment, 0, len(classes)*2)
	for slot, c := range classes {
		switch c.Kind {
		case classify.KindAlloc:
			mid := c.Ptr + c.Len
			end := c.Ptr + c.Capacity
			out = append(out, Segment{Start: c.Ptr, End: mid, Kind: KindAlloc, Slot: slot, Text: clip(image, c.Ptr, mid)})
			if c.Len < c.Capacity {
				out = append(out, Segment{Start: mid, End: end, Kind: KindSlack, Slot: slot, Text: clip(image, mid, end)})
			}
		case classify.KindFreed:
			s, ok := freed(slot, c, image, sink)
			if ok {
				out = append(out, s)
			}
		}
	}
	return out
}

func freed(slot int, c classify.Class, image []byte, sink diag.Sink) (Segment, bool) {
	start, end := c.Ptr, c.Ptr+c.Capacity
	s := Segment{Start: start, End: end, Kind: KindFreed, Slot: slot}
	if end <= len(image) {
		s.Text = clip(image, start, end)
		return s, true
	}

	if start >= len(image) {
		sink.Record(diag.Data(diag.SevInfo, diag.CodeFreedPastImageEnd, start, c.Capacity, "SEGMENT",
			fmt.Sprintf("freed block [%d,%d) lies beyond image end %d; dropped", start, end, len(image)),
			diag.SlotContext(slot)))
		return Segment{}, false
	}
	sink.Record(diag.Data(diag.SevInfo, diag.CodeFreedPastImageEnd, start, c.Capacity, "SEGMENT",
		fmt.Sprintf("freed block [%d,%d) runs past image end %d; clipped", start, end, len(image)),
		diag.SlotContext(slot)))
	s.End = len(image)
	s.Truncated = true
	s.NominalEnd = end
	s.Text = clip(image, start, s.End)
	return s, true
}

func clip(image []byte, start, end int) []byte { return buf.Clip(image, start, end) }
