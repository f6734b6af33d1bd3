package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/correlate"
	"github.com/joshuapare/heapkit/heap/segment"
)

// SegmentSink returns a sink that writes one text line per segment.
func (p *Printer) SegmentSink() segment.Sink[segment.Segment] {
	return segment.SinkFunc[segment.Segment](p.printSegmentText)
}

// LabelSink returns a sink that writes one text line per label.
func (p *Printer) LabelSink() segment.Sink[correlate.Label] {
	return segment.SinkFunc[correlate.Label](p.printLabelText)
}

func (p *Printer) segmentColor(k segment.Kind) func(a ...any) string {
	switch k {
	case segment.KindAlloc:
		return p.palette.alloc.SprintFunc()
	case segment.KindSlack:
		return p.palette.slack.SprintFunc()
	case segment.KindFreed:
		return p.palette.freed.SprintFunc()
	default:
		return p.palette.unknown.SprintFunc()
	}
}

// printSegmentText prints a segment as:
//
//	start=6144, end=6149, len=5, kind=alloc, slot=0, text="hello"
func (p *Printer) printSegmentText(s segment.Segment) error {
	var b strings.Builder
	fmt.Fprintf(&b, "start=%d, end=%d, len=%d, kind=%s", s.Start, s.End, s.Len(), p.segmentColor(s.Kind)(s.Kind))
	if s.Slot != segment.NoSlot {
		fmt.Fprintf(&b, ", slot=%d", s.Slot)
	}
	if s.Truncated {
		fmt.Fprintf(&b, ", %s", p.palette.warn.Sprintf("truncated (nominal end %d)", s.NominalEnd))
	}
	if s.Overlaps {
		fmt.Fprintf(&b, ", %s", p.palette.warn.Sprint("overlaps"))
	}
	if p.opts.ShowText {
		fmt.Fprintf(&b, ", text=%s", p.text(s.Text))
	}
	b.WriteByte('\n')
	_, err := io.WriteString(p.writer, b.String())
	return err
}

// printLabelText prints a label as:
//
//	offset=100, len=2, kind=string "hi", text="hi"
func (p *Printer) printLabelText(l correlate.Label) error {
	var b strings.Builder
	kind := l.Describe()
	switch l.Kind {
	case correlate.KindString:
		kind = p.palette.str.Sprint(kind)
	case correlate.KindPointerRef:
		kind = p.palette.pointer.Sprint(kind)
	default:
		kind = p.palette.unknown.Sprint(kind)
	}
	fmt.Fprintf(&b, "offset=%d, len=%d, kind=%s", l.Offset, l.Len, kind)
	if l.Overlaps {
		fmt.Fprintf(&b, ", %s", p.palette.warn.Sprint("overlaps"))
	}
	if p.opts.ShowText {
		fmt.Fprintf(&b, ", text=%s", p.text(l.Text))
	}
	b.WriteByte('\n')
	_, err := io.WriteString(p.writer, b.String())
	return err
}

func (p *Printer) printSummaryText(s heap.Summary) error {
	var b strings.Builder
	l := s.Layout
	fmt.Fprintf(&b, "Image size:      %d bytes\n", s.ImageSize)
	fmt.Fprintf(&b, "Header region:   %d bytes (data base %d, data end %d)\n", l.RegionSize, l.DataBase(), l.DataEnd())
	fmt.Fprintf(&b, "Descriptors:     %d at %d (discriminant at %d, padding at %d)\n",
		s.Descriptors, l.DescriptorBase(), l.DiscriminantOffset(), l.PaddingOffset())
	fmt.Fprintf(&b, "Used slots:      %d (%d alloc, %d freed, %d unused)\n",
		s.Used, s.Counts.Alloc, s.Counts.Freed, s.Counts.Unused)

	b.WriteString("\nFree lists:\n")
	for _, fl := range s.FreeLists {
		if fl.Head == 0 && fl.Length == 0 {
			continue
		}
		class := "sentinel"
		if fl.Capacity > 0 {
			class = fmt.Sprintf("%d bytes", fl.Capacity)
		}
		fmt.Fprintf(&b, "  root %2d  %-10s head=0x%04X  length=%d\n", fl.Root, class, fl.Head, fl.Length)
	}

	b.WriteString("\nSegment bytes:\n")
	for _, k := range []segment.Kind{segment.KindAlloc, segment.KindSlack, segment.KindFreed, segment.KindUnknown} {
		fmt.Fprintf(&b, "  %-8s %d\n", p.segmentColor(k)(k), s.Segments[k.String()])
	}
	_, err := io.WriteString(p.writer, b.String())
	return err
}
