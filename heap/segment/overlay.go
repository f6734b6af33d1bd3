package segment

import "github.com/joshuapare/heapkit/internal/bitmap"

// Overlay is a sparse byte map over image offsets. Only recorded positions
// carry a value.
type Overlay struct {
	data    []byte
	present *bitmap.Bitmap
}

// NewOverlay returns an empty overlay covering n offsets.
func NewOverlay(n int) *Overlay {
	n = max(n, 0)
	return &Overlay{data: make([]byte, n), present: bitmap.New(n)}
}

// Residual records the image bytes of every Slack, Freed and Unknown segment.
// Alloc bytes are left unrecorded.
func Residual(segments []Segment, image []byte) *Overlay {
	o := NewOverlay(len(image))
	for _, s := range segments {
		if s.Kind == KindAlloc {
			continue
		}
		start := max(s.Start, 0)
		end := min(s.End, len(image))
		for i := start; i < end; i++ {
			o.Set(i, image[i])
		}
	}
	return o
}

// Len returns the number of offsets the overlay covers.
func (o *Overlay) Len() int { return len(o.data) }

// Set records v at off. Offsets outside the overlay are ignored.
func (o *Overlay) Set(off int, v byte) {
	if off < 0 || off >= len(o.data) {
		return
	}
	o.data[off] = v
	o.present.Set(off)
}

// Get returns the byte recorded at off and whether one was recorded.
func (o *Overlay) Get(off int) (byte, bool) {
	if !o.present.IsSet(off) {
		return 0, false
	}
	return o.data[off], true
}

// Window returns a copy of the overlay bytes in [start, end) clipped to the
// overlay. Unrecorded positions read as zero.
func (o *Overlay) Window(start, end int) []byte {
	start = min(max(start, 0), len(o.data))
	end = min(max(end, start), len(o.data))
	out := make([]byte, end-start)
	for i := start; i < end; i++ {
		if o.present.IsSet(i) {
			out[i-start] = o.data[i]
		}
	}
	return out
}

// Recorded returns the number of recorded positions.
func (o *Overlay) Recorded() int { return o.present.Count() }
