package segment

// Overlap records an item that begins before the partition cursor.
type Overlap struct {
	Index  int // position of the item in the partitioned output
	Cursor int // cursor position when the item was reached
}

// Partition tiles [from, to) with items, which must already be sorted by
// start. bounds reports an item's [start, end) and gap builds a filler item
// for an uncovered range. Every item is emitted in order; an item that starts
// before the cursor is reported in overlaps and the cursor only ever moves
// forward. A trailing gap closes the range when the cursor stops short of to.
func Partition[T any](items []T, from, to int, bounds func(T) (int, int), gap func(start, end int) T) (out []T, overlaps []Overlap) {
	out = make([]T, 0, 2*len(items)+1)
	cursor := from
	for _, item := range items {
		start, end := bounds(item)
		switch {
		case start > cursor:
			out = append(out, gap(cursor, start))
		case start < cursor:
			overlaps = append(overlaps, Overlap{Index: len(out), Cursor: cursor})
		}
		out = append(out, item)
		cursor = max(cursor, end)
	}
	if cursor < to {
		out = append(out, gap(cursor, to))
	}
	return out, overlaps
}
