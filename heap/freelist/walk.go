package freelist

import (
	"github.com/joshuapare/heapkit/internal/bitmap"
	"github.com/joshuapare/heapkit/internal/format"
)

// NotFree marks a slot that no free list reaches.
const NotFree = -1

// Map records free-list membership per descriptor slot.
type Map struct {
	// Free[i] is true when slot i is reachable from some root.
	Free []bool
	// List[i] is the root index whose chain reached slot i, or NotFree.
	List []int
	// Chains[r] lists the slots of root r in link order.
	Chains [][]int
}

// IsFree reports whether slot i is on a free list. Out-of-range slots are not.
func (m *Map) IsFree(i int) bool {
	return i >= 0 && i < len(m.Free) && m.Free[i]
}

// Len returns the number of slots on any free list.
func (m *Map) Len() int {
	n := 0
	for _, c := range m.Chains {
		n += len(c)
	}
	return n
}

// Walk follows every root of region in array order and returns the resulting
// membership map. It fails with *LinkError (ErrInvalidFreeLink) for a pointer
// that is not a slot offset and *FreeSlotError (ErrDuplicateFreeSlot) on the
// second visit of any slot.
func Walk(region format.HeaderRegion, l format.Layout) (*Map, error) {
	n := len(region.Descriptors)
	m := &Map{
		Free:   make([]bool, n),
		List:   make([]int, n),
		Chains: make([][]int, len(region.Roots)),
	}
	for i := range m.List {
		m.List[i] = NotFree
	}

	visited := bitmap.New(n)
	for root, ptr := range region.Roots {
		from := -1
		for ptr != 0 {
			slot, err := l.SlotIndex(ptr)
			if err == nil && slot >= n {
				err = format.ErrNotDescriptor
			}
			if err != nil {
				return nil, &LinkError{List: root, From: from, Ptr: ptr, Err: err}
			}
			if visited.TestAndSet(slot) {
				return nil, &FreeSlotError{Slot: slot, Ptr: ptr, List: root, FirstList: m.List[slot]}
			}
			m.Free[slot] = true
			m.List[slot] = root
			m.Chains[root] = append(m.Chains[root], slot)

			from = slot
			ptr = region.Descriptors[slot].Write
		}
	}
	return m, nil
}
