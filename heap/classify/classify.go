// Package classify turns raw descriptor records into allocator states and
// checks them against the allocator's structural invariants.
//
// Every slot ends up as exactly one of:
//
//	Alloc   live block, not on any free list
//	Freed   block on a free list with recoverable capacity
//	Unused  never-used slot chained from the sentinel root
//
// A slot that fits none of them aborts classification with *DescriptorError.
package classify

import (
	"fmt"

	"github.com/joshuapare/heapkit/heap/freelist"
	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// Kind discriminates the Class variants.
type Kind uint8

const (
	KindAlloc Kind = iota
	KindFreed
	KindUnused
)

func (k Kind) String() string {
	switch k {
	case KindAlloc:
		return "alloc"
	case KindFreed:
		return "freed"
	case KindUnused:
		return "unused"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Class is the classification of one descriptor slot. Which fields are
// meaningful depends on Kind:
//
//	KindAlloc   Ptr, Len, Capacity
//	KindFreed   Next, Ptr, Capacity
//	KindUnused  Next
type Class struct {
	Kind     Kind
	Ptr      int    // first data byte
	Len      int    // bytes written (Alloc)
	Capacity int    // block capacity, a power of two
	Next     uint16 // free-list link (Freed, Unused)
}

// Alloc returns an Alloc classification.
func Alloc(ptr, length, capacity int) Class {
	return Class{Kind: KindAlloc, Ptr: ptr, Len: length, Capacity: capacity}
}

// Freed returns a Freed classification.
func Freed(next uint16, ptr, capacity int) Class {
	return Class{Kind: KindFreed, Next: next, Ptr: ptr, Capacity: capacity}
}

// Unused returns an Unused classification.
func Unused(next uint16) Class {
	return Class{Kind: KindUnused, Next: next}
}

func (c Class) String() string {
	switch c.Kind {
	case KindAlloc:
		return fmt.Sprintf("Alloc{ptr=%d len=%d cap=%d}", c.Ptr, c.Len, c.Capacity)
	case KindFreed:
		return fmt.Sprintf("Freed{next=0x%04X ptr=%d cap=%d}", c.Next, c.Ptr, c.Capacity)
	case KindUnused:
		return fmt.Sprintf("Unused{next=0x%04X}", c.Next)
	default:
		return c.Kind.String()
	}
}

// Options tunes classification.
type Options struct {
	// CompatSentinelRead also accepts read == 0 on sentinel slots. Some
	// captures leave the read cursor of never-used slots zeroed.
	CompatSentinelRead bool
}

// Table checks the region-wide fields of region and classifies every
// descriptor. free is the membership map produced by freelist.Walk and
// imageLen bounds live allocations.
func Table(region format.HeaderRegion, free *freelist.Map, l format.Layout, imageLen int, opts Options) ([]Class, error) {
	if err := checkRegion(region, l); err != nil {
		return nil, err
	}

	classes := make([]Class, len(region.Descriptors))
	for i, d := range region.Descriptors {
		c, err := Descriptor(i, d, free.IsFree(i), l, imageLen, opts)
		if err != nil {
			return nil, err
		}
		classes[i] = c
	}
	return classes, nil
}

func checkRegion(region format.HeaderRegion, l format.Layout) error {
	if want := uint16(l.DescriptorBase()); region.Discriminant != want {
		return fmt.Errorf("%w: discriminant 0x%04X, want 0x%04X",
			ErrCorruptHeaderRegion, region.Discriminant, want)
	}
	if !buf.AllZero(region.Padding) {
		return fmt.Errorf("%w: non-zero padding % x", ErrCorruptHeaderRegion, region.Padding)
	}
	return nil
}

// Descriptor classifies a single raw descriptor. The predicates are tried in
// order: sentinel, Freed, Alloc.
func Descriptor(index int, d format.Descriptor, free bool, l format.Layout, imageLen int, opts Options) (Class, error) {
	base := l.DataBase()
	start, end := int(d.Start), int(d.End)
	read, write := int(d.Read), int(d.Write)

	fail := func(reason string, args ...any) (Class, error) {
		return Class{}, &DescriptorError{Index: index, Raw: d, Free: free, Reason: fmt.Sprintf(reason, args...)}
	}

	if free && start == base && end == base {
		if read == base || (opts.CompatSentinelRead && read == 0) {
			return Unused(d.Write), nil
		}
		return fail("sentinel read cursor %d, want %d", read, base)
	}

	if reason := checkBlock(start, end, l); reason != "" {
		return fail("%s", reason)
	}

	if free {
		if read != base && read != 0 {
			return fail("freed read cursor %d, want %d or 0", read, base)
		}
		return Freed(d.Write, start, end-start), nil
	}

	switch {
	case end > imageLen:
		return fail("end %d past image end %d", end, imageLen)
	case read < start || read > end:
		return fail("read cursor %d outside [%d,%d]", read, start, end)
	case write < start || write > end:
		return fail("write cursor %d outside [%d,%d]", write, start, end)
	case read > write:
		return fail("read cursor %d after write cursor %d", read, write)
	}
	return Alloc(start, write-start, end-start), nil
}

// checkBlock applies the bounds shared by Alloc and Freed and returns the
// first violated one, or "".
func checkBlock(start, end int, l format.Layout) string {
	switch {
	case start < l.DataBase():
		return fmt.Sprintf("start %d before data base %d", start, l.DataBase())
	case end > l.DataEnd():
		return fmt.Sprintf("end %d past data end %d", end, l.DataEnd())
	case end < start:
		return fmt.Sprintf("end %d before start %d", end, start)
	case !format.IsPow2(end - start):
		return fmt.Sprintf("capacity %d is not a power of two", end-start)
	}
	return ""
}

// Counts tallies classifications by kind.
type Counts struct {
	Alloc  int `json:"alloc" yaml:"alloc"`
	Freed  int `json:"freed" yaml:"freed"`
	Unused int `json:"unused" yaml:"unused"`
}

// Count tallies classes by kind.
func Count(classes []Class) Counts {
	var c Counts
	for _, cl := range classes {
		switch cl.Kind {
		case KindAlloc:
			c.Alloc++
		case KindFreed:
			c.Freed++
		case KindUnused:
			c.Unused++
		}
	}
	return c
}
