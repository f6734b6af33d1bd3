package format

import (
	"fmt"
	"math/bits"
)

// Layout describes where the pieces of the header region live. The region
// begins at image offset 0 and is laid out as:
//
//	Offset              Size                 Field
//	0                   2*(SizeClasses+1)    free-list roots (u16 slot pointers)
//	DiscriminantOffset  2                    must equal DescriptorBase
//	DescriptorBase      8*NumDescriptors     descriptor array
//	PaddingOffset       PaddingSize          must be all zero
//	RegionSize          DataSize             data area
//
// Root i heads the free list of blocks with capacity 1<<i. The last root heads
// the chain of never-used slots.
type Layout struct {
	RegionSize  int
	DataSize    int
	SizeClasses int
	PaddingSize int
}

// DefaultLayout returns the layout of the legacy heap manager's captures.
func DefaultLayout() Layout {
	return Layout{
		RegionSize:  DefaultRegionSize,
		DataSize:    DefaultDataSize,
		SizeClasses: DefaultSizeClasses,
		PaddingSize: DefaultPaddingSize,
	}
}

// Validate checks that the roots, discriminant, descriptor array and padding
// tile the region exactly and that every offset fits in 16 bits.
func (l Layout) Validate() error {
	switch {
	case l.SizeClasses < 1 || l.SizeClasses > 16:
		return fmt.Errorf("%w: size classes %d not in [1,16]", ErrInvalidLayout, l.SizeClasses)
	case l.PaddingSize < 0:
		return fmt.Errorf("%w: negative padding %d", ErrInvalidLayout, l.PaddingSize)
	case l.DataSize <= 0:
		return fmt.Errorf("%w: data size %d", ErrInvalidLayout, l.DataSize)
	}
	body := l.RegionSize - l.DescriptorBase() - l.PaddingSize
	if body < DescriptorSize {
		return fmt.Errorf("%w: region %d leaves no room for descriptors", ErrInvalidLayout, l.RegionSize)
	}
	if body%DescriptorSize != 0 {
		return fmt.Errorf("%w: descriptor area %d is not a multiple of %d",
			ErrInvalidLayout, body, DescriptorSize)
	}
	if l.DataEnd() > MaxImageSize {
		return fmt.Errorf("%w: data end %d exceeds %d", ErrInvalidLayout, l.DataEnd(), MaxImageSize)
	}
	return nil
}

// NumRoots is the number of free-list roots, including the sentinel root.
func (l Layout) NumRoots() int { return l.SizeClasses + 1 }

// SentinelRoot is the index of the root that chains never-used slots.
func (l Layout) SentinelRoot() int { return l.SizeClasses }

// DiscriminantOffset is the byte offset of the discriminant field.
func (l Layout) DiscriminantOffset() int { return l.NumRoots() * FieldSize }

// DescriptorBase is the byte offset of descriptor 0.
func (l Layout) DescriptorBase() int { return l.DiscriminantOffset() + FieldSize }

// NumDescriptors is the number of descriptor slots in the table.
func (l Layout) NumDescriptors() int {
	n := (l.RegionSize - l.DescriptorBase() - l.PaddingSize) / DescriptorSize
	return max(n, 0)
}

// PaddingOffset is the byte offset of the trailing zero padding.
func (l Layout) PaddingOffset() int {
	return l.DescriptorBase() + l.NumDescriptors()*DescriptorSize
}

// DataBase is the first byte of the data area.
func (l Layout) DataBase() int { return l.RegionSize }

// DataEnd is one past the last byte of the declared data area.
func (l Layout) DataEnd() int { return l.RegionSize + l.DataSize }

// SlotOffset maps a table index to the byte offset of its descriptor.
func (l Layout) SlotOffset(index int) int {
	return l.DescriptorBase() + index*DescriptorSize
}

// SlotIndex is the inverse of SlotOffset. It fails with ErrNotDescriptor for
// pointers outside the table or not aligned to a record boundary.
func (l Layout) SlotIndex(ptr uint16) (int, error) {
	rel := int(ptr) - l.DescriptorBase()
	if rel < 0 || rel%DescriptorSize != 0 || rel/DescriptorSize >= l.NumDescriptors() {
		return 0, fmt.Errorf("%w: 0x%04X", ErrNotDescriptor, ptr)
	}
	return rel / DescriptorSize, nil
}

// ClassCapacity returns the block capacity served by size class c.
func (l Layout) ClassCapacity(c int) int { return 1 << c }

// SizeClass returns the class whose capacity equals capacity, or -1 when
// capacity is not a power of two within the configured classes.
func (l Layout) SizeClass(capacity int) int {
	if !IsPow2(capacity) {
		return -1
	}
	c := bits.TrailingZeros(uint(capacity))
	if c >= l.SizeClasses {
		return -1
	}
	return c
}

// IsPow2 reports whether n is a positive power of two.
func IsPow2(n int) bool { return n > 0 && n&(n-1) == 0 }
