package testutil

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// ImageBuilder assembles synthetic heap images for tests. A fresh builder
// produces a zero-filled image whose discriminant already points at the
// descriptor array, so only the slots a test cares about need describing.
//
// Example:
//
//	b := testutil.NewImage(format.DefaultLayout(), 6144+32768)
//	b.Alloc(0, 6144, 5, 16)
//	b.UnusedTail(1)
//	image := b.Bytes()
type ImageBuilder struct {
	layout format.Layout
	data   []byte
}

// NewImage returns a builder for an image of size bytes laid out as l.
// It panics when size cannot hold the header region; that is a test bug.
func NewImage(l format.Layout, size int) *ImageBuilder {
	if size < l.RegionSize {
		panic(fmt.Sprintf("testutil: image size %d smaller than region %d", size, l.RegionSize))
	}
	b := &ImageBuilder{layout: l, data: make([]byte, size)}
	b.Discriminant(uint16(l.DescriptorBase()))
	return b
}

// Layout returns the layout the builder writes.
func (b *ImageBuilder) Layout() format.Layout { return b.layout }

// Bytes returns the image. Further builder calls keep mutating it.
func (b *ImageBuilder) Bytes() []byte { return b.data }

// Discriminant overwrites the discriminant field.
func (b *ImageBuilder) Discriminant(v uint16) *ImageBuilder {
	buf.PutU16At(b.data, b.layout.DiscriminantOffset(), v)
	return b
}

// Root sets free-list root i to ptr.
func (b *ImageBuilder) Root(i int, ptr uint16) *ImageBuilder {
	buf.PutU16At(b.data, i*format.FieldSize, ptr)
	return b
}

// Descriptor stores d verbatim in slot.
func (b *ImageBuilder) Descriptor(slot int, d format.Descriptor) *ImageBuilder {
	if err := format.EncodeDescriptor(b.data, b.layout.SlotOffset(slot), d); err != nil {
		panic(err)
	}
	return b
}

// Alloc describes a live block of capacity bytes at start holding n bytes.
// The read cursor sits at start.
func (b *ImageBuilder) Alloc(slot, start, n, capacity int) *ImageBuilder {
	return b.Descriptor(slot, format.Descriptor{
		Write: uint16(start + n),
		Read:  uint16(start),
		Start: uint16(start),
		End:   uint16(start + capacity),
	})
}

// Free describes a free block of capacity bytes at start. The link field is
// left zero; Chain fills it in.
func (b *ImageBuilder) Free(slot, start, capacity int) *ImageBuilder {
	return b.Descriptor(slot, format.Descriptor{
		Read:  uint16(b.layout.DataBase()),
		Start: uint16(start),
		End:   uint16(start + capacity),
	})
}

// Chain links slots into the free list headed by root, in order.
func (b *ImageBuilder) Chain(root int, slots ...int) *ImageBuilder {
	if len(slots) == 0 {
		return b.Root(root, 0)
	}
	b.Root(root, uint16(b.layout.SlotOffset(slots[0])))
	for i, slot := range slots {
		next := uint16(0)
		if i+1 < len(slots) {
			next = uint16(b.layout.SlotOffset(slots[i+1]))
		}
		b.Link(slot, next)
	}
	return b
}

// Link overwrites the write/link field of slot.
func (b *ImageBuilder) Link(slot int, next uint16) *ImageBuilder {
	buf.PutU16At(b.data, b.layout.SlotOffset(slot)+format.DescWriteOffset, next)
	return b
}

// UnusedTail turns slots [from, N) into the never-used sentinel chain the
// allocator leaves behind: each slot points at its successor, the last slot
// terminates the chain, and the sentinel root heads it.
func (b *ImageBuilder) UnusedTail(from int) *ImageBuilder {
	n := b.layout.NumDescriptors()
	base := uint16(b.layout.DataBase())
	slots := make([]int, 0, n-from)
	for i := from; i < n; i++ {
		b.Descriptor(i, format.Descriptor{Read: base, Start: base, End: base})
		slots = append(slots, i)
	}
	return b.Chain(b.layout.SentinelRoot(), slots...)
}

// Write copies p into the image at off.
func (b *ImageBuilder) Write(off int, p []byte) *ImageBuilder {
	if !buf.Has(b.data, off, len(p)) {
		panic(fmt.Sprintf("testutil: write of %d bytes at %d outside image", len(p), off))
	}
	copy(b.data[off:], p)
	return b
}
