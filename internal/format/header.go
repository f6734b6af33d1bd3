package format

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
)

// Descriptor is one raw block descriptor as stored in the table.
type Descriptor struct {
	Write uint16
	Read  uint16
	Start uint16
	End   uint16
}

// IsZero reports whether every field of the descriptor is zero.
func (d Descriptor) IsZero() bool { return d == Descriptor{} }

// HeaderRegion is the decoded header region. Nothing in it has been validated
// beyond the region fitting inside the image.
type HeaderRegion struct {
	Roots        []uint16
	Discriminant uint16
	Descriptors  []Descriptor
	Padding      []byte // alias of the image bytes
}

// DecodeHeader reinterprets the first l.RegionSize bytes of image as a header
// region. Every field is read with an explicit bounds-checked load.
func DecodeHeader(image []byte, l Layout) (HeaderRegion, error) {
	if err := l.Validate(); err != nil {
		return HeaderRegion{}, err
	}
	if len(image) > MaxImageSize {
		return HeaderRegion{}, fmt.Errorf("header: %w (%d bytes)", ErrImageTooLarge, len(image))
	}
	if len(image) < l.RegionSize {
		return HeaderRegion{}, fmt.Errorf("header: %w: need %d bytes, have %d",
			ErrTruncatedImage, l.RegionSize, len(image))
	}

	region := HeaderRegion{
		Roots:       make([]uint16, l.NumRoots()),
		Descriptors: make([]Descriptor, l.NumDescriptors()),
	}
	for i := range region.Roots {
		v, ok := buf.U16At(image, i*FieldSize)
		if !ok {
			return HeaderRegion{}, fmt.Errorf("header: root %d: %w", i, ErrTruncatedImage)
		}
		region.Roots[i] = v
	}

	disc, ok := buf.U16At(image, l.DiscriminantOffset())
	if !ok {
		return HeaderRegion{}, fmt.Errorf("header: discriminant: %w", ErrTruncatedImage)
	}
	region.Discriminant = disc

	if _, err := buf.CheckArrayBounds(len(image), l.DescriptorBase(), l.NumDescriptors(), DescriptorSize); err != nil {
		return HeaderRegion{}, fmt.Errorf("header: descriptors: %w: %v", ErrTruncatedImage, err)
	}
	for i := range region.Descriptors {
		d, err := DecodeDescriptor(image, l.SlotOffset(i))
		if err != nil {
			return HeaderRegion{}, fmt.Errorf("header: descriptor %d: %w", i, err)
		}
		region.Descriptors[i] = d
	}

	padding, ok := buf.Slice(image, l.PaddingOffset(), l.PaddingSize)
	if !ok {
		return HeaderRegion{}, fmt.Errorf("header: padding: %w", ErrTruncatedImage)
	}
	region.Padding = padding
	return region, nil
}

// DecodeDescriptor reads the descriptor record stored at off.
func DecodeDescriptor(b []byte, off int) (Descriptor, error) {
	rec, ok := buf.Slice(b, off, DescriptorSize)
	if !ok {
		return Descriptor{}, fmt.Errorf("descriptor at %d: %w", off, ErrTruncatedImage)
	}
	return Descriptor{
		Write: buf.U16LE(rec[DescWriteOffset:]),
		Read:  buf.U16LE(rec[DescReadOffset:]),
		Start: buf.U16LE(rec[DescStartOffset:]),
		End:   buf.U16LE(rec[DescEndOffset:]),
	}, nil
}

// EncodeDescriptor writes d at off. It is the inverse of DecodeDescriptor and
// exists for building synthetic images.
func EncodeDescriptor(b []byte, off int, d Descriptor) error {
	if !buf.Has(b, off, DescriptorSize) {
		return fmt.Errorf("descriptor at %d: %w", off, ErrTruncatedImage)
	}
	buf.PutU16At(b, off+DescWriteOffset, d.Write)
	buf.PutU16At(b, off+DescReadOffset, d.Read)
	buf.PutU16At(b, off+DescStartOffset, d.Start)
	buf.PutU16At(b, off+DescEndOffset, d.End)
	return nil
}
