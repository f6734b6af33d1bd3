// Package format houses the low-level decoder for the header region of a
// captured fixed-size heap image. Decoding is kept separate from validation so
// that higher-level packages see every piece of structural evidence before
// deciding what is corrupt.
package format

const (
	// MaxImageSize is the largest image addressable with 16-bit offsets.
	MaxImageSize = 0xFFFF

	// FieldSize is the width of every header field (little-endian uint16).
	FieldSize = 2

	// DescriptorSize is the size of one block descriptor record.
	DescriptorSize = 4 * FieldSize

	// Descriptor field offsets within a record.
	//
	//	Offset  Size  Field
	//	0x00    2     write  (write cursor, or next-free link when on a free list)
	//	0x02    2     read   (read cursor)
	//	0x04    2     start  (first data byte)
	//	0x06    2     end    (one past the capacity boundary)
	DescWriteOffset = 0x00
	DescReadOffset  = 0x02
	DescStartOffset = 0x04
	DescEndOffset   = 0x06
)

// Default layout values observed in captures of the legacy heap manager.
const (
	// DefaultRegionSize is the size of the header region at image offset 0.
	DefaultRegionSize = 6144

	// DefaultDataSize is the declared size of the data area after the region.
	DefaultDataSize = 32768

	// DefaultSizeClasses is the number of power-of-two free lists. One extra
	// root follows them for the never-used (sentinel) chain.
	DefaultSizeClasses = 16

	// DefaultPaddingSize is the zero padding that closes the header region.
	DefaultPaddingSize = 4
)
