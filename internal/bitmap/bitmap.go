// Package bitmap provides a fixed-size bit array used for visited-set and
// presence tracking over small dense index spaces (descriptor slots, image
// offsets).
package bitmap

const bitsPerUint64 = 64

// Bitmap provides O(1) membership tracking for indices in [0, Size()).
// It replaces map[int]bool with a fraction of the memory and no hashing.
type Bitmap struct {
	bits []uint64
	size int
}

// New creates a bitmap able to track n indices. Negative n is treated as 0.
func New(n int) *Bitmap {
	n = max(n, 0)
	return &Bitmap{
		bits: make([]uint64, (n+bitsPerUint64-1)/bitsPerUint64),
		size: n,
	}
}

// Size returns the number of indices the bitmap can track.
func (b *Bitmap) Size() int { return b.size }

// Set marks index i. Out-of-range indices are ignored.
//
//go:inline
func (b *Bitmap) Set(i int) {
	if i < 0 || i >= b.size {
		return
	}
	b.bits[i/bitsPerUint64] |= 1 << (uint(i) % bitsPerUint64)
}

// IsSet reports whether index i is marked. Out-of-range indices report false.
//
//go:inline
func (b *Bitmap) IsSet(i int) bool {
	if i < 0 || i >= b.size {
		return false
	}
	return b.bits[i/bitsPerUint64]&(1<<(uint(i)%bitsPerUint64)) != 0
}

// TestAndSet marks index i and reports whether it was already marked.
func (b *Bitmap) TestAndSet(i int) bool {
	was := b.IsSet(i)
	b.Set(i)
	return was
}

// SetRange marks every index in [start, end), clipped to the bitmap.
func (b *Bitmap) SetRange(start, end int) {
	start = max(start, 0)
	end = min(end, b.size)
	for i := start; i < end; i++ {
		b.Set(i)
	}
}

// Count returns the number of marked indices.
func (b *Bitmap) Count() int {
	n := 0
	for _, w := range b.bits {
		for ; w != 0; w &= w - 1 {
			n++
		}
	}
	return n
}
