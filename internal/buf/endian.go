// Package buf contains helpers for endian-safe, bounds-checked decoding of
// untrusted image bytes.
package buf

import "encoding/binary"

// U16LE reads a little-endian uint16 from b. Returns 0 when b is too short.
func U16LE(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// U16At reads the little-endian uint16 stored at b[off:off+2]. ok is false
// when the two bytes are not inside b.
func U16At(b []byte, off int) (uint16, bool) {
	field, ok := Slice(b, off, 2)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint16(field), true
}

// PutU16At stores v little-endian at b[off:off+2]. It reports false and leaves
// b untouched when the field does not fit.
func PutU16At(b []byte, off int, v uint16) bool {
	field, ok := Slice(b, off, 2)
	if !ok {
		return false
	}
	binary.LittleEndian.PutUint16(field, v)
	return true
}

// LE16 returns the two-byte little-endian encoding of v.
func LE16(v uint16) [2]byte {
	var out [2]byte
	binary.LittleEndian.PutUint16(out[:], v)
	return out
}
