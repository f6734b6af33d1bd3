// Package mmfile provides platform-specific helpers for mapping capture files
// read-only into memory.
package mmfile

import (
	"errors"
	"fmt"
	"os"
)

// ErrTooLarge indicates a file larger than the caller's limit.
var ErrTooLarge = errors.New("mmfile: file exceeds size limit")

// Unmap releases a mapping returned by Map. It is safe to call twice.
type Unmap func() error

func noop() error { return nil }

// checkSize stats f and enforces limit (0 means no limit).
func checkSize(f *os.File, limit int64) (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	size := info.Size()
	if limit > 0 && size > limit {
		return 0, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, f.Name(), size, limit)
	}
	if size > int64(^uint(0)>>1) {
		return 0, fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, f.Name(), size)
	}
	return size, nil
}

// readAll is the portable fallback used where mmap is unavailable.
func readAll(path string, limit int64) ([]byte, Unmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, noop, err
	}
	defer f.Close()
	size, err := checkSize(f, limit)
	if err != nil {
		return nil, noop, err
	}
	data := make([]byte, size)
	if _, err := f.ReadAt(data, 0); err != nil && size > 0 {
		return nil, noop, fmt.Errorf("mmfile: read %s: %w", path, err)
	}
	return data, noop, nil
}
