//go:build unix

package mmfile

import (
	"errors"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// Map maps the file at path read-only and returns its contents. Files larger
// than limit bytes are rejected before mapping; limit 0 disables the check.
// The returned slice must not be written to.
func Map(path string, limit int64) ([]byte, Unmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, noop, err
	}
	defer f.Close() // safe before return; mapping keeps pages alive

	size, err := checkSize(f, limit)
	if err != nil {
		return nil, noop, err
	}
	if size == 0 {
		return []byte{}, noop, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		// Some filesystems (procfs, FUSE) refuse mmap; fall back to a read.
		return readAll(path, limit)
	}

	var once sync.Once
	var unmapErr error
	unmap := func() error {
		once.Do(func() {
			unmapErr = unix.Munmap(data)
			if errors.Is(unmapErr, unix.EINVAL) {
				unmapErr = nil
			}
		})
		return unmapErr
	}
	return data, unmap, nil
}
