//go:build !unix

package mmfile

// Map reads the entire file when mmap is not available.
func Map(path string, limit int64) ([]byte, Unmap, error) {
	return readAll(path, limit)
}
