package heap

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"

	core "github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/mmfile"
)

// Options is re-exported from the reconstruction package.
type Options = core.Options

// Analysis is re-exported from the reconstruction package.
type Analysis = core.Analysis

// Analyze reconstructs image. See the heap package under heapkit/heap.
var Analyze = core.Analyze

// Image is a capture loaded from disk.
type Image struct {
	Path string

	data   []byte
	unmap  mmfile.Unmap
	closed bool
}

// Open loads the capture at path. Plain files are memory-mapped; files ending
// in ".zst" are decompressed into memory. Either way the result may not exceed
// the 16-bit addressable image size.
func Open(path string) (*Image, error) {
	if strings.HasSuffix(path, ".zst") {
		data, err := openCompressed(path)
		if err != nil {
			return nil, err
		}
		return &Image{Path: path, data: data}, nil
	}

	data, unmap, err := mmfile.Map(path, format.MaxImageSize)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	return &Image{Path: path, data: data, unmap: unmap}, nil
}

func openCompressed(path string) ([]byte, error) {
	// The compressed file is small; read it whole and stream the decoder.
	raw, unmap, err := mmfile.Map(path, 0)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer unmap()

	dec, err := zstd.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("open image: zstd: %w", err)
	}
	defer dec.Close()

	// Read one byte past the limit to detect oversized payloads.
	data, err := io.ReadAll(io.LimitReader(dec, format.MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("open image: zstd: %w", err)
	}
	if len(data) > format.MaxImageSize {
		return nil, fmt.Errorf("open image: %w: %s decompresses past %d bytes",
			format.ErrImageTooLarge, path, format.MaxImageSize)
	}
	return data, nil
}

// Bytes returns the image contents. The slice is read-only and becomes
// invalid after Close.
func (img *Image) Bytes() []byte { return img.data }

// Len returns the image size in bytes.
func (img *Image) Len() int { return len(img.data) }

// Close releases the mapping. Calling Close more than once is harmless.
func (img *Image) Close() error {
	if img == nil || img.closed {
		return nil
	}
	img.closed = true
	img.data = nil
	if img.unmap != nil {
		return img.unmap()
	}
	return nil
}
