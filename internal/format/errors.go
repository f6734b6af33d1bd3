package format

import "errors"

var (
	// ErrTruncatedImage indicates the image is shorter than the header region.
	ErrTruncatedImage = errors.New("format: truncated image")
	// ErrImageTooLarge indicates the image cannot be addressed with 16-bit offsets.
	ErrImageTooLarge = errors.New("format: image exceeds 16-bit address space")
	// ErrInvalidLayout indicates a Layout whose parts do not tile the header region.
	ErrInvalidLayout = errors.New("format: invalid layout")
	// ErrNotDescriptor indicates a pointer that does not address a descriptor slot.
	ErrNotDescriptor = errors.New("format: pointer is not a descriptor offset")
)
