package classify

import (
	"errors"
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

var (
	// ErrCorruptHeaderRegion indicates a bad discriminant or non-zero padding.
	ErrCorruptHeaderRegion = errors.New("classify: corrupt header region")

	// ErrInvalidDescriptor indicates a descriptor matching no classification.
	ErrInvalidDescriptor = errors.New("classify: invalid descriptor")

	// ErrUnusedWithinLiveRange indicates a never-used slot before the last used one.
	ErrUnusedWithinLiveRange = errors.New("classify: unused slot within live range")
)

// DescriptorError describes a slot whose raw fields satisfy none of the
// Alloc, Freed or sentinel predicates.
type DescriptorError struct {
	Index  int
	Raw    format.Descriptor
	Free   bool
	Reason string
}

func (e *DescriptorError) Error() string {
	state := "allocated"
	if e.Free {
		state = "free"
	}
	return fmt.Sprintf("classify: %s slot %d {write=%d read=%d start=%d end=%d}: %s",
		state, e.Index, e.Raw.Write, e.Raw.Read, e.Raw.Start, e.Raw.End, e.Reason)
}

func (e *DescriptorError) Unwrap() error { return ErrInvalidDescriptor }

// UnusedError describes a never-used slot left inside the used prefix.
type UnusedError struct {
	Index int    // offending slot
	Next  uint16 // its sentinel-chain link
	Used  int    // used count the trimmer settled on
}

func (e *UnusedError) Error() string {
	return fmt.Sprintf("classify: slot %d is unused (next=0x%04X) but slots up to %d are in use",
		e.Index, e.Next, e.Used-1)
}

func (e *UnusedError) Unwrap() error { return ErrUnusedWithinLiveRange }
