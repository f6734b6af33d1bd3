package freelist

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFreeLink indicates a root or link that does not address a descriptor slot.
	ErrInvalidFreeLink = errors.New("freelist: link is not a descriptor offset")

	// ErrDuplicateFreeSlot indicates a slot reached twice while walking the free lists.
	ErrDuplicateFreeSlot = errors.New("freelist: slot referenced multiple times")
)

// FreeSlotError describes the second visit of a slot.
type FreeSlotError struct {
	Slot      int    // descriptor index reached twice
	Ptr       uint16 // pointer that reached it the second time
	List      int    // root being walked at the second visit
	FirstList int    // root whose walk reached it first
}

func (e *FreeSlotError) Error() string {
	if e.List == e.FirstList {
		return fmt.Sprintf("freelist: slot %d (0x%04X) revisited within list %d",
			e.Slot, e.Ptr, e.List)
	}
	return fmt.Sprintf("freelist: slot %d (0x%04X) on list %d already on list %d",
		e.Slot, e.Ptr, e.List, e.FirstList)
}

func (e *FreeSlotError) Unwrap() error { return ErrDuplicateFreeSlot }

// LinkError describes a root or link pointer outside the descriptor table.
type LinkError struct {
	List int    // root being walked
	From int    // slot whose link held Ptr, or -1 for the root itself
	Ptr  uint16 // offending pointer
	Err  error  // layout error explaining the rejection
}

func (e *LinkError) Error() string {
	if e.From < 0 {
		return fmt.Sprintf("freelist: root %d: %v", e.List, e.Err)
	}
	return fmt.Sprintf("freelist: list %d: link in slot %d: %v", e.List, e.From, e.Err)
}

func (e *LinkError) Unwrap() []error { return []error{ErrInvalidFreeLink, e.Err} }
