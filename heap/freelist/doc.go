// Package freelist follows the free-list chains rooted in a heap image's
// header region and records which descriptor slots they reach.
//
// # Overview
//
// The header region starts with one root pointer per size class plus a final
// sentinel root. Each non-zero root addresses a descriptor slot; while a slot
// sits on a free list its write field is reused as the link to the next slot.
// A zero link ends the chain.
//
// Walk visits the roots in array order and follows each chain iteratively.
// A bitmap visited set makes a second visit of any slot an error, which
// catches cycles inside one chain as well as a slot aliased by two chains:
//
//	region, err := format.DecodeHeader(image, layout)
//	if err != nil {
//	    return err
//	}
//	m, err := freelist.Walk(region, layout)
//	if errors.Is(err, freelist.ErrDuplicateFreeSlot) {
//	    var dup *freelist.FreeSlotError
//	    errors.As(err, &dup)
//	    log.Printf("slot %d reached twice (lists %d and %d)", dup.Slot, dup.FirstList, dup.List)
//	}
//
// The walk never reads past the descriptor table and never follows more links
// than there are slots, so a corrupted image cannot make it loop.
package freelist
