package heap

import (
	"errors"

	"github.com/joshuapare/heapkit/heap/classify"
	"github.com/joshuapare/heapkit/heap/freelist"
	"github.com/joshuapare/heapkit/heap/residual"
	"github.com/joshuapare/heapkit/internal/diag"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/pkg/types"
)

// contractErrors are the sentinels that mean the image violates the
// allocator's invariants, as opposed to I/O or usage failures.
var contractErrors = []error{
	format.ErrTruncatedImage,
	format.ErrImageTooLarge,
	freelist.ErrInvalidFreeLink,
	freelist.ErrDuplicateFreeSlot,
	classify.ErrCorruptHeaderRegion,
	classify.ErrInvalidDescriptor,
	classify.ErrUnusedWithinLiveRange,
	residual.ErrResidualMismatch,
}

// IsContractViolation reports whether err is a hard structural error raised by
// one of the reconstruction phases.
func IsContractViolation(err error) bool {
	for _, target := range contractErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Failure converts an error returned by Analyze into a CRITICAL diagnostic,
// locating it in the image where the error carries enough detail.
func Failure(err error, l format.Layout) types.Diagnostic {
	d := types.Diagnostic{
		Severity:  types.SevCritical,
		Category:  types.DiagStructure,
		Code:      diag.CodeInternal,
		Structure: "IMAGE",
		Issue:     err.Error(),
	}

	var (
		slotErr     *freelist.FreeSlotError
		linkErr     *freelist.LinkError
		descErr     *classify.DescriptorError
		unusedErr   *classify.UnusedError
		mismatchErr *residual.MismatchError
	)
	switch {
	case errors.As(err, &slotErr):
		d.Code, d.Structure = diag.CodeDuplicateFreeSlot, "FREELIST"
		d.Offset = l.SlotOffset(slotErr.Slot)
		d.Context = &diag.Context{Slot: &slotErr.Slot, List: &slotErr.List}
	case errors.As(err, &linkErr):
		d.Code, d.Structure = diag.CodeInvalidFreeLink, "FREELIST"
		d.Offset = linkErr.List * format.FieldSize
		if linkErr.From >= 0 {
			d.Offset = l.SlotOffset(linkErr.From) + format.DescWriteOffset
		}
		d.Actual = linkErr.Ptr
		d.Context = &diag.Context{List: &linkErr.List}
	case errors.As(err, &descErr):
		d.Code, d.Structure = diag.CodeInvalidDescriptor, "DESCRIPTOR"
		d.Offset, d.Length = l.SlotOffset(descErr.Index), format.DescriptorSize
		d.Actual = descErr.Raw
		d.Context = diag.SlotContext(descErr.Index)
	case errors.As(err, &unusedErr):
		d.Code, d.Structure = diag.CodeUnusedWithinLiveRange, "DESCRIPTOR"
		d.Offset, d.Length = l.SlotOffset(unusedErr.Index), format.DescriptorSize
		d.Context = diag.SlotContext(unusedErr.Index)
	case errors.As(err, &mismatchErr):
		d.Code, d.Structure, d.Category = diag.CodeResidualMismatch, "OVERLAY", types.DiagIntegrity
		d.Offset, d.Length = mismatchErr.Offset, len(mismatchErr.Expected)
		d.Expected = string(mismatchErr.Expected)
		d.Actual = string(mismatchErr.Overlay)
	case errors.Is(err, classify.ErrCorruptHeaderRegion):
		d.Code, d.Structure = diag.CodeCorruptHeaderRegion, "HEADER"
		d.Offset = l.DiscriminantOffset()
	case errors.Is(err, format.ErrTruncatedImage):
		d.Code, d.Structure = diag.CodeTruncatedImage, "HEADER"
	case errors.Is(err, format.ErrImageTooLarge):
		d.Code = diag.CodeImageTooLarge
	case errors.Is(err, format.ErrInvalidLayout):
		d.Code, d.Structure = diag.CodeInvalidLayout, "LAYOUT"
	}
	return d
}
