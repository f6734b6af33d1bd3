// Package diag defines the soft-finding records collected while reconstructing
// a heap image. Findings are data: they carry offsets and expected/actual
// values and never abort an analysis.
package diag

// Severity classifies how serious a finding is.
type Severity int

const (
	SevInfo     Severity = iota // Informational (unusual but valid)
	SevWarning                  // Heuristic evidence is incomplete or ambiguous
	SevError                    // Reconstruction is inconsistent but could continue
	SevCritical                 // Contract violation that aborted the analysis
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	case SevCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the severity by name in JSON and YAML reports.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Category classifies the type of issue found.
type Category int

const (
	CatStructure Category = iota // Header region, descriptors, free lists
	CatData                      // Segment bounds and recovered bytes
	CatIntegrity                 // Cross-checks between independent sources
	CatEvidence                  // String and back-reference correlation
)

func (c Category) String() string {
	switch c {
	case CatStructure:
		return "STRUCTURE"
	case CatData:
		return "DATA"
	case CatIntegrity:
		return "INTEGRITY"
	case CatEvidence:
		return "EVIDENCE"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the category by name in JSON and YAML reports.
func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Code is a stable machine-readable identifier for a kind of finding.
type Code string

const (
	// Soft findings.
	CodeNotFound               Code = "not_found"
	CodeOverlappingAllocations Code = "overlapping_allocations"
	CodeOverlappingLabels      Code = "overlapping_labels"
	CodeFreedPastImageEnd      Code = "freed_past_image_end"

	// Hard errors, recorded as CRITICAL when a caller folds an aborted run
	// into a report.
	CodeTruncatedImage         Code = "truncated_image"
	CodeImageTooLarge          Code = "image_too_large"
	CodeInvalidLayout          Code = "invalid_layout"
	CodeInvalidFreeLink        Code = "invalid_free_link"
	CodeDuplicateFreeSlot      Code = "duplicate_free_slot"
	CodeCorruptHeaderRegion    Code = "corrupt_header_region"
	CodeInvalidDescriptor      Code = "invalid_descriptor"
	CodeUnusedWithinLiveRange  Code = "unused_within_live_range"
	CodeResidualMismatch       Code = "residual_mismatch"
	CodeInternal               Code = "internal"
)

// Diagnostic represents a single finding in the image.
type Diagnostic struct {
	// Classification
	Severity Severity `json:"severity" yaml:"severity"`
	Category Category `json:"category" yaml:"category"`
	Code     Code     `json:"code" yaml:"code"`

	// Location
	Offset    int    `json:"offset" yaml:"offset"`                   // Absolute byte offset in the image
	Length    int    `json:"length,omitempty" yaml:"length,omitempty"` // Extent of the affected range
	Structure string `json:"structure" yaml:"structure"`             // "HEADER", "FREELIST", "SEGMENT", "LABEL", ...

	// Description
	Issue    string `json:"issue" yaml:"issue"`
	Expected any    `json:"expected,omitempty" yaml:"expected,omitempty"`
	Actual   any    `json:"actual,omitempty" yaml:"actual,omitempty"`

	// Context (optional)
	Context *Context `json:"context,omitempty" yaml:"context,omitempty"`
}

// Context ties a finding back to the record that produced it.
type Context struct {
	Slot      *int   `json:"slot,omitempty" yaml:"slot,omitempty"`           // Descriptor slot index
	List      *int   `json:"list,omitempty" yaml:"list,omitempty"`           // Free-list root index
	Candidate string `json:"candidate,omitempty" yaml:"candidate,omitempty"` // Candidate string, quoted
}

// SlotContext returns a context naming descriptor slot i.
func SlotContext(i int) *Context { return &Context{Slot: &i} }
