package segment

import "fmt"

// Kind classifies a segment.
type Kind uint8

const (
	KindAlloc   Kind = iota // bytes written into a live block
	KindSlack               // unwritten tail of a live block
	KindFreed               // block on a free list
	KindUnknown             // bytes no descriptor accounts for
)

func (k Kind) String() string {
	switch k {
	case KindAlloc:
		return "alloc"
	case KindSlack:
		return "slack"
	case KindFreed:
		return "freed"
	case KindUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// MarshalText renders the kind by name in JSON and YAML output.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// NoSlot marks a segment that no descriptor produced.
const NoSlot = -1

// Segment is a typed byte range [Start, End) of the image.
type Segment struct {
	Start int  `json:"start" yaml:"start"`
	End   int  `json:"end" yaml:"end"`
	Kind  Kind `json:"kind" yaml:"kind"`
	Slot  int  `json:"slot" yaml:"slot"` // descriptor index, or NoSlot

	// Truncated is set when the block ran past the end of the image.
	// NominalEnd then holds the end recorded in the descriptor.
	Truncated  bool `json:"truncated,omitempty" yaml:"truncated,omitempty"`
	NominalEnd int  `json:"nominal_end,omitempty" yaml:"nominal_end,omitempty"`

	// Overlaps is set when the segment begins inside an earlier one.
	Overlaps bool `json:"overlaps,omitempty" yaml:"overlaps,omitempty"`

	// Text aliases the image bytes of the segment.
	Text []byte `json:"-" yaml:"-"`
}

// Len returns the segment length in bytes.
func (s Segment) Len() int { return s.End - s.Start }

func (s Segment) String() string {
	return fmt.Sprintf("(%d, %d, %s)", s.Start, s.End, s.Kind)
}

// Unknown returns an Unknown segment over image[start:end].
func Unknown(image []byte, start, end int) Segment {
	return Segment{Start: start, End: end, Kind: KindUnknown, Slot: NoSlot, Text: clip(image, start, end)}
}

func bounds(s Segment) (int, int) { return s.Start, s.End }
