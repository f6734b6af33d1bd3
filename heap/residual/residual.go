// Package residual cross-checks the bytes a reconstruction left unaccounted
// for against independently known leftovers, such as text a program is known
// to have written and later freed.
package residual

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/joshuapare/heapkit/heap/segment"
	"github.com/joshuapare/heapkit/internal/buf"
)

// ErrResidualMismatch indicates an expectation that disagrees with the overlay.
var ErrResidualMismatch = errors.New("residual: overlay disagrees with expectation")

// Expectation is text expected to survive at Offset in non-allocated space.
type Expectation struct {
	Offset int    `json:"offset" yaml:"offset"`
	Text   string `json:"text" yaml:"text"`
}

// MismatchError describes the first disagreeing byte. The windows are clipped
// to the expectation's span.
type MismatchError struct {
	Offset   int    // expectation offset
	Index    int    // position of the bad byte within the expectation
	Expected []byte // expectation text
	Image    []byte // image bytes under the span
	Overlay  []byte // overlay bytes under the span, unrecorded bytes as zero
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("residual: mismatch at %d (expectation at %d, index %d): expected %s, overlay %s, image %s",
		e.Offset+e.Index, e.Offset, e.Index,
		strconv.Quote(string(e.Expected)), strconv.Quote(string(e.Overlay)), strconv.Quote(string(e.Image)))
}

func (e *MismatchError) Unwrap() error { return ErrResidualMismatch }

// Check compares each expectation, in order, against the overlay. Positions
// the overlay never recorded are skipped, as are positions outside it. The
// first disagreeing byte aborts with *MismatchError.
func Check(overlay *segment.Overlay, image []byte, expectations []Expectation) error {
	for _, exp := range expectations {
		for i := 0; i < len(exp.Text); i++ {
			got, ok := overlay.Get(exp.Offset + i)
			if !ok || got == exp.Text[i] {
				continue
			}
			end := exp.Offset + len(exp.Text)
			return &MismatchError{
				Offset:   exp.Offset,
				Index:    i,
				Expected: []byte(exp.Text),
				Image:    append([]byte(nil), buf.Clip(image, exp.Offset, end)...),
				Overlay:  overlay.Window(exp.Offset, end),
			}
		}
	}
	return nil
}

// Coverage reports how many bytes of each expectation the overlay recorded.
// It lets callers tell a vacuous pass from a checked one.
func Coverage(overlay *segment.Overlay, expectations []Expectation) []int {
	out := make([]int, len(expectations))
	for k, exp := range expectations {
		for i := 0; i < len(exp.Text); i++ {
			if _, ok := overlay.Get(exp.Offset + i); ok {
				out[k]++
			}
		}
	}
	return out
}
