// Package correlate locates known text fragments in a heap image together
// with the 16-bit little-endian back-references that point at them, and
// tiles the image with the resulting labels.
//
// Matching is a plain byte scan. Every occurrence of a candidate is reported,
// including overlapping ones, and every two-byte window equal to the encoded
// match offset becomes a PointerRef label. Nothing is inferred about which
// references are genuine; that is left to whoever reads the report.
package correlate

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/diag"
	"github.com/joshuapare/heapkit/internal/format"
)

// DefaultCacheSize is the number of pointer scans memoized per Correlate call.
const DefaultCacheSize = 256

// Kind classifies a label.
type Kind uint8

const (
	KindString     Kind = iota // occurrence of a candidate string
	KindPointerRef             // two-byte little-endian reference to a string occurrence
	KindUnknown                // bytes no label accounts for
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindPointerRef:
		return "pointer"
	case KindUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// MarshalText renders the kind by name in JSON and YAML output.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Label is a typed byte range [Offset, Offset+Len) of the image.
type Label struct {
	Offset int  `json:"offset" yaml:"offset"`
	Len    int  `json:"len" yaml:"len"`
	Kind   Kind `json:"kind" yaml:"kind"`

	// Target is the offset a PointerRef encodes.
	Target int `json:"target,omitempty" yaml:"target,omitempty"`

	// Source is the candidate a String label matched.
	Source []byte `json:"-" yaml:"-"`

	// Overlaps is set when the label begins inside an earlier one.
	Overlaps bool `json:"overlaps,omitempty" yaml:"overlaps,omitempty"`

	// Text aliases the image bytes of the label.
	Text []byte `json:"-" yaml:"-"`
}

// End returns one past the last byte of the label.
func (l Label) End() int { return l.Offset + l.Len }

// Describe returns a short stable description used to order labels that
// share an offset and length.
func (l Label) Describe() string {
	switch l.Kind {
	case KindString:
		return "string " + strconv.Quote(string(l.Source))
	case KindPointerRef:
		return fmt.Sprintf("pointer -> %d", l.Target)
	default:
		return l.Kind.String()
	}
}

func (l Label) String() string {
	return fmt.Sprintf("offset=%d, len=%d, kind=%s", l.Offset, l.Len, l.Describe())
}

// Options tunes Correlate.
type Options struct {
	// Workers bounds the number of candidates scanned concurrently. Values
	// below 2 scan sequentially. Output does not depend on it.
	Workers int

	// CacheSize bounds the pointer-scan memo. Zero means DefaultCacheSize.
	CacheSize int

	// Sink receives NotFound findings. Nil drops them.
	Sink diag.Sink

	// Logger receives per-candidate debug records. Nil discards them.
	Logger *slog.Logger
}

// scan is the per-candidate result slot filled by a worker.
type scan struct {
	matches []int
	labels  []Label
}

type correlator struct {
	image []byte
	refs  *lru.Cache[uint16, []int]
}

// Correlate finds every occurrence of each candidate in image and every
// back-reference to those occurrences. Labels are returned grouped by
// candidate in input order, each group holding its String labels followed by
// their PointerRef labels. A candidate with no occurrence yields a NotFound
// finding instead of labels.
func Correlate(image []byte, candidates [][]byte, opts Options) ([]Label, error) {
	if len(image) > format.MaxImageSize {
		return nil, fmt.Errorf("correlate: %w (%d bytes)", format.ErrImageTooLarge, len(image))
	}
	sink := opts.Sink
	if sink == nil {
		sink = diag.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	refs, err := lru.New[uint16, []int](size)
	if err != nil {
		return nil, fmt.Errorf("correlate: pointer cache: %w", err)
	}

	c := &correlator{image: image, refs: refs}
	results := make([]scan, len(candidates))

	workers := min(opts.Workers, len(candidates))
	if workers < 2 {
		for i, cand := range candidates {
			results[i] = c.scan(cand)
		}
	} else {
		jobs := make(chan int, len(candidates))
		var wg sync.WaitGroup
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					results[i] = c.scan(candidates[i])
				}
			}()
		}
		for i := range candidates {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	var labels []Label
	for i, r := range results {
		quoted := strconv.Quote(string(candidates[i]))
		if len(r.matches) == 0 {
			issue := "string not found in image"
			if len(candidates[i]) == 0 {
				issue = "empty candidate string"
			}
			sink.Record(diag.Evidence(diag.SevWarning, diag.CodeNotFound, 0, 0, "LABEL", issue,
				&diag.Context{Candidate: quoted}))
			logger.Debug("candidate not found", "candidate", quoted)
			continue
		}
		logger.Debug("candidate correlated", "candidate", quoted,
			"matches", len(r.matches), "refs", len(r.labels)-len(r.matches))
		labels = append(labels, r.labels...)
	}
	return labels, nil
}

func (c *correlator) scan(cand []byte) scan {
	var r scan
	if len(cand) == 0 {
		return r
	}
	r.matches = occurrences(c.image, cand)
	for _, m := range r.matches {
		r.labels = append(r.labels, Label{
			Offset: m,
			Len:    len(cand),
			Kind:   KindString,
			Source: cand,
			Text:   c.image[m : m+len(cand)],
		})
	}
	for _, m := range r.matches {
		for _, at := range c.pointers(uint16(m)) {
			r.labels = append(r.labels, Label{
				Offset: at,
				Len:    format.FieldSize,
				Kind:   KindPointerRef,
				Target: m,
				Text:   c.image[at : at+format.FieldSize],
			})
		}
	}
	return r
}

// pointers returns every offset holding v little-endian. Results are shared
// through the cache and must not be modified.
func (c *correlator) pointers(v uint16) []int {
	if at, ok := c.refs.Get(v); ok {
		return at
	}
	enc := buf.LE16(v)
	at := occurrences(c.image, enc[:])
	c.refs.Add(v, at)
	return at
}

// occurrences returns the start of every match of pattern in image,
// overlapping matches included.
func occurrences(image, pattern []byte) []int {
	var out []int
	for from := 0; from+len(pattern) <= len(image); {
		i := bytes.Index(image[from:], pattern)
		if i < 0 {
			break
		}
		out = append(out, from+i)
		from += i + 1
	}
	return out
}
