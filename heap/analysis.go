package heap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joshuapare/heapkit/heap/classify"
	"github.com/joshuapare/heapkit/heap/correlate"
	"github.com/joshuapare/heapkit/heap/freelist"
	"github.com/joshuapare/heapkit/heap/residual"
	"github.com/joshuapare/heapkit/heap/segment"
	"github.com/joshuapare/heapkit/internal/diag"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/pkg/types"
)

// Options controls Analyze.
type Options struct {
	// Layout describes the header region. The zero value selects
	// format.DefaultLayout.
	Layout format.Layout

	// CompatSentinelRead accepts read == 0 on never-used slots.
	CompatSentinelRead bool

	// Candidates are text fragments to correlate. Nil skips correlation.
	Candidates [][]byte

	// Expectations are checked against the non-allocated overlay. Nil skips
	// the residual check.
	Expectations []residual.Expectation

	// Workers and PointerCacheSize tune the correlator.
	Workers          int
	PointerCacheSize int

	// Logger receives phase-level records. Nil discards them.
	Logger *slog.Logger
}

func (o Options) layout() format.Layout {
	if o.Layout == (format.Layout{}) {
		return format.DefaultLayout()
	}
	return o.Layout
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Analysis is the result of a successful reconstruction.
type Analysis struct {
	Layout format.Layout
	Image  []byte

	Region  format.HeaderRegion
	Free    *freelist.Map
	Classes []classify.Class // one per descriptor slot
	Used    int              // length of the used prefix of Classes

	// Segments tile [DataBase, len(Image)).
	Segments []segment.Segment

	// Labels tile [0, len(Image)); nil when no candidates were given.
	Labels []correlate.Label

	// Overlay holds the bytes of every non-Alloc segment.
	Overlay *segment.Overlay

	Report *types.DiagnosticReport
}

// Analyze reconstructs image. ctx is checked between phases; every phase is
// bounded by the image and table sizes.
func Analyze(ctx context.Context, image []byte, opts Options) (*Analysis, error) {
	start := time.Now()
	l := opts.layout()
	logger := opts.logger()
	findings := diag.NewCollector()

	a := &Analysis{Layout: l, Image: image}

	region, err := format.DecodeHeader(image, l)
	if err != nil {
		return nil, err
	}
	a.Region = region
	logger.Debug("header decoded", "size", len(image), "descriptors", len(region.Descriptors))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a.Free, err = freelist.Walk(region, l); err != nil {
		return nil, err
	}
	logger.Debug("free lists walked", "free", a.Free.Len())

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	copts := classify.Options{CompatSentinelRead: opts.CompatSentinelRead}
	if a.Classes, err = classify.Table(region, a.Free, l, len(image), copts); err != nil {
		return nil, err
	}
	if a.Used, err = classify.Trim(a.Classes, l); err != nil {
		return nil, err
	}
	counts := classify.Count(a.Classes[:a.Used])
	logger.Debug("descriptors classified", "used", a.Used, "alloc", counts.Alloc, "freed", counts.Freed)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.Segments = segment.Allocations(a.Classes[:a.Used], l, image, findings)
	a.Overlay = segment.Residual(a.Segments, image)
	logger.Debug("image segmented", "segments", len(a.Segments), "residual_bytes", a.Overlay.Recorded())

	if opts.Candidates != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if a.Labels, err = labels(image, opts, findings, logger); err != nil {
			return nil, err
		}
	}

	if opts.Expectations != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := residual.Check(a.Overlay, image, opts.Expectations); err != nil {
			return nil, err
		}
		logger.Debug("residual expectations hold", "expectations", len(opts.Expectations))
	}

	a.Report = buildReport(findings, len(image), time.Since(start))
	logger.Info("analysis complete",
		"segments", len(a.Segments), "labels", len(a.Labels),
		"findings", len(a.Report.Diagnostics), "elapsed", a.Report.ScanTime)
	return a, nil
}

// Labels runs only the evidence phases. The correlator does not depend on the
// header, so this works on images whose header region is damaged.
func Labels(ctx context.Context, image []byte, opts Options) ([]correlate.Label, *types.DiagnosticReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	start := time.Now()
	findings := diag.NewCollector()
	out, err := labels(image, opts, findings, opts.logger())
	if err != nil {
		return nil, nil, err
	}
	return out, buildReport(findings, len(image), time.Since(start)), nil
}

func labels(image []byte, opts Options, sink diag.Sink, logger *slog.Logger) ([]correlate.Label, error) {
	raw, err := correlate.Correlate(image, opts.Candidates, correlate.Options{
		Workers:   opts.Workers,
		CacheSize: opts.PointerCacheSize,
		Sink:      sink,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	out := correlate.Segment(raw, image, sink)
	logger.Debug("labels segmented", "candidates", len(opts.Candidates), "labels", len(raw))
	return out, nil
}

func buildReport(c *diag.Collector, size int, elapsed time.Duration) *types.DiagnosticReport {
	r := types.NewDiagnosticReport()
	r.ImageSize = size
	r.ScanTime = elapsed
	for _, d := range c.Diagnostics() {
		r.Add(d)
	}
	r.Finalize()
	return r
}

// WithHeader returns the segments prefixed by an Unknown segment covering the
// header region, so that the whole image is tiled from offset 0.
func (a *Analysis) WithHeader() []segment.Segment {
	out := make([]segment.Segment, 0, len(a.Segments)+1)
	out = append(out, segment.Unknown(a.Image, 0, a.Layout.DataBase()))
	return append(out, a.Segments...)
}

// UsedClasses returns the classifications of the used prefix.
func (a *Analysis) UsedClasses() []classify.Class { return a.Classes[:a.Used] }

// Summary condenses an analysis for headers and reports.
type Summary struct {
	Layout      format.Layout   `json:"layout" yaml:"layout"`
	ImageSize   int             `json:"image_size" yaml:"image_size"`
	Descriptors int             `json:"descriptors" yaml:"descriptors"`
	Used        int             `json:"used" yaml:"used"`
	Counts      classify.Counts `json:"counts" yaml:"counts"`
	FreeLists   []FreeList      `json:"free_lists" yaml:"free_lists"`
	Segments    map[string]int  `json:"segment_bytes" yaml:"segment_bytes"`
}

// FreeList describes one free-list root.
type FreeList struct {
	Root     int    `json:"root" yaml:"root"`
	Capacity int    `json:"capacity,omitempty" yaml:"capacity,omitempty"` // 0 for the sentinel list
	Head     uint16 `json:"head" yaml:"head"`
	Length   int    `json:"length" yaml:"length"`
}

// Summarize reports the layout, slot usage, free-list lengths and bytes per
// segment kind.
func (a *Analysis) Summarize() Summary {
	s := Summary{
		Layout:      a.Layout,
		ImageSize:   len(a.Image),
		Descriptors: len(a.Classes),
		Used:        a.Used,
		Counts:      classify.Count(a.Classes),
		Segments:    make(map[string]int),
	}
	for root, head := range a.Region.Roots {
		fl := FreeList{Root: root, Head: head, Length: len(a.Free.Chains[root])}
		if root != a.Layout.SentinelRoot() {
			fl.Capacity = a.Layout.ClassCapacity(root)
		}
		s.FreeLists = append(s.FreeLists, fl)
	}
	for _, seg := range a.Segments {
		s.Segments[seg.Kind.String()] += seg.Len()
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d bytes, %d/%d slots used (%d alloc, %d freed)",
		s.ImageSize, s.Used, s.Descriptors, s.Counts.Alloc, s.Counts.Freed)
}
