package printer

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/correlate"
	"github.com/joshuapare/heapkit/heap/segment"
	"github.com/joshuapare/heapkit/pkg/types"
)

// segmentView is a segment with its recovered text rendered for output.
type segmentView struct {
	segment.Segment `yaml:",inline"`
	Text            string `json:"text,omitempty" yaml:"text,omitempty"`
}

// labelView is a label with its candidate and text rendered for output.
type labelView struct {
	correlate.Label `yaml:",inline"`
	Source          string `json:"source,omitempty" yaml:"source,omitempty"`
	Text            string `json:"text,omitempty" yaml:"text,omitempty"`
}

func (p *Printer) segmentViews(segs []segment.Segment) []segmentView {
	out := make([]segmentView, len(segs))
	for i, s := range segs {
		out[i] = segmentView{Segment: s}
		if p.opts.ShowText {
			out[i].Text = p.plain(s.Text)
		}
	}
	return out
}

func (p *Printer) labelViews(labels []correlate.Label) []labelView {
	out := make([]labelView, len(labels))
	for i, l := range labels {
		out[i] = labelView{Label: l, Source: string(l.Source)}
		if p.opts.ShowText {
			out[i].Text = p.plain(l.Text)
		}
	}
	return out
}

// plain decodes recovered bytes without quoting or truncation.
func (p *Printer) plain(b []byte) string {
	if p.decoder != nil {
		if decoded, err := p.decoder.Bytes(b); err == nil {
			return string(decoded)
		}
	}
	return string(b)
}

// encode writes v as an indented JSON or YAML document.
func (p *Printer) encode(v any) error {
	switch p.opts.Format {
	case FormatYAML:
		enc := yaml.NewEncoder(p.writer)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("printer: yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(p.writer)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("printer: json: %w", err)
		}
		return nil
	}
}

// PrintSegments prints segments in the configured format.
func (p *Printer) PrintSegments(segs []segment.Segment) error {
	if p.opts.Format == FormatText || p.opts.Format == "" {
		return segment.Stream(segs, p.SegmentSink())
	}
	return p.encode(map[string]any{"segments": p.segmentViews(segs)})
}

// PrintLabels prints labels in the configured format.
func (p *Printer) PrintLabels(labels []correlate.Label) error {
	if p.opts.Format == FormatText || p.opts.Format == "" {
		return segment.Stream(labels, p.LabelSink())
	}
	return p.encode(map[string]any{"labels": p.labelViews(labels)})
}

// PrintSummary prints a header dump.
func (p *Printer) PrintSummary(s heap.Summary) error {
	if p.opts.Format == FormatText || p.opts.Format == "" {
		return p.printSummaryText(s)
	}
	return p.encode(s)
}

// PrintReport prints a diagnostic report. Text output uses the compact
// one-line-per-finding form.
func (p *Printer) PrintReport(r *types.DiagnosticReport) error {
	if p.opts.Format == FormatText || p.opts.Format == "" {
		_, err := fmt.Fprint(p.writer, r.FormatTextCompact())
		return err
	}
	return p.encode(r)
}
