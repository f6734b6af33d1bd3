package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joshuapare/heapkit/internal/diag"
)

// -----------------------------------------------------------------------------
// Findings
// -----------------------------------------------------------------------------
//
// Soft findings are collected in a DiagnosticReport threaded through the
// reconstruction pipeline. Hard errors abort the pipeline; callers that want a
// single document can fold them in as CRITICAL entries with AddError.

// Severity classifies how serious a finding is
// Re-exported from internal/diag for public API
type Severity = diag.Severity

const (
	SevInfo     = diag.SevInfo     // Informational (unusual but valid)
	SevWarning  = diag.SevWarning  // Heuristic evidence is incomplete or ambiguous
	SevError    = diag.SevError    // Reconstruction is inconsistent but could continue
	SevCritical = diag.SevCritical // Contract violation that aborted the analysis
)

// DiagCategory classifies the type of issue found
// Re-exported from internal/diag for public API
type DiagCategory = diag.Category

const (
	DiagStructure = diag.CatStructure
	DiagData      = diag.CatData
	DiagIntegrity = diag.CatIntegrity
	DiagEvidence  = diag.CatEvidence
)

// DiagCode is a stable identifier for a kind of finding
// Re-exported from internal/diag for public API
type DiagCode = diag.Code

// Diagnostic represents a single finding
// Re-exported from internal/diag for public API
type Diagnostic = diag.Diagnostic

// DiagContext ties a finding back to a descriptor slot, list, or candidate
// Re-exported from internal/diag for public API
type DiagContext = diag.Context

// DiagnosticReport collects all findings of one analysis run
type DiagnosticReport struct {
	// Metadata
	RunID     string        `json:"run_id" yaml:"run_id"`
	ImagePath string        `json:"image_path,omitempty" yaml:"image_path,omitempty"`
	ImageSize int           `json:"image_size" yaml:"image_size"`
	ScanTime  time.Duration `json:"scan_time" yaml:"scan_time"`

	// Issues
	Diagnostics []Diagnostic `json:"diagnostics" yaml:"diagnostics"`

	// Summary statistics
	Summary DiagSummary `json:"summary" yaml:"summary"`

	// Pre-computed groupings for efficient querying
	BySeverity map[Severity][]Diagnostic `json:"-" yaml:"-"`
	ByOffset   []Diagnostic              `json:"-" yaml:"-"` // sorted by offset
}

// DiagSummary provides quick statistics
type DiagSummary struct {
	Critical int `json:"critical" yaml:"critical"`
	Errors   int `json:"errors" yaml:"errors"`
	Warnings int `json:"warnings" yaml:"warnings"`
	Info     int `json:"info" yaml:"info"`
}

// NewDiagnosticReport creates an empty report stamped with a fresh run ID
func NewDiagnosticReport() *DiagnosticReport {
	return &DiagnosticReport{
		RunID:      uuid.NewString(),
		BySeverity: make(map[Severity][]Diagnostic),
	}
}

// Add adds a diagnostic to the report and updates indices
func (r *DiagnosticReport) Add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)

	switch d.Severity {
	case SevCritical:
		r.Summary.Critical++
	case SevError:
		r.Summary.Errors++
	case SevWarning:
		r.Summary.Warnings++
	case SevInfo:
		r.Summary.Info++
	}

	if r.BySeverity == nil {
		r.BySeverity = make(map[Severity][]Diagnostic)
	}
	r.BySeverity[d.Severity] = append(r.BySeverity[d.Severity], d)
}

// AddError records an aborting error as a CRITICAL diagnostic. code and
// offset come from whichever typed error the pipeline returned.
func (r *DiagnosticReport) AddError(code DiagCode, offset int, structure string, err error) {
	r.Add(Diagnostic{
		Severity:  SevCritical,
		Category:  DiagStructure,
		Code:      code,
		Offset:    offset,
		Structure: structure,
		Issue:     err.Error(),
	})
}

// Finalize sorts diagnostics by offset and prepares for output
func (r *DiagnosticReport) Finalize() {
	r.ByOffset = make([]Diagnostic, len(r.Diagnostics))
	copy(r.ByOffset, r.Diagnostics)
	sort.SliceStable(r.ByOffset, func(i, j int) bool {
		return r.ByOffset[i].Offset < r.ByOffset[j].Offset
	})
}

// HasCriticalIssues returns true if any critical issues were found
func (r *DiagnosticReport) HasCriticalIssues() bool {
	return r.Summary.Critical > 0
}

// HasErrors returns true if any errors or critical issues were found
func (r *DiagnosticReport) HasErrors() bool {
	return r.Summary.Critical > 0 || r.Summary.Errors > 0
}

// HasAnyIssues returns true if any issues were found (including warnings and info)
func (r *DiagnosticReport) HasAnyIssues() bool {
	return len(r.Diagnostics) > 0
}

// ByCode returns the diagnostics carrying code, in insertion order
func (r *DiagnosticReport) ByCode(code DiagCode) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// -----------------------------------------------------------------------------
// Output Formatters
// -----------------------------------------------------------------------------

// FormatJSON returns the report as formatted JSON (2-space indentation)
func (r *DiagnosticReport) FormatJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatText returns a human-readable text report
func (r *DiagnosticReport) FormatText() string {
	var b strings.Builder

	b.WriteString(strings.Repeat("=", 79) + "\n")
	b.WriteString("Heap Image Diagnostic Report\n")
	b.WriteString(strings.Repeat("=", 79) + "\n\n")

	if r.ImagePath != "" {
		b.WriteString(fmt.Sprintf("Image:     %s\n", r.ImagePath))
	}
	b.WriteString(fmt.Sprintf("Run:       %s\n", r.RunID))
	b.WriteString(fmt.Sprintf("Size:      %d bytes\n", r.ImageSize))
	b.WriteString(fmt.Sprintf("Scan time: %v\n\n", r.ScanTime))

	b.WriteString("SUMMARY\n")
	b.WriteString(strings.Repeat("-", 79) + "\n")
	b.WriteString(fmt.Sprintf("  Critical: %d\n", r.Summary.Critical))
	b.WriteString(fmt.Sprintf("  Errors:   %d\n", r.Summary.Errors))
	b.WriteString(fmt.Sprintf("  Warnings: %d\n", r.Summary.Warnings))
	b.WriteString(fmt.Sprintf("  Info:     %d\n\n", r.Summary.Info))

	if len(r.Diagnostics) == 0 {
		b.WriteString("No issues found.\n")
		return b.String()
	}

	b.WriteString("DIAGNOSTICS\n")
	b.WriteString(strings.Repeat("-", 79) + "\n\n")

	for _, severity := range []Severity{SevCritical, SevError, SevWarning, SevInfo} {
		diags := r.BySeverity[severity]
		if len(diags) == 0 {
			continue
		}

		b.WriteString(fmt.Sprintf("%s (%d)\n", severity, len(diags)))
		b.WriteString(strings.Repeat("~", 79) + "\n")

		for i, d := range diags {
			b.WriteString(fmt.Sprintf("\n%d. [%s/%s] %s at offset 0x%04X\n",
				i+1, d.Structure, d.Category, d.Code, d.Offset))
			b.WriteString(fmt.Sprintf("   %s\n", d.Issue))
			if d.Expected != nil {
				b.WriteString(fmt.Sprintf("   Expected: %v\n", d.Expected))
			}
			if d.Actual != nil {
				b.WriteString(fmt.Sprintf("   Actual:   %v\n", d.Actual))
			}
			if d.Context != nil {
				if d.Context.Slot != nil {
					b.WriteString(fmt.Sprintf("   Slot:     %d\n", *d.Context.Slot))
				}
				if d.Context.List != nil {
					b.WriteString(fmt.Sprintf("   List:     %d\n", *d.Context.List))
				}
				if d.Context.Candidate != "" {
					b.WriteString(fmt.Sprintf("   String:   %s\n", d.Context.Candidate))
				}
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

// FormatTextCompact returns a compact one-line-per-issue text format
func (r *DiagnosticReport) FormatTextCompact() string {
	var b strings.Builder

	for _, d := range r.ByOffset {
		b.WriteString(fmt.Sprintf("0x%04X [%s/%s/%s] %s\n",
			d.Offset, d.Severity, d.Structure, d.Code, d.Issue))
	}

	if len(r.Diagnostics) == 0 {
		b.WriteString("No issues found.\n")
	}

	return b.String()
}
