package diag

import "sync"

// Sink receives findings as they are produced.
type Sink interface {
	Record(d Diagnostic)
}

// Collector accumulates findings for one analysis. A nil *Collector is a
// valid Sink that drops everything, so producers never need a nil check.
type Collector struct {
	mu    sync.Mutex // correlator workers record concurrently
	items []Diagnostic
}

// NewCollector creates an empty collector.
func NewCollector() *Collector { return &Collector{} }

// Record adds a finding.
func (c *Collector) Record(d Diagnostic) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, d)
}

// Diagnostics returns a copy of the collected findings in record order.
func (c *Collector) Diagnostics() []Diagnostic {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of findings recorded so far.
func (c *Collector) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Discard is a Sink that drops every finding.
var Discard Sink = (*Collector)(nil)

// Helper functions for creating common findings

// Structural creates a finding about the header region or descriptor table.
func Structural(sev Severity, code Code, offset int, structure, issue string, expected, actual any) Diagnostic {
	return Diagnostic{
		Severity:  sev,
		Category:  CatStructure,
		Code:      code,
		Offset:    offset,
		Structure: structure,
		Issue:     issue,
		Expected:  expected,
		Actual:    actual,
	}
}

// Data creates a finding about a segment range.
func Data(sev Severity, code Code, offset, length int, structure, issue string, ctx *Context) Diagnostic {
	return Diagnostic{
		Severity:  sev,
		Category:  CatData,
		Code:      code,
		Offset:    offset,
		Length:    length,
		Structure: structure,
		Issue:     issue,
		Context:   ctx,
	}
}

// Evidence creates a finding about string or back-reference correlation.
func Evidence(sev Severity, code Code, offset, length int, structure, issue string, ctx *Context) Diagnostic {
	return Diagnostic{
		Severity:  sev,
		Category:  CatEvidence,
		Code:      code,
		Offset:    offset,
		Length:    length,
		Structure: structure,
		Issue:     issue,
		Context:   ctx,
	}
}
