// Package heap reconstructs the allocator state of a captured fixed-size heap
// image.
//
// # Overview
//
// An image starts with a header region (free-list roots, a discriminant, the
// descriptor table and zero padding) followed by the data area. Analyze runs
// the phases in order:
//
//	format.DecodeHeader   raw fields, bounds-checked
//	freelist.Walk         free-list membership per slot
//	classify.Table        Alloc / Freed / Unused per slot
//	classify.Trim         length of the used prefix
//	segment.Allocations   typed segments tiling the data area
//
// and, when asked, the evidence phases:
//
//	correlate.Correlate   candidate strings and their back-references
//	correlate.Segment     labels tiling the whole image
//	residual.Check        expected leftovers against non-allocated bytes
//
// # Errors and findings
//
// A violated structural invariant aborts the analysis with an error that
// matches one of the package sentinels through errors.Is. Anything that does
// not break the reconstruction (a string that was never found, two blocks
// claiming the same bytes) is recorded as a finding in Analysis.Report.
//
//	a, err := heap.Analyze(ctx, image, heap.Options{Candidates: strs})
//	if err != nil {
//	    report := types.NewDiagnosticReport()
//	    report.Add(heap.Failure(err, format.DefaultLayout()))
//	    ...
//	}
//	for _, s := range a.WithHeader() {
//	    fmt.Println(s)
//	}
//
// The image is never modified and no phase keeps state between calls, so an
// Analysis can be shared freely once returned.
package heap
