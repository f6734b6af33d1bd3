// Package segment tiles a heap image's data area with typed segments.
//
// # Overview
//
// Allocations converts the used descriptor prefix into segments:
//
//	Alloc   [start, start+len)       bytes the program wrote
//	Slack   [start+len, start+cap)   tail of a live block that was never written
//	Freed   [start, start+cap)       block sitting on a free list
//
// The segments are sorted and handed to Partition, which walks a cursor from
// the data base to the end of the image and fills every gap with an Unknown
// segment. The result covers the data area with no holes; overlaps are kept
// and reported as findings rather than guessed around.
//
// Partition is generic so the correlator's label layer can reuse it.
//
// # Overlay
//
// NewOverlay records the image bytes of every non-Alloc segment in a sparse
// byte map. The residual checker compares expected leftovers against it.
package segment
