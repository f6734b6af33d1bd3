/*
Package heap is the file-level entry point for reconstructing captured heap
images.

# Quick Start

Open a capture and reconstruct it:

	img, err := heap.Open("capture.bin")
	if err != nil {
	    log.Fatal(err)
	}
	defer img.Close()

	a, err := heap.Analyze(ctx, img.Bytes(), heap.Options{})
	if err != nil {
	    log.Fatal(err)
	}
	for _, seg := range a.Segments {
	    fmt.Println(seg)
	}

Captures compressed with zstd (".zst") are decompressed transparently.

# Evidence

Candidate strings and residual expectations are usually kept next to the
capture:

	candidates, _ := heap.LoadStrings("strings.json")
	expectations, _ := heap.LoadExpectations("leftovers.yaml")

	a, err := heap.Analyze(ctx, img.Bytes(), heap.Options{
	    Candidates:   candidates,
	    Expectations: expectations,
	})

A strings file is either a JSON array of strings or plain text with one
candidate per line. Expectation files are JSON or YAML lists of
{offset, text} records.
*/
package heap
