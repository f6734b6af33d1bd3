package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/pkg/types"
)

func newSegmentsCmd(a *app) *cobra.Command {
	var noHeader bool
	cmd := &cobra.Command{
		Use:   "segments <image>",
		Short: "Partition the data area into allocated, slack, freed and unknown segments",
		Long: `The segments command prints the segments tiling the image, one per line.
By default an unknown segment covering the header region comes first so
that the output tiles the image from offset 0.`,
		Example: `  heapctl segments capture.bin
  heapctl segments --no-header --json capture.bin
  heapctl segments --charset cp437 --max-text 0 capture.bin.zst`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.analyze(cmd.Context(), args[0], a.options())
			if err != nil {
				return err
			}
			segs := res.Segments
			if !noHeader {
				segs = res.WithHeader()
			}

			p, err := a.printer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := p.PrintSegments(segs); err != nil {
				return err
			}
			a.printFindings(cmd, res.Report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "Start at the data area instead of offset 0")
	return cmd
}

// printFindings writes soft findings to stderr in compact form.
func (a *app) printFindings(cmd *cobra.Command, r *types.DiagnosticReport) {
	if r == nil || !r.HasAnyIssues() {
		return
	}
	a.printInfo(cmd, "\n%d finding(s):\n%s", len(r.Diagnostics), r.FormatTextCompact())
	if r.HasErrors() {
		fmt.Fprintln(cmd.ErrOrStderr(), "Run `heapctl check` for the full report.")
	}
}
