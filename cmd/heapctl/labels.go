package main

import (
	"errors"

	"github.com/spf13/cobra"

	core "github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/pkg/heap"
)

func newLabelsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labels <image>",
		Short: "Correlate candidate strings against the raw image",
		Long: `The labels command searches the image for each candidate string and for
16-bit little-endian pointers to every occurrence, then tiles the image with
the resulting labels. The header region is not consulted, so this works on
images whose header is damaged.`,
		Example: `  heapctl labels --strings strings.txt capture.bin
  heapctl labels --strings strings.json --workers 4 --json capture.bin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.strPath == "" {
				return errors.New("labels: --strings is required")
			}
			opts := a.options()
			if err := a.loadEvidence(&opts); err != nil {
				return err
			}

			img, err := heap.Open(args[0])
			if err != nil {
				return err
			}
			defer img.Close()
			data := append([]byte(nil), img.Bytes()...)

			labels, report, err := core.Labels(cmd.Context(), data, opts)
			if err != nil {
				return err
			}

			p, err := a.printer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := p.PrintLabels(labels); err != nil {
				return err
			}
			report.ImagePath = args[0]
			a.printFindings(cmd, report)
			return nil
		},
	}
	cmd.Flags().StringVarP(&a.strPath, "strings", "s", "", "Candidate strings: JSON array or one per line")
	return cmd
}
