package main

import (
	"github.com/spf13/cobra"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <image>",
		Short: "Summarize the header region of an image",
		Long: `The info command reconstructs an image and prints its layout, descriptor
usage, free-list lengths and the number of bytes in each segment kind.`,
		Example: `  heapctl info capture.bin
  heapctl info capture.bin --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.analyze(cmd.Context(), args[0], a.options())
			if err != nil {
				return err
			}
			p, err := a.printer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return p.PrintSummary(res.Summarize())
		},
	}
}
