package main

import (
	"errors"

	"github.com/spf13/cobra"

	core "github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/pkg/types"
)

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <image>",
		Short: "Run the full reconstruction and report every finding",
		Long: `The check command runs every phase, including string correlation and the
residual check when --strings and --expect are given, and prints a diagnostic
report. A phase that aborts is reported as a CRITICAL finding.

Exit status is 0 when no errors were found, 1 for soft errors such as
overlapping allocations, and 2 when the image violates the allocator's
invariants.`,
		Example: `  heapctl check capture.bin
  heapctl check --strings strings.txt --expect leftovers.yaml capture.bin
  heapctl check --format json capture.bin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.options()
			if err := a.loadEvidence(&opts); err != nil {
				return err
			}

			res, err := a.analyze(cmd.Context(), args[0], opts)
			var report *types.DiagnosticReport
			switch {
			case err == nil:
				report = res.Report
			case core.IsContractViolation(err):
				report = types.NewDiagnosticReport()
				report.ImagePath = args[0]
				report.Add(core.Failure(err, opts.Layout))
				report.Finalize()
			default:
				return err
			}

			p, perr := a.printer(cmd.OutOrStdout())
			if perr != nil {
				return perr
			}
			if perr := p.PrintReport(report); perr != nil {
				return perr
			}

			switch {
			case report.HasCriticalIssues():
				return &exitError{code: exitContract, err: err}
			case report.HasErrors():
				return &exitError{code: exitFailure, err: errors.New("check: errors found")}
			}
			a.printInfo(cmd, "%s: ok (%s)\n", args[0], res.Summarize())
			return nil
		},
	}
	cmd.Flags().StringVarP(&a.strPath, "strings", "s", "", "Candidate strings: JSON array or one per line")
	cmd.Flags().StringVarP(&a.expPath, "expect", "e", "", "Residual expectations (JSON or YAML)")
	return cmd
}
