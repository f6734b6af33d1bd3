package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	core "github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/printer"
	"github.com/joshuapare/heapkit/internal/config"
	"github.com/joshuapare/heapkit/internal/logging"
	"github.com/joshuapare/heapkit/pkg/heap"
)

// Exit codes.
const (
	exitOK       = 0
	exitFailure  = 1 // usage, I/O, or soft errors in a check
	exitContract = 2 // the image violates the allocator's invariants
)

// exitError carries an exit code chosen by a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// app holds the global flags and everything PersistentPreRunE resolves from
// them. One app backs one command tree.
type app struct {
	// Global flags
	verbose  bool
	quiet    bool
	jsonOut  bool
	noColor  bool
	cfgPath  string
	format   string
	charset  string
	maxText  int
	compat   bool
	workers  int
	noText   bool
	strPath  string
	expPath  string
	cfg      *config.Config
	logger   *slog.Logger
	logClose io.Closer
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}
	root := &cobra.Command{
		Use:   "heapctl",
		Short: "Reconstruct the layout of captured fixed-size heap images",
		Long: `heapctl decodes the header region of a heap image, walks its free lists,
classifies every block descriptor and partitions the data area into
allocated, slack, freed and unknown segments. Candidate strings can be
correlated against the raw bytes to label evidence independently of the header.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "Suppress everything except results and errors")
	pf.BoolVar(&a.jsonOut, "json", false, "Output in JSON format (same as --format json)")
	pf.BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	pf.StringVar(&a.cfgPath, "config", "", "Config file (default: heapkit.yaml in ., $HOME/.heapkit, /etc/heapkit)")
	pf.StringVarP(&a.format, "format", "f", "text", "Output format: text, json, yaml")
	pf.StringVar(&a.charset, "charset", "", "Decode recovered bytes as cp437, windows-1252 or latin1")
	pf.IntVar(&a.maxText, "max-text", printer.DefaultMaxTextBytes, "Maximum recovered bytes shown per item (0 = no limit)")
	pf.BoolVar(&a.noText, "no-text", false, "Omit recovered bytes from the output")
	pf.BoolVar(&a.compat, "compat", false, "Accept read == 0 on never-used descriptor slots")
	pf.IntVarP(&a.workers, "workers", "w", 1, "Correlator worker goroutines")

	root.AddCommand(
		newInfoCmd(a),
		newSegmentsCmd(a),
		newLabelsCmd(a),
		newCheckCmd(a),
		newVersionCmd(),
	)
	return root, a
}

// setup loads configuration, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("compat") {
		cfg.CompatSentinelRead = a.compat
	}
	if flags.Changed("workers") {
		cfg.Workers = a.workers
	}
	if flags.Changed("charset") {
		cfg.Charset = a.charset
	}
	if flags.Changed("max-text") {
		cfg.MaxTextBytes = a.maxText
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	level, err := logging.ParseLevel(cfg.Logs.Level)
	if err != nil {
		return err
	}
	switch {
	case a.verbose:
		level = slog.LevelDebug
	case a.quiet:
		level = slog.LevelError
	}
	a.logger, a.logClose, err = logging.New(logging.Options{
		Level:      level,
		Stderr:     cmd.ErrOrStderr(),
		File:       cfg.Logs.File,
		MaxSizeMB:  cfg.Logs.MaxSizeMB,
		MaxAgeDays: cfg.Logs.MaxAgeDays,
		MaxBackups: cfg.Logs.MaxBackups,
		Compress:   cfg.Logs.Compress,
	})
	return err
}

func (a *app) close() {
	if a.logClose != nil {
		_ = a.logClose.Close()
	}
}

// options builds analysis options from the resolved configuration.
func (a *app) options() heap.Options {
	return heap.Options{
		Layout:             a.cfg.Layout.Format(),
		CompatSentinelRead: a.cfg.CompatSentinelRead,
		Workers:            a.cfg.Workers,
		PointerCacheSize:   a.cfg.PointerCacheSize,
		Logger:             a.logger,
	}
}

// loadEvidence reads the --strings and --expect files into opts.
func (a *app) loadEvidence(opts *heap.Options) error {
	if a.strPath != "" {
		cands, err := heap.LoadStrings(a.strPath)
		if err != nil {
			return err
		}
		opts.Candidates = cands
	}
	if a.expPath != "" {
		exps, err := heap.LoadExpectations(a.expPath)
		if err != nil {
			return err
		}
		opts.Expectations = exps
	}
	return nil
}

// outputFormat resolves --format and --json.
func (a *app) outputFormat() (printer.Format, error) {
	if a.jsonOut {
		return printer.FormatJSON, nil
	}
	return printer.ParseFormat(a.format)
}

func (a *app) printer(w io.Writer) (*printer.Printer, error) {
	f, err := a.outputFormat()
	if err != nil {
		return nil, err
	}
	return printer.New(w, printer.Options{
		Format:       f,
		Color:        !a.noColor,
		Charset:      a.cfg.Charset,
		MaxTextBytes: a.cfg.MaxTextBytes,
		ShowText:     !a.noText,
	})
}

// printInfo writes a status line to stderr unless --quiet is set.
func (a *app) printInfo(cmd *cobra.Command, format string, args ...any) {
	if !a.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), format, args...)
	}
}

// analyze opens path and reconstructs it.
func (a *app) analyze(ctx context.Context, path string, opts heap.Options) (*core.Analysis, error) {
	img, err := heap.Open(path)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	// Results alias the image; copy so they outlive the mapping.
	data := append([]byte(nil), img.Bytes()...)
	res, err := heap.Analyze(ctx, data, opts)
	if err != nil {
		return nil, err
	}
	res.Report.ImagePath = path
	return res, nil
}

// withExitCode attaches the exit code for err.
func withExitCode(err error) error {
	if err == nil {
		return nil
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return err
	}
	if core.IsContractViolation(err) {
		return &exitError{code: exitContract, err: err}
	}
	return err
}

// run executes heapctl with args and returns the process exit code.
func run(args []string) int {
	return runWith(context.Background(), args, os.Stdout, os.Stderr)
}

func runWith(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root, a := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	defer a.close()

	err := withExitCode(root.ExecuteContext(ctx))
	if err == nil {
		return exitOK
	}
	fmt.Fprintln(stderr, "Error:", err)
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitFailure
}
