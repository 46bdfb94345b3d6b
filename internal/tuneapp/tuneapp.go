// Package tuneapp is the seqalign-tune command: it times one input sample at
// doubling batch sizes and reports the fastest.
package tuneapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"seqalign/internal/appcore"
	"seqalign/internal/clibase"
	"seqalign/internal/cliutil"
	"seqalign/internal/config"
	"seqalign/internal/errs"
	"seqalign/internal/mmapfile"
	"seqalign/internal/tune"
	"seqalign/internal/version"
)

type options struct {
	clibase.Common
	MinBatch int
	MaxBatch int
	Rows     int
	JSON     bool
}

func parseArgs(fs *flag.FlagSet, argv []string) (options, error) {
	var o options
	o.Register(fs)
	fs.IntVar(&o.MinBatch, "min-batch", tune.DefaultMinBatch, "smallest batch size")
	fs.IntVar(&o.MaxBatch, "max-batch", tune.DefaultMaxBatch, "largest batch size")
	fs.IntVar(&o.Rows, "rows", tune.DefaultMaxRows, "records sampled from the input (0 = all)")
	fs.BoolVar(&o.JSON, "json", false, "print the report as JSON [false]")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return o, err
	}
	if o.Help {
		return o, flag.ErrHelp
	}
	if o.Version {
		return o, nil
	}
	if len(posArgs) > 1 {
		return o, fmt.Errorf("too many positional arguments: %v", posArgs)
	}
	if len(posArgs) == 1 {
		if clibase.Visited(fs)["input"] {
			return o, errors.New("input given both as --input and as a positional argument")
		}
		o.Input = posArgs[0]
	}
	if err := o.Common.Validate(); err != nil {
		return o, err
	}
	if o.MinBatch < 1 || o.MaxBatch < o.MinBatch {
		return o, fmt.Errorf("need 1 ≤ --min-batch ≤ --max-batch, got %d and %d", o.MinBatch, o.MaxBatch)
	}
	if o.Rows < 0 {
		return o, errors.New("--rows must be ≥ 0")
	}
	return o, nil
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := flag.NewFlagSet("seqalign-tune", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	clibase.UsageCommon(fs, "seqalign-tune", "batch-size sweep for seqalign",
		"[flags] [input.csv]", func(out io.Writer) {
			fmt.Fprintln(out, "Batch sizes double from --min-batch to --max-batch; each size aligns the same sample.")
		})

	opts, err := parseArgs(fs, argv)
	if err != nil {
		code := errs.ExitUsage
		if errors.Is(err, flag.ErrHelp) {
			code = errs.ExitOK
		} else {
			_, _ = fmt.Fprintln(stderr, err)
		}
		fs.SetOutput(outw)
		fs.Usage()
		return code
	}
	if opts.Version {
		_, _ = fmt.Fprintf(outw, "seqalign-tune version %s\n", version.Version)
		return errs.ExitOK
	}

	fail := func(err error) int {
		if errs.IsBrokenPipe(err) {
			return errs.ExitOK
		}
		_, _ = fmt.Fprintln(stderr, "error:", err)
		return errs.ExitCode(err)
	}

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return fail(err)
	}
	opts.Common.Apply(cfg, clibase.Visited(fs))
	cfg.Write.Enabled = false

	env, err := appcore.Prepare(cfg, stderr, opts.Quiet)
	if err != nil {
		return fail(err)
	}
	if err := cliutil.CheckInput(opts.Input); err != nil {
		return fail(err)
	}

	in, err := mmapfile.Open(opts.Input)
	if err != nil {
		return fail(err)
	}
	defer in.Close()

	exec, closeExec, err := env.NewExecutor()
	if err != nil {
		return fail(err)
	}
	defer func() { _ = closeExec() }()

	rep, err := tune.Sweep(parent, tune.Config{
		MinBatch: opts.MinBatch,
		MaxBatch: opts.MaxBatch,
		MaxRows:  opts.Rows,
		Logger:   env.Log,
	}, in.Bytes(), env.Layout, exec)
	if err != nil {
		return fail(fmt.Errorf("%s: %w", opts.Input, err))
	}
	write := rep.WriteTable
	if opts.JSON {
		write = rep.WriteJSON
	}
	if err := write(outw); err != nil {
		return fail(err)
	}
	if err := outw.Flush(); err != nil {
		return fail(err)
	}
	return errs.ExitOK
}
