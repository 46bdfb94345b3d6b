// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"seqalign/internal/appcore"
	"seqalign/internal/cli"
	"seqalign/internal/cliutil"
	"seqalign/internal/config"
	"seqalign/internal/errs"
	"seqalign/internal/output"
	"seqalign/internal/version"
)

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("seqalign")
	fs.SetOutput(io.Discard)

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		code := errs.ExitUsage
		if errors.Is(err, flag.ErrHelp) {
			code = errs.ExitOK
		} else {
			_, _ = fmt.Fprintln(stderr, err)
		}
		fs.SetOutput(outw)
		fs.Usage()
		if e := outw.Flush(); errs.IsBrokenPipe(e) {
			return errs.ExitOK
		} else if e != nil {
			_, _ = fmt.Fprintln(stderr, e)
			return errs.ExitRuntime
		}
		return code
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "seqalign version %s\n", version.Version)
		if e := outw.Flush(); errs.IsBrokenPipe(e) {
			return errs.ExitOK
		} else if e != nil {
			_, _ = fmt.Fprintln(stderr, e)
			return errs.ExitRuntime
		}
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
	opts.Apply(cfg)

	env, err := appcore.Prepare(cfg, stderr, opts.Quiet)
	if err != nil {
		return fail(err)
	}

	if err := cliutil.CheckInput(opts.Input); err != nil {
		return fail(err)
	}
	var (
		out  io.Writer
		file *os.File
	)
	if cfg.Write.Enabled {
		if opts.Output == cliutil.Stdio {
			out = outw
		} else {
			if err := cliutil.CheckOutput(opts.Output, cfg.Write.Format == output.FormatCSV); err != nil {
				return fail(err)
			}
			f, err := cliutil.CreateOutput(opts.Output)
			if err != nil {
				return fail(err)
			}
			file, out = f, f
		}
	}

	stopMetrics, err := env.StartMetrics()
	if err != nil {
		if file != nil {
			_ = file.Close()
		}
		return fail(err)
	}
	defer stopMetrics()

	sum, err := appcore.Run(parent, env, opts.Input, out)
	if file != nil {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errs.E(errs.ErrIO, "close output", cerr)
		}
	}
	if err != nil {
		return fail(err)
	}
	if e := outw.Flush(); e != nil {
		return fail(errs.E(errs.ErrIO, "write output", e))
	}

	if !opts.Quiet {
		// Keep stdout clean for data when results go there.
		timing := io.Writer(outw)
		if out == io.Writer(outw) {
			timing = stderr
		}
		_, _ = fmt.Fprintf(timing, "Alignment time: %f seconds\n", sum.Elapsed.Seconds())
		if e := outw.Flush(); e != nil && !errs.IsBrokenPipe(e) {
			return fail(errs.E(errs.ErrIO, "write output", e))
		}
	}
	return errs.ExitOK
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
