// Package appshell wires a RunContext-style entry point to the process:
// signals, argv and the exit status.
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"seqalign/internal/errs"
)

// Main runs fn with a context canceled by SIGINT or SIGTERM and exits with
// its status. A run that was interrupted never exits 0.
func Main(run func(context.Context, []string, io.Writer, io.Writer) int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if ctx.Err() != nil && code == errs.ExitOK {
		code = errs.ExitCanceled
	}

	stop()
	os.Exit(code)
}
