// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"seqalign/internal/clibase"
	"seqalign/internal/cliutil"
	"seqalign/internal/config"
	"seqalign/internal/output"
)

// Options holds all CLI flags and arguments.
type Options struct {
	clibase.Common

	Output string // "-" for stdout

	// Output
	Format  string
	NoWrite bool

	// Observability
	MetricsAddr string
	MetricsFile string

	set map[string]bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.UsageCommon(fs, name, "pairwise global alignment of adjacent records",
		"[flags] [input.csv] [output.csv]", func(out io.Writer) {
			fmt.Fprintln(out, "Record i is aligned against record i+1 for every adjacent pair of the input.")
			fmt.Fprintln(out, "Positionals override --input and --output; '-' as output writes to stdout.")
		})
	return fs
}

// Parse is the top-level call for CLI parsing.
func Parse() (Options, error) { return ParseArgs(flag.CommandLine, nil) }

// ParseArgs registers and parses all flags, returns an Options struct.
// Up to two positionals name the input and output files.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	opt.Register(fs)

	fs.StringVar(&opt.Output, "output", "", "output file, '-' for stdout ["+cliutil.DefaultOutput+"]")
	fs.StringVar(&opt.Output, "o", "", "output file (shorthand)")
	fs.StringVar(&opt.Format, "format", "", "output format: csv | jsonl | text [csv]")
	fs.BoolVar(&opt.NoWrite, "no-write", false, "align only, discard results [false]")
	fs.StringVar(&opt.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	fs.StringVar(&opt.MetricsFile, "metrics-file", "", "write Prometheus metrics to this file at exit")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return opt, err
	}
	if opt.Help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	opt.set = clibase.Visited(fs)

	// Validation
	if len(posArgs) > 2 {
		return opt, fmt.Errorf("too many positional arguments: %v", posArgs)
	}
	if len(posArgs) > 0 {
		if opt.set["input"] {
			return opt, errors.New("input given both as --input and as a positional argument")
		}
		opt.Input = posArgs[0]
	}
	if len(posArgs) > 1 {
		if opt.set["output"] {
			return opt, errors.New("output given both as --output and as a positional argument")
		}
		opt.Output = posArgs[1]
	}
	if err := opt.Common.Validate(); err != nil {
		return opt, err
	}
	if opt.Output == "" {
		opt.Output = cliutil.DefaultOutput
	}
	switch opt.Format {
	case "", output.FormatCSV, output.FormatJSONL, output.FormatText:
	default:
		return opt, fmt.Errorf("invalid --format %q", opt.Format)
	}
	return opt, nil
}

// IsSet reports whether the flag was given on the command line.
func (o Options) IsSet(name string) bool { return o.set[name] }

// Apply overrides cfg with the flags that were set explicitly.
func (o Options) Apply(cfg *config.Config) {
	o.Common.Apply(cfg, o.set)
	if o.Format != "" {
		cfg.Write.Format = o.Format
	}
	if o.NoWrite {
		cfg.Write.Enabled = false
	}
	if o.MetricsAddr != "" {
		cfg.Metrics.Addr = o.MetricsAddr
	}
	if o.MetricsFile != "" {
		cfg.Metrics.Textfile = o.MetricsFile
	}
}
