// internal/clibase/common.go
package clibase

import (
	"errors"
	"flag"

	"seqalign/internal/cliutil"
	"seqalign/internal/config"
)

// Common holds CLI fields shared by seqalign and seqalign-tune.
type Common struct {
	// Files
	ConfigFile string
	Input      string

	// Performance
	Threads   int
	BatchSize int
	Pin       bool

	// Miscellaneous
	Quiet     bool
	LogLevel  string
	LogFormat string
	Version   bool
	Help      bool
}

// Register binds the shared flags (long and short forms) to fs.
func (c *Common) Register(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigFile, "config", "", "YAML configuration file")
	fs.StringVar(&c.Input, "input", "", "input CSV ["+cliutil.DefaultInput+"]")
	fs.StringVar(&c.Input, "i", "", "input CSV (shorthand)")

	fs.IntVar(&c.Threads, "threads", 0, "worker threads (0 = all CPUs, max 16) [0]")
	fs.IntVar(&c.Threads, "t", 0, "worker threads (shorthand)")
	fs.IntVar(&c.BatchSize, "batch-size", 0, "pairs per batch (0 = config value) [32768]")
	fs.BoolVar(&c.Pin, "pin", false, "pin worker threads to CPUs [false]")

	fs.BoolVar(&c.Quiet, "quiet", false, "suppress the timing line and info logs [false]")
	fs.BoolVar(&c.Quiet, "q", false, "quiet (shorthand)")
	fs.StringVar(&c.LogLevel, "log-level", "", "log level: debug | info | warn | error [info]")
	fs.StringVar(&c.LogFormat, "log-format", "", "log format: text | json [text]")

	fs.BoolVar(&c.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&c.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&c.Help, "h", false, "show this help message (shorthand) [false]")
}

// Visited returns the canonical names of the flags given on the command line.
func Visited(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[Canonical(f.Name)] = true })
	return set
}

// Canonical maps a shorthand flag to its long name.
func Canonical(name string) string {
	switch name {
	case "i":
		return "input"
	case "o":
		return "output"
	case "t":
		return "threads"
	case "q":
		return "quiet"
	case "v":
		return "version"
	}
	return name
}

// Validate applies input defaults and checks the numeric flags.
func (c *Common) Validate() error {
	if c.Input == "" {
		c.Input = cliutil.DefaultInput
	}
	if c.Threads < 0 {
		return errors.New("--threads must be ≥ 0")
	}
	if c.BatchSize < 0 {
		return errors.New("--batch-size must be ≥ 0")
	}
	return nil
}

// Apply overrides cfg with the shared flags present in set.
func (c *Common) Apply(cfg *config.Config, set map[string]bool) {
	if set["threads"] {
		cfg.Pipeline.Threads = c.Threads
	}
	if set["batch-size"] && c.BatchSize > 0 {
		cfg.Pipeline.BatchSize = c.BatchSize
	}
	if set["pin"] {
		cfg.Pipeline.Pin = c.Pin
	}
	if c.LogLevel != "" {
		cfg.Logging.Level = c.LogLevel
	}
	if c.LogFormat != "" {
		cfg.Logging.Format = c.LogFormat
	}
}
