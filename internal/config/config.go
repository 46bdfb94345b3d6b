// Package config loads run configuration from a YAML file with environment
// overrides and converts it into the settings each layer consumes.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"seqalign/internal/csvcodec"
	"seqalign/internal/engine"
	"seqalign/internal/errs"
	"seqalign/internal/logger"
	"seqalign/internal/output"
	"seqalign/internal/pipeline"
	"seqalign/internal/scoring"
	"seqalign/internal/writers"
)

// Config is the top-level run configuration.
type Config struct {
	Limits   LimitsConfig   `yaml:"limits"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Read     ReadConfig     `yaml:"read"`
	Write    WriteConfig    `yaml:"write"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// LimitsConfig bounds record and buffer sizes.
type LimitsConfig struct {
	MaxSeqLen   int `yaml:"maxSeqLen"`
	MaxLine     int `yaml:"maxLine"`
	WriteBuffer int `yaml:"writeBuffer"`
}

// ScoringConfig selects the substitution matrix and gap penalty. Matrix
// "simple" builds a match/mismatch table over Alphabet.
type ScoringConfig struct {
	Matrix     string `yaml:"matrix"`
	Alphabet   string `yaml:"alphabet"`
	Match      int    `yaml:"match"`
	Mismatch   int    `yaml:"mismatch"`
	GapPenalty int    `yaml:"gapPenalty"`
}

// ReadConfig describes the input table.
type ReadConfig struct {
	Header         string `yaml:"header"`
	SequenceColumn int    `yaml:"sequenceColumn"`
	Separator      string `yaml:"separator"`
}

// WriteConfig describes the output table. Stat columns set to -1 are omitted.
type WriteConfig struct {
	Enabled          bool            `yaml:"enabled"`
	Format           string          `yaml:"format"`
	Header           string          `yaml:"header"`
	Seq1Column       int             `yaml:"seq1Column"`
	Seq2Column       int             `yaml:"seq2Column"`
	ScoreColumn      int             `yaml:"scoreColumn"`
	AlignColumn      int             `yaml:"alignColumn"`
	MatchesColumn    int             `yaml:"matchesColumn"`
	MismatchesColumn int             `yaml:"mismatchesColumn"`
	GapsColumn       int             `yaml:"gapsColumn"`
	SimilarityColumn int             `yaml:"similarityColumn"`
	Template         string          `yaml:"template"`
	Pairs            []csvcodec.Pair `yaml:"pairs"`
}

// PipelineConfig controls parallelism.
type PipelineConfig struct {
	Threads   int  `yaml:"threads"`
	BatchSize int  `yaml:"batchSize"`
	Pin       bool `yaml:"pin"`
	Wide      bool `yaml:"wide"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus scrape server and textfile dump.
// Empty values disable them.
type MetricsConfig struct {
	Addr     string `yaml:"addr"`
	Textfile string `yaml:"textfile"`
}

// Default returns the stock configuration.
func Default() *Config {
	c := csvcodec.DefaultConfig()
	return &Config{
		Limits: LimitsConfig{
			MaxSeqLen:   c.MaxSeqLen,
			MaxLine:     c.MaxLine,
			WriteBuffer: writers.DefaultBufferSize,
		},
		Scoring: ScoringConfig{
			Matrix:     "blosum62",
			Alphabet:   "ACGT",
			Match:      1,
			Mismatch:   -1,
			GapPenalty: int(engine.DefaultGap),
		},
		Read: ReadConfig{
			Header:         c.Read.Header,
			SequenceColumn: c.Read.SequenceColumn,
			Separator:      string(c.Separator),
		},
		Write: WriteConfig{
			Enabled:          true,
			Format:           output.FormatCSV,
			Header:           c.Write.Header,
			Seq1Column:       c.Write.Seq1Column,
			Seq2Column:       c.Write.Seq2Column,
			ScoreColumn:      c.Write.ScoreColumn,
			AlignColumn:      c.Write.AlignColumn,
			MatchesColumn:    c.Write.MatchesColumn,
			MismatchesColumn: c.Write.MismatchesColumn,
			GapsColumn:       c.Write.GapsColumn,
			SimilarityColumn: c.Write.SimilarityColumn,
			Template:         c.Write.Template,
		},
		Pipeline: PipelineConfig{
			BatchSize: pipeline.DefaultBatchSize,
			Wide:      true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML config file (if path is not empty) over the defaults and
// applies SEQALIGN_* environment overrides. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errs.E(errs.ErrPath, "config", fmt.Errorf("reading config file %s: %w", path, err))
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, errs.E(errs.ErrConfig, "config", fmt.Errorf("parsing config file %s: %w", path, err))
		}
	}
	if err := applyEnvOverrides(cfg, os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides reads SEQALIGN_* variables through getenv and overrides
// the corresponding fields.
func applyEnvOverrides(cfg *Config, getenv func(string) string) error {
	ints := []struct {
		key string
		dst *int
	}{
		{"SEQALIGN_THREADS", &cfg.Pipeline.Threads},
		{"SEQALIGN_BATCH_SIZE", &cfg.Pipeline.BatchSize},
		{"SEQALIGN_MAX_SEQ_LEN", &cfg.Limits.MaxSeqLen},
		{"SEQALIGN_MAX_LINE", &cfg.Limits.MaxLine},
		{"SEQALIGN_WRITE_BUFFER", &cfg.Limits.WriteBuffer},
		{"SEQALIGN_GAP_PENALTY", &cfg.Scoring.GapPenalty},
	}
	for _, e := range ints {
		if v := getenv(e.key); v != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return errs.Ef(errs.ErrConfig, "config", "%s=%q: not an integer", e.key, v)
			}
			*e.dst = n
		}
	}
	strs := []struct {
		key string
		dst *string
	}{
		{"SEQALIGN_MATRIX", &cfg.Scoring.Matrix},
		{"SEQALIGN_FORMAT", &cfg.Write.Format},
		{"SEQALIGN_LOG_LEVEL", &cfg.Logging.Level},
		{"SEQALIGN_LOG_FORMAT", &cfg.Logging.Format},
		{"SEQALIGN_METRICS_ADDR", &cfg.Metrics.Addr},
		{"SEQALIGN_METRICS_FILE", &cfg.Metrics.Textfile},
	}
	for _, e := range strs {
		if v := getenv(e.key); v != "" {
			*e.dst = v
		}
	}
	if v := getenv("SEQALIGN_PIN"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errs.Ef(errs.ErrConfig, "config", "SEQALIGN_PIN=%q: not a boolean", v)
		}
		cfg.Pipeline.Pin = b
	}
	return nil
}

// Validate checks settings that do not belong to any single layer.
func (c *Config) Validate() error {
	if c.Pipeline.Threads < 0 {
		return errs.Ef(errs.ErrConfig, "config", "pipeline.threads must be >= 0")
	}
	if c.Pipeline.BatchSize < 1 {
		return errs.Ef(errs.ErrConfig, "config", "pipeline.batchSize must be >= 1")
	}
	if c.Limits.WriteBuffer < 0 {
		return errs.Ef(errs.ErrConfig, "config", "limits.writeBuffer must be >= 0")
	}
	if c.Scoring.GapPenalty > 0 || c.Scoring.GapPenalty < -engine.MaxGap {
		return errs.Ef(errs.ErrConfig, "config", "scoring.gapPenalty %d outside -%d..0", c.Scoring.GapPenalty, engine.MaxGap)
	}
	if len(c.Read.Separator) != 1 {
		return errs.Ef(errs.ErrConfig, "config", "read.separator %q must be exactly one byte", c.Read.Separator)
	}
	if !logger.ValidLevel(c.Logging.Level) {
		return errs.Ef(errs.ErrConfig, "config", "logging.level %q (want debug | info | warn | error)", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return errs.Ef(errs.ErrConfig, "config", "logging.format %q (want text | json)", c.Logging.Format)
	}
	return nil
}

// Layout converts the read/write sections to a codec configuration.
func (c *Config) Layout() csvcodec.Config {
	var sep byte
	if c.Read.Separator != "" {
		sep = c.Read.Separator[0]
	}
	return csvcodec.Config{
		Separator: sep,
		MaxSeqLen: c.Limits.MaxSeqLen,
		MaxLine:   c.Limits.MaxLine,
		Read: csvcodec.ReadConfig{
			Header:         c.Read.Header,
			SequenceColumn: c.Read.SequenceColumn,
		},
		Write: csvcodec.WriteConfig{
			Header:           c.Write.Header,
			Seq1Column:       c.Write.Seq1Column,
			Seq2Column:       c.Write.Seq2Column,
			ScoreColumn:      c.Write.ScoreColumn,
			AlignColumn:      c.Write.AlignColumn,
			MatchesColumn:    c.Write.MatchesColumn,
			MismatchesColumn: c.Write.MismatchesColumn,
			GapsColumn:       c.Write.GapsColumn,
			SimilarityColumn: c.Write.SimilarityColumn,
			Template:         c.Write.Template,
			Pairs:            c.Write.Pairs,
		},
	}
}

// Matrix builds the configured scoring matrix.
func (c *Config) Matrix() (*scoring.Matrix, error) {
	if strings.EqualFold(c.Scoring.Matrix, "simple") {
		return scoring.NewMatchMismatch(strings.ToUpper(c.Scoring.Alphabet), c.Scoring.Match, c.Scoring.Mismatch)
	}
	return scoring.ByName(c.Scoring.Matrix)
}

// AlignOptions returns engine options. Stats are requested when the output
// shows them.
func (c *Config) AlignOptions(stats bool) engine.Options {
	return engine.Options{
		Gap:       int32(c.Scoring.GapPenalty),
		MaxSeqLen: c.Limits.MaxSeqLen,
		Wide:      c.Pipeline.Wide,
		Stats:     stats,
	}
}
