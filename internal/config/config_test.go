package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seqalign/internal/csvcodec"
	"seqalign/internal/errs"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seqalign.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 64, cfg.Limits.MaxSeqLen)
	assert.Equal(t, 256, cfg.Limits.MaxLine)
	assert.Equal(t, 128<<10, cfg.Limits.WriteBuffer)
	assert.Equal(t, -4, cfg.Scoring.GapPenalty)
	assert.Equal(t, 32768, cfg.Pipeline.BatchSize)
	assert.True(t, cfg.Write.Enabled)

	l, err := csvcodec.NewLayout(cfg.Layout())
	require.NoError(t, err)
	assert.True(t, l.NeedsStats())

	m, err := cfg.Matrix()
	require.NoError(t, err)
	assert.Equal(t, "blosum62", m.Name())
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
scoring:
  matrix: simple
  alphabet: acgt
  match: 5
  mismatch: -1
read:
  header: "id;seq\n"
  sequenceColumn: 1
  separator: ";"
write:
  format: jsonl
  header: "a;b;c;d;e;f\n"
  scoreColumn: 4
  alignColumn: 5
  matchesColumn: -1
  mismatchesColumn: -1
  gapsColumn: -1
  similarityColumn: -1
  template: "%s/%s"
  pairs:
    - {first: 2, second: 3}
pipeline:
  threads: 2
  batchSize: 10
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "jsonl", cfg.Write.Format)
	assert.Equal(t, 2, cfg.Pipeline.Threads)
	assert.Equal(t, 64, cfg.Limits.MaxSeqLen, "untouched keys keep defaults")

	l, err := csvcodec.NewLayout(cfg.Layout())
	require.NoError(t, err)
	assert.Equal(t, byte(';'), l.Separator())
	assert.False(t, l.NeedsStats())
	assert.Equal(t, []csvcodec.Pair{{First: 2, Second: 3}}, l.Pairs())

	m, err := cfg.Matrix()
	require.NoError(t, err)
	assert.Equal(t, "ACGT", m.Alphabet())
	a, _ := m.Lookup('A')
	assert.Equal(t, int32(5), m.Score(a, a))
}

func TestLoadRejects(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, errs.ErrPath)

	_, err = Load(writeFile(t, "pipeline:\n  threadz: 4\n"))
	assert.ErrorIs(t, err, errs.ErrConfig)

	_, err = Load(writeFile(t, "pipeline: [1, 2\n"))
	assert.ErrorIs(t, err, errs.ErrConfig)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestEnvOverrides(t *testing.T) {
	env := map[string]string{
		"SEQALIGN_THREADS":      "3",
		"SEQALIGN_BATCH_SIZE":   "128",
		"SEQALIGN_MATRIX":       "blosum50",
		"SEQALIGN_LOG_LEVEL":    "debug",
		"SEQALIGN_PIN":          "true",
		"SEQALIGN_METRICS_ADDR": ":9100",
	}
	cfg := Default()
	require.NoError(t, applyEnvOverrides(cfg, func(k string) string { return env[k] }))
	assert.Equal(t, 3, cfg.Pipeline.Threads)
	assert.Equal(t, 128, cfg.Pipeline.BatchSize)
	assert.Equal(t, "blosum50", cfg.Scoring.Matrix)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Pipeline.Pin)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)

	env = map[string]string{"SEQALIGN_THREADS": "many"}
	err := applyEnvOverrides(Default(), func(k string) string { return env[k] })
	assert.ErrorIs(t, err, errs.ErrConfig)

	env = map[string]string{"SEQALIGN_PIN": "sometimes"}
	err = applyEnvOverrides(Default(), func(k string) string { return env[k] })
	assert.ErrorIs(t, err, errs.ErrConfig)
}

func TestLoadAppliesProcessEnv(t *testing.T) {
	t.Setenv("SEQALIGN_BATCH_SIZE", "7")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Pipeline.BatchSize)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"threads":    func(c *Config) { c.Pipeline.Threads = -1 },
		"batch":      func(c *Config) { c.Pipeline.BatchSize = 0 },
		"gap":        func(c *Config) { c.Scoring.GapPenalty = 2 },
		"gap range":  func(c *Config) { c.Scoring.GapPenalty = -3000000000 },
		"gap wraps":  func(c *Config) { c.Scoring.GapPenalty = -1 << 32 },
		"separator":  func(c *Config) { c.Read.Separator = ",," },
		"log level":  func(c *Config) { c.Logging.Level = "loud" },
		"log format": func(c *Config) { c.Logging.Format = "xml" },
		"buffer":     func(c *Config) { c.Limits.WriteBuffer = -5 },
	}
	for name, edit := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			edit(cfg)
			assert.ErrorIs(t, cfg.Validate(), errs.ErrConfig)
		})
	}
}

func TestAlignOptions(t *testing.T) {
	cfg := Default()
	o := cfg.AlignOptions(true)
	assert.Equal(t, int32(-4), o.Gap)
	assert.Equal(t, 64, o.MaxSeqLen)
	assert.True(t, o.Wide)
	assert.True(t, o.Stats)
}

func TestZeroGapIsKept(t *testing.T) {
	cfg := Default()
	cfg.Scoring.GapPenalty = 0
	require.NoError(t, cfg.Validate())
	assert.Equal(t, int32(0), cfg.AlignOptions(false).Gap)
}
