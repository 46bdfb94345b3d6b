// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seqalign/internal/app"
	"seqalign/internal/errs"
	"seqalign/internal/scoring"
)

func write(t *testing.T, dir, name, data string) string {
	t.Helper()
	fn := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(fn, []byte(data), 0o644))
	return fn
}

func run(t *testing.T, argv ...string) (int, string, string) {
	t.Helper()
	var out, errBuf bytes.Buffer
	code := app.Run(argv, &out, &errBuf)
	return code, out.String(), errBuf.String()
}

const simpleConfig = `
scoring:
  matrix: simple
  alphabet: ACGT
  match: 5
  mismatch: -1
  gapPenalty: -4
`

func TestEndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfg := write(t, dir, "cfg.yaml", simpleConfig)
	in := write(t, dir, "in.csv", "sequence,label\nAAAG,x\nAAGG,y\n")
	outPath := filepath.Join(dir, "results", "out.csv")

	code, stdout, stderr := run(t, "--config", cfg, "-t", "1", in, outPath)
	require.Equal(t, errs.ExitOK, code, stderr)
	assert.Contains(t, stdout, "Alignment time:")

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t,
		"sequence1,sequence2,label1,label2,score,alignment,matches,mismatches,gaps,similarity\n"+
			`AAAG,AAGG,x,y,14,"('AAAG', 'AAGG')",3,1,0,0.7500`+"\n",
		string(got))
}

func TestZeroGapPenaltyFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := write(t, dir, "cfg.yaml", strings.Replace(simpleConfig, "gapPenalty: -4", "gapPenalty: 0", 1))
	in := write(t, dir, "in.csv", "sequence,label\n,a\nAAAA,b\n")
	outPath := filepath.Join(dir, "out.csv")

	code, _, stderr := run(t, "-q", "--config", cfg, in, outPath)
	require.Equal(t, errs.ExitOK, code, stderr)
	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(got), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `,AAAA,a,b,0,"('----', 'AAAA')",0,0,4,0.0000`, lines[1])
}

func TestJSONLToStdout(t *testing.T) {
	dir := t.TempDir()
	cfg := write(t, dir, "cfg.yaml", simpleConfig)
	in := write(t, dir, "in.csv", "sequence,label\nAAAG,x\nAAGG,y\nAGG,z\n")

	code, stdout, stderr := run(t, "--config", cfg, "--format", "jsonl", "-o", "-", in)
	require.Equal(t, errs.ExitOK, code, stderr)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"score":14`)
	assert.Contains(t, lines[1], `"index":1`)
	assert.Contains(t, stderr, "Alignment time:", "timing moves to stderr when results use stdout")
}

func randomCSV(seed int64, rows int) string {
	rng := rand.New(rand.NewSource(seed))
	var sb strings.Builder
	sb.WriteString("sequence,label\n")
	for i := 0; i < rows; i++ {
		seq := make([]byte, 1+rng.Intn(40))
		for k := range seq {
			seq[k] = scoring.AminoAcids[rng.Intn(len(scoring.AminoAcids))]
		}
		fmt.Fprintf(&sb, "%s,r%d\n", seq, i)
	}
	return sb.String()
}

func TestParallelMatchesSerial(t *testing.T) {
	dir := t.TempDir()
	const rows = 500
	in := write(t, dir, "in.csv", randomCSV(7, rows))

	render := func(args ...string) string {
		out := filepath.Join(dir, fmt.Sprintf("out%d.csv", len(args)+rand.Int()))
		argv := append([]string{"-q", in, out}, args...)
		code, _, stderr := run(t, argv...)
		require.Equal(t, errs.ExitOK, code, stderr)
		b, err := os.ReadFile(out)
		require.NoError(t, err)
		return string(b)
	}

	serial := render("--threads", "1", "--batch-size", "1")
	assert.Equal(t, 1+(rows-1), strings.Count(serial, "\n"), "header plus one line per adjacent pair")
	assert.Equal(t, serial, render("--threads", "4"))
	assert.Equal(t, serial, render("--threads", "4", "--batch-size", "7"))
	assert.Equal(t, serial, render("--threads", "16", "--batch-size", "3", "--pin"))
}

func TestQuietSuppressesTiming(t *testing.T) {
	dir := t.TempDir()
	in := write(t, dir, "in.csv", randomCSV(1, 5))
	code, stdout, stderr := run(t, "-q", "--no-write", in)
	require.Equal(t, errs.ExitOK, code, stderr)
	assert.Empty(t, stdout)
}

func TestCanceledRunExits130(t *testing.T) {
	dir := t.TempDir()
	in := write(t, dir, "in.csv", randomCSV(3, 1000))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out, errBuf bytes.Buffer
	code := app.RunContext(ctx, []string{"-q", in, filepath.Join(dir, "out.csv")}, &out, &errBuf)
	assert.Equal(t, errs.ExitCanceled, code, errBuf.String())
}

func TestExitCodes(t *testing.T) {
	dir := t.TempDir()
	good := write(t, dir, "in.csv", "sequence,label\nACGT,a\nACGA,b\n")
	bad := write(t, dir, "bad.csv", "sequence,label\nACGT,a\nAC#T,b\n")
	long := write(t, dir, "long.csv", "sequence,label\n"+strings.Repeat("A", 100)+",a\nA,b\n")

	cases := []struct {
		name string
		argv []string
		want int
	}{
		{"missing input", []string{filepath.Join(dir, "nope.csv")}, errs.ExitUsage},
		{"input is a directory", []string{dir}, errs.ExitUsage},
		{"output not csv", []string{good, filepath.Join(dir, "out.txt")}, errs.ExitUsage},
		{"unknown flag", []string{"--bogus"}, errs.ExitUsage},
		{"missing config", []string{"--config", filepath.Join(dir, "none.yaml"), good}, errs.ExitUsage},
		{"symbol outside alphabet", []string{bad, filepath.Join(dir, "o1.csv")}, errs.ExitRuntime},
		{"sequence too long", []string{long, filepath.Join(dir, "o2.csv")}, errs.ExitRuntime},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, stderr := run(t, append([]string{"-q"}, tc.argv...)...)
			assert.Equal(t, tc.want, code, stderr)
		})
	}
}

func TestBadSymbolNamesRecords(t *testing.T) {
	dir := t.TempDir()
	in := write(t, dir, "in.csv", "sequence,label\nACGT,a\nACGT,b\nAC#T,c\n")
	code, _, stderr := run(t, "-q", in, filepath.Join(dir, "out.csv"))
	assert.Equal(t, errs.ExitRuntime, code)
	assert.Contains(t, stderr, "records 2-3")
}
