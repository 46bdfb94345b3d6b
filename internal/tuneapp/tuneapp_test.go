package tuneapp

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seqalign/internal/errs"
)

func TestParseArgs(t *testing.T) {
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	o, err := parseArgs(fs, []string{"in.csv", "--min-batch", "2", "--max-batch", "16", "-t", "3"})
	require.NoError(t, err)
	assert.Equal(t, "in.csv", o.Input)
	assert.Equal(t, 2, o.MinBatch)
	assert.Equal(t, 16, o.MaxBatch)
	assert.Equal(t, 3, o.Threads)

	for _, argv := range [][]string{
		{"--min-batch", "0"},
		{"--min-batch", "8", "--max-batch", "4"},
		{"--rows", "-1"},
		{"a.csv", "b.csv"},
		{"-i", "a.csv", "b.csv"},
	} {
		fs := flag.NewFlagSet("t", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		_, err := parseArgs(fs, argv)
		assert.Error(t, err, "%v", argv)
	}
}

func TestRunContextPrintsTable(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(in, []byte("sequence,label\nACGT,a\nACGG,b\nAGGT,c\nTTTT,d\n"), 0o644))

	var stdout, stderr bytes.Buffer
	code := RunContext(context.Background(),
		[]string{in, "--min-batch", "1", "--max-batch", "4", "-t", "1", "-q"}, &stdout, &stderr)
	require.Equal(t, errs.ExitOK, code, stderr.String())
	assert.Contains(t, stdout.String(), "Best batch size:")

	stdout.Reset()
	code = RunContext(context.Background(),
		[]string{in, "--min-batch", "2", "--max-batch", "2", "-t", "2", "-q", "--json"}, &stdout, &stderr)
	require.Equal(t, errs.ExitOK, code, stderr.String())
	assert.Contains(t, stdout.String(), `"points"`)
}

func TestRunContextMissingInput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := RunContext(context.Background(),
		[]string{filepath.Join(t.TempDir(), "nope.csv"), "-q"}, &stdout, &stderr)
	assert.Equal(t, errs.ExitUsage, code)
	assert.Contains(t, stderr.String(), "error:")
}

func TestHelpAndVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, errs.ExitOK, RunContext(context.Background(), []string{"-h"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "seqalign-tune")

	stdout.Reset()
	assert.Equal(t, errs.ExitOK, RunContext(context.Background(), []string{"--version"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "version")
}
