package writers

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seqalign/internal/csvcodec"
	"seqalign/internal/engine"
	"seqalign/internal/errs"
	"seqalign/pkg/api"
)

type countingWriter struct {
	bytes.Buffer
	writes []int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.writes = append(c.writes, len(p))
	return c.Buffer.Write(p)
}

type flushCounter struct{ n, bytes int }

func (f *flushCounter) Flushed(n int) { f.n++; f.bytes += n }

type failingWriter struct{ err error }

func (f failingWriter) Write([]byte) (int, error) { return 0, f.err }

func TestSinkFlushesBeforeWorstCaseOverflow(t *testing.T) {
	var cw countingWriter
	obs := &flushCounter{}
	s := NewSink(&cw, 100, 30, obs)
	start := cap(s.buf)
	require.Equal(t, 100, start)

	record := []byte(strings.Repeat("x", 24) + "\n")
	for i := 0; i < 10; i++ {
		dst, err := s.Next()
		require.NoError(t, err)
		s.Commit(append(dst, record...))
		assert.Equal(t, start, cap(s.buf), "buffer must not grow")
	}
	require.NoError(t, s.Flush())

	assert.Equal(t, strings.Repeat(string(record), 10), cw.String())
	// 25-byte records against a 30-byte reserve: three fit per 100-byte buffer.
	assert.Equal(t, []int{75, 75, 75, 25}, cw.writes)
	assert.Equal(t, 4, obs.n)
	assert.Equal(t, 250, obs.bytes)
}

func TestSinkCapacityCoversReserve(t *testing.T) {
	s := NewSink(&bytes.Buffer{}, 10, 64, nil)
	assert.Equal(t, 128, cap(s.buf))
	s = NewSink(&bytes.Buffer{}, 0, 0, nil)
	assert.Equal(t, DefaultBufferSize, cap(s.buf))
}

func TestSinkWriteSpansFlushes(t *testing.T) {
	var out bytes.Buffer
	s := NewSink(&out, 8, 0, nil)
	n, err := s.Write([]byte("abcdefghijklmnopqrst"))
	require.NoError(t, err)
	assert.Equal(t, 20, n)
	assert.Equal(t, 4, s.Buffered())
	require.NoError(t, s.Flush())
	assert.Equal(t, "abcdefghijklmnopqrst", out.String())
}

func TestSinkErrorIsSticky(t *testing.T) {
	s := NewSink(failingWriter{err: syscall.EPIPE}, 16, 0, nil)
	_, err := s.Write([]byte("hello"))
	require.NoError(t, err)
	err = s.Flush()
	require.Error(t, err)
	assert.ErrorIs(t, err, syscall.EPIPE)
	assert.ErrorIs(t, err, errs.ErrIO)
	assert.True(t, errs.IsBrokenPipe(err))

	_, err = s.Next()
	assert.ErrorIs(t, err, syscall.EPIPE)
	_, err = s.Write([]byte("x"))
	assert.ErrorIs(t, err, syscall.EPIPE)
}

func fixture(t *testing.T) (*csvcodec.Layout, []Item) {
	t.Helper()
	layout, err := csvcodec.NewLayout(csvcodec.DefaultConfig())
	require.NoError(t, err)
	recs := make([]csvcodec.Record, 3)
	buf := []byte("AAAG,x\nAAGG,y\nAG,z\n")
	cur := 0
	for i := range recs {
		cur, err = layout.ParseRecord(buf, cur, &recs[i])
		require.NoError(t, err)
	}
	results := []engine.Result{
		{Aligned1: []byte("AAAG"), Aligned2: []byte("AAGG"), Score: 14},
		{Aligned1: []byte("AAGG"), Aligned2: []byte("A--G"), Score: -3},
	}
	items := make([]Item, len(results))
	for i := range results {
		engine.Similarity(&results[i])
		items[i] = Item{Index: i, Prev: &recs[i], Curr: &recs[i+1], Result: &results[i]}
	}
	return layout, items
}

func run(t *testing.T, format string) string {
	t.Helper()
	layout, items := fixture(t)
	var out bytes.Buffer
	w, err := New(format, &out, Options{Layout: layout, BufferSize: 64})
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader())
	for _, it := range items {
		require.NoError(t, w.Write(it))
	}
	require.NoError(t, w.Close())
	return out.String()
}

func TestCSVWriter(t *testing.T) {
	want := "sequence1,sequence2,label1,label2,score,alignment,matches,mismatches,gaps,similarity\n" +
		`AAAG,AAGG,x,y,14,"('AAAG', 'AAGG')",3,1,0,0.7500` + "\n" +
		`AAGG,AG,y,z,-3,"('AAGG', 'A--G')",2,2,0,0.5000` + "\n"
	assert.Equal(t, want, run(t, "csv"))
}

func TestJSONLWriter(t *testing.T) {
	sc := bufio.NewScanner(strings.NewReader(run(t, "jsonl")))
	var got []api.PairV1
	for sc.Scan() {
		var p api.PairV1
		require.NoError(t, json.Unmarshal(sc.Bytes(), &p))
		got = append(got, p)
	}
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[1].Index)
	assert.Equal(t, "A--G", got[1].Aligned2)
	assert.Equal(t, []string{"y"}, got[1].Passthrough1)
	require.NotNil(t, got[0].Stats)
	assert.Equal(t, 0.75, got[0].Stats.Similarity)
}

func TestTextWriter(t *testing.T) {
	out := run(t, "text")
	assert.True(t, strings.HasPrefix(out, "pair 0\tscore=14\tmatches=3\tmismatches=1\tgaps=0\tsimilarity=0.7500\n# seq1"))
	assert.Contains(t, out, "pair 1\tscore=-3")
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"csv", "jsonl", "text"}, Formats())

	layout, _ := fixture(t)
	_, err := New("nope-format", &bytes.Buffer{}, Options{Layout: layout})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConfig)
	assert.Contains(t, err.Error(), "unknown output format")

	_, err = New("csv", &bytes.Buffer{}, Options{})
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	var w Writer = Discard{}
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Write(Item{}))
	require.NoError(t, w.Close())
}
