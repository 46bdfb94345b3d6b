// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"seqalign/internal/csvcodec"
	"seqalign/internal/engine"
	"seqalign/internal/errs"
	"seqalign/internal/scoring"
)

// Item is one aligned pair ready for output. Index is the 0-based pair number.
type Item struct {
	Index  int
	Prev   *csvcodec.Record
	Curr   *csvcodec.Record
	Result *engine.Result
}

// Writer writes a header, then items in order, then flushes on Close.
// Item contents are only valid for the duration of Write.
type Writer interface {
	WriteHeader() error
	Write(it Item) error
	Close() error
}

// Options are shared by every format.
type Options struct {
	BufferSize int
	Observer   FlushObserver
	Layout     *csvcodec.Layout
	Matrix     *scoring.Matrix // text format glyphs
}

// Factory builds a Writer for out.
type Factory func(out io.Writer, o Options) Writer

// Writer registry (format → factory). Register in init() blocks from the
// format files.
var registry = map[string]Factory{}

// Register adds or replaces a format (last wins).
func Register(format string, f Factory) { registry[format] = f }

// Formats lists registered format names in sorted order.
func Formats() []string {
	out := make([]string, 0, len(registry))
	for f := range registry {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// New builds the writer for format.
func New(format string, out io.Writer, o Options) (Writer, error) {
	f, ok := registry[format]
	if !ok {
		return nil, errs.Ef(errs.ErrConfig, "writers", "unknown output format %q (want one of %v)", format, Formats())
	}
	if o.Layout == nil {
		return nil, fmt.Errorf("writers: %s: nil layout", format)
	}
	return f(out, o), nil
}

// Discard drops everything. Used when output is disabled.
type Discard struct{}

func (Discard) WriteHeader() error { return nil }
func (Discard) Write(Item) error   { return nil }
func (Discard) Close() error       { return nil }
