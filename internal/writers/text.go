package writers

import (
	"fmt"
	"io"

	"seqalign/internal/output"
	"seqalign/internal/pretty"
)

func init() {
	Register(output.FormatText, newTextWriter)
}

// textWriter prints a summary line and an ASCII alignment block per pair.
type textWriter struct {
	sink *Sink
	opt  pretty.Options
}

func newTextWriter(out io.Writer, o Options) Writer {
	opt := pretty.DefaultOptions
	opt.Matrix = o.Matrix
	return &textWriter{sink: NewSink(out, o.BufferSize, 0, o.Observer), opt: opt}
}

func (w *textWriter) WriteHeader() error { return nil }

func (w *textWriter) Write(it Item) error {
	res := it.Result
	if _, err := fmt.Fprintf(w.sink, "pair %d\tscore=%d", it.Index, res.Score); err != nil {
		return err
	}
	if res.HasStats {
		s := res.Stats
		if _, err := fmt.Fprintf(w.sink, "\tmatches=%d\tmismatches=%d\tgaps=%d\tsimilarity=%.4f",
			s.Matches, s.Mismatches, s.Gaps, s.Similarity); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w.sink, "\n"+pretty.RenderWithOptions(res, w.opt)+"\n"); err != nil {
		return err
	}
	return nil
}

func (w *textWriter) Close() error { return w.sink.Flush() }
