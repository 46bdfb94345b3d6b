package writers

import (
	"io"

	"seqalign/internal/csvcodec"
	"seqalign/internal/output"
)

func init() {
	Register(output.FormatCSV, newCSVWriter)
}

// csvWriter projects items through the configured column layout.
type csvWriter struct {
	layout *csvcodec.Layout
	sink   *Sink
}

func newCSVWriter(out io.Writer, o Options) Writer {
	return &csvWriter{
		layout: o.Layout,
		sink:   NewSink(out, o.BufferSize, o.Layout.WorstCaseRecord(), o.Observer),
	}
}

func (w *csvWriter) WriteHeader() error {
	_, err := w.sink.Write(w.layout.WriteHeader())
	return err
}

func (w *csvWriter) Write(it Item) error {
	dst, err := w.sink.Next()
	if err != nil {
		return err
	}
	w.sink.Commit(w.layout.AppendRecord(dst, it.Prev, it.Curr, it.Result))
	return nil
}

func (w *csvWriter) Close() error { return w.sink.Flush() }
