// internal/writers/jsonl.go
package writers

import (
	"encoding/json"
	"io"

	"seqalign/internal/output"
)

func init() {
	Register(output.FormatJSONL, newJSONLWriter)
}

// jsonlWriter streams each pair as one api.PairV1 JSON line. There is no
// header line.
type jsonlWriter struct {
	sink *Sink
	enc  *json.Encoder
}

func newJSONLWriter(out io.Writer, o Options) Writer {
	sink := NewSink(out, o.BufferSize, 0, o.Observer)
	return &jsonlWriter{sink: sink, enc: json.NewEncoder(sink)}
}

func (w *jsonlWriter) WriteHeader() error { return nil }

func (w *jsonlWriter) Write(it Item) error {
	return w.enc.Encode(output.ToAPIPair(it.Index, it.Prev, it.Curr, it.Result))
}

func (w *jsonlWriter) Close() error { return w.sink.Flush() }
