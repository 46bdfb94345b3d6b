// Package tune measures alignment throughput across batch sizes.
package tune

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"seqalign/internal/csvcodec"
	"seqalign/internal/errs"
	"seqalign/internal/pipeline"
)

const (
	DefaultMinBatch = 256
	DefaultMaxBatch = 1 << 17
	DefaultMaxRows  = 200_000
)

// Config bounds a sweep. Batch sizes double from MinBatch up to MaxBatch.
type Config struct {
	MinBatch int
	MaxBatch int
	MaxRows  int // header excluded; <=0 means the whole input
	Logger   *slog.Logger
}

// Point is one timed run.
type Point struct {
	BatchSize int           `json:"batch_size"`
	Pairs     int           `json:"pairs"`
	Elapsed   time.Duration `json:"elapsed_ns"`
}

// Rate returns pairs aligned per second.
func (p Point) Rate() float64 {
	if p.Elapsed <= 0 {
		return 0
	}
	return float64(p.Pairs) / p.Elapsed.Seconds()
}

// Report is the result of a sweep. Best has the shortest elapsed time.
type Report struct {
	Points []Point `json:"points"`
	Best   Point   `json:"best"`
}

// Sizes returns the batch sizes a sweep visits.
func (c Config) Sizes() []int {
	var out []int
	for b := c.MinBatch; b >= 1 && b <= c.MaxBatch; b *= 2 {
		out = append(out, b)
		if b > c.MaxBatch/2 {
			break
		}
	}
	return out
}

func (c Config) validate() error {
	if c.MinBatch < 1 || c.MaxBatch < c.MinBatch {
		return errs.Ef(errs.ErrConfig, "tune", "batch range %d..%d is invalid", c.MinBatch, c.MaxBatch)
	}
	return nil
}

// Sample returns the header line and at most rows following lines of buf.
func Sample(buf []byte, rows int) []byte {
	if rows <= 0 {
		return buf
	}
	end := 0
	for i := 0; i <= rows; i++ {
		nl := bytes.IndexByte(buf[end:], '\n')
		if nl < 0 {
			return buf
		}
		end += nl + 1
	}
	return buf[:end]
}

// Sweep runs the sampled input once per batch size through exec. Results
// are discarded; only timing is kept.
func Sweep(ctx context.Context, cfg Config, buf []byte, layout *csvcodec.Layout, exec pipeline.Executor) (Report, error) {
	var rep Report
	if err := cfg.validate(); err != nil {
		return rep, err
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	sample := Sample(buf, cfg.MaxRows)
	discard := func(pipeline.Output) error { return nil }

	for _, b := range cfg.Sizes() {
		sum, err := pipeline.Run(ctx, pipeline.Config{BatchSize: b, Logger: log}, sample, layout, exec, discard)
		if err != nil {
			return rep, fmt.Errorf("batch size %d: %w", b, err)
		}
		p := Point{BatchSize: b, Pairs: sum.Pairs, Elapsed: sum.Elapsed}
		rep.Points = append(rep.Points, p)
		if len(rep.Points) == 1 || p.Elapsed < rep.Best.Elapsed {
			rep.Best = p
		}
		log.Info("batch size timed", "batch_size", b, "pairs", p.Pairs, "elapsed", p.Elapsed)
	}
	return rep, nil
}

// WriteTable prints the report as an aligned table followed by the best size.
func (r Report) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "batch_size\tpairs\tseconds\tpairs/s\t")
	for _, p := range r.Points {
		fmt.Fprintf(tw, "%d\t%d\t%.4f\t%.0f\t\n", p.BatchSize, p.Pairs, p.Elapsed.Seconds(), p.Rate())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(r.Points) == 0 {
		return nil
	}
	_, err := fmt.Fprintf(w, "Best batch size: %d\n", r.Best.BatchSize)
	return err
}

// WriteJSON writes the report as indented JSON.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
