// internal/pipeline/run.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"seqalign/internal/csvcodec"
	"seqalign/internal/engine"
)

// DefaultBatchSize is the number of pairs per dispatch.
const DefaultBatchSize = 32768

// Config controls one run.
type Config struct {
	BatchSize int // pairs per dispatch (>=1); 1 is fully serial
	Observer  Observer
	Logger    *slog.Logger
}

// Observer receives per-batch progress.
type Observer interface {
	BatchDone(pairs int, elapsed time.Duration)
}

// Output is one aligned pair handed to the emit callback. Index is the
// 0-based pair number; pair i aligns records i and i+1.
type Output struct {
	Index  int
	Prev   *csvcodec.Record
	Curr   *csvcodec.Record
	Result *engine.Result
}

// Summary describes a finished run.
type Summary struct {
	Records int
	Pairs   int
	Batches int
	Elapsed time.Duration
}

// Run parses records from buf, aligns every adjacent pair through exec and
// calls emit for each pair in input order. The header line is skipped.
//
// Records live in a window of BatchSize+1 slots. After a batch the last
// record moves to slot 0 so it pairs with the first record of the next batch.
// Cancellation is checked between batches only.
func Run(
	ctx context.Context,
	cfg Config,
	buf []byte,
	layout *csvcodec.Layout,
	exec Executor,
	emit func(Output) error,
) (Summary, error) {
	start := time.Now()
	var sum Summary
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	cursor, err := layout.SkipHeader(buf)
	if err != nil {
		return sum, fmt.Errorf("header: %w", err)
	}

	b := cfg.BatchSize
	window := make([]csvcodec.Record, b+1)
	results := make([]engine.Result, b)
	tasks := make([]Task, b)

	cursor, err = layout.ParseRecord(buf, cursor, &window[0])
	switch {
	case errors.Is(err, io.EOF):
		sum.Elapsed = time.Since(start)
		return sum, nil
	case err != nil:
		return sum, fmt.Errorf("record 1: %w", err)
	}
	sum.Records = 1
	firstRow := 1 // record number held in window[0]
	eof := false

	for !eof {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		n := 1
		for n <= b {
			cursor, err = layout.ParseRecord(buf, cursor, &window[n])
			if errors.Is(err, io.EOF) {
				eof = true
				break
			}
			if err != nil {
				return sum, fmt.Errorf("record %d: %w", firstRow+n, err)
			}
			n++
		}
		pairs := n - 1
		if pairs == 0 {
			break
		}
		sum.Records += pairs

		for k := 0; k < pairs; k++ {
			tasks[k] = Task{Prev: &window[k], Curr: &window[k+1], Result: &results[k]}
		}
		t0 := time.Now()
		exec.Dispatch(tasks[:pairs])
		elapsed := time.Since(t0)

		for k := 0; k < pairs; k++ {
			if err := tasks[k].Err; err != nil {
				return sum, fmt.Errorf("records %d-%d: %w", firstRow+k, firstRow+k+1, err)
			}
		}
		for k := 0; k < pairs; k++ {
			out := Output{Index: sum.Pairs + k, Prev: tasks[k].Prev, Curr: tasks[k].Curr, Result: tasks[k].Result}
			if err := emit(out); err != nil {
				return sum, err
			}
		}

		sum.Pairs += pairs
		sum.Batches++
		if cfg.Observer != nil {
			cfg.Observer.BatchDone(pairs, elapsed)
		}
		log.Debug("batch done", "pairs", pairs, "elapsed", elapsed)

		window[0], window[pairs] = window[pairs], window[0]
		firstRow += pairs
	}
	sum.Elapsed = time.Since(start)
	return sum, nil
}
