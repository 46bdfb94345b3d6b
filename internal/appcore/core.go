// internal/appcore/core.go
package appcore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"seqalign/internal/config"
	"seqalign/internal/csvcodec"
	"seqalign/internal/logger"
	"seqalign/internal/metrics"
	"seqalign/internal/mmapfile"
	"seqalign/internal/output"
	"seqalign/internal/pipeline"
	"seqalign/internal/scoring"
	"seqalign/internal/writers"
)

// Env is everything resolved once before the first record is read.
type Env struct {
	Cfg     *config.Config
	Log     *slog.Logger
	Matrix  *scoring.Matrix
	Layout  *csvcodec.Layout
	Metrics *metrics.Metrics
	Stats   bool // run the similarity pass
}

// Prepare validates cfg, installs logging on stderr and builds the scoring
// matrix and column layout. Quiet raises the default log level to warn.
func Prepare(cfg *config.Config, stderr io.Writer, quiet bool) (*Env, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level := cfg.Logging.Level
	if quiet && (level == "" || level == "info") {
		level = "warn"
	}
	log := logger.Setup(stderr, level, cfg.Logging.Format)

	m, err := cfg.Matrix()
	if err != nil {
		return nil, err
	}
	layout, err := csvcodec.NewLayout(cfg.Layout())
	if err != nil {
		return nil, err
	}
	stats := layout.NeedsStats() || cfg.Write.Format != output.FormatCSV
	return &Env{Cfg: cfg, Log: log, Matrix: m, Layout: layout, Metrics: metrics.New(), Stats: stats}, nil
}

// ExecOptions returns executor options for this run.
func (e *Env) ExecOptions() pipeline.Options {
	return pipeline.Options{
		Workers: e.Cfg.Pipeline.Threads,
		Pin:     e.Cfg.Pipeline.Pin,
		Matrix:  e.Matrix,
		Align:   e.Cfg.AlignOptions(e.Stats),
		Logger:  logger.WithComponent("pool"),
	}
}

// NewExecutor builds the serial executor for one thread and the worker pool
// otherwise. The returned closer stops the pool.
func (e *Env) NewExecutor() (pipeline.Executor, func() error, error) {
	o := e.ExecOptions()
	if o.Workers == 1 {
		in, err := pipeline.NewInline(o)
		if err != nil {
			return nil, nil, err
		}
		e.Metrics.Workers.Set(1)
		return in, func() error { return nil }, nil
	}
	p, err := pipeline.NewPool(o)
	if err != nil {
		return nil, nil, err
	}
	e.Metrics.Workers.Set(float64(p.Size()))
	return p, p.Close, nil
}

// StartMetrics starts the scrape server when configured. The returned stop
// func also writes the textfile when one is configured.
func (e *Env) StartMetrics() (func(), error) {
	var shutdown func(context.Context) error
	if addr := e.Cfg.Metrics.Addr; addr != "" {
		_, sd, err := metrics.StartServer(addr, e.Metrics, logger.WithComponent("metrics"))
		if err != nil {
			return nil, err
		}
		shutdown = sd
	}
	return func() {
		if path := e.Cfg.Metrics.Textfile; path != "" {
			if err := e.Metrics.WriteTextfile(path); err != nil {
				e.Log.Warn("metrics textfile not written", "path", path, "error", err)
			}
		}
		if shutdown != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}
	}, nil
}

// Run aligns every adjacent pair of input and writes results to out. A nil
// out (or output disabled in the config) discards results.
func Run(ctx context.Context, env *Env, input string, out io.Writer) (pipeline.Summary, error) {
	in, err := mmapfile.Open(input)
	if err != nil {
		return pipeline.Summary{}, err
	}
	defer in.Close()

	exec, closeExec, err := env.NewExecutor()
	if err != nil {
		return pipeline.Summary{}, err
	}
	defer closeExec()

	var w writers.Writer = writers.Discard{}
	if out != nil && env.Cfg.Write.Enabled {
		w, err = writers.New(env.Cfg.Write.Format, out, writers.Options{
			BufferSize: env.Cfg.Limits.WriteBuffer,
			Observer:   env.Metrics,
			Layout:     env.Layout,
			Matrix:     env.Matrix,
		})
		if err != nil {
			return pipeline.Summary{}, err
		}
	}
	if err := w.WriteHeader(); err != nil {
		return pipeline.Summary{}, err
	}

	sum, err := pipeline.Run(ctx, pipeline.Config{
		BatchSize: env.Cfg.Pipeline.BatchSize,
		Observer:  env.Metrics,
		Logger:    logger.WithComponent("pipeline"),
	}, in.Bytes(), env.Layout, exec, func(o pipeline.Output) error {
		return w.Write(writers.Item(o))
	})
	env.Metrics.Records.Add(float64(sum.Records))
	env.Metrics.RunSeconds.Set(sum.Elapsed.Seconds())

	// Flush what was aligned even when the run stopped early.
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return sum, fmt.Errorf("%s: %w", input, err)
	}
	env.Log.Info("alignment finished",
		"records", sum.Records, "pairs", sum.Pairs, "batches", sum.Batches,
		"elapsed", sum.Elapsed, "mapped", in.Mapped())
	return sum, nil
}
