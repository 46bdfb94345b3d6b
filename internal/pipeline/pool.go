// internal/pipeline/pool.go
package pipeline

import (
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"seqalign/internal/affinity"
	"seqalign/internal/engine"
	"seqalign/internal/scoring"
)

// MaxThreads caps the pool size.
const MaxThreads = 16

// Options configures executors.
type Options struct {
	Workers int  // 0 means runtime.NumCPU(); capped at MaxThreads
	Pin     bool // pin each worker's thread to a CPU
	Matrix  *scoring.Matrix
	Align   engine.Options
	Logger  *slog.Logger
}

// workers resolves the effective pool size.
func (o Options) workers() int {
	n := o.Workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > MaxThreads {
		n = MaxThreads
	}
	return n
}

type worker struct {
	ready chan []Task   // producer -> worker
	done  chan struct{} // worker -> producer
	a     *engine.Aligner
}

// Pool is a fixed set of long-lived workers, each owning one aligner. The
// producer hands every worker one contiguous slice per batch and waits for
// all of them before the batch is considered complete.
type Pool struct {
	workers []*worker
	g       errgroup.Group
	log     *slog.Logger
	closed  bool
}

// NewPool starts the workers. Aligner construction errors are returned
// before any goroutine starts.
func NewPool(o Options) (*Pool, error) {
	n := o.workers()
	log := o.Logger
	if log == nil {
		log = slog.Default()
	}
	p := &Pool{workers: make([]*worker, n), log: log}
	for t := range p.workers {
		a, err := engine.NewAligner(o.Matrix, o.Align)
		if err != nil {
			return nil, err
		}
		p.workers[t] = &worker{ready: make(chan []Task), done: make(chan struct{}), a: a}
	}
	for t, w := range p.workers {
		p.g.Go(func() error {
			if o.Pin {
				if err := affinity.PinWorker(t); err != nil {
					p.log.Debug("worker not pinned", "worker", t, "err", err)
				}
			}
			for slice := range w.ready {
				for i := range slice {
					slice[i].run(w.a)
				}
				w.done <- struct{}{}
			}
			return nil
		})
	}
	return p, nil
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Dispatch splits tasks across the workers and blocks until all of them have
// signalled completion. It must not be called concurrently or after Close.
func (p *Pool) Dispatch(tasks []Task) {
	spans := Split(len(tasks), len(p.workers))
	for t, w := range p.workers {
		s := spans[t]
		w.ready <- tasks[s.Start:s.End]
	}
	for _, w := range p.workers {
		<-w.done
	}
}

// Close stops the workers and waits for them to exit. It is idempotent.
func (p *Pool) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	for _, w := range p.workers {
		close(w.ready)
	}
	return p.g.Wait()
}
