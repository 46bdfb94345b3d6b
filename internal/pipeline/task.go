package pipeline

import (
	"seqalign/internal/csvcodec"
	"seqalign/internal/engine"
)

// Task aligns Prev.Seq against Curr.Seq into a pre-addressed result slot.
// Tasks share no mutable state, so any partition of a batch may run in
// parallel.
type Task struct {
	Prev   *csvcodec.Record
	Curr   *csvcodec.Record
	Result *engine.Result
	Err    error
}

func (t *Task) run(a *engine.Aligner) {
	t.Err = a.Align(t.Prev.Seq, t.Curr.Seq, t.Result)
}

// Executor runs a batch of tasks and returns once every task has finished.
type Executor interface {
	Dispatch(tasks []Task)
}

// Inline runs every task on the calling goroutine with one aligner.
type Inline struct{ a *engine.Aligner }

// NewInline builds a serial executor.
func NewInline(o Options) (*Inline, error) {
	a, err := engine.NewAligner(o.Matrix, o.Align)
	if err != nil {
		return nil, err
	}
	return &Inline{a: a}, nil
}

// Dispatch runs tasks in order.
func (in *Inline) Dispatch(tasks []Task) {
	for i := range tasks {
		tasks[i].run(in.a)
	}
}
