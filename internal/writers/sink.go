// internal/writers/sink.go
package writers

import (
	"io"

	"seqalign/internal/errs"
)

// DefaultBufferSize is the output buffer capacity.
const DefaultBufferSize = 128 << 10

// FlushObserver is told about every flush.
type FlushObserver interface {
	Flushed(n int)
}

// Sink buffers output and flushes whenever fewer than reserve bytes of
// capacity remain. Once a write fails every later call returns that error.
type Sink struct {
	w       io.Writer
	buf     []byte
	reserve int
	obs     FlushObserver
	err     error
}

// NewSink allocates the buffer once. Capacity is raised to at least
// 2*reserve so one record always fits after a flush.
func NewSink(w io.Writer, capacity, reserve int, obs FlushObserver) *Sink {
	if capacity <= 0 {
		capacity = DefaultBufferSize
	}
	if capacity < 2*reserve {
		capacity = 2 * reserve
	}
	return &Sink{w: w, buf: make([]byte, 0, capacity), reserve: reserve, obs: obs}
}

// Next returns the buffer to append one record to, flushing first when the
// spare capacity is below the reserve. Pass the extended slice to Commit.
func (s *Sink) Next() ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	if cap(s.buf)-len(s.buf) < s.reserve {
		if err := s.Flush(); err != nil {
			return nil, err
		}
	}
	return s.buf, nil
}

// Commit records the buffer returned by Next after appending to it.
func (s *Sink) Commit(b []byte) { s.buf = b }

// Write copies p into the buffer, flushing as needed. It lets encoders that
// want an io.Writer share the flush policy.
func (s *Sink) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n := 0
	for len(p) > 0 {
		if len(s.buf) == cap(s.buf) {
			if err := s.Flush(); err != nil {
				return n, err
			}
		}
		k := copy(s.buf[len(s.buf):cap(s.buf)], p)
		s.buf = s.buf[:len(s.buf)+k]
		p = p[k:]
		n += k
	}
	return n, nil
}

// Buffered returns the number of bytes waiting for a flush.
func (s *Sink) Buffered() int { return len(s.buf) }

// Flush writes out the buffer.
func (s *Sink) Flush() error {
	if s.err != nil {
		return s.err
	}
	if len(s.buf) == 0 {
		return nil
	}
	n, err := s.w.Write(s.buf)
	if err == nil && n < len(s.buf) {
		err = io.ErrShortWrite
	}
	if err != nil {
		s.err = errs.E(errs.ErrIO, "write output", err)
		return s.err
	}
	if s.obs != nil {
		s.obs.Flushed(n)
	}
	s.buf = s.buf[:0]
	return nil
}
