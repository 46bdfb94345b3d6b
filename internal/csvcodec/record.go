package csvcodec

import (
	"bytes"
	"fmt"
	"io"

	"seqalign/internal/errs"
)

var (
	ErrFieldTooLong = fmt.Errorf("%w: field too long", errs.ErrBounds)
	ErrColumnCount  = fmt.Errorf("%w: wrong column count", errs.ErrBounds)
)

// BoundsError reports a field longer than its buffer.
type BoundsError struct {
	Field string // "sequence" or "passthrough"
	Len   int
	Max   int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%v: %s has %d bytes, max %d", ErrFieldTooLong, e.Field, e.Len, e.Max)
}

func (e *BoundsError) Unwrap() error { return ErrFieldTooLong }

// ColumnCountError reports a line whose column count differs from the read
// header. Row 0 is the header itself.
type ColumnCountError struct {
	Row  int
	Got  int
	Want int
}

func (e *ColumnCountError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("%v: header has %d columns, layout expects %d", ErrColumnCount, e.Got, e.Want)
	}
	return fmt.Sprintf("%v: %d columns, want %d", ErrColumnCount, e.Got, e.Want)
}

func (e *ColumnCountError) Unwrap() error { return ErrColumnCount }

// Record is one parsed input row. Its buffers are reused by ParseRecord.
type Record struct {
	Seq  []byte
	Blob []byte // passthrough fields in input order, joined by Unit
	ends []int
}

// Fields returns the number of passthrough fields.
func (r *Record) Fields() int { return len(r.ends) }

// Field returns passthrough field k, or nil when k is out of range.
func (r *Record) Field(k int) []byte {
	if k < 0 || k >= len(r.ends) {
		return nil
	}
	start := 0
	if k > 0 {
		start = r.ends[k-1] + 1
	}
	return r.Blob[start:r.ends[k]]
}

// Reset empties r and keeps its buffers.
func (r *Record) Reset() {
	r.Seq = r.Seq[:0]
	r.Blob = r.Blob[:0]
	r.ends = r.ends[:0]
}

// ParseRecord parses the line starting at buf[cursor:] into rec and returns
// the offset of the next line. Empty lines are skipped; io.EOF is returned
// when no record remains. On error the returned offset still points past the
// offending line.
func (l *Layout) ParseRecord(buf []byte, cursor int, rec *Record) (int, error) {
	for cursor < len(buf) && (buf[cursor] == '\n' || buf[cursor] == '\r') {
		cursor++
	}
	if cursor >= len(buf) {
		return len(buf), io.EOF
	}
	next := len(buf)
	line := buf[cursor:]
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
		next = cursor + i + 1
	}
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}

	rec.Reset()
	col := 0
	for {
		field := line
		i := bytes.IndexByte(line, l.sep)
		if i >= 0 {
			field = line[:i]
		}
		if col == l.seqCol {
			if len(field) > l.maxSeqLen {
				return next, &BoundsError{Field: "sequence", Len: len(field), Max: l.maxSeqLen}
			}
			rec.Seq = append(rec.Seq, field...)
		} else {
			if len(rec.ends) > 0 {
				rec.Blob = append(rec.Blob, Unit)
			}
			rec.Blob = append(rec.Blob, field...)
			if len(rec.Blob) > l.maxBlob {
				return next, &BoundsError{Field: "passthrough", Len: len(rec.Blob), Max: l.maxBlob}
			}
			rec.ends = append(rec.ends, len(rec.Blob))
		}
		col++
		if i < 0 {
			break
		}
		line = line[i+1:]
	}
	if col != l.readCols {
		return next, &ColumnCountError{Got: col, Want: l.readCols}
	}
	return next, nil
}
