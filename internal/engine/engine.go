// internal/engine/engine.go
package engine

import (
	"fmt"
	"math"

	"seqalign/internal/errs"
	"seqalign/internal/scoring"
)

// GapSymbol marks a gap position in an aligned sequence.
const GapSymbol byte = '-'

// DefaultGap is the stock linear gap penalty.
const DefaultGap int32 = -4

// MaxGap bounds the magnitude of the gap penalty.
const MaxGap = 1 << 16

// maxCells bounds the DP arena (int32 cells) an aligner may allocate.
const maxCells = 1 << 28

var (
	ErrSequenceTooLong = fmt.Errorf("%w: sequence longer than maximum", errs.ErrBounds)
	ErrTableTooLarge   = fmt.Errorf("%w: alignment table too large", errs.ErrResource)
)

// LengthError reports a sequence exceeding Options.MaxSeqLen.
type LengthError struct {
	Which int // 1 or 2
	Len   int
	Max   int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("%v: seq%d has %d symbols, max %d", ErrSequenceTooLong, e.Which, e.Len, e.Max)
}

func (e *LengthError) Unwrap() error { return ErrSequenceTooLong }

// Move is one traceback step.
type Move uint8

// Traceback preference when several predecessors reproduce a cell: a diagonal
// step wins over a step up (gap in seq1), which wins over a step left (gap in
// seq2).
const (
	MoveDiag Move = iota
	MoveUp
	MoveLeft
)

// Options configures an Aligner.
type Options struct {
	Gap       int32 // linear gap penalty, <= 0; zero makes gaps free
	MaxSeqLen int   // per-sequence length limit
	Wide      bool  // unrolled boundary fill
	Stats     bool  // run the similarity pass after traceback
}

// Aligner computes Needleman-Wunsch global alignments. It owns its DP arena
// and encode buffers, so one Aligner must not be shared between goroutines.
// The scoring matrix is read-only and may be shared.
type Aligner struct {
	m     *scoring.Matrix
	opt   Options
	table []int32
	code1 []uint8
	code2 []uint8
}

// NewAligner validates o and preallocates the arena for MaxSeqLen-sized inputs.
func NewAligner(m *scoring.Matrix, o Options) (*Aligner, error) {
	if m == nil {
		return nil, errs.Ef(errs.ErrConfig, "engine", "nil scoring matrix")
	}
	if o.MaxSeqLen < 1 {
		return nil, errs.Ef(errs.ErrConfig, "engine", "max sequence length %d < 1", o.MaxSeqLen)
	}
	if o.Gap > 0 || o.Gap < -MaxGap {
		return nil, errs.Ef(errs.ErrConfig, "engine", "gap penalty %d outside -%d..0", o.Gap, MaxGap)
	}
	// Every cell stays within ±(maxAbs+|gap|) * 2*MaxSeqLen.
	if bound := (int64(m.MaxAbs()) - int64(o.Gap)) * 2 * int64(o.MaxSeqLen); bound > math.MaxInt32 {
		return nil, errs.Ef(errs.ErrConfig, "engine",
			"scores up to %d with gap %d can overflow at max sequence length %d", m.MaxAbs(), o.Gap, o.MaxSeqLen)
	}
	side := o.MaxSeqLen + 1
	if side > maxCells/side {
		return nil, &errs.Error{Kind: errs.ErrResource, Op: "engine", Err: fmt.Errorf("%w: %d x %d", ErrTableTooLarge, side, side)}
	}
	return &Aligner{
		m:     m,
		opt:   o,
		table: make([]int32, side*side),
		code1: make([]uint8, 0, o.MaxSeqLen),
		code2: make([]uint8, 0, o.MaxSeqLen),
	}, nil
}

// Options returns the effective options.
func (a *Aligner) Options() Options { return a.opt }

// Align fills res with the optimal global alignment of seq1 and seq2.
// res buffers are reused across calls. On error res is left unchanged.
func (a *Aligner) Align(seq1, seq2 []byte, res *Result) error {
	if len(seq1) > a.opt.MaxSeqLen {
		return &LengthError{Which: 1, Len: len(seq1), Max: a.opt.MaxSeqLen}
	}
	if len(seq2) > a.opt.MaxSeqLen {
		return &LengthError{Which: 2, Len: len(seq2), Max: a.opt.MaxSeqLen}
	}
	var err error
	if a.code1, err = a.m.Encode(seq1, a.code1[:0]); err != nil {
		return fmt.Errorf("seq1: %w", err)
	}
	if a.code2, err = a.m.Encode(seq2, a.code2[:0]); err != nil {
		return fmt.Errorf("seq2: %w", err)
	}

	a.fill()
	a.traceback(seq1, seq2, res)
	if a.opt.Stats {
		Similarity(res)
	} else {
		res.Stats = Stats{}
		res.HasStats = false
	}
	return nil
}

// fill computes the DP table. Rows follow seq2 (i), columns follow seq1 (j).
func (a *Aligner) fill() {
	n1, n2 := len(a.code1), len(a.code2)
	cols := n1 + 1
	t := a.table[:cols*(n2+1)]
	gap := a.opt.Gap

	if a.opt.Wide {
		fillGapRowWide(t[:cols], gap)
	} else {
		fillGapRowScalar(t[:cols], gap)
	}

	for i := 1; i <= n2; i++ {
		prev := t[(i-1)*cols : i*cols]
		cur := t[i*cols : (i+1)*cols]
		cur[0] = int32(i) * gap
		c2 := a.code2[i-1]
		for j := 1; j <= n1; j++ {
			best := prev[j-1] + a.m.Score(a.code1[j-1], c2)
			if up := prev[j] + gap; up > best {
				best = up
			}
			if left := cur[j-1] + gap; left > best {
				best = left
			}
			cur[j] = best
		}
	}
}

// step picks the predecessor of cell (i, j) by recomputing the candidates.
func (a *Aligner) step(i, j int) Move {
	switch {
	case i == 0:
		return MoveLeft
	case j == 0:
		return MoveUp
	}
	cols := len(a.code1) + 1
	t := a.table
	v := t[i*cols+j]
	if v == t[(i-1)*cols+j-1]+a.m.Score(a.code1[j-1], a.code2[i-1]) {
		return MoveDiag
	}
	if v == t[(i-1)*cols+j]+a.opt.Gap {
		return MoveUp
	}
	return MoveLeft
}

func (a *Aligner) traceback(seq1, seq2 []byte, res *Result) {
	n1, n2 := len(seq1), len(seq2)
	out1 := grow(res.Aligned1, n1+n2)
	out2 := grow(res.Aligned2, n1+n2)

	pos := n1 + n2
	i, j := n2, n1
	for i > 0 || j > 0 {
		pos--
		switch a.step(i, j) {
		case MoveDiag:
			out1[pos], out2[pos] = seq1[j-1], seq2[i-1]
			i--
			j--
		case MoveUp:
			out1[pos], out2[pos] = GapSymbol, seq2[i-1]
			i--
		default:
			out1[pos], out2[pos] = seq1[j-1], GapSymbol
			j--
		}
	}
	n := copy(out1, out1[pos:])
	copy(out2, out2[pos:])

	res.Aligned1 = out1[:n]
	res.Aligned2 = out2[:n]
	res.Score = a.table[n2*(n1+1)+n1]
}

func grow(b []byte, n int) []byte {
	if cap(b) < n {
		return make([]byte, n)
	}
	return b[:n]
}
