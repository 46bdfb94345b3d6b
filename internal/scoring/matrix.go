// Package scoring holds substitution-score tables over a fixed, bounded
// alphabet. A Matrix is built once and shared read-only by every aligner.
package scoring

import (
	"fmt"
	"strings"

	"seqalign/internal/errs"
)

// MaxAlphabet is the largest alphabet a Matrix can index.
const MaxAlphabet = 32

// MaxScore bounds the magnitude of any table entry.
const MaxScore = 1 << 16

const noCode = 0xFF

// ErrUnknownSymbol reports a byte outside the matrix alphabet.
var ErrUnknownSymbol = fmt.Errorf("%w: symbol outside scoring alphabet", errs.ErrAlphabet)

// SymbolError carries the offending byte and its 0-based position.
type SymbolError struct {
	Symbol byte
	Pos    int
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("%v: %q at position %d", ErrUnknownSymbol, e.Symbol, e.Pos)
}

func (e *SymbolError) Unwrap() error { return ErrUnknownSymbol }

// Matrix is an immutable substitution table. Codes are indices into the
// alphabet; Lookup is case-insensitive for ASCII letters.
type Matrix struct {
	name     string
	alphabet string
	size     int
	lookup   [256]uint8
	scores   []int32 // size*size, row-major
	maxAbs   int32
}

// New builds a matrix from an alphabet and a square score table whose row and
// column order follows the alphabet.
func New(name, alphabet string, rows [][]int) (*Matrix, error) {
	n := len(alphabet)
	if n == 0 || n > MaxAlphabet {
		return nil, errs.Ef(errs.ErrConfig, "scoring", "alphabet size %d outside 1..%d", n, MaxAlphabet)
	}
	if len(rows) != n {
		return nil, errs.Ef(errs.ErrConfig, "scoring", "%d rows for alphabet of %d", len(rows), n)
	}
	m := &Matrix{name: name, alphabet: alphabet, size: n, scores: make([]int32, n*n)}
	for i := range m.lookup {
		m.lookup[i] = noCode
	}
	for i := 0; i < n; i++ {
		c := alphabet[i]
		if m.lookup[c] != noCode {
			return nil, errs.Ef(errs.ErrConfig, "scoring", "duplicate symbol %q", c)
		}
		m.lookup[c] = uint8(i)
		if lc := toLower(c); lc != c && m.lookup[lc] == noCode {
			m.lookup[lc] = uint8(i)
		}
		if len(rows[i]) != n {
			return nil, errs.Ef(errs.ErrConfig, "scoring", "row %q has %d columns, want %d", c, len(rows[i]), n)
		}
		for j, v := range rows[i] {
			if v > MaxScore || v < -MaxScore {
				return nil, errs.Ef(errs.ErrConfig, "scoring", "score %d at (%q, %q) outside ±%d", v, c, alphabet[j], MaxScore)
			}
			m.scores[i*n+j] = int32(v)
			if a := int32(abs(v)); a > m.maxAbs {
				m.maxAbs = a
			}
		}
	}
	return m, nil
}

// NewMatchMismatch builds a matrix that scores match on the diagonal and
// mismatch everywhere else.
func NewMatchMismatch(alphabet string, match, mismatch int) (*Matrix, error) {
	rows := make([][]int, len(alphabet))
	for i := range rows {
		rows[i] = make([]int, len(alphabet))
		for j := range rows[i] {
			if i == j {
				rows[i][j] = match
			} else {
				rows[i][j] = mismatch
			}
		}
	}
	return New(fmt.Sprintf("simple(%d,%d)", match, mismatch), alphabet, rows)
}

// MaxAbs returns the largest score magnitude in the table.
func (m *Matrix) MaxAbs() int32 { return m.maxAbs }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Name returns the table name.
func (m *Matrix) Name() string { return m.name }

// Alphabet returns the symbols in code order.
func (m *Matrix) Alphabet() string { return m.alphabet }

// Size is the alphabet size.
func (m *Matrix) Size() int { return m.size }

// Lookup maps a symbol to its code.
func (m *Matrix) Lookup(symbol byte) (uint8, bool) {
	c := m.lookup[symbol]
	return c, c != noCode
}

// Score returns the substitution score for two codes. Codes must come from
// Lookup or Encode.
func (m *Matrix) Score(a, b uint8) int32 {
	return m.scores[int(a)*m.size+int(b)]
}

// Row returns the scores of code a against every code, in code order.
func (m *Matrix) Row(a uint8) []int32 {
	off := int(a) * m.size
	return m.scores[off : off+m.size]
}

// Symmetric reports whether Score(a, b) == Score(b, a) for all codes.
func (m *Matrix) Symmetric() bool {
	for i := 0; i < m.size; i++ {
		for j := i + 1; j < m.size; j++ {
			if m.scores[i*m.size+j] != m.scores[j*m.size+i] {
				return false
			}
		}
	}
	return true
}

// Encode appends the codes of seq to dst[:0]. It stops at the first symbol
// outside the alphabet and returns a *SymbolError.
func (m *Matrix) Encode(seq []byte, dst []uint8) ([]uint8, error) {
	dst = dst[:0]
	for i, s := range seq {
		c := m.lookup[s]
		if c == noCode {
			return dst, &SymbolError{Symbol: s, Pos: i}
		}
		dst = append(dst, c)
	}
	return dst, nil
}

// ByName returns a built-in table. "simple" is not resolvable here because it
// needs scores; use NewMatchMismatch.
func ByName(name string) (*Matrix, error) {
	switch strings.ToLower(name) {
	case "blosum62", "":
		return BLOSUM62(), nil
	case "blosum50":
		return BLOSUM50(), nil
	default:
		return nil, errs.Ef(errs.ErrConfig, "scoring", "unknown matrix %q (want blosum62 | blosum50 | simple)", name)
	}
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
