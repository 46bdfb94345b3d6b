package csvcodec

import (
	"bytes"
	"fmt"
	"strings"

	"seqalign/internal/errs"
)

// Unit separates passthrough fields inside Record.Blob.
const Unit byte = 0x1F

// Disabled marks an optional output column as absent.
const Disabled = -1

// Lower bounds on the length limits.
const (
	MinMaxLine   = 32
	MinMaxSeqLen = 1
)

var ErrInvalidLayout = fmt.Errorf("%w: invalid column layout", errs.ErrConfig)

// ConfigError describes why a layout was rejected.
type ConfigError struct{ Reason string }

func (e *ConfigError) Error() string { return fmt.Sprintf("%v: %s", ErrInvalidLayout, e.Reason) }

func (e *ConfigError) Unwrap() error { return ErrInvalidLayout }

func invalid(format string, args ...any) error {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// ReadConfig describes the input table.
type ReadConfig struct {
	Header         string
	SequenceColumn int
}

// Pair places passthrough field k of the previous record at First and of the
// current record at Second.
type Pair struct {
	First  int `yaml:"first"`
	Second int `yaml:"second"`
}

// WriteConfig describes the output table. Stat columns set to Disabled are
// omitted; Pairs left nil are assigned to free columns in ascending order.
type WriteConfig struct {
	Header           string
	Seq1Column       int
	Seq2Column       int
	ScoreColumn      int
	AlignColumn      int
	MatchesColumn    int
	MismatchesColumn int
	GapsColumn       int
	SimilarityColumn int
	Template         string
	Pairs            []Pair
}

// Config is everything NewLayout needs.
type Config struct {
	Separator byte
	MaxSeqLen int
	MaxLine   int
	Read      ReadConfig
	Write     WriteConfig
}

// DefaultConfig returns the stock two-column input and ten-column output.
func DefaultConfig() Config {
	return Config{
		Separator: ',',
		MaxSeqLen: 64,
		MaxLine:   256,
		Read: ReadConfig{
			Header:         "sequence,label\n",
			SequenceColumn: 0,
		},
		Write: WriteConfig{
			Header:           "sequence1,sequence2,label1,label2,score,alignment,matches,mismatches,gaps,similarity\n",
			Seq1Column:       0,
			Seq2Column:       1,
			ScoreColumn:      4,
			AlignColumn:      5,
			MatchesColumn:    6,
			MismatchesColumn: 7,
			GapsColumn:       8,
			SimilarityColumn: 9,
			Template:         `"('%s', '%s')"`,
		},
	}
}

type colKind uint8

const (
	colSeq1 colKind = iota
	colSeq2
	colScore
	colAlign
	colMatches
	colMismatches
	colGaps
	colSimilarity
	colPrev
	colCurr
)

var kindNames = [...]string{"seq1", "seq2", "score", "alignment", "matches", "mismatches", "gaps", "similarity"}

type column struct {
	kind  colKind
	field int // passthrough field for colPrev / colCurr
}

// Layout is a validated column layout.
type Layout struct {
	sep       byte
	maxSeqLen int
	maxBlob   int

	readCols int
	seqCol   int

	readHeader  []byte
	writeHeader []byte

	tmplHead, tmplMid, tmplTail []byte

	cols  []column
	pairs []Pair
	stats bool
}

// NewLayout validates cfg and resolves the output column table.
func NewLayout(cfg Config) (*Layout, error) {
	if cfg.MaxLine < MinMaxLine || cfg.MaxSeqLen < MinMaxSeqLen {
		return nil, invalid("limits too low: maxLine %d (min %d), maxSeqLen %d (min %d)",
			cfg.MaxLine, MinMaxLine, cfg.MaxSeqLen, MinMaxSeqLen)
	}
	if cfg.MaxSeqLen >= cfg.MaxLine {
		return nil, invalid("maxSeqLen %d must be below maxLine %d", cfg.MaxSeqLen, cfg.MaxLine)
	}
	sep := cfg.Separator
	if sep == 0 {
		sep = ','
	}
	if sep == '\n' || sep == '\r' || sep == Unit {
		return nil, invalid("separator %q not allowed", sep)
	}

	l := &Layout{sep: sep, maxSeqLen: cfg.MaxSeqLen, maxBlob: cfg.MaxLine - cfg.MaxSeqLen}

	var err error
	if l.readHeader, l.readCols, err = checkHeader("read", cfg.Read.Header, sep); err != nil {
		return nil, err
	}
	if cfg.Read.SequenceColumn < 0 || cfg.Read.SequenceColumn >= l.readCols {
		return nil, invalid("read sequence column %d outside 0..%d", cfg.Read.SequenceColumn, l.readCols-1)
	}
	l.seqCol = cfg.Read.SequenceColumn

	if err := l.setTemplate(cfg.Write.Template); err != nil {
		return nil, err
	}

	var writeCols int
	if l.writeHeader, writeCols, err = checkHeader("write", cfg.Write.Header, sep); err != nil {
		return nil, err
	}
	if err := l.resolveColumns(cfg.Write, writeCols); err != nil {
		return nil, err
	}
	return l, nil
}

func checkHeader(which, h string, sep byte) ([]byte, int, error) {
	if !strings.HasSuffix(h, "\n") {
		return nil, 0, invalid("%s header %q has no record terminator", which, h)
	}
	line := strings.TrimRight(h, "\r\n")
	if strings.ContainsAny(line, "\r\n") {
		return nil, 0, invalid("%s header spans several lines", which)
	}
	if strings.IndexByte(line, sep) < 0 {
		return nil, 0, invalid("%s header %q has no separator %q", which, line, sep)
	}
	return []byte(h), strings.Count(line, string(sep)) + 1, nil
}

func (l *Layout) setTemplate(t string) error {
	if n := strings.Count(t, "%s"); n != 2 {
		return invalid("alignment template %q has %d %%s placeholders, want 2", t, n)
	}
	if strings.ContainsAny(t, "\r\n") || strings.IndexByte(t, l.sep) >= 0 && !quotedTemplate(t) {
		return invalid("alignment template %q contains a separator or terminator", t)
	}
	first := strings.Index(t, "%s")
	second := first + 2 + strings.Index(t[first+2:], "%s")
	l.tmplHead = []byte(t[:first])
	l.tmplMid = []byte(t[first+2 : second])
	l.tmplTail = []byte(t[second+2:])
	return nil
}

// quotedTemplate reports whether t is wrapped in double quotes, which makes
// an embedded separator safe for CSV consumers.
func quotedTemplate(t string) bool {
	return len(t) >= 2 && t[0] == '"' && t[len(t)-1] == '"'
}

func (l *Layout) resolveColumns(w WriteConfig, writeCols int) error {
	reserved := []struct {
		kind colKind
		pos  int
	}{
		{colSeq1, w.Seq1Column},
		{colSeq2, w.Seq2Column},
		{colScore, w.ScoreColumn},
		{colAlign, w.AlignColumn},
		{colMatches, w.MatchesColumn},
		{colMismatches, w.MismatchesColumn},
		{colGaps, w.GapsColumn},
		{colSimilarity, w.SimilarityColumn},
	}

	l.cols = make([]column, writeCols)
	used := make([]bool, writeCols)
	var fixed []int
	for _, r := range reserved {
		if r.kind >= colMatches && r.pos == Disabled {
			continue
		}
		name := kindNames[r.kind]
		if r.pos < 0 || r.pos >= writeCols {
			return invalid("%s column %d outside 0..%d", name, r.pos, writeCols-1)
		}
		if used[r.pos] {
			return invalid("%s column %d already taken by %s", name, r.pos, kindNames[l.cols[r.pos].kind])
		}
		used[r.pos] = true
		l.cols[r.pos] = column{kind: r.kind}
		fixed = append(fixed, r.pos)
		if r.kind >= colMatches {
			l.stats = true
		}
	}

	dataCount := l.readCols - 1
	pairs := w.Pairs
	if pairs == nil {
		pairs = autoPairs(used, dataCount)
	}
	if len(pairs) != dataCount {
		return invalid("%d passthrough pairs for %d passthrough fields (write header has %d columns, %d reserved)",
			len(pairs), dataCount, writeCols, len(fixed))
	}
	for k, p := range pairs {
		if p.First < 0 || p.Second >= writeCols {
			return invalid("pair %d (%d, %d) outside 0..%d", k, p.First, p.Second, writeCols-1)
		}
		if p.First >= p.Second {
			return invalid("pair %d: first column %d must come before second column %d", k, p.First, p.Second)
		}
		for _, pos := range []int{p.First, p.Second} {
			if used[pos] {
				return invalid("pair %d: column %d already assigned", k, pos)
			}
			used[pos] = true
		}
		for _, r := range fixed {
			if p.First < r && r < p.Second {
				return invalid("pair %d (%d, %d) straddles %s column %d", k, p.First, p.Second, kindNames[l.cols[r].kind], r)
			}
		}
		l.cols[p.First] = column{kind: colPrev, field: k}
		l.cols[p.Second] = column{kind: colCurr, field: k}
	}
	for pos, u := range used {
		if !u {
			return invalid("write column %d is not assigned", pos)
		}
	}
	l.pairs = pairs
	return nil
}

// autoPairs hands out the free columns two at a time in ascending order.
func autoPairs(used []bool, n int) []Pair {
	var free []int
	for pos, u := range used {
		if !u {
			free = append(free, pos)
		}
	}
	pairs := make([]Pair, 0, n)
	for k := 0; k < n && 2*k+1 < len(free); k++ {
		pairs = append(pairs, Pair{First: free[2*k], Second: free[2*k+1]})
	}
	return pairs
}

// Separator returns the field separator.
func (l *Layout) Separator() byte { return l.sep }

// MaxSeqLen returns the sequence field limit.
func (l *Layout) MaxSeqLen() int { return l.maxSeqLen }

// ReadColumns returns the input column count.
func (l *Layout) ReadColumns() int { return l.readCols }

// PassthroughFields returns the number of non-sequence input fields.
func (l *Layout) PassthroughFields() int { return l.readCols - 1 }

// Pairs returns the resolved passthrough column pairs.
func (l *Layout) Pairs() []Pair { return l.pairs }

// NeedsStats reports whether any similarity column is written.
func (l *Layout) NeedsStats() bool { return l.stats }

// WriteHeader returns the output header including its terminator.
func (l *Layout) WriteHeader() []byte { return l.writeHeader }

// WorstCaseRecord returns an upper bound on the bytes AppendRecord may add
// for one record.
func (l *Layout) WorstCaseRecord() int {
	const maxInt = 20 // len("-9223372036854775808")
	const maxFloat = 24
	n := len(l.cols) + 1
	n += 2 * l.maxSeqLen
	n += maxInt
	n += len(l.tmplHead) + len(l.tmplMid) + len(l.tmplTail) + 4*l.maxSeqLen
	n += 3*maxInt + maxFloat
	n += 2 * l.maxBlob
	return n
}

// SkipHeader returns the offset of the first data byte in buf and checks
// that the header has the configured number of columns.
func (l *Layout) SkipHeader(buf []byte) (int, error) {
	end := bytes.IndexByte(buf, '\n')
	if end < 0 {
		end = len(buf)
	}
	line := bytes.TrimRight(buf[:end], "\r")
	if len(line) == 0 && end == len(buf) {
		return len(buf), nil
	}
	if got := bytes.Count(line, []byte{l.sep}) + 1; got != l.readCols {
		return 0, &ColumnCountError{Row: 0, Got: got, Want: l.readCols}
	}
	if end == len(buf) {
		return end, nil
	}
	return end + 1, nil
}
