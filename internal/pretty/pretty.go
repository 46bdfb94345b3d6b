// Package pretty renders an alignment as an ASCII block for human reading.
package pretty

import (
	"fmt"
	"strings"

	"seqalign/internal/engine"
	"seqalign/internal/scoring"
)

// Options control the ASCII rendering.
type Options struct {
	// Columns per block. If <=0, use default (60).
	Width int

	// When set, substitutions with a positive score get PartialGlyph.
	Matrix *scoring.Matrix

	// Glyphs
	ExactGlyph   byte // default '|'
	PartialGlyph byte // default ':'
	BlankGlyph   byte // default ' '
}

// DefaultOptions draws identities only.
var DefaultOptions = Options{
	Width:        60,
	ExactGlyph:   '|',
	PartialGlyph: ':',
	BlankGlyph:   ' ',
}

const linePrefix = "# "

// MatchLine returns the glyph row between the two aligned strings.
func MatchLine(a1, a2 []byte, opt Options) []byte {
	opt = withDefaults(opt)
	out := make([]byte, len(a1))
	for k := range a1 {
		c1, c2 := a1[k], a2[k]
		switch {
		case c1 == engine.GapSymbol || c2 == engine.GapSymbol:
			out[k] = opt.BlankGlyph
		case c1 == c2:
			out[k] = opt.ExactGlyph
		case opt.Matrix != nil && positive(opt.Matrix, c1, c2):
			out[k] = opt.PartialGlyph
		default:
			out[k] = opt.BlankGlyph
		}
	}
	return out
}

func positive(m *scoring.Matrix, c1, c2 byte) bool {
	x, ok1 := m.Lookup(c1)
	y, ok2 := m.Lookup(c2)
	return ok1 && ok2 && m.Score(x, y) > 0
}

func withDefaults(opt Options) Options {
	if opt.Width <= 0 {
		opt.Width = DefaultOptions.Width
	}
	if opt.ExactGlyph == 0 {
		opt.ExactGlyph = DefaultOptions.ExactGlyph
	}
	if opt.PartialGlyph == 0 {
		opt.PartialGlyph = DefaultOptions.PartialGlyph
	}
	if opt.BlankGlyph == 0 {
		opt.BlankGlyph = DefaultOptions.BlankGlyph
	}
	return opt
}

// residues counts non-gap symbols.
func residues(b []byte) int {
	n := 0
	for _, c := range b {
		if c != engine.GapSymbol {
			n++
		}
	}
	return n
}

// RenderWithOptions draws res in blocks of opt.Width columns. Each block
// shows both aligned strings with 1-based residue coordinates and the match
// glyphs between them.
func RenderWithOptions(res *engine.Result, opt Options) string {
	opt = withDefaults(opt)
	match := MatchLine(res.Aligned1, res.Aligned2, opt)
	n := len(res.Aligned1)

	var sb strings.Builder
	if n == 0 {
		sb.WriteString(linePrefix + "(empty alignment)\n")
		return sb.String()
	}
	pos1, pos2 := 0, 0
	for start := 0; start < n; start += opt.Width {
		end := min(start+opt.Width, n)
		r1 := residues(res.Aligned1[start:end])
		r2 := residues(res.Aligned2[start:end])
		fmt.Fprintf(&sb, "%sseq1 %5d %s %d\n", linePrefix, pos1+min(r1, 1), res.Aligned1[start:end], pos1+r1)
		fmt.Fprintf(&sb, "%s%11s%s\n", linePrefix, "", match[start:end])
		fmt.Fprintf(&sb, "%sseq2 %5d %s %d\n", linePrefix, pos2+min(r2, 1), res.Aligned2[start:end], pos2+r2)
		pos1 += r1
		pos2 += r2
		if end < n {
			sb.WriteString(linePrefix + "\n")
		}
	}
	return sb.String()
}

// Render draws res with DefaultOptions.
func Render(res *engine.Result) string {
	return RenderWithOptions(res, DefaultOptions)
}
