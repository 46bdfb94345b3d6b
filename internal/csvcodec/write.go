package csvcodec

import (
	"strconv"

	"seqalign/internal/engine"
)

// AppendRecord appends the output line for the pair (prev, curr) and its
// alignment to dst. It allocates only if dst lacks WorstCaseRecord bytes of
// spare capacity.
func (l *Layout) AppendRecord(dst []byte, prev, curr *Record, res *engine.Result) []byte {
	for k, c := range l.cols {
		if k > 0 {
			dst = append(dst, l.sep)
		}
		switch c.kind {
		case colSeq1:
			dst = append(dst, prev.Seq...)
		case colSeq2:
			dst = append(dst, curr.Seq...)
		case colScore:
			dst = strconv.AppendInt(dst, int64(res.Score), 10)
		case colAlign:
			dst = append(dst, l.tmplHead...)
			dst = append(dst, res.Aligned1...)
			dst = append(dst, l.tmplMid...)
			dst = append(dst, res.Aligned2...)
			dst = append(dst, l.tmplTail...)
		case colMatches:
			dst = strconv.AppendInt(dst, int64(res.Stats.Matches), 10)
		case colMismatches:
			dst = strconv.AppendInt(dst, int64(res.Stats.Mismatches), 10)
		case colGaps:
			dst = strconv.AppendInt(dst, int64(res.Stats.Gaps), 10)
		case colSimilarity:
			dst = strconv.AppendFloat(dst, res.Stats.Similarity, 'f', 4, 64)
		case colPrev:
			dst = append(dst, prev.Field(c.field)...)
		case colCurr:
			dst = append(dst, curr.Field(c.field)...)
		}
	}
	return append(dst, '\n')
}
