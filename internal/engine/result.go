package engine

// Stats summarizes an alignment column by column.
type Stats struct {
	Matches    int
	Mismatches int
	Gaps       int
	Similarity float64 // Matches / alignment length
}

// Result holds one pairwise alignment. Aligned1 and Aligned2 always have the
// same length and never both show GapSymbol in one column.
type Result struct {
	Aligned1 []byte
	Aligned2 []byte
	Score    int32
	Stats    Stats
	HasStats bool
}

// Similarity counts matches, mismatches and gaps over res and stores them
// in res.Stats. A column is a gap when Aligned1 shows GapSymbol; a gap on the
// seq2 side counts as a mismatch.
func Similarity(res *Result) Stats {
	var s Stats
	for k, c := range res.Aligned1 {
		switch {
		case c == res.Aligned2[k]:
			s.Matches++
		case c == GapSymbol:
			s.Gaps++
		default:
			s.Mismatches++
		}
	}
	if n := len(res.Aligned1); n > 0 {
		s.Similarity = float64(s.Matches) / float64(n)
	}
	res.Stats = s
	res.HasStats = true
	return s
}
