// pkg/api/pair_v1.go
package api

// PairV1 is the stable JSON/JSONL schema for one aligned record pair.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type PairV1 struct {
	Index        int      `json:"index"` // 0-based; pair i aligns records i and i+1
	Seq1         string   `json:"seq1"`
	Seq2         string   `json:"seq2"`
	Score        int      `json:"score"`
	Aligned1     string   `json:"aligned1"`
	Aligned2     string   `json:"aligned2"`
	Stats        *StatsV1 `json:"stats,omitempty"`
	Passthrough1 []string `json:"passthrough1,omitempty"`
	Passthrough2 []string `json:"passthrough2,omitempty"`
}

// StatsV1 is the column summary of an alignment.
type StatsV1 struct {
	Matches    int     `json:"matches"`
	Mismatches int     `json:"mismatches"`
	Gaps       int     `json:"gaps"`
	Similarity float64 `json:"similarity"`
}
