// Package output maps internal alignment results onto stable wire types and
// names the supported output formats.
package output

import (
	"seqalign/internal/csvcodec"
	"seqalign/internal/engine"
	"seqalign/pkg/api"
)

// Output formats.
const (
	FormatCSV   = "csv"
	FormatJSONL = "jsonl"
	FormatText  = "text"
)

// ToAPIPair converts pair index of (prev, curr) and its alignment to PairV1.
func ToAPIPair(index int, prev, curr *csvcodec.Record, res *engine.Result) api.PairV1 {
	p := api.PairV1{
		Index:        index,
		Seq1:         string(prev.Seq),
		Seq2:         string(curr.Seq),
		Score:        int(res.Score),
		Aligned1:     string(res.Aligned1),
		Aligned2:     string(res.Aligned2),
		Passthrough1: fields(prev),
		Passthrough2: fields(curr),
	}
	if res.HasStats {
		p.Stats = &api.StatsV1{
			Matches:    res.Stats.Matches,
			Mismatches: res.Stats.Mismatches,
			Gaps:       res.Stats.Gaps,
			Similarity: res.Stats.Similarity,
		}
	}
	return p
}

func fields(r *csvcodec.Record) []string {
	if r.Fields() == 0 {
		return nil
	}
	out := make([]string, r.Fields())
	for k := range out {
		out[k] = string(r.Field(k))
	}
	return out
}
