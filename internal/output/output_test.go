package output

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seqalign/internal/csvcodec"
	"seqalign/internal/engine"
)

func TestToAPIPair(t *testing.T) {
	layout, err := csvcodec.NewLayout(csvcodec.DefaultConfig())
	require.NoError(t, err)
	var prev, curr csvcodec.Record
	_, err = layout.ParseRecord([]byte("ACDE,first\n"), 0, &prev)
	require.NoError(t, err)
	_, err = layout.ParseRecord([]byte("ACE,\n"), 0, &curr)
	require.NoError(t, err)

	res := &engine.Result{Aligned1: []byte("ACDE"), Aligned2: []byte("AC-E"), Score: 11}
	p := ToAPIPair(3, &prev, &curr, res)
	assert.Nil(t, p.Stats)
	assert.Equal(t, []string{"first"}, p.Passthrough1)
	assert.Equal(t, []string{""}, p.Passthrough2)

	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"index":3,"seq1":"ACDE","seq2":"ACE","score":11,"aligned1":"ACDE","aligned2":"AC-E",
		"passthrough1":["first"],"passthrough2":[""]}`, string(b))

	res.Stats = engine.Similarity(res)
	p = ToAPIPair(3, &prev, &curr, res)
	require.NotNil(t, p.Stats)
	assert.Equal(t, 3, p.Stats.Matches)
	assert.Equal(t, 1, p.Stats.Mismatches, "a gap on the seq2 side counts as a mismatch")
}
