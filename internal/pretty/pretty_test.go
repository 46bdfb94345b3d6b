package pretty

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"seqalign/internal/engine"
	"seqalign/internal/scoring"
)

func TestRenderSingleBlock(t *testing.T) {
	res := &engine.Result{Aligned1: []byte("AC-DE"), Aligned2: []byte("ACWDQ")}
	want := "" +
		"# seq1     1 AC-DE 4\n" +
		"#            || | \n" +
		"# seq2     1 ACWDQ 5\n"
	assert.Equal(t, want, Render(res))
}

func TestRenderWrapsBlocks(t *testing.T) {
	res := &engine.Result{Aligned1: []byte("AAAA--"), Aligned2: []byte("AAAAWW")}
	want := "" +
		"# seq1     1 AAAA 4\n" +
		"#            ||||\n" +
		"# seq2     1 AAAA 4\n" +
		"# \n" +
		"# seq1     4 -- 4\n" +
		"#              \n" +
		"# seq2     5 WW 6\n"
	assert.Equal(t, want, RenderWithOptions(res, Options{Width: 4}))
}

func TestMatchLineWithMatrix(t *testing.T) {
	// BLOSUM62 scores I/V at +3 and A/W at -3.
	got := MatchLine([]byte("IAK"), []byte("VWK"), Options{Matrix: scoring.BLOSUM62()})
	assert.Equal(t, ": |", string(got))
}

func TestRenderEmpty(t *testing.T) {
	assert.Equal(t, "# (empty alignment)\n", Render(&engine.Result{}))
}
