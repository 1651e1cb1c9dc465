package ace

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acekit/core/assembly"
)

const sampleACE = `AS 2 3

CO Contig1 10 2 1 U
ACGT*ACGTA

BQ
 30 30 20 30 30 30 30 30 30

AF r1 U 1
AF r2 C 2
BS 1 10 r1

RD r1 12 0 0
ACGT*ACGTANN

QA 1 10 1 10
DS CHROMAT_FILE: r1.ab1 PHD_FILE: r1.phd.1 TIME: Thu Mar 11 16:25:19 2004

RD r2 6 0 0
NGT*AC

QA 2 6 2 6
DS CHROMAT_FILE: sff:run7.sff:-f:r2 TIME: Thu Mar 11 16:25:19 2004

CO Contig2 4 1 0 C
ACGT

AF r3 U 1

RD r3 4 0 0
ACGT

QA 1 4 1 4
DS CHROMAT_FILE: r3

RT{
r1 comment phrap 2 5 040311:162519
}

CT{
Contig1 repeat consed 3 6 040311:162519 NoTrans
some data
COMMENT{
hello
C}
}

WA{
phrap_params phrap 040311:162519
phrap ace.fasta
}
`

func readSample(t *testing.T, text string) *File {
	t.Helper()
	f, err := ReadAll(context.Background(), strings.NewReader(text))
	require.NoError(t, err)
	return f
}

// assertSameContig compares the observable state of two contigs.
func assertSameContig(t *testing.T, want, got *assembly.Contig) {
	t.Helper()
	require.NotNil(t, got)
	assert.Equal(t, want.ID(), got.ID())
	assert.Equal(t, want.Consensus().String(), got.Consensus().String())
	assert.Equal(t, want.ConsensusQualities(), got.ConsensusQualities())
	assert.Equal(t, want.Complemented(), got.Complemented())
	require.Equal(t, want.NumReads(), got.NumReads())
	for _, r := range want.Reads() {
		g, ok := got.Read(r.ID())
		require.Truef(t, ok, "read %s missing", r.ID())
		assert.Equal(t, r.Offset(), g.Offset(), r.ID())
		assert.Equal(t, r.Direction(), g.Direction(), r.ID())
		assert.Equal(t, r.ValidRange(), g.ValidRange(), r.ID())
		assert.Equal(t, r.FullLength(), g.FullLength(), r.ID())
		assert.Equal(t, r.Sequence().String(), g.Sequence().String(), r.ID())
		assert.Truef(t, r.PhdInfo().Equal(g.PhdInfo()), "phd of %s: %+v vs %+v", r.ID(), r.PhdInfo(), g.PhdInfo())
	}
}
