package ace

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acekit/core/assembly"
	"acekit/core/seq"
)

func roundTrip(t *testing.T, f *File, opt WriterOptions) (*File, string) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteFile(&buf, f, opt))
	got, err := ReadAll(context.Background(), bytes.NewReader(buf.Bytes()))
	require.NoError(t, err, buf.String())
	return got, buf.String()
}

func TestWriteRoundTrip(t *testing.T) {
	want := readSample(t, sampleACE)
	got, _ := roundTrip(t, want, DefaultWriterOptions)

	require.Len(t, got.Contigs, len(want.Contigs))
	for i := range want.Contigs {
		assertSameContig(t, want.Contigs[i], got.Contigs[i])
	}
	assert.Equal(t, want.Tags, got.Tags)
	assert.Equal(t, 2, got.NumContigs)
	assert.Equal(t, 3, got.NumReads)

	// a second pass is byte-stable
	var a, b bytes.Buffer
	require.NoError(t, WriteFile(&a, want, DefaultWriterOptions))
	require.NoError(t, WriteFile(&b, got, DefaultWriterOptions))
	assert.Equal(t, a.String(), b.String())
}

func TestWriteLowercasesLowQuality(t *testing.T) {
	f := readSample(t, sampleACE)
	_, text := roundTrip(t, &File{Contigs: f.Contigs[:1]}, DefaultWriterOptions)
	assert.Contains(t, text, "\nACgT*ACGTA\n")

	_, text = roundTrip(t, &File{Contigs: f.Contigs[:1]}, WriterOptions{})
	assert.Contains(t, text, "\nACGT*ACGTA\n")
}

func TestWritePadsClippedEnds(t *testing.T) {
	f := readSample(t, sampleACE)
	_, text := roundTrip(t, &File{Contigs: f.Contigs[:1]}, DefaultWriterOptions)
	assert.Contains(t, text, "RD r1 12 0 0\nACGT*ACGTANN\n")
	assert.Contains(t, text, "QA 1 10 1 10\n")
	assert.Contains(t, text, "RD r2 6 0 0\nNGT*AC\n")
	assert.Contains(t, text, "AF r2 C 2\n")
}

func TestWriteBaseSegments(t *testing.T) {
	f := readSample(t, sampleACE)
	_, text := roundTrip(t, &File{Contigs: f.Contigs[:1]}, WriterOptions{BaseSegments: true})
	assert.Contains(t, text, "CO Contig1 10 2 1 U\n")
	assert.Contains(t, text, "BS 1 10 r1\n")

	_, text = roundTrip(t, &File{Contigs: f.Contigs[:1]}, WriterOptions{})
	assert.Contains(t, text, "CO Contig1 10 2 0 U\n")
	assert.NotContains(t, text, "BS ")
}

func TestWriteWrapsLongSequences(t *testing.T) {
	cons := strings.Repeat("ACGTT", 25)
	b := assembly.NewContigBuilder("long", cons)
	b.AddRead("r", cons, 0, seq.Forward, seq.Range{Begin: 0, End: len(cons)}, assembly.PhdInfo{TraceName: "r", PhdName: "r.phd.1"}, len(cons))
	quals := make([]byte, len(cons))
	for i := range quals {
		quals[i] = 40
	}
	require.NoError(t, b.SetConsensusQualities(quals))
	c, err := b.Build()
	require.NoError(t, err)

	got, text := roundTrip(t, &File{Contigs: []*assembly.Contig{c}}, DefaultWriterOptions)
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, " ") {
			assert.LessOrEqual(t, len(strings.Fields(line)), lineWidth)
		} else {
			assert.LessOrEqual(t, len(line), 80)
		}
	}
	assertSameContig(t, c, got.Contigs[0])
}

func TestWriteEditedContig(t *testing.T) {
	f := readSample(t, sampleACE)
	b := f.Contigs[0].ToBuilder()
	require.NoError(t, b.AssembledReadBuilder("r1").Trim(seq.Range{Begin: 0, End: 7}))
	c, err := b.Build()
	require.NoError(t, err)

	got, _ := roundTrip(t, &File{Contigs: []*assembly.Contig{c}}, DefaultWriterOptions)
	assertSameContig(t, c, got.Contigs[0])
	r1, _ := got.Contigs[0].Read("r1")
	assert.Equal(t, seq.Range{Begin: 0, End: 6}, r1.ValidRange())
	assert.Equal(t, 11, r1.FullLength())
}

func TestConsensusTagFollowsTrimmedConsensus(t *testing.T) {
	in := "AS 1 1\n\nCO c 8 1 0 U\nTTACGTAC\n\nAF r U 3\n\n" +
		"RD r 6 0 0\nACGTAC\n\nQA 1 6 1 6\nDS CHROMAT_FILE: r\n\n" +
		"CT{\nc repeat consed 4 6 040311:162519\n}\n\n" +
		"CT{\nc note consed 1 2 040311:162519\n}\n"
	f := readSample(t, in)
	c := f.Contigs[0]
	require.Equal(t, "ACGTAC", c.Consensus().String())
	assert.Equal(t, 2, c.LeftTrim())

	require.Len(t, f.Tags.Consensus, 1)
	tag := f.Tags.Consensus[0]
	assert.Equal(t, seq.Range{Begin: 1, End: 4}, tag.Range)
	assert.Equal(t, "CGT", c.Consensus().Slice(tag.Range).String())
	require.Len(t, f.Orphaned, 1)
	assert.Equal(t, "note", f.Orphaned[0].Type)

	got, text := roundTrip(t, f, WriterOptions{})
	assert.Contains(t, text, "c repeat consed 2 4 040311:162519")
	require.Len(t, got.Tags.Consensus, 1)
	assert.Equal(t, tag.Range, got.Tags.Consensus[0].Range)
}
