package seq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGappedOffsets(t *testing.T) {
	g := ParseGapped("AC*GT-A")
	assert.Equal(t, "AC-GT-A", g.String())
	assert.Equal(t, 7, g.Len())
	assert.Equal(t, 5, g.UngappedLen())
	assert.Equal(t, []int{2, 5}, g.GapOffsets())

	// gapped → ungapped
	assert.Equal(t, 0, g.UngappedOffset(0))
	assert.Equal(t, 2, g.UngappedOffset(2)) // gap maps to residues before it
	assert.Equal(t, 2, g.UngappedOffset(3))
	assert.Equal(t, 4, g.UngappedOffset(6))

	// ungapped → gapped
	for u, want := range []int{0, 1, 3, 4, 6} {
		assert.Equalf(t, want, g.GappedOffset(u), "ungapped %d", u)
	}
	assert.Equal(t, "ACGTA", string(g.Ungapped()))
}

func TestGappedNormalizes(t *testing.T) {
	g := ParseGapped("acg*t")
	assert.Equal(t, "ACG-T", g.String())
}

func TestReverseComplement(t *testing.T) {
	g := ParseGapped("AAC-GT")
	assert.Equal(t, "AC-GTT", g.ReverseComplement().String())
	assert.Equal(t, []byte("NRY"), ReverseComplement([]byte("RYN")))
}

func TestIsResidue(t *testing.T) {
	for _, b := range []byte("ACGTNacgtn*-RYKMSWBDHVX") {
		assert.Truef(t, IsResidue(b), "%q", b)
	}
	for _, b := range []byte("0 9}{:") {
		assert.Falsef(t, IsResidue(b), "%q", b)
	}
}

func TestSameResidue(t *testing.T) {
	assert.True(t, SameResidue('a', 'A'))
	assert.True(t, SameResidue('*', '-'))
	assert.False(t, SameResidue('-', 'A'))
	assert.False(t, SameResidue('C', 'G'))
}

func TestReferenceEncoded(t *testing.T) {
	ref := ParseGapped("ACGTACGT")
	e := NewReferenceEncoded(&ref, []byte("GTTC-T"), 2)
	require.Equal(t, 6, e.Len())
	assert.Equal(t, "GTTC-T", e.String())
	assert.Equal(t, 2, e.NumDiffs())
	assert.Equal(t, byte('T'), e.At(2))
	assert.Equal(t, 5, e.UngappedLen())
	assert.Equal(t, []int{4}, e.GapOffsets())
	assert.Equal(t, 5, e.GappedOffset(4))
	assert.Equal(t, "GTTCT", string(e.Ungapped()))
	assert.True(t, ParseGapped("GTTC-T").Equal(e))
}

func TestReferenceEncodedOverhang(t *testing.T) {
	ref := ParseGapped("ACG")
	e := NewReferenceEncoded(&ref, []byte("NNACGTT"), -2)
	assert.Equal(t, "NNACGTT", e.String())
	assert.Equal(t, 4, e.NumDiffs())
}

func TestRange(t *testing.T) {
	r := FromInclusive(3, 7)
	assert.Equal(t, Range{Begin: 2, End: 7}, r)
	assert.Equal(t, 5, r.Len())
	assert.Equal(t, 6, r.Last())
	assert.True(t, r.Contains(2))
	assert.False(t, r.Contains(7))
	assert.Equal(t, Range{Begin: 4, End: 7}, r.Intersect(Range{Begin: 4, End: 10}))
	assert.True(t, r.Intersect(Range{Begin: 8, End: 10}).Empty())
	assert.Equal(t, Range{Begin: 0, End: 5}, r.Shift(-2))
	assert.Equal(t, "[2,7)", r.String())
}

func TestDirection(t *testing.T) {
	d, ok := ParseDirection("C")
	require.True(t, ok)
	assert.Equal(t, Reverse, d)
	assert.Equal(t, "C", d.Flag())
	_, ok = ParseDirection("X")
	assert.False(t, ok)
}
