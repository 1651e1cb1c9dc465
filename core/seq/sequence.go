// core/seq/sequence.go
package seq

import (
	"bytes"
	"sort"
)

// Sequence is an ordered run of residues that may contain gaps. Offsets
// passed to and returned from the methods are 0-based.
type Sequence interface {
	Len() int
	At(i int) byte
	UngappedLen() int
	// GapOffsets returns the gapped offsets of every gap, ascending.
	GapOffsets() []int
	// UngappedOffset converts a gapped offset to an ungapped one. A gap
	// position maps to the number of residues before it.
	UngappedOffset(gapped int) int
	// GappedOffset returns the gapped offset of the ungapped-th residue.
	GappedOffset(ungapped int) int
	Bytes() []byte
	Ungapped() []byte
	String() string
}

// Gapped is an immutable slice-backed Sequence.
type Gapped struct {
	bases []byte
	gaps  []int
}

// NewGapped normalizes bases (upper case, '*' to '-') and indexes its gaps.
func NewGapped(bases []byte) Gapped {
	b := Normalize(bases)
	return Gapped{bases: b, gaps: gapOffsets(b)}
}

func ParseGapped(s string) Gapped { return NewGapped([]byte(s)) }

func gapOffsets(b []byte) []int {
	var gaps []int
	for i, c := range b {
		if c == Gap {
			gaps = append(gaps, i)
		}
	}
	return gaps
}

func (g Gapped) Len() int         { return len(g.bases) }
func (g Gapped) At(i int) byte    { return g.bases[i] }
func (g Gapped) UngappedLen() int { return len(g.bases) - len(g.gaps) }
func (g Gapped) String() string   { return string(g.bases) }

func (g Gapped) GapOffsets() []int { return append([]int(nil), g.gaps...) }

// NumGapsBefore counts the gaps strictly before gapped offset i.
func (g Gapped) NumGapsBefore(i int) int { return sort.SearchInts(g.gaps, i) }

func (g Gapped) UngappedOffset(gapped int) int { return ungappedOffset(g.gaps, gapped) }
func (g Gapped) GappedOffset(ungapped int) int { return gappedOffset(g.gaps, ungapped) }

func (g Gapped) Bytes() []byte { return append([]byte(nil), g.bases...) }

func (g Gapped) Ungapped() []byte { return ungapped(g.bases) }

// Slice returns the residues in r as a new Gapped.
func (g Gapped) Slice(r Range) Gapped {
	return NewGapped(g.bases[r.Begin:r.End])
}

// ReverseComplement returns the reverse complement of g.
func (g Gapped) ReverseComplement() Gapped {
	return NewGapped(ReverseComplement(g.bases))
}

// Equal reports residue-for-residue equality with any Sequence.
func (g Gapped) Equal(o Sequence) bool {
	return o != nil && bytes.Equal(g.bases, o.Bytes())
}

// ReverseComplement reverse-complements a raw residue slice.
func ReverseComplement(b []byte) []byte {
	n := len(b)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = Complement(b[n-1-i])
	}
	return out
}

// Ungapped strips gap symbols from b.
func Ungapped(b []byte) []byte { return ungapped(b) }

func ungapped(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if !IsGap(c) {
			out = append(out, c)
		}
	}
	return out
}

func ungappedOffset(gaps []int, gapped int) int {
	return gapped - sort.SearchInts(gaps, gapped)
}

func gappedOffset(gaps []int, ungapped int) int {
	i := ungapped
	for _, g := range gaps {
		if g > i {
			break
		}
		i++
	}
	return i
}
