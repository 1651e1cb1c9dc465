// core/seq/refencoded.go
package seq

import "sort"

type diff struct {
	pos int
	b   byte
}

// ReferenceEncoded stores a sequence as its differences from a shared
// reference placed at offset. The reference is not copied and must not be
// mutated while the encoded sequence is in use.
type ReferenceEncoded struct {
	ref    *Gapped
	offset int
	length int
	diffs  []diff
	gaps   []int
}

// NewReferenceEncoded encodes bases against ref, with bases[0] aligned to
// ref offset. Positions falling outside ref are always stored as diffs.
func NewReferenceEncoded(ref *Gapped, bases []byte, offset int) *ReferenceEncoded {
	b := Normalize(bases)
	e := &ReferenceEncoded{ref: ref, offset: offset, length: len(b), gaps: gapOffsets(b)}
	for i, c := range b {
		j := offset + i
		if j >= 0 && j < ref.Len() && ref.At(j) == c {
			continue
		}
		e.diffs = append(e.diffs, diff{pos: i, b: c})
	}
	return e
}

// Reference returns the shared reference sequence.
func (e *ReferenceEncoded) Reference() *Gapped { return e.ref }

// NumDiffs is the number of positions that differ from the reference.
func (e *ReferenceEncoded) NumDiffs() int { return len(e.diffs) }

func (e *ReferenceEncoded) Len() int         { return e.length }
func (e *ReferenceEncoded) UngappedLen() int { return e.length - len(e.gaps) }

func (e *ReferenceEncoded) At(i int) byte {
	k := sort.Search(len(e.diffs), func(k int) bool { return e.diffs[k].pos >= i })
	if k < len(e.diffs) && e.diffs[k].pos == i {
		return e.diffs[k].b
	}
	return e.ref.At(e.offset + i)
}

func (e *ReferenceEncoded) GapOffsets() []int { return append([]int(nil), e.gaps...) }

func (e *ReferenceEncoded) UngappedOffset(gapped int) int { return ungappedOffset(e.gaps, gapped) }
func (e *ReferenceEncoded) GappedOffset(ungapped int) int { return gappedOffset(e.gaps, ungapped) }

func (e *ReferenceEncoded) Bytes() []byte {
	out := make([]byte, e.length)
	k := 0
	for i := range out {
		if k < len(e.diffs) && e.diffs[k].pos == i {
			out[i] = e.diffs[k].b
			k++
			continue
		}
		out[i] = e.ref.At(e.offset + i)
	}
	return out
}

func (e *ReferenceEncoded) Ungapped() []byte { return ungapped(e.Bytes()) }
func (e *ReferenceEncoded) String() string   { return string(e.Bytes()) }
