// core/assembly/readbuilder.go
package assembly

import (
	"github.com/pkg/errors"

	"acekit/core/seq"
)

// ReadBuilder is the mutable staging form of an AssembledRead.
type ReadBuilder struct {
	id         string
	bases      []byte
	offset     int
	dir        seq.Direction
	validRange seq.Range
	fullLength int
	phd        PhdInfo
}

// NewReadBuilder stages a read. gappedValidBases are in consensus
// orientation; validRange is ungapped and in raw-read orientation.
func NewReadBuilder(id, gappedValidBases string, offset int, dir seq.Direction, validRange seq.Range, phd PhdInfo, fullLength int) *ReadBuilder {
	return &ReadBuilder{
		id:         id,
		bases:      seq.Normalize([]byte(gappedValidBases)),
		offset:     offset,
		dir:        dir,
		validRange: validRange,
		fullLength: fullLength,
		phd:        phd,
	}
}

func (b *ReadBuilder) ID() string               { return b.id }
func (b *ReadBuilder) Offset() int              { return b.offset }
func (b *ReadBuilder) Direction() seq.Direction { return b.dir }
func (b *ReadBuilder) ValidRange() seq.Range    { return b.validRange }
func (b *ReadBuilder) FullLength() int          { return b.fullLength }
func (b *ReadBuilder) PhdInfo() PhdInfo         { return b.phd }
func (b *ReadBuilder) Len() int                 { return len(b.bases) }
func (b *ReadBuilder) End() int                 { return b.offset + len(b.bases) }

// Bases returns a snapshot of the staged gapped bases.
func (b *ReadBuilder) Bases() seq.Gapped { return seq.NewGapped(b.bases) }

func (b *ReadBuilder) SetOffset(offset int)   { b.offset = offset }
func (b *ReadBuilder) ShiftOffset(delta int)  { b.offset += delta }
func (b *ReadBuilder) SetPhdInfo(phd PhdInfo) { b.phd = phd }

// ReAbacus replaces the gapped range r of the read with replacement. Only
// gap placement may change: the ungapped residues must be identical. The
// read's gapped length changes by len(replacement)-r.Len(); moving other
// reads is the caller's responsibility.
func (b *ReadBuilder) ReAbacus(r seq.Range, replacement string) error {
	out, err := reAbacus(b.bases, r, replacement)
	if err != nil {
		return errors.Wrapf(err, "read %s", b.id)
	}
	b.bases = out
	return nil
}

// Trim keeps only the gapped sub-range r of the read (read coordinates),
// moving the offset and shrinking the valid range to match.
func (b *ReadBuilder) Trim(r seq.Range) error {
	if r.Begin < 0 || r.End > len(b.bases) || r.Empty() {
		return errors.Wrapf(ErrRangeOutOfBounds, "trim read %s to %v (length %d)", b.id, r, len(b.bases))
	}
	left := len(seq.Ungapped(b.bases[:r.Begin]))
	right := len(seq.Ungapped(b.bases[r.End:]))
	if b.dir == seq.Reverse {
		left, right = right, left
	}
	b.validRange = seq.Range{Begin: b.validRange.Begin + left, End: b.validRange.End - right}
	b.bases = append([]byte(nil), b.bases[r.Begin:r.End]...)
	b.offset += r.Begin
	return nil
}

// fit trims whatever part of the read falls outside [0, consensusLen).
// It reports false when nothing is left.
func (b *ReadBuilder) fit(consensusLen int) bool {
	r := seq.Range{Begin: 0, End: len(b.bases)}
	if b.offset < 0 {
		r.Begin = -b.offset
	}
	if over := b.End() - consensusLen; over > 0 {
		r.End -= over
	}
	if r.Empty() {
		return false
	}
	if r.Begin == 0 && r.End == len(b.bases) {
		return true
	}
	return b.Trim(r) == nil
}

func (b *ReadBuilder) build(consensus *seq.Gapped) *AssembledRead {
	return &AssembledRead{
		id:         b.id,
		offset:     b.offset,
		dir:        b.dir,
		validRange: b.validRange,
		fullLength: b.fullLength,
		bases:      seq.NewReferenceEncoded(consensus, b.bases, b.offset),
		phd:        b.phd,
	}
}
