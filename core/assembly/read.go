// core/assembly/read.go
package assembly

import "acekit/core/seq"

// AssembledRead is a read placed on a built contig. It is immutable; use
// ToBuilder to derive an edited copy.
type AssembledRead struct {
	id         string
	offset     int
	dir        seq.Direction
	validRange seq.Range
	fullLength int
	bases      *seq.ReferenceEncoded
	phd        PhdInfo
}

func (r *AssembledRead) ID() string               { return r.id }
func (r *AssembledRead) Offset() int              { return r.offset }
func (r *AssembledRead) Direction() seq.Direction { return r.dir }
func (r *AssembledRead) PhdInfo() PhdInfo         { return r.phd }

// ValidRange is the ungapped range of the raw read (in the read's own
// orientation) that is placed on the consensus.
func (r *AssembledRead) ValidRange() seq.Range { return r.validRange }

// FullLength is the ungapped length of the raw read.
func (r *AssembledRead) FullLength() int { return r.fullLength }

// Sequence is the gapped, consensus-oriented valid bases, stored as
// differences from the contig consensus.
func (r *AssembledRead) Sequence() seq.Sequence { return r.bases }

func (r *AssembledRead) Len() int { return r.bases.Len() }

// End is the gapped consensus offset one past the read's last base.
func (r *AssembledRead) End() int { return r.offset + r.bases.Len() }

// GappedRange is the read's extent in gapped consensus coordinates.
func (r *AssembledRead) GappedRange() seq.Range { return seq.OfLength(r.offset, r.bases.Len()) }

// Covers reports whether consensus column col falls inside the read.
func (r *AssembledRead) Covers(col int) bool { return col >= r.offset && col < r.End() }

// BaseAt returns the read base aligned to consensus column col.
func (r *AssembledRead) BaseAt(col int) byte { return r.bases.At(col - r.offset) }

// ToBuilder returns a mutable copy of r.
func (r *AssembledRead) ToBuilder() *ReadBuilder {
	return &ReadBuilder{
		id:         r.id,
		bases:      r.bases.Bytes(),
		offset:     r.offset,
		dir:        r.dir,
		validRange: r.validRange,
		fullLength: r.fullLength,
		phd:        r.phd,
	}
}
