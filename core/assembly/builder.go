// core/assembly/builder.go
package assembly

import (
	"github.com/pkg/errors"

	"acekit/core/seq"
)

// ContigBuilder stages a contig: reads are collected first and re-based
// once the covered window of the consensus is known. A builder builds at
// most once.
type ContigBuilder struct {
	id           string
	consensus    []byte
	quals        []byte
	complemented bool

	reads map[string]*ReadBuilder
	order []string

	// running envelope of consensus covered by added reads, inclusive
	left, right int
	covered     bool

	built bool
}

// NewContigBuilder starts a contig with the given gapped consensus.
func NewContigBuilder(id, consensus string) *ContigBuilder {
	return &ContigBuilder{
		id:        id,
		consensus: seq.Normalize([]byte(consensus)),
		reads:     make(map[string]*ReadBuilder),
	}
}

func (b *ContigBuilder) ID() string { return b.id }

func (b *ContigBuilder) SetContigID(id string) { b.id = id }

func (b *ContigBuilder) SetComplemented(c bool) { b.complemented = c }

// Consensus returns a snapshot of the staged consensus.
func (b *ContigBuilder) Consensus() seq.Gapped { return seq.NewGapped(b.consensus) }

// SetConsensus replaces the staged consensus. Any qualities previously set
// are dropped if their count no longer matches.
func (b *ContigBuilder) SetConsensus(consensus string) {
	b.consensus = seq.Normalize([]byte(consensus))
	if b.quals != nil && len(b.quals) != len(seq.Ungapped(b.consensus)) {
		b.quals = nil
	}
}

// SetConsensusQualities sets one quality value per ungapped consensus
// residue. A nil slice clears them.
func (b *ContigBuilder) SetConsensusQualities(q []byte) error {
	if q == nil {
		b.quals = nil
		return nil
	}
	if n := len(seq.Ungapped(b.consensus)); len(q) != n {
		return errors.Errorf("contig %s: %d consensus qualities for %d residues", b.id, len(q), n)
	}
	b.quals = append([]byte(nil), q...)
	return nil
}

// ReAbacusConsensus rewrites the gap layout of the consensus range r. Read
// offsets downstream of r are not moved.
func (b *ContigBuilder) ReAbacusConsensus(r seq.Range, replacement string) error {
	out, err := reAbacus(b.consensus, r, replacement)
	if err != nil {
		return errors.Wrapf(err, "consensus of %s", b.id)
	}
	b.consensus = out
	return nil
}

// AddRead stages a read. Offsets before the consensus start are clamped to
// 0; upstream assemblers report them and they are normalized here rather
// than rejected. A read with an existing id replaces it.
func (b *ContigBuilder) AddRead(id, gappedValidBases string, gappedOffset int, dir seq.Direction, ungappedClearRange seq.Range, phd PhdInfo, ungappedFullLength int) *ReadBuilder {
	if gappedOffset < 0 {
		gappedOffset = 0
	}
	rb := NewReadBuilder(id, gappedValidBases, gappedOffset, dir, ungappedClearRange, phd, ungappedFullLength)
	b.AddReadBuilder(rb)
	return rb
}

// AddReadBuilder stages an already constructed read.
func (b *ContigBuilder) AddReadBuilder(rb *ReadBuilder) {
	if _, ok := b.reads[rb.id]; !ok {
		b.order = append(b.order, rb.id)
	}
	b.reads[rb.id] = rb
	if rb.Len() == 0 {
		return
	}
	if !b.covered || rb.offset < b.left {
		b.left = rb.offset
	}
	if !b.covered || rb.End()-1 > b.right {
		b.right = rb.End() - 1
	}
	b.covered = true
}

// RemoveRead drops a staged read; it reports false for unknown ids.
func (b *ContigBuilder) RemoveRead(id string) bool {
	if _, ok := b.reads[id]; !ok {
		return false
	}
	delete(b.reads, id)
	for i, rid := range b.order {
		if rid == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return true
}

// AssembledReadBuilder returns the staged read or nil.
func (b *ContigBuilder) AssembledReadBuilder(id string) *ReadBuilder { return b.reads[id] }

func (b *ContigBuilder) NumReads() int { return len(b.order) }

// ReadIDs lists staged read ids in insertion order.
func (b *ContigBuilder) ReadIDs() []string { return append([]string(nil), b.order...) }

// Envelope is the gapped consensus range covered by the staged reads,
// before clamping to the consensus. Reads edited after being added are
// taken into account.
func (b *ContigBuilder) Envelope() seq.Range {
	var (
		env  seq.Range
		seen bool
	)
	for _, id := range b.order {
		rb := b.reads[id]
		if rb.Len() == 0 {
			continue
		}
		if !seen || rb.offset < env.Begin {
			env.Begin = rb.offset
		}
		if !seen || rb.End() > env.End {
			env.End = rb.End()
		}
		seen = true
	}
	return env
}

// Build freezes the staged state into a Contig. The consensus is trimmed to
// the window covered by reads and every read is re-based onto it.
func (b *ContigBuilder) Build() (*Contig, error) {
	if b.built {
		return nil, errors.Wrapf(ErrAlreadyBuilt, "contig %s", b.id)
	}
	b.built = true

	c := &Contig{id: b.id, complemented: b.complemented, byID: map[string]int{}}
	if len(b.order) == 0 {
		c.consensus = seq.NewGapped(nil)
		return c, nil
	}

	env := b.Envelope()
	b.left, b.right = env.Begin, env.Last()
	left, right := env.Begin, env.Last()
	if left < 0 {
		left = 0
	}
	if right >= len(b.consensus) {
		right = len(b.consensus) - 1
	}
	if right < left {
		c.consensus = seq.NewGapped(nil)
		return c, nil
	}

	c.consensus = seq.NewGapped(b.consensus[left : right+1])
	c.leftTrim = left
	if b.quals != nil {
		full := seq.NewGapped(b.consensus)
		c.quals = append([]byte(nil), b.quals[full.UngappedOffset(left):full.UngappedOffset(right+1)]...)
	}
	for _, id := range b.order {
		rb := b.reads[id]
		rb.offset -= left
		if !rb.fit(c.consensus.Len()) {
			continue
		}
		c.byID[id] = len(c.reads)
		c.reads = append(c.reads, rb.build(&c.consensus))
	}
	return c, nil
}
