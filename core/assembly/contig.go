// core/assembly/contig.go
package assembly

import "acekit/core/seq"

// Contig is a consensus plus the reads placed on it. Contigs are created by
// ContigBuilder.Build and never change afterwards.
type Contig struct {
	id           string
	consensus    seq.Gapped
	quals        []byte
	complemented bool
	leftTrim     int
	reads        []*AssembledRead
	byID         map[string]int
}

func (c *Contig) ID() string { return c.id }

// Consensus is the gapped consensus. Reads are encoded against it.
func (c *Contig) Consensus() seq.Gapped { return c.consensus }

func (c *Contig) Complemented() bool { return c.complemented }

// LeftTrim is the number of gapped columns Build removed from the start of
// the staged consensus. Coordinates read alongside the staged consensus,
// such as consensus tag ranges, shift left by this amount.
func (c *Contig) LeftTrim() int { return c.leftTrim }

// ConsensusQualities returns one quality per ungapped consensus residue, or
// nil when the contig carries none.
func (c *Contig) ConsensusQualities() []byte {
	if c.quals == nil {
		return nil
	}
	return append([]byte(nil), c.quals...)
}

func (c *Contig) NumReads() int { return len(c.reads) }

// Reads returns the reads in the order they were added.
func (c *Contig) Reads() []*AssembledRead { return append([]*AssembledRead(nil), c.reads...) }

// Read looks up a read by id.
func (c *Contig) Read(id string) (*AssembledRead, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return c.reads[i], true
}

// ToBuilder returns a fresh builder holding a copy of the contig, for
// edits after build.
func (c *Contig) ToBuilder() *ContigBuilder {
	b := NewContigBuilder(c.id, c.consensus.String())
	b.complemented = c.complemented
	if c.quals != nil {
		b.quals = append([]byte(nil), c.quals...)
	}
	for _, r := range c.reads {
		b.AddReadBuilder(r.ToBuilder())
	}
	return b
}
