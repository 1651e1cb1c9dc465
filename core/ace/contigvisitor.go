// core/ace/contigvisitor.go
package ace

import (
	"github.com/pkg/errors"

	"acekit/core/assembly"
	"acekit/core/seq"
)

// SkippedRead names a read that was present in the file but could not be
// placed because its QA record leaves no valid range.
type SkippedRead struct {
	ContigID string
	ReadID   string
}

// ContigBuilderVisitor builds every visited contig and hands it to a
// callback. An error from the callback, or from building, halts the parse
// and is reported by Err.
type ContigBuilderVisitor struct {
	// Want, when set, selects the contigs to build; the rest are skipped
	// without being parsed.
	Want func(id string) bool

	emit       func(*assembly.Contig) error
	ctl        *Control
	err        error
	numContigs int
	numReads   int
	tags       Tags
	orphaned   []ConsensusTag
	skipped    []SkippedRead
	windows    map[string]seq.Range // built consensus window per contig, in file columns
}

// NewContigBuilderVisitor returns a visitor that calls emit with each built
// contig, in file order.
func NewContigBuilderVisitor(emit func(*assembly.Contig) error) *ContigBuilderVisitor {
	return &ContigBuilderVisitor{emit: emit}
}

// Err returns the first build or callback error.
func (v *ContigBuilderVisitor) Err() error { return v.err }

// Header returns the counts declared by the AS record.
func (v *ContigBuilderVisitor) Header() (numContigs, numReads int) { return v.numContigs, v.numReads }

func (v *ContigBuilderVisitor) Tags() Tags { return v.tags }

// SkippedReads lists reads dropped for lack of a valid range.
func (v *ContigBuilderVisitor) SkippedReads() []SkippedRead {
	return append([]SkippedRead(nil), v.skipped...)
}

// OrphanedTags lists consensus tags dropped because their whole range fell
// in consensus columns that Build trimmed away.
func (v *ContigBuilderVisitor) OrphanedTags() []ConsensusTag {
	return append([]ConsensusTag(nil), v.orphaned...)
}

func (v *ContigBuilderVisitor) fail(err error) {
	if v.err == nil {
		v.err = err
	}
	if v.ctl != nil {
		v.ctl.Halt()
	}
}

func (v *ContigBuilderVisitor) VisitStart(ctl *Control) { v.ctl = ctl }
func (v *ContigBuilderVisitor) VisitLine(string)        {}

func (v *ContigBuilderVisitor) VisitHeader(numContigs, numReads int) {
	v.numContigs, v.numReads = numContigs, numReads
}

func (v *ContigBuilderVisitor) VisitContig(id string, numBases, numReads, _ int, complemented bool) ContigVisitor {
	if v.Want != nil && !v.Want(id) {
		return nil
	}
	b := assembly.NewContigBuilder(id, "")
	b.SetComplemented(complemented)
	return &contigBuildState{
		owner:     v,
		builder:   b,
		consensus: make([]byte, 0, numBases),
		placement: make(map[string]placement, numReads),
	}
}

func (v *ContigBuilderVisitor) VisitReadTag(t ReadTag) { v.tags.Read = append(v.tags.Read, t) }

// VisitConsensusTag moves the tag onto the built consensus of its contig:
// the range is clipped to the columns Build kept and shifted by the left
// trim. Tags for contigs not built here are kept as read.
func (v *ContigBuilderVisitor) VisitConsensusTag(t ConsensusTag) {
	if w, ok := v.windows[t.ContigID]; ok {
		r := t.Range.Intersect(w)
		if r.Empty() {
			v.orphaned = append(v.orphaned, t)
			return
		}
		t.Range = r.Shift(-w.Begin)
	}
	v.tags.Consensus = append(v.tags.Consensus, t)
}

func (v *ContigBuilderVisitor) VisitWholeAssemblyTag(t WholeAssemblyTag) {
	v.tags.WholeAssembly = append(v.tags.WholeAssembly, t)
}

func (v *ContigBuilderVisitor) VisitEnd() {}
func (v *ContigBuilderVisitor) Halted()   {}

// placement is what an AF record says about a read.
type placement struct {
	dir       seq.Direction
	fullStart int
}

type contigBuildState struct {
	owner     *ContigBuilderVisitor
	builder   *assembly.ContigBuilder
	consensus []byte
	quals     []byte
	placement map[string]placement
	flushed   bool
	failed    bool
}

// flush hands the consensus to the builder once it is complete.
func (c *contigBuildState) flush() {
	if c.flushed {
		return
	}
	c.flushed = true
	c.builder.SetConsensus(string(c.consensus))
	if c.quals != nil {
		if err := c.builder.SetConsensusQualities(c.quals); err != nil {
			c.fail(err)
		}
	}
}

func (c *contigBuildState) fail(err error) {
	c.failed = true
	c.owner.fail(err)
}

func (c *contigBuildState) VisitBasesLine(bases string) {
	c.consensus = append(c.consensus, bases...)
}

func (c *contigBuildState) VisitConsensusQualities(quals []byte) {
	c.quals = append([]byte{}, quals...)
}

func (c *contigBuildState) VisitAssembledFrom(readID string, dir seq.Direction, fullStart int) {
	c.placement[readID] = placement{dir: dir, fullStart: fullStart}
}

func (c *contigBuildState) VisitBaseSegment(seq.Range, string) {}

func (c *contigBuildState) VisitRead(id string, gappedLength int) ReadVisitor {
	c.flush()
	return &readBuildState{contig: c, id: id, bases: make([]byte, 0, gappedLength)}
}

func (c *contigBuildState) VisitEnd() {
	c.flush()
	if c.failed {
		return
	}
	contig, err := c.builder.Build()
	if err != nil {
		c.fail(err)
		return
	}
	if c.owner.windows == nil {
		c.owner.windows = map[string]seq.Range{}
	}
	c.owner.windows[contig.ID()] = seq.OfLength(contig.LeftTrim(), contig.Consensus().Len())
	if err := c.owner.emit(contig); err != nil {
		c.fail(err)
	}
}

func (c *contigBuildState) Halted() {}

type readBuildState struct {
	contig *contigBuildState
	id     string
	bases  []byte
	qa     [4]int
	hasQA  bool
	phd    assembly.PhdInfo
}

func (r *readBuildState) VisitBasesLine(bases string) { r.bases = append(r.bases, bases...) }

func (r *readBuildState) VisitQualityLine(qualLeft, qualRight, alignLeft, alignRight int) {
	r.qa = [4]int{qualLeft, qualRight, alignLeft, alignRight}
	r.hasQA = true
}

func (r *readBuildState) VisitTraceDescription(phd assembly.PhdInfo) { r.phd = phd }

func (r *readBuildState) Halted() {}

// VisitEnd places the read. The clear range is the intersection of the
// quality and alignment clips, 1-based in gapped read coordinates.
func (r *readBuildState) VisitEnd() {
	c := r.contig
	pl, ok := c.placement[r.id]
	if !ok {
		c.fail(errors.Errorf("contig %s: read %s has no AF record", c.builder.ID(), r.id))
		return
	}
	cr, ok := clearRange(r.qa, r.hasQA, len(r.bases))
	if !ok {
		c.owner.skipped = append(c.owner.skipped, SkippedRead{ContigID: c.builder.ID(), ReadID: r.id})
		return
	}

	bases := seq.Normalize(r.bases)
	valid := bases[cr.Begin:cr.End]
	full := len(seq.Ungapped(bases))
	left := len(seq.Ungapped(bases[:cr.Begin]))
	n := len(seq.Ungapped(valid))

	vr := seq.OfLength(left, n)
	if pl.dir == seq.Reverse {
		// bases are complemented; the valid range is kept in raw orientation
		vr = seq.Range{Begin: full - left - n, End: full - left}
	}
	offset := pl.fullStart - 1 + cr.Begin
	c.builder.AddRead(r.id, string(valid), offset, pl.dir, vr, r.phd, full)
}

// clearRange returns the 0-based gapped clear range of a read of length n.
// A missing QA record leaves the whole read clear; a -1 bound or an empty
// intersection leaves nothing.
func clearRange(qa [4]int, hasQA bool, n int) (seq.Range, bool) {
	if !hasQA {
		return seq.OfLength(0, n), n > 0
	}
	first, last := qa[0], qa[1]
	if qa[2] > first {
		first = qa[2]
	}
	if qa[3] < last {
		last = qa[3]
	}
	if first < 1 || last > n || last < first {
		return seq.Range{}, false
	}
	return seq.FromInclusive(first, last), true
}
