// core/ace/visitor.go
package ace

import (
	"sync/atomic"

	"acekit/core/assembly"
	"acekit/core/seq"
)

// Control lets a visitor stop the parse. The parser checks it between
// sections, never in the middle of a record. It is safe to call Halt from
// another goroutine.
type Control struct {
	halted atomic.Bool
}

// Halt asks the parser to stop at the next section boundary.
func (c *Control) Halt() { c.halted.Store(true) }

// IsHalted reports whether Halt has been called.
func (c *Control) IsHalted() bool { return c.halted.Load() }

// FileVisitor receives file-level events. VisitStart is always first; the
// parse ends with exactly one of VisitEnd or Halted.
type FileVisitor interface {
	VisitStart(ctl *Control)
	// VisitLine sees every raw line, terminator included, before it is
	// dispatched.
	VisitLine(line string)
	VisitHeader(numContigs, numReads int)
	// VisitContig returns the visitor for the contig's sections, or nil to
	// skip them.
	VisitContig(id string, numBases, numReads, numSegments int, complemented bool) ContigVisitor
	VisitReadTag(tag ReadTag)
	VisitConsensusTag(tag ConsensusTag)
	VisitWholeAssemblyTag(tag WholeAssemblyTag)
	VisitEnd()
	Halted()
}

// ContigVisitor receives the sections of one contig.
type ContigVisitor interface {
	// VisitBasesLine delivers one line of gapped consensus, '*' for gaps.
	VisitBasesLine(bases string)
	// VisitConsensusQualities delivers the BQ block, one value per
	// ungapped consensus residue.
	VisitConsensusQualities(quals []byte)
	// VisitAssembledFrom reports a read's direction and the 1-based
	// consensus position of its first full-read base. The position may be
	// zero or negative.
	VisitAssembledFrom(readID string, dir seq.Direction, fullStart int)
	// VisitBaseSegment reports a BS record as a 0-based gapped range.
	VisitBaseSegment(r seq.Range, readID string)
	// VisitRead returns the visitor for the read's sections, or nil to
	// skip them.
	VisitRead(id string, gappedLength int) ReadVisitor
	VisitEnd()
	Halted()
}

// ReadVisitor receives the sections of one read.
type ReadVisitor interface {
	VisitBasesLine(bases string)
	// VisitQualityLine reports the QA record. Bounds are 1-based gapped
	// read positions; -1 means not applicable.
	VisitQualityLine(qualLeft, qualRight, alignLeft, alignRight int)
	VisitTraceDescription(phd assembly.PhdInfo)
	VisitEnd()
	Halted()
}

// NopFileVisitor ignores everything and skips every contig. Embed it to
// implement only the callbacks you need.
type NopFileVisitor struct{}

func (NopFileVisitor) VisitStart(*Control)                    {}
func (NopFileVisitor) VisitLine(string)                       {}
func (NopFileVisitor) VisitHeader(int, int)                   {}
func (NopFileVisitor) VisitReadTag(ReadTag)                   {}
func (NopFileVisitor) VisitConsensusTag(ConsensusTag)         {}
func (NopFileVisitor) VisitWholeAssemblyTag(WholeAssemblyTag) {}
func (NopFileVisitor) VisitEnd()                              {}
func (NopFileVisitor) Halted()                                {}

func (NopFileVisitor) VisitContig(string, int, int, int, bool) ContigVisitor { return nil }

// NopContigVisitor ignores everything and skips every read.
type NopContigVisitor struct{}

func (NopContigVisitor) VisitBasesLine(string)                         {}
func (NopContigVisitor) VisitConsensusQualities([]byte)                {}
func (NopContigVisitor) VisitAssembledFrom(string, seq.Direction, int) {}
func (NopContigVisitor) VisitBaseSegment(seq.Range, string)            {}
func (NopContigVisitor) VisitRead(string, int) ReadVisitor             { return nil }
func (NopContigVisitor) VisitEnd()                                     {}
func (NopContigVisitor) Halted()                                       {}

// NopReadVisitor ignores everything.
type NopReadVisitor struct{}

func (NopReadVisitor) VisitBasesLine(string)                  {}
func (NopReadVisitor) VisitQualityLine(int, int, int, int)    {}
func (NopReadVisitor) VisitTraceDescription(assembly.PhdInfo) {}
func (NopReadVisitor) VisitEnd()                              {}
func (NopReadVisitor) Halted()                                {}
