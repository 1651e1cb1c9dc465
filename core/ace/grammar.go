// core/ace/grammar.go
package ace

import (
	"strings"

	"acekit/core/seq"
)

type recordKind int

const (
	recHeader recordKind = iota
	recBaseQualities
	recBasecall
	recContig
	recAssembledFrom
	recBaseSegment
	recRead
	recQuality
	recTraceDescription
	recReadTag
	recWholeAssemblyTag
	recConsensusTag
)

const (
	readTagOpen          = "RT{"
	wholeAssemblyTagOpen = "WA{"
	consensusTagOpen     = "CT{"
	tagClose             = "}"
	commentOpen          = "COMMENT{"
	commentClose         = "C}"
)

type rule struct {
	kind recordKind
	// section records begin a new section; halts and cancellation take
	// effect just before them.
	section bool
	match   func(line string) bool
	handle  func(p *parser, line string) error
}

// grammar is tried top to bottom; the first matching rule wins.
var grammar = []rule{
	{recHeader, true, keyword("AS"), (*parser).handleHeader},
	{recBaseQualities, true, exactly("BQ"), (*parser).handleBaseQualities},
	{recBasecall, false, isBasecall, (*parser).handleBasecall},
	{recContig, true, keyword("CO"), (*parser).handleContig},
	{recAssembledFrom, true, keyword("AF"), (*parser).handleAssembledFrom},
	{recBaseSegment, true, keyword("BS"), (*parser).handleBaseSegment},
	{recRead, true, keyword("RD"), (*parser).handleRead},
	{recQuality, false, keyword("QA"), (*parser).handleQuality},
	{recTraceDescription, false, keyword("DS"), (*parser).handleTraceDescription},
	{recReadTag, true, exactly(readTagOpen), (*parser).handleReadTag},
	{recWholeAssemblyTag, true, exactly(wholeAssemblyTagOpen), (*parser).handleWholeAssemblyTag},
	{recConsensusTag, true, exactly(consensusTagOpen), (*parser).handleConsensusTag},
}

// keyword matches a record name followed by at least one field.
func keyword(k string) func(string) bool {
	return func(line string) bool {
		return len(line) > len(k) && strings.HasPrefix(line, k) && (line[len(k)] == ' ' || line[len(k)] == '\t')
	}
}

func exactly(k string) func(string) bool {
	return func(line string) bool { return line == k }
}

func isBasecall(line string) bool {
	if line == "" {
		return false
	}
	for i := 0; i < len(line); i++ {
		if !seq.IsResidue(line[i]) {
			return false
		}
	}
	return true
}

// isTagOpen reports whether a raw line opens a tag block.
func isTagOpen(line string) bool {
	switch strings.TrimRight(line, " \t\r\n") {
	case readTagOpen, wholeAssemblyTagOpen, consensusTagOpen:
		return true
	}
	return false
}
