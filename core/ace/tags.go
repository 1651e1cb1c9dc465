// core/ace/tags.go
package ace

import (
	"strconv"
	"strings"
	"time"

	"acekit/core/seq"
)

// tagDateLayout is the yymmdd:hhmmss stamp used in RT, CT and WA headers.
const tagDateLayout = "060102:150405"

// ReadTag annotates a gapped range of a read.
type ReadTag struct {
	ReadID  string
	Type    string
	Creator string
	Range   seq.Range
	Date    time.Time
}

// ConsensusTag annotates a gapped range of a contig's consensus.
type ConsensusTag struct {
	ContigID  string
	Type      string
	Creator   string
	Range     seq.Range
	Date      time.Time
	Transient bool
	Data      string
	Comments  []string
}

// WholeAssemblyTag carries free text about the assembly as a whole.
type WholeAssemblyTag struct {
	Type    string
	Creator string
	Date    time.Time
	Data    string
}

// Tags collects the tag blocks trailing the contigs of a file.
type Tags struct {
	Read          []ReadTag
	Consensus     []ConsensusTag
	WholeAssembly []WholeAssemblyTag
}

// parseTagRange reads 1-based inclusive bounds into a 0-based range.
func parseTagRange(start, end string) (seq.Range, bool) {
	s, err1 := strconv.Atoi(start)
	e, err2 := strconv.Atoi(end)
	if err1 != nil || err2 != nil || e < s-1 {
		return seq.Range{}, false
	}
	return seq.FromInclusive(s, e), true
}

func parseReadTagHeader(f []string) (ReadTag, bool) {
	if len(f) != 6 {
		return ReadTag{}, false
	}
	r, ok := parseTagRange(f[3], f[4])
	if !ok {
		return ReadTag{}, false
	}
	d, err := time.Parse(tagDateLayout, f[5])
	if err != nil {
		return ReadTag{}, false
	}
	return ReadTag{ReadID: f[0], Type: f[1], Creator: f[2], Range: r, Date: d}, true
}

func parseConsensusTagHeader(f []string) (ConsensusTag, bool) {
	if len(f) != 6 && len(f) != 7 {
		return ConsensusTag{}, false
	}
	r, ok := parseTagRange(f[3], f[4])
	if !ok {
		return ConsensusTag{}, false
	}
	d, err := time.Parse(tagDateLayout, f[5])
	if err != nil {
		return ConsensusTag{}, false
	}
	t := ConsensusTag{ContigID: f[0], Type: f[1], Creator: f[2], Range: r, Date: d}
	if len(f) == 7 {
		if !strings.EqualFold(f[6], "NoTrans") {
			return ConsensusTag{}, false
		}
		t.Transient = true
	}
	return t, true
}

func parseWholeAssemblyTagHeader(f []string) (WholeAssemblyTag, bool) {
	if len(f) != 3 {
		return WholeAssemblyTag{}, false
	}
	d, err := time.Parse(tagDateLayout, f[2])
	if err != nil {
		return WholeAssemblyTag{}, false
	}
	return WholeAssemblyTag{Type: f[0], Creator: f[1], Date: d}, true
}
