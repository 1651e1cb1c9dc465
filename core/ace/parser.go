// core/ace/parser.go
package ace

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"acekit/core/seq"
)

type parseState int

const (
	stateBeforeFirstContig parseState = iota
	stateInContig
	stateNotInContig
	stateStopped
)

type section int

const (
	sectionNone section = iota
	sectionConsensus
	sectionQualities
	sectionRead
)

type parser struct {
	ctx   context.Context
	src   *lineSource
	fv    FileVisitor
	ctl   *Control
	state parseState
	sect  section
	text  string // current line, trailing whitespace removed

	cv        ContigVisitor
	contigID  string
	wantBases int
	gotBases  int
	wantReads int
	gotReads  int
	quals     []byte

	rv       ReadVisitor
	readID   string
	readWant int
	readGot  int
}

// Parse reads ACE text from r and drives v. Lines are consumed strictly in
// order. The parse ends with v.VisitEnd at end of input, or with v.Halted
// when a visitor called Control.Halt or ctx was cancelled; in the latter
// case Parse returns ctx.Err(). Malformed records yield a *FormatError.
func Parse(ctx context.Context, r io.Reader, v FileVisitor) error {
	p := &parser{ctx: ctx, src: newLineSource(r), fv: v, ctl: &Control{}}
	return p.run()
}

func (p *parser) run() error {
	p.fv.VisitStart(p.ctl)
	for {
		raw, ok := p.nextLine()
		if !ok {
			break
		}
		stop, err := p.dispatch(raw)
		if err != nil {
			return err
		}
		if stop {
			return p.halt()
		}
	}
	if p.src.err != nil {
		return errors.Wrap(p.src.err, "read ace input")
	}
	if p.stopRequested() {
		return p.halt()
	}
	return p.finish()
}

func (p *parser) nextLine() (string, bool) {
	raw, ok := p.src.next()
	if ok {
		p.fv.VisitLine(raw)
	}
	return raw, ok
}

func (p *parser) stopRequested() bool {
	return p.ctl.IsHalted() || p.ctx.Err() != nil
}

func (p *parser) dispatch(raw string) (stop bool, err error) {
	p.text = strings.TrimRight(raw, " \t\r\n")
	if p.sect == sectionQualities {
		consumed, err := p.qualityValues(p.text)
		if err != nil || consumed {
			return false, err
		}
	}
	for i := range grammar {
		r := &grammar[i]
		if !r.match(p.text) {
			continue
		}
		if r.section && p.stopRequested() {
			return true, nil
		}
		return false, r.handle(p, p.text)
	}
	return false, nil
}

// halt notifies the open read and contig, unless the stop fell between
// contigs, then the file visitor.
func (p *parser) halt() error {
	if p.sect == sectionRead && p.rv != nil {
		p.rv.Halted()
	}
	if p.state == stateInContig && p.cv != nil {
		p.cv.Halted()
	}
	p.rv, p.cv = nil, nil
	p.state = stateStopped
	p.fv.Halted()
	return p.ctx.Err()
}

func (p *parser) finish() error {
	p.text = ""
	if err := p.closeContig(); err != nil {
		return err
	}
	p.fv.VisitEnd()
	return nil
}

func (p *parser) formatError(format string, args ...any) error {
	return &FormatError{Line: p.src.n, Text: p.text, Reason: fmt.Sprintf(format, args...)}
}

// leaveSection closes whatever section is open inside the current contig.
func (p *parser) leaveSection() error {
	switch p.sect {
	case sectionConsensus:
		p.sect = sectionNone
		if p.cv != nil && p.gotBases != p.wantBases {
			return p.formatError("contig %s has %d consensus bases, header declares %d", p.contigID, p.gotBases, p.wantBases)
		}
	case sectionQualities:
		p.endQualities()
	case sectionRead:
		return p.closeRead()
	}
	return nil
}

func (p *parser) closeRead() error {
	p.sect = sectionNone
	rv := p.rv
	p.rv = nil
	if rv == nil {
		return nil
	}
	if p.readGot != p.readWant {
		return p.formatError("read %s has %d bases, header declares %d", p.readID, p.readGot, p.readWant)
	}
	rv.VisitEnd()
	return nil
}

func (p *parser) closeContig() error {
	if p.state != stateInContig {
		return nil
	}
	if err := p.leaveSection(); err != nil {
		return err
	}
	if p.gotReads < p.wantReads {
		return p.formatError("contig %s has %d reads, header declares %d", p.contigID, p.gotReads, p.wantReads)
	}
	p.state = stateNotInContig
	if cv := p.cv; cv != nil {
		p.cv = nil
		cv.VisitEnd()
	}
	return nil
}

func (p *parser) endQualities() {
	p.sect = sectionNone
	if p.cv != nil {
		p.cv.VisitConsensusQualities(p.quals)
	}
	p.quals = nil
}

// qualityValues consumes one line of a BQ block. A blank line ends the
// block; so does any line that does not start with a number, which is then
// dispatched normally.
func (p *parser) qualityValues(text string) (bool, error) {
	f := strings.Fields(text)
	if len(f) == 0 {
		p.endQualities()
		return true, nil
	}
	if _, err := strconv.Atoi(f[0]); err != nil {
		p.endQualities()
		return false, nil
	}
	for _, s := range f {
		q, err := strconv.Atoi(s)
		if err != nil || q < 0 || q > 255 {
			return false, p.formatError("bad consensus quality %q", s)
		}
		if p.cv != nil {
			p.quals = append(p.quals, byte(q))
		}
	}
	return true, nil
}

func atoiAll(f []string) ([]int, bool) {
	out := make([]int, len(f))
	for i, s := range f {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

func (p *parser) handleHeader(text string) error {
	f := strings.Fields(text)
	if len(f) != 3 {
		return p.formatError("malformed AS header")
	}
	n, ok := atoiAll(f[1:])
	if !ok || n[0] < 0 || n[1] < 0 {
		return p.formatError("malformed AS header")
	}
	p.fv.VisitHeader(n[0], n[1])
	return nil
}

func (p *parser) handleBaseQualities(string) error {
	if p.state != stateInContig {
		return nil
	}
	if err := p.leaveSection(); err != nil {
		return err
	}
	p.sect = sectionQualities
	if p.cv != nil {
		p.quals = make([]byte, 0, p.wantBases)
	}
	return nil
}

func (p *parser) handleBasecall(text string) error {
	if p.state != stateInContig {
		return nil
	}
	switch p.sect {
	case sectionConsensus:
		p.gotBases += len(text)
		if p.cv != nil {
			p.cv.VisitBasesLine(text)
		}
	case sectionRead:
		p.readGot += len(text)
		if p.rv != nil {
			p.rv.VisitBasesLine(text)
		}
	}
	return nil
}

func (p *parser) handleContig(text string) error {
	f := strings.Fields(text)
	if len(f) != 6 {
		return p.formatError("malformed CO header")
	}
	n, ok := atoiAll(f[2:5])
	dir, dok := seq.ParseDirection(f[5])
	if !ok || !dok || n[0] < 0 || n[1] < 0 || n[2] < 0 {
		return p.formatError("malformed CO header")
	}
	if err := p.closeContig(); err != nil {
		return err
	}
	cv := p.fv.VisitContig(f[1], n[0], n[1], n[2], dir == seq.Reverse)
	if p.ctl.IsHalted() {
		// a contig whose announcement triggered the halt is never entered
		cv = nil
	}
	p.state = stateInContig
	p.cv = cv
	p.contigID = f[1]
	p.wantBases, p.gotBases = n[0], 0
	p.wantReads, p.gotReads = n[1], 0
	p.sect = sectionConsensus
	return nil
}

func (p *parser) handleAssembledFrom(text string) error {
	f := strings.Fields(text)
	if len(f) != 4 {
		return p.formatError("malformed AF record")
	}
	dir, dok := seq.ParseDirection(f[2])
	start, err := strconv.Atoi(f[3])
	if !dok || err != nil {
		return p.formatError("malformed AF record")
	}
	if p.state != stateInContig {
		return nil
	}
	if err := p.leaveSection(); err != nil {
		return err
	}
	if p.cv != nil {
		p.cv.VisitAssembledFrom(f[1], dir, start)
	}
	return nil
}

func (p *parser) handleBaseSegment(text string) error {
	f := strings.Fields(text)
	if len(f) != 4 {
		return p.formatError("malformed BS record")
	}
	n, ok := atoiAll(f[1:3])
	if !ok || n[0] < 1 || n[1] < n[0] {
		return p.formatError("malformed BS record")
	}
	if p.state != stateInContig {
		return nil
	}
	if err := p.leaveSection(); err != nil {
		return err
	}
	if p.cv != nil {
		p.cv.VisitBaseSegment(seq.FromInclusive(n[0], n[1]), f[3])
	}
	return nil
}

func (p *parser) handleRead(text string) error {
	f := strings.Fields(text)
	if len(f) != 3 && len(f) != 5 {
		return p.formatError("malformed RD header")
	}
	n, ok := atoiAll(f[2:])
	if !ok || n[0] < 0 {
		return p.formatError("malformed RD header")
	}
	if p.state != stateInContig {
		return nil
	}
	if err := p.leaveSection(); err != nil {
		return err
	}
	p.sect = sectionRead
	p.gotReads++
	p.readID = f[1]
	p.readWant, p.readGot = n[0], 0
	p.rv = nil
	if p.cv != nil {
		rv := p.cv.VisitRead(f[1], n[0])
		if !p.ctl.IsHalted() {
			p.rv = rv
		}
	}
	return nil
}

func (p *parser) handleQuality(text string) error {
	f := strings.Fields(text)
	if len(f) != 5 {
		return p.formatError("malformed QA record")
	}
	n, ok := atoiAll(f[1:])
	if !ok {
		return p.formatError("malformed QA record")
	}
	if p.sect == sectionRead && p.rv != nil {
		p.rv.VisitQualityLine(n[0], n[1], n[2], n[3])
	}
	return nil
}

func (p *parser) handleTraceDescription(text string) error {
	if p.sect != sectionRead {
		return nil
	}
	if p.rv != nil {
		p.rv.VisitTraceDescription(parseTraceDescription(text))
	}
	return p.closeRead()
}

// tagBlock collects the lines after an opening brace up to the matching
// closing line. A "}" inside a COMMENT{ ... C} block does not close the tag.
func (p *parser) tagBlock() (header []string, body []string, err error) {
	open, start := p.text, p.src.n
	var (
		lines     []string
		inComment bool
	)
	for {
		raw, ok := p.nextLine()
		if !ok {
			if p.src.err != nil {
				return nil, nil, errors.Wrap(p.src.err, "read ace input")
			}
			return nil, nil, &FormatError{Line: start, Text: open, Reason: "unterminated tag block"}
		}
		line := trimEOL(raw)
		t := strings.TrimSpace(line)
		switch {
		case !inComment && t == commentOpen:
			inComment = true
		case inComment && t == commentClose:
			inComment = false
		case !inComment && t == tagClose:
			if len(lines) == 0 {
				return nil, nil, &FormatError{Line: start, Text: open, Reason: "tag block without header"}
			}
			return strings.Fields(lines[0]), lines[1:], nil
		}
		lines = append(lines, line)
	}
}

func (p *parser) handleReadTag(string) error {
	if err := p.closeContig(); err != nil {
		return err
	}
	start := p.src.n
	h, body, err := p.tagBlock()
	if err != nil {
		return err
	}
	t, ok := parseReadTagHeader(h)
	if !ok {
		return &FormatError{Line: start + 1, Text: strings.Join(h, " "), Reason: "malformed RT header"}
	}
	for i, line := range body {
		if strings.TrimSpace(line) != "" {
			return &FormatError{Line: start + 2 + i, Text: line, Reason: "RT tag with body"}
		}
	}
	p.fv.VisitReadTag(t)
	return nil
}

func (p *parser) handleWholeAssemblyTag(string) error {
	if err := p.closeContig(); err != nil {
		return err
	}
	start := p.src.n
	h, body, err := p.tagBlock()
	if err != nil {
		return err
	}
	t, ok := parseWholeAssemblyTagHeader(h)
	if !ok {
		return &FormatError{Line: start + 1, Text: strings.Join(h, " "), Reason: "malformed WA header"}
	}
	t.Data = strings.Join(body, "\n")
	p.fv.VisitWholeAssemblyTag(t)
	return nil
}

func (p *parser) handleConsensusTag(string) error {
	if err := p.closeContig(); err != nil {
		return err
	}
	start := p.src.n
	h, body, err := p.tagBlock()
	if err != nil {
		return err
	}
	t, ok := parseConsensusTagHeader(h)
	if !ok {
		return &FormatError{Line: start + 1, Text: strings.Join(h, " "), Reason: "malformed CT header"}
	}
	var (
		data    []string
		comment []string
		inC     bool
	)
	for _, line := range body {
		switch strings.TrimSpace(line) {
		case commentOpen:
			inC, comment = true, nil
			continue
		case commentClose:
			if inC {
				t.Comments = append(t.Comments, strings.Join(comment, "\n"))
				inC = false
				continue
			}
		}
		if inC {
			comment = append(comment, line)
		} else {
			data = append(data, line)
		}
	}
	t.Data = strings.Join(data, "\n")
	p.fv.VisitConsensusTag(t)
	return nil
}
