// core/ace/writer.go
package ace

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"acekit/core/assembly"
	"acekit/core/seq"
)

// lineWidth is the number of residues or quality values per output line.
const lineWidth = 50

// WriterOptions controls optional output.
type WriterOptions struct {
	// QualityThreshold lower-cases consensus residues whose quality is
	// below it. Zero disables lower-casing.
	QualityThreshold int
	// BaseSegments writes BS records from the best-segment tiling.
	BaseSegments bool
}

// DefaultWriterOptions matches the conventions of phrap and consed output.
var DefaultWriterOptions = WriterOptions{QualityThreshold: 26}

// Writer serializes contigs and tags as ACE text. The first write error is
// sticky and returned by every later call.
type Writer struct {
	bw  *bufio.Writer
	opt WriterOptions
	err error
}

func NewWriter(w io.Writer, opt WriterOptions) *Writer {
	return &Writer{bw: bufio.NewWriterSize(w, 64<<10), opt: opt}
}

func (w *Writer) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.bw, format, args...)
}

func (w *Writer) lines(s string) {
	for len(s) > lineWidth {
		w.printf("%s\n", s[:lineWidth])
		s = s[lineWidth:]
	}
	if s != "" {
		w.printf("%s\n", s)
	}
}

// WriteHeader writes the AS record.
func (w *Writer) WriteHeader(numContigs, numReads int) error {
	w.printf("AS %d %d\n\n", numContigs, numReads)
	return w.err
}

// WriteContig writes the CO block of c with its reads. Clipped read ends
// are padded with N so that valid ranges and full lengths survive a
// re-parse.
func (w *Writer) WriteContig(c *assembly.Contig) error {
	var segs []assembly.BaseSegment
	if w.opt.BaseSegments {
		var err error
		segs, err = assembly.BestSegments(c)
		if err != nil && !errors.Is(err, assembly.ErrNoTilingMatch) {
			return err
		}
	}

	cons := c.Consensus()
	reads := c.Reads()
	flag := seq.Forward.Flag()
	if c.Complemented() {
		flag = seq.Reverse.Flag()
	}
	w.printf("CO %s %d %d %d %s\n", c.ID(), cons.Len(), len(reads), len(segs), flag)
	w.lines(w.consensusText(cons, c.ConsensusQualities()))
	w.printf("\n")

	if q := c.ConsensusQualities(); q != nil {
		w.printf("BQ\n")
		for i := 0; i < len(q); i += lineWidth {
			end := i + lineWidth
			if end > len(q) {
				end = len(q)
			}
			for _, v := range q[i:end] {
				w.printf(" %d", v)
			}
			w.printf("\n")
		}
		w.printf("\n")
	}

	for _, r := range reads {
		left, _ := readPadding(r)
		w.printf("AF %s %s %d\n", r.ID(), r.Direction().Flag(), r.Offset()-left+1)
	}
	for _, s := range segs {
		w.printf("BS %d %d %s\n", s.Range.Begin+1, s.Range.End, s.ReadID)
	}
	w.printf("\n")

	for _, r := range reads {
		w.writeRead(r)
	}
	return w.err
}

func (w *Writer) consensusText(cons seq.Gapped, quals []byte) string {
	out := make([]byte, cons.Len())
	u := 0
	for i := range out {
		b := cons.At(i)
		if seq.IsGap(b) {
			out[i] = seq.AceGap
			continue
		}
		if quals != nil && u < len(quals) && int(quals[u]) < w.opt.QualityThreshold && b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		out[i] = b
		u++
	}
	return string(out)
}

// readPadding returns how many clipped bases lie before and after the valid
// part of r, in consensus orientation.
func readPadding(r *assembly.AssembledRead) (left, right int) {
	vr := r.ValidRange()
	full := r.FullLength()
	if r.Direction() == seq.Reverse {
		left = full - vr.End
	} else {
		left = vr.Begin
	}
	right = full - vr.Len() - left
	if left < 0 {
		left = 0
	}
	if right < 0 {
		right = 0
	}
	return left, right
}

func (w *Writer) writeRead(r *assembly.AssembledRead) {
	left, right := readPadding(r)
	body := r.Sequence().Bytes()
	for i, b := range body {
		if seq.IsGap(b) {
			body[i] = seq.AceGap
		}
	}
	n := len(body)
	w.printf("RD %s %d 0 0\n", r.ID(), left+n+right)
	w.lines(strings.Repeat("N", left) + string(body) + strings.Repeat("N", right))
	w.printf("\n")
	w.printf("QA %d %d %d %d\n", left+1, left+n, left+1, left+n)

	phd := r.PhdInfo()
	w.printf("DS CHROMAT_FILE: %s", phd.TraceName)
	if phd.PhdName != "" {
		w.printf(" PHD_FILE: %s", phd.PhdName)
	}
	if !phd.Date.IsZero() {
		w.printf(" TIME: %s", phd.Date.Format(dsTimeLayout))
	}
	w.printf("\n\n")
}

func (w *Writer) WriteReadTag(t ReadTag) error {
	w.printf("RT{\n%s %s %s %d %d %s\n}\n\n", t.ReadID, t.Type, t.Creator, t.Range.Begin+1, t.Range.End, t.Date.Format(tagDateLayout))
	return w.err
}

func (w *Writer) WriteConsensusTag(t ConsensusTag) error {
	w.printf("CT{\n%s %s %s %d %d %s", t.ContigID, t.Type, t.Creator, t.Range.Begin+1, t.Range.End, t.Date.Format(tagDateLayout))
	if t.Transient {
		w.printf(" NoTrans")
	}
	w.printf("\n")
	if t.Data != "" {
		w.printf("%s\n", t.Data)
	}
	for _, c := range t.Comments {
		w.printf("%s\n%s\n%s\n", commentOpen, c, commentClose)
	}
	w.printf("}\n\n")
	return w.err
}

func (w *Writer) WriteWholeAssemblyTag(t WholeAssemblyTag) error {
	w.printf("WA{\n%s %s %s\n", t.Type, t.Creator, t.Date.Format(tagDateLayout))
	if t.Data != "" {
		w.printf("%s\n", t.Data)
	}
	w.printf("}\n\n")
	return w.err
}

// Flush writes any buffered output.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.bw.Flush()
	return w.err
}

// WriteFile writes a complete ACE file: header, contigs, then tags.
func WriteFile(out io.Writer, f *File, opt WriterOptions) error {
	w := NewWriter(out, opt)
	reads := 0
	for _, c := range f.Contigs {
		reads += c.NumReads()
	}
	if err := w.WriteHeader(len(f.Contigs), reads); err != nil {
		return err
	}
	for _, c := range f.Contigs {
		if err := w.WriteContig(c); err != nil {
			return errors.Wrapf(err, "write contig %s", c.ID())
		}
	}
	for _, t := range f.Tags.Read {
		w.WriteReadTag(t)
	}
	for _, t := range f.Tags.WholeAssembly {
		w.WriteWholeAssemblyTag(t)
	}
	for _, t := range f.Tags.Consensus {
		w.WriteConsensusTag(t)
	}
	return w.Flush()
}
