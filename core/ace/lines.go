// core/ace/lines.go
package ace

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// lineSource hands out raw lines, terminator included. "\n", "\r\n" and a
// lone "\r" all end a line.
type lineSource struct {
	r   *bufio.Reader
	buf []byte
	n   int
	err error
}

func newLineSource(r io.Reader) *lineSource {
	return &lineSource{r: bufio.NewReaderSize(r, 64<<10)}
}

// next returns the next raw line and false at end of input or on a read
// error, which is kept in s.err.
func (s *lineSource) next() (string, bool) {
	s.buf = s.buf[:0]
	for {
		b, err := s.r.ReadByte()
		if err != nil {
			if err != io.EOF {
				s.err = err
			}
			break
		}
		s.buf = append(s.buf, b)
		if b == '\n' {
			break
		}
		if b == '\r' {
			if nb, err := s.r.Peek(1); err == nil && nb[0] == '\n' {
				_, _ = s.r.ReadByte()
				s.buf = append(s.buf, '\n')
			}
			break
		}
	}
	if len(s.buf) == 0 {
		return "", false
	}
	s.n++
	return string(s.buf), true
}

func trimEOL(line string) string {
	return strings.TrimRight(line, "\r\n")
}

type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// isGzip sniffs the gzip magic number without consuming input.
func isGzip(br *bufio.Reader) bool {
	sig, err := br.Peek(2)
	return err == nil && sig[0] == 0x1f && sig[1] == 0x8b
}

// Open opens an ACE file for sequential reading. "-" is stdin. gzip input
// is detected by magic number and decompressed transparently.
func Open(path string) (io.ReadCloser, error) {
	var (
		src    io.Reader
		closer io.Closer
	)
	if path == "-" {
		src, closer = os.Stdin, io.NopCloser(nil)
	} else {
		fh, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "open ace input")
		}
		src, closer = fh, fh
	}
	br := bufio.NewReader(src)
	if !isGzip(br) {
		return &multiReadCloser{Reader: br, closers: []io.Closer{closer}}, nil
	}
	gr, err := gzip.NewReader(br)
	if err != nil {
		_ = closer.Close()
		return nil, errors.Wrapf(err, "gzip %s", path)
	}
	return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, closer}}, nil
}
