// core/ace/index.go
package ace

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/pkg/errors"

	"acekit/core/assembly"
)

// IndexEntry locates one contig in an uncompressed ACE file.
type IndexEntry struct {
	ID       string
	Start    int64 // offset of the CO line
	End      int64 // offset just past the contig's last line
	NumBases int
	NumReads int
}

// Len is the size of the contig's byte range.
func (e IndexEntry) Len() int64 { return e.End - e.Start }

// Index maps contig ids to byte ranges. It is read-only once built.
type Index struct {
	entries []IndexEntry
	byID    map[string]int
}

// indexer is a FileVisitor that records where each contig starts and stops
// while declining every contig, so their contents are never dispatched.
type indexer struct {
	NopFileVisitor
	pos       int64 // offset just past the last line seen
	lineStart int64 // offset of the line being dispatched
	open      bool
	entries   []IndexEntry
}

func (x *indexer) VisitLine(line string) {
	x.lineStart = x.pos
	x.pos += int64(len(line))
	if x.open && isTagOpen(line) {
		x.close(x.lineStart)
	}
}

func (x *indexer) close(end int64) {
	x.entries[len(x.entries)-1].End = end
	x.open = false
}

func (x *indexer) VisitContig(id string, numBases, numReads, _ int, _ bool) ContigVisitor {
	if x.open {
		x.close(x.lineStart)
	}
	x.entries = append(x.entries, IndexEntry{ID: id, Start: x.lineStart, NumBases: numBases, NumReads: numReads})
	x.open = true
	return nil
}

func (x *indexer) VisitEnd() {
	if x.open {
		x.close(x.pos)
	}
}

// BuildIndex makes one pass over r recording the byte range of every
// contig. A contig runs from its CO line to the next CO line, the first tag
// block, or end of input. Offsets are relative to the start of r, so r must
// be the raw, uncompressed file.
func BuildIndex(ctx context.Context, r io.Reader) (*Index, error) {
	x := &indexer{}
	if err := Parse(ctx, r, x); err != nil {
		return nil, errors.Wrap(err, "index ace input")
	}
	idx := &Index{entries: x.entries, byID: make(map[string]int, len(x.entries))}
	for i, e := range x.entries {
		if _, dup := idx.byID[e.ID]; !dup {
			idx.byID[e.ID] = i
		}
	}
	return idx, nil
}

// Entry looks up a contig's byte range.
func (idx *Index) Entry(id string) (IndexEntry, bool) {
	i, ok := idx.byID[id]
	if !ok {
		return IndexEntry{}, false
	}
	return idx.entries[i], true
}

// IDs lists contig ids in file order.
func (idx *Index) IDs() []string {
	ids := make([]string, len(idx.entries))
	for i, e := range idx.entries {
		ids[i] = e.ID
	}
	return ids
}

// Entries returns a copy of all entries in file order.
func (idx *Index) Entries() []IndexEntry { return append([]IndexEntry(nil), idx.entries...) }

func (idx *Index) Len() int { return len(idx.entries) }

// IndexedFile fetches single contigs from an indexed file. The file must
// not change while the IndexedFile is in use. Get may be called from
// several goroutines; each call opens its own handle.
type IndexedFile struct {
	path string
	idx  *Index
}

// NewIndexedFile pairs an index with the file it was built from.
func NewIndexedFile(path string, idx *Index) *IndexedFile {
	return &IndexedFile{path: path, idx: idx}
}

// IndexFile builds an index over the file at path. Compressed files are
// rejected with ErrCompressed since their offsets cannot be seeked.
func IndexFile(ctx context.Context, path string) (*IndexedFile, error) {
	return IndexFileFunc(ctx, path, nil)
}

// IndexFileFunc is IndexFile with the raw file reader passed through wrap,
// which also receives the file size. Progress meters hook in here.
func IndexFileFunc(ctx context.Context, path string, wrap func(r io.Reader, size int64) io.Reader) (*IndexedFile, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open ace input")
	}
	defer fh.Close()
	var r io.Reader = fh
	if wrap != nil {
		st, err := fh.Stat()
		if err != nil {
			return nil, errors.Wrap(err, "stat ace input")
		}
		r = wrap(fh, st.Size())
	}
	br := bufio.NewReader(r)
	if isGzip(br) {
		return nil, errors.Wrap(ErrCompressed, path)
	}
	idx, err := BuildIndex(ctx, br)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return NewIndexedFile(path, idx), nil
}

func (f *IndexedFile) Index() *Index { return f.idx }

func (f *IndexedFile) IDs() []string { return f.idx.IDs() }

// Get re-parses the byte range of contig id and returns the built contig.
func (f *IndexedFile) Get(ctx context.Context, id string) (*assembly.Contig, error) {
	e, ok := f.idx.Entry(id)
	if !ok {
		return nil, errors.Wrapf(ErrContigNotFound, "%q", id)
	}
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, errors.Wrap(err, "open indexed ace file")
	}
	defer fh.Close()

	var found *assembly.Contig
	v := NewContigBuilderVisitor(func(c *assembly.Contig) error {
		found = c
		return nil
	})
	if err := Parse(ctx, io.NewSectionReader(fh, e.Start, e.Len()), v); err != nil {
		return nil, errors.Wrapf(err, "contig %s at [%d,%d)", id, e.Start, e.End)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	if found == nil || found.ID() != id {
		return nil, errors.Errorf("contig %s: index range [%d,%d) holds no such contig; file changed?", id, e.Start, e.End)
	}
	return found, nil
}
