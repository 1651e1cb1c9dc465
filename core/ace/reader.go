// core/ace/reader.go
package ace

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"acekit/core/assembly"
)

// File is a fully parsed ACE file.
type File struct {
	// Declared counts from the AS header.
	NumContigs int
	NumReads   int

	Contigs []*assembly.Contig
	Tags    Tags
	Skipped []SkippedRead

	// Orphaned consensus tags pointed only at trimmed-away columns.
	Orphaned []ConsensusTag
}

// ReadAll parses r and builds every contig in memory.
func ReadAll(ctx context.Context, r io.Reader) (*File, error) {
	f := &File{}
	v := NewContigBuilderVisitor(func(c *assembly.Contig) error {
		f.Contigs = append(f.Contigs, c)
		return nil
	})
	if err := Parse(ctx, r, v); err != nil {
		return nil, err
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	f.NumContigs, f.NumReads = v.Header()
	f.Tags = v.Tags()
	f.Skipped = v.SkippedReads()
	f.Orphaned = v.OrphanedTags()
	return f, nil
}

// ParseFile opens path, which may be gzip-compressed or "-", and reads it
// with ReadAll.
func ParseFile(ctx context.Context, path string) (*File, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	f, err := ReadAll(ctx, rc)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return f, nil
}

// Contig returns the parsed contig with the given id.
func (f *File) Contig(id string) (*assembly.Contig, bool) {
	for _, c := range f.Contigs {
		if c.ID() == id {
			return c, true
		}
	}
	return nil, false
}
