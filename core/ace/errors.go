// core/ace/errors.go
package ace

import (
	"fmt"

	"github.com/pkg/errors"
)

// FormatError reports input that does not follow the ACE grammar. It is
// fatal to the parse that returned it.
type FormatError struct {
	Line   int    // 1-based line number
	Text   string // offending line without its terminator
	Reason string
}

func (e *FormatError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("ace: line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("ace: line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// ErrContigNotFound is returned by IndexedFile.Get for ids absent from the index.
var ErrContigNotFound = errors.New("ace: contig not found")

// ErrCompressed is returned when a byte-offset index is requested over
// compressed input.
var ErrCompressed = errors.New("ace: cannot index compressed input")
