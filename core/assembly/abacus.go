// core/assembly/abacus.go
package assembly

import (
	"bytes"

	"github.com/pkg/errors"

	"acekit/core/seq"
)

// reAbacus returns bases with the gapped range r replaced by replacement,
// provided both carry the same ungapped residues.
func reAbacus(bases []byte, r seq.Range, replacement string) ([]byte, error) {
	if r.Begin < 0 || r.End > len(bases) || r.End < r.Begin {
		return nil, errors.Wrapf(ErrRangeOutOfBounds, "re-abacus %v on length %d", r, len(bases))
	}
	repl := seq.Normalize([]byte(replacement))
	oldRes := seq.Ungapped(bases[r.Begin:r.End])
	newRes := seq.Ungapped(repl)
	if !bytes.Equal(oldRes, newRes) {
		return nil, errors.Wrapf(ErrReAbacusMismatch, "%v: %q has residues %q, replacement %q has %q",
			r, bases[r.Begin:r.End], oldRes, repl, newRes)
	}
	out := make([]byte, 0, len(bases)-r.Len()+len(repl))
	out = append(out, bases[:r.Begin]...)
	out = append(out, repl...)
	out = append(out, bases[r.End:]...)
	return out, nil
}
