// core/assembly/errors.go
package assembly

import "github.com/pkg/errors"

// Consistency errors. They are fatal to the operation that returned them but
// leave previously built objects untouched. Callers test with errors.Is.
var (
	ErrAlreadyBuilt     = errors.New("contig builder already built")
	ErrReAbacusMismatch = errors.New("re-abacus would change ungapped residues")
	ErrNoTilingMatch    = errors.New("no covering read agrees with consensus")
	ErrRangeOutOfBounds = errors.New("range outside sequence")
)
