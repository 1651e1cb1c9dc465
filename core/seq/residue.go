// core/seq/residue.go
package seq

import "github.com/biogo/biogo/alphabet"

// Gap is the in-memory gap symbol. ACE files write gaps as AceGap; readers
// normalize to Gap.
const (
	Gap    byte = '-'
	AceGap byte = '*'
)

// nucleic is the IUPAC DNA alphabet with gaps, case-insensitive.
var nucleic = alphabet.DNAredundant

func IsGap(b byte) bool { return b == Gap || b == AceGap }

// IsResidue reports whether b may appear in a basecall line.
func IsResidue(b byte) bool {
	if IsGap(b) || b == 'x' || b == 'X' {
		return true
	}
	return nucleic.IsValid(alphabet.Letter(b))
}

// Complement returns the IUPAC complement of b, preserving gaps. Unknown
// symbols complement to N.
func Complement(b byte) byte {
	if IsGap(b) {
		return Gap
	}
	if l, ok := nucleic.Complement(alphabet.Letter(b)); ok {
		return byte(l)
	}
	return 'N'
}

// Normalize upper-cases residues and maps ACE gaps to Gap.
func Normalize(bases []byte) []byte {
	out := make([]byte, len(bases))
	for i, b := range bases {
		switch {
		case IsGap(b):
			out[i] = Gap
		case b >= 'a' && b <= 'z':
			out[i] = b - ('a' - 'A')
		default:
			out[i] = b
		}
	}
	return out
}

// SameResidue compares two residues case-insensitively, treating both gap
// symbols as equal.
func SameResidue(a, b byte) bool {
	if IsGap(a) || IsGap(b) {
		return IsGap(a) && IsGap(b)
	}
	return a|0x20 == b|0x20
}
