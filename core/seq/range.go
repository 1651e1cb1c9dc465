// core/seq/range.go
package seq

import "fmt"

// Range is a 0-based half-open interval [Begin, End).
type Range struct {
	Begin int
	End   int
}

// OfLength returns the range [begin, begin+n).
func OfLength(begin, n int) Range { return Range{Begin: begin, End: begin + n} }

// FromInclusive converts 1-based inclusive coordinates (as written in ACE
// files) into a Range.
func FromInclusive(first, last int) Range { return Range{Begin: first - 1, End: last} }

func (r Range) Len() int {
	if r.End < r.Begin {
		return 0
	}
	return r.End - r.Begin
}

func (r Range) Empty() bool { return r.End <= r.Begin }

// Last returns the 0-based inclusive end.
func (r Range) Last() int { return r.End - 1 }

func (r Range) Contains(i int) bool { return i >= r.Begin && i < r.End }

// ContainsRange reports whether o lies entirely within r.
func (r Range) ContainsRange(o Range) bool { return o.Begin >= r.Begin && o.End <= r.End }

func (r Range) Shift(delta int) Range { return Range{Begin: r.Begin + delta, End: r.End + delta} }

// Intersect returns the overlap of r and o; the result is Empty when they
// do not overlap.
func (r Range) Intersect(o Range) Range {
	out := Range{Begin: max(r.Begin, o.Begin), End: min(r.End, o.End)}
	if out.End < out.Begin {
		out.End = out.Begin
	}
	return out
}

func (r Range) String() string { return fmt.Sprintf("[%d,%d)", r.Begin, r.End) }

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
