// core/assembly/tiling.go
package assembly

import (
	"sort"

	"github.com/pkg/errors"

	"acekit/core/seq"
)

// BaseSegment assigns a gapped consensus range to the read whose bases are
// authoritative there.
type BaseSegment struct {
	ReadID string
	Range  seq.Range
}

// BestSegments tiles the consensus with reads that agree with it. At each
// column the choice is, in order: the read chosen for the previous column,
// the most recently chosen earlier read, the leftmost-starting read, the
// smallest read id. Only covering reads whose base matches the consensus
// are eligible.
func BestSegments(c *Contig) ([]BaseSegment, error) {
	cons := c.Consensus()
	n := cons.Len()
	if n == 0 {
		return nil, nil
	}

	reads := c.Reads()
	sort.SliceStable(reads, func(i, j int) bool {
		if reads[i].Offset() != reads[j].Offset() {
			return reads[i].Offset() < reads[j].Offset()
		}
		return reads[i].ID() < reads[j].ID()
	})

	var (
		covering   []*AssembledRead
		next       int
		current    *AssembledRead
		lastActive = make(map[string]int, len(reads))
		segs       []BaseSegment
	)
	for col := 0; col < n; col++ {
		for next < len(reads) && reads[next].Offset() <= col {
			covering = append(covering, reads[next])
			next++
		}
		kept := covering[:0]
		for _, r := range covering {
			if r.End() > col {
				kept = append(kept, r)
			}
		}
		covering = kept

		want := cons.At(col)
		agrees := func(r *AssembledRead) bool { return seq.SameResidue(r.BaseAt(col), want) }

		var pick *AssembledRead
		if current != nil && current.Covers(col) && agrees(current) {
			pick = current
		} else {
			recent := -1
			for _, r := range covering {
				if t, ok := lastActive[r.ID()]; ok && t > recent && agrees(r) {
					pick, recent = r, t
				}
			}
			if pick == nil {
				for _, r := range covering {
					if agrees(r) {
						pick = r
						break
					}
				}
			}
		}
		if pick == nil {
			return nil, errors.Wrapf(ErrNoTilingMatch, "contig %s column %d (%c)", c.ID(), col, want)
		}
		lastActive[pick.ID()] = col

		if pick == current {
			segs[len(segs)-1].Range.End = col + 1
			continue
		}
		current = pick
		segs = append(segs, BaseSegment{ReadID: pick.ID(), Range: seq.Range{Begin: col, End: col + 1}})
	}
	return segs, nil
}

// CheckTiling verifies that segs are contiguous, non-overlapping and cover
// exactly [0, length).
func CheckTiling(segs []BaseSegment, length int) error {
	pos := 0
	for i, s := range segs {
		if s.Range.Begin != pos || s.Range.Empty() {
			return errors.Errorf("segment %d %v for %s does not continue at %d", i, s.Range, s.ReadID, pos)
		}
		pos = s.Range.End
	}
	if pos != length {
		return errors.Errorf("tiling ends at %d, consensus length %d", pos, length)
	}
	return nil
}
