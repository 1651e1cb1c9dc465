package seq

// Direction is the orientation of a read relative to the consensus.
type Direction int8

const (
	Forward Direction = iota
	Reverse
)

// ParseDirection reads the ACE complement flag: "U" (uncomplemented) or "C".
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "U":
		return Forward, true
	case "C":
		return Reverse, true
	}
	return Forward, false
}

// Flag returns the ACE complement flag for d.
func (d Direction) Flag() string {
	if d == Reverse {
		return "C"
	}
	return "U"
}

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}
