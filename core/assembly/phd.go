package assembly

import "time"

// PhdInfo links a read to its trace and quality record. It is carried for
// correlation only and never affects coordinates.
type PhdInfo struct {
	TraceName string
	PhdName   string
	Date      time.Time
}

// Equal compares field-wise, using time.Time.Equal for the date.
func (p PhdInfo) Equal(o PhdInfo) bool {
	return p.TraceName == o.TraceName && p.PhdName == o.PhdName && p.Date.Equal(o.Date)
}
