// core/ace/ds.go
package ace

import (
	"regexp"
	"strings"
	"time"

	"acekit/core/assembly"
)

// dsTimeLayout is the TIME stamp of a DS record, e.g.
// "Thu Mar 11 16:25:19 2004".
const dsTimeLayout = "Mon Jan _2 15:04:05 2006"

var sffTrace = regexp.MustCompile(`^sff:(.+?)\.sff:(-f:)?(.+)$`)

// parseTraceDescription reads the key/value pairs of a DS record. Keys are
// upper-case words ending in ':'; values run to the next key.
func parseTraceDescription(line string) assembly.PhdInfo {
	fields := strings.Fields(line)
	if len(fields) > 0 && fields[0] == "DS" {
		fields = fields[1:]
	}
	vals := map[string][]string{}
	var key string
	for _, f := range fields {
		if isDSKey(f) {
			key = strings.TrimSuffix(f, ":")
			vals[key] = nil
			continue
		}
		if key != "" {
			vals[key] = append(vals[key], f)
		}
	}

	var phd assembly.PhdInfo
	phd.TraceName = strings.Join(vals["CHROMAT_FILE"], " ")
	if v, ok := vals["PHD_FILE"]; ok && len(v) > 0 {
		phd.PhdName = strings.Join(v, " ")
	} else {
		phd.PhdName = derivePhdName(phd.TraceName)
	}
	if v := vals["TIME"]; len(v) > 0 {
		if t, err := time.Parse(dsTimeLayout, strings.Join(v, " ")); err == nil {
			phd.Date = t
		}
	}
	return phd
}

func isDSKey(f string) bool {
	if len(f) < 2 || f[len(f)-1] != ':' {
		return false
	}
	for i := 0; i < len(f)-1; i++ {
		c := f[i]
		if (c < 'A' || c > 'Z') && c != '_' {
			return false
		}
	}
	return true
}

// derivePhdName names the quality record of a trace when DS omits it. Reads
// taken from an sff file map to "<root>_left" for the "-f:" half of a
// paired read and "<root>_right" otherwise; any other trace is its own
// quality record.
func derivePhdName(trace string) string {
	m := sffTrace.FindStringSubmatch(trace)
	if m == nil {
		return trace
	}
	if m[2] != "" {
		return m[1] + "_left"
	}
	return m[1] + "_right"
}
