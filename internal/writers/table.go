// internal/writers/table.go
package writers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/grailbio/base/tsv"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))

// column is one field of a tabular report. Numeric columns set num so the
// TSV writer can emit them without formatting through a string.
type column[T any] struct {
	name string
	str  func(T) string
	num  func(T) int64
}

func (c column[T]) text(v T) string {
	if c.num != nil {
		return strconv.FormatInt(c.num(v), 10)
	}
	return c.str(v)
}

// table registers text, tsv and json handlers for a row type.
func table[T any](reg *Registry[T], cols []column[T]) {
	reg.Register("text", func(w io.Writer, rows []T) error { return writeText(w, cols, rows) })
	reg.Register("tsv", func(w io.Writer, rows []T) error { return writeTSV(w, cols, rows) })
	reg.Register("json", func(w io.Writer, rows []T) error {
		if rows == nil {
			rows = []T{}
		}
		return encodePretty(w, rows)
	})
}

// writeText aligns columns and styles the header line. Styling happens after
// alignment so escape codes do not disturb column widths.
func writeText[T any](w io.Writer, cols []column[T], rows []T) error {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	fmt.Fprintln(tw, strings.Join(names, "\t"))
	cells := make([]string, len(cols))
	for _, r := range rows {
		for i, c := range cols {
			cells[i] = c.text(r)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	header, body, _ := strings.Cut(buf.String(), "\n")
	if _, err := io.WriteString(w, headerStyle.Render(strings.TrimRight(header, " "))+"\n"); err != nil {
		return err
	}
	_, err := io.WriteString(w, body)
	return err
}

func writeTSV[T any](w io.Writer, cols []column[T], rows []T) error {
	out := tsv.NewWriter(w)
	for _, c := range cols {
		out.WriteString(c.name)
	}
	if err := out.EndLine(); err != nil {
		return err
	}
	for _, r := range rows {
		for _, c := range cols {
			if c.num != nil {
				out.WriteInt64(c.num(r))
			} else {
				out.WriteString(c.str(r))
			}
		}
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}

func encodePretty(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
