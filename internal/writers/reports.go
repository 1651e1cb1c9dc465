// internal/writers/reports.go
package writers

import (
	"strconv"

	"acekit/core/ace"
	"acekit/core/assembly"
	"acekit/core/seq"
)

// ContigSummary is one row of `acekit stats`.
type ContigSummary struct {
	ID             string   `json:"id"`
	Length         int      `json:"length"`
	UngappedLength int      `json:"ungapped_length"`
	Reads          int      `json:"reads"`
	Complemented   bool     `json:"complemented"`
	MeanQuality    *float64 `json:"mean_quality"` // nil when the contig has no BQ
}

// Summarize computes the report row for c.
func Summarize(c *assembly.Contig) ContigSummary {
	cons := c.Consensus()
	s := ContigSummary{
		ID:             c.ID(),
		Length:         cons.Len(),
		UngappedLength: cons.UngappedLen(),
		Reads:          c.NumReads(),
		Complemented:   c.Complemented(),
	}
	if q := c.ConsensusQualities(); len(q) > 0 {
		sum := 0
		for _, v := range q {
			sum += int(v)
		}
		mean := float64(sum) / float64(len(q))
		s.MeanQuality = &mean
	}
	return s
}

// TilingRow is one base segment, 1-based inclusive in gapped consensus
// coordinates as in a BS record.
type TilingRow struct {
	Contig string `json:"contig"`
	Read   string `json:"read"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

func TilingRows(contigID string, segs []assembly.BaseSegment) []TilingRow {
	rows := make([]TilingRow, len(segs))
	for i, s := range segs {
		rows[i] = TilingRow{Contig: contigID, Read: s.ReadID, Start: s.Range.Begin + 1, End: s.Range.End}
	}
	return rows
}

// IndexRow is one contig entry from the byte-range index.
type IndexRow struct {
	ID     string `json:"id"`
	Offset int64  `json:"offset"`
	Size   int64  `json:"size"`
	Bases  int    `json:"bases"`
	Reads  int    `json:"reads"`
}

func IndexRows(idx *ace.Index) []IndexRow {
	entries := idx.Entries()
	rows := make([]IndexRow, len(entries))
	for i, e := range entries {
		rows[i] = IndexRow{ID: e.ID, Offset: e.Start, Size: e.Len(), Bases: e.NumBases, Reads: e.NumReads}
	}
	return rows
}

var (
	Summaries = NewRegistry[ContigSummary]("summary")
	Tilings   = NewRegistry[TilingRow]("tiling")
	Indexes   = NewRegistry[IndexRow]("index")
)

func init() {
	table(Summaries, []column[ContigSummary]{
		{name: "contig", str: func(s ContigSummary) string { return s.ID }},
		{name: "length", num: func(s ContigSummary) int64 { return int64(s.Length) }},
		{name: "ungapped", num: func(s ContigSummary) int64 { return int64(s.UngappedLength) }},
		{name: "reads", num: func(s ContigSummary) int64 { return int64(s.Reads) }},
		{name: "strand", str: func(s ContigSummary) string {
			if s.Complemented {
				return seq.Reverse.Flag()
			}
			return seq.Forward.Flag()
		}},
		{name: "mean_qual", str: func(s ContigSummary) string {
			if s.MeanQuality == nil {
				return "NA"
			}
			return strconv.FormatFloat(*s.MeanQuality, 'f', 2, 64)
		}},
	})
	table(Tilings, []column[TilingRow]{
		{name: "contig", str: func(r TilingRow) string { return r.Contig }},
		{name: "read", str: func(r TilingRow) string { return r.Read }},
		{name: "start", num: func(r TilingRow) int64 { return int64(r.Start) }},
		{name: "end", num: func(r TilingRow) int64 { return int64(r.End) }},
	})
	table(Indexes, []column[IndexRow]{
		{name: "contig", str: func(r IndexRow) string { return r.ID }},
		{name: "offset", num: func(r IndexRow) int64 { return r.Offset }},
		{name: "size", num: func(r IndexRow) int64 { return r.Size }},
		{name: "bases", num: func(r IndexRow) int64 { return int64(r.Bases) }},
		{name: "reads", num: func(r IndexRow) int64 { return int64(r.Reads) }},
	})
}
