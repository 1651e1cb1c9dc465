package writers

import (
	"fmt"
	"io"

	"acekit/core/assembly"
)

// StreamConsensusFASTA writes one FASTA record per contig as contigs arrive.
// Gaps are dropped unless gapped is set, in which case they are kept as '-'.
func StreamConsensusFASTA(w io.Writer, in <-chan *assembly.Contig, gapped bool) error {
	for c := range in {
		if err := writeConsensusRecord(w, c, gapped); err != nil {
			drain(in)
			return err
		}
	}
	return nil
}

func writeConsensusRecord(w io.Writer, c *assembly.Contig, gapped bool) error {
	cons := c.Consensus()
	body := cons.String()
	if !gapped {
		body = string(cons.Ungapped())
	}
	_, err := fmt.Fprintf(w, ">%s len=%d reads=%d\n%s\n", c.ID(), len(body), c.NumReads(), body)
	return err
}

func drain[T any](in <-chan T) {
	for range in {
	}
}
