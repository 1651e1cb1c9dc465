package ace

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manyContigs renders n single-read contigs.
func manyContigs(n int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "AS %d %d\n\n", n, n)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "CO c%d 8 1 0 U\nACGTACGT\n\nAF r%d U 1\n\nRD r%d 8 0 0\nACGTACGT\n\nQA 1 8 1 8\nDS CHROMAT_FILE: r%d\n\n", i, i, i, i)
	}
	return b.String()
}

func TestStreamYieldsInOrder(t *testing.T) {
	it := Stream(context.Background(), strings.NewReader(sampleACE), StreamOptions{})
	defer it.Close()
	var ids []string
	for it.Next() {
		ids = append(ids, it.Contig().ID())
	}
	require.NoError(t, it.Err())
	assert.Equal(t, []string{"Contig1", "Contig2"}, ids)
	assert.False(t, it.Next())
}

func TestStreamCloseStopsProducer(t *testing.T) {
	it := Stream(context.Background(), strings.NewReader(manyContigs(500)), StreamOptions{QueueSize: 1})
	require.True(t, it.Next())
	assert.Equal(t, "c0", it.Contig().ID())

	require.NoError(t, it.Close())
	assert.False(t, it.Next())
	assert.NoError(t, it.Err())
	require.NoError(t, it.Close())
}

func TestStreamReportsFormatError(t *testing.T) {
	in := manyContigs(2) + "CO broken x 0 0 U\n"
	it := Stream(context.Background(), strings.NewReader(in), StreamOptions{})
	defer it.Close()
	n := 0
	for it.Next() {
		n++
	}
	// the malformed header fails before c1 is closed
	assert.Equal(t, 1, n)
	var fe *FormatError
	assert.ErrorAs(t, it.Err(), &fe)
}

func TestStreamParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	it := Stream(ctx, strings.NewReader(manyContigs(500)), StreamOptions{QueueSize: 1})
	require.True(t, it.Next())
	cancel()
	for it.Next() {
	}
	assert.ErrorIs(t, it.Err(), context.Canceled)
	_ = it.Close()
}

func TestStreamWantFilters(t *testing.T) {
	want := func(id string) bool { return id == "c3" || id == "c7" }
	it := Stream(context.Background(), strings.NewReader(manyContigs(10)), StreamOptions{Want: want})
	defer it.Close()
	var ids []string
	for it.Next() {
		ids = append(ids, it.Contig().ID())
	}
	require.NoError(t, it.Err())
	assert.Equal(t, []string{"c3", "c7"}, ids)
}
