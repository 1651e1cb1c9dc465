package appshell

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecDefaultsToHelp(t *testing.T) {
	var got []string
	code := Exec(func(_ context.Context, argv []string, _, _ io.Writer) int {
		got = argv
		return 0
	}, nil, io.Discard, io.Discard)
	assert.Equal(t, 0, code)
	assert.Equal(t, []string{"-h"}, got)
}

func TestExecPassesCode(t *testing.T) {
	code := Exec(func(context.Context, []string, io.Writer, io.Writer) int { return 2 }, []string{"stats"}, io.Discard, io.Discard)
	assert.Equal(t, 2, code)
}
