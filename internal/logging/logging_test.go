package logging

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, log.DebugLevel, New(&buf, "DEBUG", false).GetLevel())
	assert.Equal(t, log.WarnLevel, New(&buf, "warning", false).GetLevel())
	assert.Equal(t, log.ErrorLevel, New(&buf, "debug", true).GetLevel())
	assert.Empty(t, buf.String())
}

func TestUnknownLevelWarns(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "chatty", false)
	assert.Equal(t, log.InfoLevel, l.GetLevel())
	assert.Contains(t, buf.String(), "chatty")
}
