package logutil

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceLevel(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	slog.SetDefault(NewLogger(&buf, Level(true)))
	Trace("head changed", "keys", 2)

	out := buf.String()
	assert.Contains(t, out, "level=TRACE")
	assert.Contains(t, out, "keys=2")
	assert.Contains(t, out, "source=logutil_test.go:")
}

func TestTraceDisabled(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	slog.SetDefault(NewLogger(&buf, Level(false)))
	Trace("hidden")
	slog.Info("shown")

	assert.False(t, strings.Contains(buf.String(), "hidden"))
	assert.Contains(t, buf.String(), "shown")
}
