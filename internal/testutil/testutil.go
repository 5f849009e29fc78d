package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmorganca/valord/logutil"
)

// LogWriter returns an [io.Writer] that logs each Write using t.Log.
func LogWriter(t *testing.T) io.Writer {
	return testWriter{t}
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(b []byte) (int, error) {
	w.t.Logf("%s", b)
	return len(b), nil
}

// Slogger returns a [*slog.Logger] at trace level that writes each message
// using t.Log.
func Slogger(t *testing.T) *slog.Logger {
	return logutil.NewLogger(LogWriter(t), logutil.LevelTrace)
}

// LogToTest routes the default logger to t for the rest of the test.
func LogToTest(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	slog.SetDefault(Slogger(t))
	t.Cleanup(func() { slog.SetDefault(prev) })
}

// WriteLines writes lines to name under a temporary directory and returns
// the full path.
func WriteLines(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
