package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]slog.Level{
		"trace": LevelTrace,
		"DEBUG": LevelDebug,
		"info":  LevelInfo,
		"warn":  LevelWarn,
		"error": LevelError,
		"crit":  LevelCrit,
	} {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestModuleGating(t *testing.T) {
	var buf bytes.Buffer
	prev := Root()
	defer SetDefault(prev)
	SetDefault(NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: LevelTrace})))

	EnableModule("gated")
	Trace("gated", "visible")
	DisableModule("gated")
	Trace("gated", "muted")
	Debug("gated", "muted too")

	// Info and above pass regardless of the module switch.
	Info("gated", "always")

	out := buf.String()
	assert.Contains(t, out, "visible")
	assert.NotContains(t, out, "muted")
	assert.Contains(t, out, "always")
	assert.Contains(t, out, "module=gated")
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewTextHandler(&buf, nil)).With("run", 7)
	l.Info("m", "hello", "k", "v")
	line := buf.String()
	assert.Contains(t, line, "run=7")
	assert.Contains(t, line, "k=v")
	assert.Equal(t, 1, strings.Count(line, "\n"))
}
