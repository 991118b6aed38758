package logger

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfofWritesToConfiguredOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(slog.LevelInfo)
	defer SetOutput(os.Stderr)

	Infof("hello %s", "world")

	assert.Contains(t, buf.String(), "hello world")
}

func TestDebugfSuppressedAboveDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(slog.LevelInfo)
	defer SetOutput(os.Stderr)

	Debugf("should not appear")

	assert.Empty(t, strings.TrimSpace(buf.String()))
}

func TestEnabledReflectsLevel(t *testing.T) {
	SetLevel(slog.LevelWarn)
	assert.False(t, Enabled(slog.LevelInfo))
	assert.True(t, Enabled(slog.LevelWarn))
	SetLevel(slog.LevelInfo)
}
