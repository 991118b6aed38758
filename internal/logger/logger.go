// Package logger is a slimmed descendant of gcsfuse's internal/logger:
// package-level Infof/Warnf/Errorf/Debugf helpers over log/slog, with a
// settable level and a settable output writer so tests can assert on
// emitted records without touching os.Stdout.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	level   = new(slog.LevelVar)
	handler slog.Handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger               = slog.New(handler)
)

// SetOutput redirects subsequent log records to w, matching
// gcsfuse's InitLogFile indirection used by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
}

// SetLevel adjusts the minimum level that reaches the output writer.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// Enabled reports whether l would currently be logged, letting callers
// skip formatting work on a hot path such as per-block trace logging.
func Enabled(l slog.Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return logger.Enabled(context.Background(), l)
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debugf(format string, args ...any) { current().Debug(fmt.Sprintf(format, args...)) }
func Infof(format string, args ...any)  { current().Info(fmt.Sprintf(format, args...)) }
func Warnf(format string, args ...any)  { current().Warn(fmt.Sprintf(format, args...)) }
func Errorf(format string, args ...any) { current().Error(fmt.Sprintf(format, args...)) }
