// Package logger is the process-wide log used by every ragdesk package.
// Errors are always written; Debug, Info, Warn and Section only with
// --verbose. Records go through log/slog with a text handler and no
// timestamps.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// quietLevel hides everything below Error.
const quietLevel = slog.LevelError

var (
	level = new(slog.LevelVar)

	mu   sync.RWMutex
	out  io.Writer = os.Stderr
	base           = build(os.Stderr)
)

func init() {
	level.Set(quietLevel)
}

func build(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// SetVerbose switches between all levels and errors only.
func SetVerbose(v bool) {
	if v {
		level.Set(slog.LevelDebug)
		return
	}
	level.Set(quietLevel)
}

// IsVerbose reports whether debug output is on.
func IsVerbose() bool {
	return level.Level() <= slog.LevelDebug
}

// SetOutput redirects the log, for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	base = build(w)
}

// Slog returns the logger behind this package, for code that takes a
// *slog.Logger. It honours the verbose setting.
func Slog() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

func logf(lvl slog.Level, format string, args []any) {
	ctx := context.Background()
	l := Slog()
	if !l.Enabled(ctx, lvl) {
		return
	}
	l.Log(ctx, lvl, fmt.Sprintf(format, args...))
}

func Debug(format string, args ...any) { logf(slog.LevelDebug, format, args) }
func Info(format string, args ...any)  { logf(slog.LevelInfo, format, args) }
func Warn(format string, args ...any)  { logf(slog.LevelWarn, format, args) }
func Error(format string, args ...any) { logf(slog.LevelError, format, args) }

// Section prints a "=== name ===" banner in verbose mode, separating the
// steps of one ingest or question.
func Section(name string) {
	if !IsVerbose() {
		return
	}
	mu.RLock()
	defer mu.RUnlock()
	fmt.Fprintf(out, "\n=== %s ===\n", name)
}
