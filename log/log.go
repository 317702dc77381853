package log

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
)

// Loggable is anything that can identify itself in a log line. Most
// callers pass a Node, Transport, or KeyChain; tests may pass nil.
type Loggable interface {
	String() string
}

var minLevel atomic.Int64

var handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	Level: slog.LevelDebug - 4,
})

var logger = slog.New(handler)

// SetLevel changes the minimum level that is actually emitted.
func SetLevel(level Level) {
	minLevel.Store(int64(level))
}

func name(e Loggable) string {
	if e == nil {
		return "-"
	}
	return e.String()
}

func emit(level Level, e Loggable, msg string, args ...any) {
	if int64(level) < minLevel.Load() {
		return
	}
	all := make([]any, 0, len(args)+2)
	all = append(all, "obj", name(e))
	all = append(all, args...)
	logger.Log(nil, slog.Level(level), msg, all...)
}

func Trace(e Loggable, msg string, args ...any) { emit(LevelTrace, e, msg, args...) }
func Debug(e Loggable, msg string, args ...any) { emit(LevelDebug, e, msg, args...) }
func Info(e Loggable, msg string, args ...any)  { emit(LevelInfo, e, msg, args...) }
func Warn(e Loggable, msg string, args ...any)  { emit(LevelWarn, e, msg, args...) }
func Error(e Loggable, msg string, args ...any) { emit(LevelError, e, msg, args...) }

// Fatal logs at LevelFatal and terminates the process. It must never be
// called from inside the Node's reactor - only from top-level command
// wiring (see cmd/chat).
func Fatal(e Loggable, msg string, args ...any) {
	emit(LevelFatal, e, msg, args...)
	os.Exit(1)
}

func init() {
	if lvl := os.Getenv("NDN_LOG_LEVEL"); lvl != "" {
		if l, err := ParseLevel(lvl); err == nil {
			SetLevel(l)
		} else {
			fmt.Fprintf(os.Stderr, "log: %v\n", err)
		}
	}
}
