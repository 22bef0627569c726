// Package logger wraps log/slog with a colorized console handler for
// interactive terminal use. Per-row processing must never call into this
// package - it exists for startup diagnostics and fatal error reporting.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	console "github.com/ansel1/console-slog"
	"golang.org/x/term"
)

var defaultLogger = slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
	Level:   slog.LevelInfo,
	NoColor: !term.IsTerminal(int(os.Stderr.Fd())),
}))

// Init installs a console handler at the given level ("debug", "info",
// "warn", "error"). Called once from cmd/vmdatamash before any other work.
// Color is disabled automatically when stderr isn't a terminal (piped to a
// file, captured by CI) so logs stay free of escape codes there.
func Init(levelName string) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		level = slog.LevelInfo
	}
	defaultLogger = slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level:   level,
		NoColor: !term.IsTerminal(int(os.Stderr.Fd())),
	}))
	slog.SetDefault(defaultLogger)
}

// Infof logs an informational message.
func Infof(format string, args ...any) {
	defaultLogger.Log(context.Background(), slog.LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf logs a warning.
func Warnf(format string, args ...any) {
	defaultLogger.Log(context.Background(), slog.LevelWarn, fmt.Sprintf(format, args...))
}

// Errorf logs an error without terminating the process.
func Errorf(format string, args ...any) {
	defaultLogger.Log(context.Background(), slog.LevelError, fmt.Sprintf(format, args...))
}

// Fatalf logs an error and terminates the process with exit code 1.
//
// cmd/vmdatamash prefers mapping typed errors (parse/plan/numeric/shape/I-O)
// to specific exit codes over calling Fatalf directly; Fatalf remains the
// backstop for errors discovered outside that path.
func Fatalf(format string, args ...any) {
	defaultLogger.Log(context.Background(), slog.LevelError, fmt.Sprintf(format, args...))
	os.Exit(1)
}

// Panicf logs and panics; reserved for internal invariant violations that
// indicate a bug rather than bad input.
func Panicf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	defaultLogger.Log(context.Background(), slog.LevelError, msg)
	panic(msg)
}
