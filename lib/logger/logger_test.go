package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestInitAcceptsKnownLevels(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		Init(lvl)
	}
}

func TestInitFallsBackToInfoOnUnknownLevel(t *testing.T) {
	// UnmarshalText rejects an unrecognized level name; Init must not panic
	// and should fall back to info rather than propagating the error.
	Init("debug")
	Init("not-a-real-level")
	if defaultLogger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatalf("unknown level left debug enabled, want fallback to info")
	}
	if !defaultLogger.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("unknown level disabled info, want fallback to info")
	}
}

func TestLoggingHelpersDoNotPanic(t *testing.T) {
	Init("debug")
	Infof("hello %s", "world")
	Warnf("careful: %d", 42)
	Errorf("failed: %v", "oops")
}

func TestPanicfPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected Panicf to panic")
		}
	}()
	Panicf("invariant violated: %s", "unreachable")
}
