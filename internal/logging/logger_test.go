package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewConsoleIncludesComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	NewComponentLogger(logger, "planner").Info("plan started", String("source", "movie.mkv"))

	line := buf.String()
	if !strings.Contains(line, "planner: plan started") {
		t.Fatalf("expected component prefix in output, got %q", line)
	}
	if !strings.Contains(line, "source=movie.mkv") {
		t.Fatalf("expected attribute rendering in output, got %q", line)
	}
}

func TestNewConsoleQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("probe", String("file", "my movie.mkv"))
	if !strings.Contains(buf.String(), `file="my movie.mkv"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info output suppressed at warn level, got %q", buf.String())
	}
	logger.Warn("shown")
	if !strings.Contains(buf.String(), "WARN shown") {
		t.Fatalf("expected warn output, got %q", buf.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if _, err := New(Options{Format: "yaml", Writer: &buf}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewJSONLowercasesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Error("boom")
	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Fatalf("expected lowercase level key, got %q", buf.String())
	}
}

func TestNoopHandlerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("expected noop logger to be disabled at every level")
	}
}
