package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	logger := Get()
	if logger == nil {
		t.Fatal("logger is nil after initialization")
	}
}

func TestLoggerBasic(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Format: FormatText, Writer: &buf})
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}

	l.Info(context.Background(), "test message", String("k", "v"), Int("n", 3))

	out := buf.String()
	if !strings.Contains(out, "test message") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "k=v") {
		t.Errorf("expected field in output, got %q", out)
	}
	if !strings.Contains(out, "logger_test.go") {
		t.Errorf("expected caller source in output, got %q", out)
	}
}

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Format: FormatJSON, Writer: &buf})
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}

	l.Warn(context.Background(), "json message", Error(errors.New("boom")))

	out := buf.String()
	if !strings.Contains(out, `"msg":"json message"`) {
		t.Errorf("expected json msg, got %q", out)
	}
	if !strings.Contains(out, "boom") {
		t.Errorf("expected error in output, got %q", out)
	}
}

func TestLoggerConsole(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Format: FormatConsole, Writer: &buf})
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}

	l.Named("sim").Info(context.Background(), "console message", Bool("ok", true))

	out := buf.String()
	if !strings.Contains(out, "console message") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "sim") {
		t.Errorf("expected logger name in output, got %q", out)
	}
}

func TestLoggerUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestLoggerNamed(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	namedLogger := Named("test")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}

	namedLogger.Info(context.Background(), "test message")
}

func TestSetLevelString(t *testing.T) {
	defer func() { _ = SetLevelString("info") }()

	for _, lvl := range []string{"debug", "info", "warn", "warning", "error", ""} {
		if err := SetLevelString(lvl); err != nil {
			t.Errorf("level %q: unexpected error %v", lvl, err)
		}
	}
	if err := SetLevelString("loud"); err == nil {
		t.Error("expected error for unknown level")
	}

	var buf bytes.Buffer
	l, _ := New(Options{Writer: &buf})
	_ = SetLevelString("error")
	l.Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered at error level, got %q", buf.String())
	}
}
