package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/tailorhq/github-tailor/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected slog.Level
	}{
		{"debug level", "debug", slog.LevelDebug},
		{"info level", "info", slog.LevelInfo},
		{"warn level", "warn", slog.LevelWarn},
		{"error level", "error", slog.LevelError},
		{"default level", "invalid", slog.LevelInfo},
		{"empty level", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLevel(tt.level)
			if got != tt.expected {
				t.Errorf("ParseLevel(%s) = %v, want %v", tt.level, got, tt.expected)
			}
		})
	}
}

func TestNewLogger_JSONFormat(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "log-*.log")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())
	tmpfile.Close()

	cfg := config.LoggingConfig{
		Level:      "info",
		Format:     "json",
		OutputFile: tmpfile.Name(),
		MaxSize:    10,
		MaxBackups: 2,
		MaxAge:     7,
	}

	logger, levelVar := NewLogger(cfg)
	if logger == nil {
		t.Fatal("NewLogger() returned nil")
	}
	if levelVar.Level() != slog.LevelInfo {
		t.Errorf("levelVar = %v, want info", levelVar.Level())
	}

	logger.Info("test message", "key", "value")

	content, err := os.ReadFile(tmpfile.Name())
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(content), `"msg":"test message"`) {
		t.Errorf("Expected JSON log format, got: %s", string(content))
	}
}

func TestNewLogger_TextFormat(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "log-*.log")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())
	tmpfile.Close()

	cfg := config.LoggingConfig{
		Level:      "debug",
		Format:     "text",
		OutputFile: tmpfile.Name(),
		MaxSize:    10,
		MaxBackups: 2,
		MaxAge:     7,
	}

	logger, _ := NewLogger(cfg)
	if logger == nil {
		t.Fatal("NewLogger() returned nil")
	}

	logger.Debug("test debug message")

	content, err := os.ReadFile(tmpfile.Name())
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(content), "test debug message") {
		t.Errorf("Expected text log format with message, got: %s", string(content))
	}
}

func TestNewLogger_RuntimeLevelChange(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "log-*.log")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())
	tmpfile.Close()

	cfg := config.LoggingConfig{
		Level:      "info",
		Format:     "json",
		OutputFile: tmpfile.Name(),
		MaxSize:    10,
	}

	logger, levelVar := NewLogger(cfg)

	logger.Debug("hidden message")
	levelVar.Set(slog.LevelDebug)
	logger.Debug("visible message")

	content, err := os.ReadFile(tmpfile.Name())
	if err != nil {
		t.Fatal(err)
	}

	if strings.Contains(string(content), "hidden message") {
		t.Error("debug message logged while level was info")
	}
	if !strings.Contains(string(content), "visible message") {
		t.Error("debug message missing after level lowered to debug")
	}
}

func TestMultiHandler(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	handler1 := slog.NewTextHandler(&buf1, &slog.HandlerOptions{Level: slog.LevelInfo})
	handler2 := slog.NewTextHandler(&buf2, &slog.HandlerOptions{Level: slog.LevelDebug})

	multiHandler := NewMultiHandler(handler1, handler2)
	if multiHandler == nil {
		t.Fatal("NewMultiHandler() returned nil")
	}

	ctx := context.Background()

	if !multiHandler.Enabled(ctx, slog.LevelInfo) {
		t.Error("multiHandler.Enabled() = false, want true for info level")
	}

	record := slog.NewRecord(time.Now(), slog.LevelInfo, "test message", 0)
	err := multiHandler.Handle(ctx, record)
	if err != nil {
		t.Errorf("multiHandler.Handle() error = %v", err)
	}

	if buf1.Len() == 0 {
		t.Error("First handler buffer is empty")
	}
	if buf2.Len() == 0 {
		t.Error("Second handler buffer is empty")
	}

	newHandler := multiHandler.WithAttrs([]slog.Attr{slog.String("key", "value")})
	if newHandler == nil {
		t.Error("multiHandler.WithAttrs() returned nil")
	}

	groupHandler := multiHandler.WithGroup("testgroup")
	if groupHandler == nil {
		t.Error("multiHandler.WithGroup() returned nil")
	}
}
