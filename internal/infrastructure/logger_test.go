package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"prenomscli/internal/config"
)

func TestInitializeLogger(t *testing.T) {
	// Reset logger state before test
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	var console bytes.Buffer
	SetConsoleWriterForTesting(&console)

	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "logs", "test.log")

	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "both",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	if logger == nil {
		t.Fatal("Logger is nil")
	}

	// Test that log file was created, including its directory
	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}

	logger.Info("test message", "key", "value")

	CloseLogFile()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	var logEntry map[string]interface{}
	if err := json.Unmarshal(content, &logEntry); err != nil {
		t.Errorf("Log output is not valid JSON: %v", err)
	}

	if logEntry["msg"] != "test message" {
		t.Errorf("Expected msg='test message', got %v", logEntry["msg"])
	}
	if logEntry["key"] != "value" {
		t.Errorf("Expected key='value', got %v", logEntry["key"])
	}
	if logEntry["level"] != "INFO" {
		t.Errorf("Expected level='INFO', got %v", logEntry["level"])
	}
	if _, ok := logEntry["time"]; !ok {
		t.Error("Expected a timestamp in the log entry")
	}

	// Same line must have reached the console
	if !strings.Contains(console.String(), `"msg":"test message"`) {
		t.Errorf("Expected console output to contain the message, got %q", console.String())
	}
}

func TestInitializeLogger_FileOnly(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	var console bytes.Buffer
	SetConsoleWriterForTesting(&console)

	logFile := filepath.Join(t.TempDir(), "file-only.log")
	logger, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "file", FilePath: logFile})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logger.Info("only in file")
	CloseLogFile()

	if console.Len() != 0 {
		t.Errorf("Expected no console output, got %q", console.String())
	}
	content, _ := os.ReadFile(logFile)
	if !strings.Contains(string(content), "only in file") {
		t.Error("Expected message in log file")
	}
}

func TestInitializeLogger_UnwritableFile(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	// a directory cannot be opened as the log file
	dir := t.TempDir()
	_, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "both", FilePath: dir})
	if err == nil {
		t.Fatal("Expected an error when the log path is a directory")
	}
}

func TestTraceIDInjection(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	SetConsoleWriterForTesting(&bytes.Buffer{})

	logFile := filepath.Join(t.TempDir(), "test.log")
	cfg := config.LoggingConfig{
		Level:    "debug",
		Format:   "json",
		Output:   "both",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	ctx := WithTraceID(context.Background(), "test-trace-123")
	logger.InfoContext(ctx, "test with trace")

	CloseLogFile()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	var logEntry map[string]interface{}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	lastLine := lines[len(lines)-1]

	if err := json.Unmarshal([]byte(lastLine), &logEntry); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}

	if logEntry["trace_id"] != "test-trace-123" {
		t.Errorf("Expected trace_id='test-trace-123', got %v", logEntry["trace_id"])
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"error", "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			ResetLoggerForTesting()
			defer ResetLoggerForTesting()

			SetConsoleWriterForTesting(&bytes.Buffer{})

			logFile := filepath.Join(t.TempDir(), "test.log")
			logger, err := InitializeLogger(config.LoggingConfig{
				Level:    tt.level,
				Format:   "json",
				Output:   "both",
				FilePath: logFile,
			})
			if err != nil {
				t.Fatalf("Failed to initialize logger: %v", err)
			}

			switch tt.level {
			case "debug":
				logger.Debug("test debug")
			case "info":
				logger.Info("test info")
			case "warn":
				logger.Warn("test warn")
			case "error":
				logger.Error("test error")
			}

			CloseLogFile()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("Failed to read log file: %v", err)
			}

			var logEntry map[string]interface{}
			if err := json.Unmarshal(content, &logEntry); err != nil {
				t.Fatalf("Failed to parse log JSON: %v", err)
			}

			if logEntry["level"] != tt.expected {
				t.Errorf("Expected level=%s, got %v", tt.expected, logEntry["level"])
			}
		})
	}
}

func TestEnsureTraceID(t *testing.T) {
	ctx := EnsureTraceID(context.Background())
	traceID := GetTraceID(ctx)
	if traceID == "" {
		t.Fatal("Expected trace ID to be generated")
	}

	if GetTraceID(EnsureTraceID(ctx)) != traceID {
		t.Error("EnsureTraceID changed existing trace ID")
	}
	if got := GetTraceID(EnsureTraceID(WithTraceID(context.Background(), "given-id"))); got != "given-id" {
		t.Errorf("Expected given-id, got %q", got)
	}

	if GetTraceID(EnsureTraceID(context.Background())) == traceID {
		t.Error("Expected a fresh trace ID per run")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for name, want := range tests {
		if got := parseLogLevel(name); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestInitializeLogger_ConsoleOnly(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	var console bytes.Buffer
	SetConsoleWriterForTesting(&console)

	logFile := filepath.Join(t.TempDir(), "unused.log")
	logger, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "console", FilePath: logFile})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.Info("console only")

	if !strings.Contains(console.String(), "console only") {
		t.Errorf("Expected console output, got %q", console.String())
	}
	if _, err := os.Stat(logFile); !os.IsNotExist(err) {
		t.Error("Expected no log file for console output")
	}
	if slog.Default() != logger {
		t.Error("Expected the run logger to become the slog default")
	}
}
