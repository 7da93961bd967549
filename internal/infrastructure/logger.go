package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"prenomscli/internal/config"
)

// run-wide logging state, set up once per process
var (
	runLogger     *slog.Logger
	runLoggerOnce sync.Once

	logFile   *os.File
	logFileMu sync.Mutex

	consoleWriter io.Writer = os.Stdout
)

// InitializeLogger builds the JSON logger for a run and installs it as the
// slog default. Later calls return the first logger. Call CloseLogFile before
// exiting.
func InitializeLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	var err error
	runLoggerOnce.Do(func() {
		var out io.Writer
		out, err = logOutput(cfg)
		if err != nil {
			return
		}
		handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
			AddSource: true,
			Level:     parseLogLevel(cfg.Level),
		})
		runLogger = slog.New(&traceHandler{Handler: handler})
		slog.SetDefault(runLogger)
	})
	return runLogger, err
}

// logOutput resolves the "console", "file" or "both" destination.
// Anything else logs to the console.
func logOutput(cfg config.LoggingConfig) (io.Writer, error) {
	output := strings.ToLower(cfg.Output)
	if output != "file" && output != "both" {
		return consoleWriter, nil
	}

	dir := filepath.Dir(cfg.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}
	file, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", cfg.FilePath, err)
	}

	logFileMu.Lock()
	logFile = file
	logFileMu.Unlock()

	if output == "file" {
		return file, nil
	}
	return io.MultiWriter(consoleWriter, file), nil
}

// traceHandler stamps every record with the run's trace_id
type traceHandler struct {
	slog.Handler
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if traceID := GetTraceID(ctx); traceID != "" {
		r.AddAttrs(slog.String("trace_id", traceID))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithGroup(name)}
}

// parseLogLevel maps a configured level name; unknown names mean info
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// CloseLogFile flushes and closes the run's log file, if one is open
func CloseLogFile() error {
	logFileMu.Lock()
	defer logFileMu.Unlock()

	if logFile == nil {
		return nil
	}
	_ = logFile.Sync()
	err := logFile.Close()
	logFile = nil
	return err
}

// ResetLoggerForTesting closes the log file and allows InitializeLogger to
// run again with the console on stdout.
func ResetLoggerForTesting() {
	CloseLogFile()
	runLogger = nil
	runLoggerOnce = sync.Once{}
	consoleWriter = os.Stdout
}

// SetConsoleWriterForTesting captures console output. Call it before
// InitializeLogger.
func SetConsoleWriterForTesting(w io.Writer) {
	consoleWriter = w
}
