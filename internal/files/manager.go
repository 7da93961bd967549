package files

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"prenomscli/internal/errors"
)

// Manager provides the file operations of the loader
type Manager struct {
	logger *slog.Logger
}

// NewManager creates a new file manager instance
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{logger: logger}
}

// FileExists checks if a regular file exists at the given path
func (m *Manager) FileExists(path string) bool {
	info, err := os.Stat(path)
	exists := err == nil && !info.IsDir()

	m.logger.Debug("FileExists check",
		slog.String("path", path),
		slog.Bool("exists", exists))

	return exists
}

// EnsureExists returns a NOT_FOUND error when path is missing or is a directory
func (m *Manager) EnsureExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return errors.NewNotFoundError(path, err)
		}
		return errors.NewUnexpectedError(fmt.Sprintf("failed to stat %s", path), err).
			WithContext(errors.ContextFile, path)
	}
	if info.IsDir() {
		return errors.NewNotFoundError(path, fmt.Errorf("%s is a directory", path))
	}
	return nil
}

// ReadText reads the whole file and decodes it to UTF-8.
// The file is closed before returning.
func (m *Manager) ReadText(path, encodingName string) ([]byte, error) {
	if err := m.EnsureExists(path); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewNotFoundError(path, err)
		}
		return nil, errors.NewUnexpectedError(fmt.Sprintf("failed to open %s", path), err).
			WithContext(errors.ContextFile, path)
	}
	defer file.Close()

	if _, err := LookupEncoding(encodingName); err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("cannot decode %s", path), err).
			WithContext(errors.ContextFile, path)
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.NewUnexpectedError(fmt.Sprintf("failed to read %s", path), err).
			WithContext(errors.ContextFile, path)
	}

	// invalid UTF-8 is an error, never replaced with U+FFFD
	if IsUTF8(encodingName) {
		if offset := InvalidUTF8Offset(raw); offset >= 0 {
			return nil, errors.NewParsingError(
				fmt.Sprintf("invalid UTF-8 in %s at byte %d", path, offset), nil).
				WithContext(errors.ContextFile, path)
		}
	}

	reader, err := NewDecodingReader(bytes.NewReader(raw), encodingName)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("cannot decode %s", path), err).
			WithContext(errors.ContextFile, path)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("error decoding %s as %s", path, encodingName), err).
			WithContext(errors.ContextFile, path)
	}

	m.logger.Debug("Read input file",
		slog.String("file", filepath.Base(path)),
		slog.Int("bytes", len(data)))

	return data, nil
}

// FirstLine returns the first line of data without its line terminator
func FirstLine(data []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text())
	}
	return ""
}

// IsBlank reports whether data holds nothing but whitespace
func IsBlank(data []byte) bool {
	return len(bytes.TrimSpace(data)) == 0
}
