package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"prenomscli/internal/config"
	"prenomscli/internal/errors"
	"prenomscli/internal/files"
)

// DefaultDelimiter separates fields in exported files
const DefaultDelimiter = ';'

// CSVWriter writes delimited files. Relative paths are resolved against the
// configured output directory.
type CSVWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance. paths may be nil, in which
// case relative paths are used as given.
func NewCSVWriter(paths *config.Paths, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{paths: paths, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Delimiter rune   // defaults to DefaultDelimiter
	Encoding  string // defaults to utf-8
	BOMPrefix bool   // UTF-8 BOM for Excel; ignored for other encodings
}

// WriteCSV writes the header then every record to filePath, replacing any
// existing file. Rows carry no index column. All failures are EXPORT errors.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) (err error) {
	fullPath := w.resolvePath(filePath)
	if options.Delimiter == 0 {
		options.Delimiter = DefaultDelimiter
	}
	if options.Encoding == "" {
		options.Encoding = files.DefaultEncoding
	}

	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.String("encoding", options.Encoding),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return errors.NewExportError(fullPath, fmt.Errorf("failed to create directory: %w", err))
	}

	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.NewExportError(fullPath, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.NewExportError(fullPath, cerr)
		}
	}()

	if err := w.write(file, options); err != nil {
		return errors.NewExportError(fullPath, err)
	}
	return nil
}

func (w *CSVWriter) write(out io.Writer, options WriteOptions) error {
	if options.BOMPrefix && files.IsUTF8(options.Encoding) {
		if _, err := out.Write(files.UTF8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	encoded, err := files.NewEncodingWriter(out, options.Encoding)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(encoded)
	writer.Comma = options.Delimiter

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return encoded.Close()
}

func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.paths == nil {
		return filePath
	}
	return w.paths.GetOutputPath(filePath)
}
