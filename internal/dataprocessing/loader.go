package dataprocessing

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"prenomscli/internal/errors"
	"prenomscli/internal/files"
	"prenomscli/pkg/contracts/domain"
)

const (
	// DeclaredDelimiter is the separator the yearly files are documented with
	DeclaredDelimiter = ';'
	// DefaultParseDelimiter is the separator the yearly files are actually parsed with
	DefaultParseDelimiter = ','
)

// LoadOptions configures a single Load call
type LoadOptions struct {
	// Delimiter is the field separator; zero means DefaultParseDelimiter
	Delimiter rune
	// Encoding is the file's text encoding; empty means utf-8
	Encoding string
	// Schema defaults to SourceSchema when its columns are unset
	Schema Schema
	// Label is attached to the dataset (the year, usually)
	Label string
}

func (o LoadOptions) withDefaults() LoadOptions {
	if o.Delimiter == 0 {
		o.Delimiter = DefaultParseDelimiter
	}
	if o.Encoding == "" {
		o.Encoding = files.DefaultEncoding
	}
	if o.Schema.SexColumn == "" && o.Schema.NameColumn == "" && o.Schema.CountColumn == "" {
		o.Schema = SourceSchema
	}
	return o
}

// Loader reads a delimited file into a validated Dataset
type Loader struct {
	logger     *slog.Logger
	files      *files.Manager
	strategies []ParseStrategy
	tracer     trace.Tracer
}

// NewLoader creates a loader. Without strategies it uses DefaultStrategies.
func NewLoader(logger *slog.Logger, strategies ...ParseStrategy) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Loader{
		logger:     logger.With(slog.String("component", "loader")),
		files:      files.NewManager(logger),
		strategies: strategies,
		tracer:     otel.Tracer("prenomscli/dataprocessing"),
	}
}

// Load reads path and returns its records. Failures are *errors.AppError
// values, usually of type NOT_FOUND, EMPTY_INPUT, PARSING or SCHEMA. Nothing
// is returned partially loaded.
func (l *Loader) Load(ctx context.Context, path string, opts LoadOptions) (*domain.Dataset, error) {
	opts = opts.withDefaults()
	name := filepath.Base(path)

	ctx, span := l.tracer.Start(ctx, "dataprocessing.Load",
		trace.WithAttributes(
			attribute.String("file", name),
			attribute.String("schema", opts.Schema.Name),
		))
	defer span.End()

	dataset, err := l.load(ctx, path, name, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		l.logFailure(ctx, path, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("rows", dataset.Len()),
		attribute.Int("unmapped_sex", dataset.UnmappedSex),
	)
	return dataset, nil
}

func (l *Loader) load(ctx context.Context, path, name string, opts LoadOptions) (*domain.Dataset, error) {
	data, err := l.files.ReadText(path, opts.Encoding)
	if err != nil {
		return nil, err
	}
	if files.IsBlank(data) {
		return nil, errors.NewEmptyInputError(path)
	}

	l.logger.InfoContext(ctx, "Raw first line",
		slog.String("file", name),
		slog.String("line", files.FirstLine(data)))

	table, err := l.parse(ctx, path, data, opts.Delimiter)
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "File parsed",
		slog.String("file", name),
		slog.String("strategy", table.Strategy),
		slog.Int("total_rows", len(table.Rows)),
		slog.Any("columns", table.Header))

	idx, missing := opts.Schema.resolve(table.Header)
	if len(missing) > 0 {
		for _, col := range missing {
			l.logger.ErrorContext(ctx, "Column is missing",
				slog.String("file", name),
				slog.String("column", col))
		}
		return nil, errors.NewSchemaError(path, missing)
	}

	records, unmapped, err := opts.Schema.convert(path, table, idx)
	if err != nil {
		return nil, err
	}

	if unmapped > 0 {
		l.logger.WarnContext(ctx, "Unmapped sex codes",
			slog.String("file", name),
			slog.String("column", opts.Schema.SexColumn),
			slog.Int("rows", unmapped))
	}

	l.logger.InfoContext(ctx, "Successfully loaded",
		slog.String("file", name),
		slog.Int("records", len(records)),
		slog.Any("columns", []string{domain.ColumnSex, domain.ColumnName, domain.ColumnCount}))

	return &domain.Dataset{
		Source:      path,
		Label:       opts.Label,
		Records:     records,
		UnmappedSex: unmapped,
	}, nil
}

// parse tries each strategy in order and returns the first table produced
func (l *Loader) parse(ctx context.Context, path string, data []byte, delimiter rune) (*Table, error) {
	var failures []error
	for i, strategy := range l.strategies {
		table, err := strategy.Parse(data, delimiter)
		if err == nil {
			return table, nil
		}

		failures = append(failures, err)
		l.logger.ErrorContext(ctx, fmt.Sprintf("Parsing attempt %d failed", i+1),
			slog.String("file", filepath.Base(path)),
			slog.String("strategy", strategy.Name()),
			slog.String("error", err.Error()))

		// a file without a header will not parse any better with another strategy
		if stderrors.Is(err, ErrNoHeader) {
			return nil, errors.NewEmptyInputError(path)
		}
	}

	cause := stderrors.Join(failures...)
	return nil, errors.NewParsingError(fmt.Sprintf("error parsing %s", path), cause).
		WithContext(errors.ContextFile, path)
}

func (l *Loader) logFailure(ctx context.Context, path string, err error) {
	msg := "Unexpected error loading file"
	switch errors.TypeOf(err) {
	case errors.ErrTypeNotFound:
		msg = "File not found"
	case errors.ErrTypeEmptyInput:
		msg = "No data in file"
	case errors.ErrTypeParsing:
		msg = "Error parsing file"
	case errors.ErrTypeSchema:
		msg = "Missing required columns"
	}
	l.logger.ErrorContext(ctx, msg,
		slog.String("file", path),
		slog.String("error_type", string(errors.TypeOf(err))),
		slog.String("error", err.Error()))
}
