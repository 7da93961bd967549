package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"prenomscli/internal/config"
	"prenomscli/internal/dataprocessing"
	"prenomscli/internal/errors"
	"prenomscli/internal/exporter"
	"prenomscli/internal/infrastructure"
	"prenomscli/pkg/contracts/domain"
)

// Ranking labels and heading subjects
const (
	labelYear   = "Prénom %s"
	labelFemale = "Prénom Fille"
	labelMale   = "Prénom Garçon"

	subjectYear   = "en %s"
	subjectFemale = "filles en %s"
	subjectMale   = "garçons en %s"
)

// App runs the name statistics pipeline once
type App struct {
	cfg      *config.Config
	paths    *config.Paths
	logger   *slog.Logger
	loader   *dataprocessing.Loader
	exporter *exporter.DatasetExporter
	workbook *exporter.WorkbookExporter
	out      io.Writer
	tracer   trace.Tracer
	metrics  *infrastructure.PipelineMetrics
}

// Option customizes an App
type Option func(*App)

// WithReportWriter sets where ranking lines are printed (stdout by default)
func WithReportWriter(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// WithTracer sets the tracer used for pipeline spans
func WithTracer(t trace.Tracer) Option {
	return func(a *App) { a.tracer = t }
}

// WithMetrics sets the instruments recorded during the run
func WithMetrics(m *infrastructure.PipelineMetrics) Option {
	return func(a *App) { a.metrics = m }
}

// WithLoader replaces the default loader
func WithLoader(l *dataprocessing.Loader) Option {
	return func(a *App) { a.loader = l }
}

// New creates the pipeline for cfg and its resolved paths
func New(cfg *config.Config, paths *config.Paths, logger *slog.Logger, opts ...Option) *App {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		cfg:      cfg,
		paths:    paths,
		logger:   logger,
		loader:   dataprocessing.NewLoader(logger),
		exporter: exporter.NewDatasetExporter(cfg.Output, paths, logger),
		workbook: exporter.NewWorkbookExporter(logger),
		out:      os.Stdout,
		tracer:   otel.Tracer("prenomscli/app"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run executes the pipeline. Only load failures and unexpected errors are
// returned; export and reporting failures are logged and recorded in the
// summary.
func (a *App) Run(ctx context.Context) (summary *RunSummary, err error) {
	start := time.Now()
	summary = &RunSummary{}

	ctx, span := a.tracer.Start(ctx, "app.Run")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err = errors.NewUnexpectedError(fmt.Sprintf("unexpected error: %v", r), nil)
			a.logger.ErrorContext(ctx, "Unexpected error",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
		}
		summary.Duration = time.Since(start)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return
		}
		a.logger.InfoContext(ctx, "Processing completed",
			slog.Int("records", summary.MergedRecords),
			slog.Int("export_failures", summary.ExportFailures()),
			slog.Duration("duration", summary.Duration))
	}()

	a.logger.InfoContext(ctx, "Processing started",
		slog.String("first_input", a.paths.FirstInput),
		slog.String("second_input", a.paths.SecondInput),
		slog.Int("top_n", a.cfg.Report.TopN))

	// 1. load both years, any failure is fatal
	first, err := a.load(ctx, a.paths.FirstInput, a.cfg.Input.FirstLabel)
	if err != nil {
		return summary, err
	}
	second, err := a.load(ctx, a.paths.SecondInput, a.cfg.Input.SecondLabel)
	if err != nil {
		return summary, err
	}
	summary.FirstRecords = first.Len()
	summary.SecondRecords = second.Len()

	// 2. merge
	merged := domain.Merge(a.cfg.Report.MergedLabel, first, second)
	summary.MergedRecords = merged.Len()
	a.logger.InfoContext(ctx, "Datasets merged",
		slog.String("label", merged.Label),
		slog.Int("records", merged.Len()),
		slog.Int64("total_count", dataprocessing.TotalCount(merged.Records)))

	// 3. merged export
	a.export(ctx, summary, "merged", a.paths.MergedCSV, func(ctx context.Context) error {
		return a.exporter.ExportDataset(ctx, merged, a.paths.MergedCSV)
	})

	// 4. yearly rankings
	for _, ds := range []*domain.Dataset{first, second} {
		a.report(ctx, summary, "year_"+ds.Label,
			fmt.Sprintf(subjectYear, ds.Label), fmt.Sprintf(labelYear, ds.Label), ds.Records)
	}

	// 5. rankings by sex over both years
	a.report(ctx, summary, "female", fmt.Sprintf(subjectFemale, merged.Label), labelFemale,
		dataprocessing.FilterBySex(merged.Records, domain.SexFemale))
	a.report(ctx, summary, "male", fmt.Sprintf(subjectMale, merged.Label), labelMale,
		dataprocessing.FilterBySex(merged.Records, domain.SexMale))

	// 6. grouped export
	a.export(ctx, summary, "grouped", a.paths.GroupedCSV, func(ctx context.Context) error {
		return a.exporter.ExportTotals(ctx, dataprocessing.GroupTable(merged.Records), a.paths.GroupedCSV)
	})

	// 7. optional workbook
	if a.paths.WorkbookXLS != "" {
		a.export(ctx, summary, "workbook", a.paths.WorkbookXLS, func(ctx context.Context) error {
			return a.workbook.ExportRankings(ctx, a.paths.WorkbookXLS, summary.sheets())
		})
	}

	return summary, nil
}

func (a *App) load(ctx context.Context, path, label string) (*domain.Dataset, error) {
	start := time.Now()
	defer a.metrics.ObserveStage(ctx, "load", start)

	a.logger.InfoContext(ctx, "Loading file",
		slog.String("file", path),
		slog.String("label", label))

	ds, err := a.loader.Load(ctx, path, dataprocessing.LoadOptions{
		Delimiter: a.cfg.InputDelimiter(),
		Encoding:  a.cfg.Input.Encoding,
		Label:     label,
	})
	if err != nil {
		return nil, err
	}

	a.metrics.RecordLoad(ctx, label, ds.Len(), ds.UnmappedSex)
	return ds, nil
}

// export runs one export step. Failures never stop the run.
func (a *App) export(ctx context.Context, summary *RunSummary, stage, path string, fn func(context.Context) error) {
	start := time.Now()
	defer a.metrics.ObserveStage(ctx, "export_"+stage, start)

	err := a.guard(ctx, "export_"+stage, fn)
	summary.Exports = append(summary.Exports, ExportOutcome{Name: stage, Path: path, Err: err})
	a.metrics.RecordExport(ctx, path, err)

	if err != nil {
		a.logger.ErrorContext(ctx, "Export failed",
			slog.String("file", path),
			slog.String("error_type", string(errors.TypeOf(err))),
			slog.Bool("permission_denied", errors.IsPermission(err)),
			slog.String("error", err.Error()))
		return
	}
	a.logger.InfoContext(ctx, "Successfully exported", slog.String("file", path))
}

// report prints the top names of records under a heading
func (a *App) report(ctx context.Context, summary *RunSummary, stage, subject, label string, records []domain.Record) {
	start := time.Now()
	defer a.metrics.ObserveStage(ctx, "report_"+stage, start)

	var ranked []domain.NameTotal
	err := a.guard(ctx, "report_"+stage, func(ctx context.Context) error {
		ranked = dataprocessing.TopN(records, a.cfg.Report.TopN)

		a.logger.InfoContext(ctx, dataprocessing.RankingHeading(a.cfg.Report.TopN, subject))
		for _, line := range dataprocessing.FormatRanking(ranked, label) {
			if _, err := fmt.Fprintln(a.out, line); err != nil {
				return fmt.Errorf("failed to print ranking: %w", err)
			}
		}
		return nil
	})

	summary.Rankings = append(summary.Rankings, RankingOutcome{
		Name:   stage,
		Label:  label,
		Ranked: ranked,
		Err:    err,
	})
	if err != nil {
		a.logger.ErrorContext(ctx, "Error processing ranking",
			slog.String("ranking", label),
			slog.String("error", err.Error()))
	}
}

// guard runs fn in its own span and turns a panic into an UNEXPECTED error
func (a *App) guard(ctx context.Context, name string, fn func(context.Context) error) (err error) {
	ctx, span := a.tracer.Start(ctx, "app."+name, trace.WithAttributes(attribute.String("stage", name)))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err = errors.NewUnexpectedError(fmt.Sprintf("%s: %v", name, r), nil)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	return fn(ctx)
}
