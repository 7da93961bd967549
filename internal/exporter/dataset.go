package exporter

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"prenomscli/internal/config"
	"prenomscli/pkg/contracts/domain"
)

// DatasetHeaders are the columns of an exported dataset
var DatasetHeaders = []string{domain.ColumnSex, domain.ColumnName, domain.ColumnCount}

// TotalsHeaders are the columns of an exported per-name table
var TotalsHeaders = []string{domain.ColumnName, domain.ColumnCount}

// DatasetExporter writes datasets and grouped tables as delimited files
type DatasetExporter struct {
	csvWriter *CSVWriter
	delimiter rune
	encoding  string
	bom       bool
	tracer    trace.Tracer
}

// NewDatasetExporter creates an exporter using the output settings of cfg
func NewDatasetExporter(cfg config.OutputConfig, paths *config.Paths, logger *slog.Logger) *DatasetExporter {
	if logger == nil {
		logger = slog.Default()
	}
	delimiter := DefaultDelimiter
	if r := []rune(cfg.Delimiter); len(r) == 1 {
		delimiter = r[0]
	}
	return &DatasetExporter{
		csvWriter: NewCSVWriter(paths, logger.With(slog.String("component", "exporter"))),
		delimiter: delimiter,
		encoding:  cfg.Encoding,
		bom:       cfg.BOMPrefix,
		tracer:    otel.Tracer("prenomscli/exporter"),
	}
}

// ExportDataset writes the records of ds as Sexe;Prenom;Nombre rows
func (d *DatasetExporter) ExportDataset(ctx context.Context, ds *domain.Dataset, path string) error {
	var records []domain.Record
	if ds != nil {
		records = ds.Records
	}
	return d.export(ctx, "exporter.ExportDataset", path, DatasetHeaders, recordRows(records))
}

// ExportTotals writes a per-name table as Prenom;Nombre rows, in the given order
func (d *DatasetExporter) ExportTotals(ctx context.Context, totals []domain.NameTotal, path string) error {
	return d.export(ctx, "exporter.ExportTotals", path, TotalsHeaders, totalRows(totals))
}

func (d *DatasetExporter) export(ctx context.Context, spanName, path string, headers []string, rows [][]string) error {
	_, span := d.tracer.Start(ctx, spanName,
		trace.WithAttributes(
			attribute.String("path", path),
			attribute.Int("rows", len(rows)),
		))
	defer span.End()

	err := d.csvWriter.WriteCSV(path, WriteOptions{
		Headers:   headers,
		Records:   rows,
		Delimiter: d.delimiter,
		Encoding:  d.encoding,
		BOMPrefix: d.bom,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
