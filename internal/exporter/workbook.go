package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"prenomscli/internal/errors"
	"prenomscli/pkg/contracts/domain"
)

// maxSheetName is the longest sheet name Excel accepts
const maxSheetName = 31

// WorkbookHeaders are the columns of every ranking sheet
var WorkbookHeaders = []string{"Rang", domain.ColumnName, domain.ColumnCount}

// RankingSheet is one ranking written to its own sheet
type RankingSheet struct {
	Name   string
	Ranked []domain.NameTotal
}

// WorkbookExporter writes rankings to an XLSX workbook
type WorkbookExporter struct {
	logger *slog.Logger
	tracer trace.Tracer
}

// NewWorkbookExporter creates a new workbook exporter
func NewWorkbookExporter(logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{
		logger: logger.With(slog.String("component", "workbook")),
		tracer: otel.Tracer("prenomscli/exporter"),
	}
}

// ExportRankings writes one sheet per ranking, in order. An existing file at
// path is replaced. Failures are EXPORT errors.
func (w *WorkbookExporter) ExportRankings(ctx context.Context, path string, sheets []RankingSheet) error {
	_, span := w.tracer.Start(ctx, "exporter.ExportRankings",
		trace.WithAttributes(
			attribute.String("path", path),
			attribute.Int("sheets", len(sheets)),
		))
	defer span.End()

	err := w.export(path, sheets)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return errors.NewExportError(path, err)
	}

	w.logger.InfoContext(ctx, "Workbook written",
		slog.String("path", path),
		slog.Int("sheets", len(sheets)))
	return nil
}

func (w *WorkbookExporter) export(path string, sheets []RankingSheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no rankings to write")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	used := make(map[string]bool, len(sheets))
	for i, sheet := range sheets {
		name := uniqueSheetName(sheetName(sheet.Name, i), used)

		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", name, err)
		}

		if err := writeRanking(f, name, sheet.Ranked); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeRanking(f *excelize.File, sheet string, ranked []domain.NameTotal) error {
	header := make([]interface{}, len(WorkbookHeaders))
	for i, h := range WorkbookHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %q: %w", sheet, err)
	}

	for i, nt := range ranked {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{i + 1, nt.Name, nt.Total}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %q: %w", i+1, sheet, err)
		}
	}
	return nil
}

// sheetName strips characters Excel rejects and truncates to its limit
func sheetName(name string, index int) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
	name = strings.Trim(name, "'")

	if name == "" {
		name = fmt.Sprintf("Sheet%d", index+1)
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}

// uniqueSheetName suffixes name until it is not already used
func uniqueSheetName(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		r := []rune(name)
		if len(r)+len([]rune(suffix)) > maxSheetName {
			r = r[:maxSheetName-len([]rune(suffix))]
		}
		candidate = string(r) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}
