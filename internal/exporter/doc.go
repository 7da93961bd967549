// Package exporter writes name datasets and rankings to disk.
//
// CSVWriter is the low-level writer: a header row followed by the records,
// with a configurable delimiter and encoding and no index column.
//
// DatasetExporter writes the two CSV outputs of a run:
//
//	exp := exporter.NewDatasetExporter(cfg.Output, paths, logger)
//	err := exp.ExportDataset(ctx, merged, paths.MergedCSV)          // Sexe;Prenom;Nombre
//	err = exp.ExportTotals(ctx, dataprocessing.GroupTable(recs), paths.GroupedCSV) // Prenom;Nombre
//
// WorkbookExporter writes rankings to an XLSX workbook, one sheet each.
//
// Every failure is returned as an EXPORT *errors.AppError; callers decide
// whether to continue.
package exporter
