// Package dataprocessing loads yearly first-name files and computes rankings
// over them.
//
// # Loading
//
// A Loader reads a delimited file, tries each ParseStrategy in order (strict
// RFC 4180 first, then a permissive fallback) and validates the header
// against a Schema:
//
//	loader := dataprocessing.NewLoader(logger)
//	ds, err := loader.Load(ctx, "Prenoms2003.csv", dataprocessing.LoadOptions{Label: "2003"})
//
// SourceSchema reads the published files (sexe,prenom,nombre with sex coded
// 1/2). CanonicalSchema reads files written by the exporter back in.
//
// Load never exits the process. Failures are *errors.AppError values of type
// NOT_FOUND, EMPTY_INPUT, PARSING or SCHEMA.
//
// # Aggregation
//
// GroupSum, TopN, FilterBySex, GroupTable and TotalCount are pure functions
// over []domain.Record. For any records, the totals of GroupSum add up to
// TotalCount.
//
// # Reporting
//
// FormatRanking turns a ranking into printable lines:
//
//	Prénom 2003 n°1 = Marie - Occurrence = 8000
package dataprocessing
