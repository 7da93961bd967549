package exporter

import (
	"strconv"

	"prenomscli/pkg/contracts/domain"
)

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatSex writes the decoded sex; unmapped values become an empty cell
func formatSex(s domain.Sex) string {
	return string(s)
}

// recordRows converts records to Sexe, Prenom, Nombre rows
func recordRows(records []domain.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{formatSex(r.Sex), r.Name, formatInt(r.Count)})
	}
	return rows
}

// totalRows converts name totals to Prenom, Nombre rows
func totalRows(totals []domain.NameTotal) [][]string {
	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, []string{t.Name, formatInt(t.Total)})
	}
	return rows
}
