package app

import (
	"time"

	"prenomscli/internal/exporter"
	"prenomscli/pkg/contracts/domain"
)

// ExportOutcome is the result of one export step
type ExportOutcome struct {
	Name string
	Path string
	Err  error
}

// RankingOutcome is the result of one ranking step
type RankingOutcome struct {
	Name   string
	Label  string
	Ranked []domain.NameTotal
	Err    error
}

// RunSummary records what a run produced
type RunSummary struct {
	FirstRecords  int
	SecondRecords int
	MergedRecords int
	Exports       []ExportOutcome
	Rankings      []RankingOutcome
	Duration      time.Duration
}

// ExportFailures counts the exports that did not succeed
func (s *RunSummary) ExportFailures() int {
	failures := 0
	for _, e := range s.Exports {
		if e.Err != nil {
			failures++
		}
	}
	return failures
}

// Export returns the outcome of the named export step
func (s *RunSummary) Export(name string) (ExportOutcome, bool) {
	for _, e := range s.Exports {
		if e.Name == name {
			return e, true
		}
	}
	return ExportOutcome{}, false
}

// Ranking returns the outcome of the named ranking step
func (s *RunSummary) Ranking(name string) (RankingOutcome, bool) {
	for _, r := range s.Rankings {
		if r.Name == name {
			return r, true
		}
	}
	return RankingOutcome{}, false
}

// sheets converts the successful rankings into workbook sheets
func (s *RunSummary) sheets() []exporter.RankingSheet {
	sheets := make([]exporter.RankingSheet, 0, len(s.Rankings))
	for _, r := range s.Rankings {
		if r.Err != nil {
			continue
		}
		sheets = append(sheets, exporter.RankingSheet{Name: r.Label, Ranked: r.Ranked})
	}
	return sheets
}
