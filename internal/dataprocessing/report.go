package dataprocessing

import (
	"fmt"

	"prenomscli/pkg/contracts/domain"
)

// FormatRanking renders one line per ranked name, numbered from 1:
//
//	Prénom 2003 n°1 = Marie - Occurrence = 8000
func FormatRanking(ranked []domain.NameTotal, label string) []string {
	lines := make([]string, 0, len(ranked))
	for i, nt := range ranked {
		lines = append(lines, fmt.Sprintf("%s n°%d = %s - Occurrence = %d", label, i+1, nt.Name, nt.Total))
	}
	return lines
}

// RankingHeading returns the section title printed above a ranking
func RankingHeading(n int, subject string) string {
	return fmt.Sprintf("Top %d prénoms %s :", n, subject)
}
