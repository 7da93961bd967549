package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"prenomscli/pkg/contracts/domain"
)

func TestFormatRanking(t *testing.T) {
	ranked := []domain.NameTotal{
		{Name: "Marie", Total: 8000},
		{Name: "Jean", Total: 7500},
	}

	assert.Equal(t, []string{
		"Prénom 2003 n°1 = Marie - Occurrence = 8000",
		"Prénom 2003 n°2 = Jean - Occurrence = 7500",
	}, FormatRanking(ranked, "Prénom 2003"))

	assert.Empty(t, FormatRanking(nil, "Prénom Fille"))
}

func TestRankingHeading(t *testing.T) {
	assert.Equal(t, "Top 10 prénoms en 2003 :", RankingHeading(10, "en 2003"))
	assert.Equal(t, "Top 3 prénoms filles en 2003-2004 :", RankingHeading(3, "filles en 2003-2004"))
}
