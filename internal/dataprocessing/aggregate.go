package dataprocessing

import (
	"sort"

	"prenomscli/pkg/contracts/domain"
)

// GroupSum sums Count per Name. The result does not depend on record order.
func GroupSum(records []domain.Record) map[string]int64 {
	totals := make(map[string]int64)
	for _, r := range records {
		totals[r.Name] += r.Count
	}
	return totals
}

// TopN returns the n names with the highest totals, highest first. Equal
// totals are ordered by name. The result never holds more than n entries.
func TopN(records []domain.Record, n int) []domain.NameTotal {
	if n <= 0 {
		return []domain.NameTotal{}
	}

	ranked := toNameTotals(GroupSum(records))
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Total != ranked[j].Total {
			return ranked[i].Total > ranked[j].Total
		}
		return ranked[i].Name < ranked[j].Name
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// FilterBySex keeps the records of the given sex, in their original order
func FilterBySex(records []domain.Record, sex domain.Sex) []domain.Record {
	filtered := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if r.Sex == sex {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// GroupTable returns the per-name totals sorted by name
func GroupTable(records []domain.Record) []domain.NameTotal {
	table := toNameTotals(GroupSum(records))
	sort.Slice(table, func(i, j int) bool {
		return table[i].Name < table[j].Name
	})
	return table
}

// TotalCount sums Count over all records
func TotalCount(records []domain.Record) int64 {
	var total int64
	for _, r := range records {
		total += r.Count
	}
	return total
}

func toNameTotals(totals map[string]int64) []domain.NameTotal {
	out := make([]domain.NameTotal, 0, len(totals))
	for name, total := range totals {
		out = append(out, domain.NameTotal{Name: name, Total: total})
	}
	return out
}
