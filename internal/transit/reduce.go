package transit

import (
	"github.com/wonny/astro/internal/contracts"
)

// UniquePairs keeps only the earliest event of each (body, point) pair so a
// slow transit cannot fill every month of a forecast. Output is date-ordered.
func UniquePairs(events []contracts.TransitEvent) []contracts.TransitEvent {
	sorted := make([]contracts.TransitEvent, len(events))
	copy(sorted, events)
	SortEvents(sorted)

	seen := make(map[contracts.PairKey]bool, len(sorted))
	result := make([]contracts.TransitEvent, 0, len(sorted))
	for _, e := range sorted {
		if seen[e.Pair()] {
			continue
		}
		seen[e.Pair()] = true
		result = append(result, e)
	}
	return result
}

type monthKey struct {
	year  int
	month int
}

// OnePerMonth keeps the most significant event of each calendar month,
// the earlier one on ties. Output is date-ordered.
func OnePerMonth(events []contracts.TransitEvent) []contracts.TransitEvent {
	best := make(map[monthKey]contracts.TransitEvent)
	for _, e := range events {
		key := monthKey{year: e.Date.Year(), month: int(e.Date.Month())}
		cur, ok := best[key]
		if !ok ||
			e.Significance > cur.Significance ||
			(e.Significance == cur.Significance && e.Date.Before(cur.Date)) {
			best[key] = e
		}
	}

	result := make([]contracts.TransitEvent, 0, len(best))
	for _, e := range best {
		result = append(result, e)
	}
	SortEvents(result)
	return result
}
