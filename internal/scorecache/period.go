package scorecache

import (
	"time"

	"github.com/wonny/astro/internal/contracts"
)

// SamePeriod reports whether a and b fall in the same calendar period of h:
// same day, same ISO week and year, same month and year, or same year
func SamePeriod(h contracts.Horizon, a, b time.Time) bool {
	if !h.Valid() {
		return false
	}
	return h.PeriodKey(a) == h.PeriodKey(b)
}
