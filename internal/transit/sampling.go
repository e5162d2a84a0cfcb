package transit

import (
	"time"

	"github.com/wonny/astro/internal/contracts"
)

const day = 24 * time.Hour

// minInterval 샘플 간격 하한
const minInterval = time.Hour

// baseIntervals by speed class: daily, weekly, monthly, quarterly
var baseIntervals = map[contracts.Body]time.Duration{
	contracts.Moon:    day,
	contracts.Sun:     7 * day,
	contracts.Mercury: 7 * day,
	contracts.Venus:   7 * day,
	contracts.Mars:    7 * day,
	contracts.Jupiter: 30 * day,
	contracts.Saturn:  30 * day,
	contracts.Uranus:  90 * day,
	contracts.Neptune: 90 * day,
	contracts.Pluto:   90 * day,
}

// maxSpeeds upper bound of |longitudinal speed|, degrees/day
var maxSpeeds = map[contracts.Body]float64{
	contracts.Moon:    15.4,
	contracts.Sun:     1.02,
	contracts.Mercury: 2.2,
	contracts.Venus:   1.26,
	contracts.Mars:    0.8,
	contracts.Jupiter: 0.25,
	contracts.Saturn:  0.13,
	contracts.Uranus:  0.07,
	contracts.Neptune: 0.04,
	contracts.Pluto:   0.04,
}

// dedupWindows minimum spacing of two events for one (body, point) pair
var dedupWindows = map[contracts.Body]time.Duration{
	contracts.Moon:    2 * day,
	contracts.Sun:     10 * day,
	contracts.Mercury: 10 * day,
	contracts.Venus:   10 * day,
	contracts.Mars:    20 * day,
	contracts.Jupiter: 60 * day,
	contracts.Saturn:  90 * day,
	contracts.Uranus:  180 * day,
	contracts.Neptune: 180 * day,
	contracts.Pluto:   180 * day,
}

// SamplingInterval returns the step used to walk body across a range.
// The speed-class interval is capped so that a window 2×orb wide cannot be
// crossed between two samples at the body's maximum speed.
func SamplingInterval(body contracts.Body, orb float64) time.Duration {
	interval, ok := baseIntervals[body]
	if !ok {
		return minInterval
	}

	speed := maxSpeeds[body]
	if speed > 0 {
		limit := time.Duration(2 * orb / speed * float64(day))
		if limit < interval {
			interval = limit
		}
	}

	if interval < minInterval {
		interval = minInterval
	}
	return interval
}

// DedupWindow returns the body's dedup window
func DedupWindow(body contracts.Body) time.Duration {
	return dedupWindows[body]
}
