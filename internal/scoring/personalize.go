package scoring

import (
	"fmt"
	"hash/fnv"
	"math"
	"time"

	"github.com/wonny/astro/internal/contracts"
	"github.com/wonny/astro/internal/natal"
)

// personalRange personalization stays within ±personalRange/2
const personalRange = 11

// keyPoints natal point that personalizes each dimension
var keyPoints = map[contracts.Dimension]contracts.Point{
	contracts.DimensionOverall: contracts.BodyPoint(contracts.Sun),
	contracts.DimensionLove:    contracts.BodyPoint(contracts.Venus),
	contracts.DimensionCareer:  contracts.Midheaven,
	contracts.DimensionWealth:  contracts.BodyPoint(contracts.Jupiter),
}

// Personalization returns a reproducible term in [-5, 5] from the dimension's
// key natal longitude and the period index of date. No randomness involved.
func Personalization(chart *natal.Chart, d contracts.Dimension, h contracts.Horizon, date time.Time) int {
	lon := "none"
	if v, ok := chart.Longitude(keyPoints[d]); ok {
		lon = fmt.Sprintf("%d", int64(math.Round(v*100)))
	}

	hasher := fnv.New32a()
	fmt.Fprintf(hasher, "%s|%s|%s|%d", lon, d, h, h.PeriodIndex(date))
	return int(hasher.Sum32()%personalRange) - personalRange/2
}
