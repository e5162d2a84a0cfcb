package scoring

import (
	"github.com/wonny/astro/internal/contracts"
)

// transit rule orb per horizon: short horizons read fast bodies loosely
var horizonOrbs = map[contracts.Horizon]float64{
	contracts.HorizonDay:   8,
	contracts.HorizonWeek:  6,
	contracts.HorizonMonth: 5,
	contracts.HorizonYear:  4,
}

const natalOrb = 8

var (
	sun     = contracts.BodyPoint(contracts.Sun)
	moon    = contracts.BodyPoint(contracts.Moon)
	mercury = contracts.BodyPoint(contracts.Mercury)
	venus   = contracts.BodyPoint(contracts.Venus)
	mars    = contracts.BodyPoint(contracts.Mars)
	jupiter = contracts.BodyPoint(contracts.Jupiter)
	saturn  = contracts.BodyPoint(contracts.Saturn)
	uranus  = contracts.BodyPoint(contracts.Uranus)
	neptune = contracts.BodyPoint(contracts.Neptune)
	pluto   = contracts.BodyPoint(contracts.Pluto)
	asc     = contracts.Ascendant
	mc      = contracts.Midheaven
)

type entry struct {
	from, to contracts.Point
	nature   Nature
	weight   float64
}

// natalEntries 출생 차트 내부 배치 (모든 horizon 공통)
var natalEntries = map[contracts.Dimension][]entry{
	contracts.DimensionOverall: {
		{sun, moon, Mixed, 4},
		{sun, jupiter, Benefic, 3},
		{sun, saturn, Malefic, 3},
	},
	contracts.DimensionLove: {
		{venus, mars, Mixed, 4},
		{venus, moon, Benefic, 3},
		{venus, saturn, Malefic, 3},
	},
	contracts.DimensionCareer: {
		{sun, mc, Benefic, 3},
		{saturn, mc, Mixed, 3},
		{mars, sun, Mixed, 2},
	},
	contracts.DimensionWealth: {
		{jupiter, venus, Benefic, 3},
		{saturn, jupiter, Malefic, 2},
		{jupiter, contracts.HousePoint(2), Benefic, 3},
	},
}

// transitEntries transiting body → natal point, per dimension and horizon.
// love centers on Venus/Mars to natal Venus, career on Saturn/Jupiter/Mars to
// the Sun and Midheaven, wealth on Jupiter/Saturn to Venus, Jupiter and the
// 2nd/8th cusps.
var transitEntries = map[Key][]entry{
	{contracts.DimensionOverall, contracts.HorizonDay}: {
		{moon, sun, Mixed, 6},
		{moon, moon, Mixed, 4},
		{venus, sun, Benefic, 5},
		{mars, sun, Malefic, 5},
	},
	{contracts.DimensionOverall, contracts.HorizonWeek}: {
		{sun, sun, Mixed, 5},
		{venus, moon, Benefic, 5},
		{mars, sun, Malefic, 6},
		{mercury, sun, Mixed, 3},
	},
	{contracts.DimensionOverall, contracts.HorizonMonth}: {
		{sun, moon, Mixed, 4},
		{venus, asc, Benefic, 5},
		{mars, sun, Malefic, 7},
		{jupiter, sun, Benefic, 8},
	},
	{contracts.DimensionOverall, contracts.HorizonYear}: {
		{jupiter, sun, Benefic, 10},
		{saturn, sun, Malefic, 10},
		{uranus, sun, Mixed, 6},
		{neptune, moon, Mixed, 4},
		{pluto, asc, Mixed, 6},
	},

	{contracts.DimensionLove, contracts.HorizonDay}: {
		{moon, venus, Benefic, 6},
		{venus, venus, Benefic, 6},
		{mars, venus, Mixed, 5},
	},
	{contracts.DimensionLove, contracts.HorizonWeek}: {
		{venus, venus, Benefic, 7},
		{venus, mars, Benefic, 5},
		{mars, venus, Mixed, 6},
		{saturn, venus, Malefic, 4},
	},
	{contracts.DimensionLove, contracts.HorizonMonth}: {
		{venus, venus, Benefic, 8},
		{venus, moon, Benefic, 4},
		{mars, venus, Mixed, 7},
		{jupiter, venus, Benefic, 6},
	},
	{contracts.DimensionLove, contracts.HorizonYear}: {
		{jupiter, venus, Benefic, 10},
		{jupiter, contracts.HousePoint(7), Benefic, 6},
		{saturn, venus, Malefic, 9},
		{uranus, venus, Mixed, 5},
		{neptune, venus, Mixed, 5},
	},

	{contracts.DimensionCareer, contracts.HorizonDay}: {
		{moon, mc, Mixed, 5},
		{sun, mc, Benefic, 4},
		{mars, mc, Mixed, 5},
	},
	{contracts.DimensionCareer, contracts.HorizonWeek}: {
		{sun, mc, Benefic, 6},
		{mercury, mc, Mixed, 4},
		{mars, sun, Malefic, 6},
	},
	{contracts.DimensionCareer, contracts.HorizonMonth}: {
		{mars, mc, Mixed, 7},
		{jupiter, sun, Benefic, 6},
		{saturn, mc, Malefic, 6},
	},
	{contracts.DimensionCareer, contracts.HorizonYear}: {
		{jupiter, mc, Benefic, 10},
		{saturn, sun, Malefic, 10},
		{saturn, mc, Malefic, 8},
		{jupiter, contracts.HousePoint(10), Benefic, 5},
		{pluto, mc, Mixed, 6},
	},

	{contracts.DimensionWealth, contracts.HorizonDay}: {
		{moon, jupiter, Benefic, 5},
		{moon, contracts.HousePoint(2), Mixed, 4},
		{venus, contracts.HousePoint(2), Benefic, 5},
	},
	{contracts.DimensionWealth, contracts.HorizonWeek}: {
		{sun, contracts.HousePoint(2), Benefic, 4},
		{venus, jupiter, Benefic, 6},
		{mars, contracts.HousePoint(8), Malefic, 4},
	},
	{contracts.DimensionWealth, contracts.HorizonMonth}: {
		{venus, contracts.HousePoint(2), Benefic, 6},
		{jupiter, venus, Benefic, 7},
		{saturn, jupiter, Malefic, 6},
	},
	{contracts.DimensionWealth, contracts.HorizonYear}: {
		{jupiter, contracts.HousePoint(2), Benefic, 10},
		{jupiter, contracts.HousePoint(8), Benefic, 6},
		{saturn, contracts.HousePoint(2), Malefic, 9},
		{saturn, jupiter, Malefic, 7},
		{uranus, venus, Mixed, 5},
	},
}

// DefaultRules returns the built-in rule tables
func DefaultRules() RuleSet {
	rs := make(RuleSet, len(transitEntries))
	for key, entries := range transitEntries {
		rules := make([]Rule, 0, len(entries)+len(natalEntries[key.Dimension]))
		for _, s := range entries {
			rules = append(rules, Rule{
				Name:   "transit_" + string(s.from) + "_" + string(s.to),
				Kind:   KindTransit,
				From:   s.from,
				To:     s.to,
				Nature: s.nature,
				Weight: s.weight,
				Orb:    horizonOrbs[key.Horizon],
			})
		}
		for _, s := range natalEntries[key.Dimension] {
			rules = append(rules, Rule{
				Name:   "natal_" + string(s.from) + "_" + string(s.to),
				Kind:   KindNatal,
				From:   s.from,
				To:     s.to,
				Nature: s.nature,
				Weight: s.weight,
				Orb:    natalOrb,
			})
		}
		rs[key] = rules
	}
	return rs
}
