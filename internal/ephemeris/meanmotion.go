package ephemeris

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/wonny/astro/internal/aspect"
	"github.com/wonny/astro/internal/contracts"
)

// j2000 epoch (2000-01-01 12:00 TT, treated as UTC)
var j2000 = time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)

const obliquity = 23.4393 // degrees

// orbit mean heliocentric elements on a circular orbit
type orbit struct {
	l0 float64 // mean longitude at J2000, degrees
	n  float64 // mean daily motion, degrees/day
	a  float64 // semi-major axis, AU
}

var orbits = map[contracts.Body]orbit{
	contracts.Mercury: {252.2509, 4.0923344, 0.3871},
	contracts.Venus:   {181.9798, 1.6021302, 0.7233},
	contracts.Mars:    {355.4330, 0.5240208, 1.5237},
	contracts.Jupiter: {34.3515, 0.0830853, 5.2026},
	contracts.Saturn:  {50.0774, 0.0334442, 9.5549},
	contracts.Uranus:  {314.0550, 0.0117296, 19.2184},
	contracts.Neptune: {304.3487, 0.0059810, 30.1104},
	contracts.Pluto:   {238.9290, 0.0039718, 39.4821},
}

// MeanMotion is an offline provider built from J2000 mean elements and
// circular orbits. Accuracy is around a degree for the Sun and Moon and a
// few degrees for the planets; retrograde loops are reproduced. Houses are
// equal houses from an approximate ascendant.
type MeanMotion struct{}

// NewMeanMotion creates the offline provider
func NewMeanMotion() *MeanMotion {
	return &MeanMotion{}
}

// PositionOf implements contracts.EphemerisProvider
func (m *MeanMotion) PositionOf(ctx context.Context, body contracts.Body, instant time.Time) (contracts.CelestialPosition, error) {
	if err := ctx.Err(); err != nil {
		return contracts.CelestialPosition{}, err
	}
	if !body.Valid() {
		return contracts.CelestialPosition{}, fmt.Errorf("%w: unknown body %q", contracts.ErrProviderUnavailable, body)
	}

	d := daysSinceJ2000(instant)
	lon, dist := geocentric(body, d)

	// 속도: ±12시간 중앙 차분
	before, _ := geocentric(body, d-0.5)
	after, _ := geocentric(body, d+0.5)
	speed := after - before
	if speed > 180 {
		speed -= 360
	} else if speed < -180 {
		speed += 360
	}

	return contracts.CelestialPosition{
		Body:      body,
		Instant:   instant,
		Longitude: lon,
		Distance:  dist,
		Speed:     speed,
	}, nil
}

// HouseCusps implements contracts.EphemerisProvider
func (m *MeanMotion) HouseCusps(ctx context.Context, instant time.Time, latitude, longitude float64) (contracts.HouseData, error) {
	if err := ctx.Err(); err != nil {
		return contracts.HouseData{}, err
	}
	// 극지방에서는 ascendant 공식이 발산
	if math.Abs(latitude) >= 66 {
		return contracts.HouseData{}, fmt.Errorf("%w: houses undefined at latitude %v", contracts.ErrProviderUnavailable, latitude)
	}

	d := daysSinceJ2000(instant)
	lst := rad(aspect.Normalize(280.46061837 + 360.98564736629*d + longitude))
	eps := rad(obliquity)

	mc := deg(math.Atan2(math.Sin(lst), math.Cos(lst)*math.Cos(eps)))
	asc := deg(math.Atan2(math.Cos(lst), -(math.Sin(lst)*math.Cos(eps) + math.Tan(rad(latitude))*math.Sin(eps))))

	return EqualHouses(asc, mc), nil
}

// EqualHouses builds house data with cusps every 30° from the ascendant
func EqualHouses(ascendant, midheaven float64) contracts.HouseData {
	h := contracts.HouseData{
		Ascendant: aspect.Normalize(ascendant),
		Midheaven: aspect.Normalize(midheaven),
	}
	for i := range h.Cusps {
		h.Cusps[i] = aspect.Normalize(h.Ascendant + float64(i)*30)
	}
	return h
}

func geocentric(body contracts.Body, d float64) (lon, dist float64) {
	switch body {
	case contracts.Sun:
		return sunLongitude(d), 1
	case contracts.Moon:
		l := 218.316 + 13.176396*d
		mm := rad(134.963 + 13.064993*d)
		return aspect.Normalize(l + 6.289*math.Sin(mm)), 0.00257
	}

	o := orbits[body]
	lp := rad(o.l0 + o.n*d)
	le := rad(sunLongitude(d) + 180)
	x := o.a*math.Cos(lp) - math.Cos(le)
	y := o.a*math.Sin(lp) - math.Sin(le)
	return aspect.Normalize(deg(math.Atan2(y, x))), math.Hypot(x, y)
}

func sunLongitude(d float64) float64 {
	l := 280.460 + 0.9856474*d
	g := rad(357.528 + 0.9856003*d)
	return aspect.Normalize(l + 1.915*math.Sin(g) + 0.020*math.Sin(2*g))
}

func daysSinceJ2000(t time.Time) float64 {
	return t.Sub(j2000).Hours() / 24
}

func rad(d float64) float64 { return d * math.Pi / 180 }
func deg(r float64) float64 { return r * 180 / math.Pi }
