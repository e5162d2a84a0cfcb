package natal

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/astro/internal/aspect"
	"github.com/wonny/astro/internal/contracts"
)

// BirthData birth instant and location
type BirthData struct {
	Instant   time.Time `json:"instant"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
}

// Validate checks the coordinates are on the globe
func (b BirthData) Validate() error {
	if b.Instant.IsZero() {
		return fmt.Errorf("%w: birth instant is required", contracts.ErrInvalidInput)
	}
	if b.Latitude < -90 || b.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v outside [-90,90]", contracts.ErrInvalidInput, b.Latitude)
	}
	if b.Longitude < -180 || b.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v outside [-180,180]", contracts.ErrInvalidInput, b.Longitude)
	}
	return nil
}

// Chart 출생 시점의 고정 차트
// ⭐ 생성 후 불변: 여러 스캔/점수 계산에서 동기화 없이 공유
type Chart struct {
	id        uuid.UUID
	birth     BirthData
	positions [10]contracts.CelestialPosition
	present   [10]bool
	houses    *contracts.HouseData
}

// NewChart assembles a chart from provider output. Longitudes are normalized,
// unknown bodies are ignored. A chart with neither positions nor houses is
// rejected with ErrNoChartData.
func NewChart(id uuid.UUID, birth BirthData, positions []contracts.CelestialPosition, houses *contracts.HouseData) (*Chart, error) {
	c := &Chart{id: id, birth: birth}

	count := 0
	for _, p := range positions {
		idx := p.Body.Index()
		if idx < 0 {
			continue
		}
		p.Longitude = aspect.Normalize(p.Longitude)
		c.positions[idx] = p
		if !c.present[idx] {
			c.present[idx] = true
			count++
		}
	}

	if houses != nil {
		h := *houses
		h.Ascendant = aspect.Normalize(h.Ascendant)
		h.Midheaven = aspect.Normalize(h.Midheaven)
		for i := range h.Cusps {
			h.Cusps[i] = aspect.Normalize(h.Cusps[i])
		}
		c.houses = &h
	}

	if count == 0 && c.houses == nil {
		return nil, contracts.ErrNoChartData
	}

	return c, nil
}

// ID returns the chart identifier
func (c *Chart) ID() uuid.UUID {
	return c.id
}

// Birth returns the birth data the chart was built from
func (c *Chart) Birth() BirthData {
	return c.birth
}

// Position returns the natal position of a body
func (c *Chart) Position(body contracts.Body) (contracts.CelestialPosition, bool) {
	idx := body.Index()
	if idx < 0 || !c.present[idx] {
		return contracts.CelestialPosition{}, false
	}
	return c.positions[idx], true
}

// HasHouses reports whether house data was available at construction
func (c *Chart) HasHouses() bool {
	return c.houses != nil
}

// House returns the cusp longitude of house n (1-12)
func (c *Chart) House(n int) (float64, bool) {
	if c.houses == nil || n < 1 || n > 12 {
		return 0, false
	}
	return c.houses.Cusps[n-1], true
}

// Ascendant returns the ascendant longitude
func (c *Chart) Ascendant() (float64, bool) {
	if c.houses == nil {
		return 0, false
	}
	return c.houses.Ascendant, true
}

// Midheaven returns the midheaven longitude
func (c *Chart) Midheaven() (float64, bool) {
	if c.houses == nil {
		return 0, false
	}
	return c.houses.Midheaven, true
}

// Longitude resolves any named point to its natal longitude
func (c *Chart) Longitude(p contracts.Point) (float64, bool) {
	switch p {
	case contracts.Ascendant:
		return c.Ascendant()
	case contracts.Midheaven:
		return c.Midheaven()
	}
	if b, ok := p.Body(); ok {
		pos, ok := c.Position(b)
		return pos.Longitude, ok
	}
	if n, ok := p.House(); ok {
		return c.House(n)
	}
	return 0, false
}

// Target returns the fixed scan target for a point
func (c *Chart) Target(p contracts.Point) (contracts.Target, bool) {
	lon, ok := c.Longitude(p)
	if !ok {
		return contracts.Target{}, false
	}
	return contracts.Target{Point: p, Longitude: lon}, true
}

// Targets resolves points to scan targets. Unknown identifiers are an error;
// valid points absent from this chart are returned in missing.
func (c *Chart) Targets(points []contracts.Point) (targets []contracts.Target, missing []contracts.Point, err error) {
	for _, p := range points {
		if !p.Valid() {
			return nil, nil, fmt.Errorf("%w: unknown point %q", contracts.ErrInvalidInput, p)
		}
		t, ok := c.Target(p)
		if !ok {
			missing = append(missing, p)
			continue
		}
		targets = append(targets, t)
	}
	return targets, missing, nil
}

// Bodies returns the bodies present in the chart, in chart order
func (c *Chart) Bodies() []contracts.Body {
	out := make([]contracts.Body, 0, len(contracts.Bodies))
	for i, b := range contracts.Bodies {
		if c.present[i] {
			out = append(out, b)
		}
	}
	return out
}

// DefaultTargets are the points forecasts compare against when none are given
var DefaultTargets = []contracts.Point{
	contracts.BodyPoint(contracts.Sun),
	contracts.BodyPoint(contracts.Moon),
	contracts.Ascendant,
	contracts.Midheaven,
	contracts.BodyPoint(contracts.Venus),
	contracts.BodyPoint(contracts.Mars),
}
