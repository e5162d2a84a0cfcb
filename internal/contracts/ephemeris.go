package contracts

import (
	"context"
	"time"
)

// CelestialPosition 특정 시점의 천체 위치 (ephemeris provider 제공, immutable)
type CelestialPosition struct {
	Body      Body      `json:"body"`
	Instant   time.Time `json:"instant"`
	Longitude float64   `json:"longitude"` // ecliptic, [0,360)
	Latitude  float64   `json:"latitude"`
	Distance  float64   `json:"distance"` // AU
	Speed     float64   `json:"speed"`    // degrees/day, negative when retrograde
}

// HouseData ascendant, midheaven and the 12 house cusps for a birth instant+location
type HouseData struct {
	Ascendant float64     `json:"ascendant"`
	Midheaven float64     `json:"midheaven"`
	Cusps     [12]float64 `json:"cusps"`
}

// EphemerisProvider supplies astronomical positions.
// Unavailable data is reported as an error wrapping ErrProviderUnavailable;
// retries, if any, belong to the implementation.
type EphemerisProvider interface {
	PositionOf(ctx context.Context, body Body, instant time.Time) (CelestialPosition, error)
	HouseCusps(ctx context.Context, instant time.Time, latitude, longitude float64) (HouseData, error)
}
