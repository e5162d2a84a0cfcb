package ephemeris

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wonny/astro/internal/aspect"
	"github.com/wonny/astro/internal/contracts"
)

// Track uniform motion of one body: longitude at Epoch plus Speed degrees/day
type Track struct {
	Epoch     time.Time
	Longitude float64
	Speed     float64
}

// At returns the track's longitude at t
func (tr Track) At(t time.Time) float64 {
	days := t.Sub(tr.Epoch).Hours() / 24
	return aspect.Normalize(tr.Longitude + tr.Speed*days)
}

// Static is a deterministic provider driven by per-body tracks.
// Used for fixtures, demos and tests.
type Static struct {
	mu          sync.RWMutex
	tracks      map[contracts.Body]Track
	houses      *contracts.HouseData
	unavailable func(body contracts.Body, t time.Time) bool
	calls       atomic.Int64
}

// NewStatic creates an empty static provider
func NewStatic() *Static {
	return &Static{tracks: make(map[contracts.Body]Track)}
}

// WithTrack sets the motion of a body
func (s *Static) WithTrack(body contracts.Body, tr Track) *Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracks[body] = tr
	return s
}

// WithFixed pins a body at a longitude for all instants
func (s *Static) WithFixed(body contracts.Body, longitude float64) *Static {
	return s.WithTrack(body, Track{Longitude: longitude})
}

// WithHouses sets the house data returned for every birth
func (s *Static) WithHouses(h contracts.HouseData) *Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.houses = &h
	return s
}

// WithUnavailable marks (body, instant) combinations as unavailable
func (s *Static) WithUnavailable(fn func(body contracts.Body, t time.Time) bool) *Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable = fn
	return s
}

// Calls returns how many PositionOf calls were served or refused
func (s *Static) Calls() int64 {
	return s.calls.Load()
}

// PositionOf implements contracts.EphemerisProvider
func (s *Static) PositionOf(ctx context.Context, body contracts.Body, instant time.Time) (contracts.CelestialPosition, error) {
	s.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return contracts.CelestialPosition{}, err
	}

	s.mu.RLock()
	tr, ok := s.tracks[body]
	unavailable := s.unavailable
	s.mu.RUnlock()

	if !ok || (unavailable != nil && unavailable(body, instant)) {
		return contracts.CelestialPosition{}, fmt.Errorf("%w: %s at %s", contracts.ErrProviderUnavailable, body, instant.Format(time.RFC3339))
	}

	return contracts.CelestialPosition{
		Body:      body,
		Instant:   instant,
		Longitude: tr.At(instant),
		Speed:     tr.Speed,
		Distance:  1,
	}, nil
}

// HouseCusps implements contracts.EphemerisProvider
func (s *Static) HouseCusps(ctx context.Context, instant time.Time, latitude, longitude float64) (contracts.HouseData, error) {
	if err := ctx.Err(); err != nil {
		return contracts.HouseData{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.houses == nil {
		return contracts.HouseData{}, fmt.Errorf("%w: no house data", contracts.ErrProviderUnavailable)
	}
	return *s.houses, nil
}
