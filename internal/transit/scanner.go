package transit

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/wonny/astro/internal/aspect"
	"github.com/wonny/astro/internal/contracts"
	"github.com/wonny/astro/pkg/logger"
	"github.com/wonny/astro/pkg/metrics"
)

// Range inclusive date range of a scan
type Range struct {
	Start time.Time
	End   time.Time
}

// Validate checks the range is not inverted
func (r Range) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("%w: range start and end are required", contracts.ErrInvalidInput)
	}
	if r.End.Before(r.Start) {
		return fmt.Errorf("%w: range end %s before start %s", contracts.ErrInvalidInput,
			r.End.Format(time.RFC3339), r.Start.Format(time.RFC3339))
	}
	return nil
}

// clip restricts [lo, hi] to the range
func (r Range) clip(lo, hi time.Time) (time.Time, time.Time) {
	if lo.Before(r.Start) {
		lo = r.Start
	}
	if hi.After(r.End) {
		hi = r.End
	}
	return lo, hi
}

// Scanner walks one transiting body across a date range and reports the
// aspects it forms to fixed natal targets
type Scanner struct {
	provider   contracts.EphemerisProvider
	classifier *aspect.Classifier
	metrics    metrics.Recorder
	logger     *logger.Logger
}

// NewScanner creates a scanner over provider
func NewScanner(provider contracts.EphemerisProvider, rec metrics.Recorder, log *logger.Logger) *Scanner {
	return &Scanner{
		provider:   provider,
		classifier: aspect.NewClassifier(),
		metrics:    metrics.OrNop(rec),
		logger:     log.Component("transit.scanner"),
	}
}

// Scan returns the deduplicated events body forms to targets within r,
// sorted by ascending date (ties by significance, highest first).
// Unavailable samples are skipped. A cancelled ctx returns ctx.Err() and no events.
func (s *Scanner) Scan(ctx context.Context, body contracts.Body, targets []contracts.Target, r Range, orb float64) ([]contracts.TransitEvent, error) {
	if !body.Valid() {
		return nil, fmt.Errorf("%w: unknown body %q", contracts.ErrInvalidInput, body)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if math.IsNaN(orb) || orb < 0 {
		return nil, fmt.Errorf("%w: orb must be non-negative, got %v", contracts.ErrInvalidInput, orb)
	}
	if err := aspect.UniformOrbs(orb).Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", contracts.ErrInvalidInput, err)
	}
	for _, t := range targets {
		if !t.Point.Valid() {
			return nil, fmt.Errorf("%w: unknown point %q", contracts.ErrInvalidInput, t.Point)
		}
	}

	events := []contracts.TransitEvent{}
	if len(targets) == 0 {
		return events, nil
	}

	start := time.Now()
	interval := SamplingInterval(body, orb)
	window := DedupWindow(body)
	recorded := make(map[contracts.PairKey][]time.Time)
	samples, skipped := 0, 0

	// 마지막 표본은 항상 r.End
	for at, last := r.Start, false; !last; at = at.Add(interval) {
		if !at.Before(r.End) {
			at, last = r.End, true
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		samples++
		pos, err := s.provider.PositionOf(ctx, body, at)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			skipped++
			s.metrics.RecordSkippedSample(string(body))
			s.logger.WithFields(map[string]interface{}{
				"body": body,
				"at":   at.Format(time.RFC3339),
			}).WithError(err).Debug("Sample skipped")
			continue
		}

		for _, target := range targets {
			sep := aspect.Separation(pos.Longitude, target.Longitude)
			match, ok := s.classifier.ClassifyWithOrb(sep, orb)
			if !ok {
				continue
			}

			key := contracts.PairKey{Body: body, Point: target.Point}
			if withinWindow(recorded[key], at, window) {
				continue
			}

			date, exact, err := s.refine(ctx, body, target, match, at, interval, r)
			if err != nil {
				return nil, err
			}
			if withinWindow(recorded[key], date, window) {
				continue
			}

			recorded[key] = append(recorded[key], date)
			events = append(events, contracts.TransitEvent{
				Body:         body,
				Aspect:       exact.Type,
				Point:        target.Point,
				Date:         date,
				Orb:          exact.Orb,
				Significance: Significance(body, target.Point, exact.Type),
			})
		}
	}

	SortEvents(events)

	elapsed := time.Since(start)
	s.metrics.RecordScan(string(body), elapsed, len(events))
	s.logger.WithFields(map[string]interface{}{
		"body":     body,
		"targets":  len(targets),
		"samples":  samples,
		"skipped":  skipped,
		"events":   len(events),
		"interval": interval.String(),
		"duration": elapsed.String(),
	}).Debug("Transit scan completed")

	return events, nil
}

// refine finds the instant of minimum orb for match inside
// [at-interval, at+interval] ∩ r. Lookup failures fall back to the sample.
func (s *Scanner) refine(ctx context.Context, body contracts.Body, target contracts.Target, match contracts.Aspect, at time.Time, interval time.Duration, r Range) (time.Time, contracts.Aspect, error) {
	lo, hi := r.clip(at.Add(-interval), at.Add(interval))

	step := day
	if interval < 2*day {
		step = time.Hour
	}
	n := int(hi.Sub(lo) / step)
	if n <= 0 {
		return at, match, nil
	}

	seen := make(map[int]float64, 16)
	var cancelled error
	orbAt := func(i int) float64 {
		if v, ok := seen[i]; ok {
			return v
		}
		v := math.Inf(1)
		pos, err := s.provider.PositionOf(ctx, body, lo.Add(time.Duration(i)*step))
		switch {
		case err == nil:
			v = math.Abs(aspect.Separation(pos.Longitude, target.Longitude) - match.Type.Angle())
		case ctx.Err() != nil:
			cancelled = ctx.Err()
		}
		seen[i] = v
		return v
	}

	// 삼분 탐색: 같은 값이면 앞쪽을 유지
	a, b := 0, n
	for b-a > 2 && cancelled == nil {
		m1 := a + (b-a)/3
		m2 := b - (b-a)/3
		if orbAt(m1) <= orbAt(m2) {
			b = m2 - 1
		} else {
			a = m1 + 1
		}
	}

	best, bestOrb := -1, math.Inf(1)
	for i := a; i <= b && cancelled == nil; i++ {
		if v := orbAt(i); v < bestOrb {
			best, bestOrb = i, v
		}
	}
	if cancelled != nil {
		return time.Time{}, contracts.Aspect{}, cancelled
	}
	if best < 0 || bestOrb > match.Orb {
		return at, match, nil
	}

	// bestOrb <= match.Orb, so the aspect type still holds
	return lo.Add(time.Duration(best) * step), contracts.Aspect{Type: match.Type, Orb: bestOrb}, nil
}

// withinWindow reports whether any of dates lies closer than window to at
func withinWindow(dates []time.Time, at time.Time, window time.Duration) bool {
	for _, d := range dates {
		diff := at.Sub(d)
		if diff < 0 {
			diff = -diff
		}
		if diff < window {
			return true
		}
	}
	return false
}

// SortEvents orders events by ascending date, ties by significance (highest first)
func SortEvents(events []contracts.TransitEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].Significance > events[j].Significance
	})
}
