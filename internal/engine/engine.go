package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/astro/internal/contracts"
	"github.com/wonny/astro/internal/natal"
	"github.com/wonny/astro/internal/scorecache"
	"github.com/wonny/astro/internal/scoring"
	"github.com/wonny/astro/internal/transit"
	"github.com/wonny/astro/pkg/logger"
	"github.com/wonny/astro/pkg/metrics"
)

// EventStore persists forecast events (transit.Repository)
type EventStore interface {
	SaveEvents(ctx context.Context, chartID uuid.UUID, events []contracts.TransitEvent) error
}

// Deps shared collaborators of every engine in a process
type Deps struct {
	Provider    contracts.EphemerisProvider
	Rules       scoring.RuleSet  // nil = DefaultRules
	Store       scorecache.Store // optional second score tier
	Events      EventStore       // optional forecast archive
	Metrics     metrics.Recorder // nil = no-op
	ForecastOrb float64          // 0 = transit.DefaultForecastOrb
	Logger      *logger.Logger
}

// Engine owns one chart and its score cache slots.
// ⭐ 차트별 인스턴스: 전역 싱글톤 없음
type Engine struct {
	chart       *natal.Chart
	scanner     *transit.Scanner
	forecaster  *transit.Forecaster
	aggregator  *scoring.Aggregator
	cache       *scorecache.Cache
	events      EventStore
	forecastOrb float64
	logger      *logger.Logger
}

// New creates the engine of chart
func New(chart *natal.Chart, deps Deps) *Engine {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	rules := deps.Rules
	if rules == nil {
		rules = scoring.DefaultRules()
	}
	orb := deps.ForecastOrb
	if orb <= 0 {
		orb = transit.DefaultForecastOrb
	}

	scanner := transit.NewScanner(deps.Provider, deps.Metrics, log)
	return &Engine{
		chart:       chart,
		scanner:     scanner,
		forecaster:  transit.NewForecaster(scanner, log),
		aggregator:  scoring.NewAggregator(deps.Provider, rules, log),
		cache:       scorecache.New(chart.ID(), deps.Store, deps.Metrics, log),
		events:      deps.Events,
		forecastOrb: orb,
		logger:      log.Component("engine").WithField("chart_id", chart.ID().String()),
	}
}

// Chart returns the engine's natal chart
func (e *Engine) Chart() *natal.Chart {
	return e.chart
}

// ScoreSet returns the scores of horizon h for date, reusing the cached set
// while date stays in the same period
func (e *Engine) ScoreSet(ctx context.Context, h contracts.Horizon, date time.Time) (contracts.ScoreSet, error) {
	return e.cache.Get(ctx, h, date, func(ctx context.Context, h contracts.Horizon, date time.Time) (contracts.ScoreSet, error) {
		return e.aggregator.Compute(ctx, e.chart, h, date)
	})
}

// ScanTransits returns the date-ordered events body forms to targets within r
func (e *Engine) ScanTransits(ctx context.Context, body contracts.Body, targets []contracts.Target, r transit.Range, orb float64) ([]contracts.TransitEvent, error) {
	return e.scanner.Scan(ctx, body, targets, r, orb)
}

// ScanPoints resolves natal points to targets and scans body against them.
// Empty points means natal.DefaultTargets. Points absent from the chart
// (no house data) are skipped.
func (e *Engine) ScanPoints(ctx context.Context, body contracts.Body, points []contracts.Point, r transit.Range, orb float64) ([]contracts.TransitEvent, error) {
	if len(points) == 0 {
		points = natal.DefaultTargets
	}
	targets, err := e.targets(points)
	if err != nil {
		return nil, err
	}
	return e.scanner.Scan(ctx, body, targets, r, orb)
}

// ForecastEvents scans bodies against the chart's points and reduces the
// result to unique pairs, one event per month. Empty bodies means all ten,
// empty points means natal.DefaultTargets.
func (e *Engine) ForecastEvents(ctx context.Context, bodies []contracts.Body, points []contracts.Point, r transit.Range) ([]contracts.TransitEvent, error) {
	if len(bodies) == 0 {
		bodies = contracts.Bodies
	}
	for _, b := range bodies {
		if !b.Valid() {
			return nil, fmt.Errorf("%w: unknown body %q", contracts.ErrInvalidInput, b)
		}
	}
	if len(points) == 0 {
		points = natal.DefaultTargets
	}

	targets, err := e.targets(points)
	if err != nil {
		return nil, err
	}

	events, err := e.forecaster.Forecast(ctx, bodies, targets, r, e.forecastOrb)
	if err != nil {
		return nil, err
	}

	if e.events != nil && len(events) > 0 {
		if err := e.events.SaveEvents(ctx, e.chart.ID(), events); err != nil {
			e.logger.WithError(err).Warn("Failed to archive forecast events")
		}
	}
	return events, nil
}

func (e *Engine) targets(points []contracts.Point) ([]contracts.Target, error) {
	targets, missing, err := e.chart.Targets(points)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		e.logger.WithField("missing", missing).Debug("Points absent from chart, skipped")
	}
	return targets, nil
}
