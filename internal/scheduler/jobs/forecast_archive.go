package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/astro/internal/contracts"
	"github.com/wonny/astro/internal/engine"
	"github.com/wonny/astro/internal/transit"
	"github.com/wonny/astro/pkg/logger"
)

// DefaultForecastWindow 아카이브 예보 범위
const DefaultForecastWindow = 365 * 24 * time.Hour

// ForecastArchiveJob recomputes each chart's forecast for the coming window.
// Engine.ForecastEvents archives the result when an EventStore is wired.
type ForecastArchiveJob struct {
	registry *engine.Registry
	window   time.Duration
	schedule string
	logger   *logger.Logger
	now      func() time.Time
	forecast func(ctx context.Context, e *engine.Engine, r transit.Range) ([]contracts.TransitEvent, error)
}

// NewForecastArchiveJob creates the job; window <= 0 = DefaultForecastWindow
func NewForecastArchiveJob(registry *engine.Registry, schedule string, window time.Duration, log *logger.Logger) *ForecastArchiveJob {
	if window <= 0 {
		window = DefaultForecastWindow
	}
	return &ForecastArchiveJob{
		registry: registry,
		window:   window,
		schedule: schedule,
		logger:   log.Component("forecast_archive"),
		now:      time.Now,
		forecast: func(ctx context.Context, e *engine.Engine, r transit.Range) ([]contracts.TransitEvent, error) {
			return e.ForecastEvents(ctx, nil, nil, r)
		},
	}
}

// Name implements scheduler.Job
func (j *ForecastArchiveJob) Name() string {
	return "forecast_archive"
}

// Schedule implements scheduler.Job
func (j *ForecastArchiveJob) Schedule() string {
	return j.schedule
}

// Run implements scheduler.Job
func (j *ForecastArchiveJob) Run(ctx context.Context) error {
	start := j.now().UTC().Truncate(24 * time.Hour)
	r := transit.Range{Start: start, End: start.Add(j.window)}

	ids := j.registry.IDs()

	var firstErr error
	failed, total := 0, 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		e, err := j.registry.Get(id)
		if err != nil {
			continue
		}
		events, err := j.forecast(ctx, e, r)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			// 한 차트 실패가 나머지 아카이브를 막지 않음
			failed++
			if firstErr == nil {
				firstErr = fmt.Errorf("forecast chart %s: %w", id, err)
			}
			j.logger.WithError(err).WithField("chart_id", id).Warn("Forecast archive failed for chart")
			continue
		}
		total += len(events)
	}

	j.logger.WithFields(map[string]interface{}{
		"charts": len(ids),
		"failed": failed,
		"events": total,
		"from":   r.Start.Format("2006-01-02"),
		"to":     r.End.Format("2006-01-02"),
	}).Info("Forecast archive finished")

	if firstErr != nil {
		return fmt.Errorf("%d forecast archives failed: %w", failed, firstErr)
	}
	return nil
}
