package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/astro/internal/contracts"
	"github.com/wonny/astro/internal/engine"
	"github.com/wonny/astro/pkg/logger"
)

// ScoreRefreshJob warms every chart's score slots for the current periods
// so the first request of a new day/week does not pay for the computation
type ScoreRefreshJob struct {
	registry *engine.Registry
	horizons []contracts.Horizon
	schedule string
	logger   *logger.Logger
	now      func() time.Time
}

// NewScoreRefreshJob creates the job; empty horizons = all horizons
func NewScoreRefreshJob(registry *engine.Registry, schedule string, horizons []contracts.Horizon, log *logger.Logger) *ScoreRefreshJob {
	if len(horizons) == 0 {
		horizons = contracts.Horizons
	}
	return &ScoreRefreshJob{
		registry: registry,
		horizons: horizons,
		schedule: schedule,
		logger:   log.Component("score_refresh"),
		now:      time.Now,
	}
}

// Name implements scheduler.Job
func (j *ScoreRefreshJob) Name() string {
	return "score_refresh"
}

// Schedule implements scheduler.Job
func (j *ScoreRefreshJob) Schedule() string {
	return j.schedule
}

// Run implements scheduler.Job
func (j *ScoreRefreshJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	ids := j.registry.IDs()

	var firstErr error
	failed, refreshed := 0, 0
	for _, id := range ids {
		e, err := j.registry.Get(id)
		if err != nil {
			// 실행 중 삭제된 차트
			continue
		}
		for _, h := range j.horizons {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := e.ScoreSet(ctx, h, now); err != nil {
				failed++
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			refreshed++
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"charts":    len(ids),
		"refreshed": refreshed,
		"failed":    failed,
	}).Info("Score refresh finished")

	if firstErr != nil {
		return fmt.Errorf("%d score refreshes failed: %w", failed, firstErr)
	}
	return nil
}
