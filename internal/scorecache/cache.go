package scorecache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/astro/internal/contracts"
	"github.com/wonny/astro/pkg/logger"
	"github.com/wonny/astro/pkg/metrics"
)

// ComputeFunc produces a fresh ScoreSet on a miss
type ComputeFunc func(ctx context.Context, h contracts.Horizon, date time.Time) (contracts.ScoreSet, error)

// Store optional second tier shared across processes.
// A found set is only used when it covers the requested period.
type Store interface {
	Load(ctx context.Context, chartID uuid.UUID, h contracts.Horizon, date time.Time) (contracts.ScoreSet, bool, error)
	Save(ctx context.Context, chartID uuid.UUID, set contracts.ScoreSet) error
}

// slot one horizon's latest ScoreSet
type slot struct {
	mu  sync.Mutex
	set *contracts.ScoreSet
}

// Cache holds one slot per horizon for one chart.
// ⭐ 슬롯별 mutex가 확인-계산-저장 전체를 감싼다 (슬롯 간 잠금 없음)
type Cache struct {
	chartID uuid.UUID
	slots   map[contracts.Horizon]*slot
	store   Store
	metrics metrics.Recorder
	logger  *logger.Logger
	now     func() time.Time
}

// New creates a cache for chartID; store may be nil
func New(chartID uuid.UUID, store Store, rec metrics.Recorder, log *logger.Logger) *Cache {
	slots := make(map[contracts.Horizon]*slot, len(contracts.Horizons))
	for _, h := range contracts.Horizons {
		slots[h] = &slot{}
	}
	return &Cache{
		chartID: chartID,
		slots:   slots,
		store:   store,
		metrics: metrics.OrNop(rec),
		logger:  log.Component("scorecache").WithField("chart_id", chartID.String()),
		now:     time.Now,
	}
}

// Get returns the cached set for h when its reference date shares date's
// period, otherwise computes, stores and returns a new one
func (c *Cache) Get(ctx context.Context, h contracts.Horizon, date time.Time, compute ComputeFunc) (contracts.ScoreSet, error) {
	s, ok := c.slots[h]
	if !ok {
		return contracts.ScoreSet{}, fmt.Errorf("%w: unknown horizon %q", contracts.ErrInvalidInput, h)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.set != nil && SamePeriod(h, s.set.ReferenceDate, date) {
		c.metrics.RecordCacheHit("memory")
		return *s.set, nil
	}
	c.metrics.RecordCacheMiss("memory")

	if set, ok := c.load(ctx, h, date); ok {
		s.set = &set
		return set, nil
	}

	set, err := compute(ctx, h, date)
	if err != nil {
		return contracts.ScoreSet{}, err
	}
	set.ComputedAt = c.now()
	s.set = &set
	c.metrics.RecordScoreComputed(string(h))

	if c.store != nil {
		if err := c.store.Save(ctx, c.chartID, set); err != nil {
			c.logger.WithError(err).WithField("horizon", h).Warn("Score store write failed")
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"horizon": h,
		"period":  h.PeriodKey(date),
		"overall": set.Overall,
	}).Debug("Score set computed")

	return set, nil
}

// Peek returns the slot's current set without computing
func (c *Cache) Peek(h contracts.Horizon) (contracts.ScoreSet, bool) {
	s, ok := c.slots[h]
	if !ok {
		return contracts.ScoreSet{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.set == nil {
		return contracts.ScoreSet{}, false
	}
	return *s.set, true
}

func (c *Cache) load(ctx context.Context, h contracts.Horizon, date time.Time) (contracts.ScoreSet, bool) {
	if c.store == nil {
		return contracts.ScoreSet{}, false
	}

	set, found, err := c.store.Load(ctx, c.chartID, h, date)
	if err != nil {
		c.logger.WithError(err).WithField("horizon", h).Warn("Score store read failed")
		return contracts.ScoreSet{}, false
	}
	if !found || set.Horizon != h || !SamePeriod(h, set.ReferenceDate, date) {
		c.metrics.RecordCacheMiss("store")
		return contracts.ScoreSet{}, false
	}

	c.metrics.RecordCacheHit("store")
	return set, true
}
