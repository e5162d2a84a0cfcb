package scorecache

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/astro/internal/contracts"
	"github.com/wonny/astro/pkg/redis"
)

// RedisStore keeps score sets in Redis until the end of their period
type RedisStore struct {
	cache *redis.Cache
	now   func() time.Time
}

// NewRedisStore creates a store on top of a JSON cache
func NewRedisStore(cache *redis.Cache) *RedisStore {
	return &RedisStore{cache: cache, now: time.Now}
}

// Load implements Store
func (s *RedisStore) Load(ctx context.Context, chartID uuid.UUID, h contracts.Horizon, date time.Time) (contracts.ScoreSet, bool, error) {
	var set contracts.ScoreSet
	found, err := s.cache.Get(ctx, redis.ScoreKey(chartID.String(), string(h), h.PeriodKey(date)), &set)
	if err != nil || !found {
		return contracts.ScoreSet{}, false, err
	}
	return set, true, nil
}

// Save implements Store; sets whose period already ended are not written
func (s *RedisStore) Save(ctx context.Context, chartID uuid.UUID, set contracts.ScoreSet) error {
	h := set.Horizon
	ttl := h.PeriodEnd(set.ReferenceDate).Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, redis.ScoreKey(chartID.String(), string(h), h.PeriodKey(set.ReferenceDate)), set, ttl)
}
