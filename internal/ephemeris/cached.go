package ephemeris

import (
	"context"
	"time"

	"github.com/wonny/astro/internal/contracts"
	"github.com/wonny/astro/pkg/logger"
	"github.com/wonny/astro/pkg/metrics"
	"github.com/wonny/astro/pkg/redis"
)

// Cached puts a Redis tier in front of another provider's positions.
// House cusps are only asked for once per chart and pass straight through.
type Cached struct {
	next    contracts.EphemerisProvider
	cache   *redis.Cache
	ttl     time.Duration
	metrics metrics.Recorder
	logger  *logger.Logger
}

// NewCached wraps next; a disabled cache makes this a pass-through
func NewCached(next contracts.EphemerisProvider, cache *redis.Cache, ttl time.Duration, rec metrics.Recorder, log *logger.Logger) *Cached {
	return &Cached{
		next:    next,
		cache:   cache,
		ttl:     ttl,
		metrics: metrics.OrNop(rec),
		logger:  log.Component("ephemeris.cache"),
	}
}

// PositionOf implements contracts.EphemerisProvider
func (c *Cached) PositionOf(ctx context.Context, body contracts.Body, instant time.Time) (contracts.CelestialPosition, error) {
	key := redis.PositionKey(string(body), instant)

	if c.cache.Enabled() {
		var pos contracts.CelestialPosition
		found, err := c.cache.Get(ctx, key, &pos)
		if err != nil {
			// 캐시 장애는 조회 실패로 취급하지 않음
			c.logger.WithError(err).Debug("Position cache read failed")
		}
		if found {
			c.metrics.RecordCacheHit("ephemeris")
			pos.Instant = instant
			return pos, nil
		}
		c.metrics.RecordCacheMiss("ephemeris")
	}

	pos, err := c.next.PositionOf(ctx, body, instant)
	c.metrics.RecordEphemerisLookup("upstream", err == nil)
	if err != nil {
		return contracts.CelestialPosition{}, err
	}

	if err := c.cache.Set(ctx, key, pos, c.ttl); err != nil {
		c.logger.WithError(err).Debug("Position cache write failed")
	}
	return pos, nil
}

// HouseCusps implements contracts.EphemerisProvider
func (c *Cached) HouseCusps(ctx context.Context, instant time.Time, latitude, longitude float64) (contracts.HouseData, error) {
	return c.next.HouseCusps(ctx, instant, latitude, longitude)
}
