package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/astro/pkg/config"
)

func TestNewClient_Disabled(t *testing.T) {
	client, err := New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)
	assert.False(t, client.Enabled())
	assert.NoError(t, client.Close())
}

func TestCache_Disabled(t *testing.T) {
	client, _ := New(&config.Config{})
	cache := NewCache(client, "test")
	ctx := context.Background()

	var result string
	found, err := cache.Get(ctx, "key", &result)
	require.NoError(t, err)
	assert.False(t, found, "disabled cache always misses")

	assert.NoError(t, cache.Set(ctx, "key", "value", time.Minute))
	assert.NoError(t, cache.Delete(ctx, "key"))
	assert.False(t, cache.Enabled())
}

func TestCacheKeys(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{
			name:     "ScoreKey",
			got:      ScoreKey("c1", "week", "2026-W42"),
			expected: "score:c1:week:2026-W42",
		},
		{
			name:     "PositionKey",
			got:      PositionKey("saturn", time.Date(2026, 10, 15, 12, 30, 45, 0, time.UTC)),
			expected: "position:saturn:2026-10-15T12:30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}

	assert.Equal(t, "astro:cache:k", NewCache(nil, "astro").fullKey("k"))
}
