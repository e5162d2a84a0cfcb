package ephemeris

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/astro/internal/contracts"
	"github.com/wonny/astro/pkg/config"
	"github.com/wonny/astro/pkg/httputil"
	"github.com/wonny/astro/pkg/logger"
	"github.com/wonny/astro/pkg/redis"
)

var epoch = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func TestStatic_Track(t *testing.T) {
	p := NewStatic().
		WithTrack(contracts.Saturn, Track{Epoch: epoch, Longitude: 359, Speed: 0.5}).
		WithFixed(contracts.Sun, 15)
	ctx := context.Background()

	pos, err := p.PositionOf(ctx, contracts.Saturn, epoch.Add(4*24*time.Hour))
	require.NoError(t, err)
	assert.InDelta(t, 1, pos.Longitude, 1e-9, "wraps past 360")
	assert.Equal(t, 0.5, pos.Speed)

	pos, err = p.PositionOf(ctx, contracts.Sun, epoch.AddDate(5, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 15.0, pos.Longitude)

	_, err = p.PositionOf(ctx, contracts.Pluto, epoch)
	assert.ErrorIs(t, err, contracts.ErrProviderUnavailable)

	_, err = p.HouseCusps(ctx, epoch, 0, 0)
	assert.ErrorIs(t, err, contracts.ErrProviderUnavailable)

	assert.Equal(t, int64(3), p.Calls())
}

func TestStatic_Unavailable(t *testing.T) {
	p := NewStatic().
		WithFixed(contracts.Moon, 100).
		WithUnavailable(func(b contracts.Body, at time.Time) bool { return at.Day() == 2 })

	_, err := p.PositionOf(context.Background(), contracts.Moon, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, contracts.ErrProviderUnavailable)

	_, err = p.PositionOf(context.Background(), contracts.Moon, time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
}

func TestStatic_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStatic().WithFixed(contracts.Sun, 1).PositionOf(ctx, contracts.Sun, epoch)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMeanMotion_Positions(t *testing.T) {
	m := NewMeanMotion()
	ctx := context.Background()

	tests := []struct {
		body     contracts.Body
		minSpeed float64
		maxSpeed float64
	}{
		{contracts.Sun, 0.9, 1.1},
		{contracts.Moon, 11, 16},
		{contracts.Jupiter, -0.2, 0.3},
		{contracts.Pluto, -0.05, 0.05},
	}

	for _, tt := range tests {
		t.Run(string(tt.body), func(t *testing.T) {
			pos, err := m.PositionOf(ctx, tt.body, epoch)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, pos.Longitude, 0.0)
			assert.Less(t, pos.Longitude, 360.0)
			assert.GreaterOrEqual(t, pos.Speed, tt.minSpeed)
			assert.LessOrEqual(t, pos.Speed, tt.maxSpeed)
		})
	}
}

func TestMeanMotion_SunAtJ2000(t *testing.T) {
	pos, err := NewMeanMotion().PositionOf(context.Background(), contracts.Sun, j2000)
	require.NoError(t, err)
	assert.InDelta(t, 280.4, pos.Longitude, 1.0)
}

func TestMeanMotion_Houses(t *testing.T) {
	m := NewMeanMotion()

	h, err := m.HouseCusps(context.Background(), epoch, 37.57, 126.98)
	require.NoError(t, err)
	assert.Equal(t, h.Ascendant, h.Cusps[0])
	for _, c := range h.Cusps {
		assert.GreaterOrEqual(t, c, 0.0)
		assert.Less(t, c, 360.0)
	}

	_, err = m.HouseCusps(context.Background(), epoch, 70, 20)
	assert.ErrorIs(t, err, contracts.ErrProviderUnavailable)
}

func TestEqualHouses(t *testing.T) {
	h := EqualHouses(350, 260)
	assert.Equal(t, 350.0, h.Cusps[0])
	assert.InDelta(t, 20.0, h.Cusps[1], 1e-9)
	assert.InDelta(t, 320.0, h.Cusps[11], 1e-9)
}

func newEphemerisServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/positions":
			if r.URL.Query().Get("body") == "pluto" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			fmt.Fprintf(w, `{"body":%q,"longitude":375,"speed":0.03,"distance":9.5}`, r.URL.Query().Get("body"))
		case "/v1/houses":
			if r.URL.Query().Get("lat") == "80.000000" {
				_, _ = w.Write([]byte(`{"ascendant":10,"midheaven":280,"cusps":[1,2]}`))
				return
			}
			_, _ = w.Write([]byte(`{"ascendant":10,"midheaven":280,"cusps":[10,40,70,100,130,160,190,220,250,280,310,340]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestHTTPProvider(t *testing.T) {
	srv := newEphemerisServer(t)
	defer srv.Close()

	client := httputil.New(time.Second, logger.Nop()).DisableRetry()
	p := NewHTTPProvider(srv.URL, client, logger.Nop())
	ctx := context.Background()

	pos, err := p.PositionOf(ctx, contracts.Saturn, epoch)
	require.NoError(t, err)
	assert.Equal(t, contracts.Saturn, pos.Body)
	assert.Equal(t, 15.0, pos.Longitude)
	assert.Equal(t, 0.03, pos.Speed)

	_, err = p.PositionOf(ctx, contracts.Pluto, epoch)
	assert.ErrorIs(t, err, contracts.ErrProviderUnavailable)

	h, err := p.HouseCusps(ctx, epoch, 37.5, 127)
	require.NoError(t, err)
	assert.Equal(t, 10.0, h.Ascendant)
	assert.Equal(t, 340.0, h.Cusps[11])

	_, err = p.HouseCusps(ctx, epoch, 80, 0)
	assert.ErrorIs(t, err, contracts.ErrProviderUnavailable)
}

func TestHTTPProvider_CancelledIsNotUnavailable(t *testing.T) {
	srv := newEphemerisServer(t)
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, httputil.New(time.Second, logger.Nop()), logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.PositionOf(ctx, contracts.Sun, epoch)
	require.Error(t, err)
	assert.NotErrorIs(t, err, contracts.ErrProviderUnavailable)
}

func TestCached_DisabledPassesThrough(t *testing.T) {
	client, err := redis.New(&config.Config{})
	require.NoError(t, err)

	inner := NewStatic().WithFixed(contracts.Sun, 42)
	c := NewCached(inner, redis.NewCache(client, "astro"), time.Hour, nil, logger.Nop())

	for i := 0; i < 3; i++ {
		pos, err := c.PositionOf(context.Background(), contracts.Sun, epoch)
		require.NoError(t, err)
		assert.Equal(t, 42.0, pos.Longitude)
	}
	assert.Equal(t, int64(3), inner.Calls())

	_, err = c.PositionOf(context.Background(), contracts.Moon, epoch)
	assert.ErrorIs(t, err, contracts.ErrProviderUnavailable)
}
