package transit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/astro/internal/contracts"
	"github.com/wonny/astro/internal/ephemeris"
	"github.com/wonny/astro/pkg/logger"
)

func ev(body contracts.Body, point contracts.Point, date time.Time, sig int) contracts.TransitEvent {
	return contracts.TransitEvent{Body: body, Aspect: contracts.Conjunction, Point: point, Date: date, Significance: sig}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestUniquePairs(t *testing.T) {
	sun := contracts.BodyPoint(contracts.Sun)
	events := []contracts.TransitEvent{
		ev(contracts.Saturn, sun, date(2026, 5, 1), 16),
		ev(contracts.Saturn, sun, date(2026, 1, 1), 16),
		ev(contracts.Jupiter, sun, date(2026, 3, 1), 15),
		ev(contracts.Saturn, contracts.Ascendant, date(2026, 9, 1), 16),
		ev(contracts.Saturn, sun, date(2026, 11, 1), 16),
	}

	got := UniquePairs(events)
	require.Len(t, got, 3)
	assert.Equal(t, date(2026, 1, 1), got[0].Date, "earliest event of the pair kept")
	assert.Equal(t, contracts.Jupiter, got[1].Body)
	assert.Equal(t, contracts.Ascendant, got[2].Point)

	assert.Equal(t, date(2026, 5, 1), events[0].Date, "input left untouched")
}

func TestOnePerMonth(t *testing.T) {
	sun := contracts.BodyPoint(contracts.Sun)
	tests := []struct {
		name     string
		events   []contracts.TransitEvent
		expected []time.Time
	}{
		{
			name:     "empty",
			events:   nil,
			expected: []time.Time{},
		},
		{
			name: "highest significance wins",
			events: []contracts.TransitEvent{
				ev(contracts.Mars, sun, date(2026, 3, 2), 9),
				ev(contracts.Pluto, sun, date(2026, 3, 20), 20),
				ev(contracts.Venus, sun, date(2026, 4, 1), 9),
			},
			expected: []time.Time{date(2026, 3, 20), date(2026, 4, 1)},
		},
		{
			name: "ties keep the earlier date",
			events: []contracts.TransitEvent{
				ev(contracts.Saturn, sun, date(2026, 6, 25), 16),
				ev(contracts.Saturn, contracts.Ascendant, date(2026, 6, 5), 16),
			},
			expected: []time.Time{date(2026, 6, 5)},
		},
		{
			name: "same month different year",
			events: []contracts.TransitEvent{
				ev(contracts.Saturn, sun, date(2027, 1, 10), 16),
				ev(contracts.Saturn, sun, date(2026, 1, 10), 16),
			},
			expected: []time.Time{date(2026, 1, 10), date(2027, 1, 10)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OnePerMonth(tt.events)
			dates := make([]time.Time, 0, len(got))
			for _, e := range got {
				dates = append(dates, e.Date)
			}
			assert.Equal(t, tt.expected, dates)
		})
	}
}

func TestSortEvents_TiesBySignificance(t *testing.T) {
	sun := contracts.BodyPoint(contracts.Sun)
	events := []contracts.TransitEvent{
		ev(contracts.Mars, sun, date(2026, 2, 1), 9),
		ev(contracts.Pluto, sun, date(2026, 2, 1), 20),
		ev(contracts.Venus, sun, date(2026, 1, 1), 9),
	}

	SortEvents(events)
	assert.Equal(t, contracts.Venus, events[0].Body)
	assert.Equal(t, contracts.Pluto, events[1].Body)
	assert.Equal(t, contracts.Mars, events[2].Body)
}

func TestForecaster_Forecast(t *testing.T) {
	start := date(2026, 1, 1)
	provider := ephemeris.NewStatic().
		WithFixed(contracts.Saturn, 15).
		WithFixed(contracts.Pluto, 105).
		WithFixed(contracts.Venus, 200)

	scanner := NewScanner(provider, nil, logger.Nop())
	forecaster := NewForecaster(scanner, logger.Nop())

	targets := []contracts.Target{
		{Point: contracts.BodyPoint(contracts.Sun), Longitude: 15},
		{Point: contracts.Ascendant, Longitude: 285},
	}
	bodies := []contracts.Body{contracts.Saturn, contracts.Pluto, contracts.Venus}

	events, err := forecaster.Forecast(context.Background(), bodies, targets,
		Range{Start: start, End: start.AddDate(1, 0, 0)}, DefaultForecastOrb)
	require.NoError(t, err)
	require.Len(t, events, 1, "unique pairs leave only the January events")

	// Pluto opposite the ascendant outranks Saturn conjunct the Sun
	assert.Equal(t, contracts.Pluto, events[0].Body)
	assert.Equal(t, contracts.Opposition, events[0].Aspect)
	assert.Equal(t, 20, events[0].Significance)
}

func TestForecaster_CancelledReturnsError(t *testing.T) {
	provider := ephemeris.NewStatic().WithFixed(contracts.Moon, 0)
	forecaster := NewForecaster(NewScanner(provider, nil, logger.Nop()), logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events, err := forecaster.Forecast(ctx, []contracts.Body{contracts.Moon, contracts.Sun}, sunAt(0),
		Range{Start: d0, End: d0.AddDate(1, 0, 0)}, 3)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, events)
}
