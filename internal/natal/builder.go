package natal

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/wonny/astro/internal/contracts"
	"github.com/wonny/astro/pkg/logger"
)

// Builder constructs charts from the ephemeris provider
type Builder struct {
	provider contracts.EphemerisProvider
	logger   *logger.Logger
}

// NewBuilder creates a new chart builder
func NewBuilder(provider contracts.EphemerisProvider, log *logger.Logger) *Builder {
	return &Builder{
		provider: provider,
		logger:   log.Component("natal.builder"),
	}
}

// Build fetches the ten natal positions and the house data for a birth.
// Unavailable bodies or houses are skipped; only a chart with no usable
// data at all fails with ErrNoChartData.
func (b *Builder) Build(ctx context.Context, birth BirthData) (*Chart, error) {
	if err := birth.Validate(); err != nil {
		return nil, err
	}

	positions := make([]contracts.CelestialPosition, 0, len(contracts.Bodies))
	for _, body := range contracts.Bodies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pos, err := b.provider.PositionOf(ctx, body, birth.Instant)
		if err != nil {
			b.logger.WithError(err).WithField("body", body).Warn("Natal position unavailable, skipping body")
			continue
		}
		pos.Body = body
		positions = append(positions, pos)
	}

	var houses *contracts.HouseData
	h, err := b.provider.HouseCusps(ctx, birth.Instant, birth.Latitude, birth.Longitude)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		b.logger.WithError(err).Warn("House data unavailable, chart has no angles or cusps")
	} else {
		houses = &h
	}

	chart, err := NewChart(uuid.New(), birth, positions, houses)
	if err != nil {
		return nil, fmt.Errorf("build chart for %s: %w", birth.Instant.Format("2006-01-02T15:04Z07:00"), err)
	}

	b.logger.WithFields(map[string]interface{}{
		"chart_id":   chart.ID().String(),
		"bodies":     len(positions),
		"has_houses": houses != nil,
	}).Info("Natal chart built")

	return chart, nil
}
