package transit

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/astro/internal/contracts"
	"github.com/wonny/astro/pkg/logger"
)

// DefaultForecastOrb orb used for long-range forecasts
const DefaultForecastOrb = 3.0

// maxParallelScans 동시에 실행할 body 스캔 수
const maxParallelScans = 4

// Forecaster scans several bodies and reduces the merged events to
// one headline per month
type Forecaster struct {
	scanner *Scanner
	logger  *logger.Logger
}

// NewForecaster creates a forecaster on top of scanner
func NewForecaster(scanner *Scanner, log *logger.Logger) *Forecaster {
	return &Forecaster{
		scanner: scanner,
		logger:  log.Component("transit.forecaster"),
	}
}

// Forecast scans every body concurrently (each scan is serial), merges,
// sorts and applies UniquePairs then OnePerMonth.
// Any scan error cancels the rest and is returned.
func (f *Forecaster) Forecast(ctx context.Context, bodies []contracts.Body, targets []contracts.Target, r Range, orb float64) ([]contracts.TransitEvent, error) {
	start := time.Now()
	perBody := make([][]contracts.TransitEvent, len(bodies))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelScans)
	for i, body := range bodies {
		g.Go(func() error {
			events, err := f.scanner.Scan(gctx, body, targets, r, orb)
			if err != nil {
				return err
			}
			perBody[i] = events
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []contracts.TransitEvent
	for _, events := range perBody {
		merged = append(merged, events...)
	}
	SortEvents(merged)

	result := OnePerMonth(UniquePairs(merged))

	f.logger.WithFields(map[string]interface{}{
		"bodies":   len(bodies),
		"raw":      len(merged),
		"reduced":  len(result),
		"duration": time.Since(start).String(),
	}).Info("Forecast completed")

	return result, nil
}
