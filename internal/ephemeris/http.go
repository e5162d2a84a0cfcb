package ephemeris

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/wonny/astro/internal/aspect"
	"github.com/wonny/astro/internal/contracts"
	"github.com/wonny/astro/pkg/httputil"
	"github.com/wonny/astro/pkg/logger"
)

// positionResponse GET /v1/positions 응답
type positionResponse struct {
	Body      string  `json:"body"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Distance  float64 `json:"distance"`
	Speed     float64 `json:"speed"`
}

// housesResponse GET /v1/houses 응답
type housesResponse struct {
	Ascendant float64   `json:"ascendant"`
	Midheaven float64   `json:"midheaven"`
	Cusps     []float64 `json:"cusps"`
}

// HTTPProvider calls a remote ephemeris service.
// Retries and rate limiting are owned by the underlying httputil.Client.
type HTTPProvider struct {
	baseURL string
	client  *httputil.Client
	logger  *logger.Logger
}

// NewHTTPProvider creates a provider for the service at baseURL
func NewHTTPProvider(baseURL string, client *httputil.Client, log *logger.Logger) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		client:  client,
		logger:  log.Component("ephemeris.http"),
	}
}

// PositionOf implements contracts.EphemerisProvider
func (p *HTTPProvider) PositionOf(ctx context.Context, body contracts.Body, instant time.Time) (contracts.CelestialPosition, error) {
	q := url.Values{}
	q.Set("body", string(body))
	q.Set("at", instant.UTC().Format(time.RFC3339))

	var resp positionResponse
	if err := p.client.GetJSON(ctx, p.baseURL+"/v1/positions?"+q.Encode(), &resp); err != nil {
		return contracts.CelestialPosition{}, unavailable(ctx, err, "position of %s at %s", body, instant.Format(time.RFC3339))
	}

	return contracts.CelestialPosition{
		Body:      body,
		Instant:   instant,
		Longitude: aspect.Normalize(resp.Longitude),
		Latitude:  resp.Latitude,
		Distance:  resp.Distance,
		Speed:     resp.Speed,
	}, nil
}

// HouseCusps implements contracts.EphemerisProvider
func (p *HTTPProvider) HouseCusps(ctx context.Context, instant time.Time, latitude, longitude float64) (contracts.HouseData, error) {
	q := url.Values{}
	q.Set("at", instant.UTC().Format(time.RFC3339))
	q.Set("lat", strconv.FormatFloat(latitude, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(longitude, 'f', 6, 64))

	var resp housesResponse
	if err := p.client.GetJSON(ctx, p.baseURL+"/v1/houses?"+q.Encode(), &resp); err != nil {
		return contracts.HouseData{}, unavailable(ctx, err, "houses at %s", instant.Format(time.RFC3339))
	}

	if len(resp.Cusps) != 12 {
		p.logger.WithField("cusps", len(resp.Cusps)).Warn("Ephemeris returned malformed house data")
		return contracts.HouseData{}, fmt.Errorf("%w: expected 12 cusps, got %d", contracts.ErrProviderUnavailable, len(resp.Cusps))
	}

	h := contracts.HouseData{
		Ascendant: aspect.Normalize(resp.Ascendant),
		Midheaven: aspect.Normalize(resp.Midheaven),
	}
	for i, c := range resp.Cusps {
		h.Cusps[i] = aspect.Normalize(c)
	}
	return h, nil
}

// unavailable wraps transport and status failures as ErrProviderUnavailable,
// leaving context cancellation untouched so callers can stop scanning
func unavailable(ctx context.Context, err error, format string, args ...interface{}) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", contracts.ErrProviderUnavailable, fmt.Sprintf(format, args...), err)
}
