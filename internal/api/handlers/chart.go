package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/wonny/astro/internal/contracts"
	"github.com/wonny/astro/internal/engine"
	"github.com/wonny/astro/internal/natal"
	"github.com/wonny/astro/pkg/logger"
)

// EventArchive read side of the transit event archive (transit.Repository)
type EventArchive interface {
	GetEventsByRange(ctx context.Context, chartID uuid.UUID, from, to time.Time) ([]contracts.TransitEvent, error)
	DeleteChart(ctx context.Context, chartID uuid.UUID) (int64, error)
}

// ChartHandler handles chart lifecycle endpoints
// ⭐ SSOT: 차트 API 핸들러는 이 구조체에서만
type ChartHandler struct {
	registry *engine.Registry
	archive  EventArchive // nil = no database
	logger   *logger.Logger
}

// NewChartHandler creates a new chart handler; archive may be nil
func NewChartHandler(registry *engine.Registry, archive EventArchive, log *logger.Logger) *ChartHandler {
	return &ChartHandler{
		registry: registry,
		archive:  archive,
		logger:   log.Component("api.chart"),
	}
}

// CreateChartRequest POST /api/charts
type CreateChartRequest struct {
	Instant   time.Time `json:"instant" validate:"required"`
	Latitude  *float64  `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64  `json:"longitude" validate:"required,gte=-180,lte=180"`
}

// ChartResponse natal chart view
type ChartResponse struct {
	ID        uuid.UUID                     `json:"id"`
	Birth     natal.BirthData               `json:"birth"`
	Positions []contracts.CelestialPosition `json:"positions"`
	Ascendant *float64                      `json:"ascendant,omitempty"`
	Midheaven *float64                      `json:"midheaven,omitempty"`
	Cusps     []float64                     `json:"cusps,omitempty"`
}

func newChartResponse(c *natal.Chart) ChartResponse {
	resp := ChartResponse{
		ID:        c.ID(),
		Birth:     c.Birth(),
		Positions: make([]contracts.CelestialPosition, 0, len(contracts.Bodies)),
	}
	for _, b := range c.Bodies() {
		if p, ok := c.Position(b); ok {
			resp.Positions = append(resp.Positions, p)
		}
	}
	if asc, ok := c.Ascendant(); ok {
		resp.Ascendant = &asc
	}
	if mc, ok := c.Midheaven(); ok {
		resp.Midheaven = &mc
	}
	if c.HasHouses() {
		resp.Cusps = make([]float64, 0, 12)
		for n := 1; n <= 12; n++ {
			cusp, _ := c.House(n)
			resp.Cusps = append(resp.Cusps, cusp)
		}
	}
	return resp
}

// Create builds and registers a chart
// POST /api/charts
func (h *ChartHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateChartRequest
	if errs := decodeRequest(r, &req); errs != nil {
		respondValidation(w, errs)
		return
	}

	e, err := h.registry.Create(r.Context(), natal.BirthData{
		Instant:   req.Instant.UTC(),
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	})
	if err != nil {
		h.logger.WithError(err).Warn("Failed to create chart")
		respondErr(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, newChartResponse(e.Chart()))
}

// Get returns a registered chart
// GET /api/charts/{id}
func (h *ChartHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.engine(r)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newChartResponse(e.Chart()))
}

// List returns the registered chart IDs
// GET /api/charts
func (h *ChartHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"charts": h.registry.IDs(),
	})
}

// Delete unregisters a chart and drops its archived events
// DELETE /api/charts/{id}
func (h *ChartHandler) Delete(w http.ResponseWriter, r *http.Request) {
	e, err := h.engine(r)
	if err != nil {
		respondErr(w, err)
		return
	}
	id := e.Chart().ID()
	h.registry.Remove(id)

	var deleted int64
	if h.archive != nil {
		deleted, err = h.archive.DeleteChart(r.Context(), id)
		if err != nil {
			h.logger.WithError(err).WithField("chart_id", id.String()).Error("Failed to delete archived events")
			respondError(w, http.StatusInternalServerError, "failed to delete archived events")
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"id":             id,
		"events_deleted": deleted,
	})
}

// Events returns archived forecast events
// GET /api/charts/{id}/events?from=2026-01-01&to=2026-12-31
func (h *ChartHandler) Events(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		respondError(w, http.StatusServiceUnavailable, "event archive not configured")
		return
	}
	e, err := h.engine(r)
	if err != nil {
		respondErr(w, err)
		return
	}

	// 기본: 오늘부터 1년
	today := time.Now().UTC().Truncate(24 * time.Hour)
	q := r.URL.Query()
	from, err := parseDate(q.Get("from"), today)
	if err != nil {
		respondErr(w, err)
		return
	}
	to, err := parseDate(q.Get("to"), from.AddDate(1, 0, 0))
	if err != nil {
		respondErr(w, err)
		return
	}
	if to.Before(from) {
		respondError(w, http.StatusBadRequest, "to must not be before from")
		return
	}

	events, err := h.archive.GetEventsByRange(r.Context(), e.Chart().ID(), from, to)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get archived events")
		respondError(w, http.StatusInternalServerError, "failed to get events")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
	})
}

// engine resolves the {id} path variable
func (h *ChartHandler) engine(r *http.Request) (*engine.Engine, error) {
	return lookup(h.registry, r)
}

func lookup(registry *engine.Registry, r *http.Request) (*engine.Engine, error) {
	raw := mux.Vars(r)["id"]
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: chart id %q", contracts.ErrInvalidInput, raw)
	}
	return registry.Get(id)
}
