package handlers

import (
	"net/http"
	"time"

	"github.com/wonny/astro/internal/engine"
	"github.com/wonny/astro/internal/transit"
	"github.com/wonny/astro/pkg/logger"
)

// maxScanSpan 한 요청의 최대 스캔 범위
const maxScanSpan = 5 * 366 * 24 * time.Hour

// TransitHandler handles transit scan and forecast endpoints
type TransitHandler struct {
	registry   *engine.Registry
	defaultOrb float64
	logger     *logger.Logger
	now        func() time.Time
}

// NewTransitHandler creates a new transit handler; defaultOrb applies to
// scan requests without an orb (SCAN_DEFAULT_ORB)
func NewTransitHandler(registry *engine.Registry, defaultOrb float64, log *logger.Logger) *TransitHandler {
	return &TransitHandler{
		registry:   registry,
		defaultOrb: defaultOrb,
		logger:     log.Component("api.transit"),
		now:        time.Now,
	}
}

// ScanRequest POST /api/charts/{id}/transits/scan
type ScanRequest struct {
	Body   string    `json:"body" validate:"required"`
	Points []string  `json:"points" validate:"omitempty,max=24,dive,required"` // 비우면 natal.DefaultTargets
	Start  time.Time `json:"start" validate:"required"`
	End    time.Time `json:"end" validate:"required,gtfield=Start"`
	Orb    *float64  `json:"orb" validate:"omitempty,gte=0,lte=15"`
}

// ForecastRequest POST /api/charts/{id}/forecast
type ForecastRequest struct {
	Bodies []string   `json:"bodies" validate:"omitempty,max=10,dive,required"`
	Points []string   `json:"points" validate:"omitempty,max=24,dive,required"`
	Start  *time.Time `json:"start"`
	Days   int        `json:"days" default:"365" validate:"min=1,max=1095"`
}

// Scan finds every aspect one body forms to the chart's points in a range
func (h *TransitHandler) Scan(w http.ResponseWriter, r *http.Request) {
	e, err := lookup(h.registry, r)
	if err != nil {
		respondErr(w, err)
		return
	}

	var req ScanRequest
	if errs := decodeRequest(r, &req); errs != nil {
		respondValidation(w, errs)
		return
	}
	if req.End.Sub(req.Start) > maxScanSpan {
		respondError(w, http.StatusBadRequest, "scan range is limited to 5 years")
		return
	}

	bodies, err := parseBodies([]string{req.Body})
	if err != nil {
		respondErr(w, err)
		return
	}
	points, err := parsePoints(req.Points)
	if err != nil {
		respondErr(w, err)
		return
	}

	orb := h.defaultOrb
	if req.Orb != nil {
		orb = *req.Orb
	}

	rng := transit.Range{Start: req.Start.UTC(), End: req.End.UTC()}
	events, err := e.ScanPoints(r.Context(), bodies[0], points, rng, orb)
	if err != nil {
		h.logger.WithError(err).WithField("body", req.Body).Warn("Transit scan failed")
		respondErr(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"chart_id": e.Chart().ID(),
		"events":   events,
	})
}

// Forecast returns the headline events of the coming period
func (h *TransitHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	e, err := lookup(h.registry, r)
	if err != nil {
		respondErr(w, err)
		return
	}

	var req ForecastRequest
	if errs := decodeRequest(r, &req); errs != nil {
		respondValidation(w, errs)
		return
	}

	bodies, err := parseBodies(req.Bodies)
	if err != nil {
		respondErr(w, err)
		return
	}
	points, err := parsePoints(req.Points)
	if err != nil {
		respondErr(w, err)
		return
	}

	start := h.now().UTC().Truncate(24 * time.Hour)
	if req.Start != nil {
		start = req.Start.UTC()
	}
	rng := transit.Range{Start: start, End: start.AddDate(0, 0, req.Days)}

	events, err := e.ForecastEvents(r.Context(), bodies, points, rng)
	if err != nil {
		h.logger.WithError(err).Warn("Forecast failed")
		respondErr(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"chart_id": e.Chart().ID(),
		"from":     rng.Start,
		"to":       rng.End,
		"events":   events,
	})
}
