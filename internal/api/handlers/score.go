package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/astro/internal/contracts"
	"github.com/wonny/astro/internal/engine"
	"github.com/wonny/astro/pkg/logger"
)

// ScoreHandler handles score endpoints
type ScoreHandler struct {
	registry *engine.Registry
	logger   *logger.Logger
	now      func() time.Time
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(registry *engine.Registry, log *logger.Logger) *ScoreHandler {
	return &ScoreHandler{
		registry: registry,
		logger:   log.Component("api.score"),
		now:      time.Now,
	}
}

// Get returns the chart's scores for one horizon
// GET /api/charts/{id}/scores/{horizon}?date=2026-10-15
func (h *ScoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := lookup(h.registry, r)
	if err != nil {
		respondErr(w, err)
		return
	}

	horizon, err := contracts.ParseHorizon(mux.Vars(r)["horizon"])
	if err != nil {
		respondErr(w, err)
		return
	}

	date, err := parseDate(r.URL.Query().Get("date"), h.now().UTC())
	if err != nil {
		respondErr(w, err)
		return
	}

	set, err := e.ScoreSet(r.Context(), horizon, date)
	if err != nil {
		h.logger.WithError(err).WithField("horizon", horizon).Error("Failed to compute scores")
		respondErr(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"chart_id": e.Chart().ID(),
		"period":   horizon.PeriodKey(set.ReferenceDate),
		"scores":   set,
	})
}

// All returns the chart's scores for every horizon
// GET /api/charts/{id}/scores?date=2026-10-15
func (h *ScoreHandler) All(w http.ResponseWriter, r *http.Request) {
	e, err := lookup(h.registry, r)
	if err != nil {
		respondErr(w, err)
		return
	}

	date, err := parseDate(r.URL.Query().Get("date"), h.now().UTC())
	if err != nil {
		respondErr(w, err)
		return
	}

	sets := make(map[contracts.Horizon]contracts.ScoreSet, len(contracts.Horizons))
	for _, hz := range contracts.Horizons {
		set, err := e.ScoreSet(r.Context(), hz, date)
		if err != nil {
			h.logger.WithError(err).WithField("horizon", hz).Error("Failed to compute scores")
			respondErr(w, err)
			return
		}
		sets[hz] = set
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"chart_id": e.Chart().ID(),
		"scores":   sets,
	})
}
