package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/astro/internal/api/handlers"
	"github.com/wonny/astro/internal/contracts"
	"github.com/wonny/astro/internal/engine"
	"github.com/wonny/astro/internal/ephemeris"
	"github.com/wonny/astro/internal/natal"
	"github.com/wonny/astro/pkg/logger"
	"github.com/wonny/astro/pkg/metrics"
)

const birthJSON = `{"instant":"1990-06-01T04:30:00Z","latitude":37.5,"longitude":127}`

type fakeArchive struct {
	events  []contracts.TransitEvent
	deleted []uuid.UUID
}

func (a *fakeArchive) GetEventsByRange(ctx context.Context, id uuid.UUID, from, to time.Time) ([]contracts.TransitEvent, error) {
	return a.events, nil
}

func (a *fakeArchive) DeleteChart(ctx context.Context, id uuid.UUID) (int64, error) {
	a.deleted = append(a.deleted, id)
	return int64(len(a.events)), nil
}

type pinger struct{ err error }

func (p pinger) Ping(ctx context.Context) error { return p.err }

type testServer struct {
	handler  http.Handler
	registry *engine.Registry
}

func newTestServer(t *testing.T, archive handlers.EventArchive, checks map[string]handlers.Pinger) *testServer {
	t.Helper()
	log := logger.Nop()
	reg := prometheus.NewRegistry()
	registry := engine.NewRegistry(engine.Deps{
		Provider: ephemeris.NewMeanMotion(),
		Metrics:  metrics.NewCollector(reg),
		Logger:   log,
	})

	return &testServer{
		registry: registry,
		handler: NewRouter(Handlers{
			Charts:  handlers.NewChartHandler(registry, archive, log),
			Scores:  handlers.NewScoreHandler(registry, log),
			Transit: handlers.NewTransitHandler(registry, 2, log),
			System:  handlers.NewSystemHandler(checks, nil, log),
			Metrics: metrics.Handler(reg),
		}, log),
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var out map[string]interface{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func (s *testServer) createChart(t *testing.T) string {
	t.Helper()
	rec, out := s.do(t, "POST", "/api/charts", birthJSON)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return out["id"].(string)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]handlers.Pinger
		wantCode   int
		wantStatus string
	}{
		{name: "no dependencies", checks: nil, wantCode: http.StatusOK, wantStatus: "ok"},
		{name: "all up", checks: map[string]handlers.Pinger{"redis": pinger{}}, wantCode: http.StatusOK, wantStatus: "ok"},
		{
			name:       "database down",
			checks:     map[string]handlers.Pinger{"redis": pinger{}, "database": pinger{err: errors.New("refused")}},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil, tt.checks)
			rec, out := s.do(t, "GET", "/health", "")
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantStatus, out["status"])
		})
	}
}

func TestCreateAndGetChart(t *testing.T) {
	s := newTestServer(t, nil, nil)
	id := s.createChart(t)

	rec, out := s.do(t, "GET", "/api/charts/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, out["id"])
	assert.Len(t, out["positions"], len(contracts.Bodies))
	assert.Len(t, out["cusps"], 12)
	assert.NotNil(t, out["ascendant"])

	rec, out = s.do(t, "GET", "/api/charts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{id}, out["charts"])
}

func TestCreateChart_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "latitude out of range", body: `{"instant":"1990-06-01T04:30:00Z","latitude":91,"longitude":127}`},
		{name: "missing longitude", body: `{"instant":"1990-06-01T04:30:00Z","latitude":10}`},
		{name: "missing instant", body: `{"latitude":10,"longitude":10}`},
		{name: "unknown field", body: `{"instant":"1990-06-01T04:30:00Z","latitude":10,"longitude":10,"tz":"KST"}`},
		{name: "malformed json", body: `{"instant":`},
	}

	s := newTestServer(t, nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, out := s.do(t, "POST", "/api/charts", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, out["fields"])
		})
	}
}

func TestGetChart_Errors(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec, _ := s.do(t, "GET", "/api/charts/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, "GET", "/api/charts/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, "GET", "/api/nothing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScores(t *testing.T) {
	s := newTestServer(t, nil, nil)
	id := s.createChart(t)

	rec, out := s.do(t, "GET", "/api/charts/"+id+"/scores/week?date=2026-10-15", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "2026-W42", out["period"])

	scores := out["scores"].(map[string]interface{})
	assert.Equal(t, "week", scores["horizon"])
	for _, d := range []string{"overall", "love", "career", "wealth"} {
		v := scores[d].(float64)
		assert.GreaterOrEqual(t, v, float64(contracts.ScoreMin), d)
		assert.LessOrEqual(t, v, float64(contracts.ScoreMax), d)
	}

	rec, out = s.do(t, "GET", "/api/charts/"+id+"/scores?date=2026-10-15T09:00:00Z", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, out["scores"], len(contracts.Horizons))
}

func TestScores_Errors(t *testing.T) {
	s := newTestServer(t, nil, nil)
	id := s.createChart(t)

	tests := []struct {
		name     string
		path     string
		wantCode int
	}{
		{name: "unknown horizon", path: "/api/charts/" + id + "/scores/decade", wantCode: http.StatusBadRequest},
		{name: "bad date", path: "/api/charts/" + id + "/scores/day?date=15.10.2026", wantCode: http.StatusBadRequest},
		{name: "unknown chart", path: "/api/charts/" + uuid.NewString() + "/scores/day", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := s.do(t, "GET", tt.path, "")
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestScan(t *testing.T) {
	s := newTestServer(t, nil, nil)
	id := s.createChart(t)

	body := `{"body":"moon","points":["sun"],"start":"2026-10-01T00:00:00Z","end":"2026-11-01T00:00:00Z"}`
	rec, out := s.do(t, "POST", "/api/charts/"+id+"/transits/scan", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	events := out["events"].([]interface{})
	// 달은 한 달에 모든 각을 지난다
	require.NotEmpty(t, events)
	for _, raw := range events {
		ev := raw.(map[string]interface{})
		assert.Equal(t, "moon", ev["body"])
		assert.Equal(t, "sun", ev["point"])
		assert.LessOrEqual(t, ev["orb"].(float64), 2.0)
	}
}

func TestScan_DefaultPoints(t *testing.T) {
	s := newTestServer(t, nil, nil)
	id := s.createChart(t)

	body := `{"body":"moon","start":"2026-10-01T00:00:00Z","end":"2026-11-01T00:00:00Z"}`
	rec, out := s.do(t, "POST", "/api/charts/"+id+"/transits/scan", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	events := out["events"].([]interface{})
	require.NotEmpty(t, events, "omitted points scan the default targets")

	allowed := map[string]bool{}
	for _, p := range natal.DefaultTargets {
		allowed[string(p)] = true
	}
	points := map[string]bool{}
	for _, raw := range events {
		point := raw.(map[string]interface{})["point"].(string)
		assert.True(t, allowed[point], "unexpected point %s", point)
		points[point] = true
	}
	assert.True(t, points["sun"], "moon meets the natal sun within a month")
}

func TestScan_Invalid(t *testing.T) {
	s := newTestServer(t, nil, nil)
	id := s.createChart(t)
	path := "/api/charts/" + id + "/transits/scan"

	tests := []struct {
		name string
		body string
	}{
		{name: "end before start", body: `{"body":"moon","start":"2026-11-01T00:00:00Z","end":"2026-10-01T00:00:00Z"}`},
		{name: "unknown body", body: `{"body":"vulcan","start":"2026-10-01T00:00:00Z","end":"2026-11-01T00:00:00Z"}`},
		{name: "unknown point", body: `{"body":"moon","points":["house13"],"start":"2026-10-01T00:00:00Z","end":"2026-11-01T00:00:00Z"}`},
		{name: "orb too wide", body: `{"body":"moon","orb":20,"start":"2026-10-01T00:00:00Z","end":"2026-11-01T00:00:00Z"}`},
		{name: "range too long", body: `{"body":"moon","start":"2020-01-01T00:00:00Z","end":"2030-01-01T00:00:00Z"}`},
		{name: "missing body", body: `{"start":"2026-10-01T00:00:00Z","end":"2026-11-01T00:00:00Z"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := s.do(t, "POST", path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestForecast(t *testing.T) {
	s := newTestServer(t, nil, nil)
	id := s.createChart(t)

	body := `{"bodies":["saturn","jupiter","sun"],"start":"2026-10-01T00:00:00Z","days":120}`
	rec, out := s.do(t, "POST", "/api/charts/"+id+"/forecast", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	events := out["events"].([]interface{})
	seen := make(map[string]bool)
	months := make(map[string]bool)
	for _, raw := range events {
		ev := raw.(map[string]interface{})
		pair := ev["body"].(string) + "/" + ev["point"].(string)
		assert.False(t, seen[pair], "pair %s repeated", pair)
		seen[pair] = true

		month := ev["date"].(string)[:7]
		assert.False(t, months[month], "month %s repeated", month)
		months[month] = true
	}
	assert.Equal(t, "2027-01-29T00:00:00Z", out["to"])

	rec, _ = s.do(t, "POST", "/api/charts/"+id+"/forecast", `{"days":5000}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventsAndDelete(t *testing.T) {
	t.Run("no archive", func(t *testing.T) {
		s := newTestServer(t, nil, nil)
		id := s.createChart(t)
		rec, _ := s.do(t, "GET", "/api/charts/"+id+"/events", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("with archive", func(t *testing.T) {
		archive := &fakeArchive{events: []contracts.TransitEvent{{
			Body: contracts.Saturn, Aspect: contracts.Conjunction, Point: contracts.BodyPoint(contracts.Sun),
			Date: time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC), Significance: 16,
		}}}
		s := newTestServer(t, archive, nil)
		id := s.createChart(t)

		rec, out := s.do(t, "GET", "/api/charts/"+id+"/events?from=2026-10-01&to=2026-12-31", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, out["events"], 1)

		rec, _ = s.do(t, "GET", "/api/charts/"+id+"/events?from=2026-12-31&to=2026-10-01", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec, out = s.do(t, "DELETE", "/api/charts/"+id, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1.0, out["events_deleted"])
		require.Len(t, archive.deleted, 1)
		assert.Equal(t, id, archive.deleted[0].String())

		rec, _ = s.do(t, "GET", "/api/charts/"+id, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestJobsAndMetrics(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec, out := s.do(t, "GET", "/api/jobs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, out["jobs"])

	id := s.createChart(t)
	s.do(t, "GET", "/api/charts/"+id+"/scores/day?date=2026-10-15", "")

	rec, _ = s.do(t, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `astro_scores_computed_total{horizon="day"} 1`)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec, _ := s.do(t, "GET", "/health", "")
	_, err := uuid.Parse(rec.Header().Get("X-Request-ID"))
	assert.NoError(t, err, "generated when absent")

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "trace-42")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, "trace-42", rec.Header().Get("X-Request-ID"))
}
