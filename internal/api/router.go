package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/wonny/astro/internal/api/handlers"
	"github.com/wonny/astro/pkg/logger"
)

// Handlers groups the endpoint handlers mounted by NewRouter
type Handlers struct {
	Charts  *handlers.ChartHandler
	Scores  *handlers.ScoreHandler
	Transit *handlers.TransitHandler
	System  *handlers.SystemHandler
	Metrics http.Handler // nil = no /metrics route
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(h Handlers, log *logger.Logger) http.Handler {
	r := mux.NewRouter()
	log = log.Component("api")

	// Health check
	r.HandleFunc("/health", h.System.Health).Methods("GET")
	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()

	// Charts
	api.HandleFunc("/charts", h.Charts.Create).Methods("POST")
	api.HandleFunc("/charts", h.Charts.List).Methods("GET")
	api.HandleFunc("/charts/{id}", h.Charts.Get).Methods("GET")
	api.HandleFunc("/charts/{id}", h.Charts.Delete).Methods("DELETE")
	api.HandleFunc("/charts/{id}/events", h.Charts.Events).Methods("GET")

	// Scores
	api.HandleFunc("/charts/{id}/scores", h.Scores.All).Methods("GET")
	api.HandleFunc("/charts/{id}/scores/{horizon}", h.Scores.Get).Methods("GET")

	// Transits
	api.HandleFunc("/charts/{id}/transits/scan", h.Transit.Scan).Methods("POST")
	api.HandleFunc("/charts/{id}/forecast", h.Transit.Forecast).Methods("POST")

	// Scheduler
	api.HandleFunc("/jobs", h.System.Jobs).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(map[string]string{
		"error": "route not found",
	})
}

// statusRecorder captures the response status for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// requestIDHeader 요청 추적 헤더 (없으면 생성)
const requestIDHeader = "X-Request-ID"

// loggingMiddleware tags each request with an ID and logs it
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)
			reqLog := log.WithField("request_id", id)

			next.ServeHTTP(rec, r.WithContext(logger.IntoContext(r.Context(), reqLog)))

			reqLog.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.FromContext(r.Context(), log).WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
