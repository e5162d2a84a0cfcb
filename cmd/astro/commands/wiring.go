package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/wonny/astro/internal/contracts"
	"github.com/wonny/astro/internal/engine"
	"github.com/wonny/astro/internal/ephemeris"
	"github.com/wonny/astro/internal/natal"
	"github.com/wonny/astro/internal/scorecache"
	"github.com/wonny/astro/internal/scoring"
	"github.com/wonny/astro/internal/transit"
	"github.com/wonny/astro/pkg/config"
	"github.com/wonny/astro/pkg/database"
	"github.com/wonny/astro/pkg/httputil"
	"github.com/wonny/astro/pkg/logger"
	"github.com/wonny/astro/pkg/metrics"
	"github.com/wonny/astro/pkg/redis"
)

// app shared dependencies of every command
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *database.DB // nil when DATABASE_URL is unset
	events   *transit.Repository
	redis    *redis.Client
	gatherer prometheus.Gatherer
	registry *engine.Registry
}

// newApp loads config and wires provider, caches, archive and registry
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)
	a := &app{cfg: cfg, log: log}

	// 1. Metrics
	var rec metrics.Recorder = metrics.Nop{}
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		rec = metrics.NewCollector(reg)
		a.gatherer = reg
	}

	// 2. Redis (optional)
	a.redis, err = redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	// 3. Database (optional)
	db, err := database.New(cfg)
	switch {
	case errors.Is(err, database.ErrDisabled):
		log.Info("DATABASE_URL not set, forecast archive disabled")
	case err != nil:
		a.close()
		return nil, fmt.Errorf("connect to database: %w", err)
	default:
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			a.close()
			return nil, err
		}
		a.db = db
		a.events = transit.NewRepository(db.Pool)
	}

	// 4. Scoring rules
	rules := scoring.DefaultRules()
	if cfg.Engine.ScoringRulesFile != "" {
		rules, err = scoring.LoadRules(cfg.Engine.ScoringRulesFile)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("load scoring rules: %w", err)
		}
		hash, _ := scoring.Hash(rules)
		log.WithFields(map[string]interface{}{
			"file": cfg.Engine.ScoringRulesFile,
			"hash": hash,
		}).Info("Scoring rules loaded")
	}

	// 5. Engine registry
	deps := engine.Deps{
		Provider:    newProvider(cfg, a.redis, rec, log),
		Rules:       rules,
		Metrics:     rec,
		ForecastOrb: cfg.Engine.ForecastOrb,
		Logger:      log,
	}
	if a.redis.Enabled() {
		deps.Store = scorecache.NewRedisStore(redis.NewCache(a.redis, "astro"))
	}
	if a.events != nil {
		deps.Events = a.events
	}
	a.registry = engine.NewRegistry(deps)

	return a, nil
}

// newProvider builds the configured ephemeris, Redis-cached when enabled
func newProvider(cfg *config.Config, rc *redis.Client, rec metrics.Recorder, log *logger.Logger) contracts.EphemerisProvider {
	var p contracts.EphemerisProvider
	switch cfg.Ephemeris.Mode {
	case "http":
		client := httputil.New(cfg.Ephemeris.Timeout, log).WithRateLimit(cfg.Ephemeris.RateLimit)
		if cfg.Ephemeris.APIKey != "" {
			client = client.WithHeader("X-API-Key", cfg.Ephemeris.APIKey)
		}
		p = ephemeris.NewHTTPProvider(cfg.Ephemeris.BaseURL, client, log)
	default:
		p = ephemeris.NewMeanMotion()
	}

	if rc.Enabled() {
		p = ephemeris.NewCached(p, redis.NewCache(rc, "astro"), cfg.Ephemeris.CacheTTL, rec, log)
	}
	return p
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

// birth flags shared by score, scan and forecast
var (
	birthInstant string
	birthLat     float64
	birthLon     float64
)

func addBirthFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&birthInstant, "birth", "", "출생 시각 (RFC3339, e.g. 1990-06-01T04:30:00Z)")
	cmd.Flags().Float64Var(&birthLat, "lat", 0, "출생지 위도")
	cmd.Flags().Float64Var(&birthLon, "lon", 0, "출생지 경도")
	_ = cmd.MarkFlagRequired("birth")
}

// chartEngine builds the chart given by the birth flags
func (a *app) chartEngine(ctx context.Context) (*engine.Engine, error) {
	instant, err := time.Parse(time.RFC3339, birthInstant)
	if err != nil {
		return nil, fmt.Errorf("invalid --birth: %w", err)
	}
	return a.registry.Create(ctx, natal.BirthData{
		Instant:   instant.UTC(),
		Latitude:  birthLat,
		Longitude: birthLon,
	})
}

// parseDay parses YYYY-MM-DD; empty = today (UTC midnight)
func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}
