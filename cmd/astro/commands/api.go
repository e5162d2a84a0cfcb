package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/astro/internal/api"
	"github.com/wonny/astro/internal/api/handlers"
	"github.com/wonny/astro/internal/scheduler"
	"github.com/wonny/astro/internal/scheduler/jobs"
	"github.com/wonny/astro/pkg/metrics"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버와 백그라운드 스케줄러를 시작합니다.

Endpoints:
  GET    /health                              - Health check
  GET    /metrics                             - Prometheus metrics
  POST   /api/charts                          - 차트 생성
  GET    /api/charts                          - 차트 목록
  GET    /api/charts/{id}                     - 차트 조회
  DELETE /api/charts/{id}                     - 차트 삭제
  GET    /api/charts/{id}/events              - 보관된 예보 이벤트
  GET    /api/charts/{id}/scores              - 전체 기간 점수
  GET    /api/charts/{id}/scores/{horizon}    - 기간별 점수
  POST   /api/charts/{id}/transits/scan       - 트랜짓 스캔
  POST   /api/charts/{id}/forecast            - 예보
  GET    /api/jobs                            - 스케줄 작업 상태

Example:
  go run ./cmd/astro api
  go run ./cmd/astro api --port 8080 --no-scheduler`,
	RunE: runAPIServer,
}

var (
	apiPort     string
	noScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT)")
	apiCmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "백그라운드 작업 비활성화")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Astro API Server ===")

	// 1. Wire dependencies
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	cfg, log := a.cfg, a.log
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Scheduler
	var sched *scheduler.Scheduler
	if !noScheduler {
		sched = scheduler.New(log)
		if err := sched.AddJob(jobs.NewScoreRefreshJob(a.registry, cfg.Engine.ScoreRefreshSchedule, nil, log)); err != nil {
			return fmt.Errorf("add score refresh job: %w", err)
		}
		if a.events != nil {
			if err := sched.AddJob(jobs.NewForecastArchiveJob(a.registry, cfg.Engine.ForecastArchiveSchedule, 0, log)); err != nil {
				return fmt.Errorf("add forecast archive job: %w", err)
			}
		}
		sched.Start()
		defer sched.Stop()
	}

	// 3. Handlers
	checks := map[string]handlers.Pinger{}
	if a.db != nil {
		checks["database"] = a.db
	}
	if a.redis.Enabled() {
		checks["redis"] = a.redis
	}

	h := api.Handlers{
		Charts:  handlers.NewChartHandler(a.registry, archiveOf(a), log),
		Scores:  handlers.NewScoreHandler(a.registry, log),
		Transit: handlers.NewTransitHandler(a.registry, cfg.Engine.ScanDefaultOrb, log),
		System:  handlers.NewSystemHandler(checks, sched, log),
	}
	if a.gatherer != nil {
		h.Metrics = metrics.Handler(a.gatherer)
	}

	// 4. Server with graceful shutdown
	server := api.New(cfg, log, api.NewRouter(h, log))
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return err
	}

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

// archiveOf avoids handing a typed nil repository to the handler
func archiveOf(a *app) handlers.EventArchive {
	if a.events == nil {
		return nil
	}
	return a.events
}
