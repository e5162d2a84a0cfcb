package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/astro/internal/contracts"
)

// forecastCmd represents the forecast command
var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "주요 트랜짓 예보",
	Long: `모든 천체를 스캔하여 (천체, 감응점) 쌍별 첫 이벤트, 월별 최고 중요도
이벤트 하나로 줄인 예보를 출력합니다. DATABASE_URL이 설정되면 결과를 보관합니다.

Example:
  go run ./cmd/astro forecast --birth 1990-06-01T04:30:00Z --lat 37.5 --lon 127
  go run ./cmd/astro forecast --birth 1990-06-01T04:30:00Z --bodies jupiter,saturn --days 730`,
	RunE: runForecast,
}

var (
	forecastBodies []string
	forecastFrom   string
	forecastDays   int
)

func init() {
	rootCmd.AddCommand(forecastCmd)

	addBirthFlags(forecastCmd)
	forecastCmd.Flags().StringSliceVar(&forecastBodies, "bodies", nil, "스캔 천체 (기본: 전체)")
	forecastCmd.Flags().StringVar(&forecastFrom, "from", "", "시작일 YYYY-MM-DD (기본: 오늘)")
	forecastCmd.Flags().IntVar(&forecastDays, "days", 365, "예보 일수")
}

func runForecast(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	bodies := make([]contracts.Body, 0, len(forecastBodies))
	for _, s := range forecastBodies {
		b, err := contracts.ParseBody(s)
		if err != nil {
			return err
		}
		bodies = append(bodies, b)
	}
	r, err := flagRange(forecastFrom, "", forecastDays)
	if err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	e, err := a.chartEngine(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	events, err := e.ForecastEvents(ctx, bodies, nil, r)
	if err != nil {
		return err
	}

	PrintHeader("Forecast", [][2]string{
		{"Chart", e.Chart().ID().String()},
		{"Period", r.Start.Format("2006-01-02") + " ~ " + r.End.Format("2006-01-02")},
		{"Orb", fmt.Sprintf("%.1f°", a.cfg.Engine.ForecastOrb)},
	})
	PrintEvents(events)
	fmt.Println()
	if a.events != nil {
		PrintSuccess("Events archived")
	}
	PrintSuccess(fmt.Sprintf("%d events in %.2fs", len(events), time.Since(start).Seconds()))
	return nil
}
