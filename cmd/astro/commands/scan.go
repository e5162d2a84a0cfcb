package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/astro/internal/contracts"
	"github.com/wonny/astro/internal/transit"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "트랜짓 스캔",
	Long: `한 천체가 차트의 감응점과 이루는 모든 각을 기간 내에서 찾습니다.

Example:
  go run ./cmd/astro scan --birth 1990-06-01T04:30:00Z --lat 37.5 --lon 127 --body saturn
  go run ./cmd/astro scan --birth 1990-06-01T04:30:00Z --body mars --points sun,asc --from 2026-01-01 --to 2026-12-31 --orb 1`,
	RunE: runScan,
}

var (
	scanBody   string
	scanPoints []string
	scanFrom   string
	scanTo     string
	scanOrb    float64
)

func init() {
	rootCmd.AddCommand(scanCmd)

	addBirthFlags(scanCmd)
	scanCmd.Flags().StringVar(&scanBody, "body", "", "트랜짓 천체 (sun..pluto)")
	scanCmd.Flags().StringSliceVar(&scanPoints, "points", nil, "감응점 (기본: 10천체 + asc + mc)")
	scanCmd.Flags().StringVar(&scanFrom, "from", "", "시작일 YYYY-MM-DD (기본: 오늘)")
	scanCmd.Flags().StringVar(&scanTo, "to", "", "종료일 YYYY-MM-DD (기본: 시작 + 1년)")
	scanCmd.Flags().Float64Var(&scanOrb, "orb", 0, "허용 orb (기본: SCAN_DEFAULT_ORB)")
	_ = scanCmd.MarkFlagRequired("body")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	body, err := contracts.ParseBody(scanBody)
	if err != nil {
		return err
	}
	points := make([]contracts.Point, 0, len(scanPoints))
	for _, s := range scanPoints {
		p, err := contracts.ParsePoint(s)
		if err != nil {
			return err
		}
		points = append(points, p)
	}
	r, err := flagRange(scanFrom, scanTo, 365)
	if err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	orb := scanOrb
	if orb == 0 {
		orb = a.cfg.Engine.ScanDefaultOrb
	}

	e, err := a.chartEngine(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	events, err := e.ScanPoints(ctx, body, points, r, orb)
	if err != nil {
		return err
	}

	PrintHeader("Transit Scan", [][2]string{
		{"Body", string(body)},
		{"Period", r.Start.Format("2006-01-02") + " ~ " + r.End.Format("2006-01-02")},
		{"Orb", fmt.Sprintf("%.1f°", orb)},
	})
	PrintEvents(events)
	fmt.Println()
	PrintSuccess(fmt.Sprintf("%d events in %.2fs", len(events), time.Since(start).Seconds()))
	return nil
}

// flagRange resolves --from/--to; to defaults to from + days
func flagRange(from, to string, days int) (transit.Range, error) {
	start, err := parseDay(from)
	if err != nil {
		return transit.Range{}, err
	}
	end := start.AddDate(0, 0, days)
	if to != "" {
		if end, err = parseDay(to); err != nil {
			return transit.Range{}, err
		}
	}
	r := transit.Range{Start: start, End: end}
	return r, r.Validate()
}
