package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/astro/internal/contracts"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "기간별 점수 계산",
	Long: `출생 차트의 종합/연애/직업/재물 점수를 계산합니다 (5-95).

Example:
  go run ./cmd/astro score --birth 1990-06-01T04:30:00Z --lat 37.5 --lon 127
  go run ./cmd/astro score --birth 1990-06-01T04:30:00Z --lat 37.5 --lon 127 --horizon year --date 2027-01-01`,
	RunE: runScore,
}

var (
	scoreHorizon string
	scoreDate    string
)

func init() {
	rootCmd.AddCommand(scoreCmd)

	addBirthFlags(scoreCmd)
	scoreCmd.Flags().StringVar(&scoreHorizon, "horizon", "", "day|week|month|year (기본: 전체)")
	scoreCmd.Flags().StringVar(&scoreDate, "date", "", "기준일 YYYY-MM-DD (기본: 오늘)")
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	horizons := contracts.Horizons
	if scoreHorizon != "" {
		h, err := contracts.ParseHorizon(scoreHorizon)
		if err != nil {
			return err
		}
		horizons = []contracts.Horizon{h}
	}
	date, err := parseDay(scoreDate)
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

	for _, h := range horizons {
		set, err := e.ScoreSet(ctx, h, date)
		if err != nil {
			return fmt.Errorf("score %s: %w", h, err)
		}

		PrintHeader("Scores", [][2]string{
			{"Horizon", string(h)},
			{"Period", h.PeriodKey(set.ReferenceDate)},
		})
		for _, d := range contracts.Dimensions {
			v := set.Get(d)
			fmt.Printf("  %-8s %2d  %s\n", d, v, scoreBar(v))
		}
	}
	return nil
}
