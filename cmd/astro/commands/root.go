package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "astro",
	Short: "Astro - 트랜짓 탐지 및 운세 점수 엔진",
	Long: `Astro Unified CLI

출생 차트 기준 트랜짓 이벤트 탐지, 예보, 기간별 점수 계산.

Usage:
  go run ./cmd/astro [command]

Examples:
  go run ./cmd/astro api
  go run ./cmd/astro score --birth 1990-06-01T04:30:00Z --lat 37.5 --lon 127 --horizon week
  go run ./cmd/astro scan --birth 1990-06-01T04:30:00Z --lat 37.5 --lon 127 --body saturn
  go run ./cmd/astro forecast --birth 1990-06-01T04:30:00Z --lat 37.5 --lon 127
  go run ./cmd/astro rules check rules.yaml`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (LOG_LEVEL=debug)")
}
