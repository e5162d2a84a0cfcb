package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/astro/internal/contracts"
	"github.com/wonny/astro/internal/scoring"
)

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "점수 규칙 테이블 관리",
}

var (
	rulesCheckCmd = &cobra.Command{
		Use:   "check [file]",
		Short: "규칙 YAML 검증 (파일 없으면 기본 규칙)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRulesCheck,
	}
)

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesCheckCmd)
}

func runRulesCheck(cmd *cobra.Command, args []string) error {
	source := "built-in defaults"
	rules := scoring.DefaultRules()
	if len(args) == 1 {
		var err error
		if rules, err = scoring.LoadRules(args[0]); err != nil {
			return err
		}
		source = args[0]
	}

	hash, err := scoring.Hash(rules)
	if err != nil {
		return err
	}

	PrintHeader("Scoring Rules", [][2]string{
		{"Source", source},
		{"Hash", hash[:16]},
	})
	PrintTableHeader([]string{"DIMENSION", "HORIZON", "RULES"}, []int{10, 8, 5})
	for _, d := range contracts.Dimensions {
		for _, h := range contracts.Horizons {
			PrintTableRow([]string{string(d), string(h), fmt.Sprintf("%d", len(rules.Rules(d, h)))}, []int{10, 8, 5})
		}
	}
	fmt.Println()
	PrintSuccess("Rules valid")
	return nil
}
