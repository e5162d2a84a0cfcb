package commands

import (
	"fmt"
	"strings"

	"github.com/wonny/astro/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// PrintHeader prints a titled block with key-value lines
func PrintHeader(title string, kv [][2]string) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", title)
	PrintSeparator()
	for _, p := range kv {
		fmt.Printf("  %-10s: %s\n", p[0], p[1])
	}
	PrintSeparator()
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Printf("⚠️  %s\n", message)
}

// PrintTableHeader prints a table header
func PrintTableHeader(columns []string, widths []int) {
	PrintTableRow(columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Println(strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row
func PrintTableRow(values []string, widths []int) {
	for i, val := range values {
		fmt.Printf("%-*s", widths[i], val)
		if i < len(values)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()
}

var eventColumns = []string{"DATE", "BODY", "ASPECT", "POINT", "ORB", "SIG"}
var eventWidths = []int{16, 8, 11, 10, 5, 3}

// PrintEvents prints transit events as a table
func PrintEvents(events []contracts.TransitEvent) {
	if len(events) == 0 {
		PrintWarning("No events in range")
		return
	}
	PrintTableHeader(eventColumns, eventWidths)
	for _, e := range events {
		PrintTableRow([]string{
			e.Date.Format("2006-01-02 15:04"),
			string(e.Body),
			string(e.Aspect),
			string(e.Point),
			fmt.Sprintf("%.2f", e.Orb),
			fmt.Sprintf("%d", e.Significance),
		}, eventWidths)
	}
}

// scoreBar renders a 5-95 score as a 20 cell bar
func scoreBar(v int) string {
	n := v / 5
	return strings.Repeat("█", n) + strings.Repeat("░", 20-n)
}
