package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/checkmateLL/dxf-checker/internal/config"
	"github.com/checkmateLL/dxf-checker/internal/history"
)

var historyLimitFlag int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded checker runs",
	Long: `History lists recent checker runs from the local ledger, newest
first, with their per-check defect counts. Runs are recorded by the
check command unless --no-history or history.enabled=false turned
recording off.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "n", 10, "Maximum number of runs to list")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	path, err := historyPath(cfg)
	if err != nil {
		return err
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(historyLimitFlag)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	fmt.Printf("Recorded runs (%d):\n", len(runs))
	for _, r := range runs {
		formatRun(r)
	}
	return nil
}

func formatRun(r history.Run) {
	fmt.Printf("  %s  %s\n", shortRunID(r.ID), r.Input)
	fmt.Printf("    When:     %s (%s)\n", r.StartedAt.Local().Format("2006-01-02 15:04"), formatTimeSince(r.StartedAt))
	fmt.Printf("    Entities: %s\n", formatNumber(r.EntityCount))

	defects := fmt.Sprintf("%d", r.TotalDefects)
	if r.TotalDefects > 0 {
		defects = color.New(color.FgRed, color.Bold).Sprintf("%d", r.TotalDefects)
	}
	if breakdown := formatCheckRecords(r.Checks); breakdown != "" {
		defects += " (" + breakdown + ")"
	}
	fmt.Printf("    Defects:  %s\n", defects)

	if r.WarningCount > 0 {
		fmt.Printf("    Warnings: %d\n", r.WarningCount)
	}
	fmt.Printf("    Duration: %.1fs\n", r.Duration.Seconds())
	fmt.Println()
}

// formatCheckRecords renders the per-check outcomes of one run, keeping
// only the checks that found something or crashed.
func formatCheckRecords(records []history.CheckRecord) string {
	var parts []string
	for _, c := range records {
		switch {
		case c.Failure != "":
			parts = append(parts, fmt.Sprintf("%s failed", c.Kind))
		case c.DefectCount > 0:
			parts = append(parts, fmt.Sprintf("%s %d", c.Kind, c.DefectCount))
		}
	}
	return strings.Join(parts, ", ")
}

// shortRunID truncates a run UUID to its first group for display.
func shortRunID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// formatTimeSince formats a timestamp as time ago.
// Examples: "5m ago", "2h ago", "3d ago"
func formatTimeSince(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	since := time.Since(t)

	days := int(since.Hours() / 24)
	hours := int(since.Hours()) % 24
	minutes := int(since.Minutes()) % 60

	if days > 0 {
		if hours > 0 {
			return fmt.Sprintf("%dd %dh ago", days, hours)
		}
		return fmt.Sprintf("%dd ago", days)
	}

	if hours > 0 {
		if minutes > 0 {
			return fmt.Sprintf("%dh %dm ago", hours, minutes)
		}
		return fmt.Sprintf("%dh ago", hours)
	}

	if minutes > 0 {
		return fmt.Sprintf("%dm ago", minutes)
	}

	return fmt.Sprintf("%ds ago", int(since.Seconds()))
}

// formatNumber formats an integer with thousand separators.
// Examples: 1234 -> "1,234", 1234567 -> "1,234,567"
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var result string
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
