package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/checkmateLL/dxf-checker/internal/config"
	"github.com/checkmateLL/dxf-checker/internal/history"
)

var (
	cleanOlderThanFlag time.Duration
	cleanAllFlag       bool
	cleanQuietFlag     bool
)

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Prune the run-history ledger",
	Long: `Clean removes old runs from the history database. By default runs
older than the configured retention window (history.retention_days,
7 days out of the box) are deleted. Use --all to drop every recorded
run.

The configuration file is never touched.

Examples:
  # Prune runs past the retention window
  dxf-checker clean

  # Prune everything older than two days
  dxf-checker clean --older-than 48h

  # Start over
  dxf-checker clean --all
`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().DurationVar(&cleanOlderThanFlag, "older-than", 0, "Delete runs older than this (default from history.retention_days)")
	cleanCmd.Flags().BoolVarP(&cleanAllFlag, "all", "a", false, "Delete every recorded run")
	cleanCmd.Flags().BoolVarP(&cleanQuietFlag, "quiet", "q", false, "Suppress output messages")
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	path, err := historyPath(cfg)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if !cleanQuietFlag {
			fmt.Println("No history database found")
		}
		return nil
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if cleanAllFlag {
		removed, err := store.PruneAll()
		if err != nil {
			return err
		}
		if !cleanQuietFlag {
			fmt.Printf("✓ Removed all %d recorded runs\n", removed)
		}
		return nil
	}

	olderThan := cleanOlderThanFlag
	if !cmd.Flags().Changed("older-than") {
		olderThan = time.Duration(cfg.History.RetentionDays) * 24 * time.Hour
	}
	if olderThan <= 0 {
		return fmt.Errorf("retention window must be positive, got %s", olderThan)
	}

	removed, err := store.Prune(olderThan)
	if err != nil {
		return err
	}
	if !cleanQuietFlag {
		if removed > 0 {
			fmt.Printf("✓ Removed %d runs older than %s\n", removed, formatDuration(olderThan))
		} else {
			fmt.Printf("No runs older than %s\n", formatDuration(olderThan))
		}
	}
	return nil
}

// formatDuration formats a duration in compact format.
// Examples: "5s", "1m", "1h 30m", "2h", "1d", "1d 3h", "3d"
func formatDuration(d time.Duration) string {
	seconds := int(d.Seconds())

	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if days > 0 {
		if hours > 0 {
			return fmt.Sprintf("%dd %dh", days, hours)
		}
		return fmt.Sprintf("%dd", days)
	}

	if hours > 0 {
		if minutes > 0 {
			return fmt.Sprintf("%dh %dm", hours, minutes)
		}
		return fmt.Sprintf("%dh", hours)
	}

	if minutes > 0 {
		return fmt.Sprintf("%dm", minutes)
	}

	return fmt.Sprintf("%ds", secs)
}
