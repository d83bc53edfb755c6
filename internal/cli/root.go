// Package cli wires the checker into a command line tool: reading
// drawings, running checks, writing marker overlays and exports, and
// browsing the run history.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/checkmateLL/dxf-checker/internal/logging"
)

var verboseFlag bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dxf-checker",
	Short: "Detect geometric and topological defects in vector drawings",
	Long: `dxf-checker validates 2D/3D vector drawings (lines, polylines,
splines, hatch boundaries) for the structural defects that break
downstream manufacturing, construction and survey processing:

  - segments longer or shorter than the expected range
  - duplicate and near-duplicate vertices
  - lines that cross without sharing a vertex
  - vertices whose elevation breaks the trend of their neighbors
  - vertices that lost their elevation entirely

Defects are written as point markers into a fresh overlay DXF, one
layer per defect class, ready to xref over the original drawing.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging to stderr")
}

// initLogging installs a real handler over the packages' silent default
// when the user asks for verbosity.
func initLogging() {
	if !verboseFlag {
		return
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))
}
