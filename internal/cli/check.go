package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/checkmateLL/dxf-checker/internal/checks"
	"github.com/checkmateLL/dxf-checker/internal/config"
	"github.com/checkmateLL/dxf-checker/internal/drawing"
	"github.com/checkmateLL/dxf-checker/internal/dxfio"
	"github.com/checkmateLL/dxf-checker/internal/extract"
	"github.com/checkmateLL/dxf-checker/internal/history"
	"github.com/checkmateLL/dxf-checker/internal/report"
)

var (
	checkChecksFlag      []string
	checkMaxDistFlag     float64
	checkMinDistFlag     float64
	checkDupTolFlag      float64
	checkCrossingTolFlag float64
	checkZTolFlag        float64
	checkZeroTolFlag     float64
	checkScaleFlag       float64
	checkArcSamplingFlag float64
	checkLayersFlag      []string
	checkPlanarFlag      bool
	checkOutputFlag      string
	checkGeoJSONFlag     string
	checkCSVFlag         string
	checkHaloFlag        float64
	checkQuietFlag       bool
	checkNoHistoryFlag   bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <drawing.(dxf|json)>",
	Short: "Run defect checks against a drawing",
	Long: `Check reads a drawing, flattens its geometry into world coordinates
(resolving block references and sampling hatch boundary arcs) and runs
the selected defect checks over it.

Every defect becomes a point marker in a fresh overlay DXF, placed on a
layer named after its check, so defect classes can be toggled
independently in any CAD viewer. Defect presence does not fail the
command; only unreadable input, unwritable output or invalid
configuration do.

Available checks:
  too_long              segments longer than --max-dist
  too_short             segments shorter than --min-dist
  duplicate_vertices    vertex pairs closer than --dup-tolerance
  unconnected_crossing  segments crossing without a shared vertex
  z_anomaly             vertices off the elevation trend of their neighbors
  zero_elevation        vertices with no elevation data

Examples:
  # The two length checks with their stock thresholds
  dxf-checker check site.dxf -c too_long -c too_short

  # Full sweep with drawing units in centimeters
  dxf-checker check site.dxf -c too_long,too_short,duplicate_vertices,unconnected_crossing,z_anomaly --scale 0.01

  # Restrict to survey layers, export review files
  dxf-checker check site.json -c duplicate_vertices --layers 'SURVEY_*' --geojson defects.geojson --csv defects.csv
`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringSliceVarP(&checkChecksFlag, "checks", "c", nil, "Checks to run (repeatable or comma-separated)")
	checkCmd.Flags().Float64Var(&checkMaxDistFlag, "max-dist", 0, "Longest acceptable segment in meters")
	checkCmd.Flags().Float64Var(&checkMinDistFlag, "min-dist", 0, "Shortest acceptable segment in meters")
	checkCmd.Flags().Float64Var(&checkDupTolFlag, "dup-tolerance", 0, "Duplicate vertex distance in meters")
	checkCmd.Flags().Float64Var(&checkCrossingTolFlag, "crossing-tolerance", 0, "Distance from an endpoint within which a crossing counts as connected")
	checkCmd.Flags().Float64Var(&checkZTolFlag, "z-tolerance", 0, "Allowed deviation from the local elevation trend")
	checkCmd.Flags().Float64Var(&checkZeroTolFlag, "zero-tolerance", 0, "Band around zero treated as missing elevation")
	checkCmd.Flags().Float64Var(&checkScaleFlag, "scale", 0, "Drawing units to meters factor")
	checkCmd.Flags().Float64Var(&checkArcSamplingFlag, "arc-sampling", 0, "Maximum degrees of arc sweep per sampled vertex")
	checkCmd.Flags().StringSliceVar(&checkLayersFlag, "layers", nil, "Only check entities on layers matching these glob patterns")
	checkCmd.Flags().BoolVar(&checkPlanarFlag, "planar", false, "Measure segment lengths in XY projection instead of 3D")
	checkCmd.Flags().StringVarP(&checkOutputFlag, "output", "o", "", "Marker overlay path (default <input>_errors.dxf)")
	checkCmd.Flags().StringVar(&checkGeoJSONFlag, "geojson", "", "Also export defects as GeoJSON to this path")
	checkCmd.Flags().StringVar(&checkCSVFlag, "csv", "", "Also export defects as CSV to this path")
	checkCmd.Flags().Float64Var(&checkHaloFlag, "halo", 0, "Circle radius drawn around each marker, 0 disables")
	checkCmd.Flags().BoolVarP(&checkQuietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
	checkCmd.Flags().BoolVar(&checkNoHistoryFlag, "no-history", false, "Skip recording this run in the history ledger")
}

// checkOptions is everything one check run needs, resolved from config
// file, environment and flags.
type checkOptions struct {
	input     string
	cfg       *config.Config
	kinds     []checks.Kind
	output    string
	geoJSON   string
	csv       string
	quiet     bool
	noHistory bool
}

func runCheck(cmd *cobra.Command, args []string) error {
	// Ctrl+C stops the run between checks instead of mid-write.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	applyCheckOverrides(cmd, cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	kinds, err := selectCheckKinds(cfg)
	if err != nil {
		return err
	}

	return executeCheck(ctx, checkOptions{
		input:     args[0],
		cfg:       cfg,
		kinds:     kinds,
		output:    checkOutputFlag,
		geoJSON:   checkGeoJSONFlag,
		csv:       checkCSVFlag,
		quiet:     checkQuietFlag,
		noHistory: checkNoHistoryFlag,
	})
}

// applyCheckOverrides folds explicitly set flags over the loaded
// configuration. Flags the user did not touch leave the config values
// alone, so file and environment settings keep working.
func applyCheckOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("checks") {
		cfg.Checks.Enabled = checkChecksFlag
	}
	if flags.Changed("max-dist") {
		cfg.Thresholds.MaxDist = checkMaxDistFlag
	}
	if flags.Changed("min-dist") {
		cfg.Thresholds.MinDist = checkMinDistFlag
	}
	if flags.Changed("dup-tolerance") {
		cfg.Thresholds.DupTolerance = checkDupTolFlag
	}
	if flags.Changed("crossing-tolerance") {
		cfg.Thresholds.CrossingTolerance = checkCrossingTolFlag
	}
	if flags.Changed("z-tolerance") {
		cfg.Thresholds.ZTolerance = checkZTolFlag
	}
	if flags.Changed("zero-tolerance") {
		cfg.Thresholds.ZeroTolerance = checkZeroTolFlag
	}
	if flags.Changed("scale") {
		cfg.Extraction.Scale = checkScaleFlag
	}
	if flags.Changed("arc-sampling") {
		cfg.Extraction.ArcSamplingDeg = checkArcSamplingFlag
	}
	if flags.Changed("layers") {
		cfg.Extraction.Layers = checkLayersFlag
	}
	if flags.Changed("planar") {
		cfg.Extraction.PlanarLengths = checkPlanarFlag
	}
	if flags.Changed("halo") {
		cfg.Output.Halo = checkHaloFlag
	}
}

// selectCheckKinds resolves the checks to run from the merged
// configuration. Running zero checks is never what anyone wants, so an
// empty selection is an error rather than a silent no-op.
func selectCheckKinds(cfg *config.Config) ([]checks.Kind, error) {
	kinds, err := cfg.CheckKinds()
	if err != nil {
		return nil, err
	}
	if len(kinds) == 0 {
		return nil, fmt.Errorf("no checks selected: pass -c or set checks.enabled in the config file")
	}
	return kinds, nil
}

// loadDrawing reads a drawing by extension: .json is the interchange
// format, everything else is parsed as native DXF. Reader warnings come
// back in the extractor's warning shape so the trace carries one list.
func loadDrawing(path string) (*drawing.Document, []extract.Warning, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		doc, err := drawing.DecodeFile(path)
		return doc, nil, err
	}

	doc, readWarns, err := dxfio.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	warns := make([]extract.Warning, 0, len(readWarns))
	for _, w := range readWarns {
		warns = append(warns, extract.Warning{Source: w.Source, Reason: w.Reason})
	}
	return doc, warns, nil
}

func executeCheck(ctx context.Context, opts checkOptions) error {
	doc, readWarns, err := loadDrawing(opts.input)
	if err != nil {
		return err
	}

	extractOpts, err := opts.cfg.ToExtractOptions()
	if err != nil {
		return err
	}
	entities, stats := extract.Flatten(doc, extractOpts)
	stats.Warnings = append(readWarns, stats.Warnings...)

	trace := report.NewRunTrace(opts.input, stats, len(entities))

	progress := NewCheckProgressReporter(opts.quiet, len(opts.kinds))
	results, err := checks.Run(ctx, entities, opts.kinds, opts.cfg.ToParams(), progress)
	if err != nil {
		return err
	}
	progress.Finish()

	trace.AddResults(results)
	trace.Finish()

	markers := report.BuildMarkers(results)

	markerPath := opts.output
	if markerPath == "" {
		markerPath = dxfio.DefaultMarkerPath(opts.input)
	}
	if err := dxfio.WriteMarkers(markerPath, markers, opts.cfg.Output.Halo); err != nil {
		return fmt.Errorf("writing marker overlay: %w", err)
	}
	if opts.geoJSON != "" {
		if err := report.WriteGeoJSONFile(opts.geoJSON, markers); err != nil {
			return err
		}
	}
	if opts.csv != "" {
		if err := report.WriteCSVFile(opts.csv, markers); err != nil {
			return err
		}
	}

	if opts.cfg.History.Enabled && !opts.noHistory {
		if err := recordHistory(opts.cfg, trace); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not record run history: %v\n", err)
		}
	}

	printCheckSummary(opts, trace, markerPath, len(markers))
	return nil
}

// recordHistory appends the finished run to the history ledger.
func recordHistory(cfg *config.Config, trace *report.RunTrace) error {
	path, err := historyPath(cfg)
	if err != nil {
		return err
	}
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(trace)
}

// historyPath resolves the ledger location: explicit config wins, the
// per-user default otherwise.
func historyPath(cfg *config.Config) (string, error) {
	if cfg.History.Path != "" {
		return cfg.History.Path, nil
	}
	return history.DefaultPath()
}

func printCheckSummary(opts checkOptions, trace *report.RunTrace, markerPath string, markerCount int) {
	if opts.quiet {
		fmt.Printf("%d defects, markers written to %s\n", trace.TotalDefects, markerPath)
		return
	}

	fmt.Println()
	fmt.Printf("%s Checked %s: %d entities in %.1fs\n",
		color.New(color.FgGreen, color.Bold).Sprint("✓"),
		opts.input, trace.EntityCount, trace.Duration.Seconds())
	fmt.Println()

	for _, c := range trace.Checks {
		if c.Failure != "" {
			fmt.Printf("  %-22s %s\n", c.Kind,
				color.New(color.FgRed, color.Bold).Sprintf("failed: %s", c.Failure))
			continue
		}
		count := color.New(color.FgGreen).Sprint("0")
		if c.Defects > 0 {
			count = color.New(color.FgRed, color.Bold).Sprintf("%d", c.Defects)
		}
		fmt.Printf("  %-22s %s\n", c.Kind, count)
	}
	fmt.Println()

	if n := trace.WarningCount(); n > 0 {
		fmt.Printf("  %s\n", color.New(color.FgYellow).Sprintf(
			"%d extraction warnings (re-run with --verbose for details)", n))
	}
	fmt.Printf("  Markers: %s (%d)\n", markerPath, markerCount)
	if opts.geoJSON != "" {
		fmt.Printf("  GeoJSON: %s\n", opts.geoJSON)
	}
	if opts.csv != "" {
		fmt.Printf("  CSV:     %s\n", opts.csv)
	}
}
