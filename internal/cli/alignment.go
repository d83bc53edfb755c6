package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/checkmateLL/dxf-checker/internal/alignment"
	"github.com/checkmateLL/dxf-checker/internal/config"
	"github.com/checkmateLL/dxf-checker/internal/extract"
)

var (
	alignRoadClassFlag string
	alignContextFlag   string
	alignSpeedFlag     float64
	alignSmoothingFlag float64
	alignHorizTolFlag  float64
	alignElevTolFlag   float64
	alignMinRadiusFlag float64
	alignScaleFlag     float64
	alignLayersFlag    []string
	alignCSVFlag       string
	alignQuietFlag     bool
)

// alignmentCmd represents the alignment command
var alignmentCmd = &cobra.Command{
	Use:   "alignment <drawing.(dxf|json)>",
	Short: "Validate drawn alignments against design geometry",
	Long: `Alignment idealizes each polyline in a drawing under road design
constraints (segment splitting at the minimum-radius bound, then
neighbor smoothing) and measures how far every drawn vertex sits from
its idealized position.

Vertices beyond the horizontal or elevation tolerance count as
violations. Violations are reported, not fatal; the command fails only
on unreadable input or unwritable output.

Examples:
  # Urban arterial at 60 km/h, the default tolerances
  dxf-checker alignment road.dxf

  # Rural highway, looser smoothing, export per-vertex deviations
  dxf-checker alignment road.dxf --road-class highway --context rural --design-speed 100 --csv deviations.csv
`,
	Args: cobra.ExactArgs(1),
	RunE: runAlignment,
}

func init() {
	rootCmd.AddCommand(alignmentCmd)

	alignmentCmd.Flags().StringVar(&alignRoadClassFlag, "road-class", "", "Road class: highway, arterial, collector or local")
	alignmentCmd.Flags().StringVar(&alignContextFlag, "context", "", "Design context: urban or rural")
	alignmentCmd.Flags().Float64Var(&alignSpeedFlag, "design-speed", 0, "Design speed in km/h")
	alignmentCmd.Flags().Float64Var(&alignSmoothingFlag, "smoothing", 0, "Neighbor smoothing factor, 0 keeps the drawn line, 1 replaces it")
	alignmentCmd.Flags().Float64Var(&alignHorizTolFlag, "horizontal-tol", 0, "Allowed horizontal deviation in meters")
	alignmentCmd.Flags().Float64Var(&alignElevTolFlag, "elevation-tol", 0, "Allowed elevation deviation in meters")
	alignmentCmd.Flags().Float64Var(&alignMinRadiusFlag, "min-radius", 0, "Minimum horizontal radius fallback in meters")
	alignmentCmd.Flags().Float64Var(&alignScaleFlag, "scale", 0, "Drawing units to meters factor")
	alignmentCmd.Flags().StringSliceVar(&alignLayersFlag, "layers", nil, "Only validate entities on layers matching these glob patterns")
	alignmentCmd.Flags().StringVar(&alignCSVFlag, "csv", "", "Export per-vertex deviations as CSV to this path")
	alignmentCmd.Flags().BoolVarP(&alignQuietFlag, "quiet", "q", false, "Print only the closing totals line")
}

func runAlignment(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("scale") {
		cfg.Extraction.Scale = alignScaleFlag
	}
	if flags.Changed("layers") {
		cfg.Extraction.Layers = alignLayersFlag
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	constraints := alignment.DefaultConstraints()
	if flags.Changed("road-class") {
		constraints.RoadClass = alignRoadClassFlag
	}
	if flags.Changed("context") {
		constraints.Context = alignContextFlag
	}
	if flags.Changed("design-speed") {
		constraints.DesignSpeedKPH = alignSpeedFlag
	}
	if flags.Changed("smoothing") {
		constraints.Smoothing = alignSmoothingFlag
	}
	if flags.Changed("horizontal-tol") {
		constraints.HorizontalTol = alignHorizTolFlag
	}
	if flags.Changed("elevation-tol") {
		constraints.ElevationTol = alignElevTolFlag
	}
	if flags.Changed("min-radius") {
		constraints.MinHorizontalRadius = alignMinRadiusFlag
	} else {
		constraints.MinHorizontalRadius = constraints.MinRadiusForDesign()
	}

	return executeAlignment(args[0], cfg, constraints, alignCSVFlag, alignQuietFlag)
}

func executeAlignment(input string, cfg *config.Config, constraints alignment.Constraints, csvPath string, quiet bool) error {
	doc, _, err := loadDrawing(input)
	if err != nil {
		return err
	}
	extractOpts, err := cfg.ToExtractOptions()
	if err != nil {
		return err
	}
	entities, _ := extract.Flatten(doc, extractOpts)

	var reports []alignment.Report
	for _, e := range entities {
		if len(e.Vertices) < 2 {
			continue
		}
		line := alignment.FromEntity(e)
		reports = append(reports, alignment.Validate(line, constraints))
	}

	if csvPath != "" {
		if err := alignment.WriteCSVFile(csvPath, reports); err != nil {
			return err
		}
	}

	printAlignmentSummary(input, reports, constraints, csvPath, quiet)
	return nil
}

func printAlignmentSummary(input string, reports []alignment.Report, c alignment.Constraints, csvPath string, quiet bool) {
	exceeding := 0
	for _, r := range reports {
		if r.Exceeds(c) {
			exceeding++
		}
	}

	if quiet {
		fmt.Printf("%d of %d alignments exceed tolerances\n", exceeding, len(reports))
		return
	}

	fmt.Println()
	fmt.Printf("%s Validated %s: %d alignments (%s, %s, %.0f km/h)\n",
		color.New(color.FgGreen, color.Bold).Sprint("✓"),
		input, len(reports), c.RoadClass, c.Context, c.DesignSpeedKPH)
	fmt.Println()

	for _, r := range reports {
		s := r.Summary()
		line := fmt.Sprintf("  %-24s %4d vertices   max horiz %.3fm   max elev %.3fm",
			r.Original.Source, s.Count, s.MaxHorizontal, s.MaxElevation)
		if h, e := r.Violations(c); h > 0 || e > 0 {
			line += color.New(color.FgRed, color.Bold).Sprintf("   ✗ %d horizontal, %d elevation", h, e)
		}
		fmt.Println(line)
	}
	fmt.Println()

	if exceeding > 0 {
		fmt.Printf("  %s\n", color.New(color.FgRed, color.Bold).Sprintf(
			"%d of %d alignments exceed tolerances", exceeding, len(reports)))
	} else {
		fmt.Printf("  %s\n", color.New(color.FgGreen).Sprintf(
			"all %d alignments within tolerances", len(reports)))
	}
	if csvPath != "" {
		fmt.Printf("  Deviations: %s\n", csvPath)
	}
}
