// Package config loads checker configuration. Priority, lowest to
// highest: built-in defaults, .dxf-checker/config.yml (working directory
// first, then the user's home directory), DXF_CHECKER_* environment
// variables. Command-line flags are applied on top by the CLI.
package config

import (
	"fmt"

	"github.com/gobwas/glob"

	"github.com/checkmateLL/dxf-checker/internal/checks"
	"github.com/checkmateLL/dxf-checker/internal/extract"
)

// Config is the complete checker configuration.
type Config struct {
	Checks     ChecksConfig     `yaml:"checks" mapstructure:"checks"`
	Thresholds ThresholdsConfig `yaml:"thresholds" mapstructure:"thresholds"`
	Extraction ExtractionConfig `yaml:"extraction" mapstructure:"extraction"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
	History    HistoryConfig    `yaml:"history" mapstructure:"history"`
}

// ChecksConfig selects the checks that run when the command line names
// none. Empty means the check command requires explicit -c flags.
type ChecksConfig struct {
	Enabled []string `yaml:"enabled" mapstructure:"enabled"`
}

// ThresholdsConfig holds the check tolerances. All distances are meters in
// world coordinates after unit scaling.
type ThresholdsConfig struct {
	MaxDist           float64 `yaml:"max_dist" mapstructure:"max_dist"`                     // longest acceptable segment
	MinDist           float64 `yaml:"min_dist" mapstructure:"min_dist"`                     // shortest acceptable segment
	DupTolerance      float64 `yaml:"dup_tolerance" mapstructure:"dup_tolerance"`           // 3D duplicate-vertex distance
	CrossingTolerance float64 `yaml:"crossing_tolerance" mapstructure:"crossing_tolerance"` // endpoint-connection distance
	ZTolerance        float64 `yaml:"z_tolerance" mapstructure:"z_tolerance"`               // elevation trend deviation
	ZeroTolerance     float64 `yaml:"zero_tolerance" mapstructure:"zero_tolerance"`         // |Z| treated as missing elevation
}

// ExtractionConfig controls how drawings become check geometry.
type ExtractionConfig struct {
	Scale          float64  `yaml:"scale" mapstructure:"scale"`                       // drawing units → meters
	ArcSamplingDeg float64  `yaml:"arc_sampling_deg" mapstructure:"arc_sampling_deg"` // max angular step for arc edges
	Layers         []string `yaml:"layers" mapstructure:"layers"`                     // glob patterns; empty keeps everything
	PlanarLengths  bool     `yaml:"planar_lengths" mapstructure:"planar_lengths"`     // measure lengths in XY projection
}

// OutputConfig controls the marker overlay drawing.
type OutputConfig struct {
	Halo float64 `yaml:"halo" mapstructure:"halo"` // circle radius around each marker, 0 disables
}

// HistoryConfig controls the run-history ledger.
type HistoryConfig struct {
	Enabled       bool   `yaml:"enabled" mapstructure:"enabled"`
	Path          string `yaml:"path" mapstructure:"path"` // empty means ~/.dxf-checker/history.db
	RetentionDays int    `yaml:"retention_days" mapstructure:"retention_days"`
}

// Default returns a configuration with the stock thresholds.
func Default() *Config {
	d := checks.DefaultParams()
	return &Config{
		Thresholds: ThresholdsConfig{
			MaxDist:           d.MaxDist,
			MinDist:           d.MinDist,
			DupTolerance:      d.DuplicateTolerance,
			CrossingTolerance: d.CrossingTolerance,
			ZTolerance:        d.ZTolerance,
			ZeroTolerance:     d.ZeroElevationTolerance,
		},
		Extraction: ExtractionConfig{
			Scale:          1.0,
			ArcSamplingDeg: 15,
		},
		Output: OutputConfig{
			Halo: 0.5,
		},
		History: HistoryConfig{
			Enabled:       true,
			RetentionDays: 7,
		},
	}
}

// CheckKinds parses the configured check names.
func (c *Config) CheckKinds() ([]checks.Kind, error) {
	kinds := make([]checks.Kind, 0, len(c.Checks.Enabled))
	for _, name := range c.Checks.Enabled {
		k, err := checks.ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// ToParams converts the thresholds to the parameter set the checks read.
func (c *Config) ToParams() checks.Params {
	return checks.Params{
		MaxDist:                c.Thresholds.MaxDist,
		MinDist:                c.Thresholds.MinDist,
		DuplicateTolerance:     c.Thresholds.DupTolerance,
		CrossingTolerance:      c.Thresholds.CrossingTolerance,
		ZTolerance:             c.Thresholds.ZTolerance,
		ZeroElevationTolerance: c.Thresholds.ZeroTolerance,
		PlanarLengths:          c.Extraction.PlanarLengths,
	}
}

// ToExtractOptions compiles the extraction settings, including the layer
// filter globs.
func (c *Config) ToExtractOptions() (extract.Options, error) {
	opts := extract.Options{
		Scale:      c.Extraction.Scale,
		ArcStepDeg: c.Extraction.ArcSamplingDeg,
	}
	for _, pattern := range c.Extraction.Layers {
		g, err := glob.Compile(pattern)
		if err != nil {
			return extract.Options{}, fmt.Errorf("%w: %q: %v", ErrInvalidLayerPattern, pattern, err)
		}
		opts.Layers = append(opts.Layers, g)
	}
	return opts, nil
}
