package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a configuration loader rooted at the given directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (DXF_CHECKER_*)
// 2. Config file (.dxf-checker/config.yml in rootDir, then in $HOME)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(l.rootDir, ".dxf-checker"))
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".dxf-checker"))
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("DXF_CHECKER")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g. DXF_CHECKER_THRESHOLDS_MAX_DIST)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	bindEnvVars(v)
	setDefaults(v)

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// bindEnvVars binds environment variables to config keys.
func bindEnvVars(v *viper.Viper) {
	// Check selection
	v.BindEnv("checks.enabled")

	// Thresholds
	v.BindEnv("thresholds.max_dist")
	v.BindEnv("thresholds.min_dist")
	v.BindEnv("thresholds.dup_tolerance")
	v.BindEnv("thresholds.crossing_tolerance")
	v.BindEnv("thresholds.z_tolerance")
	v.BindEnv("thresholds.zero_tolerance")

	// Extraction
	v.BindEnv("extraction.scale")
	v.BindEnv("extraction.arc_sampling_deg")
	v.BindEnv("extraction.planar_lengths")

	// Output
	v.BindEnv("output.halo")

	// History
	v.BindEnv("history.enabled")
	v.BindEnv("history.path")
	v.BindEnv("history.retention_days")
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("checks.enabled", defaults.Checks.Enabled)

	v.SetDefault("thresholds.max_dist", defaults.Thresholds.MaxDist)
	v.SetDefault("thresholds.min_dist", defaults.Thresholds.MinDist)
	v.SetDefault("thresholds.dup_tolerance", defaults.Thresholds.DupTolerance)
	v.SetDefault("thresholds.crossing_tolerance", defaults.Thresholds.CrossingTolerance)
	v.SetDefault("thresholds.z_tolerance", defaults.Thresholds.ZTolerance)
	v.SetDefault("thresholds.zero_tolerance", defaults.Thresholds.ZeroTolerance)

	v.SetDefault("extraction.scale", defaults.Extraction.Scale)
	v.SetDefault("extraction.arc_sampling_deg", defaults.Extraction.ArcSamplingDeg)
	v.SetDefault("extraction.layers", defaults.Extraction.Layers)
	v.SetDefault("extraction.planar_lengths", defaults.Extraction.PlanarLengths)

	v.SetDefault("output.halo", defaults.Output.Halo)

	v.SetDefault("history.enabled", defaults.History.Enabled)
	v.SetDefault("history.path", defaults.History.Path)
	v.SetDefault("history.retention_days", defaults.History.RetentionDays)
}

// LoadConfig is a convenience function that creates a loader rooted at the
// current working directory and loads config.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
