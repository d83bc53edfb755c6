package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/checkmateLL/dxf-checker/internal/checks"
)

var (
	// ErrUnknownCheck indicates a check name outside the known set
	ErrUnknownCheck = errors.New("unknown check")

	// ErrInvalidThreshold indicates a threshold outside its allowed range
	ErrInvalidThreshold = errors.New("invalid threshold")

	// ErrInvalidScale indicates a non-positive unit scale
	ErrInvalidScale = errors.New("invalid scale")

	// ErrInvalidArcSampling indicates a non-positive arc sampling step
	ErrInvalidArcSampling = errors.New("invalid arc sampling")

	// ErrInvalidLayerPattern indicates a layer filter that does not compile
	ErrInvalidLayerPattern = errors.New("invalid layer pattern")

	// ErrInvalidHalo indicates a negative marker halo radius
	ErrInvalidHalo = errors.New("invalid halo radius")

	// ErrInvalidHistory indicates invalid history settings
	ErrInvalidHistory = errors.New("invalid history settings")
)

// Validate checks that the configuration is complete and in range.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateChecks(&cfg.Checks); err != nil {
		errs = append(errs, err)
	}
	if err := validateThresholds(&cfg.Thresholds); err != nil {
		errs = append(errs, err)
	}
	if err := validateExtraction(&cfg.Extraction); err != nil {
		errs = append(errs, err)
	}
	if err := validateOutput(&cfg.Output); err != nil {
		errs = append(errs, err)
	}
	if err := validateHistory(&cfg.History); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateChecks(cfg *ChecksConfig) error {
	var errs []error
	for _, name := range cfg.Enabled {
		if _, err := checks.ParseKind(name); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownCheck, name, validCheckNames()))
		}
	}
	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateThresholds(cfg *ThresholdsConfig) error {
	var errs []error

	if cfg.MaxDist <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_dist must be positive, got %g", ErrInvalidThreshold, cfg.MaxDist))
	}
	if cfg.MinDist < 0 {
		errs = append(errs, fmt.Errorf("%w: min_dist cannot be negative, got %g", ErrInvalidThreshold, cfg.MinDist))
	}
	if cfg.DupTolerance < 0 {
		errs = append(errs, fmt.Errorf("%w: dup_tolerance cannot be negative, got %g", ErrInvalidThreshold, cfg.DupTolerance))
	}
	if cfg.CrossingTolerance < 0 {
		errs = append(errs, fmt.Errorf("%w: crossing_tolerance cannot be negative, got %g", ErrInvalidThreshold, cfg.CrossingTolerance))
	}
	if cfg.ZTolerance < 0 {
		errs = append(errs, fmt.Errorf("%w: z_tolerance cannot be negative, got %g", ErrInvalidThreshold, cfg.ZTolerance))
	}
	if cfg.ZeroTolerance < 0 {
		errs = append(errs, fmt.Errorf("%w: zero_tolerance cannot be negative, got %g", ErrInvalidThreshold, cfg.ZeroTolerance))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateExtraction(cfg *ExtractionConfig) error {
	var errs []error

	if cfg.Scale <= 0 {
		errs = append(errs, fmt.Errorf("%w: scale must be positive, got %g", ErrInvalidScale, cfg.Scale))
	}
	if cfg.ArcSamplingDeg <= 0 {
		errs = append(errs, fmt.Errorf("%w: arc_sampling_deg must be positive, got %g", ErrInvalidArcSampling, cfg.ArcSamplingDeg))
	}
	for _, pattern := range cfg.Layers {
		if _, err := glob.Compile(pattern); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidLayerPattern, pattern, err))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateOutput(cfg *OutputConfig) error {
	if cfg.Halo < 0 {
		return fmt.Errorf("%w: halo cannot be negative, got %g", ErrInvalidHalo, cfg.Halo)
	}
	return nil
}

func validateHistory(cfg *HistoryConfig) error {
	if cfg.RetentionDays < 0 {
		return fmt.Errorf("%w: retention_days cannot be negative, got %d", ErrInvalidHistory, cfg.RetentionDays)
	}
	return nil
}

func validCheckNames() string {
	kinds := checks.AllKinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
