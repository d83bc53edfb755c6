package checks

import (
	"context"
	"fmt"
	"time"

	"github.com/checkmateLL/dxf-checker/internal/geom"
	"github.com/checkmateLL/dxf-checker/internal/logging"
)

// Result is the outcome of one check run.
type Result struct {
	Kind    Kind
	Defects []Defect
	// Duration is how long the check took, including a crash.
	Duration time.Duration
	// Failure carries the recovered panic message when the check crashed.
	// A crashed check contributes no defects; the rest of the run goes on.
	Failure string
}

// Progress receives check lifecycle events, in run order, from a single
// goroutine.
type Progress interface {
	CheckStarted(kind Kind)
	CheckFinished(kind Kind, defects int, d time.Duration)
}

type nopProgress struct{}

func (nopProgress) CheckStarted(Kind)                      {}
func (nopProgress) CheckFinished(Kind, int, time.Duration) {}

// Run executes the given checks against the entity set, in the order given.
// All checks share one set of read-only spatial structures. Unknown kinds
// fail the whole run before any check executes; a check that panics mid-run
// is isolated into its Result instead. Cancelling the context stops the run
// between checks.
func Run(ctx context.Context, entities []geom.Entity, kinds []Kind, p Params, progress Progress) ([]Result, error) {
	if progress == nil {
		progress = nopProgress{}
	}

	cs := make([]Check, 0, len(kinds))
	for _, k := range kinds {
		c, err := New(k, p)
		if err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}

	in, err := NewInput(entities, kinds, p)
	if err != nil {
		return nil, fmt.Errorf("preparing check input: %w", err)
	}

	results := make([]Result, 0, len(cs))
	for _, c := range cs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		progress.CheckStarted(c.Kind())
		res := runSafe(c, in)
		progress.CheckFinished(res.Kind, len(res.Defects), res.Duration)
		logging.L().Debug("check finished",
			"check", res.Kind, "defects", len(res.Defects), "duration", res.Duration)
		results = append(results, res)
	}
	return results, nil
}

// runSafe runs one check and converts a panic into a Result failure.
func runSafe(c Check, in *Input) (result Result) {
	start := time.Now()
	result.Kind = c.Kind()
	defer func() {
		result.Duration = time.Since(start)
		if r := recover(); r != nil {
			result.Failure = fmt.Sprintf("check crashed: %v", r)
			result.Defects = nil
			logging.L().Warn("check crashed", "check", result.Kind, "panic", r)
		}
	}()
	result.Defects = c.Run(in)
	return result
}
