package cli

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/checkmateLL/dxf-checker/internal/checks"
)

// CheckProgressReporter renders one progress bar across the check run,
// advancing as each check completes. It implements checks.Progress.
type CheckProgressReporter struct {
	quiet bool
	bar   *progressbar.ProgressBar
}

// NewCheckProgressReporter creates a reporter for totalChecks checks.
// In quiet mode every event is a no-op.
func NewCheckProgressReporter(quiet bool, totalChecks int) *CheckProgressReporter {
	c := &CheckProgressReporter{quiet: quiet}
	if quiet || totalChecks <= 0 {
		return c
	}
	c.bar = progressbar.NewOptions(totalChecks,
		progressbar.OptionSetDescription("Running checks"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
	return c
}

func (c *CheckProgressReporter) CheckStarted(kind checks.Kind) {
	if c.bar == nil {
		return
	}
	c.bar.Describe(fmt.Sprintf("Running %s", kind))
}

func (c *CheckProgressReporter) CheckFinished(kind checks.Kind, defects int, d time.Duration) {
	if c.bar == nil {
		return
	}
	c.bar.Add(1)
}

// Finish completes the bar once all checks have run.
func (c *CheckProgressReporter) Finish() {
	if c.bar == nil {
		return
	}
	c.bar.Finish()
}
