package cli

// Test Plan for History Command helpers:
// - formatCheckRecords keeps only checks with defects or failures
// - shortRunID truncates UUIDs at the first group
// - formatNumber inserts thousand separators
// - formatTimeSince renders compact "ago" strings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/checkmateLL/dxf-checker/internal/checks"
	"github.com/checkmateLL/dxf-checker/internal/history"
)

func TestFormatCheckRecords(t *testing.T) {
	records := []history.CheckRecord{
		{Kind: checks.TooLong, DefectCount: 12},
		{Kind: checks.TooShort, DefectCount: 0},
		{Kind: checks.ZAnomaly, Failure: "boom"},
	}

	assert.Equal(t, "too_long 12, z_anomaly failed", formatCheckRecords(records))
	assert.Equal(t, "", formatCheckRecords(nil))
}

func TestShortRunID(t *testing.T) {
	assert.Equal(t, "a1b2c3d4", shortRunID("a1b2c3d4-e5f6-7890-abcd-ef1234567890"))
	assert.Equal(t, "nodashes", shortRunID("nodashes"))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "999", formatNumber(999))
	assert.Equal(t, "1,234", formatNumber(1234))
	assert.Equal(t, "1,234,567", formatNumber(1234567))
}

func TestFormatTimeSince(t *testing.T) {
	assert.Equal(t, "never", formatTimeSince(time.Time{}))

	now := time.Now()
	assert.Contains(t, formatTimeSince(now.Add(-30*time.Second)), "s ago")
	assert.Equal(t, "5m ago", formatTimeSince(now.Add(-5*time.Minute-2*time.Second)))
	assert.Equal(t, "2h ago", formatTimeSince(now.Add(-2*time.Hour-10*time.Second)))
	assert.Equal(t, "3d ago", formatTimeSince(now.Add(-3*24*time.Hour-10*time.Second)))
}
