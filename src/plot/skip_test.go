package plot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// midnightPlus builds a local-midnight-relative timestamp so the
// boundary-offset math is exercised exactly.
func midnightPlus(offset time.Duration) time.Time {
	midnight := time.Date(2015, 6, 1, 0, 0, 0, 0, time.Local)
	return midnight.Add(offset)
}

func TestSkipPlotNoAggregationNeverSkips(t *testing.T) {
	target := midnightPlus(6 * time.Hour)
	assert.False(t, SkipPlot(target, 0, true, target.Add(-time.Second)))
	assert.False(t, SkipPlot(target, 0, false, time.Time{}))
}

func TestSkipPlotMissingImageNeverSkips(t *testing.T) {
	target := midnightPlus(6*time.Hour + 17*time.Minute)
	assert.False(t, SkipPlot(target, time.Hour, false, time.Time{}))
}

func TestSkipPlotOldImageRegenerates(t *testing.T) {
	target := midnightPlus(6*time.Hour + 17*time.Minute)
	// Exactly one interval old counts as too old.
	assert.False(t, SkipPlot(target, time.Hour, true, target.Add(-time.Hour)))
	assert.False(t, SkipPlot(target, time.Hour, true, target.Add(-90*time.Minute)))
}

// The boundary snap follows the original behavior this pipeline replaces:
// a fresh aggregated plot is regenerated only when the target timestamp sits
// within one second of an aggregation boundary (a multiple of the interval
// since local midnight); anywhere mid-interval it is skipped, because no new
// aggregate sample can have appeared yet.
func TestSkipPlotBoundarySnap(t *testing.T) {
	interval := time.Hour
	cases := []struct {
		name   string
		offset time.Duration // from local midnight
		skip   bool
	}{
		{"exactly on boundary", 6 * time.Hour, false},
		{"one second past boundary", 6*time.Hour + time.Second, false},
		{"two seconds past boundary", 6*time.Hour + 2*time.Second, true},
		{"mid interval", 6*time.Hour + 30*time.Minute, true},
		{"just before next boundary", 7*time.Hour - 2*time.Second, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := midnightPlus(tc.offset)
			mtime := target.Add(-10 * time.Minute) // fresh
			assert.Equal(t, tc.skip, SkipPlot(target, interval, true, mtime))
		})
	}
}

func TestFreshEnough(t *testing.T) {
	now := time.Date(2015, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, FreshEnough(now, now.Add(-time.Minute), time.Hour))
	assert.False(t, FreshEnough(now, now.Add(-2*time.Hour), time.Hour))
	// No threshold configured: never "fresh enough".
	assert.False(t, FreshEnough(now, now.Add(-time.Second), 0))
}
