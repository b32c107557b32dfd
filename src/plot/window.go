// Package plot prepares time-series observations for rendering: it plans the
// time window for a plot, decides whether regeneration is needed at all,
// resolves every line's layered options into a LineSpec, and assembles the
// PlotSpec handed to the renderer.
package plot

import "time"

// TimeWindow is the x-axis of one plot: the closed time range to display and
// the spacing of axis ticks.
type TimeWindow struct {
	Start time.Time
	Stop  time.Time
	Tick  time.Duration
}

// PlanWindow computes the window ending at anchor and spanning length back
// from it, with a tick increment snapped to a human-friendly boundary for the
// span. A positive explicitTick overrides the derived increment without
// altering the range.
func PlanWindow(anchor time.Time, length time.Duration, explicitTick time.Duration) TimeWindow {
	if length <= 0 {
		length = 24 * time.Hour
	}
	w := TimeWindow{Start: anchor.Add(-length), Stop: anchor}
	if explicitTick > 0 {
		w.Tick = explicitTick
	} else {
		w.Tick = niceTick(length)
	}
	return w
}

// niceTick maps a span to a label increment that lands on round clock values.
// The mapping is monotonic in span length.
func niceTick(span time.Duration) time.Duration {
	switch {
	case span <= 2*time.Minute:
		return 10 * time.Second
	case span <= 10*time.Minute:
		return time.Minute
	case span <= 30*time.Minute:
		return 5 * time.Minute
	case span <= 2*time.Hour:
		return 10 * time.Minute
	case span <= 6*time.Hour:
		return 30 * time.Minute
	case span <= 8*time.Hour:
		return time.Hour
	case span <= 27*time.Hour:
		return 3 * time.Hour
	case span <= 3*24*time.Hour:
		return 6 * time.Hour
	case span <= 7*24*time.Hour:
		return 24 * time.Hour
	case span <= 31*24*time.Hour:
		return 3 * 24 * time.Hour
	case span <= 92*24*time.Hour:
		return 7 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}
