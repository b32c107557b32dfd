package plot

import "time"

// SkipPlot reports whether an aggregated plot can be skipped because nothing
// new would appear in it yet.
//
// Plots without an aggregation interval are regenerated every time, as are
// plots whose image is missing or older than one full aggregation interval.
// Otherwise new aggregate values only appear when the target timestamp lands
// on an aggregation boundary (a multiple of the interval since local
// midnight), so the plot is skipped unless the offset from the nearest
// boundary below is within one second.
//
// The one-second jitter window is load-bearing for compatibility: callers
// invoking at an irregular cadence can miss a boundary entirely and skip
// longer than intended. Do not widen it silently.
func SkipPlot(target time.Time, aggInterval time.Duration, exists bool, mtime time.Time) bool {
	if aggInterval <= 0 || !exists {
		return false
	}
	if target.Sub(mtime) >= aggInterval {
		return false
	}
	midnight := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, target.Location())
	offset := target.Sub(midnight) % aggInterval
	if offset < 0 {
		offset = -offset
	}
	return offset > time.Second
}

// FreshEnough reports whether an existing image is younger than the
// configured staleness threshold and can therefore be kept as-is. This check
// is independent of aggregation alignment; either gate may short-circuit
// generation.
func FreshEnough(now, mtime time.Time, staleAge time.Duration) bool {
	if staleAge <= 0 {
		return false
	}
	return now.Sub(mtime) < staleAge
}
