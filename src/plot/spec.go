package plot

import (
	"time"

	"github.com/cockroachdb/errors"

	"github.com/MarkCupitt/weewx/src/units"
)

// ErrConfig reports a missing or invalid option for the selected line or
// plot mode. The affected line (or plot) is logged and skipped; siblings
// continue.
var ErrConfig = errors.New("missing or invalid plot option")

// ErrVectorMismatch reports a data source returning start and stop vectors of
// different lengths. The invariant is load-bearing for alignment, so the
// whole plot is abandoned rather than mis-rendered.
var ErrVectorMismatch = errors.New("start/stop vector length mismatch")

// Archive retrieves observation vectors from a time-series store.
type Archive interface {
	// LastGoodStamp returns the timestamp of the most recent record, or the
	// zero time when the store is empty.
	LastGoodStamp() (time.Time, error)

	// GetVectors returns three aligned vectors over (start, stop]: the start
	// and stop of each sample's interval and the sample values, optionally
	// aggregated. aggregateType is "" for raw retrieval.
	GetVectors(start, stop time.Time, varType, aggregateType string, aggregateInterval time.Duration) (startVec, stopVec, dataVec units.Vector, err error)
}

// ArchiveBinder resolves a configured data binding name to an Archive.
type ArchiveBinder interface {
	Archive(binding string) (Archive, error)
}

// Image is a rendered plot that can be persisted.
type Image interface {
	Save(path string) error
}

// Renderer rasterizes an assembled PlotSpec.
type Renderer interface {
	Render(spec *PlotSpec) (Image, error)
}

// ScaleHint carries the y-axis scaling triple. A nil component means "auto".
type ScaleHint struct {
	Min      *float64
	Max      *float64
	Interval *float64
}

// LineSpec is the fully resolved rendering instruction for one line.
// Exactly one of BarWidths and GapFraction is populated, selected by
// PlotType: bar lines carry per-sample widths, line lines may carry a gap
// fraction, vector lines carry neither.
type LineSpec struct {
	Label string

	// UnitLabel is the y-axis label this line's observation implies; at the
	// plot level the last line's label wins.
	UnitLabel string

	// Times holds each sample's interval-stop timestamp, Data the sample
	// values, both post-conversion. The i-th time is the timestamp of the
	// i-th data sample.
	Times units.Vector
	Data  units.Vector

	PlotType string // "line", "bar" or "vector"

	Color     *Color
	FillColor *Color
	Width     *int

	LineType   string // "solid", or "" for no line drawn
	MarkerType string
	MarkerSize int

	BarWidths    []float64
	VectorRotate *float64
	GapFraction  *float64

	DrawFlags      bool
	FlagDotRadius  int
	FlagStemLength int
	FlagLength     int
	FlagBaseline   *int

	AnnotateColor    Color
	AnnotateFontSize int

	AnnotateHigh         bool
	AnnotateHighColor    Color
	AnnotateHighFontSize int
	AnnotateLow          bool
	AnnotateLowColor     Color
	AnnotateLowFontSize  int

	AnnotateText  string
	AnnotateTextX int
	AnnotateTextY int

	HighlightLatest bool
	LatestColor     *Color
	LatestWidth     *int
	AnnotateLatest  bool

	PolarGrid   bool
	PolarOrigin *[2]int

	ShowCounts bool
}

// PlotSpec is one renderer-ready plot: the time window, the lines in render
// order (declaration order), and plot-level presentation settings.
type PlotSpec struct {
	Name   string
	Window TimeWindow
	Lines  []LineSpec

	Width  int
	Height int

	BottomLabel string
	UnitLabel   string
	YScale      ScaleHint

	XLabelSpacing int
	YLabelSpacing int

	ShowDayNight  bool
	DayColor      Color
	NightColor    Color
	EdgeColor     Color
	Latitude      float64
	Longitude     float64
}
