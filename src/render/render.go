// Package render rasterizes assembled plot specifications with go-chart.
//
// It is a deliberately approximate projection: line and vector lines become
// continuous series, bar lines become filled series spanning their
// intervals. Pixel-exact output is not a goal; the PlotSpec carries the
// authoritative description of what should be drawn.
package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/MarkCupitt/weewx/src/plot"
)

// ChartRenderer renders PlotSpecs to PNG images.
type ChartRenderer struct{}

// New returns a go-chart backed renderer.
func New() ChartRenderer { return ChartRenderer{} }

// Render rasterizes the spec into a saveable PNG. A plot with no drawable
// series renders as a blank canvas rather than failing, so a plot whose
// lines were all skipped still produces its image file.
func (ChartRenderer) Render(spec *plot.PlotSpec) (plot.Image, error) {
	series := buildSeries(spec)
	if len(series) == 0 {
		return blankImage(spec.Width, spec.Height)
	}

	ch := chart.Chart{
		Width:  spec.Width,
		Height: spec.Height,
		XAxis: chart.XAxis{
			Name:  spec.BottomLabel,
			Ticks: timeTicks(spec.Window),
		},
		YAxis:  chart.YAxis{Name: spec.UnitLabel, Range: yRange(spec.YScale)},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, errors.Wrapf(err, "rendering plot %s", spec.Name)
	}
	return pngImage{data: buf.Bytes()}, nil
}

func buildSeries(spec *plot.PlotSpec) []chart.Series {
	var out []chart.Series
	for i, line := range spec.Lines {
		if line.Data.Len() == 0 {
			continue
		}
		xs := append([]float64(nil), line.Times.Values...)
		ys := append([]float64(nil), line.Data.Values...)
		if len(xs) == 1 {
			// go-chart needs two points to draw anything.
			xs = append(xs, xs[0]+1)
			ys = append(ys, ys[0])
		}
		out = append(out, chart.ContinuousSeries{
			Name:    line.Label,
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(line, i),
		})
	}
	return out
}

func lineStyle(line plot.LineSpec, index int) chart.Style {
	st := chart.Style{StrokeColor: chart.GetDefaultColor(index)}
	if line.Color != nil {
		st.StrokeColor = toDrawing(*line.Color)
	}
	if line.Width != nil {
		st.StrokeWidth = float64(*line.Width)
	}
	if line.PlotType == "bar" || line.FillColor != nil {
		fill := st.StrokeColor
		if line.FillColor != nil {
			fill = toDrawing(*line.FillColor)
		}
		st.FillColor = fill
	}
	if line.MarkerType != "" || line.LineType == "" {
		st.DotColor = st.StrokeColor
		st.DotWidth = float64(line.MarkerSize) / 2
	}
	if line.LineType == "" {
		// Markers only.
		st.StrokeColor = drawing.ColorTransparent
	}
	return st
}

func toDrawing(c plot.Color) drawing.Color {
	r, g, b := c.RGB()
	return drawing.Color{R: r, G: g, B: b, A: 255}
}

// timeTicks places ticks on window.Tick boundaries across the window, with
// labels sized to the increment.
func timeTicks(w plot.TimeWindow) []chart.Tick {
	if w.Tick <= 0 {
		return nil
	}
	layout := "15:04"
	if w.Tick >= 24*time.Hour {
		layout = "Jan 2"
	}
	step := int64(w.Tick / time.Second)
	aligned := (w.Start.Unix() / step) * step
	var ticks []chart.Tick
	for t := aligned; t <= w.Stop.Unix()+step; t += step {
		ticks = append(ticks, chart.Tick{
			Value: float64(t),
			Label: time.Unix(t, 0).Format(layout),
		})
		if len(ticks) > 40 {
			break
		}
	}
	return ticks
}

func yRange(hint plot.ScaleHint) chart.Range {
	if hint.Min == nil || hint.Max == nil {
		return nil
	}
	return &chart.ContinuousRange{Min: *hint.Min, Max: *hint.Max}
}

// blankImage produces an empty canvas so downstream pages still get a file.
func blankImage(w, h int) (plot.Image, error) {
	if w <= 0 {
		w = 300
	}
	if h <= 0 {
		h = 180
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "encoding blank image")
	}
	return pngImage{data: buf.Bytes()}, nil
}

// pngImage is an encoded rendering awaiting persistence.
type pngImage struct {
	data []byte
}

// Save writes the image to path.
func (p pngImage) Save(path string) error {
	return os.WriteFile(path, p.data, 0o644)
}
