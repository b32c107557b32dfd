package plot

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/MarkCupitt/weewx/src/logger"
	"github.com/MarkCupitt/weewx/src/plotconfig"
	"github.com/MarkCupitt/weewx/src/units"
)

// StationInfo carries the station location handed to the renderer for
// day/night shading.
type StationInfo struct {
	Latitude  float64
	Longitude float64
}

// Generator walks the configured time-span groups, plans each plot, builds
// its lines and hands the assembled PlotSpec to the renderer. One Generator
// runs one synchronous pass at a time; it holds no mutable state across
// plots beyond the read-only configuration and its collaborators.
type Generator struct {
	image     *plotconfig.Section // the ImageGenerator section
	titles    map[string]string   // generic labels, Labels -> Generic
	imageRoot string
	station   StationInfo

	binder    ArchiveBinder
	converter units.Converter
	renderer  Renderer

	// now is stubbed in tests.
	now func() time.Time
}

// NewGenerator wires a Generator from the loaded skin configuration root.
// The configuration must contain an ImageGenerator section; a Labels/Generic
// section is optional and supplies generic line labels.
func NewGenerator(cfg *plotconfig.Section, imageRoot string, station StationInfo,
	binder ArchiveBinder, converter units.Converter, renderer Renderer) (*Generator, error) {

	image := cfg.Child("ImageGenerator")
	if image == nil {
		return nil, errors.Wrap(ErrConfig, "no ImageGenerator section")
	}
	titles := map[string]string{}
	if labels := cfg.Child("Labels"); labels != nil {
		if generic := labels.Child("Generic"); generic != nil {
			for k, v := range generic.Options() {
				titles[k] = v
			}
		}
	}
	return &Generator{
		image:     image,
		titles:    titles,
		imageRoot: imageRoot,
		station:   station,
		binder:    binder,
		converter: converter,
		renderer:  renderer,
		now:       time.Now,
	}, nil
}

// Generate runs one pass over every configured time span and plot, rendering
// the plots that need regeneration around the given timestamp. A zero genTS
// anchors each plot at its archive's last good timestamp, falling back to
// wall-clock time. Individual bad lines, skipped plots and failed saves are
// logged and do not abort the pass; the count of images actually written is
// returned.
func (g *Generator) Generate(genTS time.Time) (int, error) {
	t0 := g.now()
	ngen := 0
	for _, timespan := range g.image.Children() {
		for _, plotSec := range timespan.Children() {
			generated, err := g.genPlot(plotSec, genTS)
			if err != nil {
				logger.L().Errorw("plot abandoned",
					"timespan", timespan.Name, "plot", plotSec.Name, "error", err)
				continue
			}
			if generated {
				ngen++
			}
		}
	}
	logger.L().Infow("generated images",
		"count", ngen, "elapsed", g.now().Sub(t0).Round(10*time.Millisecond).String())
	return ngen, nil
}

// genPlot plans, assembles, renders and saves one plot. It returns false
// with a nil error when the plot was skipped or its save failed; an error is
// returned only for failures that abandon the plot outright.
func (g *Generator) genPlot(plotSec *plotconfig.Section, genTS time.Time) (bool, error) {
	opts := plotSec.AccumulateLeaves()

	anchor := g.resolveAnchor(opts, genTS)
	imgFile := filepath.Join(g.imageRoot, plotSec.Name+"."+opts.String("image_ext", "png"))

	var aggInterval time.Duration
	if n, ok := opts.Int("aggregate_interval"); ok {
		aggInterval = time.Duration(n) * time.Second
	}
	mtime, exists := statMtime(imgFile)
	if SkipPlot(anchor, aggInterval, exists, mtime) {
		logger.L().Debugw("skipping plot, not on aggregation boundary", "file", imgFile)
		return false, nil
	}
	// The staleness gate only applies when stale_age is configured.
	if stale, ok := opts.Int("stale_age"); ok && exists {
		if FreshEnough(g.now(), mtime, time.Duration(stale)*time.Second) {
			logger.L().Debugw("skipping plot, image still fresh",
				"file", imgFile, "stale_age", stale)
			return false, nil
		}
	}

	// Idempotent: a pre-existing directory is not an error.
	if err := os.MkdirAll(filepath.Dir(imgFile), 0o755); err != nil {
		return false, errors.Wrap(err, "creating image directory")
	}

	length := time.Duration(opts.IntDefault("time_length", 86400)) * time.Second
	var explicitTick time.Duration
	if n, ok := opts.Int("x_interval"); ok {
		explicitTick = time.Duration(n) * time.Second
	}
	window := PlanWindow(anchor, length, explicitTick)

	spec := &PlotSpec{
		Name:          plotSec.Name,
		Window:        window,
		Width:         opts.IntDefault("image_width", 300),
		Height:        opts.IntDefault("image_height", 180),
		BottomLabel:   anchor.Format(opts.String("bottom_label_format", "01/02/06 15:04")),
		YScale:        parseScaleHint(opts.List("yscale")),
		XLabelSpacing: opts.IntDefault("x_label_spacing", 2),
		YLabelSpacing: opts.IntDefault("y_label_spacing", 2),
		ShowDayNight:  opts.BoolDefault("show_daynight", false),
		DayColor:      g.colorDefault(opts, "daynight_day_color", packRGB(0xff, 0xff, 0xff)),
		NightColor:    g.colorDefault(opts, "daynight_night_color", packRGB(0xf0, 0xf0, 0xf0)),
		EdgeColor:     g.colorDefault(opts, "daynight_edge_color", packRGB(0xef, 0xef, 0xef)),
		Latitude:      g.station.Latitude,
		Longitude:     g.station.Longitude,
	}

	for _, lineSec := range plotSec.Children() {
		lineSpec, err := g.buildLine(lineSec.Name, lineSec.AccumulateLeaves(), window)
		if err != nil {
			if errors.Is(err, ErrConfig) || errors.Is(err, units.ErrUnknownUnit) {
				logger.L().Errorw("line skipped",
					"plot", plotSec.Name, "line", lineSec.Name, "error", err)
				continue
			}
			// Mismatched vectors or a failing data source abandon the plot.
			return false, err
		}
		spec.UnitLabel = lineSpec.UnitLabel
		spec.Lines = append(spec.Lines, *lineSpec)
	}

	image, err := g.renderer.Render(spec)
	if err != nil {
		return false, errors.Wrap(err, "rendering")
	}
	if err := image.Save(imgFile); err != nil {
		logger.L().Errorw("unable to save image", "file", imgFile, "error", err)
		return false, nil
	}
	return true, nil
}

// resolveAnchor picks the timestamp a plot is generated around: the explicit
// one when given, else the bound archive's last good timestamp, else now.
func (g *Generator) resolveAnchor(opts plotconfig.Options, genTS time.Time) time.Time {
	if !genTS.IsZero() {
		return genTS
	}
	if binding := opts.String("data_binding", ""); binding != "" {
		if arch, err := g.binder.Archive(binding); err == nil {
			if ts, err := arch.LastGoodStamp(); err == nil && !ts.IsZero() {
				return ts
			}
		}
	}
	return g.now()
}

// parseScaleHint interprets the three-component yscale option. Components
// spelled None (or anything unparsable) stay automatic.
func parseScaleHint(parts []string) ScaleHint {
	var hint ScaleHint
	get := func(i int) *float64 {
		if i >= len(parts) || strings.EqualFold(parts[i], "none") {
			return nil
		}
		f, err := strconv.ParseFloat(parts[i], 64)
		if err != nil {
			return nil
		}
		return &f
	}
	hint.Min = get(0)
	hint.Max = get(1)
	hint.Interval = get(2)
	return hint
}

func statMtime(path string) (mtime time.Time, exists bool) {
	st, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}
	return st.ModTime(), true
}
