package plot

import (
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/MarkCupitt/weewx/src/logger"
	"github.com/MarkCupitt/weewx/src/plotconfig"
	"github.com/MarkCupitt/weewx/src/units"
)

// buildLine resolves one line's layered options into a LineSpec: it selects
// the data source, fetches or synthesizes the raw vectors, applies the
// aggregate-interval midpoint correction, converts units and fills in every
// styling and behavior field.
//
// A ConfigError (wrapped ErrConfig) or an unconvertible unit aborts only this
// line; the caller logs it and continues with the next. ErrVectorMismatch is
// fatal to the plot.
func (g *Generator) buildLine(lineName string, opts plotconfig.Options, window TimeWindow) (*LineSpec, error) {
	// The observation defaults to the section name itself.
	varType := opts.String("data_type", lineName)

	var aggregateType string
	var aggregateInterval time.Duration
	if opts.Has("aggregate_type") {
		aggregateType = opts.String("aggregate_type", "")
		n, ok := opts.Int("aggregate_interval")
		if !ok {
			return nil, errors.Wrapf(ErrConfig,
				"aggregate interval required for aggregate type %s", aggregateType)
		}
		aggregateInterval = time.Duration(n) * time.Second
	}

	var startVec, stopVec, dataVec units.Vector
	if varType == "function" {
		funcType := opts.String("function_type", "")
		funcDef := opts.String("function_definition", "")
		if funcType == "" || funcDef == "" {
			return nil, errors.Wrap(ErrConfig,
				"function line needs both function_type and function_definition")
		}
		xinc := int64(window.Tick/time.Second) / 50
		startVec, stopVec, dataVec = GeneratePoints(
			funcType, funcDef, window.Start.Unix(), window.Stop.Unix(), xinc)
	} else {
		binding := opts.String("data_binding", "")
		if binding == "" {
			return nil, errors.Wrap(ErrConfig, "no data_binding for archive line")
		}
		arch, err := g.binder.Archive(binding)
		if err != nil {
			return nil, errors.Wrapf(ErrConfig, "unknown data binding %q: %v", binding, err)
		}
		startVec, stopVec, dataVec, err = arch.GetVectors(
			window.Start, window.Stop, varType, aggregateType, aggregateInterval)
		if err != nil {
			return nil, errors.Wrapf(err, "fetching %s", varType)
		}
	}

	// Both vectors bound every sample's interval; a length mismatch means the
	// data source broke its contract and the plot cannot be trusted.
	if startVec.Len() != stopVec.Len() {
		return nil, errors.Wrapf(ErrVectorMismatch, "%s: %d starts vs %d stops",
			varType, startVec.Len(), stopVec.Len())
	}

	plotType := opts.String("plot_type", "line")

	// For summarizing aggregations the sample belongs in the middle of its
	// bucket, not at the start. Bars already span the interval, so they keep
	// the raw stamps.
	if isMidpointAggregate(aggregateType) && plotType != "bar" {
		half := aggregateInterval.Seconds() / 2
		startVec = startVec.Shift(-half)
		stopVec = stopVec.Shift(-half)
	}

	startVec, err := g.converter.Convert(startVec)
	if err != nil {
		return nil, errors.Wrapf(err, "converting %s start times", varType)
	}
	stopVec, err = g.converter.Convert(stopVec)
	if err != nil {
		return nil, errors.Wrapf(err, "converting %s stop times", varType)
	}
	dataVec, err = g.converter.Convert(dataVec)
	if err != nil {
		return nil, errors.Wrapf(err, "converting %s data", varType)
	}

	spec := &LineSpec{
		Times:    stopVec,
		Data:     dataVec,
		PlotType: plotType,
		Label:    g.lineLabel(opts, varType),
	}

	// Trimmed so the renderer can center it. At the plot level the last
	// line's unit label wins.
	spec.UnitLabel = strings.TrimSpace(
		opts.String("y_label", units.StandardLabel(g.converter, varType)))

	spec.Color = g.colorOption(opts, "color")
	spec.FillColor = g.colorOption(opts, "fill_color")
	if w, ok := opts.Int("width"); ok {
		spec.Width = &w
	}

	// line_type is the one option where None is meaningful rather than
	// unset: it asks for markers without a connecting line.
	spec.LineType = "solid"
	if v, ok := opts["line_type"]; ok {
		spec.LineType = strings.TrimSpace(v)
		if strings.EqualFold(spec.LineType, "none") {
			spec.LineType = ""
		}
	}
	spec.MarkerType = opts.String("marker_type", "")
	spec.MarkerSize = opts.IntDefault("marker_size", 8)

	spec.DrawFlags = opts.BoolDefault("draw_flags", true)
	spec.FlagDotRadius = opts.IntDefault("flag_dot_radius", 1)
	spec.FlagStemLength = opts.IntDefault("flag_stem_length", 18)
	spec.FlagLength = opts.IntDefault("flag_length", 8)
	if b, ok := opts.Int("flag_baseline"); ok {
		spec.FlagBaseline = &b
	}

	spec.AnnotateFontSize = opts.IntDefault("annotate_font_size", 10)
	spec.AnnotateColor = g.colorDefault(opts, "annotate_color", packRGB(0, 0, 0))
	spec.AnnotateHigh = opts.BoolDefault("annotate_high", false)
	spec.AnnotateHighColor = g.colorDefault(opts, "annotate_high_color", spec.AnnotateColor)
	spec.AnnotateHighFontSize = opts.IntDefault("annotate_high_font_size", spec.AnnotateFontSize)
	spec.AnnotateLow = opts.BoolDefault("annotate_low", false)
	spec.AnnotateLowColor = g.colorDefault(opts, "annotate_low_color", spec.AnnotateColor)
	spec.AnnotateLowFontSize = opts.IntDefault("annotate_low_font_size", spec.AnnotateFontSize)
	spec.AnnotateText = opts.String("annotate_text", "")
	spec.AnnotateTextX = opts.IntDefault("annotate_text_x", 0)
	spec.AnnotateTextY = opts.IntDefault("annotate_text_y", 0)

	spec.HighlightLatest = opts.BoolDefault("highlight_latest", true)
	spec.LatestColor = g.colorOption(opts, "latest_color")
	if w, ok := opts.Int("latest_width"); ok {
		spec.LatestWidth = &w
	}
	spec.AnnotateLatest = opts.BoolDefault("annotate_latest", false)

	spec.PolarGrid = opts.BoolDefault("polar_grid", false)
	if origin := opts.List("polar_origin"); origin != nil {
		spec.PolarOrigin = parsePolarOrigin(origin)
	}

	spec.ShowCounts = opts.BoolDefault("show_counts", false)

	switch plotType {
	case "vector":
		// The drawing coordinate convention inverts rotation sign.
		if r, ok := opts.Float("vector_rotate"); ok {
			neg := -r
			spec.VectorRotate = &neg
		}
	case "bar":
		widths := make([]float64, stopVec.Len())
		for i := range widths {
			widths[i] = stopVec.Values[i] - startVec.Values[i]
		}
		spec.BarWidths = widths
	case "line":
		if gf, ok := opts.Float("line_gap_fraction"); ok {
			if gf > 0 && gf < 1 {
				spec.GapFraction = &gf
			} else {
				logger.L().Errorw("gap fraction outside range 0 to 1, ignored",
					"line", lineName, "gap_fraction", gf)
			}
		}
	}

	return spec, nil
}

// isMidpointAggregate reports the aggregation types whose samples get the
// half-interval midpoint correction.
func isMidpointAggregate(aggregateType string) bool {
	switch strings.ToLower(aggregateType) {
	case "avg", "max", "min":
		return true
	}
	return false
}

// lineLabel resolves a line's legend label: explicit option, then the
// configured generic label for the observation, then the observation name
// itself.
func (g *Generator) lineLabel(opts plotconfig.Options, varType string) string {
	if label := opts.String("label", ""); label != "" {
		return label
	}
	if generic, ok := g.titles[varType]; ok {
		return generic
	}
	return varType
}

// colorOption parses an optional color option. A malformed literal is logged
// and treated as unset rather than failing the line.
func (g *Generator) colorOption(opts plotconfig.Options, key string) *Color {
	if !opts.Has(key) {
		return nil
	}
	c, err := ParseColor(opts.String(key, ""))
	if err != nil {
		logger.L().Warnw("ignoring unparsable color option", "option", key, "error", err)
		return nil
	}
	return &c
}

func (g *Generator) colorDefault(opts plotconfig.Options, key string, def Color) Color {
	if c := g.colorOption(opts, key); c != nil {
		return *c
	}
	return def
}

func parsePolarOrigin(parts []string) *[2]int {
	if len(parts) != 2 {
		logger.L().Warnw("polar_origin needs exactly two integers", "got", parts)
		return nil
	}
	x, errx := strconv.Atoi(parts[0])
	y, erry := strconv.Atoi(parts[1])
	if errx != nil || erry != nil {
		logger.L().Warnw("polar_origin needs exactly two integers", "got", parts)
		return nil
	}
	return &[2]int{x, y}
}
