package plot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarkCupitt/weewx/src/plotconfig"
	"github.com/MarkCupitt/weewx/src/units"
)

// fakeRenderer records specs and hands back images that write a marker file.
type fakeRenderer struct {
	specs   []*PlotSpec
	saveErr error
}

func (f *fakeRenderer) Render(spec *PlotSpec) (Image, error) {
	f.specs = append(f.specs, spec)
	return fakeImage{saveErr: f.saveErr}, nil
}

type fakeImage struct {
	saveErr error
}

func (f fakeImage) Save(path string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return os.WriteFile(path, []byte("png"), 0o644)
}

const generatorConfig = `
ImageGenerator:
  data_binding: wx_binding
  time_length: 86400
  day_images:
    daytemp:
      outTemp: {}
      dewpoint: {}
    daywind:
      windSpeed: {}
`

func newTestGenerator(t *testing.T, cfgText string, arch Archive, r Renderer) (*Generator, string) {
	t.Helper()
	cfg, err := plotconfig.Load(strings.NewReader(cfgText))
	require.NoError(t, err)
	dir := t.TempDir()
	g, err := NewGenerator(cfg, dir, StationInfo{}, fakeBinder{arch: arch},
		units.NewConverter(units.Metric), r)
	require.NoError(t, err)
	return g, dir
}

func TestGeneratePass(t *testing.T) {
	arch := &fakeArchive{}
	arch.start, arch.stop, arch.data = tempVectors()
	r := &fakeRenderer{}
	g, dir := newTestGenerator(t, generatorConfig, arch, r)

	anchor := time.Date(2015, 6, 1, 12, 0, 0, 0, time.UTC)
	n, err := g.Generate(anchor)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, r.specs, 2)
	assert.Equal(t, "daytemp", r.specs[0].Name)
	assert.Equal(t, "daywind", r.specs[1].Name)

	// Lines render in declaration order.
	require.Len(t, r.specs[0].Lines, 2)
	assert.Equal(t, "outTemp", r.specs[0].Lines[0].Label)
	assert.Equal(t, "dewpoint", r.specs[0].Lines[1].Label)

	// The window spans time_length back from the anchor.
	w := r.specs[0].Window
	assert.Equal(t, anchor, w.Stop)
	assert.Equal(t, anchor.Add(-24*time.Hour), w.Start)
	assert.True(t, w.Tick > 0)

	assert.FileExists(t, filepath.Join(dir, "daytemp.png"))
	assert.FileExists(t, filepath.Join(dir, "daywind.png"))
}

func TestGenerateZeroAnchorUsesLastGoodStamp(t *testing.T) {
	arch := &fakeArchive{lastGood: time.Date(2015, 6, 1, 9, 0, 0, 0, time.UTC)}
	arch.start, arch.stop, arch.data = tempVectors()
	r := &fakeRenderer{}
	g, _ := newTestGenerator(t, generatorConfig, arch, r)

	_, err := g.Generate(time.Time{})
	require.NoError(t, err)
	require.NotEmpty(t, r.specs)
	assert.Equal(t, arch.lastGood, r.specs[0].Window.Stop)
}

func TestGenerateSkipsBadLineKeepsOthers(t *testing.T) {
	const cfgText = `
ImageGenerator:
  data_binding: wx_binding
  day_images:
    daytemp:
      broken:
        data_type: function
        function_type: outTemp
      outTemp: {}
`
	arch := &fakeArchive{}
	arch.start, arch.stop, arch.data = tempVectors()
	r := &fakeRenderer{}
	g, _ := newTestGenerator(t, cfgText, arch, r)

	n, err := g.Generate(time.Date(2015, 6, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// The misconfigured function line is omitted; the good line survives.
	require.Len(t, r.specs, 1)
	require.Len(t, r.specs[0].Lines, 1)
	assert.Equal(t, "outTemp", r.specs[0].Lines[0].Label)
}

func TestGenerateVectorMismatchAbandonsOnlyThatPlot(t *testing.T) {
	const cfgText = `
ImageGenerator:
  data_binding: wx_binding
  day_images:
    badplot:
      outTemp: {}
    goodplot:
      synthetic:
        data_type: function
        function_type: outTemp
        function_definition: "20 + 0 * x"
`
	arch := &fakeArchive{}
	arch.start, arch.stop, arch.data = tempVectors()
	arch.stop = units.NewVector([]float64{3600}, units.UnixEpoch, units.GroupTime)
	r := &fakeRenderer{}
	g, dir := newTestGenerator(t, cfgText, arch, r)

	n, err := g.Generate(time.Date(2015, 6, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.NoFileExists(t, filepath.Join(dir, "badplot.png"))
	assert.FileExists(t, filepath.Join(dir, "goodplot.png"))
}

func TestGenerateSaveFailureDoesNotAbortPass(t *testing.T) {
	arch := &fakeArchive{}
	arch.start, arch.stop, arch.data = tempVectors()
	r := &fakeRenderer{saveErr: os.ErrPermission}
	g, _ := newTestGenerator(t, generatorConfig, arch, r)

	n, err := g.Generate(time.Date(2015, 6, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	// Both plots rendered, neither counted.
	assert.Equal(t, 0, n)
	assert.Len(t, r.specs, 2)
}

func TestGenerateSkipsFreshAggregatedPlot(t *testing.T) {
	const cfgText = `
ImageGenerator:
  data_binding: wx_binding
  day_images:
    dayrain:
      aggregate_type: sum
      aggregate_interval: 3600
      rain: {}
`
	arch := &fakeArchive{}
	arch.start, arch.stop, arch.data = tempVectors()
	r := &fakeRenderer{}
	g, dir := newTestGenerator(t, cfgText, arch, r)

	// Pre-existing fresh image, anchor well off any hour boundary.
	img := filepath.Join(dir, "dayrain.png")
	require.NoError(t, os.WriteFile(img, []byte("old"), 0o644))
	anchor := time.Date(2015, 6, 1, 12, 30, 7, 0, time.Local)
	require.NoError(t, os.Chtimes(img, anchor.Add(-5*time.Minute), anchor.Add(-5*time.Minute)))

	n, err := g.Generate(anchor)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, r.specs)
}

func TestGenerateStaleAgeGate(t *testing.T) {
	const cfgText = `
ImageGenerator:
  data_binding: wx_binding
  day_images:
    stale_age: 3600
    daytemp:
      outTemp: {}
`
	arch := &fakeArchive{}
	arch.start, arch.stop, arch.data = tempVectors()
	r := &fakeRenderer{}
	g, dir := newTestGenerator(t, cfgText, arch, r)

	img := filepath.Join(dir, "daytemp.png")
	require.NoError(t, os.WriteFile(img, []byte("old"), 0o644))
	now := time.Now()
	require.NoError(t, os.Chtimes(img, now.Add(-time.Minute), now.Add(-time.Minute)))

	n, err := g.Generate(time.Date(2015, 6, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, r.specs)
}

func TestGenerateBottomLabelAndScaleHints(t *testing.T) {
	const cfgText = `
ImageGenerator:
  data_binding: wx_binding
  day_images:
    daytemp:
      yscale: [0, 40, 10]
      outTemp: {}
`
	arch := &fakeArchive{}
	arch.start, arch.stop, arch.data = tempVectors()
	r := &fakeRenderer{}
	g, _ := newTestGenerator(t, cfgText, arch, r)

	anchor := time.Date(2015, 6, 1, 14, 5, 0, 0, time.UTC)
	_, err := g.Generate(anchor)
	require.NoError(t, err)
	require.Len(t, r.specs, 1)

	spec := r.specs[0]
	assert.Equal(t, "06/01/15 14:05", spec.BottomLabel)
	require.NotNil(t, spec.YScale.Min)
	assert.Equal(t, 0.0, *spec.YScale.Min)
	require.NotNil(t, spec.YScale.Max)
	assert.Equal(t, 40.0, *spec.YScale.Max)
	require.NotNil(t, spec.YScale.Interval)
	assert.Equal(t, 10.0, *spec.YScale.Interval)

	// Last line's unit label wins at the plot level.
	assert.Equal(t, "°C", spec.UnitLabel)
}

func TestParseScaleHintAuto(t *testing.T) {
	hint := parseScaleHint([]string{"None", "None", "None"})
	assert.Nil(t, hint.Min)
	assert.Nil(t, hint.Max)
	assert.Nil(t, hint.Interval)

	hint = parseScaleHint(nil)
	assert.Nil(t, hint.Min)
}

func TestNewGeneratorRequiresImageGenerator(t *testing.T) {
	cfg, err := plotconfig.Load(strings.NewReader("Labels: {Generic: {}}\n"))
	require.NoError(t, err)
	_, err = NewGenerator(cfg, t.TempDir(), StationInfo{}, fakeBinder{},
		units.NewConverter(units.US), &fakeRenderer{})
	assert.ErrorIs(t, err, ErrConfig)
}
