package plot

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalOne(t *testing.T, src string, x float64) float64 {
	t.Helper()
	fn, err := ParseExpr(src)
	require.NoError(t, err, "parsing %q", src)
	return fn(x)
}

func TestParseExpr(t *testing.T) {
	cases := []struct {
		src  string
		x    float64
		want float64
	}{
		{"1 + 2 * 3", 0, 7},
		{"(1 + 2) * 3", 0, 9},
		{"x", 42, 42},
		{"2 * x - 1", 10, 19},
		{"-x", 3, -3},
		{"2 ^ 3 ^ 2", 0, 512}, // right associative
		{"-2 ^ 2", 0, -4},
		{"10 / 4", 0, 2.5},
		{"sin(0)", 0, 0},
		{"cos(0)", 0, 1},
		{"sqrt(x)", 16, 4},
		{"abs(-5)", 0, 5},
		{"2 * pi", 0, 2 * math.Pi},
		{"exp(0) + e", 0, 1 + math.E},
		{"sin(x / 100) * 10 + 20", 0, 20},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			assert.InDelta(t, tc.want, evalOne(t, tc.src, tc.x), 1e-9)
		})
	}
}

func TestParseExprErrors(t *testing.T) {
	for _, src := range []string{
		"",
		"1 +",
		"(1 + 2",
		"foo(1)",
		"sin 1",
		"1 2",
		"x x",
		"1..2",
	} {
		_, err := ParseExpr(src)
		assert.Error(t, err, "expected parse error for %q", src)
	}
}

func TestGeneratePoints(t *testing.T) {
	start, stop, data := GeneratePoints("outTemp", "2 * x", 0, 100, 10)

	require.Equal(t, 10, data.Len())
	assert.Equal(t, start.Len(), stop.Len())
	assert.Equal(t, start.Values, stop.Values)
	assert.Equal(t, 0.0, start.Values[0])
	assert.Equal(t, 90.0, start.Values[9])
	assert.Equal(t, 180.0, data.Values[9])
}

// A broken expression degrades the whole line to a single zero sample
// instead of aborting the plot. Surprising, but downstream consumers depend
// on a file still being produced.
func TestGeneratePointsDegradeOnParseError(t *testing.T) {
	start, stop, data := GeneratePoints("outTemp", "frob(x)", 0, 100, 10)

	assert.Equal(t, []float64{0}, start.Values)
	assert.Equal(t, []float64{0}, stop.Values)
	assert.Equal(t, []float64{0}, data.Values)
}

func TestGeneratePointsDegradeOnDomainError(t *testing.T) {
	// log of a negative number is NaN partway through the range.
	_, _, data := GeneratePoints("outTemp", "log(x - 50)", 0, 100, 10)
	assert.Equal(t, []float64{0}, data.Values)
}

func TestGeneratePointsGuardsIncrement(t *testing.T) {
	_, _, data := GeneratePoints("outTemp", "x", 0, 5, 0)
	assert.Equal(t, 5, data.Len())
}
