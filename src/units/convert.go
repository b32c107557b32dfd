package units

import (
	"github.com/cockroachdb/errors"
)

// ErrUnknownUnit reports a unit type with no registered conversion path to
// the requested target. Callers must not fall back to the unconverted data;
// the vector carrying the offending unit is unusable for display.
var ErrUnknownUnit = errors.New("no conversion path for unit")

// conversions holds the pairwise conversion functions between unit types.
// Every reachable (from, to) pair is listed explicitly; chaining is not
// attempted at lookup time.
var conversions = map[string]map[string]func(float64) float64{
	DegreeF: {
		DegreeC: func(x float64) float64 { return (x - 32) * 5 / 9 },
	},
	DegreeC: {
		DegreeF: func(x float64) float64 { return x*9/5 + 32 },
	},
	InHg: {
		Mbar: func(x float64) float64 { return x * 33.86386 },
	},
	Mbar: {
		InHg: func(x float64) float64 { return x / 33.86386 },
	},
	MilePerHour: {
		KmPerHour:   func(x float64) float64 { return x * 1.609344 },
		MeterPerSec: func(x float64) float64 { return x * 0.44704 },
	},
	KmPerHour: {
		MilePerHour: func(x float64) float64 { return x / 1.609344 },
		MeterPerSec: func(x float64) float64 { return x / 3.6 },
	},
	MeterPerSec: {
		MilePerHour: func(x float64) float64 { return x / 0.44704 },
		KmPerHour:   func(x float64) float64 { return x * 3.6 },
	},
	Inch: {
		Cm: func(x float64) float64 { return x * 2.54 },
		Mm: func(x float64) float64 { return x * 25.4 },
	},
	Cm: {
		Inch: func(x float64) float64 { return x / 2.54 },
		Mm:   func(x float64) float64 { return x * 10 },
	},
	Mm: {
		Inch: func(x float64) float64 { return x / 25.4 },
		Cm:   func(x float64) float64 { return x / 10 },
	},
}

// Converter converts vectors to the standard units of one target system.
type Converter struct {
	system string
}

// NewConverter returns a Converter targeting the given unit system
// (US, Metric or MetricWX).
func NewConverter(system string) Converter {
	return Converter{system: system}
}

// System returns the converter's target unit system.
func (c Converter) System() string { return c.system }

// TargetUnit returns the unit type the converter maps the given group to, or
// "" if the group has no standard unit in the target system.
func (c Converter) TargetUnit(group string) string {
	table, ok := standardUnits[c.system]
	if !ok {
		return ""
	}
	return table[group]
}

// Convert returns a new Vector expressed in the target system's standard unit
// for the vector's group. Unitless vectors and vectors already in the target
// unit are returned as copies. A vector whose unit has no conversion function
// to the target yields ErrUnknownUnit.
func (c Converter) Convert(v Vector) (Vector, error) {
	target := c.TargetUnit(v.Group)
	if v.Unit == "" || target == "" || v.Unit == target {
		return NewVector(v.Values, v.Unit, v.Group), nil
	}
	fn, ok := conversions[v.Unit][target]
	if !ok {
		return Vector{}, errors.Wrapf(ErrUnknownUnit, "%s -> %s", v.Unit, target)
	}
	out := make([]float64, len(v.Values))
	for i, x := range v.Values {
		out[i] = fn(x)
	}
	return Vector{Values: out, Unit: target, Group: v.Group}, nil
}
