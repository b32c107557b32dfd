// Package units pairs sample vectors with unit metadata and converts them
// between unit systems.
//
// A Vector is the minimal unit-aware value container used throughout the plot
// pipeline: an ordered sequence of samples plus the unit type the samples are
// expressed in and the unit group (the category of quantity) they belong to.
// Vectors are immutable once constructed; conversions produce new instances.
package units

// Unit systems.
const (
	US       = "us"
	Metric   = "metric"
	MetricWX = "metricwx"
)

// Unit groups.
const (
	GroupTemperature = "group_temperature"
	GroupPressure    = "group_pressure"
	GroupSpeed       = "group_speed"
	GroupRain        = "group_rain"
	GroupPercent     = "group_percent"
	GroupDirection   = "group_direction"
	GroupTime        = "group_time"
	GroupCount       = "group_count"
)

// Unit types.
const (
	DegreeF       = "degree_F"
	DegreeC       = "degree_C"
	InHg          = "inHg"
	Mbar          = "mbar"
	MilePerHour   = "mile_per_hour"
	KmPerHour     = "km_per_hour"
	MeterPerSec   = "meter_per_second"
	Inch          = "inch"
	Cm            = "cm"
	Mm            = "mm"
	Percent       = "percent"
	DegreeCompass = "degree_compass"
	UnixEpoch     = "unix_epoch"
	Count         = "count"
)

// Vector is an ordered sequence of samples tagged with the unit type they are
// expressed in and the unit group they belong to. An empty Unit marks a
// unitless vector, which conversions pass through unchanged.
type Vector struct {
	Values []float64
	Unit   string
	Group  string
}

// NewVector copies values into a fresh Vector.
func NewVector(values []float64, unit, group string) Vector {
	v := make([]float64, len(values))
	copy(v, values)
	return Vector{Values: v, Unit: unit, Group: group}
}

// Len returns the number of samples.
func (v Vector) Len() int { return len(v.Values) }

// Shift returns a new Vector with delta added to every sample. The unit tags
// are preserved; the receiver is not modified.
func (v Vector) Shift(delta float64) Vector {
	out := make([]float64, len(v.Values))
	for i, x := range v.Values {
		out[i] = x + delta
	}
	return Vector{Values: out, Unit: v.Unit, Group: v.Group}
}

// obsGroups maps observation types to the unit group of the quantity they
// measure. Observation types not listed here have no standard unit and are
// carried through the pipeline unconverted.
var obsGroups = map[string]string{
	"outTemp":     GroupTemperature,
	"inTemp":      GroupTemperature,
	"dewpoint":    GroupTemperature,
	"windchill":   GroupTemperature,
	"heatindex":   GroupTemperature,
	"barometer":   GroupPressure,
	"pressure":    GroupPressure,
	"altimeter":   GroupPressure,
	"windSpeed":   GroupSpeed,
	"windGust":    GroupSpeed,
	"rain":        GroupRain,
	"ET":          GroupRain,
	"outHumidity": GroupPercent,
	"inHumidity":  GroupPercent,
	"windDir":     GroupDirection,
	"windGustDir": GroupDirection,
	"dateTime":    GroupTime,
}

// standardUnits gives the unit type used for each group in each unit system.
var standardUnits = map[string]map[string]string{
	US: {
		GroupTemperature: DegreeF,
		GroupPressure:    InHg,
		GroupSpeed:       MilePerHour,
		GroupRain:        Inch,
		GroupPercent:     Percent,
		GroupDirection:   DegreeCompass,
		GroupTime:        UnixEpoch,
		GroupCount:       Count,
	},
	Metric: {
		GroupTemperature: DegreeC,
		GroupPressure:    Mbar,
		GroupSpeed:       KmPerHour,
		GroupRain:        Cm,
		GroupPercent:     Percent,
		GroupDirection:   DegreeCompass,
		GroupTime:        UnixEpoch,
		GroupCount:       Count,
	},
	MetricWX: {
		GroupTemperature: DegreeC,
		GroupPressure:    Mbar,
		GroupSpeed:       MeterPerSec,
		GroupRain:        Mm,
		GroupPercent:     Percent,
		GroupDirection:   DegreeCompass,
		GroupTime:        UnixEpoch,
		GroupCount:       Count,
	},
}

// StandardUnitType returns the unit type and unit group an observation of
// varType carries in the given unit system. Certain aggregations change the
// group of the result: min/max timestamps are times, counts are counts.
// Unknown observation types or systems yield empty tags (unitless).
func StandardUnitType(system, varType, aggregateType string) (unit, group string) {
	switch aggregateType {
	case "mintime", "maxtime", "lasttime":
		group = GroupTime
	case "count":
		group = GroupCount
	default:
		group = obsGroups[varType]
	}
	if group == "" {
		return "", ""
	}
	table, ok := standardUnits[system]
	if !ok {
		return "", group
	}
	return table[group], group
}
