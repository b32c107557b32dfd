package units

// unitLabels holds the display suffix for each unit type.
var unitLabels = map[string]string{
	DegreeF:       "°F",
	DegreeC:       "°C",
	InHg:          "inHg",
	Mbar:          "mbar",
	MilePerHour:   "mph",
	KmPerHour:     "km/h",
	MeterPerSec:   "m/s",
	Inch:          "in",
	Cm:            "cm",
	Mm:            "mm",
	Percent:       "%",
	DegreeCompass: "°",
}

// Label returns the display label for a unit type, or "" if the unit has no
// registered label.
func Label(unit string) string { return unitLabels[unit] }

// StandardLabel derives the axis label an observation of varType gets in the
// converter's target system: the label of the unit the data vector will have
// been converted to.
func StandardLabel(c Converter, varType string) string {
	unit, _ := StandardUnitType(c.System(), varType, "")
	return Label(unit)
}
