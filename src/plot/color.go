package plot

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Color is a packed 0xBBGGRR value, the byte order the original plot
// configuration dialect uses for its hex literals.
type Color uint32

// RGB unpacks the color into its red, green and blue components.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c & 0xff), uint8(c >> 8 & 0xff), uint8(c >> 16 & 0xff)
}

func packRGB(r, g, b uint32) Color { return Color(b<<16 | g<<8 | r) }

// namedColors maps the color names accepted in configuration to RGB.
var namedColors = map[string]Color{
	"black":   packRGB(0x00, 0x00, 0x00),
	"white":   packRGB(0xff, 0xff, 0xff),
	"red":     packRGB(0xff, 0x00, 0x00),
	"green":   packRGB(0x00, 0x80, 0x00),
	"blue":    packRGB(0x00, 0x00, 0xff),
	"yellow":  packRGB(0xff, 0xff, 0x00),
	"orange":  packRGB(0xff, 0xa5, 0x00),
	"purple":  packRGB(0x80, 0x00, 0x80),
	"brown":   packRGB(0xa5, 0x2a, 0x2a),
	"cyan":    packRGB(0x00, 0xff, 0xff),
	"magenta": packRGB(0xff, 0x00, 0xff),
	"gray":    packRGB(0x80, 0x80, 0x80),
	"grey":    packRGB(0x80, 0x80, 0x80),
	"silver":  packRGB(0xc0, 0xc0, 0xc0),
	"navy":    packRGB(0x00, 0x00, 0x80),
	"teal":    packRGB(0x00, 0x80, 0x80),
	"olive":   packRGB(0x80, 0x80, 0x00),
	"maroon":  packRGB(0x80, 0x00, 0x00),
	"lime":    packRGB(0x00, 0xff, 0x00),
}

// ParseColor parses a color literal: a "0xBBGGRR" hex value (already in
// packed byte order), a "#RRGGBB" hex value, or a known color name.
func ParseColor(s string) (Color, error) {
	t := strings.TrimSpace(strings.ToLower(s))
	switch {
	case strings.HasPrefix(t, "0x"):
		v, err := strconv.ParseUint(t[2:], 16, 32)
		if err != nil {
			return 0, errors.Wrapf(err, "bad color literal %q", s)
		}
		return Color(v), nil
	case strings.HasPrefix(t, "#"):
		v, err := strconv.ParseUint(t[1:], 16, 32)
		if err != nil {
			return 0, errors.Wrapf(err, "bad color literal %q", s)
		}
		return packRGB(uint32(v>>16&0xff), uint32(v>>8&0xff), uint32(v&0xff)), nil
	default:
		if c, ok := namedColors[t]; ok {
			return c, nil
		}
		return 0, errors.Newf("unknown color %q", s)
	}
}
