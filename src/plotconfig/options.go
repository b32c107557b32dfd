package plotconfig

import (
	"strconv"
	"strings"
)

// Options is a flat, fully layered option snapshot for one plot or line.
type Options map[string]string

// unset reports values that mean "not configured": missing keys and the
// literal None spellings the original configuration dialect used.
func unset(v string, ok bool) bool {
	if !ok {
		return true
	}
	switch strings.TrimSpace(strings.ToLower(v)) {
	case "", "none":
		return true
	}
	return false
}

// Has reports whether key is set to a non-None value.
func (o Options) Has(key string) bool {
	v, ok := o[key]
	return !unset(v, ok)
}

// String returns the option value, or def when unset.
func (o Options) String(key, def string) string {
	v, ok := o[key]
	if unset(v, ok) {
		return def
	}
	return strings.TrimSpace(v)
}

// Int returns the option parsed as an integer. Unparsable values count as
// unset.
func (o Options) Int(key string) (int, bool) {
	v, ok := o[key]
	if unset(v, ok) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

// IntDefault returns the option parsed as an integer, or def when unset.
func (o Options) IntDefault(key string, def int) int {
	if n, ok := o.Int(key); ok {
		return n
	}
	return def
}

// Float returns the option parsed as a float.
func (o Options) Float(key string) (float64, bool) {
	v, ok := o[key]
	if unset(v, ok) {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// BoolDefault returns the option parsed as a boolean, or def when unset.
// Accepted spellings follow the original dialect: true/false, yes/no, on/off
// and 0/1, case-insensitive.
func (o Options) BoolDefault(key string, def bool) bool {
	v, ok := o[key]
	if unset(v, ok) {
		return def
	}
	switch strings.TrimSpace(strings.ToLower(v)) {
	case "true", "yes", "on", "1":
		return true
	case "false", "no", "off", "0":
		return false
	}
	return def
}

// List splits a comma-separated option into trimmed elements. Unset options
// yield nil.
func (o Options) List(key string) []string {
	v, ok := o[key]
	if unset(v, ok) {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
