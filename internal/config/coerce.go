package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

var numberCleaner = strings.NewReplacer("%", "", "€", "", "$", "", "£", "", " ", "", "\u00a0", "", "_", "")

// normalizeNumeric rewrites spreadsheet-style numbers into a form strconv
// accepts. When both separators appear the last one is the decimal mark. A
// lone comma followed by exactly three digits groups thousands ("12,500");
// any other lone comma is a decimal mark ("3,5").
func normalizeNumeric(s string) string {
	s = numberCleaner.Replace(strings.TrimSpace(s))
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Count(s, ",") == 1 && isThousandsGroup(s, lastComma):
		s = strings.Replace(s, ",", "", 1)
	case strings.Count(s, ",") == 1:
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ",") > 1:
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}
	return s
}

// isThousandsGroup reports whether the comma at i separates a non-zero
// integer part from a three-digit group. "0,500" stays a decimal.
func isThousandsGroup(s string, i int) bool {
	head := strings.TrimPrefix(s[:i], "-")
	tail := s[i+1:]
	if len(tail) != 3 || head == "" || strings.Trim(head, "0") == "" {
		return false
	}
	return strings.Trim(head+tail, "0123456789") == ""
}

// parseNumber coerces a scalar value. The second result is false when v is
// absent or cannot be read as a number.
func parseNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case string:
		cleaned := normalizeNumeric(t)
		if cleaned == "" {
			return 0, false
		}
		f, err := cast.ToFloat64E(cleaned)
		if err != nil {
			return 0, false
		}
		return f, true
	case []any:
		if len(t) == 0 {
			return 0, false
		}
		return parseNumber(t[len(t)-1])
	default:
		f, err := cast.ToFloat64E(t)
		if err != nil {
			return 0, false
		}
		return f, true
	}
}

// parseList coerces a scalar-or-list value into a list. Strings may hold
// several values separated by semicolons.
func parseList(v any) ([]float64, bool) {
	var items []any
	switch t := v.(type) {
	case nil:
		return nil, false
	case []any:
		items = t
	case []float64:
		return append([]float64(nil), t...), len(t) > 0
	case string:
		for _, part := range strings.Split(t, ";") {
			if strings.TrimSpace(part) != "" {
				items = append(items, part)
			}
		}
	default:
		items = []any{t}
	}

	values := make([]float64, 0, len(items))
	for _, item := range items {
		f, ok := parseNumber(item)
		if !ok {
			return nil, false
		}
		values = append(values, f)
	}
	return values, len(values) > 0
}

// broadcast stretches or truncates values to n entries, repeating the last.
func broadcast(values []float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		if i < len(values) {
			out[i] = values[i]
		} else {
			out[i] = values[len(values)-1]
		}
	}
	return out
}

// coercer accumulates warnings for every default or clamp it applies.
type coercer struct {
	warnings []string
}

func (c *coercer) warnf(format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

// number returns the value of field or def when it is missing or malformed.
func (c *coercer) number(field string, v any, def float64) float64 {
	f, ok := parseNumber(v)
	if !ok {
		if v != nil {
			c.warnf("%s: cannot read %v as a number, using %g", field, v, def)
		} else {
			c.warnf("%s not set, using %g", field, def)
		}
		return def
	}
	return f
}

// optionalNumber is number without a default or a warning for absence.
func (c *coercer) optionalNumber(field string, v any) *float64 {
	if v == nil {
		return nil
	}
	f, ok := parseNumber(v)
	if !ok {
		c.warnf("%s: cannot read %v as a number, ignored", field, v)
		return nil
	}
	return &f
}

// amount is number defaulting to 0 without warning when absent.
func (c *coercer) amount(field string, v any) float64 {
	if v == nil {
		return 0
	}
	return c.number(field, v, 0)
}

func (c *coercer) clamp(field string, value, lo, hi float64) float64 {
	if value < lo {
		c.warnf("%s %g below %g, clamped", field, value, lo)
		return lo
	}
	if value > hi {
		c.warnf("%s %g above %g, clamped", field, value, hi)
		return hi
	}
	return value
}

// series returns n values from a scalar-or-list field, defaulting every year
// to def when absent.
func (c *coercer) series(field string, v any, n int, def float64) []float64 {
	values, ok := parseList(v)
	if !ok {
		if v != nil {
			c.warnf("%s: cannot read %v as a number list, using %g", field, v, def)
		} else {
			c.warnf("%s not set, using %g", field, def)
		}
		values = []float64{def}
	}
	if len(values) > 1 && len(values) < n {
		c.warnf("%s has %d values for %d years, repeating the last", field, len(values), n)
	}
	return broadcast(values, n)
}
