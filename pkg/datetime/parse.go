// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseYear parses a calendar year from a string such as "2019" or a date
// such as "2019-03-01".
func ParseYear(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("empty year")
	}
	if year, err := strconv.Atoi(trimmed); err == nil {
		return year, nil
	}
	for _, layout := range []string{time.DateOnly, "2006-01", "02/01/2006"} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Year(), nil
		}
	}
	return 0, fmt.Errorf("unrecognized year %q", value)
}

// ResolveAsOfYear picks the valuation reference year: the explicit year when
// set, else the latest historical year, else the year of now.
func ResolveAsOfYear(explicit, latestHistorical int, now time.Time) int {
	if explicit > 0 {
		return explicit
	}
	if latestHistorical > 0 {
		return latestHistorical
	}
	return now.Year()
}

// YearsBetween returns the whole years from start to end, floored at zero.
func YearsBetween(start, end int) int {
	if start <= 0 || end < start {
		return 0
	}
	return end - start
}
