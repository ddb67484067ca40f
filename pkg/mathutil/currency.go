// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/sme-valuation/pkg/constants"
	"github.com/shopspring/decimal"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// RoundTo rounds a value to the given number of decimal places, half away
// from zero, on the decimal representation of val rather than its binary one
// (so 0.05 rounds to 0.1).
func RoundTo(val float64, places int32) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return val
	}
	rounded, _ := decimal.NewFromFloat(val).Round(places).Float64()
	return rounded
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Clamp bounds val to [lo, hi].
func Clamp(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// IsFinite reports whether val is neither NaN nor infinite.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// PercentToDecimal converts a 0-100 percentage to a fraction.
func PercentToDecimal(pct float64) float64 {
	return pct / constants.PercentageMultiplier
}

// DecimalToPercent converts a fraction to a 0-100 percentage.
func DecimalToPercent(frac float64) float64 {
	return frac * constants.PercentageMultiplier
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}

// CompoundFactors returns the running product of (1 + rate/100) for each
// percentage rate, e.g. [10, 10] -> [1.1, 1.21].
func CompoundFactors(ratesPct []float64) []float64 {
	factors := make([]float64, len(ratesPct))
	acc := 1.0
	for i, rate := range ratesPct {
		acc *= 1 + PercentToDecimal(rate)
		factors[i] = acc
	}
	return factors
}
