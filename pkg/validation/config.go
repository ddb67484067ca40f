// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/sme-valuation/pkg/constants"
)

// ValidateHorizon checks the projection horizon is within supported bounds
func ValidateHorizon(horizon int) string {
	if horizon < constants.MinHorizonYears || horizon > constants.MaxHorizonYears {
		return fmt.Sprintf("Horizon %d outside %d-%d years - it will be clamped",
			horizon, constants.MinHorizonYears, constants.MaxHorizonYears)
	}
	return ""
}

// ValidateDays checks a working capital ratio is within 0-365 days
func ValidateDays(name string, days float64) string {
	if days < 0 || days > constants.MaxWorkingCapitalDays {
		return fmt.Sprintf("Working capital '%s' of %.1f days outside 0-%.0f - it will be clamped",
			name, days, constants.MaxWorkingCapitalDays)
	}
	return ""
}

// ValidateTerminalGrowth checks the discount rate exceeds the terminal growth
// rate so a terminal value exists
func ValidateTerminalGrowth(waccPct, growthPct float64) string {
	if waccPct <= growthPct {
		return fmt.Sprintf("WACC %.2f%% does not exceed terminal growth %.2f%% - no terminal value can be computed",
			waccPct, growthPct)
	}
	return ""
}

// ValidateDebtTerm checks elapsed time is before the end of the term
func ValidateDebtTerm(name, kind string, term, elapsed float64) []string {
	var warnings []string
	unit := "years"
	if kind == "leasing" {
		unit = "months"
	}

	if term <= 0 {
		warnings = append(warnings, fmt.Sprintf("Debt '%s' has no term - the whole principal is treated as current", name))
	}
	if elapsed < 0 {
		warnings = append(warnings, fmt.Sprintf("Debt '%s' has negative elapsed time - it will be treated as new", name))
	}
	if term > 0 && elapsed >= term {
		warnings = append(warnings, fmt.Sprintf("Debt '%s' elapsed %.1f %s is not before its term of %.1f %s - it will be clamped",
			name, elapsed, unit, term, unit))
	}
	return warnings
}

// ConfigValidator holds the values checked by ValidateAll
type ConfigValidator struct {
	Horizon            int
	HistoricalYears    int
	WorkingCapitalDays []DaysConfig
	TaxRatePct         float64
	WACCPct            float64
	TerminalGrowthPct  float64
	Debts              []DebtConfig
}

type DaysConfig struct {
	Name string
	Days float64
}

type DebtConfig struct {
	Name    string
	Kind    string
	Term    float64
	Elapsed float64
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	if warning := ValidateHorizon(cv.Horizon); warning != "" {
		warnings = append(warnings, warning)
	}

	if cv.HistoricalYears == 0 {
		warnings = append(warnings, "No historical years supplied - the projection starts from zero revenue")
	} else if cv.HistoricalYears == 1 {
		warnings = append(warnings, "Only one historical year supplied - growth history cannot be measured")
	}

	for _, days := range cv.WorkingCapitalDays {
		if warning := ValidateDays(days.Name, days.Days); warning != "" {
			warnings = append(warnings, warning)
		}
	}

	if cv.TaxRatePct < 0 || cv.TaxRatePct > constants.PercentageMultiplier {
		warnings = append(warnings, fmt.Sprintf("Tax rate %.2f%% outside 0-100", cv.TaxRatePct))
	}

	if warning := ValidateTerminalGrowth(cv.WACCPct, cv.TerminalGrowthPct); warning != "" {
		warnings = append(warnings, warning)
	}

	for _, debt := range cv.Debts {
		warnings = append(warnings, ValidateDebtTerm(debt.Name, debt.Kind, debt.Term, debt.Elapsed)...)
	}

	return warnings
}
