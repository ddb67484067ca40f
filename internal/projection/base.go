package projection

import (
	"fmt"

	"github.com/iwvelando/sme-valuation/internal/model"
	"github.com/iwvelando/sme-valuation/pkg/constants"
	"github.com/iwvelando/sme-valuation/pkg/mathutil"
	"github.com/montanaflynn/stats"
)

// Base is the anchor year the projection grows from.
type Base struct {
	CalendarYear     int
	Revenue          float64
	VariableCostPct  float64
	PersonnelExpense float64
	GeneralExpense   float64
}

// ResolveBase extracts the base year from the historical record. Missing or
// out-of-range values are replaced by defaults and reported as warnings.
func ResolveBase(historical model.HistoricalFinancials, policy model.VariableCostPolicy) (Base, []string) {
	var warnings []string
	latest := historical.Latest()
	base := Base{
		CalendarYear:     latest.Year,
		Revenue:          latest.Revenue,
		PersonnelExpense: latest.PersonnelExpense,
		GeneralExpense:   latest.GeneralExpense,
	}

	if len(historical.Years) == 0 {
		warnings = append(warnings, "no historical years supplied, base revenue set to 0")
	} else if latest.Revenue <= 0 {
		warnings = append(warnings, fmt.Sprintf("base year %d has no positive revenue, projecting from 0", latest.Year))
		base.Revenue = 0
	}
	if base.PersonnelExpense < 0 {
		warnings = append(warnings, "negative base personnel expense replaced by 0")
		base.PersonnelExpense = 0
	}
	if base.GeneralExpense < 0 {
		warnings = append(warnings, "negative base general expense replaced by 0")
		base.GeneralExpense = 0
	}

	pct, pctWarnings := resolveVariableCostPct(historical, policy)
	base.VariableCostPct = pct
	warnings = append(warnings, pctWarnings...)
	return base, warnings
}

// variableCostSeries prefers the explicit list over per-year values.
func variableCostSeries(historical model.HistoricalFinancials) []float64 {
	if len(historical.VariableCostPcts) > 0 {
		return historical.VariableCostPcts
	}
	var series []float64
	for _, year := range historical.Years {
		if year.VariableCostPct != nil {
			series = append(series, *year.VariableCostPct)
		}
	}
	return series
}

func resolveVariableCostPct(historical model.HistoricalFinancials, policy model.VariableCostPolicy) (float64, []string) {
	var warnings []string

	if series := variableCostSeries(historical); len(series) > 0 {
		value := series[len(series)-1]
		if policy == model.VariableCostAverage {
			value, _ = stats.Mean(series)
		}
		clamped := mathutil.Clamp(value, 0, constants.PercentageMultiplier)
		if clamped != value {
			warnings = append(warnings, fmt.Sprintf("variable cost %.2f%% out of range, clamped to %.2f%%", value, clamped))
		}
		return clamped, warnings
	}

	latest := historical.Latest()
	if latest.EBITDA != nil && latest.Revenue > 0 {
		derived := mathutil.CalculatePercentage(latest.Revenue-*latest.EBITDA-latest.PersonnelExpense-latest.GeneralExpense, latest.Revenue)
		if derived > 0 && derived < constants.PercentageMultiplier {
			warnings = append(warnings, fmt.Sprintf("variable cost derived from EBITDA as %.2f%%", derived))
			return derived, warnings
		}
	}

	warnings = append(warnings, fmt.Sprintf("variable cost percentage missing, using default %.0f%%", constants.DefaultVariableCostPct))
	return constants.DefaultVariableCostPct, warnings
}
