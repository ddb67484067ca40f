// Package maturity classifies a company by age, size and historical growth
// and dampens proposed growth rates accordingly.
package maturity

import (
	"math"

	"github.com/iwvelando/sme-valuation/internal/model"
	"github.com/iwvelando/sme-valuation/pkg/datetime"
	"github.com/iwvelando/sme-valuation/pkg/mathutil"
	"github.com/montanaflynn/stats"
)

// Revenue thresholds in the company's currency.
const (
	smallRevenue  = 10_000_000.0
	mediumRevenue = 50_000_000.0
	largeRevenue  = 250_000_000.0
)

const (
	// DecayThreshold is the factor below which out-year growth is decayed.
	DecayThreshold = 0.7
	// YearlyDecay is the compounding per-year reduction applied below the
	// threshold.
	YearlyDecay = 0.05
)

// CAGR returns the compound annual growth rate, in percent, between the first
// and last revenues. It is 0 when fewer than two years are available or an
// endpoint is not positive.
func CAGR(revenues []float64) float64 {
	if len(revenues) < 2 {
		return 0
	}
	first, last := revenues[0], revenues[len(revenues)-1]
	if first <= 0 || last <= 0 {
		return 0
	}
	periods := float64(len(revenues) - 1)
	return mathutil.DecimalToPercent(math.Pow(last/first, 1/periods) - 1)
}

// Classify assigns the lifecycle stage. Rules are evaluated in order.
func Classify(age int, revenue, cagrPct float64) model.MaturityStage {
	switch {
	case age < 3:
		return model.StageStartup
	case age < 10 && cagrPct > 15:
		return model.StageRapidGrowth
	case age < 25 && revenue < mediumRevenue:
		return model.StageConsolidating
	case age >= 25 || revenue >= largeRevenue:
		return model.StageMature
	default:
		return model.StageEstablished
	}
}

// AgeFactor scores company age.
func AgeFactor(age int) float64 {
	switch {
	case age < 3:
		return 1.0
	case age < 10:
		return 0.9
	case age < 25:
		return 0.75
	default:
		return 0.6
	}
}

// SizeFactor scores revenue size.
func SizeFactor(revenue float64) float64 {
	switch {
	case revenue < smallRevenue:
		return 1.0
	case revenue < mediumRevenue:
		return 0.85
	case revenue < largeRevenue:
		return 0.7
	default:
		return 0.5
	}
}

// GrowthFactor scores historical CAGR.
func GrowthFactor(cagrPct float64) float64 {
	switch {
	case cagrPct > 15:
		return 1.0
	case cagrPct > 5:
		return 0.85
	default:
		return 0.7
	}
}

// Evaluate computes the full assessment from raw signals.
func Evaluate(age int, revenue, cagrPct float64) model.MaturityAssessment {
	a := model.MaturityAssessment{
		Age:          age,
		Revenue:      revenue,
		CAGRPct:      cagrPct,
		Stage:        Classify(age, revenue, cagrPct),
		AgeFactor:    AgeFactor(age),
		SizeFactor:   SizeFactor(revenue),
		GrowthFactor: GrowthFactor(cagrPct),
	}
	// Mean only fails on empty input.
	a.Factor, _ = stats.Mean(stats.Float64Data{a.AgeFactor, a.SizeFactor, a.GrowthFactor})
	return a
}

// Assess evaluates a company from its profile and history as of the given
// year.
func Assess(profile model.CompanyProfile, historical model.HistoricalFinancials, asOfYear int) model.MaturityAssessment {
	age := datetime.YearsBetween(profile.FoundationYear, asOfYear)
	return Evaluate(age, historical.Latest().Revenue, CAGR(historical.Revenues()))
}

// AdjustGrowthRates dampens proposed growth rates (percent) by the maturity
// factor. Below DecayThreshold each later year is further reduced by
// YearlyDecay, compounding. Results are rounded to one decimal.
func AdjustGrowthRates(ratesPct []float64, factor float64) []float64 {
	factor = mathutil.Clamp(factor, 0.5, 1.0)
	adjusted := make([]float64, len(ratesPct))
	for i, rate := range ratesPct {
		value := rate * factor
		if factor < DecayThreshold {
			value *= math.Pow(1-YearlyDecay, float64(i))
		}
		adjusted[i] = mathutil.RoundTo(value, 1)
	}
	return adjusted
}
