package valuation

import (
	"math"

	"github.com/iwvelando/sme-valuation/internal/model"
	"github.com/iwvelando/sme-valuation/pkg/constants"
	"github.com/iwvelando/sme-valuation/pkg/mathutil"
)

// CostOfEquity applies CAPM: rf + beta * market premium. All in percent.
func CostOfEquity(riskFreePct, beta, marketPremiumPct float64) float64 {
	return riskFreePct + beta*marketPremiumPct
}

// WACC returns the discount rate in percent and its breakdown. An override in
// the scenario replaces the computed rate but the components are still
// reported.
func WACC(s model.ScenarioParameters) (float64, model.WACCComponents) {
	leverage := mathutil.Clamp(mathutil.PercentToDecimal(s.TargetLeveragePct), 0, 1)
	taxRate := mathutil.Clamp(mathutil.PercentToDecimal(s.TaxRatePct), 0, 1)

	c := model.WACCComponents{
		RiskFreePct:           s.RiskFreePct,
		Beta:                  s.Beta,
		MarketPremiumPct:      s.MarketPremiumPct,
		CostOfEquityPct:       CostOfEquity(s.RiskFreePct, s.Beta, s.MarketPremiumPct),
		CostOfDebtPct:         s.CostOfDebtPct,
		AfterTaxCostOfDebtPct: s.CostOfDebtPct * (1 - taxRate),
		DebtWeightPct:         mathutil.DecimalToPercent(leverage),
		EquityWeightPct:       mathutil.DecimalToPercent(1 - leverage),
		TaxRatePct:            s.TaxRatePct,
	}
	if s.WACCOverridePct != nil {
		c.Overridden = true
		return *s.WACCOverridePct, c
	}
	return c.CostOfEquityPct*(1-leverage) + c.AfterTaxCostOfDebtPct*leverage, c
}

// PresentValues discounts each end-of-year cash flow at ratePct.
func PresentValues(cashFlows []float64, ratePct float64) []float64 {
	r := mathutil.PercentToDecimal(ratePct)
	pv := make([]float64, len(cashFlows))
	for t, cf := range cashFlows {
		pv[t] = cf / math.Pow(1+r, float64(t+1))
	}
	return pv
}

// TerminalValue applies the Gordon growth model to the last cash flow. It
// fails when the discount rate does not exceed the growth rate.
func TerminalValue(lastCashFlow, waccPct, growthPct float64) (float64, error) {
	if waccPct <= growthPct {
		return 0, &InvalidValuationError{
			WACCPct:           waccPct,
			TerminalGrowthPct: growthPct,
			Reason:            "discount rate must exceed terminal growth",
		}
	}
	w := mathutil.PercentToDecimal(waccPct)
	g := mathutil.PercentToDecimal(growthPct)
	return lastCashFlow * (1 + g) / (w - g), nil
}

// Bounds of the TIR search, as fractions.
const (
	minTIR = -0.99
	maxTIR = 5.0
)

// npvAgainst is -investment + sum(cf_t / (1+r)^t).
func npvAgainst(investment float64, cashFlows []float64, r float64) float64 {
	v := -investment
	for t, cf := range cashFlows {
		v += cf / math.Pow(1+r, float64(t+1))
	}
	return v
}

// SolveTIR finds the rate, in percent, at which the discounted cash flows
// equal the investment. It bisects over [-99%, 500%] and reports false when
// the interval does not bracket a root or the iteration cap is reached.
func SolveTIR(investment float64, cashFlows []float64) (float64, bool) {
	if len(cashFlows) == 0 || !mathutil.IsFinite(investment) {
		return 0, false
	}

	lo, hi := minTIR, maxTIR
	fLo := npvAgainst(investment, cashFlows, lo)
	fHi := npvAgainst(investment, cashFlows, hi)
	if !mathutil.IsFinite(fLo) || !mathutil.IsFinite(fHi) {
		return 0, false
	}
	if fLo == 0 {
		return mathutil.DecimalToPercent(lo), true
	}
	if fHi == 0 {
		return mathutil.DecimalToPercent(hi), true
	}
	if (fLo > 0) == (fHi > 0) {
		return 0, false
	}

	for i := 0; i < constants.MaxSolverIterations; i++ {
		mid := (lo + hi) / 2
		fMid := npvAgainst(investment, cashFlows, mid)
		if fMid == 0 || (hi-lo)/2 < constants.RateTolerance {
			return mathutil.DecimalToPercent(mid), true
		}
		if (fMid > 0) == (fLo > 0) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
	}
	return 0, false
}

// Recommend classifies the investment from TIR, WACC and average ROIC, all in
// percent. A nil TIR yields VerdictInsufficientData.
func Recommend(tirPct *float64, waccPct, roicPct float64) model.Verdict {
	if tirPct == nil {
		return model.VerdictInsufficientData
	}
	tir := *tirPct
	switch {
	case tir > waccPct && roicPct > waccPct:
		return model.VerdictViable
	case tir > waccPct:
		return model.VerdictViableGrowthDriven
	case tir > waccPct*0.9:
		return model.VerdictMarginal
	case roicPct > waccPct:
		return model.VerdictParadox
	default:
		return model.VerdictNotViable
	}
}
