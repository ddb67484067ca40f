// Package valuation discounts a projected free-cash-flow series into
// enterprise and equity value and derives TIR, ROIC and a recommendation.
package valuation

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/sme-valuation/internal/model"
	"github.com/iwvelando/sme-valuation/pkg/mathutil"
	"github.com/montanaflynn/stats"
	"go.uber.org/zap"
)

// Engine computes valuations. It holds no state between calls.
type Engine struct {
	logger *zap.Logger
}

// New creates a valuation Engine.
func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// NetDebt sums the outstanding principal of every instrument.
func NetDebt(debts []model.DebtPosition) float64 {
	var total float64
	for _, d := range debts {
		total += d.Outstanding
	}
	return total
}

// Compute values the projection. When the terminal value is undefined the
// partially filled result is returned with StatusInvalidTerminalValue together
// with an *InvalidValuationError.
func (e *Engine) Compute(years []model.ProjectionYear, debts []model.DebtPosition, scenario model.ScenarioParameters) (model.ValuationResult, error) {
	waccPct, components := WACC(scenario)
	result := model.ValuationResult{
		Status:            model.StatusValid,
		WACCPct:           waccPct,
		TerminalGrowthPct: scenario.TerminalGrowthPct,
		NetDebt:           NetDebt(debts),
		Components:        components,
		Verdict:           model.VerdictInsufficientData,
	}

	if len(years) == 0 {
		result.Status = model.StatusInvalidTerminalValue
		return result, &InvalidValuationError{
			WACCPct:           waccPct,
			TerminalGrowthPct: scenario.TerminalGrowthPct,
			Reason:            "no projected years",
		}
	}

	cashFlows := make([]float64, len(years))
	roics := make(stats.Float64Data, len(years))
	for i, y := range years {
		cashFlows[i] = y.FreeCashFlow
		roics[i] = y.ROICPct
	}
	result.AverageROICPct, _ = roics.Mean()
	result.PVByYear = PresentValues(cashFlows, waccPct)
	result.PVFreeCashFlows, _ = stats.Sum(result.PVByYear)

	tv, err := TerminalValue(cashFlows[len(cashFlows)-1], waccPct, scenario.TerminalGrowthPct)
	if err != nil {
		var invalid *InvalidValuationError
		if errors.As(err, &invalid) {
			result.Status = model.StatusInvalidTerminalValue
		}
		e.logger.Warn("terminal value undefined",
			zap.String("op", "valuation.Compute"),
			zap.Float64("waccPct", waccPct),
			zap.Float64("terminalGrowthPct", scenario.TerminalGrowthPct),
		)
		return result, err
	}

	result.TerminalValue = tv
	result.PVTerminalValue = tv / math.Pow(1+mathutil.PercentToDecimal(waccPct), float64(len(years)))
	result.EnterpriseValue = result.PVFreeCashFlows + result.PVTerminalValue
	result.EquityValue = result.EnterpriseValue - result.NetDebt
	result.TerminalValueSharePct = mathutil.CalculatePercentage(result.PVTerminalValue, result.EnterpriseValue)
	if years[0].EBITDA > 0 {
		result.EVToEBITDA = result.EnterpriseValue / years[0].EBITDA
	}

	if tir, ok := SolveTIR(result.EquityValue, cashFlows); ok {
		result.TIRPct = &tir
	} else {
		result.Status = model.StatusTIRNotConverged
		e.logger.Info("TIR did not converge",
			zap.String("op", "valuation.Compute"),
			zap.Float64("equityValue", result.EquityValue),
		)
	}
	result.Verdict = Recommend(result.TIRPct, waccPct, result.AverageROICPct)

	e.logger.Debug(fmt.Sprintf("valuation complete: EV %.2f, equity %.2f", result.EnterpriseValue, result.EquityValue),
		zap.String("op", "valuation.Compute"),
		zap.String("verdict", string(result.Verdict)),
	)
	return result, nil
}
