// Package engine wires the maturity adjuster, cost model, projector and
// valuation into a single stateless call.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/sme-valuation/internal/costs"
	"github.com/iwvelando/sme-valuation/internal/maturity"
	"github.com/iwvelando/sme-valuation/internal/model"
	"github.com/iwvelando/sme-valuation/internal/projection"
	"github.com/iwvelando/sme-valuation/internal/valuation"
	"github.com/iwvelando/sme-valuation/pkg/constants"
	"github.com/iwvelando/sme-valuation/pkg/datetime"
	"go.uber.org/zap"
)

// Run projects and values the company described by input. When the terminal
// value is undefined the partial report is returned along with an
// *valuation.InvalidValuationError.
func Run(logger *zap.Logger, input model.Input) (*model.Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	scenario := input.Scenario
	scenario.AsOfYear = datetime.ResolveAsOfYear(scenario.AsOfYear, input.Historical.Latest().Year, time.Now())
	input.Scenario = scenario

	assessment := maturity.Assess(input.Profile, input.Historical, scenario.AsOfYear)
	logger.Debug(fmt.Sprintf("company classified as %s", assessment.Stage),
		zap.String("op", "engine.Run"),
		zap.Float64("factor", assessment.Factor),
	)

	growth := broadcastRates(scenario.GrowthRates, scenario.Horizon)
	if scenario.ApplyMaturityAdjustment {
		growth = maturity.AdjustGrowthRates(growth, assessment.Factor)
	}

	costModel := costs.NewModel(input.Profile.Sector, assessment.Stage.IsMature(), scenario.VariableExpenseShare)
	proj := projection.New(logger).Project(input, growth, costModel)

	report := &model.Report{
		Company:             input.Profile,
		Assessment:          assessment,
		AdjustedGrowthRates: growth,
		Years:               proj.Years,
		Debts:               proj.Debts,
		Warnings:            proj.Warnings,
	}

	result, err := valuation.New(logger).Compute(proj.Years, proj.Debts, scenario)
	report.Valuation = result
	if err != nil {
		var invalid *valuation.InvalidValuationError
		if errors.As(err, &invalid) {
			report.Warnings = append(report.Warnings, invalid.Error())
		}
		return report, fmt.Errorf("valuing %s: %w", input.Profile.Name, err)
	}
	return report, nil
}

// broadcastRates returns a fresh copy of rates sized to the horizon, repeating
// the last rate. An empty list stays empty so the projector's zero default
// applies.
func broadcastRates(rates []float64, horizon int) []float64 {
	if len(rates) == 0 {
		return nil
	}
	if horizon < constants.MinHorizonYears {
		horizon = constants.DefaultHorizonYears
	}
	out := make([]float64, horizon)
	for i := range out {
		if i < len(rates) {
			out[i] = rates[i]
		} else {
			out[i] = rates[len(rates)-1]
		}
	}
	return out
}
