// Package projection rolls the base year forward into a multi-year income
// statement, balance sheet and free-cash-flow series.
package projection

import (
	"fmt"
	"math"

	"github.com/iwvelando/sme-valuation/internal/costs"
	"github.com/iwvelando/sme-valuation/internal/model"
	"github.com/iwvelando/sme-valuation/pkg/constants"
	"github.com/iwvelando/sme-valuation/pkg/loans"
	"github.com/iwvelando/sme-valuation/pkg/mathutil"
	"go.uber.org/zap"
)

// Projection is the output of one Project call.
type Projection struct {
	Base     Base
	Years    []model.ProjectionYear
	Debts    []model.DebtPosition
	Warnings []string
}

// Projector builds projections. It holds no state between calls.
type Projector struct {
	logger    *zap.Logger
	schedules *loans.ScheduleGenerator
}

// New creates a Projector.
func New(logger *zap.Logger) *Projector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Projector{
		logger:    logger,
		schedules: loans.NewScheduleGenerator(logger),
	}
}

type debtYear struct {
	interest, repaid, current, longTerm float64
}

type openingBalance struct {
	cash, receivables, inventory, payables, netFixedAssets, debt float64
}

func (o openingBalance) netWorkingCapital() float64 {
	return o.receivables + o.inventory - o.payables
}

func (o openingBalance) equity() float64 {
	return o.cash + o.receivables + o.inventory + o.netFixedAssets - o.payables - o.debt
}

// Project computes one ProjectionYear per horizon year. growthRatesPct are the
// already adjusted growth rates; the cost model decides how expenses scale.
func (p *Projector) Project(input model.Input, growthRatesPct []float64, costModel costs.Model) Projection {
	scenario := input.Scenario
	base, warnings := ResolveBase(input.Historical, scenario.VariableCostPolicy)

	horizon := scenario.Horizon
	if horizon < constants.MinHorizonYears {
		warnings = append(warnings, fmt.Sprintf("horizon %d is invalid, using %d years", horizon, constants.DefaultHorizonYears))
		horizon = constants.DefaultHorizonYears
	}
	startYear := base.CalendarYear
	if scenario.AsOfYear > 0 {
		startYear = scenario.AsOfYear
	}

	debts, schedule, debtWarnings := p.debtSchedule(input.Debts, horizon)
	warnings = append(warnings, debtWarnings...)

	opening := openingBalance{
		cash:           input.Historical.Cash,
		receivables:    workingCapitalBalance(base.Revenue, scenario.ReceivableDays),
		inventory:      workingCapitalBalance(base.Revenue*mathutil.PercentToDecimal(base.VariableCostPct), scenario.InventoryDays),
		payables:       workingCapitalBalance(base.Revenue*mathutil.PercentToDecimal(base.VariableCostPct), scenario.PayableDays),
		netFixedAssets: math.Max(0, input.Historical.NetFixedAssets),
	}
	for _, debt := range debts {
		opening.debt += debt.Outstanding
	}

	taxRate := mathutil.PercentToDecimal(scenario.TaxRatePct)
	years := make([]model.ProjectionYear, 0, horizon)
	prevCash := opening.cash
	prevEquity := opening.equity()
	prevNFA := opening.netFixedAssets
	prevNWC := opening.netWorkingCapital()
	growthByYear := make([]float64, horizon)
	inflationByYear := make([]float64, horizon)
	for i := range growthByYear {
		growthByYear[i] = rateAt(growthRatesPct, i, 0)
		inflationByYear[i] = rateAt(scenario.InflationRates, i, 0)
	}
	activityFactors := mathutil.CompoundFactors(growthByYear)
	inflationFactors := mathutil.CompoundFactors(inflationByYear)

	for t := 1; t <= horizon; t++ {
		growth := growthByYear[t-1]
		activity, inflation := activityFactors[t-1], inflationFactors[t-1]

		y := model.ProjectionYear{
			Year:           t,
			CalendarYear:   startYear + t,
			GrowthRatePct:  growth,
			ActivityFactor: activity,
			InflationAccum: inflation,
		}

		y.Revenue = base.Revenue * activity
		y.VariableCosts = mathutil.ApplyPercentage(y.Revenue, base.VariableCostPct)
		y.PersonnelExpense, y.GeneralExpense = costModel.Expenses(base.PersonnelExpense, base.GeneralExpense, activity, inflation)
		y.EBITDA = y.Revenue - y.VariableCosts - y.PersonnelExpense - y.GeneralExpense

		y.Depreciation = mathutil.ApplyPercentage(prevNFA, scenario.DepreciationRatePct)
		y.Capex = mathutil.ApplyPercentage(y.Revenue, scenario.CapexPct)
		y.NetFixedAssets = prevNFA + y.Capex - y.Depreciation
		y.EBIT = y.EBITDA - y.Depreciation

		d := schedule[t-1]
		y.FinancingExpense = d.interest
		y.DebtRepaid = d.repaid
		y.DebtCurrent = d.current
		y.DebtLongTerm = d.longTerm

		y.Taxes = math.Max(0, y.EBIT-y.FinancingExpense) * taxRate
		y.NetIncome = y.EBIT - y.FinancingExpense - y.Taxes

		y.Receivables = workingCapitalBalance(y.Revenue, scenario.ReceivableDays)
		y.Inventory = workingCapitalBalance(y.VariableCosts, scenario.InventoryDays)
		y.Payables = workingCapitalBalance(y.VariableCosts, scenario.PayableDays)
		y.NetWorkingCapital = y.Receivables + y.Inventory - y.Payables
		y.DeltaWorkingCapital = y.NetWorkingCapital - prevNWC

		y.FreeCashFlow = y.NetIncome + y.Depreciation - y.Capex - y.DeltaWorkingCapital
		y.Cash = prevCash + y.FreeCashFlow - y.DebtRepaid
		y.Equity = prevEquity + y.NetIncome

		y.InvestedCapital = y.NetFixedAssets + y.NetWorkingCapital
		if y.InvestedCapital > 0 {
			y.ROICPct = mathutil.CalculatePercentage(y.EBIT*(1-taxRate), y.InvestedCapital)
		}

		if !mathutil.WithinTolerance(y.TotalAssets(), y.TotalLiabilitiesAndEquity(), constants.CurrencyTolerance) {
			p.logger.Warn("projected balance sheet does not balance",
				zap.String("op", "projection.Project"),
				zap.Int("year", t),
				zap.Float64("assets", y.TotalAssets()),
				zap.Float64("liabilitiesAndEquity", y.TotalLiabilitiesAndEquity()),
			)
		}
		p.logger.Debug(fmt.Sprintf("projected year %d", y.CalendarYear),
			zap.String("op", "projection.Project"),
			zap.Float64("revenue", y.Revenue),
			zap.Float64("ebitda", y.EBITDA),
			zap.Float64("fcf", y.FreeCashFlow),
		)

		years = append(years, y)
		prevCash, prevEquity, prevNFA, prevNWC = y.Cash, y.Equity, y.NetFixedAssets, y.NetWorkingCapital
	}

	return Projection{Base: base, Years: years, Debts: debts, Warnings: warnings}
}

// debtSchedule aggregates every instrument's yearly schedule and reports each
// instrument's position at the valuation date.
func (p *Projector) debtSchedule(instruments []model.DebtInstrument, horizon int) ([]model.DebtPosition, []debtYear, []string) {
	var warnings []string
	positions := make([]model.DebtPosition, 0, len(instruments))
	schedule := make([]debtYear, horizon)

	for _, instrument := range instruments {
		inst := instrument.ToLoansInstrument()
		yearly, notes := p.schedules.GenerateYearly(inst, horizon)
		warnings = append(warnings, notes...)
		positions = append(positions, model.FromLoansPosition(instrument, loans.Split(inst), notes))

		for i, payment := range yearly {
			schedule[i].interest += payment.Interest
			schedule[i].repaid += payment.Principal
			schedule[i].current += payment.CurrentPortion
			schedule[i].longTerm += payment.LongTermPortion
		}
	}
	return positions, schedule, warnings
}

// workingCapitalBalance converts a days ratio into a balance over an annual
// flow.
func workingCapitalBalance(annualFlow, days float64) float64 {
	return annualFlow * days / constants.DaysPerYear
}

// rateAt returns rates[i], repeating the last value past the end.
func rateAt(rates []float64, i int, fallback float64) float64 {
	if len(rates) == 0 {
		return fallback
	}
	if i >= len(rates) {
		return rates[len(rates)-1]
	}
	return rates[i]
}
