// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/sme-valuation/internal/model"
	"github.com/iwvelando/sme-valuation/pkg/loans"
)

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 {
	return &v
}

// FindYear finds a projection year by calendar year.
// Returns a pointer to the year if found, nil otherwise.
func FindYear(years []model.ProjectionYear, calendarYear int) *model.ProjectionYear {
	for i := range years {
		if years[i].CalendarYear == calendarYear {
			return &years[i]
		}
	}
	return nil
}

// Repeat returns n copies of v.
func Repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// SampleInput returns a fully populated input for a mid-size industrial
// company with one loan and one leasing contract. Every call returns a fresh
// value.
func SampleInput() model.Input {
	return model.Input{
		Profile: model.CompanyProfile{
			Name:           "Talleres Ejemplo SL",
			Sector:         model.SectorIndustrial,
			FoundationYear: 2005,
			Employees:      45,
			Currency:       "EUR",
		},
		Historical: model.HistoricalFinancials{
			Years: []model.HistoricalYear{
				{Year: 2021, Revenue: 4_000_000, VariableCostPct: Float64Ptr(41), PersonnelExpense: 1_100_000, GeneralExpense: 450_000},
				{Year: 2022, Revenue: 4_400_000, VariableCostPct: Float64Ptr(40), PersonnelExpense: 1_150_000, GeneralExpense: 480_000},
				{Year: 2023, Revenue: 4_840_000, VariableCostPct: Float64Ptr(40), PersonnelExpense: 1_200_000, GeneralExpense: 500_000},
			},
			Cash:           300_000,
			NetFixedAssets: 1_500_000,
		},
		Debts: []model.DebtInstrument{
			{Name: "ICO loan", Kind: loans.KindLoan, Principal: 100_000, AnnualRatePct: 3.5, Term: 10, Elapsed: 5},
			{Name: "Press leasing", Kind: loans.KindLeasing, Principal: 36_000, AnnualRatePct: 4, Term: 36, Elapsed: 12, MonthlyPayment: 1_000},
		},
		Scenario: model.ScenarioParameters{
			Horizon:                 5,
			AsOfYear:                2023,
			InflationRates:          Repeat(2, 5),
			GrowthRates:             []float64{8, 7, 6, 5, 5},
			ApplyMaturityAdjustment: true,
			VariableCostPolicy:      model.VariableCostLatest,
			TaxRatePct:              25,
			CapexPct:                3,
			DepreciationRatePct:     10,
			ReceivableDays:          60,
			InventoryDays:           30,
			PayableDays:             45,
			TerminalGrowthPct:       2,
			RiskFreePct:             3.5,
			Beta:                    1.2,
			MarketPremiumPct:        6,
			CostOfDebtPct:           5,
			TargetLeveragePct:       30,
		},
	}
}
