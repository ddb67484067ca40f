// Package model defines the typed inputs and outputs of the valuation
// engine. Inputs are built once at the configuration boundary and treated as
// read-only; outputs are freshly allocated by every engine run.
package model

import (
	"github.com/iwvelando/sme-valuation/pkg/loans"
)

// CompanyProfile describes the company being valued.
type CompanyProfile struct {
	Name           string `json:"name"`
	Sector         Sector `json:"sector"`
	FoundationYear int    `json:"foundationYear"`
	Employees      int    `json:"employees"`
	Currency       string `json:"currency"`
	BusinessModel  string `json:"businessModel,omitempty"`
}

// HistoricalYear is one closed fiscal year. VariableCostPct is nil when the
// source did not provide it for that year.
type HistoricalYear struct {
	Year             int      `json:"year"`
	Revenue          float64  `json:"revenue"`
	VariableCostPct  *float64 `json:"variableCostPct,omitempty"`
	EBITDA           *float64 `json:"ebitda,omitempty"`
	PersonnelExpense float64  `json:"personnelExpense"`
	GeneralExpense   float64  `json:"generalExpense"`
}

// HistoricalFinancials holds past years ordered oldest first plus the opening
// balance of the projection.
type HistoricalFinancials struct {
	Years            []HistoricalYear `json:"years"`
	VariableCostPcts []float64        `json:"variableCostPcts,omitempty"`
	Cash             float64          `json:"cash"`
	NetFixedAssets   float64          `json:"netFixedAssets"`
}

// Latest returns the most recent year, or a zero record when there is none.
func (h HistoricalFinancials) Latest() HistoricalYear {
	if len(h.Years) == 0 {
		return HistoricalYear{}
	}
	return h.Years[len(h.Years)-1]
}

// Revenues returns the revenue series oldest first.
func (h HistoricalFinancials) Revenues() []float64 {
	revenues := make([]float64, len(h.Years))
	for i, year := range h.Years {
		revenues[i] = year.Revenue
	}
	return revenues
}

// DebtInstrument is a loan, mortgage or leasing contract. Term and Elapsed are
// in years for loans and mortgages and in months for leasing.
type DebtInstrument struct {
	Name           string     `json:"name"`
	Kind           loans.Kind `json:"kind"`
	Principal      float64    `json:"principal"`
	AnnualRatePct  float64    `json:"annualRatePct"`
	Term           float64    `json:"term"`
	Elapsed        float64    `json:"elapsed"`
	MonthlyPayment float64    `json:"monthlyPayment,omitempty"`
}

// VariableCostPolicy selects which value of a list-shaped variable cost
// percentage is used.
type VariableCostPolicy string

const (
	VariableCostLatest  VariableCostPolicy = "latest"
	VariableCostAverage VariableCostPolicy = "average"
)

// ScenarioParameters drives the projection and valuation. Rates are
// percentages. GrowthRates and InflationRates hold exactly Horizon values once
// produced by the configuration boundary.
type ScenarioParameters struct {
	Horizon                 int                `json:"horizon"`
	AsOfYear                int                `json:"asOfYear"`
	InflationRates          []float64          `json:"inflationRates"`
	GrowthRates             []float64          `json:"growthRates"`
	ApplyMaturityAdjustment bool               `json:"applyMaturityAdjustment"`
	VariableExpenseShare    *float64           `json:"variableExpenseShare,omitempty"`
	VariableCostPolicy      VariableCostPolicy `json:"variableCostPolicy"`
	TaxRatePct              float64            `json:"taxRatePct"`
	CapexPct                float64            `json:"capexPct"`
	DepreciationRatePct     float64            `json:"depreciationRatePct"`
	ReceivableDays          float64            `json:"receivableDays"`
	InventoryDays           float64            `json:"inventoryDays"`
	PayableDays             float64            `json:"payableDays"`
	TerminalGrowthPct       float64            `json:"terminalGrowthPct"`
	WACCOverridePct         *float64           `json:"waccOverridePct,omitempty"`
	RiskFreePct             float64            `json:"riskFreePct"`
	Beta                    float64            `json:"beta"`
	MarketPremiumPct        float64            `json:"marketPremiumPct"`
	CostOfDebtPct           float64            `json:"costOfDebtPct"`
	TargetLeveragePct       float64            `json:"targetLeveragePct"`
}

// Input bundles everything one engine run needs.
type Input struct {
	Profile    CompanyProfile       `json:"profile"`
	Historical HistoricalFinancials `json:"historical"`
	Debts      []DebtInstrument     `json:"debts"`
	Scenario   ScenarioParameters   `json:"scenario"`
}

// ProjectionYear is one projected year of the income statement, balance sheet
// and cash flow.
type ProjectionYear struct {
	Year                int     `json:"year" csv:"year"`
	CalendarYear        int     `json:"calendarYear" csv:"calendar_year"`
	GrowthRatePct       float64 `json:"growthRatePct" csv:"growth_rate_pct"`
	ActivityFactor      float64 `json:"activityFactor" csv:"activity_factor"`
	InflationAccum      float64 `json:"inflationAccum" csv:"inflation_accum"`
	Revenue             float64 `json:"revenue" csv:"revenue"`
	VariableCosts       float64 `json:"variableCosts" csv:"variable_costs"`
	PersonnelExpense    float64 `json:"personnelExpense" csv:"personnel_expense"`
	GeneralExpense      float64 `json:"generalExpense" csv:"general_expense"`
	EBITDA              float64 `json:"ebitda" csv:"ebitda"`
	Depreciation        float64 `json:"depreciation" csv:"depreciation"`
	EBIT                float64 `json:"ebit" csv:"ebit"`
	FinancingExpense    float64 `json:"financingExpense" csv:"financing_expense"`
	Taxes               float64 `json:"taxes" csv:"taxes"`
	NetIncome           float64 `json:"netIncome" csv:"net_income"`
	Capex               float64 `json:"capex" csv:"capex"`
	Receivables         float64 `json:"receivables" csv:"receivables"`
	Inventory           float64 `json:"inventory" csv:"inventory"`
	Payables            float64 `json:"payables" csv:"payables"`
	NetWorkingCapital   float64 `json:"netWorkingCapital" csv:"net_working_capital"`
	DeltaWorkingCapital float64 `json:"deltaWorkingCapital" csv:"delta_working_capital"`
	NetFixedAssets      float64 `json:"netFixedAssets" csv:"net_fixed_assets"`
	DebtCurrent         float64 `json:"debtCurrent" csv:"debt_current"`
	DebtLongTerm        float64 `json:"debtLongTerm" csv:"debt_long_term"`
	DebtRepaid          float64 `json:"debtRepaid" csv:"debt_repaid"`
	Cash                float64 `json:"cash" csv:"cash"`
	Equity              float64 `json:"equity" csv:"equity"`
	InvestedCapital     float64 `json:"investedCapital" csv:"invested_capital"`
	FreeCashFlow        float64 `json:"freeCashFlow" csv:"free_cash_flow"`
	ROICPct             float64 `json:"roicPct" csv:"roic_pct"`
}

// TotalAssets is cash plus operating current assets plus net fixed assets.
func (p ProjectionYear) TotalAssets() float64 {
	return p.Cash + p.Receivables + p.Inventory + p.NetFixedAssets
}

// TotalLiabilitiesAndEquity is payables plus financial debt plus equity.
func (p ProjectionYear) TotalLiabilitiesAndEquity() float64 {
	return p.Payables + p.DebtCurrent + p.DebtLongTerm + p.Equity
}

// DebtPosition reports an instrument's state at the valuation date.
type DebtPosition struct {
	Name               string     `json:"name"`
	Kind               loans.Kind `json:"kind"`
	MonthlyInstallment float64    `json:"monthlyInstallment"`
	Outstanding        float64    `json:"outstanding"`
	CurrentPortion     float64    `json:"currentPortion"`
	LongTermPortion    float64    `json:"longTermPortion"`
	Notes              []string   `json:"notes,omitempty"`
}

// WACCComponents breaks down the discount rate.
type WACCComponents struct {
	RiskFreePct           float64 `json:"riskFreePct"`
	Beta                  float64 `json:"beta"`
	MarketPremiumPct      float64 `json:"marketPremiumPct"`
	CostOfEquityPct       float64 `json:"costOfEquityPct"`
	CostOfDebtPct         float64 `json:"costOfDebtPct"`
	AfterTaxCostOfDebtPct float64 `json:"afterTaxCostOfDebtPct"`
	DebtWeightPct         float64 `json:"debtWeightPct"`
	EquityWeightPct       float64 `json:"equityWeightPct"`
	TaxRatePct            float64 `json:"taxRatePct"`
	Overridden            bool    `json:"overridden"`
}

// ValuationResult is the DCF summary. TIRPct is nil when the internal rate of
// return could not be solved.
type ValuationResult struct {
	Status                ValuationStatus `json:"status"`
	EnterpriseValue       float64         `json:"enterpriseValue"`
	EquityValue           float64         `json:"equityValue"`
	NetDebt               float64         `json:"netDebt"`
	WACCPct               float64         `json:"waccPct"`
	TerminalGrowthPct     float64         `json:"terminalGrowthPct"`
	TIRPct                *float64        `json:"tirPct"`
	AverageROICPct        float64         `json:"averageRoicPct"`
	TerminalValue         float64         `json:"terminalValue"`
	PVTerminalValue       float64         `json:"pvTerminalValue"`
	PVFreeCashFlows       float64         `json:"pvFreeCashFlows"`
	PVByYear              []float64       `json:"pvByYear"`
	TerminalValueSharePct float64         `json:"terminalValueSharePct"`
	EVToEBITDA            float64         `json:"evToEbitda"`
	Components            WACCComponents  `json:"components"`
	Verdict               Verdict         `json:"verdict"`
}

// Report is the complete output of one engine run.
type Report struct {
	Company             CompanyProfile     `json:"company"`
	Assessment          MaturityAssessment `json:"assessment"`
	AdjustedGrowthRates []float64          `json:"adjustedGrowthRates"`
	Years               []ProjectionYear   `json:"years"`
	Debts               []DebtPosition     `json:"debts,omitempty"`
	Valuation           ValuationResult    `json:"valuation"`
	Warnings            []string           `json:"warnings,omitempty"`
}
