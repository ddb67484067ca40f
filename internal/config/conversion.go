package config

import (
	"sort"
	"strings"
	"time"

	"github.com/iwvelando/sme-valuation/internal/model"
	"github.com/iwvelando/sme-valuation/pkg/constants"
	"github.com/iwvelando/sme-valuation/pkg/datetime"
	"github.com/iwvelando/sme-valuation/pkg/loans"
)

// ToInput coerces the configuration into the engine's typed input as of now.
// Every default and clamp applied is reported as a warning; nothing fails.
func (c *Configuration) ToInput() (model.Input, []string) {
	return c.ToInputAt(time.Now())
}

// ToInputAt is ToInput with an injectable clock, used when neither the
// scenario nor the history names a valuation year.
func (c *Configuration) ToInputAt(now time.Time) (model.Input, []string) {
	co := &coercer{}
	var input model.Input

	input.Profile = c.Company.toProfile(co)
	input.Historical = c.Historical.toHistorical(co)
	for i := range c.Debts {
		input.Debts = append(input.Debts, c.Debts[i].toDebtInstrument(co))
	}
	input.Scenario = c.Scenario.toScenario(co, input.Historical.Latest().Year, now)

	if input.Profile.FoundationYear > input.Scenario.AsOfYear {
		co.warnf("company.foundationYear %d is after the valuation year %d", input.Profile.FoundationYear, input.Scenario.AsOfYear)
	}
	return input, co.warnings
}

func (cc CompanyConfig) toProfile(co *coercer) model.CompanyProfile {
	profile := model.CompanyProfile{
		Name:          strings.TrimSpace(cc.Name),
		Currency:      strings.ToUpper(strings.TrimSpace(cc.Currency)),
		BusinessModel: cc.BusinessModel,
		Employees:     int(co.amount("company.employees", cc.Employees)),
	}
	if profile.Name == "" {
		profile.Name = "Unnamed company"
		co.warnf("company.name not set")
	}
	if profile.Currency == "" {
		profile.Currency = constants.DefaultCurrency
	}

	sector, ok := model.ParseSector(cc.Sector)
	if !ok {
		co.warnf("company.sector %q not recognized, using %s", cc.Sector, sector)
	}
	profile.Sector = sector

	profile.FoundationYear = yearOf(co, "company.foundationYear", cc.FoundationYear)
	return profile
}

// yearOf reads a year given as a number, a year string or a date.
func yearOf(co *coercer, field string, v any) int {
	if v == nil {
		return 0
	}
	if s, ok := v.(string); ok {
		year, err := datetime.ParseYear(s)
		if err != nil {
			co.warnf("%s: %v", field, err)
			return 0
		}
		return year
	}
	f, ok := parseNumber(v)
	if !ok {
		co.warnf("%s: cannot read %v as a year", field, v)
		return 0
	}
	return int(f)
}

func (hc HistoricalConfig) toHistorical(co *coercer) model.HistoricalFinancials {
	var h model.HistoricalFinancials
	for i, yc := range hc.Years {
		year := model.HistoricalYear{
			Year:             yearOf(co, "historical.years.year", yc.Year),
			Revenue:          co.amount("historical.years.revenue", yc.Revenue),
			VariableCostPct:  co.optionalNumber("historical.years.variableCostPct", yc.VariableCostPct),
			EBITDA:           co.optionalNumber("historical.years.ebitda", yc.EBITDA),
			PersonnelExpense: co.amount("historical.years.personnelExpense", yc.PersonnelExpense),
			GeneralExpense:   co.amount("historical.years.generalExpense", yc.GeneralExpense),
		}
		if year.Year == 0 {
			co.warnf("historical year %d has no year, ordering by position", i+1)
		}
		h.Years = append(h.Years, year)
	}
	if len(h.Years) == 0 {
		co.warnf("historical.years is empty")
	}
	sort.SliceStable(h.Years, func(i, j int) bool {
		return h.Years[i].Year < h.Years[j].Year
	})

	if hc.VariableCostPct != nil {
		if values, ok := parseList(hc.VariableCostPct); ok {
			h.VariableCostPcts = values
		} else {
			co.warnf("historical.variableCostPct: cannot read %v, ignored", hc.VariableCostPct)
		}
	}
	h.Cash = co.amount("historical.cash", hc.Cash)
	h.NetFixedAssets = co.amount("historical.netFixedAssets", hc.NetFixedAssets)
	return h
}

// ToDebtInstrument converts a debt entry into the model representation.
func (dc DebtConfig) ToDebtInstrument() (model.DebtInstrument, []string) {
	co := &coercer{}
	debt := dc.toDebtInstrument(co)
	return debt, co.warnings
}

func (dc DebtConfig) toDebtInstrument(co *coercer) model.DebtInstrument {
	name := strings.TrimSpace(dc.Name)
	if name == "" {
		name = "unnamed debt"
	}
	field := "debts." + name
	return model.DebtInstrument{
		Name:           name,
		Kind:           loans.ParseKind(dc.Kind),
		Principal:      co.number(field+".principal", dc.Principal, 0),
		AnnualRatePct:  co.number(field+".ratePct", dc.RatePct, 0),
		Term:           co.number(field+".term", dc.Term, 0),
		Elapsed:        co.amount(field+".elapsed", dc.Elapsed),
		MonthlyPayment: co.amount(field+".monthlyPayment", dc.MonthlyPayment),
	}
}

func parsePolicy(label string) (model.VariableCostPolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "latest", "last", "ultimo", "último":
		return model.VariableCostLatest, true
	case "average", "mean", "media", "promedio":
		return model.VariableCostAverage, true
	default:
		return model.VariableCostLatest, false
	}
}

func (sc ScenarioConfig) toScenario(co *coercer, latestYear int, now time.Time) model.ScenarioParameters {
	var s model.ScenarioParameters

	horizon := int(co.number("scenario.horizon", sc.Horizon, constants.DefaultHorizonYears))
	s.Horizon = int(co.clamp("scenario.horizon", float64(horizon), constants.MinHorizonYears, constants.MaxHorizonYears))

	s.AsOfYear = datetime.ResolveAsOfYear(yearOf(co, "scenario.asOfYear", sc.AsOfYear), latestYear, now)
	s.InflationRates = co.series("scenario.inflationPct", sc.InflationPct, s.Horizon, constants.DefaultInflationPct)
	s.GrowthRates = co.series("scenario.growthPct", sc.GrowthPct, s.Horizon, constants.DefaultGrowthPct)

	s.ApplyMaturityAdjustment = true
	if sc.ApplyMaturityAdjustment != nil {
		s.ApplyMaturityAdjustment = *sc.ApplyMaturityAdjustment
	}

	if share := co.optionalNumber("scenario.variableExpenseSharePct", sc.VariableExpenseSharePct); share != nil {
		clamped := co.clamp("scenario.variableExpenseSharePct", *share, 0, constants.PercentageMultiplier)
		s.VariableExpenseShare = &clamped
	}

	policy, ok := parsePolicy(sc.VariableCostPolicy)
	if !ok {
		co.warnf("scenario.variableCostPolicy %q not recognized, using %s", sc.VariableCostPolicy, policy)
	}
	s.VariableCostPolicy = policy

	s.TaxRatePct = co.clamp("scenario.taxRatePct", co.number("scenario.taxRatePct", sc.TaxRatePct, constants.DefaultTaxRatePct), 0, constants.PercentageMultiplier)
	s.CapexPct = co.clamp("scenario.capexPct", co.number("scenario.capexPct", sc.CapexPct, constants.DefaultCapexPct), 0, constants.PercentageMultiplier)
	s.DepreciationRatePct = co.clamp("scenario.depreciationRatePct", co.number("scenario.depreciationRatePct", sc.DepreciationRatePct, constants.DefaultDepreciationRatePct), 0, constants.PercentageMultiplier)

	s.ReceivableDays = co.clamp("scenario.receivableDays", co.number("scenario.receivableDays", sc.ReceivableDays, constants.DefaultReceivableDays), 0, constants.MaxWorkingCapitalDays)
	s.InventoryDays = co.clamp("scenario.inventoryDays", co.number("scenario.inventoryDays", sc.InventoryDays, constants.DefaultInventoryDays), 0, constants.MaxWorkingCapitalDays)
	s.PayableDays = co.clamp("scenario.payableDays", co.number("scenario.payableDays", sc.PayableDays, constants.DefaultPayableDays), 0, constants.MaxWorkingCapitalDays)

	s.TerminalGrowthPct = co.number("scenario.terminalGrowthPct", sc.TerminalGrowthPct, constants.DefaultTerminalGrowthPct)
	s.WACCOverridePct = co.optionalNumber("scenario.waccOverridePct", sc.WACCOverridePct)
	s.RiskFreePct = co.number("scenario.riskFreePct", sc.RiskFreePct, constants.DefaultRiskFreePct)
	s.Beta = co.number("scenario.beta", sc.Beta, constants.DefaultBeta)
	s.MarketPremiumPct = co.number("scenario.marketPremiumPct", sc.MarketPremiumPct, constants.DefaultMarketPremiumPct)
	s.CostOfDebtPct = co.number("scenario.costOfDebtPct", sc.CostOfDebtPct, constants.DefaultCostOfDebtPct)
	s.TargetLeveragePct = co.clamp("scenario.targetLeveragePct", co.number("scenario.targetLeveragePct", sc.TargetLeveragePct, constants.DefaultTargetLeveragePct), 0, constants.PercentageMultiplier)
	return s
}
