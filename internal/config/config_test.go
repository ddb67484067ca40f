package config

import (
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/sme-valuation/internal/model"
	"github.com/iwvelando/sme-valuation/pkg/constants"
	"github.com/iwvelando/sme-valuation/pkg/loans"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{name: "Non-existent config file", configPath: "nonexistent.yaml", wantError: true},
		{name: "Example config", configPath: "testdata/valuation.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, config)
		})
	}
}

func TestLoadConfigurationStructure(t *testing.T) {
	config, err := LoadConfiguration("testdata/valuation.yaml")
	require.NoError(t, err)

	require.Equal(t, "info", config.Logging.Level)
	require.Equal(t, "console", config.Logging.Format)
	require.Equal(t, "pretty", config.Output.Format)
	require.Equal(t, "Talleres Ejemplo SL", config.Company.Name)
	require.Len(t, config.Historical.Years, 3)
	require.Len(t, config.Debts, 2)
	require.Equal(t, "Press leasing", config.Debts[1].Name)
}

func TestToInputFromExample(t *testing.T) {
	config, err := LoadConfiguration("testdata/valuation.yaml")
	require.NoError(t, err)

	input, warnings := config.ToInputAt(fixedNow)

	require.Equal(t, model.SectorAutomotive, input.Profile.Sector)
	require.Equal(t, 2005, input.Profile.FoundationYear)
	require.Equal(t, 45, input.Profile.Employees)
	require.Equal(t, "EUR", input.Profile.Currency)

	// Years are sorted oldest first regardless of input order.
	require.Len(t, input.Historical.Years, 3)
	require.Equal(t, []int{2021, 2022, 2023}, []int{
		input.Historical.Years[0].Year, input.Historical.Years[1].Year, input.Historical.Years[2].Year,
	})
	latest := input.Historical.Latest()
	require.InDelta(t, 4_840_000, latest.Revenue, 1e-9)
	require.NotNil(t, latest.VariableCostPct)
	require.InDelta(t, 40, *latest.VariableCostPct, 1e-9)
	require.Nil(t, latest.EBITDA)
	require.InDelta(t, 300_000, input.Historical.Cash, 1e-9)

	require.Len(t, input.Debts, 2)
	require.Equal(t, loans.KindLoan, input.Debts[0].Kind)
	require.InDelta(t, 3.5, input.Debts[0].AnnualRatePct, 1e-12)
	require.Equal(t, loans.KindLeasing, input.Debts[1].Kind)
	require.InDelta(t, 1000, input.Debts[1].MonthlyPayment, 1e-12)

	s := input.Scenario
	require.Equal(t, 5, s.Horizon)
	require.Equal(t, 2023, s.AsOfYear)
	require.Equal(t, []float64{2, 2, 2, 2, 2}, s.InflationRates)
	require.Equal(t, []float64{8, 7, 6, 6, 6}, s.GrowthRates)
	require.True(t, s.ApplyMaturityAdjustment)
	require.Nil(t, s.VariableExpenseShare)
	require.Nil(t, s.WACCOverridePct)
	require.Equal(t, model.VariableCostLatest, s.VariableCostPolicy)
	require.InDelta(t, 30, s.TargetLeveragePct, 1e-12)

	require.Contains(t, warnings, "scenario.growthPct has 3 values for 5 years, repeating the last")
}

func TestToInputDefaults(t *testing.T) {
	config := Configuration{
		Company:    CompanyConfig{Name: "Empty SL"},
		Historical: HistoricalConfig{Years: []HistoricalYearConfig{{Year: 2024, Revenue: 1_000_000}}},
	}

	input, warnings := config.ToInputAt(fixedNow)
	s := input.Scenario

	require.Equal(t, model.SectorOther, input.Profile.Sector)
	require.Equal(t, constants.DefaultCurrency, input.Profile.Currency)
	require.Equal(t, constants.DefaultHorizonYears, s.Horizon)
	require.Equal(t, 2024, s.AsOfYear)
	require.Equal(t, []float64{2, 2, 2, 2, 2}, s.InflationRates)
	require.Equal(t, []float64{5, 5, 5, 5, 5}, s.GrowthRates)
	require.InDelta(t, constants.DefaultTaxRatePct, s.TaxRatePct, 1e-12)
	require.InDelta(t, constants.DefaultReceivableDays, s.ReceivableDays, 1e-12)
	require.InDelta(t, constants.DefaultInventoryDays, s.InventoryDays, 1e-12)
	require.InDelta(t, constants.DefaultPayableDays, s.PayableDays, 1e-12)
	require.InDelta(t, constants.DefaultTerminalGrowthPct, s.TerminalGrowthPct, 1e-12)
	require.InDelta(t, constants.DefaultBeta, s.Beta, 1e-12)
	require.True(t, s.ApplyMaturityAdjustment)
	require.Contains(t, warnings, "scenario.taxRatePct not set, using 25")
	require.Contains(t, warnings, `company.sector "" not recognized, using other`)
}

func TestToInputAsOfYearFallsBackToNow(t *testing.T) {
	input, _ := (&Configuration{}).ToInputAt(fixedNow)
	require.Equal(t, 2025, input.Scenario.AsOfYear)
	require.Empty(t, input.Historical.Years)
}

func TestToInputClamps(t *testing.T) {
	noAdjust := false
	config := Configuration{
		Historical: HistoricalConfig{Years: []HistoricalYearConfig{{Year: 2024, Revenue: 1000}}},
		Scenario: ScenarioConfig{
			Horizon:                 40,
			ReceivableDays:          500,
			PayableDays:             -10,
			TargetLeveragePct:       150,
			VariableExpenseSharePct: "120%",
			ApplyMaturityAdjustment: &noAdjust,
			VariableCostPolicy:      "media",
			AsOfYear:                "2024-12-31",
		},
	}

	input, warnings := config.ToInputAt(fixedNow)
	s := input.Scenario

	require.Equal(t, constants.MaxHorizonYears, s.Horizon)
	require.Len(t, s.GrowthRates, constants.MaxHorizonYears)
	require.InDelta(t, 365, s.ReceivableDays, 1e-12)
	require.Zero(t, s.PayableDays)
	require.InDelta(t, 100, s.TargetLeveragePct, 1e-12)
	require.NotNil(t, s.VariableExpenseShare)
	require.InDelta(t, 100, *s.VariableExpenseShare, 1e-12)
	require.False(t, s.ApplyMaturityAdjustment)
	require.Equal(t, model.VariableCostAverage, s.VariableCostPolicy)
	require.Equal(t, 2024, s.AsOfYear)
	require.Contains(t, warnings, "scenario.horizon 40 above 15, clamped")
	require.Contains(t, warnings, "scenario.receivableDays 500 above 365, clamped")
}

func TestToInputScalarOrListPercentages(t *testing.T) {
	tests := []struct {
		name       string
		value      any
		expected   []float64
		expectList bool
	}{
		{name: "Scalar number", value: 38, expected: []float64{38}},
		{name: "Comma decimal string", value: "12,5", expected: []float64{12.5}},
		{name: "Percent string", value: "40%", expected: []float64{40}},
		{name: "List", value: []any{30, "35,5", 40.0}, expected: []float64{30, 35.5, 40}},
		{name: "Semicolon list", value: "30; 40", expected: []float64{30, 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Configuration{Historical: HistoricalConfig{
				Years:           []HistoricalYearConfig{{Year: 2024, Revenue: 1000}},
				VariableCostPct: tt.value,
			}}
			input, _ := config.ToInputAt(fixedNow)
			require.Equal(t, tt.expected, input.Historical.VariableCostPcts)
		})
	}
}

func TestToInputMalformedValues(t *testing.T) {
	config := Configuration{
		Historical: HistoricalConfig{Years: []HistoricalYearConfig{{Year: "unknown", Revenue: "n/a"}}},
		Debts:      []DebtConfig{{Name: "Broken", Principal: "lots", Term: 5}},
		Scenario:   ScenarioConfig{GrowthPct: []any{"x"}, TaxRatePct: "abc"},
	}

	input, warnings := config.ToInputAt(fixedNow)
	require.Zero(t, input.Historical.Years[0].Revenue)
	require.Zero(t, input.Debts[0].Principal)
	require.Equal(t, []float64{5, 5, 5, 5, 5}, input.Scenario.GrowthRates)
	require.InDelta(t, 25, input.Scenario.TaxRatePct, 1e-12)
	require.NotEmpty(t, warnings)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input    any
		expected float64
		ok       bool
	}{
		{input: 12, expected: 12, ok: true},
		{input: 12.5, expected: 12.5, ok: true},
		{input: "12,5", expected: 12.5, ok: true},
		{input: "40%", expected: 40, ok: true},
		{input: " 3.5 % ", expected: 3.5, ok: true},
		{input: "1.234.567", expected: 1234567, ok: true},
		{input: "1.234,56", expected: 1234.56, ok: true},
		{input: "1,234.56", expected: 1234.56, ok: true},
		{input: "1,234,567", expected: 1234567, ok: true},
		{input: "€ 2500", expected: 2500, ok: true},
		{input: "-4,3", expected: -4.3, ok: true},
		{input: "1,000", expected: 1000, ok: true},
		{input: "12,500", expected: 12500, ok: true},
		{input: "-250,000", expected: -250000, ok: true},
		{input: "$1,000", expected: 1000, ok: true},
		{input: "12,50", expected: 12.5, ok: true},
		{input: "0,125", expected: 0.125, ok: true},
		{input: "1,0005", expected: 1.0005, ok: true},
		{input: []any{1, 2, 3}, expected: 3, ok: true},
		{input: "", ok: false},
		{input: "abc", ok: false},
		{input: nil, ok: false},
		{input: []any{}, ok: false},
	}

	for _, tt := range tests {
		got, ok := parseNumber(tt.input)
		if ok != tt.ok {
			t.Errorf("parseNumber(%v) ok = %v, expected %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && got != tt.expected {
			t.Errorf("parseNumber(%v) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestBroadcast(t *testing.T) {
	require.Equal(t, []float64{1, 2, 2}, broadcast([]float64{1, 2}, 3))
	require.Equal(t, []float64{1, 2}, broadcast([]float64{1, 2, 3}, 2))
	require.Equal(t, []float64{7, 7, 7}, broadcast([]float64{7}, 3))
}

func TestLoadConfigurationFromReader(t *testing.T) {
	yaml := `
company:
  name: Reader SL
  sector: tecnología
historical:
  years:
    - year: 2023
      revenue: 2000000
      ebitda: 400000
scenario:
  growthPct: "10;8"
  waccOverridePct: 9
`
	config, err := LoadConfigurationFromReader(strings.NewReader(yaml))
	require.NoError(t, err)

	input, _ := config.ToInputAt(fixedNow)
	require.Equal(t, model.SectorTechnology, input.Profile.Sector)
	require.NotNil(t, input.Historical.Years[0].EBITDA)
	require.Equal(t, []float64{10, 8, 8, 8, 8}, input.Scenario.GrowthRates)
	require.NotNil(t, input.Scenario.WACCOverridePct)
	require.InDelta(t, 9, *input.Scenario.WACCOverridePct, 1e-12)
}

func TestLoadConfigurationEnvOverride(t *testing.T) {
	t.Setenv("SMEVAL_OUTPUT_FORMAT", "json")
	config, err := LoadConfiguration("testdata/valuation.yaml")
	require.NoError(t, err)
	require.Equal(t, "json", config.Output.Format)
}

func TestLoadConfigurationMalformedYAML(t *testing.T) {
	_, err := LoadConfigurationFromReader(strings.NewReader("company: [unclosed"))
	require.Error(t, err)
}

func TestValidateConfiguration(t *testing.T) {
	config, err := LoadConfiguration("testdata/valuation.yaml")
	require.NoError(t, err)
	require.Empty(t, config.ValidateConfiguration())

	config.Scenario.ReceivableDays = 400
	config.Scenario.WACCOverridePct = 2
	config.Debts[0].Elapsed = 10
	warnings := config.ValidateConfiguration()
	require.Len(t, warnings, 3)
}

func TestDebtConfigToDebtInstrument(t *testing.T) {
	debt, warnings := DebtConfig{Name: "Hipoteca nave", Kind: "hipoteca", Principal: "250.000,00", RatePct: "2,75", Term: 20, Elapsed: "3"}.ToDebtInstrument()
	require.Empty(t, warnings)
	require.Equal(t, loans.KindMortgage, debt.Kind)
	require.InDelta(t, 250_000, debt.Principal, 1e-9)
	require.InDelta(t, 2.75, debt.AnnualRatePct, 1e-12)
	require.InDelta(t, 3, debt.Elapsed, 1e-12)
}
