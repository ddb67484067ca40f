// Package config defines the YAML configuration of a valuation run and is the
// single place where loosely typed input is coerced into the engine's model.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/sme-valuation/internal/valuation"
	"github.com/iwvelando/sme-valuation/pkg/configprocessor"
	"github.com/iwvelando/sme-valuation/pkg/constants"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for sme-valuation.
type Configuration struct {
	Company    CompanyConfig
	Historical HistoricalConfig
	Debts      []DebtConfig
	Scenario   ScenarioConfig
	Logging    LoggingConfig `yaml:"logging,omitempty"`
	Output     OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// CompanyConfig describes the company. Numeric fields accept numbers or
// numeric strings.
type CompanyConfig struct {
	Name           string
	Sector         string
	FoundationYear any
	Employees      any
	Currency       string
	BusinessModel  string
}

// HistoricalConfig holds the closed fiscal years and the opening balance.
// VariableCostPct may be a scalar or a list.
type HistoricalConfig struct {
	Years           []HistoricalYearConfig
	VariableCostPct any
	Cash            any
	NetFixedAssets  any
}

// HistoricalYearConfig is one fiscal year as found in the source data.
type HistoricalYearConfig struct {
	Year             any
	Revenue          any
	VariableCostPct  any
	EBITDA           any
	PersonnelExpense any
	GeneralExpense   any
}

// DebtConfig is a loan, mortgage or leasing contract. Term and Elapsed are in
// years, or months for leasing.
type DebtConfig struct {
	Name           string
	Kind           string
	Principal      any
	RatePct        any
	Term           any
	Elapsed        any
	MonthlyPayment any
}

// ScenarioConfig holds the projection assumptions. InflationPct and GrowthPct
// may be a scalar or a per-year list.
type ScenarioConfig struct {
	Horizon                 any
	AsOfYear                any
	InflationPct            any
	GrowthPct               any
	ApplyMaturityAdjustment *bool
	VariableExpenseSharePct any
	VariableCostPolicy      string
	TaxRatePct              any
	CapexPct                any
	DepreciationRatePct     any
	ReceivableDays          any
	InventoryDays           any
	PayableDays             any
	TerminalGrowthPct       any
	WACCOverridePct         any
	RiskFreePct             any
	Beta                    any
	MarketPremiumPct        any
	CostOfDebtPct           any
	TargetLeveragePct       any
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}
	return decode(v)
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. It never fails; the engine clamps what it is given.
func (c *Configuration) ValidateConfiguration() []string {
	input, _ := c.ToInput()

	info := configprocessor.ConfigInfo{
		Horizon:           c.rawHorizon(),
		ReceivableDays:    input.Scenario.ReceivableDays,
		InventoryDays:     input.Scenario.InventoryDays,
		PayableDays:       input.Scenario.PayableDays,
		TerminalGrowthPct: input.Scenario.TerminalGrowthPct,
		TaxRatePct:        input.Scenario.TaxRatePct,
		HistoricalYears:   len(input.Historical.Years),
	}
	if raw, ok := parseNumber(c.Scenario.ReceivableDays); ok {
		info.ReceivableDays = raw
	}
	if raw, ok := parseNumber(c.Scenario.InventoryDays); ok {
		info.InventoryDays = raw
	}
	if raw, ok := parseNumber(c.Scenario.PayableDays); ok {
		info.PayableDays = raw
	}
	info.WACCPct, _ = valuation.WACC(input.Scenario)
	for i, debt := range c.Debts {
		d := input.Debts[i]
		term, _ := parseNumber(debt.Term)
		elapsed, _ := parseNumber(debt.Elapsed)
		info.Debts = append(info.Debts, configprocessor.DebtInfo{
			Name:    d.Name,
			Kind:    string(d.Kind),
			Term:    term,
			Elapsed: elapsed,
		})
	}

	processor := configprocessor.NewProcessor()
	return processor.ValidateConfiguration(info)
}

func (c *Configuration) rawHorizon() int {
	if h, ok := parseNumber(c.Scenario.Horizon); ok {
		return int(h)
	}
	return constants.DefaultHorizonYears
}
