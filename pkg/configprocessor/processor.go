// Package configprocessor provides shared configuration processing utilities.
package configprocessor

import (
	"github.com/iwvelando/sme-valuation/pkg/validation"
)

// DebtInfo represents debt configuration information
type DebtInfo struct {
	Name    string
	Kind    string
	Term    float64
	Elapsed float64
}

// ConfigInfo represents the scenario values that are checked against bounds
type ConfigInfo struct {
	Horizon           int
	HistoricalYears   int
	ReceivableDays    float64
	InventoryDays     float64
	PayableDays       float64
	TaxRatePct        float64
	WACCPct           float64
	TerminalGrowthPct float64
	Debts             []DebtInfo
}

// Processor handles configuration processing and validation
type Processor struct{}

// NewProcessor creates a new configuration processor
func NewProcessor() *Processor {
	return &Processor{}
}

// ValidateConfiguration validates the configuration and returns warnings
func (p *Processor) ValidateConfiguration(info ConfigInfo) []string {
	var debts []validation.DebtConfig
	for _, debt := range info.Debts {
		debts = append(debts, validation.DebtConfig{
			Name:    debt.Name,
			Kind:    debt.Kind,
			Term:    debt.Term,
			Elapsed: debt.Elapsed,
		})
	}

	validator := validation.ConfigValidator{
		Horizon:         info.Horizon,
		HistoricalYears: info.HistoricalYears,
		WorkingCapitalDays: []validation.DaysConfig{
			{Name: "receivableDays", Days: info.ReceivableDays},
			{Name: "inventoryDays", Days: info.InventoryDays},
			{Name: "payableDays", Days: info.PayableDays},
		},
		TaxRatePct:        info.TaxRatePct,
		WACCPct:           info.WACCPct,
		TerminalGrowthPct: info.TerminalGrowthPct,
		Debts:             debts,
	}

	warnings := validator.ValidateAll()
	if len(warnings) == 0 {
		return nil
	}
	return warnings
}
