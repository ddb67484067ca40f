package model

import (
	"github.com/iwvelando/sme-valuation/pkg/loans"
)

// ToLoansInstrument converts a DebtInstrument to the amortization
// calculator's representation.
func (d DebtInstrument) ToLoansInstrument() loans.Instrument {
	return loans.Instrument{
		Name:           d.Name,
		Kind:           d.Kind,
		Principal:      d.Principal,
		AnnualRate:     d.AnnualRatePct,
		Term:           d.Term,
		Elapsed:        d.Elapsed,
		MonthlyPayment: d.MonthlyPayment,
	}
}

// FromLoansPosition builds the reported DebtPosition of an instrument.
func FromLoansPosition(d DebtInstrument, pos loans.Position, notes []string) DebtPosition {
	inst, _ := loans.Normalize(d.ToLoansInstrument())
	return DebtPosition{
		Name:               d.Name,
		Kind:               inst.Kind,
		MonthlyInstallment: inst.MonthlyInstallment(),
		Outstanding:        pos.Outstanding,
		CurrentPortion:     pos.CurrentPortion,
		LongTermPortion:    pos.LongTermPortion,
		Notes:              notes,
	}
}
