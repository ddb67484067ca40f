// Package output provides utilities for formatting and displaying valuation
// reports.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/iwvelando/sme-valuation/internal/model"
	"github.com/iwvelando/sme-valuation/pkg/constants"
	"github.com/iwvelando/sme-valuation/pkg/format"
	"github.com/iwvelando/sme-valuation/pkg/validation"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Write renders the report in the named format.
func Write(w io.Writer, outputFormat string, report *model.Report) error {
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}
	switch outputFormat {
	case constants.OutputFormatCSV:
		return CSVFormat(w, report)
	case constants.OutputFormatJSON:
		return JSONFormat(w, report)
	default:
		return PrettyFormat(w, report)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, report *model.Report) error {
	p := message.NewPrinter(language.English)
	currency := report.Company.Currency
	ew := &errWriter{w: w}

	ew.printf("--- Valuation of %s (%s) ---\n", report.Company.Name, report.Company.Sector)
	a := report.Assessment
	ew.printf("Stage: %s | Age: %d | Revenue: %s | CAGR: %s | Maturity factor: %.2f\n",
		a.Stage, a.Age, format.Currency(a.Revenue, currency), format.Percent(a.CAGRPct), a.Factor)
	growth := make([]string, len(report.AdjustedGrowthRates))
	for i, g := range report.AdjustedGrowthRates {
		growth[i] = fmt.Sprintf("%.1f%%", g)
	}
	ew.printf("Adjusted growth: %s\n\n", strings.Join(growth, ", "))

	ew.printf("Year | Revenue        | EBITDA         | EBIT           | Net income     | FCF            | ROIC\n")
	ew.printf("____ | ______________ | ______________ | ______________ | ______________ | ______________ | ______\n")
	for _, y := range report.Years {
		ew.printf("%4d | %s\n", y.CalendarYear, p.Sprintf("%14.0f | %14.0f | %14.0f | %14.0f | %14.0f | %5.1f%%",
			y.Revenue, y.EBITDA, y.EBIT, y.NetIncome, y.FreeCashFlow, y.ROICPct))
	}

	if len(report.Debts) > 0 {
		ew.printf("\nDebt | Kind | Installment | Outstanding | Current | Long-term\n")
		for _, d := range report.Debts {
			ew.printf("%s | %s | %s | %s | %s | %s\n", d.Name, d.Kind,
				format.Currency(d.MonthlyInstallment, currency), format.Currency(d.Outstanding, currency),
				format.Currency(d.CurrentPortion, currency), format.Currency(d.LongTermPortion, currency))
		}
	}

	v := report.Valuation
	ew.printf("\nWACC: %s | Terminal growth: %s | Status: %s\n", format.Percent(v.WACCPct), format.Percent(v.TerminalGrowthPct), v.Status)
	ew.printf("PV of FCF: %s | PV of terminal value: %s (%s of EV)\n",
		format.Currency(v.PVFreeCashFlows, currency), format.Currency(v.PVTerminalValue, currency), format.Percent(v.TerminalValueSharePct))
	ew.printf("Enterprise value: %s | Net debt: %s | Equity value: %s | EV/EBITDA: %s\n",
		format.Currency(v.EnterpriseValue, currency), format.Currency(v.NetDebt, currency),
		format.Currency(v.EquityValue, currency), format.Multiple(v.EVToEBITDA))
	ew.printf("TIR: %s | Average ROIC: %s\n", format.OptionalPercent(v.TIRPct), format.Percent(v.AverageROICPct))
	ew.printf("Recommendation: %s\n", v.Verdict.Label())

	if len(report.Warnings) > 0 {
		ew.printf("\nWarnings:\n")
		for _, warning := range report.Warnings {
			ew.printf("  - %s\n", warning)
		}
	}
	return ew.err
}

// CSVFormat outputs the projection years in comma-separated value format.
func CSVFormat(w io.Writer, report *model.Report) error {
	if err := gocsv.Marshal(report.Years, w); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// JSONFormat outputs the full report as indented JSON.
func JSONFormat(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// errWriter keeps the first write error so the report can be printed
// without checking every line.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(formatStr string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, formatStr, args...)
}
