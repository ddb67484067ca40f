// Package loans provides the amortization calculator for loans, mortgages and
// leasing contracts.
package loans

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/sme-valuation/pkg/constants"
	"go.uber.org/zap"
)

// Kind identifies the amortization rules an Instrument follows.
type Kind string

const (
	KindLoan     Kind = "loan"
	KindMortgage Kind = "mortgage"
	KindLeasing  Kind = "leasing"
)

// ParseKind maps a free-form label onto a Kind. Unknown labels are treated as
// loans.
func ParseKind(label string) Kind {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "mortgage", "hipoteca", "hipotecario", "prestamo hipotecario", "préstamo hipotecario":
		return KindMortgage
	case "leasing", "renting", "arrendamiento", "arrendamiento financiero":
		return KindLeasing
	default:
		return KindLoan
	}
}

// UsesMonths reports whether Term and Elapsed are expressed in months.
func (k Kind) UsesMonths() bool {
	return k == KindLeasing
}

// Instrument holds the parameters of a single debt instrument.
type Instrument struct {
	Name           string
	Kind           Kind
	Principal      float64
	AnnualRate     float64 // percent
	Term           float64 // years for loans and mortgages, months for leasing
	Elapsed        float64 // same unit as Term
	MonthlyPayment float64 // leasing only; derived from Principal/Term when zero
}

// Position is the balance-sheet presentation of an instrument at a point in
// time.
type Position struct {
	Outstanding     float64
	CurrentPortion  float64
	LongTermPortion float64
}

// YearPayment summarizes one projection year of an instrument's schedule.
type YearPayment struct {
	Year            int
	Opening         float64
	Interest        float64
	Principal       float64
	Closing         float64
	CurrentPortion  float64
	LongTermPortion float64
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the
// standard (French) amortization formula.
func CalculateMonthlyPayment(principal, annualInterestRate float64, termMonths int) float64 {
	if termMonths <= 0 {
		return principal
	}
	if annualInterestRate == 0 {
		// For zero interest, simply divide the principal by term
		return principal / float64(termMonths)
	}

	periodicInterestRate := monthlyRate(annualInterestRate)
	power := math.Pow(1.00+periodicInterestRate, float64(termMonths))
	discountFactor := (power - 1.00) / power
	return principal * periodicInterestRate / discountFactor
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * monthlyRate(annualInterestRate)
}

// OutstandingAfter returns the principal still owed on a French-amortized
// loan after paidMonths installments. A zero rate degrades to linear
// amortization and a zero term leaves the whole principal outstanding.
func OutstandingAfter(principal, annualInterestRate float64, termMonths, paidMonths int) float64 {
	if principal <= 0 {
		return 0
	}
	if termMonths <= 0 || paidMonths <= 0 {
		return principal
	}
	if paidMonths >= termMonths {
		return 0
	}

	r := monthlyRate(annualInterestRate)
	powTerm := math.Pow(1+r, float64(termMonths))
	if r == 0 || powTerm == 1 {
		return principal * (1 - float64(paidMonths)/float64(termMonths))
	}
	powPaid := math.Pow(1+r, float64(paidMonths))
	return principal * (powTerm - powPaid) / (powTerm - 1)
}

// Normalize clamps out-of-range values and returns a note for every
// adjustment made. Elapsed time at or past the term becomes term-1 (or 0 when
// the term is one period or less).
func Normalize(inst Instrument) (Instrument, []string) {
	var notes []string
	if inst.Kind == "" {
		inst.Kind = KindLoan
	}
	if inst.Principal < 0 {
		notes = append(notes, fmt.Sprintf("%s: negative principal %.2f replaced by 0", inst.Name, inst.Principal))
		inst.Principal = 0
	}
	if inst.AnnualRate < 0 {
		notes = append(notes, fmt.Sprintf("%s: negative rate %.2f%% replaced by 0", inst.Name, inst.AnnualRate))
		inst.AnnualRate = 0
	}
	if inst.Term < 0 {
		notes = append(notes, fmt.Sprintf("%s: negative term %.2f replaced by 0", inst.Name, inst.Term))
		inst.Term = 0
	}
	if inst.Elapsed < 0 {
		notes = append(notes, fmt.Sprintf("%s: negative elapsed time %.2f replaced by 0", inst.Name, inst.Elapsed))
		inst.Elapsed = 0
	}
	if inst.Elapsed >= inst.Term && inst.Elapsed > 0 {
		clamped := inst.Term - 1
		if inst.Term <= 1 {
			clamped = 0
		}
		notes = append(notes, fmt.Sprintf("%s: elapsed %.2f is not below term %.2f, clamped to %.2f",
			inst.Name, inst.Elapsed, inst.Term, clamped))
		inst.Elapsed = clamped
	}
	if inst.MonthlyPayment < 0 {
		notes = append(notes, fmt.Sprintf("%s: negative monthly payment replaced by 0", inst.Name))
		inst.MonthlyPayment = 0
	}
	return inst, notes
}

// TermMonths returns the term in whole months.
func (inst Instrument) TermMonths() int {
	if inst.Kind.UsesMonths() {
		return int(math.Round(inst.Term))
	}
	return int(math.Round(inst.Term * constants.MonthsPerYear))
}

// ElapsedMonths returns the elapsed time in whole months.
func (inst Instrument) ElapsedMonths() int {
	if inst.Kind.UsesMonths() {
		return int(math.Round(inst.Elapsed))
	}
	return int(math.Round(inst.Elapsed * constants.MonthsPerYear))
}

// MonthlyInstallment is the contractual monthly payment of the instrument.
func (inst Instrument) MonthlyInstallment() float64 {
	if inst.Kind == KindLeasing {
		return leasingMonthly(inst)
	}
	return CalculateMonthlyPayment(inst.Principal, inst.AnnualRate, inst.TermMonths())
}

// Split returns the outstanding principal of the instrument and its
// current/long-term split. Inputs are normalized first so malformed data never
// produces a negative remaining life.
func Split(inst Instrument) Position {
	inst, _ = Normalize(inst)
	return positionAt(inst, inst.ElapsedMonths())
}

// positionAt computes the position after the given number of elapsed months.
func positionAt(inst Instrument, elapsedMonths int) Position {
	if inst.Kind == KindLeasing {
		return leasingPosition(inst, elapsedMonths)
	}

	n := inst.TermMonths()
	outstanding := OutstandingAfter(inst.Principal, inst.AnnualRate, n, elapsedMonths)
	if n <= 0 {
		return Position{Outstanding: outstanding, CurrentPortion: outstanding}
	}

	next := OutstandingAfter(inst.Principal, inst.AnnualRate, n, min(elapsedMonths+constants.MonthsPerYear, n))
	current := math.Max(0, outstanding-next)
	return Position{
		Outstanding:     outstanding,
		CurrentPortion:  current,
		LongTermPortion: math.Max(0, outstanding-current),
	}
}

func leasingMonthly(inst Instrument) float64 {
	if inst.MonthlyPayment > 0 {
		return inst.MonthlyPayment
	}
	n := inst.TermMonths()
	if n <= 0 {
		return inst.Principal
	}
	return inst.Principal / float64(n)
}

func leasingPosition(inst Instrument, elapsedMonths int) Position {
	n := inst.TermMonths()
	if n <= 0 {
		return Position{Outstanding: inst.Principal, CurrentPortion: inst.Principal}
	}

	remaining := max(0, n-elapsedMonths)
	monthly := leasingMonthly(inst)
	outstanding := monthly * float64(remaining)

	current := outstanding
	if remaining > constants.MonthsPerYear {
		current = math.Min(outstanding, monthly*constants.MonthsPerYear)
	}
	return Position{
		Outstanding:     outstanding,
		CurrentPortion:  current,
		LongTermPortion: math.Max(0, outstanding-current),
	}
}

func monthlyRate(annualInterestRate float64) float64 {
	return annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// ScheduleGenerator produces yearly debt-service schedules.
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a new generator instance
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

// GenerateYearly returns one YearPayment per projection year starting at the
// instrument's current elapsed time. Years after maturity carry zero rows.
// The returned notes describe any clamping applied to the inputs.
func (g *ScheduleGenerator) GenerateYearly(inst Instrument, years int) ([]YearPayment, []string) {
	inst, notes := Normalize(inst)
	for _, note := range notes {
		g.logger.Warn("debt instrument adjusted",
			zap.String("op", "loans.GenerateYearly"),
			zap.String("instrument", inst.Name),
			zap.String("note", note),
		)
	}

	schedule := make([]YearPayment, 0, years)
	start := inst.ElapsedMonths()
	for year := 1; year <= years; year++ {
		from := start + (year-1)*constants.MonthsPerYear
		var payment YearPayment
		if inst.Kind == KindLeasing {
			payment = g.leasingYear(inst, from)
		} else {
			payment = g.loanYear(inst, from)
		}
		payment.Year = year
		schedule = append(schedule, payment)
	}
	return schedule, notes
}

func (g *ScheduleGenerator) loanYear(inst Instrument, from int) YearPayment {
	n := inst.TermMonths()
	if inst.Principal <= 0 {
		return YearPayment{}
	}
	if n <= 0 {
		// Degenerate term: the whole principal falls due in the first year.
		if from > 0 {
			return YearPayment{}
		}
		return YearPayment{
			Opening:   inst.Principal,
			Interest:  inst.Principal * inst.AnnualRate / constants.PercentageMultiplier,
			Principal: inst.Principal,
		}
	}
	if from >= n {
		return YearPayment{}
	}

	to := min(from+constants.MonthsPerYear, n)
	var interest float64
	for month := from; month < to; month++ {
		interest += CalculateInterestPayment(OutstandingAfter(inst.Principal, inst.AnnualRate, n, month), inst.AnnualRate)
	}

	opening := OutstandingAfter(inst.Principal, inst.AnnualRate, n, from)
	closing := positionAt(inst, to)
	if to == n {
		g.logger.Debug(fmt.Sprintf("instrument %s matures in this year after %d months", inst.Name, to-from),
			zap.String("op", "loans.loanYear"),
		)
	}
	return YearPayment{
		Opening:         opening,
		Interest:        interest,
		Principal:       opening - closing.Outstanding,
		Closing:         closing.Outstanding,
		CurrentPortion:  closing.CurrentPortion,
		LongTermPortion: closing.LongTermPortion,
	}
}

func (g *ScheduleGenerator) leasingYear(inst Instrument, from int) YearPayment {
	n := inst.TermMonths()
	if n <= 0 {
		if from > 0 || inst.Principal <= 0 {
			return YearPayment{}
		}
		return YearPayment{
			Opening:   inst.Principal,
			Principal: inst.Principal,
		}
	}

	remaining := max(0, n-from)
	if remaining == 0 {
		return YearPayment{}
	}
	active := min(constants.MonthsPerYear, remaining)
	monthly := leasingMonthly(inst)
	opening := monthly * float64(remaining)
	paid := monthly * float64(active)
	closing := leasingPosition(inst, from+active)

	// Contract payments already carry the financing charge, so the whole
	// installment reduces the outstanding balance and no interest is added.
	return YearPayment{
		Opening:         opening,
		Principal:       paid,
		Closing:         closing.Outstanding,
		CurrentPortion:  closing.CurrentPortion,
		LongTermPortion: closing.LongTermPortion,
	}
}
