// Package costs implements the sector cost-structure model: each expense line
// is split into a fixed share that follows accumulated inflation and a
// variable share that follows activity.
package costs

import (
	"github.com/iwvelando/sme-valuation/internal/model"
	"github.com/iwvelando/sme-valuation/pkg/mathutil"
)

// GeneralToPersonnelRatio ties the general-expense variable share to a
// user-supplied personnel variable share.
const GeneralToPersonnelRatio = 0.8

// Split is the fixed/variable decomposition of one expense line. Fixed is
// always 1 - Variable.
type Split struct {
	Fixed    float64
	Variable float64
}

// NewSplit builds a Split from a variable share in [0, 1].
func NewSplit(variable float64) Split {
	variable = mathutil.Clamp(variable, 0, 1)
	return Split{Fixed: 1 - variable, Variable: variable}
}

// Structure holds the splits for personnel and general expenses.
type Structure struct {
	Personnel Split
	General   Split
}

type coefficients struct {
	personnel, general             float64
	maturePersonnel, matureGeneral float64
}

func flat(personnel, general float64) coefficients {
	return coefficients{personnel, general, personnel, general}
}

// Variable shares per sector. Industrial and automotive companies shift towards
// a more rigid structure once mature.
var sectorTable = map[model.Sector]coefficients{
	model.SectorIndustrial:  {personnel: 0.60, general: 0.65, maturePersonnel: 0.50, matureGeneral: 0.35},
	model.SectorAutomotive:  {personnel: 0.60, general: 0.65, maturePersonnel: 0.50, matureGeneral: 0.35},
	model.SectorTechnology:  flat(0.20, 0.25),
	model.SectorEcommerce:   flat(0.70, 0.75),
	model.SectorHospitality: flat(0.60, 0.65),
	model.SectorRetail:      flat(0.65, 0.65),
	model.SectorConsulting:  flat(0.75, 0.40),
	model.SectorServices:    flat(0.75, 0.40),
	model.SectorOther:       flat(0.50, 0.40),
}

// Coefficients returns the cost structure of a sector. Unknown sectors use the
// default row.
func Coefficients(sector model.Sector, isMature bool) Structure {
	row, ok := sectorTable[sector]
	if !ok {
		row = sectorTable[model.SectorOther]
	}
	if isMature {
		return Structure{Personnel: NewSplit(row.maturePersonnel), General: NewSplit(row.matureGeneral)}
	}
	return Structure{Personnel: NewSplit(row.personnel), General: NewSplit(row.general)}
}

// WithOverride builds the structure implied by a user-supplied variable
// expense share (0-100). The general share is kept proportional to the
// personnel share.
func WithOverride(sharePct float64) Structure {
	share := mathutil.PercentToDecimal(mathutil.Clamp(sharePct, 0, 100))
	return Structure{
		Personnel: NewSplit(share),
		General:   NewSplit(GeneralToPersonnelRatio * share),
	}
}

// Scale projects a base-year expense:
// base * (fixed*inflationAccum + variable*activityFactor).
func Scale(base float64, split Split, activityFactor, inflationAccum float64) float64 {
	return base * (split.Fixed*inflationAccum + split.Variable*activityFactor)
}

// Model scales personnel and general expenses for one company.
type Model struct {
	structure Structure
}

// NewModel selects the structure for a sector and maturity, or the override
// when one is supplied.
func NewModel(sector model.Sector, isMature bool, overridePct *float64) Model {
	if overridePct != nil {
		return Model{structure: WithOverride(*overridePct)}
	}
	return Model{structure: Coefficients(sector, isMature)}
}

// Structure returns the splits in use.
func (m Model) Structure() Structure {
	return m.structure
}

// Expenses returns the projected personnel and general expenses.
func (m Model) Expenses(basePersonnel, baseGeneral, activityFactor, inflationAccum float64) (personnel, general float64) {
	personnel = Scale(basePersonnel, m.structure.Personnel, activityFactor, inflationAccum)
	general = Scale(baseGeneral, m.structure.General, activityFactor, inflationAccum)
	return personnel, general
}
