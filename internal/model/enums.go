package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Sector classifies the company's industry for the cost-structure model.
type Sector string

const (
	SectorIndustrial  Sector = "industrial"
	SectorAutomotive  Sector = "automotive"
	SectorTechnology  Sector = "technology"
	SectorEcommerce   Sector = "ecommerce"
	SectorHospitality Sector = "hospitality"
	SectorRetail      Sector = "retail"
	SectorConsulting  Sector = "consulting"
	SectorServices    Sector = "services"
	SectorOther       Sector = "other"
)

var sectorLabels = map[string]Sector{
	"industrial":           SectorIndustrial,
	"industria":            SectorIndustrial,
	"manufacturing":        SectorIndustrial,
	"automotive":           SectorAutomotive,
	"automocion":           SectorAutomotive,
	"automovil":            SectorAutomotive,
	"technology":           SectorTechnology,
	"tecnologia":           SectorTechnology,
	"software":             SectorTechnology,
	"saas":                 SectorTechnology,
	"ecommerce":            SectorEcommerce,
	"e-commerce":           SectorEcommerce,
	"comercio electronico": SectorEcommerce,
	"hospitality":          SectorHospitality,
	"hosteleria":           SectorHospitality,
	"restauracion":         SectorHospitality,
	"retail":               SectorRetail,
	"comercio":             SectorRetail,
	"consulting":           SectorConsulting,
	"consultoria":          SectorConsulting,
	"services":             SectorServices,
	"servicios":            SectorServices,
	"other":                SectorOther,
	"otro":                 SectorOther,
	"otros":                SectorOther,
}

// ParseSector maps English or Spanish labels, with or without accents, onto a
// Sector. The second return value is false when the label was not recognized
// and SectorOther was substituted.
func ParseSector(label string) (Sector, bool) {
	key := foldLabel(label)
	if sector, ok := sectorLabels[key]; ok {
		return sector, true
	}
	return SectorOther, false
}

func foldLabel(label string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, label)
	if err != nil {
		folded = label
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// MaturityStage is the lifecycle classification of the company.
type MaturityStage string

const (
	StageStartup       MaturityStage = "Startup"
	StageRapidGrowth   MaturityStage = "Rapid growth"
	StageConsolidating MaturityStage = "Consolidating"
	StageMature        MaturityStage = "Mature"
	StageEstablished   MaturityStage = "Established"
)

// IsMature reports whether the stage calls for the rigid cost structure of a
// settled company.
func (s MaturityStage) IsMature() bool {
	return s == StageMature || s == StageEstablished
}

// MaturityAssessment captures the maturity classification and the damping
// factor applied to growth projections.
type MaturityAssessment struct {
	Age          int           `json:"age"`
	Revenue      float64       `json:"revenue"`
	CAGRPct      float64       `json:"cagrPct"`
	Stage        MaturityStage `json:"stage"`
	AgeFactor    float64       `json:"ageFactor"`
	SizeFactor   float64       `json:"sizeFactor"`
	GrowthFactor float64       `json:"growthFactor"`
	Factor       float64       `json:"factor"`
}

// ValuationStatus flags whether a ValuationResult is complete.
type ValuationStatus string

const (
	StatusValid                ValuationStatus = "valid"
	StatusInvalidTerminalValue ValuationStatus = "invalid_terminal_value"
	StatusTIRNotConverged      ValuationStatus = "tir_not_converged"
)

// Verdict is the investment recommendation derived from TIR, WACC and ROIC.
type Verdict string

const (
	VerdictViable             Verdict = "viable"
	VerdictViableGrowthDriven Verdict = "viable_growth_driven"
	VerdictMarginal           Verdict = "marginal"
	VerdictParadox            Verdict = "paradox"
	VerdictNotViable          Verdict = "not_viable"
	VerdictInsufficientData   Verdict = "insufficient_data"
)

var verdictLabels = map[Verdict]string{
	VerdictViable:             "Viable — proceed",
	VerdictViableGrowthDriven: "Viable but value driven by growth/terminal value, not operating efficiency — proceed with caution",
	VerdictMarginal:           "Marginal — requires cost/structure optimization",
	VerdictParadox:            "Paradox — do not proceed without restructuring",
	VerdictNotViable:          "Not viable — do not proceed",
	VerdictInsufficientData:   "Insufficient data — TIR could not be determined",
}

// Label returns the human-readable recommendation.
func (v Verdict) Label() string {
	if label, ok := verdictLabels[v]; ok {
		return label
	}
	return string(v)
}
