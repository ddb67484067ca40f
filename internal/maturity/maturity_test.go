package maturity

import (
	"math"
	"testing"

	"github.com/iwvelando/sme-valuation/internal/model"
)

func TestCAGR(t *testing.T) {
	tests := []struct {
		name     string
		revenues []float64
		expected float64
	}{
		{"Single year", []float64{100}, 0},
		{"Empty", nil, 0},
		{"Ten percent", []float64{100, 110, 121}, 10},
		{"Decline", []float64{200, 100}, -50},
		{"Zero start", []float64{0, 100, 200}, 0},
		{"Negative end", []float64{100, -5}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CAGR(tt.revenues); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("CAGR(%v) = %v, expected %v", tt.revenues, got, tt.expected)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		age      int
		revenue  float64
		cagr     float64
		expected model.MaturityStage
	}{
		{"Young company", 2, 500_000_000, 40, model.StageStartup},
		{"Fast grower", 6, 20_000_000, 22, model.StageRapidGrowth},
		{"Slow young company", 6, 20_000_000, 8, model.StageConsolidating},
		{"Mid-size mid-age", 15, 40_000_000, 3, model.StageConsolidating},
		{"Old company", 30, 300_000_000, 3, model.StageMature},
		{"Old small company", 40, 2_000_000, 1, model.StageMature},
		{"Large younger company", 12, 260_000_000, 4, model.StageMature},
		{"Established", 15, 80_000_000, 4, model.StageEstablished},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.age, tt.revenue, tt.cagr); got != tt.expected {
				t.Errorf("Classify() = %s, expected %s", got, tt.expected)
			}
		})
	}
}

func TestSubFactors(t *testing.T) {
	ageCases := map[int]float64{0: 1.0, 2: 1.0, 3: 0.9, 9: 0.9, 10: 0.75, 24: 0.75, 25: 0.6, 80: 0.6}
	for age, expected := range ageCases {
		if got := AgeFactor(age); got != expected {
			t.Errorf("AgeFactor(%d) = %v, expected %v", age, got, expected)
		}
	}

	sizeCases := map[float64]float64{1e6: 1.0, 1e7: 0.85, 4.9e7: 0.85, 5e7: 0.7, 2.5e8: 0.5}
	for revenue, expected := range sizeCases {
		if got := SizeFactor(revenue); got != expected {
			t.Errorf("SizeFactor(%v) = %v, expected %v", revenue, got, expected)
		}
	}

	growthCases := map[float64]float64{20: 1.0, 15: 0.85, 6: 0.85, 5: 0.7, -3: 0.7}
	for cagr, expected := range growthCases {
		if got := GrowthFactor(cagr); got != expected {
			t.Errorf("GrowthFactor(%v) = %v, expected %v", cagr, got, expected)
		}
	}
}

func TestEvaluateMatureScenario(t *testing.T) {
	a := Evaluate(30, 300_000_000, 3)
	if a.Stage != model.StageMature {
		t.Errorf("Stage = %s, expected %s", a.Stage, model.StageMature)
	}
	if math.Abs(a.Factor-0.60) > 1e-9 {
		t.Errorf("Factor = %v, expected 0.60", a.Factor)
	}
}

func TestAssess(t *testing.T) {
	profile := model.CompanyProfile{FoundationYear: 2018}
	historical := model.HistoricalFinancials{Years: []model.HistoricalYear{
		{Year: 2021, Revenue: 1_000_000},
		{Year: 2022, Revenue: 1_300_000},
		{Year: 2023, Revenue: 1_690_000},
	}}

	a := Assess(profile, historical, 2023)
	if a.Age != 5 {
		t.Errorf("Age = %d, expected 5", a.Age)
	}
	if math.Abs(a.CAGRPct-30) > 1e-6 {
		t.Errorf("CAGR = %v, expected 30", a.CAGRPct)
	}
	if a.Stage != model.StageRapidGrowth {
		t.Errorf("Stage = %s, expected %s", a.Stage, model.StageRapidGrowth)
	}
	// (0.9 + 1.0 + 1.0) / 3
	if math.Abs(a.Factor-2.9/3) > 1e-9 {
		t.Errorf("Factor = %v", a.Factor)
	}
}

func TestAdjustGrowthRates(t *testing.T) {
	tests := []struct {
		name     string
		rates    []float64
		factor   float64
		expected []float64
	}{
		{
			name:     "Young company keeps rates",
			rates:    []float64{10, 8, 6},
			factor:   1.0,
			expected: []float64{10, 8, 6},
		},
		{
			name:     "Factor applied directly at threshold",
			rates:    []float64{10, 10, 10},
			factor:   0.7,
			expected: []float64{7, 7, 7},
		},
		{
			name:     "Mature company decays out-years",
			rates:    []float64{10, 10, 10, 10},
			factor:   0.6,
			expected: []float64{6, 5.7, 5.4, 5.1},
		},
		{
			name:     "Factor clamped to lower bound",
			rates:    []float64{10},
			factor:   0.2,
			expected: []float64{5},
		},
		{
			name:     "Negative growth is dampened too",
			rates:    []float64{-4},
			factor:   0.85,
			expected: []float64{-3.4},
		},
		{
			name:     "Empty",
			rates:    nil,
			factor:   0.9,
			expected: []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdjustGrowthRates(tt.rates, tt.factor)
			if len(got) != len(tt.expected) {
				t.Fatalf("AdjustGrowthRates() length %d, expected %d", len(got), len(tt.expected))
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("year %d: got %v, expected %v", i+1, got[i], tt.expected[i])
				}
			}
		})
	}
}
