package engine_test

import (
	"bytes"
	"encoding/csv"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/iwvelando/sme-valuation/internal/config"
	"github.com/iwvelando/sme-valuation/internal/engine"
	"github.com/iwvelando/sme-valuation/internal/model"
	"github.com/iwvelando/sme-valuation/internal/valuation"
	"github.com/iwvelando/sme-valuation/pkg/output"
	"github.com/iwvelando/sme-valuation/pkg/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var exampleConfig = filepath.Join("..", "config", "testdata", "valuation.yaml")

func loadExample(t testing.TB) *config.Configuration {
	t.Helper()
	conf, err := config.LoadConfiguration(exampleConfig)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	return conf
}

func runExample(t testing.TB, conf *config.Configuration) (*model.Report, error) {
	t.Helper()
	input, _ := conf.ToInput()
	return engine.Run(zap.NewNop(), input)
}

func TestIntegrationBaseline(t *testing.T) {
	report, err := runExample(t, loadExample(t))
	require.NoError(t, err)

	require.Equal(t, model.SectorAutomotive, report.Company.Sector)
	require.Equal(t, 18, report.Assessment.Age)
	require.Equal(t, model.StageConsolidating, report.Assessment.Stage)
	require.Equal(t, []float64{6.9, 6.1, 5.2, 5.2, 5.2}, report.AdjustedGrowthRates)

	require.Len(t, report.Years, 5)
	for i, y := range report.Years {
		require.Equal(t, 2024+i, y.CalendarYear)
		require.InDelta(t, y.TotalAssets(), y.TotalLiabilitiesAndEquity(), 0.01, "balance sheet of %d", y.CalendarYear)
	}

	require.Len(t, report.Debts, 2)
	require.Equal(t, model.StatusValid, report.Valuation.Status)
	require.InDelta(t, report.Valuation.EnterpriseValue-report.Valuation.NetDebt, report.Valuation.EquityValue, 1e-6)
}

func TestIntegrationPrettyOutput(t *testing.T) {
	report, err := runExample(t, loadExample(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, output.PrettyFormat(&buf, report))

	out := buf.String()
	require.Contains(t, out, "Valuation of Talleres Ejemplo SL")
	require.Contains(t, out, "2028 |")
	require.Contains(t, out, "ICO loan")
	require.Contains(t, out, report.Valuation.Verdict.Label())
}

func TestIntegrationCSVOutput(t *testing.T) {
	report, err := runExample(t, loadExample(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, output.CSVFormat(&buf, report))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(report.Years)+1)
	for _, record := range records[1:] {
		require.Len(t, record, len(records[0]))
	}
	require.Equal(t, "2024", records[1][1])
}

func TestIntegrationDataConsistency(t *testing.T) {
	first, err := runExample(t, loadExample(t))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := runExample(t, loadExample(t))
		require.NoError(t, err)
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", i, diff)
		}
	}
}

func TestIntegrationConfigurationVariations(t *testing.T) {
	variations := []struct {
		name         string
		modifyConfig func(*config.Configuration)
		expectErr    error
		check        func(t *testing.T, r *model.Report)
	}{
		{
			name:         "Baseline config",
			modifyConfig: func(*config.Configuration) {},
			check: func(t *testing.T, r *model.Report) {
				require.Len(t, r.Years, 5)
			},
		},
		{
			name: "Longer horizon",
			modifyConfig: func(c *config.Configuration) {
				c.Scenario.Horizon = 8
			},
			check: func(t *testing.T, r *model.Report) {
				require.Len(t, r.Years, 8)
				require.Len(t, r.AdjustedGrowthRates, 8)
			},
		},
		{
			name: "Maturity adjustment disabled",
			modifyConfig: func(c *config.Configuration) {
				disabled := false
				c.Scenario.ApplyMaturityAdjustment = &disabled
			},
			check: func(t *testing.T, r *model.Report) {
				require.Equal(t, []float64{8, 7, 6, 6, 6}, r.AdjustedGrowthRates)
			},
		},
		{
			name: "No debt",
			modifyConfig: func(c *config.Configuration) {
				c.Debts = nil
			},
			check: func(t *testing.T, r *model.Report) {
				require.Empty(t, r.Debts)
				require.Zero(t, r.Valuation.NetDebt)
				require.Equal(t, r.Valuation.EnterpriseValue, r.Valuation.EquityValue)
			},
		},
		{
			name: "Variable expense override",
			modifyConfig: func(c *config.Configuration) {
				c.Scenario.VariableExpenseSharePct = "50%"
			},
			check: func(t *testing.T, r *model.Report) {
				require.Equal(t, model.StatusValid, r.Valuation.Status)
			},
		},
		{
			name: "Terminal growth above WACC",
			modifyConfig: func(c *config.Configuration) {
				c.Scenario.WACCOverridePct = 4
				c.Scenario.TerminalGrowthPct = 6
			},
			expectErr: valuation.ErrInvalidValuation,
			check: func(t *testing.T, r *model.Report) {
				require.Equal(t, model.StatusInvalidTerminalValue, r.Valuation.Status)
				require.Len(t, r.Years, 5)
			},
		},
	}

	for _, variation := range variations {
		t.Run(variation.name, func(t *testing.T) {
			conf := loadExample(t)
			variation.modifyConfig(conf)

			report, err := runExample(t, conf)
			if variation.expectErr != nil {
				require.True(t, errors.Is(err, variation.expectErr), "expected %v, got %v", variation.expectErr, err)
			} else {
				require.NoError(t, err)
			}
			require.NotNil(t, report)
			variation.check(t, report)
		})
	}
}

func TestIntegrationWarningsSurface(t *testing.T) {
	conf := loadExample(t)
	conf.Scenario.ReceivableDays = 400
	conf.Company.Sector = "astrology"

	warnings := conf.ValidateConfiguration()
	require.NotEmpty(t, warnings)

	_, conversionWarnings := conf.ToInput()
	joined := strings.Join(conversionWarnings, "\n")
	require.Contains(t, joined, "astrology")
	require.Contains(t, joined, "receivableDays")
}

func BenchmarkRunSample(b *testing.B) {
	input := testutil.SampleInput()
	logger := zap.NewNop()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Run(logger, input); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLoadAndRun(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := runExample(b, loadExample(b)); err != nil {
			b.Fatal(err)
		}
	}
}
