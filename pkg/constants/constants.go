// Package constants provides shared constants for the sme-valuation application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DaysPerYear is the day count used for working capital ratios
	DaysPerYear = 365.0

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "valuation.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides of configuration keys
	EnvPrefix = "SMEVAL"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)

// Scenario defaults applied at the configuration boundary.
const (
	DefaultHorizonYears        = 5
	MinHorizonYears            = 1
	MaxHorizonYears            = 15
	DefaultCurrency            = "EUR"
	DefaultVariableCostPct     = 40.0
	DefaultTaxRatePct          = 25.0
	DefaultCapexPct            = 3.0
	DefaultDepreciationRatePct = 10.0
	DefaultReceivableDays      = 60.0
	DefaultInventoryDays       = 30.0
	DefaultPayableDays         = 45.0
	MaxWorkingCapitalDays      = 365.0
	DefaultTerminalGrowthPct   = 2.0
	DefaultRiskFreePct         = 3.5
	DefaultBeta                = 1.2
	DefaultMarketPremiumPct    = 6.0
	DefaultCostOfDebtPct       = 5.0
	DefaultTargetLeveragePct   = 30.0
	DefaultInflationPct        = 2.0
	DefaultGrowthPct           = 5.0
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// RateTolerance is the tolerance used by iterative rate solvers
	RateTolerance = 1e-9

	// MaxSolverIterations caps iterative root finding
	MaxSolverIterations = 100
)
