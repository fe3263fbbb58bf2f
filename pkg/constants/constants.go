// Package constants provides shared constants for the emi-calculator application.
package constants

// DateTimeLayout is the year-month format used in config files, API payloads
// and output.
const DateTimeLayout = "2006-01"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyPlaces is the number of minor-unit digits kept at the presentation boundary
	CurrencyPlaces = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Schedule defaults
const (
	// DefaultScheduleStart anchors the first installment when nothing else is configured
	DefaultScheduleStart = "2026-02"

	// DefaultDisplayMonths caps the number of schedule rows rendered
	DefaultDisplayMonths = 60

	// MaxTenureMonths is the longest tenure accepted by the calculator surfaces
	MaxTenureMonths = 360

	// MaxAnnualRatePercent is the highest annual rate accepted by the calculator surfaces
	MaxAnnualRatePercent = 100.0

	// DefaultCurrencySymbol prefixes formatted amounts
	DefaultCurrencySymbol = "₹"

	// DefaultPageSize is the number of schedule rows per API page
	DefaultPageSize = 12
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides for the CLI configuration
	EnvPrefix = "EMI"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// DefaultRequestsPerMinute is the default per-client rate limit
	DefaultRequestsPerMinute = 120

	// DefaultBurstSize is the default per-client burst size
	DefaultBurstSize = 20

	// DefaultCacheTTL is the default lifetime of cached API responses
	DefaultCacheTTL = "10m"
)
