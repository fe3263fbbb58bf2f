// Package config defines the data structures related to configuration and
// includes functions for loading and normalizing it.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/iwvelando/emi-calculator/internal/logging"
	"github.com/iwvelando/emi-calculator/pkg/amortization"
	"github.com/iwvelando/emi-calculator/pkg/constants"
	"github.com/iwvelando/emi-calculator/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DateTimeLayout is the format expected in config files and is also the output
// date format.
const DateTimeLayout = constants.DateTimeLayout

// Configuration holds all configuration for emi-calculator.
type Configuration struct {
	Calculator CalculatorConfig `yaml:"calculator,omitempty"`
	Loans      []Loan           `yaml:"loans"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
	Output     OutputConfig     `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig = logging.Config

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// CalculatorConfig holds the defaults shared by every loan.
type CalculatorConfig struct {
	ScheduleStart        string  `yaml:"scheduleStart,omitempty"`
	DisplayMonths        int     `yaml:"displayMonths,omitempty"`
	FullSchedule         bool    `yaml:"fullSchedule,omitempty"`
	MaxTenureMonths      int     `yaml:"maxTenureMonths,omitempty"`
	MaxAnnualRatePercent float64 `yaml:"maxAnnualRatePercent,omitempty"`
	CurrencySymbol       string  `yaml:"currencySymbol,omitempty"`
}

// Limits returns the ceilings every loan must respect before its schedule
// is computed.
func (c CalculatorConfig) Limits() amortization.Limits {
	return amortization.Limits{
		MaxTenureMonths:      c.MaxTenureMonths,
		MaxAnnualRatePercent: c.MaxAnnualRatePercent,
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. A .env file in the working directory, when present,
// is loaded first so its EMI_* variables can override file values.
func LoadConfiguration(configPath string) (*Configuration, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file, %w", err)
	}

	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults also register the keys so AutomaticEnv can override them.
	v.SetDefault("calculator.scheduleStart", constants.DefaultScheduleStart)
	v.SetDefault("calculator.displayMonths", constants.DefaultDisplayMonths)
	v.SetDefault("calculator.fullSchedule", false)
	v.SetDefault("calculator.maxTenureMonths", constants.MaxTenureMonths)
	v.SetDefault("calculator.maxAnnualRatePercent", constants.MaxAnnualRatePercent)
	v.SetDefault("calculator.currencySymbol", constants.DefaultCurrencySymbol)
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", "")
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	configuration.ApplyDefaults()
	return &configuration, nil
}

// ApplyDefaults fills unset calculator settings and propagates the shared
// schedule start to loans that do not override it.
func (conf *Configuration) ApplyDefaults() {
	if conf.Calculator.ScheduleStart == "" {
		conf.Calculator.ScheduleStart = constants.DefaultScheduleStart
	}
	if conf.Calculator.DisplayMonths <= 0 {
		conf.Calculator.DisplayMonths = constants.DefaultDisplayMonths
	}
	if conf.Calculator.MaxTenureMonths <= 0 {
		conf.Calculator.MaxTenureMonths = constants.MaxTenureMonths
	}
	if conf.Calculator.MaxAnnualRatePercent <= 0 {
		conf.Calculator.MaxAnnualRatePercent = constants.MaxAnnualRatePercent
	}
	if conf.Calculator.CurrencySymbol == "" {
		conf.Calculator.CurrencySymbol = constants.DefaultCurrencySymbol
	}

	for i := range conf.Loans {
		if conf.Loans[i].ScheduleStart == "" {
			conf.Loans[i].ScheduleStart = conf.Calculator.ScheduleStart
		}
	}
}

// DisplayLimit returns the number of schedule rows to show, 0 meaning all.
func (conf *Configuration) DisplayLimit() int {
	if conf.Calculator.FullSchedule {
		return 0
	}
	return conf.Calculator.DisplayMonths
}

// SetFilterMonth applies the same month filter to every loan.
func (conf *Configuration) SetFilterMonth(month string) {
	for i := range conf.Loans {
		conf.Loans[i].FilterMonth = month
	}
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (conf *Configuration) ValidateConfiguration() []string {
	validator := validation.ConfigValidator{
		MaxTenureMonths: conf.Calculator.MaxTenureMonths,
		DisplayMonths:   conf.DisplayLimit(),
	}
	for _, loan := range conf.Loans {
		validator.Loans = append(validator.Loans, validation.LoanConfig{
			Name:          loan.Name,
			Active:        loan.Active,
			Amount:        loan.Amount,
			Upfront:       loan.UpfrontPayment,
			TenureMonths:  loan.TenureMonths,
			ScheduleStart: loan.ScheduleStart,
			FilterMonth:   loan.FilterMonth,
		})
	}

	return validator.ValidateAll()
}
