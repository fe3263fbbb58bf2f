package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/emi-calculator/pkg/amortization"
	"github.com/iwvelando/emi-calculator/pkg/constants"
)

const sampleConfig = `
logging:
  level: warn
  format: json
output:
  format: csv
calculator:
  scheduleStart: "2025-07"
  displayMonths: 24
  currencySymbol: "$"
loans:
  - name: mortgage
    active: true
    amount: 300000
    upfrontPayment: 60000
    interestRate: 6
    tenureMonths: 360
  - name: car
    active: false
    amount: 25000
    interestRate: 4
    tenureMonths: 60
    scheduleStart: "2026-01"
    filterMonth: "2026-03"
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Sample config file",
			configPath: writeConfig(t, sampleConfig),
			wantError:  false,
		},
		{
			name:       "Malformed config file",
			configPath: writeConfig(t, "loans: [unterminated"),
			wantError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationValues(t *testing.T) {
	conf, err := LoadConfiguration(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Logging.Level != "warn" || conf.Logging.Format != "json" {
		t.Errorf("unexpected logging config: %+v", conf.Logging)
	}
	if conf.Output.Format != constants.OutputFormatCSV {
		t.Errorf("expected csv output, got %q", conf.Output.Format)
	}
	if conf.Calculator.DisplayMonths != 24 {
		t.Errorf("expected 24 display months, got %d", conf.Calculator.DisplayMonths)
	}
	if conf.Calculator.MaxTenureMonths != constants.MaxTenureMonths {
		t.Errorf("expected default max tenure, got %d", conf.Calculator.MaxTenureMonths)
	}
	if conf.Calculator.CurrencySymbol != "$" {
		t.Errorf("expected $ symbol, got %q", conf.Calculator.CurrencySymbol)
	}
	if len(conf.Loans) != 2 {
		t.Fatalf("expected 2 loans, got %d", len(conf.Loans))
	}

	mortgage := conf.Loans[0]
	if mortgage.Name != "mortgage" || !mortgage.Active {
		t.Errorf("unexpected mortgage: %+v", mortgage)
	}
	if mortgage.ScheduleStart != "2025-07" {
		t.Errorf("expected inherited schedule start 2025-07, got %q", mortgage.ScheduleStart)
	}
	params, err := mortgage.Parameters()
	if err != nil {
		t.Fatalf("Parameters() error = %v", err)
	}
	if params.Principal != 240000 || params.AnnualRatePercent != 6 || params.TenureMonths != 360 {
		t.Errorf("unexpected parameters: %+v", params)
	}

	car := conf.Loans[1]
	if car.Active {
		t.Error("expected car loan to be inactive")
	}
	if car.ScheduleStart != "2026-01" {
		t.Errorf("expected own schedule start 2026-01, got %q", car.ScheduleStart)
	}
	filter, ok, err := car.Filter()
	if err != nil || !ok || filter.String() != "2026-03" {
		t.Errorf("unexpected filter: %v %v %v", filter, ok, err)
	}
}

func TestLoadConfigurationEnvOverride(t *testing.T) {
	t.Setenv("EMI_LOGGING_LEVEL", "debug")
	t.Setenv("EMI_CALCULATOR_DISPLAYMONTHS", "12")

	conf, err := LoadConfiguration(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if conf.Logging.Level != "debug" {
		t.Errorf("expected env override of logging level, got %q", conf.Logging.Level)
	}
	if conf.Calculator.DisplayMonths != 12 {
		t.Errorf("expected env override of display months, got %d", conf.Calculator.DisplayMonths)
	}
}

func TestLoadConfigurationFromReaderDefaults(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(`
loans:
  - name: minimal
    active: true
    amount: 10000
    interestRate: 0
    tenureMonths: 10
`))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	if conf.Calculator.ScheduleStart != constants.DefaultScheduleStart {
		t.Errorf("expected default schedule start, got %q", conf.Calculator.ScheduleStart)
	}
	if conf.DisplayLimit() != constants.DefaultDisplayMonths {
		t.Errorf("expected default display limit, got %d", conf.DisplayLimit())
	}
	if conf.Calculator.CurrencySymbol != constants.DefaultCurrencySymbol {
		t.Errorf("expected default currency symbol, got %q", conf.Calculator.CurrencySymbol)
	}
	start, err := conf.Loans[0].Start()
	if err != nil || start.String() != constants.DefaultScheduleStart {
		t.Errorf("unexpected loan start %v, %v", start, err)
	}

	conf.Calculator.FullSchedule = true
	if conf.DisplayLimit() != 0 {
		t.Errorf("expected full schedule display limit 0, got %d", conf.DisplayLimit())
	}
}

func TestLoanParametersValidation(t *testing.T) {
	tests := []struct {
		name  string
		loan  Loan
		field string
	}{
		{"Upfront exceeds amount", Loan{Amount: 1000, UpfrontPayment: 1500, InterestRate: 5, TenureMonths: 12}, amortization.FieldUpfrontPayment},
		{"Zero tenure", Loan{Amount: 1000, InterestRate: 5, TenureMonths: 0}, amortization.FieldTenureMonths},
		{"Negative rate", Loan{Amount: 1000, InterestRate: -2, TenureMonths: 12}, amortization.FieldAnnualRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.loan.Parameters()
			var validationErr *amortization.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if validationErr.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, validationErr.Field)
			}
		})
	}
}

func TestSetFilterMonth(t *testing.T) {
	conf := &Configuration{Loans: []Loan{{Name: "a"}, {Name: "b", FilterMonth: "2026-05"}}}
	conf.SetFilterMonth("2027-01")
	for _, loan := range conf.Loans {
		if loan.FilterMonth != "2027-01" {
			t.Errorf("loan %s filter = %q, expected 2027-01", loan.Name, loan.FilterMonth)
		}
	}
}

func TestValidateConfiguration(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(`
loans:
  - name: too long
    active: true
    amount: 5000000
    interestRate: 8
    tenureMonths: 480
  - name: fine
    active: true
    amount: 50000
    interestRate: 8
    tenureMonths: 12
`))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	warnings := conf.ValidateConfiguration()
	if len(warnings) != 1 || !strings.Contains(warnings[0], "too long") {
		t.Errorf("expected a single tenure warning, got %v", warnings)
	}
}

func TestLoadConfigurationExample(t *testing.T) {
	conf, err := LoadConfiguration(filepath.Join("..", "..", constants.ExampleConfigFile))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if len(conf.Loans) == 0 {
		t.Fatal("expected loans in example config")
	}
	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("expected example config to be free of warnings, got %v", warnings)
	}
	for _, loan := range conf.Loans {
		if _, err := loan.Parameters(); err != nil {
			t.Errorf("loan %s: %v", loan.Name, err)
		}
	}
}
