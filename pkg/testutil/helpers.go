// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/emi-calculator/internal/calculator"
	"github.com/iwvelando/emi-calculator/internal/config"
	"github.com/iwvelando/emi-calculator/pkg/constants"
)

// FindReport finds a report by loan name in the results slice.
// Returns a pointer to the report if found, nil otherwise.
func FindReport(results []calculator.Report, name string) *calculator.Report {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// SampleConfiguration returns a configuration holding the two reference
// loans used across the test suites: 1,000,000 at 9% over 12 months and an
// interest-free 10,000 over 10 months, both starting 2026-02.
func SampleConfiguration() config.Configuration {
	conf := config.Configuration{
		Calculator: config.CalculatorConfig{
			ScheduleStart:        constants.DefaultScheduleStart,
			DisplayMonths:        constants.DefaultDisplayMonths,
			MaxTenureMonths:      constants.MaxTenureMonths,
			MaxAnnualRatePercent: constants.MaxAnnualRatePercent,
			CurrencySymbol:       constants.DefaultCurrencySymbol,
		},
		Loans: []config.Loan{
			{
				Name:         "home",
				Active:       true,
				Amount:       1000000,
				InterestRate: 9,
				TenureMonths: 12,
			},
			{
				Name:         "appliance",
				Active:       true,
				Amount:       10000,
				InterestRate: 0,
				TenureMonths: 10,
			},
		},
	}
	conf.ApplyDefaults()
	return conf
}
