package validation

import (
	"fmt"

	"github.com/iwvelando/emi-calculator/pkg/datetime"
)

// ValidateTenure warns when a loan's tenure exceeds the calculator ceiling.
func ValidateTenure(loanName string, tenureMonths, maxTenureMonths int) string {
	if maxTenureMonths > 0 && tenureMonths > maxTenureMonths {
		return fmt.Sprintf("Loan '%s' tenure of %d months exceeds the maximum of %d months",
			loanName, tenureMonths, maxTenureMonths)
	}
	return ""
}

// ValidateFilterMonth warns when a month filter can never match because it
// falls outside the loan's repayment window.
func ValidateFilterMonth(loanName, filterMonth, scheduleStart string, tenureMonths int) (string, error) {
	if filterMonth == "" || tenureMonths < 1 {
		return "", nil
	}

	filter, err := datetime.ParseYearMonth(filterMonth)
	if err != nil {
		return "", err
	}
	start, err := datetime.ParseYearMonth(scheduleStart)
	if err != nil {
		return "", err
	}
	end := start.AddMonths(tenureMonths - 1)

	if filter.Before(start) || end.Before(filter) {
		return fmt.Sprintf("Loan '%s' filter month %s is outside the repayment window (%s to %s)",
			loanName, filter, start, end), nil
	}
	return "", nil
}

// ValidateDisplayWindow warns when a month filter is inside the repayment
// window but beyond the rows that will be displayed.
func ValidateDisplayWindow(loanName, filterMonth, scheduleStart string, displayMonths int) (string, error) {
	if filterMonth == "" || displayMonths < 1 {
		return "", nil
	}

	filter, err := datetime.ParseYearMonth(filterMonth)
	if err != nil {
		return "", err
	}
	start, err := datetime.ParseYearMonth(scheduleStart)
	if err != nil {
		return "", err
	}

	if start.MonthsUntil(filter) >= displayMonths {
		return fmt.Sprintf("Loan '%s' filter month %s is beyond the first %d displayed months",
			loanName, filter, displayMonths), nil
	}
	return "", nil
}

// LoanConfig is the subset of loan settings the validator inspects.
type LoanConfig struct {
	Name          string
	Active        bool
	Amount        float64
	Upfront       float64
	TenureMonths  int
	ScheduleStart string
	FilterMonth   string
}

// ConfigValidator performs whole-configuration validation.
type ConfigValidator struct {
	MaxTenureMonths int
	DisplayMonths   int // 0 when the full schedule is displayed
	Loans           []LoanConfig
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	names := make(map[string]bool)
	for _, loan := range cv.Loans {
		if names[loan.Name] {
			warnings = append(warnings, fmt.Sprintf("Loan name '%s' is used more than once", loan.Name))
		}
		names[loan.Name] = true

		if !loan.Active {
			continue
		}

		if loan.Upfront > 0 && loan.Upfront >= loan.Amount {
			warnings = append(warnings, fmt.Sprintf("Loan '%s' upfront payment %.2f covers the whole amount %.2f",
				loan.Name, loan.Upfront, loan.Amount))
		}

		if warning := ValidateTenure(loan.Name, loan.TenureMonths, cv.MaxTenureMonths); warning != "" {
			warnings = append(warnings, warning)
		}

		warning, err := ValidateFilterMonth(loan.Name, loan.FilterMonth, loan.ScheduleStart, loan.TenureMonths)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Loan '%s': %v", loan.Name, err))
			continue
		}
		if warning != "" {
			warnings = append(warnings, warning)
			continue
		}

		warning, err = ValidateDisplayWindow(loan.Name, loan.FilterMonth, loan.ScheduleStart, cv.DisplayMonths)
		if err == nil && warning != "" {
			warnings = append(warnings, warning)
		}
	}

	return warnings
}
