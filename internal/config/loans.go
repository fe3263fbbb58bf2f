package config

import (
	"github.com/iwvelando/emi-calculator/pkg/amortization"
	"github.com/iwvelando/emi-calculator/pkg/datetime"
)

// Loan indicates a loan and its parameters.
type Loan struct {
	Name           string  `yaml:"name"`
	Active         bool    `yaml:"active"`
	Amount         float64 `yaml:"amount"`
	UpfrontPayment float64 `yaml:"upfrontPayment,omitempty"`
	InterestRate   float64 `yaml:"interestRate"` // annual, percent
	TenureMonths   int     `yaml:"tenureMonths"`
	ScheduleStart  string  `yaml:"scheduleStart,omitempty"`
	FilterMonth    string  `yaml:"filterMonth,omitempty"`
}

// Parameters validates the requested amount and upfront payment and returns
// the engine parameters for the loan.
func (loan Loan) Parameters() (amortization.LoanParameters, error) {
	if err := amortization.ValidateLoanRequest(loan.Amount, loan.UpfrontPayment); err != nil {
		return amortization.LoanParameters{}, err
	}
	params := amortization.NewLoanParameters(loan.Amount, loan.UpfrontPayment, loan.InterestRate, loan.TenureMonths)
	if err := params.Validate(); err != nil {
		return amortization.LoanParameters{}, err
	}
	return params, nil
}

// Start returns the month of the first installment.
func (loan Loan) Start() (datetime.YearMonth, error) {
	return datetime.ParseYearMonth(loan.ScheduleStart)
}

// Filter returns the month filter and whether one is set.
func (loan Loan) Filter() (datetime.YearMonth, bool, error) {
	if loan.FilterMonth == "" {
		return datetime.YearMonth{}, false, nil
	}
	ym, err := datetime.ParseYearMonth(loan.FilterMonth)
	if err != nil {
		return datetime.YearMonth{}, false, err
	}
	return ym, true, nil
}
