package amortization

import (
	"math"

	"github.com/iwvelando/emi-calculator/pkg/constants"
	"github.com/iwvelando/emi-calculator/pkg/mathutil"
)

// LoanParameters describes a fixed-rate loan repaid in equal monthly
// installments.
type LoanParameters struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
	TenureMonths      int     `json:"tenureMonths"`
}

// NewLoanParameters derives the financed principal from the requested loan
// amount minus any upfront payment. The result is not validated; the
// computing functions do that.
func NewLoanParameters(loanAmount, upfrontPayment, annualRatePercent float64, tenureMonths int) LoanParameters {
	return LoanParameters{
		Principal:         loanAmount - upfrontPayment,
		AnnualRatePercent: annualRatePercent,
		TenureMonths:      tenureMonths,
	}
}

// ValidateLoanRequest checks the raw loan amount and upfront payment before
// they are combined, so the error names the field the user actually entered.
func ValidateLoanRequest(loanAmount, upfrontPayment float64) error {
	if !mathutil.IsFinite(loanAmount) {
		return NewValidationError(FieldLoanAmount, "must be a finite number")
	}
	if loanAmount <= 0 {
		return NewValidationError(FieldLoanAmount, "must be greater than zero, got %g", loanAmount)
	}
	if !mathutil.IsFinite(upfrontPayment) {
		return NewValidationError(FieldUpfrontPayment, "must be a finite number")
	}
	if upfrontPayment < 0 {
		return NewValidationError(FieldUpfrontPayment, "must not be negative, got %g", upfrontPayment)
	}
	if upfrontPayment >= loanAmount {
		return NewValidationError(FieldUpfrontPayment, "must be less than the loan amount (%g >= %g)", upfrontPayment, loanAmount)
	}
	return nil
}

// Validate returns a *ValidationError for the first field that violates its
// constraint.
func (p LoanParameters) Validate() error {
	if !mathutil.IsFinite(p.Principal) {
		return NewValidationError(FieldPrincipal, "must be a finite number")
	}
	if p.Principal <= 0 {
		return NewValidationError(FieldPrincipal, "must be greater than zero, got %g", p.Principal)
	}
	if !mathutil.IsFinite(p.AnnualRatePercent) {
		return NewValidationError(FieldAnnualRate, "must be a finite number")
	}
	if p.AnnualRatePercent < 0 {
		return NewValidationError(FieldAnnualRate, "must not be negative, got %g", p.AnnualRatePercent)
	}
	if p.TenureMonths < 1 {
		return NewValidationError(FieldTenureMonths, "must be at least 1 month, got %d", p.TenureMonths)
	}
	if total := p.monthlyInstallment() * float64(p.TenureMonths); !mathutil.IsFinite(total) {
		return NewValidationError(FieldAnnualRate, "is too large to compute a finite repayment, got %g", p.AnnualRatePercent)
	}
	return nil
}

// Limits are the ceilings the calculator surfaces place on top of Validate.
// Zero fields are not enforced.
type Limits struct {
	MaxTenureMonths      int
	MaxAnnualRatePercent float64
}

// Check returns a *ValidationError when params exceed a ceiling.
func (l Limits) Check(params LoanParameters) error {
	if l.MaxTenureMonths > 0 && params.TenureMonths > l.MaxTenureMonths {
		return NewValidationError(FieldTenureMonths, "must not exceed %d months, got %d", l.MaxTenureMonths, params.TenureMonths)
	}
	if l.MaxAnnualRatePercent > 0 && params.AnnualRatePercent > l.MaxAnnualRatePercent {
		return NewValidationError(FieldAnnualRate, "must not exceed %g%%, got %g", l.MaxAnnualRatePercent, params.AnnualRatePercent)
	}
	return nil
}

// MonthlyRate returns the periodic rate as a fraction, e.g. 9% a year is 0.0075.
func (p LoanParameters) MonthlyRate() float64 {
	return p.AnnualRatePercent / constants.MonthsPerYear / constants.PercentageMultiplier
}

// monthlyInstallment evaluates P·r·(1+r)^n / ((1+r)^n − 1) in the equivalent
// form P·r / (1 − (1+r)^−n). The growth factor is never formed, so high rates
// over long tenures approach P·r instead of overflowing to Inf/Inf.
func (p LoanParameters) monthlyInstallment() float64 {
	r := p.MonthlyRate()
	n := float64(p.TenureMonths)
	if r == 0 {
		return p.Principal / n
	}
	return p.Principal * r / -discountedRemainder(r, n)
}

// discountedRemainder returns (1+r)^−n − 1, a value in (−1, 0] for r > 0.
func discountedRemainder(r, n float64) float64 {
	return math.Expm1(-n * math.Log1p(r))
}

// remainingBalance is the principal still owed after paid installments:
// P·(1 − (1+r)^−(n−paid)) / (1 − (1+r)^−n).
func (p LoanParameters) remainingBalance(paid int) float64 {
	left := float64(p.TenureMonths - paid)
	n := float64(p.TenureMonths)
	r := p.MonthlyRate()
	if r == 0 {
		return p.Principal * left / n
	}
	return p.Principal * (discountedRemainder(r, left) / discountedRemainder(r, n))
}
