// Package amortization computes equated monthly installments (EMI) and the
// month-by-month amortization schedule of fixed-rate loans.
//
// All functions are pure: they read only their arguments and return freshly
// allocated results, so they may be called concurrently without coordination.
// Amounts are kept unrounded; round with mathutil.ToCurrency when presenting.
package amortization

import "github.com/iwvelando/emi-calculator/pkg/mathutil"

// InstallmentResult holds the constant installment and the lifetime totals of
// a loan.
type InstallmentResult struct {
	Principal          float64 `json:"principal"`
	MonthlyInstallment float64 `json:"monthlyInstallment"`
	TotalPayable       float64 `json:"totalPayable"`
	TotalInterest      float64 `json:"totalInterest"`
}

// Breakdown splits the total payable into principal and interest shares.
type Breakdown struct {
	PrincipalShare float64 `json:"principalShare"` // percent
	InterestShare  float64 `json:"interestShare"`  // percent
}

// ComputeInstallment returns the monthly installment and totals for params.
func ComputeInstallment(params LoanParameters) (InstallmentResult, error) {
	if err := params.Validate(); err != nil {
		return InstallmentResult{}, err
	}

	installment := params.monthlyInstallment()
	totalPayable := installment * float64(params.TenureMonths)
	return InstallmentResult{
		Principal:          params.Principal,
		MonthlyInstallment: installment,
		TotalPayable:       totalPayable,
		TotalInterest:      totalPayable - params.Principal,
	}, nil
}

// Breakdown returns the principal/interest split of the total payable.
func (r InstallmentResult) Breakdown() Breakdown {
	principalShare := mathutil.Clamp(mathutil.CalculatePercentage(r.Principal, r.TotalPayable), 0, 100)
	return Breakdown{
		PrincipalShare: principalShare,
		InterestShare:  100 - principalShare,
	}
}
