package amortization

import (
	"errors"
	"fmt"
)

// ErrInvalidParameters is matched by every *ValidationError via errors.Is.
var ErrInvalidParameters = errors.New("invalid loan parameters")

// Field names reported by ValidationError.
const (
	FieldLoanAmount     = "loanAmount"
	FieldUpfrontPayment = "upfrontPayment"
	FieldPrincipal      = "principal"
	FieldAnnualRate     = "annualRatePercent"
	FieldTenureMonths   = "tenureMonths"
	FieldMaxMonths      = "maxMonths"
	FieldScheduleStart  = "scheduleStart"
	FieldPage           = "page"
	FieldPageSize       = "pageSize"
)

// ValidationError reports an input that violates its constraint. Callers
// should re-prompt for corrected input; it is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is allows errors.Is(err, ErrInvalidParameters).
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidParameters
}
