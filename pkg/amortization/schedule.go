package amortization

import (
	"math"
	"time"

	"github.com/iwvelando/emi-calculator/pkg/datetime"
	"github.com/iwvelando/emi-calculator/pkg/mathutil"
)

// ScheduleEntry is one month of an amortization schedule.
type ScheduleEntry struct {
	MonthIndex       int                `json:"month"`
	Date             datetime.YearMonth `json:"date"`
	Installment      float64            `json:"installment"`
	InterestPortion  float64            `json:"interest"`
	PrincipalPortion float64            `json:"principal"`
	OpeningBalance   float64            `json:"openingBalance"`
	ClosingBalance   float64            `json:"closingBalance"`
}

// Progress is the repayment position after a schedule entry.
type Progress struct {
	TotalPaidToDate float64 `json:"totalPaidToDate"`
	PercentPaid     float64 `json:"percentPaid"`
}

// GenerateSchedule returns the amortization schedule of params with the first
// installment falling in start. When maxMonths is positive at most that many
// entries are returned; the balance math always runs over the full tenure, so
// a capped schedule is an exact prefix of the uncapped one. Zero means no cap.
func GenerateSchedule(params LoanParameters, start datetime.YearMonth, maxMonths int) ([]ScheduleEntry, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if start.IsZero() {
		return nil, NewValidationError(FieldScheduleStart, "is required")
	}
	if maxMonths < 0 {
		return nil, NewValidationError(FieldMaxMonths, "must not be negative, got %d", maxMonths)
	}

	count := params.TenureMonths
	if maxMonths > 0 && maxMonths < count {
		count = maxMonths
	}

	rate := params.MonthlyRate()
	installment := params.monthlyInstallment()
	balance := params.Principal

	// Balances come from the closed form rather than from subtracting each
	// principal portion, so rounding error cannot compound over the tenure.
	entries := make([]ScheduleEntry, 0, count)
	for month := 1; month <= count; month++ {
		interest := balance * rate

		closing := math.Max(0, params.remainingBalance(month))
		if month == params.TenureMonths {
			closing = 0
		}

		entries = append(entries, ScheduleEntry{
			MonthIndex:       month,
			Date:             start.AddMonths(month - 1),
			Installment:      installment,
			InterestPortion:  interest,
			PrincipalPortion: balance - closing,
			OpeningBalance:   balance,
			ClosingBalance:   closing,
		})
		balance = closing
	}

	return entries, nil
}

// FilterByMonth returns the entries falling in the given calendar month of the
// given year. The result is empty, not nil, when nothing matches.
func FilterByMonth(schedule []ScheduleEntry, year int, month time.Month) []ScheduleEntry {
	return FilterByYearMonth(schedule, datetime.YearMonth{Year: year, Month: month})
}

// FilterByYearMonth is FilterByMonth for a YearMonth value.
func FilterByYearMonth(schedule []ScheduleEntry, ym datetime.YearMonth) []ScheduleEntry {
	matches := make([]ScheduleEntry, 0, 1)
	for _, entry := range schedule {
		if entry.Date.Equal(ym) {
			matches = append(matches, entry)
		}
	}
	return matches
}

// Progress returns how much of principal has been repaid once this entry is paid.
func (e ScheduleEntry) Progress(principal float64) Progress {
	paid := principal - e.ClosingBalance
	var percent float64
	if principal > 0 {
		percent = mathutil.Clamp(paid/principal*100, 0, 100)
	}
	return Progress{TotalPaidToDate: paid, PercentPaid: percent}
}

// Summarize returns the Progress of every entry, index-aligned with schedule.
func Summarize(schedule []ScheduleEntry, principal float64) []Progress {
	progress := make([]Progress, len(schedule))
	for i, entry := range schedule {
		progress[i] = entry.Progress(principal)
	}
	return progress
}
