// Package output provides utilities for formatting and displaying loan reports.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/emi-calculator/internal/calculator"
	"github.com/iwvelando/emi-calculator/pkg/format"
	"github.com/iwvelando/emi-calculator/pkg/mathutil"
)

// NoPaymentsMessage is printed in place of the table when a month filter
// matches no installment.
const NoPaymentsMessage = "No payments found for selected month"

var csvHeader = []string{
	"loan", "month", "date", "installment", "principal", "interest",
	"opening balance", "closing balance", "total paid", "percent paid",
}

// PrettyFormat writes a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, reports []calculator.Report, symbol string) error {
	ew := &errWriter{w: w}
	for i, report := range reports {
		if i > 0 {
			ew.printf("\n")
		}
		writeSummary(ew, report, symbol)
		ew.printf("\n")
		writeTable(ew, report, symbol)
	}
	return ew.err
}

func writeSummary(ew *errWriter, report calculator.Report, symbol string) {
	installment := report.Installment
	ew.printf("--- Results for loan %s ---\n", report.Name)
	ew.printf("Principal       | %s\n", format.Currency(report.Parameters.Principal, symbol))
	ew.printf("Interest rate   | %s p.a.\n", format.Percent(report.Parameters.AnnualRatePercent))
	ew.printf("Tenure          | %d months\n", report.Parameters.TenureMonths)
	ew.printf("Monthly EMI     | %s\n", format.Currency(installment.MonthlyInstallment, symbol))
	ew.printf("Total payable   | %s\n", format.Currency(installment.TotalPayable, symbol))
	ew.printf("Total interest  | %s\n", format.Currency(installment.TotalInterest, symbol))
	ew.printf("Breakdown       | principal %s / interest %s\n",
		format.Percent(report.Breakdown.PrincipalShare), format.Percent(report.Breakdown.InterestShare))
	if report.Truncated && report.Filter == "" {
		ew.printf("Schedule        | first %d of %d months from %s\n",
			len(report.Schedule), report.Parameters.TenureMonths, report.Start.Label())
	}
	if report.Filter != "" {
		ew.printf("Filter          | %s\n", report.Filter)
	}
}

func writeTable(ew *errWriter, report calculator.Report, symbol string) {
	if len(report.Schedule) == 0 {
		ew.printf("%s\n", NoPaymentsMessage)
		return
	}

	ew.printf("Month | Date     | EMI             | Principal       | Interest        | Balance         | Paid %%\n")
	ew.printf("_____ | ________ | _______________ | _______________ | _______________ | _______________ | ______\n")
	for i, entry := range report.Schedule {
		var percent float64
		if i < len(report.Progress) {
			percent = report.Progress[i].PercentPaid
		}
		ew.printf("%5d | %-8s | %15s | %15s | %15s | %15s | %6s\n",
			entry.MonthIndex,
			entry.Date.Label(),
			format.Currency(entry.Installment, symbol),
			format.Currency(entry.PrincipalPortion, symbol),
			format.Currency(entry.InterestPortion, symbol),
			format.Currency(entry.ClosingBalance, symbol),
			format.Percent(percent),
		)
	}
}

// CsvFormat writes one comma-separated row per schedule entry of every report.
func CsvFormat(w io.Writer, reports []calculator.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, report := range reports {
		for i, entry := range report.Schedule {
			var progress struct{ paid, percent float64 }
			if i < len(report.Progress) {
				progress.paid = report.Progress[i].TotalPaidToDate
				progress.percent = report.Progress[i].PercentPaid
			}
			row := []string{
				report.Name,
				strconv.Itoa(entry.MonthIndex),
				entry.Date.String(),
				money(entry.Installment),
				money(entry.PrincipalPortion),
				money(entry.InterestPortion),
				money(entry.OpeningBalance),
				money(entry.ClosingBalance),
				money(progress.paid),
				money(progress.percent),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func money(v float64) string {
	return mathutil.ToCurrency(v).StringFixed(2)
}

// errWriter keeps the first write error so formatting code can stay linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
