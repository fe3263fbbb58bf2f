// Package datetime provides year-month utilities for payment schedules.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/emi-calculator/pkg/constants"
)

const (
	// DateTimeLayout is the format expected in config files and is also the output
	// date format.
	DateTimeLayout = constants.DateTimeLayout
)

// YearMonth identifies a calendar month without a day or time component.
type YearMonth struct {
	Year  int
	Month time.Month
}

// NewYearMonth returns the YearMonth for the given year and month. Months
// outside 1-12 are normalized, so NewYearMonth(2025, 13) is January 2026.
func NewYearMonth(year int, month time.Month) YearMonth {
	return YearMonth{}.fromIndex(year*constants.MonthsPerYear + int(month) - 1)
}

// FromTime returns the YearMonth containing t.
func FromTime(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth parses a "2006-01" formatted string.
func ParseYearMonth(value string) (YearMonth, error) {
	t, err := time.Parse(DateTimeLayout, strings.TrimSpace(value))
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid year-month %q: expected format %s", value, DateTimeLayout)
	}
	return FromTime(t), nil
}

// MustParseYearMonth parses a year-month and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseYearMonth(value string) YearMonth {
	ym, err := ParseYearMonth(value)
	if err != nil {
		panic(err)
	}
	return ym
}

// AddMonths returns the year-month offset by the given number of months.
func (ym YearMonth) AddMonths(months int) YearMonth {
	return ym.fromIndex(ym.index() + months)
}

// MonthsUntil returns the number of months from ym to other; negative when
// other is earlier.
func (ym YearMonth) MonthsUntil(other YearMonth) int {
	return other.index() - ym.index()
}

// Equal reports whether both values name the same year and month.
func (ym YearMonth) Equal(other YearMonth) bool {
	return ym.Year == other.Year && ym.Month == other.Month
}

// Before reports whether ym is strictly before other.
func (ym YearMonth) Before(other YearMonth) bool {
	return ym.index() < other.index()
}

// IsZero reports whether ym is the zero value.
func (ym YearMonth) IsZero() bool {
	return ym.Year == 0 && ym.Month == 0
}

// Time returns midnight UTC on the first day of the month.
func (ym YearMonth) Time() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// String formats the value using DateTimeLayout.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Label returns a short human label such as "Feb 2026".
func (ym YearMonth) Label() string {
	return ym.Time().Format("Jan 2006")
}

// MarshalText implements encoding.TextMarshaler.
func (ym YearMonth) MarshalText() ([]byte, error) {
	return []byte(ym.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (ym *YearMonth) UnmarshalText(text []byte) error {
	parsed, err := ParseYearMonth(string(text))
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}

func (ym YearMonth) index() int {
	return ym.Year*constants.MonthsPerYear + int(ym.Month) - 1
}

func (YearMonth) fromIndex(idx int) YearMonth {
	year := idx / constants.MonthsPerYear
	month := idx % constants.MonthsPerYear
	if month < 0 {
		month += constants.MonthsPerYear
		year--
	}
	return YearMonth{Year: year, Month: time.Month(month + 1)}
}
