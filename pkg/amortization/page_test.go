package amortization

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	schedule, err := GenerateSchedule(LoanParameters{Principal: 50000, AnnualRatePercent: 8, TenureMonths: 30}, defaultStart, 0)
	require.NoError(t, err)

	tests := []struct {
		name       string
		page       int
		size       int
		firstMonth int
		entries    int
	}{
		{"First page", 1, 12, 1, 12},
		{"Middle page", 2, 12, 13, 12},
		{"Partial last page", 3, 12, 25, 6},
		{"Past the end", 4, 12, 0, 0},
		{"Single page", 1, 100, 1, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := Paginate(schedule, tt.page, tt.size)
			require.NoError(t, err)
			assert.Equal(t, 30, page.TotalEntries)
			assert.Equal(t, (30+tt.size-1)/tt.size, page.TotalPages)
			assert.Equal(t, tt.page, page.Number)
			require.Len(t, page.Entries, tt.entries)
			if tt.entries > 0 {
				assert.Equal(t, tt.firstMonth, page.Entries[0].MonthIndex)
			}
		})
	}
}

func TestPaginateValidation(t *testing.T) {
	_, err := Paginate(nil, 0, 10)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, FieldPage, validationErr.Field)

	_, err = Paginate(nil, 1, 0)
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, FieldPageSize, validationErr.Field)

	page, err := Paginate(nil, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, page.TotalPages)
	assert.NotNil(t, page.Entries)
}

func TestPaginateExtremeValues(t *testing.T) {
	schedule, err := GenerateSchedule(LoanParameters{Principal: 50000, AnnualRatePercent: 8, TenureMonths: 10}, defaultStart, 0)
	require.NoError(t, err)

	tests := []struct {
		name       string
		page       int
		size       int
		entries    int
		totalPages int
	}{
		{"Page number overflowing the offset", math.MaxInt64/12 + 2, 12, 0, 1},
		{"Largest page number", math.MaxInt64, 1, 0, 10},
		{"Largest page size", 1, math.MaxInt64, 10, 1},
		{"Largest page and size", math.MaxInt64, math.MaxInt64, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var page Page
			require.NotPanics(t, func() {
				page, err = Paginate(schedule, tt.page, tt.size)
			})
			require.NoError(t, err)
			assert.Len(t, page.Entries, tt.entries)
			assert.Equal(t, tt.totalPages, page.TotalPages)
			assert.Equal(t, 10, page.TotalEntries)
		})
	}
}
