package amortization

// Page is one page of schedule rows for a paginated table.
type Page struct {
	Entries      []ScheduleEntry `json:"entries"`
	Number       int             `json:"page"`
	Size         int             `json:"pageSize"`
	TotalPages   int             `json:"totalPages"`
	TotalEntries int             `json:"totalEntries"`
}

// Paginate slices schedule into pages of pageSize rows and returns the
// 1-based page number. A page past the end is empty but still reports totals.
func Paginate(schedule []ScheduleEntry, page, pageSize int) (Page, error) {
	if page < 1 {
		return Page{}, NewValidationError(FieldPage, "must be at least 1, got %d", page)
	}
	if pageSize < 1 {
		return Page{}, NewValidationError(FieldPageSize, "must be at least 1, got %d", pageSize)
	}

	total := len(schedule)
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	result := Page{
		Entries:      []ScheduleEntry{},
		Number:       page,
		Size:         pageSize,
		TotalPages:   totalPages,
		TotalEntries: total,
	}

	// Checked before multiplying so client-supplied page numbers cannot overflow.
	if page > totalPages {
		return result, nil
	}
	start := (page - 1) * pageSize
	end := total
	if total-start > pageSize {
		end = start + pageSize
	}
	result.Entries = append(result.Entries, schedule[start:end]...)
	return result, nil
}
