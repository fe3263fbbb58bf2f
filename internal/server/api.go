package server

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/iwvelando/emi-calculator/internal/cache"
	"github.com/iwvelando/emi-calculator/pkg/amortization"
	"github.com/iwvelando/emi-calculator/pkg/constants"
	"github.com/iwvelando/emi-calculator/pkg/datetime"
	"github.com/iwvelando/emi-calculator/pkg/mathutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const fieldFilterMonth = "filterMonth"

// LoanRequest is the loan described by an API client.
type LoanRequest struct {
	LoanAmount     float64 `json:"loanAmount"`
	UpfrontPayment float64 `json:"upfrontPayment"`
	InterestRate   float64 `json:"interestRate"`
	// TenureMonths is a float so fractional input can be rejected explicitly.
	TenureMonths float64 `json:"tenureMonths"`
}

// ScheduleRequest asks for an amortization table.
type ScheduleRequest struct {
	LoanRequest
	ScheduleStart string `json:"scheduleStart,omitempty"`
	// MaxMonths caps the table; nil uses the server default and 0 means the full tenure.
	MaxMonths   *int   `json:"maxMonths,omitempty"`
	FilterMonth string `json:"filterMonth,omitempty"`
	Page        int    `json:"page,omitempty"`
	PageSize    int    `json:"pageSize,omitempty"`
}

// InstallmentResponse summarizes the repayment of a loan. Money values are
// rounded to cents and encoded as decimal strings.
type InstallmentResponse struct {
	Principal          decimal.Decimal `json:"principal"`
	MonthlyInstallment decimal.Decimal `json:"monthlyInstallment"`
	TotalPayable       decimal.Decimal `json:"totalPayable"`
	TotalInterest      decimal.Decimal `json:"totalInterest"`
	PrincipalShare     decimal.Decimal `json:"principalShare"`
	InterestShare      decimal.Decimal `json:"interestShare"`
}

// ScheduleRow is one month of the amortization table.
type ScheduleRow struct {
	Month           int             `json:"month"`
	Date            string          `json:"date"`
	Label           string          `json:"label"`
	Installment     decimal.Decimal `json:"installment"`
	Principal       decimal.Decimal `json:"principal"`
	Interest        decimal.Decimal `json:"interest"`
	OpeningBalance  decimal.Decimal `json:"openingBalance"`
	ClosingBalance  decimal.Decimal `json:"closingBalance"`
	TotalPaidToDate decimal.Decimal `json:"totalPaidToDate"`
	PercentPaid     decimal.Decimal `json:"percentPaid"`
}

// PageInfo locates the returned rows within the whole table.
type PageInfo struct {
	Page         int `json:"page"`
	PageSize     int `json:"pageSize"`
	TotalPages   int `json:"totalPages"`
	TotalEntries int `json:"totalEntries"`
}

// ScheduleResponse is the body returned by /api/schedule.
type ScheduleResponse struct {
	Summary       InstallmentResponse `json:"summary"`
	ScheduleStart string              `json:"scheduleStart"`
	FilterMonth   string              `json:"filterMonth,omitempty"`
	Truncated     bool                `json:"truncated"`
	Rows          []ScheduleRow       `json:"rows"`
	Page          PageInfo            `json:"page"`
}

// parameters validates the raw request against limits and derives the
// financed principal.
func (req LoanRequest) parameters(limits amortization.Limits) (amortization.LoanParameters, error) {
	if err := amortization.ValidateLoanRequest(req.LoanAmount, req.UpfrontPayment); err != nil {
		return amortization.LoanParameters{}, err
	}
	if !mathutil.IsFinite(req.TenureMonths) || req.TenureMonths != math.Trunc(req.TenureMonths) {
		return amortization.LoanParameters{}, amortization.NewValidationError(amortization.FieldTenureMonths,
			"must be a whole number of months, got %g", req.TenureMonths)
	}
	// Compared as a float so huge values are rejected before the int conversion.
	if limits.MaxTenureMonths > 0 && req.TenureMonths > float64(limits.MaxTenureMonths) {
		return amortization.LoanParameters{}, amortization.NewValidationError(amortization.FieldTenureMonths,
			"must not exceed %d months, got %g", limits.MaxTenureMonths, req.TenureMonths)
	}

	params := amortization.NewLoanParameters(req.LoanAmount, req.UpfrontPayment, req.InterestRate, int(req.TenureMonths))
	if err := limits.Check(params); err != nil {
		return amortization.LoanParameters{}, err
	}
	if err := params.Validate(); err != nil {
		return amortization.LoanParameters{}, err
	}
	return params, nil
}

func (h *handler) handleEMI(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEMI"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req LoanRequest
	if status, err := h.decodeBody(w, r, &req); err != nil {
		h.respondError(w, r, status, err, op)
		return
	}

	h.serveCached(w, r, "emi", req, op, func() (interface{}, error) {
		params, err := req.parameters(h.calculator.Limits())
		if err != nil {
			return nil, err
		}
		installment, err := amortization.ComputeInstallment(params)
		if err != nil {
			return nil, err
		}
		return newInstallmentResponse(installment), nil
	})
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req ScheduleRequest
	if status, err := h.decodeBody(w, r, &req); err != nil {
		h.respondError(w, r, status, err, op)
		return
	}

	h.serveCached(w, r, "schedule", req, op, func() (interface{}, error) {
		return h.buildSchedule(req)
	})
}

func (h *handler) buildSchedule(req ScheduleRequest) (ScheduleResponse, error) {
	params, err := req.parameters(h.calculator.Limits())
	if err != nil {
		return ScheduleResponse{}, err
	}

	startValue := req.ScheduleStart
	if startValue == "" {
		startValue = h.calculator.ScheduleStart
	}
	start, err := datetime.ParseYearMonth(startValue)
	if err != nil {
		return ScheduleResponse{}, amortization.NewValidationError(amortization.FieldScheduleStart,
			"must use the YYYY-MM format, got %q", startValue)
	}

	maxMonths := h.calculator.DisplayMonths
	if req.MaxMonths != nil {
		maxMonths = *req.MaxMonths
	}

	plan, err := h.engine.Plan(params, start, maxMonths)
	if err != nil {
		return ScheduleResponse{}, err
	}

	rows := plan.Schedule
	if req.FilterMonth != "" {
		filter, err := datetime.ParseYearMonth(req.FilterMonth)
		if err != nil {
			return ScheduleResponse{}, amortization.NewValidationError(fieldFilterMonth,
				"must use the YYYY-MM format, got %q", req.FilterMonth)
		}
		rows = amortization.FilterByYearMonth(rows, filter)
	}

	pageNumber, pageSize := req.Page, req.PageSize
	if pageNumber == 0 {
		pageNumber = 1
	}
	if pageSize == 0 {
		pageSize = constants.DefaultPageSize
	}
	page, err := amortization.Paginate(rows, pageNumber, pageSize)
	if err != nil {
		return ScheduleResponse{}, err
	}

	resp := ScheduleResponse{
		Summary:       newInstallmentResponse(plan.Installment),
		ScheduleStart: plan.Start.String(),
		FilterMonth:   req.FilterMonth,
		Truncated:     plan.Truncated,
		Rows:          make([]ScheduleRow, 0, len(page.Entries)),
		Page: PageInfo{
			Page:         page.Number,
			PageSize:     page.Size,
			TotalPages:   page.TotalPages,
			TotalEntries: page.TotalEntries,
		},
	}
	for _, entry := range page.Entries {
		resp.Rows = append(resp.Rows, newScheduleRow(entry, params.Principal))
	}
	return resp, nil
}

// serveCached answers from the response cache when possible, otherwise runs
// compute and stores its encoded result.
func (h *handler) serveCached(w http.ResponseWriter, r *http.Request, namespace string, req interface{}, op string, compute func() (interface{}, error)) {
	var key string
	if h.cache != nil {
		k, err := cache.Key(namespace, req)
		if err == nil {
			key = k
			if body, ok := h.cache.Get(r.Context(), key); ok {
				w.Header().Set("X-Cache", "HIT")
				writeRawJSON(h.logger, w, http.StatusOK, []byte(body))
				return
			}
			w.Header().Set("X-Cache", "MISS")
		}
	}

	result, err := compute()
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, err, op)
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, err, op)
		return
	}
	body = append(body, '\n')

	if key != "" {
		if err := h.cache.Set(r.Context(), key, string(body)); err != nil {
			h.logger.Warn("failed to cache response",
				zap.String("op", op),
				zap.String("requestId", RequestID(r.Context())),
				zap.Error(err),
			)
		}
	}

	writeRawJSON(h.logger, w, http.StatusOK, body)
}

func newInstallmentResponse(result amortization.InstallmentResult) InstallmentResponse {
	breakdown := result.Breakdown()
	return InstallmentResponse{
		Principal:          mathutil.ToCurrency(result.Principal),
		MonthlyInstallment: mathutil.ToCurrency(result.MonthlyInstallment),
		TotalPayable:       mathutil.ToCurrency(result.TotalPayable),
		TotalInterest:      mathutil.ToCurrency(result.TotalInterest),
		PrincipalShare:     mathutil.ToCurrency(breakdown.PrincipalShare),
		InterestShare:      mathutil.ToCurrency(breakdown.InterestShare),
	}
}

func newScheduleRow(entry amortization.ScheduleEntry, principal float64) ScheduleRow {
	progress := entry.Progress(principal)
	return ScheduleRow{
		Month:           entry.MonthIndex,
		Date:            entry.Date.String(),
		Label:           entry.Date.Label(),
		Installment:     mathutil.ToCurrency(entry.Installment),
		Principal:       mathutil.ToCurrency(entry.PrincipalPortion),
		Interest:        mathutil.ToCurrency(entry.InterestPortion),
		OpeningBalance:  mathutil.ToCurrency(entry.OpeningBalance),
		ClosingBalance:  mathutil.ToCurrency(entry.ClosingBalance),
		TotalPaidToDate: mathutil.ToCurrency(progress.TotalPaidToDate),
		PercentPaid:     mathutil.ToCurrency(progress.PercentPaid),
	}
}
