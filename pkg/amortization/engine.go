package amortization

import (
	"github.com/iwvelando/emi-calculator/pkg/datetime"
	"go.uber.org/zap"
)

// Plan bundles everything computed for one set of loan parameters.
type Plan struct {
	Parameters  LoanParameters
	Start       datetime.YearMonth
	Installment InstallmentResult
	Schedule    []ScheduleEntry
	// Truncated is set when Schedule holds fewer entries than the tenure.
	Truncated bool
}

// Engine wraps the pure functions of this package with logging.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a new engine instance
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Plan computes the installment and the (optionally capped) schedule.
func (e *Engine) Plan(params LoanParameters, start datetime.YearMonth, maxMonths int) (Plan, error) {
	installment, err := ComputeInstallment(params)
	if err != nil {
		e.logger.Debug("rejected loan parameters",
			zap.String("op", "amortization.Plan"),
			zap.Error(err),
		)
		return Plan{}, err
	}

	schedule, err := GenerateSchedule(params, start, maxMonths)
	if err != nil {
		e.logger.Debug("rejected schedule request",
			zap.String("op", "amortization.Plan"),
			zap.Error(err),
		)
		return Plan{}, err
	}

	e.logger.Debug("computed amortization plan",
		zap.String("op", "amortization.Plan"),
		zap.Float64("principal", params.Principal),
		zap.Float64("annualRatePercent", params.AnnualRatePercent),
		zap.Int("tenureMonths", params.TenureMonths),
		zap.String("start", start.String()),
		zap.Float64("monthlyInstallment", installment.MonthlyInstallment),
		zap.Int("entries", len(schedule)),
	)

	return Plan{
		Parameters:  params,
		Start:       start,
		Installment: installment,
		Schedule:    schedule,
		Truncated:   len(schedule) < params.TenureMonths,
	}, nil
}
