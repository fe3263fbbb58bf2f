// Package calculator turns a loaded configuration into per-loan amortization
// reports.
package calculator

import (
	"context"
	"fmt"

	"github.com/iwvelando/emi-calculator/internal/config"
	"github.com/iwvelando/emi-calculator/pkg/amortization"
	"github.com/iwvelando/emi-calculator/pkg/datetime"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Report holds everything computed for one configured loan.
type Report struct {
	Name        string
	Parameters  amortization.LoanParameters
	Installment amortization.InstallmentResult
	Breakdown   amortization.Breakdown
	Start       datetime.YearMonth
	// Schedule holds the displayed rows, narrowed to Filter when one is set.
	Schedule []amortization.ScheduleEntry
	Progress []amortization.Progress
	// Filter is the month the schedule was narrowed to, empty for none.
	Filter    string
	Truncated bool
}

// Run computes a report for every active loan in conf. Loans are processed
// concurrently; reports keep the configuration order. The first loan that
// fails aborts the run.
func Run(ctx context.Context, logger *zap.Logger, conf config.Configuration) ([]Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var active []config.Loan
	for _, loan := range conf.Loans {
		if !loan.Active {
			logger.Debug(fmt.Sprintf("skipping loan %s because it is inactive", loan.Name),
				zap.String("op", "calculator.Run"),
			)
			continue
		}
		active = append(active, loan)
	}

	engine := amortization.NewEngine(logger)
	limit := conf.DisplayLimit()
	limits := conf.Calculator.Limits()
	reports := make([]Report, len(active))

	g, ctx := errgroup.WithContext(ctx)
	for i, loan := range active {
		i, loan := i, loan
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report, err := buildReport(engine, loan, limits, limit)
			if err != nil {
				return fmt.Errorf("loan %s: %w", loan.Name, err)
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("failed to compute loan reports",
			zap.String("op", "calculator.Run"),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Debug("computed loan reports",
		zap.String("op", "calculator.Run"),
		zap.Int("reports", len(reports)),
	)
	return reports, nil
}

func buildReport(engine *amortization.Engine, loan config.Loan, limits amortization.Limits, limit int) (Report, error) {
	params, err := loan.Parameters()
	if err != nil {
		return Report{}, err
	}
	// Enforced before planning: a full schedule allocates one row per month.
	if err := limits.Check(params); err != nil {
		return Report{}, err
	}
	start, err := loan.Start()
	if err != nil {
		return Report{}, err
	}
	filter, filtered, err := loan.Filter()
	if err != nil {
		return Report{}, err
	}

	plan, err := engine.Plan(params, start, limit)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		Name:        loan.Name,
		Parameters:  plan.Parameters,
		Installment: plan.Installment,
		Breakdown:   plan.Installment.Breakdown(),
		Start:       plan.Start,
		Schedule:    plan.Schedule,
		Truncated:   plan.Truncated,
	}
	if filtered {
		report.Schedule = amortization.FilterByYearMonth(plan.Schedule, filter)
		report.Filter = filter.String()
	}
	report.Progress = amortization.Summarize(report.Schedule, params.Principal)

	return report, nil
}
