// Package jobs holds the concrete scheduled jobs.
package jobs

import (
	"context"

	"github.com/jwhan/trademate/internal/holdings"
	"github.com/jwhan/trademate/pkg/logger"
)

// portfolioValuer is the slice of the valuation service this job needs.
type portfolioValuer interface {
	Summarize(ctx context.Context) holdings.Summary
}

// ValuationJob values the portfolio on schedule and logs the result. It
// gives the operator an end-of-day snapshot without hitting the API.
type ValuationJob struct {
	valuer   portfolioValuer
	schedule string
	logger   *logger.Logger
}

// NewValuationJob creates the valuation job with the given cron schedule.
func NewValuationJob(valuer portfolioValuer, schedule string, log *logger.Logger) *ValuationJob {
	return &ValuationJob{valuer: valuer, schedule: schedule, logger: log}
}

// Name returns the job name.
func (j *ValuationJob) Name() string { return "portfolio-valuation" }

// Schedule returns the cron expression.
func (j *ValuationJob) Schedule() string { return j.schedule }

// Run values every holding and logs totals and the sector distribution.
func (j *ValuationJob) Run(ctx context.Context) error {
	summary := j.valuer.Summarize(ctx)

	var totalValue float64
	for _, h := range summary.Holdings {
		totalValue += h.Value
	}

	j.logger.WithFields(map[string]interface{}{
		"positions":   len(summary.Holdings),
		"total_value": totalValue,
		"sectors":     summary.SectorDistribution,
	}).Info("Portfolio valuation snapshot")

	return nil
}
