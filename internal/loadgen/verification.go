package loadgen

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/okian/adlens/internal/domain/types"
	"github.com/okian/adlens/pkg/logger"
)

// ErrVerification is returned when the service's answers break the batch contract.
var ErrVerification = errors.New("verification failed")

// verifyResults checks every answered batch: each campaign shows up once as a
// report or an error, reports keep input order, injected failures surface as
// upstream errors, and allocation shares add up to 100.
func verifyResults(ctx context.Context, results []batchResult, stats *Stats) error {
	logger.Get().Info(ctx, "verifying results")

	var problems []error
	for _, r := range results {
		if r.err != nil {
			problems = append(problems, fmt.Errorf("batch %d: %w", r.batch.Index, r.err))
			continue
		}
		stats.ReportsReceived += len(r.report.Reports)
		stats.EntityErrors += len(r.report.Errors)
		stats.ExpectedErrors += len(r.batch.failing)
		if err := verifyBatch(r); err != nil {
			problems = append(problems, fmt.Errorf("batch %d: %w", r.batch.Index, err))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", ErrVerification, errors.Join(problems...))
	}
	logger.Get().Info(ctx, "result verification completed",
		logger.Int("reports", stats.ReportsReceived),
		logger.Int("entityErrors", stats.EntityErrors))
	return nil
}

func verifyBatch(r batchResult) error {
	campaigns := r.batch.Campaigns
	if got := len(r.report.Reports) + len(r.report.Errors); got != len(campaigns) {
		return fmt.Errorf("%d campaigns answered, %d sent", got, len(campaigns))
	}

	for _, e := range r.report.Errors {
		if !r.batch.failing[e.Index] {
			return fmt.Errorf("campaign %d failed unexpectedly: %s: %s", e.Index, e.Kind, e.Message)
		}
		if e.Kind != types.KindUpstreamError {
			return fmt.Errorf("campaign %d: kind %q, want %q", e.Index, e.Kind, types.KindUpstreamError)
		}
	}
	if len(r.report.Errors) != len(r.batch.failing) {
		return fmt.Errorf("%d errors, %d injected", len(r.report.Errors), len(r.batch.failing))
	}

	next := 0
	for i, c := range campaigns {
		if r.batch.failing[i] {
			continue
		}
		rep := r.report.Reports[next]
		next++
		if rep.CampaignID != c.CampaignID {
			return fmt.Errorf("report %d is %s, want %s", next-1, rep.CampaignID, c.CampaignID)
		}
		if err := verifyAllocation(rep); err != nil {
			return fmt.Errorf("campaign %s: %w", c.CampaignID, err)
		}
	}
	return nil
}

func verifyAllocation(rep types.Report) error {
	if len(rep.BudgetAllocation) == 0 {
		return nil
	}
	var sum float64
	for _, e := range rep.BudgetAllocation {
		sum += e.AllocationPercentage
	}
	if math.Abs(sum-PercentageMultiplier) > AllocationTolerance {
		return fmt.Errorf("allocation shares sum to %.2f", sum)
	}
	return nil
}
