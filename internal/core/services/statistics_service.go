package services

import (
	"context"

	"loantrack/internal/adapters/persistence/repositories"
	"loantrack/internal/core/domain"

	"golang.org/x/sync/errgroup"
)

// StatisticsService computes the dashboard figures over all loans
type StatisticsService struct {
	loanRepo repositories.LoanRepository
}

// NewStatisticsService creates a new statistics service
func NewStatisticsService(loanRepo repositories.LoanRepository) *StatisticsService {
	return &StatisticsService{loanRepo: loanRepo}
}

// Get runs the sub-queries concurrently and combines them once all finish.
// Any failing sub-query fails the whole call.
func (s *StatisticsService) Get(ctx context.Context, id *domain.Identity) (*domain.Statistics, error) {
	if err := domain.Authorize(id, domain.ActionViewStatistics, nil).Err(); err != nil {
		return nil, err
	}
	return s.compute(ctx)
}

func (s *StatisticsService) compute(ctx context.Context) (*domain.Statistics, error) {
	var stats domain.Statistics
	g, ctx := errgroup.WithContext(ctx)

	count := func(dst *int64, statuses ...domain.LoanStatus) {
		g.Go(func() error {
			n, err := s.loanRepo.Count(ctx, statuses...)
			*dst = n
			return err
		})
	}
	sum := func(dst *float64, statuses ...domain.LoanStatus) {
		g.Go(func() error {
			v, err := s.loanRepo.SumAmount(ctx, statuses...)
			*dst = v
			return err
		})
	}

	count(&stats.TotalLoans)
	count(&stats.ApprovedLoans, domain.StatusApproved)
	count(&stats.PendingLoans, domain.StatusPending)
	count(&stats.VerifiedLoans, domain.StatusVerified)
	count(&stats.RejectedLoans, domain.StatusRejected)
	sum(&stats.TotalAmount)
	sum(&stats.DisbursedAmount, domain.StatusApproved)
	// received keeps the historical definition, the same set as disbursed
	sum(&stats.ReceivedAmount, domain.StatusApproved)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
