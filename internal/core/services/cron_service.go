package services

import (
	"context"
	"time"

	"loantrack/internal/adapters/persistence/repositories"
	"loantrack/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CronService runs the scheduled maintenance jobs
type CronService struct {
	cron             *cron.Cron
	refreshTokenRepo repositories.RefreshTokenRepository
	stats            *StatisticsService
	log              *zap.Logger
}

// NewCronService registers the jobs whose schedule is set in cfg.
// An invalid schedule is reported as an error.
func NewCronService(
	cfg config.CronConfig,
	refreshTokenRepo repositories.RefreshTokenRepository,
	stats *StatisticsService,
	log *zap.Logger,
) (*CronService, error) {
	s := &CronService{
		cron:             cron.New(),
		refreshTokenRepo: refreshTokenRepo,
		stats:            stats,
		log:              log,
	}

	jobs := []struct {
		name string
		spec string
		run  func()
	}{
		{"token-cleanup", cfg.TokenCleanup, s.PurgeExpiredTokens},
		{"stats-report", cfg.StatsReport, s.ReportStatistics},
	}
	for _, j := range jobs {
		if j.spec == "" {
			continue
		}
		if _, err := s.cron.AddFunc(j.spec, j.run); err != nil {
			return nil, err
		}
		log.Info("⏰ Cron job scheduled", zap.String("job", j.name), zap.String("spec", j.spec))
	}

	return s, nil
}

// Start runs the scheduler in its own goroutine
func (s *CronService) Start() {
	s.cron.Start()
	s.log.Info("🚀 CronService started")
}

// Stop waits for running jobs to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("🛑 CronService stopped")
}

// PurgeExpiredTokens deletes refresh tokens past their expiry
func (s *CronService) PurgeExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.refreshTokenRepo.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.log.Error("❌ Token cleanup failed", zap.Error(err))
		return
	}
	s.log.Info("🧹 Expired refresh tokens purged", zap.Int64("deleted", n))
}

// ReportStatistics logs the current dashboard figures
func (s *CronService) ReportStatistics() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	stats, err := s.stats.compute(ctx)
	if err != nil {
		s.log.Error("❌ Statistics report failed", zap.Error(err))
		return
	}
	s.log.Info("📊 Loan statistics",
		zap.Int64("total", stats.TotalLoans),
		zap.Int64("pending", stats.PendingLoans),
		zap.Int64("verified", stats.VerifiedLoans),
		zap.Int64("approved", stats.ApprovedLoans),
		zap.Int64("rejected", stats.RejectedLoans),
		zap.Float64("disbursed", stats.DisbursedAmount),
	)
}
