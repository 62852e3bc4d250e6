package services

import (
	"context"
	"testing"
	"time"

	"loantrack/internal/config"
	"loantrack/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCronService_PurgeExpiredTokens(t *testing.T) {
	tokens := &fakeTokenRepo{}
	ctx := context.Background()
	require.NoError(t, tokens.Create(ctx, &domain.RefreshToken{UserID: "u", TokenHash: "old", ExpiresAt: time.Now().Add(-time.Hour)}))
	require.NoError(t, tokens.Create(ctx, &domain.RefreshToken{UserID: "u", TokenHash: "new", ExpiresAt: time.Now().Add(time.Hour)}))

	svc, err := NewCronService(config.CronConfig{}, tokens, NewStatisticsService(newFakeLoanRepo()), zap.NewNop())
	require.NoError(t, err)

	svc.PurgeExpiredTokens()
	require.Len(t, tokens.tokens, 1)
	assert.Equal(t, "new", tokens.tokens[0].TokenHash)

	// logs only; must not panic on an empty collection
	svc.ReportStatistics()
}

func TestCronService_Schedules(t *testing.T) {
	stats := NewStatisticsService(newFakeLoanRepo())

	svc, err := NewCronService(config.CronConfig{TokenCleanup: "0 3 * * *", StatsReport: "@hourly"}, &fakeTokenRepo{}, stats, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, svc.cron.Entries(), 2)

	svc.Start()
	svc.Stop()

	_, err = NewCronService(config.CronConfig{TokenCleanup: "every day"}, &fakeTokenRepo{}, stats, zap.NewNop())
	assert.Error(t, err)
}
