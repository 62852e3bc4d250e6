package services

import (
	"context"
	"errors"
	"testing"

	"loantrack/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatisticsService_Get(t *testing.T) {
	repo := newFakeLoanRepo()
	statuses := []domain.LoanStatus{
		domain.StatusPending, domain.StatusPending, domain.StatusPending,
		domain.StatusVerified, domain.StatusVerified,
		domain.StatusApproved,
	}
	for i, s := range statuses {
		repo.put(string(rune('a'+i)), "user-a", float64((i+1)*1000), s)
	}

	stats, err := NewStatisticsService(repo).Get(context.Background(), applicant)
	require.NoError(t, err)

	assert.Equal(t, &domain.Statistics{
		TotalLoans:      6,
		PendingLoans:    3,
		VerifiedLoans:   2,
		ApprovedLoans:   1,
		TotalAmount:     21000,
		DisbursedAmount: 6000,
		ReceivedAmount:  6000,
	}, stats)
}

func TestStatisticsService_Empty(t *testing.T) {
	stats, err := NewStatisticsService(newFakeLoanRepo()).Get(context.Background(), verifier)
	require.NoError(t, err)
	assert.Equal(t, &domain.Statistics{}, stats)
}

func TestStatisticsService_Errors(t *testing.T) {
	repo := newFakeLoanRepo()
	svc := NewStatisticsService(repo)

	_, err := svc.Get(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	boom := errors.New("connection reset")
	repo.failCount = boom
	_, err = svc.Get(context.Background(), admin)
	assert.ErrorIs(t, err, boom)
}
