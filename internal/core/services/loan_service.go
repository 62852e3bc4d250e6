package services

import (
	"context"
	"time"

	"loantrack/internal/adapters/persistence/repositories"
	"loantrack/internal/core/domain"
	"loantrack/internal/pkg/metrics"
	"loantrack/internal/pkg/pagination"

	"go.uber.org/zap"
)

// LoanService handles loan application business logic. Every operation
// takes the caller's identity and checks it against the access policy
// before touching storage.
type LoanService struct {
	loanRepo  repositories.LoanRepository
	eventRepo repositories.LoanEventRepository
	notifier  Notifier
	log       *zap.Logger
	now       func() time.Time
}

// NewLoanService creates a new loan service. notifier may be nil.
func NewLoanService(
	loanRepo repositories.LoanRepository,
	eventRepo repositories.LoanEventRepository,
	notifier Notifier,
	log *zap.Logger,
) *LoanService {
	return &LoanService{
		loanRepo:  loanRepo,
		eventRepo: eventRepo,
		notifier:  notifier,
		log:       log,
		now:       time.Now,
	}
}

// Create submits a new loan application owned by the caller
func (s *LoanService) Create(ctx context.Context, id *domain.Identity, input domain.CreateLoanInput, ipAddress string) (*domain.Loan, error) {
	if err := domain.Authorize(id, domain.ActionCreateLoan, nil).Err(); err != nil {
		return nil, err
	}

	loan, err := domain.NewLoan(input, id.UserID, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}

	s.record(ctx, loan, domain.EventCreate, "", id.UserID, ipAddress)
	metrics.LoansCreated.Inc()
	if s.notifier != nil {
		s.notifier.LoanSubmitted(loan)
	}

	s.log.Info("✅ Loan created",
		zap.String("loan_id", loan.ID),
		zap.String("user_id", id.UserID),
		zap.Float64("amount", loan.Amount),
	)
	return loan, nil
}

// ListOwn lists the caller's loans, newest first
func (s *LoanService) ListOwn(ctx context.Context, id *domain.Identity) ([]*domain.Loan, error) {
	if err := domain.Authorize(id, domain.ActionListOwnLoans, nil).Err(); err != nil {
		return nil, err
	}
	return s.loanRepo.ListByOwner(ctx, id.UserID)
}

// ListAll lists every loan with its applicant, one page at a time
func (s *LoanService) ListAll(ctx context.Context, id *domain.Identity, params pagination.Params) ([]*domain.Loan, int64, error) {
	if err := domain.Authorize(id, domain.ActionListAllLoans, nil).Err(); err != nil {
		return nil, 0, err
	}
	return s.loanRepo.List(ctx, params.Offset(), params.Limit)
}

// ListPending is the verifier's work queue
func (s *LoanService) ListPending(ctx context.Context, id *domain.Identity) ([]*domain.Loan, error) {
	if err := domain.Authorize(id, domain.ActionListPending, nil).Err(); err != nil {
		return nil, err
	}
	return s.loanRepo.ListByStatus(ctx, domain.StatusPending)
}

// ListVerified is the admin's work queue
func (s *LoanService) ListVerified(ctx context.Context, id *domain.Identity) ([]*domain.Loan, error) {
	if err := domain.Authorize(id, domain.ActionListVerified, nil).Err(); err != nil {
		return nil, err
	}
	return s.loanRepo.ListByStatus(ctx, domain.StatusVerified)
}

// Get returns one loan; applicants only see their own
func (s *LoanService) Get(ctx context.Context, id *domain.Identity, loanID string) (*domain.Loan, error) {
	return s.load(ctx, id, domain.ActionViewLoan, loanID)
}

// History returns the lifecycle events of a loan the caller may view
func (s *LoanService) History(ctx context.Context, id *domain.Identity, loanID string) ([]*domain.LoanEvent, error) {
	if _, err := s.load(ctx, id, domain.ActionViewLoan, loanID); err != nil {
		return nil, err
	}
	return s.eventRepo.ListByLoan(ctx, loanID)
}

// Verify moves a pending loan to verified
func (s *LoanService) Verify(ctx context.Context, id *domain.Identity, loanID, ipAddress string) (*domain.Loan, error) {
	return s.transition(ctx, id, domain.ActionVerifyLoan, loanID, ipAddress, func(l *domain.Loan, now time.Time) error {
		return l.Verify(id.UserID, now)
	})
}

// Approve moves a verified loan to approved
func (s *LoanService) Approve(ctx context.Context, id *domain.Identity, loanID, ipAddress string) (*domain.Loan, error) {
	return s.transition(ctx, id, domain.ActionApproveLoan, loanID, ipAddress, func(l *domain.Loan, now time.Time) error {
		return l.Approve(id.UserID, now)
	})
}

// Reject moves a pending (verifier or admin) or verified (admin) loan to rejected
func (s *LoanService) Reject(ctx context.Context, id *domain.Identity, loanID, reason, ipAddress string) (*domain.Loan, error) {
	return s.transition(ctx, id, domain.ActionRejectLoan, loanID, ipAddress, func(l *domain.Loan, now time.Time) error {
		return l.Reject(id.UserID, reason, now)
	})
}

// load checks the role, fetches the loan and checks the policy again
// against it, so a caller without the role learns nothing about existence.
func (s *LoanService) load(ctx context.Context, id *domain.Identity, action domain.Action, loanID string) (*domain.Loan, error) {
	if err := domain.Authorize(id, action, nil).Err(); err != nil {
		return nil, err
	}

	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if err := domain.Authorize(id, action, loan).Err(); err != nil {
		return nil, err
	}
	return loan, nil
}

func (s *LoanService) transition(
	ctx context.Context,
	id *domain.Identity,
	action domain.Action,
	loanID, ipAddress string,
	apply func(*domain.Loan, time.Time) error,
) (*domain.Loan, error) {
	loan, err := s.load(ctx, id, action, loanID)
	if err != nil {
		return nil, err
	}

	from := loan.Status
	if err := apply(loan, s.now()); err != nil {
		return nil, err
	}

	if err := s.loanRepo.Transition(ctx, loan, from); err != nil {
		return nil, err
	}

	s.record(ctx, loan, eventFor(loan.Status), from, id.UserID, ipAddress)
	metrics.LoanTransitions.WithLabelValues(string(loan.Status)).Inc()
	if s.notifier != nil {
		s.notifier.LoanStatusChanged(loan, from)
	}

	s.log.Info("🔄 Loan status changed",
		zap.String("loan_id", loan.ID),
		zap.String("from", string(from)),
		zap.String("to", string(loan.Status)),
		zap.String("by", id.UserID),
	)
	return loan, nil
}

// record appends a history entry. The loan change is already stored, so a
// failure here is logged and not returned.
func (s *LoanService) record(ctx context.Context, loan *domain.Loan, typ domain.LoanEventType, from domain.LoanStatus, actorID, ipAddress string) {
	event := &domain.LoanEvent{
		LoanID:      loan.ID,
		Type:        typ,
		FromStatus:  from,
		ToStatus:    loan.Status,
		PerformedBy: actorID,
		IPAddress:   ipAddress,
		CreatedAt:   loan.UpdatedAt,
	}
	if typ == domain.EventReject {
		event.Remark = loan.RejectionReason
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		s.log.Error("❌ Failed to record loan event",
			zap.String("loan_id", loan.ID),
			zap.String("type", string(typ)),
			zap.Error(err),
		)
	}
}

func eventFor(status domain.LoanStatus) domain.LoanEventType {
	switch status {
	case domain.StatusVerified:
		return domain.EventVerify
	case domain.StatusApproved:
		return domain.EventApprove
	default:
		return domain.EventReject
	}
}
