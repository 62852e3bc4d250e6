package repositories

import (
	"context"
	"time"

	"loantrack/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// LoanRepository defines loan repository interface.
// Every read returns a fresh copy; mutating it never touches stored state.
type LoanRepository interface {
	Create(ctx context.Context, loan *domain.Loan) error
	GetByID(ctx context.Context, id string) (*domain.Loan, error)
	ListByOwner(ctx context.Context, userID string) ([]*domain.Loan, error)
	ListByStatus(ctx context.Context, status domain.LoanStatus) ([]*domain.Loan, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Loan, int64, error)
	Update(ctx context.Context, loan *domain.Loan) error
	// Transition stores loan only if the stored status still equals from.
	// Otherwise it returns domain.ErrLoanNotFound or a *domain.TransitionError.
	Transition(ctx context.Context, loan *domain.Loan, from domain.LoanStatus) error
	// Count and SumAmount cover every loan when no status is given
	Count(ctx context.Context, statuses ...domain.LoanStatus) (int64, error)
	SumAmount(ctx context.Context, statuses ...domain.LoanStatus) (float64, error)
}

// LoanEventRepository defines loan history repository interface
type LoanEventRepository interface {
	Create(ctx context.Context, event *domain.LoanEvent) error
	ListByLoan(ctx context.Context, loanID string) ([]*domain.LoanEvent, error)
}
