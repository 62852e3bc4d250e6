package repositories

import (
	"context"
	"errors"
	"fmt"

	"loantrack/internal/adapters/persistence/models"
	"loantrack/internal/core/domain"

	"gorm.io/gorm"
)

// loanRepository implements LoanRepository interface
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Create creates a new loan and fills in the generated ID
func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	m := models.LoanFromDomain(loan)
	if err := r.db.WithContext(ctx).Omit("Owner").Create(m).Error; err != nil {
		return fmt.Errorf("create loan: %w", err)
	}
	loan.ID = m.ID
	loan.CreatedAt = m.CreatedAt
	loan.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a loan by ID with its applicant
func (r *loanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("id = ?", id).
		First(&loan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	return loan.ToDomain(), nil
}

// ListByOwner lists a user's loans, newest first
func (r *loanRepository) ListByOwner(ctx context.Context, userID string) ([]*domain.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&loans).Error
	if err != nil {
		return nil, err
	}
	return toDomainLoans(loans), nil
}

// ListByStatus lists loans in one status, oldest first so queues drain in order
func (r *loanRepository) ListByStatus(ctx context.Context, status domain.LoanStatus) ([]*domain.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("status = ?", string(status)).
		Order("created_at ASC").
		Find(&loans).Error
	if err != nil {
		return nil, err
	}
	return toDomainLoans(loans), nil
}

// List lists all loans with pagination
func (r *loanRepository) List(ctx context.Context, offset, limit int) ([]*domain.Loan, int64, error) {
	var loans []*models.Loan
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Loan{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("Owner").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&loans).Error
	if err != nil {
		return nil, 0, err
	}

	return toDomainLoans(loans), total, nil
}

// Update saves every field of the loan
func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	res := r.db.WithContext(ctx).Omit("Owner").Save(models.LoanFromDomain(loan))
	return res.Error
}

// Transition writes the status fields of loan with a conditional update on
// the previous status, so two racing actors can never both succeed.
func (r *loanRepository) Transition(ctx context.Context, loan *domain.Loan, from domain.LoanStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("id = ? AND status = ?", loan.ID, string(from)).
		Updates(map[string]interface{}{
			"status":           string(loan.Status),
			"verified_by":      loan.VerifiedBy,
			"verified_at":      loan.VerifiedAt,
			"approved_by":      loan.ApprovedBy,
			"approved_at":      loan.ApprovedAt,
			"rejected_by":      loan.RejectedBy,
			"rejected_at":      loan.RejectedAt,
			"rejection_reason": loan.RejectionReason,
			"updated_at":       loan.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("transition loan %s: %w", loan.ID, res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	current, err := r.GetByID(ctx, loan.ID)
	if err != nil {
		return err
	}
	return &domain.TransitionError{
		LoanID:   loan.ID,
		Target:   loan.Status,
		Expected: []domain.LoanStatus{from},
		Actual:   current.Status,
	}
}

// Count counts loans in any of statuses
func (r *loanRepository) Count(ctx context.Context, statuses ...domain.LoanStatus) (int64, error) {
	var count int64
	err := r.byStatus(ctx, statuses).Count(&count).Error
	return count, err
}

// SumAmount sums the amount of loans in any of statuses; 0 when none match
func (r *loanRepository) SumAmount(ctx context.Context, statuses ...domain.LoanStatus) (float64, error) {
	var total float64
	err := r.byStatus(ctx, statuses).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *loanRepository) byStatus(ctx context.Context, statuses []domain.LoanStatus) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Loan{})
	if len(statuses) == 0 {
		return q
	}
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}
	return q.Where("status IN ?", values)
}

func toDomainLoans(loans []*models.Loan) []*domain.Loan {
	out := make([]*domain.Loan, len(loans))
	for i, l := range loans {
		out[i] = l.ToDomain()
	}
	return out
}

// loanEventRepository implements LoanEventRepository interface
type loanEventRepository struct {
	db *gorm.DB
}

// NewLoanEventRepository creates a new loan event repository
func NewLoanEventRepository(db *gorm.DB) LoanEventRepository {
	return &loanEventRepository{db: db}
}

// Create creates a new history entry
func (r *loanEventRepository) Create(ctx context.Context, event *domain.LoanEvent) error {
	m := models.LoanEventFromDomain(event)
	if err := r.db.WithContext(ctx).Omit("Loan").Create(m).Error; err != nil {
		return err
	}
	event.ID = m.ID
	event.CreatedAt = m.CreatedAt
	return nil
}

// ListByLoan gets a loan's history in the order it happened
func (r *loanEventRepository) ListByLoan(ctx context.Context, loanID string) ([]*domain.LoanEvent, error) {
	var events []*models.LoanEvent
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("created_at ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	out := make([]*domain.LoanEvent, len(events))
	for i, e := range events {
		out[i] = e.ToDomain()
	}
	return out, nil
}
