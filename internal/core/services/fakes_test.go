package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"loantrack/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type fakeLoanRepo struct {
	mu    sync.Mutex
	loans map[string]*domain.Loan
	order []string
	// failCount fails the rejected-loan count
	failCount error
}

func newFakeLoanRepo() *fakeLoanRepo {
	return &fakeLoanRepo{loans: map[string]*domain.Loan{}}
}

func (r *fakeLoanRepo) Create(_ context.Context, loan *domain.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if loan.ID == "" {
		loan.ID = uuid.NewString()
	}
	r.loans[loan.ID] = loan.Clone()
	r.order = append(r.order, loan.ID)
	return nil
}

func (r *fakeLoanRepo) GetByID(_ context.Context, id string) (*domain.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.loans[id]
	if !ok {
		return nil, domain.ErrLoanNotFound
	}
	return l.Clone(), nil
}

func (r *fakeLoanRepo) filter(keep func(*domain.Loan) bool) []*domain.Loan {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Loan{}
	for _, id := range r.order {
		if l := r.loans[id]; keep(l) {
			out = append(out, l.Clone())
		}
	}
	return out
}

func (r *fakeLoanRepo) ListByOwner(_ context.Context, userID string) ([]*domain.Loan, error) {
	return r.filter(func(l *domain.Loan) bool { return l.UserID == userID }), nil
}

func (r *fakeLoanRepo) ListByStatus(_ context.Context, status domain.LoanStatus) ([]*domain.Loan, error) {
	return r.filter(func(l *domain.Loan) bool { return l.Status == status }), nil
}

func (r *fakeLoanRepo) List(_ context.Context, offset, limit int) ([]*domain.Loan, int64, error) {
	all := r.filter(func(*domain.Loan) bool { return true })
	total := int64(len(all))
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeLoanRepo) Update(_ context.Context, loan *domain.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loans[loan.ID] = loan.Clone()
	return nil
}

func (r *fakeLoanRepo) Transition(_ context.Context, loan *domain.Loan, from domain.LoanStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.loans[loan.ID]
	if !ok {
		return domain.ErrLoanNotFound
	}
	if cur.Status != from {
		return &domain.TransitionError{LoanID: loan.ID, Target: loan.Status, Expected: []domain.LoanStatus{from}, Actual: cur.Status}
	}
	r.loans[loan.ID] = loan.Clone()
	return nil
}

func matches(l *domain.Loan, statuses []domain.LoanStatus) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if l.Status == s {
			return true
		}
	}
	return false
}

func (r *fakeLoanRepo) Count(_ context.Context, statuses ...domain.LoanStatus) (int64, error) {
	if r.failCount != nil && len(statuses) == 1 && statuses[0] == domain.StatusRejected {
		return 0, r.failCount
	}
	return int64(len(r.filter(func(l *domain.Loan) bool { return matches(l, statuses) }))), nil
}

func (r *fakeLoanRepo) SumAmount(_ context.Context, statuses ...domain.LoanStatus) (float64, error) {
	var total float64
	for _, l := range r.filter(func(l *domain.Loan) bool { return matches(l, statuses) }) {
		total += l.Amount
	}
	return total, nil
}

// put stores loan directly in the given status
func (r *fakeLoanRepo) put(id, owner string, amount float64, status domain.LoanStatus) *domain.Loan {
	l := &domain.Loan{
		ID:                id,
		UserID:            owner,
		Amount:            amount,
		Purpose:           "working capital",
		EmploymentStatus:  domain.EmploymentEmployed,
		EmploymentAddress: "1 Main Street",
		Status:            status,
		CreatedAt:         time.Now(),
	}
	_ = r.Create(context.Background(), l)
	return l
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events []*domain.LoanEvent
	err    error
}

func (r *fakeEventRepo) Create(_ context.Context, e *domain.LoanEvent) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = uint(len(r.events) + 1)
	r.events = append(r.events, e)
	return nil
}

func (r *fakeEventRepo) ListByLoan(_ context.Context, loanID string) ([]*domain.LoanEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.LoanEvent
	for _, e := range r.events {
		if e.LoanID == loanID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeUserRepo) ListByRole(_ context.Context, role domain.Role) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.users {
		if u.Role == role {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens []*domain.RefreshToken
}

func (r *fakeTokenRepo) Create(_ context.Context, t *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = uint(len(r.tokens) + 1)
	cp := *t
	r.tokens = append(r.tokens, &cp)
	return nil
}

func (r *fakeTokenRepo) GetByTokenHash(_ context.Context, hash string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.TokenHash == hash && t.RevokedAt == nil {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrTokenRevoked
}

func (r *fakeTokenRepo) RevokeByTokenHash(_ context.Context, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, t := range r.tokens {
		if t.TokenHash == hash && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeTokenRepo) RevokeAllByUserID(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, t := range r.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeTokenRepo) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.tokens[:0]
	var n int64
	for _, t := range r.tokens {
		if t.ExpiresAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, t)
	}
	r.tokens = kept
	return n, nil
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) LoanSubmitted(loan *domain.Loan) {
	m.Called(loan)
}

func (m *mockNotifier) LoanStatusChanged(loan *domain.Loan, from domain.LoanStatus) {
	m.Called(loan, from)
}
