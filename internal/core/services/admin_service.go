package services

import (
	"context"
	"errors"
	"strings"

	"loantrack/internal/adapters/persistence/repositories"
	"loantrack/internal/core/domain"
	"loantrack/internal/pkg/validator"

	"go.uber.org/zap"
)

// AdminService manages administrator accounts
type AdminService struct {
	userRepo repositories.UserRepository
	log      *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(userRepo repositories.UserRepository, log *zap.Logger) *AdminService {
	return &AdminService{userRepo: userRepo, log: log}
}

// AddAdminInput represents add admin input
type AddAdminInput struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// ListAdmins lists every admin account
func (s *AdminService) ListAdmins(ctx context.Context, id *domain.Identity) ([]*domain.User, error) {
	if err := domain.Authorize(id, domain.ActionManageAdmins, nil).Err(); err != nil {
		return nil, err
	}
	return s.userRepo.ListByRole(ctx, domain.RoleAdmin)
}

// AddAdmin creates a new admin account
func (s *AdminService) AddAdmin(ctx context.Context, id *domain.Identity, input *AddAdminInput) (*domain.User, error) {
	if err := domain.Authorize(id, domain.ActionManageAdmins, nil).Err(); err != nil {
		return nil, err
	}

	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = NormalizeEmail(input.Email)
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	user, err := createUser(ctx, s.userRepo, input.FullName, input.Email, input.Password, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	s.log.Info("✅ Admin added", zap.String("admin_id", user.ID), zap.String("by", id.UserID))
	return user, nil
}

// DeleteAdmin removes an admin account. Only admin accounts can be removed
// here, and never the caller's own.
func (s *AdminService) DeleteAdmin(ctx context.Context, id *domain.Identity, adminID string) error {
	if err := domain.Authorize(id, domain.ActionManageAdmins, nil).Err(); err != nil {
		return err
	}
	if adminID == id.UserID {
		return domain.ErrCannotDeleteSelf
	}

	target, err := s.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	if target.Role != domain.RoleAdmin {
		return domain.ErrUserNotFound
	}

	if err := s.userRepo.Delete(ctx, adminID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	s.log.Info("🗑️ Admin deleted", zap.String("admin_id", adminID), zap.String("by", id.UserID))
	return nil
}
