package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"loantrack/internal/adapters/persistence/models"
	"loantrack/internal/core/domain"
	"loantrack/internal/pkg/password"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg SeedConfig
	log *zap.Logger
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg SeedConfig, log *zap.Logger) *Seeder {
	return &Seeder{db: db, cfg: cfg, log: log}
}

// Run creates the default admin and verifier accounts when they are missing.
// Existing accounts are left untouched.
func (s *Seeder) Run(ctx context.Context) error {
	if !s.cfg.Enabled {
		return nil
	}
	s.log.Info("🌱 Running database seeders...")

	defaults := []struct {
		name     string
		email    string
		password string
		role     domain.Role
	}{
		{"Default Admin", s.cfg.AdminEmail, s.cfg.AdminPassword, domain.RoleAdmin},
		{"Default Verifier", s.cfg.VerifierEmail, s.cfg.VerifierPassword, domain.RoleVerifier},
	}

	for _, d := range defaults {
		created, err := s.seedUser(ctx, d.name, d.email, d.password, d.role)
		if err != nil {
			return fmt.Errorf("seed %s: %w", d.role, err)
		}
		if created {
			s.log.Info("✅ Default user created", zap.String("email", d.email), zap.String("role", string(d.role)))
		}
	}

	s.log.Info("✅ Database seeding completed")
	return nil
}

func (s *Seeder) seedUser(ctx context.Context, name, email, plain string, role domain.Role) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	hashed, err := password.Hash(plain)
	if err != nil {
		return false, err
	}

	user := &models.User{
		FullName: name,
		Email:    email,
		Password: hashed,
		Role:     string(role),
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return false, err
	}
	return true, nil
}
