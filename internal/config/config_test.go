package config

import (
	"context"
	"testing"

	"loantrack/internal/adapters/persistence/models"
	"loantrack/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 15, cfg.JWT.AccessTokenMins)
	assert.True(t, cfg.Seed.Enabled)
	assert.Equal(t, "admin@creditsea.com", cfg.Seed.AdminEmail)
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("APP_MODE", "staging")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("APP_MODE", "prod")
	_, err = Load()
	assert.ErrorContains(t, err, "PROD_JWT_SECRET")

	t.Setenv("PROD_JWT_SECRET", "s3cret")
	t.Setenv("PROD_DB_DRIVER", "postgres")
	_, err = Load()
	assert.ErrorContains(t, err, "DB_DRIVER")
}

func TestSeeder_Idempotent(t *testing.T) {
	password.Cost = bcrypt.MinCost

	db, err := Open(DatabaseConfig{Driver: "sqlite", DBName: ":memory:"}, nil)
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	seeder := NewSeeder(db, SeedConfig{
		Enabled:          true,
		AdminEmail:       "Admin@Example.com",
		AdminPassword:    "admin123",
		VerifierEmail:    "verifier@example.com",
		VerifierPassword: "verifier123",
	}, zap.NewNop())

	require.NoError(t, seeder.Run(context.Background()))
	require.NoError(t, seeder.Run(context.Background()))

	var users []models.User
	require.NoError(t, db.Order("role").Find(&users).Error)
	require.Len(t, users, 2)
	assert.Equal(t, "admin", users[0].Role)
	assert.Equal(t, "admin@example.com", users[0].Email)
	assert.True(t, password.Verify("admin123", users[0].Password))
	assert.Equal(t, "verifier", users[1].Role)
}
