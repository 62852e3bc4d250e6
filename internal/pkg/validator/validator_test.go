package validator

import (
	"testing"

	"loantrack/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	FullName string `json:"full_name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(signup{FullName: "Ada", Email: "ada@example.com", Password: "secret1"}))

	err := Struct(signup{FullName: "A", Email: "nope", Password: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []domain.FieldError{
		{Field: "full_name", Message: "full name must be at least 2 characters long"},
		{Field: "email", Message: "email must be a valid email address"},
		{Field: "password", Message: "password is required"},
	}, verr.Fields)
}
