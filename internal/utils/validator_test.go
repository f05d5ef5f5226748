package utils

import (
	"testing"

	"github.com/fathima-sithara/clips-service/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(signup{Username: "ana", Email: "ana@example.com", Password: "secret1"}))

	err := ValidateStruct(signup{Username: "an", Email: "nope", Password: ""})
	var errs apperr.ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 3)
	assert.Equal(t, "username", errs[0].Field)
	assert.Equal(t, "username must be at least 3 characters long", errs[0].Message)
	assert.Equal(t, "email must be a valid email address", errs[1].Message)
	assert.Equal(t, "password is required", errs[2].Message)
}

func TestNewLogger(t *testing.T) {
	log := NewLogger("development", "warn")
	assert.False(t, log.Core().Enabled(-1))
	assert.NotNil(t, NewLogger("production", "bogus"))
}
