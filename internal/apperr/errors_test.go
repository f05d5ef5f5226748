package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageErrorWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("list videos: %w", Storage("find", cause))

	assert.True(t, errors.Is(err, ErrStorage))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Nil(t, Storage("noop", nil))
}

func TestValidationErrorAs(t *testing.T) {
	err := fmt.Errorf("upload: %w", Invalid("title", "Title and category are required"))

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "title", ve.Field)
	assert.Equal(t, "title: Title and category are required", ve.Error())
}

func TestNotFound(t *testing.T) {
	err := NotFound("video")
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "Video not found", err.Error())
	assert.False(t, IsNotFound(New(ErrConflict, "taken")))
}

func TestPublicErrorKind(t *testing.T) {
	err := fmt.Errorf("login: %w", New(ErrUnauthorized, "Invalid credentials"))

	var pe *PublicError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, "Invalid credentials", pe.Msg)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{{Field: "a", Message: "bad"}, {Field: "b", Message: "worse"}}
	assert.Equal(t, "a: bad; b: worse", errs.Error())
}
