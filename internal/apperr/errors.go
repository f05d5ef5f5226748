package apperr

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("already exists")
	ErrForbidden    = errors.New("forbidden")
	ErrStorage      = errors.New("storage failure")
)

// ValidationError reports a missing or malformed required field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// ValidationErrors collects every failed field of one request.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i := range e {
		parts[i] = e[i].Error()
	}
	return strings.Join(parts, "; ")
}

// PublicError carries a message that is safe to show to clients. Kind is one of
// the sentinels above and decides the status code.
type PublicError struct {
	Kind error
	Msg  string
}

func (e *PublicError) Error() string { return e.Msg }
func (e *PublicError) Unwrap() error { return e.Kind }

func New(kind error, msg string) error {
	return &PublicError{Kind: kind, Msg: msg}
}

// NotFound returns an error matching ErrNotFound that names the missing thing.
func NotFound(what string) error {
	r := []rune(what)
	if len(r) > 0 {
		r[0] = unicode.ToUpper(r[0])
	}
	return New(ErrNotFound, fmt.Sprintf("%s not found", string(r)))
}

// Storage wraps an underlying store failure. The cause stays reachable through
// errors.Unwrap for logging but the message shown to clients is generic.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
