package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/fathima-sithara/clips-service/internal/apperr"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator. Field names in errors use the json tag.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ValidateStruct runs the validator. Failures come back as apperr.ValidationErrors.
func ValidateStruct(s any) error {
	if errs := FormatValidationErrors(Validator().Struct(s)); len(errs) > 0 {
		return apperr.ValidationErrors(errs)
	}
	return nil
}

// FormatValidationErrors converts validator.ValidationErrors into field errors.
func FormatValidationErrors(err error) []apperr.ValidationError {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []apperr.ValidationError{{Field: "body", Message: err.Error()}}
	}
	out := make([]apperr.ValidationError, len(ve))
	for i, fe := range ve {
		out[i] = apperr.ValidationError{Field: fe.Field()}
		switch fe.Tag() {
		case "required":
			out[i].Message = fmt.Sprintf("%s is required", fe.Field())
		case "email":
			out[i].Message = fmt.Sprintf("%s must be a valid email address", fe.Field())
		case "min":
			out[i].Message = fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
		case "max":
			out[i].Message = fmt.Sprintf("%s must be at most %s characters long", fe.Field(), fe.Param())
		default:
			out[i].Message = fmt.Sprintf("Validation failed on field '%s' for tag '%s'", fe.Field(), fe.Tag())
		}
	}
	return out
}
