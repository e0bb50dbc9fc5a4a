package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/imgshare/gallery-client/internal/errors"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// formValidator returns the shared validator. Field names in messages use the
// json tag so they match what the user typed into.
func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return strings.ToLower(fld.Name)
			}
			return name
		})
	})
	return validate
}

// validateForm checks v and converts failures into a validation AppError
// with one message per field.
func validateForm(v any) error {
	err := formValidator().Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "validate input")
	}
	fields := make([]apperrors.FieldError, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, apperrors.FieldError{
			Field:   fe.Field(),
			Message: formatFieldError(fe),
		})
	}
	return apperrors.Validation(fields...)
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "numeric":
		return fmt.Sprintf("%s must contain only digits", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}
