// Package validation guards helper entry points against missing required
// values and validates request DTOs.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	dErrors "cm-gateway/pkg/domain-errors"
)

var defaultValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Param fails when a required parameter is missing or blank. Every helper
// operation uses it so callers always get the same "missing X" shape, with the
// failing operation named for log correlation.
func Param(op, name, value string) error {
	if strings.TrimSpace(value) == "" {
		return dErrors.New(dErrors.CodeInvalidArgument, fmt.Sprintf("Failed at %s: missing %s", op, name))
	}
	return nil
}

// Present is Param for non-string values: nil, or an empty map, counts as missing.
func Present(op, name string, value map[string]any) error {
	if len(value) == 0 {
		return dErrors.New(dErrors.CodeInvalidArgument, fmt.Sprintf("Failed at %s: missing %s", op, name))
	}
	return nil
}

// Struct validates a request DTO using the default validator and returns a
// domain error carrying the first failure in a human-readable message.
func Struct(req any) error {
	if err := defaultValidator.Struct(req); err != nil {
		return dErrors.New(dErrors.CodeInvalidArgument, errorMessage(err))
	}
	return nil
}

func errorMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "invalid request body"
	}

	fe := validationErrs[0]
	field := strings.ToLower(fe.Field())

	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("missing %s field", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "notblank":
		return fmt.Sprintf("%s must not be blank", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
