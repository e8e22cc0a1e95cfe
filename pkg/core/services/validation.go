package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jakechorley/event-planner/pkg/core/shiftgrid"
)

// ValidationError reports input rejected before it reaches a store
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err is or wraps a ValidationError
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

func invalid(field string, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return shiftgrid.IsValidTimeOfDay(fl.Field().String())
	})
}

// validateInput runs the struct's validate tags and reports the first failing field
func validateInput(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: err.Error(), Err: err}
	}

	first := fieldErrs[0]
	return &ValidationError{
		Field:   lowerFirst(first.Field()),
		Message: describeTag(first),
		Err:     err,
	}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be an email address"
	case "url":
		return "must be a URL"
	case "hhmm":
		return "must be a time of day formatted HH:MM"
	default:
		return fmt.Sprintf("failed the %q rule", fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
