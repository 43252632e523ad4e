// Package config provides configuration management for the hive dashboard.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single validation error with a
// user-friendly message.
type ValidationError struct {
	Field   string      // Field path (e.g., "upstream.endpoint")
	Tag     string      // Validation tag that failed (e.g., "required", "url")
	Value   interface{} // Actual value that failed validation
	Message string      // User-friendly error message
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  - %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// validate is the package-level validator instance.
var validate = validator.New()

// Validate validates the configuration and returns user-friendly error
// messages.
func Validate(cfg *Config) error {
	var validationErrors ValidationErrors

	// Run struct validation
	if err := validate.Struct(cfg); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrors {
				validationErrors = append(validationErrors, &ValidationError{
					Field:   formatFieldName(fe.Namespace()),
					Tag:     fe.Tag(),
					Value:   fe.Value(),
					Message: translateError(fe),
				})
			}
		}
	}

	// Run custom business logic validations
	if errs := validateDurations(cfg); len(errs) > 0 {
		validationErrors = append(validationErrors, errs...)
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}

	return nil
}

// validateDurations checks the duration fields viper cannot express as
// struct tags.
func validateDurations(cfg *Config) ValidationErrors {
	var errors ValidationErrors

	durations := []struct {
		name  string
		value int64
	}{
		{"polling.interval", int64(cfg.Polling.Interval)},
		{"weight.robbery_window", int64(cfg.Weight.RobberyWindow)},
		{"weight.daily_window", int64(cfg.Weight.DailyWindow)},
	}
	for _, d := range durations {
		if d.value <= 0 {
			errors = append(errors, &ValidationError{
				Field:   d.name,
				Tag:     "positive_duration",
				Value:   d.value,
				Message: "duration must be positive",
			})
		}
	}

	if cfg.Weight.RobberyWindow > cfg.Weight.DailyWindow {
		errors = append(errors, &ValidationError{
			Field:   "weight.robbery_window",
			Tag:     "window_order",
			Value:   cfg.Weight.RobberyWindow.String(),
			Message: fmt.Sprintf("robbery window (%v) must not exceed the daily window (%v)", cfg.Weight.RobberyWindow, cfg.Weight.DailyWindow),
		})
	}

	return errors
}

// formatFieldName converts the validator field namespace to a
// user-friendly format.
// Example: "Config.Upstream.Endpoint" -> "upstream.endpoint"
func formatFieldName(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:] // Remove "Config"
	}

	for i, part := range parts {
		parts[i] = strings.ToLower(part)
	}

	return strings.Join(parts, ".")
}

// translateError converts a validator.FieldError to a user-friendly
// message.
func translateError(fe validator.FieldError) string {
	field := formatFieldName(fe.Namespace())

	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "url":
		return fmt.Sprintf("invalid URL format: %v", fe.Value())
	case "gte":
		return fmt.Sprintf("value must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("value must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("value must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("validation failed on '%s' tag for field '%s'", fe.Tag(), field)
	}
}
