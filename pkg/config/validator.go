package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Dicklesworthstone/responsive_scopes/pkg/partition"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "scopes.inertia_ms")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// maxInertiaMs is the largest accepted debounce delay.
const maxInertiaMs = 60_000

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError
	errors = append(errors, c.validateScopes()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateUI()...)
	return errors
}

func (c *Config) validateScopes() []ValidationError {
	var errors []ValidationError

	if c.Scopes.Separator == "" {
		errors = append(errors, ValidationError{
			Field:   "scopes.separator",
			Value:   c.Scopes.Separator,
			Message: "cannot be empty",
		})
	}

	if c.Scopes.InertiaMs < 0 || c.Scopes.InertiaMs > maxInertiaMs {
		errors = append(errors, ValidationError{
			Field:   "scopes.inertia_ms",
			Value:   c.Scopes.InertiaMs,
			Message: fmt.Sprintf("must be between 0 and %d", maxInertiaMs),
		})
	}

	if entries := c.Scopes.Entries(); entries != nil {
		if _, err := partition.New(entries); err != nil {
			errors = append(errors, ValidationError{
				Field:   "scopes.breakpoints",
				Value:   len(entries),
				Message: err.Error(),
			})
		}
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}

func (c *Config) validateUI() []ValidationError {
	var errors []ValidationError

	if c.UI.MaxLogLines <= 0 {
		errors = append(errors, ValidationError{
			Field:   "ui.max_log_lines",
			Value:   c.UI.MaxLogLines,
			Message: "must be positive",
		})
	}

	return errors
}
