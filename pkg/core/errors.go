package core

import (
	"errors"
	"fmt"
)

// ConfigurationError reports invalid caller-supplied parameters: rate ordering,
// negative caps, or overrides that invert a nutrient's bounds. It is raised
// before any solve is attempted and is never clamped away.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Err)
	}
	return "configuration error: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// SchemaError reports tabular input whose nutrient columns do not line up
// between the food catalog and the requirement table, or malformed rows.
type SchemaError struct {
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("schema error: %s: %v", e.Reason, e.Err)
	}
	return "schema error: " + e.Reason
}

func (e *SchemaError) Unwrap() error { return e.Err }

// NewConfigurationError formats a ConfigurationError.
func NewConfigurationError(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// WrapConfigurationError wraps err as a ConfigurationError with a reason.
func WrapConfigurationError(err error, reason string) error {
	if err == nil {
		return nil
	}
	return &ConfigurationError{Reason: reason, Err: err}
}

// NewSchemaError formats a SchemaError.
func NewSchemaError(format string, args ...any) error {
	return &SchemaError{Reason: fmt.Sprintf(format, args...)}
}

// WrapSchemaError wraps err as a SchemaError with a reason.
func WrapSchemaError(err error, reason string) error {
	if err == nil {
		return nil
	}
	return &SchemaError{Reason: reason, Err: err}
}

// IsConfigurationError reports whether err carries a ConfigurationError.
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsSchemaError reports whether err carries a SchemaError.
func IsSchemaError(err error) bool {
	var target *SchemaError
	return errors.As(err, &target)
}
