package common

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable indicates no usable price history or fundamentals
	// could be retrieved for a symbol.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrInsufficientHistory indicates the price history is shorter than the
	// longest required indicator lookback.
	ErrInsufficientHistory = errors.New("insufficient price history")

	// ErrBenchmarkDataInsufficient indicates the benchmark series does not
	// cover the relative strength period.
	ErrBenchmarkDataInsufficient = errors.New("benchmark data insufficient")
)

// ConfigurationError reports an invalid configuration value. It is fatal at
// startup; a scan never begins with an invalid configuration.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// NewConfigurationError creates a ConfigurationError for the given field.
func NewConfigurationError(field, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: reason}
}
