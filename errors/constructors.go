package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *TapError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *TapError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// InvalidInput creates an error for a rejected argument
func InvalidInput(field, reason string) *TapError {
	return New(ErrCodeInvalidInput, fmt.Sprintf("invalid %s: %s", field, reason)).
		WithDetail("field", field)
}

// InvalidStreamID creates an error for a stream id that is not a number
func InvalidStreamID(raw string, err error) *TapError {
	return Wrap(err, ErrCodeInvalidInput, fmt.Sprintf("invalid stream id %q", raw)).
		WithDetail("field", "stream").
		WithDetail("value", raw)
}

// Unreachable creates an error for a backend that could not be contacted
func Unreachable(address string, err error) *TapError {
	return Wrap(err, ErrCodeUnreachable, fmt.Sprintf("backend at %s is unreachable", address)).
		WithDetail("address", address)
}
