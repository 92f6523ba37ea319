package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Backend errors
	ErrCodeBackend     ErrorCode = "BACKEND_ERROR"
	ErrCodeUnreachable ErrorCode = "BACKEND_UNREACHABLE"

	// Input errors
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// TapError represents a structured error with context
type TapError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *TapError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *TapError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *TapError) WithDetail(key string, value interface{}) *TapError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *TapError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// BackendError is the user-facing value of a failed backend call.
// Its Error text is either the response body sent by the backend or the
// transport's own message, unprefixed.
type BackendError struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
	// Body is the raw response body, kept for callers that expect structured errors.
	Body  []byte `json:"-"`
	Cause error  `json:"-"`
}

// Error returns the message verbatim.
func (e *BackendError) Error() string {
	return e.Message
}

// Unwrap implements the errors.Unwrap interface
func (e *BackendError) Unwrap() error {
	return e.Cause
}

// JSON decodes the response body into v. It fails when the backend did not
// send a JSON body.
func (e *BackendError) JSON(v interface{}) error {
	if len(e.Body) == 0 {
		return fmt.Errorf("backend error has no body")
	}
	return json.Unmarshal(e.Body, v)
}

// New creates a new TapError
func New(code ErrorCode, message string) *TapError {
	return &TapError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a TapError
func Wrap(err error, code ErrorCode, message string) *TapError {
	return &TapError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific TapError code
func Is(err error, code ErrorCode) bool {
	return err != nil && GetCode(err) == code
}

// GetCode extracts the error code from an error.
// A BackendError anywhere in the chain reports ErrCodeBackend.
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	switch e := err.(type) {
	case *TapError:
		return e.Code
	case *BackendError:
		return ErrCodeBackend
	}

	// Try to unwrap
	if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
		return GetCode(unwrapper.Unwrap())
	}
	return ""
}
