package api

import (
	"errors"
	"fmt"
)

// Response is the part of a failed HTTP exchange kept for error reporting.
type Response struct {
	StatusCode int
	Body       []byte
}

// HTTPError is returned for every failure of the HTTP transport: the request
// could not be sent, or the backend answered with a non-2xx status.
// Response is nil when no answer was received.
type HTTPError struct {
	Method   string
	Path     string
	Message  string
	Response *Response
	Cause    error
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return e.Message
}

// Unwrap implements the errors.Unwrap interface
func (e *HTTPError) Unwrap() error {
	return e.Cause
}

// AsHTTPError reports whether err is, or wraps, an HTTPError.
func AsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}

func statusError(method, path string, status int, body []byte) *HTTPError {
	return &HTTPError{
		Method:   method,
		Path:     path,
		Message:  fmt.Sprintf("request failed with status code %d", status),
		Response: &Response{StatusCode: status, Body: body},
	}
}

func transportError(method, path string, err error) *HTTPError {
	return &HTTPError{
		Method:  method,
		Path:    path,
		Message: fmt.Sprintf("network error: %v", err),
		Cause:   err,
	}
}
