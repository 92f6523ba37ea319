package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/grovetools/tapview/errors"
	"github.com/grovetools/tapview/logging"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler writing to stderr
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle prints a message tailored to the error's code and returns err.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	out := h.Out
	if out == nil {
		out = os.Stderr
	}
	p := logging.NewPrettyLogger().WithWriter(out)

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		p.Error(fmt.Sprintf("Configuration not found: %v", err))
		p.Hint("Create tapview.yml or pass --config.")

	case errors.ErrCodeConfigInvalid, errors.ErrCodeConfigValidation:
		p.Error(fmt.Sprintf("Invalid configuration: %v", err))

	case errors.ErrCodeUnreachable:
		p.Error(err.Error())
		p.Hint("Is the backend running? Check server.url in tapview.yml or pass --server.")

	case errors.ErrCodeBackend:
		// The backend's message is shown verbatim
		p.Error(err.Error())
		var backendErr *errors.BackendError
		if h.Verbose && stderrors.As(err, &backendErr) && backendErr.StatusCode != 0 {
			p.Field("HTTP status", backendErr.StatusCode)
		}

	case errors.ErrCodeInvalidInput:
		p.Error(err.Error())

	default:
		p.Error(fmt.Sprintf("Error: %v", err))
	}

	if h.Verbose {
		var tapErr *errors.TapError
		if stderrors.As(err, &tapErr) {
			fmt.Fprintf(out, "\nError details:\n%s\n", tapErr.ToJSON())
		}
	}
	return err
}
