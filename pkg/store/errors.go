package store

import (
	"github.com/grovetools/tapview/errors"
	"github.com/grovetools/tapview/pkg/api"
)

// handleError turns a failed backend call into the value reported to callers.
// HTTP transport failures become a BackendError whose message is the response
// body exactly as sent, or the transport message when the body is empty. Any other
// error is returned unchanged.
func (r *Root) handleError(action string, err error) error {
	r.logger.WithError(err).WithField("action", action).Debug("Backend call failed")
	return normalizeError(err)
}

func normalizeError(err error) error {
	httpErr, ok := api.AsHTTPError(err)
	if !ok {
		return err
	}
	if httpErr.Response != nil {
		if body := httpErr.Response.Body; len(body) > 0 {
			return &errors.BackendError{
				Message:    string(body),
				StatusCode: httpErr.Response.StatusCode,
				Body:       body,
				Cause:      err,
			}
		}
		return &errors.BackendError{
			Message:    httpErr.Message,
			StatusCode: httpErr.Response.StatusCode,
			Cause:      err,
		}
	}
	return &errors.BackendError{Message: httpErr.Message, Cause: err}
}
