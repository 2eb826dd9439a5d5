// Package apierr defines the closed error taxonomy for the registration
// workflow and the translation of any failure into a {status, body} pair.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports a rejected input field. Always status 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error for a field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// RegistrationClosedError reports a webinar that does not accept
// registrations (upstream approval_type says none is required). Status 400.
type RegistrationClosedError struct {
	WebinarID string
}

func (e *RegistrationClosedError) Error() string {
	return fmt.Sprintf("Webinar %s does not require registration", e.WebinarID)
}

// UpstreamError mirrors a failed upstream call. Status and Body come from
// the upstream response when one was received; a transport failure carries
// status 502 and the transport error text as body.
type UpstreamError struct {
	Status int
	Body   []byte
	Cause  error
}

func (e *UpstreamError) Error() string {
	if len(e.Body) > 0 {
		return fmt.Sprintf("upstream status %d: %s", e.Status, e.Body)
	}
	if e.Cause != nil {
		return fmt.Sprintf("upstream status %d: %s", e.Status, e.Cause)
	}
	return fmt.Sprintf("upstream status %d", e.Status)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// ConfigurationError reports missing or invalid credentials/settings.
// Fatal at startup; status 500 if it ever reaches a response.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// NewConfigurationError creates a configuration error.
func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// InternalError is the catch-all for unexpected failures. Status 500.
type InternalError struct {
	Cause error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %s", e.Cause)
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

// Translate normalizes any workflow error into an HTTP status and a
// response body. Upstream bodies pass through unmodified; everything else
// responds with the error's message.
func Translate(err error) (status int, body any) {
	var (
		vErr *ValidationError
		cErr *RegistrationClosedError
		uErr *UpstreamError
		gErr *ConfigurationError
		iErr *InternalError
	)
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, vErr.Message
	case errors.As(err, &cErr):
		return http.StatusBadRequest, cErr.Error()
	case errors.As(err, &uErr):
		if len(uErr.Body) > 0 {
			return uErr.Status, uErr.Body
		}
		return uErr.Status, uErr.Error()
	case errors.As(err, &gErr):
		return http.StatusInternalServerError, gErr.Message
	case errors.As(err, &iErr):
		return http.StatusInternalServerError, iErr.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
