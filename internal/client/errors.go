package client

import (
	"errors"
	"fmt"

	"ecopark/internal/apperror"
)

var (
	// ErrLoginRequired means there is no usable session. The stored session has
	// been cleared and the user must log in again.
	ErrLoginRequired = errors.New("login required")
	// ErrNotPermitted means the role gate denies the action for the current role.
	ErrNotPermitted = errors.New("action not permitted for this role")
	// ErrSubmissionInFlight rejects a second submission while one is pending.
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
)

// APIError is an error envelope returned by the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsValidation reports whether err is a server-side validation failure.
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == string(apperror.ErrCodeValidation)
}

// IsConflict reports whether err says the request was already decided.
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == string(apperror.ErrCodeConflict)
}

// FieldErrors returns per-field messages from a validation error, if any.
func FieldErrors(err error) map[string]string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Fields
	}
	return nil
}

func (e *APIError) forcesLogin() bool {
	return e.StatusCode == 401 &&
		(e.Code == string(apperror.ErrCodeSessionExpired) || e.Code == string(apperror.ErrCodeUnauthorized))
}
