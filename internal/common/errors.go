// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Error taxonomy of the dashboard.
var (
	// ErrPrecondition indicates a dependency between operations is not satisfied.
	ErrPrecondition = errors.New("precondition failed")
	// ErrValidation indicates out-of-range user input.
	ErrValidation = errors.New("validation failed")
	// ErrNetwork indicates the backend could not be reached.
	ErrNetwork = errors.New("network error")
	// ErrServer indicates the backend answered with a non-success response.
	ErrServer = errors.New("server error")
	// ErrInvalidTransition indicates a re-entrant call on an already pending operation.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrMalformedResponse indicates a response that could not be decoded.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrUnexpectedResult indicates a result that does not belong to the operation.
	ErrUnexpectedResult = errors.New("unexpected result type")

	// ErrMissingConfig indicates a required configuration value is absent.
	ErrMissingConfig = errors.New("missing configuration")
	// ErrInvalidConfig indicates a configuration value is out of range.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// UserMessage returns the user-facing message of err, or fallback if err
// carries none.
func UserMessage(err error, fallback string) string {
	var userErr *UserError
	if errors.As(err, &userErr) && userErr.UserMessage != "" {
		return userErr.UserMessage
	}
	return fallback
}

// NetworkError is a transport failure talking to the backend.
type NetworkError struct {
	Err error
	Op  string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes both the cause and ErrNetwork.
func (e *NetworkError) Unwrap() []error {
	return []error{ErrNetwork, e.Err}
}

// ServerError is a non-success HTTP response from the backend.
type ServerError struct {
	Op         string
	Body       string
	StatusCode int
}

func (e *ServerError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: backend returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: backend returned status %d: %s", e.Op, e.StatusCode, e.Body)
}

func (e *ServerError) Unwrap() error {
	return ErrServer
}

// Category names the taxonomy class of err for logs and metrics.
func Category(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrPrecondition):
		return "precondition"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrServer), errors.Is(err, ErrMalformedResponse):
		return "server"
	default:
		return "internal"
	}
}
