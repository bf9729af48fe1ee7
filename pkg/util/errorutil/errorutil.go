package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// DomainError is the error shape rendered by the console's views.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewInternalError(err error) error {
	return internal(err)
}

func notFound(resource string, err error) *DomainError {
	de := NewDomainError("NOT_FOUND", resource+" not found", http.StatusNotFound, map[string]any{})
	de.Err = err
	return de
}

func internal(err error) *DomainError {
	de := NewDomainError("INTERNAL_ERROR", "internal server error", http.StatusInternalServerError, nil)
	de.Err = err
	return de
}

// upstreamError is satisfied by platform API failures that carry the
// upstream HTTP status and raw body.
type upstreamError interface {
	error
	Status() int
	RawBody() string
}

// upstream relays a platform API failure with its original status.
// Statuses outside 4xx/5xx become 502.
func upstream(status int, body string, err error) *DomainError {
	if status < 400 || status > 599 {
		status = http.StatusBadGateway
	}
	de := NewDomainError(
		"UPSTREAM_ERROR",
		fmt.Sprintf("platform API responded with status %d", status),
		status,
		map[string]any{"body": body},
	)
	de.Err = err
	return de
}

// ToDomainError classifies err for rendering. Unknown errors become 500.
func ToDomainError(err error) *DomainError {
	var (
		domainErr *DomainError
		apiErr    upstreamError
	)
	switch {
	case err == nil:
		return nil
	case errors.As(err, &domainErr):
		return domainErr
	case errors.As(err, &apiErr):
		return upstream(apiErr.Status(), apiErr.RawBody(), err)
	case errors.Is(err, pgx.ErrNoRows):
		return notFound("archived ticket", err)
	default:
		return internal(err)
	}
}
