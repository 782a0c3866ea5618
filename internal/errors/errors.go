package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError is an error the API can render: a stable machine code,
// a client-facing message and the HTTP status it maps to.
type DomainError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError carrying the same code, so wrapped copies
// still compare equal to the sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

func define(status int, code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Status: status}
}

// WrapError returns a copy of domainErr with err as its cause
func WrapError(domainErr *DomainError, err error) *DomainError {
	return WithMessage(domainErr, domainErr.Message, err)
}

// WithMessage copies domainErr with a more specific message, keeping its code
func WithMessage(domainErr *DomainError, message string, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: message,
		Status:  domainErr.Status,
		Err:     err,
	}
}

var (
	// Pagination
	ErrAmbiguousCursor = define(http.StatusBadRequest, "AMBIGUOUS_CURSOR", "'before' and 'after' cannot both be set")
	ErrInvalidLimit    = define(http.StatusBadRequest, "INVALID_LIMIT", "limit is out of range")
	ErrInvalidFilter   = define(http.StatusBadRequest, "INVALID_FILTER", "invalid filter")
	ErrInvalidInput    = define(http.StatusBadRequest, "INVALID_INPUT", "invalid input")

	// Resources
	ErrRecordNotFound = define(http.StatusNotFound, "RECORD_NOT_FOUND", "record not found")
	ErrPlayerNotFound = define(http.StatusNotFound, "PLAYER_NOT_FOUND", "player not found")
	ErrMemberNotFound = define(http.StatusNotFound, "MEMBER_NOT_FOUND", "member not found")

	// Authentication
	ErrInvalidCredentials = define(http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials")
	ErrUnauthorized       = define(http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	ErrInvalidToken       = define(http.StatusUnauthorized, "INVALID_TOKEN", "invalid or expired token")
	ErrTokenExpired       = define(http.StatusUnauthorized, "TOKEN_EXPIRED", "token has expired")
	ErrForbidden          = define(http.StatusForbidden, "FORBIDDEN", "insufficient permissions")

	ErrRateLimited = define(http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")

	// System
	ErrDatabase           = define(http.StatusInternalServerError, "DATABASE_ERROR", "database error")
	ErrInternal           = define(http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	ErrServiceUnavailable = define(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "service unavailable")
)

func asDomain(err error) (*DomainError, bool) {
	var domainErr *DomainError
	ok := errors.As(err, &domainErr)
	return domainErr, ok
}

// ToHTTPStatus maps err to a response status. Errors without a domain
// code are 500s. Intended for the handler layer only.
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if de, ok := asDomain(err); ok && de.Status != 0 {
		return de.Status
	}
	return http.StatusInternalServerError
}

// GetErrorMessage returns the client-facing message of err
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if de, ok := asDomain(err); ok {
		return de.Message
	}
	return err.Error()
}

// GetErrorCode returns the domain code, or INTERNAL_ERROR for foreign errors
func GetErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if de, ok := asDomain(err); ok {
		return de.Code
	}
	return ErrInternal.Code
}
