// file: internal/api/errors.go
// version: 1.0.0
// guid: 3f7a1b2c-8d4e-4f5a-9b6c-7d8e9f0a1b2c

package api

import (
	"fmt"
	"net/http"
)

// Kind is the explicit discriminant for every failure the request pipeline
// can surface. Stages raise *Error values; the normalization middleware is
// the only place they are converted into a response.
type Kind string

const (
	KindValidation      Kind = "VALIDATION_ERROR"
	KindInvalidRequest  Kind = "INVALID_REQUEST"
	KindPayloadTooLarge Kind = "PAYLOAD_TOO_LARGE"
	KindRateLimited     Kind = "RATE_LIMIT_EXCEEDED"
	KindClientIdentity  Kind = "CLIENT_IDENTIFICATION_ERROR"
	KindNotFound        Kind = "NOT_FOUND"
	KindInternal        Kind = "INTERNAL_ERROR"
)

// Error is a declared pipeline failure. Immutable once constructed.
type Error struct {
	Code    Kind
	Message string
	Details any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Status maps each variant to its HTTP status code. The switch is
// exhaustive over the declared kinds; an unknown kind is treated as
// internal so a miswired stage can never smuggle out a 200.
func (e *Error) Status() int {
	switch e.Code {
	case KindValidation, KindInvalidRequest, KindClientIdentity:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindInternal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// NewValidationError reports one or more schema violations. The message
// carries every field problem so a caller sees them all in one round trip.
func NewValidationError(message string, details any) *Error {
	return &Error{Code: KindValidation, Message: message, Details: details}
}

// NewInvalidRequest reports a body that could not be parsed at all,
// as opposed to one that parsed but failed schema validation.
func NewInvalidRequest(message string) *Error {
	return &Error{Code: KindInvalidRequest, Message: message}
}

// NewPayloadTooLarge reports a body exceeding the declared size limit.
func NewPayloadTooLarge(limitBytes int64) *Error {
	return &Error{
		Code:    KindPayloadTooLarge,
		Message: fmt.Sprintf("request body exceeds limit of %d bytes", limitBytes),
	}
}

// NewRateLimited reports a quota breach with the seconds remaining until
// the client's window resets.
func NewRateLimited(retryAfterSeconds int) *Error {
	return &Error{
		Code:    KindRateLimited,
		Message: "rate limit exceeded, try again later",
		Details: map[string]int{"retryAfterSeconds": retryAfterSeconds},
	}
}

// NewClientIdentityError reports a request whose rate-limit identity
// could not be derived.
func NewClientIdentityError(message string) *Error {
	return &Error{Code: KindClientIdentity, Message: message}
}

// NewNotFound reports a missing resource.
func NewNotFound(resource, id string) *Error {
	message := resource + " not found"
	if id != "" {
		message = message + ": " + id
	}
	return &Error{Code: KindNotFound, Message: message}
}

// NewInternalError wraps an undeclared failure. The caller decides whether
// the raw message is safe to expose; see middleware.ErrorNormalizer.
func NewInternalError(message string) *Error {
	return &Error{Code: KindInternal, Message: message}
}
