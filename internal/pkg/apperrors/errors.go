package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindConflict
	KindUnauthorized
	KindNotFound
	KindServiceUnavailable
	KindUpstream
)

// AppError is the error shape every service returns. Controllers never map
// status codes themselves; the error handler middleware does it once.
type AppError struct {
	Kind       Kind
	Message    string
	RetryAfter int // seconds, only meaningful for KindServiceUnavailable
	Detail     string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindInvalidInput:
		return 400
	case KindUnauthorized:
		return 401
	case KindNotFound:
		return 404
	case KindConflict:
		return 409
	case KindServiceUnavailable:
		return 503
	case KindUpstream:
		return 502
	default:
		return 500
	}
}

func InvalidInput(message string) *AppError {
	return &AppError{Kind: KindInvalidInput, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func ServiceUnavailable(message string, retryAfter int) *AppError {
	return &AppError{Kind: KindServiceUnavailable, Message: message, RetryAfter: retryAfter}
}

func Upstream(message, detail string, err error) *AppError {
	return &AppError{Kind: KindUpstream, Message: message, Detail: detail, Err: err}
}

func Internal(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// As extracts an *AppError from an error chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
