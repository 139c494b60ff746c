package types

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrFileNotFound       = errors.New("file not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrDeliveryNotFound   = errors.New("notification delivery not found")
	ErrDuplicateReference = errors.New("reference code already issued")
)

type ErrorKind int

const (
	KindDependency ErrorKind = iota
	KindValidation
	KindNotFound
	KindAuth
	KindForbidden
	KindRateLimited
)

func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a client-safe Message alongside the internal cause. Only
// Message is ever written to a response body.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func ValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func FieldValidationError(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "Please fix the highlighted fields.", Fields: fields}
}

func NotFoundError(msg string, err error) *Error {
	return &Error{Kind: KindNotFound, Message: msg, Err: err}
}

func AuthError(msg string) *Error {
	return &Error{Kind: KindAuth, Message: msg}
}

func ForbiddenError(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func DependencyError(msg string, err error) *Error {
	return &Error{Kind: KindDependency, Message: msg, Err: err}
}

// AsError unwraps err into an *Error, treating anything unrecognised as a
// dependency failure.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return DependencyError("Internal server error", err)
}
