package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
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

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrForbidden
	ErrInternal
)

// Points economy and search error codes
const (
	ErrRoleDenied ErrorCode = iota + 2000
	ErrAccountInactive
	ErrInsufficientBalance
	ErrEmptyQuery
	ErrUnknownPackage
	ErrUnknownSession
	ErrCheckoutCreationFailed
	ErrConfiguration
)

// CodeOf returns the error code carried by err, or ErrInternal when err
// is not an AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

// Error constructors
func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewBadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// Common errors
func NotFound(resource string, err error) *AppError {
	return NewNotFound(resource, err)
}

func BadRequest(message string, err error) *AppError {
	return NewBadRequest(message, err)
}

func Internal(err error) *AppError {
	return NewInternal(err)
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

func Forbidden(message string, err error) *AppError {
	return &AppError{
		Code:    ErrForbidden,
		Message: message,
		Err:     err,
	}
}

// Domain errors. All are terminal for the current attempt and surfaced to
// the caller verbatim.

func RoleDenied(role string) *AppError {
	return &AppError{
		Code:    ErrRoleDenied,
		Message: fmt.Sprintf("role %q is not allowed to perform this operation", role),
	}
}

func AccountInactive() *AppError {
	return &AppError{
		Code:    ErrAccountInactive,
		Message: "account is inactive",
	}
}

func InsufficientBalance() *AppError {
	return &AppError{
		Code:    ErrInsufficientBalance,
		Message: "insufficient point balance",
	}
}

func EmptyQuery() *AppError {
	return &AppError{
		Code:    ErrEmptyQuery,
		Message: "search requires at least one keyword",
	}
}

func UnknownPackage(id string) *AppError {
	return &AppError{
		Code:    ErrUnknownPackage,
		Message: fmt.Sprintf("unknown point package %q", id),
	}
}

func UnknownSession(id string) *AppError {
	return &AppError{
		Code:    ErrUnknownSession,
		Message: fmt.Sprintf("no purchase matches checkout session %q", id),
	}
}

func CheckoutCreationFailed(err error) *AppError {
	return &AppError{
		Code:    ErrCheckoutCreationFailed,
		Message: "failed to create checkout session",
		Err:     err,
	}
}

func Configuration(message string) *AppError {
	return &AppError{
		Code:    ErrConfiguration,
		Message: message,
	}
}
