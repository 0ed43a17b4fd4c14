package auth

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrCodeMissingToken ErrorCode = "missing_token"
	ErrCodeInvalidToken ErrorCode = "invalid_token"
	ErrCodeExpiredToken ErrorCode = "expired_token"
	ErrCodeCredentials  ErrorCode = "invalid_credentials"
	ErrCodeInternal     ErrorCode = "internal"
)

// AuthError is returned by all functions of this package
type AuthError struct {
	code    ErrorCode
	message string
	wrapped error
}

func (e *AuthError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *AuthError) Code() ErrorCode { return e.code }
func (e *AuthError) Unwrap() error   { return e.wrapped }

func newError(code ErrorCode, msg string) error {
	return &AuthError{code: code, message: msg}
}

func wrapError(code ErrorCode, err error, msg string) error {
	return &AuthError{code: code, message: msg, wrapped: err}
}

// ErrorCodeOf returns the code of an *AuthError, or ErrCodeInternal for any other error
func ErrorCodeOf(err error) ErrorCode {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.code
	}
	return ErrCodeInternal
}
