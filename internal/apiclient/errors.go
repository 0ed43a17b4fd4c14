package apiclient

import "fmt"

type ErrorCode string

const (
	// ErrCodeConnectivity is used when the request could not be sent or no response was received
	ErrCodeConnectivity ErrorCode = "connectivity"

	// ErrCodeDecode is used when a response body is not valid JSON
	ErrCodeDecode ErrorCode = "decode"

	// ErrCodeSchema is used when a response body does not match the documented response schema
	ErrCodeSchema ErrorCode = "schema"

	// ErrCodeRequest is used when a request could not be built
	ErrCodeRequest ErrorCode = "request"
)

// ClientError represents a structured error from the apiclient package
type ClientError struct {
	code    ErrorCode
	message string
	wrapped error
}

func (e *ClientError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *ClientError) Code() ErrorCode { return e.code }
func (e *ClientError) Unwrap() error   { return e.wrapped }

// WrapConnectivityError wraps a transport error.
func WrapConnectivityError(err error, msg string) error {
	return &ClientError{code: ErrCodeConnectivity, message: msg, wrapped: err}
}

// WrapDecodeError wraps a JSON decoding error.
func WrapDecodeError(err error, msg string) error {
	return &ClientError{code: ErrCodeDecode, message: msg, wrapped: err}
}

// NewSchemaError creates a schema validation error.
func NewSchemaError(msg string) error {
	return &ClientError{code: ErrCodeSchema, message: msg}
}

// WrapRequestError wraps an error raised while building a request.
func WrapRequestError(err error, msg string) error {
	return &ClientError{code: ErrCodeRequest, message: msg, wrapped: err}
}
