package inspector

import "fmt"

type ErrorCode string

const (
	// ErrCodeConfig is used when the inspector is given an unusable DSN or table name
	ErrCodeConfig ErrorCode = "config"

	// ErrCodeStore is used when the store could not be opened or a statement failed
	ErrCodeStore ErrorCode = "store"
)

// InspectorError represents a structured error from the inspector package
type InspectorError struct {
	code    ErrorCode
	op      string
	message string
	wrapped error
}

func (e *InspectorError) Error() string {
	msg := e.message
	if e.op != "" {
		msg = e.op + ": " + msg
	}
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", msg, e.wrapped)
	}
	return msg
}

func (e *InspectorError) Code() ErrorCode { return e.code }
func (e *InspectorError) Op() string      { return e.op }
func (e *InspectorError) Unwrap() error   { return e.wrapped }

// NewConfigError creates a configuration error.
func NewConfigError(msg string) error {
	return &InspectorError{code: ErrCodeConfig, message: msg}
}

// WrapStoreError wraps a driver error raised while running op.
func WrapStoreError(err error, op, msg string) error {
	return &InspectorError{code: ErrCodeStore, op: op, message: msg, wrapped: err}
}
