// Package errors provides the structured error types used by the carousel
// configuration, item loading and showcase layers. The navigation engine
// itself never returns errors.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeServer     ErrorType = "server"
	ErrorTypeInternal   ErrorType = "internal"
)

// Error codes for common failures.
const (
	ErrCodeValidationFailed = "ERR_VALIDATION_FAILED"
	ErrCodeInvalidPath      = "ERR_INVALID_PATH"
	ErrCodeItemsFile        = "ERR_ITEMS_FILE"
	ErrCodeItemsFormat      = "ERR_ITEMS_FORMAT"
	ErrCodeConfigLoad       = "ERR_CONFIG_LOAD"
	ErrCodeServerStart      = "ERR_SERVER_START"
)

// CarouselError is a structured error type with context.
type CarouselError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	FilePath    string
	Recoverable bool
}

// Error implements the error interface.
func (e *CarouselError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")
	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *CarouselError) Unwrap() error {
	return e.Cause
}

// Is matches another CarouselError by type and code.
func (e *CarouselError) Is(target error) bool {
	var t *CarouselError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *CarouselError) WithContext(key string, value interface{}) *CarouselError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithPath records the file the error relates to.
func (e *CarouselError) WithPath(path string) *CarouselError {
	e.FilePath = path

	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *CarouselError {
	return &CarouselError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string, cause error) *CarouselError {
	return &CarouselError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *CarouselError {
	return &CarouselError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewServerError creates a showcase server error.
func NewServerError(code, message string, cause error) *CarouselError {
	return &CarouselError{
		Type:    ErrorTypeServer,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsType reports whether err is, or wraps, a CarouselError of the given type.
func IsType(err error, errType ErrorType) bool {
	var ce *CarouselError
	if errors.As(err, &ce) {
		return ce.Type == errType
	}

	return false
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var ce *CarouselError
	if errors.As(err, &ce) {
		return ce.Recoverable
	}

	return false
}

// ErrInvalidPath creates a path validation error.
func ErrInvalidPath(path string) *CarouselError {
	return NewValidationError(ErrCodeInvalidPath, "invalid path: "+path).WithPath(path)
}
