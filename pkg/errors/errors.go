package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Pack errors: the validation taxonomy of the engine
	ErrAmbiguousSource    ErrorCode = "AMBIGUOUS_SOURCE"
	ErrMissingChannel     ErrorCode = "MISSING_CHANNEL"
	ErrResolutionMismatch ErrorCode = "RESOLUTION_MISMATCH"
	ErrEmptySet           ErrorCode = "EMPTY_SET"
	ErrInvalidResolution  ErrorCode = "INVALID_RESOLUTION"

	// Image errors
	ErrImageDecode      ErrorCode = "IMAGE_DECODE"
	ErrImageEncode      ErrorCode = "IMAGE_ENCODE"
	ErrUnsupportedImage ErrorCode = "IMAGE_UNSUPPORTED"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// PackError represents a structured error with code and details
type PackError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *PackError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PackError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *PackError) Is(target error) bool {
	var targetErr *PackError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// WithDetail adds a detail field and returns the error for chaining
func (e *PackError) WithDetail(key string, value interface{}) *PackError {
	e.Details[key] = value
	return e
}

// New creates a new PackError with the given code and message
func New(code ErrorCode, message string) *PackError {
	return &PackError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new PackError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *PackError {
	return &PackError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a PackError
func Wrap(err error, code ErrorCode, message string) *PackError {
	if err == nil {
		return nil
	}
	return &PackError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *PackError {
	if err == nil {
		return nil
	}
	return &PackError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// CodeOf returns the error code of err, or ErrUnknown when err is not
// a PackError.
func CodeOf(err error) ErrorCode {
	var pe *PackError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ErrUnknown
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
