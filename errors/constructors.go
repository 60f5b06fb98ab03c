package errors

import "fmt"

// New creates a new PlatformError with the given code and message.
//
// Example:
//
//	err := errors.New(errors.CodeNotFound, "no version requirement found")
func New(code ErrorCode, message string) PlatformError {
	return &platformError{
		code:           code,
		classification: getDefaultClassification(code),
		message:        message,
	}
}

// Newf creates a new PlatformError with a formatted message.
func Newf(code ErrorCode, format string, args ...any) PlatformError {
	return New(code, fmt.Sprintf(format, args...))
}
