package errors

import (
	"errors"
	"fmt"
)

// Wrap wraps err with a code and message while preserving it as the cause.
//
// If err already is (or wraps) a PlatformError, its classification is kept.
// Returns nil if err is nil.
//
// Example:
//
//	result, err := executor.Run("fnm", "--version")
//	if err != nil {
//	    return errors.Wrap(err, errors.CodeProbeFailed, "fnm probe failed")
//	}
func Wrap(err error, code ErrorCode, message string) PlatformError {
	return WrapWithContext(err, code, message, nil)
}

// Wrapf wraps err with a formatted message.
// Returns nil if err is nil.
func Wrapf(err error, code ErrorCode, format string, args ...any) PlatformError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WrapWithContext wraps err and attaches context metadata in one step.
// The context map is copied.
// Returns nil if err is nil.
func WrapWithContext(err error, code ErrorCode, message string, ctx map[string]any) PlatformError {
	if err == nil {
		return nil
	}

	classification := getDefaultClassification(code)
	var platformErr PlatformError
	if errors.As(err, &platformErr) {
		classification = platformErr.Classification()
	}

	return &platformError{
		code:           code,
		classification: classification,
		message:        message,
		context:        copyContext(ctx),
		cause:          err,
	}
}
