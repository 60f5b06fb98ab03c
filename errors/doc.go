// Package errors provides the structured error type used across nodeenv.
//
// Errors carry a code, a retry classification, an optional cause and an
// immutable context map. They remain compatible with the standard library
// (errors.Is, errors.As, errors.Unwrap).
//
// Most failures inside the version engine are recovered rather than returned:
// a failed manager probe becomes an unavailable descriptor, an unreadable
// project file becomes "no configuration from this source", and a timed out
// process becomes a failed command result. The codes below still describe
// those failures when they are logged, and they classify the errors that do
// reach callers (for example a failing cache producer).
//
// # Quick Start
//
//	err := errors.New(errors.CodeNotFound, "no version requirement found")
//
//	content, err := fsys.ReadFile(path)
//	if err != nil {
//	    return errors.Wrapf(err, errors.CodeReadFailed, "failed to read %s", path)
//	}
//
//	err = errors.WithContext(err, "manager", "nvm")
//
// # JSON
//
// ToJSON flattens any error into an ErrorResponse for the HTTP API. The
// wrapped cause chain is not serialized.
package errors
