package errors

import "errors"

// WithContext returns a copy of err with one more context field.
//
// A non-PlatformError is converted to one with CodeUnknown.
// Returns nil if err is nil.
//
// Example:
//
//	err = errors.WithContext(err, "path", "/work/app/.nvmrc")
func WithContext(err error, key string, value any) PlatformError {
	return WithContextMap(err, map[string]any{key: value})
}

// WithContextMap returns a copy of err with the given fields merged into its
// context. New fields override existing ones with the same key.
//
// A non-PlatformError is converted to one with CodeUnknown.
// Returns nil if err is nil.
func WithContextMap(err error, fields map[string]any) PlatformError {
	if err == nil {
		return nil
	}

	platformErr := asPlatformError(err)

	merged := platformErr.Context()
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	for k, v := range fields {
		merged[k] = v
	}

	return &platformError{
		code:           platformErr.Code(),
		classification: platformErr.Classification(),
		message:        platformErr.Message(),
		context:        merged,
		cause:          platformErr.Unwrap(),
	}
}

// asPlatformError returns the first PlatformError in err's chain, or converts
// err into one with CodeUnknown.
func asPlatformError(err error) PlatformError {
	var platformErr PlatformError
	if errors.As(err, &platformErr) {
		return platformErr
	}
	return &platformError{
		code:           CodeUnknown,
		classification: ClassificationPermanent,
		message:        err.Error(),
		cause:          err,
	}
}
