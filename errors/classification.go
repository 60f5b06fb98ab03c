package errors

// ErrorClassification indicates whether an error should trigger a retry.
type ErrorClassification string

const (
	// ClassificationRetryable indicates temporary failures that may succeed on retry.
	ClassificationRetryable ErrorClassification = "RETRYABLE"

	// ClassificationPermanent indicates failures that will not succeed on retry.
	ClassificationPermanent ErrorClassification = "PERMANENT"
)

// IsRetryable returns true if the classification indicates retry should be attempted.
func (c ErrorClassification) IsRetryable() bool {
	return c == ClassificationRetryable
}

// defaultClassifications maps error codes to their default classification.
// A probe or read can succeed later once the user installs a manager or
// fixes a file, so those are retryable once their cache entry expires.
var defaultClassifications = map[ErrorCode]ErrorClassification{
	CodeTimeout:     ClassificationRetryable,
	CodeProbeFailed: ClassificationRetryable,
	CodeReadFailed:  ClassificationRetryable,

	CodeNotFound:        ClassificationPermanent,
	CodeInvalidInput:    ClassificationPermanent,
	CodeInvalidConfig:   ClassificationPermanent,
	CodeCanceled:        ClassificationPermanent,
	CodeExecutionFailed: ClassificationPermanent,
	CodeParseFailed:     ClassificationPermanent,
	CodeInternal:        ClassificationPermanent,
	CodeUnknown:         ClassificationPermanent,
}

// getDefaultClassification returns the default classification for an error code.
// Unknown codes are permanent.
func getDefaultClassification(code ErrorCode) ErrorClassification {
	if class, ok := defaultClassifications[code]; ok {
		return class
	}
	return ClassificationPermanent
}
