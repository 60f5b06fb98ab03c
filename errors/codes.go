package errors

// ErrorCode represents a specific error condition.
// Codes are strings so they read well in logs and serialize naturally.
type ErrorCode string

const (
	// CodeNotFound indicates a requested resource does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeInvalidInput indicates the provided input is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates the engine settings are invalid.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeCanceled indicates the caller abandoned the operation.
	CodeCanceled ErrorCode = "CANCELED"

	// CodeExecutionFailed indicates an external command could not be run
	// or exited unsuccessfully.
	CodeExecutionFailed ErrorCode = "EXECUTION_FAILED"

	// CodeProbeFailed indicates a version manager probe failed.
	CodeProbeFailed ErrorCode = "PROBE_FAILED"

	// CodeReadFailed indicates a project file could not be read.
	CodeReadFailed ErrorCode = "READ_FAILED"

	// CodeParseFailed indicates a project file could not be parsed.
	CodeParseFailed ErrorCode = "PARSE_FAILED"

	// CodeInternal indicates an internal error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)
