package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Source errors raised while draining a wrapped sequence.
const (
	// ErrCodeSourceFailed indicates the source returned an error from Next.
	ErrCodeSourceFailed ErrorCode = "SOURCE_FAILED"
	// ErrCodeSourcePanic indicates the source panicked while producing an item.
	ErrCodeSourcePanic ErrorCode = "SOURCE_PANIC"
)

// Misuse errors
const (
	// ErrCodeInvalidCapacity indicates a buffer capacity below one.
	ErrCodeInvalidCapacity ErrorCode = "INVALID_CAPACITY"
	// ErrCodeInvalidInput indicates invalid configuration or arguments.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeConcurrentUse indicates more than one consumer pulled at once.
	ErrCodeConcurrentUse ErrorCode = "CONCURRENT_USE"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// A failed pull may succeed when repeated; a panic or a misuse will not.
var retryableCodes = map[ErrorCode]bool{
	ErrCodeSourceFailed: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
