// Package errors provides the structured error type used across prefetchkit.
//
// Every error raised by the library is an *AppError carrying a machine-readable
// ErrorCode, so callers can tell a broken data source apart from a misuse of
// the API without string matching:
//
//	if errors.Is(err, errors.ErrCodeSourceFailed) {
//	    // the wrapped sequence returned an error; errors.Unwrap reaches it
//	}
package errors
