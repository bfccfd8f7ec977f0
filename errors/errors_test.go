package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad value")
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidInput, err.Code)
	}
	if err.Message != "bad value" {
		t.Errorf("expected message 'bad value', got %q", err.Message)
	}
	if err.Retryable {
		t.Error("INVALID_INPUT should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeSourceFailed, "read failed")
	if !err.Retryable {
		t.Error("SOURCE_FAILED should be retryable")
	}
}

func TestAppError_SourceFailed_WrapsCause(t *testing.T) {
	cause := stderrors.New("disk unplugged")
	err := SourceFailed("batches", cause)
	if err.Code != ErrCodeSourceFailed {
		t.Errorf("expected SOURCE_FAILED, got %s", err.Code)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
	if err.Details["source"] != "batches" {
		t.Errorf("expected source=batches, got %v", err.Details["source"])
	}
	if !strings.Contains(err.Error(), "disk unplugged") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
}

func TestAppError_SourcePanic(t *testing.T) {
	t.Run("string value", func(t *testing.T) {
		err := SourcePanic("src", "boom")
		if err.Code != ErrCodeSourcePanic {
			t.Errorf("expected SOURCE_PANIC, got %s", err.Code)
		}
		if err.Cause != nil {
			t.Errorf("expected no cause, got %v", err.Cause)
		}
		if !strings.Contains(err.Message, "boom") {
			t.Errorf("expected message to contain panic value, got %q", err.Message)
		}
		if err.Retryable {
			t.Error("SOURCE_PANIC should not be retryable")
		}
	})

	t.Run("error value becomes cause", func(t *testing.T) {
		cause := fmt.Errorf("index out of range")
		err := SourcePanic("src", cause)
		if err.Cause != cause {
			t.Error("expected recovered error to be the cause")
		}
	})
}

func TestAppError_InvalidCapacity(t *testing.T) {
	err := InvalidCapacity(0)
	if err.Code != ErrCodeInvalidCapacity {
		t.Errorf("expected INVALID_CAPACITY, got %s", err.Code)
	}
	if err.Details["capacity"] != 0 {
		t.Errorf("expected capacity=0, got %v", err.Details["capacity"])
	}
}

func TestAppError_InvalidInput_Success(t *testing.T) {
	err := InvalidInput("capacity", "must be positive")
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", err.Code)
	}
	if err.Details["field"] != "capacity" {
		t.Errorf("expected field=capacity, got %v", err.Details["field"])
	}
}

func TestAppError_ConcurrentUse(t *testing.T) {
	err := ConcurrentUse("Next")
	if err.Code != ErrCodeConcurrentUse {
		t.Errorf("expected CONCURRENT_USE, got %s", err.Code)
	}
	if err.Details["operation"] != "Next" {
		t.Errorf("expected operation=Next, got %v", err.Details["operation"])
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Validation("bad").WithCause(cause)
	if err.Cause != cause {
		t.Error("expected cause to be set via WithCause")
	}
	if !strings.Contains(err.Error(), "root cause") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := InvalidCapacity(-1).WithDetails(map[string]any{"extra": "info"})
	if err.Details["extra"] != "info" {
		t.Errorf("expected extra=info in details")
	}
	if err.Details["capacity"] != -1 {
		t.Error("expected original details to be preserved")
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestIs(t *testing.T) {
	cause := stderrors.New("io")
	wrapped := fmt.Errorf("pulling: %w", SourceFailed("s", cause))

	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"direct match", SourceFailed("s", cause), ErrCodeSourceFailed, true},
		{"wrapped match", wrapped, ErrCodeSourceFailed, true},
		{"other code", wrapped, ErrCodeSourcePanic, false},
		{"plain error", cause, ErrCodeSourceFailed, false},
		{"nil", nil, ErrCodeSourceFailed, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Is(tc.err, tc.code); got != tc.want {
				t.Errorf("Is() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(fmt.Errorf("wrap: %w", ConcurrentUse("Next"))); got != ErrCodeConcurrentUse {
		t.Errorf("expected CONCURRENT_USE, got %q", got)
	}
	if got := CodeOf(stderrors.New("plain")); got != "" {
		t.Errorf("expected empty code, got %q", got)
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(SourceFailed("s", nil)) {
		t.Error("expected source failure to be retryable")
	}
	if IsRetryable(SourcePanic("s", "x")) {
		t.Error("expected panic not to be retryable")
	}
	if IsRetryable(stderrors.New("plain")) {
		t.Error("expected plain error not to be retryable")
	}
}
