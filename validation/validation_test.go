package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/prefetchkit/errors"
)

type sampleConfig struct {
	Name       string `mapstructure:"name" validate:"required"`
	Capacity   int    `mapstructure:"capacity" validate:"min=1"`
	Mode       string `mapstructure:"mode" validate:"omitempty,oneof=fast slow"`
	BatchCount int    `validate:"gte=0"`
}

func TestValidateValid(t *testing.T) {
	cfg := sampleConfig{Name: "bench", Capacity: 1, Mode: "fast"}
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateInvalid(t *testing.T) {
	tests := []struct {
		name    string
		cfg     sampleConfig
		wantMsg string
	}{
		{"missing name", sampleConfig{Capacity: 1}, "name: is required"},
		{"zero capacity", sampleConfig{Name: "x", Capacity: 0}, "capacity: must be at least 1"},
		{"bad mode", sampleConfig{Name: "x", Capacity: 1, Mode: "warp"}, "mode: must be one of: fast slow"},
		{"snake case fallback", sampleConfig{Name: "x", Capacity: 1, BatchCount: -1}, "batch_count: must be at least 0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("expected %q in %q", tc.wantMsg, err.Error())
			}
		})
	}
}

func TestValidateFieldDetails(t *testing.T) {
	err := Validate(sampleConfig{})
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok {
		t.Fatalf("expected []FieldError details, got %T", appErr.Details["fields"])
	}
	if len(fields) != 2 {
		t.Fatalf("expected 2 field errors, got %d: %v", len(fields), fields)
	}
}

func TestValidateNonStruct(t *testing.T) {
	err := Validate(42)
	if err == nil {
		t.Fatal("expected error for non-struct input")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Capacity":   "capacity",
		"BatchCount": "batch_count",
		"name":       "name",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
