package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidShape, "unsupported shape kind %q", "HEXAGON")

	if err.Code != ErrCodeInvalidShape {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidShape)
	}

	if err.Message != `unsupported shape kind "HEXAGON"` {
		t.Errorf("Message = %v", err.Message)
	}

	expected := `INVALID_SHAPE: unsupported shape kind "HEXAGON"`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ErrCodeInternal, cause, "write plot")

	if err.Code != ErrCodeInternal {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInternal)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodePlotNotFound,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeInvalidBlueprint, New(ErrCodeInvalidShape, "inner"), "outer"),
			code:     ErrCodeInvalidBlueprint,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("generate: %w", New(ErrCodeInvalidShape, "inner")),
			code:     ErrCodeInvalidShape,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeBlueprintNotFound, "test"), ErrCodeBlueprintNotFound},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCategories(t *testing.T) {
	if !IsNotFound(New(ErrCodePlotNotFound, "x")) {
		t.Error("IsNotFound(PLOT_NOT_FOUND) = false")
	}
	if IsNotFound(New(ErrCodeInvalidInput, "x")) {
		t.Error("IsNotFound(INVALID_INPUT) = true")
	}
	if !IsInvalid(New(ErrCodeInvalidShape, "x")) {
		t.Error("IsInvalid(INVALID_SHAPE) = false")
	}
	if IsInvalid(errors.New("plain")) {
		t.Error("IsInvalid(plain) = true")
	}
}

func TestClassOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"invalid", New(ErrCodeInvalidPath, "x"), ClassInvalid},
		{"not found", New(ErrCodeFileNotFound, "x"), ClassNotFound},
		{"conflict", New(ErrCodeConflict, "x"), ClassConflict},
		{"unsupported", New(ErrCodeUnsupported, "x"), ClassInternal},
		{"unregistered code", New(Code("RATE_LIMITED"), "x"), ClassInternal},
		{"outermost wins", Wrap(ErrCodeInternal, New(ErrCodePlotNotFound, "x"), "y"), ClassInternal},
		{"plain", errors.New("plain"), ClassNone},
		{"nil", nil, ClassNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassOf(tt.err); got != tt.want {
				t.Errorf("ClassOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsMatchesWrappedCode(t *testing.T) {
	err := Wrap(ErrCodeInvalidBlueprint, New(ErrCodeInvalidShape, "inner"), "outer")
	if !Is(err, ErrCodeInvalidShape) {
		t.Error("Is(err, INVALID_SHAPE) = false, want true for wrapped code")
	}
	if GetCode(err) != ErrCodeInvalidBlueprint {
		t.Errorf("GetCode() = %v, want outermost code", GetCode(err))
	}
}

func TestAnnotate(t *testing.T) {
	tests := []struct {
		name  string
		cause error
		want  Code
	}{
		{"coded cause keeps its code", New(ErrCodeInvalidShape, "inner"), ErrCodeInvalidShape},
		{"fmt wrapped coded cause", fmt.Errorf("root: %w", New(ErrCodeInvalidShape, "inner")), ErrCodeInvalidShape},
		{"plain cause takes code", errors.New("plain"), ErrCodeInvalidBlueprint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Annotate(ErrCodeInvalidBlueprint, tt.cause, "blueprint %s", "b@v1")
			if err.Code != tt.want {
				t.Errorf("Code = %v, want %v", err.Code, tt.want)
			}
			if !errors.Is(err, tt.cause) {
				t.Error("cause not kept in chain")
			}
			if err.Message != "blueprint b@v1" {
				t.Errorf("Message = %q", err.Message)
			}
		})
	}
}
