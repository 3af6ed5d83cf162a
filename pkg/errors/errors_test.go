package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidDocument, "node %q: name mismatch", "a")

	if err.Code != ErrCodeInvalidDocument {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidDocument)
	}

	if err.Message != `node "a": name mismatch` {
		t.Errorf("Message = %v, want %v", err.Message, `node "a": name mismatch`)
	}

	expected := `INVALID_DOCUMENT: node "a": name mismatch`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ErrCodeCacheWrite, cause, "save positions")

	if err.Code != ErrCodeCacheWrite {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeCacheWrite)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "CACHE_WRITE: save positions: disk full"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
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
			err:      New(ErrCodeInvalidDocument, "test"),
			code:     ErrCodeInvalidDocument,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidDocument, "test"),
			code:     ErrCodeRender,
			expected: false,
		},
		{
			name:     "outermost code wins",
			err:      Wrap(ErrCodeRender, New(ErrCodeInvalidFormat, "inner"), "outer"),
			code:     ErrCodeRender,
			expected: true,
		},
		{
			name:     "wrapped by fmt",
			err:      fmt.Errorf("load: %w", New(ErrCodeInvalidDocument, "inner")),
			code:     ErrCodeInvalidDocument,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidDocument,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidDocument,
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
		{"Error type", New(ErrCodeCacheRead, "test"), ErrCodeCacheRead},
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

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidDocument, "friendly message"), "friendly message"},
		{"with cause", Wrap(ErrCodeRender, errors.New("boom"), "render png"), "render png: boom"},
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

func TestRecoverable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{New(ErrCodeCacheRead, "x"), true},
		{New(ErrCodeCacheWrite, "x"), true},
		{New(ErrCodeInvalidDocument, "x"), false},
		{New(ErrCodeRender, "x"), false},
		{errors.New("plain"), false},
	}

	for _, tt := range tests {
		if got := Recoverable(tt.err); got != tt.want {
			t.Errorf("Recoverable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{New(ErrCodeInvalidDocument, "x"), true},
		{New(ErrCodeInvalidConfig, "x"), true},
		{Wrap(ErrCodeFileNotFound, errors.New("gone"), "open"), true},
		{New(ErrCodeRender, "x"), true},
		{New(ErrCodeCacheRead, "x"), true},
		{New(ErrCodeUsage, "x"), false},
		{New(ErrCodeInvalidFormat, "x"), false},
		{errors.New("plain"), false},
	}

	for _, tt := range tests {
		if got := Retryable(tt.err); got != tt.want {
			t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidDocument,
		ErrCodeInvalidConfig,
		ErrCodeInvalidFormat,
		ErrCodeFileNotFound,
		ErrCodeUsage,
		ErrCodeCacheRead,
		ErrCodeCacheWrite,
		ErrCodeRender,
		ErrCodeInternal,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
