package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeFormNotFound, "unknown form: %s", "I-90")

	if err.Code != ErrCodeFormNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeFormNotFound)
	}
	if err.Message != "unknown form: I-90" {
		t.Errorf("Message = %q", err.Message)
	}
	want := "FORM_NOT_FOUND: unknown form: I-90"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeFetch, cause, "failed to fetch reference for %s", "N-400")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	want := "FETCH_ERROR: failed to fetch reference for N-400: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeParse, "bad xref"), ErrCodeParse, true},
		{"different code", New(ErrCodeParse, "bad xref"), ErrCodeRender, false},
		{"wrapped match", fmt.Errorf("outer: %w", New(ErrCodeStore, "save failed")), ErrCodeStore, true},
		{"plain error", stderrors.New("plain"), ErrCodeParse, false},
		{"nil error", nil, ErrCodeParse, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if code := GetCode(New(ErrCodeRequiredField, "blank")); code != ErrCodeRequiredField {
		t.Errorf("GetCode = %q, want %q", code, ErrCodeRequiredField)
	}
	if code := GetCode(stderrors.New("plain")); code != "" {
		t.Errorf("GetCode on plain error = %q, want empty", code)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeExportFailed, "could not generate your form")
	if msg := UserMessage(err); msg != "could not generate your form" {
		t.Errorf("UserMessage = %q", msg)
	}

	plain := stderrors.New("something else")
	if msg := UserMessage(plain); msg != "something else" {
		t.Errorf("UserMessage on plain error = %q", msg)
	}
}
