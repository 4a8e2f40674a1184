package services

import (
	"errors"
	"fmt"
	"testing"
)

func TestServiceErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorKind
	}{
		{"validation", NewValidationError("bad status"), ErrKindValidation},
		{"not found", NewNotFoundError("missing"), ErrKindNotFound},
		{"conflict", NewConflictError("duplicate"), ErrKindConflict},
		{"authorization", NewAuthorizationError("not yours"), ErrKindAuthorization},
		{"internal", NewInternalError("db", errors.New("boom")), ErrKindInternal},
		{"plain error", errors.New("anything"), ErrKindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.kind {
				t.Errorf("KindOf = %v, want %v", got, tt.kind)
			}
		})
	}
}

func TestServiceErrorWrapping(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternalError("failed to save", cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
	if err.Error() != "failed to save: connection reset" {
		t.Errorf("Error() = %q", err.Error())
	}

	// Kind survives further wrapping
	wrapped := fmt.Errorf("outer: %w", NewNotFoundError("inquiry not found"))
	if !IsNotFound(wrapped) {
		t.Error("kind lost through fmt.Errorf wrapping")
	}
}
