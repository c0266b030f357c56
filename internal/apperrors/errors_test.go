package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestPublicMessage_UsesSafeMessage(t *testing.T) {
	sentinel := errors.New("SECRET_CONTRACT_CLAUSE")
	err := New(KindBackendUnavailable, "safe backend error", sentinel)
	if got := PublicMessage(err); got != "safe backend error" {
		t.Fatalf("PublicMessage() = %q, want %q", got, "safe backend error")
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped cause to be retained for internal matching")
	}
}

func TestDefaultSafeMessages(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindMissingInput, "No text was provided to translate."},
		{KindBackendUnavailable, "The translation service is unavailable. Please try again later."},
		{KindMalformedReply, "The translation service returned an unexpected reply."},
		{Kind("other"), "Request failed."},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := New(tt.kind, "   ", errors.New("boom"))
			if got := err.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindOfThroughWrapping(t *testing.T) {
	err := fmt.Errorf("translate: %w", BackendUnavailable(errors.New("dial tcp")))
	kind, ok := KindOf(err)
	if !ok || kind != KindBackendUnavailable {
		t.Fatalf("KindOf() = (%q, %v), want (%q, true)", kind, ok, KindBackendUnavailable)
	}
	if !Is(err, KindBackendUnavailable) {
		t.Fatalf("expected Is() to match backend_unavailable")
	}
	if Is(err, KindMissingInput) {
		t.Fatalf("expected Is() not to match missing_input")
	}
}

func TestStatusOf(t *testing.T) {
	err := WithStatus(KindBackendUnavailable, 503, "", errors.New("overloaded"))
	if got := StatusOf(err); got != 503 {
		t.Fatalf("StatusOf() = %d, want 503", got)
	}
	if got := StatusOf(MissingInput(nil)); got != 0 {
		t.Fatalf("StatusOf() = %d, want 0", got)
	}
	if got := StatusOf(errors.New("plain")); got != 0 {
		t.Fatalf("StatusOf() = %d, want 0", got)
	}
}

func TestPublicMessage_NonAppError(t *testing.T) {
	err := errors.New("plain")
	if got := PublicMessage(err); got != "plain" {
		t.Fatalf("PublicMessage() = %q, want %q", got, "plain")
	}
	if got := PublicMessage(nil); got != "" {
		t.Fatalf("PublicMessage(nil) = %q, want empty", got)
	}
}
