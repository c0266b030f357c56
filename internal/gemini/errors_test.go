package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/oukeidos/legalese/internal/apperrors"
	"google.golang.org/api/googleapi"
)

func TestClassifyGeminiError_CodeMapping(t *testing.T) {
	tests := []struct {
		code int
		msg  string
	}{
		{400, "rejected (400)"},
		{401, "authentication/authorization failed (401)"},
		{403, "authentication/authorization failed (403)"},
		{404, "not found or no access (404)"},
		{429, "rate limit exceeded (429)"},
		{500, "temporary error (500)"},
		{503, "temporary error (503)"},
		{418, "API error (418)"},
	}
	for _, tt := range tests {
		err := classifyGeminiError(&googleapi.Error{Code: tt.code, Message: "SECRET_CLAUSE"})
		assertBackendUnavailable(t, err)
		if got := apperrors.StatusOf(err); got != tt.code {
			t.Errorf("code %d: status = %d", tt.code, got)
		}
		if !strings.Contains(err.Error(), tt.msg) {
			t.Errorf("code %d: message %q missing %q", tt.code, err.Error(), tt.msg)
		}
		if strings.Contains(err.Error(), "SECRET_CLAUSE") {
			t.Errorf("code %d: upstream message leaked: %q", tt.code, err.Error())
		}
	}
}

func TestClassifyGeminiError_Transport(t *testing.T) {
	err := classifyGeminiError(context.DeadlineExceeded)
	assertBackendUnavailable(t, err)
	if apperrors.StatusOf(err) != 0 {
		t.Errorf("expected no status for transport failure")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("cause not preserved: %v", err)
	}
}

func TestClassifyGeminiError_Nil(t *testing.T) {
	if classifyGeminiError(nil) != nil {
		t.Fatalf("expected nil")
	}
}

func assertBackendUnavailable(t *testing.T, err error) {
	t.Helper()
	if !apperrors.Is(err, apperrors.KindBackendUnavailable) {
		t.Fatalf("expected backend unavailable, got %v", err)
	}
}
