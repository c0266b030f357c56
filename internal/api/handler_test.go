package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/oukeidos/legalese/internal/apperrors"
	"github.com/oukeidos/legalese/internal/metadata"
	"github.com/oukeidos/legalese/internal/translation"
)

type stubTranslator struct {
	calls []translation.Request
	fn    func(translation.Request) (*translation.Result, error)
}

func (s *stubTranslator) Translate(_ context.Context, req translation.Request) (*translation.Result, error) {
	s.calls = append(s.calls, req)
	return s.fn(req)
}

func okTranslator() *stubTranslator {
	return &stubTranslator{fn: func(req translation.Request) (*translation.Result, error) {
		return &translation.Result{
			Translation:  "plain",
			DocumentType: "Lease Agreement",
			RiskScore:    3,
			RiskLevel:    translation.RiskLow,
			Concerns:     []string{},
		}, nil
	}}
}

func newTestHandler(t Translator, serverKey string) *Handler {
	h := NewHandler(t, serverKey)
	h.newID = func() string { return "req-1" }
	return h
}

func do(h http.Handler, method, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func assertCORS(t *testing.T, header http.Header) {
	t.Helper()
	want := map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "POST, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type, Authorization",
		RequestIDHeader:                "req-1",
	}
	for k, v := range want {
		if got := header.Get(k); got != v {
			t.Errorf("header %s = %q, want %q", k, got, v)
		}
	}
}

func decodeError(t *testing.T, body []byte) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err != nil {
		t.Fatalf("decode error body %q: %v", body, err)
	}
	return er
}

func TestServeHTTP_Success(t *testing.T) {
	tr := okTranslator()
	h := newTestHandler(tr, "")

	rec := do(h, http.MethodPost, `{"text":"The tenant shall pay rent.","readingLevel":"simple","userApiKey":"sk-ant-user"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	assertCORS(t, rec.Header())

	var res translation.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Translation != "plain" || res.RiskLevel != translation.RiskLow {
		t.Errorf("unexpected result %+v", res)
	}
	if len(tr.calls) != 1 {
		t.Fatalf("calls = %d", len(tr.calls))
	}
	got := tr.calls[0]
	if got.Credential != "sk-ant-user" || got.ReadingLevel != translation.LevelSimple || got.SourceText != "The tenant shall pay rent." {
		t.Errorf("translator request = %+v", got)
	}
}

func TestServeHTTP_CredentialPrecedence(t *testing.T) {
	tests := []struct {
		name      string
		serverKey string
		body      string
		want      string
	}{
		{"user key wins", "sk-ant-server", `{"text":"x","userApiKey":"sk-ant-user"}`, "sk-ant-user"},
		{"server key fallback", "sk-ant-server", `{"text":"x"}`, "sk-ant-server"},
		{"blank user key", "sk-ant-server", `{"text":"x","userApiKey":"  "}`, "sk-ant-server"},
		{"demo mode", "", `{"text":"x"}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := okTranslator()
			do(newTestHandler(tr, tt.serverKey), http.MethodPost, tt.body)
			if len(tr.calls) != 1 || tr.calls[0].Credential != tt.want {
				t.Fatalf("credential = %+v, want %q", tr.calls, tt.want)
			}
		})
	}
}

func TestServeHTTP_UserKeysDisabled(t *testing.T) {
	tests := []struct {
		name      string
		serverKey string
		body      string
		want      string
	}{
		{"user key ignored", "gemini-server", `{"text":"x","userApiKey":"sk-ant-user"}`, "gemini-server"},
		{"user key ignored in demo mode", "", `{"text":"x","userApiKey":"sk-ant-user"}`, ""},
		{"server key unchanged", "gemini-server", `{"text":"x"}`, "gemini-server"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := okTranslator()
			h := newTestHandler(tr, tt.serverKey)
			h.DisableUserKeys()
			rec := do(h, http.MethodPost, tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if len(tr.calls) != 1 || tr.calls[0].Credential != tt.want {
				t.Fatalf("credential = %+v, want %q", tr.calls, tt.want)
			}
		})
	}
}

func TestNewProviderHandler(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{metadata.ProviderAnthropic, "sk-ant-user"},
		{metadata.ProviderGemini, "server-key"},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			tr := okTranslator()
			h := NewProviderHandler(tr, "server-key", tt.provider)
			do(h, http.MethodPost, `{"text":"x","userApiKey":"sk-ant-user"}`)
			if len(tr.calls) != 1 || tr.calls[0].Credential != tt.want {
				t.Fatalf("credential = %+v, want %q", tr.calls, tt.want)
			}
		})
	}
}

func TestServeHTTP_MissingText(t *testing.T) {
	for _, body := range []string{`{}`, `{"text":"   "}`, ``} {
		tr := okTranslator()
		rec := do(newTestHandler(tr, ""), http.MethodPost, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d", body, rec.Code)
		}
		assertCORS(t, rec.Header())
		er := decodeError(t, rec.Body.Bytes())
		if er.Error != CodeMissingInput || er.Message == "" {
			t.Errorf("body %q: error = %+v", body, er)
		}
		if er.Fallback == nil || !er.Fallback.Demo || er.Fallback.Translation == "" {
			t.Errorf("body %q: expected demo fallback, got %+v", body, er.Fallback)
		}
		if len(tr.calls) != 0 {
			t.Errorf("body %q: translator called", body)
		}
	}
}

func TestServeHTTP_Methods(t *testing.T) {
	h := newTestHandler(okTranslator(), "")

	rec := do(h, http.MethodOptions, "")
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Errorf("OPTIONS = %d %q", rec.Code, rec.Body.String())
	}
	assertCORS(t, rec.Header())

	for _, m := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		rec := do(h, m, "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s = %d, want 405", m, rec.Code)
		}
		if rec.Header().Get("Allow") != "POST, OPTIONS" {
			t.Errorf("%s Allow = %q", m, rec.Header().Get("Allow"))
		}
		assertCORS(t, rec.Header())
		if er := decodeError(t, rec.Body.Bytes()); er.Error != CodeMethodNotAllowed {
			t.Errorf("%s error = %+v", m, er)
		}
	}
}

func TestServeHTTP_BadBodies(t *testing.T) {
	h := newTestHandler(okTranslator(), "")

	rec := do(h, http.MethodPost, `{"text":`)
	if rec.Code != http.StatusBadRequest || decodeError(t, rec.Body.Bytes()).Error != CodeInvalidRequest {
		t.Errorf("malformed JSON = %d %s", rec.Code, rec.Body.String())
	}

	big := `{"text":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	rec = do(h, http.MethodPost, big)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("oversized body = %d", rec.Code)
	}
	if er := decodeError(t, rec.Body.Bytes()); !strings.Contains(er.Message, "too large") {
		t.Errorf("oversized body message = %q", er.Message)
	}
}

func TestServeHTTP_Failures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"backend unavailable", apperrors.WithStatus(apperrors.KindBackendUnavailable, 503, "", errors.New("upstream sk-ant-secret")), CodeBackendUnavailable},
		{"unexpected", errors.New("boom"), CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &stubTranslator{fn: func(translation.Request) (*translation.Result, error) { return nil, tt.err }}
			rec := do(newTestHandler(tr, "sk-ant-server"), http.MethodPost, `{"text":"terms"}`)
			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d", rec.Code)
			}
			assertCORS(t, rec.Header())
			er := decodeError(t, rec.Body.Bytes())
			if er.Error != tt.code || er.Message == "" {
				t.Errorf("error = %+v", er)
			}
			if er.Fallback != nil {
				t.Errorf("500 must not carry a fallback")
			}
			if strings.Contains(rec.Body.String(), "sk-ant") || strings.Contains(rec.Body.String(), "boom") {
				t.Errorf("internal detail leaked: %s", rec.Body.String())
			}
		})
	}
}

func TestHandleAPIGateway(t *testing.T) {
	h := newTestHandler(okTranslator(), "")

	resp, err := h.HandleAPIGateway(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: "post",
		Body:       `{"text":"privacy"}`,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK || resp.Headers["Access-Control-Allow-Origin"] != "*" {
		t.Errorf("response = %+v", resp)
	}

	encoded := base64.StdEncoding.EncodeToString([]byte(`{"text":"privacy"}`))
	resp, _ = h.HandleAPIGateway(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Body:            encoded,
		IsBase64Encoded: true,
	})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("base64 body status = %d", resp.StatusCode)
	}

	resp, _ = h.HandleAPIGateway(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Body:            "%%%",
		IsBase64Encoded: true,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad base64 status = %d", resp.StatusCode)
	}

	resp, _ = h.HandleAPIGateway(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodOptions})
	if resp.StatusCode != http.StatusOK || resp.Headers[RequestIDHeader] != "req-1" {
		t.Errorf("OPTIONS response = %+v", resp)
	}
}

func TestNewServer_Healthz(t *testing.T) {
	srv := NewServer(":0", newTestHandler(okTranslator(), ""), 0)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || !bytes.HasPrefix(rec.Body.Bytes(), []byte("ok")) {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}
