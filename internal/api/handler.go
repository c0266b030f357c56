// Package api exposes the translation pipeline as a hosted HTTP function.
// The same Handler serves net/http and API Gateway proxy events.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/oukeidos/legalese/internal/apperrors"
	"github.com/oukeidos/legalese/internal/logger"
	"github.com/oukeidos/legalese/internal/metadata"
	"github.com/oukeidos/legalese/internal/translation"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

const RequestIDHeader = "X-Request-Id"

// Error codes carried in ErrorResponse.Error.
const (
	CodeInvalidRequest     = "invalid_request"
	CodeMissingInput       = "missing_input"
	CodeMethodNotAllowed   = "method_not_allowed"
	CodeBackendUnavailable = "backend_unavailable"
	CodeInternal           = "internal_error"
)

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "POST, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type, Authorization",
}

// Translator is the pipeline entry point used by the handler.
type Translator interface {
	Translate(ctx context.Context, req translation.Request) (*translation.Result, error)
}

// TranslateRequest is the JSON body accepted on POST.
type TranslateRequest struct {
	Text         string `json:"text"`
	ReadingLevel string `json:"readingLevel,omitempty"`
	UserAPIKey   string `json:"userApiKey,omitempty"`
}

type ErrorResponse struct {
	Error    string              `json:"error"`
	Message  string              `json:"message"`
	Fallback *translation.Result `json:"fallback,omitempty"`
}

// Response is a transport-neutral reply.
type Response struct {
	Status  int
	Headers map[string]string
	Body    []byte
}

type Handler struct {
	translator Translator
	serverKey  string
	userKeys   bool
	newID      func() string
}

// NewHandler creates a Handler. serverKey is used when a request carries no
// userApiKey; when both are empty the request runs in demo mode.
func NewHandler(t Translator, serverKey string) *Handler {
	return &Handler{
		translator: t,
		serverKey:  strings.TrimSpace(serverKey),
		userKeys:   true,
		newID:      uuid.NewString,
	}
}

// NewProviderHandler creates a Handler for the named provider. userApiKey is
// only honoured for Anthropic.
func NewProviderHandler(t Translator, serverKey, provider string) *Handler {
	h := NewHandler(t, serverKey)
	if provider != metadata.ProviderAnthropic {
		h.DisableUserKeys()
	}
	return h
}

// DisableUserKeys makes the handler ignore userApiKey. Use it when the
// configured backend is not Anthropic, since user keys are Anthropic keys.
func (h *Handler) DisableUserKeys() {
	h.userKeys = false
}

// ErrBodyTooLarge is passed to Handle when the body exceeded MaxBodyBytes.
var ErrBodyTooLarge = errors.New("request body too large")

// Handle processes one request. readErr reports a failure reading the body.
func (h *Handler) Handle(ctx context.Context, method string, body []byte, readErr error) Response {
	requestID := h.newID()
	log := logger.With("request_id", requestID)

	resp := h.handle(ctx, log, method, body, readErr)
	if resp.Headers == nil {
		resp.Headers = map[string]string{}
	}
	for k, v := range corsHeaders {
		resp.Headers[k] = v
	}
	resp.Headers[RequestIDHeader] = requestID
	log.Info("Request served", "method", method, "status", resp.Status)
	return resp
}

func (h *Handler) handle(ctx context.Context, log *slog.Logger, method string, body []byte, readErr error) Response {
	switch method {
	case http.MethodOptions:
		return Response{Status: http.StatusOK}
	case http.MethodPost:
	default:
		resp := errorResponse(http.StatusMethodNotAllowed, CodeMethodNotAllowed, "Only POST requests are supported.", nil)
		resp.Headers["Allow"] = "POST, OPTIONS"
		return resp
	}

	if errors.Is(readErr, ErrBodyTooLarge) {
		return errorResponse(http.StatusBadRequest, CodeInvalidRequest, "Request body is too large.", nil)
	}
	if readErr != nil {
		log.Warn("Unreadable request body", "error", readErr)
		return errorResponse(http.StatusBadRequest, CodeInvalidRequest, "Request body could not be read.", nil)
	}

	var req TranslateRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			log.Warn("Invalid request body", "error", err)
			return errorResponse(http.StatusBadRequest, CodeInvalidRequest, "Request body must be a JSON object.", nil)
		}
	}

	level := translation.ParseReadingLevel(req.ReadingLevel)
	if strings.TrimSpace(req.Text) == "" {
		fallback := translation.Heuristic("", level)
		fallback.Demo = true
		return errorResponse(http.StatusBadRequest, CodeMissingInput, apperrors.PublicMessage(apperrors.MissingInput(nil)), &fallback)
	}

	credential := strings.TrimSpace(req.UserAPIKey)
	if credential != "" && !h.userKeys {
		log.Warn("Ignoring userApiKey; configured provider does not accept Anthropic keys")
		credential = ""
	}
	if credential == "" {
		credential = h.serverKey
	}

	res, err := h.translator.Translate(ctx, translation.Request{
		SourceText:   req.Text,
		ReadingLevel: level,
		Credential:   credential,
	})
	if err != nil {
		return h.failure(log, err, level)
	}

	out, err := json.Marshal(res)
	if err != nil {
		log.Error("Failed to encode result", "error", err)
		return errorResponse(http.StatusInternalServerError, CodeInternal, "Translation failed.", nil)
	}
	return Response{
		Status:  http.StatusOK,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    out,
	}
}

func (h *Handler) failure(log *slog.Logger, err error, level translation.ReadingLevel) Response {
	switch {
	case apperrors.Is(err, apperrors.KindMissingInput):
		fallback := translation.Heuristic("", level)
		fallback.Demo = true
		return errorResponse(http.StatusBadRequest, CodeMissingInput, apperrors.PublicMessage(err), &fallback)
	case apperrors.Is(err, apperrors.KindBackendUnavailable):
		log.Warn("Translation backend unavailable", "error", err, "upstream_status", apperrors.StatusOf(err))
		return errorResponse(http.StatusInternalServerError, CodeBackendUnavailable, apperrors.PublicMessage(err), nil)
	case errors.Is(err, context.Canceled):
		return errorResponse(http.StatusInternalServerError, CodeInternal, "Request was canceled.", nil)
	default:
		log.Error("Translation failed", "error", err)
		return errorResponse(http.StatusInternalServerError, CodeInternal, "Translation failed.", nil)
	}
}

func errorResponse(status int, code, message string, fallback *translation.Result) Response {
	body, _ := json.Marshal(ErrorResponse{Error: code, Message: message, Fallback: fallback})
	return Response{
		Status:  status,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    body,
	}
}
