package api

import (
	"errors"
	"io"
	"net/http"
	"time"
)

// ServeHTTP adapts Handle to net/http.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body []byte
	var readErr error
	if r.Method == http.MethodPost && r.Body != nil {
		body, readErr = io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
		var maxErr *http.MaxBytesError
		if errors.As(readErr, &maxErr) {
			readErr = ErrBodyTooLarge
		}
	}

	resp := h.Handle(r.Context(), r.Method, body, readErr)
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.Status)
	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}

// NewServer wraps h in an http.Server with conservative timeouts.
// writeTimeout should exceed the backend timeout.
func NewServer(addr string, h http.Handler, writeTimeout time.Duration) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/", h)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      writeTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
