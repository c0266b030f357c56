package apperrors

import (
	"errors"
	"strings"
)

type Kind string

const (
	// KindMissingInput is raised before the pipeline runs when there is no source text.
	KindMissingInput Kind = "missing_input"
	// KindBackendUnavailable covers transport failures and non-2xx replies from the backend.
	KindBackendUnavailable Kind = "backend_unavailable"
	// KindMalformedReply is absorbed by the reply parser and never reaches a caller.
	KindMalformedReply Kind = "malformed_reply"
)

type Error struct {
	Kind Kind
	// SafeMessage is intended for user-facing output and logs.
	SafeMessage string
	// Cause keeps the original internal error for troubleshooting.
	Cause error
	// Status is the upstream HTTP status, zero when the call never completed.
	Status int
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if msg := strings.TrimSpace(e.SafeMessage); msg != "" {
		return msg
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func defaultSafeMessage(kind Kind) string {
	switch kind {
	case KindMissingInput:
		return "No text was provided to translate."
	case KindBackendUnavailable:
		return "The translation service is unavailable. Please try again later."
	case KindMalformedReply:
		return "The translation service returned an unexpected reply."
	default:
		return "Request failed."
	}
}

func New(kind Kind, safeMessage string, cause error) error {
	msg := strings.TrimSpace(safeMessage)
	if msg == "" {
		msg = defaultSafeMessage(kind)
	}
	return &Error{
		Kind:        kind,
		SafeMessage: msg,
		Cause:       cause,
	}
}

// WithStatus is New for failures that carry an upstream HTTP status.
func WithStatus(kind Kind, status int, safeMessage string, cause error) error {
	err := New(kind, safeMessage, cause).(*Error)
	err.Status = status
	return err
}

func MissingInput(err error) error {
	return New(KindMissingInput, "", err)
}

func BackendUnavailable(err error) error {
	return New(KindBackendUnavailable, "", err)
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

// Is reports whether err is an *Error of the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// StatusOf returns the upstream HTTP status recorded on err, if any.
func StatusOf(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return 0
	}
	return e.Status
}

func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}
