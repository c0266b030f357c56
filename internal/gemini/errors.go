package gemini

import (
	"errors"
	"fmt"

	"github.com/oukeidos/legalese/internal/apperrors"
	"google.golang.org/api/googleapi"
)

// classifyGeminiError maps SDK failures to backend-unavailable errors with a
// safe message and the upstream status when one exists.
func classifyGeminiError(err error) error {
	if err == nil {
		return nil
	}

	wrapped := fmt.Errorf("gemini generate content failed: %w", err)

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		var msg string
		switch {
		case gerr.Code == 404:
			msg = "Gemini model not found or no access (404)."
		case gerr.Code == 400:
			msg = "Gemini request rejected (400)."
		case gerr.Code == 401 || gerr.Code == 403:
			msg = fmt.Sprintf("Gemini authentication/authorization failed (%d).", gerr.Code)
		case gerr.Code == 429:
			msg = "Gemini rate limit exceeded (429). Please try again later."
		case gerr.Code >= 500:
			msg = fmt.Sprintf("Gemini service temporary error (%d). Please retry.", gerr.Code)
		default:
			msg = fmt.Sprintf("Gemini API error (%d).", gerr.Code)
		}
		return apperrors.WithStatus(apperrors.KindBackendUnavailable, gerr.Code, msg, wrapped)
	}

	// DNS, socket and deadline failures never produced an HTTP status.
	return apperrors.New(apperrors.KindBackendUnavailable, "Gemini request failed due to a network or runtime error.", wrapped)
}
