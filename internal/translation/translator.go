package translation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oukeidos/legalese/internal/apperrors"
	"github.com/oukeidos/legalese/internal/logger"
	"github.com/oukeidos/legalese/internal/metadata"
)

// DefaultTimeout bounds a single backend call.
const DefaultTimeout = 30 * time.Second

// Translator is the single entry point shared by every boundary.
// It holds no mutable state and is safe for concurrent use.
type Translator struct {
	backend Backend
	timeout time.Duration
}

// NewTranslator creates a Translator. A non-positive timeout selects DefaultTimeout.
// backend may be nil, in which case only demo-mode requests succeed.
func NewTranslator(backend Backend, timeout time.Duration) *Translator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Translator{backend: backend, timeout: timeout}
}

// Translate runs the pipeline for one request.
//
// Without a credential the heuristic translator answers and the result is
// marked as demo output. Backend failures are returned as
// apperrors.KindBackendUnavailable and are never replaced by demo output;
// callers decide whether to fall back.
func (t *Translator) Translate(ctx context.Context, req Request) (*Result, error) {
	req = req.Normalize()
	if req.SourceText == "" {
		return nil, apperrors.MissingInput(errors.New("source text is empty"))
	}

	if req.Credential == "" {
		res := Heuristic(req.SourceText, req.ReadingLevel)
		res.Demo = true
		logger.Info("Demo translation", "level", req.ReadingLevel, "document_type", res.DocumentType, "risk_score", res.RiskScore)
		return &res, nil
	}

	if t.backend == nil {
		return nil, apperrors.New(apperrors.KindBackendUnavailable, "No translation backend is configured.", errors.New("translator has no backend"))
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	start := time.Now()
	reply, err := t.backend.Complete(ctx, req.Credential, BuildPrompt(req.SourceText, req.ReadingLevel))
	if err == nil && reply == nil {
		err = errors.New("backend returned no reply")
	}
	if err != nil {
		if !apperrors.Is(err, apperrors.KindBackendUnavailable) {
			err = apperrors.BackendUnavailable(fmt.Errorf("backend call failed: %w", err))
		}
		logger.Warn("Backend unavailable", "error", err, "status", apperrors.StatusOf(err), "elapsed", time.Since(start))
		logger.Debug("Backend failure cause", "cause", errors.Unwrap(err))
		return nil, err
	}

	res := Parse(reply.Text)
	res.Model = reply.Model

	logger.Info("Translation completed",
		"level", req.ReadingLevel,
		"model", reply.Model,
		"document_type", res.DocumentType,
		"risk_score", res.RiskScore,
		"elapsed", time.Since(start),
	)
	if reply.Usage.InputTokens > 0 || reply.Usage.OutputTokens > 0 {
		logger.Debug("Backend usage",
			"model", reply.Model,
			"usage_in", reply.Usage.InputTokens,
			"usage_out", reply.Usage.OutputTokens,
			"est_cost_usd", metadata.EstimateCost(reply.Model, reply.Usage.InputTokens, reply.Usage.OutputTokens),
		)
	}
	return &res, nil
}
