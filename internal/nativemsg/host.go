package nativemsg

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/oukeidos/legalese/internal/apperrors"
	"github.com/oukeidos/legalese/internal/logger"
	"github.com/oukeidos/legalese/internal/translation"
	"github.com/oukeidos/legalese/internal/version"
)

// Message types.
const (
	TypeTranslate   = "translate"
	TypeTranslation = "translation"
	TypePing        = "ping"
	TypePong        = "pong"
	TypeError       = "error"
)

type Translator interface {
	Translate(ctx context.Context, req translation.Request) (*translation.Result, error)
}

// KeyFunc returns the stored credential. It is called for every request so a
// key saved while the host runs takes effect immediately.
type KeyFunc func() string

type Request struct {
	Type         string `json:"type"`
	RequestID    string `json:"requestId,omitempty"`
	Text         string `json:"text"`
	ReadingLevel string `json:"readingLevel,omitempty"`
}

type Reply struct {
	Type         string   `json:"type"`
	RequestID    string   `json:"requestId,omitempty"`
	Translation  string   `json:"translation,omitempty"`
	DocumentType string   `json:"documentType,omitempty"`
	RiskScore    int      `json:"riskScore,omitempty"`
	RiskLevel    string   `json:"riskLevel,omitempty"`
	Concerns     []string `json:"concerns,omitempty"`
	Demo         bool     `json:"demo,omitempty"`
	Version      string   `json:"version,omitempty"`
	Error        string   `json:"error,omitempty"`
}

type Host struct {
	translator Translator
	key        KeyFunc
}

func NewHost(t Translator, key KeyFunc) *Host {
	if key == nil {
		key = func() string { return "" }
	}
	return &Host{translator: t, key: key}
}

// Serve answers messages from r on w until r is exhausted or ctx is done.
// Messages are handled one at a time in arrival order.
func (h *Host) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, err := ReadMessage(r)
		if err == io.EOF {
			return nil
		}
		if errors.Is(err, ErrMessageTooLarge) {
			logger.Warn("Rejected oversized native message")
			if werr := WriteMessage(w, Reply{Type: TypeError, Error: "Message is too large."}); werr != nil {
				return werr
			}
			continue
		}
		if err != nil {
			return err
		}

		if err := WriteMessage(w, h.handle(ctx, raw)); err != nil {
			return err
		}
	}
}

func (h *Host) handle(ctx context.Context, raw []byte) Reply {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return Reply{Type: TypeError, Error: "Message must be a JSON object."}
	}
	id := req.RequestID
	if id == "" {
		id = uuid.NewString()
	}
	log := logger.With("request_id", id)

	switch req.Type {
	case TypePing:
		return Reply{Type: TypePong, RequestID: req.RequestID, Version: version.Version}
	case TypeTranslate:
	default:
		log.Warn("Unsupported native message", "type", req.Type)
		return Reply{Type: TypeError, RequestID: req.RequestID, Error: "Unsupported message type."}
	}

	if strings.TrimSpace(req.Text) == "" {
		return Reply{Type: TypeError, RequestID: req.RequestID, Error: apperrors.PublicMessage(apperrors.MissingInput(nil))}
	}

	res, err := h.translator.Translate(ctx, translation.Request{
		SourceText:   req.Text,
		ReadingLevel: translation.ParseReadingLevel(req.ReadingLevel),
		Credential:   h.key(),
	})
	if err != nil {
		log.Warn("Native translation failed", "error", err)
		msg := "Translation failed."
		if _, ok := apperrors.KindOf(err); ok {
			msg = apperrors.PublicMessage(err)
		}
		return Reply{Type: TypeError, RequestID: req.RequestID, Error: msg}
	}

	return Reply{
		Type:         TypeTranslation,
		RequestID:    req.RequestID,
		Translation:  res.Translation,
		DocumentType: res.DocumentType,
		RiskScore:    res.RiskScore,
		RiskLevel:    string(res.RiskLevel),
		Concerns:     res.Concerns,
		Demo:         res.Demo,
	}
}
