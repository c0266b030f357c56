package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/oukeidos/legalese/internal/apperrors"
	"github.com/oukeidos/legalese/internal/logger"
	"github.com/oukeidos/legalese/internal/translation"
	"google.golang.org/api/option"
)

// Generator is the slice of genai used by Client, split out for mocking.
type Generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
	Close() error
}

// GeneratorFactory opens a Generator bound to one API key.
type GeneratorFactory func(ctx context.Context, apiKey, modelName string) (Generator, error)

// Client implements translation.Backend on top of the Gemini API.
// A genai client is opened per call because the key arrives with each request.
type Client struct {
	modelName string
	maxTokens int32
	open      GeneratorFactory
}

var _ translation.Backend = (*Client)(nil)

// NewClient creates a Gemini backend for modelName.
func NewClient(modelName string, maxTokens int) *Client {
	c := &Client{modelName: modelName, maxTokens: int32(maxTokens)}
	c.open = c.openGenAI
	return c
}

// NewClientWithFactory is NewClient with a custom generator source.
func NewClientWithFactory(modelName string, open GeneratorFactory) *Client {
	return &Client{modelName: modelName, open: open}
}

// GetModelID returns the configured model identifier.
func (c *Client) GetModelID() string {
	return c.modelName
}

type genaiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func (g *genaiGenerator) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	return g.model.GenerateContent(ctx, parts...)
}

func (g *genaiGenerator) Close() error {
	return g.client.Close()
}

func (c *Client) openGenAI(ctx context.Context, apiKey, modelName string) (Generator, error) {
	// option.WithHTTPClient would drop the API key header injection, so the
	// deadline comes from ctx instead.
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	if c.maxTokens > 0 {
		model.SetMaxOutputTokens(c.maxTokens)
	}
	return &genaiGenerator{client: client, model: model}, nil
}

// Complete sends prompt to Gemini and returns the concatenated text parts.
func (c *Client) Complete(ctx context.Context, credential, prompt string) (*translation.Reply, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, apperrors.New(apperrors.KindBackendUnavailable, "A Gemini API key is required.", errors.New("empty credential"))
	}

	gen, err := c.open(ctx, credential, c.modelName)
	if err != nil {
		return nil, apperrors.New(apperrors.KindBackendUnavailable, "Failed to initialize the Gemini client.", err)
	}
	defer gen.Close()

	resp, err := gen.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, classifyGeminiError(err)
	}

	text, err := extractResponseText(resp)
	if err != nil {
		return nil, apperrors.New(apperrors.KindBackendUnavailable, "Gemini returned an empty reply.", err)
	}

	reply := &translation.Reply{Text: text, Model: c.modelName}
	if resp.UsageMetadata != nil {
		reply.Usage = translation.Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	logger.Debug("Gemini API response", "candidates", len(resp.Candidates), "model", c.modelName)
	return reply, nil
}

func extractResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("no response received from Gemini")
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
			continue
		}
		var sb strings.Builder
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		if sb.Len() > 0 {
			return sb.String(), nil
		}
	}
	return "", fmt.Errorf("no text parts found in Gemini response")
}
