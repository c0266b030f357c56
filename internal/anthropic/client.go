package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/oukeidos/legalese/internal/apperrors"
	"github.com/oukeidos/legalese/internal/httpclient"
	"github.com/oukeidos/legalese/internal/logger"
	"github.com/oukeidos/legalese/internal/translation"
)

// Client calls the Anthropic messages API. The API key is supplied per call.
type Client struct {
	http      *resty.Client
	model     string
	maxTokens int
	baseURL   string
}

var _ translation.Backend = (*Client)(nil)

// NewClient creates a client for model. A non-positive maxTokens selects DefaultMaxTokens.
func NewClient(model string, maxTokens int) *Client {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Client{
		http:      newRestyClient(httpclient.GetDefaultClient()),
		model:     model,
		maxTokens: maxTokens,
		baseURL:   DefaultBaseURL,
	}
}

func newRestyClient(hc *http.Client) *resty.Client {
	return resty.NewWithClient(hc).
		SetResponseBodyLimit(httpclient.MaxResponseBytes).
		SetHeader("Content-Type", "application/json").
		SetHeader("anthropic-version", APIVersion)
}

// SetTimeout raises the transport timeout so it never cuts a call short of d.
// The caller's context still bounds each request.
func (c *Client) SetTimeout(d time.Duration) {
	c.http = newRestyClient(httpclient.ClientWithTimeout(d))
}

// Timeout reports the transport timeout in effect.
func (c *Client) Timeout() time.Duration {
	return c.http.GetClient().Timeout
}

// SetBaseURL points the client at a different API root, e.g. a proxy.
func (c *Client) SetBaseURL(u string) {
	if u = strings.TrimRight(strings.TrimSpace(u), "/"); u != "" {
		c.baseURL = u
	}
}

// GetModelID returns the configured model identifier.
func (c *Client) GetModelID() string {
	return c.model
}

// Complete sends prompt as a single user message and returns the first text block.
func (c *Client) Complete(ctx context.Context, credential, prompt string) (*translation.Reply, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, apperrors.New(apperrors.KindBackendUnavailable, "An Anthropic API key is required.", errors.New("empty credential"))
	}

	body := MessagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  []Message{{Role: "user", Content: prompt}},
	}

	var result MessagesResponse
	var failure errorEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("x-api-key", credential).
		SetBody(body).
		SetResult(&result).
		SetError(&failure).
		Post(c.baseURL + "/messages")
	if err != nil {
		return nil, apperrors.New(
			apperrors.KindBackendUnavailable,
			"Anthropic request failed due to a network or runtime error.",
			fmt.Errorf("request failed: %w", err),
		)
	}

	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, classifyAnthropicError(resp.StatusCode(), resp.Status(), failure.Error)
	}

	logger.Debug("Anthropic API response", "status", resp.Status(), "response_id", result.ID, "stop_reason", result.StopReason)

	text, err := extractText(&result)
	if err != nil {
		return nil, apperrors.WithStatus(apperrors.KindBackendUnavailable, resp.StatusCode(), "Anthropic returned an empty reply.", err)
	}

	model := result.Model
	if model == "" {
		model = c.model
	}
	return &translation.Reply{
		Text:  text,
		Model: model,
		Usage: translation.Usage{
			InputTokens:  result.Usage.InputTokens,
			OutputTokens: result.Usage.OutputTokens,
		},
	}, nil
}

// extractText returns the first non-empty text block.
func extractText(resp *MessagesResponse) (string, error) {
	if resp == nil || len(resp.Content) == 0 {
		return "", errors.New("no content blocks in Anthropic response")
	}
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", errors.New("no text blocks in Anthropic response")
}

func classifyAnthropicError(statusCode int, status string, details errorDetails) error {
	cause := fmt.Errorf("anthropic status=%s type=%s message=%s", status, details.Type, details.Message)

	var msg string
	switch {
	case statusCode == 401 || statusCode == 403:
		msg = fmt.Sprintf("Anthropic API authentication failed (%d): please verify your API key.", statusCode)
	case statusCode == 429:
		msg = "Anthropic API rate limit exceeded (429): please try again later."
	case statusCode == 404:
		msg = "The model does not exist or you do not have access to it."
	case statusCode == 529:
		msg = "Anthropic API is overloaded (529): please try again later."
	case statusCode >= 500:
		msg = fmt.Sprintf("Anthropic server error (%d): please try again later.", statusCode)
	default:
		msg = fmt.Sprintf("Anthropic API error (%d).", statusCode)
	}
	return apperrors.WithStatus(apperrors.KindBackendUnavailable, statusCode, msg, cause)
}
