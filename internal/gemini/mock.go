package gemini

import (
	"context"

	"github.com/google/generative-ai-go/genai"
)

// MockGenerator is a Generator returning canned values.
type MockGenerator struct {
	Response *genai.GenerateContentResponse
	Error    error
	Prompts  []string
	Closed   bool
}

func (m *MockGenerator) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	for _, p := range parts {
		if text, ok := p.(genai.Text); ok {
			m.Prompts = append(m.Prompts, string(text))
		}
	}
	return m.Response, m.Error
}

func (m *MockGenerator) Close() error {
	m.Closed = true
	return nil
}
