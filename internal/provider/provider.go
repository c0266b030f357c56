package provider

import (
	"fmt"

	"github.com/oukeidos/legalese/internal/anthropic"
	"github.com/oukeidos/legalese/internal/config"
	"github.com/oukeidos/legalese/internal/gemini"
	"github.com/oukeidos/legalese/internal/metadata"
	"github.com/oukeidos/legalese/internal/translation"
)

// NewBackend builds the text-generation backend selected by cfg.
func NewBackend(cfg config.Config) (translation.Backend, error) {
	switch cfg.Provider {
	case metadata.ProviderAnthropic:
		c := anthropic.NewClient(cfg.Model, cfg.MaxTokens)
		c.SetBaseURL(cfg.Endpoint)
		c.SetTimeout(cfg.Timeout)
		return c, nil
	case metadata.ProviderGemini:
		return gemini.NewClient(cfg.Model, cfg.MaxTokens), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

// NewTranslator wires the configured backend into a Translator.
func NewTranslator(cfg config.Config) (*translation.Translator, error) {
	backend, err := NewBackend(cfg)
	if err != nil {
		return nil, err
	}
	return translation.NewTranslator(backend, cfg.Timeout), nil
}
