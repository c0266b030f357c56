package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/oukeidos/legalese/internal/auth"
	"github.com/oukeidos/legalese/internal/logger"
	"github.com/oukeidos/legalese/internal/metadata"
	"github.com/oukeidos/legalese/internal/provider"
	"golang.org/x/term"
)

var (
	isTerminal    = term.IsTerminal
	getKey        = auth.GetKey
	getEnvKey     = auth.GetEnvKey
	getStatus     = auth.GetStatus
	promptForKey  = auth.PromptForAPIKey
	saveKey       = auth.SaveKey
	deleteKey     = auth.DeleteKey
	newTranslator = provider.NewTranslator
)

// errNoAPIKey means no credential was found and the caller should run in demo mode.
var errNoAPIKey = errors.New("no API key available")

const sourcePrompt = "Terminal Prompt"

func providerLabel(p string) string {
	if p == metadata.ProviderGemini {
		return "Gemini"
	}
	return "Anthropic"
}

// resolveAPIKey finds the credential for provider: keychain first, then the
// environment when allowed, then an interactive prompt.
func resolveAPIKey(p string, allowEnv, envOnly bool) (string, string, error) {
	if envOnly {
		if key, ok := getEnvKey(p); ok {
			return key, auth.SourceEnv, nil
		}
		return "", "", fmt.Errorf("env-only set but %s is not set", auth.EnvVar(p))
	}

	if key, source := getKey(p, false); key != "" {
		return key, source, nil
	}

	if allowEnv {
		if key, ok := getEnvKey(p); ok {
			return key, auth.SourceEnv, nil
		}
	}

	if isTerminal(int(os.Stdin.Fd())) {
		key, err := promptForKey(fmt.Sprintf("%s API Key (press Enter for demo mode): ", providerLabel(p)))
		if err != nil {
			return "", "", fmt.Errorf("error reading API key: %w", err)
		}
		if key = strings.TrimSpace(key); key != "" {
			return key, sourcePrompt, nil
		}
	}

	return "", "", errNoAPIKey
}

func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("Cancellation requested")
			cancel()
		case <-ctx.Done():
		}
	}()
	stop := func() {
		signal.Stop(sigCh)
		cancel()
	}
	return ctx, stop
}
