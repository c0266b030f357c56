package auth

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/oukeidos/legalese/internal/metadata"
	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

const (
	serviceName      = "legalese"
	anthropicAccount = "claudeApiKey"
	geminiAccount    = "geminiApiKey"
	anthropicEnvVar  = "ANTHROPIC_API_KEY"
	geminiEnvVar     = "GEMINI_API_KEY"
)

// Key sources reported by GetKey.
const (
	SourceKeychain = "Keychain"
	SourceEnv      = "Environment Variable"
)

func accountFor(provider string) (account, envVar string) {
	if provider == metadata.ProviderGemini {
		return geminiAccount, geminiEnvVar
	}
	return anthropicAccount, anthropicEnvVar
}

// EnvVar returns the environment variable consulted for provider.
func EnvVar(provider string) string {
	_, envVar := accountFor(provider)
	return envVar
}

// GetKey retrieves the stored API key for a provider (anthropic or gemini).
// If allowEnv is false, environment variables are ignored.
func GetKey(provider string, allowEnv bool) (string, string) {
	account, envVar := accountFor(provider)

	key, err := keyring.Get(serviceName, account)
	if err == nil && strings.TrimSpace(key) != "" {
		return strings.TrimSpace(key), SourceKeychain
	}

	if allowEnv {
		if key = strings.TrimSpace(os.Getenv(envVar)); key != "" {
			return key, SourceEnv
		}
	}

	return "", ""
}

// SaveKey saves the key for a provider to the OS keychain.
func SaveKey(provider, key string) error {
	account, _ := accountFor(provider)
	return keyring.Set(serviceName, account, strings.TrimSpace(key))
}

// DeleteKey removes the key for a provider from the OS keychain.
func DeleteKey(provider string) error {
	account, _ := accountFor(provider)
	return keyring.Delete(serviceName, account)
}

// GetStatus reports whether the keychain holds a key for provider.
func GetStatus(provider string) bool {
	account, _ := accountFor(provider)
	key, err := keyring.Get(serviceName, account)
	return err == nil && strings.TrimSpace(key) != ""
}

// PromptForAPIKey reads an API key from the terminal without echo.
func PromptForAPIKey(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Fprintln(os.Stderr)
	return strings.TrimSpace(string(bytePassword)), nil
}

// GetEnvKey retrieves the key from environment variables only.
func GetEnvKey(provider string) (string, bool) {
	key := strings.TrimSpace(os.Getenv(EnvVar(provider)))
	if key == "" {
		return "", false
	}
	return key, true
}
