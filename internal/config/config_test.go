package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/oukeidos/legalese/internal/metadata"
	"github.com/spf13/pflag"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != metadata.ProviderAnthropic {
		t.Errorf("Provider = %q", cfg.Provider)
	}
	if cfg.Model != metadata.DefaultModel(metadata.ProviderAnthropic) {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.Timeout != DefaultTimeout || cfg.MaxTokens != DefaultMaxTokens {
		t.Errorf("Timeout/MaxTokens = %v/%d", cfg.Timeout, cfg.MaxTokens)
	}
	if cfg.Addr != DefaultAddr || cfg.LogFormat != DefaultLogFormat {
		t.Errorf("Addr/LogFormat = %q/%q", cfg.Addr, cfg.LogFormat)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("LEGALESE_PROVIDER", "Gemini")
	t.Setenv("LEGALESE_TIMEOUT", "45")
	t.Setenv("LEGALESE_MAX_TOKENS", "2048")
	t.Setenv("LEGALESE_LOG_FORMAT", "JSON")

	cfg, err := Load(New(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != metadata.ProviderGemini {
		t.Errorf("Provider = %q", cfg.Provider)
	}
	if cfg.Model != metadata.DefaultModel(metadata.ProviderGemini) {
		t.Errorf("Model = %q, want gemini default", cfg.Model)
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.MaxTokens != 2048 {
		t.Errorf("MaxTokens = %d", cfg.MaxTokens)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q", cfg.LogFormat)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legalese.yaml")
	content := "model: claude-3-5-haiku-20241022\ntimeout: 90s\nendpoint: https://proxy.example.com/v1/\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(New(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != "claude-3-5-haiku-20241022" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.Endpoint != "https://proxy.example.com/v1" {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("LEGALESE_MODEL", "from-env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("model", "", "")
	flags.String("log-level", "", "")
	if err := flags.Parse([]string{"--model", "from-flag", "--log-level", "DEBUG"}); err != nil {
		t.Fatal(err)
	}

	v := New()
	if err := BindFlags(v, flags); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	cfg, err := Load(v, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != "from-flag" {
		t.Errorf("Model = %q, want flag value", cfg.Model)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("unknown provider", func(t *testing.T) {
		t.Setenv("LEGALESE_PROVIDER", "openai")
		if _, err := Load(New(), ""); err == nil || !strings.Contains(err.Error(), "unknown provider") {
			t.Fatalf("expected unknown provider error, got %v", err)
		}
	})
	t.Run("bad timeout", func(t *testing.T) {
		t.Setenv("LEGALESE_TIMEOUT", "soon")
		if _, err := Load(New(), ""); err == nil {
			t.Fatalf("expected timeout error")
		}
	})
	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(New(), filepath.Join(t.TempDir(), "none.yaml")); err == nil {
			t.Fatalf("expected read error")
		}
	})
}

func TestNormalize_Clamps(t *testing.T) {
	cfg := Config{MaxTokens: 100000, Timeout: time.Hour, LogFormat: "xml"}
	cfg.Normalize()
	if cfg.MaxTokens != MaxMaxTokens {
		t.Errorf("MaxTokens = %d", cfg.MaxTokens)
	}
	if cfg.Timeout != MaxTimeout {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.LogFormat != DefaultLogFormat {
		t.Errorf("LogFormat = %q", cfg.LogFormat)
	}
}
