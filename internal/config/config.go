package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/oukeidos/legalese/internal/metadata"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "LEGALESE"

const (
	DefaultProvider  = metadata.ProviderAnthropic
	DefaultMaxTokens = 1024
	MaxMaxTokens     = 8192
	DefaultTimeout   = 30 * time.Second
	MaxTimeout       = 2 * time.Minute
	DefaultAddr      = ":8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// Config keys. Flags use the same names with '-' instead of '_'.
const (
	KeyProvider  = "provider"
	KeyModel     = "model"
	KeyEndpoint  = "endpoint"
	KeyMaxTokens = "max_tokens"
	KeyTimeout   = "timeout"
	KeyAddr      = "addr"
	KeyLogLevel  = "log_level"
	KeyLogFormat = "log_format"
)

type Config struct {
	Provider string
	Model    string
	// Endpoint overrides the backend API root; empty uses the provider default.
	Endpoint  string
	MaxTokens int
	Timeout   time.Duration
	Addr      string
	LogLevel  string
	LogFormat string
}

// New returns a viper instance with defaults and LEGALESE_* environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyProvider, DefaultProvider)
	v.SetDefault(KeyModel, "")
	v.SetDefault(KeyEndpoint, "")
	v.SetDefault(KeyMaxTokens, DefaultMaxTokens)
	v.SetDefault(KeyTimeout, DefaultTimeout.String())
	v.SetDefault(KeyAddr, DefaultAddr)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds every known key to the flag of the same name, when present.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, key := range []string{KeyProvider, KeyModel, KeyEndpoint, KeyMaxTokens, KeyTimeout, KeyAddr, KeyLogLevel, KeyLogFormat} {
		f := flags.Lookup(strings.ReplaceAll(key, "_", "-"))
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", f.Name, err)
		}
	}
	return nil
}

// Load reads the optional config file and returns the normalized, validated config.
func Load(v *viper.Viper, configFile string) (Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	timeout, err := parseTimeout(v.GetString(KeyTimeout))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Provider:  v.GetString(KeyProvider),
		Model:     v.GetString(KeyModel),
		Endpoint:  v.GetString(KeyEndpoint),
		MaxTokens: v.GetInt(KeyMaxTokens),
		Timeout:   timeout,
		Addr:      v.GetString(KeyAddr),
		LogLevel:  v.GetString(KeyLogLevel),
		LogFormat: v.GetString(KeyLogFormat),
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// parseTimeout accepts a Go duration ("45s") or a bare number of seconds.
func parseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", s, err)
	}
	return d, nil
}

// Normalize fills defaults and clamps out-of-range values.
func (c *Config) Normalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	c.Model = strings.TrimSpace(c.Model)
	if c.Model == "" {
		c.Model = metadata.DefaultModel(c.Provider)
	}
	c.Endpoint = strings.TrimRight(strings.TrimSpace(c.Endpoint), "/")

	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.MaxTokens > MaxMaxTokens {
		c.MaxTokens = MaxMaxTokens
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Timeout > MaxTimeout {
		c.Timeout = MaxTimeout
	}

	if strings.TrimSpace(c.Addr) == "" {
		c.Addr = DefaultAddr
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat != "json" {
		c.LogFormat = DefaultLogFormat
	}
}

func (c Config) Validate() error {
	switch c.Provider {
	case metadata.ProviderAnthropic, metadata.ProviderGemini:
	default:
		return fmt.Errorf("unknown provider %q (supported: %s, %s)", c.Provider, metadata.ProviderAnthropic, metadata.ProviderGemini)
	}
	if c.Model == "" {
		return fmt.Errorf("no model configured for provider %s", c.Provider)
	}
	return nil
}
