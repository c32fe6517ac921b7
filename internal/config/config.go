// Package config loads, validates, and persists the .symbolica.yml
// service configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// DefaultPath is where the service looks for its configuration file.
const DefaultPath = ".symbolica.yml"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (SYMBOLICA_*). A missing file is not an
// error; defaults apply.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// SYMBOLICA_PORT -> port, SYMBOLICA_DEFAULT_PROVIDER -> default_provider.
	if err := k.Load(env.Provider("SYMBOLICA_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SYMBOLICA_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider names.
var validProviders = map[string]bool{
	"openai":     true,
	"anthropic":  true,
	"google":     true,
	"openrouter": true,
	"ollama":     true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.DefaultProvider == "" {
		return fmt.Errorf("default_provider is required")
	}
	if !validProviders[c.DefaultProvider] {
		return fmt.Errorf("invalid default_provider %q: must be one of openai, anthropic, google, openrouter, ollama", c.DefaultProvider)
	}

	for _, p := range c.ProviderPriority {
		if !validProviders[p] {
			return fmt.Errorf("invalid provider %q in provider_priority", p)
		}
	}

	if c.Model(c.DefaultProvider) == "" {
		return fmt.Errorf("no model configured for default_provider %q", c.DefaultProvider)
	}

	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive")
	}
	if c.RPM < 0 {
		return fmt.Errorf("rpm must be non-negative")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.EmbeddingProvider != "" && !validProviders[c.EmbeddingProvider] {
		return fmt.Errorf("invalid embedding_provider %q", c.EmbeddingProvider)
	}

	if c.Confidence.ValidationPenalty < 0 || c.Confidence.ValidationPenalty > 100 {
		return fmt.Errorf("confidence.validation_penalty must be in 0..100")
	}
	if c.Confidence.Minimum < 0 || c.Confidence.Minimum > 100 {
		return fmt.Errorf("confidence.minimum must be in 0..100")
	}
	for provider, base := range c.Confidence.Bases {
		if base < 0 || base > 100 {
			return fmt.Errorf("confidence.bases.%s must be in 0..100", provider)
		}
	}

	if c.Evidence.ConfirmVotes < 1 {
		return fmt.Errorf("evidence.confirm_votes must be at least 1")
	}
	if c.Evidence.DisputeVotes < 1 {
		return fmt.Errorf("evidence.dispute_votes must be at least 1")
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider string) string {
	switch provider {
	case "openai":
		return "OPENAI_API_KEY"
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "google":
		return "GOOGLE_API_KEY"
	case "openrouter":
		return "OPENROUTER_API_KEY"
	default:
		return ""
	}
}
