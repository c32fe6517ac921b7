package config

import "time"

// Config is the top-level service configuration, corresponding to
// .symbolica.yml.
type Config struct {
	DefaultProvider       string            `yaml:"default_provider" koanf:"default_provider"`
	ProviderPriority      []string          `yaml:"provider_priority" koanf:"provider_priority"`
	Models                map[string]string `yaml:"models" koanf:"models"`
	RequestTimeoutSeconds int               `yaml:"request_timeout_seconds" koanf:"request_timeout_seconds"`
	RPM                   int               `yaml:"rpm" koanf:"rpm"`
	Port                  int               `yaml:"port" koanf:"port"`
	DataDir               string            `yaml:"data_dir" koanf:"data_dir"`
	EmbeddingProvider     string            `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel        string            `yaml:"embedding_model" koanf:"embedding_model"`
	Confidence            ConfidenceConfig  `yaml:"confidence" koanf:"confidence"`
	Evidence              EvidenceConfig    `yaml:"evidence" koanf:"evidence"`
}

// ConfidenceConfig tunes the heuristic confidence scorer. The scores are
// advisory and surfaced to editors, not used for gating.
type ConfidenceConfig struct {
	Bases             map[string]int `yaml:"bases" koanf:"bases"`
	ValidationPenalty int            `yaml:"validation_penalty" koanf:"validation_penalty"`
	Minimum           int            `yaml:"minimum" koanf:"minimum"`
}

// EvidenceConfig holds the vote thresholds for clue evidence status
// derivation.
type EvidenceConfig struct {
	ConfirmVotes int `yaml:"confirm_votes" koanf:"confirm_votes"`
	DisputeVotes int `yaml:"dispute_votes" koanf:"dispute_votes"`
}

// RequestTimeout returns the per-provider attempt timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Model returns the configured completion model for a provider, or an
// empty string when none is configured.
func (c *Config) Model(provider string) string {
	return c.Models[provider]
}
