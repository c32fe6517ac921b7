package config

// DefaultModels maps each supported provider to its default completion
// model.
var DefaultModels = map[string]string{
	"openai":     "gpt-4o",
	"anthropic":  "claude-sonnet-4-5-20250929",
	"google":     "gemini-2.0-flash",
	"openrouter": "minimax/minimax-m2.5",
	"ollama":     "llama3",
}

// DefaultPriority is the fallback order tried when the preferred
// provider fails.
var DefaultPriority = []string{"openai", "anthropic", "google", "openrouter", "ollama"}

// DefaultConfidenceBases maps each provider to its base confidence
// score before field adjustments.
var DefaultConfidenceBases = map[string]int{
	"openai":     88,
	"anthropic":  90,
	"google":     85,
	"openrouter": 82,
	"ollama":     75,
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	models := make(map[string]string, len(DefaultModels))
	for provider, model := range DefaultModels {
		models[provider] = model
	}
	bases := make(map[string]int, len(DefaultConfidenceBases))
	for provider, base := range DefaultConfidenceBases {
		bases[provider] = base
	}

	return &Config{
		DefaultProvider:       "openai",
		ProviderPriority:      append([]string(nil), DefaultPriority...),
		Models:                models,
		RequestTimeoutSeconds: 10,
		RPM:                   0,
		Port:                  8642,
		DataDir:               ".symbolica",
		EmbeddingProvider:     "openai",
		EmbeddingModel:        "text-embedding-3-small",
		Confidence: ConfidenceConfig{
			Bases:             bases,
			ValidationPenalty: 30,
			Minimum:           30,
		},
		Evidence: EvidenceConfig{
			ConfirmVotes: 3,
			DisputeVotes: 2,
		},
	}
}
