package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/symbolica-app/symbolica/internal/config"
	"github.com/symbolica-app/symbolica/internal/enrich"
	"github.com/symbolica-app/symbolica/internal/llm"
	"github.com/symbolica-app/symbolica/internal/related"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `symbolica init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// buildProviders constructs one client per credentialed provider in the
// configured priority order. Providers without credentials are skipped;
// they are simply not eligible for dispatch.
func buildProviders(cfg *config.Config) ([]llm.Provider, error) {
	creds := llm.CredentialsFromEnv()

	var providers []llm.Provider
	for _, name := range cfg.ProviderPriority {
		if !creds.Has(name) {
			continue
		}
		p, err := llm.New(name, creds, cfg.Model(name))
		if err != nil {
			return nil, fmt.Errorf("creating provider %s: %w", name, err)
		}
		if cfg.RPM > 0 {
			p = llm.NewRateLimitedProvider(p, cfg.RPM)
		}
		providers = append(providers, p)
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("no provider credentials configured; set at least one of OPENAI_API_KEY, ANTHROPIC_API_KEY, GOOGLE_API_KEY, OPENROUTER_API_KEY, or OLLAMA_HOST")
	}
	return providers, nil
}

// buildPipeline assembles the enrichment pipeline from the config.
func buildPipeline(cfg *config.Config, notifier enrich.Notifier) (*enrich.Pipeline, error) {
	providers, err := buildProviders(cfg)
	if err != nil {
		return nil, err
	}

	dispatcher := enrich.NewDispatcher(providers, cfg.ProviderPriority, cfg.DefaultProvider, cfg.RequestTimeout())
	scorer := enrich.NewScorer(cfg.Confidence.Bases, cfg.Confidence.ValidationPenalty, cfg.Confidence.Minimum)
	return enrich.NewPipeline(dispatcher, scorer, notifier), nil
}

// newEmbedder creates the embedder used by the related-symbol index.
func newEmbedder(cfg *config.Config) (related.Embedder, error) {
	switch cfg.EmbeddingProvider {
	case "ollama":
		return related.NewOllamaEmbedder(cfg.EmbeddingModel, 768, os.Getenv("OLLAMA_HOST")), nil
	default:
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return related.NewOpenAIEmbedder(apiKey, related.OpenAIModel(cfg.EmbeddingModel)), nil
	}
}

// loadIndex creates the related-symbol index and restores its persisted
// export if one exists.
func loadIndex(cfg *config.Config) (*related.Index, error) {
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	index, err := related.NewIndex(embedder)
	if err != nil {
		return nil, fmt.Errorf("creating symbol index: %w", err)
	}

	path := indexPath(cfg)
	if _, err := os.Stat(path); err == nil {
		if err := index.Load(path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not load symbol index from %s: %v\n", path, err)
		}
	}
	return index, nil
}

func indexPath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "symbols.gob.gz")
}

func dbPath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "symbolica.db")
}
