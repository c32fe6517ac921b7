package llm

import "context"

// Provider is a uniform client for one hosted LLM completion endpoint.
type Provider interface {
	// Generate performs exactly one completion call and returns the
	// model's text. Implementations never retry; fallback across
	// providers is the dispatcher's responsibility so that timeout
	// budgets stay composable.
	Generate(ctx context.Context, req GenerationRequest) (*GenerationResponse, error)
	// Name returns the provider identifier ("openai", "anthropic", ...).
	Name() string
}
