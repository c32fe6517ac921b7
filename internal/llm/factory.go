package llm

import (
	"fmt"
	"os"
)

// Credentials holds the API secrets for every supported provider. They
// are read from the environment exactly once at startup and injected
// here, so the providers and the dispatcher's eligibility computation
// stay pure functions of their inputs.
type Credentials struct {
	OpenAI     string
	Anthropic  string
	Google     string
	OpenRouter string
	OllamaHost string
}

// CredentialsFromEnv reads provider credentials from the conventional
// environment variables. Missing variables are left empty; the provider
// is then simply not eligible rather than failing at runtime.
func CredentialsFromEnv() Credentials {
	return Credentials{
		OpenAI:     os.Getenv("OPENAI_API_KEY"),
		Anthropic:  os.Getenv("ANTHROPIC_API_KEY"),
		Google:     os.Getenv("GOOGLE_API_KEY"),
		OpenRouter: os.Getenv("OPENROUTER_API_KEY"),
		OllamaHost: os.Getenv("OLLAMA_HOST"),
	}
}

// Has reports whether the named provider has a usable credential.
// Ollama counts only when a host is configured explicitly: a hosted
// deployment should not silently assume a local instance.
func (c Credentials) Has(name string) bool {
	switch name {
	case "openai":
		return c.OpenAI != ""
	case "anthropic":
		return c.Anthropic != ""
	case "google":
		return c.Google != ""
	case "openrouter":
		return c.OpenRouter != ""
	case "ollama":
		return c.OllamaHost != ""
	default:
		return false
	}
}

// New creates the named provider using the injected credentials.
// Supported names: "openai", "anthropic", "google", "openrouter", "ollama".
func New(name string, creds Credentials, model string) (Provider, error) {
	if !creds.Has(name) {
		return nil, fmt.Errorf("provider %q has no credential configured", name)
	}

	switch name {
	case "openai":
		return NewOpenAIProvider(creds.OpenAI, model), nil
	case "anthropic":
		return NewAnthropicProvider(creds.Anthropic, model), nil
	case "google":
		return NewGoogleProvider(creds.Google, model), nil
	case "openrouter":
		return NewOpenRouterProvider(creds.OpenRouter, model), nil
	case "ollama":
		return NewOllamaProvider(creds.OllamaHost, model), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}
