package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .symbolica.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to symbolica! Let's configure the enrichment service.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Default provider.
	providerPrompt := promptui.Select{
		Label: "Select default LLM provider",
		Items: []string{"openai", "anthropic", "google", "openrouter", "ollama"},
	}
	_, provider, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.DefaultProvider = provider

	// 2. Model for the default provider.
	modelPrompt := promptui.Prompt{
		Label:   fmt.Sprintf("Model for %s", provider),
		Default: DefaultModels[provider],
	}
	model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	cfg.Models[provider] = model

	// 3. Fallback order.
	priorityPrompt := promptui.Prompt{
		Label:   "Provider fallback order (comma-separated)",
		Default: strings.Join(DefaultPriority, ","),
	}
	priorityStr, err := priorityPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider priority: %w", err)
	}
	if priority := splitAndTrim(priorityStr); len(priority) > 0 {
		cfg.ProviderPriority = priority
	}

	// 4. HTTP port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 5. Data directory.
	dataDirPrompt := promptui.Prompt{
		Label:   "Data directory (SQLite catalog and vector index)",
		Default: cfg.DataDir,
	}
	dataDir, err := dataDirPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	cfg.DataDir = dataDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if envVar := APIKeyEnvVar(provider); envVar != "" {
		if os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before running symbolica serve.\n", envVar)
		}
	}

	if err := cfg.Save(DefaultPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultPath)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string into trimmed, non-empty
// tokens.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
