package llm

// GenerationRequest contains the parameters for a single-turn completion.
// Enrichment prompts are always one system instruction plus one user
// prompt; there is no conversation history to carry.
type GenerationRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
	JSONMode    bool
}

// GenerationResponse contains the result of a completion call.
type GenerationResponse struct {
	Text         string
	Model        string
	FinishReason string
	InputTokens  int
	OutputTokens int
}
