package enrich

import (
	"context"
	"time"

	"github.com/symbolica-app/symbolica/internal/llm"
)

// Event describes one completed enrichment, for live feeds and history.
type Event struct {
	Field            string    `json:"field"`
	Provider         string    `json:"provider"`
	Confidence       int       `json:"confidence"`
	ValidationFailed bool      `json:"validation_failed"`
	At               time.Time `json:"at"`
}

// Notifier receives completed enrichment events. Implementations must
// not block: the pipeline fires and forgets.
type Notifier interface {
	Publish(Event)
}

// Pipeline is the enrichment orchestrator: prompt, dispatch, normalize,
// score. It holds no per-request state; concurrent calls are
// independent.
type Pipeline struct {
	dispatcher *Dispatcher
	scorer     *Scorer
	notifier   Notifier
}

// NewPipeline wires the pipeline. notifier may be nil.
func NewPipeline(dispatcher *Dispatcher, scorer *Scorer, notifier Notifier) *Pipeline {
	return &Pipeline{
		dispatcher: dispatcher,
		scorer:     scorer,
		notifier:   notifier,
	}
}

// Eligible returns the provider names the pipeline can attempt, in
// fallback order.
func (p *Pipeline) Eligible() []string {
	return p.dispatcher.Eligible()
}

// Enrich runs one request through the pipeline. It returns an error
// only when every eligible provider fails or the requested provider is
// not configured; a response that failed validation comes back with the
// current value, a reduced confidence, and no error.
func (p *Pipeline) Enrich(ctx context.Context, req Request) (*Response, error) {
	kind, _ := KindOf(req.Field)
	spec := kindSpecs[kind]

	genReq := llm.GenerationRequest{
		System:      systemPrompt,
		Prompt:      BuildPrompt(req),
		MaxTokens:   2048,
		Temperature: spec.temperature,
		JSONMode:    spec.jsonMode,
	}

	genResp, provider, err := p.dispatcher.Dispatch(ctx, req.Provider, genReq)
	if err != nil {
		return nil, err
	}

	value, validationFailed := Normalize(kind, genResp.Text, req.Current)
	confidence := p.scorer.Estimate(provider, kind, validationFailed)

	resp := &Response{
		Value:            value,
		Provider:         provider,
		Confidence:       confidence,
		Suggestions:      suggestionsFor(kind, validationFailed),
		ValidationFailed: validationFailed,
	}

	if p.notifier != nil {
		p.notifier.Publish(Event{
			Field:            req.Field,
			Provider:         provider,
			Confidence:       confidence,
			ValidationFailed: validationFailed,
			At:               time.Now().UTC(),
		})
	}

	return resp, nil
}

// suggestionsFor returns short review hints for the caller's UI. They
// are cosmetic and never validated.
func suggestionsFor(kind FieldKind, validationFailed bool) []string {
	var suggestions []string
	switch kind {
	case KindClueList:
		suggestions = append(suggestions,
			"Review the generated hints for difficulty balance.",
			"Confirm the clue order still matches the quest flow.",
		)
	case KindTagList:
		suggestions = append(suggestions,
			"Remove any symbols that are not part of the catalogue taxonomy.",
		)
	default:
		suggestions = append(suggestions,
			"Check that the tone matches the rest of the catalogue.",
			"Verify historical claims before publishing.",
		)
	}
	if validationFailed {
		suggestions = append(suggestions,
			"The model response was not valid for this field; the previous value was kept.",
		)
	}
	return suggestions
}
