package enrich

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/symbolica-app/symbolica/internal/llm"
)

// Dispatcher tries a preferred provider and falls back through the
// remaining eligible providers in a fixed priority order, at most once
// each. It carries no state between calls: no cooldowns, no failure
// counters. Enrichment is a rare, user-triggered, latency-tolerant
// operation, so a stateless chain is simpler to reason about and to
// test than a circuit breaker.
type Dispatcher struct {
	providers       map[string]llm.Provider
	priority        []string
	defaultProvider string
	timeout         time.Duration
}

// NewDispatcher creates a dispatcher over the given providers. priority
// fixes the fallback order; names without a matching provider are
// skipped. defaultProvider is used when a request names no preference.
func NewDispatcher(providers []llm.Provider, priority []string, defaultProvider string, timeout time.Duration) *Dispatcher {
	byName := make(map[string]llm.Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Dispatcher{
		providers:       byName,
		priority:        priority,
		defaultProvider: defaultProvider,
		timeout:         timeout,
	}
}

// Eligible returns the provider names that can be attempted, in
// priority order.
func (d *Dispatcher) Eligible() []string {
	var names []string
	for _, name := range d.priority {
		if _, ok := d.providers[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// Dispatch calls the preferred provider, then the remaining eligible
// providers in priority order, stopping at the first success. When
// every provider fails, the last provider's error is returned verbatim
// so the caller sees a concrete diagnostic. A preferred or default
// provider that is not configured is a configuration error, surfaced
// immediately without fallback.
func (d *Dispatcher) Dispatch(ctx context.Context, preferred string, req llm.GenerationRequest) (*llm.GenerationResponse, string, error) {
	if preferred == "" {
		preferred = d.defaultProvider
	}
	first, ok := d.providers[preferred]
	if !ok {
		return nil, "", fmt.Errorf("provider %q has no credential configured", preferred)
	}

	resp, err := d.attempt(ctx, first, req)
	if err == nil {
		return resp, preferred, nil
	}

	lastName, lastErr := preferred, err
	log.Printf("enrich: provider %s failed: %v", preferred, err)

	for _, name := range d.priority {
		if name == preferred {
			continue
		}
		p, ok := d.providers[name]
		if !ok {
			continue
		}
		resp, err := d.attempt(ctx, p, req)
		if err == nil {
			return resp, name, nil
		}
		log.Printf("enrich: fallback provider %s failed: %v", name, err)
		lastName, lastErr = name, err
	}

	return nil, lastName, lastErr
}

// attempt runs a single provider call under the dispatcher's per-call
// timeout, so one hung provider cannot stall the whole request.
func (d *Dispatcher) attempt(ctx context.Context, p llm.Provider, req llm.GenerationRequest) (*llm.GenerationResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return p.Generate(callCtx, req)
}
