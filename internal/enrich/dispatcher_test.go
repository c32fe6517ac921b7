package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/symbolica-app/symbolica/internal/llm"
)

// fakeProvider is a canned provider for dispatcher and pipeline tests.
type fakeProvider struct {
	name    string
	text    string
	err     error
	hang    bool // block until the context is cancelled
	calls   int
	lastReq llm.GenerationRequest
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(ctx context.Context, req llm.GenerationRequest) (*llm.GenerationResponse, error) {
	f.calls++
	f.lastReq = req
	if f.hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llm.GenerationResponse{Text: f.text, Model: f.name + "-model"}, nil
}

func newTestDispatcher(defaultProvider string, providers ...llm.Provider) *Dispatcher {
	var priority []string
	for _, p := range providers {
		priority = append(priority, p.Name())
	}
	return NewDispatcher(providers, priority, defaultProvider, 200*time.Millisecond)
}

func TestDispatchPrefersRequestedProvider(t *testing.T) {
	a := &fakeProvider{name: "a", text: "from a"}
	b := &fakeProvider{name: "b", text: "from b"}
	d := newTestDispatcher("a", a, b)

	resp, provider, err := d.Dispatch(context.Background(), "b", llm.GenerationRequest{Prompt: "p"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider != "b" || resp.Text != "from b" {
		t.Errorf("got provider %q text %q, want b's result", provider, resp.Text)
	}
	if a.calls != 0 {
		t.Error("provider a should not have been called")
	}
}

func TestDispatchFallsBackInPriorityOrder(t *testing.T) {
	a := &fakeProvider{name: "a", err: errors.New("a down")}
	b := &fakeProvider{name: "b", text: "from b"}
	d := newTestDispatcher("a", a, b)

	resp, provider, err := d.Dispatch(context.Background(), "a", llm.GenerationRequest{Prompt: "p"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider != "b" {
		t.Errorf("provider = %q, want b", provider)
	}
	if resp.Text != "from b" {
		t.Errorf("text = %q, want 'from b'", resp.Text)
	}
}

func TestDispatchSkipsToThirdProvider(t *testing.T) {
	a := &fakeProvider{name: "a", err: errors.New("a down")}
	b := &fakeProvider{name: "b", err: errors.New("b down")}
	c := &fakeProvider{name: "c", text: "from c"}
	d := newTestDispatcher("a", a, b, c)

	_, provider, err := d.Dispatch(context.Background(), "a", llm.GenerationRequest{Prompt: "p"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider != "c" {
		t.Errorf("provider = %q, want c", provider)
	}
	if a.calls != 1 || b.calls != 1 || c.calls != 1 {
		t.Errorf("call counts = %d/%d/%d, want 1/1/1", a.calls, b.calls, c.calls)
	}
}

func TestDispatchAllFailReturnsLastError(t *testing.T) {
	a := &fakeProvider{name: "a", err: errors.New("a down")}
	b := &fakeProvider{name: "b", err: errors.New("b down")}
	d := newTestDispatcher("a", a, b)

	_, provider, err := d.Dispatch(context.Background(), "a", llm.GenerationRequest{Prompt: "p"})
	if err == nil {
		t.Fatal("expected error when every provider fails")
	}
	if provider != "b" {
		t.Errorf("last provider = %q, want b", provider)
	}
	if err.Error() != "b down" {
		t.Errorf("error = %q, want the last provider's error verbatim", err.Error())
	}
}

func TestDispatchEachProviderTriedAtMostOnce(t *testing.T) {
	a := &fakeProvider{name: "a", err: errors.New("a down")}
	b := &fakeProvider{name: "b", err: errors.New("b down")}
	d := newTestDispatcher("a", a, b)

	d.Dispatch(context.Background(), "a", llm.GenerationRequest{Prompt: "p"})
	if a.calls != 1 || b.calls != 1 {
		t.Errorf("call counts = %d/%d, want exactly one attempt each", a.calls, b.calls)
	}
}

func TestDispatchUnconfiguredProviderIsImmediateError(t *testing.T) {
	a := &fakeProvider{name: "a", text: "ok"}
	d := newTestDispatcher("a", a)

	_, _, err := d.Dispatch(context.Background(), "nope", llm.GenerationRequest{Prompt: "p"})
	if err == nil {
		t.Fatal("expected configuration error")
	}
	if !strings.Contains(err.Error(), "no credential") {
		t.Errorf("error = %q, want a configuration diagnostic", err.Error())
	}
	if a.calls != 0 {
		t.Error("no provider should be attempted for an unconfigured preference")
	}
}

func TestDispatchDefaultsWhenNoPreference(t *testing.T) {
	a := &fakeProvider{name: "a", text: "from a"}
	b := &fakeProvider{name: "b", text: "from b"}
	d := newTestDispatcher("b", a, b)

	_, provider, err := d.Dispatch(context.Background(), "", llm.GenerationRequest{Prompt: "p"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider != "b" {
		t.Errorf("provider = %q, want default b", provider)
	}
}

func TestDispatchTimeoutAdvancesToNextProvider(t *testing.T) {
	slow := &fakeProvider{name: "slow", hang: true}
	fast := &fakeProvider{name: "fast", text: "quick"}
	d := newTestDispatcher("slow", slow, fast)

	start := time.Now()
	resp, provider, err := d.Dispatch(context.Background(), "slow", llm.GenerationRequest{Prompt: "p"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider != "fast" || resp.Text != "quick" {
		t.Errorf("got provider %q, want fallback to fast", provider)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("dispatch took %v; per-call timeout did not bound the slow provider", elapsed)
	}
}

func TestEligibleFollowsPriorityOrder(t *testing.T) {
	a := &fakeProvider{name: "a"}
	c := &fakeProvider{name: "c"}
	d := NewDispatcher([]llm.Provider{c, a}, []string{"a", "b", "c"}, "a", time.Second)

	got := d.Eligible()
	want := []string{"a", "c"}
	if len(got) != len(want) {
		t.Fatalf("Eligible() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Eligible() = %v, want %v", got, want)
		}
	}
}
