package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/symbolica-app/symbolica/internal/db"
	"github.com/symbolica-app/symbolica/internal/enrich"
	"github.com/symbolica-app/symbolica/internal/llm"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	d, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return NewStore(d)
}

// --- Store CRUD tests ---

func TestCreateAndGetQuest(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	q := &Quest{
		Title:         "The Lion Gate",
		Category:      "mycenaean",
		Background:    "Bronze Age citadel at Mycenae",
		Clues:         []enrich.Clue{{ID: 1, Description: "Find the relieving triangle", Hint: "Look above the lintel"}},
		TargetSymbols: []string{"Lion", "Column"},
	}
	if err := store.CreateQuest(ctx, q); err != nil {
		t.Fatalf("CreateQuest: %v", err)
	}
	if q.ID == "" {
		t.Fatal("expected quest ID to be set")
	}

	got, err := store.GetQuest(ctx, q.ID)
	if err != nil {
		t.Fatalf("GetQuest: %v", err)
	}
	if got.Title != "The Lion Gate" {
		t.Errorf("title = %q", got.Title)
	}
	if len(got.Clues) != 1 || got.Clues[0].Hint != "Look above the lintel" {
		t.Errorf("clues = %+v", got.Clues)
	}
	if len(got.TargetSymbols) != 2 {
		t.Errorf("target symbols = %v", got.TargetSymbols)
	}
}

func TestGetQuestNotFound(t *testing.T) {
	store := setupTestStore(t)
	if _, err := store.GetQuest(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for missing quest")
	}
}

func TestSaveFieldPerKind(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	q := &Quest{Title: "Nile Mysteries"}
	if err := store.CreateQuest(ctx, q); err != nil {
		t.Fatalf("CreateQuest: %v", err)
	}

	if err := store.SaveField(ctx, q.ID, "story_background", enrich.NarrativeValue("Along the river...")); err != nil {
		t.Fatalf("SaveField narrative: %v", err)
	}
	clues := enrich.ClueListValue([]enrich.Clue{{ID: 1, Description: "d", Hint: "h"}})
	if err := store.SaveField(ctx, q.ID, "clues", clues); err != nil {
		t.Fatalf("SaveField clues: %v", err)
	}
	if err := store.SaveField(ctx, q.ID, "target_symbols", enrich.TagListValue([]string{"Ankh"})); err != nil {
		t.Fatalf("SaveField tags: %v", err)
	}

	got, err := store.GetQuest(ctx, q.ID)
	if err != nil {
		t.Fatalf("GetQuest: %v", err)
	}
	if got.StoryBackground != "Along the river..." {
		t.Errorf("story background = %q", got.StoryBackground)
	}
	if len(got.Clues) != 1 || got.Clues[0].ID != 1 {
		t.Errorf("clues = %+v", got.Clues)
	}
	if len(got.TargetSymbols) != 1 || got.TargetSymbols[0] != "Ankh" {
		t.Errorf("target symbols = %v", got.TargetSymbols)
	}
}

func TestSaveFieldRejectsUnknownField(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	q := &Quest{Title: "Quest"}
	if err := store.CreateQuest(ctx, q); err != nil {
		t.Fatalf("CreateQuest: %v", err)
	}
	if err := store.SaveField(ctx, q.ID, "title", enrich.NarrativeValue("x")); err == nil {
		t.Fatal("expected error for non-persistable field")
	}
}

func TestEnrichmentHistory(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	q := &Quest{Title: "Quest"}
	if err := store.CreateQuest(ctx, q); err != nil {
		t.Fatalf("CreateQuest: %v", err)
	}
	if err := store.RecordEnrichment(ctx, &Enrichment{QuestID: q.ID, Field: "clues", Provider: "openai", Confidence: 83}); err != nil {
		t.Fatalf("RecordEnrichment: %v", err)
	}

	history, err := store.EnrichmentHistory(ctx, q.ID)
	if err != nil {
		t.Fatalf("EnrichmentHistory: %v", err)
	}
	if len(history) != 1 || history[0].Provider != "openai" || history[0].Confidence != 83 {
		t.Errorf("history = %+v", history)
	}
}

func TestCreateAndListSymbols(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Scarab", "Ankh"} {
		if err := store.CreateSymbol(ctx, &Symbol{Name: name, Culture: "egyptian"}); err != nil {
			t.Fatalf("CreateSymbol: %v", err)
		}
	}

	symbols, err := store.ListSymbols(ctx)
	if err != nil {
		t.Fatalf("ListSymbols: %v", err)
	}
	if len(symbols) != 2 || symbols[0].Name != "Ankh" {
		t.Errorf("symbols = %+v, want two sorted by name", symbols)
	}
}

// --- Quest field helpers ---

func TestQuestFieldValue(t *testing.T) {
	q := &Quest{
		StoryBackground: "bg",
		Description:     "desc",
		Clues:           []enrich.Clue{{ID: 1, Description: "d", Hint: "h"}},
		TargetSymbols:   []string{"Ankh"},
	}

	if v, ok := q.FieldValue("story_background"); !ok || v.Text != "bg" {
		t.Errorf("story_background = %+v, %v", v, ok)
	}
	if v, ok := q.FieldValue("clues"); !ok || len(v.Clues) != 1 {
		t.Errorf("clues = %+v, %v", v, ok)
	}
	if v, ok := q.FieldValue("target_symbols"); !ok || len(v.Tags) != 1 {
		t.Errorf("target_symbols = %+v, %v", v, ok)
	}
	if _, ok := q.FieldValue("title"); ok {
		t.Error("title must not be enrichable")
	}
}

// --- HTTP route tests ---

type stubProvider struct {
	name string
	text string
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Generate(_ context.Context, _ llm.GenerationRequest) (*llm.GenerationResponse, error) {
	return &llm.GenerationResponse{Text: p.text}, nil
}

func setupTestServer(t *testing.T, store *Store, provider llm.Provider) *httptest.Server {
	t.Helper()
	dispatcher := enrich.NewDispatcher([]llm.Provider{provider}, []string{provider.Name()}, provider.Name(), time.Second)
	scorer := enrich.NewScorer(map[string]int{provider.Name(): 85}, enrich.DefaultValidationPenalty, enrich.DefaultMinimum)
	pipeline := enrich.NewPipeline(dispatcher, scorer, nil)

	r := chi.NewRouter()
	RegisterRoutes(r, store, pipeline)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestEnrichQuestRouteSavesField(t *testing.T) {
	store := setupTestStore(t)
	q := &Quest{Title: "Nile Mysteries", TargetSymbols: []string{"Ankh"}}
	if err := store.CreateQuest(context.Background(), q); err != nil {
		t.Fatalf("CreateQuest: %v", err)
	}
	srv := setupTestServer(t, store, &stubProvider{name: "openai", text: "Ankh, Scarab"})

	body := bytes.NewReader([]byte(`{"field":"target_symbols"}`))
	resp, err := http.Post(srv.URL+"/api/quests/"+q.ID+"/enrich", "application/json", body)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out enrichQuestResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Saved {
		t.Error("expected the enriched value to be saved")
	}

	got, err := store.GetQuest(context.Background(), q.ID)
	if err != nil {
		t.Fatalf("GetQuest: %v", err)
	}
	if len(got.TargetSymbols) != 2 {
		t.Errorf("target symbols = %v, want the enriched list persisted", got.TargetSymbols)
	}
	history, err := store.EnrichmentHistory(context.Background(), q.ID)
	if err != nil {
		t.Fatalf("EnrichmentHistory: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("history rows = %d, want 1", len(history))
	}
}

func TestEnrichQuestRouteValidationFailureSkipsSave(t *testing.T) {
	store := setupTestStore(t)
	q := &Quest{Title: "Quest", Clues: []enrich.Clue{{ID: 1, Description: "keep", Hint: "me"}}}
	if err := store.CreateQuest(context.Background(), q); err != nil {
		t.Fatalf("CreateQuest: %v", err)
	}
	srv := setupTestServer(t, store, &stubProvider{name: "openai", text: "not json at all"})

	body := bytes.NewReader([]byte(`{"field":"clues"}`))
	resp, err := http.Post(srv.URL+"/api/quests/"+q.ID+"/enrich", "application/json", body)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var out enrichQuestResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Saved {
		t.Error("validation failure must not persist anything")
	}

	got, err := store.GetQuest(context.Background(), q.ID)
	if err != nil {
		t.Fatalf("GetQuest: %v", err)
	}
	if len(got.Clues) != 1 || got.Clues[0].Description != "keep" {
		t.Errorf("clues = %+v, want original untouched", got.Clues)
	}
	history, _ := store.EnrichmentHistory(context.Background(), q.ID)
	if len(history) != 1 || !history[0].ValidationFailed {
		t.Errorf("history = %+v, want one failed row", history)
	}
}

func TestEnrichQuestRouteUnknownQuest(t *testing.T) {
	store := setupTestStore(t)
	srv := setupTestServer(t, store, &stubProvider{name: "openai", text: "x"})

	resp, err := http.Post(srv.URL+"/api/quests/missing/enrich", "application/json",
		bytes.NewReader([]byte(`{"field":"clues"}`)))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestCreateQuestRouteRequiresTitle(t *testing.T) {
	store := setupTestStore(t)
	srv := setupTestServer(t, store, &stubProvider{name: "openai", text: "x"})

	resp, err := http.Post(srv.URL+"/api/quests", "application/json",
		bytes.NewReader([]byte(`{"category":"egyptian"}`)))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
