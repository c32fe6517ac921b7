package related

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/symbolica-app/symbolica/internal/catalog"
	"github.com/symbolica-app/symbolica/internal/db"
)

// mockEmbedder returns deterministic embeddings based on text content.
// Similar texts produce similar vectors because shared characters
// contribute to the same positions.
type mockEmbedder struct {
	dims int
}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		results[i] = m.deterministicVector(text)
	}
	return results, nil
}

func (m *mockEmbedder) Dimensions() int { return m.dims }
func (m *mockEmbedder) Name() string    { return "mock" }

func (m *mockEmbedder) deterministicVector(text string) []float32 {
	vec := make([]float32, m.dims)
	for i, ch := range text {
		idx := (int(ch) + i) % m.dims
		vec[idx] += 1.0
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec
}

func testSymbols() []catalog.Symbol {
	return []catalog.Symbol{
		{ID: "s1", Name: "Ankh", Culture: "egyptian", Description: "Hieroglyph of life carried by gods in tomb paintings"},
		{ID: "s2", Name: "Scarab", Culture: "egyptian", Description: "Hieroglyph of rebirth carried by gods in tomb paintings"},
		{ID: "s3", Name: "Valknut", Culture: "norse", Description: "Three interlocked triangles on runestones and memorial art"},
	}
}

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	index, err := NewIndex(&mockEmbedder{dims: 64})
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	if err := index.Rebuild(context.Background(), testSymbols()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	return index
}

func TestFindRelatedExcludesSelf(t *testing.T) {
	index := newTestIndex(t)
	syms := testSymbols()

	matches, err := index.FindRelated(context.Background(), &syms[0], 5)
	if err != nil {
		t.Fatalf("FindRelated: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("expected at least one match")
	}
	for _, m := range matches {
		if m.SymbolID == "s1" {
			t.Error("a symbol must not be related to itself")
		}
	}
}

func TestFindRelatedRanksSimilarFirst(t *testing.T) {
	index := newTestIndex(t)
	syms := testSymbols()

	// The two Egyptian symbols share most of their description text.
	matches, err := index.FindRelated(context.Background(), &syms[0], 2)
	if err != nil {
		t.Fatalf("FindRelated: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(matches))
	}
	if matches[0].SymbolID != "s2" {
		t.Errorf("top match = %s, want the near-duplicate description s2", matches[0].SymbolID)
	}
	if matches[0].Similarity < matches[1].Similarity {
		t.Error("matches must be ordered by similarity")
	}
}

func TestFindRelatedEmptyIndex(t *testing.T) {
	index, err := NewIndex(&mockEmbedder{dims: 64})
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}

	sym := catalog.Symbol{ID: "s1", Name: "Ankh"}
	matches, err := index.FindRelated(context.Background(), &sym, 5)
	if err != nil {
		t.Fatalf("FindRelated: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("matches = %v, want none", matches)
	}
}

func TestPersistAndLoad(t *testing.T) {
	index := newTestIndex(t)
	path := filepath.Join(t.TempDir(), "symbols.gob.gz")

	if err := index.Persist(path); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	restored, err := NewIndex(&mockEmbedder{dims: 64})
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	if err := restored.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if restored.Count() != 3 {
		t.Errorf("count after load = %d, want 3", restored.Count())
	}
}

func TestRelatedRoute(t *testing.T) {
	d, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	store := catalog.NewStore(d)

	ctx := context.Background()
	for _, sym := range testSymbols() {
		s := sym
		if err := store.CreateSymbol(ctx, &s); err != nil {
			t.Fatalf("CreateSymbol: %v", err)
		}
	}
	index := newTestIndex(t)

	r := chi.NewRouter()
	RegisterRoutes(r, store, index)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/symbols/s1/related?limit=2")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var matches []Match
	if err := json.NewDecoder(resp.Body).Decode(&matches); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("matches = %d, want 2", len(matches))
	}

	resp, err = http.Get(srv.URL + "/api/symbols/missing/related")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
