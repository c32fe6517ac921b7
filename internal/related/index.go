package related

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"

	"github.com/symbolica-app/symbolica/internal/catalog"
)

const collectionName = "symbols"

// Match is one related-symbol search hit.
type Match struct {
	SymbolID   string  `json:"symbolId"`
	Name       string  `json:"name"`
	Culture    string  `json:"culture"`
	Similarity float32 `json:"similarity"`
}

// Index is an in-memory vector index over symbol descriptions, backed
// by chromem-go.
type Index struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedFunc  chromem.EmbeddingFunc
}

// NewIndex creates an empty index using the given embedder.
func NewIndex(embedder Embedder) (*Index, error) {
	db := chromem.NewDB()
	ef := toChromemFunc(embedder)

	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &Index{db: db, collection: col, embedFunc: ef}, nil
}

// IndexSymbol adds or replaces one symbol in the index.
func (ix *Index) IndexSymbol(ctx context.Context, sym *catalog.Symbol) error {
	doc := chromem.Document{
		ID:      sym.ID,
		Content: symbolContent(sym),
		Metadata: map[string]string{
			"name":    sym.Name,
			"culture": sym.Culture,
		},
	}
	return ix.collection.AddDocuments(ctx, []chromem.Document{doc}, 1)
}

// Rebuild replaces the index contents with the given symbols.
func (ix *Index) Rebuild(ctx context.Context, symbols []catalog.Symbol) error {
	col, err := ix.db.GetOrCreateCollection(collectionName, nil, ix.embedFunc)
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	ix.collection = col

	for i := range symbols {
		if err := ix.IndexSymbol(ctx, &symbols[i]); err != nil {
			return fmt.Errorf("indexing symbol %s: %w", symbols[i].ID, err)
		}
	}
	return nil
}

// FindRelated returns up to limit symbols semantically close to the
// given one, excluding the symbol itself.
func (ix *Index) FindRelated(ctx context.Context, sym *catalog.Symbol, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = 5
	}

	// chromem-go requires nResults <= collection size; query one extra
	// because the symbol matches itself.
	n := limit + 1
	count := ix.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if n > count {
		n = count
	}

	results, err := ix.collection.Query(ctx, symbolContent(sym), n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	matches := make([]Match, 0, limit)
	for _, r := range results {
		if r.ID == sym.ID {
			continue
		}
		matches = append(matches, Match{
			SymbolID:   r.ID,
			Name:       r.Metadata["name"],
			Culture:    r.Metadata["culture"],
			Similarity: r.Similarity,
		})
		if len(matches) == limit {
			break
		}
	}
	return matches, nil
}

// Count returns the number of indexed symbols.
func (ix *Index) Count() int {
	return ix.collection.Count()
}

// Persist saves the index to a gob export at the given path.
func (ix *Index) Persist(path string) error {
	return ix.db.ExportToFile(path, true, "")
}

// Load restores the index from a gob export at the given path.
func (ix *Index) Load(path string) error {
	if err := ix.db.ImportFromFile(path, ""); err != nil {
		return fmt.Errorf("import from file: %w", err)
	}

	// Re-acquire collection reference after import.
	col := ix.db.GetCollection(collectionName, ix.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", collectionName)
	}
	ix.collection = col
	return nil
}

func symbolContent(sym *catalog.Symbol) string {
	content := sym.Name
	if sym.Culture != "" {
		content += " (" + sym.Culture + ")"
	}
	if sym.Description != "" {
		content += ": " + sym.Description
	}
	return content
}
