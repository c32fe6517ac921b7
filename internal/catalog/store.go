package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/symbolica-app/symbolica/internal/db"
	"github.com/symbolica-app/symbolica/internal/enrich"
)

// Store provides CRUD operations for quests, symbols, and enrichment
// history.
type Store struct {
	db *db.DB
}

// NewStore creates a new catalog store.
func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

// CreateQuest inserts a new quest.
func (s *Store) CreateQuest(ctx context.Context, q *Quest) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	q.CreatedAt = now
	q.UpdatedAt = now

	if q.Clues == nil {
		q.Clues = []enrich.Clue{}
	}
	if q.TargetSymbols == nil {
		q.TargetSymbols = []string{}
	}
	cluesJSON, err := json.Marshal(q.Clues)
	if err != nil {
		return fmt.Errorf("marshaling clues: %w", err)
	}
	symbolsJSON, err := json.Marshal(q.TargetSymbols)
	if err != nil {
		return fmt.Errorf("marshaling target symbols: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quests (id, title, category, background, story_background, description, clues, target_symbols, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.Title, q.Category, q.Background, q.StoryBackground, q.Description,
		string(cluesJSON), string(symbolsJSON), q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating quest: %w", err)
	}
	return nil
}

// GetQuest retrieves a quest by ID.
func (s *Store) GetQuest(ctx context.Context, id string) (*Quest, error) {
	q := &Quest{}
	var cluesJSON, symbolsJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, category, background, story_background, description, clues, target_symbols, created_at, updated_at
		 FROM quests WHERE id = ?`, id,
	).Scan(&q.ID, &q.Title, &q.Category, &q.Background, &q.StoryBackground, &q.Description,
		&cluesJSON, &symbolsJSON, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting quest: %w", err)
	}
	if err := json.Unmarshal([]byte(cluesJSON), &q.Clues); err != nil {
		return nil, fmt.Errorf("unmarshaling clues: %w", err)
	}
	if err := json.Unmarshal([]byte(symbolsJSON), &q.TargetSymbols); err != nil {
		return nil, fmt.Errorf("unmarshaling target symbols: %w", err)
	}
	return q, nil
}

// ListQuests returns all quests ordered by title.
func (s *Store) ListQuests(ctx context.Context) ([]Quest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, category, background, story_background, description, clues, target_symbols, created_at, updated_at
		 FROM quests ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("listing quests: %w", err)
	}
	defer rows.Close()

	var result []Quest
	for rows.Next() {
		var q Quest
		var cluesJSON, symbolsJSON string
		if err := rows.Scan(&q.ID, &q.Title, &q.Category, &q.Background, &q.StoryBackground, &q.Description,
			&cluesJSON, &symbolsJSON, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning quest: %w", err)
		}
		if err := json.Unmarshal([]byte(cluesJSON), &q.Clues); err != nil {
			return nil, fmt.Errorf("unmarshaling clues: %w", err)
		}
		if err := json.Unmarshal([]byte(symbolsJSON), &q.TargetSymbols); err != nil {
			return nil, fmt.Errorf("unmarshaling target symbols: %w", err)
		}
		result = append(result, q)
	}
	return result, rows.Err()
}

// SaveField persists one enriched field value on a quest. Structured
// lists are serialized to JSON text, tag lists to a JSON array.
func (s *Store) SaveField(ctx context.Context, questID, field string, value enrich.Value) error {
	var column string
	var stored any

	switch field {
	case "story_background":
		column, stored = "story_background", value.Text
	case "description":
		column, stored = "description", value.Text
	case "clues":
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshaling clues: %w", err)
		}
		column, stored = "clues", string(data)
	case "target_symbols":
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshaling target symbols: %w", err)
		}
		column, stored = "target_symbols", string(data)
	default:
		return fmt.Errorf("field %q is not persistable", field)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE quests SET `+column+` = ?, updated_at = ? WHERE id = ?`,
		stored, time.Now().UTC(), questID,
	)
	if err != nil {
		return fmt.Errorf("saving field %s: %w", field, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// RecordEnrichment appends one row of enrichment history for a quest.
func (s *Store) RecordEnrichment(ctx context.Context, e *Enrichment) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO enrichments (id, quest_id, field, provider, confidence, validation_failed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.QuestID, e.Field, e.Provider, e.Confidence, e.ValidationFailed, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("recording enrichment: %w", err)
	}
	return nil
}

// EnrichmentHistory returns a quest's enrichment rows, newest first.
func (s *Store) EnrichmentHistory(ctx context.Context, questID string) ([]Enrichment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, quest_id, field, provider, confidence, validation_failed, created_at
		 FROM enrichments WHERE quest_id = ? ORDER BY created_at DESC`, questID)
	if err != nil {
		return nil, fmt.Errorf("listing enrichments: %w", err)
	}
	defer rows.Close()

	var result []Enrichment
	for rows.Next() {
		var e Enrichment
		if err := rows.Scan(&e.ID, &e.QuestID, &e.Field, &e.Provider, &e.Confidence, &e.ValidationFailed, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning enrichment: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// CreateSymbol inserts a new symbol.
func (s *Store) CreateSymbol(ctx context.Context, sym *Symbol) error {
	if sym.ID == "" {
		sym.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	sym.CreatedAt = now
	sym.UpdatedAt = now

	if sym.Tags == nil {
		sym.Tags = []string{}
	}
	tagsJSON, err := json.Marshal(sym.Tags)
	if err != nil {
		return fmt.Errorf("marshaling tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO symbols (id, name, culture, period, description, tags, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sym.ID, sym.Name, sym.Culture, sym.Period, sym.Description,
		string(tagsJSON), sym.CreatedAt, sym.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating symbol: %w", err)
	}
	return nil
}

// GetSymbol retrieves a symbol by ID.
func (s *Store) GetSymbol(ctx context.Context, id string) (*Symbol, error) {
	sym := &Symbol{}
	var tagsJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, culture, period, description, tags, created_at, updated_at
		 FROM symbols WHERE id = ?`, id,
	).Scan(&sym.ID, &sym.Name, &sym.Culture, &sym.Period, &sym.Description,
		&tagsJSON, &sym.CreatedAt, &sym.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting symbol: %w", err)
	}
	if err := json.Unmarshal([]byte(tagsJSON), &sym.Tags); err != nil {
		return nil, fmt.Errorf("unmarshaling tags: %w", err)
	}
	return sym, nil
}

// ListSymbols returns all symbols ordered by name.
func (s *Store) ListSymbols(ctx context.Context) ([]Symbol, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, culture, period, description, tags, created_at, updated_at
		 FROM symbols ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing symbols: %w", err)
	}
	defer rows.Close()

	var result []Symbol
	for rows.Next() {
		var sym Symbol
		var tagsJSON string
		if err := rows.Scan(&sym.ID, &sym.Name, &sym.Culture, &sym.Period, &sym.Description,
			&tagsJSON, &sym.CreatedAt, &sym.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning symbol: %w", err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &sym.Tags); err != nil {
			return nil, fmt.Errorf("unmarshaling tags: %w", err)
		}
		result = append(result, sym)
	}
	return result, rows.Err()
}
