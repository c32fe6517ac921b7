// Package catalog persists quests, symbols, and enrichment history in
// SQLite, and exposes the record-level HTTP API.
package catalog

import (
	"time"

	"github.com/symbolica-app/symbolica/internal/enrich"
)

// Quest is one catalogue quest record. The enrichable fields are
// StoryBackground, Description, Clues, and TargetSymbols.
type Quest struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Category        string         `json:"category"`
	Background      string         `json:"background"`
	StoryBackground string         `json:"storyBackground"`
	Description     string         `json:"description"`
	Clues           []enrich.Clue  `json:"clues"`
	TargetSymbols   []string       `json:"targetSymbols"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// Symbol is one cultural symbol record.
type Symbol struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Culture     string    `json:"culture"`
	Period      string    `json:"period"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Enrichment is one row of per-quest enrichment history.
type Enrichment struct {
	ID               string    `json:"id"`
	QuestID          string    `json:"questId"`
	Field            string    `json:"field"`
	Provider         string    `json:"provider"`
	Confidence       int       `json:"confidence"`
	ValidationFailed bool      `json:"validationFailed"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Context returns the quest metadata interpolated into prompts.
func (q *Quest) Context() enrich.QuestContext {
	return enrich.QuestContext{
		Title:      q.Title,
		Category:   q.Category,
		Background: q.Background,
	}
}

// SetFieldValue writes an enriched value back onto the quest struct.
// Unknown fields report false.
func (q *Quest) SetFieldValue(field string, value enrich.Value) bool {
	switch field {
	case "story_background":
		q.StoryBackground = value.Text
	case "description":
		q.Description = value.Text
	case "clues":
		q.Clues = value.Clues
	case "target_symbols":
		q.TargetSymbols = value.Tags
	default:
		return false
	}
	return true
}

// FieldValue returns the quest's current value for an enrichable field.
// Unknown fields report ok=false.
func (q *Quest) FieldValue(field string) (enrich.Value, bool) {
	switch field {
	case "story_background":
		return enrich.NarrativeValue(q.StoryBackground), true
	case "description":
		return enrich.NarrativeValue(q.Description), true
	case "clues":
		return enrich.ClueListValue(q.Clues), true
	case "target_symbols":
		return enrich.TagListValue(q.TargetSymbols), true
	default:
		return enrich.Value{}, false
	}
}
