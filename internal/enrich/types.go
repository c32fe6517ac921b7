// Package enrich implements the AI content enrichment pipeline: prompt
// construction, provider fallback dispatch, response normalization and
// validation, and confidence scoring for quest fields.
package enrich

import "encoding/json"

// FieldKind is the category of an enrichable field. It decides the
// prompt template, the normalizer, and the confidence adjustment.
type FieldKind string

const (
	KindNarrative FieldKind = "narrative_text"
	KindClueList  FieldKind = "structured_list"
	KindTagList   FieldKind = "tag_list"
)

// Clue is one structured clue item on a quest.
type Clue struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Hint        string `json:"hint"`
}

// Value is a tagged union over the three field value shapes. Exactly one
// of Text, Clues, or Tags is meaningful, selected by Kind.
type Value struct {
	Kind  FieldKind
	Text  string
	Clues []Clue
	Tags  []string
}

// NarrativeValue wraps a plain text value.
func NarrativeValue(text string) Value {
	return Value{Kind: KindNarrative, Text: text}
}

// ClueListValue wraps a list of clue objects.
func ClueListValue(clues []Clue) Value {
	return Value{Kind: KindClueList, Clues: clues}
}

// TagListValue wraps a list of tag strings.
func TagListValue(tags []string) Value {
	return Value{Kind: KindTagList, Tags: tags}
}

// MarshalJSON emits the wire shape that matches Kind: a string for
// narrative fields, an array of clue objects for structured lists, an
// array of strings for tag lists. Nil slices serialize as [] so clients
// never see null where an array is expected.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindClueList:
		clues := v.Clues
		if clues == nil {
			clues = []Clue{}
		}
		return json.Marshal(clues)
	case KindTagList:
		tags := v.Tags
		if tags == nil {
			tags = []string{}
		}
		return json.Marshal(tags)
	default:
		return json.Marshal(v.Text)
	}
}

// QuestContext carries the auxiliary quest metadata interpolated into
// prompts. The pipeline never mutates it.
type QuestContext struct {
	Title      string `json:"title"`
	Category   string `json:"category"`
	Background string `json:"background"`
}

// Request is one field-enrichment request. Field is the app-level field
// name ("story_background", "clues", ...); unknown names are handled
// with a generic narrative prompt rather than rejected.
type Request struct {
	Field    string
	Current  Value
	Context  QuestContext
	Provider string // preferred provider id; empty selects the configured default
}

// Response is the pipeline's output. Value is always type-compatible
// with the request's field category; on a structured-list validation
// failure it is the request's current value unchanged.
type Response struct {
	Value            Value
	Provider         string
	Confidence       int
	Suggestions      []string
	ValidationFailed bool
}
