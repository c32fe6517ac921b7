package enrich

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the enrichment API.
func RegisterRoutes(r chi.Router, pipeline *Pipeline) {
	r.Route("/api/enrich", func(r chi.Router) {
		r.Post("/", handleEnrich(pipeline))
		r.Get("/providers", handleProviders(pipeline))
	})
}

type enrichRequest struct {
	Field        string          `json:"field"`
	CurrentValue json.RawMessage `json:"currentValue"`
	QuestContext QuestContext    `json:"questContext"`
	Provider     string          `json:"provider,omitempty"`
}

type enrichResponse struct {
	Success       bool     `json:"success"`
	EnrichedValue Value    `json:"enrichedValue"`
	Provider      string   `json:"provider"`
	Confidence    int      `json:"confidence"`
	Suggestions   []string `json:"suggestions"`
}

type enrichFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func handleEnrich(pipeline *Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req enrichRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeFailure(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Field == "" {
			writeFailure(w, http.StatusBadRequest, "field is required")
			return
		}

		kind, _ := KindOf(req.Field)
		current, err := ParseValue(kind, req.CurrentValue)
		if err != nil {
			writeFailure(w, http.StatusBadRequest, err.Error())
			return
		}

		resp, err := pipeline.Enrich(r.Context(), Request{
			Field:    req.Field,
			Current:  current,
			Context:  req.QuestContext,
			Provider: req.Provider,
		})
		if err != nil {
			writeFailure(w, http.StatusBadGateway, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, enrichResponse{
			Success:       true,
			EnrichedValue: resp.Value,
			Provider:      resp.Provider,
			Confidence:    resp.Confidence,
			Suggestions:   resp.Suggestions,
		})
	}
}

func handleProviders(pipeline *Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"providers": pipeline.Eligible()})
	}
}

// ParseValue decodes a wire value into the shape declared by kind. A
// missing or null value yields the kind's zero value so callers can
// enrich empty fields.
func ParseValue(kind FieldKind, raw json.RawMessage) (Value, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return Value{Kind: kind}, nil
	}

	switch kind {
	case KindClueList:
		var clues []Clue
		if err := json.Unmarshal(raw, &clues); err != nil {
			return Value{}, fmt.Errorf("currentValue must be an array of clue objects: %w", err)
		}
		return ClueListValue(clues), nil
	case KindTagList:
		var tags []string
		if err := json.Unmarshal(raw, &tags); err != nil {
			return Value{}, fmt.Errorf("currentValue must be an array of strings: %w", err)
		}
		return TagListValue(tags), nil
	default:
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return Value{}, fmt.Errorf("currentValue must be a string: %w", err)
		}
		return NarrativeValue(text), nil
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, enrichFailure{Success: false, Error: message})
}
