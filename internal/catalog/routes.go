package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/symbolica-app/symbolica/internal/enrich"
)

// RegisterRoutes mounts quest and symbol endpoints on the given router.
func RegisterRoutes(r chi.Router, store *Store, pipeline *enrich.Pipeline) {
	r.Get("/api/quests", listQuestsHandler(store))
	r.Post("/api/quests", createQuestHandler(store))
	r.Get("/api/quests/{id}", getQuestHandler(store))
	r.Post("/api/quests/{id}/enrich", enrichQuestHandler(store, pipeline))
	r.Get("/api/quests/{id}/enrichments", enrichmentHistoryHandler(store))

	r.Get("/api/symbols", listSymbolsHandler(store))
	r.Post("/api/symbols", createSymbolHandler(store))
	r.Get("/api/symbols/{id}", getSymbolHandler(store))
}

func listQuestsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := store.ListQuests(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if result == nil {
			result = []Quest{}
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func createQuestHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q Quest
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if q.Title == "" {
			http.Error(w, "title is required", http.StatusBadRequest)
			return
		}
		if err := store.CreateQuest(r.Context(), &q); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, q)
	}
}

func getQuestHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quest, err := store.GetQuest(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "quest not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, quest)
	}
}

type enrichQuestRequest struct {
	Field    string `json:"field"`
	Provider string `json:"provider,omitempty"`
}

type enrichQuestResponse struct {
	Success       bool         `json:"success"`
	QuestID       string       `json:"questId"`
	Field         string       `json:"field"`
	EnrichedValue enrich.Value `json:"enrichedValue"`
	Provider      string       `json:"provider"`
	Confidence    int          `json:"confidence"`
	Suggestions   []string     `json:"suggestions"`
	Saved         bool         `json:"saved"`
}

// enrichQuestHandler enriches a stored quest field and persists the
// result. Persistence stays a separate explicit step after the pipeline
// returns; a validation failure records history but saves nothing.
func enrichQuestHandler(store *Store, pipeline *enrich.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quest, err := store.GetQuest(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "quest not found", http.StatusNotFound)
			return
		}

		var req enrichQuestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		current, ok := quest.FieldValue(req.Field)
		if !ok {
			http.Error(w, "unknown field", http.StatusBadRequest)
			return
		}

		resp, err := pipeline.Enrich(r.Context(), enrich.Request{
			Field:    req.Field,
			Current:  current,
			Context:  quest.Context(),
			Provider: req.Provider,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}

		saved := false
		if !resp.ValidationFailed {
			if err := store.SaveField(r.Context(), quest.ID, req.Field, resp.Value); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			saved = true
		}

		if err := store.RecordEnrichment(r.Context(), &Enrichment{
			QuestID:          quest.ID,
			Field:            req.Field,
			Provider:         resp.Provider,
			Confidence:       resp.Confidence,
			ValidationFailed: resp.ValidationFailed,
		}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, enrichQuestResponse{
			Success:       true,
			QuestID:       quest.ID,
			Field:         req.Field,
			EnrichedValue: resp.Value,
			Provider:      resp.Provider,
			Confidence:    resp.Confidence,
			Suggestions:   resp.Suggestions,
			Saved:         saved,
		})
	}
}

func enrichmentHistoryHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := store.EnrichmentHistory(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if result == nil {
			result = []Enrichment{}
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func listSymbolsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := store.ListSymbols(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if result == nil {
			result = []Symbol{}
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func createSymbolHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sym Symbol
		if err := json.NewDecoder(r.Body).Decode(&sym); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if sym.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		if err := store.CreateSymbol(r.Context(), &sym); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, sym)
	}
}

func getSymbolHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sym, err := store.GetSymbol(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "symbol not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, sym)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
