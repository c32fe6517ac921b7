package evidence

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts evidence endpoints on the given router.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Post("/api/quests/{id}/clues/{clueId}/evidence", submitHandler(store))
	r.Get("/api/quests/{id}/clues/{clueId}/evidence", listHandler(store))
	r.Post("/api/evidence/{id}/votes", voteHandler(store))
}

type submitRequest struct {
	Author string `json:"author"`
	Body   string `json:"body"`
}

func submitHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clueID, err := strconv.Atoi(chi.URLParam(r, "clueId"))
		if err != nil {
			http.Error(w, "invalid clue id", http.StatusBadRequest)
			return
		}
		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.Body == "" {
			http.Error(w, "body is required", http.StatusBadRequest)
			return
		}

		e := &Evidence{
			QuestID: chi.URLParam(r, "id"),
			ClueID:  clueID,
			Author:  req.Author,
			Body:    req.Body,
		}
		if err := store.Submit(r.Context(), e); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, e)
	}
}

func listHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clueID, err := strconv.Atoi(chi.URLParam(r, "clueId"))
		if err != nil {
			http.Error(w, "invalid clue id", http.StatusBadRequest)
			return
		}
		result, err := store.ListForClue(r.Context(), chi.URLParam(r, "id"), clueID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if result == nil {
			result = []Evidence{}
		}
		writeJSON(w, http.StatusOK, result)
	}
}

type voteRequest struct {
	Voter string `json:"voter"`
	Vote  int    `json:"vote"`
}

func voteHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req voteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.Voter == "" {
			http.Error(w, "voter is required", http.StatusBadRequest)
			return
		}

		id := chi.URLParam(r, "id")
		if err := store.CastVote(r.Context(), id, req.Voter, req.Vote); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		e, err := store.Get(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
