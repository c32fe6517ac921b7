package related

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/symbolica-app/symbolica/internal/catalog"
)

// RegisterRoutes mounts the related-symbols endpoint on the given router.
func RegisterRoutes(r chi.Router, store *catalog.Store, index *Index) {
	r.Get("/api/symbols/{id}/related", relatedHandler(store, index))
}

func relatedHandler(store *catalog.Store, index *Index) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sym, err := store.GetSymbol(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "symbol not found", http.StatusNotFound)
			return
		}

		limit := 5
		if s := r.URL.Query().Get("limit"); s != "" {
			if n, err := strconv.Atoi(s); err == nil && n > 0 {
				limit = n
			}
		}

		matches, err := index.FindRelated(r.Context(), sym, limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if matches == nil {
			matches = []Match{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(matches)
	}
}
