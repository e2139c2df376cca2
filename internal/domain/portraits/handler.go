package portraits

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Las rutas de historial: el contrato que consume la UI
// (listar, borrar uno, borrar todo). La generación vive en su módulo.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/portraits", func(pr chi.Router) {
		pr.Get("/", listHandler(svc))
		pr.Delete("/", clearHandler(svc))
		pr.Delete("/{portraitID}", deleteHandler(svc))
	})
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "portraitID")
		// borrar un id inexistente no es error (idempotente)
		if err := svc.Delete(r.Context(), id); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func clearHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Clear(r.Context()); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
