package activity

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-lost-found/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// OwnerResolver es lo mínimo que el handler necesita de pets para el
// check de permisos (lo implementa pets.Service vía OwnerOf).
type OwnerResolver interface {
	OwnerOf(ctx context.Context, petID string) (string, error)
}

func RegisterRoutes(r chi.Router, svc *Service, owners OwnerResolver) {
	r.Get("/pets/{petID}/activity", listActivityHandler(svc, owners))
}

type entryResponse struct {
	ID         string    `json:"id"`
	PetID      string    `json:"pet_id"`
	ReportID   string    `json:"report_id,omitempty"`
	Type       Type      `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Title      string    `json:"title"`
	Detail     string    `json:"detail,omitempty"`
	ActorType  ActorType `json:"actor_type"`
	ActorID    string    `json:"actor_id"`
}

func listActivityHandler(svc *Service, owners OwnerResolver) http.HandlerFunc {
	// Timeline visible solo para el owner de la mascota.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")
		owner, err := owners.OwnerOf(r.Context(), petID)
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}
		if owner != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		filter := ListFilter{}
		q := r.URL.Query()
		for _, t := range q["type"] {
			if strings.TrimSpace(t) != "" {
				filter.Types = append(filter.Types, Type(t))
			}
		}
		if v := q.Get("from"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				http.Error(w, "from must be RFC3339", http.StatusBadRequest)
				return
			}
			filter.From = &t
		}
		if v := q.Get("to"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				http.Error(w, "to must be RFC3339", http.StatusBadRequest)
				return
			}
			filter.To = &t
		}
		if v := q.Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
				return
			}
			filter.Limit = n
		}

		items, err := svc.ListByPet(r.Context(), petID, filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]entryResponse, 0, len(items))
		for _, e := range items {
			out = append(out, entryResponse{
				ID:         e.ID,
				PetID:      e.PetID,
				ReportID:   e.ReportID,
				Type:       e.Type,
				OccurredAt: e.OccurredAt,
				Title:      e.Title,
				Detail:     e.Detail,
				ActorType:  e.Actor.Type,
				ActorID:    e.Actor.ID,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// writeJSON duplicado a propósito por módulo (ver nota en matching/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
