package matching

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"pet-lost-found/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/matches/query", queryMatchesHandler(svc))
}

type queryMatchesRequest struct {
	Species  string       `json:"species"`
	Breed    string       `json:"breed"`
	Age      string       `json:"age"`
	FurColor string       `json:"fur_color"`
	EyeColor string       `json:"eye_color"`
	Location *Coordinates `json:"location"`
	MinScore *int         `json:"min_score"`
}

type queryMatchResponse struct {
	ReportID string `json:"report_id"`
	PetID    string `json:"pet_id"`
	PetName  string `json:"pet_name"`
	Species  string `json:"species"`
	Breed    string `json:"breed,omitempty"`
	Contact  string `json:"contact,omitempty"`
	Score    int    `json:"score"`
}

func queryMatchesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req queryMatchesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		items, err := svc.Query(r.Context(), QueryInput{
			Species:  req.Species,
			Breed:    req.Breed,
			Age:      req.Age,
			FurColor: req.FurColor,
			EyeColor: req.EyeColor,
			Location: req.Location,
			MinScore: req.MinScore,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "species is required", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]queryMatchResponse, 0, len(items))
		for _, it := range items {
			out = append(out, queryMatchResponse{
				ReportID: it.Candidate.ReportID,
				PetID:    it.Candidate.PetID,
				PetName:  it.Candidate.PetName,
				Species:  it.Candidate.Species,
				Breed:    it.Candidate.Breed,
				Contact:  it.Candidate.Contact,
				Score:    it.Score,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// writeJSON está duplicado a propósito en handlers de distintos módulos;
// si se repite en más lugares, recién ahí lo extraemos a un helper común.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
