package reports

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-lost-found/internal/domain/matching"
	"pet-lost-found/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/reports", func(rr chi.Router) {
		rr.Post("/lost", fileReportHandler(svc, TypeLost))
		rr.Post("/found", fileReportHandler(svc, TypeFound))

		rr.Get("/{reportID}", getReportHandler(svc))
		rr.Get("/{reportID}/matches", listMatchesHandler(svc))
		rr.Post("/{reportID}/close", closeReportHandler(svc))
		rr.Post("/{reportID}/confirm", confirmMatchHandler(svc))
	})

	r.Get("/pets/{petID}/reports", listPetReportsHandler(svc))
}

type fileReportRequest struct {
	PetID       string                `json:"pet_id"`
	Description string                `json:"description"`
	Contact     string                `json:"contact"`
	Location    *matching.Coordinates `json:"location"`
}

type confirmRequest struct {
	CandidateReportID string `json:"candidate_report_id"`
}

type reportResponse struct {
	ID             string                `json:"id"`
	PetID          string                `json:"pet_id"`
	ReporterUserID string                `json:"reporter_user_id"`
	Type           Type                  `json:"type"`
	Status         Status                `json:"status"`
	Description    string                `json:"description,omitempty"`
	Contact        string                `json:"contact,omitempty"`
	Location       *matching.Coordinates `json:"location,omitempty"`
	MatchCount     int                   `json:"match_count"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	ClosedAt       *time.Time            `json:"closed_at,omitempty"`
}

func fileReportHandler(svc *Service, t Type) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req fileReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := FileInput{
			PetID:       req.PetID,
			Description: req.Description,
			Contact:     req.Contact,
			Location:    req.Location,
		}

		var (
			rep Report
			err error
		)
		if t == TypeLost {
			rep, err = svc.FileLost(r.Context(), claims.UserID, in)
		} else {
			rep, err = svc.FileFound(r.Context(), claims.UserID, in)
		}
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toReportResponse(rep))
	}
}

func getReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rep, err := svc.GetByID(r.Context(), chi.URLParam(r, "reportID"))
		if err != nil {
			http.Error(w, "report not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toReportResponse(rep))
	}
}

func listPetReportsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByPet(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]reportResponse, 0, len(items))
		for _, rep := range items {
			out = append(out, toReportResponse(rep))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func listMatchesHandler(svc *Service) http.HandlerFunc {
	// Historial de matches: visible para el reporter (el owner que
	// declaró la pérdida).
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rep, err := svc.GetByID(r.Context(), chi.URLParam(r, "reportID"))
		if err != nil {
			http.Error(w, "report not found", http.StatusNotFound)
			return
		}
		if rep.ReporterUserID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		items, err := svc.Matches(r.Context(), rep.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if items == nil {
			items = []matching.Match{}
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func closeReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rep, err := svc.Close(r.Context(), chi.URLParam(r, "reportID"), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toReportResponse(rep))
	}
}

func confirmMatchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req confirmRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		rep, err := svc.Confirm(r.Context(), chi.URLParam(r, "reportID"), req.CandidateReportID, claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toReportResponse(rep))
	}
}

func toReportResponse(r Report) reportResponse {
	return reportResponse{
		ID:             r.ID,
		PetID:          r.PetID,
		ReporterUserID: r.ReporterUserID,
		Type:           r.Type,
		Status:         r.Status,
		Description:    r.Description,
		Contact:        r.Contact,
		Location:       r.Location,
		MatchCount:     len(r.Matches),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		ClosedAt:       r.ClosedAt,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "report not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrBadState):
		http.Error(w, "invalid state", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON duplicado a propósito por módulo (ver nota en matching/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
