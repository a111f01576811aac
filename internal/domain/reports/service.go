package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-lost-found/internal/domain/activity"
	"pet-lost-found/internal/domain/matching"
	"pet-lost-found/internal/domain/pets"
	"pet-lost-found/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrBadState     = errors.New("invalid state")
)

// PetDirectory es lo que necesitamos de pets (lo implementa pets.Service).
type PetDirectory interface {
	GetByID(ctx context.Context, id string) (pets.Pet, error)
}

// ActivityLog registra líneas de timeline (lo implementa activity.Service).
// Puede ser nil: el timeline es accesorio, nunca bloquea un reporte.
type ActivityLog interface {
	Record(ctx context.Context, in activity.RecordInput) (activity.Entry, error)
}

type Service struct {
	repo     Repository
	pets     PetDirectory
	timeline ActivityLog
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, dir PetDirectory, timeline ActivityLog, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:     repo,
		pets:     dir,
		timeline: timeline,
		log:      log.With(logger.F{"component": "reports"}),
		now:      time.Now,
	}
}

type FileInput struct {
	PetID       string
	Description string
	Contact     string
	Location    *matching.Coordinates
}

// FileLost abre (o actualiza) el reporte de pérdida de una mascota.
// Solo el owner puede declararla perdida. Si ya hay un reporte abierto
// se actualiza en lugar de duplicar: un abierto por (mascota, tipo).
func (s *Service) FileLost(ctx context.Context, reporterUserID string, in FileInput) (Report, error) {
	return s.file(ctx, TypeLost, reporterUserID, in)
}

// FileFound abre (o actualiza) un reporte de hallazgo. El reporter no
// tiene por qué ser el owner histórico: quien encuentra un callejero
// registra un perfil mínimo y lo reporta found.
func (s *Service) FileFound(ctx context.Context, reporterUserID string, in FileInput) (Report, error) {
	return s.file(ctx, TypeFound, reporterUserID, in)
}

func (s *Service) file(ctx context.Context, t Type, reporterUserID string, in FileInput) (Report, error) {
	reporterUserID = strings.TrimSpace(reporterUserID)
	petID := strings.TrimSpace(in.PetID)
	if reporterUserID == "" || petID == "" {
		return Report{}, ErrInvalidInput
	}

	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return Report{}, ErrNotFound
	}
	if t == TypeLost && p.OwnerUserID != reporterUserID {
		return Report{}, ErrForbidden
	}

	now := s.now()

	// Dedup: reusar el abierto si existe (actualizando datos del reporte).
	existing, err := s.repo.FindOpenByPet(ctx, petID, t)
	if err == nil {
		existing.Description = strings.TrimSpace(in.Description)
		existing.Contact = strings.TrimSpace(in.Contact)
		if in.Location != nil {
			existing.Location = in.Location
		}
		existing.UpdatedAt = now
		if err := s.repo.Update(ctx, existing); err != nil {
			return Report{}, err
		}
		return existing, nil
	}

	r := Report{
		ID:             uuid.NewString(),
		PetID:          petID,
		ReporterUserID: reporterUserID,
		Type:           t,
		Status:         StatusOpen,
		Description:    strings.TrimSpace(in.Description),
		Contact:        strings.TrimSpace(in.Contact),
		Location:       in.Location,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return Report{}, err
	}

	entryType := activity.TypeReportLost
	title := p.Name + " reported lost"
	if t == TypeFound {
		entryType = activity.TypeReportFound
		title = p.Name + " reported found"
	}
	s.record(ctx, activity.RecordInput{
		PetID:    petID,
		ReportID: r.ID,
		Type:     entryType,
		Title:    title,
		Actor:    activity.Actor{Type: activity.ActorTypeUser, ID: reporterUserID},
	})

	return r, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Report, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Report{}, ErrNotFound
	}
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Report{}, ErrNotFound
	}
	return r, nil
}

func (s *Service) ListByPet(ctx context.Context, petID string) ([]Report, error) {
	return s.repo.ListByPet(ctx, petID)
}

// OpenReports lista los reportes abiertos de un tipo (lo usa lfctl).
func (s *Service) OpenReports(ctx context.Context, t Type) ([]Report, error) {
	return s.repo.FindOpen(ctx, t)
}

// Matches devuelve el historial de coincidencias de un reporte de pérdida.
func (s *Service) Matches(ctx context.Context, reportID string) ([]matching.Match, error) {
	r, err := s.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if r.Type != TypeLost {
		return nil, ErrBadState
	}
	return r.Matches, nil
}

// Close cierra manualmente un reporte. Permitido para el reporter o el
// owner de la mascota. Idempotente si ya estaba cerrado.
func (s *Service) Close(ctx context.Context, reportID, userID string) (Report, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Report{}, ErrInvalidInput
	}

	r, err := s.GetByID(ctx, reportID)
	if err != nil {
		return Report{}, err
	}

	if r.ReporterUserID != userID {
		owner, err := s.ownerOf(ctx, r.PetID)
		if err != nil || owner != userID {
			return Report{}, ErrForbidden
		}
	}

	if r.Status != StatusOpen {
		return r, nil
	}

	now := s.now()
	if err := s.repo.ClearMatches(ctx, r.ID); err != nil {
		return Report{}, err
	}
	r.Matches = nil
	r.Status = StatusClosed
	r.UpdatedAt = now
	r.ClosedAt = &now

	if err := s.repo.Update(ctx, r); err != nil {
		return Report{}, err
	}

	s.record(ctx, activity.RecordInput{
		PetID:    r.PetID,
		ReportID: r.ID,
		Type:     activity.TypeReportClosed,
		Title:    "report closed",
		Actor:    activity.Actor{Type: activity.ActorTypeUser, ID: userID},
	})

	return r, nil
}

// Confirm: el owner confirma que el candidato encontrado es su mascota.
// Efectos:
// - el reporte lost pasa a confirmed y su lista de matches se limpia
// - el reporte found candidato se cierra (consumido)
// - el candidato se purga de las listas de matches de cualquier otro
//   reporte lost: ya no está disponible para nadie más
// Cada escritura es independiente (no hay transacción cross-reporte);
// una falla a mitad deja estado re-derivable por el próximo scan.
func (s *Service) Confirm(ctx context.Context, lostReportID, candidateReportID, userID string) (Report, error) {
	userID = strings.TrimSpace(userID)
	candidateReportID = strings.TrimSpace(candidateReportID)
	if userID == "" || candidateReportID == "" {
		return Report{}, ErrInvalidInput
	}

	r, err := s.GetByID(ctx, lostReportID)
	if err != nil {
		return Report{}, err
	}
	if r.Type != TypeLost {
		return Report{}, ErrBadState
	}
	if r.Status != StatusOpen {
		return Report{}, ErrBadState
	}

	owner, err := s.ownerOf(ctx, r.PetID)
	if err != nil || owner != userID {
		return Report{}, ErrForbidden
	}

	has, err := s.repo.HasMatch(ctx, r.ID, candidateReportID)
	if err != nil {
		return Report{}, err
	}
	if !has {
		return Report{}, ErrBadState
	}

	now := s.now()

	// Cerrar el found candidato primero: si algo falla después, un
	// found cerrado ya no reaparece en el próximo scan.
	cand, err := s.repo.GetByID(ctx, candidateReportID)
	if err != nil {
		return Report{}, err
	}
	if cand.Status == StatusOpen {
		cand.Status = StatusClosed
		cand.UpdatedAt = now
		cand.ClosedAt = &now
		if err := s.repo.Update(ctx, cand); err != nil {
			return Report{}, err
		}
	}

	if err := s.repo.ClearMatches(ctx, r.ID); err != nil {
		return Report{}, err
	}
	r.Matches = nil
	r.Status = StatusConfirmed
	r.UpdatedAt = now
	r.ClosedAt = &now
	if err := s.repo.Update(ctx, r); err != nil {
		return Report{}, err
	}

	if err := s.repo.RemoveMatchesFor(ctx, candidateReportID); err != nil {
		return Report{}, err
	}

	s.record(ctx, activity.RecordInput{
		PetID:    r.PetID,
		ReportID: r.ID,
		Type:     activity.TypeMatchConfirmed,
		Title:    "match confirmed",
		Detail:   fmt.Sprintf("confirmed against report %s", candidateReportID),
		Actor:    activity.Actor{Type: activity.ActorTypeUser, ID: userID},
	})

	return r, nil
}

// -------------------------
// matching.Store
// -------------------------

// OpenLost arma los candidatos de pérdida para el motor. Reportes cuyo
// perfil de mascota no se puede cargar se saltean con un warn: data
// parcial degrada, no rompe el barrido.
func (s *Service) OpenLost(ctx context.Context) ([]matching.Candidate, error) {
	return s.openCandidates(ctx, TypeLost)
}

func (s *Service) OpenFound(ctx context.Context) ([]matching.Candidate, error) {
	return s.openCandidates(ctx, TypeFound)
}

func (s *Service) openCandidates(ctx context.Context, t Type) ([]matching.Candidate, error) {
	rs, err := s.repo.FindOpen(ctx, t)
	if err != nil {
		return nil, err
	}

	out := make([]matching.Candidate, 0, len(rs))
	for _, r := range rs {
		p, err := s.pets.GetByID(ctx, r.PetID)
		if err != nil {
			s.log.Warn("skipping report without pet profile", logger.F{
				"report_id": r.ID,
				"pet_id":    r.PetID,
				"err":       err.Error(),
			})
			continue
		}
		out = append(out, s.candidate(r, p))
	}
	return out, nil
}

func (s *Service) candidate(r Report, p pets.Pet) matching.Candidate {
	age := p.Age
	if age == "" && p.BirthDate != nil {
		years := s.now().Sub(*p.BirthDate).Hours() / (24 * 365.25)
		if years >= 0 {
			age = fmt.Sprintf("%.1f", years)
		}
	}

	return matching.Candidate{
		ReportID:    r.ID,
		PetID:       p.ID,
		OwnerUserID: p.OwnerUserID,
		PetName:     p.Name,
		Species:     p.Species,
		Breed:       p.Breed,
		Age:         age,
		FurColor:    p.FurColor,
		EyeColor:    p.EyeColor,
		Contact:     r.Contact,
		Location:    r.Location,
	}
}

func (s *Service) HasMatch(ctx context.Context, lostReportID, candidateReportID string) (bool, error) {
	return s.repo.HasMatch(ctx, lostReportID, candidateReportID)
}

// AppendMatch persiste el match y deja rastro en el timeline de la
// mascota perdida (el scanner no conoce el módulo activity).
func (s *Service) AppendMatch(ctx context.Context, lostReportID string, m matching.Match) error {
	if err := s.repo.AppendMatch(ctx, lostReportID, m); err != nil {
		return err
	}

	if r, err := s.repo.GetByID(ctx, lostReportID); err == nil {
		s.record(ctx, activity.RecordInput{
			PetID:    r.PetID,
			ReportID: r.ID,
			Type:     activity.TypeMatchFound,
			Title:    "possible match found",
			Detail:   fmt.Sprintf("candidate report %s, score %d", m.CandidateReportID, m.Score),
			Actor:    activity.Actor{Type: activity.ActorTypeSystem, ID: "match_scanner"},
		})
	}
	return nil
}

func (s *Service) ownerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.OwnerUserID, nil
}

func (s *Service) record(ctx context.Context, in activity.RecordInput) {
	if s.timeline == nil {
		return
	}
	if _, err := s.timeline.Record(ctx, in); err != nil {
		s.log.Warn("activity record failed", logger.F{"pet_id": in.PetID, "err": err.Error()})
	}
}
