package matching

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"pet-lost-found/internal/platform/logger"
	"pet-lost-found/internal/ports/notify"
)

var (
	// ErrScanInProgress: el tick anterior todavía corre; este se saltea.
	ErrScanInProgress = errors.New("scan already in progress")
)

// Store es lo que el scanner necesita del almacenamiento de reportes.
// Lo implementa reports.Service (que además registra actividad al
// apendear un match).
type Store interface {
	OpenLost(ctx context.Context) ([]Candidate, error)
	OpenFound(ctx context.Context) ([]Candidate, error)

	// HasMatch: ¿el reporte de pérdida ya referencia a este candidato?
	HasMatch(ctx context.Context, lostReportID, candidateReportID string) (bool, error)

	// AppendMatch persiste un match nuevo. El storage además garantiza
	// no-duplicado a nivel de registro (append condicional), por si dos
	// scanners corren contra la misma base.
	AppendMatch(ctx context.Context, lostReportID string, m Match) error
}

// Scanner barre todos los pares (lost, found) abiertos, puntúa los que
// pasan el pre-filtro de distancia y registra los que superan el umbral.
//
// Semántica de fallas:
// - error de storage aborta el tick; lo ya escrito queda (el dedup
//   evita duplicarlo en el próximo tick)
// - error de notificación se loguea y el barrido sigue
// - cada par es independiente: no hay transacción cross-candidatos
type Scanner struct {
	store    Store
	scorer   PairScorer
	gateway  notify.Gateway
	cfg      ConfigSource
	log      logger.Logger
	now      func() time.Time
	scanning atomic.Bool
}

func NewScanner(store Store, scorer PairScorer, gateway notify.Gateway, cfg ConfigSource, log logger.Logger) *Scanner {
	if gateway == nil {
		gateway = notify.Discard{}
	}
	if cfg == nil {
		cfg = Static(DefaultConfig())
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Scanner{
		store:   store,
		scorer:  scorer,
		gateway: gateway,
		cfg:     cfg,
		log:     log.With(logger.F{"component": "match_scanner"}),
		now:     time.Now,
	}
}

// Scan ejecuta un tick completo. Pensado para correr bajo scheduler.Runner
// (cada hora en el deployment de referencia) o one-shot desde lfctl.
// Re-entrada: si un tick anterior sigue corriendo, este devuelve
// ErrScanInProgress sin tocar nada.
func (s *Scanner) Scan(ctx context.Context) error {
	if !s.scanning.CompareAndSwap(false, true) {
		s.log.Warn("scan tick skipped, previous tick still running", nil)
		return ErrScanInProgress
	}
	defer s.scanning.Store(false)

	cfg := s.cfg.Current()
	start := s.now()

	lost, err := s.store.OpenLost(ctx)
	if err != nil {
		return fmt.Errorf("load open lost reports: %w", err)
	}
	found, err := s.store.OpenFound(ctx)
	if err != nil {
		return fmt.Errorf("load open found reports: %w", err)
	}

	var pairs, prefiltered, recorded, notified int

	for _, l := range lost {
		for _, f := range found {
			if err := ctx.Err(); err != nil {
				return err
			}
			// Un reporte de hallazgo sobre la misma mascota no es un
			// candidato: ese caso lo resuelve el flujo de confirmación.
			if l.PetID == f.PetID {
				continue
			}
			pairs++

			// Pre-filtro grueso: pares geográficamente implausibles no
			// se puntúan (control de costo en el producto L×F).
			if DistanceKm(l.coords(), f.coords()) > cfg.SearchRadiusKm {
				prefiltered++
				continue
			}

			score := s.scorer.Score(l, f)
			if score < cfg.MatchThreshold {
				continue
			}

			has, err := s.store.HasMatch(ctx, l.ReportID, f.ReportID)
			if err != nil {
				return fmt.Errorf("check existing match %s->%s: %w", l.ReportID, f.ReportID, err)
			}
			if has {
				// Ya registrado en un tick anterior. Tampoco re-notificamos:
				// avisar de nuevo sobre data sin cambios es spam.
				continue
			}

			m := Match{
				CandidateReportID: f.ReportID,
				CandidatePetID:    f.PetID,
				Score:             score,
				MatchedAt:         s.now().UTC(),
			}
			if err := s.store.AppendMatch(ctx, l.ReportID, m); err != nil {
				return fmt.Errorf("append match %s->%s: %w", l.ReportID, f.ReportID, err)
			}
			recorded++

			if s.notifyOwner(ctx, l, f, score) {
				notified++
			}
		}
	}

	s.log.Info("scan tick done", logger.F{
		"lost":        len(lost),
		"found":       len(found),
		"pairs":       pairs,
		"prefiltered": prefiltered,
		"recorded":    recorded,
		"notified":    notified,
		"took":        time.Since(start).String(),
	})
	return nil
}

// notifyOwner avisa al dueño de la mascota perdida. Fire-and-forget:
// cualquier falla se loguea y no afecta el match ya persistido.
func (s *Scanner) notifyOwner(ctx context.Context, l, f Candidate, score int) bool {
	title := fmt.Sprintf("Possible match for %s", l.PetName)
	body := fmt.Sprintf("A found pet looks like %s (score %d).", l.PetName, score)
	if f.Contact != "" {
		body += " Reporter contact: " + f.Contact
	}

	if _, err := s.gateway.Send(ctx, l.OwnerUserID, title, body, l.ReportID); err != nil {
		fields := logger.F{
			"user_id":   l.OwnerUserID,
			"report_id": l.ReportID,
			"err":       err.Error(),
		}
		if errors.Is(err, notify.ErrNoDevice) {
			s.log.Warn("match notification skipped", fields)
		} else {
			s.log.Error("match notification failed", fields)
		}
		return false
	}
	return true
}
