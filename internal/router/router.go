package router

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	mem "pet-lost-found/internal/adapters/storage/memory"
	pg "pet-lost-found/internal/adapters/storage/postgres"
	"pet-lost-found/internal/domain/activity"
	"pet-lost-found/internal/domain/matching"
	"pet-lost-found/internal/domain/pets"
	"pet-lost-found/internal/domain/reports"
	"pet-lost-found/internal/middleware"
	"pet-lost-found/internal/platform/logger"
	"pet-lost-found/internal/ports/auth"
	"pet-lost-found/internal/ports/notify"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: gateway de push. nil => notify.Discard (dev/tests).
	Notifier notify.Gateway

	// Opcional: política de matching. nil => defaults estáticos.
	Matching matching.ConfigSource

	Logger logger.Logger
}

// App expone los servicios ya cableados además del handler HTTP:
// main necesita el Scanner para el scheduler y lfctl arma el suyo.
type App struct {
	Handler http.Handler

	Pets     *pets.Service
	Reports  *reports.Service
	Activity *activity.Service
	Matcher  *matching.Service
	Scanner  *matching.Scanner
}

func New(opts Options) *App {
	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	cfgSource := opts.Matching
	if cfgSource == nil {
		cfgSource = matching.Static(matching.DefaultConfig())
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Discard{}
	}

	var (
		petRepo      pets.Repository
		reportsRepo  reports.Repository
		activityRepo activity.Repository
	)

	if opts.DB != nil {
		petRepo = pg.NewPetsRepo(opts.DB)
		reportsRepo = pg.NewReportsRepo(opts.DB)
		activityRepo = pg.NewActivityRepo(opts.DB)
	} else {
		petRepo = mem.NewPetRepo()
		reportsRepo = mem.NewReportsRepo()
		activityRepo = mem.NewActivityRepo()
	}

	// Services por módulo
	petsSvc := pets.NewService(petRepo)
	activitySvc := activity.NewService(activityRepo)
	reportsSvc := reports.NewService(reportsRepo, petsSvc, activitySvc, log)

	scorer := matching.NewScorer(cfgSource)
	matcherSvc := matching.NewService(reportsSvc, scorer, cfgSource)
	scanner := matching.NewScanner(reportsSvc, scorer, notifier, cfgSource, log)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Rutas por módulo
	pets.RegisterRoutes(r, petsSvc)
	reports.RegisterRoutes(r, reportsSvc)
	activity.RegisterRoutes(r, activitySvc, petsSvc)
	matching.RegisterRoutes(r, matcherSvc)

	// Trigger manual del scan (ops/debug). El scheduler es el camino
	// normal; esto existe para forzar un tick sin esperar el intervalo.
	r.Post("/internal/scan", scanHandler(scanner))

	return &App{
		Handler:  r,
		Pets:     petsSvc,
		Reports:  reportsSvc,
		Activity: activitySvc,
		Matcher:  matcherSvc,
		Scanner:  scanner,
	}
}

// NewRouter conserva la firma vieja para quien solo quiere el handler.
func NewRouter(opts Options) http.Handler {
	return New(opts).Handler
}

func scanHandler(scanner *matching.Scanner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := scanner.Scan(r.Context()); err != nil {
			if errors.Is(err, matching.ErrScanInProgress) {
				http.Error(w, "scan already in progress", http.StatusConflict)
				return
			}
			http.Error(w, "scan failed", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
