package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-lost-found/internal/adapters/auth/tokend"
	"pet-lost-found/internal/adapters/notify/pushd"
	pg "pet-lost-found/internal/adapters/storage/postgres"
	"pet-lost-found/internal/config"
	"pet-lost-found/internal/platform/logger"
	"pet-lost-found/internal/platform/scheduler"
	"pet-lost-found/internal/ports/auth"
	"pet-lost-found/internal/ports/notify"
	"pet-lost-found/internal/router"
)

func main() {
	log := logger.NewFromEnv()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("invalid configuration", logger.F{"err": err.Error()})
		os.Exit(1)
	}

	// Política de matching (YAML opcional, hot-reload)
	policy, err := config.NewMatchingHolder(cfg.MatchingPath, log)
	if err != nil {
		log.Error("invalid matching config", logger.F{"path": cfg.MatchingPath, "err": err.Error()})
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MatchingPath != "" {
		go func() {
			if err := policy.Watch(ctx); err != nil {
				log.Error("matching config watch stopped", logger.F{"err": err.Error()})
			}
		}()
	}

	opts := router.Options{
		Matching: policy,
		Logger:   log,
	}

	// Storage: Postgres si hay DSN, si no in-memory (dev)
	if cfg.DBDSN != "" {
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			log.Error("postgres connect failed", logger.F{"err": err.Error()})
			os.Exit(1)
		}
		defer db.Close()
		opts.DB = db
	} else {
		log.Warn("DB_DSN not set, using in-memory storage", nil)
	}

	// Push: pushd si está configurado, si no descartamos
	var notifier notify.Gateway = notify.Discard{}
	if cfg.PushBaseURL != "" {
		client, err := pushd.NewClient(pushd.Config{
			BaseURL: cfg.PushBaseURL,
			APIKey:  cfg.PushAPIKey,
		})
		if err != nil {
			log.Error("pushd client init failed", logger.F{"err": err.Error()})
			os.Exit(1)
		}
		notifier = client
	} else {
		log.Warn("PUSHD_BASE_URL not set, notifications disabled", nil)
	}
	opts.Notifier = notifier

	// Auth: tokend si está configurado, si no modo dev (X-Debug-User-ID)
	var verifier auth.AuthVerifier
	if cfg.TokenBaseURL != "" {
		client, err := tokend.NewClient(tokend.Config{
			BaseURL: cfg.TokenBaseURL,
			APIKey:  cfg.TokenAPIKey,
		})
		if err != nil {
			log.Error("tokend client init failed", logger.F{"err": err.Error()})
			os.Exit(1)
		}
		verifier = tokend.NewVerifier(client)
	} else {
		log.Warn("TOKEND_BASE_URL not set, running in dev auth mode", nil)
	}
	opts.AuthVerifier = verifier

	app := router.New(opts)

	// Scan periódico de lost/found
	runner := scheduler.New("match_scan", cfg.ScanInterval, app.Scanner.Scan, log)
	go runner.Run(ctx)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      app.Handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("starting server", logger.F{"addr": cfg.Addr, "scan_interval": cfg.ScanInterval.String()})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", logger.F{"err": err.Error()})
		os.Exit(1)
	}
}
