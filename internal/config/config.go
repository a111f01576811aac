package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config del servicio, todo por env (deploy estilo 12-factor, igual que
// el resto de nuestros servicios). La política de matching vive aparte
// en un YAML hot-reloadable (ver matching.go).
type Config struct {
	Addr string // ":8080"

	DBDSN string // vacío => repos in-memory (dev)

	ScanInterval time.Duration // default 1h

	// MatchingPath: YAML con pesos/umbrales del motor. Vacío => defaults.
	MatchingPath string

	PushBaseURL string
	PushAPIKey  string

	TokenBaseURL string
	TokenAPIKey  string
}

func FromEnv() (Config, error) {
	cfg := Config{
		Addr:         ":8080",
		ScanInterval: time.Hour,
	}

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		cfg.Addr = ":" + v
	}
	cfg.DBDSN = strings.TrimSpace(os.Getenv("DB_DSN"))
	cfg.MatchingPath = strings.TrimSpace(os.Getenv("MATCHING_CONFIG"))

	if v := strings.TrimSpace(os.Getenv("SCAN_INTERVAL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid SCAN_INTERVAL %q", v)
		}
		cfg.ScanInterval = d
	}

	cfg.PushBaseURL = strings.TrimSpace(os.Getenv("PUSHD_BASE_URL"))
	cfg.PushAPIKey = strings.TrimSpace(os.Getenv("PUSHD_API_KEY"))
	cfg.TokenBaseURL = strings.TrimSpace(os.Getenv("TOKEND_BASE_URL"))
	cfg.TokenAPIKey = strings.TrimSpace(os.Getenv("TOKEND_API_KEY"))

	return cfg, nil
}
