package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"pet-lost-found/internal/domain/matching"
	"pet-lost-found/internal/platform/logger"
)

// LoadMatching lee la política de matching desde un YAML. El archivo
// puede ser parcial: lo no especificado queda en los defaults del motor.
func LoadMatching(path string) (matching.Config, error) {
	cfg := matching.DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return matching.Config{}, fmt.Errorf("read matching config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return matching.Config{}, fmt.Errorf("parse matching config: %w", err)
	}

	if cfg.MatchThreshold <= 0 || cfg.SearchRadiusKm <= 0 || cfg.ScoreRadiusKm <= 0 {
		return matching.Config{}, fmt.Errorf("matching config: thresholds and radii must be positive")
	}
	if cfg.ScoreRadiusKm > cfg.SearchRadiusKm {
		return matching.Config{}, fmt.Errorf("matching config: score_radius_km cannot exceed search_radius_km")
	}

	return cfg, nil
}

// MatchingHolder implementa matching.ConfigSource con recarga en
// caliente: el scanner y el scorer leen Current() en cada uso y ven la
// política nueva sin reinicio.
type MatchingHolder struct {
	path string
	log  logger.Logger
	v    atomic.Value // matching.Config
}

// NewMatchingHolder carga la política inicial. path vacío => defaults
// fijos (sin watch posible).
func NewMatchingHolder(path string, log logger.Logger) (*MatchingHolder, error) {
	if log == nil {
		log = logger.Nop()
	}

	h := &MatchingHolder{path: path, log: log}

	cfg := matching.DefaultConfig()
	if path != "" {
		loaded, err := LoadMatching(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	h.v.Store(cfg)
	return h, nil
}

func (h *MatchingHolder) Current() matching.Config {
	return h.v.Load().(matching.Config)
}

// Reload relee el archivo. Un YAML roto deja la política vigente como
// está (error para el caller, sin medias tintas en el motor).
func (h *MatchingHolder) Reload() error {
	if h.path == "" {
		return nil
	}
	cfg, err := LoadMatching(h.path)
	if err != nil {
		return err
	}
	h.v.Store(cfg)
	return nil
}

// Watch observa el directorio del archivo (los editores suelen hacer
// rename+create, mirar solo el path pierde eventos) y recarga con
// debounce. Bloquea hasta que ctx muera; pensado para correr en una
// goroutine desde main.
func (h *MatchingHolder) Watch(ctx context.Context) error {
	if h.path == "" {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("matching config watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(h.path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	const debounce = 200 * time.Millisecond
	var timer *time.Timer
	var timerC <-chan time.Time

	target := filepath.Clean(h.path)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounce)
			timerC = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			h.log.Error("matching config watcher error", logger.F{"err": err.Error()})

		case <-timerC:
			timerC = nil
			if err := h.Reload(); err != nil {
				h.log.Error("matching config reload failed, keeping previous policy", logger.F{
					"path": h.path,
					"err":  err.Error(),
				})
				continue
			}
			h.log.Info("matching config reloaded", logger.F{"path": h.path})
		}
	}
}
