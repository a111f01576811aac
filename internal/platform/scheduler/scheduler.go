package scheduler

import (
	"context"
	"time"

	"pet-lost-found/internal/platform/logger"
)

// Job es lo único que el runner sabe ejecutar. El scan del matcher
// entra acá sin que scheduler conozca nada del dominio.
type Job func(ctx context.Context) error

// Runner dispara un Job a intervalo fijo hasta que el contexto muera.
// No solapa ejecuciones por sí mismo: usa un ticker y corre el job
// inline, así un job lento simplemente atrasa el próximo tick.
// (El scanner además trae su propio guard por si hay varios runners.)
type Runner struct {
	name     string
	interval time.Duration
	job      Job
	log      logger.Logger
}

func New(name string, interval time.Duration, job Job, log logger.Logger) *Runner {
	if interval <= 0 {
		interval = time.Hour
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{
		name:     name,
		interval: interval,
		job:      job,
		log:      log.With(logger.F{"job": name}),
	}
}

// Run ejecuta el job inmediatamente y luego en cada tick.
// Bloquea hasta que ctx se cancele; los errores del job se loguean
// y el loop sigue (el siguiente tick parte de estado persistido).
func (r *Runner) Run(ctx context.Context) {
	r.log.Info("job runner started", logger.F{"interval": r.interval.String()})

	r.runOnce(ctx)

	t := time.NewTicker(r.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("job runner stopped", nil)
			return
		case <-t.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Runner) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := r.job(ctx); err != nil {
		r.log.Error("job tick failed", logger.F{"err": err.Error(), "took": time.Since(start).String()})
		return
	}
	r.log.Debug("job tick done", logger.F{"took": time.Since(start).String()})
}
