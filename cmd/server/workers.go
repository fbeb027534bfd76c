package main

import (
	"github.com/propertypassport/api/internal/config"
	"github.com/propertypassport/api/internal/infra/jobs"
	"github.com/propertypassport/api/pkg/logger"
)

// Workers holds all background worker instances.
type Workers struct {
	JobWorker         *jobs.Worker
	InvitationSweeper *jobs.InvitationSweeper
}

// WorkerDeps contains dependencies needed to create workers.
type WorkerDeps struct {
	Config   *config.Config
	Log      *logger.Logger
	Services *Services
}

// NewWorkers initializes all background workers.
func NewWorkers(deps *WorkerDeps) *Workers {
	cfg := deps.Config
	log := deps.Log
	svc := deps.Services

	w := &Workers{}

	// The job worker drains the email queue; it runs even with the no-op
	// sender so queued jobs are consumed rather than retried forever.
	w.JobWorker = jobs.NewWorker(jobs.WorkerConfig{
		RedisAddr:     cfg.Redis.Addr(),
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
		Concurrency:   cfg.Worker.Concurrency,
	}, svc.Email, log)

	w.InvitationSweeper = jobs.NewInvitationSweeper(svc.Invitation, cfg.Worker.InvitationSweepCron, log)

	return w
}

// Start starts all background workers.
func (w *Workers) Start(log *logger.Logger) error {
	go func() {
		log.Info("starting job worker")
		if err := w.JobWorker.Start(); err != nil {
			log.Error("job worker error", "error", err)
		}
	}()

	if err := w.InvitationSweeper.Start(); err != nil {
		return err
	}
	log.Info("invitation sweeper started")

	return nil
}

// Stop stops all background workers gracefully.
func (w *Workers) Stop(log *logger.Logger) {
	log.Info("stopping invitation sweeper...")
	w.InvitationSweeper.Stop()
	log.Info("invitation sweeper stopped")

	log.Info("stopping job worker...")
	w.JobWorker.Stop()
	log.Info("job worker stopped")
}
