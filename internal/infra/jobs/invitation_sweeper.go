package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/propertypassport/api/internal/app"
	"github.com/propertypassport/api/internal/metrics"
	"github.com/propertypassport/api/pkg/logger"
)

// InvitationSweeper periodically marks pending invitations past their expiry
// as expired. Reads already treat those invitations as expired via the
// effective state; the sweep keeps the stored rows honest.
type InvitationSweeper struct {
	invitations *app.InvitationService
	cron        *cron.Cron
	schedule    string
	logger      *logger.Logger
}

// NewInvitationSweeper creates a sweeper on the given cron schedule.
func NewInvitationSweeper(invitations *app.InvitationService, schedule string, log *logger.Logger) *InvitationSweeper {
	return &InvitationSweeper{
		invitations: invitations,
		cron:        cron.New(),
		schedule:    schedule,
		logger:      log.With("component", "invitation_sweeper"),
	}
}

// Start registers the sweep job and starts the scheduler.
func (s *InvitationSweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("invitation sweeper started", "schedule", s.schedule)
	return nil
}

// Stop stops the scheduler, waiting for a running sweep to finish.
func (s *InvitationSweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("invitation sweeper stopped")
}

func (s *InvitationSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	count, err := s.invitations.ExpireStale(ctx)
	if err != nil {
		s.logger.Error("invitation sweep failed", "error", err)
		return
	}

	if count > 0 {
		metrics.InvitationsExpiredTotal.Add(float64(count))
		s.logger.Info("invitations expired", "count", count)
	}
}
