package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/yiconnect/backend/internal/app/services"
)

// Scheduler runs the recurring background jobs
type Scheduler struct {
	cron               *cron.Cron
	opportunityService services.OpportunityService
	logger             zerolog.Logger
}

// NewScheduler creates a scheduler with all recurring jobs registered
func NewScheduler(opportunityService services.OpportunityService, deadlineSweepSpec string, logger zerolog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:               cron.New(),
		opportunityService: opportunityService,
		logger:             logger,
	}

	if _, err := s.cron.AddFunc(deadlineSweepSpec, s.sweepExpiredOpportunities); err != nil {
		return nil, err
	}

	return s, nil
}

// Start launches the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Msg("Job scheduler started")
}

// Stop halts the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("Job scheduler stopped")
}

// sweepExpiredOpportunities closes opportunities whose application deadline
// has passed.
func (s *Scheduler) sweepExpiredOpportunities() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	closed, err := s.opportunityService.CloseExpired(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Deadline sweep failed")
		return
	}
	if closed > 0 {
		s.logger.Info().Int("closed", closed).Msg("Deadline sweep closed expired opportunities")
	}
}
