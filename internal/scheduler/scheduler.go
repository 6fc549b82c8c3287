// Package scheduler runs periodic maintenance jobs
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/cardbot/internal/config"
	"github.com/example/cardbot/internal/logger"
)

// Purger removes session records older than maxAge
type Purger interface {
	PurgeStaleSessions(ctx context.Context, maxAge time.Duration) (int64, error)
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	purger    Purger
	config    config.SchedulerConfig
	log       *logger.Logger
}

// New creates a new scheduler instance
func New(purger Purger, cfg config.SchedulerConfig, log *logger.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		purger:    purger,
		config:    cfg,
		log:       log.Named("scheduler"),
	}
}

// Start schedules the cleanup job and runs it in the background. The first
// run happens immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.scheduler.Every(s.config.CleanupInterval).Do(s.purgeStaleSessions, ctx)
	if err != nil {
		return fmt.Errorf("failed to schedule session cleanup: %w", err)
	}

	s.scheduler.StartAsync()
	s.log.Info("Scheduler started",
		"cleanup_interval", s.config.CleanupInterval, "session_ttl", s.config.SessionTTL)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.log.Info("Scheduler stopped")
}

func (s *Scheduler) purgeStaleSessions(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	purged, err := s.purger.PurgeStaleSessions(ctx, s.config.SessionTTL)
	if err != nil {
		s.log.Error("Session cleanup failed", "error", err)
		return
	}
	s.log.Debug("Session cleanup done", "purged", purged)
}
