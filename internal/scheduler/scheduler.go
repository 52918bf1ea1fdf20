package scheduler

import (
	"context"
	"time"

	"duet-server/internal/logics"

	"go.uber.org/zap"
)

const (
	reminderSweepInterval  = 5 * time.Minute
	materializeInterval    = 24 * time.Hour
	nearDueSweepInterval   = time.Minute
	passTimeout            = 2 * time.Minute
	materializePassTimeout = 10 * time.Minute
)

// Scheduler drives the background lifecycle passes: the reminder sweep,
// the daily template materialization and the near-due notification pass.
type Scheduler struct {
	reminders *logics.ReminderService
	templates *logics.TemplateSchedulerService
	logger    *zap.Logger
	stop      chan struct{}
	done      chan struct{}
}

// NewScheduler creates a Scheduler. Start must be called to begin ticking.
func NewScheduler(reminders *logics.ReminderService, templates *logics.TemplateSchedulerService, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		reminders: reminders,
		templates: templates,
		logger:    logger,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the ticker loop in its own goroutine. Materialization runs
// once immediately so a fresh deployment does not wait a day for instances.
func (s *Scheduler) Start() {
	go s.run()
}

// Stop signals the loop to exit and waits for the in-flight pass to finish.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Scheduler) run() {
	defer close(s.done)

	s.runPass("materialize", materializePassTimeout, s.templates.MaterializeInstances)

	reminderTicker := time.NewTicker(reminderSweepInterval)
	defer reminderTicker.Stop()
	materializeTicker := time.NewTicker(materializeInterval)
	defer materializeTicker.Stop()
	nearDueTicker := time.NewTicker(nearDueSweepInterval)
	defer nearDueTicker.Stop()

	for {
		select {
		case <-s.stop:
			s.logger.Info("Scheduler stopped")
			return
		case <-reminderTicker.C:
			s.runPass("reminder_sweep", passTimeout, s.reminders.RunSweep)
		case <-materializeTicker.C:
			s.runPass("materialize", materializePassTimeout, s.templates.MaterializeInstances)
		case <-nearDueTicker.C:
			s.runPass("near_due_sweep", passTimeout, s.templates.NearDueSweep)
		}
	}
}

// runPass executes one pass with a deadline and panic isolation. A panic in
// one pass must not take down the loop.
func (s *Scheduler) runPass(name string, timeout time.Duration, pass func(ctx context.Context, now time.Time)) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Scheduler pass panicked",
				zap.String("pass", name), zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	started := time.Now()
	pass(ctx, started)
	s.logger.Debug("Scheduler pass finished",
		zap.String("pass", name), zap.Duration("took", time.Since(started)))
}
