package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/i474232898/api-showcase/internal/logger"
)

// DefaultInterval is used when no positive prune interval is configured.
const DefaultInterval = 15 * time.Minute

// Pruner drops expired lookup history and reports how many entries went.
type Pruner interface {
	Prune() int
}

// Scheduler periodically prunes lookup history.
type Scheduler struct {
	scheduler *gocron.Scheduler
	pruner    Pruner
	interval  time.Duration
	log       zerolog.Logger
}

// New creates a new Scheduler.
func New(pruner Pruner, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		pruner:    pruner,
		interval:  interval,
		log:       logger.Component("scheduler"),
	}
}

// Start schedules the prune job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.effectiveInterval()).Do(s.runPrune)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// effectiveInterval is the configured interval, or DefaultInterval when it
// is not positive. Sub-minute intervals are kept as given.
func (s *Scheduler) effectiveInterval() time.Duration {
	if s.interval <= 0 {
		return DefaultInterval
	}
	return s.interval
}

func (s *Scheduler) runPrune() {
	removed := s.pruner.Prune()
	s.log.Debug().Int("removed", removed).Msg("pruned lookup history")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
