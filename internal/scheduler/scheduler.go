package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Job regenerates the report for a date (MM/DD/YYYY)
type Job func(ctx context.Context, date string) error

// Scheduler refreshes today's report on a cron schedule. Runs never
// overlap; a tick that fires while a run is in flight is skipped.
type Scheduler struct {
	spec string
	loc  *time.Location
	job  Job
	cron *cron.Cron
	now  func() time.Time

	running sync.Mutex
	wg      sync.WaitGroup
}

// NewScheduler creates a new scheduler instance
func NewScheduler(spec string, loc *time.Location, job Job) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		spec: spec,
		loc:  loc,
		job:  job,
		cron: cron.New(cron.WithLocation(loc)),
		now:  time.Now,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.spec, func() { s.RunNow(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule report refresh: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.spec).
		Str("timezone", s.loc.String()).
		Msg("Report refresh scheduled")

	return nil
}

// RunNow refreshes today's report unless a refresh is already running.
// It reports whether a run happened.
func (s *Scheduler) RunNow(ctx context.Context) bool {
	if !s.running.TryLock() {
		log.Warn().Msg("Previous refresh still running, skipping tick")
		return false
	}
	defer s.running.Unlock()

	s.wg.Add(1)
	defer s.wg.Done()

	if ctx.Err() != nil {
		return false
	}

	date := s.now().In(s.loc).Format("01/02/2006")
	start := time.Now()
	log.Info().Str("date", date).Msg("Running scheduled refresh...")

	if err := s.job(ctx, date); err != nil {
		log.Error().Err(err).Str("date", date).Msg("Scheduled refresh failed")
		return true
	}

	log.Info().
		Str("date", date).
		Dur("duration", time.Since(start)).
		Msg("Scheduled refresh complete")
	return true
}

// Stop stops the scheduler and waits for an in-flight run
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	s.wg.Wait()

	log.Info().Msg("Scheduler stopped")
}
