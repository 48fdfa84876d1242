// Package scheduler runs the periodic fetch+analyze cycle for watch mode.
// Each tick is one ordinary sequential run; ticks never overlap because the
// cron entry is registered with a job wrapper that skips while one is active.
package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Job is a scheduled task
type Job func(ctx context.Context) error

// Scheduler manages the periodic watch cycle.
type Scheduler struct {
	cron *cron.Cron
}

// New creates a new scheduler
func New() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// AddIntervalJob schedules job every intervalMinutes. A tick that fires while
// the previous one is still running is skipped, keeping runs sequential.
func (s *Scheduler) AddIntervalJob(name string, intervalMinutes int, job Job) error {
	if intervalMinutes < 1 {
		return fmt.Errorf("interval must be at least 1 minute, got %d", intervalMinutes)
	}

	var running atomic.Bool
	schedule := fmt.Sprintf("@every %dm", intervalMinutes)

	_, err := s.cron.AddFunc(schedule, func() {
		if !running.CompareAndSwap(false, true) {
			log.Warnf("[scheduler] job %s still running, skipping tick", name)
			return
		}
		defer running.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		log.Infof("[scheduler] starting job: %s", name)
		start := time.Now()

		if err := job(ctx); err != nil {
			log.Errorf("[scheduler] job %s failed: %v", name, err)
		} else {
			log.Infof("[scheduler] job %s completed in %v", name, time.Since(start))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	log.Infof("[scheduler] added job: %s (every %dm)", name, intervalMinutes)
	return nil
}

// Start begins running scheduled jobs
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and returns a context that is done once running
// jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
