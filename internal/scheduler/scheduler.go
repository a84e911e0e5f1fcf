// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package scheduler runs periodic maintenance jobs. The only job today
// removes comments left behind by a post delete whose cleanup failed.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSweepSchedule runs the orphan sweep every 15 minutes.
const DefaultSweepSchedule = "*/15 * * * *"

// Sweeper removes comments whose post no longer exists.
type Sweeper interface {
	PurgeOrphans(ctx context.Context) (int64, error)
}

// Scheduler owns the cron instance and its jobs.
type Scheduler struct {
	sweeper  Sweeper
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

// New creates a scheduler that runs sweeper on schedule. An empty schedule
// falls back to DefaultSweepSchedule.
func New(sweeper Sweeper, schedule string, logger *slog.Logger) *Scheduler {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		sweeper:  sweeper,
		schedule: schedule,
		timeout:  time.Minute,
		cron:     cron.New(),
		logger:   logger,
	}
}

// Start registers the jobs and starts the cron loop. An invalid schedule
// is reported here.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.SweepOrphans(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()), "schedule", s.schedule)
	return nil
}

// Stop stops the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// SweepOrphans runs one orphan sweep and returns the number of comments
// removed. Failures are logged; the next run retries.
func (s *Scheduler) SweepOrphans(ctx context.Context) int64 {
	n, err := s.sweeper.PurgeOrphans(ctx)
	if err != nil {
		s.logger.Error("failed to sweep orphan comments", "error", err)
		return 0
	}
	if n > 0 {
		s.logger.Info("swept orphan comments", "count", n)
	}
	return n
}
