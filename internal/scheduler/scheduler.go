// Package scheduler fires the monthly report on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron"
	"go.uber.org/zap"
)

// DefaultSpec fires at 08:00 UTC on the 1st of every month. Fields are
// second, minute, hour, day of month, month, day of week.
const DefaultSpec = "0 0 8 1 * *"

type Job func(ctx context.Context)

type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

// New registers job under spec, evaluated in UTC. An empty spec selects
// DefaultSpec. The job receives ctx, so cancelling it stops in-flight work
// on shutdown.
func New(ctx context.Context, spec string, job Job, logger *zap.Logger) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultSpec
	}

	c := cron.NewWithLocation(time.UTC)

	err := c.AddFunc(spec, func() {
		logger.Info("scheduled report triggered", zap.String("spec", spec))
		job(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid report schedule %q: %w", spec, err)
	}

	return &Scheduler{cron: c, log: logger}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("report scheduler started", zap.Time("next_run", s.Next(time.Now().UTC())))
}

// Next returns the next fire time after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Schedule.Next(t)
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}
