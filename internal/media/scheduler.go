// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package media

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// sweepTimeout bounds one scheduled sweep.
const sweepTimeout = 10 * time.Minute

// Scheduler runs the collector periodically so files whose move failed
// are retried.
type Scheduler struct {
	cron *cron.Cron
	spec string
}

// NewScheduler registers a sweep on spec, a standard five field cron spec
// or a descriptor such as "@every 1h".
func NewScheduler(spec string, c *Collector) (*Scheduler, error) {
	logger := cronLogger{slog.Default().With("system", "cron")}
	cr := cron.New(cron.WithChain(
		cron.Recover(logger),
		cron.SkipIfStillRunning(logger),
	))

	_, err := cr.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		if err := c.Sweep(ctx); err != nil {
			slog.Error("scheduled trash sweep failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule trash sweep %q: %w", spec, err)
	}
	return &Scheduler{cron: cr, spec: spec}, nil
}

// Start starts the scheduler in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("trash sweep scheduled", "schedule", s.spec)
}

// Stop stops the scheduler and waits for a running sweep, or until ctx
// is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		slog.Warn("trash sweep still running at shutdown")
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error(msg, append(keysAndValues, "error", err)...)
}
