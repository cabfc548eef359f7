// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a unit of scheduled work.
type Job func(ctx context.Context) error

// Scheduler runs one job on a cron schedule. Runs never overlap: a tick that
// fires while the previous run is active is skipped.
type Scheduler struct {
	cron    *cron.Cron
	spec    string
	name    string
	job     Job
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewScheduler creates a scheduler for job. spec accepts the standard
// 5-field format and descriptors such as "@every 5m".
func NewScheduler(name, spec string, job Job, timeout time.Duration, logger *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:    c,
		spec:    spec,
		name:    name,
		job:     job,
		timeout: timeout,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.run); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.String("job", s.name),
		slog.String("schedule", s.spec),
	)
	return nil
}

// Stop cancels a running job and returns a context that is done once it
// has returned.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	s.cancel()
	return s.cron.Stop()
}

// RunNow runs the job immediately in the caller's goroutine.
func (s *Scheduler) RunNow() {
	s.run()
}

func (s *Scheduler) run() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("previous run still active, skipping", slog.String("job", s.name))
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	s.logger.Info("starting scheduled job", slog.String("job", s.name))
	if err := s.job(ctx); err != nil {
		s.logger.Error("scheduled job failed", slog.String("job", s.name), slog.Any("error", err))
		return
	}
	s.logger.Info("scheduled job completed",
		slog.String("job", s.name),
		slog.Duration("elapsed", time.Since(start)),
	)
}
