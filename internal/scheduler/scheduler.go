package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bilgisen/rsswatch/internal/logger"
	"github.com/bilgisen/rsswatch/internal/models"
)

// ErrBusy is returned to a manual trigger that arrives while a run is
// already in progress. The periodic schedule retries soon, so the caller
// is rejected rather than queued.
var ErrBusy = errors.New("a fetch run is already in progress")

// DefaultStartupDelay is how long Start waits before the first run,
// giving the HTTP server a moment to come up.
const DefaultStartupDelay = 5 * time.Second

// Runner executes one ingest cycle
type Runner interface {
	Run(ctx context.Context) (*models.RunSummary, error)
}

// Scheduler triggers the ingest pipeline on a fixed interval and lets the
// API request a run on demand. A capacity-1 guard keeps at most one run
// active at any instant: a periodic tick that lands mid-run is skipped,
// a manual trigger observes ErrBusy.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	guard    chan struct{}

	// StartupDelay is the wait before the first run after Start.
	// Adjust before calling Start.
	StartupDelay time.Duration

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func New(runner Runner, interval time.Duration) *Scheduler {
	return &Scheduler{
		runner:       runner,
		interval:     interval,
		guard:        make(chan struct{}, 1),
		StartupDelay: DefaultStartupDelay,
	}
}

// Start launches the periodic loop. It is an error to start twice.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errors.New("scheduler already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.started = true

	go s.loop(runCtx)
	return nil
}

// Stop halts the periodic loop and waits for it to exit. An in-flight
// run finishes best-effort; partial insertion is safe because dedup is
// idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	done := s.done
	s.started = false
	s.mu.Unlock()

	cancel()
	<-done
}

// TriggerNow runs the pipeline immediately unless one is active, in
// which case it returns ErrBusy without blocking.
func (s *Scheduler) TriggerNow(ctx context.Context) (*models.RunSummary, error) {
	return s.tryRun(ctx)
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	log := logger.Get()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// One run shortly after startup, then the regular cadence
	startup := time.NewTimer(s.StartupDelay)
	defer startup.Stop()

	log.Info().Dur("interval", s.interval).Msg("Scheduler started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Scheduler stopped")
			return
		case <-startup.C:
		case <-ticker.C:
		}

		if _, err := s.tryRun(ctx); err != nil {
			if errors.Is(err, ErrBusy) {
				log.Debug().Msg("Previous run still active, skipping tick")
				continue
			}
			log.Error().Err(err).Msg("Scheduled run failed")
		}
	}
}

// tryRun acquires the run guard without blocking; the guard is released
// on every exit path.
func (s *Scheduler) tryRun(ctx context.Context) (*models.RunSummary, error) {
	select {
	case s.guard <- struct{}{}:
	default:
		return nil, ErrBusy
	}
	defer func() { <-s.guard }()

	return s.runner.Run(ctx)
}
