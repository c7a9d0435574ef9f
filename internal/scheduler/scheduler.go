// Package scheduler drives the escalation engine on a fixed interval. It
// guarantees at most one pass in flight, coalesces ticks that arrive while a
// pass is still running, and keeps ticking after a failed pass: the fixed
// interval itself is the retry mechanism.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const DefaultInterval = 30 * time.Second

// PassRunner is the callable the timer invokes; the escalation engine's
// RunPass satisfies it via a small adapter in the composition root.
type PassRunner interface {
	RunPass(ctx context.Context) error
}

// PassRunnerFunc adapts a plain function to PassRunner.
type PassRunnerFunc func(ctx context.Context) error

func (f PassRunnerFunc) RunPass(ctx context.Context) error {
	return f(ctx)
}

// Lease gates a pass behind a cross-process lock so only one replica runs
// the schedule against a shared store. A nil Lease means no gating.
type Lease interface {
	// TryAcquire returns false without error when another holder owns the lease.
	TryAcquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

type Scheduler struct {
	runner   PassRunner
	interval time.Duration
	lease    Lease

	started atomic.Bool
	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

type Option func(*Scheduler)

func WithInterval(interval time.Duration) Option {
	return func(s *Scheduler) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

func WithLease(lease Lease) Option {
	return func(s *Scheduler) {
		s.lease = lease
	}
}

func New(runner PassRunner, opts ...Option) *Scheduler {
	s := &Scheduler{
		runner:   runner,
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the timer loop. It is idempotent: a second call is a no-op
// so a double-wired composition root cannot end up with two schedules.
func (s *Scheduler) Start(ctx context.Context) {
	if !s.started.CompareAndSwap(false, true) {
		slog.WarnContext(ctx, "scheduler already started, skipping duplicate start")
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.loop(ctx)

	slog.InfoContext(ctx, "scheduler started",
		slog.Duration("interval", s.interval),
		slog.Bool("leased", s.lease != nil),
	)
}

// Stop halts the timer and waits for an in-flight pass to finish.
func (s *Scheduler) Stop() {
	if !s.started.Load() || s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
	slog.Info("scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	// First pass right away, then on the interval. Running the pass
	// synchronously in this goroutine is what enforces max-concurrency-1;
	// the ticker's one-slot buffer drops ticks that fire mid-pass, which is
	// the coalescing behavior (one catch-up run, never a burst).
	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		slog.DebugContext(ctx, "pass still in flight, skipping tick")
		return
	}
	defer s.running.Store(false)

	if s.lease != nil {
		held, err := s.lease.TryAcquire(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "scheduler lease check failed",
				slog.String("error", err.Error()),
			)
			return
		}
		if !held {
			slog.DebugContext(ctx, "scheduler lease held elsewhere, skipping tick")
			return
		}
		defer func() {
			if err := s.lease.Release(ctx); err != nil {
				slog.WarnContext(ctx, "scheduler lease release failed",
					slog.String("error", err.Error()),
				)
			}
		}()
	}

	// A failed pass must never take the timer down with it; the engine has
	// already rolled back and logged, the next tick retries.
	if err := s.runner.RunPass(ctx); err != nil {
		slog.ErrorContext(ctx, "scheduled pass failed",
			slog.Time("tick_at", time.Now()),
			slog.String("error", err.Error()),
		)
	}
}
