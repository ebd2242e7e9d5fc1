// internal/service/worker/pool.go

package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"socialpulse/internal/domain/pulse"
	"socialpulse/internal/metrics"
)

// Pool bounds how many heavy jobs (clustering, model fitting) run at once and
// how long each may take, waiting for a slot included.
type Pool struct {
	sem     *semaphore.Weighted
	timeout time.Duration
}

// NewPool creates a pool with size slots and a per-job time budget
func NewPool(size int, timeout time.Duration) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{
		sem:     semaphore.NewWeighted(int64(size)),
		timeout: timeout,
	}
}

// Do runs job on a pool slot and blocks until it returns or the budget is
// spent. On timeout the job's context is cancelled and ErrTimeout is returned
// without waiting for the job to notice.
func (p *Pool) Do(ctx context.Context, name string, job func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	if err := p.sem.Acquire(ctx, 1); err != nil {
		metrics.HeavyJobDuration.WithLabelValues(name, "timeout").Observe(time.Since(start).Seconds())
		return p.contextError(ctx, name, err)
	}

	done := make(chan error, 1)
	metrics.WorkersInFlight.Inc()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("%s panicked: %v: %w", name, r, pulse.ErrInternal)
			}
			p.sem.Release(1)
			metrics.WorkersInFlight.Dec()
		}()
		done <- job(ctx)
	}()

	select {
	case err := <-done:
		outcome := "ok"
		if err != nil {
			outcome = "error"
			if ctx.Err() != nil {
				outcome = "timeout"
				err = p.contextError(ctx, name, err)
			}
		}
		metrics.HeavyJobDuration.WithLabelValues(name, outcome).Observe(time.Since(start).Seconds())
		return err
	case <-ctx.Done():
		metrics.HeavyJobDuration.WithLabelValues(name, "timeout").Observe(time.Since(start).Seconds())
		return p.contextError(ctx, name, ctx.Err())
	}
}

// contextError reports a spent budget as ErrTimeout. A caller that cancelled
// on its own gets its cancellation back unchanged.
func (p *Pool) contextError(ctx context.Context, name string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s exceeded %s: %w", name, p.timeout, pulse.ErrTimeout)
	}
	return err
}
