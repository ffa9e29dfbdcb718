package utils

import (
	"context"
	"time"
)

// Throttle runs jobs one at a time on the calling goroutine with a fixed
// pause after each job, successful or not.
type Throttle struct {
	interval time.Duration
}

// NewThrottle creates a Throttle that waits interval after every job.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval}
}

// Interval returns the pause enforced after each job.
func (t *Throttle) Interval() time.Duration {
	return t.interval
}

// Run calls job for 0..n-1 in order. Cancellation is checked before each
// job is dequeued and during the pause; an in-flight job always finishes.
// It returns the number of jobs that ran.
func (t *Throttle) Run(ctx context.Context, n int, job func(i int)) (int, error) {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		job(i)
		if err := Sleep(ctx, t.interval); err != nil {
			return i + 1, err
		}
	}
	return n, nil
}
