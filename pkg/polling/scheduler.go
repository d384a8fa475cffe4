package polling

import (
	"context"
	"time"
)

// Awaitable is a pending check result. A check may return one instead of a
// plain value; the poll suspends until it settles.
type Awaitable interface {
	Await(ctx context.Context) (any, error)
}

// Scheduler provides the two suspension points of a poll.
type Scheduler interface {
	// Resolve settles a check result. Plain values are returned unchanged.
	Resolve(ctx context.Context, v any) (any, error)

	// Wait suspends the poll for d.
	Wait(ctx context.Context, d time.Duration) error
}

// Command is a deferred unit of work run by a CommandQueue.
type Command func(ctx context.Context) (any, error)

// CommandQueue serializes whole commands. Run blocks until cmd has run.
type CommandQueue interface {
	Run(ctx context.Context, cmd Command) (any, error)
}

// ClockScheduler waits on the wall clock and settles Awaitables in place.
type ClockScheduler struct{}

// Resolve implements Scheduler.
func (ClockScheduler) Resolve(ctx context.Context, v any) (any, error) {
	if a, ok := v.(Awaitable); ok {
		return a.Await(ctx)
	}
	return v, nil
}

// Wait implements Scheduler. It returns early with ctx.Err() if the context
// ends first.
func (ClockScheduler) Wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
