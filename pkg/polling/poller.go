package polling

import (
	"context"
	"fmt"
	"time"
)

// CheckFunc evaluates the subject once. A truthy result ends the poll
// successfully. The result may be an Awaitable. A non-nil error aborts the
// poll immediately.
type CheckFunc func(ctx context.Context, subject any) (any, error)

// Config holds a Poller's injected collaborators.
type Config struct {
	// Logger receives records for polls whose Options.Logger is nil.
	// Defaults to NopLogger.
	Logger Logger

	// Scheduler provides result settlement and waiting. Defaults to ClockScheduler.
	Scheduler Scheduler

	// Queue, when set, runs each poll as a single command.
	Queue CommandQueue
}

// Poller runs polls with a fixed set of collaborators. It holds no per-poll
// state and is safe for concurrent use.
type Poller struct {
	logger    Logger
	scheduler Scheduler
	queue     CommandQueue
}

// NewPoller creates a poller, filling in defaults for missing collaborators.
func NewPoller(cfg Config) *Poller {
	p := &Poller{
		logger:    cfg.Logger,
		scheduler: cfg.Scheduler,
		queue:     cfg.Queue,
	}
	if p.logger == nil {
		p.logger = NopLogger
	}
	if p.scheduler == nil {
		p.scheduler = ClockScheduler{}
	}
	return p
}

var defaultPoller = NewPoller(Config{})

// Default returns the package-level poller used by Poll.
func Default() *Poller {
	return defaultPoller
}

// Poll runs a poll on the default poller.
func Poll(ctx context.Context, subject any, check CheckFunc, opts Options) (any, error) {
	return defaultPoller.Poll(ctx, subject, check, opts)
}

type pollPhase int

const (
	phaseChecking pollPhase = iota
	phaseWaiting
	phaseSucceeded
	phaseFailed
)

// pollState is owned by a single Poll call.
type pollState struct {
	phase     pollPhase
	remaining int
	wait      time.Duration
	cursor    *ScheduleCursor
	result    any
}

// Poll evaluates check against subject until it yields a truthy value or
// the attempt budget is exhausted.
//
// On success the truthy result is returned unchanged. On exhaustion the poll
// returns a *PollingFailure, unless opts.PostFailureAction or
// opts.IgnoreFailureException turn the failure into a result. A nil check or
// invalid options return a *ConfigurationError before anything is scheduled.
func (p *Poller) Poll(ctx context.Context, subject any, check CheckFunc, opts Options) (any, error) {
	if check == nil {
		return nil, &ConfigurationError{Field: "check", Reason: "should be a function, found nil"}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if p.queue == nil {
		return p.run(ctx, subject, check, opts)
	}
	return p.queue.Run(ctx, func(ctx context.Context) (any, error) {
		return p.run(ctx, subject, check, opts)
	})
}

func (p *Poller) run(ctx context.Context, subject any, check CheckFunc, original Options) (any, error) {
	opts := original.normalize()
	logger := opts.Logger
	if logger == nil {
		logger = p.logger
	}
	detail := func() any { return original }

	st := &pollState{
		phase:     phaseChecking,
		remaining: AttemptBudget(opts),
		cursor:    NewScheduleCursor(opts.Interval),
	}

	if opts.Log {
		emit(logger, Record{
			Name:    opts.Description,
			Message: compactParts(opts.CustomLogMessage, original),
			Detail:  detail,
		})
	}

	for {
		switch st.phase {
		case phaseChecking:
			raw, err := check(ctx, subject)
			if err != nil {
				return nil, fmt.Errorf("%s: check failed: %w", opts.Description, err)
			}
			result, err := p.scheduler.Resolve(ctx, raw)
			if err != nil {
				return nil, fmt.Errorf("%s: resolving check result: %w", opts.Description, err)
			}

			if opts.Log && opts.Verbose {
				message := []any{result}
				if opts.CustomLogCheckMessage != "" {
					message = append([]any{opts.CustomLogCheckMessage}, message...)
				}
				emit(logger, Record{Name: opts.Description, Message: message, Detail: detail})
			}

			st.result = result
			st.wait = st.cursor.Next()

			switch {
			case Truthy(result):
				st.phase = phaseSucceeded
			case st.remaining < 1:
				st.phase = phaseFailed
			case st.wait <= 0:
				// Zero wait: stop retrying without an error.
				return nil, nil
			default:
				st.phase = phaseWaiting
			}

		case phaseWaiting:
			if err := p.scheduler.Wait(ctx, st.wait); err != nil {
				return nil, fmt.Errorf("%s: waiting %s: %w", opts.Description, st.wait, err)
			}
			st.remaining--
			st.phase = phaseChecking

		case phaseSucceeded:
			return st.result, nil

		case phaseFailed:
			return p.fail(st, opts)
		}
	}
}

// fail settles an exhausted poll.
func (p *Poller) fail(st *pollState, opts Options) (any, error) {
	msg := opts.failureMessage(st.result)

	if opts.PostFailureAction != nil {
		if v, ok := opts.PostFailureAction(); ok {
			return v, nil
		}
		return nil, nil
	}
	if opts.IgnoreFailureException {
		return nil, nil
	}

	return nil, &PollingFailure{
		Message:     msg,
		Description: opts.Description,
		Result:      st.result,
	}
}
