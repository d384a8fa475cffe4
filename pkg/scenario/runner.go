package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/entrhq/screenplay/pkg/polling"
	"github.com/entrhq/screenplay/pkg/screenplay"
)

// RunnerConfig holds a Runner's collaborators.
type RunnerConfig struct {
	// Logger defaults to a no-op logger.
	Logger *zap.Logger

	// Poller runs checks and URL waits. Defaults to a poller that logs
	// to Logger.
	Poller *polling.Poller
}

// Runner executes plans against an actor.
type Runner struct {
	logger *zap.Logger
	poller *polling.Poller
}

// NewRunner creates a runner.
func NewRunner(cfg RunnerConfig) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "scenario"))

	poller := cfg.Poller
	if poller == nil {
		poller = polling.NewPoller(polling.Config{Logger: polling.ZapLogger(logger)})
	}
	return &Runner{logger: logger, poller: poller}
}

// Poller returns the poller the runner checks with.
func (r *Runner) Poller() *polling.Poller {
	return r.poller
}

// Report is the outcome of one scenario run.
type Report struct {
	RunID    string
	Scenario string
	Started  time.Time
	Duration time.Duration

	// StepErr is the error that stopped the steps. Checks do not run after it.
	StepErr error

	Checks []CheckResult
}

// CheckResult is the outcome of one check.
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// Passed reports whether every step and check succeeded.
func (r *Report) Passed() bool {
	return r.Err() == nil
}

// Err joins the step error and every failed check.
func (r *Report) Err() error {
	var errs []error
	if r.StepErr != nil {
		errs = append(errs, fmt.Errorf("steps: %w", r.StepErr))
	}
	for _, c := range r.Checks {
		if !c.Passed {
			errs = append(errs, fmt.Errorf("check %q: %s", c.Name, c.Message))
		}
	}
	return errors.Join(errs...)
}

// Run performs the scenario's steps as the actor, then polls each check.
// The returned error is Report.Err.
func (r *Runner) Run(ctx context.Context, sc *Scenario, actor *screenplay.Actor) (*Report, error) {
	plan, err := sc.Build(r.poller)
	if err != nil {
		return nil, err
	}
	return r.RunPlan(ctx, plan, actor)
}

// RunPlan runs an already built plan.
func (r *Runner) RunPlan(ctx context.Context, plan *Plan, actor *screenplay.Actor) (*Report, error) {
	report := &Report{
		RunID:    uuid.New().String(),
		Scenario: plan.Name,
		Started:  time.Now(),
	}
	logger := r.logger.With(zap.String("scenario", plan.Name), zap.String("scenario_run", report.RunID))
	logger.Info("scenario started", zap.Int("checks", len(plan.Expectations)))

	if _, err := actor.Performs(ctx, screenplay.Do(plan.Task)); err != nil {
		report.StepErr = err
		report.Duration = time.Since(report.Started)
		logger.Error("steps failed", zap.Error(err))
		return report, report.Err()
	}

	for _, e := range plan.Expectations {
		result, err := r.check(ctx, e, actor, plan.Options)
		if err != nil {
			report.Duration = time.Since(report.Started)
			return report, err
		}
		report.Checks = append(report.Checks, result)
		if result.Passed {
			logger.Debug("check passed", zap.String("check", e.Name))
		} else {
			logger.Warn("check failed", zap.String("check", e.Name), zap.String("reason", result.Message))
		}
	}

	report.Duration = time.Since(report.Started)
	err := report.Err()
	logger.Info("scenario finished", zap.Bool("passed", err == nil), zap.Duration("duration", report.Duration))
	return report, err
}

// check polls one expectation. Assertion failures and question errors are
// retried; a missing ability, an answer of the wrong type or a cancelled
// context end the run.
func (r *Runner) check(ctx context.Context, e Expectation, actor *screenplay.Actor, base polling.Options) (CheckResult, error) {
	var last error

	opts := base
	opts.Description = "check " + e.Name
	opts.ErrorMessageFunc = func(any, polling.Options) string {
		if last == nil {
			return "check did not pass"
		}
		return last.Error()
	}

	result, err := r.poller.Poll(ctx, actor, func(ctx context.Context, subject any) (any, error) {
		err := e.Verify(ctx, subject.(*screenplay.Actor))
		if err == nil {
			return true, nil
		}
		if fatal(ctx, err) {
			return nil, err
		}
		last = err
		return false, nil
	}, opts)

	var failure *polling.PollingFailure
	switch {
	case errors.As(err, &failure):
		return CheckResult{Name: e.Name, Message: failure.Message}, nil
	case err != nil:
		return CheckResult{}, fmt.Errorf("check %q: %w", e.Name, err)
	case result != true:
		// failure exceptions are ignored in these options
		msg := "check did not pass"
		if last != nil {
			msg = last.Error()
		}
		return CheckResult{Name: e.Name, Message: msg}, nil
	}
	return CheckResult{Name: e.Name, Passed: true}, nil
}

func fatal(ctx context.Context, err error) bool {
	var notFound *screenplay.CapabilityNotFoundError
	return ctx.Err() != nil ||
		errors.As(err, &notFound) ||
		errors.Is(err, screenplay.ErrAnswerType)
}
