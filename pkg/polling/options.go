package polling

import (
	"fmt"
	"math"
	"time"
)

// Mode selects how the attempt budget is derived.
type Mode string

const (
	// ModeTimeout derives the budget from Timeout divided by the first interval.
	ModeTimeout Mode = "timeout"

	// ModeRetry uses Retries as the budget.
	ModeRetry Mode = "retry"
)

// Default failure messages per mode.
const (
	TimeoutMessage = "Timed out retrying."
	RetryMessage   = "Retried too many times."
)

// Default values for a poll, matching DefaultOptions.
const (
	DefaultInterval    = 200 * time.Millisecond
	DefaultTimeout     = 5 * time.Second
	DefaultRetries     = 25
	DefaultDescription = "polling"
)

// ErrorMessageFunc computes a failure message from the last result.
type ErrorMessageFunc func(result any, opts Options) string

// PostFailureAction runs when the budget is exhausted. Returning ok=true
// resolves the poll with value instead of failing it. Returning ok=false
// leaves the failure handling in place, except that no PollingFailure is
// raised once a PostFailureAction is configured.
type PostFailureAction func() (value bool, ok bool)

// Options configures one poll.
//
// Only Interval, Mode and Description are defaulted when empty. A zero
// Timeout or Retries is taken literally and gives a budget of 0, so callers
// wanting the package defaults start from DefaultOptions and override fields.
type Options struct {
	// Retries is the budget in ModeRetry.
	Retries int

	// Timeout is divided by the first interval to derive the budget in ModeTimeout.
	Timeout time.Duration

	// Interval is the wait schedule between attempts.
	Interval Interval

	// ErrorMessage overrides the mode's default failure message.
	ErrorMessage string

	// ErrorMessageFunc computes the failure message; it wins over ErrorMessage.
	ErrorMessageFunc ErrorMessageFunc

	// Description names the poll in log records.
	Description string

	// Log enables the start record; Verbose adds one record per attempt.
	Log     bool
	Verbose bool

	CustomLogMessage      string
	CustomLogCheckMessage string

	// Logger receives log records. Nil falls back to the Poller's logger.
	Logger Logger

	PostFailureAction PostFailureAction

	Mode Mode

	// IgnoreFailureException resolves an exhausted poll with a nil result
	// instead of a PollingFailure.
	IgnoreFailureException bool
}

// DefaultOptions returns the options a poll uses when the caller has no
// preference: 200ms interval, 5s timeout, 25 retries, logging on, timeout mode.
func DefaultOptions() Options {
	return Options{
		Retries:     DefaultRetries,
		Timeout:     DefaultTimeout,
		Interval:    Every(DefaultInterval),
		Description: DefaultDescription,
		Log:         true,
		Mode:        ModeTimeout,
	}
}

// normalize fills the fields whose zero value has no meaning.
func (o Options) normalize() Options {
	if len(o.Interval) == 0 {
		o.Interval = Every(DefaultInterval)
	}
	if o.Mode == "" {
		o.Mode = ModeTimeout
	}
	if o.Description == "" {
		o.Description = DefaultDescription
	}
	return o
}

// Validate checks the options the way Poll does before scheduling anything.
func (o Options) Validate() error {
	o = o.normalize()

	switch o.Mode {
	case ModeTimeout:
		if o.Timeout < 0 {
			return &ConfigurationError{Field: "timeout", Reason: "cannot be negative"}
		}
	case ModeRetry:
		if o.Retries < 0 {
			return &ConfigurationError{Field: "retries", Reason: "cannot be negative"}
		}
	default:
		return &ConfigurationError{Field: "mode", Reason: fmt.Sprintf("%q (must be 'timeout' or 'retry')", o.Mode)}
	}

	for i, d := range o.Interval {
		if d < 0 {
			return &ConfigurationError{Field: "interval", Reason: fmt.Sprintf("entry %d is negative (%s)", i, d)}
		}
	}

	return nil
}

// AttemptBudget returns the number of re-attempts a poll with these options
// may make. A zero first interval in ModeTimeout gives an unbounded budget.
func AttemptBudget(o Options) int {
	o = o.normalize()
	if o.Mode == ModeRetry {
		return o.Retries
	}
	first := o.Interval.First()
	if first <= 0 {
		return math.MaxInt
	}
	return int(o.Timeout / first)
}

// defaultMessage is the mode's failure message.
func (o Options) defaultMessage() string {
	if o.Mode == ModeRetry {
		return RetryMessage
	}
	return TimeoutMessage
}

// failureMessage resolves the message for an exhausted poll.
func (o Options) failureMessage(result any) string {
	switch {
	case o.ErrorMessageFunc != nil:
		return o.ErrorMessageFunc(result, o)
	case o.ErrorMessage != "":
		return o.ErrorMessage
	default:
		return o.defaultMessage()
	}
}

// String renders the options for log output.
func (o Options) String() string {
	return fmt.Sprintf("mode=%s timeout=%s interval=%s retries=%d description=%q",
		o.Mode, o.Timeout, o.Interval, o.Retries, o.Description)
}
