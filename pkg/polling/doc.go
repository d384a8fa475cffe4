// Package polling repeatedly evaluates a check against a subject until the
// check yields a truthy value, the attempt budget runs out, or a failure
// override decides the outcome.
//
// # Attempt budget
//
// The budget is derived from Options.Mode:
//
//   - ModeTimeout: floor(Timeout / first interval), default failure message
//     "Timed out retrying."
//   - ModeRetry: Retries, default failure message "Retried too many times."
//
// The budget counts re-attempts. A poll with a budget of 3 invokes the check
// up to four times: once up front and once after each of three waits.
//
// # Wait schedule
//
// Options.Interval is one or more durations. A single duration is used for
// every wait. A sequence is consumed front to back and its last element then
// repeats for every remaining wait. See ScheduleCursor.
//
// A zero wait stops the poll silently: it resolves with a nil result and no
// error even though the budget was not exhausted. Callers relying on a zero
// entry in an interval sequence should be aware of this.
//
// # Suspension
//
// A Poller suspends in exactly two places, both delegated to its Scheduler:
// settling a pending check result (an Awaitable) and waiting between
// attempts. When a CommandQueue is configured, the whole poll runs as one
// command on it so that independent polls never interleave.
//
// # Example Usage
//
//	opts := polling.DefaultOptions()
//	opts.Mode = polling.ModeRetry
//	opts.Retries = 3
//	opts.Interval = polling.Sequence(100*time.Millisecond, 250*time.Millisecond)
//
//	result, err := polling.Poll(ctx, nil, func(ctx context.Context, _ any) (any, error) {
//	    return page.URL() != startURL, nil
//	}, opts)
package polling
