package polling

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every *ConfigurationError via errors.Is.
var ErrConfiguration = errors.New("invalid polling configuration")

// ConfigurationError reports a poll that was rejected before any attempt ran.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("polling: invalid %s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrConfiguration) succeed.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// ErrPollingFailed is matched by every *PollingFailure via errors.Is.
var ErrPollingFailed = errors.New("polling failed")

// PollingFailure is returned when the attempt budget is exhausted without a
// truthy result and no override applied.
type PollingFailure struct {
	// Message is the static or computed failure message.
	Message string

	// Description is the poll's description, as used for logging.
	Description string

	// Result is the last falsy value the check produced.
	Result any
}

func (e *PollingFailure) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrPollingFailed) succeed.
func (e *PollingFailure) Is(target error) bool {
	return target == ErrPollingFailed
}
