package polling

import (
	"fmt"
	"strings"
	"time"
)

// Interval is the wait configuration of a poll. A single element means a
// fixed wait; several elements form a variable schedule.
type Interval []time.Duration

// Every returns a fixed interval.
func Every(d time.Duration) Interval {
	return Interval{d}
}

// Sequence returns a variable interval consumed front to back.
func Sequence(steps ...time.Duration) Interval {
	return append(Interval(nil), steps...)
}

// IsScalar reports whether the interval has exactly one element.
func (i Interval) IsScalar() bool {
	return len(i) == 1
}

// First returns the first configured wait, or zero for an empty interval.
func (i Interval) First() time.Duration {
	if len(i) == 0 {
		return 0
	}
	return i[0]
}

// String renders the interval as "200ms" or "[100ms 200ms]".
func (i Interval) String() string {
	if i.IsScalar() {
		return i[0].String()
	}
	parts := make([]string, len(i))
	for n, d := range i {
		parts[n] = d.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, " "))
}

// ScheduleCursor hands out one wait duration per attempt.
//
// Waits are taken from the interval in order. When the interval is used up,
// its last element is returned for every further call. A cursor is owned by a
// single poll and is not safe for concurrent use.
type ScheduleCursor struct {
	steps Interval
	pos   int
}

// NewScheduleCursor creates a cursor over a private copy of the interval.
func NewScheduleCursor(interval Interval) *ScheduleCursor {
	return &ScheduleCursor{steps: Sequence(interval...)}
}

// Next returns the wait for the next attempt and advances the cursor.
func (c *ScheduleCursor) Next() time.Duration {
	if len(c.steps) == 0 {
		return 0
	}
	d := c.steps[c.pos]
	if c.pos < len(c.steps)-1 {
		c.pos++
	}
	return d
}

// Exhausted reports whether the cursor has reached the sticky last element.
func (c *ScheduleCursor) Exhausted() bool {
	return c.pos >= len(c.steps)-1
}
