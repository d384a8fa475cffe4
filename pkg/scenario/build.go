package scenario

import (
	"context"
	"fmt"
	"strings"

	"github.com/entrhq/screenplay/pkg/browser"
	"github.com/entrhq/screenplay/pkg/polling"
	"github.com/entrhq/screenplay/pkg/screenplay"
)

// Plan is a scenario turned into screenplay values.
type Plan struct {
	Name string

	// Task performs every step in order.
	Task screenplay.Task

	// Expectations are the checks, in file order.
	Expectations []Expectation

	// Options are the poll options checks start from.
	Options polling.Options
}

// Expectation asks a question and asserts on the answer.
type Expectation struct {
	Name   string
	Verify func(ctx context.Context, actor *screenplay.Actor) error
}

func expect[T any](name string, q screenplay.Question, assertion func(T) error) Expectation {
	return Expectation{
		Name: name,
		Verify: func(ctx context.Context, actor *screenplay.Actor) error {
			return screenplay.Asserts(ctx, actor, q, assertion)
		},
	}
}

// Build validates and converts the scenario. poller runs the waits inside
// wait_for_url_change steps; nil means polling.Default().
func (s *Scenario) Build(poller *polling.Poller) (*Plan, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	steps := make([]screenplay.Interaction, 0, len(s.Steps))
	for i, st := range s.Steps {
		in, err := st.interaction(poller)
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
		steps = append(steps, in)
	}

	expectations := make([]Expectation, 0, len(s.Checks))
	for i, c := range s.Checks {
		e, err := c.expectation()
		if err != nil {
			return nil, fmt.Errorf("checks[%d]: %w", i, err)
		}
		expectations = append(expectations, e)
	}

	return &Plan{
		Name:         s.Name,
		Task:         screenplay.NewTask(s.Name, steps...),
		Expectations: expectations,
		Options:      s.Polling.Options(),
	}, nil
}

func (st Step) interaction(poller *polling.Poller) (screenplay.Interaction, error) {
	switch {
	case st.Visit != "":
		return browser.Visit{URL: st.Visit}, nil
	case st.Click != "":
		return browser.Click{Selector: st.Click}, nil
	case st.Fill != nil:
		return browser.Fill{Selector: st.Fill.Selector, Value: st.Fill.Value}, nil
	case st.WaitFor != nil:
		return browser.WaitFor{Selector: st.WaitFor.Selector, State: st.WaitFor.State}, nil
	case st.WaitForURLChange != nil:
		return browser.WaitForURLToChange{
			From:    st.WaitForURLChange.From,
			Timeout: st.WaitForURLChange.Timeout.Duration(),
			Poller:  poller,
		}, nil
	}
	return nil, fmt.Errorf("step has no action")
}

func (c Check) expectation() (Expectation, error) {
	switch {
	case c.URL != "":
		want := c.URL
		return expect(fmt.Sprintf("url is %s", want), browser.CurrentURL(), func(got string) error {
			if got != want {
				return fmt.Errorf("url is %s", got)
			}
			return nil
		}), nil

	case c.URLMatches != "":
		q, err := browser.URLMatches(c.URLMatches)
		if err != nil {
			return Expectation{}, err
		}
		pattern := c.URLMatches
		return expect(fmt.Sprintf("url matches %s", pattern), q, func(ok bool) error {
			if !ok {
				return fmt.Errorf("url does not match %s", pattern)
			}
			return nil
		}), nil

	case c.Title != "":
		want := c.Title
		return expect(fmt.Sprintf("title is %q", want), browser.PageTitle(), func(got string) error {
			if got != want {
				return fmt.Errorf("title is %q", got)
			}
			return nil
		}), nil

	case c.Text != nil:
		return c.Text.expectation("text of", browser.TextOf(c.Text.Selector)), nil

	case c.Value != nil:
		return c.Value.expectation("value of", browser.ValueOf(c.Value.Selector)), nil

	case c.Count != nil:
		return c.Count.expectation(), nil
	}
	return Expectation{}, fmt.Errorf("check has no expectation")
}

func (t *TextCheck) expectation(subject string, q screenplay.Question) Expectation {
	if t.Equals != nil {
		want := *t.Equals
		return expect(fmt.Sprintf("%s %s is %q", subject, t.Selector, want), q, func(got string) error {
			if strings.TrimSpace(got) != want {
				return fmt.Errorf("%s %s is %q", subject, t.Selector, got)
			}
			return nil
		})
	}

	want := *t.Contains
	return expect(fmt.Sprintf("%s %s contains %q", subject, t.Selector, want), q, func(got string) error {
		if !strings.Contains(got, want) {
			return fmt.Errorf("%s %s is %q", subject, t.Selector, got)
		}
		return nil
	})
}

func (c *CountCheck) expectation() Expectation {
	var (
		op   string
		want int
		ok   func(n int) bool
	)
	switch {
	case c.Equals != nil:
		op, want = "=", *c.Equals
		ok = func(n int) bool { return n == want }
	case c.Above != nil:
		op, want = ">", *c.Above
		ok = func(n int) bool { return n > want }
	case c.Below != nil:
		op, want = "<", *c.Below
		ok = func(n int) bool { return n < want }
	case c.AtLeast != nil:
		op, want = ">=", *c.AtLeast
		ok = func(n int) bool { return n >= want }
	default:
		op, want = "<=", *c.AtMost
		ok = func(n int) bool { return n <= want }
	}

	selector := c.Selector
	return expect(fmt.Sprintf("count of %s %s %d", selector, op, want), browser.CountOf(selector), func(n int) error {
		if !ok(n) {
			return fmt.Errorf("count of %s is %d", selector, n)
		}
		return nil
	})
}
