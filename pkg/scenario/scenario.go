// Package scenario runs browser scenarios described in YAML.
//
// Example scenario:
//
//	name: login
//	session:
//	  headless: false
//	polling:
//	  timeout: 10s
//
//	steps:
//	  - visit: ${BASE_URL:-http://localhost:3000}/login
//	  - fill: {selector: '[data-cy="user"]', value: alice}
//	  - click: '[data-cy="submit"]'
//	  - wait_for_url_change: ${BASE_URL:-http://localhost:3000}/login
//	  - wait_for: {selector: h1, state: visible}
//
//	checks:
//	  - url_matches: "**/home"
//	  - text: {selector: h1, equals: Welcome}
//	  - count: {selector: .todo, at_least: 1}
//
// Steps run in order and stop at the first failure. Each check is polled
// until it holds or the scenario's polling options give up.
package scenario

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/screenplay/pkg/browser"
	"github.com/entrhq/screenplay/pkg/config"
)

// Scenario is one parsed scenario file.
type Scenario struct {
	Name string `yaml:"name"`

	// Session overrides the configured browser settings.
	Session config.BrowserConfig `yaml:"session"`

	// Polling overrides the configured poll defaults for checks.
	Polling config.PollingConfig `yaml:"polling"`

	Steps  []Step  `yaml:"steps"`
	Checks []Check `yaml:"checks"`
}

// Step is one action. Exactly one field is set.
type Step struct {
	Visit            string         `yaml:"visit"`
	Click            string         `yaml:"click"`
	Fill             *FillStep      `yaml:"fill"`
	WaitFor          *WaitForStep   `yaml:"wait_for"`
	WaitForURLChange *URLChangeStep `yaml:"wait_for_url_change"`
}

// FillStep types a value into an input.
type FillStep struct {
	Selector string `yaml:"selector"`
	Value    string `yaml:"value"`
}

// WaitForStep waits for an element state. It may be written as a bare
// selector, which waits for visibility.
type WaitForStep struct {
	Selector string
	State    browser.WaitState
}

// UnmarshalYAML implements yaml.Unmarshaler for WaitForStep.
func (w *WaitForStep) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&w.Selector)
	case yaml.MappingNode:
		var raw struct {
			Selector string `yaml:"selector"`
			State    string `yaml:"state"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		w.Selector = raw.Selector
		w.State = browser.WaitState(raw.State)
		return nil
	}
	return fmt.Errorf("wait_for must be a selector or an object, got %v", node.Kind)
}

// URLChangeStep waits for the URL to move away from From. It may be written
// as a bare URL.
type URLChangeStep struct {
	From    string
	Timeout config.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler for URLChangeStep.
func (u *URLChangeStep) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&u.From)
	case yaml.MappingNode:
		var raw struct {
			From    string          `yaml:"from"`
			Timeout config.Duration `yaml:"timeout"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		u.From = raw.From
		u.Timeout = raw.Timeout
		return nil
	}
	return fmt.Errorf("wait_for_url_change must be a url or an object, got %v", node.Kind)
}

// Check is one expectation about the page. Exactly one field is set.
type Check struct {
	URL        string      `yaml:"url"`
	URLMatches string      `yaml:"url_matches"`
	Title      string      `yaml:"title"`
	Text       *TextCheck  `yaml:"text"`
	Value      *TextCheck  `yaml:"value"`
	Count      *CountCheck `yaml:"count"`
}

// TextCheck compares an element's text or an input's value. Exactly one of
// Equals and Contains is set. Equals ignores surrounding whitespace.
type TextCheck struct {
	Selector string  `yaml:"selector"`
	Equals   *string `yaml:"equals"`
	Contains *string `yaml:"contains"`
}

// CountCheck compares the number of matching elements. Exactly one
// comparison is set.
type CountCheck struct {
	Selector string `yaml:"selector"`
	Equals   *int   `yaml:"equals"`
	Above    *int   `yaml:"above"`
	Below    *int   `yaml:"below"`
	AtLeast  *int   `yaml:"at_least"`
	AtMost   *int   `yaml:"at_most"`
}

// Load reads and parses a scenario file on top of base.
func Load(path string, base *config.Config) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return Parse(data, base)
}

// Parse parses a scenario. Session and polling keys left out keep base's
// values; a nil base means config.DefaultConfig(). URLs may reference
// ${VAR} and ${VAR:-default}.
func Parse(data []byte, base *config.Config) (*Scenario, error) {
	if base == nil {
		base = config.DefaultConfig()
	}

	sc := &Scenario{
		Session: base.Browser,
		Polling: base.Polling,
	}
	// the interval list is replaced, not merged, but must not alias base
	sc.Polling.Interval = append(config.Interval(nil), base.Polling.Interval...)

	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := sc.expand(); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// expand substitutes environment variables in URLs.
func (s *Scenario) expand() error {
	for i := range s.Steps {
		step := &s.Steps[i]
		if step.Visit != "" {
			v, err := config.ExpandEnv(step.Visit)
			if err != nil {
				return fmt.Errorf("steps[%d]: visit: %w", i, err)
			}
			step.Visit = v
		}
		if step.WaitForURLChange != nil {
			v, err := config.ExpandEnv(step.WaitForURLChange.From)
			if err != nil {
				return fmt.Errorf("steps[%d]: wait_for_url_change: %w", i, err)
			}
			step.WaitForURLChange.From = v
		}
	}

	for i := range s.Checks {
		check := &s.Checks[i]
		for _, field := range []*string{&check.URL, &check.URLMatches} {
			v, err := config.ExpandEnv(*field)
			if err != nil {
				return fmt.Errorf("checks[%d]: %w", i, err)
			}
			*field = v
		}
	}
	return nil
}

// Validate reports the first problem in the scenario.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if len(s.Steps) == 0 && len(s.Checks) == 0 {
		return errors.New("at least one step or check must be defined")
	}
	if err := s.Session.Validate(); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if err := s.Polling.Validate(); err != nil {
		return err
	}

	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	for i, check := range s.Checks {
		if err := check.validate(); err != nil {
			return fmt.Errorf("checks[%d]: %w", i, err)
		}
	}
	return nil
}

func (st Step) validate() error {
	set := 0
	for _, ok := range []bool{
		st.Visit != "",
		st.Click != "",
		st.Fill != nil,
		st.WaitFor != nil,
		st.WaitForURLChange != nil,
	} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("exactly one action is required, got %d", set)
	}

	switch {
	case st.Fill != nil:
		if st.Fill.Selector == "" {
			return errors.New("fill: selector is required")
		}
	case st.WaitFor != nil:
		if st.WaitFor.Selector == "" {
			return errors.New("wait_for: selector is required")
		}
		if !st.WaitFor.State.Valid() {
			return fmt.Errorf("wait_for: unknown state %q", st.WaitFor.State)
		}
	case st.WaitForURLChange != nil:
		if st.WaitForURLChange.From == "" {
			return errors.New("wait_for_url_change: from is required")
		}
		if st.WaitForURLChange.Timeout.Duration() < 0 {
			return fmt.Errorf("wait_for_url_change: timeout cannot be negative, got %s", st.WaitForURLChange.Timeout.Duration())
		}
	}
	return nil
}

func (c Check) validate() error {
	set := 0
	for _, ok := range []bool{
		c.URL != "",
		c.URLMatches != "",
		c.Title != "",
		c.Text != nil,
		c.Value != nil,
		c.Count != nil,
	} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("exactly one expectation is required, got %d", set)
	}

	switch {
	case c.URLMatches != "":
		if _, err := browser.URLMatches(c.URLMatches); err != nil {
			return fmt.Errorf("url_matches: %w", err)
		}
	case c.Text != nil:
		return c.Text.validate("text")
	case c.Value != nil:
		return c.Value.validate("value")
	case c.Count != nil:
		return c.Count.validate()
	}
	return nil
}

func (t *TextCheck) validate(kind string) error {
	if t.Selector == "" {
		return fmt.Errorf("%s: selector is required", kind)
	}
	if (t.Equals == nil) == (t.Contains == nil) {
		return fmt.Errorf("%s: exactly one of equals and contains is required", kind)
	}
	return nil
}

func (c *CountCheck) validate() error {
	if c.Selector == "" {
		return errors.New("count: selector is required")
	}
	set := 0
	for _, p := range []*int{c.Equals, c.Above, c.Below, c.AtLeast, c.AtMost} {
		if p == nil {
			continue
		}
		if *p < 0 {
			return fmt.Errorf("count: comparison value cannot be negative, got %d", *p)
		}
		set++
	}
	if set != 1 {
		return fmt.Errorf("count: exactly one comparison is required, got %d", set)
	}
	return nil
}
