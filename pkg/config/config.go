// Package config loads screenplay's YAML configuration.
//
// Example configuration:
//
//	polling:
//	  mode: timeout
//	  interval: [100ms, 200ms, 500ms]
//	  timeout: 10s
//	  verbose: true
//
//	browser:
//	  headless: true
//	  viewport: {width: 1440, height: 900}
//	  timeout: 15s
//
//	logging:
//	  level: debug
//	  dir: ./logs
//
// Keys left out keep the values from DefaultConfig.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/entrhq/screenplay/pkg/browser"
	"github.com/entrhq/screenplay/pkg/polling"
)

// Config is the root configuration structure.
type Config struct {
	Polling PollingConfig `yaml:"polling"`
	Browser BrowserConfig `yaml:"browser"`
	Logging LoggingConfig `yaml:"logging"`
}

// PollingConfig holds the poll defaults every check and wait starts from.
type PollingConfig struct {
	// Mode is "timeout" or "retry".
	Mode string `yaml:"mode"`

	// Interval is one duration or a list consumed front to back.
	Interval Interval `yaml:"interval"`

	Timeout Duration `yaml:"timeout"`
	Retries int      `yaml:"retries"`

	Description            string `yaml:"description"`
	Log                    bool   `yaml:"log"`
	Verbose                bool   `yaml:"verbose"`
	IgnoreFailureException bool   `yaml:"ignore_failure_exception"`
}

// BrowserConfig configures the sessions the runner starts.
type BrowserConfig struct {
	Headless    bool           `yaml:"headless"`
	Viewport    ViewportConfig `yaml:"viewport"`
	Timeout     Duration       `yaml:"timeout"`
	WaitUntil   string         `yaml:"wait_until"`
	MaxSessions int            `yaml:"max_sessions"`
	IdleTimeout Duration       `yaml:"idle_timeout"`
}

// ViewportConfig is the browser window size.
type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// LoggingConfig selects the log level and directory.
type LoggingConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `yaml:"level"`

	// Dir holds per-run log files. Empty means ~/.screenplay/logs.
	Dir string `yaml:"dir"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Polling: PollingConfig{
			Mode:        string(polling.ModeTimeout),
			Interval:    Interval{Duration(polling.DefaultInterval)},
			Timeout:     Duration(polling.DefaultTimeout),
			Retries:     polling.DefaultRetries,
			Description: polling.DefaultDescription,
			Log:         true,
		},
		Browser: BrowserConfig{
			Headless: true,
			Viewport: ViewportConfig{
				Width:  browser.DefaultViewportWidth,
				Height: browser.DefaultViewportHeight,
			},
			Timeout:     Duration(browser.DefaultTimeout),
			WaitUntil:   "load",
			MaxSessions: browser.DefaultMaxSessions,
			IdleTimeout: Duration(browser.DefaultIdleTimeout),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML over DefaultConfig, expands ${VAR} references in the log
// directory and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	dir, err := ExpandEnv(cfg.Logging.Dir)
	if err != nil {
		return nil, fmt.Errorf("logging.dir: %w", err)
	}
	cfg.Logging.Dir = dir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	// poll configuration errors already name the section
	if err := c.Polling.Validate(); err != nil {
		return err
	}
	if err := c.Browser.Validate(); err != nil {
		return fmt.Errorf("browser: %w", err)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Validate checks the section the way a poll would.
func (p PollingConfig) Validate() error {
	return p.Options().Validate()
}

// Options converts the section to poll options.
func (p PollingConfig) Options() polling.Options {
	return polling.Options{
		Mode:                   polling.Mode(p.Mode),
		Interval:               p.Interval.Interval(),
		Timeout:                p.Timeout.Duration(),
		Retries:                p.Retries,
		Description:            p.Description,
		Log:                    p.Log,
		Verbose:                p.Verbose,
		IgnoreFailureException: p.IgnoreFailureException,
	}
}

var waitUntilStates = map[string]bool{
	"":                 true,
	"load":             true,
	"domcontentloaded": true,
	"networkidle":      true,
	"commit":           true,
}

// Validate checks limits and sizes.
func (b BrowserConfig) Validate() error {
	if b.Viewport.Width <= 0 || b.Viewport.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", b.Viewport.Width, b.Viewport.Height)
	}
	if b.Timeout.Duration() < 0 {
		return fmt.Errorf("timeout cannot be negative, got %s", b.Timeout.Duration())
	}
	if !waitUntilStates[b.WaitUntil] {
		return fmt.Errorf("unknown wait_until %q", b.WaitUntil)
	}
	if b.MaxSessions < 1 {
		return errors.New("max_sessions must be at least 1")
	}
	if b.IdleTimeout.Duration() < 0 {
		return fmt.Errorf("idle_timeout cannot be negative, got %s", b.IdleTimeout.Duration())
	}
	return nil
}

// SessionOptions converts the section to browser session options.
func (b BrowserConfig) SessionOptions() browser.SessionOptions {
	return browser.SessionOptions{
		Headless: b.Headless,
		Viewport: &browser.Viewport{
			Width:  b.Viewport.Width,
			Height: b.Viewport.Height,
		},
		Timeout:   b.Timeout.Duration(),
		WaitUntil: b.WaitUntil,
	}
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// MarshalYAML writes the duration in time.Duration string form.
func (d Duration) MarshalYAML() (any, error) {
	return d.Duration().String(), nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Interval is a poll interval written either as one duration or as a list.
//
//	interval: 200ms
//	interval: [100ms, 200ms, 1s]
type Interval []Duration

// UnmarshalYAML implements yaml.Unmarshaler for Interval.
func (iv *Interval) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var d Duration
		if err := node.Decode(&d); err != nil {
			return err
		}
		*iv = Interval{d}
		return nil
	case yaml.SequenceNode:
		var ds []Duration
		if err := node.Decode(&ds); err != nil {
			return err
		}
		if len(ds) == 0 {
			return errors.New("interval list cannot be empty")
		}
		*iv = Interval(ds)
		return nil
	}
	return fmt.Errorf("interval must be a duration or a list of durations, got %v", node.Kind)
}

// Interval converts to a poll interval.
func (iv Interval) Interval() polling.Interval {
	out := make(polling.Interval, len(iv))
	for i, d := range iv {
		out[i] = d.Duration()
	}
	return out
}

// envVarPattern matches ${VAR} and ${VAR:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// ExpandEnv replaces ${VAR} and ${VAR:-default} with environment values.
// An unset variable without a default is an error.
func ExpandEnv(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		sub := envVarPattern.FindStringSubmatch(match)
		name := sub[1]
		hasDefault := sub[2] != ""

		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		if hasDefault {
			return sub[3]
		}
		firstErr = fmt.Errorf("environment variable %q is not set", name)
		return match
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}
