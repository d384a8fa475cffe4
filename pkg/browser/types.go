package browser

import (
	"context"
	"time"
)

// Page is the queryable element provider interactions and questions act on.
// Session implements it over Playwright; tests substitute their own.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, value string) error
	Wait(ctx context.Context, selector string, state WaitState) error

	URL() string
	Title(ctx context.Context) (string, error)
	TextContent(ctx context.Context, selector string) (string, error)
	Count(ctx context.Context, selector string) (int, error)
	InputValue(ctx context.Context, selector string) (string, error)
}

// WaitState is the element state Wait blocks for.
type WaitState string

const (
	StateAttached WaitState = "attached"
	StateDetached WaitState = "detached"
	StateVisible  WaitState = "visible"
	StateHidden   WaitState = "hidden"
)

// Valid reports whether s is one of the known states. Empty means visible.
func (s WaitState) Valid() bool {
	switch s {
	case "", StateAttached, StateDetached, StateVisible, StateHidden:
		return true
	}
	return false
}

// SessionOptions configures a new browser session.
type SessionOptions struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Viewport sets the initial viewport size
	Viewport *Viewport

	// Timeout is the default timeout for page operations
	Timeout time.Duration

	// WaitUntil decides when navigation counts as done:
	// "load", "domcontentloaded" or "networkidle"
	WaitUntil string
}

func (o SessionOptions) withDefaults() SessionOptions {
	if o.Viewport == nil {
		o.Viewport = &Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// SessionInfo contains metadata about a browser session.
type SessionInfo struct {
	Name       string
	CurrentURL string
	Headless   bool
	CreatedAt  time.Time
	LastUsedAt time.Time
}

const (
	DefaultTimeout        = 30 * time.Second
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
	DefaultMaxSessions    = 5
	DefaultIdleTimeout    = 5 * time.Minute
)
