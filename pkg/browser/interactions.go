package browser

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/entrhq/screenplay/pkg/polling"
	"github.com/entrhq/screenplay/pkg/screenplay"
)

const (
	KindVisit              screenplay.InteractionKind = "Visit"
	KindClick              screenplay.InteractionKind = "Click"
	KindFill               screenplay.InteractionKind = "Fill"
	KindWaitFor            screenplay.InteractionKind = "WaitFor"
	KindWaitForURLToChange screenplay.InteractionKind = "WaitForURLToChange"
)

const (
	// URLChangeInterval is how often WaitForURLToChange reads the URL.
	URLChangeInterval = 100 * time.Millisecond

	// DefaultURLChangeTimeout applies when WaitForURLToChange has no timeout.
	DefaultURLChangeTimeout = 5 * time.Second
)

// Visit navigates to URL.
type Visit struct {
	URL string
}

func (Visit) Kind() screenplay.InteractionKind { return KindVisit }

func (v Visit) AttemptAs(ctx context.Context, actor *screenplay.Actor) (any, error) {
	page, err := PageOf(actor)
	if err != nil {
		return nil, err
	}
	actor.Logger().Debug("visit", zap.String("url", v.URL))
	return nil, page.Navigate(ctx, v.URL)
}

// Click clicks the element matching Selector.
type Click struct {
	Selector string
}

func (Click) Kind() screenplay.InteractionKind { return KindClick }

func (c Click) AttemptAs(ctx context.Context, actor *screenplay.Actor) (any, error) {
	page, err := PageOf(actor)
	if err != nil {
		return nil, err
	}
	actor.Logger().Debug("click", zap.String("selector", c.Selector))
	return nil, page.Click(ctx, c.Selector)
}

// Fill types Value into the input matching Selector.
type Fill struct {
	Selector string
	Value    string
}

func (Fill) Kind() screenplay.InteractionKind { return KindFill }

func (f Fill) AttemptAs(ctx context.Context, actor *screenplay.Actor) (any, error) {
	page, err := PageOf(actor)
	if err != nil {
		return nil, err
	}
	actor.Logger().Debug("fill", zap.String("selector", f.Selector))
	return nil, page.Fill(ctx, f.Selector, f.Value)
}

// WaitFor blocks until the element matching Selector reaches State.
type WaitFor struct {
	Selector string
	State    WaitState
}

func (WaitFor) Kind() screenplay.InteractionKind { return KindWaitFor }

func (w WaitFor) AttemptAs(ctx context.Context, actor *screenplay.Actor) (any, error) {
	if !w.State.Valid() {
		return nil, fmt.Errorf("unknown wait state %q", w.State)
	}
	page, err := PageOf(actor)
	if err != nil {
		return nil, err
	}
	return nil, page.Wait(ctx, w.Selector, w.State)
}

// WaitForURLToChange polls the page URL until it differs from From, then
// returns the new URL. The URL is read again after the poll succeeds and
// must still differ.
type WaitForURLToChange struct {
	From    string
	Timeout time.Duration

	// Poller defaults to polling.Default().
	Poller *polling.Poller
}

func (WaitForURLToChange) Kind() screenplay.InteractionKind { return KindWaitForURLToChange }

func (w WaitForURLToChange) AttemptAs(ctx context.Context, actor *screenplay.Actor) (any, error) {
	page, err := PageOf(actor)
	if err != nil {
		return nil, err
	}

	timeout := w.Timeout
	if timeout <= 0 {
		timeout = DefaultURLChangeTimeout
	}
	poller := w.Poller
	if poller == nil {
		poller = polling.Default()
	}

	_, err = poller.Poll(ctx, page, func(_ context.Context, subject any) (any, error) {
		return subject.(Page).URL() != w.From, nil
	}, polling.Options{
		Mode:        polling.ModeTimeout,
		Timeout:     timeout,
		Interval:    polling.Every(URLChangeInterval),
		Description: "wait for url to change",
		Log:         true,
	})
	if err != nil {
		return nil, err
	}

	current := page.URL()
	if current == w.From {
		return nil, fmt.Errorf("url is still %s", w.From)
	}
	return current, nil
}
