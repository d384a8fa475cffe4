package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

var _ Page = (*Session)(nil)

// Session is one Playwright browser with its isolated context and page.
type Session struct {
	Name     string
	Headless bool

	browser   playwright.Browser
	context   playwright.BrowserContext
	page      playwright.Page
	waitUntil string
	createdAt time.Time

	mu       sync.Mutex
	lastUsed time.Time
}

func (s *Session) touch(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.lastUsed = time.Now()
	s.mu.Unlock()
	return nil
}

// LastUsed returns the time of the most recent page operation.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Info returns a snapshot of the session's metadata.
func (s *Session) Info() SessionInfo {
	return SessionInfo{
		Name:       s.Name,
		CurrentURL: s.page.URL(),
		Headless:   s.Headless,
		CreatedAt:  s.createdAt,
		LastUsedAt: s.LastUsed(),
	}
}

// Navigate loads url in the session's page.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.touch(ctx); err != nil {
		return err
	}

	opts := playwright.PageGotoOptions{}
	if s.waitUntil != "" {
		waitUntil := playwright.WaitUntilState(s.waitUntil)
		opts.WaitUntil = &waitUntil
	}

	if _, err := s.page.Goto(url, opts); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// Click clicks the first element matching selector.
func (s *Session) Click(ctx context.Context, selector string) error {
	if err := s.touch(ctx); err != nil {
		return err
	}
	if err := s.page.Locator(selector).First().Click(); err != nil {
		return fmt.Errorf("click on %s failed: %w", selector, err)
	}
	return nil
}

// Fill replaces the value of the input matching selector.
func (s *Session) Fill(ctx context.Context, selector, value string) error {
	if err := s.touch(ctx); err != nil {
		return err
	}
	if err := s.page.Locator(selector).First().Fill(value); err != nil {
		return fmt.Errorf("fill of %s failed: %w", selector, err)
	}
	return nil
}

// Wait blocks until the element matching selector reaches state.
func (s *Session) Wait(ctx context.Context, selector string, state WaitState) error {
	if err := s.touch(ctx); err != nil {
		return err
	}
	if selector == "" {
		return fmt.Errorf("selector is required for wait")
	}

	opts := playwright.PageWaitForSelectorOptions{}
	if state != "" {
		st := playwright.WaitForSelectorState(state)
		opts.State = &st
	}

	if _, err := s.page.WaitForSelector(selector, opts); err != nil {
		return fmt.Errorf("wait for %s failed: %w", selector, err)
	}
	return nil
}

// URL returns the page's current URL.
func (s *Session) URL() string {
	return s.page.URL()
}

// Title returns the page title.
func (s *Session) Title(ctx context.Context) (string, error) {
	if err := s.touch(ctx); err != nil {
		return "", err
	}
	return s.page.Title()
}

// TextContent returns the text of the first element matching selector.
func (s *Session) TextContent(ctx context.Context, selector string) (string, error) {
	if err := s.touch(ctx); err != nil {
		return "", err
	}
	text, err := s.page.Locator(selector).First().TextContent()
	if err != nil {
		return "", fmt.Errorf("text extraction from %s failed: %w", selector, err)
	}
	return text, nil
}

// Count returns the number of elements matching selector.
func (s *Session) Count(ctx context.Context, selector string) (int, error) {
	if err := s.touch(ctx); err != nil {
		return 0, err
	}
	n, err := s.page.Locator(selector).Count()
	if err != nil {
		return 0, fmt.Errorf("count of %s failed: %w", selector, err)
	}
	return n, nil
}

// InputValue returns the value of the input matching selector.
func (s *Session) InputValue(ctx context.Context, selector string) (string, error) {
	if err := s.touch(ctx); err != nil {
		return "", err
	}
	v, err := s.page.Locator(selector).First().InputValue()
	if err != nil {
		return "", fmt.Errorf("value of %s failed: %w", selector, err)
	}
	return v, nil
}

// close releases the page, context and browser. Every step runs even when an
// earlier one fails.
func (s *Session) close() error {
	return errors.Join(
		s.page.Close(),
		s.context.Close(),
		s.browser.Close(),
	)
}
