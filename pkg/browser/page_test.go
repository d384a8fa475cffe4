package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/screenplay/pkg/polling"
)

// fakePage is an in-memory Page. URLs are served from urls in order and the
// last one repeats.
type fakePage struct {
	mu sync.Mutex

	urls   []string
	title  string
	texts  map[string]string
	counts map[string]int
	values map[string]string
	err    error

	calls []string
}

var _ Page = (*fakePage)(nil)

func newFakePage(urls ...string) *fakePage {
	if len(urls) == 0 {
		urls = []string{"about:blank"}
	}
	return &fakePage{
		urls:   urls,
		texts:  map[string]string{},
		counts: map[string]int{},
		values: map[string]string{},
	}
}

func (p *fakePage) record(format string, args ...any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, fmt.Sprintf(format, args...))
	return p.err
}

func (p *fakePage) Navigate(_ context.Context, url string) error {
	if err := p.record("navigate %s", url); err != nil {
		return err
	}
	p.mu.Lock()
	p.urls = []string{url}
	p.mu.Unlock()
	return nil
}

func (p *fakePage) Click(_ context.Context, selector string) error {
	return p.record("click %s", selector)
}

func (p *fakePage) Fill(_ context.Context, selector, value string) error {
	if err := p.record("fill %s %s", selector, value); err != nil {
		return err
	}
	p.mu.Lock()
	p.values[selector] = value
	p.mu.Unlock()
	return nil
}

func (p *fakePage) Wait(_ context.Context, selector string, state WaitState) error {
	return p.record("wait %s %s", selector, state)
}

func (p *fakePage) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	url := p.urls[0]
	if len(p.urls) > 1 {
		p.urls = p.urls[1:]
	}
	return url
}

func (p *fakePage) Title(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title, p.err
}

func (p *fakePage) TextContent(_ context.Context, selector string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.texts[selector], p.err
}

func (p *fakePage) Count(_ context.Context, selector string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts[selector], p.err
}

func (p *fakePage) InputValue(_ context.Context, selector string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.values[selector], p.err
}

// instantScheduler skips waits and counts them.
type instantScheduler struct {
	waits []time.Duration
}

func (s *instantScheduler) Resolve(ctx context.Context, v any) (any, error) {
	return polling.ClockScheduler{}.Resolve(ctx, v)
}

func (s *instantScheduler) Wait(_ context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return nil
}
