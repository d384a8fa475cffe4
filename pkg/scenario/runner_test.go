package scenario

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/entrhq/screenplay/pkg/browser"
	"github.com/entrhq/screenplay/pkg/polling"
	"github.com/entrhq/screenplay/pkg/screenplay"
)

// stubPage is a scripted browser.Page. Text reads step through texts[selector]
// and stick on the last entry.
type stubPage struct {
	mu       sync.Mutex
	url      string
	title    string
	texts    map[string][]string
	counts   map[string]int
	values   map[string]string
	clickErr error
	navigate map[string]string // click selector -> url it leads to
	log      []string
}

func newStubPage() *stubPage {
	return &stubPage{
		url:      "about:blank",
		texts:    map[string][]string{},
		counts:   map[string]int{},
		values:   map[string]string{},
		navigate: map[string]string{},
	}
}

func (p *stubPage) Navigate(_ context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.log = append(p.log, "visit "+url)
	p.url = url
	return nil
}

func (p *stubPage) Click(_ context.Context, selector string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.log = append(p.log, "click "+selector)
	if p.clickErr != nil {
		return p.clickErr
	}
	if to, ok := p.navigate[selector]; ok {
		p.url = to
	}
	return nil
}

func (p *stubPage) Fill(_ context.Context, selector, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.log = append(p.log, fmt.Sprintf("fill %s=%s", selector, value))
	p.values[selector] = value
	return nil
}

func (p *stubPage) Wait(_ context.Context, selector string, state browser.WaitState) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.log = append(p.log, fmt.Sprintf("wait %s %s", selector, state))
	return nil
}

func (p *stubPage) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *stubPage) Title(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title, nil
}

func (p *stubPage) TextContent(_ context.Context, selector string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	texts := p.texts[selector]
	if len(texts) == 0 {
		return "", fmt.Errorf("no element matches %s", selector)
	}
	text := texts[0]
	if len(texts) > 1 {
		p.texts[selector] = texts[1:]
	}
	return text, nil
}

func (p *stubPage) Count(_ context.Context, selector string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts[selector], nil
}

func (p *stubPage) InputValue(_ context.Context, selector string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.values[selector], nil
}

type skipWaits struct{}

func (skipWaits) Resolve(ctx context.Context, v any) (any, error) {
	return polling.ClockScheduler{}.Resolve(ctx, v)
}

func (skipWaits) Wait(context.Context, time.Duration) error { return nil }

func newTestRunner(logger *zap.Logger) *Runner {
	return NewRunner(RunnerConfig{
		Logger: logger,
		Poller: polling.NewPoller(polling.Config{Scheduler: skipWaits{}}),
	})
}

const shopScenario = `
name: shop
polling:
  mode: retry
  retries: 3
steps:
  - visit: https://shop.example.com/
  - fill: {selector: '#search', value: socks}
  - click: '#go'
  - wait_for_url_change: https://shop.example.com/
  - wait_for: .results
checks:
  - url: https://shop.example.com/results
  - url_matches: "https://shop.example.com/*"
  - title: Results
  - text: {selector: h1, equals: Results}
  - value: {selector: '#search', contains: sock}
  - count: {selector: .result, above: 2}
`

func TestRunner_Passes(t *testing.T) {
	page := newStubPage()
	page.title = "Results"
	page.texts["h1"] = []string{"  Results \n"}
	page.counts[".result"] = 3
	page.navigate["#go"] = "https://shop.example.com/results"

	sc, err := Parse([]byte(shopScenario), nil)
	require.NoError(t, err)

	actor := screenplay.NewActor("shopper", browser.BrowseTheWeb(page))
	report, err := newTestRunner(nil).Run(context.Background(), sc, actor)
	require.NoError(t, err)

	assert.True(t, report.Passed())
	assert.Equal(t, "shop", report.Scenario)
	assert.NotEmpty(t, report.RunID)
	assert.Nil(t, report.StepErr)
	require.Len(t, report.Checks, 6)
	for _, c := range report.Checks {
		assert.True(t, c.Passed, c.Name)
	}

	assert.Equal(t, []string{
		"visit https://shop.example.com/",
		"fill #search=socks",
		"click #go",
		"wait .results ",
	}, page.log)
}

func TestRunner_ChecksArePolled(t *testing.T) {
	page := newStubPage()
	page.texts["#status"] = []string{"loading", "loading", "ready"}

	sc, err := Parse([]byte(`
name: eventually
polling: {mode: retry, retries: 5}
checks:
  - text: {selector: '#status', equals: ready}
`), nil)
	require.NoError(t, err)

	actor := screenplay.NewActor("waiter", browser.BrowseTheWeb(page))
	report, err := newTestRunner(nil).Run(context.Background(), sc, actor)
	require.NoError(t, err)
	assert.True(t, report.Checks[0].Passed)
}

func TestRunner_FailedChecksAreJoined(t *testing.T) {
	page := newStubPage()
	page.url = "https://shop.example.com/cart"
	page.title = "Cart"
	page.counts["li"] = 1

	sc, err := Parse([]byte(`
name: failing
polling: {mode: retry, retries: 2}
checks:
  - title: Cart
  - count: {selector: li, equals: 3}
  - url: https://shop.example.com/checkout
`), nil)
	require.NoError(t, err)

	actor := screenplay.NewActor("shopper", browser.BrowseTheWeb(page))
	report, err := newTestRunner(nil).Run(context.Background(), sc, actor)
	require.Error(t, err)
	assert.False(t, report.Passed())

	require.Len(t, report.Checks, 3)
	assert.True(t, report.Checks[0].Passed)
	assert.False(t, report.Checks[1].Passed)
	assert.Equal(t, "count of li is 1", report.Checks[1].Message)
	assert.False(t, report.Checks[2].Passed)
	assert.Equal(t, "url is https://shop.example.com/cart", report.Checks[2].Message)

	assert.Contains(t, err.Error(), `check "count of li = 3": count of li is 1`)
	assert.Contains(t, err.Error(), `check "url is https://shop.example.com/checkout"`)
}

func TestRunner_QuestionErrorsAreRetried(t *testing.T) {
	page := newStubPage()

	sc, err := Parse([]byte(`
name: missing
polling: {mode: retry, retries: 1}
checks:
  - text: {selector: h2, contains: x}
`), nil)
	require.NoError(t, err)

	actor := screenplay.NewActor("reader", browser.BrowseTheWeb(page))
	report, err := newTestRunner(nil).Run(context.Background(), sc, actor)
	require.Error(t, err)
	assert.Equal(t, "no element matches h2", report.Checks[0].Message)
}

func TestRunner_IgnoredFailuresStillFailTheCheck(t *testing.T) {
	page := newStubPage()
	page.title = "Old"

	sc, err := Parse([]byte(`
name: ignored
polling: {mode: retry, retries: 1, ignore_failure_exception: true}
checks:
  - title: New
`), nil)
	require.NoError(t, err)

	actor := screenplay.NewActor("reader", browser.BrowseTheWeb(page))
	report, err := newTestRunner(nil).Run(context.Background(), sc, actor)
	require.Error(t, err)
	assert.Equal(t, `title is "Old"`, report.Checks[0].Message)
}

func TestRunner_StepFailureSkipsChecks(t *testing.T) {
	page := newStubPage()
	page.clickErr = errors.New("element detached")

	sc, err := Parse([]byte(`
name: broken
steps:
  - click: '#go'
  - visit: https://never
checks:
  - title: Anything
`), nil)
	require.NoError(t, err)

	core, logs := observer.New(zap.InfoLevel)
	actor := screenplay.NewActor("clicker", browser.BrowseTheWeb(page))
	report, err := newTestRunner(zap.New(core)).Run(context.Background(), sc, actor)

	require.Error(t, err)
	assert.ErrorIs(t, err, page.clickErr)
	assert.ErrorIs(t, report.StepErr, page.clickErr)
	assert.Empty(t, report.Checks)
	assert.Equal(t, []string{"click #go"}, page.log)
	assert.Equal(t, 1, logs.FilterMessage("steps failed").Len())
}

func TestRunner_MissingAbilityAborts(t *testing.T) {
	sc, err := Parse([]byte("name: blind\nchecks:\n  - title: Home\n"), nil)
	require.NoError(t, err)

	report, err := newTestRunner(nil).Run(context.Background(), sc, screenplay.NewActor("nobody"))
	var notFound *screenplay.CapabilityNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Empty(t, report.Checks)
}

func TestRunner_DefaultPollerLogsChecks(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	runner := NewRunner(RunnerConfig{Logger: zap.New(core)})
	require.NotNil(t, runner.Poller())

	page := newStubPage()
	page.title = "Home"
	sc, err := Parse([]byte("name: logged\nchecks:\n  - title: Home\n"), nil)
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), sc, screenplay.NewActor("a", browser.BrowseTheWeb(page)))
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage(`check title is "Home"`).Len())
	assert.Equal(t, 1, logs.FilterMessage("scenario finished").Len())
}
