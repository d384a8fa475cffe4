package browser

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

var (
	// ErrNotInitialized means StartSession ran before Initialize.
	ErrNotInitialized = errors.New("session manager not initialized")

	// ErrSessionNotFound is returned for an unknown session name.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExists is returned when a name is already in use.
	ErrSessionExists = errors.New("session already exists")

	// ErrSessionLimit is returned when max sessions are open.
	ErrSessionLimit = errors.New("session limit reached")
)

// SessionManager launches named Chromium sessions and tracks them until
// they are closed. One Playwright driver serves every session.
type SessionManager struct {
	mu          sync.RWMutex
	pw          *playwright.Playwright
	sessions    map[string]*Session
	maxSessions int
	idleTimeout time.Duration
	logger      *zap.Logger
}

// NewSessionManager creates a manager with DefaultMaxSessions and
// DefaultIdleTimeout. A nil logger discards output.
func NewSessionManager(logger *zap.Logger) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionManager{
		sessions:    map[string]*Session{},
		maxSessions: DefaultMaxSessions,
		idleTimeout: DefaultIdleTimeout,
		logger:      logger.With(zap.String("component", "browser")),
	}
}

// Initialize installs the driver and Chromium on first use and starts the
// driver. Calling it again is a no-op.
func (m *SessionManager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pw != nil {
		return nil
	}

	runOpts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}
	if err := playwright.Install(runOpts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}
	pw, err := playwright.Run(runOpts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	m.pw = pw
	m.logger.Info("playwright driver running")
	return nil
}

// StartSession launches a browser for name. Unset viewport and timeout
// options take the package defaults.
func (m *SessionManager) StartSession(name string, opts SessionOptions) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case m.sessions[name] != nil:
		return nil, fmt.Errorf("%w: %q", ErrSessionExists, name)
	case len(m.sessions) >= m.maxSessions:
		return nil, fmt.Errorf("%w: %d open", ErrSessionLimit, m.maxSessions)
	case m.pw == nil:
		return nil, ErrNotInitialized
	}

	opts = opts.withDefaults()
	session, err := m.launch(name, opts)
	if err != nil {
		return nil, err
	}
	m.sessions[name] = session

	m.logger.Info("session started",
		zap.String("session", name),
		zap.Bool("headless", opts.Headless),
		zap.Int("viewport_width", opts.Viewport.Width),
		zap.Int("viewport_height", opts.Viewport.Height),
		zap.Duration("timeout", opts.Timeout),
	)
	return session, nil
}

// launch opens browser, context and page, unwinding on failure.
func (m *SessionManager) launch(name string, opts SessionOptions) (*Session, error) {
	b, err := m.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch chromium: %w", err)
	}

	bctx, err := b.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: opts.Viewport.Width, Height: opts.Viewport.Height},
	})
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		_ = b.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	page.SetDefaultTimeout(float64(opts.Timeout.Milliseconds()))

	now := time.Now()
	return &Session{
		Name:      name,
		Headless:  opts.Headless,
		browser:   b,
		context:   bctx,
		page:      page,
		waitUntil: opts.WaitUntil,
		createdAt: now,
		lastUsed:  now,
	}, nil
}

// GetSession looks up a live session.
func (m *SessionManager) GetSession(name string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if session := m.sessions[name]; session != nil {
		return session, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, name)
}

// CloseSession closes a session and drops it. A failed browser cleanup is
// logged; the session is dropped regardless.
func (m *SessionManager) CloseSession(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sessions[name] == nil {
		return fmt.Errorf("%w: %q", ErrSessionNotFound, name)
	}
	if err := m.closeLocked(func(s *Session) bool { return s.Name == name }); err != nil {
		m.logger.Warn("session cleanup failed", zap.String("session", name), zap.Error(err))
	}
	return nil
}

// ListSessions describes the live sessions, sorted by name.
func (m *SessionManager) ListSessions() []SessionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]SessionInfo, 0, len(m.sessions))
	for _, session := range m.sessions {
		infos = append(infos, session.Info())
	}
	slices.SortFunc(infos, func(a, b SessionInfo) int { return strings.Compare(a.Name, b.Name) })
	return infos
}

// HasSessions reports whether any session is open.
func (m *SessionManager) HasSessions() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions) > 0
}

// CloseAll closes every session.
func (m *SessionManager) CloseAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeLocked(func(*Session) bool { return true })
}

// CleanupIdleSessions closes sessions unused for longer than the idle timeout.
func (m *SessionManager) CleanupIdleSessions() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-m.idleTimeout)
	return m.closeLocked(func(s *Session) bool { return s.LastUsed().Before(cutoff) })
}

func (m *SessionManager) closeLocked(match func(*Session) bool) error {
	var errs []error
	for name, session := range m.sessions {
		if !match(session) {
			continue
		}
		delete(m.sessions, name)
		if err := session.close(); err != nil {
			errs = append(errs, fmt.Errorf("session %q: %w", name, err))
			continue
		}
		m.logger.Debug("session closed", zap.String("session", name))
	}
	return errors.Join(errs...)
}

// Shutdown closes every session and stops the driver. The manager can be
// initialized again afterwards.
func (m *SessionManager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.closeLocked(func(*Session) bool { return true })
	if m.pw == nil {
		return err
	}
	if stopErr := m.pw.Stop(); stopErr != nil {
		return errors.Join(err, fmt.Errorf("failed to stop playwright: %w", stopErr))
	}
	m.pw = nil
	m.logger.Info("playwright driver stopped")
	return err
}

// SetMaxSessions caps the number of open sessions.
func (m *SessionManager) SetMaxSessions(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxSessions = n
}

// SetIdleTimeout sets how long a session may sit unused before
// CleanupIdleSessions closes it.
func (m *SessionManager) SetIdleTimeout(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idleTimeout = d
}
