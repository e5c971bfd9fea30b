// Package formsession keeps one form.Holder per browser session.
package formsession

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/authform/internal/form"
)

const (
	// CookieName is the session that carries the form session id.
	CookieName = "form-session"
	idKey      = "id"

	// DefaultIdleTimeout is how long an untouched form state is kept.
	DefaultIdleTimeout = 30 * time.Minute
)

// ErrInvalidSession is returned when the session cookie cannot be read or written.
var ErrInvalidSession = errors.New("invalid form session")

type entry struct {
	holder   *form.Holder
	lastSeen time.Time
}

// Service maps session ids to form state and evicts idle entries.
type Service struct {
	mu          sync.Mutex
	entries     map[string]*entry
	idleTimeout time.Duration
	now         func() time.Time
	logger      *slog.Logger

	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	stopOnce      sync.Once
}

// Option configures a Service.
type Option func(*Service)

// WithIdleTimeout sets how long an untouched entry survives.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.idleTimeout = d
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a Service and starts its cleanup loop.
func NewService(opts ...Option) *Service {
	s := &Service{
		entries:     make(map[string]*entry),
		idleTimeout: DefaultIdleTimeout,
		now:         time.Now,
		logger:      slog.Default().With("service", "formsession"),
		stopCleanup: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.cleanupTicker = time.NewTicker(time.Minute)
	go s.startCleanup()
	return s
}

// Holder returns the form state bound to the request's session, creating
// both the session id and the state when needed.
func (s *Service) Holder(c echo.Context) (*form.Holder, error) {
	sess, err := session.Get(CookieName, c)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	id, _ := sess.Values[idKey].(string)
	if id != "" {
		if h, ok := s.lookup(id); ok {
			return h, nil
		}
	}

	id = uuid.NewString()
	sess.Values[idKey] = id
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	return s.create(id), nil
}

// Discard drops the form state of the request's session, as when the form
// is torn down after a successful login.
func (s *Service) Discard(c echo.Context) {
	sess, err := session.Get(CookieName, c)
	if err != nil {
		return
	}
	if id, _ := sess.Values[idKey].(string); id != "" {
		s.mu.Lock()
		delete(s.entries, id)
		s.mu.Unlock()
	}
}

// Len returns the number of live entries.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Service) lookup(id string) (*form.Holder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = s.now()
	return e.holder, true
}

func (s *Service) create(id string) *form.Holder {
	h := form.NewHolder()
	s.mu.Lock()
	s.entries[id] = &entry{holder: h, lastSeen: s.now()}
	s.mu.Unlock()
	return h
}

// Sweep removes entries idle for longer than the timeout and returns how
// many were removed. Entries with a request in flight are kept.
func (s *Service) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.idleTimeout)
	removed := 0
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) && !e.holder.Snapshot().Loading {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

func (s *Service) startCleanup() {
	for {
		select {
		case <-s.cleanupTicker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Debug("Evicted idle form sessions", "count", n)
			}
		case <-s.stopCleanup:
			s.cleanupTicker.Stop()
			return
		}
	}
}

// Shutdown stops the cleanup loop.
func (s *Service) Shutdown() {
	s.stopOnce.Do(func() { close(s.stopCleanup) })
}
