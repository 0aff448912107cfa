// Package session is the single source of truth for "who is the
// authenticated admin, and are we sure yet". It owns the identity
// lifecycle for the whole gateway; every other component reads identity
// through it and issues backend writes through AuthenticatedRequest.
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/sync/singleflight"

	"studioadmin/internal/platform/events"
	"studioadmin/internal/platform/metrics"
	dErrors "studioadmin/pkg/domain-errors"
)

// State is the identity resolution state.
type State int

const (
	// StateUnresolved means no identity check has completed yet.
	StateUnresolved State = iota
	// StateResolving means an identity check is in flight.
	StateResolving
	// StateAuthenticated means the last identity check succeeded.
	StateAuthenticated
	// StateUnauthenticated means the last identity check failed or the
	// admin logged out.
	StateUnauthenticated
)

// Identity is the authenticated admin operating the dashboard.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`

	// Raw preserves the full backend profile payload so the dashboard can
	// pass through fields this gateway does not model.
	Raw json.RawMessage `json:"-"`
}

// Requester issues raw backend requests with credentials attached.
// *backend.Client satisfies it.
type Requester interface {
	Do(ctx context.Context, method, path string, body []byte, headers http.Header) (json.RawMessage, int, error)
}

// Store implements the identity state machine. Construct one per process
// in main (or one per test) and share it by reference; it is safe for
// concurrent use.
type Store struct {
	backend      Requester
	bus          *events.Bus
	logger       *slog.Logger
	metrics      *metrics.Metrics
	loginSurface bool

	sf singleflight.Group

	mu          sync.RWMutex
	state       State
	identity    *Identity
	failureCode dErrors.Code
}

// Option configures a Store.
type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// WithLoginSurface marks this process as the login page host. Start skips
// the backend identity check in that case so an unauthenticated admin can
// reach the login form without bouncing through a redirect loop.
func WithLoginSurface(enabled bool) Option {
	return func(s *Store) {
		s.loginSurface = enabled
	}
}

// New creates a session store.
func New(backend Requester, bus *events.Bus, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		bus:     bus,
		state:   StateUnresolved,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Start performs the initial identity resolution. On the login surface it
// settles into a resting unauthenticated state without calling the backend.
func (s *Store) Start(ctx context.Context) {
	if s.loginSurface {
		s.mu.Lock()
		s.state = StateUnauthenticated
		s.mu.Unlock()
		return
	}
	s.Recheck(ctx)
}

// Recheck forces an identity resolution against the backend. It is
// idempotent and safe to call repeatedly; concurrent calls share a single
// in-flight check. It reports whether the admin is authenticated and never
// returns an error; failures are recorded as state.
func (s *Store) Recheck(ctx context.Context) bool {
	if s.metrics != nil {
		s.metrics.IdentityRechecks.Inc()
	}
	ok, _, _ := s.sf.Do("recheck", func() (any, error) {
		return s.resolve(ctx), nil
	})
	return ok.(bool)
}

func (s *Store) resolve(ctx context.Context) bool {
	s.mu.Lock()
	s.state = StateResolving
	s.mu.Unlock()

	payload, _, err := s.backend.Do(ctx, http.MethodGet, "/admin/me", nil, nil)
	if err != nil {
		s.logger.WarnContext(ctx, "identity resolution failed",
			"error", err,
			"kind", dErrors.CodeOf(err),
		)
		if s.metrics != nil {
			s.metrics.AuthFailures.Inc()
		}
		s.transition(nil, dErrors.CodeOf(err))
		return false
	}

	var ident Identity
	if err := json.Unmarshal(payload, &ident); err != nil || ident.ID == "" {
		s.logger.ErrorContext(ctx, "identity payload malformed",
			"error", err,
		)
		s.transition(nil, dErrors.CodeMalformedResponse)
		return false
	}
	ident.Raw = payload

	s.transition(&ident, "")
	return true
}

// transition commits the resolution outcome and publishes an identity
// event when presence or admin id actually changed.
func (s *Store) transition(ident *Identity, failure dErrors.Code) {
	s.mu.Lock()
	prev := s.identity
	s.identity = ident
	s.failureCode = failure
	if ident != nil {
		s.state = StateAuthenticated
	} else {
		s.state = StateUnauthenticated
	}
	s.mu.Unlock()

	changed := (prev == nil) != (ident == nil) ||
		(prev != nil && ident != nil && prev.ID != ident.ID)
	if changed && s.bus != nil {
		event := events.IdentityChanged{Present: ident != nil}
		if ident != nil {
			event.AdminID = ident.ID
		}
		s.bus.PublishIdentity(event)
	}
}

// Logout clears the identity and settles into the unauthenticated state.
func (s *Store) Logout() {
	s.transition(nil, "")
}

// Identity returns the current admin identity, or false when absent.
func (s *Store) Identity() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

// IsAuthenticated reports whether the last resolution succeeded.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateAuthenticated
}

// IsResolving reports whether an identity check is still in flight.
func (s *Store) IsResolving() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateResolving || s.state == StateUnresolved
}

// FailureCode returns the failure kind of the last resolution, or "" after
// a success or explicit logout. The dashboard middleware redirects to the
// login page when this reports unauthorized.
func (s *Store) FailureCode() dErrors.Code {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failureCode
}

// AuthenticatedRequest issues a backend request on behalf of the current
// admin. It fails fast without a network call when no identity is present;
// that is a programmer-error guard, callers must check authentication
// first. Default headers (Content-Type, X-User-Id) are merged under any
// caller-supplied headers; caller values win on conflict.
func (s *Store) AuthenticatedRequest(ctx context.Context, method, path string, body []byte, headers http.Header) (json.RawMessage, int, error) {
	ident, ok := s.Identity()
	if !ok {
		return nil, 0, dErrors.New(dErrors.CodeInternal, "authenticated request without identity")
	}

	merged := http.Header{}
	merged.Set("Content-Type", "application/json")
	merged.Set("X-User-Id", ident.ID)
	for key, values := range headers {
		merged.Del(key)
		for _, v := range values {
			merged.Add(key, v)
		}
	}

	return s.backend.Do(ctx, method, path, body, merged)
}
