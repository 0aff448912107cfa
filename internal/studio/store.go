// Package studio maintains which studio is active for the session and
// keeps the studio-scoped trainee list in sync with that selection. It
// reacts to identity and selection events explicitly; every dependent
// fetch is issued by a subscriber, never by implicit state observation.
package studio

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"studioadmin/internal/platform/events"
	"studioadmin/internal/platform/metrics"
	"studioadmin/internal/sentinel"
	"studioadmin/internal/studio/selection"
	dErrors "studioadmin/pkg/domain-errors"
	"studioadmin/pkg/platform/circuit"
)

// Session is the read-only slice of the session store this package needs.
type Session interface {
	AuthenticatedRequest(ctx context.Context, method, path string, body []byte, headers http.Header) (json.RawMessage, int, error)
	IsAuthenticated() bool
}

// UsersSnapshot is the scoped trainee cache handed to consumers.
type UsersSnapshot struct {
	Users       []User
	Loading     bool
	FailureKind dErrors.Code
}

// Store owns the studio list, the current selection, and the scoped user
// cache. Construct one per process (or per test) and call Start before use.
type Store struct {
	session   Session
	selection selection.Store
	bus       *events.Bus
	logger    *slog.Logger
	metrics   *metrics.Metrics
	breaker   *circuit.Breaker

	rootCtx context.Context

	mu             sync.RWMutex
	started        bool
	identitySeeded bool
	selected       string
	studios        []Studio
	studiosLoading bool
	studiosKind    dErrors.Code
	users          []User
	loadingUsers   bool
	usersKind      dErrors.Code

	// fetchSeq tags every scoped fetch; latestFetch is the newest issued
	// token. A resolving fetch whose token is no longer the latest, or
	// whose studio no longer matches the selection, is discarded.
	fetchSeq    uint64
	latestFetch uint64
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

// WithBreaker overrides the circuit breaker guarding the studio list fetch.
func WithBreaker(b *circuit.Breaker) Option {
	return func(s *Store) {
		s.breaker = b
	}
}

// New creates a studio store.
func New(sess Session, sel selection.Store, bus *events.Bus, opts ...Option) *Store {
	s := &Store{
		session:   sess,
		selection: sel,
		bus:       bus,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.breaker == nil {
		s.breaker = circuit.New("studio-list")
	}
	return s
}

// Start restores the persisted selection, subscribes to identity and
// selection events, and issues the initial fetches when identity has
// already resolved. Safe to call once; reads of persisted state happen
// here unconditionally.
func (s *Store) Start(ctx context.Context) {
	s.rootCtx = ctx

	persisted, err := s.selection.Load()
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.WarnContext(ctx, "failed to load persisted studio selection",
			"error", err,
		)
	}

	s.mu.Lock()
	s.started = true
	s.selected = persisted
	// A restored selection leaves the cache loading; it fills in once
	// identity resolves. No selection means empty and settled.
	s.loadingUsers = persisted != ""
	s.mu.Unlock()

	if s.metrics != nil && persisted != "" {
		s.metrics.StudioSelected.Set(1)
	}

	s.bus.SubscribeIdentity(s.onIdentity)
	s.bus.SubscribeSelection(s.onSelection)

	// When identity resolved before Start, the initial fetches are issued
	// from this snapshot. The seed flag swallows the one identity event
	// that may still deliver the same resolution; any later change
	// refetches as usual.
	if s.session.IsAuthenticated() {
		s.mu.Lock()
		s.identitySeeded = true
		s.mu.Unlock()
		s.beginStudioRefresh()
		go s.refreshStudios()
		if persisted != "" {
			go s.fetchScopedUsers(persisted, s.beginScopedFetch())
		}
	}
}

func (s *Store) onIdentity(e events.IdentityChanged) {
	if !e.Present {
		s.mu.Lock()
		s.identitySeeded = false
		s.users = nil
		s.loadingUsers = false
		s.usersKind = ""
		s.mu.Unlock()
		if s.metrics != nil {
			s.metrics.ActiveScopedUsers.Set(0)
		}
		return
	}

	s.mu.Lock()
	seeded := s.identitySeeded
	s.identitySeeded = false
	selected := s.selected
	s.mu.Unlock()
	if seeded {
		// Start already fetched for this resolution.
		return
	}

	s.beginStudioRefresh()
	go s.refreshStudios()
	if selected != "" {
		go s.fetchScopedUsers(selected, s.beginScopedFetch())
	}
}

func (s *Store) onSelection(e events.SelectionChanged) {
	if e.StudioID == "" {
		s.mu.Lock()
		s.users = nil
		s.loadingUsers = false
		s.usersKind = ""
		// Invalidate any in-flight fetch for the previous selection.
		s.fetchSeq++
		s.latestFetch = s.fetchSeq
		s.mu.Unlock()
		if s.metrics != nil {
			s.metrics.ActiveScopedUsers.Set(0)
		}
		return
	}
	if !s.session.IsAuthenticated() {
		return
	}
	go s.fetchScopedUsers(e.StudioID, s.beginScopedFetch())
}

// SetSelectedStudio changes the active studio. The in-memory value and the
// persisted record are committed together; an empty id clears the
// persisted record instead of storing an empty string. The dependent
// scoped fetch is triggered through the selection event.
func (s *Store) SetSelectedStudio(id string) {
	s.mu.Lock()
	s.selected = id
	s.mu.Unlock()

	var err error
	if id == "" {
		err = s.selection.Delete()
	} else {
		err = s.selection.Save(id)
	}
	if err != nil {
		s.logger.Warn("failed to persist studio selection",
			"studio_id", id,
			"error", err,
		)
	}

	if s.metrics != nil {
		if id == "" {
			s.metrics.StudioSelected.Set(0)
		} else {
			s.metrics.StudioSelected.Set(1)
		}
	}

	s.bus.PublishSelection(events.SelectionChanged{StudioID: id})
}

// RefreshData re-runs the scoped user fetch for the current selection
// without changing it. Callers use it after mutating a trainee. No-op when
// no studio is selected or identity is absent.
func (s *Store) RefreshData(ctx context.Context) {
	s.mu.RLock()
	selected := s.selected
	s.mu.RUnlock()
	if selected == "" || !s.session.IsAuthenticated() {
		return
	}
	s.fetchScopedUsers(selected, s.beginScopedFetch())
}

// beginStudioRefresh raises the loading flag at the launch site, before
// the fetch goroutine gets scheduled, so an observer at trigger time
// already sees an in-flight list fetch.
func (s *Store) beginStudioRefresh() {
	s.mu.Lock()
	s.studiosLoading = true
	s.mu.Unlock()
}

// refreshStudios fetches the studio list. Failures never surface: a
// not-found or server-error status degrades to the fixed placeholder
// set, anything else to an empty list. An open circuit still probes the
// backend so a recovery can close it again; while the circuit is open,
// any probe failure serves the placeholder set.
func (s *Store) refreshStudios() {
	ctx := s.ctx()

	wasOpen := s.breaker.IsOpen()

	payload, _, err := s.session.AuthenticatedRequest(ctx, http.MethodGet, "/admin/studios", nil, nil)
	if err != nil {
		kind := dErrors.CodeOf(err)
		s.logger.WarnContext(ctx, "studio list fetch failed",
			"kind", kind,
			"error", err,
		)
		if opened := s.breaker.RecordFailure(); opened {
			s.logger.WarnContext(ctx, "studio list circuit opened")
		}
		if wasOpen || kind == dErrors.CodeNotFound || kind == dErrors.CodeUpstreamError {
			s.serveFallback(ctx, kind)
			return
		}
		s.mu.Lock()
		s.studios = nil
		s.studiosLoading = false
		s.studiosKind = kind
		s.mu.Unlock()
		return
	}

	var studios []Studio
	if err := json.Unmarshal(payload, &studios); err != nil {
		s.logger.ErrorContext(ctx, "studio list payload malformed",
			"error", err,
		)
		s.breaker.RecordSuccess()
		s.mu.Lock()
		s.studios = nil
		s.studiosLoading = false
		s.studiosKind = dErrors.CodeMalformedResponse
		s.mu.Unlock()
		return
	}

	if closed := s.breaker.RecordSuccess(); closed {
		s.logger.InfoContext(ctx, "studio list circuit closed")
	}
	s.mu.Lock()
	s.studios = studios
	s.studiosLoading = false
	s.studiosKind = ""
	s.mu.Unlock()
}

func (s *Store) serveFallback(ctx context.Context, kind dErrors.Code) {
	if s.metrics != nil {
		s.metrics.FallbackServed.Inc()
	}
	s.logger.WarnContext(ctx, "serving placeholder studio list",
		"kind", kind,
	)
	s.mu.Lock()
	s.studios = FallbackStudios()
	s.studiosLoading = false
	s.studiosKind = kind
	s.mu.Unlock()
}

// beginScopedFetch issues the supersession token for a new scoped fetch.
// Tokens are issued at the launch site, not inside the fetch goroutine,
// so they follow selection order even when the goroutines run out of
// order. Previous data stays visible while the loading flag tells
// consumers a refresh is underway.
func (s *Store) beginScopedFetch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchSeq++
	s.latestFetch = s.fetchSeq
	s.loadingUsers = true
	return s.fetchSeq
}

// fetchScopedUsers runs one scoped fetch for the given studio. The token
// decides at resolution time whether the result is still current;
// superseded results are discarded, not merged.
func (s *Store) fetchScopedUsers(studioID string, token uint64) {
	ctx := s.ctx()

	path := "/admin/users?studio_id=" + url.QueryEscape(studioID)
	payload, _, err := s.session.AuthenticatedRequest(ctx, http.MethodGet, path, nil, nil)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.latestFetch || studioID != s.selected {
		if s.metrics != nil {
			s.metrics.SupersededFetches.Inc()
		}
		s.logger.DebugContext(ctx, "discarding superseded scoped fetch",
			"studio_id", studioID,
		)
		return
	}

	s.loadingUsers = false
	if err != nil {
		s.logger.WarnContext(ctx, "scoped user fetch failed",
			"studio_id", studioID,
			"kind", dErrors.CodeOf(err),
			"error", err,
		)
		s.users = nil
		s.usersKind = dErrors.CodeOf(err)
		if s.metrics != nil {
			s.metrics.ActiveScopedUsers.Set(0)
		}
		return
	}

	var users []User
	if err := json.Unmarshal(payload, &users); err != nil {
		s.logger.ErrorContext(ctx, "scoped user payload malformed",
			"studio_id", studioID,
			"error", err,
		)
		s.users = nil
		s.usersKind = dErrors.CodeMalformedResponse
		return
	}

	s.users = users
	s.usersKind = ""
	if s.metrics != nil {
		s.metrics.ActiveScopedUsers.Set(float64(len(users)))
	}
}

func (s *Store) ctx() context.Context {
	if s.rootCtx != nil {
		return s.rootCtx
	}
	return context.Background()
}

// Selection returns the currently selected studio id, possibly empty.
func (s *Store) Selection() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Studios returns the studio list and whether a list fetch is in flight.
func (s *Store) Studios() ([]Studio, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.studios, s.studiosLoading
}

// StudiosFailureKind returns the typed failure of the last studio list
// fetch, or "" after a success.
func (s *Store) StudiosFailureKind() dErrors.Code {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.studiosKind
}

// Users returns the scoped user snapshot.
func (s *Store) Users() UsersSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return UsersSnapshot{
		Users:       s.users,
		Loading:     s.loadingUsers,
		FailureKind: s.usersKind,
	}
}

// Started reports whether Start has run, so consumers can suppress
// studio-dependent output until the persisted state has been restored.
func (s *Store) Started() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}
