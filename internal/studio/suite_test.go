package studio

//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks Session

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"studioadmin/internal/platform/events"
	"studioadmin/internal/sentinel"
	"studioadmin/internal/studio/mocks"
	"studioadmin/internal/studio/selection"
	dErrors "studioadmin/pkg/domain-errors"
	"studioadmin/pkg/platform/circuit"
)

const (
	studiosPath = "/admin/studios"
	usersPathA  = "/admin/users?studio_id=studio-a"
	usersPathB  = "/admin/users?studio_id=studio-b"
	usersPath2  = "/admin/users?studio_id=studio-2"
)

type StoreSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockSession *mocks.MockSession
	bus         *events.Bus
	sel         *selection.MemoryStore
	store       *Store
}

func (s *StoreSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockSession = mocks.NewMockSession(s.ctrl)
	s.bus = events.NewBus()
	s.sel = selection.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.store = New(s.mockSession, s.sel, s.bus, WithLogger(logger))
}

func (s *StoreSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

// expectStudios scripts the studio list fetch any number of times.
func (s *StoreSuite) expectStudios(payload string, err error, counter *atomic.Int64) {
	s.mockSession.EXPECT().
		AuthenticatedRequest(gomock.Any(), http.MethodGet, studiosPath, gomock.Nil(), gomock.Nil()).
		DoAndReturn(func(context.Context, string, string, []byte, http.Header) (json.RawMessage, int, error) {
			if counter != nil {
				counter.Add(1)
			}
			if err != nil {
				return nil, 0, err
			}
			return json.RawMessage(payload), http.StatusOK, nil
		}).AnyTimes()
}

func (s *StoreSuite) eventually(cond func() bool, msg string) {
	s.Require().Eventually(cond, 2*time.Second, 2*time.Millisecond, msg)
}

func (s *StoreSuite) TestSelectionRoundTrip() {
	s.mockSession.EXPECT().IsAuthenticated().Return(false).AnyTimes()
	s.store.Start(context.Background())

	s.store.SetSelectedStudio("studio-2")
	id, err := s.sel.Load()
	s.Require().NoError(err)
	s.Equal("studio-2", id)

	s.store.SetSelectedStudio("")
	_, err = s.sel.Load()
	s.ErrorIs(err, sentinel.ErrNotFound, "empty selection removes the record instead of storing an empty string")
}

func (s *StoreSuite) TestStartRestoresPersistedSelection() {
	s.Require().NoError(s.sel.Save("studio-2"))
	s.mockSession.EXPECT().IsAuthenticated().Return(false).AnyTimes()

	s.store.Start(context.Background())

	s.Equal("studio-2", s.store.Selection())
	s.True(s.store.Users().Loading, "restored selection leaves the cache loading until identity resolves")
	s.True(s.store.Started())
}

func (s *StoreSuite) TestStartWithoutSelectionIsSettled() {
	s.mockSession.EXPECT().IsAuthenticated().Return(false).AnyTimes()

	s.store.Start(context.Background())

	s.Empty(s.store.Selection())
	snap := s.store.Users()
	s.False(snap.Loading)
	s.Empty(snap.Users)
}

func (s *StoreSuite) TestRestartWithIdentityFetchesScopedUsersOnce() {
	s.Require().NoError(s.sel.Save("studio-2"))
	s.mockSession.EXPECT().IsAuthenticated().Return(true).AnyTimes()

	var studioCalls, userCalls atomic.Int64
	s.expectStudios(`[{"id":"studio-2","name":"Studio 2"}]`, nil, &studioCalls)
	s.mockSession.EXPECT().
		AuthenticatedRequest(gomock.Any(), http.MethodGet, usersPath2, gomock.Nil(), gomock.Nil()).
		DoAndReturn(func(context.Context, string, string, []byte, http.Header) (json.RawMessage, int, error) {
			userCalls.Add(1)
			return json.RawMessage(`[{"id":"t1","name":"Alex"}]`), http.StatusOK, nil
		}).AnyTimes()

	s.store.Start(context.Background())

	s.eventually(func() bool {
		snap := s.store.Users()
		return !snap.Loading && len(snap.Users) == 1
	}, "scoped users should load for the restored selection")

	s.Equal(int64(1), userCalls.Load(), "exactly one scoped fetch per identity+start resolution")
	s.Equal(int64(1), studioCalls.Load())
}

func (s *StoreSuite) TestIdentityArrivalTriggersStudioFetch() {
	s.mockSession.EXPECT().IsAuthenticated().Return(false).AnyTimes()
	var studioCalls atomic.Int64
	s.expectStudios(`[{"id":"studio-1","name":"Studio 1"}]`, nil, &studioCalls)

	s.store.Start(context.Background())
	s.bus.PublishIdentity(events.IdentityChanged{Present: true, AdminID: "admin-1"})

	s.eventually(func() bool {
		studios, loading := s.store.Studios()
		return !loading && len(studios) == 1
	}, "studio list should load after identity resolves")
	s.Empty(s.store.StudiosFailureKind())
}

func (s *StoreSuite) TestStudioFetchNotFoundServesFallback() {
	s.mockSession.EXPECT().IsAuthenticated().Return(false).AnyTimes()
	s.expectStudios("", dErrors.New(dErrors.CodeNotFound, "backend resource not found"), nil)

	s.store.Start(context.Background())
	s.bus.PublishIdentity(events.IdentityChanged{Present: true, AdminID: "admin-1"})

	s.eventually(func() bool {
		studios, loading := s.store.Studios()
		return !loading && len(studios) == 3
	}, "not-found should degrade to the placeholder set")

	studios, _ := s.store.Studios()
	s.Equal(FallbackStudios(), studios)
	s.Equal(dErrors.CodeNotFound, s.store.StudiosFailureKind())
}

func (s *StoreSuite) TestStudioFetchServerErrorServesFallback() {
	s.mockSession.EXPECT().IsAuthenticated().Return(false).AnyTimes()
	s.expectStudios("", dErrors.New(dErrors.CodeUpstreamError, "backend server error"), nil)

	s.store.Start(context.Background())
	s.bus.PublishIdentity(events.IdentityChanged{Present: true, AdminID: "admin-1"})

	s.eventually(func() bool {
		studios, _ := s.store.Studios()
		return len(studios) == 3
	}, "server error should degrade to the placeholder set")
}

func (s *StoreSuite) TestStudioFetchOtherFailureYieldsEmptyList() {
	s.mockSession.EXPECT().IsAuthenticated().Return(false).AnyTimes()
	s.expectStudios("", dErrors.New(dErrors.CodeTimeout, "request timeout"), nil)

	s.store.Start(context.Background())
	s.bus.PublishIdentity(events.IdentityChanged{Present: true, AdminID: "admin-1"})

	s.eventually(func() bool {
		_, loading := s.store.Studios()
		return !loading
	}, "fetch should settle")

	studios, _ := s.store.Studios()
	s.Empty(studios)
	s.Equal(dErrors.CodeTimeout, s.store.StudiosFailureKind())
}

func (s *StoreSuite) TestMalformedStudioPayloadYieldsEmptyList() {
	s.mockSession.EXPECT().IsAuthenticated().Return(false).AnyTimes()
	s.expectStudios(`{"studios":"not-a-sequence"}`, nil, nil)

	s.store.Start(context.Background())
	s.bus.PublishIdentity(events.IdentityChanged{Present: true, AdminID: "admin-1"})

	s.eventually(func() bool {
		return s.store.StudiosFailureKind() == dErrors.CodeMalformedResponse
	}, "non-sequence payload is a malformed-response failure")

	studios, _ := s.store.Studios()
	s.Empty(studios)
}

func (s *StoreSuite) TestOpenBreakerProbeFailureServesFallback() {
	breaker := circuit.New("studio-list", circuit.WithFailureThreshold(1))
	breaker.RecordFailure()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := New(s.mockSession, s.sel, s.bus, WithLogger(logger), WithBreaker(breaker))

	s.mockSession.EXPECT().IsAuthenticated().Return(false).AnyTimes()
	// A timeout normally yields an empty list; while the circuit is open
	// the failed probe degrades to the placeholder set instead.
	s.expectStudios("", dErrors.New(dErrors.CodeTimeout, "request timeout"), nil)

	store.Start(context.Background())
	s.bus.PublishIdentity(events.IdentityChanged{Present: true, AdminID: "admin-1"})

	s.eventually(func() bool {
		studios, loading := store.Studios()
		return !loading && len(studios) == 3
	}, "a failed probe while open should serve the placeholder set")
	s.Equal(dErrors.CodeTimeout, store.StudiosFailureKind())
	s.True(breaker.IsOpen())
}

func (s *StoreSuite) TestBreakerRecoveryRestoresStudioList() {
	breaker := circuit.New("studio-list",
		circuit.WithFailureThreshold(1),
		circuit.WithSuccessThreshold(1),
	)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := New(s.mockSession, s.sel, s.bus, WithLogger(logger), WithBreaker(breaker))

	s.mockSession.EXPECT().IsAuthenticated().Return(false).AnyTimes()
	var calls atomic.Int64
	var healthy atomic.Bool
	s.mockSession.EXPECT().
		AuthenticatedRequest(gomock.Any(), http.MethodGet, studiosPath, gomock.Nil(), gomock.Nil()).
		DoAndReturn(func(context.Context, string, string, []byte, http.Header) (json.RawMessage, int, error) {
			calls.Add(1)
			if !healthy.Load() {
				return nil, 0, dErrors.New(dErrors.CodeUpstreamError, "backend server error")
			}
			return json.RawMessage(`[{"id":"studio-2","name":"Studio 2"}]`), http.StatusOK, nil
		}).AnyTimes()

	store.Start(context.Background())
	s.bus.PublishIdentity(events.IdentityChanged{Present: true, AdminID: "admin-1"})
	s.eventually(func() bool {
		studios, _ := store.Studios()
		return len(studios) == 3
	}, "the first failure opens the circuit and serves the placeholder set")
	s.True(breaker.IsOpen())

	healthy.Store(true)
	s.bus.PublishIdentity(events.IdentityChanged{Present: true, AdminID: "admin-1"})
	s.eventually(func() bool {
		studios, _ := store.Studios()
		return len(studios) == 1 && studios[0].ID == "studio-2"
	}, "a probe while open must reach the backend and restore the real list")
	s.False(breaker.IsOpen(), "a successful probe closes the circuit")
	s.Equal(int64(2), calls.Load())
	s.Empty(store.StudiosFailureKind())
}

func (s *StoreSuite) TestIdentityArrivalRaisesStudioLoadingImmediately() {
	s.mockSession.EXPECT().IsAuthenticated().Return(false).AnyTimes()
	release := make(chan struct{})
	s.mockSession.EXPECT().
		AuthenticatedRequest(gomock.Any(), http.MethodGet, studiosPath, gomock.Nil(), gomock.Nil()).
		DoAndReturn(func(context.Context, string, string, []byte, http.Header) (json.RawMessage, int, error) {
			<-release
			return json.RawMessage(`[]`), http.StatusOK, nil
		})

	s.store.Start(context.Background())
	s.bus.PublishIdentity(events.IdentityChanged{Present: true, AdminID: "admin-1"})

	_, loading := s.store.Studios()
	s.True(loading, "the loading flag rises at the trigger, not inside the fetch goroutine")

	close(release)
	s.eventually(func() bool {
		_, loading := s.store.Studios()
		return !loading
	}, "fetch should settle")
}

func (s *StoreSuite) TestNoSelectionMeansNoScopedFetch() {
	s.mockSession.EXPECT().IsAuthenticated().Return(true).AnyTimes()
	var userCalls atomic.Int64
	s.expectStudios(`[]`, nil, nil)
	// Any scoped user call would increment; assert it stays zero.
	s.mockSession.EXPECT().
		AuthenticatedRequest(gomock.Any(), http.MethodGet, gomock.Not(studiosPath), gomock.Nil(), gomock.Nil()).
		DoAndReturn(func(context.Context, string, string, []byte, http.Header) (json.RawMessage, int, error) {
			userCalls.Add(1)
			return json.RawMessage(`[]`), http.StatusOK, nil
		}).AnyTimes()

	s.store.Start(context.Background())
	s.bus.PublishIdentity(events.IdentityChanged{Present: true, AdminID: "admin-1"})
	time.Sleep(20 * time.Millisecond)

	snap := s.store.Users()
	s.False(snap.Loading)
	s.Empty(snap.Users)
	s.Zero(userCalls.Load(), "no scoped fetch may be attempted while no studio is selected")
}

func (s *StoreSuite) TestSupersededFetchIsDiscarded() {
	s.mockSession.EXPECT().IsAuthenticated().Return(true).AnyTimes()
	s.expectStudios(`[]`, nil, nil)

	releaseA := make(chan struct{})
	s.mockSession.EXPECT().
		AuthenticatedRequest(gomock.Any(), http.MethodGet, usersPathA, gomock.Nil(), gomock.Nil()).
		DoAndReturn(func(context.Context, string, string, []byte, http.Header) (json.RawMessage, int, error) {
			<-releaseA
			return json.RawMessage(`[{"id":"from-a","name":"Stale"}]`), http.StatusOK, nil
		})
	s.mockSession.EXPECT().
		AuthenticatedRequest(gomock.Any(), http.MethodGet, usersPathB, gomock.Nil(), gomock.Nil()).
		Return(json.RawMessage(`[{"id":"from-b","name":"Current"}]`), http.StatusOK, nil)

	s.store.Start(context.Background())
	s.store.SetSelectedStudio("studio-a")
	s.store.SetSelectedStudio("studio-b")

	s.eventually(func() bool {
		snap := s.store.Users()
		return !snap.Loading && len(snap.Users) == 1 && snap.Users[0].ID == "from-b"
	}, "the later selection's result should win")

	// Now let the stale fetch resolve; its result must be discarded.
	close(releaseA)
	time.Sleep(20 * time.Millisecond)

	snap := s.store.Users()
	s.Require().Len(snap.Users, 1)
	s.Equal("from-b", snap.Users[0].ID, "a superseded fetch result must never overwrite the current one")
	s.False(snap.Loading)
}

func (s *StoreSuite) TestClearingSelectionEmptiesCache() {
	s.mockSession.EXPECT().IsAuthenticated().Return(true).AnyTimes()
	s.expectStudios(`[]`, nil, nil)
	s.mockSession.EXPECT().
		AuthenticatedRequest(gomock.Any(), http.MethodGet, usersPathA, gomock.Nil(), gomock.Nil()).
		Return(json.RawMessage(`[{"id":"t1","name":"Alex"}]`), http.StatusOK, nil).
		AnyTimes()

	s.store.Start(context.Background())
	s.store.SetSelectedStudio("studio-a")
	s.eventually(func() bool {
		return len(s.store.Users().Users) == 1
	}, "scoped users should load")

	s.store.SetSelectedStudio("")

	snap := s.store.Users()
	s.Empty(snap.Users)
	s.False(snap.Loading)
	s.Empty(s.store.Selection())
}

func (s *StoreSuite) TestScopedFetchFailureResetsToEmpty() {
	s.mockSession.EXPECT().IsAuthenticated().Return(true).AnyTimes()
	s.expectStudios(`[]`, nil, nil)
	s.mockSession.EXPECT().
		AuthenticatedRequest(gomock.Any(), http.MethodGet, usersPathA, gomock.Nil(), gomock.Nil()).
		Return(nil, 0, dErrors.New(dErrors.CodeTimeout, "request timeout")).
		AnyTimes()

	s.store.Start(context.Background())
	s.store.SetSelectedStudio("studio-a")

	s.eventually(func() bool {
		snap := s.store.Users()
		return !snap.Loading && snap.FailureKind == dErrors.CodeTimeout
	}, "failure should settle with a typed kind")
	s.Empty(s.store.Users().Users)
}

func (s *StoreSuite) TestRefreshDataNoopWithoutSelection() {
	s.mockSession.EXPECT().IsAuthenticated().Return(true).AnyTimes()
	s.expectStudios(`[]`, nil, nil)

	s.store.Start(context.Background())
	// No scoped expectation registered; a fetch would fail the test.
	s.store.RefreshData(context.Background())
}

func (s *StoreSuite) TestRefreshDataRefetchesCurrentSelection() {
	s.mockSession.EXPECT().IsAuthenticated().Return(true).AnyTimes()
	s.expectStudios(`[]`, nil, nil)

	var userCalls atomic.Int64
	s.mockSession.EXPECT().
		AuthenticatedRequest(gomock.Any(), http.MethodGet, usersPathA, gomock.Nil(), gomock.Nil()).
		DoAndReturn(func(context.Context, string, string, []byte, http.Header) (json.RawMessage, int, error) {
			userCalls.Add(1)
			return json.RawMessage(`[]`), http.StatusOK, nil
		}).AnyTimes()

	s.store.Start(context.Background())
	s.store.SetSelectedStudio("studio-a")
	s.eventually(func() bool { return userCalls.Load() == 1 }, "initial fetch")

	s.store.RefreshData(context.Background())
	s.Equal(int64(2), userCalls.Load(), "refresh re-runs the fetch for the unchanged selection")
	s.Equal("studio-a", s.store.Selection())
}

func (s *StoreSuite) TestFreshLoadSelectScenario() {
	// Fresh load, no persisted selection, identity resolves, admin picks
	// studio-2: one studios fetch, one scoped fetch, selection persisted,
	// loadingUsers brackets the fetch.
	s.mockSession.EXPECT().IsAuthenticated().Return(true).AnyTimes()

	var studioCalls atomic.Int64
	s.expectStudios(`[{"id":"studio-2","name":"Studio 2"}]`, nil, &studioCalls)

	release := make(chan struct{})
	var userCalls atomic.Int64
	s.mockSession.EXPECT().
		AuthenticatedRequest(gomock.Any(), http.MethodGet, usersPath2, gomock.Nil(), gomock.Nil()).
		DoAndReturn(func(context.Context, string, string, []byte, http.Header) (json.RawMessage, int, error) {
			userCalls.Add(1)
			<-release
			return json.RawMessage(`[{"id":"t1","name":"Alex"}]`), http.StatusOK, nil
		})

	s.store.Start(context.Background())
	s.bus.PublishIdentity(events.IdentityChanged{Present: true, AdminID: "admin-1"})
	s.store.SetSelectedStudio("studio-2")

	s.eventually(func() bool { return s.store.Users().Loading }, "loading flag should rise while the fetch is in flight")
	close(release)
	s.eventually(func() bool {
		snap := s.store.Users()
		return !snap.Loading && len(snap.Users) == 1
	}, "loading flag should fall once the fetch resolves")

	s.Equal(int64(1), studioCalls.Load())
	s.Equal(int64(1), userCalls.Load())
	persisted, err := s.sel.Load()
	s.Require().NoError(err)
	s.Equal("studio-2", persisted)
}

func (s *StoreSuite) TestIdentityLossClearsScopedUsers() {
	s.mockSession.EXPECT().IsAuthenticated().Return(true).AnyTimes()
	s.expectStudios(`[]`, nil, nil)
	s.mockSession.EXPECT().
		AuthenticatedRequest(gomock.Any(), http.MethodGet, usersPathA, gomock.Nil(), gomock.Nil()).
		Return(json.RawMessage(`[{"id":"t1","name":"Alex"}]`), http.StatusOK, nil).
		AnyTimes()

	s.store.Start(context.Background())
	s.store.SetSelectedStudio("studio-a")
	s.eventually(func() bool { return len(s.store.Users().Users) == 1 }, "scoped users should load")

	s.bus.PublishIdentity(events.IdentityChanged{Present: false})

	snap := s.store.Users()
	s.Empty(snap.Users)
	s.False(snap.Loading)
}
