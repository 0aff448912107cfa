package backend

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	dErrors "studioadmin/pkg/domain-errors"
)

// fakeDoer scripts backend responses without a network.
type fakeDoer struct {
	calls    int
	requests []*http.Request
	respond  func(req *http.Request) (*http.Response, error)
}

func (f *fakeDoer) Do(req *http.Request) (*http.Response, error) {
	f.calls++
	f.requests = append(f.requests, req)
	return f.respond(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

type ClientSuite struct {
	suite.Suite
	doer   *fakeDoer
	client *Client
}

func (s *ClientSuite) SetupTest() {
	s.doer = &fakeDoer{
		respond: func(*http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{}`), nil
		},
	}
	s.client = New(Config{
		BaseURL:    "http://backend.test",
		CookieName: "admin_session",
		HTTPClient: s.doer,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) TestEmptyPathShortCircuits() {
	payload, err := s.client.Get(context.Background(), "")
	s.NoError(err)
	s.Nil(payload)
	s.Zero(s.doer.calls, "no network call may be attempted for an empty path")
}

func (s *ClientSuite) TestCredentialCookieAttached() {
	s.client.SetCredential("sess-abc")
	_, err := s.client.Get(context.Background(), "/admin/me")
	s.Require().NoError(err)

	cookie, err := s.doer.requests[0].Cookie("admin_session")
	s.Require().NoError(err)
	s.Equal("sess-abc", cookie.Value)
}

func (s *ClientSuite) TestClearedCredentialNotAttached() {
	s.client.SetCredential("sess-abc")
	s.client.SetCredential("")
	_, err := s.client.Get(context.Background(), "/admin/me")
	s.Require().NoError(err)

	_, err = s.doer.requests[0].Cookie("admin_session")
	s.ErrorIs(err, http.ErrNoCookie)
}

func (s *ClientSuite) TestTimeoutYieldsTimeoutError() {
	s.doer.respond = func(req *http.Request) (*http.Response, error) {
		<-req.Context().Done()
		return nil, req.Context().Err()
	}
	client := New(Config{
		BaseURL:    "http://backend.test",
		CookieName: "admin_session",
		Timeout:    20 * time.Millisecond,
		HTTPClient: s.doer,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	_, err := client.Get(context.Background(), "/admin/users?studio_id=studio-1")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	s.Contains(err.Error(), "request timeout")
}

func (s *ClientSuite) TestTransportFailureYieldsUnavailable() {
	s.doer.respond = func(*http.Request) (*http.Response, error) {
		return nil, io.ErrUnexpectedEOF
	}
	_, err := s.client.Get(context.Background(), "/admin/studios")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func (s *ClientSuite) TestStatusClassification() {
	cases := []struct {
		status int
		code   dErrors.Code
	}{
		{http.StatusUnauthorized, dErrors.CodeUnauthorized},
		{http.StatusForbidden, dErrors.CodeUnauthorized},
		{http.StatusNotFound, dErrors.CodeNotFound},
		{http.StatusConflict, dErrors.CodeConflict},
		{http.StatusInternalServerError, dErrors.CodeUpstreamError},
		{http.StatusBadGateway, dErrors.CodeUpstreamError},
		{http.StatusUnprocessableEntity, dErrors.CodeBadRequest},
	}
	for _, tc := range cases {
		s.Run(http.StatusText(tc.status), func() {
			s.doer.respond = func(*http.Request) (*http.Response, error) {
				return jsonResponse(tc.status, `{"error":"nope"}`), nil
			}
			_, status, err := s.client.Do(context.Background(), http.MethodGet, "/admin/studios", nil, nil)
			s.Require().Error(err)
			s.Equal(tc.status, status)
			s.True(dErrors.HasCode(err, tc.code), "status %d should map to %s", tc.status, tc.code)
		})
	}
}

func (s *ClientSuite) TestCallerHeadersReplaceDefaults() {
	var seen http.Header
	s.doer.respond = func(req *http.Request) (*http.Response, error) {
		seen = req.Header
		return jsonResponse(http.StatusOK, `{}`), nil
	}

	headers := http.Header{}
	headers.Set("Content-Type", "text/plain")
	headers.Set("X-User-Id", "admin-7")
	_, _, err := s.client.Do(context.Background(), http.MethodPost, "/admin/trainees", []byte(`{}`), headers)
	s.Require().NoError(err)

	s.Equal("text/plain", seen.Get("Content-Type"), "caller-supplied header wins over the default")
	s.Equal("admin-7", seen.Get("X-User-Id"))
}

func (s *ClientSuite) TestBookingsResponsesNormalized() {
	s.doer.respond = func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"bookings":[{"id":"b1"},{"id":"b2"}]}`), nil
	}

	payload, err := s.client.Get(context.Background(), "/admin/bookings?date=2026-03-01")
	s.Require().NoError(err)
	s.JSONEq(`[{"id":"b1"},{"id":"b2"}]`, string(payload))
}

func (s *ClientSuite) TestNonBookingsResponsesPassThrough() {
	s.doer.respond = func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"id":"studio-1"}`), nil
	}

	payload, err := s.client.Get(context.Background(), "/admin/studios")
	s.Require().NoError(err)
	s.JSONEq(`{"id":"studio-1"}`, string(payload))
}

func (s *ClientSuite) TestLoginCapturesSessionCookie() {
	s.doer.respond = func(*http.Request) (*http.Response, error) {
		resp := jsonResponse(http.StatusOK, `{"ok":true}`)
		resp.Header.Add("Set-Cookie", "admin_session=sess-xyz; Path=/; HttpOnly")
		return resp, nil
	}

	payload, err := s.client.Login(context.Background(), []byte(`{"email":"a@example.com","password":"x"}`))
	s.Require().NoError(err)
	s.JSONEq(`{"ok":true}`, string(payload))
	s.Equal("sess-xyz", s.client.Credential())
	s.Equal("/admin/login", s.doer.requests[0].URL.Path)
	s.Equal(http.MethodPost, s.doer.requests[0].Method)
}

func (s *ClientSuite) TestLoginRejectedCredentials() {
	s.doer.respond = func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, `{}`), nil
	}

	_, err := s.client.Login(context.Background(), []byte(`{"email":"a@example.com","password":"wrong"}`))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.Empty(s.client.Credential())
}

func (s *ClientSuite) TestLoginResponseMissingCookie() {
	s.doer.respond = func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"ok":true}`), nil
	}

	_, err := s.client.Login(context.Background(), []byte(`{"email":"a@example.com","password":"x"}`))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeMalformedResponse))
	s.Empty(s.client.Credential())
}
