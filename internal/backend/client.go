// Package backend wraps all outbound HTTP to the booking backend. The
// gateway owns no business data; every fetch here is a proxy call whose
// failure must degrade into a typed error the stores can branch on.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"studioadmin/internal/platform/metrics"
	dErrors "studioadmin/pkg/domain-errors"
)

// Doer is the minimal interface needed from an HTTP client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues fetches against the booking backend. Every request carries
// the backend session cookie (when one is held) and is bounded by a hard
// timeout.
type Client struct {
	baseURL    string
	cookieName string
	client     Doer
	timeout    time.Duration
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer

	mu         sync.RWMutex
	credential string
}

// Config configures a backend client.
type Config struct {
	BaseURL    string
	CookieName string
	Timeout    time.Duration
	HTTPClient Doer
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	Tracer     trace.Tracer
}

const defaultTimeout = 5 * time.Second

// New creates a backend client.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.HTTPClient == nil {
		// The per-request context deadline is the authoritative bound;
		// the transport timeout is a backstop for response body reads.
		cfg.HTTPClient = &http.Client{Timeout: 2 * cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = otel.Tracer("studioadmin/backend")
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		cookieName: cfg.CookieName,
		client:     cfg.HTTPClient,
		timeout:    cfg.Timeout,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		tracer:     cfg.Tracer,
	}
}

// SetCredential stores the backend session cookie value attached to every
// subsequent request. An empty value clears it.
func (c *Client) SetCredential(value string) {
	c.mu.Lock()
	c.credential = value
	c.mu.Unlock()
}

// Credential returns the currently held backend session cookie value.
func (c *Client) Credential() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.credential
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get fetches the given path and returns the raw JSON payload. An empty
// path short-circuits to a nil payload without any network call. Responses
// from the bookings endpoint family are normalized into a JSON array (see
// NormalizeBookings); everything else passes through unmodified.
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	if path == "" {
		return nil, nil
	}
	payload, _, err := c.Do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	if isBookingsPath(path) {
		return NormalizeBookings(payload), nil
	}
	return payload, nil
}

// Login posts credentials to the backend login endpoint and captures the
// session cookie from the response. The captured value becomes the
// credential attached to every subsequent request.
func (c *Client) Login(ctx context.Context, body []byte) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, "backend.login")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/admin/login", bytes.NewReader(body))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	if c.metrics != nil {
		c.metrics.BackendRequests.WithLabelValues("login").Inc()
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "request timeout")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "backend unreachable")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeMalformedResponse, "failed to read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := statusError(resp.StatusCode)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	for _, ck := range resp.Cookies() {
		if ck.Name == c.cookieName {
			c.SetCredential(ck.Value)
			return payload, nil
		}
	}
	return nil, dErrors.New(dErrors.CodeMalformedResponse, "login response missing session cookie")
}

// Do issues a request with the given method, path, optional JSON body, and
// extra headers. It returns the response payload and status code, or a
// domain error classifying the failure. Non-2xx statuses are returned as
// errors alongside the status code so callers can branch on it.
func (c *Client) Do(ctx context.Context, method, path string, body []byte, headers http.Header) (json.RawMessage, int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := endpointFamily(path)
	ctx, span := c.tracer.Start(ctx, "backend."+strings.ToLower(method),
		trace.WithAttributes(
			attribute.String("backend.path", path),
			attribute.String("backend.endpoint", endpoint),
		))
	start := time.Now()

	payload, status, err := c.do(ctx, method, path, body, headers)

	if c.metrics != nil {
		c.metrics.BackendRequests.WithLabelValues(endpoint).Inc()
		c.metrics.BackendLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		if err != nil {
			c.metrics.BackendFailures.WithLabelValues(string(dErrors.CodeOf(err))).Inc()
		}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()

	return payload, status, err
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, headers http.Header) (json.RawMessage, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create request")
	}

	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range headers {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if cred := c.Credential(); cred != "" {
		req.AddCookie(&http.Cookie{Name: c.cookieName, Value: cred})
	}

	resp, err := c.client.Do(req)
	if err != nil {
		// A cancelled request surfaces as a transport error; translate the
		// deadline case into the distinct timeout failure kind.
		if ctx.Err() == context.DeadlineExceeded {
			return nil, 0, dErrors.Wrap(err, dErrors.CodeTimeout, "request timeout")
		}
		return nil, 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "backend unreachable")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, resp.StatusCode, dErrors.Wrap(err, dErrors.CodeTimeout, "request timeout")
		}
		return nil, resp.StatusCode, dErrors.Wrap(err, dErrors.CodeMalformedResponse, "failed to read response")
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return payload, resp.StatusCode, nil
	}
	return payload, resp.StatusCode, statusError(resp.StatusCode)
}

func statusError(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &dErrors.Error{Code: dErrors.CodeUnauthorized, Message: "backend rejected credentials"}
	case status == http.StatusNotFound:
		return &dErrors.Error{Code: dErrors.CodeNotFound, Message: "backend resource not found"}
	case status == http.StatusConflict:
		return &dErrors.Error{Code: dErrors.CodeConflict, Message: "backend reported a conflict"}
	case status >= 500:
		return &dErrors.Error{Code: dErrors.CodeUpstreamError, Message: "backend server error"}
	default:
		return &dErrors.Error{Code: dErrors.CodeBadRequest, Message: "backend rejected request"}
	}
}

// endpointFamily collapses a path into a low-cardinality metrics label.
func endpointFamily(path string) string {
	trimmed := strings.TrimPrefix(path, "/admin/")
	if trimmed == path {
		return "other"
	}
	if i := strings.IndexAny(trimmed, "/?"); i >= 0 {
		trimmed = trimmed[:i]
	}
	if trimmed == "" {
		return "other"
	}
	return trimmed
}
