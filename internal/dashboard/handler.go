// Package dashboard exposes the browser-facing admin API. Handlers read
// from the session and studio stores and proxy mutations to the booking
// backend; nothing here owns business data.
package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"studioadmin/internal/dashboard/device"
	"studioadmin/internal/dashboard/token"
	"studioadmin/internal/platform/metrics"
	"studioadmin/internal/session"
	"studioadmin/internal/studio"
	dErrors "studioadmin/pkg/domain-errors"
	"studioadmin/pkg/platform/httputil"
	request "studioadmin/pkg/platform/middleware/request"
)

// SessionStore is the identity surface the handlers consume.
// *session.Store satisfies it.
type SessionStore interface {
	Recheck(ctx context.Context) bool
	Logout()
	Identity() (session.Identity, bool)
	IsAuthenticated() bool
	IsResolving() bool
	FailureCode() dErrors.Code
	AuthenticatedRequest(ctx context.Context, method, path string, body []byte, headers http.Header) (json.RawMessage, int, error)
}

// StudioStore is the studio-scoped surface the handlers consume.
// *studio.Store satisfies it.
type StudioStore interface {
	Selection() string
	SetSelectedStudio(id string)
	Studios() ([]studio.Studio, bool)
	StudiosFailureKind() dErrors.Code
	Users() studio.UsersSnapshot
	RefreshData(ctx context.Context)
}

// Backend is the unauthenticated slice of the backend client used for
// login and credential teardown. *backend.Client satisfies it.
type Backend interface {
	Login(ctx context.Context, body []byte) (json.RawMessage, error)
	SetCredential(value string)
}

// BookingsReader serves read-through cached bookings fetches.
// *backend.Cache satisfies it.
type BookingsReader interface {
	Get(ctx context.Context, path string) (json.RawMessage, error)
	Invalidate(path string)
}

// Handler handles the dashboard HTTP API.
type Handler struct {
	session  SessionStore
	studio   StudioStore
	backend  Backend
	bookings BookingsReader
	tokens   *token.Service
	devices  *device.Service
	logger   *slog.Logger
	metrics  *metrics.Metrics

	cookieName    string
	secureCookies bool
}

// Config wires a Handler.
type Config struct {
	Session  SessionStore
	Studio   StudioStore
	Backend  Backend
	Bookings BookingsReader
	Tokens   *token.Service
	Devices  *device.Service
	Logger   *slog.Logger
	Metrics  *metrics.Metrics

	CookieName    string
	SecureCookies bool
}

// New creates a dashboard handler.
func New(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Devices == nil {
		cfg.Devices = device.NewService(false)
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "dashboard_session"
	}
	return &Handler{
		session:       cfg.Session,
		studio:        cfg.Studio,
		backend:       cfg.Backend,
		bookings:      cfg.Bookings,
		tokens:        cfg.Tokens,
		devices:       cfg.Devices,
		logger:        cfg.Logger,
		metrics:       cfg.Metrics,
		cookieName:    cfg.CookieName,
		secureCookies: cfg.SecureCookies,
	}
}

// Register registers the dashboard routes with the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/login", h.HandleLogin)

	r.Group(func(r chi.Router) {
		r.Use(h.RequireSession)

		r.Post("/logout", h.HandleLogout)
		r.Get("/admin/me", h.HandleMe)
		r.Post("/admin/session/recheck", h.HandleRecheck)

		r.Get("/admin/studios", h.HandleGetStudios)
		r.Get("/admin/studio-selection", h.HandleGetSelection)
		r.Put("/admin/studio-selection", h.HandlePutSelection)

		r.Get("/admin/users", h.HandleGetUsers)
		r.Post("/admin/users/refresh", h.HandleRefreshUsers)

		r.Post("/admin/trainees", h.HandleCreateTrainee)
		r.Get("/admin/trainees/{traineeID}", h.HandleGetTrainee)
		r.Put("/admin/trainees/{traineeID}", h.HandleUpdateTrainee)
		r.Delete("/admin/trainees/{traineeID}", h.HandleDeleteTrainee)

		r.Get("/admin/class-templates", h.HandleGetClassTemplates)
		r.Post("/admin/class-templates", h.HandleCreateClassTemplate)
		r.Put("/admin/class-templates/{templateID}", h.HandleUpdateClassTemplate)
		r.Delete("/admin/class-templates/{templateID}", h.HandleDeleteClassTemplate)
		r.Post("/admin/schedules/generate", h.HandleGenerateSchedules)
		r.Get("/admin/reservations", h.HandleGetReservations)
	})
}

// HandleLogin forwards credentials to the backend, captures the backend
// session cookie, and issues the dashboard session token.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[loginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	body, err := json.Marshal(req)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode login request"))
		return
	}

	if _, err := h.backend.Login(ctx, body); err != nil {
		if h.metrics != nil {
			h.metrics.AuthFailures.Inc()
		}
		h.logger.WarnContext(ctx, "backend login failed",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	h.session.Recheck(ctx)
	ident, ok := h.session.Identity()
	if !ok {
		if h.metrics != nil {
			h.metrics.AuthFailures.Inc()
		}
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "login accepted but identity did not resolve"))
		return
	}

	userAgent := r.UserAgent()
	deviceName := device.DisplayName(userAgent)
	fingerprint := h.devices.ComputeFingerprint(userAgent)

	signed, err := h.tokens.Generate(ident.ID, ident.Name, deviceName, fingerprint)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue session token"))
		return
	}
	h.setSessionCookie(w, signed, int(h.tokens.TTL().Seconds()))

	h.logger.InfoContext(ctx, "admin logged in",
		"admin_id", ident.ID,
		"device", deviceName,
		"request_id", requestID,
	)

	httputil.WriteJSON(w, http.StatusOK, meResponse{
		AdminID: ident.ID,
		Name:    ident.Name,
		Email:   ident.Email,
	})
}

// HandleLogout tears the session down on both sides. The backend call is
// best effort; the local state is cleared regardless.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	if _, _, err := h.session.AuthenticatedRequest(ctx, http.MethodPost, "/admin/logout", nil, nil); err != nil {
		h.logger.WarnContext(ctx, "backend logout failed",
			"error", err,
			"request_id", requestID,
		)
	}

	h.session.Logout()
	h.backend.SetCredential("")
	h.setSessionCookie(w, "", -1)

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.session.Identity()
	if !ok {
		if h.session.IsResolving() {
			httputil.WriteJSON(w, http.StatusOK, meResponse{Resolving: true})
			return
		}
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "no authenticated admin"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, meResponse{
		AdminID: ident.ID,
		Name:    ident.Name,
		Email:   ident.Email,
	})
}

// HandleRecheck re-resolves identity against the backend. Concurrent
// rechecks collapse into one backend call.
func (h *Handler) HandleRecheck(w http.ResponseWriter, r *http.Request) {
	h.session.Recheck(r.Context())
	h.HandleMe(w, r)
}

func (h *Handler) HandleGetStudios(w http.ResponseWriter, r *http.Request) {
	studios, loading := h.studio.Studios()
	httputil.WriteJSON(w, http.StatusOK, studiosResponse{
		Studios:     studios,
		Loading:     loading,
		FailureKind: string(h.studio.StudiosFailureKind()),
	})
}

func (h *Handler) HandleGetSelection(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, selectionResponse{StudioID: h.studio.Selection()})
}

func (h *Handler) HandlePutSelection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[selectionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	h.studio.SetSelectedStudio(req.StudioID)

	h.logger.InfoContext(ctx, "studio selection changed",
		"studio_id", req.StudioID,
		"request_id", requestID,
	)
	httputil.WriteJSON(w, http.StatusOK, selectionResponse{StudioID: req.StudioID})
}

func (h *Handler) HandleGetUsers(w http.ResponseWriter, r *http.Request) {
	snap := h.studio.Users()
	httputil.WriteJSON(w, http.StatusOK, usersResponse{
		Users:       snap.Users,
		Loading:     snap.Loading,
		FailureKind: string(snap.FailureKind),
	})
}

func (h *Handler) HandleRefreshUsers(w http.ResponseWriter, r *http.Request) {
	h.studio.RefreshData(r.Context())
	h.HandleGetUsers(w, r)
}

func (h *Handler) HandleCreateTrainee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[createTraineeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	body, err := json.Marshal(req)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode trainee"))
		return
	}

	h.proxyMutation(w, r, http.MethodPost, "/admin/trainees", body, http.StatusCreated)
}

func (h *Handler) HandleGetTrainee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	traineeID := chi.URLParam(r, "traineeID")

	payload, _, err := h.session.AuthenticatedRequest(ctx, http.MethodGet, "/admin/trainees/"+url.PathEscape(traineeID), nil, nil)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, payload)
}

func (h *Handler) HandleUpdateTrainee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	traineeID := chi.URLParam(r, "traineeID")
	req, ok := httputil.DecodeAndPrepare[updateTraineeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	body, err := json.Marshal(req)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode trainee"))
		return
	}

	h.proxyMutation(w, r, http.MethodPut, "/admin/trainees/"+url.PathEscape(traineeID), body, http.StatusOK)
}

func (h *Handler) HandleDeleteTrainee(w http.ResponseWriter, r *http.Request) {
	traineeID := chi.URLParam(r, "traineeID")
	h.proxyMutation(w, r, http.MethodDelete, "/admin/trainees/"+url.PathEscape(traineeID), nil, http.StatusNoContent)
}

// proxyMutation forwards a trainee mutation to the backend and refreshes
// the scoped user cache so the dashboard reflects the change immediately.
func (h *Handler) proxyMutation(w http.ResponseWriter, r *http.Request, method, path string, body []byte, successStatus int) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	payload, status, err := h.session.AuthenticatedRequest(ctx, method, path, body, nil)
	if err != nil {
		h.logger.WarnContext(ctx, "trainee mutation failed",
			"method", method,
			"path", path,
			"status", status,
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	h.studio.RefreshData(ctx)

	if len(payload) == 0 {
		w.WriteHeader(successStatus)
		return
	}
	httputil.WriteJSON(w, successStatus, payload)
}

func (h *Handler) HandleGetClassTemplates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	payload, _, err := h.session.AuthenticatedRequest(ctx, http.MethodGet, "/admin/class-templates", nil, nil)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, payload)
}

func (h *Handler) HandleCreateClassTemplate(w http.ResponseWriter, r *http.Request) {
	h.proxyTemplate(w, r, http.MethodPost, "/admin/class-templates", http.StatusCreated)
}

func (h *Handler) HandleUpdateClassTemplate(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateID")
	h.proxyTemplate(w, r, http.MethodPut, "/admin/class-templates/"+url.PathEscape(templateID), http.StatusOK)
}

func (h *Handler) HandleDeleteClassTemplate(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateID")
	h.proxyTemplate(w, r, http.MethodDelete, "/admin/class-templates/"+url.PathEscape(templateID), http.StatusNoContent)
}

// proxyTemplate forwards a class-template mutation verbatim. Templates are
// backend-owned; the gateway only checks that the body is JSON.
func (h *Handler) proxyTemplate(w http.ResponseWriter, r *http.Request, method, path string, successStatus int) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	var body []byte
	if method != http.MethodDelete {
		var err error
		body, err = io.ReadAll(r.Body)
		if err != nil || !json.Valid(body) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
			return
		}
	}

	payload, status, err := h.session.AuthenticatedRequest(ctx, method, path, body, nil)
	if err != nil {
		h.logger.WarnContext(ctx, "class template mutation failed",
			"method", method,
			"path", path,
			"status", status,
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	if len(payload) == 0 {
		w.WriteHeader(successStatus)
		return
	}
	httputil.WriteJSON(w, successStatus, payload)
}

func (h *Handler) HandleGenerateSchedules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[generateSchedulesRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	body, err := json.Marshal(req)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode schedule request"))
		return
	}

	payload, _, err := h.session.AuthenticatedRequest(ctx, http.MethodPost, "/admin/schedules/generate", body, nil)
	if err != nil {
		h.logger.WarnContext(ctx, "schedule generation failed",
			"template_id", req.TemplateID,
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "schedules generated",
		"template_id", req.TemplateID,
		"start_date", req.StartDate,
		"end_date", req.EndDate,
		"request_id", requestID,
	)

	// Generated schedules invalidate any cached bookings views.
	h.bookings.Invalidate("")

	if len(payload) == 0 {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, payload)
}

// HandleGetReservations serves the bookings view for one calendar date.
// Reads go through the short-window cache; payloads are normalized into a
// JSON array regardless of the backend's response shape.
func (h *Handler) HandleGetReservations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	date, err := parseReservationDate(r.URL.Query().Get("date"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	payload, err := h.bookings.Get(ctx, "/admin/bookings?date="+url.QueryEscape(date))
	if err != nil {
		h.logger.WarnContext(ctx, "reservations fetch failed",
			"date", date,
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, payload)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
